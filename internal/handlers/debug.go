package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	v1 "github.com/arcaneplugins/levelledmobs/api/v1"
	"github.com/arcaneplugins/levelledmobs/internal/models"
)

// GetDebug returns the debug status
// (GET /debug)
func (h *Handler) GetDebug(c *gin.Context) {
	var resp v1.DebugStatus
	resp.FromModel(h.debug.Status())
	c.JSON(http.StatusOK, resp)
}

// UpdateDebug changes the debug settings. Nothing is applied when any field is invalid.
// (PUT /debug)
func (h *Handler) UpdateDebug(c *gin.Context) {
	var req v1.UpdateDebugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	var disableAfter *time.Duration
	if req.DisableAfter != nil {
		d, err := time.ParseDuration(*req.DisableAfter)
		if err != nil || d < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid disableAfter: " + *req.DisableAfter})
			return
		}
		disableAfter = &d
	}

	var filters *models.DebugFilters
	if req.Filters != nil {
		f, err := req.Filters.ToModel()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		filters = &f
	}

	if disableAfter != nil {
		h.debug.SetDisableAfter(*disableAfter)
	}
	if req.ResetFilters {
		h.debug.ResetFilters()
	}
	if filters != nil {
		h.debug.SetFilters(*filters)
	}
	if req.Enabled != nil {
		if *req.Enabled {
			h.debug.Enable(req.UseTimer, req.BypassAllFilters)
		} else {
			h.debug.Disable()
		}
	}

	h.GetDebug(c)
}
