package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/arcaneplugins/levelledmobs/api/v1"
	"github.com/arcaneplugins/levelledmobs/internal/models"
)

// GetSettings returns the runtime settings
// (GET /settings)
func (h *Handler) GetSettings(c *gin.Context) {
	var resp v1.Settings
	resp.FromModel(h.queueSrv.Settings())
	c.JSON(http.StatusOK, resp)
}

// UpdateSettings persists and applies the runtime settings
// (PUT /settings)
func (h *Handler) UpdateSettings(c *gin.Context) {
	var req v1.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	settings, err := h.queueSrv.UpdateSettings(c.Request.Context(), models.Settings{
		IgnoreMobsWithNoPlayerContext: *req.IgnoreMobsWithNoPlayerContext,
	})
	if err != nil {
		zap.S().Named("settings_handler").Errorw("failed to update settings", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update settings"})
		return
	}

	var resp v1.Settings
	resp.FromModel(*settings)
	c.JSON(http.StatusOK, resp)
}
