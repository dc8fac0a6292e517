package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/arcaneplugins/levelledmobs/api/v1"
	"github.com/arcaneplugins/levelledmobs/internal/models"
)

// ServerLoad signals that the host server finished loading
// (POST /server/load)
func (h *Handler) ServerLoad(c *gin.Context) {
	var req v1.ServerLoadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	task := h.startup.OnServerLoad(models.LoadType(req.Type))

	c.JSON(http.StatusOK, v1.ServerLoadResponse{
		FinishedLoading:       h.startup.HasFinishedLoading(),
		PendingItemsScheduled: task != nil,
	})
}
