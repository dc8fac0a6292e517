package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/arcaneplugins/levelledmobs/api/v1"
	"github.com/arcaneplugins/levelledmobs/internal/models"
	srvErrors "github.com/arcaneplugins/levelledmobs/pkg/errors"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// GetQueue returns the queue status
// (GET /queue)
func (h *Handler) GetQueue(c *gin.Context) {
	var resp v1.QueueStatus
	resp.FromModel(h.queueSrv.Status())
	c.JSON(http.StatusOK, resp)
}

// EnqueueItems queues spawned mobs for levelling. Items are all validated
// before the first one is queued.
// (POST /queue/items)
func (h *Handler) EnqueueItems(c *gin.Context) {
	var req v1.EnqueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	items := make([]models.QueueItem, 0, len(req.Items))
	for _, i := range req.Items {
		item, err := i.ToModel()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		items = append(items, item)
	}

	var resp v1.EnqueueResponse
	for _, item := range items {
		admitted, err := h.queueSrv.Add(item)
		if srvErrors.IsQueueStoppedError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			zap.S().Named("queue_handler").Errorw("failed to enqueue item", "entity", item.EntityID(), "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to enqueue item"})
			return
		}
		if admitted {
			resp.Admitted++
		} else {
			resp.Duplicates++
		}
	}

	c.JSON(http.StatusAccepted, resp)
}

// ClearQueue drops every pending item
// (DELETE /queue)
func (h *Handler) ClearQueue(c *gin.Context) {
	c.JSON(http.StatusOK, v1.ClearResponse{Cleared: h.queueSrv.Clear()})
}

// StartQueue starts the workers and the health check
// (POST /queue/start)
func (h *Handler) StartQueue(c *gin.Context) {
	h.queueSrv.Start()
	h.GetQueue(c)
}

// StopQueue asks the workers to exit. It does not wait for them.
// (POST /queue/stop)
func (h *Handler) StopQueue(c *gin.Context) {
	h.queueSrv.Stop()

	var resp v1.QueueStatus
	resp.FromModel(h.queueSrv.Status())
	c.JSON(http.StatusAccepted, resp)
}

// CheckQueueHealth runs the watchdog once
// (POST /queue/health)
func (h *Handler) CheckQueueHealth(c *gin.Context) {
	c.JSON(http.StatusOK, v1.HealthCheckResponse{Restarted: h.queueSrv.CheckHealth()})
}

// GetRestarts lists the journaled worker restarts
// (GET /queue/restarts)
func (h *Handler) GetRestarts(c *gin.Context, params v1.GetRestartsParams) {
	svcParams, err := params.ToServiceParams()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if svcParams.Limit == 0 {
		svcParams.Limit = defaultPageSize
	}
	if svcParams.Limit > maxPageSize {
		svcParams.Limit = maxPageSize
	}

	result, err := h.journal.List(c.Request.Context(), svcParams)
	if err != nil {
		zap.S().Named("queue_handler").Errorw("failed to list worker restarts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list worker restarts"})
		return
	}

	c.JSON(http.StatusOK, v1.NewWorkerRestartListFromModel(result))
}
