package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface is implemented by the admin API handlers.
type ServerInterface interface {
	// (GET /queue)
	GetQueue(c *gin.Context)
	// (POST /queue/items)
	EnqueueItems(c *gin.Context)
	// (DELETE /queue)
	ClearQueue(c *gin.Context)
	// (POST /queue/start)
	StartQueue(c *gin.Context)
	// (POST /queue/stop)
	StopQueue(c *gin.Context)
	// (POST /queue/health)
	CheckQueueHealth(c *gin.Context)
	// (GET /queue/restarts)
	GetRestarts(c *gin.Context, params GetRestartsParams)
	// (GET /settings)
	GetSettings(c *gin.Context)
	// (PUT /settings)
	UpdateSettings(c *gin.Context)
	// (GET /debug)
	GetDebug(c *gin.Context)
	// (PUT /debug)
	UpdateDebug(c *gin.Context)
	// (POST /server/load)
	ServerLoad(c *gin.Context)
}

// ServerInterfaceWrapper binds the parameters of each operation before calling the handler.
type ServerInterfaceWrapper struct {
	Handler      ServerInterface
	ErrorHandler func(*gin.Context, error, int)
}

// GetRestarts operation middleware
func (siw *ServerInterfaceWrapper) GetRestarts(c *gin.Context) {
	var err error
	var params GetRestartsParams
	query := c.Request.URL.Query()

	err = runtime.BindQueryParameter("form", true, false, "reason", query, &params.Reason)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("invalid format for parameter reason: %w", err), http.StatusBadRequest)
		return
	}

	err = runtime.BindQueryParameter("form", true, false, "workerId", query, &params.WorkerId)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("invalid format for parameter workerId: %w", err), http.StatusBadRequest)
		return
	}

	err = runtime.BindQueryParameter("form", true, false, "since", query, &params.Since)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("invalid format for parameter since: %w", err), http.StatusBadRequest)
		return
	}

	err = runtime.BindQueryParameter("form", true, false, "limit", query, &params.Limit)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("invalid format for parameter limit: %w", err), http.StatusBadRequest)
		return
	}

	err = runtime.BindQueryParameter("form", true, false, "offset", query, &params.Offset)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("invalid format for parameter offset: %w", err), http.StatusBadRequest)
		return
	}

	siw.Handler.GetRestarts(c, params)
}

type RegisterOptions struct {
	// EnqueueMiddlewares run in front of POST /queue/items only.
	EnqueueMiddlewares []gin.HandlerFunc
	ErrorHandler       func(*gin.Context, error, int)
}

func RegisterHandlers(router gin.IRoutes, si ServerInterface) {
	RegisterHandlersWithOptions(router, si, RegisterOptions{})
}

// RegisterHandlersWithOptions registers every operation of openapi.yaml on router.
func RegisterHandlersWithOptions(router gin.IRoutes, si ServerInterface, opts RegisterOptions) {
	errorHandler := opts.ErrorHandler
	if errorHandler == nil {
		errorHandler = func(c *gin.Context, err error, statusCode int) {
			c.JSON(statusCode, gin.H{"error": err.Error()})
		}
	}
	wrapper := ServerInterfaceWrapper{Handler: si, ErrorHandler: errorHandler}

	router.GET("/queue", si.GetQueue)
	router.POST("/queue/items", append(append([]gin.HandlerFunc{}, opts.EnqueueMiddlewares...), si.EnqueueItems)...)
	router.DELETE("/queue", si.ClearQueue)
	router.POST("/queue/start", si.StartQueue)
	router.POST("/queue/stop", si.StopQueue)
	router.POST("/queue/health", si.CheckQueueHealth)
	router.GET("/queue/restarts", wrapper.GetRestarts)
	router.GET("/settings", si.GetSettings)
	router.PUT("/settings", si.UpdateSettings)
	router.GET("/debug", si.GetDebug)
	router.PUT("/debug", si.UpdateDebug)
	router.POST("/server/load", si.ServerLoad)
}
