package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/arcaneplugins/levelledmobs/internal/config"
	"github.com/arcaneplugins/levelledmobs/internal/server/middlewares"
)

type Server struct {
	srv *http.Server
	log *zap.SugaredLogger
}

type Option func(*options)

type options struct {
	gatherer    prometheus.Gatherer
	auth        gin.HandlerFunc
	middlewares []gin.HandlerFunc
}

// WithMetrics serves g on /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(o *options) {
		o.gatherer = g
	}
}

// WithAuth guards every /api/v1 route with h.
func WithAuth(h gin.HandlerFunc) Option {
	return func(o *options) {
		o.auth = h
	}
}

// WithMiddlewares adds h to every /api/v1 route after auth.
func WithMiddlewares(h ...gin.HandlerFunc) Option {
	return func(o *options) {
		o.middlewares = append(o.middlewares, h...)
	}
}

// NewServer builds the admin server. registerHandlerFn receives the /api/v1 group.
func NewServer(cfg *config.Configuration, registerHandlerFn func(router *gin.RouterGroup), opts ...Option) (*Server, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	switch cfg.Server.ServerMode {
	case "prod":
		gin.SetMode(gin.ReleaseMode)
	case "dev":
		gin.SetMode(gin.DebugMode)
	default:
		return nil, fmt.Errorf("invalid server mode: %s", cfg.Server.ServerMode)
	}

	engine := gin.New()
	engine.Use(
		middlewares.Logger(),
		ginzap.RecoveryWithZap(zap.L(), true),
	)

	if o.gatherer != nil {
		engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(o.gatherer, promhttp.HandlerOpts{})))
	}

	api := engine.Group("/api/v1")
	if o.auth != nil {
		api.Use(o.auth)
	}
	api.Use(o.middlewares...)
	registerHandlerFn(api)

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return &Server{
		srv: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.HTTPPort),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: zap.S().Named("server"),
	}, nil
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Start blocks until the server stops. A graceful Stop is not an error.
func (s *Server) Start(ctx context.Context) error {
	s.srv.BaseContext = func(net.Listener) context.Context { return ctx }
	s.log.Infow("starting server", "addr", s.srv.Addr)

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop waits for in-flight requests until ctx is done.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("stopping server")
	return s.srv.Shutdown(ctx)
}
