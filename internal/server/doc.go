// Package server provides the admin HTTP server of levelledmobs.
//
// The server uses the Gin web framework. In "prod" mode Gin runs in release
// mode, in "dev" mode in debug mode. Both serve plain HTTP on HTTPPort.
//
//	┌───────────────────────────────────────────────────────────────┐
//	│                         HTTP Server                           │
//	├───────────────────────────────────────────────────────────────┤
//	│                       Middleware Stack                        │
//	│  ┌─────────────────────────────────────────────────────────┐  │
//	│  │  Logger (request/response logging)                      │  │
//	│  │  Recovery (panic recovery with zap logging)             │  │
//	│  └─────────────────────────────────────────────────────────┘  │
//	├───────────────────────────────────────────────────────────────┤
//	│  /metrics              Prometheus (WithMetrics)               │
//	├───────────────────────────────────────────────────────────────┤
//	│                       Router (/api/v1)                        │
//	│  ┌─────────────────────────────────────────────────────────┐  │
//	│  │  Auth (WithAuth, HS256 bearer token)                    │  │
//	│  │  WithMiddlewares                                        │  │
//	│  │  Handlers (registered via callback)                     │  │
//	│  └─────────────────────────────────────────────────────────┘  │
//	└───────────────────────────────────────────────────────────────┘
//
// Unknown routes return {"error": "not found"} with 404.
//
// # Server Lifecycle
//
//	srv, err := server.NewServer(cfg, func(router *gin.RouterGroup) {
//	    v1.RegisterHandlersWithOptions(router, handler, v1.RegisterOptions{
//	        EnqueueMiddlewares: []gin.HandlerFunc{middlewares.RateLimit(500, 100)},
//	    })
//	}, server.WithMetrics(registry))
//
//	err = srv.Start(ctx) // blocks, nil after Stop
//	srv.Stop(ctx)        // graceful shutdown
//
// # Middleware
//
// Logger (middlewares.Logger):
//   - Logs request start at debug level: method, path, query, IP, user-agent
//   - Logs request end: all above + status code, latency
//   - Requests with gin errors are logged at error level
//
// Auth (middlewares.Auth):
//   - Expects "Authorization: Bearer <jwt>"
//   - HS256 only, expiry required
//   - Secret read from auth.secret_file
//
// RateLimit (middlewares.RateLimit):
//   - Token bucket from golang.org/x/time/rate
//   - Only in front of POST /queue/items, answers 429 when empty
package server
