// Package handlers implements the admin HTTP API of levelledmobs.
//
// Handlers validate requests, call the services layer and convert models to
// the api/v1 types. They never touch the queue manager directly.
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                     HTTP Request (Gin)                          │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Handler (this package)                     │
//	│  - Request binding and validation                               │
//	│  - Error mapping to HTTP status codes                           │
//	│  - Model-to-API conversion                                      │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│  QueueService │ RestartJournal │ debug.Manager │ Startup         │
//	└─────────────────────────────────────────────────────────────────┘
//
// Routes are registered with v1.RegisterHandlers(router, handler).
//
// # API Endpoints
//
//	┌────────┬──────────────────┬────────────────────────────────────────────┐
//	│ Method │ Endpoint         │ Description                                │
//	├────────┼──────────────────┼────────────────────────────────────────────┤
//	│ GET    │ /queue           │ Queue size, in-flight count, workers       │
//	│ POST   │ /queue/items     │ Queue spawned mobs (rate limited)          │
//	│ DELETE │ /queue           │ Drop pending items                         │
//	│ POST   │ /queue/start     │ Start workers and the health check         │
//	│ POST   │ /queue/stop      │ Ask workers to exit                        │
//	│ POST   │ /queue/health    │ Run the watchdog once                      │
//	│ GET    │ /queue/restarts  │ Journaled worker restarts (paginated)      │
//	│ GET    │ /settings        │ Runtime settings                           │
//	│ PUT    │ /settings        │ Persist and apply runtime settings         │
//	│ GET    │ /debug           │ Debug status and filters                   │
//	│ PUT    │ /debug           │ Enable, disable or filter debug output     │
//	│ POST   │ /server/load     │ Host server finished loading               │
//	└────────┴──────────────────┴────────────────────────────────────────────┘
//
// # Error Mapping
//
//	┌──────────────────────────┬──────────────────────────┐
//	│ Condition                │ HTTP Status              │
//	├──────────────────────────┼──────────────────────────┤
//	│ Invalid body or query    │ 400 Bad Request          │
//	│ QueueStoppedError        │ 409 Conflict             │
//	│ Store failure            │ 500 Internal Server Error│
//	└──────────────────────────┴──────────────────────────┘
//
// Errors are returned as {"error": "<message>"}.
package handlers
