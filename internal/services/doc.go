// Package services implements the business logic layer for levelledmobs.
//
// Services sit between the HTTP handlers and the queue manager, the debug
// manager and the store.
//
// # Service Dependency Graph
//
//	Handlers (HTTP endpoints)
//	    │
//	    ▼
//	Services Layer
//	    ├── QueueService ────► queue.Manager, Scheduler, Store
//	    ├── RestartJournal ──► Store
//	    ├── Startup ─────────► Scheduler, detection caches, pending items
//	    └── Leveler ─────────► LevelApplier, DebugSink
//
// # QueueService
//
// QueueService owns the lifecycle of the mob queue. Start starts the workers
// and schedules CheckHealth at HealthCheckInterval with RunAtFixedRate; Stop
// cancels that task and asks the workers to exit after their current item.
//
// Settings initialization follows a fixed priority:
//  1. the value stored in the settings table
//  2. the value from the configuration file (applied when the manager was built)
//
// UpdateSettings saves first, so a failed write leaves the running queue untouched.
//
// # RestartJournal
//
// Record is registered as the queue's restart hook. Every worker replaced by
// the watchdog becomes a row in worker_restarts. List supports filtering by
// reason, worker and time, newest first, with pagination. Total is always
// computed without pagination.
//
// # Leveler
//
// Leveler is the queue.Processor of the binary. It runs the LevelApplier in
// its own goroutine and waits for it at most ProcessTimeout:
//
//	┌──────────────────────────────┬─────────────────────────┐
//	│  Applier result              │  Outcome                │
//	├──────────────────────────────┼─────────────────────────┤
//	│  level, nil                  │  Ok (Level is set)      │
//	│  EvaluationError             │  AlreadyHandled         │
//	│  deadline exceeded           │  TimedOut               │
//	│  any other error or a panic  │  Faulted                │
//	└──────────────────────────────┴─────────────────────────┘
//
// RangeApplier is the built-in applier: a uniform level in [Min, Max] for
// mobs that are not levelled yet.
//
// # Startup
//
// OnServerLoad only reacts to the STARTUP load type:
//
//	clear every detection cache
//	mark loading finished
//	pending items?  ──yes──►  RunLater(ItemsDelay):
//	      │                       ProcessPendingItems (retried with backoff)
//	      │                       show custom drops debug info when enabled
//	      no
//	      ▼
//	show custom drops debug info now when enabled
package services
