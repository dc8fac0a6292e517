// Package config defines the configuration structure for levelledmobs.
//
// Configuration is organized into sections (Server, Queue, Debug, Store,
// Authentication, Startup, Levelling). Defaults come from `default` struct tags applied
// by creasty/defaults; Load layers an optional YAML/JSON file and LM_
// prefixed environment variables on top using viper.
//
// # Configuration Structure
//
//	Configuration
//	├── Server         - admin HTTP server
//	├── Queue          - mob processing queue and watchdog
//	├── Debug          - debug output at startup
//	├── Store          - DuckDB location and restart journal retention
//	├── Auth           - bearer token check on the admin API
//	├── Startup        - server-load hook
//	├── Levelling      - level range of the built-in applier
//	├── LogFormat      - "console" or "json"
//	└── LogLevel       - zap level name
//
// # Queue Configuration
//
//	┌───────────────────────────────┬─────────┬──────────────────────────────────────┐
//	│ Field                         │ Default │ Description                          │
//	├───────────────────────────────┼─────────┼──────────────────────────────────────┤
//	│ NumWorkers                    │ 3       │ Workers draining the queue           │
//	│ SaturationThreshold           │ 1000    │ Depth that forces a full restart     │
//	│ PollInterval                  │ 2ms     │ Idle sleep of a worker               │
//	│ HealthCheckInterval           │ 5s      │ Period of the watchdog               │
//	│ ProcessTimeout                │ 5s      │ Budget for applying a level          │
//	│ IgnoreMobsWithNoPlayerContext │ false   │ Skip mobs without a player           │
//	│ PlayerLevellingEnabled        │ false   │ Player levelling rules are active    │
//	└───────────────────────────────┴─────────┴──────────────────────────────────────┘
//
// IgnoreMobsWithNoPlayerContext is only the initial value: once changed
// through the API it is persisted and the stored value wins on restart.
//
// # Server Configuration
//
//	┌──────────────────┬─────────┬────────────────────────────────────────┐
//	│ Field            │ Default │ Description                            │
//	├──────────────────┼─────────┼────────────────────────────────────────┤
//	│ ServerMode       │ "dev"   │ Server mode: "prod" or "dev"           │
//	│ HTTPPort         │ 8000    │ HTTP server listen port                │
//	│ EnqueueRateLimit │ 500     │ Enqueue requests per second            │
//	│ EnqueueBurst     │ 100     │ Enqueue burst size                     │
//	└──────────────────┴─────────┴────────────────────────────────────────┘
//
// # Environment
//
// Every key maps to an upper-cased variable with dots replaced:
//
//	queue.num_workers   →  LM_QUEUE_NUM_WORKERS
//	debug.types         →  LM_DEBUG_TYPES=APPLY_LEVEL_RESULT,PLAYER_CONTEXT
//
// # Debug Logging
//
// DebugMap returns a flat map suitable for structured logging:
//
//	zap.S().Infow("configuration loaded", "config", cfg.DebugMap())
package config
