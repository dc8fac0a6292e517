// Package store implements the data access layer for levelledmobs.
//
// Persistent state lives in DuckDB: the runtime settings that can be changed
// through the admin API and a journal of every worker the watchdog replaced.
// The queue itself is never persisted.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                         Store (facade)                          │
//	├────────────────────────────────┬────────────────────────────────┤
//	│         SettingsStore          │          RestartStore          │
//	│              ▼                 │               ▼                │
//	│           settings             │        worker_restarts         │
//	└────────────────────────────────┴────────────────────────────────┘
//
// # Tables
//
// Created by the embedded migrations (internal/store/migrations/sql/):
//
//	┌────────────────────┬─────────────────────────────────────────────┐
//	│  Table             │  Purpose                                    │
//	├────────────────────┼─────────────────────────────────────────────┤
//	│  settings          │  Persisted runtime flags (single row)       │
//	│  worker_restarts   │  One row per watchdog worker replacement    │
//	│  schema_migrations │  Migration version tracking                 │
//	└────────────────────┴─────────────────────────────────────────────┘
//
// # Initialization Flow
//
//	NewDB(path)          → sql.Open("duckdb", path) + Ping
//	NewStore(db)         → sub-stores sharing one QueryInterceptor
//	Store.Migrate(ctx)   → migrations.Run()
//
// # SettingsStore
//
//	settings (
//	    id INTEGER PRIMARY KEY DEFAULT 1 CHECK (id = 1),
//	    ignore_mobs_with_no_player_context BOOLEAN,
//	    updated_at TIMESTAMP
//	)
//
// Methods:
//   - Get(ctx) → *models.Settings, or a ResourceNotFoundError before the first Save
//   - Save(ctx, settings) → error (uses UPSERT)
//
// # RestartStore
//
//	worker_restarts (
//	    id BIGINT PRIMARY KEY DEFAULT nextval('worker_restarts_id_seq'),
//	    worker_id INTEGER,
//	    reason VARCHAR,        -- "cancelled", "not running", "saturated"
//	    queue_size INTEGER,    -- depth that triggered a saturation restart
//	    restarted_at TIMESTAMP
//	)
//
// List and Count take functional options that modify a squirrel.SelectBuilder:
//
//	restarts, err := store.Restarts().List(ctx,
//	    store.ByReasons(models.RestartReasonSaturated),
//	    store.Since(time.Now().Add(-time.Hour)),
//	    store.WithDefaultSort(),
//	    store.WithLimit(50),
//	)
//
//   - ByReasons(reasons...)  WHERE reason IN (...)
//   - ByWorker(id)           WHERE worker_id = id
//   - Since(t)               WHERE restarted_at >= t
//   - WithLimit / WithOffset pagination
//   - WithDefaultSort()      ORDER BY restarted_at DESC, id DESC
//
// Count only makes sense with the filter options.
//
// # QueryInterceptor
//
// Sub-stores never hold the *sql.DB directly. They go through a
// QueryInterceptor that logs every QueryRowContext, QueryContext and
// ExecContext at debug level with its arguments and duration.
package store
