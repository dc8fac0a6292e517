package store

// Settings queries
const (
	queryGetSettings = `
		SELECT ignore_mobs_with_no_player_context, updated_at
		FROM settings WHERE id = 1`

	queryUpsertSettings = `
		INSERT INTO settings (id, ignore_mobs_with_no_player_context, updated_at)
		VALUES (1, ?, now())
		ON CONFLICT (id) DO UPDATE SET
			ignore_mobs_with_no_player_context = EXCLUDED.ignore_mobs_with_no_player_context,
			updated_at = now()`
)

// Worker restart queries
const (
	queryInsertRestart = `
		INSERT INTO worker_restarts (worker_id, reason, queue_size, restarted_at)
		VALUES (?, ?, ?, ?)
		RETURNING id`

	queryDeleteRestartsBefore = `DELETE FROM worker_restarts WHERE restarted_at < ?`
)
