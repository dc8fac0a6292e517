package store

import (
	"context"
	"database/sql"

	"github.com/arcaneplugins/levelledmobs/internal/store/migrations"
)

// Store provides access to all storage repositories.
type Store struct {
	db       *sql.DB
	settings *SettingsStore
	restarts *RestartStore
}

func NewStore(db *sql.DB) *Store {
	qi := newQueryInterceptor(db)
	return &Store{
		db:       db,
		settings: NewSettingsStore(qi),
		restarts: NewRestartStore(qi),
	}
}

func (s *Store) Migrate(ctx context.Context) error {
	return migrations.Run(ctx, s.db)
}

func (s *Store) Settings() *SettingsStore {
	return s.settings
}

func (s *Store) Restarts() *RestartStore {
	return s.restarts
}

func (s *Store) Close() error {
	return s.db.Close()
}
