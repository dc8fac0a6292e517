package store

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/arcaneplugins/levelledmobs/internal/models"
	srvErrors "github.com/arcaneplugins/levelledmobs/pkg/errors"
)

// SettingsStore keeps the runtime settings in a single-row table.
type SettingsStore struct {
	db QueryInterceptor
	// writeMu serializes upserts: DuckDB rejects concurrent updates of the same row.
	writeMu sync.Mutex
}

func NewSettingsStore(db QueryInterceptor) *SettingsStore {
	return &SettingsStore{db: db}
}

// Get returns the stored settings or a not found error when none were saved yet.
func (s *SettingsStore) Get(ctx context.Context) (*models.Settings, error) {
	row := s.db.QueryRowContext(ctx, queryGetSettings)

	var settings models.Settings
	err := row.Scan(&settings.IgnoreMobsWithNoPlayerContext, &settings.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, srvErrors.NewSettingsNotFoundError()
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *SettingsStore) Save(ctx context.Context, settings *models.Settings) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_, err := s.db.ExecContext(ctx, queryUpsertSettings, settings.IgnoreMobsWithNoPlayerContext)
	return err
}
