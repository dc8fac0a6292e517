package test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arcaneplugins/levelledmobs/internal/models"
	"github.com/arcaneplugins/levelledmobs/internal/services"
)

// MockApplier implements services.LevelApplier for testing.
type MockApplier struct {
	Level int
	Err   error
	// Delay blocks ApplyLevel until it elapses or the context is done.
	Delay time.Duration
	// Panic makes ApplyLevel panic with this value when set.
	Panic any

	mu    sync.Mutex
	calls []uuid.UUID
}

// ApplyLevel records the call and returns the configured level and error.
func (m *MockApplier) ApplyLevel(ctx context.Context, entity *models.LivingEntity, event models.SpawnEvent) (int, error) {
	m.mu.Lock()
	m.calls = append(m.calls, entity.ID)
	m.mu.Unlock()

	if m.Panic != nil {
		panic(m.Panic)
	}

	if m.Delay > 0 {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(m.Delay):
		}
	}

	return m.Level, m.Err
}

// Calls returns the ids of the entities ApplyLevel was called with.
func (m *MockApplier) Calls() []uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]uuid.UUID(nil), m.calls...)
}

// NewMockApplier creates a MockApplier that always applies level.
func NewMockApplier(level int) *MockApplier {
	return &MockApplier{Level: level}
}

// Ensure MockApplier implements services.LevelApplier.
var _ services.LevelApplier = (*MockApplier)(nil)
