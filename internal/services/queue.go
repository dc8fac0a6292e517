package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/arcaneplugins/levelledmobs/internal/models"
	"github.com/arcaneplugins/levelledmobs/internal/queue"
	"github.com/arcaneplugins/levelledmobs/internal/store"
	srvErrors "github.com/arcaneplugins/levelledmobs/pkg/errors"
	"github.com/arcaneplugins/levelledmobs/pkg/scheduler"
)

// Ticker runs the periodic health check.
type Ticker interface {
	RunAtFixedRate(delay, period time.Duration, fn scheduler.Work) *scheduler.Task
}

// QueueService drives the mob queue: lifecycle, the periodic watchdog and
// the persisted runtime settings.
type QueueService struct {
	manager        *queue.Manager
	ticker         Ticker
	store          *store.Store
	healthInterval time.Duration
	log            *zap.SugaredLogger

	mu         sync.Mutex
	healthTask *scheduler.Task
}

func NewQueueService(manager *queue.Manager, ticker Ticker, st *store.Store, healthInterval time.Duration) *QueueService {
	return &QueueService{
		manager:        manager,
		ticker:         ticker,
		store:          st,
		healthInterval: healthInterval,
		log:            zap.S().Named("queue_service"),
	}
}

// RestoreSettings applies the persisted settings to the queue. Without
// stored settings the configured values are kept.
func (s *QueueService) RestoreSettings(ctx context.Context) error {
	settings, err := s.store.Settings().Get(ctx)
	if srvErrors.IsResourceNotFoundError(err) {
		return nil
	}
	if err != nil {
		return err
	}

	s.manager.SetIgnoreMobsWithNoPlayerContext(settings.IgnoreMobsWithNoPlayerContext)
	s.log.Infow("restored queue settings", "ignore_mobs_with_no_player_context", settings.IgnoreMobsWithNoPlayerContext)
	return nil
}

// Start starts the workers and the periodic health check.
func (s *QueueService) Start() {
	s.manager.Start()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.healthTask != nil || s.healthInterval <= 0 {
		return
	}
	s.healthTask = s.ticker.RunAtFixedRate(s.healthInterval, s.healthInterval, func(ctx context.Context) error {
		s.manager.CheckHealth()
		return nil
	})
}

// Stop cancels the health check and asks the workers to exit.
func (s *QueueService) Stop() {
	s.mu.Lock()
	if s.healthTask != nil {
		s.healthTask.Cancel()
		s.healthTask = nil
	}
	s.mu.Unlock()

	s.manager.Stop()
}

// Add queues item. It fails with a QueueStoppedError when no worker would pick it up.
func (s *QueueService) Add(item models.QueueItem) (bool, error) {
	if !s.manager.IsRunning() {
		return false, srvErrors.NewQueueStoppedError()
	}
	return s.manager.Add(item), nil
}

func (s *QueueService) Clear() int {
	return s.manager.Clear()
}

func (s *QueueService) CheckHealth() int {
	return s.manager.CheckHealth()
}

func (s *QueueService) Status() models.QueueStatus {
	return s.manager.Status()
}

func (s *QueueService) Settings() models.Settings {
	return models.Settings{IgnoreMobsWithNoPlayerContext: s.manager.IgnoreMobsWithNoPlayerContext()}
}

// UpdateSettings persists settings first and only then applies them.
func (s *QueueService) UpdateSettings(ctx context.Context, settings models.Settings) (*models.Settings, error) {
	if err := s.store.Settings().Save(ctx, &settings); err != nil {
		return nil, err
	}
	s.manager.SetIgnoreMobsWithNoPlayerContext(settings.IgnoreMobsWithNoPlayerContext)

	return s.store.Settings().Get(ctx)
}
