package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arcaneplugins/levelledmobs/internal/models"
	"github.com/arcaneplugins/levelledmobs/pkg/scheduler"
)

// DetectionCache is an external mob plugin that caches which entities it owns.
type DetectionCache interface {
	Name() string
	ClearDetectionCache()
}

// PendingItems processes custom drop items that could not be resolved before the server finished loading.
type PendingItems interface {
	ProcessPendingItems(ctx context.Context) error
}

type DropsReporter interface {
	ShowCustomDropsDebugInfo(ctx context.Context)
}

type Delayer interface {
	RunLater(delay time.Duration, fn scheduler.Work) *scheduler.Task
}

type StartupOption func(*Startup)

func WithDetectionCaches(caches ...DetectionCache) StartupOption {
	return func(s *Startup) {
		s.caches = append(s.caches, caches...)
	}
}

func WithPendingItems(p PendingItems) StartupOption {
	return func(s *Startup) {
		s.items = p
	}
}

func WithDropsReporter(r DropsReporter, show bool) StartupOption {
	return func(s *Startup) {
		s.drops = r
		s.showDrops = show
	}
}

func WithItemsDelay(d time.Duration) StartupOption {
	return func(s *Startup) {
		s.delay = d
	}
}

func WithMaxTries(n uint) StartupOption {
	return func(s *Startup) {
		if n > 0 {
			s.maxTries = n
		}
	}
}

// Startup reacts to the host server finishing a load.
type Startup struct {
	delayer   Delayer
	caches    []DetectionCache
	items     PendingItems
	drops     DropsReporter
	showDrops bool
	delay     time.Duration
	maxTries  uint
	finished  atomic.Bool
	log       *zap.SugaredLogger
}

func NewStartup(delayer Delayer, opts ...StartupOption) *Startup {
	s := &Startup{
		delayer:  delayer,
		delay:    500 * time.Millisecond,
		maxTries: 5,
		log:      zap.S().Named("startup"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnServerLoad only acts on the initial startup; reloads are ignored.
// It returns the delayed pending-items task, or nil when nothing was scheduled.
func (s *Startup) OnServerLoad(t models.LoadType) *scheduler.Task {
	if t != models.LoadTypeStartup {
		return nil
	}

	for _, c := range s.caches {
		c.ClearDetectionCache()
		s.log.Debugw("cleared detection cache", "plugin", c.Name())
	}

	s.finished.Store(true)
	s.log.Info("server finished loading")

	if s.items != nil {
		return s.delayer.RunLater(s.delay, s.processPendingItems)
	}

	if s.showDrops && s.drops != nil {
		s.drops.ShowCustomDropsDebugInfo(context.Background())
	}
	return nil
}

func (s *Startup) HasFinishedLoading() bool {
	return s.finished.Load()
}

func (s *Startup) processPendingItems(ctx context.Context) error {
	op := func() (struct{}, error) {
		return struct{}{}, s.items.ProcessPendingItems(ctx)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond

	if _, err := backoff.Retry(ctx, op, backoff.WithBackOff(b), backoff.WithMaxTries(s.maxTries)); err != nil {
		s.log.Errorw("failed to process pending custom drop items", "error", err)
		return err
	}

	if s.showDrops && s.drops != nil {
		s.drops.ShowCustomDropsDebugInfo(ctx)
	}
	return nil
}

// LongMessageSink builds one debug line out of several parts.
type LongMessageSink interface {
	StartLongMessage() uuid.UUID
	AppendLongMessage(id uuid.UUID, msg func() string)
	EndLongMessage(id uuid.UUID, t models.DebugType, entity *models.LivingEntity)
}

// DebugDropsReporter writes the loaded custom drops as a single CUSTOM_DROPS debug line.
type DebugDropsReporter struct {
	sink  LongMessageSink
	drops map[string][]string
}

// NewDebugDropsReporter takes the custom drops keyed by entity type. Types are upper-cased.
func NewDebugDropsReporter(sink LongMessageSink, drops map[string][]string) *DebugDropsReporter {
	normalized := make(map[string][]string, len(drops))
	for t, items := range drops {
		key := strings.ToUpper(t)
		normalized[key] = append(normalized[key], items...)
	}
	return &DebugDropsReporter{sink: sink, drops: normalized}
}

func (r *DebugDropsReporter) ShowCustomDropsDebugInfo(_ context.Context) {
	types := make([]string, 0, len(r.drops))
	for t := range r.drops {
		types = append(types, t)
	}
	sort.Strings(types)

	id := r.sink.StartLongMessage()
	r.sink.AppendLongMessage(id, func() string {
		return fmt.Sprintf("custom drops loaded for %d entity types", len(types))
	})
	for _, t := range types {
		items := r.drops[t]
		r.sink.AppendLongMessage(id, func() string {
			return fmt.Sprintf("; %s: %s", t, strings.Join(items, ", "))
		})
	}
	r.sink.EndLongMessage(id, models.DebugTypeCustomDrops, nil)
}
