package debug

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arcaneplugins/levelledmobs/internal/models"
	"github.com/arcaneplugins/levelledmobs/pkg/scheduler"
)

// Delayer schedules the auto-disable timer.
type Delayer interface {
	RunLater(delay time.Duration, fn scheduler.Work) *scheduler.Task
}

type Option func(*Manager)

func WithLogger(l *zap.SugaredLogger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// Manager decides which debug lines get written and writes them.
type Manager struct {
	sched Delayer
	log   *zap.SugaredLogger

	mu               sync.RWMutex
	enabled          bool
	bypassAllFilters bool
	types            map[models.DebugType]struct{}
	entityTypes      map[string]struct{}
	ruleNames        map[string]struct{}
	listenFor        models.ListenFor
	minY             *int
	maxY             *int
	disableAfter     time.Duration
	timerEnd         time.Time
	timer            *scheduler.Task

	longMu sync.Mutex
	long   map[uuid.UUID][]func() string
}

func NewManager(sched Delayer, opts ...Option) *Manager {
	m := &Manager{
		sched:     sched,
		log:       zap.S().Named("debug"),
		listenFor: models.ListenForBoth,
		long:      make(map[uuid.UUID][]func() string),
	}
	m.resetFiltersLocked()

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Enable turns debugging on. With useTimer and a positive disable-after
// duration it turns itself off once that duration elapses.
func (m *Manager) Enable(useTimer, bypassFilters bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.bypassAllFilters = bypassFilters
	m.enabled = true
	m.checkTimerLocked(useTimer)
}

func (m *Manager) Disable() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disableLocked()
}

func (m *Manager) IsEnabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.enabled
}

// SetDisableAfter changes the timer length. A running timer restarts with the new length.
func (m *Manager) SetDisableAfter(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.disableAfter = d
	m.checkTimerLocked(m.timer != nil)
}

func (m *Manager) SetFilters(f models.DebugFilters) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.types = make(map[models.DebugType]struct{}, len(f.Types))
	for _, t := range f.Types {
		m.types[t] = struct{}{}
	}
	m.entityTypes = make(map[string]struct{}, len(f.EntityTypes))
	for _, t := range f.EntityTypes {
		m.entityTypes[strings.ToUpper(t)] = struct{}{}
	}
	m.ruleNames = make(map[string]struct{}, len(f.RuleNames))
	for _, r := range f.RuleNames {
		m.ruleNames[ruleKey(r)] = struct{}{}
	}

	m.listenFor = f.ListenFor
	if m.listenFor == "" {
		m.listenFor = models.ListenForBoth
	}
	m.minY = f.MinYLevel
	m.maxY = f.MaxYLevel
}

func (m *Manager) ResetFilters() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetFiltersLocked()
}

// IsTypeEnabled reports whether lines of type t can currently be written.
func (m *Manager) IsTypeEnabled(t models.DebugType) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.enabled {
		return false
	}
	if len(m.types) == 0 {
		return true
	}
	_, ok := m.types[t]
	return ok
}

func (m *Manager) Log(t models.DebugType, entity *models.LivingEntity, result *bool, msg func() string) {
	m.write(t, "", entity, result, msg)
}

// LogRule writes a line attributed to the named levelling rule.
func (m *Manager) LogRule(t models.DebugType, rule string, entity *models.LivingEntity, result *bool, msg func() string) {
	m.write(t, rule, entity, result, msg)
}

// StartLongMessage opens a message that is assembled over several calls and written by EndLongMessage.
func (m *Manager) StartLongMessage() uuid.UUID {
	id := uuid.New()

	m.longMu.Lock()
	m.long[id] = nil
	m.longMu.Unlock()

	return id
}

func (m *Manager) AppendLongMessage(id uuid.UUID, msg func() string) {
	if !m.IsEnabled() {
		return
	}

	m.longMu.Lock()
	defer m.longMu.Unlock()

	if parts, ok := m.long[id]; ok {
		m.long[id] = append(parts, msg)
	}
}

func (m *Manager) EndLongMessage(id uuid.UUID, t models.DebugType, entity *models.LivingEntity) {
	m.longMu.Lock()
	parts, ok := m.long[id]
	delete(m.long, id)
	m.longMu.Unlock()

	if !ok {
		return
	}

	m.Log(t, entity, nil, func() string {
		var sb strings.Builder
		for _, p := range parts {
			sb.WriteString(p())
		}
		return sb.String()
	})
}

func (m *Manager) Status() models.DebugStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	status := models.DebugStatus{
		Enabled:          m.enabled,
		BypassAllFilters: m.bypassAllFilters,
		DisableAfter:     m.disableAfter,
		Filters: models.DebugFilters{
			ListenFor: m.listenFor,
			MinYLevel: m.minY,
			MaxYLevel: m.maxY,
		},
	}

	if m.enabled && m.timer != nil {
		if left := time.Until(m.timerEnd); left > 0 {
			status.TimeRemaining = left
		}
	}

	for t := range m.types {
		status.Filters.Types = append(status.Filters.Types, t)
	}
	for t := range m.entityTypes {
		status.Filters.EntityTypes = append(status.Filters.EntityTypes, t)
	}
	for r := range m.ruleNames {
		status.Filters.RuleNames = append(status.Filters.RuleNames, r)
	}

	return status
}

func (m *Manager) write(t models.DebugType, rule string, entity *models.LivingEntity, result *bool, supplier func() string) {
	m.mu.RLock()
	pass := m.enabled && (m.bypassAllFilters || m.passesFiltersLocked(t, rule, entity, result))
	m.mu.RUnlock()

	if !pass {
		return
	}

	msg := ""
	if supplier != nil {
		msg = supplier()
	}

	m.log.Infof("[Debug: %s] %s", t, compose(rule, entity, result, msg))
}

func (m *Manager) passesFiltersLocked(t models.DebugType, rule string, entity *models.LivingEntity, result *bool) bool {
	if len(m.types) > 0 {
		if _, ok := m.types[t]; !ok {
			return false
		}
	}

	if len(m.ruleNames) > 0 {
		if rule == "" {
			return false
		}
		if _, ok := m.ruleNames[ruleKey(rule)]; !ok {
			return false
		}
	}

	if len(m.entityTypes) > 0 {
		if entity == nil {
			return false
		}
		if _, ok := m.entityTypes[strings.ToUpper(entity.Type)]; !ok {
			return false
		}
	}

	if result != nil {
		if *result && m.listenFor == models.ListenForFailure {
			return false
		}
		if !*result && m.listenFor == models.ListenForSuccess {
			return false
		}
	}

	if entity != nil {
		y := entity.Location.BlockY()
		if m.minY != nil && y < *m.minY {
			return false
		}
		if m.maxY != nil && y > *m.maxY {
			return false
		}
	}

	return true
}

func compose(rule string, entity *models.LivingEntity, result *bool, msg string) string {
	if rule != "" {
		if msg == "" {
			msg = fmt.Sprintf("(%s)", rule)
		} else {
			msg = fmt.Sprintf("(%s) %s", rule, msg)
		}
	}

	if entity != nil {
		lvl := "no lvl"
		if level := entity.Level(); level != nil {
			lvl = fmt.Sprintf("lvl %d", *level)
		}
		prefix := fmt.Sprintf("mob: %s (%s)", entity.DisplayName(), lvl)
		if msg == "" {
			msg = prefix
		} else {
			msg = prefix + ", " + msg
		}
	}

	if result != nil {
		if msg == "" {
			msg = fmt.Sprintf("result: %t", *result)
		} else {
			msg = fmt.Sprintf("%s, result: %t", msg, *result)
		}
	}

	return msg
}

func ruleKey(name string) string {
	return strings.ReplaceAll(name, " ", "_")
}

func (m *Manager) resetFiltersLocked() {
	m.types = make(map[models.DebugType]struct{})
	m.entityTypes = make(map[string]struct{})
	m.ruleNames = make(map[string]struct{})
	m.listenFor = models.ListenForBoth
	m.minY = nil
	m.maxY = nil
	m.disableAfter = 0
}

func (m *Manager) disableLocked() {
	m.enabled = false
	m.stopTimerLocked()
}

func (m *Manager) stopTimerLocked() {
	if m.timer == nil {
		return
	}
	m.timer.Cancel()
	m.timer = nil
}

func (m *Manager) checkTimerLocked(useTimer bool) {
	if !m.enabled {
		return
	}

	if !useTimer || m.disableAfter <= 0 || m.sched == nil {
		m.stopTimerLocked()
		return
	}

	m.stopTimerLocked()
	m.timerEnd = time.Now().Add(m.disableAfter)
	m.timer = m.sched.RunLater(m.disableAfter, func(ctx context.Context) error {
		m.expire()
		return nil
	})
}

func (m *Manager) expire() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.enabled || m.timer == nil || time.Now().Before(m.timerEnd) {
		return
	}

	m.disableLocked()
	m.log.Info("Debug timer has elapsed, debugging is now disabled")
}
