package queue

import (
	"time"

	"go.uber.org/zap"

	"github.com/arcaneplugins/levelledmobs/internal/metrics"
	"github.com/arcaneplugins/levelledmobs/internal/models"
)

const (
	DefaultWorkers             = 3
	DefaultSaturationThreshold = 1000
	DefaultPollInterval        = 2 * time.Millisecond
)

type Option func(*Manager)

func WithWorkers(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.numWorkers = n
		}
	}
}

func WithSaturationThreshold(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.saturation = n
		}
	}
}

func WithPollInterval(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.pollInterval = d
		}
	}
}

func WithDebugSink(d DebugSink) Option {
	return func(m *Manager) {
		if d != nil {
			m.debug = d
		}
	}
}

func WithRules(r RulesProvider) Option {
	return func(m *Manager) {
		if r != nil {
			m.rules = r
		}
	}
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) {
		m.metrics = mt
	}
}

// WithRestartHook registers fn to be called for every worker the watchdog replaces.
func WithRestartHook(fn func(models.WorkerRestart)) Option {
	return func(m *Manager) {
		m.onRestart = fn
	}
}

func WithIgnoreMobsWithNoPlayerContext(ignore bool) Option {
	return func(m *Manager) {
		m.ignoreNoPlayerContext.Store(ignore)
	}
}
