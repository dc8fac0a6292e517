package models

import (
	"fmt"
	"time"
)

// RestartReason is why the watchdog replaced a worker.
type RestartReason string

const (
	RestartReasonCancelled  RestartReason = "cancelled"
	RestartReasonNotRunning RestartReason = "not running"
	RestartReasonSaturated  RestartReason = "saturated"
)

func ParseRestartReason(s string) (RestartReason, error) {
	switch s {
	case string(RestartReasonCancelled):
		return RestartReasonCancelled, nil
	case string(RestartReasonNotRunning), "not_running":
		return RestartReasonNotRunning, nil
	case string(RestartReasonSaturated):
		return RestartReasonSaturated, nil
	default:
		return "", fmt.Errorf("invalid restart reason: %s", s)
	}
}

type WorkerRestart struct {
	ID        int64
	WorkerID  int
	Reason    RestartReason
	QueueSize int
	At        time.Time
}

// Status renders the reason the way it appears in the restart warning.
func (r WorkerRestart) Status() string {
	if r.Reason == RestartReasonSaturated {
		return fmt.Sprintf("queue size was %d", r.QueueSize)
	}
	return string(r.Reason)
}

type Settings struct {
	IgnoreMobsWithNoPlayerContext bool
	UpdatedAt                     time.Time
}

type LoadType string

const (
	LoadTypeStartup LoadType = "startup"
	LoadTypeReload  LoadType = "reload"
)
