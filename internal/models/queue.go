package models

import (
	"time"

	"github.com/google/uuid"
)

type SpawnReason string

const (
	SpawnReasonNatural SpawnReason = "natural"
	SpawnReasonSpawner SpawnReason = "spawner"
	SpawnReasonCommand SpawnReason = "command"
	SpawnReasonEgg     SpawnReason = "spawn_egg"
	SpawnReasonDefault SpawnReason = "default"
)

// SpawnEvent is the context a producer attaches to a queued entity.
type SpawnEvent struct {
	Reason     SpawnReason
	IsLevelled bool
	ReceivedAt time.Time
}

type QueueItem struct {
	Entity *LivingEntity
	Event  SpawnEvent
}

func NewQueueItem(entity *LivingEntity, event SpawnEvent) QueueItem {
	if event.ReceivedAt.IsZero() {
		event.ReceivedAt = time.Now()
	}
	return QueueItem{Entity: entity, Event: event}
}

func (q QueueItem) EntityID() uuid.UUID {
	return q.Entity.ID
}

type WorkerStatus struct {
	ID        int
	State     string
	Cancelled bool
}

type QueueStatus struct {
	Running       bool
	Size          int
	InFlight      int
	ActiveWorkers int
	Workers       []WorkerStatus
}
