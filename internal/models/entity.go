package models

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

type Location struct {
	World string
	X     float64
	Y     float64
	Z     float64
}

// BlockY is the integer block coordinate the debug Y filters compare against.
func (l Location) BlockY() int {
	y := int(l.Y)
	if l.Y < 0 && float64(y) != l.Y {
		y--
	}
	return y
}

func (l Location) String() string {
	return fmt.Sprintf("%d, %d, %d in %s", int(l.X), l.BlockY(), int(l.Z), l.World)
}

// LivingEntity is a reference counted wrapper around a spawned mob.
//
// Every holder calls Acquire once and Free exactly once. When the last
// reference is freed the wrapper is depopulated and the release hook runs,
// after which processing it is pointless.
type LivingEntity struct {
	ID       uuid.UUID
	Type     string
	Name     string
	Location Location
	// Player is the name of the player whose context caused the spawn. Empty when none.
	Player string

	populated atomic.Bool
	inUse     atomic.Int32
	// mu guards level and onRelease.
	mu        sync.Mutex
	level     *int
	onRelease func(*LivingEntity)
}

func NewLivingEntity(id uuid.UUID, entityType string, loc Location) *LivingEntity {
	e := &LivingEntity{
		ID:       id,
		Type:     entityType,
		Name:     entityType,
		Location: loc,
	}
	e.populated.Store(true)
	return e
}

// OnRelease registers fn to run once the reference count drops to zero.
func (e *LivingEntity) OnRelease(fn func(*LivingEntity)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onRelease = fn
}

// Acquire adds a reference and returns the new count.
func (e *LivingEntity) Acquire() int32 {
	return e.inUse.Add(1)
}

// Free drops a reference and returns the remaining count.
func (e *LivingEntity) Free() int32 {
	n := e.inUse.Add(-1)
	if n > 0 {
		return n
	}

	if e.populated.CompareAndSwap(true, false) {
		e.mu.Lock()
		fn := e.onRelease
		e.mu.Unlock()
		if fn != nil {
			fn(e)
		}
	}

	return n
}

// Level returns a copy of the applied level, nil when the mob is not levelled yet.
func (e *LivingEntity) Level() *int {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.level == nil {
		return nil
	}
	lvl := *e.level
	return &lvl
}

func (e *LivingEntity) SetLevel(level int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.level = &level
}

func (e *LivingEntity) InUse() int32 {
	return e.inUse.Load()
}

func (e *LivingEntity) IsPopulated() bool {
	return e.populated.Load()
}

// Depopulate marks the entity as gone (despawned, unloaded) without touching its references.
func (e *LivingEntity) Depopulate() {
	e.populated.Store(false)
}

func (e *LivingEntity) HasPlayerContext() bool {
	return e.Player != ""
}

func (e *LivingEntity) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	return e.Type
}
