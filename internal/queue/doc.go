// Package queue implements the mob processing queue: a FIFO of spawned
// entities drained by a small fixed pool of polling workers, watched by a
// health check that restarts workers which died or got cancelled.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────────┐
//	│                            Manager                                  │
//	│                                                                     │
//	│   Add(item) ──► Acquire ──► ┌───────────── mu ──────────────┐       │
//	│                             │  items    [A] [B] [C] ...     │       │
//	│                             │  inFlight {X, Y}              │       │
//	│                             └───────────────┬───────────────┘       │
//	│                                             │ next()                │
//	│                   ┌─────────────────────────┼──────────────┐        │
//	│                   ▼                         ▼              ▼        │
//	│              worker 1                  worker 2        worker 3     │
//	│                   │                         │              │        │
//	│                   └───────── Processor.Process ────────────┘        │
//	│                                             │                       │
//	│                            unmark + Free ◄──┘                       │
//	│                                                                     │
//	│   CheckHealth() ──► cancel / replace unhealthy worker tasks         │
//	└─────────────────────────────────────────────────────────────────────┘
//
// # Deduplication
//
// Add drops an item only when a worker is processing the same entity at that
// moment. Two copies that are both still waiting are both admitted; when the
// second one is popped while the first is in flight, next() drops it. This
// keeps the invariant that at most one worker holds a given entity.
//
// # References
//
// Add calls Acquire on the entity before taking the lock. Every path that
// lets go of an item calls Free exactly once:
//
//   - Add refused it (entity in flight)
//   - next() dropped it (entity in flight)
//   - a worker finished processing it, whatever the outcome
//   - Clear discarded it
//
// # Outcomes
//
// Processor.Process returns a models.Outcome instead of failing:
//
//	OK              nothing to report
//	AlreadyHandled  swallowed
//	TimedOut        debug line APPLY_LEVEL_RESULT, result=false
//	Faulted         error log with the detail
//
// A panic inside Process is recovered and treated as Faulted. Before calling
// the processor a worker skips entities that are no longer populated, and,
// when ignoring mobs with no player context is on and player levelling is
// enabled, entities without an associated player.
//
// # Workers
//
// Each worker is a scheduler task looping until Stop is called or its task is
// cancelled. An empty queue makes it sleep for the poll interval. On exit it
// drops itself from the active count; the last one to leave clears the
// running flag and logs "Mob processing queue manager has exited".
//
// # Health Check
//
// CheckHealth is meant to be called periodically:
//
//	queue depth >= saturation threshold  ──► every worker is unhealthy
//	task cancelled                       ──► "cancelled"
//	task finished without a stop         ──► "not running"
//	forced by saturation                 ──► "queue size was N"
//
// Unhealthy tasks are cancelled, removed and replaced one for one. The active
// count is decremented once per worker whether the watchdog or the worker's
// own exit gets there first.
package queue
