// Package scheduler runs background work and hands back an inspectable Task.
//
// It is the execution context used by the mob queue workers, the queue
// watchdog, the debug auto-disable timer and the server-load hook. Every
// submission starts its own goroutine; the scheduler only tracks them so
// that Close can cancel and wait for all of them.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────────┐
//	│                           Scheduler                                 │
//	│                                                                     │
//	│   RunAsync(fn)          RunLater(d, fn)       RunAtFixedRate(d,p,fn)│
//	│        │                      │                       │             │
//	│        └──────────────────────┼───────────────────────┘             │
//	│                               ▼                                     │
//	│                        schedule()                                   │
//	│              ctx, cancel := WithCancel(mainCtx)                     │
//	│                               │                                     │
//	│              ┌────────────────┼────────────────┐                    │
//	│              ▼                ▼                ▼                    │
//	│         goroutine 1      goroutine 2      goroutine N               │
//	│              │                │                │                    │
//	│              ▼                ▼                ▼                    │
//	│           *Task            *Task            *Task                   │
//	└─────────────────────────────────────────────────────────────────────┘
//
// # Task States
//
//	┌──────────┐   execute()   ┌──────────┐   return / panic   ┌──────────┐
//	│  Queued  │ ────────────► │ Running  │ ─────────────────► │ Finished │
//	└──────────┘               └────┬─────┘                    └──────────┘
//	      ▲                         │
//	      └─────── periodic ────────┘
//
// A periodic task goes back to Queued between runs. One-shot tasks move to
// Finished as soon as the work function returns.
//
// # Cancellation
//
// Task.Cancel sets the cancelled flag and cancels the task context. The work
// function is never interrupted; it has to observe ctx.Done(). This is what
// lets the queue watchdog look at IsCancelled and State independently:
// a task can report cancelled while it is still Running.
//
//   - task.Cancel()     → cancels one task
//   - scheduler.Close() → cancels the main context and waits for all tasks
//
// # Panic Recovery
//
// Work functions run under a recover:
//
//	defer func() {
//	    if rec := recover(); rec != nil {
//	        err = fmt.Errorf("task panicked: %v", rec)
//	    }
//	}()
//
// A panicking one-shot task finishes with that error; a panicking periodic
// task logs it and keeps its schedule.
//
// # Usage Example
//
//	sched := scheduler.NewScheduler()
//	defer sched.Close()
//
//	task := sched.RunAtFixedRate(0, 5*time.Second, func(ctx context.Context) error {
//	    manager.CheckHealth()
//	    return nil
//	})
//
//	// later
//	task.Cancel()
//	<-task.Done()
package scheduler
