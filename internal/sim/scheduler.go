// Package sim provides the cooperative tick scheduler the verification
// pipeline runs on.
//
// Every clocked component registers a Task and runs on its own goroutine, but
// execution is strictly sequential: within a tick the scheduler grants each
// task its slot in registration order and waits for it to yield before moving
// on. Tick N+1 never starts until every task has yielded tick N. Shared signal
// state therefore needs no locks: at any instant at most one task is running.
package sim

import (
	"context"
	"fmt"
)

// Scheduler advances a set of tasks through discrete global clock ticks in
// lockstep. Register every task before calling Run; registration order is the
// per-tick execution order.
type Scheduler struct {
	tasks   []*Task
	running bool
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Register adds a task with the given name. The name is diagnostic only.
// Register must not be called after Run has started.
func (s *Scheduler) Register(name string) *Task {
	t := &Task{
		name:  name,
		grant: make(chan int64),
		yield: make(chan struct{}),
	}
	s.tasks = append(s.tasks, t)
	return t
}

// Run drives ticks [0, ticks) through every registered task and then stops
// them. Each task's goroutine must be started before Run is called, otherwise
// Run blocks on the first grant. Run returns ctx.Err() if the context is
// cancelled between ticks; the fixed tick budget is otherwise the only
// termination mechanism the harness has.
func (s *Scheduler) Run(ctx context.Context, ticks int64) error {
	if s.running {
		return fmt.Errorf("scheduler already running")
	}
	s.running = true
	defer s.stop()

	for tick := int64(0); tick < ticks; tick++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		for _, t := range s.tasks {
			t.grant <- tick
			<-t.yield
		}
	}
	return nil
}

// stop wakes every task with a closed grant channel. All tasks are parked in
// Tick at this point (Run collects each yield before granting the next slot),
// so closing is race-free.
func (s *Scheduler) stop() {
	for _, t := range s.tasks {
		close(t.grant)
	}
}

// Task is one clocked component's handle onto the scheduler. All methods must
// be called from the single goroutine that owns the task.
type Task struct {
	name   string
	grant  chan int64
	yield  chan struct{}
	active bool
}

// Name returns the task's registration name.
func (t *Task) Name() string {
	return t.name
}

// Tick yields the task's current slot (if it holds one) and blocks until the
// scheduler grants the next tick. It returns the granted tick number and true,
// or 0 and false once the run is over. After a false return the task goroutine
// should exit; further calls keep returning false.
func (t *Task) Tick() (int64, bool) {
	if t.active {
		t.yield <- struct{}{}
	}
	tick, ok := <-t.grant
	t.active = ok
	return tick, ok
}

// WaitUntil re-evaluates pred once per tick until it holds, starting with the
// tick the task currently holds. It returns false if the run ends first. This
// is the condition-wait primitive the driver's blocking protocol steps are
// built on; there is deliberately no timeout.
func (t *Task) WaitUntil(pred func() bool) bool {
	for !pred() {
		if _, ok := t.Tick(); !ok {
			return false
		}
	}
	return true
}

// Hold advances exactly n ticks. It returns false if the run ends first.
func (t *Task) Hold(n int) bool {
	for i := 0; i < n; i++ {
		if _, ok := t.Tick(); !ok {
			return false
		}
	}
	return true
}
