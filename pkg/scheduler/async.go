package scheduler

import "github.com/aretw0/layout/pkg/ports"

// Async schedules each task on a new goroutine. A queue flushed by Async may
// start before the enqueuing goroutine finishes its work, so batching is
// best-effort; Loop batches deterministically.
type Async struct{}

// Schedule runs task on its own goroutine.
func (Async) Schedule(task func()) {
	if task == nil {
		return
	}
	go task()
}

// Func adapts a dispatch function to ports.Scheduler.
type Func func(task func())

// Schedule hands task to the wrapped dispatcher.
func (f Func) Schedule(task func()) {
	if task == nil {
		return
	}
	f(task)
}

var (
	_ ports.Scheduler = Async{}
	_ ports.Scheduler = Func(nil)
)
