package scheduler

import "sync"

// Manual holds scheduled tasks until RunPending or RunUntilIdle is called.
// Each RunPending call is one scheduling cycle.
type Manual struct {
	mu    sync.Mutex
	tasks []func()
}

// NewManual creates an empty manual scheduler.
func NewManual() *Manual {
	return &Manual{}
}

// Schedule records task for a later cycle.
func (m *Manual) Schedule(task func()) {
	if task == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, task)
}

// Pending returns the number of tasks waiting to run.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// RunPending runs the tasks that were pending when it was called and returns
// how many ran. Tasks scheduled while they run wait for the next cycle.
func (m *Manual) RunPending() int {
	m.mu.Lock()
	tasks := m.tasks
	m.tasks = nil
	m.mu.Unlock()

	for _, task := range tasks {
		task()
	}
	return len(tasks)
}

// RunUntilIdle runs cycles until no task is pending and returns the total
// number of tasks run.
func (m *Manual) RunUntilIdle() int {
	total := 0
	for {
		n := m.RunPending()
		if n == 0 {
			return total
		}
		total += n
	}
}
