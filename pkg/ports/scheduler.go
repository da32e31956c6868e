package ports

// Scheduler defers work until after the current unit of work completes.
type Scheduler interface {
	// Schedule arranges for task to run later. It must not run task before
	// returning.
	Schedule(task func())
}
