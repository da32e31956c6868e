/*
Package scheduler provides ports.Scheduler implementations.

A scheduler decides when deferred layout work runs. Pick the one that matches
the host runtime:

  - Async runs every task on its own goroutine. It is the default.
  - Loop runs tasks one at a time on a single owning goroutine, like a UI thread.
  - Manual holds tasks until the caller runs them, for deterministic tests.
  - Func adapts an existing dispatcher (for example a UI framework's Dispatch).
*/
package scheduler
