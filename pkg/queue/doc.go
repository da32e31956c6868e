// Package queue implements the deferred callback queue used by layouts to
// coalesce work into a single flush per scheduling cycle.
package queue
