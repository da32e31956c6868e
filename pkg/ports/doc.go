/*
Package ports defines the driven ports (interfaces) of the layout engine.

These interfaces decouple the core from concrete state ownership, scheduling
and persistence, so the same layout can be hosted by very different runtimes.

# Key Interfaces

  - StateStore: read projection and write sink for the current state.
  - SnapshotStore: durable Save/Load/Delete/List of state snapshots.
  - Scheduler: defers queued work past the current unit of work.
  - Locker: cross-process mutual exclusion per snapshot key.

RunStateStoreContract and RunSnapshotStoreContract are reusable suites that
adapters run in their own tests.
*/
package ports
