/*
Package snapshot serializes access to persisted layout state.

A Manager wraps a ports.SnapshotStore with per-key locks so read-modify-write
updates of one snapshot never interleave. Locks are reference counted and
dropped once no caller holds them. An optional ports.Locker extends the
exclusion across processes sharing a backend.
*/
package snapshot
