// Package store provides the two concrete state stores a host can bind a
// layout to: Internal, which owns the state and notifies subscribers, and
// External, which forwards reads and writes to a store owned elsewhere.
package store
