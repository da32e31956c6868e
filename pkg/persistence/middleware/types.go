// Package middleware wraps snapshot stores with cross-cutting behavior such as
// encryption at rest and redaction of sensitive keys.
package middleware

import "github.com/aretw0/layout/pkg/ports"

// Middleware allows wrapping a SnapshotStore to add behavior.
type Middleware func(ports.SnapshotStore) ports.SnapshotStore

// Chain wraps store with mws. The first middleware is the outermost one, so
// Chain(s, redact, encrypt) redacts before encrypting on Save.
func Chain(store ports.SnapshotStore, mws ...Middleware) ports.SnapshotStore {
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] != nil {
			store = mws[i](store)
		}
	}
	return store
}
