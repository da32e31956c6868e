package domain

import (
	"errors"
	"fmt"
)

// ErrSnapshotNotFound is returned when a key cannot be found in a snapshot store.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// ErrEmptyKey is returned when a snapshot operation receives an empty key.
var ErrEmptyKey = errors.New("snapshot key cannot be empty")

// ErrMissingEnvelope is returned when an encrypted store reads a snapshot that
// carries no encrypted payload.
var ErrMissingEnvelope = errors.New("snapshot is missing encrypted data envelope")

// CallbackError wraps a panic recovered from a queued callback.
type CallbackError struct {
	// Value is the recovered panic value.
	Value any
	// Stack is the goroutine stack captured at recovery.
	Stack []byte
}

func (e *CallbackError) Error() string {
	return fmt.Sprintf("queued callback panicked: %v", e.Value)
}

// Unwrap exposes the panic value when it is an error.
func (e *CallbackError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
