package domain

import (
	"reflect"
)

// StateDiff lists the top-level keys that changed between two states.
// Deleted keys are present with a nil value.
type StateDiff map[string]any

// Diff calculates the difference between oldState and newState.
// If oldState is nil, every key of newState is reported (initial load).
// It returns nil when nothing changed.
func Diff(oldState, newState State) StateDiff {
	delta := make(StateDiff)

	for k, newVal := range newState {
		oldVal, exists := oldState[k]
		if !exists || !reflect.DeepEqual(oldVal, newVal) {
			delta[k] = newVal
		}
	}

	for k := range oldState {
		if _, exists := newState[k]; !exists {
			delta[k] = nil
		}
	}

	if len(delta) == 0 {
		return nil
	}
	return delta
}

// IsEmpty checks if the diff contains any changes.
func (d StateDiff) IsEmpty() bool {
	return len(d) == 0
}

// Keys returns the changed keys in no particular order.
func (d StateDiff) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	return keys
}
