package domain

import "maps"

// State is the canonical UI state record of a layout.
// The core treats it as opaque: features own the keys they contribute.
type State map[string]any

// Clone returns a deep copy of the state. Nested State, map[string]any and
// []any values are copied; other values are shared.
func (s State) Clone() State {
	if s == nil {
		return nil
	}
	out := make(State, len(s))
	for k, v := range s {
		out[k] = cloneValue(v)
	}
	return out
}

// With returns a shallow copy of s with the keys of other layered on top.
// Neither input is modified.
func (s State) With(other State) State {
	out := make(State, len(s)+len(other))
	maps.Copy(out, s)
	maps.Copy(out, other)
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case State:
		return val.Clone()
	case map[string]any:
		return map[string]any(State(val).Clone())
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
