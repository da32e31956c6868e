package domain

import "maps"

// Values holds option fields contributed by features, keyed by field name.
type Values map[string]any

// MergeFunc combines the default options with candidate options and returns
// the final resolved record. A returned error aborts the update.
type MergeFunc[T any] func(defaults, candidate Options[T]) (Options[T], error)

// Options is the configuration snapshot of a layout.
//
// A resolved snapshot is never mutated in place: updates build a new record
// and replace the whole snapshot. State and OnStateChange may be omitted by
// callers but are expected to be present after resolution.
type Options[T any] struct {
	// Data is the caller-owned item sequence.
	Data []T `json:"data,omitempty" yaml:"data,omitempty" mapstructure:"data"`

	// State is the canonical current state, owned by the host.
	State State `json:"state,omitempty" yaml:"state,omitempty" mapstructure:"state"`

	// OnStateChange is the sink for state updates.
	OnStateChange OnChangeFunc[State] `json:"-" yaml:"-" mapstructure:"-"`

	DebugAll    bool `json:"debug_all,omitempty" yaml:"debug_all,omitempty" mapstructure:"debug_all"`
	DebugLayout bool `json:"debug_layout,omitempty" yaml:"debug_layout,omitempty" mapstructure:"debug_layout"`

	// InitialState seeds the layout's initial state at construction.
	InitialState State `json:"initial_state,omitempty" yaml:"initial_state,omitempty" mapstructure:"initial_state"`

	// MergeOptions replaces the default shallow merge when set.
	MergeOptions MergeFunc[T] `json:"-" yaml:"-" mapstructure:"-"`

	// RenderFallbackValue is returned by render helpers when nothing renderable is supplied.
	RenderFallbackValue any `json:"render_fallback_value,omitempty" yaml:"render_fallback_value,omitempty" mapstructure:"render_fallback_value"`

	// Values carries feature-contributed fields.
	Values Values `json:"values,omitempty" yaml:"values,omitempty" mapstructure:"values"`
}

// Value returns a feature-contributed field.
func (o Options[T]) Value(key string) (any, bool) {
	v, ok := o.Values[key]
	return v, ok
}

// ShallowMerge layers candidate on top of defaults, field by field.
//
// A candidate field wins when it is set: non-nil slices, maps, funcs and
// values, and true booleans. Values are merged key by key with candidate keys
// winning. Neither input is modified. An unset candidate field never clears
// a default, so a nil Data or a false flag cannot override a default.
func ShallowMerge[T any](defaults, candidate Options[T]) Options[T] {
	out := defaults

	if candidate.Data != nil {
		out.Data = candidate.Data
	}
	if candidate.State != nil {
		out.State = candidate.State
	}
	if candidate.OnStateChange != nil {
		out.OnStateChange = candidate.OnStateChange
	}
	if candidate.DebugAll {
		out.DebugAll = true
	}
	if candidate.DebugLayout {
		out.DebugLayout = true
	}
	if candidate.InitialState != nil {
		out.InitialState = candidate.InitialState
	}
	if candidate.MergeOptions != nil {
		out.MergeOptions = candidate.MergeOptions
	}
	if candidate.RenderFallbackValue != nil {
		out.RenderFallbackValue = candidate.RenderFallbackValue
	}

	if defaults.Values != nil || candidate.Values != nil {
		values := make(Values, len(defaults.Values)+len(candidate.Values))
		maps.Copy(values, defaults.Values)
		maps.Copy(values, candidate.Values)
		out.Values = values
	}

	return out
}
