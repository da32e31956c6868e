package layout

import (
	"maps"

	"github.com/aretw0/layout/pkg/domain"
)

// Feature is a capability bundle bound to layouts over T. Besides Attach, a
// feature implements any subset of DefaultOptionsProvider,
// InitialStateProvider and Augmenter; capabilities it does not implement are
// skipped during composition.
type Feature[T any] interface {
	// Attach runs once per layout, in registration order, before any
	// capability. The layout is a stub as in DefaultOptions.
	Attach(l *Layout[T])
}

// DefaultOptionsProvider contributes default options. The layout passed in is
// a stub: only its ID, features and logger are available.
type DefaultOptionsProvider[T any] interface {
	DefaultOptions(l *Layout[T]) domain.Options[T]
}

// InitialStateProvider transforms the initial state produced by the features
// registered before it.
type InitialStateProvider interface {
	InitialState(seed domain.State) domain.State
}

// Augmenter extends a layout once its core is assembled. Returned extensions
// are merged onto the layout by name, overriding earlier features.
type Augmenter[T any] interface {
	Augment(l *Layout[T]) Extensions
}

// Extensions are named values a feature attaches to a layout.
type Extensions map[string]any

// Registry is the ordered, immutable list of features of a layout.
// Order is significant: later features override earlier ones.
type Registry[T any] struct {
	features []Feature[T]
}

// NewRegistry creates a registry from features in registration order.
// Nil features are dropped.
func NewRegistry[T any](features ...Feature[T]) *Registry[T] {
	r := &Registry[T]{features: make([]Feature[T], 0, len(features))}
	for _, f := range features {
		if f != nil {
			r.features = append(r.features, f)
		}
	}
	return r
}

// Features returns a copy of the registered features.
func (r *Registry[T]) Features() []Feature[T] {
	return append([]Feature[T](nil), r.features...)
}

// Len returns the number of registered features.
func (r *Registry[T]) Len() int {
	return len(r.features)
}

func (r *Registry[T]) attach(l *Layout[T]) {
	for _, f := range r.features {
		f.Attach(l)
	}
}

func (r *Registry[T]) defaultOptions(l *Layout[T]) domain.Options[T] {
	var acc domain.Options[T]
	for _, f := range r.features {
		if p, ok := f.(DefaultOptionsProvider[T]); ok {
			acc = domain.ShallowMerge(acc, p.DefaultOptions(l))
		}
	}
	return acc
}

func (r *Registry[T]) initialState(seed domain.State) domain.State {
	state := seed
	for _, f := range r.features {
		if p, ok := f.(InitialStateProvider); ok {
			if next := p.InitialState(state); next != nil {
				state = next
			}
		}
	}
	return state
}

func (r *Registry[T]) augment(l *Layout[T]) {
	for _, f := range r.features {
		if a, ok := f.(Augmenter[T]); ok {
			maps.Copy(l.extensions, a.Augment(l))
		}
	}
}
