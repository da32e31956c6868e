package feature

import (
	"github.com/aretw0/layout"
	"github.com/aretw0/layout/pkg/domain"
)

// Func is a feature assembled from closures. Unset closures behave as if the
// capability were not implemented.
type Func[T any] struct {
	Name         string
	AttachFunc   func(l *layout.Layout[T])
	DefaultsFunc func(l *layout.Layout[T]) domain.Options[T]
	InitialFunc  func(seed domain.State) domain.State
	AugmentFunc  func(l *layout.Layout[T]) layout.Extensions
}

// Attach implements layout.Feature.
func (f *Func[T]) Attach(l *layout.Layout[T]) {
	if f.AttachFunc != nil {
		f.AttachFunc(l)
	}
}

// DefaultOptions implements layout.DefaultOptionsProvider.
func (f *Func[T]) DefaultOptions(l *layout.Layout[T]) domain.Options[T] {
	if f.DefaultsFunc == nil {
		return domain.Options[T]{}
	}
	return f.DefaultsFunc(l)
}

// InitialState implements layout.InitialStateProvider.
func (f *Func[T]) InitialState(seed domain.State) domain.State {
	if f.InitialFunc == nil {
		return seed
	}
	return f.InitialFunc(seed)
}

// Augment implements layout.Augmenter.
func (f *Func[T]) Augment(l *layout.Layout[T]) layout.Extensions {
	if f.AugmentFunc == nil {
		return nil
	}
	return f.AugmentFunc(l)
}

// String returns the feature name.
func (f *Func[T]) String() string {
	return f.Name
}

// Builder manages feature construction.
type Builder[T any] struct {
	feature Func[T]
}

// New creates a new feature builder.
func New[T any](name string) *Builder[T] {
	return &Builder[T]{feature: Func[T]{Name: name}}
}

// OnAttach sets the callback run when the feature is attached to a layout.
func (b *Builder[T]) OnAttach(fn func(l *layout.Layout[T])) *Builder[T] {
	b.feature.AttachFunc = fn
	return b
}

// Defaults sets the default options contribution.
func (b *Builder[T]) Defaults(fn func(l *layout.Layout[T]) domain.Options[T]) *Builder[T] {
	b.feature.DefaultsFunc = fn
	return b
}

// DefaultValues contributes static feature option fields.
func (b *Builder[T]) DefaultValues(values domain.Values) *Builder[T] {
	return b.Defaults(func(*layout.Layout[T]) domain.Options[T] {
		return domain.Options[T]{Values: values}
	})
}

// InitialState sets the initial state transform.
func (b *Builder[T]) InitialState(fn func(seed domain.State) domain.State) *Builder[T] {
	b.feature.InitialFunc = fn
	return b
}

// InitialValues fills keys missing from the seed state.
func (b *Builder[T]) InitialValues(values domain.State) *Builder[T] {
	return b.InitialState(func(seed domain.State) domain.State {
		return values.With(seed)
	})
}

// Augment sets the instance augmentation.
func (b *Builder[T]) Augment(fn func(l *layout.Layout[T]) layout.Extensions) *Builder[T] {
	b.feature.AugmentFunc = fn
	return b
}

// Build returns the assembled feature. The builder can keep being used; each
// Build call returns an independent copy.
func (b *Builder[T]) Build() layout.Feature[T] {
	f := b.feature
	return &f
}
