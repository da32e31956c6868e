package layout

import (
	"log/slog"

	"github.com/aretw0/layout/pkg/domain"
	"github.com/aretw0/layout/pkg/ports"
	"github.com/aretw0/layout/pkg/queue"
)

// Option defines a functional option for configuring a Layout.
type Option[T any] func(*Layout[T])

// WithFeatures sets the feature registry from features in registration order.
func WithFeatures[T any](features ...Feature[T]) Option[T] {
	return func(l *Layout[T]) {
		l.registry = NewRegistry(features...)
	}
}

// WithRegistry shares a prebuilt registry.
func WithRegistry[T any](r *Registry[T]) Option[T] {
	return func(l *Layout[T]) {
		l.registry = r
	}
}

// WithScheduler sets the scheduler used by the deferred callback queue.
func WithScheduler[T any](s ports.Scheduler) Option[T] {
	return func(l *Layout[T]) {
		l.scheduler = s
	}
}

// WithLogger sets a custom structured logger for the layout.
func WithLogger[T any](logger *slog.Logger) Option[T] {
	return func(l *Layout[T]) {
		l.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks[T any](hooks domain.LifecycleHooks) Option[T] {
	return func(l *Layout[T]) {
		l.hooks = hooks
	}
}

// WithErrorHandler receives panics recovered from queued callbacks.
func WithErrorHandler[T any](h queue.ErrorHandler) Option[T] {
	return func(l *Layout[T]) {
		l.onError = h
	}
}

// WithID sets the layout identifier (default: a random UUID).
func WithID[T any](id string) Option[T] {
	return func(l *Layout[T]) {
		l.id = id
	}
}
