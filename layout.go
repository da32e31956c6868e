package layout

import (
	_ "embed"
	"fmt"
	"log/slog"
	"maps"
	"strings"

	"github.com/aretw0/layout/internal/logging"
	"github.com/aretw0/layout/pkg/domain"
	"github.com/aretw0/layout/pkg/ports"
	"github.com/aretw0/layout/pkg/queue"
	"github.com/aretw0/layout/pkg/scheduler"
	"github.com/google/uuid"
	"go.uber.org/atomic"
)

//go:embed VERSION
var version string

// Version is the library version.
var Version = strings.TrimSpace(version)

// Layout is a headless, feature-composed state/options instance.
//
// The layout never stores state: GetState reads the State field of the current
// options snapshot and SetState forwards updates to OnStateChange. Options are
// replaced wholesale by SetOptions, so readers always see a complete snapshot.
type Layout[T any] struct {
	id           string
	registry     *Registry[T]
	defaults     domain.Options[T]
	initialState domain.State
	options      *atomic.Pointer[domain.Options[T]]
	queue        *queue.Queue
	extensions   Extensions

	scheduler ports.Scheduler
	onError   queue.ErrorHandler
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
}

// New assembles a layout from caller options.
//
// Construction computes the feature defaults, folds the initial state
// (caller InitialState first, then feature transforms), stores the shallow
// merge of defaults and opts as the first snapshot and finally lets features
// augment the instance.
func New[T any](opts domain.Options[T], setters ...Option[T]) *Layout[T] {
	l := &Layout[T]{
		options:    atomic.NewPointer[domain.Options[T]](nil),
		extensions: make(Extensions),
	}
	for _, set := range setters {
		set(l)
	}

	if l.id == "" {
		l.id = uuid.NewString()
	}
	if l.registry == nil {
		l.registry = NewRegistry[T]()
	}
	if l.scheduler == nil {
		l.scheduler = scheduler.Async{}
	}
	debug := opts.DebugAll || opts.DebugLayout
	qopts := []queue.Option{
		queue.WithScheduler(l.scheduler),
		queue.WithErrorHandler(l.onError),
		queue.WithLifecycleHooks(l.hooks),
		queue.WithID(l.id),
	}
	if l.logger == nil && debug {
		l.logger = logging.New(slog.LevelInfo)
	}
	if l.logger != nil {
		l.logger = l.logger.With("layout_id", l.id)
		// Unhandled callback panics otherwise go to slog.Default().
		qopts = append(qopts, queue.WithLogger(l.logger))
	} else {
		l.logger = logging.NewNop().With("layout_id", l.id)
	}

	if debug {
		l.logger.Info("creating layout instance", "features", l.registry.Len())
	}

	l.queue = queue.New(qopts...)

	l.registry.attach(l)
	l.defaults = l.registry.defaultOptions(l)

	initial := domain.State{}.With(opts.InitialState)
	l.initialState = l.registry.initialState(initial).Clone()

	resolved := domain.ShallowMerge(l.defaults, opts)
	l.options.Store(&resolved)

	l.registry.augment(l)

	if l.hooks.OnCreate != nil {
		l.hooks.OnCreate(&domain.CreateEvent{
			EventBase: domain.NewEventBase(domain.EventCreate, l.id),
			Features:  l.registry.Len(),
		})
	}

	return l
}

// ID returns the layout identifier.
func (l *Layout[T]) ID() string {
	return l.id
}

// InitialState returns a copy of the state computed at construction.
func (l *Layout[T]) InitialState() domain.State {
	return l.initialState.Clone()
}

// DefaultOptions returns the feature defaults computed at construction.
func (l *Layout[T]) DefaultOptions() domain.Options[T] {
	return l.defaults
}

// Options returns the current resolved options snapshot. Before construction
// stores the first snapshot it returns the zero value.
func (l *Layout[T]) Options() domain.Options[T] {
	if current := l.options.Load(); current != nil {
		return *current
	}
	return domain.Options[T]{}
}

// SetOptions applies updater to the current options, resolves the result
// against the feature defaults and replaces the snapshot.
//
// The default shallow merge only lets a candidate set fields: a nil Data,
// State or Values, or a false debug flag, keeps the default value. Clear a
// field through a MergeOptions hook, or set it to an empty non-nil value.
//
// Resolution uses the MergeOptions hook of the current snapshot when present,
// and the default shallow merge otherwise. A hook error is returned and the
// snapshot is left untouched.
func (l *Layout[T]) SetOptions(updater domain.Updater[domain.Options[T]]) error {
	current := l.Options()
	candidate := updater.Apply(current)

	resolved, err := l.resolve(current, candidate)
	if l.hooks.OnOptionsChange != nil {
		l.hooks.OnOptionsChange(&domain.OptionsEvent{
			EventBase: domain.NewEventBase(domain.EventOptionsChange, l.id),
			Err:       err,
		})
	}
	if err != nil {
		return fmt.Errorf("failed to merge options: %w", err)
	}

	l.options.Store(&resolved)
	return nil
}

func (l *Layout[T]) resolve(current, candidate domain.Options[T]) (domain.Options[T], error) {
	if current.MergeOptions != nil {
		return current.MergeOptions(l.defaults, candidate)
	}
	return domain.ShallowMerge(l.defaults, candidate), nil
}

// GetState returns the State of the current options snapshot.
func (l *Layout[T]) GetState() domain.State {
	if current := l.options.Load(); current != nil {
		return current.State
	}
	return nil
}

// SetState forwards updater to the OnStateChange sink of the current options.
// It does not change anything itself; a nil sink drops the update.
func (l *Layout[T]) SetState(updater domain.Updater[domain.State]) {
	if l.hooks.OnStateChange != nil {
		l.hooks.OnStateChange(&domain.StateEvent{
			EventBase: domain.NewEventBase(domain.EventStateChange, l.id),
			IsFunc:    updater.IsFunc(),
		})
	}
	if sink := l.Options().OnStateChange; sink != nil {
		sink(updater)
	}
}

// Reset replaces the state with a copy of the initial state, so sinks that
// mutate the state they receive cannot alter later resets.
func (l *Layout[T]) Reset() {
	l.SetState(domain.Set(l.initialState.Clone()))
}

// Queue defers cb to the next flush of the layout's callback queue.
//
// Callbacks queued before the flush runs share one flush. With the default
// scheduler.Async the flush runs on its own goroutine and may overlap the
// caller's current work, so coalescing is best-effort; hosts with a single
// owning goroutine, such as a UI loop, should use scheduler.Loop or
// scheduler.Func to flush after the current unit of work.
func (l *Layout[T]) Queue(cb func()) {
	l.queue.Enqueue(cb)
}

// Features returns the registered features in order.
func (l *Layout[T]) Features() []Feature[T] {
	return l.registry.Features()
}

// Extension returns a value attached by a feature's Augment.
func (l *Layout[T]) Extension(name string) (any, bool) {
	v, ok := l.extensions[name]
	return v, ok
}

// Extensions returns a copy of all attached extensions.
func (l *Layout[T]) Extensions() Extensions {
	return maps.Clone(l.extensions)
}

// Logger returns the layout logger, enriched with the layout ID.
func (l *Layout[T]) Logger() *slog.Logger {
	return l.logger
}

// ExtensionOf returns the extension registered under name as an E.
func ExtensionOf[E any, T any](l *Layout[T], name string) (E, bool) {
	var zero E
	v, ok := l.Extension(name)
	if !ok {
		return zero, false
	}
	e, ok := v.(E)
	if !ok {
		return zero, false
	}
	return e, true
}

var _ ports.StateStore = (*Layout[any])(nil)
