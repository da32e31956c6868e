package observability

import (
	"log/slog"

	"github.com/aretw0/layout/pkg/domain"
)

// LoggingHooks returns lifecycle hooks that write one record per event.
// Flushes are logged at debug level; everything else at info, and queue
// panics at error.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCreate: func(e *domain.CreateEvent) {
			logger.Info("layout_create", "layout_id", e.LayoutID, "features", e.Features)
		},
		OnOptionsChange: func(e *domain.OptionsEvent) {
			if e.Err != nil {
				logger.Warn("options_change", "layout_id", e.LayoutID, "err", e.Err)
				return
			}
			logger.Info("options_change", "layout_id", e.LayoutID)
		},
		OnStateChange: func(e *domain.StateEvent) {
			logger.Info("state_change", "layout_id", e.LayoutID, "is_func", e.IsFunc)
		},
		OnQueueFlush: func(e *domain.FlushEvent) {
			logger.Debug("queue_flush",
				"layout_id", e.LayoutID,
				"callbacks", e.Callbacks,
				"panics", e.Panics,
				"duration", e.Duration,
			)
		},
		OnQueueError: func(e *domain.QueueErrorEvent) {
			logger.Error("queue_error", "layout_id", e.LayoutID, "err", e.Err)
		},
	}
}

// Combine fans each event out to every non-nil hook in hooks, in order.
func Combine(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range hooks {
		out.OnCreate = chain(out.OnCreate, h.OnCreate)
		out.OnOptionsChange = chain(out.OnOptionsChange, h.OnOptionsChange)
		out.OnStateChange = chain(out.OnStateChange, h.OnStateChange)
		out.OnQueueFlush = chain(out.OnQueueFlush, h.OnQueueFlush)
		out.OnQueueError = chain(out.OnQueueError, h.OnQueueError)
	}
	return out
}

func chain[E any](first, second func(E)) func(E) {
	switch {
	case first == nil:
		return second
	case second == nil:
		return first
	default:
		return func(e E) {
			first(e)
			second(e)
		}
	}
}
