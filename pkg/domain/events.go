package domain

import (
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventCreate        EventType = "layout_create"
	EventOptionsChange EventType = "options_change"
	EventStateChange   EventType = "state_change"
	EventQueueFlush    EventType = "queue_flush"
	EventQueueError    EventType = "queue_error"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	LayoutID  string    `json:"layout_id"`
}

// CreateEvent is emitted once a layout is fully assembled.
type CreateEvent struct {
	EventBase
	Features int `json:"features"`
}

// OptionsEvent is emitted after every SetOptions call.
type OptionsEvent struct {
	EventBase
	Err error `json:"-"`
}

// StateEvent is emitted when SetState announces an update.
type StateEvent struct {
	EventBase
	IsFunc bool `json:"is_func"`
}

// FlushEvent is emitted when a queue flush drains to empty.
type FlushEvent struct {
	EventBase
	Callbacks int           `json:"callbacks"`
	Panics    int           `json:"panics"`
	Duration  time.Duration `json:"duration"`
}

// QueueErrorEvent is emitted when a queued callback panics.
type QueueErrorEvent struct {
	EventBase
	Err *CallbackError `json:"-"`
}

// LifecycleHooks defines callbacks for layout observability.
// Nil hooks are skipped.
type LifecycleHooks struct {
	OnCreate        func(*CreateEvent)
	OnOptionsChange func(*OptionsEvent)
	OnStateChange   func(*StateEvent)
	OnQueueFlush    func(*FlushEvent)
	OnQueueError    func(*QueueErrorEvent)
}

// NewEventBase stamps an event of the given type.
func NewEventBase(typ EventType, layoutID string) EventBase {
	return EventBase{
		Timestamp: time.Now(),
		Type:      typ,
		LayoutID:  layoutID,
	}
}
