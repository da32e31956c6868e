package store

import (
	"sync"

	"github.com/aretw0/layout/pkg/domain"
	"github.com/aretw0/layout/pkg/ports"
)

// Listener is notified with the new state after every write.
type Listener func(state domain.State)

// Internal holds the state itself. Safe for concurrent use.
//
// Listeners run synchronously after the write, outside the lock, so they may
// read or write the store again.
type Internal struct {
	mu        sync.RWMutex
	state     domain.State
	listeners map[uint64]Listener
	nextID    uint64
}

// NewInternal creates a store holding initial.
func NewInternal(initial domain.State) *Internal {
	return &Internal{
		state:     initial,
		listeners: make(map[uint64]Listener),
	}
}

// GetState returns the current state.
func (s *Internal) GetState() domain.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SetState applies updater to the current state and notifies listeners.
func (s *Internal) SetState(updater domain.Updater[domain.State]) {
	s.mu.Lock()
	s.state = updater.Apply(s.state)
	next := s.state
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(next)
	}
}

// Subscribe registers fn and returns a function that removes it.
func (s *Internal) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

var _ ports.StateStore = (*Internal)(nil)
