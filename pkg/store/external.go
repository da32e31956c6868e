package store

import (
	"github.com/aretw0/layout/pkg/domain"
	"github.com/aretw0/layout/pkg/ports"
)

// External forwards to a state store owned by the host application.
type External struct {
	get func() domain.State
	set func(domain.Updater[domain.State])
}

// NewExternal wraps the read and write functions of an external store.
func NewExternal(get func() domain.State, set func(domain.Updater[domain.State])) *External {
	return &External{get: get, set: set}
}

// GetState reads the external store.
func (s *External) GetState() domain.State {
	return s.get()
}

// SetState forwards updater to the external store.
func (s *External) SetState(updater domain.Updater[domain.State]) {
	s.set(updater)
}

var _ ports.StateStore = (*External)(nil)
