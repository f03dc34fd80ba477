package core

import (
	"time"

	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	Loaded         bool       `json:"loaded"`
	Source         Source     `json:"source,omitempty"`
	Count          int        `json:"count"`
	Subscribers    int        `json:"subscribers"`
	RepositoryType string     `json:"repository_type"`
	LastSave       *time.Time `json:"last_save,omitempty"`
	LastSaveError  string     `json:"last_save_error,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	repoType := "unknown"
	if s.repo != nil {
		repoType = "repository"
		if comp, ok := s.repo.(introspection.Component); ok {
			repoType = comp.ComponentType()
		}
	}

	state := ServiceState{
		Loaded:         s.loaded,
		Source:         s.source,
		Count:          len(s.meals),
		Subscribers:    len(s.subscribers),
		RepositoryType: repoType,
		LastSave:       s.lastSave,
	}
	if s.lastSaveErr != nil {
		state.LastSaveError = s.lastSaveErr.Error()
	}
	return state
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "meal-store"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
