package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Factory builds the controller of a newly created session.
type Factory func() *Controller

type entry struct {
	ctrl     *Controller
	lastSeen time.Time
}

// Store keeps the live sessions of the HTTP presentation layer in memory.
// Sessions never outlive the process.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	factory  Factory
	now      func() time.Time
}

// NewStore creates an empty store whose sessions are built by factory.
func NewStore(factory Factory) *Store {
	return &Store{
		sessions: make(map[string]*entry),
		factory:  factory,
		now:      time.Now,
	}
}

// Create starts a new session and returns its ID.
func (s *Store) Create() (string, *Controller) {
	id := uuid.NewString()
	ctrl := s.factory()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = &entry{ctrl: ctrl, lastSeen: s.now()}
	return id, ctrl
}

// Get returns the controller of a live session and marks it as seen.
func (s *Store) Get(id string) (*Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	e.lastSeen = s.now()
	return e.ctrl, nil
}

// Delete ends a session, discarding its state.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// EndIdle ends every session not seen since cutoff, skipping sessions with a
// webhook call in flight. It returns how many were ended.
func (s *Store) EndIdle(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	ended := 0
	for id, e := range s.sessions {
		if e.lastSeen.After(cutoff) || e.ctrl.Busy() {
			continue
		}
		delete(s.sessions, id)
		ended++
	}
	return ended
}
