package session

import (
	"sync"

	"github.com/Codding0001/bond-chat-verse-sub000/internal/models"
)

// Identity is the authenticated user attached to the current session,
// together with a cached profile snapshot.
type Identity struct {
	UserID  string
	Profile *models.Profile
}

// Store holds the session identity and notifies subscribers when it changes.
// It is injected into every component that needs to know who the user is;
// there is no ambient global. A nil identity means logged out.
type Store struct {
	mu      sync.RWMutex
	current *Identity
	subs    map[int]func(*Identity)
	nextID  int
}

func NewStore() *Store {
	return &Store{subs: make(map[int]func(*Identity))}
}

// Current returns the identity, or nil when nobody is logged in.
func (s *Store) Current() *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set installs a new identity (login or token refresh) and fires every
// subscriber with it.
func (s *Store) Set(id *Identity) {
	s.mu.Lock()
	s.current = id
	subs := make([]func(*Identity), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(id)
	}
}

// Clear logs the session out. Subscribers fire with nil.
func (s *Store) Clear() {
	s.Set(nil)
}

// Subscribe registers a change callback and returns its cancel func.
func (s *Store) Subscribe(fn func(*Identity)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}
