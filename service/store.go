package service

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// SessionStore keeps session states in memory. Idle sessions expire after
// the configured TTL; nothing is persisted.
type SessionStore struct {
	sessions *cache.Cache
	ttl      time.Duration
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &SessionStore{
		sessions: cache.New(ttl, ttl/2),
		ttl:      ttl,
	}
}

// Get returns the session for id and refreshes its expiry.
func (s *SessionStore) Get(id string) (*SessionState, bool) {
	if id == "" {
		return nil, false
	}
	v, ok := s.sessions.Get(id)
	if !ok {
		return nil, false
	}
	state := v.(*SessionState)
	s.sessions.Set(id, state, s.ttl)
	return state, true
}

// Create starts a new session under a random id.
func (s *SessionStore) Create() *SessionState {
	state := NewSessionState(uuid.NewString())
	s.sessions.Set(state.ID, state, s.ttl)
	slog.Debug("session created", "session_id", state.ID)
	return state
}

// GetOrCreate returns the session for id, creating a new one when id is
// unknown or expired.
func (s *SessionStore) GetOrCreate(id string) (*SessionState, bool) {
	if state, ok := s.Get(id); ok {
		return state, false
	}
	return s.Create(), true
}

func (s *SessionStore) Delete(id string) {
	s.sessions.Delete(id)
}

// Count returns the number of live sessions.
func (s *SessionStore) Count() int {
	return s.sessions.ItemCount()
}
