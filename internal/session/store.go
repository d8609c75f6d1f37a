package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// maxSessions bounds how many sessions the in-memory store keeps. Everything
// lives in memory only; a restart starts from a clean slate.
const maxSessions = 64

var (
	// ErrNotFound indicates an unknown session id.
	ErrNotFound = errors.New("session: not found")
	// ErrStoreFull indicates the session limit was reached.
	ErrStoreFull = errors.New("session: store full")
)

// Store hands out and tracks live sessions.
type Store interface {
	Create(mode Mode) (*Session, error)
	Get(id string) (*Session, error)
	Delete(id string) error
	List() []*Session
}

// InMemoryStore keeps sessions in a map guarded by a mutex.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewInMemoryStore constructs an empty store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]*Session)}
}

// Create registers a new session in the given mode.
func (s *InMemoryStore) Create(mode Mode) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.sessions) >= maxSessions {
		return nil, ErrStoreFull
	}

	now := time.Now()
	sess := &Session{
		ID:        uuid.NewString(),
		Mode:      mode,
		ChatMode:  ChatModeEdit,
		CreatedAt: now,
		UpdatedAt: now,
	}
	sess.Comparator.Reset()
	s.sessions[sess.ID] = sess
	return sess, nil
}

// Get returns the session for id.
func (s *InMemoryStore) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return sess, nil
}

// Delete drops the session for id.
func (s *InMemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}

// List returns all live sessions in unspecified order.
func (s *InMemoryStore) List() []*Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess)
	}
	return out
}
