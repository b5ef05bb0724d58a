package session

import (
	"sync"
	"time"

	"github.com/celtia/supportbot/core"
)

// InMemoryStore is a volatile core.SessionStore keeping sessions in a
// process local map. It is safe for concurrent access across conversation
// ids. Each returned session is cloned to prevent external mutation of
// internal state.
//
// Entries are never evicted: LastActivity is tracked and exposed so a
// wrapper can add TTL eviction, but conversations otherwise accumulate for
// the lifetime of the process.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*core.Session
}

// NewInMemoryStore constructs an empty in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]*core.Session)}
}

// Get returns an existing session (clone) or creates a new idle one lazily,
// refreshing LastActivity either way.
func (s *InMemoryStore) Get(id string) *core.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		sess = core.NewSession(id)
		s.sessions[id] = sess
	}
	sess.LastActivity = time.Now()
	return sess.Clone()
}

// Set overwrites the session state and merges patch into its data. The
// session is created first when the id was never seen.
func (s *InMemoryStore) Set(id string, state core.State, patch map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		sess = core.NewSession(id)
		s.sessions[id] = sess
	}
	sess.State = state
	for k, v := range patch {
		sess.Data[k] = v
	}
	sess.LastActivity = time.Now()
}

// Reset replaces the entry with a fresh idle session, clearing state and
// data atomically.
func (s *InMemoryStore) Reset(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = core.NewSession(id)
}

// Len returns the number of tracked conversations.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
