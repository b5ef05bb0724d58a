package core

import "time"

// Session represents one conversation's mutable dialogue state plus the
// field data accumulated across steps (recharge number, appointment name,
// date, time, ...). Data entries persist until overwritten or the session
// is reset.
//
// Contract:
//   - A session exists for every conversation after its first observed
//     message (stores create lazily on Get)
//   - Reset clears state (back to StateIdle) and data atomically
//   - Stores hand out clones; mutation goes through the store API.
type Session struct {
	ID           string            `json:"id"`
	State        State             `json:"state"`
	Data         map[string]string `json:"data"`
	LastActivity time.Time         `json:"last_activity"`
}

// NewSession creates a fresh idle session for the given conversation id.
func NewSession(id string) *Session {
	return &Session{
		ID:           id,
		State:        StateIdle,
		Data:         map[string]string{},
		LastActivity: time.Now(),
	}
}

// Clone returns a deep copy of the session safe for independent mutation.
func (s *Session) Clone() *Session {
	clone := &Session{
		ID:           s.ID,
		State:        s.State,
		Data:         make(map[string]string, len(s.Data)),
		LastActivity: s.LastActivity,
	}
	for k, v := range s.Data {
		clone.Data[k] = v
	}
	return clone
}

// SessionStore owns all Session instances. Implementations must be safe for
// concurrent use across conversation ids; the dialogue engine never holds a
// session beyond a single message-handling invocation.
type SessionStore interface {
	// Get returns the existing session for id, creating an idle one with
	// empty data on first access. LastActivity is refreshed.
	Get(id string) *Session

	// Set overwrites the session state and merges patch into its data.
	Set(id string, state State, patch map[string]string)

	// Reset replaces the entry with a fresh idle session, discarding data.
	Reset(id string)
}
