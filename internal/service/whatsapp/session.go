package whatsapp

import (
	"sync"
	"time"
)

// Session remembers the last plan a sender asked for so a bare /optimize can
// reuse it.
type Session struct {
	BirdType    string
	Phase       string
	Ingredients []string
	UpdatedAt   time.Time
}

// SessionManager handles per-sender sessions.
type SessionManager struct {
	sessions map[string]Session
	ttl      time.Duration
	now      func() time.Time
	mu       sync.Mutex
}

// NewSessionManager creates a session manager whose entries expire after ttl.
func NewSessionManager(ttl time.Duration) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// GetSession retrieves the current session for a sender. An expired session
// is dropped.
func (sm *SessionManager) GetSession(userID string) (Session, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	state, exists := sm.sessions[userID]
	if !exists {
		return Session{}, false
	}
	if sm.expired(state, sm.now()) {
		delete(sm.sessions, userID)
		return Session{}, false
	}
	return state, true
}

// UpdateSession stores the session for a sender and evicts expired ones.
func (sm *SessionManager) UpdateSession(userID string, state Session) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	now := sm.now()
	for id, existing := range sm.sessions {
		if sm.expired(existing, now) {
			delete(sm.sessions, id)
		}
	}
	state.UpdatedAt = now
	sm.sessions[userID] = state
}

func (sm *SessionManager) expired(state Session, now time.Time) bool {
	return sm.ttl > 0 && now.Sub(state.UpdatedAt) > sm.ttl
}

// ClearSession removes a sender's session.
func (sm *SessionManager) ClearSession(userID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.sessions, userID)
}
