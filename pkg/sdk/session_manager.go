package sdk

import (
	"fmt"
	"log/slog"
	"sync"
)

// SessionManager owns the client-held session. All writes replace token and
// user together under one lock, so readers never observe a token without a
// user or a user without a token.
type SessionManager struct {
	store  SessionStore
	logger *slog.Logger

	mu      sync.RWMutex
	loaded  bool
	current Session
}

// NewSessionManager returns a manager backed by store. The stored session is
// read lazily on first access.
func NewSessionManager(store SessionStore, logger *slog.Logger) *SessionManager {
	if store == nil {
		store = NewMemoryStore()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SessionManager{store: store, logger: logger}
}

// Current returns a snapshot of the session.
func (m *SessionManager) Current() Session {
	m.mu.RLock()
	if m.loaded {
		s := m.current.clone()
		m.mu.RUnlock()
		return s
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadLocked()
	return m.current.clone()
}

// loadLocked reads the persisted session once. An unreadable or half-present
// pair is discarded and wiped from the store.
func (m *SessionManager) loadLocked() {
	if m.loaded {
		return
	}
	m.loaded = true

	s, err := m.store.LoadSession()
	if err != nil {
		m.logger.Warn("discarding unreadable stored session", "error", err)
		if err := m.store.DeleteSession(); err != nil {
			m.logger.Warn("failed to delete stored session", "error", err)
		}
		return
	}
	if err := validateSession(s); err != nil {
		if s.Token != "" || s.User != nil {
			m.logger.Warn("discarding stored session", "error", err)
			if err := m.store.DeleteSession(); err != nil {
				m.logger.Warn("failed to delete stored session", "error", err)
			}
		}
		return
	}
	m.current = s.clone()
}

// Establish persists s and makes it current. Nothing changes when it fails.
func (m *SessionManager) Establish(s Session) error {
	if err := validateSession(s); err != nil {
		return err
	}
	s = s.clone()

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.SaveSession(&s); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	m.loaded = true
	m.current = s
	return nil
}

// UpdateUser applies fn to the cached user if the session still holds token.
// It reports whether the update was applied. Like Establish, nothing changes
// when the store cannot persist the result.
func (m *SessionManager) UpdateUser(token string, fn func(u *User)) (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadLocked()

	if token == "" || m.current.Token != token || m.current.User == nil {
		return m.current.clone(), false
	}

	next := m.current.clone()
	fn(next.User)
	if !next.User.Role.Valid() {
		m.logger.Warn("refusing user update with unknown role", "role", next.User.Role)
		return m.current.clone(), false
	}
	if err := m.store.SaveSession(&next); err != nil {
		m.logger.Warn("failed to persist user update", "error", err)
		return m.current.clone(), false
	}
	m.current = next
	return next.clone(), true
}

// Terminate clears token and user together and deletes the persisted pair.
// It reports whether a session was actually ended; repeated calls are no-ops.
func (m *SessionManager) Terminate() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadLocked()
	return m.terminateLocked()
}

// TerminateIfToken terminates only while the session still holds token. A late
// failure for a token that was already replaced leaves the newer session alone.
func (m *SessionManager) TerminateIfToken(token string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadLocked()
	if token == "" || m.current.Token != token {
		return false
	}
	return m.terminateLocked()
}

func (m *SessionManager) terminateLocked() bool {
	wasActive := m.current.Authenticated()
	m.current = Session{}
	if !wasActive {
		return false
	}
	if err := m.store.DeleteSession(); err != nil {
		m.logger.Warn("failed to delete stored session", "error", err)
	}
	m.logger.Debug("session terminated")
	return true
}

func validateSession(s Session) error {
	switch {
	case s.Token == "" && s.User == nil:
		return fmt.Errorf("session is empty")
	case s.Token == "":
		return fmt.Errorf("session has a user but no token")
	case s.User == nil:
		return fmt.Errorf("session has a token but no user")
	case !s.User.Role.Valid():
		return fmt.Errorf("session user has unknown role %q", s.User.Role)
	}
	return nil
}
