package sdk

import "sync"

// SessionStore persists the token and user projection as one unit.
// Implementations must save and delete both values together.
type SessionStore interface {
	// SaveSession persists token and user. Called only with a complete session.
	SaveSession(session *Session) error
	// LoadSession returns the persisted session, or the zero Session when none is stored.
	LoadSession() (Session, error)
	// DeleteSession removes both values. Deleting an absent session is not an error.
	DeleteSession() error
}

// MemoryStore is a process-local SessionStore.
type MemoryStore struct {
	mu      sync.Mutex
	session Session
}

var _ SessionStore = (*MemoryStore)(nil)

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) SaveSession(session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session.clone()
	return nil
}

func (s *MemoryStore) LoadSession() (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.clone(), nil
}

func (s *MemoryStore) DeleteSession() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = Session{}
	return nil
}
