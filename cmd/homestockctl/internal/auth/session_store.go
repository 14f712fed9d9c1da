package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/devindaJJ/HomeStock-sub000/pkg/sdk"
)

const sessionFile = "session.json"

// persistedSession is the on-disk shape: exactly the token and the user
// projection, written and removed together.
type persistedSession struct {
	Token string    `json:"token"`
	User  *sdk.User `json:"user"`
}

// FileStore implements sdk.SessionStore using a JSON file.
// This is the CLI's session persistence implementation.
type FileStore struct {
	path string
}

// Ensure FileStore implements sdk.SessionStore at compile time.
var _ sdk.SessionStore = (*FileStore)(nil)

// DefaultSessionPath returns ~/.homestock/session.json.
func DefaultSessionPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".homestock", sessionFile), nil
}

// NewFileStore creates a FileStore at path, creating its directory with
// owner-only permissions. An empty path selects DefaultSessionPath.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		var err error
		if path, err = DefaultSessionPath(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Path returns the file backing the store.
func (s *FileStore) Path() string { return s.path }

// SaveSession writes the token and user. The file is replaced atomically so a
// crash never leaves one half of the pair behind.
func (s *FileStore) SaveSession(session *sdk.Session) error {
	if session == nil || session.Token == "" {
		return s.DeleteSession()
	}
	data, err := json.MarshalIndent(persistedSession{Token: session.Token, User: session.User}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*.json")
	if err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write session: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// LoadSession reads the persisted session. A missing file is an empty session.
func (s *FileStore) LoadSession() (sdk.Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return sdk.Session{}, nil
		}
		return sdk.Session{}, fmt.Errorf("failed to read session file: %w", err)
	}
	var persisted persistedSession
	if err := json.Unmarshal(data, &persisted); err != nil {
		return sdk.Session{}, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return sdk.Session{Token: persisted.Token, User: persisted.User}, nil
}

// DeleteSession removes the session file.
func (s *FileStore) DeleteSession() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete session file: %w", err)
	}
	return nil
}
