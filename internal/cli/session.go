package cli

import (
	"errors"
	"io/fs"
	"os"
	"strings"
)

// SessionFile persists the session token between invocations.
type SessionFile struct {
	path string
}

func NewSessionFile(path string) *SessionFile {
	return &SessionFile{path: path}
}

// Load returns the saved token, or "" when signed out.
func (s *SessionFile) Load() (string, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

func (s *SessionFile) Save(token string) error {
	return os.WriteFile(s.path, []byte(token+"\n"), 0o600)
}

func (s *SessionFile) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
