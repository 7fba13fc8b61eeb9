package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var ErrNoStoredSession = errors.New("no stored session")

// StoredSession is the single durable record of an admin session: the
// raw token plus a bit of bookkeeping. The store never inspects or
// validates the token, the server is the only judge of its worth.
type StoredSession struct {
	Token      string    `json:"token"`
	Email      string    `json:"email"`
	LastLogin  time.Time `json:"last_login"`
	RememberMe bool      `json:"remember_me"`
}

// FileStore keeps the session record in a JSON file, one session per
// file. Safe for concurrent use within a process.
type FileStore struct {
	path  string
	mutex sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{
		path: path,
	}
}

func (fs *FileStore) Save(s *StoredSession) error {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if dir := filepath.Dir(fs.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create session dir: %w", err)
		}
	}

	// the token is a credential, keep the file owner-only
	if err := os.WriteFile(fs.path, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

func (fs *FileStore) Load() (*StoredSession, error) {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()

	data, err := os.ReadFile(fs.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoStoredSession
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var s StoredSession
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	if s.Token == "" {
		return nil, ErrNoStoredSession
	}
	return &s, nil
}

// Token returns the stored token, or the empty string when there is
// no usable session on disk.
func (fs *FileStore) Token() string {
	s, err := fs.Load()
	if err != nil {
		return ""
	}
	return s.Token
}

func (fs *FileStore) Clear() error {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()

	if err := os.Remove(fs.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
