package storage

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"dbconsole/utils"
)

// FileStorage is a fiber.Storage keeping one JSON file per key
type FileStorage struct {
	dir string
	mu  sync.RWMutex
}

// NewFileStorage creates the directory if needed
func NewFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %v", err)
	}
	return &FileStorage{dir: dir}, nil
}

// keys are hex encoded so arbitrary session IDs cannot escape dir
func (s *FileStorage) path(key string) string {
	return filepath.Join(s.dir, hex.EncodeToString([]byte(key))+".json")
}

// Get returns nil, nil for missing or expired keys
func (s *FileStorage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}

	s.mu.RLock()
	raw, err := os.ReadFile(s.path(key))
	s.mu.RUnlock()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session file: %v", err)
	}

	e, err := decodeEntry(raw)
	if err != nil {
		utils.Log.Warn("Dropping unreadable session file for %q: %v", key, err)
		_ = s.Delete(key)
		return nil, nil
	}
	if e.expired(time.Now()) {
		_ = s.Delete(key)
		return nil, nil
	}
	return e.Data, nil
}

// Set writes val; exp of zero means no expiration
func (s *FileStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}

	data, err := json.Marshal(newEntry(val, exp))
	if err != nil {
		return fmt.Errorf("failed to encode session: %v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %v", err)
	}
	return os.Rename(tmp, s.path(key))
}

// Delete removes key
func (s *FileStorage) Delete(key string) error {
	if key == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete session file: %v", err)
	}
	return nil
}

// Reset removes every stored session
func (s *FileStorage) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("failed to read session directory: %v", err)
	}
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, f.Name())); err != nil {
			return err
		}
	}
	return nil
}

// Close is a no-op
func (s *FileStorage) Close() error {
	return nil
}

// PurgeExpired removes expired or unreadable session files and returns
// how many were removed
func (s *FileStorage) PurgeExpired() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read session directory: %v", err)
	}

	now := time.Now()
	removed := 0
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}
		name := filepath.Join(s.dir, f.Name())
		raw, err := os.ReadFile(name)
		if err != nil {
			continue
		}
		if e, err := decodeEntry(raw); err == nil && !e.expired(now) {
			continue
		}
		if err := os.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
			return removed, fmt.Errorf("failed to delete session file: %v", err)
		}
		removed++
	}
	return removed, nil
}
