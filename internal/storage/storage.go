package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound is returned by Load when the key has never been saved.
var ErrNotFound = errors.New("key not found")

// Store provides file-based storage for opaque JSON values, one file per
// key. It is the durable client-side state of the app: read once on
// startup, rewritten synchronously after every mutation.
type Store struct {
	basePath string
}

// NewStore creates a new Store and ensures the base directory exists.
func NewStore(basePath string) (*Store, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	return &Store{basePath: basePath}, nil
}

func (s *Store) keyPath(key string) string {
	return filepath.Join(s.basePath, key+".json")
}

// Save serializes v and writes it under key, replacing any prior value.
func (s *Store) Save(key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal value for key %s: %w", key, err)
	}

	if err := os.WriteFile(s.keyPath(key), data, 0644); err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}

// Load reads the value stored under key into v.
func (s *Store) Load(key string, v any) error {
	data, err := os.ReadFile(s.keyPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return fmt.Errorf("failed to read key %s: %w", key, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal key %s: %w", key, err)
	}
	return nil
}

// Exists checks whether a value has been saved under key.
func (s *Store) Exists(key string) bool {
	_, err := os.Stat(s.keyPath(key))
	return !os.IsNotExist(err)
}

// Delete removes the value stored under key, if any.
func (s *Store) Delete(key string) error {
	err := os.Remove(s.keyPath(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}
