// Package localstore is a minimal durable key-value store backed by one JSON
// file per key. It stands in for browser local storage: a handful of fixed
// keys, single process, best-effort durability across restarts.
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when a key is absent. A key whose file holds
// malformed JSON is discarded and reported as absent as well.
var ErrNotFound = errors.New("localstore: key not found")

// Store persists JSON values under string keys in a directory.
type Store struct {
	dir string
}

// Open creates the backing directory if needed and returns a store.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create localstore dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Get reads the value stored under key into v. Malformed persisted state is
// removed and treated as absence, never surfaced as a decode error.
func (s *Store) Get(key string, v any) error {
	path := s.path(key)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("read %s: %w", key, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		_ = os.Remove(path)
		return ErrNotFound
	}

	return nil
}

// Set writes v as JSON under key. The write goes through a temp file and a
// rename so a crash never leaves a half-written value behind.
func (s *Store) Set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}

	path := s.path(key)
	tmp := path + ".tmp"

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("commit %s: %w", key, err)
	}

	return nil
}

// Delete removes the value stored under key. Deleting an absent key is a no-op.
func (s *Store) Delete(key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) path(key string) string {
	// Keys are fixed identifiers chosen by callers; the replacement only
	// guards against separators sneaking into a filename.
	safe := strings.NewReplacer("/", "_", string(os.PathSeparator), "_").Replace(key)
	return filepath.Join(s.dir, safe+".json")
}
