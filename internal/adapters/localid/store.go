// Package localid implements persistent mappings from local ids to server object ids.
package localid

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/courier/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.LocalIDStore = (*Store)(nil)

// Store implements ports.LocalIDStore using a flat JSON file.
type Store struct {
	path  string
	mu    sync.RWMutex
	cache map[string]string
}

// NewStore creates a new LocalIDStore backed by the file at the given path.
func NewStore(path string) (*Store, error) {
	s := &Store{
		path:  filepath.Clean(path),
		cache: make(map[string]string),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, "failed to read local id store"), "path", s.path)
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &s.cache); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to unmarshal local id store"), "path", s.path)
	}

	return nil
}

// save writes the mappings to disk. The caller must hold the write lock.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.cache, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal local id store")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return zerr.Wrap(err, "failed to create directory for local id store")
	}

	// Write to a sibling file and rename so readers never see a partial file.
	tmp := s.path + ".tmp"
	//nolint:gosec // Path is cleaned and provided by trusted caller
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return zerr.Wrap(err, "failed to write local id store")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return zerr.Wrap(err, "failed to replace local id store")
	}

	return nil
}

// ObjectIDForLocalID returns the object id recorded for localID.
func (s *Store) ObjectIDForLocalID(ctx context.Context, localID string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	objectID, ok := s.cache[localID]
	return objectID, ok, nil
}

// SetObjectID records objectID for localID and persists the store.
func (s *Store) SetObjectID(ctx context.Context, localID, objectID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if localID == "" || objectID == "" {
		return zerr.With(zerr.With(zerr.New("local id and object id are required"), "local_id", localID), "object_id", objectID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous, existed := s.cache[localID]
	s.cache[localID] = objectID
	if err := s.save(); err != nil {
		// Keep memory and disk in agreement.
		if existed {
			s.cache[localID] = previous
		} else {
			delete(s.cache, localID)
		}
		return err
	}
	return nil
}

// Close is a no-op: every mapping is written when it is set.
func (s *Store) Close() error {
	return nil
}
