// Package queuefile persists command queues as JSON arrays of dictionary representations.
package queuefile

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"go.trai.ch/courier/internal/core/domain"
	"go.trai.ch/courier/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.QueueStore = (*Store)(nil)

// Store implements ports.QueueStore on the local filesystem.
type Store struct{}

// New creates a new Store.
func New() *Store {
	return &Store{}
}

// Load reads the queue file at path.
// Numbers are kept in their textual form so integers survive a load and save unchanged.
func (s *Store) Load(path string) ([]*domain.Command, error) {
	//nolint:gosec // Path is provided by trusted caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read queue file"), "path", path)
	}
	return Decode(data)
}

// Decode parses a JSON array of command dictionaries.
func Decode(data []byte) ([]*domain.Command, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw []map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.Join(domain.ErrMalformedRepresentation, zerr.Wrap(err, "failed to parse queue file"))
	}

	commands := make([]*domain.Command, 0, len(raw))
	for i, dict := range raw {
		cmd, err := domain.CommandFromDictionary(dict)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "invalid command in queue file"), "index", i)
		}
		commands = append(commands, cmd)
	}
	return commands, nil
}

// Save writes commands to path as an indented JSON array.
func (s *Store) Save(path string, commands []*domain.Command) error {
	data, err := Encode(commands)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return zerr.Wrap(err, "failed to create directory for queue file")
		}
	}

	//nolint:gosec // Path is provided by trusted caller
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write queue file"), "path", path)
	}
	return nil
}

// Encode renders commands as an indented JSON array.
func Encode(commands []*domain.Command) ([]byte, error) {
	raw := make([]map[string]any, 0, len(commands))
	for i, cmd := range commands {
		dict, err := cmd.DictionaryRepresentation()
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to encode command"), "index", i)
		}
		raw = append(raw, dict)
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return nil, errors.Join(domain.ErrEncodingFailure, zerr.Wrap(err, "failed to marshal queue file"))
	}
	return append(data, '\n'), nil
}
