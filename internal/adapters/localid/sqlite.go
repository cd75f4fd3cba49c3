package localid

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/courier/internal/core/ports"
	"go.trai.ch/zerr"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

var _ ports.LocalIDStore = (*SQLiteStore)(nil)

const schema = `CREATE TABLE IF NOT EXISTS local_ids (
	local_id   TEXT PRIMARY KEY,
	object_id  TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`

// SQLiteStore implements ports.LocalIDStore on a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens the database at path, creating it and its schema when missing.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, zerr.New("sqlite store path is required")
	}
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o750); err != nil {
		return nil, zerr.Wrap(err, "failed to create directory for sqlite store")
	}

	dsn := cleanPath + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to open sqlite store"), "path", cleanPath)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, zerr.With(zerr.Wrap(err, "failed to ping sqlite store"), "path", cleanPath)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, zerr.Wrap(err, "failed to create local id schema")
	}
	return &SQLiteStore{db: db}, nil
}

// ObjectIDForLocalID returns the object id recorded for localID.
func (s *SQLiteStore) ObjectIDForLocalID(ctx context.Context, localID string) (string, bool, error) {
	if s == nil || s.db == nil {
		return "", false, zerr.New("sqlite store is not open")
	}

	var objectID string
	err := s.db.QueryRowContext(ctx,
		`SELECT object_id FROM local_ids WHERE local_id = ?`, localID,
	).Scan(&objectID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, zerr.With(zerr.Wrap(err, "failed to query local id"), "local_id", localID)
	}
	return objectID, true, nil
}

// SetObjectID records objectID for localID, replacing any previous mapping.
func (s *SQLiteStore) SetObjectID(ctx context.Context, localID, objectID string) error {
	if s == nil || s.db == nil {
		return zerr.New("sqlite store is not open")
	}
	if localID == "" || objectID == "" {
		return zerr.With(zerr.With(zerr.New("local id and object id are required"), "local_id", localID), "object_id", objectID)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO local_ids (local_id, object_id, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(local_id) DO UPDATE SET object_id = excluded.object_id, updated_at = excluded.updated_at`,
		localID, objectID, time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to store local id"), "local_id", localID)
	}
	return nil
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
