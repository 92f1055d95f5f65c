// Package history records completed product builds in a SQLite database so
// operators can audit what was published, when, and with which manifest hash.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Record is one completed product build.
type Record struct {
	ID           string
	Product      string
	Version      string
	Environment  string
	ManifestHash string
	Artifacts    int
	TotalBytes   int64
	Duration     time.Duration
	CreatedAt    time.Time
}

// Store persists build records.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open creates or opens a history store. Use ":memory:" for an in-memory
// database, or a file path for persistent storage.
func Open(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id TEXT PRIMARY KEY,
		product TEXT NOT NULL,
		version TEXT NOT NULL,
		environment TEXT NOT NULL,
		manifest_hash TEXT NOT NULL,
		artifacts INTEGER NOT NULL,
		total_bytes INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_builds_product ON builds(product);
	CREATE INDEX IF NOT EXISTS idx_builds_created_at ON builds(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Append records a completed build. The record's ID is generated if empty.
func (s *Store) Append(ctx context.Context, r Record) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO builds (id, product, version, environment, manifest_hash, artifacts, total_bytes, duration_ms, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		r.ID, r.Product, r.Version, r.Environment, r.ManifestHash, r.Artifacts, r.TotalBytes, r.Duration.Milliseconds(), r.CreatedAt.Unix(),
	)
	if err != nil {
		return "", fmt.Errorf("insert build record: %w", err)
	}
	return r.ID, nil
}

// List returns the most recent records, newest first. An empty product
// matches all products; limit <= 0 defaults to 20.
func (s *Store) List(ctx context.Context, productFilter string, limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	query := "SELECT id, product, version, environment, manifest_hash, artifacts, total_bytes, duration_ms, created_at FROM builds"
	args := []any{}
	if productFilter != "" {
		query += " WHERE product = ?"
		args = append(args, productFilter)
	}
	query += " ORDER BY created_at DESC, id LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query build records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var durationMs, createdUnix int64
		if err := rows.Scan(&r.ID, &r.Product, &r.Version, &r.Environment, &r.ManifestHash,
			&r.Artifacts, &r.TotalBytes, &durationMs, &createdUnix); err != nil {
			return nil, fmt.Errorf("scan build record: %w", err)
		}
		r.Duration = time.Duration(durationMs) * time.Millisecond
		r.CreatedAt = time.Unix(createdUnix, 0)
		records = append(records, r)
	}
	return records, rows.Err()
}
