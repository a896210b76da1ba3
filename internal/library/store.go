// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library persists a local snapshot of fetched Zotero records in
// SQLite, so exports can run offline and repeated runs do not refetch an
// unchanged library.
package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/zotmd/pkg/types"
)

// Store manages the snapshot SQLite database. It implements the same
// record-source surface as the live API client.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the snapshot database, creating the schema if it
// does not exist.
func Open(cfg types.SnapshotConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = "zotmd.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating snapshot directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening snapshot database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS items (
			key TEXT PRIMARY KEY,
			data TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS annotations (
			seq INTEGER PRIMARY KEY,
			key TEXT NOT NULL,
			parent_key TEXT NOT NULL,
			data TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS notes (
			seq INTEGER PRIMARY KEY,
			key TEXT NOT NULL,
			parent_key TEXT NOT NULL,
			data TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_annotations_parent ON annotations(parent_key)`,
		`CREATE INDEX IF NOT EXISTS idx_notes_parent ON notes(parent_key)`,
		`CREATE TABLE IF NOT EXISTS snapshot_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Replace atomically swaps the snapshot contents for the given record
// set. The seq columns preserve retrieval order for annotations and
// notes.
func (s *Store) Replace(ctx context.Context, annotations []types.Annotation, notes []types.Note, items []types.Item) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"annotations", "notes", "items"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	annStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO annotations (seq, key, parent_key, data) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing annotation insert: %w", err)
	}
	defer annStmt.Close()
	for i, a := range annotations {
		data, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("encoding annotation %s: %w", a.Key, err)
		}
		if _, err := annStmt.ExecContext(ctx, i, a.Key, a.ParentKey, string(data)); err != nil {
			return fmt.Errorf("inserting annotation %s: %w", a.Key, err)
		}
	}

	noteStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO notes (seq, key, parent_key, data) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing note insert: %w", err)
	}
	defer noteStmt.Close()
	for i, n := range notes {
		data, err := json.Marshal(n)
		if err != nil {
			return fmt.Errorf("encoding note %s: %w", n.Key, err)
		}
		if _, err := noteStmt.ExecContext(ctx, i, n.Key, n.ParentKey, string(data)); err != nil {
			return fmt.Errorf("inserting note %s: %w", n.Key, err)
		}
	}

	itemStmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO items (key, data) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing item insert: %w", err)
	}
	defer itemStmt.Close()
	for _, it := range items {
		data, err := json.Marshal(it)
		if err != nil {
			return fmt.Errorf("encoding item %s: %w", it.Key, err)
		}
		if _, err := itemStmt.ExecContext(ctx, it.Key, string(data)); err != nil {
			return fmt.Errorf("inserting item %s: %w", it.Key, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshot_meta (k, v) VALUES ('pulled_at', ?)
		 ON CONFLICT(k) DO UPDATE SET v=excluded.v`,
		time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("recording pull time: %w", err)
	}

	return tx.Commit()
}

// PulledAt returns when the snapshot was last replaced, or the zero time
// for a fresh database.
func (s *Store) PulledAt(ctx context.Context) (time.Time, error) {
	var v string
	err := s.db.QueryRowContext(ctx,
		`SELECT v FROM snapshot_meta WHERE k = 'pulled_at'`).Scan(&v)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("reading pull time: %w", err)
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing pull time: %w", err)
	}
	return t, nil
}

// Annotations returns all snapshot annotations in retrieval order.
func (s *Store) Annotations(ctx context.Context) ([]types.Annotation, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM annotations ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("querying annotations: %w", err)
	}
	defer rows.Close()

	var out []types.Annotation
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning annotation: %w", err)
		}
		var a types.Annotation
		if err := json.Unmarshal([]byte(data), &a); err != nil {
			return nil, fmt.Errorf("decoding annotation: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Notes returns all snapshot notes in retrieval order.
func (s *Store) Notes(ctx context.Context) ([]types.Note, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM notes ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("querying notes: %w", err)
	}
	defer rows.Close()

	var out []types.Note
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning note: %w", err)
		}
		var n types.Note
		if err := json.Unmarshal([]byte(data), &n); err != nil {
			return nil, fmt.Errorf("decoding note: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// Item returns one item record by key. A key missing from the snapshot
// is an error, matching the live client's behavior for an unknown item.
func (s *Store) Item(ctx context.Context, key string) (types.Item, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM items WHERE key = ?`, key).Scan(&data)
	if err == sql.ErrNoRows {
		return types.Item{}, fmt.Errorf("item %s not in snapshot (run pull first)", key)
	}
	if err != nil {
		return types.Item{}, fmt.Errorf("querying item %s: %w", key, err)
	}
	var it types.Item
	if err := json.Unmarshal([]byte(data), &it); err != nil {
		return types.Item{}, fmt.Errorf("decoding item %s: %w", key, err)
	}
	return it, nil
}
