// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package favorites

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paper-shelf/pkg/types"
)

const dbFile = "favorites.db"

// SQLiteStore is the default DurableStore, backed by a single-file SQLite
// database. The id column is intentionally not unique: earlier releases
// could write duplicate rows for one paper, and the store must be able to
// represent and then repair that state.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the favorites database at dir/favorites.db
// and creates the schema if it does not exist.
func OpenSQLite(dir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS favorites (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL,
			data TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_favorites_id ON favorites(id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Upsert replaces the record for paper.ID in place, preserving its seq
// (and therefore its first-inserted position), or inserts a new record
// when none exists.
func (s *SQLiteStore) Upsert(paper types.Paper) error {
	data, err := json.Marshal(paper)
	if err != nil {
		return &PersistenceError{Op: "upsert", ID: paper.ID, Err: err}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return &PersistenceError{Op: "upsert", ID: paper.ID, Err: err}
	}
	defer tx.Rollback()

	res, err := tx.Exec(`UPDATE favorites SET data = ? WHERE id = ?`, string(data), paper.ID)
	if err != nil {
		return &PersistenceError{Op: "upsert", ID: paper.ID, Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &PersistenceError{Op: "upsert", ID: paper.ID, Err: err}
	}
	if n == 0 {
		if _, err := tx.Exec(`INSERT INTO favorites (id, data) VALUES (?, ?)`, paper.ID, string(data)); err != nil {
			return &PersistenceError{Op: "upsert", ID: paper.ID, Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &PersistenceError{Op: "upsert", ID: paper.ID, Err: err}
	}
	return nil
}

// Delete removes every record with the given ID.
func (s *SQLiteStore) Delete(id string) error {
	if _, err := s.db.Exec(`DELETE FROM favorites WHERE id = ?`, id); err != nil {
		return &PersistenceError{Op: "delete", ID: id, Err: err}
	}
	return nil
}

// ListFavorites returns all records in first-inserted order. Rows whose
// payload no longer parses are skipped rather than failing the whole read.
func (s *SQLiteStore) ListFavorites() ([]types.Paper, error) {
	rows, err := s.db.Query(`SELECT data FROM favorites ORDER BY seq`)
	if err != nil {
		return nil, &PersistenceError{Op: "list", Err: err}
	}
	defer rows.Close()

	var papers []types.Paper
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, &PersistenceError{Op: "list", Err: err}
		}
		var p types.Paper
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			continue
		}
		papers = append(papers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, &PersistenceError{Op: "list", Err: err}
	}
	return papers, nil
}

// DeleteDuplicates keeps the lowest-seq (first-seen) record per ID and
// removes the rest. Running it against a clean store changes nothing.
func (s *SQLiteStore) DeleteDuplicates() error {
	_, err := s.db.Exec(`DELETE FROM favorites WHERE seq NOT IN (
		SELECT MIN(seq) FROM favorites GROUP BY id
	)`)
	if err != nil {
		return &PersistenceError{Op: "cleanup", Err: err}
	}
	return nil
}
