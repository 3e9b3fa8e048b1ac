package state

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore persists state in a single SQLite database. Saves run inside
// transactions, which gives the same atomicity guarantee as the JSON store's
// rename trick.
type SQLiteStore struct {
	db *sql.DB
}

const createFingerprintsTable = `
CREATE TABLE IF NOT EXISTS fingerprints (
	module TEXT NOT NULL,
	key TEXT NOT NULL,
	hash TEXT NOT NULL,
	PRIMARY KEY (module, key)
)`

const createExclusionsTable = `
CREATE TABLE IF NOT EXISTS exclusions (
	name TEXT NOT NULL PRIMARY KEY
)`

// NewSQLiteStore opens (creating if needed) the state database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open state database %s: %w", path, err)
	}

	for _, ddl := range []string{createFingerprintsTable, createExclusionsTable} {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create state schema: %w", err)
		}
	}

	return &SQLiteStore{db: db}, nil
}

// LoadFingerprints implements Store.
func (s *SQLiteStore) LoadFingerprints(module string) (map[string]string, error) {
	rows, err := s.db.Query(
		"SELECT key, hash FROM fingerprints WHERE module = ?", moduleKey(module))
	if err != nil {
		return nil, fmt.Errorf("failed to load fingerprints for %s: %w", module, err)
	}
	defer rows.Close()

	fingerprints := map[string]string{}
	for rows.Next() {
		var key, hash string
		if err := rows.Scan(&key, &hash); err != nil {
			return nil, fmt.Errorf("failed to scan fingerprint row: %w", err)
		}
		fingerprints[key] = hash
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read fingerprint rows: %w", err)
	}
	return fingerprints, nil
}

// SaveFingerprints implements Store. The module's record is replaced
// wholesale inside one transaction.
func (s *SQLiteStore) SaveFingerprints(module string, fingerprints map[string]string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin fingerprint transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	if _, err := tx.Exec("DELETE FROM fingerprints WHERE module = ?", moduleKey(module)); err != nil {
		return fmt.Errorf("failed to clear fingerprints for %s: %w", module, err)
	}
	for key, hash := range fingerprints {
		if _, err := tx.Exec(
			"INSERT INTO fingerprints (module, key, hash) VALUES (?, ?, ?)",
			moduleKey(module), key, hash); err != nil {
			return fmt.Errorf("failed to insert fingerprint %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit fingerprints for %s: %w", module, err)
	}
	return nil
}

// LoadExclusions implements Store. The table always exists after open, so
// first use naturally yields the persisted empty set.
func (s *SQLiteStore) LoadExclusions() ([]string, error) {
	rows, err := s.db.Query("SELECT name FROM exclusions ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to load exclusions: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan exclusion row: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read exclusion rows: %w", err)
	}
	return names, nil
}

// SaveExclusions implements Store.
func (s *SQLiteStore) SaveExclusions(names []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin exclusion transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM exclusions"); err != nil {
		return fmt.Errorf("failed to clear exclusions: %w", err)
	}
	for _, name := range names {
		if _, err := tx.Exec("INSERT INTO exclusions (name) VALUES (?)", name); err != nil {
			return fmt.Errorf("failed to insert exclusion %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit exclusions: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// moduleKey normalizes the module identity the same way the JSON store
// derives snapshot names, so both backends agree on keys.
func moduleKey(module string) string {
	return strings.ReplaceAll(filepath.Base(module), " ", "_")
}
