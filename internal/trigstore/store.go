// Package trigstore reads and writes trigger files: SQLite databases holding
// detector-indexed numeric datasets addressed by paths such as "H1/snr_h1" or
// "network/coherent_snr".
package trigstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// NetworkGroup is the dataset group holding network-wide statistics.
const NetworkGroup = "network"

var (
	// ErrDatasetNotFound is returned when a requested dataset path is absent.
	ErrDatasetNotFound = errors.New("dataset not found")
	// ErrNotTriggerStore is returned when a file is not a migrated trigger store.
	ErrNotTriggerStore = errors.New("not a trigger store")
	// ErrNonFinite is returned when a dataset value is NaN or infinite.
	ErrNonFinite = errors.New("value is not finite")
)

// Store is an open trigger file.
type Store struct {
	*sql.DB
	path string
}

// DatasetPath joins a group and field into a dataset path.
func DatasetPath(group, field string) string {
	return group + "/" + field
}

// Open opens an existing trigger file read-only.
func Open(ctx context.Context, path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("trigger file %s: %w", path, err)
	}

	dsn, err := fileURI(path, "mode=ro")
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	s := &Store{DB: db, path: path}

	var n int
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('detectors', 'datasets', 'dataset_values')`,
	).Scan(&n)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("trigger file %s: %w", path, err)
	}
	if n != 3 {
		db.Close()
		return nil, fmt.Errorf("trigger file %s: %w", path, ErrNotTriggerStore)
	}

	version, err := s.SchemaVersion(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}
	if version > LatestSchema {
		db.Close()
		return nil, fmt.Errorf("trigger file %s: schema %d is newer than supported %d", path, version, LatestSchema)
	}
	return s, nil
}

// Create opens path for writing, creating the file if needed, and migrates
// the schema to the latest version.
func Create(ctx context.Context, path string) (*Store, error) {
	dsn, err := fileURI(path, "")
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", p, err)
		}
	}

	s := &Store{DB: db, path: path}
	if err := s.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// fileURI turns a filesystem path into an SQLite URI so that '?', '#' and
// '%' in file names stay part of the name.
func fileURI(path, query string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("trigger file %s: %w", path, err)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs), RawQuery: query}
	return u.String(), nil
}

// Path returns the file the store was opened from.
func (s *Store) Path() string {
	return s.path
}

// Detectors returns the detector codes recorded in the file, sorted.
func (s *Store) Detectors(ctx context.Context) ([]string, error) {
	rows, err := s.QueryContext(ctx, `SELECT ifo FROM detectors ORDER BY ifo`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ifos []string
	for rows.Next() {
		var ifo string
		if err := rows.Scan(&ifo); err != nil {
			return nil, err
		}
		ifos = append(ifos, ifo)
	}
	return ifos, rows.Err()
}

// SetDetectors records detector codes; existing codes are left untouched.
func (s *Store) SetDetectors(ctx context.Context, ifos ...string) error {
	for _, ifo := range ifos {
		if _, err := s.ExecContext(ctx, `INSERT OR IGNORE INTO detectors (ifo) VALUES (?)`, ifo); err != nil {
			return fmt.Errorf("failed to record detector %s: %w", ifo, err)
		}
	}
	return nil
}

// Dataset returns the values of path in row order. The returned slice is a
// fresh copy owned by the caller.
func (s *Store) Dataset(ctx context.Context, path string) ([]float64, error) {
	var length int
	err := s.QueryRowContext(ctx, `SELECT length FROM datasets WHERE path = ?`, path).Scan(&length)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s in %s: %w", path, s.path, ErrDatasetNotFound)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.QueryContext(ctx,
		`SELECT row_idx, value FROM dataset_values WHERE path = ? ORDER BY row_idx`, path)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := make([]float64, length)
	seen := 0
	for rows.Next() {
		var idx int
		var v float64
		if err := rows.Scan(&idx, &v); err != nil {
			return nil, err
		}
		if idx < 0 || idx >= length {
			return nil, fmt.Errorf("%s in %s: row %d outside declared length %d", path, s.path, idx, length)
		}
		values[idx] = v
		seen++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if seen != length {
		return nil, fmt.Errorf("%s in %s: %d of %d rows present", path, s.path, seen, length)
	}
	return values, nil
}

// WriteDataset replaces path with values in a single transaction.
func (s *Store) WriteDataset(ctx context.Context, path string, values []float64) error {
	if !strings.Contains(path, "/") {
		return fmt.Errorf("dataset path %q must be <group>/<field>", path)
	}

	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM dataset_values WHERE path = ?`, path); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO datasets (path, length) VALUES (?, ?)
		 ON CONFLICT(path) DO UPDATE SET length = excluded.length`, path, len(values)); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO dataset_values (path, row_idx, value) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("write %s row %d: %w", path, i, ErrNonFinite)
		}
		if _, err := stmt.ExecContext(ctx, path, i, v); err != nil {
			return fmt.Errorf("write %s row %d: %w", path, i, err)
		}
	}
	return tx.Commit()
}
