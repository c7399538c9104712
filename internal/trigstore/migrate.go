package trigstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/banshee-data/vetoplot/internal/monitoring"
)

// LatestSchema is the newest migration embedded in this build.
const LatestSchema uint = 1

//go:embed migrations/*.sql
var schemaFS embed.FS

// MigrateUp brings the store schema to LatestSchema. An up-to-date store is
// left untouched.
func (s *Store) MigrateUp() error {
	m, err := s.migrator()
	if err != nil {
		return err
	}
	// closing m would close s.DB

	switch err := m.Up(); {
	case err == nil:
		monitoring.Logf("trigger store %s migrated to schema %d", s.path, LatestSchema)
	case errors.Is(err, migrate.ErrNoChange):
	default:
		return fmt.Errorf("migrate %s: %w", s.path, err)
	}
	return nil
}

// SchemaVersion reports the applied schema, 0 for a store never migrated.
// A half-applied migration is an error. It only reads, so it works on
// stores opened read-only.
func (s *Store) SchemaVersion(ctx context.Context) (uint, error) {
	var n int
	err := s.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, sqlite.DefaultMigrationsTable,
	).Scan(&n)
	if err != nil || n == 0 {
		return 0, err
	}

	var (
		v     int64
		dirty bool
	)
	err = s.QueryRowContext(ctx, `SELECT version, dirty FROM `+sqlite.DefaultMigrationsTable+` LIMIT 1`).Scan(&v, &dirty)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("%s: read schema version: %w", s.path, err)
	case v < 0:
		return 0, nil
	case dirty:
		return uint(v), fmt.Errorf("%s: schema %d is dirty: %w", s.path, v, ErrNotTriggerStore)
	}
	return uint(v), nil
}

func (s *Store) migrator() (*migrate.Migrate, error) {
	src, err := iofs.New(schemaFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("embedded schema: %w", err)
	}
	driver, err := sqlite.WithInstance(s.DB, &sqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("sqlite migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return nil, err
	}
	m.Log = migrateLog{}
	return m, nil
}

// migrateLog forwards golang-migrate output to monitoring.Logf.
type migrateLog struct{}

func (migrateLog) Printf(format string, v ...interface{}) {
	monitoring.Logf("migrate: "+format, v...)
}

func (migrateLog) Verbose() bool { return false }
