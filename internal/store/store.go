// Package store persists submissions, their scored results and the state of
// report delivery.
//
// Dependency rule: store imports nothing from internal/. Results arrive as
// already-encoded JSON so the package stays ignorant of assessment types.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"  // driver: postgres
	_ "modernc.org/sqlite" // driver: sqlite
)

// Driver selects the SQL backend.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

// ParseDriver validates a configured driver name.
func ParseDriver(s string) (Driver, error) {
	switch d := Driver(s); d {
	case DriverPostgres, DriverSQLite:
		return d, nil
	default:
		return "", fmt.Errorf("store: unsupported driver %q", s)
	}
}

// ─── ERRORS ──────────────────────────────────────────────────────────────────

var (
	// ErrNotFound is returned when no submission has the requested id.
	ErrNotFound = errors.New("store: submission not found")

	// ErrNotClaimable is returned by ClaimDelivery when the submission is not
	// pending: another worker claimed it first or it was already delivered.
	ErrNotClaimable = errors.New("store: submission is not pending delivery")

	// ErrDeliveryInFlight is returned by Requeue while a worker holds the row.
	ErrDeliveryInFlight = errors.New("store: delivery in progress")
)

// ─── STORE ───────────────────────────────────────────────────────────────────

// Store holds the connection pool. The operation file (submissions.go)
// attaches methods to this type.
type Store struct {
	pool   *sql.DB
	driver Driver
}

// Open connects, verifies the connection and makes sure the schema exists.
func Open(ctx context.Context, driver Driver, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, errors.New("store: empty dsn")
	}
	pool, err := sql.Open(string(driver), dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// Every new connection to :memory: is a new database, and SQLite
		// serialises writers anyway.
		pool.SetMaxOpenConns(1)
	}
	if err := pool.PingContext(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: ping %s: %w", driver, err)
	}
	s := &Store{pool: pool, driver: driver}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the pool.
func (s *Store) Close() error { return s.pool.Close() }

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error { return s.pool.PingContext(ctx) }

func (s *Store) ensureSchema(ctx context.Context) error {
	ddl := schemaPostgres
	if s.driver == DriverSQLite {
		ddl = schemaSQLite
	}
	if _, err := s.pool.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("store: ensure schema: %w", err)
	}
	return nil
}

// withTx begins a transaction, passes it to fn, and commits on success or
// rolls back on any error (including panics).
func (s *Store) withTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	tx, err := s.pool.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("store: fn error: %w; rollback error: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit transaction: %w", err)
	}
	return nil
}

// Timestamps are unix seconds in both dialects. The delivery column is
// binary in SQLite so the driver hands it back as []byte.
const schemaPostgres = `
CREATE TABLE IF NOT EXISTS submissions (
  id               TEXT PRIMARY KEY,
  kind             TEXT NOT NULL,
  email            TEXT NOT NULL,
  contact_name     TEXT NOT NULL,
  company_name     TEXT NOT NULL DEFAULT '',
  marketing_opt_in BOOLEAN NOT NULL DEFAULT FALSE,
  fingerprint      TEXT NOT NULL,
  answers_json     TEXT NOT NULL,
  result_json      TEXT NOT NULL,
  final_score      INTEGER NOT NULL,
  band             TEXT NOT NULL,
  flag_count       INTEGER NOT NULL DEFAULT 0,
  delivery_status  TEXT NOT NULL DEFAULT 'pending',
  delivery_json    JSONB,
  attempts         INTEGER NOT NULL DEFAULT 0,
  created_at       BIGINT NOT NULL,
  updated_at       BIGINT NOT NULL,
  delivered_at     BIGINT
);
CREATE INDEX IF NOT EXISTS submissions_status_idx ON submissions (delivery_status, created_at);
CREATE INDEX IF NOT EXISTS submissions_fingerprint_idx ON submissions (fingerprint, created_at);
`

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS submissions (
  id               TEXT PRIMARY KEY,
  kind             TEXT NOT NULL,
  email            TEXT NOT NULL,
  contact_name     TEXT NOT NULL,
  company_name     TEXT NOT NULL DEFAULT '',
  marketing_opt_in BOOLEAN NOT NULL DEFAULT 0,
  fingerprint      TEXT NOT NULL,
  answers_json     TEXT NOT NULL,
  result_json      TEXT NOT NULL,
  final_score      INTEGER NOT NULL,
  band             TEXT NOT NULL,
  flag_count       INTEGER NOT NULL DEFAULT 0,
  delivery_status  TEXT NOT NULL DEFAULT 'pending',
  delivery_json    BLOB,
  attempts         INTEGER NOT NULL DEFAULT 0,
  created_at       INTEGER NOT NULL,
  updated_at       INTEGER NOT NULL,
  delivered_at     INTEGER
);
CREATE INDEX IF NOT EXISTS submissions_status_idx ON submissions (delivery_status, created_at);
CREATE INDEX IF NOT EXISTS submissions_fingerprint_idx ON submissions (fingerprint, created_at);
`
