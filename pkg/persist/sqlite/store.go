// Package sqlite implements persist.Store on an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/go-drift/statekit/pkg/persist"
)

const createTokensTable = `
	CREATE TABLE IF NOT EXISTS tokens (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	)`

// Option configures a Store.
type Option func(*config)

type config struct {
	busyTimeout time.Duration
	logger      *slog.Logger
}

func defaultConfig() *config {
	return &config{
		busyTimeout: 5 * time.Second,
	}
}

// WithBusyTimeout sets the SQLite busy timeout. Default is 5 seconds.
func WithBusyTimeout(timeout time.Duration) Option {
	return func(c *config) {
		c.busyTimeout = timeout
	}
}

// WithLogger sets the logger for the store.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// Store implements persist.Store using SQLite.
type Store struct {
	db     *sql.DB
	logger *slog.Logger

	getStmt    *sql.Stmt
	setStmt    *sql.Stmt
	removeStmt *sql.Stmt
}

var _ persist.Store = (*Store)(nil)

// Open opens (creating if needed) the database at path.
func Open(path string, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, errors.New("sqlite: path is required")
	}
	if strings.ContainsAny(path, "?#") {
		return nil, errors.New("sqlite: path cannot contain '?' or '#' characters")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	db, err := sql.Open("sqlite", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open database: %w", err)
	}
	// One writer keeps token writes strictly ordered.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.busyTimeout.Milliseconds()),
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite: exec %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(createTokensTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: migrate: %w", err)
	}

	s := &Store{db: db, logger: cfg.logger}
	if err := s.prepare(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: prepare statements: %w", err)
	}
	return s, nil
}

func (s *Store) prepare() error {
	stmts := []struct {
		dest **sql.Stmt
		sql  string
	}{
		{&s.getStmt, "SELECT value FROM tokens WHERE key = ?"},
		{&s.setStmt, `INSERT INTO tokens (key, value, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`},
		{&s.removeStmt, "DELETE FROM tokens WHERE key = ?"},
	}
	for _, st := range stmts {
		stmt, err := s.db.Prepare(st.sql)
		if err != nil {
			return err
		}
		*st.dest = stmt
	}
	return nil
}

func (s *Store) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

// Get implements persist.Store.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.getStmt.QueryRowContext(ctx, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("sqlite: get %q: %w", key, err)
	}
	s.debug("sqlite get", "key", key)
	return value, true, nil
}

// Set implements persist.Store.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if _, err := s.setStmt.ExecContext(ctx, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("sqlite: set %q: %w", key, err)
	}
	s.debug("sqlite set", "key", key)
	return nil
}

// Remove implements persist.Store.
func (s *Store) Remove(ctx context.Context, key string) error {
	if _, err := s.removeStmt.ExecContext(ctx, key); err != nil {
		return fmt.Errorf("sqlite: remove %q: %w", key, err)
	}
	return nil
}

// Clear implements persist.Store.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM tokens"); err != nil {
		return fmt.Errorf("sqlite: clear: %w", err)
	}
	return nil
}

// Close releases the prepared statements and the database.
func (s *Store) Close() error {
	for _, stmt := range []*sql.Stmt{s.getStmt, s.setStmt, s.removeStmt} {
		if stmt != nil {
			stmt.Close()
		}
	}
	return s.db.Close()
}
