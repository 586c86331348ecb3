package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-drift/statekit/pkg/persist"
	"github.com/go-drift/statekit/pkg/persist/badger"
	"github.com/go-drift/statekit/pkg/persist/sqlite"
	"github.com/go-drift/statekit/pkg/persist/yamlfile"
)

// Backend is an opened store. Reads are coalesced per key.
type Backend struct {
	Store persist.Store

	// File is the underlying file store for the yaml driver, which supports
	// watching for external edits. Nil for other drivers.
	File *yamlfile.Store

	close func() error
}

// Close releases the backend.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// OpenStore opens the configured store, creating parent directories.
func (r *Resolved) OpenStore(logger *slog.Logger) (*Backend, error) {
	if r.StoreDriver != DriverMemory {
		dir := r.StorePath
		if r.StoreDriver != DriverBadger {
			dir = filepath.Dir(dir)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	b := &Backend{}
	var raw persist.Store
	switch r.StoreDriver {
	case DriverMemory:
		raw = persist.NewMemoryStore()
	case DriverSQLite:
		s, err := sqlite.Open(r.StorePath, sqlite.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		raw, b.close = s, s.Close
	case DriverBadger:
		cfg := badger.DefaultConfig(r.StorePath)
		cfg.Logger = logger
		s, err := badger.Open(cfg)
		if err != nil {
			return nil, err
		}
		raw, b.close = s, s.Close
	case DriverYAML:
		s, err := yamlfile.Open(r.StorePath, logger)
		if err != nil {
			return nil, err
		}
		raw, b.File = s, s
	default:
		return nil, fmt.Errorf("unknown store driver %q", r.StoreDriver)
	}
	b.Store = persist.NewCoalescing(raw)
	return b, nil
}
