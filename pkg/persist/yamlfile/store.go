// Package yamlfile implements persist.Store as a flat YAML mapping on disk.
//
// The file is human-editable: every key maps to its encoded token. Writes
// replace the file atomically, and Watch picks up edits made by other
// processes.
package yamlfile

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/statekit/pkg/persist"
)

// Store implements persist.Store backed by a YAML file.
type Store struct {
	path   string
	logger *slog.Logger

	mu      sync.RWMutex
	entries map[string]string
}

var _ persist.Store = (*Store)(nil)

// Open loads path, treating a missing file as empty. The file is created on
// the first write.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("yamlfile: path is required")
	}
	s := &Store{path: path, logger: logger}
	entries, err := s.load()
	if err != nil {
		return nil, err
	}
	s.entries = entries
	return s, nil
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

func (s *Store) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("yamlfile: read %s: %w", s.path, err)
	}
	entries := map[string]string{}
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("yamlfile: parse %s: %w", s.path, err)
	}
	if entries == nil {
		entries = map[string]string{}
	}
	return entries, nil
}

// flush writes entries to a temp file and renames it over the target.
// Callers hold s.mu.
func (s *Store) flush() error {
	data, err := yaml.Marshal(s.entries)
	if err != nil {
		return fmt.Errorf("yamlfile: encode: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("yamlfile: create directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("yamlfile: create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("yamlfile: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("yamlfile: write: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("yamlfile: replace %s: %w", s.path, err)
	}
	return nil
}

// Get implements persist.Store.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[key]
	return v, ok, nil
}

// Set implements persist.Store.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, had := s.entries[key]
	s.entries[key] = value
	if err := s.flush(); err != nil {
		if had {
			s.entries[key] = prev
		} else {
			delete(s.entries, key)
		}
		return err
	}
	return nil
}

// Remove implements persist.Store.
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, had := s.entries[key]
	if !had {
		return nil
	}
	delete(s.entries, key)
	if err := s.flush(); err != nil {
		s.entries[key] = prev
		return err
	}
	return nil
}

// Clear implements persist.Store.
func (s *Store) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.entries
	s.entries = map[string]string{}
	if err := s.flush(); err != nil {
		s.entries = prev
		return err
	}
	return nil
}

// Snapshot returns a copy of the current entries.
func (s *Store) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.entries)
}

// Watch reloads the file whenever it changes on disk and calls onChange with
// the new entries. It blocks until ctx is done. The parent directory is
// watched rather than the file itself because atomic replacement swaps the
// inode.
func (s *Store) Watch(ctx context.Context, onChange func(map[string]string)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("yamlfile: watch: %w", err)
	}
	defer w.Close()

	dir := filepath.Dir(s.path)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("yamlfile: watch %s: %w", dir, err)
	}
	target := filepath.Clean(s.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			entries, err := s.load()
			if err != nil {
				s.warn("yamlfile reload failed", "path", s.path, "error", err)
				continue
			}
			s.mu.Lock()
			changed := !maps.Equal(s.entries, entries)
			s.entries = entries
			s.mu.Unlock()
			if changed && onChange != nil {
				onChange(maps.Clone(entries))
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.warn("yamlfile watcher error", "error", err)
		}
	}
}

func (s *Store) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
