// Package storage provides the local key-value persistence layer for ectts.
// Each key maps to one JSON file under the application data directory, which
// mirrors the record-per-key layout the settings, voice-choice, and word-set
// stores expect.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	gap "github.com/muesli/go-app-paths"
)

const fileExt = ".json"

// Store is a directory-backed key-value store. Values are stored as JSON,
// one file per key. Safe for concurrent use.
type Store struct {
	dir string
	mu  sync.Mutex
}

// DefaultDir returns the per-user data directory for ectts, honoring
// ECTTS_DATA_HOME when set.
func DefaultDir() (string, error) {
	if d := os.Getenv("ECTTS_DATA_HOME"); d != "" {
		return d, nil
	}
	scope := gap.NewScope(gap.User, "ectts")
	dir, err := scope.DataPath("")
	if err != nil {
		return "", fmt.Errorf("unable to resolve data directory: %w", err)
	}
	return dir, nil
}

// Open opens (creating if necessary) a store rooted at dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("unable to create storage directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory backing the store.
func (s *Store) Dir() string { return s.dir }

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+fileExt)
}

// Get reads the value stored under key into v. It reports whether the key
// existed.
func (s *Store) Get(key string, v any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("unable to read %q: %w", key, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return false, fmt.Errorf("unable to decode %q: %w", key, err)
	}
	return true, nil
}

// Put writes v under key. The write goes through a temp file and rename so a
// crash never leaves a half-written record behind.
func (s *Store) Put(key string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to encode %q: %w", key, err)
	}

	tmp, err := os.CreateTemp(s.dir, key+".tmp-*")
	if err != nil {
		return fmt.Errorf("unable to create temp file for %q: %w", key, err)
	}
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("unable to write %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("unable to close temp file for %q: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("unable to store %q: %w", key, err)
	}
	return nil
}

// Delete removes the record stored under key. Deleting a missing key is not
// an error.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("unable to delete %q: %w", key, err)
	}
	return nil
}

// ModTime returns the last modification time of the record stored under
// key, or the zero time when the key does not exist.
func (s *Store) ModTime(key string) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := os.Stat(s.path(key))
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

// Path returns the file backing key. The file may not exist yet.
func (s *Store) Path(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path(key)
}

// Keys lists the stored keys that start with prefix.
func (s *Store) Keys(prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("unable to list storage directory: %w", err)
	}

	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}
		key := strings.TrimSuffix(name, fileExt)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// Watch reports keys whose backing files change on disk, so edits made
// outside the running process (or by another instance) can be picked up.
// Events are debounced per key. The watcher shuts down when stop is closed.
func (s *Store) Watch(stop <-chan struct{}) (<-chan string, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("unable to create watcher: %w", err)
	}
	if err := w.Add(s.dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("unable to watch storage directory: %w", err)
	}

	out := make(chan string, 16)
	go func() {
		defer close(out)
		defer w.Close() //nolint:errcheck

		lastSeen := make(map[string]time.Time)
		for {
			select {
			case <-stop:
				return
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn("storage: watch error", "error", err)
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				name := filepath.Base(ev.Name)
				if !strings.HasSuffix(name, fileExt) {
					continue
				}
				key := strings.TrimSuffix(name, fileExt)
				now := time.Now()
				if now.Sub(lastSeen[key]) < 100*time.Millisecond {
					continue
				}
				lastSeen[key] = now
				select {
				case out <- key:
				default:
					// Slow consumer; drop rather than block the watcher.
				}
			}
		}
	}()
	return out, nil
}
