// Package cache persists the derived index and state files next to the
// event logs. Both files are disposable: they carry a fingerprint of
// the log files they were computed from, and any mismatch simply
// triggers a fresh replay.
package cache

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"

	"github.com/spooldev/spool/internal/domain"
)

// ErrMiss is returned when a cache file is absent, unreadable or carries
// a stale fingerprint. Never fatal; callers fall back to replay.
var ErrMiss = errors.New("cache miss")

// Store reads and writes the cache files under a store root.
type Store struct {
	root string
}

// New creates a Store for the given store root.
func New(root string) *Store {
	return &Store{root: root}
}

// stateFile is the on-disk shape of .state.json.
type stateFile struct {
	Fingerprint string        `json:"fingerprint"`
	State       *domain.State `json:"state"`
}

// indexFile is the on-disk shape of .index.json.
type indexFile struct {
	Fingerprint string        `json:"fingerprint"`
	Index       *domain.Index `json:"index"`
}

// Fingerprint computes a digest over the name and content of every log
// file (active and archive). Content hashing rather than mtimes: a git
// checkout can rewrite files without advancing any clock the cache
// could trust.
func (s *Store) Fingerprint() (string, error) {
	hasher := blake3.New()

	for _, dir := range []string{domain.EventsDir(s.root), domain.ArchiveDir(s.root)} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return "", fmt.Errorf("read log directory: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() || filepath.Ext(entry.Name()) != ".jsonl" {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			content, err := os.ReadFile(path) //nolint:gosec // paths come from our own directory listing
			if err != nil {
				return "", fmt.Errorf("read log file: %w", err)
			}
			fileSum := blake3.Sum256(content)
			// ReadDir returns sorted entries, so the digest input order
			// is stable.
			fmt.Fprintf(hasher, "%s/%s:%s\n", filepath.Base(dir), entry.Name(), hex.EncodeToString(fileSum[:]))
		}
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// ReadState returns the cached state if its fingerprint matches want.
func (s *Store) ReadState(want string) (*domain.State, error) {
	var cached stateFile
	if err := readJSON(domain.StatePath(s.root), &cached); err != nil {
		return nil, err
	}
	if cached.Fingerprint != want || cached.State == nil {
		return nil, ErrMiss
	}
	if cached.State.Tasks == nil {
		cached.State.Tasks = make(map[string]*domain.Task)
	}
	return cached.State, nil
}

// ReadIndex returns the cached index if its fingerprint matches want.
func (s *Store) ReadIndex(want string) (*domain.Index, error) {
	var cached indexFile
	if err := readJSON(domain.IndexPath(s.root), &cached); err != nil {
		return nil, err
	}
	if cached.Fingerprint != want || cached.Index == nil {
		return nil, ErrMiss
	}
	if cached.Index.Tasks == nil {
		cached.Index.Tasks = make(map[string]domain.IndexEntry)
	}
	return cached.Index, nil
}

// Write persists both cache files tagged with the fingerprint of the
// inputs that produced them. Each file goes to a temp path first and is
// atomically renamed into place, so a concurrent reader sees either the
// old complete cache or the new complete cache.
func (s *Store) Write(state *domain.State, index *domain.Index, fingerprint string) error {
	if err := writeJSON(domain.StatePath(s.root), stateFile{Fingerprint: fingerprint, State: state}); err != nil {
		return err
	}
	return writeJSON(domain.IndexPath(s.root), indexFile{Fingerprint: fingerprint, Index: index})
}

// Invalidate removes both cache files. Losing them costs only the next
// replay.
func (s *Store) Invalidate() error {
	for _, path := range []string{domain.StatePath(s.root), domain.IndexPath(s.root)} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove cache file: %w", err)
		}
	}
	return nil
}

func readJSON(path string, v any) error {
	content, err := os.ReadFile(path) //nolint:gosec // fixed cache path under the store root
	if err != nil {
		if os.IsNotExist(err) {
			return ErrMiss
		}
		return fmt.Errorf("read cache file: %w", err)
	}
	if err := json.Unmarshal(content, v); err != nil {
		// A mangled cache is a miss, not a failure; it will be rewritten.
		return ErrMiss
	}
	return nil
}

func writeJSON(path string, v any) error {
	content, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}
	content = append(content, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, content, 0o600); err != nil {
		return fmt.Errorf("write temp cache file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace cache file: %w", err)
	}
	return nil
}
