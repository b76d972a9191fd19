// Package statecache persists the bridge's last published editor-state
// snapshot so external tools can read it without a live connection.
package statecache

import (
	"encoding/gob"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/umcp/umcp/config"
)

// DefaultTTL is how long a persisted snapshot is considered current. Stale
// entries are still readable via Load but Get reports them as missing.
var DefaultTTL = 10 * time.Minute

// Entry wraps a stored value with its write time.
type Entry[T any] struct {
	Value     T
	CreatedAt time.Time
}

// Cache stores gob-encoded entries under a directory, one file per key.
type Cache[T any] struct {
	dir string
	ttl time.Duration
}

// New creates a cache rooted at dir, or at the default state cache dir when
// dir is empty.
func New[T any](dir string) *Cache[T] {
	if dir == "" {
		dir = config.DefaultStateCacheDir()
	}
	return &Cache[T]{dir: dir, ttl: DefaultTTL}
}

// SetTTL updates the staleness window.
func (c *Cache[T]) SetTTL(d time.Duration) {
	c.ttl = d
}

// Put writes value under key. The write goes through a temp file so readers
// never observe a half-written snapshot.
func (c *Cache[T]) Put(key string, value T) error {
	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	entry := Entry[T]{Value: value, CreatedAt: time.Now()}
	if err := gob.NewEncoder(tmp).Encode(entry); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Get returns the value under key if it exists and is within the TTL.
func (c *Cache[T]) Get(key string) (T, bool) {
	var zero T
	entry, err := c.load(c.path(key))
	if err != nil {
		return zero, false
	}
	if time.Since(entry.CreatedAt) >= c.ttl {
		return zero, false
	}
	return entry.Value, true
}

// Load returns the entry under key regardless of age, with its write time.
func (c *Cache[T]) Load(key string) (T, time.Time, error) {
	var zero T
	entry, err := c.load(c.path(key))
	if err != nil {
		return zero, time.Time{}, err
	}
	return entry.Value, entry.CreatedAt, nil
}

// Clear removes all cached entries.
func (c *Cache[T]) Clear() error {
	return os.RemoveAll(c.dir)
}

func (c *Cache[T]) path(key string) string {
	return filepath.Join(c.dir, normalizeKey(key)+".gob")
}

func (c *Cache[T]) load(path string) (*Entry[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entry Entry[T]
	if err := gob.NewDecoder(f).Decode(&entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// normalizeKey converts a cache key into a filesystem-safe format
func normalizeKey(key string) string {
	normalized := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') ||
			(r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') ||
			r == '-' || r == '_' || r == '.' {
			return r
		}
		return '_'
	}, key)

	// Collapse runs of dots so a key can never climb out of the dir
	for strings.Contains(normalized, "..") {
		normalized = strings.ReplaceAll(normalized, "..", ".")
	}

	return normalized
}
