// Package cache persists stack detection results across runs.
//
// Entries are keyed by a fingerprint of the project path and the
// modification times of its manifest files, so editing a manifest
// invalidates the entry. Every operation holds an exclusive advisory lock
// on a sentinel file for its whole load-mutate-store cycle, which makes the
// cache safe to share between concurrent processes.
package cache

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gofrs/flock"

	"adaptive/internal/errors"
	"adaptive/internal/output"
	"adaptive/internal/paths"
	"adaptive/internal/slogutil"
	"adaptive/internal/stack"
	"adaptive/internal/version"
)

// DefaultTTL is how long an entry stays valid.
const DefaultTTL = 24 * time.Hour

// Entry is one persisted detection.
type Entry struct {
	Result   *stack.Result `json:"result"`
	CachedAt float64       `json:"cached_at"`
	Version  string        `json:"version"`
}

// Stats summarises cache effectiveness.
type Stats struct {
	Hits          int    `json:"hits"`
	Misses        int    `json:"misses"`
	TotalRequests int    `json:"total_requests"`
	HitRate       string `json:"hit_rate"`
	CacheEntries  int    `json:"cache_entries"`
	CacheFileSize int64  `json:"cache_file_size"`
}

type metadata struct {
	Hits   int `json:"hits"`
	Misses int `json:"misses"`
}

// Cache is a file-backed detection cache.
type Cache struct {
	dir      string
	ttl      time.Duration
	schema   string
	clock    clock.Clock
	logger   *slog.Logger
	mu       sync.Mutex
	lock     *flock.Flock
	store    string
	metadata string
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces the wall clock, for tests.
func WithClock(c clock.Clock) Option {
	return func(cache *Cache) { cache.clock = c }
}

// WithLogger sets the diagnostics logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cache *Cache) {
		if logger != nil {
			cache.logger = logger
		}
	}
}

// WithSchema overrides the version tag embedded in keys and entries.
func WithSchema(schema string) Option {
	return func(cache *Cache) { cache.schema = schema }
}

// New opens (creating if needed) the cache rooted at dir. A non-positive
// ttl selects DefaultTTL.
func New(dir string, ttl time.Duration, opts ...Option) (*Cache, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{
		dir:      dir,
		ttl:      ttl,
		schema:   version.CacheSchema(),
		clock:    clock.New(),
		logger:   slogutil.NewDiscardLogger(),
		store:    filepath.Join(dir, paths.CacheStoreFile),
		metadata: filepath.Join(dir, paths.CacheMetadataFile),
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.New(errors.CacheUnavailable, fmt.Sprintf("Cannot create cache directory %s", dir), err, nil)
	}
	c.lock = flock.New(filepath.Join(dir, paths.CacheLockFile))

	c.logger.Debug("Initialized detection cache", "dir", dir, "ttl", ttl.String())
	return c, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// Get returns the cached result for root. Missing, stale and expired
// entries are misses; expired entries are deleted.
func (c *Cache) Get(root string) (*stack.Result, bool) {
	key := c.Key(root)

	var result *stack.Result
	err := c.withLock(func() error {
		entries := c.loadStore()
		entry, ok := entries[key]
		if !ok || entry.Result == nil {
			c.logger.Debug("Cache miss: key not found", "key", shortKey(key))
			c.count(false)
			return nil
		}

		age := c.clock.Now().Sub(unixSeconds(entry.CachedAt))
		if age > c.ttl {
			c.logger.Debug("Cache miss: expired", "age", age.Round(time.Second).String(), "ttl", c.ttl.String())
			c.count(false)
			delete(entries, key)
			return c.saveStore(entries)
		}

		c.logger.Info("Cache hit", "framework", entry.Result.Framework, "age", age.Round(time.Second).String())
		c.count(true)
		result = entry.Result
		return nil
	})
	if err != nil {
		c.logger.Warn("Cache lookup failed", "error", err.Error())
		return nil, false
	}
	return result, result != nil
}

// Set stores result under root's current fingerprint.
func (c *Cache) Set(root string, result *stack.Result) error {
	if result == nil {
		return nil
	}
	key := c.Key(root)
	entry := Entry{
		Result:   result,
		CachedAt: toUnixSeconds(c.clock.Now()),
		Version:  c.schema,
	}

	err := c.withLock(func() error {
		entries := c.loadStore()
		entries[key] = entry
		return c.saveStore(entries)
	})
	if err != nil {
		return errors.New(errors.CacheUnavailable, "Cannot write detection cache", err, nil)
	}
	c.logger.Debug("Cached detection", "framework", result.Framework, "key", shortKey(key))
	return nil
}

// Clear removes every entry and resets the hit/miss counters.
func (c *Cache) Clear() error {
	err := c.withLock(func() error {
		for _, p := range []string{c.store, c.metadata} {
			if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.New(errors.CacheUnavailable, "Cannot clear detection cache", err, nil)
	}
	c.logger.Info("Cache cleared", "dir", c.dir)
	return nil
}

// Stats reports hit/miss counters and store size.
func (c *Cache) Stats() (*Stats, error) {
	var stats Stats
	err := c.withLock(func() error {
		meta := c.loadMetadata()
		entries := c.loadStore()

		stats.Hits = meta.Hits
		stats.Misses = meta.Misses
		stats.TotalRequests = meta.Hits + meta.Misses
		ratio := 0.0
		if stats.TotalRequests > 0 {
			ratio = float64(meta.Hits) / float64(stats.TotalRequests)
		}
		stats.HitRate = output.Percent(ratio)
		stats.CacheEntries = len(entries)
		if info, err := os.Stat(c.store); err == nil {
			stats.CacheFileSize = info.Size()
		}
		return nil
	})
	if err != nil {
		return nil, errors.New(errors.CacheUnavailable, "Cannot read detection cache", err, nil)
	}
	return &stats, nil
}

// withLock runs fn while holding the exclusive cache lock. Acquisition
// blocks until the lock is free. The mutex serialises goroutines sharing
// this Cache, since the file lock is held per open descriptor.
func (c *Cache) withLock(fn func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.lock.Lock(); err != nil {
		return fmt.Errorf("locking %s: %w", c.lock.Path(), err)
	}
	defer func() {
		if err := c.lock.Unlock(); err != nil {
			c.logger.Warn("Failed to release cache lock", "error", err.Error())
		}
	}()
	return fn()
}

func (c *Cache) count(hit bool) {
	meta := c.loadMetadata()
	if hit {
		meta.Hits++
	} else {
		meta.Misses++
	}
	if err := c.writeJSON(c.metadata, meta); err != nil {
		c.logger.Error("Failed to save cache metadata", "error", err.Error())
	}
}

func shortKey(key string) string {
	if len(key) > 16 {
		return key[:16]
	}
	return key
}

func toUnixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

func unixSeconds(s float64) time.Time {
	return time.Unix(0, int64(s*float64(time.Second)))
}
