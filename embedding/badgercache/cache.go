// Copyright 2026 Gold.Arch Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package badgercache provides a persistent embedding.Cache backed by
// BadgerDB. Entry expiry is delegated to Badger's native TTL support, so
// expired vectors disappear without a sweep.
//
// Use it when documents are re-ingested across process restarts and
// re-embedding the whole corpus would be wasteful.
package badgercache

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/goldarch/ragkit/embedding"
)

// Cache is a BadgerDB-backed embedding cache.
type Cache struct {
	db     *badger.DB
	ttl    time.Duration
	logger *slog.Logger
	hits   atomic.Uint64
	misses atomic.Uint64
}

var _ embedding.Cache = (*Cache)(nil)

// Option configures a Cache.
type Option func(*Cache)

// WithTTL sets the entry lifetime. Zero or negative disables expiry.
// Badger tracks expiry in whole seconds, so sub-second lifetimes are
// rounded up to one second. Default is one hour.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 && ttl < time.Second {
			ttl = time.Second
		}
		c.ttl = ttl
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// badgerLoggerAdapter adapts slog.Logger to the badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// Open opens a cache database at path, creating the directory if needed.
// An empty path opens an in-memory database, useful for tests.
func Open(path string, opts ...Option) (*Cache, error) {
	c := &Cache{
		ttl:    time.Hour,
		logger: slog.Default().With("component", "badgercache"),
	}
	for _, opt := range opts {
		opt(c)
	}

	var dbOpts badger.Options
	if path == "" {
		dbOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
			if err := os.MkdirAll(path, 0755); err != nil {
				return nil, err
			}
		} else if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", path)
		}
		dbOpts = badger.DefaultOptions(path)
	}
	dbOpts.Logger = &badgerLoggerAdapter{logger: c.logger}
	dbOpts.Compression = options.None

	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, err
	}
	c.db = db
	return c, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the cached vector for key. Read failures are logged and
// surface as misses.
func (c *Cache) Get(key string) ([]float32, bool) {
	var vector []float32
	err := c.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var umErr error
			vector, umErr = UnmarshalVector(val)
			return umErr
		})
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			c.logger.Error("cache read failed", "err", err)
		}
		c.misses.Add(1)
		return nil, false
	}

	c.hits.Add(1)
	return vector, true
}

// Set stores a vector under key with the configured TTL.
func (c *Cache) Set(key string, vector []float32) {
	err := c.db.Update(func(tx *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), MarshalVector(vector))
		if c.ttl > 0 {
			entry = entry.WithTTL(c.ttl)
		}
		return tx.SetEntry(entry)
	})
	if err != nil {
		c.logger.Error("cache write failed", "err", err)
	}
}

// Has reports whether key is cached, without counting toward statistics.
func (c *Cache) Has(key string) bool {
	err := c.db.View(func(tx *badger.Txn) error {
		_, err := tx.Get([]byte(key))
		return err
	})
	return err == nil
}

// Cleanup is a no-op: Badger drops expired entries through its native TTL
// handling. Always returns zero.
func (c *Cache) Cleanup() int {
	return 0
}

// Clear removes all entries and resets statistics.
func (c *Cache) Clear() error {
	if err := c.db.DropAll(); err != nil {
		return err
	}
	c.hits.Store(0)
	c.misses.Store(0)
	return nil
}

// Stats returns a snapshot of cache statistics. Size requires a key-only
// scan of the database.
func (c *Cache) Stats() embedding.CacheStats {
	size := 0
	err := c.db.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()
		for iter.Rewind(); iter.Valid(); iter.Next() {
			size++
		}
		return nil
	})
	if err != nil {
		c.logger.Error("cache stats scan failed", "err", err)
	}

	stats := embedding.CacheStats{
		Size:   size,
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}
	if total := stats.Hits + stats.Misses; total > 0 {
		stats.HitRate = float64(stats.Hits) / float64(total)
	}
	return stats
}
