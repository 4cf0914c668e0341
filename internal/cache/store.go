// Package cache provides a disk-backed key/value store for raw financial API
// responses. It wraps an embedded badger database rooted at a configurable
// directory with a total size cap; eviction and space reclamation are
// delegated to badger's own compaction and value-log GC.
package cache

import (
	"errors"
	"fmt"
	"os"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

// DefaultMaxSizeBytes is the cache size cap applied when none is configured (4 GB).
const DefaultMaxSizeBytes = int64(4e9)

// maxValueLogFileSize is badger's upper bound for a single value-log segment.
const maxValueLogFileSize = int64(1 << 30)

// Config holds cache store configuration.
type Config struct {
	Dir          string // Directory for the store's files (created if absent)
	MaxSizeBytes int64  // Total size cap; DefaultMaxSizeBytes when zero
}

// Store is a size-bounded key/value store on persistent storage.
type Store struct {
	db  *badger.DB
	log zerolog.Logger
}

// New opens (or creates) the store at cfg.Dir.
// Returns a *ConfigError when the size cap is invalid or the directory
// cannot be created or opened.
func New(cfg Config, log zerolog.Logger) (*Store, error) {
	maxSize := cfg.MaxSizeBytes
	if maxSize == 0 {
		maxSize = DefaultMaxSizeBytes
	}
	if maxSize < 0 {
		return nil, &ConfigError{Reason: fmt.Sprintf("invalid max cache size %d", maxSize)}
	}

	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, &ConfigError{Reason: "failed to create cache directory", Cause: err}
	}

	// Badger has no single total-size option; the segment size bounds how far
	// the value log can grow past the cap before GC reclaims it.
	segmentSize := maxSize / 4
	if segmentSize > maxValueLogFileSize {
		segmentSize = maxValueLogFileSize
	}
	if segmentSize < 1<<20 {
		segmentSize = 1 << 20
	}

	opts := badger.DefaultOptions(cfg.Dir).
		WithLogger(nil).
		WithValueLogFileSize(segmentSize)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, &ConfigError{Reason: "failed to open cache store", Cause: err}
	}

	scopedLog := log.With().Str("component", "cache").Logger()
	scopedLog.Debug().Str("dir", cfg.Dir).Int64("max_bytes", maxSize).Msg("Cache store initialized")

	return &Store{db: db, log: scopedLog}, nil
}

// Write stores value under key. Empty keys or values are silently skipped;
// storing nothing is preferable to poisoning the cache with unusable
// entries. Storage failures are logged, never surfaced.
func (s *Store) Write(key string, value []byte) {
	if key == "" || len(value) == 0 {
		return
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Failed to write cache entry")
	}
}

// Read returns the value stored under key, or nil, false when the key is
// unset. Unexpected storage failures are logged and reported as a miss.
func (s *Store) Read(key string) ([]byte, bool) {
	if key == "" {
		return nil, false
	}

	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		s.log.Debug().Str("key", key).Msg("Cache miss")
		return nil, false
	}
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Failed to read cache entry")
		return nil, false
	}

	return value, true
}

// Close reclaims value-log space and releases the underlying database.
// Safe to call once at process shutdown.
func (s *Store) Close() error {
	// Each successful GC pass rewrites one value-log file; loop until there
	// is nothing left to rewrite.
	for {
		if err := s.db.RunValueLogGC(0.5); err != nil {
			break
		}
	}

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close cache store: %w", err)
	}
	return nil
}
