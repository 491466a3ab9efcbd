package cache

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/bobmcallan/earnings-insight/internal/common"
	"github.com/timshannon/badgerhold/v4"
)

// badgerEntry is the persisted form of a cache entry.
type badgerEntry struct {
	Key       string `badgerhold:"key"`
	Value     []byte
	ExpiresAt time.Time
}

// BadgerStore is a Cache backed by badgerhold. With an empty path the
// database lives in memory and disappears with the process.
type BadgerStore struct {
	store  *badgerhold.Store
	ttl    time.Duration
	clock  Clock
	logger *common.Logger
}

// NewBadgerStore opens the store. path "" selects badger's in-memory mode.
// An on-disk store is emptied on open so entries never outlive the process.
func NewBadgerStore(path string, ttl time.Duration, logger *common.Logger, opts ...Option) (*BadgerStore, error) {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	o := buildOptions(opts)

	options := badgerhold.DefaultOptions
	options.Logger = nil
	if path == "" {
		options.InMemory = true
		options.Dir = ""
		options.ValueDir = ""
	} else {
		if err := os.MkdirAll(path, 0755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
		options.Dir = path
		options.ValueDir = path
	}

	store, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger cache: %w", err)
	}
	if path != "" {
		if err := store.Badger().DropAll(); err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to clear badger cache: %w", err)
		}
	}

	logger.Debug().
		Str("path", path).
		Bool("in_memory", path == "").
		Dur("ttl", ttl).
		Msg("badger cache initialized")

	return &BadgerStore{
		store:  store,
		ttl:    ttl,
		clock:  o.clock,
		logger: logger,
	}, nil
}

// Get returns the value for key if present and not expired. An expired entry
// is deleted on read.
func (s *BadgerStore) Get(key string) ([]byte, bool) {
	var e badgerEntry
	if err := s.store.Get(key, &e); err != nil {
		if !errors.Is(err, badgerhold.ErrNotFound) {
			s.logger.Warn().Str("key", key).Str("error", err.Error()).Msg("badger cache read failed")
		}
		return nil, false
	}

	if !s.clock.Now().Before(e.ExpiresAt) {
		if err := s.store.Delete(key, badgerEntry{}); err != nil && !errors.Is(err, badgerhold.ErrNotFound) {
			s.logger.Warn().Str("key", key).Str("error", err.Error()).Msg("badger cache evict failed")
		}
		return nil, false
	}
	return e.Value, true
}

// Set upserts value under key.
func (s *BadgerStore) Set(key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = s.ttl
	}
	e := badgerEntry{
		Key:       key,
		Value:     value,
		ExpiresAt: s.clock.Now().Add(ttl),
	}
	if err := s.store.Upsert(key, &e); err != nil {
		return fmt.Errorf("failed to set cache key %s: %w", key, err)
	}
	return nil
}

// Count reports the number of stored entries, expired ones included until read.
func (s *BadgerStore) Count() (uint64, error) {
	return s.store.Count(&badgerEntry{}, nil)
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
