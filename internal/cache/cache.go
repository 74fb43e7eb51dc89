// CoursePilot - Course Recommendation and Relevance Scoring
// Copyright 2026 CoursePilot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursepilot/coursepilot

// Package cache provides a BadgerDB-backed TTL cache for recommendation
// responses. Entries expire on their own; there is no invalidation path,
// the TTL is short enough that stale reads are acceptable.
package cache

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/coursepilot/coursepilot/internal/config"
	"github.com/coursepilot/coursepilot/internal/logging"
	"github.com/coursepilot/coursepilot/internal/metrics"
	"github.com/coursepilot/coursepilot/internal/models"
)

const (
	recommendationKeyPrefix = "rec:"
	cacheType               = "recommendations"
	gcDiscardRatio          = 0.5
)

// ResponseCache stores serialized recommendation lists with a TTL.
type ResponseCache struct {
	db       *badger.DB
	ttl      time.Duration
	inMemory bool
}

// New opens the cache store. With cfg.InMemory set, nothing touches disk;
// that mode backs tests and small deployments.
func New(cfg *config.CacheConfig) (*ResponseCache, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(cfg.Path)
	}
	// Badger's own logger is noisy; errors surface through return values.
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open cache store: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Dur("ttl", cfg.TTL).
		Msg("Response cache opened")

	return &ResponseCache{db: db, ttl: cfg.TTL, inMemory: cfg.InMemory}, nil
}

// Key builds the cache key for one recommendation request. The subject is
// the user id or seed course id, empty for the anonymous strategies.
func Key(strategy, subject string, count, periodDays int) string {
	return fmt.Sprintf("%s%s:%s:%d:%d", recommendationKeyPrefix, strategy, subject, count, periodDays)
}

// Get returns the cached results for key, or ok=false on a miss. A
// corrupt entry counts as a miss; the TTL will age it out.
func (c *ResponseCache) Get(key string) ([]models.RecommendationResult, bool) {
	var results []models.RecommendationResult

	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &results)
		})
	})

	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			logging.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		}
		metrics.CacheMisses.WithLabelValues(cacheType).Inc()
		return nil, false
	}

	metrics.CacheHits.WithLabelValues(cacheType).Inc()
	return results, true
}

// Set stores results under key with the configured TTL. A write failure
// is logged and swallowed; caching is best effort.
func (c *ResponseCache) Set(key string, results []models.RecommendationResult) {
	data, err := json.Marshal(results)
	if err != nil {
		logging.Warn().Err(err).Str("key", key).Msg("Cache encode failed")
		return
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), data).WithTTL(c.ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		logging.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
}

// RunGC triggers one value-log garbage collection pass. Badger returns
// ErrNoRewrite when there was nothing to collect; that is not a failure.
// In-memory stores have no value log, so GC is a no-op there.
func (c *ResponseCache) RunGC() error {
	if c.inMemory {
		return nil
	}
	err := c.db.RunValueLogGC(gcDiscardRatio)
	if errors.Is(err, badger.ErrNoRewrite) {
		return nil
	}
	return err
}

// Close closes the underlying store.
func (c *ResponseCache) Close() error {
	return c.db.Close()
}
