// CoursePilot - Course Recommendation and Relevance Scoring
// Copyright 2026 CoursePilot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursepilot/coursepilot

package services

import (
	"context"
	"time"

	"github.com/coursepilot/coursepilot/internal/logging"
)

// GarbageCollector is the cache maintenance hook. Satisfied by
// *cache.ResponseCache.
type GarbageCollector interface {
	RunGC() error
}

// CacheGCService periodically runs badger value-log garbage collection
// on the response cache. GC failures are logged and retried next tick;
// they never crash the service.
type CacheGCService struct {
	gc       GarbageCollector
	interval time.Duration
}

// NewCacheGCService creates the GC ticker service. Non-positive
// intervals default to 5 minutes.
func NewCacheGCService(gc GarbageCollector, interval time.Duration) *CacheGCService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &CacheGCService{gc: gc, interval: interval}
}

// Serve implements suture.Service.
func (s *CacheGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.gc.RunGC(); err != nil {
				logging.Warn().Err(err).Msg("Cache garbage collection failed")
			}
		}
	}
}

// String identifies the service in supervisor logs.
func (s *CacheGCService) String() string {
	return "cache-gc"
}
