// CoursePilot - Course Recommendation and Relevance Scoring
// Copyright 2026 CoursePilot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursepilot/coursepilot

// Package sync guards shared upstream resources. Its breaker wraps the
// catalog read path so a degraded database cannot drag every request
// down with it; an open breaker surfaces as an upstream read failure,
// which the engine already fails open on.
package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/coursepilot/coursepilot/internal/logging"
	"github.com/coursepilot/coursepilot/internal/metrics"
	"github.com/coursepilot/coursepilot/internal/models"
	"github.com/coursepilot/coursepilot/internal/recommend"
)

// BreakerCatalog wraps a CatalogAccessor with circuit breaker protection.
//
// The breaker uses real time for its interval and timeout calculations.
// Tests that need failure behavior should use a failing inner accessor,
// not mock the breaker.
type BreakerCatalog struct {
	catalog recommend.CatalogAccessor
	cb      *gobreaker.CircuitBreaker[interface{}]
	name    string
}

var _ recommend.CatalogAccessor = (*BreakerCatalog)(nil)

// NewBreakerCatalog creates a breaker-protected catalog accessor.
// Breaker configuration:
// - Max 3 concurrent requests in half-open state
// - 1 minute measurement window
// - 30 second timeout before attempting recovery
// - Opens after 60% failure rate with minimum 10 requests
// - Client cancellations are not counted as failures
func NewBreakerCatalog(catalog recommend.CatalogAccessor) *BreakerCatalog {
	cbName := "catalog-reads"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6

			if shouldTrip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}

			return shouldTrip
		},

		// A cancelled request says nothing about catalog health; a
		// burst of client disconnects must not open the breaker.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &BreakerCatalog{
		catalog: catalog,
		cb:      cb,
		name:    cbName,
	}
}

// execute wraps one catalog read with breaker protection.
func (b *BreakerCatalog) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := b.cb.Execute(fn)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] Catalog read rejected")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	return result, nil
}

// castResult type-asserts the breaker result with error checking.
func castResult[T any](result interface{}, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// CourseByID looks up one course with breaker protection.
func (b *BreakerCatalog) CourseByID(ctx context.Context, id string) (*models.Course, error) {
	return castResult[*models.Course](b.execute(func() (interface{}, error) {
		return b.catalog.CourseByID(ctx, id)
	}))
}

// TopRatedCourses lists top-rated courses with breaker protection.
func (b *BreakerCatalog) TopRatedCourses(ctx context.Context, exclude map[string]struct{}, limit int) ([]models.Course, error) {
	return castResult[[]models.Course](b.execute(func() (interface{}, error) {
		return b.catalog.TopRatedCourses(ctx, exclude, limit)
	}))
}

// CoursesMatching lists matching courses with breaker protection.
func (b *BreakerCatalog) CoursesMatching(ctx context.Context, categories, tags []string, exclude map[string]struct{}, limit int) ([]models.Course, error) {
	return castResult[[]models.Course](b.execute(func() (interface{}, error) {
		return b.catalog.CoursesMatching(ctx, categories, tags, exclude, limit)
	}))
}

// CoursesCreatedSince lists recent courses with breaker protection.
func (b *BreakerCatalog) CoursesCreatedSince(ctx context.Context, since time.Time, limit int) ([]models.Course, error) {
	return castResult[[]models.Course](b.execute(func() (interface{}, error) {
		return b.catalog.CoursesCreatedSince(ctx, since, limit)
	}))
}

// CoursesByIDs resolves ids to courses with breaker protection.
func (b *BreakerCatalog) CoursesByIDs(ctx context.Context, ids []string) ([]models.Course, error) {
	return castResult[[]models.Course](b.execute(func() (interface{}, error) {
		return b.catalog.CoursesByIDs(ctx, ids)
	}))
}
