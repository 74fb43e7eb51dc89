// CoursePilot - Course Recommendation and Relevance Scoring
// Copyright 2026 CoursePilot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursepilot/coursepilot

// Package recommend implements the deterministic, rule-based course
// recommendation engine: per-strategy candidate generation, additive
// relevance scoring, stable ranking, and fallback behavior when a
// signal source is empty.
//
// The engine holds no mutable shared state. All data access goes through
// the narrow accessor interfaces below, injected at construction, so the
// read pipeline is safe to run fully in parallel across requests.
package recommend

import (
	"context"
	"strings"
	"time"

	"github.com/coursepilot/coursepilot/internal/models"
)

// Strategy names one of the seven recommendation algorithms.
type Strategy string

const (
	StrategyPersonalized Strategy = "personalized"
	StrategyViewHistory  Strategy = "view_history"
	StrategyCompletion   Strategy = "completion"
	StrategyInterest     Strategy = "interest"
	StrategySimilar      Strategy = "similar"
	StrategyPopular      Strategy = "popular"
	StrategyNew          Strategy = "new"
)

// String returns the strategy name.
func (s Strategy) String() string {
	return string(s)
}

// CatalogAccessor is the read-only view of the course catalog.
// Implementations must return only published, non-deleted courses from
// every method except CourseByID, which returns the raw record.
type CatalogAccessor interface {
	// CourseByID returns the course or nil when no such course exists.
	CourseByID(ctx context.Context, id string) (*models.Course, error)

	// TopRatedCourses returns published courses ordered by rating
	// descending, skipping the excluded ids, up to limit.
	TopRatedCourses(ctx context.Context, exclude map[string]struct{}, limit int) ([]models.Course, error)

	// CoursesMatching returns published courses whose category is in
	// categories or that share at least one tag with tags, ordered by
	// rating descending, skipping the excluded ids, up to limit.
	CoursesMatching(ctx context.Context, categories, tags []string, exclude map[string]struct{}, limit int) ([]models.Course, error)

	// CoursesCreatedSince returns published courses created after the
	// given time, ordered by creation time descending, up to limit.
	CoursesCreatedSince(ctx context.Context, since time.Time, limit int) ([]models.Course, error)

	// CoursesByIDs returns the published courses among the given ids.
	CoursesByIDs(ctx context.Context, ids []string) ([]models.Course, error)
}

// ViewHistoryStore records and retrieves per-user view events.
type ViewHistoryStore interface {
	// RecordView appends a view event. Failures propagate to the caller;
	// a silently lost write would corrupt downstream personalization.
	RecordView(ctx context.Context, event models.ViewEvent) error

	// RecentViews returns up to limit events ordered by viewed_at
	// descending.
	RecentViews(ctx context.Context, userID string, limit int) ([]models.ViewEvent, error)

	// ViewedCourseIDs returns the distinct set of course ids the user
	// has ever viewed. Used to build exclusion sets.
	ViewedCourseIDs(ctx context.Context, userID string) (map[string]struct{}, error)
}

// InterestStore holds the normalized interest token set per user.
type InterestStore interface {
	// ReplaceInterests atomically replaces the user's entire token set.
	// Concurrent replacements for the same user must not interleave.
	ReplaceInterests(ctx context.Context, userID string, tokens []string) error

	// Interests returns the current token set; an empty set (not an
	// error) when the user has none.
	Interests(ctx context.Context, userID string) ([]string, error)
}

// CompletionAccessor exposes the external completion state.
type CompletionAccessor interface {
	CompletedCourseIDs(ctx context.Context, userID string) (map[string]struct{}, error)
}

// ViewCountAggregator aggregates view counts for the popular strategy.
type ViewCountAggregator interface {
	// CountViewsSince returns view counts per course id for views at or
	// after the given time.
	CountViewsSince(ctx context.Context, since time.Time) (map[string]int, error)
}

// signal is the reference signal set a strategy scores against.
type signal struct {
	categories map[string]struct{}
	tags       map[string]struct{}
}

func (s signal) empty() bool {
	return len(s.categories) == 0 && len(s.tags) == 0
}

func (s signal) categorySlice() []string {
	out := make([]string, 0, len(s.categories))
	for c := range s.categories {
		out = append(out, c)
	}
	return out
}

func (s signal) tagSlice() []string {
	out := make([]string, 0, len(s.tags))
	for t := range s.tags {
		out = append(out, t)
	}
	return out
}

// signalFromTokens builds a signal where the tokens serve as both the
// tag set and the category set. Used by the interest-driven strategies.
func signalFromTokens(tokens []string) signal {
	s := signal{
		categories: make(map[string]struct{}, len(tokens)),
		tags:       make(map[string]struct{}, len(tokens)),
	}
	for _, t := range tokens {
		s.categories[t] = struct{}{}
		s.tags[t] = struct{}{}
	}
	return s
}

// signalFromCourses builds a signal from the tags and categories of the
// given courses. Categories are lower-cased to match normalized tokens.
func signalFromCourses(courses []models.Course) signal {
	s := signal{
		categories: make(map[string]struct{}),
		tags:       make(map[string]struct{}),
	}
	for i := range courses {
		if c := strings.ToLower(strings.TrimSpace(courses[i].Category)); c != "" {
			s.categories[c] = struct{}{}
		}
		for _, t := range courses[i].Tags {
			if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
				s.tags[t] = struct{}{}
			}
		}
	}
	return s
}

// NormalizeTokens trims, lower-cases, and deduplicates interest tokens,
// preserving first-seen order. Empty tokens are dropped; an empty result
// is valid.
func NormalizeTokens(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
