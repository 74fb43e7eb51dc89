// CoursePilot - Course Recommendation and Relevance Scoring
// Copyright 2026 CoursePilot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursepilot/coursepilot

package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/coursepilot/coursepilot/internal/logging"
	"github.com/coursepilot/coursepilot/internal/metrics"
	"github.com/coursepilot/coursepilot/internal/models"
)

// Recommendation reasons attached to returned results.
const (
	reasonPersonalized = "matched your interests"
	reasonViewHistory  = "similar to courses you viewed"
	reasonCompletion   = "similar to courses you completed"
	reasonInterest     = "based on your interests"
	reasonSimilar      = "similar to this course"
	reasonPopular      = "popular with other learners"
	reasonNew          = "newly added"
	reasonTopRated     = "top rated"
)

// newCourseScore is the fixed score assigned to every course by the new
// strategy. Unlike the other strategies this is not comparative: new
// courses always rank maximally within their own pool. The asymmetry is
// intentional (freshness surfacing) and callers depend on it.
const newCourseScore = maxScore

// Config holds engine tuning parameters.
type Config struct {
	// HistoryWindow is how many recent views feed the view-history
	// reference signal. Capped at 20.
	HistoryWindow int

	// OverFetchFactor multiplies the requested count when pulling
	// candidates, to tolerate post-filtering losses.
	OverFetchFactor int

	// FallbackPeriodDays is the popular-strategy window used when a
	// strategy's reference signal is empty.
	FallbackPeriodDays int
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		HistoryWindow:      20,
		OverFetchFactor:    2,
		FallbackPeriodDays: 30,
	}
}

// Providers bundles the accessor interfaces the engine depends on.
type Providers struct {
	Catalog     CatalogAccessor
	Views       ViewHistoryStore
	Interests   InterestStore
	Completions CompletionAccessor
	ViewCounts  ViewCountAggregator
}

// Engine computes recommendations. It is stateless between requests and
// safe for concurrent use.
type Engine struct {
	cfg    Config
	p      Providers
	logger zerolog.Logger
}

// New creates a recommendation engine. All providers are required.
func New(cfg Config, p Providers) (*Engine, error) {
	if cfg.HistoryWindow < 1 || cfg.HistoryWindow > 20 {
		return nil, fmt.Errorf("history window must be between 1 and 20, got %d", cfg.HistoryWindow)
	}
	if cfg.OverFetchFactor < 1 {
		return nil, fmt.Errorf("overfetch factor must be >= 1, got %d", cfg.OverFetchFactor)
	}
	if cfg.FallbackPeriodDays < 1 {
		return nil, fmt.Errorf("fallback period must be >= 1 day, got %d", cfg.FallbackPeriodDays)
	}
	if p.Catalog == nil {
		return nil, errors.New("catalog accessor is required")
	}
	if p.Views == nil {
		return nil, errors.New("view history store is required")
	}
	if p.Interests == nil {
		return nil, errors.New("interest store is required")
	}
	if p.Completions == nil {
		return nil, errors.New("completion accessor is required")
	}
	if p.ViewCounts == nil {
		return nil, errors.New("view count aggregator is required")
	}

	return &Engine{
		cfg:    cfg,
		p:      p,
		logger: logging.WithComponent("recommend"),
	}, nil
}

// overFetch returns the candidate pool size for a requested count.
func (e *Engine) overFetch(count int) int {
	return count * e.cfg.OverFetchFactor
}

// Personalized recommends courses matching the user's interest tokens,
// excluding everything already viewed or completed.
func (e *Engine) Personalized(ctx context.Context, userID string, count int) ([]models.RecommendationResult, error) {
	tokens, err := e.p.Interests.Interests(ctx, userID)
	if err != nil {
		return e.failOpen(ctx, StrategyPersonalized, "interests", err)
	}
	if len(tokens) == 0 {
		return e.fallbackToPopular(ctx, StrategyPersonalized, count)
	}

	exclude, err := e.viewedAndCompleted(ctx, userID)
	if err != nil {
		return e.failOpen(ctx, StrategyPersonalized, "exclusions", err)
	}

	candidates, err := e.p.Catalog.TopRatedCourses(ctx, exclude, e.overFetch(count))
	if err != nil {
		return e.failOpen(ctx, StrategyPersonalized, "catalog", err)
	}

	ref := signalFromTokens(tokens)
	results := scoreCandidates(candidates, ref, false, reasonPersonalized)
	results = rankAndTruncate(results, count)
	results, err = e.pad(ctx, results, exclude, count)
	if err != nil {
		return nil, err
	}

	metrics.RecordRecommendation(StrategyPersonalized.String(), len(results))
	return results, nil
}

// FromViewHistory recommends courses similar to the user's recent views,
// excluding everything already viewed.
func (e *Engine) FromViewHistory(ctx context.Context, userID string, count int) ([]models.RecommendationResult, error) {
	events, err := e.p.Views.RecentViews(ctx, userID, e.cfg.HistoryWindow)
	if err != nil {
		return e.failOpen(ctx, StrategyViewHistory, "views", err)
	}
	if len(events) == 0 {
		return e.fallbackToPopular(ctx, StrategyViewHistory, count)
	}

	seeds, err := e.p.Catalog.CoursesByIDs(ctx, distinctCourseIDs(events))
	if err != nil {
		return e.failOpen(ctx, StrategyViewHistory, "catalog", err)
	}

	exclude, err := e.p.Views.ViewedCourseIDs(ctx, userID)
	if err != nil {
		return e.failOpen(ctx, StrategyViewHistory, "views", err)
	}

	return e.contentMatch(ctx, StrategyViewHistory, signalFromCourses(seeds), exclude, count, reasonViewHistory)
}

// FromCompletedCourses recommends courses similar to what the user has
// finished, excluding the completed courses themselves.
func (e *Engine) FromCompletedCourses(ctx context.Context, userID string, count int) ([]models.RecommendationResult, error) {
	completed, err := e.p.Completions.CompletedCourseIDs(ctx, userID)
	if err != nil {
		return e.failOpen(ctx, StrategyCompletion, "completions", err)
	}
	if len(completed) == 0 {
		return e.fallbackToPopular(ctx, StrategyCompletion, count)
	}

	ids := make([]string, 0, len(completed))
	for id := range completed {
		ids = append(ids, id)
	}
	seeds, err := e.p.Catalog.CoursesByIDs(ctx, ids)
	if err != nil {
		return e.failOpen(ctx, StrategyCompletion, "catalog", err)
	}

	return e.contentMatch(ctx, StrategyCompletion, signalFromCourses(seeds), completed, count, reasonCompletion)
}

// FromInterests recommends courses whose category or tags match the
// user's interest tokens. Nothing is excluded.
func (e *Engine) FromInterests(ctx context.Context, userID string, count int) ([]models.RecommendationResult, error) {
	tokens, err := e.p.Interests.Interests(ctx, userID)
	if err != nil {
		return e.failOpen(ctx, StrategyInterest, "interests", err)
	}
	if len(tokens) == 0 {
		return e.fallbackToPopular(ctx, StrategyInterest, count)
	}

	ref := signalFromTokens(tokens)
	candidates, err := e.p.Catalog.CoursesMatching(ctx, ref.categorySlice(), ref.tagSlice(), nil, e.overFetch(count))
	if err != nil {
		return e.failOpen(ctx, StrategyInterest, "catalog", err)
	}

	results := scoreCandidates(candidates, ref, false, reasonInterest)
	results = rankAndTruncate(results, count)
	results, err = e.pad(ctx, results, nil, count)
	if err != nil {
		return nil, err
	}

	metrics.RecordRecommendation(StrategyInterest.String(), len(results))
	return results, nil
}

// Similar recommends courses sharing category or tags with the seed
// course. The seed itself never appears in the output. A missing seed
// yields an empty list, not an error.
func (e *Engine) Similar(ctx context.Context, courseID string, count int) ([]models.RecommendationResult, error) {
	seed, err := e.p.Catalog.CourseByID(ctx, courseID)
	if err != nil {
		return e.failOpen(ctx, StrategySimilar, "catalog", err)
	}
	if seed == nil {
		e.logger.Debug().Str("course_id", courseID).Msg("similar-items seed not found")
		metrics.RecordRecommendation(StrategySimilar.String(), 0)
		return []models.RecommendationResult{}, nil
	}

	exclude := map[string]struct{}{seed.ID: {}}
	return e.contentMatch(ctx, StrategySimilar, signalFromCourses([]models.Course{*seed}), exclude, count, reasonSimilar)
}

// Popular recommends the most viewed courses within the trailing period,
// ranked by view count then rating. Scores carry the course rating with
// no additive bonuses.
func (e *Engine) Popular(ctx context.Context, count, periodDays int) ([]models.RecommendationResult, error) {
	since := time.Now().UTC().AddDate(0, 0, -periodDays)
	counts, err := e.p.ViewCounts.CountViewsSince(ctx, since)
	if err != nil {
		return e.failOpen(ctx, StrategyPopular, "view_counts", err)
	}

	results := []models.RecommendationResult{}
	if len(counts) > 0 {
		ids := make([]string, 0, len(counts))
		for id := range counts {
			ids = append(ids, id)
		}
		courses, err := e.p.Catalog.CoursesByIDs(ctx, ids)
		if err != nil {
			return e.failOpen(ctx, StrategyPopular, "catalog", err)
		}

		orderByPopularity(courses, counts)
		for i := range courses {
			results = append(results, scoredResult(&courses[i], clampScore(courses[i].Rating), models.ScoreComponents{}, reasonPopular))
		}
		results = truncate(results, count)
	}

	results, err = e.pad(ctx, results, nil, count)
	if err != nil {
		return nil, err
	}

	metrics.RecordRecommendation(StrategyPopular.String(), len(results))
	return results, nil
}

// New recommends courses created within the trailing period, newest
// first, each with the fixed maximal score (see newCourseScore).
func (e *Engine) New(ctx context.Context, count, periodDays int) ([]models.RecommendationResult, error) {
	since := time.Now().UTC().AddDate(0, 0, -periodDays)
	courses, err := e.p.Catalog.CoursesCreatedSince(ctx, since, e.overFetch(count))
	if err != nil {
		return e.failOpen(ctx, StrategyNew, "catalog", err)
	}

	results := make([]models.RecommendationResult, 0, len(courses))
	for i := range courses {
		results = append(results, scoredResult(&courses[i], newCourseScore, models.ScoreComponents{}, reasonNew))
	}
	results = truncate(results, count)
	results, err = e.pad(ctx, results, nil, count)
	if err != nil {
		return nil, err
	}

	metrics.RecordRecommendation(StrategyNew.String(), len(results))
	return results, nil
}

// TrackView records a view event. Persistence failures propagate to the
// caller; they are never swallowed.
func (e *Engine) TrackView(ctx context.Context, userID, courseID string, viewCtx models.ViewContext) error {
	event := models.NewViewEvent(userID, courseID)
	event.IPAddress = viewCtx.IPAddress
	event.ReferralSource = viewCtx.ReferralSource
	event.Device = viewCtx.Device

	if err := e.p.Views.RecordView(ctx, event); err != nil {
		return fmt.Errorf("record view: %w", err)
	}

	metrics.ViewsTracked.Inc()
	return nil
}

// UpdateInterests normalizes the tokens and atomically replaces the
// user's interest set. An empty token list is valid and clears the set.
// Failures propagate to the caller.
func (e *Engine) UpdateInterests(ctx context.Context, userID string, tokens []string) error {
	normalized := NormalizeTokens(tokens)
	if err := e.p.Interests.ReplaceInterests(ctx, userID, normalized); err != nil {
		return fmt.Errorf("replace interests: %w", err)
	}

	metrics.InterestUpdates.Inc()
	return nil
}

// GetInterests returns the user's current interest set. A user with no
// interests yields an empty set, not an error.
func (e *Engine) GetInterests(ctx context.Context, userID string) ([]string, error) {
	tokens, err := e.p.Interests.Interests(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get interests: %w", err)
	}
	if tokens == nil {
		tokens = []string{}
	}
	return tokens, nil
}

// contentMatch is the shared pipeline for the strategies that filter the
// catalog by category/tag overlap and score with the category bonus.
func (e *Engine) contentMatch(ctx context.Context, strategy Strategy, ref signal, exclude map[string]struct{}, count int, reason string) ([]models.RecommendationResult, error) {
	if ref.empty() {
		return e.fallbackToPopular(ctx, strategy, count)
	}

	candidates, err := e.p.Catalog.CoursesMatching(ctx, ref.categorySlice(), ref.tagSlice(), exclude, e.overFetch(count))
	if err != nil {
		return e.failOpen(ctx, strategy, "catalog", err)
	}

	results := scoreCandidates(candidates, ref, true, reason)
	results = rankAndTruncate(results, count)
	results, err = e.pad(ctx, results, exclude, count)
	if err != nil {
		return nil, err
	}

	metrics.RecordRecommendation(strategy.String(), len(results))
	return results, nil
}

// fallbackToPopular substitutes the popular strategy when a reference
// signal is empty. This is the documented fallback policy, not an error.
func (e *Engine) fallbackToPopular(ctx context.Context, strategy Strategy, count int) ([]models.RecommendationResult, error) {
	e.logger.Debug().
		Str("strategy", strategy.String()).
		Int("period_days", e.cfg.FallbackPeriodDays).
		Msg("empty reference signal, delegating to popular")
	metrics.RecordFallback(strategy.String())
	return e.Popular(ctx, count, e.cfg.FallbackPeriodDays)
}

// pad fills the result list with top-rated published courses until count
// is reached or the catalog is exhausted. The strategy's exclusion set
// still applies: an excluded course never enters through padding.
// Non-cancellation padding failures degrade silently to the primary
// results; cancellation propagates with no results, the same
// all-or-nothing contract failOpen enforces.
func (e *Engine) pad(ctx context.Context, results []models.RecommendationResult, exclude map[string]struct{}, count int) ([]models.RecommendationResult, error) {
	if len(results) >= count {
		return results, nil
	}

	skip := make(map[string]struct{}, len(exclude)+len(results))
	for id := range exclude {
		skip[id] = struct{}{}
	}
	for i := range results {
		skip[results[i].CourseID] = struct{}{}
	}

	fillers, err := e.p.Catalog.TopRatedCourses(ctx, skip, count-len(results))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		e.logger.Warn().Err(err).Msg("padding query failed, returning partial results")
		return results, nil
	}

	for i := range fillers {
		results = append(results, scoredResult(&fillers[i], clampScore(fillers[i].Rating), models.ScoreComponents{}, reasonTopRated))
	}
	return results, nil
}

// viewedAndCompleted builds the combined exclusion set for the
// personalized strategy.
func (e *Engine) viewedAndCompleted(ctx context.Context, userID string) (map[string]struct{}, error) {
	viewed, err := e.p.Views.ViewedCourseIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("viewed course ids: %w", err)
	}
	completed, err := e.p.Completions.CompletedCourseIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("completed course ids: %w", err)
	}

	exclude := make(map[string]struct{}, len(viewed)+len(completed))
	for id := range viewed {
		exclude[id] = struct{}{}
	}
	for id := range completed {
		exclude[id] = struct{}{}
	}
	return exclude, nil
}

// failOpen converts an upstream read failure into an empty result list.
// The failure is logged and counted so telemetry can distinguish a
// degraded response from a genuinely empty one. Cancellation is the
// exception: a cancelled request returns its error and no results,
// never a partial or empty stand-in.
func (e *Engine) failOpen(ctx context.Context, strategy Strategy, source string, err error) ([]models.RecommendationResult, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil, err
	}

	e.logger.Error().
		Err(err).
		Str("strategy", strategy.String()).
		Str("source", source).
		Msg("upstream read failed, returning empty recommendations")
	metrics.RecordDegraded(strategy.String(), source)

	return []models.RecommendationResult{}, nil
}

// distinctCourseIDs extracts unique course ids from view events,
// preserving most-recent-first order.
func distinctCourseIDs(events []models.ViewEvent) []string {
	seen := make(map[string]struct{}, len(events))
	ids := make([]string, 0, len(events))
	for i := range events {
		id := events[i].CourseID
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
