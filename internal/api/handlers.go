// CoursePilot - Course Recommendation and Relevance Scoring
// Copyright 2026 CoursePilot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursepilot/coursepilot

package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	"github.com/coursepilot/coursepilot/internal/cache"
	"github.com/coursepilot/coursepilot/internal/config"
	"github.com/coursepilot/coursepilot/internal/logging"
	"github.com/coursepilot/coursepilot/internal/models"
	"github.com/coursepilot/coursepilot/internal/recommend"
	"github.com/coursepilot/coursepilot/internal/validation"
)

// Count and period bounds for query parameters.
const (
	minCount  = 1
	maxCount  = 50
	minPeriod = 1
	maxPeriod = 365
)

// HealthChecker reports backing-store liveness for the health endpoint.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Handler serves the recommendation API. The cache is optional; a nil
// cache disables response caching without changing behavior.
type Handler struct {
	engine      *recommend.Engine
	cache       *cache.ResponseCache
	health      HealthChecker
	cfg         *config.APIConfig
	viewLimiter *rate.Limiter
}

// NewHandler creates the API handler.
func NewHandler(engine *recommend.Engine, respCache *cache.ResponseCache, health HealthChecker, cfg *config.APIConfig) *Handler {
	perSecond := cfg.TrackViewPerSecond
	if perSecond <= 0 {
		perSecond = 50
	}
	burst := cfg.TrackViewBurst
	if burst <= 0 {
		burst = 100
	}

	return &Handler{
		engine:      engine,
		cache:       respCache,
		health:      health,
		cfg:         cfg,
		viewLimiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

func (h *Handler) defaultCount() int {
	if h.cfg.DefaultCount > 0 {
		return h.cfg.DefaultCount
	}
	return 10
}

// recommendFn produces recommendations for an already-parsed request.
type recommendFn func(ctx context.Context) ([]models.RecommendationResult, error)

// serveRecommendations runs one strategy behind the response cache.
// Cache reads are skipped when the client passes ?fresh=1.
func (h *Handler) serveRecommendations(w http.ResponseWriter, r *http.Request, strategy recommend.Strategy, subject string, count, periodDays int, fn recommendFn) {
	rw := NewResponseWriter(w, r)

	var key string
	if h.cache != nil {
		key = cache.Key(strategy.String(), subject, count, periodDays)
		if !queryBool(r, "fresh") {
			if results, ok := h.cache.Get(key); ok {
				rw.MarkCached()
				rw.Success(models.RecommendationList{Recommendations: results, Count: len(results)})
				return
			}
		}
	}

	results, err := fn(r.Context())
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			// Client went away; nothing useful to write.
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).
			Str("strategy", strategy.String()).
			Msg("Recommendation request failed")
		rw.InternalError("Failed to generate recommendations")
		return
	}

	if h.cache != nil {
		h.cache.Set(key, results)
	}
	rw.Success(models.RecommendationList{Recommendations: results, Count: len(results)})
}

// Personalized handles GET /recommendations/personalized/{userID}.
func (h *Handler) Personalized(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	count := queryInt(r, "count", h.defaultCount(), minCount, maxCount)

	h.serveRecommendations(w, r, recommend.StrategyPersonalized, userID, count, 0, func(ctx context.Context) ([]models.RecommendationResult, error) {
		return h.engine.Personalized(ctx, userID, count)
	})
}

// ViewHistory handles GET /recommendations/history/{userID}.
func (h *Handler) ViewHistory(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	count := queryInt(r, "count", h.defaultCount(), minCount, maxCount)

	h.serveRecommendations(w, r, recommend.StrategyViewHistory, userID, count, 0, func(ctx context.Context) ([]models.RecommendationResult, error) {
		return h.engine.FromViewHistory(ctx, userID, count)
	})
}

// Completed handles GET /recommendations/completed/{userID}.
func (h *Handler) Completed(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	count := queryInt(r, "count", h.defaultCount(), minCount, maxCount)

	h.serveRecommendations(w, r, recommend.StrategyCompletion, userID, count, 0, func(ctx context.Context) ([]models.RecommendationResult, error) {
		return h.engine.FromCompletedCourses(ctx, userID, count)
	})
}

// Interests handles GET /recommendations/interests/{userID}.
func (h *Handler) Interests(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	count := queryInt(r, "count", h.defaultCount(), minCount, maxCount)

	h.serveRecommendations(w, r, recommend.StrategyInterest, userID, count, 0, func(ctx context.Context) ([]models.RecommendationResult, error) {
		return h.engine.FromInterests(ctx, userID, count)
	})
}

// Similar handles GET /recommendations/similar/{courseID}.
func (h *Handler) Similar(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")
	count := queryInt(r, "count", h.defaultCount(), minCount, maxCount)

	h.serveRecommendations(w, r, recommend.StrategySimilar, courseID, count, 0, func(ctx context.Context) ([]models.RecommendationResult, error) {
		return h.engine.Similar(ctx, courseID, count)
	})
}

// Popular handles GET /recommendations/popular.
func (h *Handler) Popular(w http.ResponseWriter, r *http.Request) {
	count := queryInt(r, "count", h.defaultCount(), minCount, maxCount)
	period := queryInt(r, "period", 30, minPeriod, maxPeriod)

	h.serveRecommendations(w, r, recommend.StrategyPopular, "", count, period, func(ctx context.Context) ([]models.RecommendationResult, error) {
		return h.engine.Popular(ctx, count, period)
	})
}

// New handles GET /recommendations/new.
func (h *Handler) New(w http.ResponseWriter, r *http.Request) {
	count := queryInt(r, "count", h.defaultCount(), minCount, maxCount)
	period := queryInt(r, "period", 30, minPeriod, maxPeriod)

	h.serveRecommendations(w, r, recommend.StrategyNew, "", count, period, func(ctx context.Context) ([]models.RecommendationResult, error) {
		return h.engine.New(ctx, count, period)
	})
}

// TrackView handles POST /views. Writes are bounded by a process-wide
// token bucket in addition to per-IP rate limiting.
func (h *Handler) TrackView(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if !h.viewLimiter.Allow() {
		rw.TooManyRequests("View tracking is temporarily throttled")
		return
	}

	var req TrackViewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.BadRequest(err.Error())
		return
	}

	if ve := validation.ValidateStruct(&req); ve != nil {
		rw.ValidationError(ve)
		return
	}

	viewCtx := models.ViewContext{
		IPAddress:      req.IPAddress,
		ReferralSource: req.ReferralSource,
		Device:         req.Device,
	}
	if err := h.engine.TrackView(r.Context(), req.UserID, req.CourseID, viewCtx); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).
			Str("user_id", req.UserID).
			Str("course_id", req.CourseID).
			Msg("Failed to record view event")
		rw.InternalError("Failed to record view")
		return
	}

	rw.Created(map[string]string{"user_id": req.UserID, "course_id": req.CourseID})
}

// UpdateInterests handles PUT /interests/{userID}.
func (h *Handler) UpdateInterests(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	userID := chi.URLParam(r, "userID")

	var req UpdateInterestsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.BadRequest(err.Error())
		return
	}

	if ve := validation.ValidateStruct(&req); ve != nil {
		rw.ValidationError(ve)
		return
	}

	if err := h.engine.UpdateInterests(r.Context(), userID, req.Tokens); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).
			Str("user_id", userID).
			Msg("Failed to update interests")
		rw.InternalError("Failed to update interests")
		return
	}

	interests, err := h.engine.GetInterests(r.Context(), userID)
	if err != nil {
		// The write committed; report it even if the read-back failed.
		interests = []string{}
	}
	rw.Success(models.UserInterestSet{UserID: userID, Tokens: interests})
}

// GetInterests handles GET /interests/{userID}.
func (h *Handler) GetInterests(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	userID := chi.URLParam(r, "userID")

	interests, err := h.engine.GetInterests(r.Context(), userID)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).
			Str("user_id", userID).
			Msg("Failed to read interests")
		rw.InternalError("Failed to read interests")
		return
	}
	rw.Success(models.UserInterestSet{UserID: userID, Tokens: interests})
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	status := "healthy"
	checks := map[string]string{"database": "ok"}

	if h.health != nil {
		if err := h.health.Ping(r.Context()); err != nil {
			status = "degraded"
			checks["database"] = strings.TrimSpace(err.Error())
		}
	}

	if status != "healthy" {
		rw.ErrorWithDetails(http.StatusServiceUnavailable, models.ErrCodeUnavailable, "Service degraded", map[string]interface{}{
			"status": status,
			"checks": checks,
		})
		return
	}
	rw.Success(map[string]interface{}{"status": status, "checks": checks})
}
