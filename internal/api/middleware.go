// CoursePilot - Course Recommendation and Relevance Scoring
// Copyright 2026 CoursePilot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursepilot/coursepilot

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/coursepilot/coursepilot/internal/config"
	"github.com/coursepilot/coursepilot/internal/logging"
	"github.com/coursepilot/coursepilot/internal/metrics"
)

// Middleware bundles the chi middleware stack configured from APIConfig.
type Middleware struct {
	cfg *config.APIConfig
}

// NewMiddleware creates the middleware factory.
func NewMiddleware(cfg *config.APIConfig) *Middleware {
	return &Middleware{cfg: cfg}
}

// CORS returns CORS middleware built from the configured origins.
func (m *Middleware) CORS() func(http.Handler) http.Handler {
	origins := m.cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}

// RateLimit returns IP-based rate limiting for read endpoints. Returns a
// pass-through when rate limiting is disabled.
func (m *Middleware) RateLimit() func(http.Handler) http.Handler {
	if m.cfg.RateLimitDisabled {
		return passthrough
	}

	return httprate.Limit(
		m.cfg.RateLimitReqs,
		m.cfg.RateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(rateLimitExceeded),
	)
}

// RateLimitCustom returns IP-based rate limiting with explicit settings,
// used for write endpoints with tighter budgets.
func (m *Middleware) RateLimitCustom(requests int, window time.Duration) func(http.Handler) http.Handler {
	if m.cfg.RateLimitDisabled {
		return passthrough
	}

	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(rateLimitExceeded),
	)
}

func passthrough(next http.Handler) http.Handler {
	return next
}

func rateLimitExceeded(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).TooManyRequests("Rate limit exceeded, slow down")
}

// RequestID assigns a request ID to each request, propagates it through
// the logging context, and echoes it in the X-Request-ID header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = logging.GenerateRequestID()
		}

		ctx := logging.ContextWithRequestID(r.Context(), id)
		w.Header().Set("X-Request-ID", id)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SecurityHeaders sets conservative response headers for the JSON API.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		if r.TLS != nil {
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		next.ServeHTTP(w, r)
	})
}

// Instrument records request metrics: per-endpoint counts and latency
// histograms plus the in-flight gauge.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		metrics.TrackActiveRequest(true)
		defer metrics.TrackActiveRequest(false)

		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		// RoutePattern collapses path params so metric cardinality
		// stays bounded.
		endpoint := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				endpoint = pattern
			}
		}
		metrics.RecordAPIRequest(r.Method, endpoint, httpStatusLabel(ww.Status()), time.Since(start))
	})
}

func httpStatusLabel(code int) string {
	if code == 0 {
		code = http.StatusOK
	}
	return strconv.Itoa(code)
}
