// CoursePilot - Course Recommendation and Relevance Scoring
// Copyright 2026 CoursePilot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursepilot/coursepilot

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/coursepilot/coursepilot/internal/config"
	"github.com/coursepilot/coursepilot/internal/models"
)

// writeRateRequests bounds per-IP writes to a tighter budget than reads.
const (
	writeRateRequests = 30
	writeRateWindow   = time.Minute
)

// NewRouter builds the full HTTP routing tree.
func NewRouter(h *Handler, cfg *config.APIConfig) http.Handler {
	m := NewMiddleware(cfg)

	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(SecurityHeaders)
	r.Use(m.CORS())
	r.Use(Instrument)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(m.RateLimit())

			r.Route("/recommendations", func(r chi.Router) {
				r.Get("/personalized/{userID}", h.Personalized)
				r.Get("/history/{userID}", h.ViewHistory)
				r.Get("/completed/{userID}", h.Completed)
				r.Get("/interests/{userID}", h.Interests)
				r.Get("/similar/{courseID}", h.Similar)
				r.Get("/popular", h.Popular)
				r.Get("/new", h.New)
			})

			r.Get("/interests/{userID}", h.GetInterests)
		})

		r.Group(func(r chi.Router) {
			r.Use(m.RateLimitCustom(writeRateRequests, writeRateWindow))

			r.Post("/views", h.TrackView)
			r.Put("/interests/{userID}", h.UpdateInterests)
		})
	})

	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		NewResponseWriter(w, req).NotFound("Resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		NewResponseWriter(w, req).Error(http.StatusMethodNotAllowed, models.ErrCodeMethodNotAllow, "Method not allowed")
	})

	return r
}
