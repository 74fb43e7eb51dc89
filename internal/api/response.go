// CoursePilot - Course Recommendation and Relevance Scoring
// Copyright 2026 CoursePilot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursepilot/coursepilot

// Package api provides the HTTP surface: chi routing, request parsing and
// validation, and the standardized JSON response envelope.
package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/coursepilot/coursepilot/internal/logging"
	"github.com/coursepilot/coursepilot/internal/models"
	"github.com/coursepilot/coursepilot/internal/validation"
)

// Envelope status values.
const (
	statusSuccess = "success"
	statusError   = "error"
)

// ResponseWriter writes standardized API responses. One instance per
// request; it tracks the start time for the query_time_ms metadata.
type ResponseWriter struct {
	w         http.ResponseWriter
	r         *http.Request
	startTime time.Time
	cached    bool
}

// NewResponseWriter creates a response writer for one request.
func NewResponseWriter(w http.ResponseWriter, r *http.Request) *ResponseWriter {
	return &ResponseWriter{
		w:         w,
		r:         r,
		startTime: time.Now(),
	}
}

// MarkCached flags the response as served from cache.
func (rw *ResponseWriter) MarkCached() {
	rw.cached = true
}

func (rw *ResponseWriter) metadata() models.Metadata {
	return models.Metadata{
		Timestamp:   time.Now().UTC(),
		QueryTimeMS: time.Since(rw.startTime).Milliseconds(),
		Cached:      rw.cached,
		RequestID:   logging.RequestIDFromContext(rw.r.Context()),
	}
}

// Success writes a 200 response with data.
func (rw *ResponseWriter) Success(data interface{}) {
	rw.writeJSON(http.StatusOK, models.APIResponse{
		Status:   statusSuccess,
		Data:     data,
		Metadata: rw.metadata(),
	})
}

// Created writes a 201 response with data.
func (rw *ResponseWriter) Created(data interface{}) {
	rw.writeJSON(http.StatusCreated, models.APIResponse{
		Status:   statusSuccess,
		Data:     data,
		Metadata: rw.metadata(),
	})
}

// Error writes an error response with the given status and code.
func (rw *ResponseWriter) Error(statusCode int, code, message string) {
	rw.ErrorWithDetails(statusCode, code, message, nil)
}

// ErrorWithDetails writes an error response with structured details.
func (rw *ResponseWriter) ErrorWithDetails(statusCode int, code, message string, details map[string]interface{}) {
	rw.writeJSON(statusCode, models.APIResponse{
		Status: statusError,
		Error: &models.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
		Metadata: rw.metadata(),
	})
}

// BadRequest writes a 400 error.
func (rw *ResponseWriter) BadRequest(message string) {
	rw.Error(http.StatusBadRequest, models.ErrCodeBadRequest, message)
}

// NotFound writes a 404 error.
func (rw *ResponseWriter) NotFound(message string) {
	rw.Error(http.StatusNotFound, models.ErrCodeNotFound, message)
}

// TooManyRequests writes a 429 error.
func (rw *ResponseWriter) TooManyRequests(message string) {
	rw.Error(http.StatusTooManyRequests, models.ErrCodeRateLimited, message)
}

// InternalError writes a 500 error.
func (rw *ResponseWriter) InternalError(message string) {
	rw.Error(http.StatusInternalServerError, models.ErrCodeInternal, message)
}

// ServiceUnavailable writes a 503 error.
func (rw *ResponseWriter) ServiceUnavailable(message string) {
	rw.Error(http.StatusServiceUnavailable, models.ErrCodeUnavailable, message)
}

// ValidationError writes a 400 error from collected field failures.
func (rw *ResponseWriter) ValidationError(ve *validation.RequestValidationError) {
	apiErr := ve.ToAPIError()
	rw.ErrorWithDetails(http.StatusBadRequest, models.ErrCodeValidation, apiErr.Message, apiErr.Details)
}

// writeJSON writes the response body with proper headers.
func (rw *ResponseWriter) writeJSON(statusCode int, data interface{}) {
	rw.w.Header().Set("Content-Type", "application/json; charset=utf-8")
	rw.w.WriteHeader(statusCode)

	if err := json.NewEncoder(rw.w).Encode(data); err != nil {
		logging.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
