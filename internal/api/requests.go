// CoursePilot - Course Recommendation and Relevance Scoring
// Copyright 2026 CoursePilot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursepilot/coursepilot

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
)

// maxRequestBodyBytes bounds JSON request bodies.
const maxRequestBodyBytes = 64 << 10 // 64 KiB

// TrackViewRequest is the body of POST /api/v1/views.
type TrackViewRequest struct {
	UserID         string `json:"user_id" validate:"required,max=128"`
	CourseID       string `json:"course_id" validate:"required,max=128"`
	IPAddress      string `json:"ip_address" validate:"omitempty,ip"`
	ReferralSource string `json:"referral_source" validate:"omitempty,max=256"`
	Device         string `json:"device" validate:"omitempty,max=64"`
}

// UpdateInterestsRequest is the body of PUT /api/v1/interests/{userID}.
// An empty token list clears the user's interest set.
type UpdateInterestsRequest struct {
	Tokens []string `json:"tokens" validate:"max=100,dive,max=128"`
}

// decodeJSON decodes a bounded request body into dst. Unknown fields are
// rejected so client typos surface as errors instead of silent drops.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("request body exceeds %d bytes", maxErr.Limit)
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// queryInt parses an integer query parameter, applying a default when the
// parameter is absent and clamping the value into [min, max]. Malformed
// values fall back to the default rather than failing the request.
func queryInt(r *http.Request, name string, def, min, max int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// queryBool reports whether a query parameter is set to a truthy value.
func queryBool(r *http.Request, name string) bool {
	switch r.URL.Query().Get(name) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
