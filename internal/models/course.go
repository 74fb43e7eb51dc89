// CoursePilot - Course Recommendation and Relevance Scoring
// Copyright 2026 CoursePilot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursepilot/coursepilot

// Package models defines data structures used throughout CoursePilot:
// catalog courses, view events, interest sets, recommendation results,
// and API response wrappers.
package models

import (
	"time"
)

// Course represents a catalog item as seen by the recommendation engine.
//
// The catalog store owns these records; the engine reads immutable
// per-query snapshots and never mutates them. Tags are stored normalized
// (lower-cased, trimmed) at ingest time.
type Course struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	ImageURL        string    `json:"image_url,omitempty"`
	AuthorID        string    `json:"author_id"`
	AuthorName      string    `json:"author_name"`
	Rating          float64   `json:"rating"`       // 0..5
	ReviewCount     int       `json:"review_count"` // >= 0
	DifficultyLevel string    `json:"difficulty_level"`
	DurationMinutes int       `json:"duration_minutes"`
	Category        string    `json:"category"`
	Tags            []string  `json:"tags"`
	CreatedAt       time.Time `json:"created_at"`
	IsPublished     bool      `json:"is_published"`
	IsDeleted       bool      `json:"is_deleted"`
}

// TagSet returns the course tags as a set for overlap checks.
func (c *Course) TagSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.Tags))
	for _, t := range c.Tags {
		set[t] = struct{}{}
	}
	return set
}
