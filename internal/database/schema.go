// CoursePilot - Course Recommendation and Relevance Scoring
// Copyright 2026 CoursePilot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursepilot/coursepilot

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core tables. All statements are idempotent.
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	queries := []string{
		// Course catalog. Tags are stored comma-separated and split in Go;
		// SQL-side tag matching uses string_split.
		`CREATE TABLE IF NOT EXISTS courses (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			image_url TEXT NOT NULL DEFAULT '',
			author_id TEXT NOT NULL DEFAULT '',
			author_name TEXT NOT NULL DEFAULT '',
			rating DOUBLE NOT NULL DEFAULT 0,
			review_count INTEGER NOT NULL DEFAULT 0,
			difficulty_level TEXT NOT NULL DEFAULT '',
			duration_minutes INTEGER NOT NULL DEFAULT 0,
			category TEXT NOT NULL DEFAULT '',
			tags TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			is_published BOOLEAN NOT NULL DEFAULT false,
			is_deleted BOOLEAN NOT NULL DEFAULT false
		)`,

		// Insertion order for the view log. viewed_at has microsecond
		// resolution, so recency queries break timestamp ties on seq.
		`CREATE SEQUENCE IF NOT EXISTS course_views_seq`,

		// Append-only view log. Duplicates are allowed.
		`CREATE TABLE IF NOT EXISTS course_views (
			id UUID PRIMARY KEY,
			seq BIGINT NOT NULL DEFAULT nextval('course_views_seq'),
			user_id TEXT NOT NULL,
			course_id TEXT NOT NULL,
			viewed_at TIMESTAMP NOT NULL,
			ip_address TEXT NOT NULL DEFAULT '',
			referral_source TEXT NOT NULL DEFAULT '',
			device TEXT NOT NULL DEFAULT ''
		)`,

		// One row per interest token. Position preserves submission order.
		`CREATE TABLE IF NOT EXISTS user_interests (
			user_id TEXT NOT NULL,
			token TEXT NOT NULL,
			position INTEGER NOT NULL,
			PRIMARY KEY (user_id, token)
		)`,

		// Enrollment progress. A non-null completed_at marks completion.
		`CREATE TABLE IF NOT EXISTS enrollments (
			user_id TEXT NOT NULL,
			course_id TEXT NOT NULL,
			enrolled_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			completed_at TIMESTAMP,
			PRIMARY KEY (user_id, course_id)
		)`,
	}

	for _, query := range queries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}

	return nil
}

// createIndexes creates indexes for the hot query paths: recent views per
// user, view counting by period, and catalog scans by rating and recency.
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	queries := []string{
		`CREATE INDEX IF NOT EXISTS idx_views_user_time ON course_views (user_id, viewed_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_views_time ON course_views (viewed_at)`,
		`CREATE INDEX IF NOT EXISTS idx_courses_rating ON courses (is_published, is_deleted, rating DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_courses_created ON courses (created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_enrollments_user ON enrollments (user_id)`,
	}

	for _, query := range queries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create index: %s: %w", query, err)
		}
	}

	return nil
}
