// CoursePilot - Course Recommendation and Relevance Scoring
// Copyright 2026 CoursePilot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursepilot/coursepilot

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/coursepilot/coursepilot/internal/metrics"
	"github.com/coursepilot/coursepilot/internal/models"
)

// RecordView appends one view event. The log is append-only and
// duplicates are allowed; a failure here propagates to the caller.
func (db *DB) RecordView(ctx context.Context, event models.ViewEvent) error {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	query := `INSERT INTO course_views
		(id, user_id, course_id, viewed_at, ip_address, referral_source, device)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, query,
		event.ID, event.UserID, event.CourseID, event.ViewedAt,
		event.IPAddress, event.ReferralSource, event.Device)
	metrics.RecordDBQuery("record_view", "course_views", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("insert view event: %w", err)
	}
	return nil
}

// RecentViews returns up to limit view events for the user, most recent
// first. Equal timestamps order by insertion sequence, so the
// last-recorded view always ranks newest.
func (db *DB) RecentViews(ctx context.Context, userID string, limit int) ([]models.ViewEvent, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	query := `SELECT id, user_id, course_id, viewed_at, ip_address, referral_source, device
		FROM course_views
		WHERE user_id = ?
		ORDER BY viewed_at DESC, seq DESC
		LIMIT ?`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, userID, limit)
	metrics.RecordDBQuery("recent_views", "course_views", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("query recent views: %w", err)
	}
	defer closeQuietly(rows)

	var events []models.ViewEvent
	for rows.Next() {
		var event models.ViewEvent
		if err := rows.Scan(&event.ID, &event.UserID, &event.CourseID, &event.ViewedAt,
			&event.IPAddress, &event.ReferralSource, &event.Device); err != nil {
			return nil, fmt.Errorf("scan view event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate view events: %w", err)
	}

	return events, nil
}

// ViewedCourseIDs returns the distinct set of course ids the user has
// ever viewed. Used as an exclusion set, not a history.
func (db *DB) ViewedCourseIDs(ctx context.Context, userID string) (map[string]struct{}, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	query := `SELECT DISTINCT course_id FROM course_views WHERE user_id = ?`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, userID)
	metrics.RecordDBQuery("viewed_course_ids", "course_views", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("query viewed course ids: %w", err)
	}
	defer closeQuietly(rows)

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan course id: %w", err)
		}
		ids[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate course ids: %w", err)
	}

	return ids, nil
}

// CountViewsSince returns view counts per course for events at or after
// the cutoff.
func (db *DB) CountViewsSince(ctx context.Context, since time.Time) (map[string]int, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	query := `SELECT course_id, COUNT(*) FROM course_views
		WHERE viewed_at >= ?
		GROUP BY course_id`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, since)
	metrics.RecordDBQuery("count_views_since", "course_views", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("query view counts: %w", err)
	}
	defer closeQuietly(rows)

	counts := make(map[string]int)
	for rows.Next() {
		var (
			id    string
			count int
		)
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("scan view count: %w", err)
		}
		counts[id] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate view counts: %w", err)
	}

	return counts, nil
}
