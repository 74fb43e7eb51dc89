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
)

// CompletedCourseIDs returns the set of course ids the user has finished.
// Enrollment without completion does not count.
func (db *DB) CompletedCourseIDs(ctx context.Context, userID string) (map[string]struct{}, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	query := `SELECT course_id FROM enrollments
		WHERE user_id = ? AND completed_at IS NOT NULL`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, userID)
	metrics.RecordDBQuery("completed_course_ids", "enrollments", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("query completed courses: %w", err)
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
		return nil, fmt.Errorf("iterate completed courses: %w", err)
	}

	return ids, nil
}

// RecordCompletion upserts an enrollment row and stamps it completed.
// Used by seeding and by ingestion jobs that mirror an external LMS.
func (db *DB) RecordCompletion(ctx context.Context, userID, courseID string, completedAt time.Time) error {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	query := `INSERT OR REPLACE INTO enrollments (user_id, course_id, enrolled_at, completed_at)
		VALUES (?, ?, ?, ?)`

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, query, userID, courseID, completedAt, completedAt)
	metrics.RecordDBQuery("record_completion", "enrollments", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("record completion: %w", err)
	}
	return nil
}
