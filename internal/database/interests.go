// CoursePilot - Course Recommendation and Relevance Scoring
// Copyright 2026 CoursePilot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursepilot/coursepilot

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/coursepilot/coursepilot/internal/logging"
	"github.com/coursepilot/coursepilot/internal/metrics"
)

// isTxDone reports whether err is the expected rollback-after-commit error.
func isTxDone(err error) bool {
	return errors.Is(err, sql.ErrTxDone)
}

// ReplaceInterests atomically replaces the user's interest set in one
// transaction: delete everything, then insert the new tokens. The
// transaction serializes concurrent replaces for the same user; there is
// no partial state a reader can observe. An empty token slice is valid
// and leaves the user with an empty set.
func (db *DB) ReplaceInterests(ctx context.Context, userID string, tokens []string) error {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	start := time.Now()
	err := db.replaceInterestsTx(ctx, userID, tokens)
	metrics.RecordDBQuery("replace_interests", "user_interests", time.Since(start), err)
	return err
}

func (db *DB) replaceInterestsTx(ctx context.Context, userID string, tokens []string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin interests tx: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !isTxDone(rbErr) {
			logging.Warn().Err(rbErr).Str("user_id", userID).Msg("Interest transaction rollback failed")
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM user_interests WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("delete interests: %w", err)
	}

	for i, token := range tokens {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO user_interests (user_id, token, position) VALUES (?, ?, ?)`,
			userID, token, i); err != nil {
			return fmt.Errorf("insert interest %q: %w", token, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit interests tx: %w", err)
	}
	return nil
}

// Interests returns the user's interest tokens in submission order. A
// user with no stored interests gets an empty, non-nil slice.
func (db *DB) Interests(ctx context.Context, userID string) ([]string, error) {
	ctx, cancel := queryContext(ctx)
	defer cancel()

	query := `SELECT token FROM user_interests WHERE user_id = ? ORDER BY position`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, userID)
	metrics.RecordDBQuery("interests", "user_interests", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("query interests: %w", err)
	}
	defer closeQuietly(rows)

	tokens := []string{}
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, fmt.Errorf("scan interest: %w", err)
		}
		tokens = append(tokens, token)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interests: %w", err)
	}

	return tokens, nil
}
