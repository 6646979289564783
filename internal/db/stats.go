package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Points awarded per event kind, consumed by the gamification collaborator.
const (
	PointsSubmitted = 5
	PointsReviewed  = 10
	PointsSent      = 25
)

// RecordSubmitted bumps a user's submission counter, creating the stats row
// on first use.
func (db *DB) RecordSubmitted(ctx context.Context, userID uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO user_stats (user_id, total_submitted, points, first_submission_at)
		 VALUES ($1, 1, $2, NOW())
		 ON CONFLICT (user_id) DO UPDATE SET
		         total_submitted = user_stats.total_submitted + 1,
		         points = user_stats.points + $2,
		         first_submission_at = COALESCE(user_stats.first_submission_at, NOW()),
		         updated_at = NOW()`,
		userID, PointsSubmitted,
	)
	if err != nil {
		return fmt.Errorf("failed to record submission for user %s: %w", userID, err)
	}
	return nil
}

// RecordReviewed bumps a user's reviewed counter and awards points
func (db *DB) RecordReviewed(ctx context.Context, userID uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO user_stats (user_id, total_reviewed, points)
		 VALUES ($1, 1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET
		         total_reviewed = user_stats.total_reviewed + 1,
		         points = user_stats.points + $2,
		         updated_at = NOW()`,
		userID, PointsReviewed,
	)
	if err != nil {
		return fmt.Errorf("failed to record review for user %s: %w", userID, err)
	}
	return nil
}

// RecordSent bumps a user's sent counter and awards points
func (db *DB) RecordSent(ctx context.Context, userID uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO user_stats (user_id, total_sent, points)
		 VALUES ($1, 1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET
		         total_sent = user_stats.total_sent + 1,
		         points = user_stats.points + $2,
		         updated_at = NOW()`,
		userID, PointsSent,
	)
	if err != nil {
		return fmt.Errorf("failed to record sent letter for user %s: %w", userID, err)
	}
	return nil
}

// GetUserStats retrieves the activism counters for a user
func (db *DB) GetUserStats(ctx context.Context, userID uuid.UUID) (*UserStats, error) {
	var st UserStats
	err := db.pool.QueryRow(ctx,
		`SELECT user_id, total_submitted, total_reviewed, total_sent, points,
		        first_submission_at, updated_at
		 FROM user_stats WHERE user_id = $1`,
		userID,
	).Scan(&st.UserID, &st.TotalSubmitted, &st.TotalReviewed, &st.TotalSent, &st.Points,
		&st.FirstSubmissionAt, &st.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}
	return &st, nil
}
