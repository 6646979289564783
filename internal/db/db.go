// Package db provides PostgreSQL storage for submissions, generated results,
// media outlets, and user activism stats. The store is the single source of
// truth for submission status: every transition goes through SQL
// compare-and-set, never through in-memory state.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Ping verifies the database is reachable
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// Migrate creates the schema if it does not exist. Statements are idempotent
// so the command can run on every deploy.
func (db *DB) Migrate(ctx context.Context) error {
	for _, stmt := range migrations {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS media_outlets (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name TEXT NOT NULL UNIQUE,
		media_type TEXT NOT NULL,
		contact_email TEXT NOT NULL DEFAULT '',
		complaints_email TEXT NOT NULL DEFAULT '',
		website TEXT NOT NULL DEFAULT '',
		regulator TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS submissions (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		owner_id UUID NOT NULL,
		content_type TEXT NOT NULL,
		outlet_id UUID REFERENCES media_outlets(id),
		incident_date DATE NOT NULL,
		programme TEXT NOT NULL DEFAULT '',
		presenter TEXT NOT NULL DEFAULT '',
		claim_text TEXT NOT NULL,
		context TEXT NOT NULL DEFAULT '',
		severity INT NOT NULL DEFAULT 3,
		tone TEXT NOT NULL DEFAULT 'professional',
		status TEXT NOT NULL DEFAULT 'pending',
		failure_reason TEXT,
		incident_key CHAR(64) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_submissions_incident_key ON submissions (incident_key, created_at, id)`,
	`CREATE INDEX IF NOT EXISTS idx_submissions_status ON submissions (status)`,
	`CREATE INDEX IF NOT EXISTS idx_submissions_owner ON submissions (owner_id)`,
	`CREATE TABLE IF NOT EXISTS generated_results (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		submission_id UUID NOT NULL UNIQUE REFERENCES submissions(id) ON DELETE CASCADE,
		content_type TEXT NOT NULL,
		the_claim TEXT NOT NULL DEFAULT '',
		the_problem TEXT NOT NULL DEFAULT '',
		the_reality TEXT NOT NULL DEFAULT '',
		the_evidence TEXT NOT NULL DEFAULT '',
		perspective TEXT NOT NULL DEFAULT '',
		subject TEXT NOT NULL DEFAULT '',
		body TEXT NOT NULL DEFAULT '',
		key_points JSONB NOT NULL DEFAULT '[]',
		citations JSONB NOT NULL DEFAULT '[]',
		strategy TEXT NOT NULL,
		tone_used TEXT NOT NULL,
		generated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		sent_at TIMESTAMPTZ,
		sent_to TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS user_stats (
		user_id UUID PRIMARY KEY,
		total_submitted INT NOT NULL DEFAULT 0,
		total_reviewed INT NOT NULL DEFAULT 0,
		total_sent INT NOT NULL DEFAULT 0,
		points INT NOT NULL DEFAULT 0,
		first_submission_at TIMESTAMPTZ,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}
