package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const resultColumns = `id, submission_id, content_type, the_claim, the_problem, the_reality,
	        the_evidence, perspective, subject, body, key_points, citations,
	        strategy, tone_used, generated_at, sent_at, sent_to`

// ResultUpsertInput holds the generated sections persisted on success
type ResultUpsertInput struct {
	SubmissionID uuid.UUID
	ContentType  string
	TheClaim     string
	TheProblem   string
	TheReality   string
	TheEvidence  string
	Perspective  string
	Subject      string
	Body         string
	KeyPoints    []string
	Citations    []Citation
	Strategy     string
	ToneUsed     string
}

// UpsertResult creates or replaces the single generated result for a
// submission. A retry that succeeds overwrites the previous row rather than
// accumulating history.
func (db *DB) UpsertResult(ctx context.Context, input *ResultUpsertInput) (*GeneratedResult, error) {
	keyPoints := input.KeyPoints
	if keyPoints == nil {
		keyPoints = []string{}
	}
	citations := input.Citations
	if citations == nil {
		citations = []Citation{}
	}

	keyPointsJSON, err := json.Marshal(keyPoints)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal key points: %w", err)
	}
	citationsJSON, err := json.Marshal(citations)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal citations: %w", err)
	}

	var r GeneratedResult
	var keyPointsRaw, citationsRaw []byte
	err = db.pool.QueryRow(ctx,
		`INSERT INTO generated_results (submission_id, content_type, the_claim, the_problem,
		         the_reality, the_evidence, perspective, subject, body, key_points, citations,
		         strategy, tone_used)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 ON CONFLICT (submission_id) DO UPDATE SET
		         content_type = $2, the_claim = $3, the_problem = $4, the_reality = $5,
		         the_evidence = $6, perspective = $7, subject = $8, body = $9,
		         key_points = $10, citations = $11, strategy = $12, tone_used = $13,
		         generated_at = NOW(), sent_at = NULL, sent_to = NULL
		 RETURNING `+resultColumns,
		input.SubmissionID, input.ContentType, input.TheClaim, input.TheProblem,
		input.TheReality, input.TheEvidence, input.Perspective, input.Subject, input.Body,
		keyPointsJSON, citationsJSON, input.Strategy, input.ToneUsed,
	).Scan(&r.ID, &r.SubmissionID, &r.ContentType, &r.TheClaim, &r.TheProblem, &r.TheReality,
		&r.TheEvidence, &r.Perspective, &r.Subject, &r.Body, &keyPointsRaw, &citationsRaw,
		&r.Strategy, &r.ToneUsed, &r.GeneratedAt, &r.SentAt, &r.SentTo)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert result: %w", err)
	}

	unmarshalResultJSON(&r, keyPointsRaw, citationsRaw)
	return &r, nil
}

// GetResultBySubmission retrieves the generated result for a submission
func (db *DB) GetResultBySubmission(ctx context.Context, submissionID uuid.UUID) (*GeneratedResult, error) {
	return db.getResult(ctx, `SELECT `+resultColumns+` FROM generated_results WHERE submission_id = $1`, submissionID)
}

// GetResultByID retrieves a generated result by its own ID
func (db *DB) GetResultByID(ctx context.Context, id uuid.UUID) (*GeneratedResult, error) {
	return db.getResult(ctx, `SELECT `+resultColumns+` FROM generated_results WHERE id = $1`, id)
}

func (db *DB) getResult(ctx context.Context, query string, arg any) (*GeneratedResult, error) {
	var r GeneratedResult
	var keyPointsRaw, citationsRaw []byte

	err := db.pool.QueryRow(ctx, query, arg).Scan(
		&r.ID, &r.SubmissionID, &r.ContentType, &r.TheClaim, &r.TheProblem, &r.TheReality,
		&r.TheEvidence, &r.Perspective, &r.Subject, &r.Body, &keyPointsRaw, &citationsRaw,
		&r.Strategy, &r.ToneUsed, &r.GeneratedAt, &r.SentAt, &r.SentTo)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	unmarshalResultJSON(&r, keyPointsRaw, citationsRaw)
	return &r, nil
}

// MarkResultSent records the delivery timestamp and destination on a letter.
// Delivery state lives on the result, not the submission: a delivery failure
// never touches generation status.
func (db *DB) MarkResultSent(ctx context.Context, resultID uuid.UUID, destination string, sentAt time.Time) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE generated_results SET sent_at = $1, sent_to = $2 WHERE id = $3`,
		sentAt, destination, resultID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark result sent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("result not found: %s", resultID)
	}
	return nil
}

func unmarshalResultJSON(r *GeneratedResult, keyPointsRaw, citationsRaw []byte) {
	if len(keyPointsRaw) > 0 {
		_ = json.Unmarshal(keyPointsRaw, &r.KeyPoints)
	}
	if len(citationsRaw) > 0 {
		_ = json.Unmarshal(citationsRaw, &r.Citations)
	}
	if r.Citations == nil {
		r.Citations = []Citation{}
	}
}
