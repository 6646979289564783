package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/mediawatch/internal/incident"
)

const submissionColumns = `id, owner_id, content_type, outlet_id, incident_date, programme,
	        presenter, claim_text, context, severity, tone, status, failure_reason,
	        incident_key, created_at, updated_at`

// SubmissionCreateInput holds the validated intake fields for a new submission
type SubmissionCreateInput struct {
	OwnerID      uuid.UUID
	ContentType  string
	OutletID     *uuid.UUID
	IncidentDate time.Time
	Programme    string
	Presenter    string
	ClaimText    string
	Context      string
	Severity     int
	Tone         string
}

// CreateSubmission inserts a new submission in status pending. The incident
// key is computed here from the normalized identifying fields so it is always
// consistent with the stored row.
func (db *DB) CreateSubmission(ctx context.Context, input *SubmissionCreateInput) (*Submission, error) {
	outletID := uuid.Nil
	if input.OutletID != nil {
		outletID = *input.OutletID
	}
	key := incident.ComputeKey(outletID, input.IncidentDate, input.Programme, input.Presenter)

	var s Submission
	err := db.pool.QueryRow(ctx,
		`INSERT INTO submissions (owner_id, content_type, outlet_id, incident_date, programme,
		         presenter, claim_text, context, severity, tone, status, incident_key)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, '`+StatusPending+`', $11)
		 RETURNING `+submissionColumns,
		input.OwnerID, input.ContentType, input.OutletID, input.IncidentDate, input.Programme,
		input.Presenter, input.ClaimText, input.Context, input.Severity, input.Tone, string(key),
	).Scan(scanSubmission(&s)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}
	return &s, nil
}

// GetSubmission retrieves a submission by ID
func (db *DB) GetSubmission(ctx context.Context, id uuid.UUID) (*Submission, error) {
	var s Submission
	err := db.pool.QueryRow(ctx,
		`SELECT `+submissionColumns+` FROM submissions WHERE id = $1`, id,
	).Scan(scanSubmission(&s)...)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return &s, nil
}

// ListSubmissionsOptions holds optional filters for listing submissions
type ListSubmissionsOptions struct {
	OwnerID     *uuid.UUID
	Status      string
	ContentType string
	Limit       int
	Offset      int
}

// ListSubmissions retrieves submissions newest first with optional filters
func (db *DB) ListSubmissions(ctx context.Context, opts ListSubmissionsOptions) ([]Submission, error) {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}

	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE 1=1`
	args := []any{}
	argNum := 1

	if opts.OwnerID != nil {
		query += fmt.Sprintf(" AND owner_id = $%d", argNum)
		args = append(args, *opts.OwnerID)
		argNum++
	}
	if opts.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, opts.Status)
		argNum++
	}
	if opts.ContentType != "" {
		query += fmt.Sprintf(" AND content_type = $%d", argNum)
		args = append(args, opts.ContentType)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, opts.Limit, opts.Offset)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	var subs []Submission
	for rows.Next() {
		var s Submission
		if err := rows.Scan(scanSubmission(&s)...); err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		subs = append(subs, s)
	}
	return subs, nil
}

// CountPriorForIncident counts submissions sharing an incident key created
// strictly before the given submission. Creation order, not completion order:
// concurrently processing duplicates still get distinct strategy slots. Ties
// on created_at break by id so the ordering is total.
func (db *DB) CountPriorForIncident(ctx context.Context, key incident.Key, createdAt time.Time, id uuid.UUID) (int, error) {
	var count int
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM submissions
		 WHERE incident_key = $1 AND (created_at, id) < ($2, $3)`,
		string(key), createdAt, id,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count prior submissions: %w", err)
	}
	return count, nil
}

// TransitionStatus atomically moves a submission from one status to another.
// Returns false without error when the submission was not in the expected
// prior status: two workers racing for the same job see exactly one winner.
func (db *DB) TransitionStatus(ctx context.Context, id uuid.UUID, from, to string) (bool, error) {
	if !ValidTransition(from, to) {
		return false, fmt.Errorf("invalid status transition %s -> %s", from, to)
	}

	tag, err := db.pool.Exec(ctx,
		`UPDATE submissions SET status = $1, updated_at = NOW()
		 WHERE id = $2 AND status = $3`,
		to, id, from,
	)
	if err != nil {
		return false, fmt.Errorf("failed to transition submission %s: %w", id, err)
	}
	return tag.RowsAffected() == 1, nil
}

// MarkFailed atomically moves a processing submission to failed and records
// the reason shown to the user.
func (db *DB) MarkFailed(ctx context.Context, id uuid.UUID, reason string) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`UPDATE submissions SET status = $1, failure_reason = $2, updated_at = NOW()
		 WHERE id = $3 AND status = $4`,
		StatusFailed, reason, id, StatusProcessing,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark submission %s failed: %w", id, err)
	}
	return tag.RowsAffected() == 1, nil
}

// Regenerate moves a failed submission back to pending, clearing the failure
// reason. This is the only permitted rollback in the state machine and only
// fires from an explicit user action.
func (db *DB) Regenerate(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`UPDATE submissions SET status = $1, failure_reason = NULL, updated_at = NOW()
		 WHERE id = $2 AND status = $3`,
		StatusPending, id, StatusFailed,
	)
	if err != nil {
		return false, fmt.Errorf("failed to regenerate submission %s: %w", id, err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListStuck retrieves submissions sitting in pending or processing for longer
// than the cutoff, oldest first. Used by the process-stuck command to recover
// jobs orphaned by a worker crash.
func (db *DB) ListStuck(ctx context.Context, olderThan time.Duration, limit int) ([]Submission, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := db.pool.Query(ctx,
		`SELECT `+submissionColumns+` FROM submissions
		 WHERE status IN ($1, $2) AND updated_at < NOW() - $3::interval
		 ORDER BY created_at ASC LIMIT $4`,
		StatusPending, StatusProcessing, fmt.Sprintf("%d seconds", int(olderThan.Seconds())), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list stuck submissions: %w", err)
	}
	defer rows.Close()

	var subs []Submission
	for rows.Next() {
		var s Submission
		if err := rows.Scan(scanSubmission(&s)...); err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		subs = append(subs, s)
	}
	return subs, nil
}

// ResetStuckProcessing forces a stuck processing submission back to pending
// so the runner can pick it up again. Reserved for the recovery command, not
// part of the normal state machine.
func (db *DB) ResetStuckProcessing(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`UPDATE submissions SET status = $1, updated_at = NOW()
		 WHERE id = $2 AND status = $3`,
		StatusPending, id, StatusProcessing,
	)
	if err != nil {
		return false, fmt.Errorf("failed to reset submission %s: %w", id, err)
	}
	return tag.RowsAffected() == 1, nil
}

// scanSubmission returns scan destinations matching submissionColumns order
func scanSubmission(s *Submission) []any {
	return []any{
		&s.ID, &s.OwnerID, &s.ContentType, &s.OutletID, &s.IncidentDate, &s.Programme,
		&s.Presenter, &s.ClaimText, &s.Context, &s.Severity, &s.Tone, &s.Status,
		&s.FailureReason, &s.IncidentKey, &s.CreatedAt, &s.UpdatedAt,
	}
}
