// Package runner executes one submission through the generation state
// machine: claim it, generate with bounded retries, persist the result, and
// settle the final status. Every path out of processing ends in exactly one
// of reviewed or failed.
package runner

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/mediawatch/internal/db"
	"github.com/jonathan/mediawatch/internal/generation"
	"github.com/jonathan/mediawatch/internal/incident"
	"github.com/jonathan/mediawatch/internal/notify"
)

// Retry budgets per error class. Counts are total attempts including the
// first call.
const (
	transientAttempts = 4
	schemaAttempts    = 2
)

// Store is the persistence surface the runner needs. *db.DB satisfies it.
type Store interface {
	GetSubmission(ctx context.Context, id uuid.UUID) (*db.Submission, error)
	GetOutlet(ctx context.Context, id uuid.UUID) (*db.Outlet, error)
	CountPriorForIncident(ctx context.Context, key incident.Key, createdAt time.Time, id uuid.UUID) (int, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to string) (bool, error)
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) (bool, error)
	UpsertResult(ctx context.Context, input *db.ResultUpsertInput) (*db.GeneratedResult, error)
}

// Generator produces a validated document for a request. *generation.Adapter
// satisfies it.
type Generator interface {
	Generate(ctx context.Context, req *generation.Request) (*generation.Document, error)
}

// DuplicateDispatchError reports that a submission was already claimed by
// another worker or already completed. It is benign: the caller drops the
// task and moves on.
type DuplicateDispatchError struct {
	SubmissionID uuid.UUID
	Status       string
}

func (e *DuplicateDispatchError) Error() string {
	return fmt.Sprintf("submission %s already dispatched (status %s)", e.SubmissionID, e.Status)
}

// Runner drives submissions through generation.
type Runner struct {
	store     Store
	generator Generator
	notifier  notify.Notifier
	logger    *zap.Logger

	// initialBackoff is the base delay before the first transient retry.
	initialBackoff time.Duration
}

// New creates a runner.
func New(store Store, generator Generator, notifier notify.Notifier, logger *zap.Logger) *Runner {
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		store:          store,
		generator:      generator,
		notifier:       notifier,
		logger:         logger,
		initialBackoff: 2 * time.Second,
	}
}

// Process runs one submission to a terminal status. It returns
// *DuplicateDispatchError when the submission was not claimable, and a real
// error only for infrastructure failures that left the submission pending.
func (r *Runner) Process(ctx context.Context, submissionID uuid.UUID) error {
	sub, err := r.store.GetSubmission(ctx, submissionID)
	if err != nil {
		return fmt.Errorf("failed to load submission: %w", err)
	}
	if sub == nil {
		// The submission was deleted between enqueue and dequeue.
		r.logger.Warn("dropping task for unknown submission",
			zap.String("submission_id", submissionID.String()))
		return nil
	}

	claimed, err := r.store.TransitionStatus(ctx, sub.ID, db.StatusPending, db.StatusProcessing)
	if err != nil {
		return fmt.Errorf("failed to claim submission: %w", err)
	}
	if !claimed {
		return &DuplicateDispatchError{SubmissionID: sub.ID, Status: sub.Status}
	}

	req, err := r.buildRequest(ctx, sub)
	if err != nil {
		r.fail(ctx, sub.ID, err.Error())
		return nil
	}

	doc, genErr := r.generateWithRetries(ctx, req)
	if genErr != nil {
		r.fail(ctx, sub.ID, failureReason(genErr))
		return nil
	}

	if err := r.persistSuccess(ctx, sub, req, doc); err != nil {
		r.fail(ctx, sub.ID, "failed to store generated result")
		return fmt.Errorf("failed to store result for %s: %w", sub.ID, err)
	}

	r.notifier.SubmissionReviewed(ctx, sub.OwnerID)
	r.logger.Info("submission reviewed",
		zap.String("submission_id", sub.ID.String()),
		zap.String("strategy", string(req.Strategy)))
	return nil
}

// buildRequest resolves everything generation needs from persisted state.
// The strategy is a pure function of how many submissions share the incident
// key and were created before this one, so reprocessing is deterministic.
func (r *Runner) buildRequest(ctx context.Context, sub *db.Submission) (*generation.Request, error) {
	req := &generation.Request{
		Submission: sub,
		Tone:       incident.Tone(sub.Tone),
	}

	priorCount, err := r.store.CountPriorForIncident(ctx, sub.IncidentKey, sub.CreatedAt, sub.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count prior incident submissions: %w", err)
	}
	req.Strategy = incident.SelectStrategy(priorCount)
	req.ComplaintNumber = priorCount + 1

	if sub.ContentType == db.ContentTypeComplaint {
		if sub.OutletID == nil {
			return nil, fmt.Errorf("complaint submission has no outlet")
		}
		outlet, err := r.store.GetOutlet(ctx, *sub.OutletID)
		if err != nil {
			return nil, fmt.Errorf("failed to load outlet: %w", err)
		}
		if outlet == nil {
			return nil, fmt.Errorf("outlet %s not found", *sub.OutletID)
		}
		req.Outlet = outlet
	}

	return req, nil
}

// generateWithRetries applies the per-class retry budget. Transient failures
// back off exponentially with jitter; schema failures get one immediate
// retry with the identical request; auth failures never retry.
func (r *Runner) generateWithRetries(ctx context.Context, req *generation.Request) (*generation.Document, error) {
	transientUsed := 0
	schemaUsed := 0

	for {
		doc, err := r.generator.Generate(ctx, req)
		if err == nil {
			return doc, nil
		}
		if ctx.Err() != nil {
			return nil, err
		}

		var transient *generation.TransientError
		var schemaErr *generation.SchemaError
		switch {
		case errors.As(err, &transient):
			transientUsed++
			if transientUsed >= transientAttempts {
				return nil, err
			}
			delay := r.backoff(transientUsed - 1)
			r.logger.Warn("transient generation failure, backing off",
				zap.String("submission_id", req.Submission.ID.String()),
				zap.Int("attempt", transientUsed),
				zap.Duration("delay", delay),
				zap.Error(err))
			if !sleep(ctx, delay) {
				return nil, err
			}

		case errors.As(err, &schemaErr):
			schemaUsed++
			if schemaUsed >= schemaAttempts {
				return nil, err
			}
			r.logger.Warn("schema violation, retrying once",
				zap.String("submission_id", req.Submission.ID.String()),
				zap.Error(err))

		default:
			// AuthError and anything unclassified fail immediately.
			return nil, err
		}
	}
}

func (r *Runner) persistSuccess(ctx context.Context, sub *db.Submission, req *generation.Request, doc *generation.Document) error {
	toneUsed := req.Tone
	if !toneUsed.Valid() {
		toneUsed = incident.ToneProfessional
	}

	_, err := r.store.UpsertResult(ctx, &db.ResultUpsertInput{
		SubmissionID: sub.ID,
		ContentType:  sub.ContentType,
		TheClaim:     doc.TheClaim,
		TheProblem:   doc.TheProblem,
		TheReality:   doc.TheReality,
		TheEvidence:  doc.TheEvidence,
		Perspective:  doc.Perspective,
		Subject:      doc.Subject,
		Body:         doc.Body,
		KeyPoints:    doc.KeyPoints,
		Citations:    doc.Citations,
		Strategy:     string(req.Strategy),
		ToneUsed:     string(toneUsed),
	})
	if err != nil {
		return err
	}

	ok, err := r.store.TransitionStatus(ctx, sub.ID, db.StatusProcessing, db.StatusReviewed)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("submission %s left processing while a result was being stored", sub.ID)
	}
	return nil
}

// fail settles the submission as failed with a reason. Failing to fail is
// only logged: the process-stuck sweep will recover the row later.
func (r *Runner) fail(ctx context.Context, submissionID uuid.UUID, reason string) {
	ok, err := r.store.MarkFailed(ctx, submissionID, reason)
	if err != nil {
		r.logger.Error("failed to mark submission failed",
			zap.String("submission_id", submissionID.String()),
			zap.Error(err))
		return
	}
	if !ok {
		r.logger.Warn("submission was not in processing when marked failed",
			zap.String("submission_id", submissionID.String()))
		return
	}
	r.logger.Info("submission failed",
		zap.String("submission_id", submissionID.String()),
		zap.String("reason", reason))
}

func (r *Runner) backoff(retry int) time.Duration {
	delay := float64(r.initialBackoff) * math.Pow(2, float64(retry))
	// ±25% jitter so concurrent retries spread out.
	jitter := (rand.Float64()*2 - 1) * delay * 0.25
	delay += jitter
	if delay < 0 {
		delay = 0
	}
	return time.Duration(delay)
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func failureReason(err error) string {
	var transient *generation.TransientError
	var auth *generation.AuthError
	var schemaErr *generation.SchemaError
	switch {
	case errors.As(err, &auth):
		return "generation backend rejected credentials"
	case errors.As(err, &transient):
		return "generation backend unavailable after retries"
	case errors.As(err, &schemaErr):
		return "generation backend returned malformed content"
	default:
		return err.Error()
	}
}
