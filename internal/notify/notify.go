// Package notify reports pipeline milestones to the gamification counters.
// Notification is fire-and-forget: a failure here never changes the outcome
// of the operation that triggered it.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/mediawatch/internal/db"
)

// Notifier receives pipeline milestones for a user.
type Notifier interface {
	SubmissionCreated(ctx context.Context, userID uuid.UUID)
	SubmissionReviewed(ctx context.Context, userID uuid.UUID)
	ResultSent(ctx context.Context, userID uuid.UUID)
}

const notifyTimeout = 10 * time.Second

// StatsNotifier updates the per-user activism counters in the database.
type StatsNotifier struct {
	db     *db.DB
	logger *zap.Logger
}

// NewStatsNotifier creates a database-backed notifier.
func NewStatsNotifier(database *db.DB, logger *zap.Logger) *StatsNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsNotifier{db: database, logger: logger}
}

// SubmissionCreated credits a user for submitting.
func (n *StatsNotifier) SubmissionCreated(ctx context.Context, userID uuid.UUID) {
	n.record(ctx, userID, "submitted", n.db.RecordSubmitted)
}

// SubmissionReviewed credits a user for a completed generation.
func (n *StatsNotifier) SubmissionReviewed(ctx context.Context, userID uuid.UUID) {
	n.record(ctx, userID, "reviewed", n.db.RecordReviewed)
}

// ResultSent credits a user for delivering a letter.
func (n *StatsNotifier) ResultSent(ctx context.Context, userID uuid.UUID) {
	n.record(ctx, userID, "sent", n.db.RecordSent)
}

// record runs the counter update detached from the caller's cancellation so
// a finished request cannot abort the credit mid-write. Failures are logged
// and dropped.
func (n *StatsNotifier) record(ctx context.Context, userID uuid.UUID, milestone string, fn func(context.Context, uuid.UUID) error) {
	detached, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	if err := fn(detached, userID); err != nil {
		n.logger.Warn("failed to record user milestone",
			zap.String("user_id", userID.String()),
			zap.String("milestone", milestone),
			zap.Error(err))
	}
}

// NopNotifier discards all notifications. Used in tests and in commands that
// have no gamification concern.
type NopNotifier struct{}

func (NopNotifier) SubmissionCreated(context.Context, uuid.UUID)  {}
func (NopNotifier) SubmissionReviewed(context.Context, uuid.UUID) {}
func (NopNotifier) ResultSent(context.Context, uuid.UUID)         {}
