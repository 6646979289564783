package delivery

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/mediawatch/internal/db"
	"github.com/jonathan/mediawatch/internal/notify"
)

// Store is the persistence surface the send path needs. *db.DB satisfies it.
type Store interface {
	GetResultByID(ctx context.Context, id uuid.UUID) (*db.GeneratedResult, error)
	GetSubmission(ctx context.Context, id uuid.UUID) (*db.Submission, error)
	GetOutlet(ctx context.Context, id uuid.UUID) (*db.Outlet, error)
	MarkResultSent(ctx context.Context, resultID uuid.UUID, destination string, sentAt time.Time) error
}

// Service coordinates sending a generated complaint letter.
type Service struct {
	store    Store
	sender   Sender
	notifier notify.Notifier
	logger   *zap.Logger
}

// NewService creates a delivery service.
func NewService(store Store, sender Sender, notifier notify.Notifier, logger *zap.Logger) *Service {
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, sender: sender, notifier: notifier, logger: logger}
}

// SendLetter delivers the letter for a generated result. The destination
// defaults to the outlet's complaints address when none is given. Sending is
// only valid for complaint letters on reviewed submissions; a failed send
// leaves every record untouched and surfaces the error to the caller.
func (s *Service) SendLetter(ctx context.Context, resultID uuid.UUID, destination string) (*db.GeneratedResult, error) {
	result, err := s.store.GetResultByID(ctx, resultID)
	if err != nil {
		return nil, fmt.Errorf("failed to load result: %w", err)
	}
	if result == nil {
		return nil, fmt.Errorf("result %s not found", resultID)
	}
	if result.ContentType != db.ContentTypeComplaint {
		return nil, fmt.Errorf("result %s is not a complaint letter", resultID)
	}

	sub, err := s.store.GetSubmission(ctx, result.SubmissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load submission: %w", err)
	}
	if sub == nil {
		return nil, fmt.Errorf("submission %s not found", result.SubmissionID)
	}
	if sub.Status != db.StatusReviewed {
		return nil, fmt.Errorf("submission %s is %s, only reviewed letters can be sent", sub.ID, sub.Status)
	}

	if destination == "" {
		if sub.OutletID == nil {
			return nil, fmt.Errorf("submission %s has no outlet and no destination was given", sub.ID)
		}
		outlet, err := s.store.GetOutlet(ctx, *sub.OutletID)
		if err != nil {
			return nil, fmt.Errorf("failed to load outlet: %w", err)
		}
		if outlet == nil {
			return nil, fmt.Errorf("outlet %s not found", *sub.OutletID)
		}
		destination = outlet.RecipientAddress()
		if destination == "" {
			return nil, fmt.Errorf("outlet %s has no contact address", outlet.Name)
		}
	}

	sentAt, err := s.sender.Send(ctx, destination, result.Subject, result.Body)
	if err != nil {
		s.logger.Warn("letter delivery failed",
			zap.String("result_id", resultID.String()),
			zap.String("destination", destination),
			zap.Error(err))
		return nil, err
	}

	if err := s.store.MarkResultSent(ctx, resultID, destination, sentAt); err != nil {
		// The letter went out but the record was not updated. Surface the
		// error so the operator knows the sent timestamp is missing.
		return nil, fmt.Errorf("letter sent but failed to record delivery: %w", err)
	}

	s.notifier.ResultSent(ctx, sub.OwnerID)

	result.SentAt = &sentAt
	result.SentTo = &destination
	return result, nil
}
