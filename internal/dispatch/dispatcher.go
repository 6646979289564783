// Package dispatch routes a pending submission to the generation workers.
// When the queue broker answers a liveness probe the submission is enqueued
// and the caller returns immediately; when it does not, generation runs
// inline on the calling goroutine so submissions are never dropped just
// because infrastructure is absent.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/mediawatch/internal/queue"
	"github.com/jonathan/mediawatch/internal/runner"
)

// Processor runs one submission to a terminal status. *runner.Runner
// satisfies it.
type Processor interface {
	Process(ctx context.Context, submissionID uuid.UUID) error
}

// Dispatcher picks the execution path for each submission.
type Dispatcher struct {
	queue     queue.Queue // nil when no broker is configured
	processor Processor
	logger    *zap.Logger
}

// New creates a dispatcher. A nil queue forces every dispatch inline.
func New(q queue.Queue, processor Processor, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{queue: q, processor: processor, logger: logger}
}

// Dispatch hands a submission to the workers, or runs it inline when the
// broker is unreachable. The broker is probed on every call; availability is
// never cached, so a recovered broker is used on the next dispatch without a
// restart. A submission that is already processing or reviewed is a logged
// no-op.
func (d *Dispatcher) Dispatch(ctx context.Context, submissionID uuid.UUID) error {
	if d.queue != nil {
		if err := d.queue.Healthy(ctx); err == nil {
			enqueueErr := d.queue.Enqueue(ctx, queue.Task{
				SubmissionID: submissionID,
				EnqueuedAt:   time.Now().UTC(),
			})
			if enqueueErr == nil {
				d.logger.Debug("submission dispatched to queue",
					zap.String("submission_id", submissionID.String()))
				return nil
			}
			d.logger.Warn("enqueue failed, falling back to inline processing",
				zap.String("submission_id", submissionID.String()),
				zap.Error(enqueueErr))
		} else {
			d.logger.Warn("queue broker unreachable, processing inline",
				zap.String("submission_id", submissionID.String()),
				zap.Error(err))
		}
	}

	if err := d.processor.Process(ctx, submissionID); err != nil {
		var dup *runner.DuplicateDispatchError
		if errors.As(err, &dup) {
			d.logger.Info("duplicate dispatch ignored",
				zap.String("submission_id", submissionID.String()),
				zap.String("status", dup.Status))
			return nil
		}
		return fmt.Errorf("inline processing failed: %w", err)
	}
	return nil
}
