package queue

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/mediawatch/internal/runner"
)

// Handler processes one dequeued submission. Errors are logged, not
// re-queued: the runner's own retry policy has already run its course by the
// time an error escapes it.
type Handler func(ctx context.Context, submissionID uuid.UUID) error

// Worker consumes the generation queue with a fixed pool of goroutines.
type Worker struct {
	queue       Queue
	handler     Handler
	concurrency int
	pollTimeout time.Duration
	logger      *zap.Logger
}

// NewWorker creates a worker pool. Concurrency below 1 is clamped to 1.
func NewWorker(q Queue, handler Handler, concurrency int, logger *zap.Logger) *Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{
		queue:       q,
		handler:     handler,
		concurrency: concurrency,
		pollTimeout: 5 * time.Second,
		logger:      logger,
	}
}

// Run consumes tasks until the context is canceled. It returns the context's
// error on shutdown and any broker error that forced an early stop.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("worker pool starting", zap.Int("concurrency", w.concurrency))

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < w.concurrency; i++ {
		g.Go(func() error {
			return w.consume(ctx)
		})
	}
	return g.Wait()
}

func (w *Worker) consume(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		task, err := w.queue.Dequeue(ctx, w.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		if task == nil {
			continue
		}

		w.logger.Info("processing queued submission",
			zap.String("submission_id", task.SubmissionID.String()))

		if err := w.handler(ctx, task.SubmissionID); err != nil {
			// Losing the claim to a concurrent dispatch is benign: the
			// other claimant owns the submission now.
			var dup *runner.DuplicateDispatchError
			if errors.As(err, &dup) {
				w.logger.Info("submission already claimed",
					zap.String("submission_id", task.SubmissionID.String()),
					zap.String("status", dup.Status))
				continue
			}
			w.logger.Error("submission processing failed",
				zap.String("submission_id", task.SubmissionID.String()),
				zap.Error(err))
		}
	}
}
