// Package queue provides the async dispatch channel between the HTTP intake
// and the generation workers. The broker is Redis; a task is nothing more
// than a submission ID, since workers re-read all state from the database.
package queue

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Task is one unit of queued work.
type Task struct {
	SubmissionID uuid.UUID `json:"submission_id"`
	EnqueuedAt   time.Time `json:"enqueued_at"`
}

// Queue is the broker abstraction. Dequeue blocks up to the given timeout and
// returns (nil, nil) when no task arrived, so workers can poll in a loop and
// still observe context cancellation.
type Queue interface {
	Enqueue(ctx context.Context, task Task) error
	Dequeue(ctx context.Context, timeout time.Duration) (*Task, error)
	// Healthy probes the broker. Dispatchers call this before every enqueue
	// and fall back to inline processing when it fails.
	Healthy(ctx context.Context) error
	Close() error
}
