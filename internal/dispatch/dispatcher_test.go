package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/mediawatch/internal/queue"
	"github.com/jonathan/mediawatch/internal/runner"
)

type stubQueue struct {
	mu         sync.Mutex
	healthyErr error
	enqueueErr error
	enqueued   []queue.Task
	probes     int
}

func (s *stubQueue) Enqueue(_ context.Context, task queue.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.enqueueErr != nil {
		return s.enqueueErr
	}
	s.enqueued = append(s.enqueued, task)
	return nil
}

func (s *stubQueue) Dequeue(context.Context, time.Duration) (*queue.Task, error) {
	return nil, nil
}

func (s *stubQueue) Healthy(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.probes++
	return s.healthyErr
}

func (s *stubQueue) Close() error { return nil }

type stubProcessor struct {
	mu        sync.Mutex
	err       error
	processed []uuid.UUID
}

func (s *stubProcessor) Process(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processed = append(s.processed, id)
	return s.err
}

func TestDispatchEnqueuesWhenBrokerHealthy(t *testing.T) {
	q := &stubQueue{}
	proc := &stubProcessor{}
	id := uuid.New()

	err := New(q, proc, nil).Dispatch(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, q.enqueued, 1)
	assert.Equal(t, id, q.enqueued[0].SubmissionID)
	assert.Empty(t, proc.processed, "healthy broker should not trigger inline processing")
}

func TestDispatchFallsBackWhenBrokerDown(t *testing.T) {
	q := &stubQueue{healthyErr: errors.New("connection refused")}
	proc := &stubProcessor{}
	id := uuid.New()

	err := New(q, proc, nil).Dispatch(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, q.enqueued)
	assert.Equal(t, []uuid.UUID{id}, proc.processed)
}

func TestDispatchFallsBackWhenEnqueueFails(t *testing.T) {
	q := &stubQueue{enqueueErr: errors.New("write timeout")}
	proc := &stubProcessor{}
	id := uuid.New()

	err := New(q, proc, nil).Dispatch(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{id}, proc.processed)
}

func TestDispatchWithoutQueueRunsInline(t *testing.T) {
	proc := &stubProcessor{}
	id := uuid.New()

	err := New(nil, proc, nil).Dispatch(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{id}, proc.processed)
}

func TestDispatchProbesBrokerEveryCall(t *testing.T) {
	q := &stubQueue{}
	proc := &stubProcessor{}
	d := New(q, proc, nil)

	for i := 0; i < 3; i++ {
		require.NoError(t, d.Dispatch(context.Background(), uuid.New()))
	}
	assert.Equal(t, 3, q.probes)
}

func TestDispatchDuplicateIsBenign(t *testing.T) {
	proc := &stubProcessor{err: &runner.DuplicateDispatchError{
		SubmissionID: uuid.New(),
		Status:       "processing",
	}}

	err := New(nil, proc, nil).Dispatch(context.Background(), uuid.New())
	assert.NoError(t, err)
}

func TestDispatchInlineErrorSurfaces(t *testing.T) {
	proc := &stubProcessor{err: errors.New("database unavailable")}

	err := New(nil, proc, nil).Dispatch(context.Background(), uuid.New())
	assert.Error(t, err)
}
