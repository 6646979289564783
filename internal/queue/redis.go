package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultKey is the Redis list the generation queue lives on.
const DefaultKey = "mediawatch:generation"

const probeTimeout = 1 * time.Second

// RedisQueue is a Queue backed by a Redis list. Enqueue pushes to the head,
// workers pop from the tail, so tasks run in submission order.
type RedisQueue struct {
	rdb    *goredis.Client
	key    string
	logger *zap.Logger
}

// RedisConfig holds broker connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

// NewRedisQueue connects to the broker and verifies it responds before
// returning. A broker that is down at startup is reported immediately rather
// than on the first enqueue.
func NewRedisQueue(cfg RedisConfig, logger *zap.Logger) (*RedisQueue, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis address required")
	}
	if cfg.Key == "" {
		cfg.Key = DefaultKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisQueue{rdb: rdb, key: cfg.Key, logger: logger}, nil
}

// Enqueue pushes a task onto the queue.
func (q *RedisQueue) Enqueue(ctx context.Context, task Task) error {
	raw, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to encode task: %w", err)
	}
	if err := q.rdb.LPush(ctx, q.key, raw).Err(); err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}
	q.logger.Debug("task enqueued",
		zap.String("submission_id", task.SubmissionID.String()),
		zap.String("key", q.key))
	return nil
}

// Dequeue blocks up to timeout for the next task. A timeout with no task is
// not an error.
func (q *RedisQueue) Dequeue(ctx context.Context, timeout time.Duration) (*Task, error) {
	result, err := q.rdb.BRPop(ctx, timeout, q.key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to dequeue task: %w", err)
	}
	// BRPOP returns [key, value].
	if len(result) != 2 {
		return nil, fmt.Errorf("unexpected BRPOP reply of length %d", len(result))
	}

	var task Task
	if err := json.Unmarshal([]byte(result[1]), &task); err != nil {
		return nil, fmt.Errorf("failed to decode task: %w", err)
	}
	return &task, nil
}

// Healthy pings the broker with a short deadline. The result is never
// cached: every dispatch decision reflects the broker's state at that
// moment.
func (q *RedisQueue) Healthy(ctx context.Context) error {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	if err := q.rdb.Ping(probeCtx).Err(); err != nil {
		return fmt.Errorf("broker unavailable: %w", err)
	}
	return nil
}

// Close releases the broker connection.
func (q *RedisQueue) Close() error {
	return q.rdb.Close()
}
