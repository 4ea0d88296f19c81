/**
 * Redis-backed job queue
 *
 * Simple Redis LIST operations: LPUSH on enqueue, RPOP on dequeue, so jobs
 * survive worker restarts and several worker processes can share one
 * queue. Jobs are stored as JSON payloads in the list itself.
 */

package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	xerrors "github.com/opengovlk/docintel-worker/internal/errors"
	"github.com/opengovlk/docintel-worker/internal/job"
)

// RedisQueue is a Redis-list-backed queue shared across processes
type RedisQueue struct {
	client *redis.Client
	key    string
}

// NewRedisQueue connects to Redis and binds the queue to a list key
func NewRedisQueue(redisURL, key string) (*RedisQueue, error) {
	if key == "" {
		key = "docintel:jobs"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisQueue{client: client, key: key}, nil
}

// Enqueue pushes a job payload to the head of the list
func (q *RedisQueue) Enqueue(ctx context.Context, j *job.Job) error {
	if j == nil || j.FileRef == "" {
		return xerrors.NewValidationError("fileRef", "is required")
	}

	payload, err := json.Marshal(j)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("failed to enqueue job: %w", err)
	}
	return nil
}

// Dequeue pops the oldest job from the tail of the list. RPOP is atomic,
// so each payload reaches exactly one worker.
func (q *RedisQueue) Dequeue(ctx context.Context) (*job.Job, error) {
	payload, err := q.client.RPop(ctx, q.key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to dequeue job: %w", err)
	}

	var j job.Job
	if err := json.Unmarshal([]byte(payload), &j); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job: %w", err)
	}
	return &j, nil
}

// Len reports the list length
func (q *RedisQueue) Len(ctx context.Context) (int, error) {
	n, err := q.client.LLen(ctx, q.key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read queue length: %w", err)
	}
	return int(n), nil
}

// Snapshot reads the pending jobs in enqueue order without removing them
func (q *RedisQueue) Snapshot(ctx context.Context) ([]job.Job, error) {
	payloads, err := q.client.LRange(ctx, q.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read queue snapshot: %w", err)
	}

	// LRANGE returns head first (newest); enqueue order is tail first
	out := make([]job.Job, 0, len(payloads))
	for i := len(payloads) - 1; i >= 0; i-- {
		var j job.Job
		if err := json.Unmarshal([]byte(payloads[i]), &j); err != nil {
			return nil, fmt.Errorf("failed to unmarshal job: %w", err)
		}
		out = append(out, j)
	}
	return out, nil
}

// Remove drops a pending job by id via LREM on its exact payload
func (q *RedisQueue) Remove(ctx context.Context, jobID string) (bool, error) {
	payloads, err := q.client.LRange(ctx, q.key, 0, -1).Result()
	if err != nil {
		return false, fmt.Errorf("failed to scan queue: %w", err)
	}

	for _, payload := range payloads {
		var j job.Job
		if err := json.Unmarshal([]byte(payload), &j); err != nil {
			continue
		}
		if j.ID == jobID {
			removed, err := q.client.LRem(ctx, q.key, 1, payload).Result()
			if err != nil {
				return false, fmt.Errorf("failed to remove job: %w", err)
			}
			return removed > 0, nil
		}
	}
	return false, nil
}

// Close releases the Redis connection
func (q *RedisQueue) Close() error {
	return q.client.Close()
}
