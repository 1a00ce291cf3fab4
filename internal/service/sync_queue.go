package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/scoorly/scoorly-backend/internal/config"
	"github.com/scoorly/scoorly-backend/internal/model"
)

// SyncQueue is the hand-off point between the synchronous session lifecycle
// and the background workers that mirror data to PostgreSQL. Enqueue failures
// are reported to the caller, which logs and swallows them: the local session
// state is authoritative and must never fail because the mirror did.
type SyncQueue interface {
	EnqueueResult(ctx context.Context, p *model.ResultSyncPayload) error
	EnqueueAnswer(ctx context.Context, p *model.AnswerSyncPayload) error
}

// RedisSyncQueue pushes mirror payloads onto Redis lists consumed by the
// workers in internal/worker.
type RedisSyncQueue struct {
	rdb *redis.Client
}

// NewRedisSyncQueue creates a RedisSyncQueue.
func NewRedisSyncQueue(rdb *redis.Client) *RedisSyncQueue {
	return &RedisSyncQueue{rdb: rdb}
}

func (q *RedisSyncQueue) EnqueueResult(ctx context.Context, p *model.ResultSyncPayload) error {
	return q.push(ctx, config.WorkerKey.PersistResultsQueue, p)
}

func (q *RedisSyncQueue) EnqueueAnswer(ctx context.Context, p *model.AnswerSyncPayload) error {
	return q.push(ctx, config.WorkerKey.PersistAnswersQueue, p)
}

func (q *RedisSyncQueue) push(ctx context.Context, queue string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	if err := q.rdb.RPush(ctx, queue, raw).Err(); err != nil {
		return fmt.Errorf("rpush %s: %w", queue, err)
	}
	return nil
}
