package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/scoorly/scoorly-backend/internal/config"
	"github.com/scoorly/scoorly-backend/internal/model"
)

// RedisStore persists session slots as JSON values in Redis, keyed per
// client. This is the server-side analogue of the browser localStorage the
// web client uses: each client owns exactly two keys.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore creates a RedisStore backed by the given client.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) GetSession(ctx context.Context, clientID string) (*model.Session, error) {
	return s.get(ctx, config.StoreKey.CurrentSessionKey(clientID))
}

func (s *RedisStore) SetSession(ctx context.Context, clientID string, sess *model.Session) error {
	return s.set(ctx, config.StoreKey.CurrentSessionKey(clientID), sess)
}

func (s *RedisStore) ClearSession(ctx context.Context, clientID string) error {
	return s.rdb.Del(ctx, config.StoreKey.CurrentSessionKey(clientID)).Err()
}

func (s *RedisStore) GetResults(ctx context.Context, clientID string) (*model.Session, error) {
	return s.get(ctx, config.StoreKey.LastResultsKey(clientID))
}

func (s *RedisStore) SetResults(ctx context.Context, clientID string, sess *model.Session) error {
	return s.set(ctx, config.StoreKey.LastResultsKey(clientID), sess)
}

func (s *RedisStore) get(ctx context.Context, key string) (*model.Session, error) {
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}

	var sess model.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		// A corrupt slot behaves like an absent one. The next write repairs it.
		return nil, nil
	}
	return &sess, nil
}

func (s *RedisStore) set(ctx context.Context, key string, sess *model.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.rdb.Set(ctx, key, raw, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
