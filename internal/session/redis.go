package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps session data in a Redis hash per session, with the TTL
// refreshed on every write. Use this when running multiple instances.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a RedisStore against the given client.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

var _ Store = (*RedisStore)(nil)

func redisKey(sid string) string {
	return "webbase:sess:" + sid
}

func (s *RedisStore) Get(ctx context.Context, sid, key string) ([]byte, bool, error) {
	v, err := s.client.HGet(ctx, redisKey(sid), key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (s *RedisStore) Set(ctx context.Context, sid, key string, value []byte) error {
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, redisKey(sid), key, value)
	pipe.Expire(ctx, redisKey(sid), s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Delete(ctx context.Context, sid, key string) error {
	return s.client.HDel(ctx, redisKey(sid), key).Err()
}
