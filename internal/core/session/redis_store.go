package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const storeTimeout = 3 * time.Second

// RedisStore keeps scs session payloads in Redis with a TTL matching the
// session expiry.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "techzon:session:"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Find(token string) ([]byte, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	return s.FindCtx(ctx, token)
}

func (s *RedisStore) Commit(token string, b []byte, expiry time.Time) error {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	return s.CommitCtx(ctx, token, b, expiry)
}

func (s *RedisStore) Delete(token string) error {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	return s.DeleteCtx(ctx, token)
}

func (s *RedisStore) FindCtx(ctx context.Context, token string) ([]byte, bool, error) {
	b, err := s.client.Get(ctx, s.prefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (s *RedisStore) CommitCtx(ctx context.Context, token string, b []byte, expiry time.Time) error {
	ttl := time.Until(expiry)
	if ttl <= 0 {
		return s.DeleteCtx(ctx, token)
	}
	return s.client.Set(ctx, s.prefix+token, b, ttl).Err()
}

func (s *RedisStore) DeleteCtx(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.prefix+token).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}
