package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore maps the contract directly onto Redis primitives:
// GET / SET / SET NX EX / DEL / SADD / SREM / SMEMBERS / LPUSH / LRANGE / LREM.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.rdb.Set(ctx, key, value, ttl).Err()
}

func (s *RedisStore) SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	return s.rdb.SetNX(ctx, key, value, ttl).Result()
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}

func (s *RedisStore) AddToSet(ctx context.Context, key, member string) error {
	return s.rdb.SAdd(ctx, key, member).Err()
}

func (s *RedisStore) RemoveFromSet(ctx context.Context, key, member string) error {
	return s.rdb.SRem(ctx, key, member).Err()
}

func (s *RedisStore) MembersOf(ctx context.Context, key string) ([]string, error) {
	return s.rdb.SMembers(ctx, key).Result()
}

func (s *RedisStore) PushToList(ctx context.Context, key, value string) error {
	return s.rdb.LPush(ctx, key, value).Err()
}

func (s *RedisStore) ListRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	return s.rdb.LRange(ctx, key, start, stop).Result()
}

func (s *RedisStore) RemoveFromList(ctx context.Context, key, value string) error {
	return s.rdb.LRem(ctx, key, 1, value).Err()
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}
