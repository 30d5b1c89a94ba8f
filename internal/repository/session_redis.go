package repository

import (
	"context"
	"errors"
	"time"

	"trademind/internal/pkg/apperr"

	"github.com/redis/go-redis/v9"
)

// RedisSessionStore keeps live sessions as expiring keys.
type RedisSessionStore struct {
	client *redis.Client
	prefix string
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client, prefix: "session:"}
}

func (s *RedisSessionStore) key(sessionID string) string { return s.prefix + sessionID }

func (s *RedisSessionStore) Put(ctx context.Context, sessionID, userID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(sessionID), userID, ttl).Err(); err != nil {
		return redisErr(err)
	}
	return nil
}

func (s *RedisSessionStore) Lookup(ctx context.Context, sessionID string) (string, bool, error) {
	userID, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, redisErr(err)
	}
	return userID, true, nil
}

func (s *RedisSessionStore) Revoke(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return redisErr(err)
	}
	return nil
}

// Any Redis failure other than a missing key means the session registry is
// unreachable.
func redisErr(err error) error {
	if apperr.KindOf(err) != "" {
		return apperr.Classify(err)
	}
	return apperr.Wrap(err, apperr.CodeConnection, "session store unavailable")
}

// OpenRedis connects and pings Redis.
func OpenRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, redisErr(err)
	}
	return client, nil
}
