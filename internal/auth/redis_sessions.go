package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/navhub/pkg"

	"github.com/go-redis/redis/v8"
)

const sessionKeyPrefix = "navhub-session||"

// RedisSessionStore keeps sessions in redis, keyed by token, with the
// redis key TTL acting as the session expiry. Redis drops expired keys
// itself, and Validate resets the TTL on every hit, which gives the
// same sliding expiration as the in-memory store.
type RedisSessionStore struct {
	redisClient *redis.Client
	ttl         time.Duration

	// ability to inject the token generator (for unit and dev testing)
	RandHexFunc func(n int) (string, error)
}

func NewRedisSessionStore(ttl time.Duration, redisClient *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{
		redisClient: redisClient,
		ttl:         ttl,
		RandHexFunc: pkg.GenerateRandomHex,
	}
}

func (s *RedisSessionStore) Create(ctx context.Context, username string) (*Session, error) {
	token, err := s.RandHexFunc(SessionTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}

	sessionKey := sessionKeyPrefix + token
	if err := s.redisClient.Set(ctx, sessionKey, username, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	return &Session{
		Token:     token,
		Username:  username,
		ExpiresAt: time.Now().Add(s.ttl),
	}, nil
}

func (s *RedisSessionStore) Validate(ctx context.Context, token string) (*Session, error) {
	sessionKey := sessionKeyPrefix + token

	username, err := s.redisClient.Get(ctx, sessionKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	// sliding expiration: push the key TTL forward on every hit
	if err := s.redisClient.Expire(ctx, sessionKey, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("extend session: %w", err)
	}

	return &Session{
		Token:     token,
		Username:  username,
		ExpiresAt: time.Now().Add(s.ttl),
	}, nil
}

func (s *RedisSessionStore) Invalidate(ctx context.Context, token string) error {
	sessionKey := sessionKeyPrefix + token
	if err := s.redisClient.Del(ctx, sessionKey).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
