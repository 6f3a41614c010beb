package auth

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const credentialKeyPrefix = "navhub-cred||"

// RedisCredentialStore keeps the username -> secret mapping in redis.
// Credentials never expire, keys are written without a TTL.
type RedisCredentialStore struct {
	redisClient   *redis.Client
	defaultSecret string
}

func NewRedisCredentialStore(defaultSecret string, redisClient *redis.Client) *RedisCredentialStore {
	return &RedisCredentialStore{
		redisClient:   redisClient,
		defaultSecret: defaultSecret,
	}
}

func (s *RedisCredentialStore) Get(ctx context.Context, username string) (string, error) {
	credentialKey := credentialKeyPrefix + username

	// SetNX seeds the default secret only for a username never seen
	// before, a concurrent Set cannot be overwritten by the seed
	if err := s.redisClient.SetNX(ctx, credentialKey, s.defaultSecret, 0).Err(); err != nil {
		return "", fmt.Errorf("seed credential: %w", err)
	}

	secret, err := s.redisClient.Get(ctx, credentialKey).Result()
	if err != nil {
		return "", fmt.Errorf("get credential: %w", err)
	}
	return secret, nil
}

func (s *RedisCredentialStore) Set(ctx context.Context, username, secret string) error {
	credentialKey := credentialKeyPrefix + username
	if err := s.redisClient.Set(ctx, credentialKey, secret, 0).Err(); err != nil {
		return fmt.Errorf("set credential: %w", err)
	}
	return nil
}
