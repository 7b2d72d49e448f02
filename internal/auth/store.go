package auth

import (
	"context"
	"fmt"
	"sync"

	"sanskaar/booking/internal/domain"

	"github.com/redis/go-redis/v9"
)

// TokenStore keeps login tokens per profile. The redis and file stores keep
// them between runs; the memory store only for the current process.
type TokenStore interface {
	Load(ctx context.Context, profile string) (domain.Tokens, error)
	Save(ctx context.Context, profile string, tokens domain.Tokens) error
	Delete(ctx context.Context, profile string) error
}

type redisTokenStore struct {
	redisClient *redis.Client
	keyPrefix   string
}

func NewRedisTokenStore(redisClient *redis.Client, keyPrefix string) TokenStore {
	return &redisTokenStore{
		redisClient: redisClient,
		keyPrefix:   keyPrefix,
	}
}

func (s *redisTokenStore) Load(ctx context.Context, profile string) (domain.Tokens, error) {
	key := s.keyPrefix + profile
	vals, err := s.redisClient.HGetAll(ctx, key).Result()
	if err != nil {
		return domain.Tokens{}, fmt.Errorf("failed to load tokens for profile %s: %w", profile, err)
	}

	if vals["access_token"] == "" {
		return domain.Tokens{}, fmt.Errorf("tokens for profile %s: %w", profile, domain.ErrNotFound)
	}

	return domain.Tokens{
		AccessToken:  vals["access_token"],
		RefreshToken: vals["refresh_token"],
	}, nil
}

func (s *redisTokenStore) Save(ctx context.Context, profile string, tokens domain.Tokens) error {
	key := s.keyPrefix + profile
	err := s.redisClient.HSet(ctx, key, map[string]interface{}{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to save tokens for profile %s: %w", profile, err)
	}
	return nil
}

func (s *redisTokenStore) Delete(ctx context.Context, profile string) error {
	if err := s.redisClient.Del(ctx, s.keyPrefix+profile).Err(); err != nil {
		return fmt.Errorf("failed to delete tokens for profile %s: %w", profile, err)
	}
	return nil
}

type memoryTokenStore struct {
	mu     sync.RWMutex
	tokens map[string]domain.Tokens
}

// NewMemoryTokenStore keeps tokens for the lifetime of the process only.
func NewMemoryTokenStore() TokenStore {
	return &memoryTokenStore{tokens: make(map[string]domain.Tokens)}
}

func (s *memoryTokenStore) Load(_ context.Context, profile string) (domain.Tokens, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tokens, ok := s.tokens[profile]
	if !ok {
		return domain.Tokens{}, fmt.Errorf("tokens for profile %s: %w", profile, domain.ErrNotFound)
	}
	return tokens, nil
}

func (s *memoryTokenStore) Save(_ context.Context, profile string, tokens domain.Tokens) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens[profile] = tokens
	return nil
}

func (s *memoryTokenStore) Delete(_ context.Context, profile string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tokens, profile)
	return nil
}
