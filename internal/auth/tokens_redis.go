package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ayres-originals/originals-api/internal/redissvc"
	"github.com/redis/go-redis/v9"
)

type RedisTokenStore struct {
	rdb *redis.Client
}

func NewRedisTokenStore(rs *redissvc.RedisService) *RedisTokenStore {
	return &RedisTokenStore{rdb: rs.Rdb()}
}

func tokenKey(kind, token string) string {
	return "auth:" + kind + ":" + token
}

// userTokensKey indexes the live tokens of one user so they can be revoked together.
func userTokensKey(kind, userID string) string {
	return "auth:user:" + userID + ":" + kind
}

func (s *RedisTokenStore) Save(ctx context.Context, kind, token, userID string, ttl time.Duration) error {
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, tokenKey(kind, token), userID, ttl)
		pipe.SAdd(ctx, userTokensKey(kind, userID), token)
		pipe.Expire(ctx, userTokensKey(kind, userID), ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store %s token: %w", kind, err)
	}
	return nil
}

func (s *RedisTokenStore) Consume(ctx context.Context, kind, token string) (string, error) {
	userID, err := s.rdb.GetDel(ctx, tokenKey(kind, token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s token: %w", kind, err)
	}
	s.rdb.SRem(ctx, userTokensKey(kind, userID), token)
	return userID, nil
}

func (s *RedisTokenStore) Delete(ctx context.Context, kind, token string) error {
	return s.rdb.Del(ctx, tokenKey(kind, token)).Err()
}

func (s *RedisTokenStore) RevokeUser(ctx context.Context, kind, userID string) error {
	index := userTokensKey(kind, userID)
	tokens, err := s.rdb.SMembers(ctx, index).Result()
	if err != nil {
		return fmt.Errorf("failed to list %s tokens: %w", kind, err)
	}

	keys := make([]string, 0, len(tokens)+1)
	for _, token := range tokens {
		keys = append(keys, tokenKey(kind, token))
	}
	keys = append(keys, index)
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to revoke %s tokens: %w", kind, err)
	}
	return nil
}
