package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"
)

const (
	KindRefresh = "refresh"
	KindReset   = "reset"
)

var ErrTokenNotFound = errors.New("token not found or expired")

// TokenStore keeps opaque single-use tokens mapped to a user ID.
type TokenStore interface {
	Save(ctx context.Context, kind, token, userID string, ttl time.Duration) error
	// Consume returns the owner of token and removes it atomically.
	Consume(ctx context.Context, kind, token string) (string, error)
	Delete(ctx context.Context, kind, token string) error
	// RevokeUser deletes every token of kind issued to userID.
	RevokeUser(ctx context.Context, kind, userID string) error
}

func NewOpaqueToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
