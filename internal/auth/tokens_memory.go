package auth

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"
)

type tokenEntry struct {
	userID    string
	expiresAt time.Time
}

// InMemoryTokenStore is used when no Redis address is configured.
type InMemoryTokenStore struct {
	mu     sync.Mutex
	tokens map[string]tokenEntry
	now    func() time.Time
}

func NewInMemoryTokenStore() *InMemoryTokenStore {
	return &InMemoryTokenStore{
		tokens: map[string]tokenEntry{},
		now:    time.Now,
	}
}

func (s *InMemoryTokenStore) Save(_ context.Context, kind, token, userID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[tokenKey(kind, token)] = tokenEntry{userID: userID, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *InMemoryTokenStore) Consume(_ context.Context, kind, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := tokenKey(kind, token)
	entry, ok := s.tokens[key]
	if !ok {
		return "", ErrTokenNotFound
	}
	delete(s.tokens, key)
	if !s.now().Before(entry.expiresAt) {
		return "", ErrTokenNotFound
	}
	return entry.userID, nil
}

func (s *InMemoryTokenStore) Delete(_ context.Context, kind, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, tokenKey(kind, token))
	return nil
}

func (s *InMemoryTokenStore) RevokeUser(_ context.Context, kind, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefix := tokenKey(kind, "")
	for key, entry := range s.tokens {
		if entry.userID == userID && strings.HasPrefix(key, prefix) {
			delete(s.tokens, key)
		}
	}
	return nil
}

func (s *InMemoryTokenStore) removeExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	now := s.now()
	for key, entry := range s.tokens {
		if !now.Before(entry.expiresAt) {
			delete(s.tokens, key)
			removed++
		}
	}
	return removed
}

// StartCleaner drops expired tokens every interval until ctx is done.
func (s *InMemoryTokenStore) StartCleaner(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.removeExpired(); n > 0 {
				log.Printf("removed %d expired tokens", n)
			}
		}
	}
}
