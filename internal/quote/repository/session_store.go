// Package repository stores quote sessions between quoting steps.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tentquote_backend/internal/quote/domain"
	"tentquote_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix       = "quote:session:"
	sessionNotFoundMessage = "quote session not found or expired"
)

// SessionStore keeps quote sessions by id.
type SessionStore interface {
	Get(ctx context.Context, id uuid.UUID) (domain.Session, error)
	Save(ctx context.Context, session domain.Session) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// RedisStore keeps sessions as JSON values. Every read or write pushes the
// expiry out by the TTL, so only idle sessions expire.
type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisStore creates a session store with the given idle TTL.
func NewRedisStore(client redis.Cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Compile-time check that RedisStore implements SessionStore.
var _ SessionStore = (*RedisStore)(nil)

func sessionKey(id uuid.UUID) string {
	return sessionKeyPrefix + id.String()
}

// Get loads a session and refreshes its expiry.
func (s *RedisStore) Get(ctx context.Context, id uuid.UUID) (domain.Session, error) {
	raw, err := s.client.GetEx(ctx, sessionKey(id), s.ttl).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Session{}, apperr.NotFound(sessionNotFoundMessage)
		}
		return domain.Session{}, apperr.Persistence("failed to load quote session", fmt.Errorf("get session: %w", err))
	}

	var session domain.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return domain.Session{}, apperr.Persistence("failed to load quote session", fmt.Errorf("decode session: %w", err))
	}
	if session.Selection.Extras == nil {
		session.Selection.Extras = map[uuid.UUID]domain.SelectedExtraState{}
	}
	return session, nil
}

// Save writes a session with a fresh expiry.
func (s *RedisStore) Save(ctx context.Context, session domain.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(session.ID), raw, s.ttl).Err(); err != nil {
		return apperr.Persistence("failed to save quote session", fmt.Errorf("set session: %w", err))
	}
	return nil
}

// Delete removes a session. Deleting a missing session is not an error.
func (s *RedisStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return apperr.Persistence("failed to remove quote session", fmt.Errorf("delete session: %w", err))
	}
	return nil
}
