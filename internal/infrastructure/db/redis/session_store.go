package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// noticeTTL bounds how long an undelivered flash notice survives.
const noticeTTL = 10 * time.Minute

// SessionStore backs session revocation and flash notices with Redis.
// Key formats:
//
//	session:revoked:<jti>   "1", expires with the token
//	notices:<username>      list of pending user-visible messages
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// Revoke denylists a session ID until the underlying token expires.
func (s *SessionStore) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.revokedKey(sessionID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// IsRevoked reports whether this session has been logged out.
func (s *SessionStore) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.revokedKey(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

// PushNotice queues a one-shot user-visible message for the account.
func (s *SessionStore) PushNotice(ctx context.Context, username, notice string) error {
	key := s.noticesKey(username)
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, notice)
	pipe.Expire(ctx, key, noticeTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("push notice: %w", err)
	}
	return nil
}

// PopNotices drains all pending notices for the account.
func (s *SessionStore) PopNotices(ctx context.Context, username string) ([]string, error) {
	key := s.noticesKey(username)
	pipe := s.client.TxPipeline()
	rangeCmd := pipe.LRange(ctx, key, 0, -1)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("pop notices: %w", err)
	}
	return rangeCmd.Val(), nil
}

func (s *SessionStore) revokedKey(sessionID string) string {
	return "session:revoked:" + sessionID
}

func (s *SessionStore) noticesKey(username string) string {
	return "notices:" + username
}
