package ports

import (
	"context"
	"time"
)

// SessionStore tracks revoked session IDs and one-shot user notices.
// Logout writes the session ID here for the token's remaining lifetime;
// the session middleware rejects any cookie whose ID is present.
type SessionStore interface {
	Revoke(ctx context.Context, sessionID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)

	// PushNotice queues a user-visible message for the account; PopNotices
	// drains the queue. Used for the access-denied and registration
	// success flashes rendered by the next dashboard response.
	PushNotice(ctx context.Context, username, notice string) error
	PopNotices(ctx context.Context, username string) ([]string, error)
}
