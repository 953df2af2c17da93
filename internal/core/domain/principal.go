package domain

import "time"

// Principal identifies the authenticated account behind one request. It is
// built by the session middleware and passed explicitly through the request
// context; handlers never read ambient auth state.
type Principal struct {
	Username  string
	Role      Role
	SessionID string
	ExpiresAt time.Time
}
