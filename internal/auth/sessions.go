package auth

import (
	"context"
	"errors"
	"time"
)

const (
	// SessionTokenBytes of randomness per token, rendered as 32 hex chars
	SessionTokenBytes = 16

	DefaultTTL = 24 * time.Hour
)

// ErrNoSession is returned for tokens that are unknown or expired.
// The two cases are deliberately indistinguishable to callers.
var ErrNoSession = errors.New("no session")

type Session struct {
	Token     string
	Username  string
	ExpiresAt time.Time
}

// SessionStore hands out and validates opaque session tokens.
//
// Validate uses sliding expiration: every successful call pushes the
// session expiry forward by the full TTL, so an expiry timestamp only
// ever moves into the future while the session is in use.
type SessionStore interface {
	Create(ctx context.Context, username string) (*Session, error)
	Validate(ctx context.Context, token string) (*Session, error)
	Invalidate(ctx context.Context, token string) error
}
