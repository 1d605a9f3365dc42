package cache

import (
	"context"
	"errors"

	"github.com/fjod/go_cinema/internal/domain"
)

type CartCache interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	Set(ctx context.Context, userID string, cart *domain.Cart) error
	Delete(ctx context.Context, userID string) error
}

// SessionStore holds the active user per session. Unlike the cart cache it
// is the system of record for sessions, so entries carry no expiry jitter.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*domain.User, error)
	Set(ctx context.Context, sessionID string, user *domain.User) error
	Delete(ctx context.Context, sessionID string) error
}

var ErrCacheMiss = errors.New("cache miss")

// ErrSessionNotFound is returned for unknown or expired sessions.
var ErrSessionNotFound = errors.New("session not found")
