package session

import (
	"context"
	"errors"
	"time"
)

var ErrNoToken = errors.New("no persisted token")

// TokenStore persists the bearer token across runs.
type TokenStore interface {
	// Load returns ErrNoToken when nothing is stored.
	Load(ctx context.Context) (string, error)
	// Save stores token. A zero expiresAt means no expiry is known.
	Save(ctx context.Context, token string, expiresAt time.Time) error
	Clear(ctx context.Context) error
}
