package sessions

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

var (
	ErrSessionNotFound = errors.New("session not found")
)

// Session связывает идентификатор сессии с пользователем.
type Session struct {
	ID        string    `json:"id"`
	UserID    int       `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at the given instant.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Store persists session records keyed by session id. Which backend sits
// behind it (memory, postgres table, redis) is a startup-time swap.
type Store interface {
	Create(ctx context.Context, userID int, ttl time.Duration) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	// Destroy is idempotent: destroying an unknown session is not an error.
	Destroy(ctx context.Context, id string) error
}

// newSessionID returns a random 32-byte hex token.
func newSessionID() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
