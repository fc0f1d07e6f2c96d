package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ledgerdash/storage"
)

// DefaultSessionTTL applies when NewSessionStore is given no TTL.
const DefaultSessionTTL = 24 * time.Hour

var ErrNoSessionBackend = errors.New("no session backend for connection")

type Session struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}

// Expired reports whether the session has lapsed at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// SessionStore keeps login sessions. Get reports false for unknown or expired
// tokens.
type SessionStore interface {
	Create(ctx context.Context, userID string) (Session, error)
	Get(ctx context.Context, token string) (Session, bool, error)
	Delete(ctx context.Context, token string) error
}

// NewSessionStore picks the backend for conn: any SQL store the storage
// registry accepts, or a Mongo database.
func NewSessionStore(conn any, ttl time.Duration) (SessionStore, error) {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	a, err := storage.RegistryAdapter(conn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoSessionBackend, err)
	}
	switch a := a.(type) {
	case storage.Store:
		return newSQLSessionStore(a, ttl), nil
	case *storage.MongoAdapter:
		return newMongoSessionStore(a.DB, ttl), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNoSessionBackend, a.Dialect())
}

type clock struct {
	ttl time.Duration
	now func() time.Time
}

func (c clock) newSession(userID string) Session {
	return Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: c.now().Add(c.ttl).Truncate(time.Second),
	}
}
