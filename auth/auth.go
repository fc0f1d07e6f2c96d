// Package auth signs users in with email and password, keeps their sessions
// and decides which paths they may visit.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"

	"golang.org/x/crypto/bcrypt"

	"ledgerdash/logging"
	"ledgerdash/query"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrFetchUser          = errors.New("Failed to fetch user.")
)

const minPasswordLen = 6

type User struct {
	ID       string `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Email    string `db:"email" json:"email"`
	Password string `db:"password" json:"-"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate requires a bare email address and a password of at least six
// characters.
func (c Credentials) Validate() error {
	addr, err := mail.ParseAddress(c.Email)
	if err != nil || addr.Address != c.Email {
		return fmt.Errorf("%w: email", ErrInvalidCredentials)
	}
	if len([]rune(c.Password)) < minPasswordLen {
		return fmt.Errorf("%w: password", ErrInvalidCredentials)
	}
	return nil
}

// Authenticator checks credentials against the users table of the store
// bound to the request.
type Authenticator struct {
	Logger *slog.Logger
}

func (a *Authenticator) log() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return logging.Logger()
}

// GetUser returns the user with email, or nil when there is none.
func (a *Authenticator) GetUser(ctx context.Context, email string) (*User, error) {
	u, err := getUser(ctx, email)
	if err != nil {
		a.log().Error("Failed to fetch user", "error", err)
		return nil, errors.Join(ErrFetchUser, err)
	}
	return u, nil
}

func getUser(ctx context.Context, email string) (*User, error) {
	c, err := query.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	row, ok, err := c.Query(`SELECT * FROM users WHERE email = ${}`, email).First(ctx)
	if err != nil || !ok {
		return nil, err
	}
	u, err := query.DecodeOne[User](row)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Authorize returns the user when the credentials are well formed and the
// password matches. Malformed credentials, unknown users and wrong passwords
// all yield (nil, nil); only store failures are errors.
func (a *Authenticator) Authorize(ctx context.Context, creds Credentials) (*User, error) {
	if err := creds.Validate(); err != nil {
		return nil, nil
	}
	u, err := a.GetUser(ctx, creds.Email)
	if err != nil || u == nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(creds.Password)) != nil {
		return nil, nil
	}
	return u, nil
}

// HashPassword hashes a password the way stored users expect.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
