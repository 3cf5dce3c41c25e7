// Package auth handles account registration, login, and bearer-token
// sessions. Registration also hatches the user's companion, atomically
// with the account itself.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/kcitlyn/Astrarium1/internal/companion"
)

// ErrDuplicateUser is returned when the email or username is taken.
var ErrDuplicateUser = errors.New("email or username already registered")

// ErrInvalidCredentials is returned for a bad email/password pair and
// for invalid or expired session tokens.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrUserNotFound is returned when a user record is missing.
var ErrUserNotFound = errors.New("user not found")

// ErrInvalidInput wraps registration validation failures.
var ErrInvalidInput = errors.New("invalid input")

// User is one registered account.
type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	IsActive     bool

	// StreakCount is the consecutive-day practice streak.
	StreakCount int

	// LastPracticeDate is nil until the first answer is submitted.
	LastPracticeDate *time.Time

	TotalXP int
}

// Session is one bearer-token login session.
type Session struct {
	Token     string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store is the persistence contract the auth service depends on.
type Store interface {
	// CreateUserAndCompanion inserts both records in one transaction.
	// Returns ErrDuplicateUser when the email or username is taken.
	CreateUserAndCompanion(ctx context.Context, u *User, c *companion.Companion) error

	// UserByEmail returns ErrUserNotFound when no account matches.
	UserByEmail(ctx context.Context, email string) (*User, error)

	// UserByID returns ErrUserNotFound when no account matches.
	UserByID(ctx context.Context, id string) (*User, error)

	CreateSession(ctx context.Context, s *Session) error

	// SessionByToken returns ErrInvalidCredentials when the token is
	// unknown.
	SessionByToken(ctx context.Context, token string) (*Session, error)

	DeleteSession(ctx context.Context, token string) error
}
