package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	mrand "math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/kcitlyn/Astrarium1/internal/companion"
)

// sessionTTL is how long a login session stays valid.
const sessionTTL = 30 * 24 * time.Hour

const defaultPetName = "Nebula"

// Service implements registration, login, and token identification.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService creates an auth service.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// WithClock overrides the service clock, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// RegisterParams carries a registration request.
type RegisterParams struct {
	Email    string
	Username string
	Password string

	// PetName defaults to "Nebula" when empty.
	PetName string

	// PetSpecies falls back to the default species when unknown.
	PetSpecies string
}

// Register creates the account and hatches its companion.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*User, *companion.Companion, error) {
	email := strings.TrimSpace(strings.ToLower(params.Email))
	username := strings.TrimSpace(params.Username)

	if email == "" || !strings.Contains(email, "@") {
		return nil, nil, fmt.Errorf("%w: a valid email is required", ErrInvalidInput)
	}
	if username == "" {
		return nil, nil, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if len(params.Password) < 8 {
		return nil, nil, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	user := &User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    now,
		IsActive:     true,
	}

	petName := strings.TrimSpace(params.PetName)
	if petName == "" {
		petName = defaultPetName
	}

	pet := companion.New(
		uuid.NewString(),
		user.ID,
		petName,
		companion.Species(params.PetSpecies),
		mrand.IntN(361),
		now,
	)

	if err := s.store.CreateUserAndCompanion(ctx, user, pet); err != nil {
		return nil, nil, err
	}
	return user, pet, nil
}

// Login verifies credentials and mints a session token.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, *User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.store.UserByEmail(ctx, email)
	if err != nil {
		// Do not reveal whether the account exists.
		return nil, nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, nil, ErrInvalidCredentials
	}

	token, err := newToken()
	if err != nil {
		return nil, nil, err
	}

	now := s.now().UTC()
	session := &Session{
		Token:     token,
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(sessionTTL),
	}

	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("create session: %w", err)
	}
	return session, user, nil
}

// Identify resolves a bearer token to its user. Expired sessions are
// deleted on sight.
func (s *Service) Identify(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, ErrInvalidCredentials
	}

	session, err := s.store.SessionByToken(ctx, token)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if session.Expired(s.now().UTC()) {
		_ = s.store.DeleteSession(ctx, token)
		return nil, ErrInvalidCredentials
	}

	user, err := s.store.UserByID(ctx, session.UserID)
	if err != nil || !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Logout invalidates a session token.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.store.DeleteSession(ctx, token)
}

// newToken returns 32 bytes of hex-encoded randomness.
func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
