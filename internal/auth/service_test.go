package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kcitlyn/Astrarium1/internal/companion"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// memStore is an in-memory Store for service tests.
type memStore struct {
	users    map[string]*User // by ID
	pets     map[string]*companion.Companion
	sessions map[string]*Session
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[string]*User),
		pets:     make(map[string]*companion.Companion),
		sessions: make(map[string]*Session),
	}
}

func (m *memStore) CreateUserAndCompanion(_ context.Context, u *User, c *companion.Companion) error {
	for _, existing := range m.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return ErrDuplicateUser
		}
	}
	m.users[u.ID] = u
	m.pets[c.ID] = c
	return nil
}

func (m *memStore) UserByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *memStore) UserByID(_ context.Context, id string) (*User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, ErrUserNotFound
}

func (m *memStore) CreateSession(_ context.Context, s *Session) error {
	m.sessions[s.Token] = s
	return nil
}

func (m *memStore) SessionByToken(_ context.Context, token string) (*Session, error) {
	if s, ok := m.sessions[token]; ok {
		return s, nil
	}
	return nil, ErrInvalidCredentials
}

func (m *memStore) DeleteSession(_ context.Context, token string) error {
	delete(m.sessions, token)
	return nil
}

func validParams() RegisterParams {
	return RegisterParams{
		Email:    "stella@example.com",
		Username: "stella",
		Password: "supernova42",
		PetName:  "Comet",
	}
}

func newTestService(store *memStore) *Service {
	return NewService(store).WithClock(func() time.Time { return testNow })
}

func TestRegister(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	user, pet, err := svc.Register(context.Background(), validParams())
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if user.PasswordHash == "supernova42" {
		t.Error("password stored in plaintext")
	}
	if !user.IsActive {
		t.Error("user not active after registration")
	}
	if pet.UserID != user.ID {
		t.Errorf("pet user = %s, want %s", pet.UserID, user.ID)
	}
	if pet.Name != "Comet" {
		t.Errorf("pet name = %q, want Comet", pet.Name)
	}
	if pet.Stage != companion.StageEgg {
		t.Errorf("pet stage = %q, want egg", pet.Stage)
	}
	if pet.ColorHue < 0 || pet.ColorHue > 360 {
		t.Errorf("color hue = %d, out of [0, 360]", pet.ColorHue)
	}
}

func TestRegisterDefaults(t *testing.T) {
	svc := newTestService(newMemStore())

	params := validParams()
	params.PetName = ""
	params.PetSpecies = "chrono_slug" // unknown

	_, pet, err := svc.Register(context.Background(), params)
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if pet.Name != "Nebula" {
		t.Errorf("pet name = %q, want default Nebula", pet.Name)
	}
	if pet.Species != companion.SpeciesNebulaSprite {
		t.Errorf("species = %q, want default nebula_sprite", pet.Species)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(newMemStore())

	tests := []struct {
		name   string
		mutate func(*RegisterParams)
	}{
		{"empty email", func(p *RegisterParams) { p.Email = "" }},
		{"malformed email", func(p *RegisterParams) { p.Email = "not-an-email" }},
		{"empty username", func(p *RegisterParams) { p.Username = "  " }},
		{"short password", func(p *RegisterParams) { p.Password = "short" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validParams()
			tt.mutate(&params)
			if _, _, err := svc.Register(context.Background(), params); err == nil {
				t.Error("Register() = nil, want error")
			}
		})
	}
}

func TestRegisterDuplicate(t *testing.T) {
	svc := newTestService(newMemStore())
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, validParams()); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	_, _, err := svc.Register(ctx, validParams())
	if !errors.Is(err, ErrDuplicateUser) {
		t.Errorf("second Register() error = %v, want ErrDuplicateUser", err)
	}
}

func TestLoginAndIdentify(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	user, _, err := svc.Register(ctx, validParams())
	if err != nil {
		t.Fatalf("Register(): %v", err)
	}

	session, loggedIn, err := svc.Login(ctx, "STELLA@example.com", "supernova42")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Errorf("login user = %s, want %s", loggedIn.ID, user.ID)
	}
	if session.Token == "" {
		t.Fatal("session token empty")
	}
	if !session.ExpiresAt.After(testNow) {
		t.Error("session already expired at mint")
	}

	identified, err := svc.Identify(ctx, session.Token)
	if err != nil {
		t.Fatalf("Identify() error = %v", err)
	}
	if identified.ID != user.ID {
		t.Errorf("identified user = %s, want %s", identified.ID, user.ID)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(newMemStore())
	ctx := context.Background()

	svc.Register(ctx, validParams())

	_, _, err := svc.Login(ctx, "stella@example.com", "wrong-password")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newTestService(newMemStore())

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "whatever123")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login() error = %v, want ErrInvalidCredentials (no account disclosure)", err)
	}
}

func TestIdentifyExpiredSession(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	svc.Register(ctx, validParams())
	session, _, err := svc.Login(ctx, "stella@example.com", "supernova42")
	if err != nil {
		t.Fatalf("Login(): %v", err)
	}

	// Jump past the TTL.
	svc.WithClock(func() time.Time { return testNow.Add(31 * 24 * time.Hour) })

	if _, err := svc.Identify(ctx, session.Token); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Identify(expired) error = %v, want ErrInvalidCredentials", err)
	}
	if _, ok := store.sessions[session.Token]; ok {
		t.Error("expired session not deleted")
	}
}

func TestIdentifyUnknownToken(t *testing.T) {
	svc := newTestService(newMemStore())
	if _, err := svc.Identify(context.Background(), "bogus"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Identify(bogus) error = %v, want ErrInvalidCredentials", err)
	}
}

func TestLogout(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	svc.Register(ctx, validParams())
	session, _, _ := svc.Login(ctx, "stella@example.com", "supernova42")

	if err := svc.Logout(ctx, session.Token); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if _, err := svc.Identify(ctx, session.Token); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Identify after logout error = %v, want ErrInvalidCredentials", err)
	}
}
