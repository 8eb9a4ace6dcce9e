package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"career-advisor/internal/domain"
)

type mockUserRepo struct {
	usersByID    map[string]domain.User
	usersByEmail map[string]string
	createErr    error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID:    make(map[string]domain.User),
		usersByEmail: make(map[string]string),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.usersByID[user.ID] = user
	m.usersByEmail[user.Email] = user.ID
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	id, ok := m.usersByEmail[email]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.GetByID(ctx, id)
}

type denyLimiter struct{}

func (denyLimiter) Allow(context.Context, string) bool { return false }

func TestUserServiceRegister(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo, nil)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Email: "  Ana@Example.com ", Password: "supersecret", DisplayName: " Ana "})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "ana@example.com" || user.DisplayName != "Ana" {
		t.Fatalf("expected normalized user, got %+v", user)
	}
	if user.PasswordHash == "" || user.PasswordHash == "supersecret" {
		t.Fatalf("expected hashed password")
	}
	if _, ok := repo.usersByID[user.ID]; !ok {
		t.Fatalf("expected user persisted")
	}

	if _, err := svc.Register(ctx, RegisterInput{Email: "ana@example.com", Password: "anotherpass"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUserServiceRegister_Validation(t *testing.T) {
	svc := NewUserService(zap.NewNop(), newMockUserRepo(), nil)
	ctx := context.Background()

	cases := []struct {
		name  string
		input RegisterInput
		want  error
	}{
		{"empty email", RegisterInput{Email: "", Password: "supersecret"}, ErrInvalidEmail},
		{"no at", RegisterInput{Email: "ana.example.com", Password: "supersecret"}, ErrInvalidEmail},
		{"no domain dot", RegisterInput{Email: "ana@example", Password: "supersecret"}, ErrInvalidEmail},
		{"short password", RegisterInput{Email: "ana@example.com", Password: "short"}, ErrWeakPassword},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(ctx, tc.input); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestUserServiceAuthenticate(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(zap.NewNop(), repo, nil)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterInput{Email: "bob@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	user, err := svc.Authenticate(ctx, "BOB@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.ID != registered.ID {
		t.Fatalf("expected same user")
	}

	if _, err := svc.Authenticate(ctx, "bob@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody@example.com", "correct-horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestUserServiceAuthenticate_RateLimited(t *testing.T) {
	svc := NewUserService(zap.NewNop(), newMockUserRepo(), denyLimiter{})
	if _, err := svc.Authenticate(context.Background(), "bob@example.com", "whatever1"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestUserServiceGetByID(t *testing.T) {
	repo := newMockUserRepo()
	repo.usersByID["u1"] = domain.User{ID: "u1", Email: "u1@example.com"}
	svc := NewUserService(zap.NewNop(), repo, nil)

	user, err := svc.GetByID(context.Background(), "u1")
	if err != nil || user.Email != "u1@example.com" {
		t.Fatalf("unexpected result %+v, %v", user, err)
	}
	if _, err := svc.GetByID(context.Background(), "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
