package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"career-advisor/internal/domain"
	"career-advisor/internal/repository"
)

// MinPasswordLength es la longitud minima aceptada al registrarse.
const MinPasswordLength = 8

// UserService coordina registro y autenticacion de usuarios.
type UserService struct {
	logger  *zap.Logger
	users   repository.UserRepository
	limiter LoginLimiter
}

func NewUserService(logger *zap.Logger, users repository.UserRepository, limiter LoginLimiter) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if limiter == nil {
		limiter = NewMemoryLoginLimiter(10*time.Minute, 5)
	}
	return &UserService{
		logger:  logger,
		users:   users,
		limiter: limiter,
	}
}

type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
}

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password too short")
	ErrRateLimited        = errors.New("rate limited")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("invalid email")
)

func (s *UserService) Register(ctx context.Context, input RegisterInput) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}

	email := normalizeEmail(input.Email)
	if !looksLikeEmail(email) {
		return domain.User{}, ErrInvalidEmail
	}
	if utf8.RuneCountInString(input.Password) < MinPasswordLength {
		return domain.User{}, ErrWeakPassword
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return domain.User{}, ErrEmailTaken
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		DisplayName:  strings.TrimSpace(input.DisplayName),
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID))
	return user, nil
}

// Authenticate valida credenciales. Cada intento cuenta para el limitador por email,
// incluso los exitosos.
func (s *UserService) Authenticate(ctx context.Context, emailAddr, password string) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}

	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}
	if !s.limiter.Allow(ctx, emailAddr) {
		s.logger.Warn("login rate limited", zap.String("email", emailAddr))
		return domain.User{}, ErrRateLimited
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if user.PasswordHash == "" {
		return domain.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}
	user, err := s.users.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func looksLikeEmail(email string) bool {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	return !strings.ContainsAny(email, " \t\n") && strings.Contains(email[at+1:], ".")
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
