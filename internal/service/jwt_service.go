package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"career-advisor/internal/domain"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
	jwtIssuer        = "career-advisor"
)

// JWTService emite y valida tokens JWT.
type JWTService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	issuer     string
	store      RefreshTokenStore
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type Claims struct {
	UserID      string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
	TokenType   string `json:"typ"`
	jwt.RegisteredClaims
}

var (
	ErrJWTInvalid = errors.New("jwt invalid")
	ErrJWTExpired = errors.New("jwt expired")
)

// NewJWTService usa un store en memoria si store es nil.
func NewJWTService(secret string, accessTTL, refreshTTL time.Duration, store RefreshTokenStore) *JWTService {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 30 * 24 * time.Hour
	}
	if store == nil {
		store = NewMemoryRefreshTokenStore()
	}
	return &JWTService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		issuer:     jwtIssuer,
		store:      store,
	}
}

func (s *JWTService) GeneratePair(ctx context.Context, user domain.User) (TokenPair, error) {
	if len(s.secret) == 0 {
		return TokenPair{}, ErrJWTInvalid
	}
	now := time.Now().UTC()
	access, _, err := s.sign(user, now, s.accessTTL, tokenTypeAccess)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, jti, err := s.sign(user, now, s.refreshTTL, tokenTypeRefresh)
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.store.Store(ctx, jti, user.ID, s.refreshTTL); err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

// RefreshPair rota el refresh token: el jti usado queda revocado.
func (s *JWTService) RefreshPair(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.parseRefresh(refreshToken)
	if err != nil {
		return TokenPair{}, err
	}
	ok, err := s.store.Consume(ctx, claims.ID)
	if err != nil || !ok {
		return TokenPair{}, ErrJWTInvalid
	}

	return s.GeneratePair(ctx, domain.User{
		ID:          claims.UserID,
		Email:       claims.Email,
		DisplayName: claims.DisplayName,
	})
}

func (s *JWTService) RevokeRefresh(ctx context.Context, refreshToken string) error {
	claims, err := s.parseRefresh(refreshToken)
	if err != nil {
		return err
	}
	return s.store.Revoke(ctx, claims.ID)
}

func (s *JWTService) ParseAccessToken(accessToken string) (Claims, error) {
	if len(s.secret) == 0 || strings.TrimSpace(accessToken) == "" {
		return Claims{}, ErrJWTInvalid
	}
	claims, err := s.parseToken(accessToken)
	if err != nil {
		return Claims{}, err
	}
	if claims.TokenType != tokenTypeAccess || !s.isValidClaims(claims) {
		return Claims{}, ErrJWTInvalid
	}
	return claims, nil
}

func (s *JWTService) parseRefresh(refreshToken string) (Claims, error) {
	if len(s.secret) == 0 || strings.TrimSpace(refreshToken) == "" {
		return Claims{}, ErrJWTInvalid
	}
	claims, err := s.parseToken(refreshToken)
	if err != nil {
		return Claims{}, err
	}
	if claims.TokenType != tokenTypeRefresh || claims.ID == "" || !s.isValidClaims(claims) {
		return Claims{}, ErrJWTInvalid
	}
	return claims, nil
}

func (s *JWTService) sign(user domain.User, now time.Time, ttl time.Duration, tokenType string) (string, string, error) {
	claims := Claims{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		TokenType:   tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if tokenType == tokenTypeRefresh {
		claims.ID = uuid.NewString()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	return signed, claims.ID, err
}

func (s *JWTService) parseToken(tokenString string) (Claims, error) {
	var claims Claims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrJWTExpired
		}
		return Claims{}, ErrJWTInvalid
	}
	return claims, nil
}

func (s *JWTService) isValidClaims(claims Claims) bool {
	if strings.TrimSpace(claims.UserID) == "" || claims.Subject != claims.UserID {
		return false
	}
	return claims.Issuer == s.issuer
}
