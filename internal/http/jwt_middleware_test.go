package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"career-advisor/internal/domain"
	"career-advisor/internal/service"
)

func protectedRouter(jwtSvc *service.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", JWTAuthMiddleware(jwtSvc), func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		c.String(http.StatusOK, userID)
	})
	return r
}

func TestJWTAuthMiddleware_AllowsValidAccessToken(t *testing.T) {
	jwtSvc := service.NewJWTService("secret", 15*time.Minute, 30*time.Minute, nil)
	pair, err := jwtSvc.GeneratePair(context.Background(), domain.User{ID: "u1", Email: "user@example.com"})
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}

	for _, scheme := range []string{"Bearer ", "bearer "} {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", scheme+pair.AccessToken)
		rec := httptest.NewRecorder()
		protectedRouter(jwtSvc).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK || rec.Body.String() != "u1" {
			t.Fatalf("scheme %q: expected 200 u1, got %d %q", scheme, rec.Code, rec.Body.String())
		}
	}
}

func TestJWTAuthMiddleware_Rejects(t *testing.T) {
	jwtSvc := service.NewJWTService("secret", 15*time.Minute, 30*time.Minute, nil)
	pair, err := jwtSvc.GeneratePair(context.Background(), domain.User{ID: "u1"})
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}

	cases := map[string]string{
		"missing":       "",
		"no scheme":     pair.AccessToken,
		"garbage":       "Bearer not-a-jwt",
		"refresh token": "Bearer " + pair.RefreshToken,
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			protectedRouter(jwtSvc).ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}
