package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/domain"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/dto"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/service"
)

// stubAuthService only answers ValidateSession; the middleware needs nothing
// else
type stubAuthService struct {
	valid bool
}

func (s *stubAuthService) Login(context.Context, *dto.LoginRequest, string, string) (*dto.AuthResponse, error) {
	return nil, nil
}

func (s *stubAuthService) RefreshToken(context.Context, *dto.RefreshTokenRequest, string, string) (*dto.AuthResponse, error) {
	return nil, nil
}

func (s *stubAuthService) Logout(context.Context, string) error { return nil }

func (s *stubAuthService) LogoutAll(context.Context, string) error { return nil }

func (s *stubAuthService) ValidateSession(context.Context, string, string) bool {
	return s.valid
}

func newTokenService(accessTTL time.Duration) service.TokenService {
	return service.NewTokenService(&service.TokenServiceConfig{
		AccessSecret:   "middleware-test-secret",
		RefreshSecret:  "middleware-test-refresh-secret",
		AccessTokenTTL: accessTTL,
	})
}

func setupRouter(tokens service.TokenService, auth service.AuthService, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	handlers := append([]gin.HandlerFunc{Authentication(tokens, auth)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString(CtxUserID),
			"role":    c.GetString(CtxRole),
		})
	})

	router.GET("/protected", handlers...)
	return router
}

func get(router *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func issueToken(t *testing.T, tokens service.TokenService, role domain.Role) string {
	t.Helper()
	token, err := tokens.GenerateAccessToken(&domain.AccessTokenPayload{
		UserID:     "user-1",
		SessionID:  "session-1",
		Role:       role,
		MilitaryID: "personnel-1",
	})
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return token
}

func TestAuthentication(t *testing.T) {
	tokens := newTokenService(15 * time.Minute)

	t.Run("valid token and live session", func(t *testing.T) {
		router := setupRouter(tokens, &stubAuthService{valid: true})
		token := issueToken(t, tokens, domain.RoleOperator)

		w := get(router, "Bearer "+token)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "user-1")
	})

	t.Run("missing header", func(t *testing.T) {
		router := setupRouter(tokens, &stubAuthService{valid: true})

		w := get(router, "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "token required")
	})

	t.Run("malformed header", func(t *testing.T) {
		router := setupRouter(tokens, &stubAuthService{valid: true})
		token := issueToken(t, tokens, domain.RoleOperator)

		for _, header := range []string{"bearer " + token, token, "Bearer " + token + " extra"} {
			w := get(router, header)
			assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		expired := newTokenService(-time.Minute)
		router := setupRouter(tokens, &stubAuthService{valid: true})
		token := issueToken(t, expired, domain.RoleOperator)

		w := get(router, "Bearer "+token)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "token expired")
	})

	t.Run("dead session rejects well-signed token", func(t *testing.T) {
		router := setupRouter(tokens, &stubAuthService{valid: false})
		token := issueToken(t, tokens, domain.RoleOperator)

		w := get(router, "Bearer "+token)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "session")
	})
}

func TestRequireRoles(t *testing.T) {
	tokens := newTokenService(15 * time.Minute)

	t.Run("allowed role", func(t *testing.T) {
		router := setupRouter(tokens, &stubAuthService{valid: true},
			RequireRoles(domain.RoleAdmin, domain.RoleChief))
		token := issueToken(t, tokens, domain.RoleAdmin)

		w := get(router, "Bearer "+token)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("forbidden role", func(t *testing.T) {
		router := setupRouter(tokens, &stubAuthService{valid: true},
			RequireRoles(domain.RoleAdmin))
		token := issueToken(t, tokens, domain.RoleStandard)

		w := get(router, "Bearer "+token)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestSecurityHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(SecurityHeaders())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}
