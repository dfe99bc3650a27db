package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/domain"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/dto"
)

// MockAuthService is a mock implementation of AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, req *dto.LoginRequest, ip, userAgent string) (*dto.AuthResponse, error) {
	args := m.Called(ctx, req, ip, userAgent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AuthResponse), args.Error(1)
}

func (m *MockAuthService) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest, ip, userAgent string) (*dto.AuthResponse, error) {
	args := m.Called(ctx, req, ip, userAgent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AuthResponse), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, accessToken string) error {
	args := m.Called(ctx, accessToken)
	return args.Error(0)
}

func (m *MockAuthService) LogoutAll(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockAuthService) ValidateSession(ctx context.Context, sessionID, accessToken string) bool {
	args := m.Called(ctx, sessionID, accessToken)
	return args.Bool(0)
}

// MockTokenService is a mock implementation of TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateAccessToken(payload *domain.AccessTokenPayload) (string, error) {
	args := m.Called(payload)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) GenerateRefreshToken(payload *domain.RefreshTokenPayload) (string, error) {
	args := m.Called(payload)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) VerifyAccessToken(token string) (*domain.AccessTokenPayload, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccessTokenPayload), args.Error(1)
}

func (m *MockTokenService) VerifyRefreshToken(token string) (*domain.RefreshTokenPayload, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RefreshTokenPayload), args.Error(1)
}

func (m *MockTokenService) ExtractTokenFromHeader(header string) string {
	args := m.Called(header)
	return args.String(0)
}

func setupAuthTestRouter(handler *AuthHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	// Stand-in for the authentication middleware
	router.Use(func(c *gin.Context) {
		if userID := c.GetHeader("X-User-ID"); userID != "" {
			c.Set("user_id", userID)
		}
		c.Next()
	})

	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/login", handler.Login)
		auth.POST("/refresh", handler.RefreshToken)
		auth.POST("/logout", handler.Logout)
		auth.POST("/logout-all", handler.LogoutAll)
	}

	return router
}

func postJSON(router *gin.Engine, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		authSvc := new(MockAuthService)
		tokenSvc := new(MockTokenService)
		router := setupAuthTestRouter(NewAuthHandler(authSvc, tokenSvc))

		authSvc.On("Login", mock.Anything, mock.AnythingOfType("*dto.LoginRequest"), mock.Anything, mock.Anything).
			Return(&dto.AuthResponse{
				AccessToken:  "access",
				RefreshToken: "refresh",
				ExpiresIn:    900,
				User:         dto.UserResponse{ID: "user-1", Role: "operator"},
			}, nil)

		w := postJSON(router, "/api/v1/auth/login", dto.LoginRequest{RG: "123456", Password: "secret"}, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "access")
		authSvc.AssertExpectations(t)
	})

	t.Run("missing fields", func(t *testing.T) {
		authSvc := new(MockAuthService)
		tokenSvc := new(MockTokenService)
		router := setupAuthTestRouter(NewAuthHandler(authSvc, tokenSvc))

		w := postJSON(router, "/api/v1/auth/login", gin.H{"rg": "123456"}, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		authSvc.AssertNotCalled(t, "Login")
	})

	t.Run("invalid credentials", func(t *testing.T) {
		authSvc := new(MockAuthService)
		tokenSvc := new(MockTokenService)
		router := setupAuthTestRouter(NewAuthHandler(authSvc, tokenSvc))

		authSvc.On("Login", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, domain.ErrInvalidCredentials)

		w := postJSON(router, "/api/v1/auth/login", dto.LoginRequest{RG: "123456", Password: "wrong"}, nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rate limited", func(t *testing.T) {
		authSvc := new(MockAuthService)
		tokenSvc := new(MockTokenService)
		router := setupAuthTestRouter(NewAuthHandler(authSvc, tokenSvc))

		authSvc.On("Login", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, domain.ErrTooManyRequests)

		w := postJSON(router, "/api/v1/auth/login", dto.LoginRequest{RG: "123456", Password: "secret"}, nil)

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})

	t.Run("internal failure is not leaked", func(t *testing.T) {
		authSvc := new(MockAuthService)
		tokenSvc := new(MockTokenService)
		router := setupAuthTestRouter(NewAuthHandler(authSvc, tokenSvc))

		authSvc.On("Login", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, domain.ErrAuthProcess)

		w := postJSON(router, "/api/v1/auth/login", dto.LoginRequest{RG: "123456", Password: "secret"}, nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), domain.ErrAuthProcess.Error())
	})
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		authSvc := new(MockAuthService)
		tokenSvc := new(MockTokenService)
		router := setupAuthTestRouter(NewAuthHandler(authSvc, tokenSvc))

		authSvc.On("RefreshToken", mock.Anything, mock.AnythingOfType("*dto.RefreshTokenRequest"), mock.Anything, mock.Anything).
			Return(&dto.AuthResponse{AccessToken: "new-access", RefreshToken: "refresh", ExpiresIn: 900}, nil)

		w := postJSON(router, "/api/v1/auth/refresh", dto.RefreshTokenRequest{RefreshToken: "refresh"}, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "new-access")
	})

	t.Run("compromised session", func(t *testing.T) {
		authSvc := new(MockAuthService)
		tokenSvc := new(MockTokenService)
		router := setupAuthTestRouter(NewAuthHandler(authSvc, tokenSvc))

		authSvc.On("RefreshToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, domain.ErrSessionCompromised)

		w := postJSON(router, "/api/v1/auth/refresh", dto.RefreshTokenRequest{RefreshToken: "stolen"}, nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "security")
	})

	t.Run("expired refresh token", func(t *testing.T) {
		authSvc := new(MockAuthService)
		tokenSvc := new(MockTokenService)
		router := setupAuthTestRouter(NewAuthHandler(authSvc, tokenSvc))

		authSvc.On("RefreshToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, domain.ErrTokenExpired)

		w := postJSON(router, "/api/v1/auth/refresh", dto.RefreshTokenRequest{RefreshToken: "old"}, nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("vanished user maps to not found", func(t *testing.T) {
		authSvc := new(MockAuthService)
		tokenSvc := new(MockTokenService)
		router := setupAuthTestRouter(NewAuthHandler(authSvc, tokenSvc))

		authSvc.On("RefreshToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, domain.ErrUserNotFound)

		w := postJSON(router, "/api/v1/auth/refresh", dto.RefreshTokenRequest{RefreshToken: "orphaned"}, nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("missing refresh token", func(t *testing.T) {
		authSvc := new(MockAuthService)
		tokenSvc := new(MockTokenService)
		router := setupAuthTestRouter(NewAuthHandler(authSvc, tokenSvc))

		w := postJSON(router, "/api/v1/auth/refresh", gin.H{}, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		authSvc.AssertNotCalled(t, "RefreshToken")
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	authSvc := new(MockAuthService)
	tokenSvc := new(MockTokenService)
	router := setupAuthTestRouter(NewAuthHandler(authSvc, tokenSvc))

	tokenSvc.On("ExtractTokenFromHeader", "Bearer some-token").Return("some-token")
	authSvc.On("Logout", mock.Anything, "some-token").Return(nil)

	w := postJSON(router, "/api/v1/auth/logout", nil, map[string]string{"Authorization": "Bearer some-token"})

	assert.Equal(t, http.StatusOK, w.Code)
	authSvc.AssertExpectations(t)
	tokenSvc.AssertExpectations(t)
}

func TestAuthHandler_LogoutAll(t *testing.T) {
	t.Run("authenticated", func(t *testing.T) {
		authSvc := new(MockAuthService)
		tokenSvc := new(MockTokenService)
		router := setupAuthTestRouter(NewAuthHandler(authSvc, tokenSvc))

		authSvc.On("LogoutAll", mock.Anything, "user-1").Return(nil)

		w := postJSON(router, "/api/v1/auth/logout-all", nil, map[string]string{"X-User-ID": "user-1"})

		assert.Equal(t, http.StatusOK, w.Code)
		authSvc.AssertExpectations(t)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		authSvc := new(MockAuthService)
		tokenSvc := new(MockTokenService)
		router := setupAuthTestRouter(NewAuthHandler(authSvc, tokenSvc))

		w := postJSON(router, "/api/v1/auth/logout-all", nil, nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		authSvc.AssertNotCalled(t, "LogoutAll")
	})
}
