package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/domain"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/dto"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/middleware"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/service"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/pkg/response"
)

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	authService  service.AuthService
	tokenService service.TokenService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthService, tokenService service.TokenService) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		tokenService: tokenService,
	}
}

// Login handles user login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "rg and password are required")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req, c.ClientIP(), c.GetHeader("User-Agent"))
	if err != nil {
		h.writeAuthError(c, err)
		return
	}

	response.Success(c, result)
}

// RefreshToken handles access token renewal
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "refresh_token is required")
		return
	}

	result, err := h.authService.RefreshToken(c.Request.Context(), &req, c.ClientIP(), c.GetHeader("User-Agent"))
	if err != nil {
		h.writeAuthError(c, err)
		return
	}

	response.Success(c, result)
}

// Logout terminates the current session
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	token := h.tokenService.ExtractTokenFromHeader(c.GetHeader("Authorization"))

	// Logout never fails; the token may already be dead
	_ = h.authService.Logout(c.Request.Context(), token)

	response.Success(c, gin.H{"message": "logged out"})
}

// LogoutAll terminates every session of the authenticated user
// POST /api/v1/auth/logout-all
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserID)
	if userID == "" {
		response.Unauthorized(c, "token required")
		return
	}

	_ = h.authService.LogoutAll(c.Request.Context(), userID)

	response.Success(c, gin.H{"message": "all sessions terminated"})
}

// Me returns the authenticated identity extracted from the access token
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	response.Success(c, dto.UserResponse{
		ID:         c.GetString(middleware.CtxUserID),
		MilitaryID: c.GetString(middleware.CtxMilitaryID),
		Role:       c.GetString(middleware.CtxRole),
	})
}

// writeAuthError maps domain errors to HTTP responses. Internal detail was
// already logged by the service and is never echoed to clients.
func (h *AuthHandler) writeAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrTooManyRequests):
		response.TooManyRequests(c, "too many login attempts, try again later")
	case errors.Is(err, domain.ErrSessionCompromised):
		response.Unauthorized(c, "session terminated for security reasons")
	case domain.IsUnauthorizedError(err):
		response.Unauthorized(c, err.Error())
	case domain.IsNotFoundError(err):
		response.NotFound(c, err.Error())
	case domain.IsValidationError(err):
		response.BadRequest(c, err.Error())
	default:
		response.InternalError(c, "authentication unavailable")
	}
}
