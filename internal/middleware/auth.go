package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/domain"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/service"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/pkg/response"
)

// Context keys set by Authentication
const (
	CtxUserID     = "user_id"
	CtxSessionID  = "session_id"
	CtxRole       = "role"
	CtxMilitaryID = "military_id"
)

// Authentication verifies the bearer access token and checks that the
// session behind it is still live. The token being well-signed is not
// enough: logout and hijack termination must take effect immediately.
func Authentication(tokens service.TokenService, auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokens.ExtractTokenFromHeader(c.GetHeader("Authorization"))
		if token == "" {
			response.Unauthorized(c, "token required")
			c.Abort()
			return
		}

		payload, err := tokens.VerifyAccessToken(token)
		if err != nil {
			if errors.Is(err, domain.ErrTokenExpired) {
				response.Unauthorized(c, "token expired")
			} else {
				response.Unauthorized(c, "invalid token")
			}
			c.Abort()
			return
		}

		if !auth.ValidateSession(c.Request.Context(), payload.SessionID, token) {
			response.Unauthorized(c, "invalid or expired session")
			c.Abort()
			return
		}

		c.Set(CtxUserID, payload.UserID)
		c.Set(CtxSessionID, payload.SessionID)
		c.Set(CtxRole, string(payload.Role))
		c.Set(CtxMilitaryID, payload.MilitaryID)

		c.Next()
	}
}

// RequireRoles allows the request only when the authenticated role is one of
// the given roles. Must run after Authentication.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[string(role)] = struct{}{}
	}

	return func(c *gin.Context) {
		role := c.GetString(CtxRole)
		if _, ok := allowed[role]; !ok {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "insufficient privileges", "")
			c.Abort()
			return
		}
		c.Next()
	}
}
