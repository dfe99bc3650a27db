package middleware

import "github.com/gin-gonic/gin"

// SecurityHeaders sets the baseline hardening headers on every response.
// Auth responses carry tokens, so caching is disabled outright.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}
