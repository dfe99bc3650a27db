package dto

import (
	"regexp"
	"strings"
)

// LoginRequest represents a login request
type LoginRequest struct {
	RG         string `json:"rg" binding:"required"`
	Password   string `json:"password" binding:"required"`
	DeviceInfo string `json:"device_info"`
}

// RefreshTokenRequest represents a refresh token request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// AuthResponse represents an authentication response
type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"`
	User         UserResponse `json:"user"`
}

// UserResponse represents user data in an authentication response
type UserResponse struct {
	ID         string `json:"id"`
	MilitaryID string `json:"military_id"`
	Role       string `json:"role"`
}

var rgPattern = regexp.MustCompile(`^[0-9]{4,10}$`)

// SanitizeCredentials strips whitespace and formatting characters from the
// supplied credentials. The RG keeps digits only (users paste it with dots
// and dashes); the password is trimmed but otherwise untouched.
func SanitizeCredentials(req *LoginRequest) (rg, password string) {
	return SanitizeRG(req.RG), strings.TrimSpace(req.Password)
}

// SanitizeRG keeps only the digits of a registry identifier
func SanitizeRG(rg string) string {
	var b strings.Builder
	for _, c := range rg {
		if c >= '0' && c <= '9' {
			b.WriteByte(byte(c))
		}
	}
	return b.String()
}

// ValidateRG checks the registry identifier format (4 to 10 digits)
func ValidateRG(rg string) (bool, string) {
	if !rgPattern.MatchString(rg) {
		return false, "RG must be 4 to 10 digits"
	}
	return true, ""
}
