package domain

import "time"

// Session represents one authenticated device/browser instance.
//
// RefreshToken uniquely identifies the session. Once IsActive is false the
// session is terminal and must never be reactivated. IPAddress is compared
// verbatim on every refresh; a mismatch is treated as hijack evidence.
type Session struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	AccessToken  string    `json:"-"` // last issued, kept for audit/rotation
	RefreshToken string    `json:"-"`
	DeviceInfo   string    `json:"device_info"`
	IPAddress    string    `json:"ip_address"`
	UserAgent    string    `json:"user_agent"`
	IsActive     bool      `json:"is_active"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
	LastAccessAt time.Time `json:"last_access_at"`
}

// AccessTokenPayload carries the identity claims embedded in access tokens
type AccessTokenPayload struct {
	UserID     string `json:"user_id"`
	SessionID  string `json:"session_id"`
	Role       Role   `json:"role"`
	MilitaryID string `json:"military_id"`
}

// RefreshTokenPayload is intentionally narrower than the access payload:
// refresh tokens must not carry authorization attributes that can go stale.
type RefreshTokenPayload struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
}
