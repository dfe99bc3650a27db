package service

import (
	"errors"
	"testing"
	"time"

	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/domain"
)

func newTestTokenService(accessTTL, refreshTTL time.Duration) TokenService {
	return NewTokenService(&TokenServiceConfig{
		AccessSecret:    "test-access-secret",
		RefreshSecret:   "test-refresh-secret",
		AccessTokenTTL:  accessTTL,
		RefreshTokenTTL: refreshTTL,
	})
}

func TestTokenService_AccessTokenRoundTrip(t *testing.T) {
	svc := newTestTokenService(15*time.Minute, 7*24*time.Hour)

	payload := &domain.AccessTokenPayload{
		UserID:     "user-1",
		SessionID:  "session-1",
		Role:       domain.RoleOperator,
		MilitaryID: "personnel-1",
	}

	token, err := svc.GenerateAccessToken(payload)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	got, err := svc.VerifyAccessToken(token)
	if err != nil {
		t.Fatalf("VerifyAccessToken failed: %v", err)
	}
	if got.UserID != payload.UserID {
		t.Errorf("expected user id %s, got %s", payload.UserID, got.UserID)
	}
	if got.SessionID != payload.SessionID {
		t.Errorf("expected session id %s, got %s", payload.SessionID, got.SessionID)
	}
	if got.Role != payload.Role {
		t.Errorf("expected role %s, got %s", payload.Role, got.Role)
	}
	if got.MilitaryID != payload.MilitaryID {
		t.Errorf("expected military id %s, got %s", payload.MilitaryID, got.MilitaryID)
	}
}

func TestTokenService_RefreshTokenRoundTrip(t *testing.T) {
	svc := newTestTokenService(15*time.Minute, 7*24*time.Hour)

	token, err := svc.GenerateRefreshToken(&domain.RefreshTokenPayload{
		UserID:    "user-1",
		SessionID: "session-1",
	})
	if err != nil {
		t.Fatalf("GenerateRefreshToken failed: %v", err)
	}

	got, err := svc.VerifyRefreshToken(token)
	if err != nil {
		t.Fatalf("VerifyRefreshToken failed: %v", err)
	}
	if got.UserID != "user-1" || got.SessionID != "session-1" {
		t.Errorf("unexpected payload: %+v", got)
	}
}

func TestTokenService_VerifyErrors(t *testing.T) {
	svc := newTestTokenService(15*time.Minute, 7*24*time.Hour)

	t.Run("empty token", func(t *testing.T) {
		_, err := svc.VerifyAccessToken("")
		if !errors.Is(err, domain.ErrTokenRequired) {
			t.Errorf("expected ErrTokenRequired, got %v", err)
		}

		_, err = svc.VerifyAccessToken("   ")
		if !errors.Is(err, domain.ErrTokenRequired) {
			t.Errorf("expected ErrTokenRequired for whitespace token, got %v", err)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.VerifyAccessToken("not.a.jwt")
		if !errors.Is(err, domain.ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		expired := newTestTokenService(-time.Minute, 7*24*time.Hour)
		token, err := expired.GenerateAccessToken(&domain.AccessTokenPayload{
			UserID:     "user-1",
			SessionID:  "session-1",
			Role:       domain.RoleStandard,
			MilitaryID: "personnel-1",
		})
		if err != nil {
			t.Fatalf("GenerateAccessToken failed: %v", err)
		}

		_, err = svc.VerifyAccessToken(token)
		if !errors.Is(err, domain.ErrTokenExpired) {
			t.Errorf("expected ErrTokenExpired, got %v", err)
		}
	})

	t.Run("access token rejected as refresh token", func(t *testing.T) {
		token, err := svc.GenerateAccessToken(&domain.AccessTokenPayload{
			UserID:     "user-1",
			SessionID:  "session-1",
			Role:       domain.RoleStandard,
			MilitaryID: "personnel-1",
		})
		if err != nil {
			t.Fatalf("GenerateAccessToken failed: %v", err)
		}

		_, err = svc.VerifyRefreshToken(token)
		if !errors.Is(err, domain.ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken for cross-secret token, got %v", err)
		}
	})

	t.Run("refresh token rejected as access token", func(t *testing.T) {
		token, err := svc.GenerateRefreshToken(&domain.RefreshTokenPayload{
			UserID:    "user-1",
			SessionID: "session-1",
		})
		if err != nil {
			t.Fatalf("GenerateRefreshToken failed: %v", err)
		}

		_, err = svc.VerifyAccessToken(token)
		if !errors.Is(err, domain.ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken for cross-secret token, got %v", err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenService(&TokenServiceConfig{
			AccessSecret:  "another-secret",
			RefreshSecret: "another-refresh-secret",
		})
		token, err := other.GenerateAccessToken(&domain.AccessTokenPayload{
			UserID:     "user-1",
			SessionID:  "session-1",
			Role:       domain.RoleStandard,
			MilitaryID: "personnel-1",
		})
		if err != nil {
			t.Fatalf("GenerateAccessToken failed: %v", err)
		}

		_, err = svc.VerifyAccessToken(token)
		if !errors.Is(err, domain.ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})
}

func TestTokenService_ExtractTokenFromHeader(t *testing.T) {
	svc := newTestTokenService(15*time.Minute, 7*24*time.Hour)

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"well formed", "Bearer abc.def.ghi", "abc.def.ghi"},
		{"empty header", "", ""},
		{"scheme only", "Bearer", ""},
		{"lowercase scheme", "bearer abc.def.ghi", ""},
		{"extra field", "Bearer abc def", ""},
		{"whitespace token", "Bearer  ", ""},
		{"wrong scheme", "Basic abc.def.ghi", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := svc.ExtractTokenFromHeader(tt.header); got != tt.want {
				t.Errorf("ExtractTokenFromHeader(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}
