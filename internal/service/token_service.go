package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/domain"
)

const (
	tokenIssuer   = "forcemap-api"
	tokenAudience = "forcemap-client"
)

// TokenService issues and verifies the JWT pair. Access and refresh tokens
// are signed with separate secrets so one leaked key cannot forge the other
// kind.
type TokenService interface {
	GenerateAccessToken(payload *domain.AccessTokenPayload) (string, error)
	GenerateRefreshToken(payload *domain.RefreshTokenPayload) (string, error)
	VerifyAccessToken(token string) (*domain.AccessTokenPayload, error)
	VerifyRefreshToken(token string) (*domain.RefreshTokenPayload, error)
	// ExtractTokenFromHeader parses an Authorization header value and
	// returns the bearer token, or "" when the header is malformed
	ExtractTokenFromHeader(header string) string
}

// TokenServiceConfig holds signing configuration for TokenService
type TokenServiceConfig struct {
	AccessSecret    string
	RefreshSecret   string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type tokenService struct {
	config *TokenServiceConfig
}

// NewTokenService creates a new TokenService
func NewTokenService(config *TokenServiceConfig) TokenService {
	if config.AccessTokenTTL == 0 {
		config.AccessTokenTTL = 15 * time.Minute
	}
	if config.RefreshTokenTTL == 0 {
		config.RefreshTokenTTL = 7 * 24 * time.Hour
	}
	return &tokenService{config: config}
}

// GenerateAccessToken issues a short-lived access token
func (s *tokenService) GenerateAccessToken(payload *domain.AccessTokenPayload) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":     payload.UserID,
		"session_id":  payload.SessionID,
		"role":        string(payload.Role),
		"military_id": payload.MilitaryID,
		"jti":         uuid.NewString(),
		"iss":         tokenIssuer,
		"aud":         tokenAudience,
		"iat":         now.Unix(),
		"exp":         now.Add(s.config.AccessTokenTTL).Unix(),
	}

	return s.sign(claims, s.config.AccessSecret)
}

// GenerateRefreshToken issues a long-lived refresh token
func (s *tokenService) GenerateRefreshToken(payload *domain.RefreshTokenPayload) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":    payload.UserID,
		"session_id": payload.SessionID,
		"jti":        uuid.NewString(),
		"iss":        tokenIssuer,
		"aud":        tokenAudience,
		"iat":        now.Unix(),
		"exp":        now.Add(s.config.RefreshTokenTTL).Unix(),
	}

	return s.sign(claims, s.config.RefreshSecret)
}

// VerifyAccessToken verifies signature and expiry, then checks that the
// identity claims are actually present. A well-signed token without them is
// still invalid.
func (s *tokenService) VerifyAccessToken(token string) (*domain.AccessTokenPayload, error) {
	claims, err := s.verify(token, s.config.AccessSecret)
	if err != nil {
		return nil, err
	}

	userID, _ := claims["user_id"].(string)
	sessionID, _ := claims["session_id"].(string)
	role, _ := claims["role"].(string)
	militaryID, _ := claims["military_id"].(string)

	if userID == "" || sessionID == "" || role == "" || militaryID == "" {
		return nil, domain.ErrInvalidToken
	}

	return &domain.AccessTokenPayload{
		UserID:     userID,
		SessionID:  sessionID,
		Role:       domain.Role(role),
		MilitaryID: militaryID,
	}, nil
}

// VerifyRefreshToken verifies a refresh token and extracts its payload
func (s *tokenService) VerifyRefreshToken(token string) (*domain.RefreshTokenPayload, error) {
	claims, err := s.verify(token, s.config.RefreshSecret)
	if err != nil {
		return nil, err
	}

	userID, _ := claims["user_id"].(string)
	sessionID, _ := claims["session_id"].(string)

	if userID == "" || sessionID == "" {
		return nil, domain.ErrInvalidToken
	}

	return &domain.RefreshTokenPayload{
		UserID:    userID,
		SessionID: sessionID,
	}, nil
}

// ExtractTokenFromHeader returns the token from "Bearer <token>". The scheme
// is case-sensitive and the value must be exactly two fields; anything else
// yields "".
func (s *tokenService) ExtractTokenFromHeader(header string) string {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	if strings.TrimSpace(parts[1]) == "" {
		return ""
	}
	return parts[1]
}

func (s *tokenService) sign(claims jwt.MapClaims, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", domain.ErrInvalidTokenPayload
	}
	return signed, nil
}

func (s *tokenService) verify(tokenString, secret string) (jwt.MapClaims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, domain.ErrTokenRequired
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return []byte(secret), nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	return claims, nil
}
