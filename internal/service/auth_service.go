package service

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/domain"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/dto"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/metrics"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/ratelimit"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/internal/repository"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/pkg/logger"
	"github.com/aetdesenvolvimentoweb/forcemap-sub001/pkg/telemetry"
)

const (
	ipKeyPrefix = "login:ip:"
	rgKeyPrefix = "login:rg:"

	// The IP budget is wider than the RG budget: several users can share an
	// office NAT, while many attempts against one RG is always suspicious.
	maxIPAttempts = 10
	maxRGAttempts = 5
	attemptWindow = 15 * time.Minute

	sessionLifetime  = 7 * 24 * time.Hour
	deviceInfoMaxLen = 100
)

// AuthService defines the authentication operations
type AuthService interface {
	// Login authenticates by RG and password and opens a new session,
	// terminating any previous live session of the same account
	Login(ctx context.Context, req *dto.LoginRequest, ip, userAgent string) (*dto.AuthResponse, error)
	// RefreshToken issues a new access token for a live session. The
	// refresh token itself is not rotated.
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest, ip, userAgent string) (*dto.AuthResponse, error)
	// Logout terminates the session carried by the access token. It never
	// fails: the client is discarding credentials either way.
	Logout(ctx context.Context, accessToken string) error
	// LogoutAll terminates every session of the user
	LogoutAll(ctx context.Context, userID string) error
	// ValidateSession reports whether the session is live and the access
	// token is the one currently bound to it
	ValidateSession(ctx context.Context, sessionID, accessToken string) bool
}

// AuthServiceConfig holds configuration for AuthService
type AuthServiceConfig struct {
	AccessTokenTTL time.Duration
}

type authService struct {
	userRepo      repository.UserRepository
	personnelRepo repository.PersonnelRepository
	sessionRepo   repository.SessionRepository
	tokens        TokenService
	hasher        PasswordHasher
	limiter       ratelimit.Limiter
	config        *AuthServiceConfig
	log           *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repository.UserRepository,
	personnelRepo repository.PersonnelRepository,
	sessionRepo repository.SessionRepository,
	tokens TokenService,
	hasher PasswordHasher,
	limiter ratelimit.Limiter,
	config *AuthServiceConfig,
) AuthService {
	if config == nil {
		config = &AuthServiceConfig{}
	}
	if config.AccessTokenTTL == 0 {
		config.AccessTokenTTL = 15 * time.Minute
	}
	return &authService{
		userRepo:      userRepo,
		personnelRepo: personnelRepo,
		sessionRepo:   sessionRepo,
		tokens:        tokens,
		hasher:        hasher,
		limiter:       limiter,
		config:        config,
		log:           logger.Get().Named("auth"),
	}
}

// Login authenticates a user by RG and password
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest, ip, userAgent string) (*dto.AuthResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.login")
	defer span.End()

	start := time.Now()
	rg, password := dto.SanitizeCredentials(req)
	ipKey := ipKeyPrefix + ip
	rgKey := rgKeyPrefix + rg

	span.SetAttributes(attribute.String("client_ip", ip))

	// An IP denial returns before the RG key is consulted: a Check call can
	// install a block as a side effect, and a request that is already
	// rejected must not penalize the RG it named
	ipResult := s.limiter.Check(ctx, ipKey, maxIPAttempts, attemptWindow)
	if !ipResult.Allowed {
		return nil, s.rateLimited(ctx, span, "ip", ip, ipResult)
	}

	rgResult := s.limiter.Check(ctx, rgKey, maxRGAttempts, attemptWindow)
	if !rgResult.Allowed {
		return nil, s.rateLimited(ctx, span, "rg", ip, rgResult)
	}

	// Invalid identifiers and wrong passwords all fold into the same error
	// and cost one attempt on both keys, so responses reveal nothing about
	// which registries exist
	if ok, _ := dto.ValidateRG(rg); !ok {
		return nil, s.failLogin(ctx, ipKey, rgKey, "malformed_rg")
	}

	personnel, err := s.personnelRepo.FindByRG(ctx, rg)
	if err != nil {
		if errors.Is(err, domain.ErrPersonnelNotFound) {
			return nil, s.failLogin(ctx, ipKey, rgKey, "unknown_rg")
		}
		return nil, s.loginInternalError(ctx, span, ipKey, rgKey, "personnel lookup failed", err)
	}
	if !personnel.IsActive {
		return nil, s.failLogin(ctx, ipKey, rgKey, "inactive_personnel")
	}

	user, err := s.userRepo.FindByMilitaryIDWithPassword(ctx, personnel.ID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, s.failLogin(ctx, ipKey, rgKey, "no_account")
		}
		return nil, s.loginInternalError(ctx, span, ipKey, rgKey, "user lookup failed", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, s.failLogin(ctx, ipKey, rgKey, "wrong_password")
	}

	s.limiter.Reset(ctx, ipKey)
	s.limiter.Reset(ctx, rgKey)

	// One live session per account
	if err := s.sessionRepo.DeactivateAllByUserID(ctx, user.ID); err != nil {
		return nil, s.loginInternalError(ctx, span, ipKey, rgKey, "failed to deactivate previous sessions", err)
	}

	deviceInfo := req.DeviceInfo
	if deviceInfo == "" {
		deviceInfo = userAgent
	}

	now := time.Now()
	session := &domain.Session{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		DeviceInfo:   truncate(deviceInfo, deviceInfoMaxLen),
		IPAddress:    ip,
		UserAgent:    userAgent,
		IsActive:     true,
		ExpiresAt:    now.Add(sessionLifetime),
		CreatedAt:    now,
		LastAccessAt: now,
	}

	accessToken, err := s.tokens.GenerateAccessToken(&domain.AccessTokenPayload{
		UserID:     user.ID,
		SessionID:  session.ID,
		Role:       user.Role,
		MilitaryID: user.MilitaryID,
	})
	if err != nil {
		return nil, s.loginInternalError(ctx, span, ipKey, rgKey, "failed to sign access token", err)
	}

	refreshToken, err := s.tokens.GenerateRefreshToken(&domain.RefreshTokenPayload{
		UserID:    user.ID,
		SessionID: session.ID,
	})
	if err != nil {
		return nil, s.loginInternalError(ctx, span, ipKey, rgKey, "failed to sign refresh token", err)
	}

	session.AccessToken = accessToken
	session.RefreshToken = refreshToken
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, s.loginInternalError(ctx, span, ipKey, rgKey, "failed to persist session", err)
	}

	metrics.RecordLoginSuccess(ctx, string(user.Role))
	metrics.RecordLoginDuration(ctx, time.Since(start).Seconds(), true)
	s.log.Info("login succeeded",
		zap.String("user_id", user.ID),
		zap.String("session_id", session.ID),
		zap.String("ip", ip),
	)

	return s.authResponse(user, accessToken, refreshToken), nil
}

// RefreshToken renews the access token of a live session
func (s *authService) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest, ip, userAgent string) (*dto.AuthResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.refresh")
	defer span.End()

	payload, err := s.tokens.VerifyRefreshToken(req.RefreshToken)
	if err != nil {
		span.SetStatus(codes.Error, "refresh token rejected")
		return nil, err
	}

	session, err := s.sessionRepo.FindByRefreshToken(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrSessionInvalid
		}
		return nil, s.internalError(span, "session lookup failed", err, domain.ErrTokenRenewal)
	}

	if session.ID != payload.SessionID || !session.IsActive || session.ExpiresAt.Before(time.Now()) {
		return nil, domain.ErrSessionInvalid
	}

	// A refresh from a different address means the token left the device it
	// was issued to. Kill the session; the legitimate user logs in again.
	if session.IPAddress != ip {
		s.log.Warn("refresh from unexpected address, terminating session",
			zap.String("session_id", session.ID),
			zap.String("user_id", session.UserID),
			zap.String("expected_ip", session.IPAddress),
			zap.String("actual_ip", ip),
		)
		if err := s.sessionRepo.Deactivate(ctx, session.ID); err != nil {
			s.log.Error("failed to deactivate compromised session",
				zap.String("session_id", session.ID),
				zap.Error(err),
			)
		}
		metrics.RecordHijackDetected(ctx)
		span.SetStatus(codes.Error, "session compromised")
		return nil, domain.ErrSessionCompromised
	}

	// User agents legitimately change on browser updates, so a mismatch is
	// logged but not acted on
	if session.UserAgent != userAgent {
		s.log.Warn("refresh with changed user agent",
			zap.String("session_id", session.ID),
			zap.String("user_id", session.UserID),
		)
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// The account vanished while its session lived on. Terminate the
			// session so the bound access token stops validating.
			s.log.Warn("session owner no longer exists, terminating session",
				zap.String("session_id", session.ID),
				zap.String("user_id", session.UserID),
			)
			if derr := s.sessionRepo.Deactivate(ctx, session.ID); derr != nil {
				s.log.Error("failed to deactivate orphaned session",
					zap.String("session_id", session.ID),
					zap.Error(derr),
				)
			}
			metrics.RecordSessionInvalidated(ctx, 1)
			span.SetStatus(codes.Error, "session owner not found")
			return nil, domain.ErrUserNotFound
		}
		return nil, s.internalError(span, "user lookup failed", err, domain.ErrTokenRenewal)
	}
	if !user.IsActive {
		return nil, domain.ErrSessionInvalid
	}

	accessToken, err := s.tokens.GenerateAccessToken(&domain.AccessTokenPayload{
		UserID:     user.ID,
		SessionID:  session.ID,
		Role:       user.Role,
		MilitaryID: user.MilitaryID,
	})
	if err != nil {
		return nil, s.internalError(span, "failed to sign access token", err, domain.ErrTokenRenewal)
	}

	if err := s.sessionRepo.UpdateAccessToken(ctx, session.ID, accessToken); err != nil {
		return nil, s.internalError(span, "failed to store access token", err, domain.ErrTokenRenewal)
	}

	metrics.RecordTokenRefresh(ctx)

	return s.authResponse(user, accessToken, session.RefreshToken), nil
}

// Logout terminates the session carried by the access token
func (s *authService) Logout(ctx context.Context, accessToken string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.logout")
	defer span.End()

	payload, err := s.tokens.VerifyAccessToken(accessToken)
	if err != nil {
		// Nothing to terminate that we can identify
		return nil
	}

	if err := s.sessionRepo.Deactivate(ctx, payload.SessionID); err != nil {
		if !errors.Is(err, domain.ErrSessionNotFound) {
			s.log.Error("failed to deactivate session on logout",
				zap.String("session_id", payload.SessionID),
				zap.Error(err),
			)
		}
		return nil
	}

	metrics.RecordSessionInvalidated(ctx, 1)
	s.log.Info("logout",
		zap.String("user_id", payload.UserID),
		zap.String("session_id", payload.SessionID),
	)
	return nil
}

// LogoutAll terminates every session of the user
func (s *authService) LogoutAll(ctx context.Context, userID string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.logout_all")
	defer span.End()

	sessions, err := s.sessionRepo.FindActiveByUserID(ctx, userID)
	if err != nil {
		s.log.Error("failed to list sessions on logout-all",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		sessions = nil
	}

	if err := s.sessionRepo.DeactivateAllByUserID(ctx, userID); err != nil {
		s.log.Error("failed to deactivate sessions on logout-all",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return nil
	}

	metrics.RecordSessionInvalidated(ctx, int64(len(sessions)))
	s.log.Info("logout-all",
		zap.String("user_id", userID),
		zap.Int("sessions", len(sessions)),
	)
	return nil
}

// ValidateSession reports whether the session is live and still owns the
// presented access token
func (s *authService) ValidateSession(ctx context.Context, sessionID, accessToken string) bool {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return false
	}
	if !session.IsActive || session.ExpiresAt.Before(time.Now()) {
		return false
	}
	// A stale access token means a newer one was issued for this session
	return session.AccessToken == accessToken
}

// rateLimited records the denial and returns the throttling sentinel
func (s *authService) rateLimited(ctx context.Context, span trace.Span, keyKind, ip string, result ratelimit.Result) error {
	metrics.RecordRateLimitBlock(ctx, keyKind)
	s.log.Warn("login blocked by rate limiter",
		zap.String("key_kind", keyKind),
		zap.String("ip", ip),
		zap.Int("total_attempts", result.TotalAttempts),
		zap.Time("reset_at", result.ResetTime),
	)
	span.SetStatus(codes.Error, "rate limited")
	return domain.ErrTooManyRequests
}

// failLogin records one attempt on both limiter keys and folds the cause
// into a single opaque error
func (s *authService) failLogin(ctx context.Context, ipKey, rgKey, reason string) error {
	s.limiter.RecordAttempt(ctx, ipKey, attemptWindow)
	s.limiter.RecordAttempt(ctx, rgKey, attemptWindow)
	metrics.RecordLoginFailure(ctx, reason)
	s.log.Info("login failed", zap.String("reason", reason))
	return domain.ErrInvalidCredentials
}

// loginInternalError is internalError for the login flow. Internal failures
// still cost one attempt on both limiter keys, so a broken backend cannot be
// used as an unmetered password oracle.
func (s *authService) loginInternalError(ctx context.Context, span trace.Span, ipKey, rgKey, msg string, err error) error {
	s.limiter.RecordAttempt(ctx, ipKey, attemptWindow)
	s.limiter.RecordAttempt(ctx, rgKey, attemptWindow)
	return s.internalError(span, msg, err, domain.ErrAuthProcess)
}

// internalError logs the real failure and returns the opaque sentinel the
// caller is allowed to see
func (s *authService) internalError(span trace.Span, msg string, err error, sentinel error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	s.log.Error(msg, zap.Error(err))
	return sentinel
}

func (s *authService) authResponse(user *domain.User, accessToken, refreshToken string) *dto.AuthResponse {
	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.config.AccessTokenTTL.Seconds()),
		User: dto.UserResponse{
			ID:         user.ID,
			MilitaryID: user.MilitaryID,
			Role:       string(user.Role),
		},
	}
}

// truncate cuts s to at most max bytes without splitting a rune
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
