package domain

import "errors"

// Domain errors
var (
	// Credential and session errors (mapped to 401)
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionInvalid     = errors.New("invalid or expired session")
	ErrSessionCompromised = errors.New("compromised session detected")

	// Token errors (mapped to 401)
	ErrTokenRequired = errors.New("token required")
	ErrTokenExpired  = errors.New("token expired")
	ErrInvalidToken  = errors.New("invalid token")

	// Throttling errors (mapped to 429)
	ErrTooManyRequests = errors.New("too many requests")

	// Consistency errors (mapped to 404)
	ErrSessionNotFound   = errors.New("session not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrPersonnelNotFound = errors.New("personnel not found")
	ErrRankNotFound      = errors.New("rank not found")
	ErrVehicleNotFound   = errors.New("vehicle not found")

	// Validation errors (mapped to 400)
	ErrInvalidTokenPayload = errors.New("invalid token payload")
	ErrInvalidRG           = errors.New("invalid rg format")
	ErrInvalidPlate        = errors.New("invalid plate format")
	ErrDuplicateRG         = errors.New("rg already registered")
	ErrDuplicatePlate      = errors.New("plate already registered")

	// Generic wrapped failures (mapped to 500, detail never leaked)
	ErrAuthProcess  = errors.New("authentication process error")
	ErrTokenRenewal = errors.New("error renewing token")
)

// IsUnauthorizedError checks if the error maps to the unauthorized class
func IsUnauthorizedError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrSessionInvalid) ||
		errors.Is(err, ErrSessionCompromised) ||
		errors.Is(err, ErrTokenRequired) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrInvalidToken)
}

// IsNotFoundError checks if the error maps to the not-found class
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrPersonnelNotFound) ||
		errors.Is(err, ErrRankNotFound) ||
		errors.Is(err, ErrVehicleNotFound)
}

// IsValidationError checks if the error maps to the bad-request class
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidTokenPayload) ||
		errors.Is(err, ErrInvalidRG) ||
		errors.Is(err, ErrInvalidPlate) ||
		errors.Is(err, ErrDuplicateRG) ||
		errors.Is(err, ErrDuplicatePlate)
}
