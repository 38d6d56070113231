package service

import "errors"

// Sentinel errors returned by AuthService. Collaborator failures are wrapped
// beneath them with %w, so callers can test both the kind and the cause with
// errors.Is. The API layer maps each kind to an HTTP status.
var (
	// ErrValidation indicates the request was malformed. No collaborator was
	// consulted. API layer should map this to HTTP 400 Bad Request.
	ErrValidation = errors.New("validation failed")

	// ErrLoginFailed indicates an unknown email or a wrong password. The two
	// cases are deliberately indistinguishable. HTTP 401.
	ErrLoginFailed = errors.New("invalid email or password")

	// ErrAccountDisabled indicates the account exists but has status 0. HTTP 403.
	ErrAccountDisabled = errors.New("account is disabled")

	// ErrInvariantViolation indicates a stored user without an identifier. HTTP 500.
	ErrInvariantViolation = errors.New("stored user violates an invariant")

	// ErrVerificationFailed indicates the registration code was absent,
	// expired or did not match. HTTP 400.
	ErrVerificationFailed = errors.New("verification code is invalid or expired")

	// ErrEmailAlreadyRegistered indicates a verification code was requested
	// for an address that already has an account. HTTP 409.
	ErrEmailAlreadyRegistered = errors.New("email is already registered")

	// ErrPersistence indicates the user store or the code store failed.
	// HTTP 409 when it wraps a duplicate, otherwise 500.
	ErrPersistence = errors.New("persistence failure")

	// ErrDelivery indicates the verification code could not be stored or
	// sent. HTTP 502.
	ErrDelivery = errors.New("verification code delivery failed")

	// ErrPasswordHashing indicates the hasher could not encode a password
	// that passed validation. HTTP 500.
	ErrPasswordHashing = errors.New("password hashing failed")

	// ErrTokenIssuance indicates a token could not be signed. HTTP 500.
	ErrTokenIssuance = errors.New("token issuance failed")

	// ErrInvalidRefreshToken indicates a refresh token with a bad signature,
	// wrong type, or expired window, or one whose user no longer exists. HTTP 401.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrSessionRevoked indicates a validly signed refresh token whose session
	// has been evicted from the user's active list. HTTP 401.
	ErrSessionRevoked = errors.New("refresh session is no longer active")
)
