package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/maacloud/account-api/internal/api/shared"
	"github.com/maacloud/account-api/internal/service"
	"github.com/maacloud/account-api/internal/store"
)

// MapErrorToStatusCode maps service errors to HTTP status codes. Unknown
// errors map to 500 so internal failure kinds never reach clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrVerificationFailed):
		return http.StatusBadRequest

	case errors.Is(err, service.ErrLoginFailed),
		errors.Is(err, service.ErrInvalidRefreshToken),
		errors.Is(err, service.ErrSessionRevoked):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrAccountDisabled):
		return http.StatusForbidden

	case errors.Is(err, service.ErrEmailAlreadyRegistered):
		return http.StatusConflict

	// Lost store races: a duplicate registration or a concurrent session update.
	case errors.Is(err, service.ErrPersistence) && store.IsDuplicateError(err),
		errors.Is(err, service.ErrPersistence) && errors.Is(err, store.ErrConcurrentUpdate):
		return http.StatusConflict

	case errors.Is(err, service.ErrDelivery):
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err that carries
// no internal detail.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, service.ErrValidation):
		return SanitizeValidationError(err)
	case errors.Is(err, service.ErrLoginFailed):
		return "Invalid email or password"
	case errors.Is(err, service.ErrAccountDisabled):
		return "Account is disabled"
	case errors.Is(err, service.ErrVerificationFailed):
		return "Invalid or expired verification code"
	case errors.Is(err, service.ErrEmailAlreadyRegistered):
		return "Email is already registered"
	case errors.Is(err, service.ErrPersistence) && store.IsDuplicateError(err):
		return "Email is already registered"
	case errors.Is(err, service.ErrPersistence) && errors.Is(err, store.ErrConcurrentUpdate):
		return "Account was modified concurrently, please retry"
	case errors.Is(err, service.ErrDelivery):
		return "Verification code could not be delivered"
	case errors.Is(err, service.ErrInvalidRefreshToken):
		return "Invalid refresh token"
	case errors.Is(err, service.ErrSessionRevoked):
		return "Session is no longer active"
	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError reduces a validator error to "Invalid <Field>:
// <reason>" for the first failing field. Other errors yield a generic message.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag()))
	}
	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max", "maxbytes":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the status and safe message for err and logs the
// redacted cause. Session revocations are logged at WARN.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)

	var opts []shared.ResponseOption
	if errors.Is(err, service.ErrSessionRevoked) || errors.Is(err, service.ErrAccountDisabled) {
		opts = append(opts, shared.WithElevatedLogLevel())
	}

	shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err, opts...)
}
