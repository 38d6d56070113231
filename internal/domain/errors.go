package domain

import "errors"

// Validation errors returned by User.Validate.
var (
	// ErrEmptyUsername is returned when a user has no username.
	ErrEmptyUsername = errors.New("username cannot be empty")

	// ErrEmptyEmail is returned when a user has no email address.
	ErrEmptyEmail = errors.New("email cannot be empty")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrEmptyPasswordHash is returned when a user carries no password hash.
	ErrEmptyPasswordHash = errors.New("password hash cannot be empty")

	// ErrInvalidStatus is returned for negative status values.
	ErrInvalidStatus = errors.New("status cannot be negative")
)
