package user

import "errors"

var (
	// -- Validation & Input --
	ErrEmailRequired = errors.New("email is required")

	// -- Authentication --
	ErrInvalidCode        = errors.New("invalid verification code")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
