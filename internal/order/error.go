package order

import "errors"

var (
	// -- Resource State --
	ErrOrderNotFound     = errors.New("order not found")
	ErrIllegalTransition = errors.New("illegal status transition")

	// -- Authentication/Authorization --
	ErrUnauthorized = errors.New("unauthorized")

	// -- Database & Operation Failures --
	ErrFailedCreateOrder = errors.New("failed to create order")
	ErrTrackingExhausted = errors.New("could not issue a unique tracking number")

	// -- Constants (External Systems) --
	PgUniqueViolation = "23505"
)
