package cart

import "errors"

var (
	// -- Validation & Input --
	ErrInvalidPatient = errors.New("patient email is required")

	// -- Resource State --
	ErrCartEmpty        = errors.New("cart is empty")
	ErrCartLineNotFound = errors.New("cart line not found")

	// -- Database & Operation Failures --
	ErrFailedGetCartLines = errors.New("failed to get cart lines")
	ErrFailedCreateLine   = errors.New("failed to create cart line")
	ErrFailedUpdateLine   = errors.New("failed to update cart line")
	ErrFailedClearCart    = errors.New("failed to clear cart")
)
