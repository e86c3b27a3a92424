package prescription

import "errors"

var (
	// -- Resource State --
	ErrPrescriptionNotFound = errors.New("prescription not found")
	ErrNotOrderable         = errors.New("prescription is not orderable")

	// -- Database & Operation Failures --
	ErrFailedGetPrescriptions = errors.New("failed to get prescriptions")
)
