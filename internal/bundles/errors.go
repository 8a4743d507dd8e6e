package bundles

import (
	"errors"
	"fmt"
)

var (
	// ErrBundleNotFound is returned when a bundle id is unknown or the
	// bundle has been retired from the catalog.
	ErrBundleNotFound = errors.New("bundle not found")

	// ErrOrderNotFound is returned when an order reference is unknown.
	ErrOrderNotFound = errors.New("bundle order not found")

	// ErrAlreadyConfirmed is returned when confirming a confirmed order.
	ErrAlreadyConfirmed = errors.New("bundle order already confirmed")

	// ErrInvalidState is returned for disallowed state transitions.
	ErrInvalidState = errors.New("operation not allowed in current order state")

	// ErrOrderInvalid collapses unknown reference and code mismatch, same
	// anti-enumeration stance as ticket verification.
	ErrOrderInvalid = errors.New("order not found or verification code mismatch")
)

// ValidationError reports malformed or missing input fields.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
