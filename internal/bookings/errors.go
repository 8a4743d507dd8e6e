package bookings

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors for the booking lifecycle. Controllers translate these
// into HTTP status codes; services never let raw storage errors cross the
// boundary except wrapped as persistence failures.
var (
	// ErrNotFound is returned when a booking reference is unknown.
	ErrNotFound = errors.New("booking not found")

	// ErrAlreadyConfirmed is returned when confirming a booking that is
	// already confirmed. The state is unchanged; callers surface it as
	// "already done" rather than a failure.
	ErrAlreadyConfirmed = errors.New("booking already confirmed")

	// ErrExpired is returned when the pending hold has lapsed; the client
	// must rebook.
	ErrExpired = errors.New("booking hold has expired")

	// ErrInvalidState is returned for transitions the state machine does
	// not allow (e.g. confirming a cancelled booking).
	ErrInvalidState = errors.New("operation not allowed in current booking state")

	// ErrTicketInvalid covers both an unknown reference and a verification
	// code mismatch. The two cases are deliberately indistinguishable to
	// callers so a scanned reference cannot be probed for which half was
	// wrong.
	ErrTicketInvalid = errors.New("ticket not found or verification code mismatch")
)

// ValidationError reports malformed or missing input fields.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// SeatConflictError reports which requested seats are already held, so the
// client can re-render availability without a second round trip.
type SeatConflictError struct {
	Seats []string
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("seats already booked: %s", strings.Join(e.Seats, ", "))
}

// AlreadyUsedError reports a ticket that was previously redeemed, carrying
// the original redemption time so staff can adjudicate at the door.
type AlreadyUsedError struct {
	VerifiedAt time.Time
}

func (e *AlreadyUsedError) Error() string {
	return fmt.Sprintf("ticket already used at %s", e.VerifiedAt.Format(time.RFC3339))
}
