package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument          = errors.New("invalid argument")
	ErrNotFound                 = errors.New("not found")
	ErrDuplicateEmail           = errors.New("email already exists")
	ErrInsufficientParticipants = errors.New("not enough users to create a pair")
	ErrBookingFailed            = errors.New("booking failed")
)

// InvalidArgument wraps ErrInvalidArgument with a message.
func InvalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// AuthorizationRequiredError is returned while no usable calendar credential
// is stored. URL is the consent page an operator has to visit.
type AuthorizationRequiredError struct {
	URL string
}

func (e *AuthorizationRequiredError) Error() string {
	return "calendar authorization required: visit " + e.URL
}

type BookingFailedError struct {
	Reason string
	Err    error
}

func (e *BookingFailedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("booking failed: %s: %v", e.Reason, e.Err)
	}
	return "booking failed: " + e.Reason
}

func (e *BookingFailedError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrBookingFailed, e.Err}
	}
	return []error{ErrBookingFailed}
}
