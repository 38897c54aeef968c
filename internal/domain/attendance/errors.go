package attendance

import (
	"errors"
	"fmt"
)

// Attendance domain errors
var (
	// Check-in errors
	ErrAlreadyCheckedIn  = errors.New("you have already checked in today")
	ErrNotCheckedIn      = errors.New("you have not checked in yet")
	ErrAlreadyCheckedOut = errors.New("you have already checked out")
	ErrForeignEmployee   = errors.New("cannot mark attendance for another user")

	// Checkout gate
	ErrCheckoutTooEarly = errors.New("cannot check out yet")

	// Short leave errors
	ErrShortLeaveAlreadyOpen = errors.New("you already have an open short leave")
	ErrNoOpenShortLeave      = errors.New("no open short leave to return from")

	// Hardware errors
	ErrReplayRejected   = errors.New("invalid timestamp (replay detected)")
	ErrBadTimeFormat    = errors.New("bad time format")
	ErrEmployeeInactive = errors.New("employee is not active")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrInvalidManualType  = errors.New("type must be check_in or check_out")
)

// CheckoutTooEarlyError names the local time from which checkout opens.
type CheckoutTooEarlyError struct {
	OpensAt string
}

func (e *CheckoutTooEarlyError) Error() string {
	return fmt.Sprintf("cannot check out before %s", e.OpensAt)
}

func (e *CheckoutTooEarlyError) Is(target error) bool {
	return target == ErrCheckoutTooEarly
}
