package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("not authorized for this resource")

	// Employee login errors are distinguishable on purpose; the mobile app shows them verbatim.
	ErrUserNotFound    = errors.New("user not found")
	ErrWrongPassword   = errors.New("wrong password")
	ErrDeviceLocked    = errors.New("account locked to another device")
	ErrAccountInactive = errors.New("account is not active")
	ErrAmbiguousLogin  = errors.New("employee ID exists in several companies, company_id is required")

	ErrCompanySuspended = errors.New("company suspended")
)
