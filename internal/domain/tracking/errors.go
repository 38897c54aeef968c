package tracking

import "errors"

var (
	ErrSessionNotFound = errors.New("tracking session not found")
	ErrSessionClosed   = errors.New("tracking session is closed")
	ErrNoActiveSession = errors.New("no active tracking session")
	ErrSessionNotOwned = errors.New("tracking session belongs to another employee")
)
