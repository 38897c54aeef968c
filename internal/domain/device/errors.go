package device

import "errors"

var (
	// ErrDeviceUnauthorized covers unknown, inactive and wrong-secret devices alike.
	ErrDeviceUnauthorized = errors.New("unauthorized device")
	ErrDeviceNotFound     = errors.New("device not found")
	ErrDeviceUIDTaken     = errors.New("device UID already registered")
)
