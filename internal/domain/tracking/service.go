package tracking

import "context"

type TrackingService interface {
	// StartSession closes any active session of the caller before opening a new one.
	StartSession(ctx context.Context, req StartSessionRequest) (SessionResponse, error)
	StopSession(ctx context.Context) (int64, error)
	// RecordLocation appends a point to one of the caller's active sessions.
	RecordLocation(ctx context.Context, req LocationUpdateRequest) error
	// LiveLocations lists field staff positions for the admin's company.
	LiveLocations(ctx context.Context) ([]LivePositionResponse, error)
	// Subscribe streams location and door events of the admin's company until ctx ends.
	Subscribe(ctx context.Context) (<-chan LiveEvent, func(), error)
}
