package device

import "context"

type DeviceService interface {
	// Authenticate resolves the terminal from its header credentials in constant time.
	Authenticate(ctx context.Context, deviceUID, secretKey string) (HardwareDevice, error)
	// PushLog never returns an error; every outcome is encoded in the response.
	PushLog(ctx context.Context, dev HardwareDevice, req PushLogRequest) PushLogResponse

	// EmergencyOpen logs a remote door open for the caller's company, or for req.CompanyID when
	// called by the platform owner.
	EmergencyOpen(ctx context.Context, req EmergencyOpenRequest) (DoorEventResponse, error)

	ListCompanyDevices(ctx context.Context) ([]DeviceResponse, error)
	ListDoorEvents(ctx context.Context) ([]DoorEventResponse, error)
	ListAllDevices(ctx context.Context) ([]DeviceResponse, error)
	UpdateHardware(ctx context.Context, req UpdateHardwareRequest) (DeviceResponse, error)

	// SyncZKTeco pulls cloud punches and feeds them through the scan flow. It carries no
	// identity check so the scheduler can call it; the HTTP route is owner-only.
	SyncZKTeco(ctx context.Context) (SyncResult, error)
}
