package device

import "context"

type DeviceRepository interface {
	// Create fails with ErrDeviceUIDTaken on a duplicate UID.
	Create(ctx context.Context, device HardwareDevice) (HardwareDevice, error)
	GetByUID(ctx context.Context, deviceUID string) (HardwareDevice, error)
	ListByCompany(ctx context.Context, companyID int64) ([]HardwareDevice, error)
	ListAll(ctx context.Context) ([]HardwareDevice, error)
	UpdateType(ctx context.Context, id int64, deviceType string) (HardwareDevice, error)
	// DeactivateByCompany sets active=false on every device of the company.
	DeactivateByCompany(ctx context.Context, companyID int64) (int64, error)
}

type DoorEventRepository interface {
	Create(ctx context.Context, event DoorEvent) (DoorEvent, error)
	ListByCompany(ctx context.Context, companyID int64, limit int) ([]DoorEvent, error)
}
