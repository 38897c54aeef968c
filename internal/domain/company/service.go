package company

import "context"

// CompanyService covers tenant provisioning (platform owner) and per-tenant settings (company admin).
type CompanyService interface {
	Provision(ctx context.Context, req ProvisionCompanyRequest) (ProvisionCompanyResponse, error)
	List(ctx context.Context) ([]CompanyResponse, error)
	Update(ctx context.Context, req UpdateCompanyRequest) (CompanyResponse, error)
	// Delete soft-deletes the company and deactivates all of its devices in one transaction.
	Delete(ctx context.Context, id int64) error

	GetSettings(ctx context.Context) (SettingsResponse, error)
	UpdateGeofence(ctx context.Context, req UpdateGeofenceRequest) (SettingsResponse, error)
	UpdateSchedule(ctx context.Context, req UpdateScheduleRequest) (SettingsResponse, error)
}
