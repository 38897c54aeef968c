package company

import (
	"context"
	"time"
)

type CompanyRepository interface {
	// Create fails with ErrCompanyNameTaken on a duplicate name.
	Create(ctx context.Context, company Company) (Company, error)
	GetByID(ctx context.Context, id int64) (Company, error)
	List(ctx context.Context) ([]Company, error)
	// Update writes name and status. Fails with ErrCompanyNameTaken on a duplicate name.
	Update(ctx context.Context, company Company) error
	SoftDelete(ctx context.Context, id int64, deletedAt time.Time) error
	UpdateGeofence(ctx context.Context, id int64, geofence Geofence) error
	UpdateSchedule(ctx context.Context, id int64, schedule Schedule) error
}

type CompanyAdminRepository interface {
	// Create fails with ErrAdminUsernameTaken on a duplicate username.
	Create(ctx context.Context, admin CompanyAdmin) (CompanyAdmin, error)
	GetByUsername(ctx context.Context, username string) (CompanyAdmin, error)
}
