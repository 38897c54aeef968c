package employee

import (
	"context"
	"time"
)

// EmployeeRepository is always scoped by company_id.
type EmployeeRepository interface {
	// Create fails with ErrEmployeeIDExists when the business key is taken, deleted rows included.
	Create(ctx context.Context, employee Employee) (Employee, error)
	// GetByEmployeeID returns the row for the business key, soft-deleted rows included.
	GetByEmployeeID(ctx context.Context, companyID int64, employeeID string) (Employee, error)
	// FindLoginCandidates returns the non-deleted rows holding employeeID in any company.
	FindLoginCandidates(ctx context.Context, employeeID string) ([]Employee, error)
	// List returns non-deleted employees.
	List(ctx context.Context, companyID int64) ([]Employee, error)
	Update(ctx context.Context, employee Employee) error
	SoftDelete(ctx context.Context, companyID int64, employeeID string, deletedAt time.Time) error
	// Restore reactivates a soft-deleted row with fresh credentials and no device binding.
	Restore(ctx context.Context, employee Employee) error
	// BindDevice sets device_id only when it is still unbound and reports whether this call bound it.
	BindDevice(ctx context.Context, id int64, deviceID string) (bool, error)
	ClearDevice(ctx context.Context, companyID int64, employeeID string) error
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
}
