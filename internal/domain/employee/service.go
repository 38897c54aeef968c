package employee

import "context"

// EmployeeService is the company-admin directory. The company is taken from the caller identity.
type EmployeeService interface {
	List(ctx context.Context) ([]EmployeeResponse, error)
	Get(ctx context.Context, employeeID string) (EmployeeResponse, error)
	// Create rejects a business key that already exists, including soft-deleted rows.
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	// Restore re-adds a soft-deleted employee under the same business key.
	Restore(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	Update(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, employeeID string) error
	// ResetDevice clears the device binding so the next login binds a new device.
	ResetDevice(ctx context.Context, employeeID string) error
}
