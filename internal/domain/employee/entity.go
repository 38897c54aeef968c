package employee

import (
	"strings"
	"time"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusDeleted   Status = "deleted"
)

const DefaultRole = "Staff"

type Employee struct {
	ID           int64
	CompanyID    int64
	EmployeeID   string
	Name         string
	PasswordHash string
	DeviceID     *string
	Role         string
	Status       Status
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

func (e Employee) IsActive() bool {
	return e.Status == StatusActive && e.DeletedAt == nil
}

func (e Employee) IsDeleted() bool {
	return e.DeletedAt != nil || e.Status == StatusDeleted
}

// IsFieldTracked reports whether the employee works in the field and shows on the live map.
func (e Employee) IsFieldTracked() bool {
	return strings.Contains(strings.ToLower(e.Role), "marketing")
}
