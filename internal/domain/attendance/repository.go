package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
// All methods take companyID to keep tenants isolated.
type AttendanceRepository interface {
	// Create inserts the day's row. An existing row for (company, employee, date) returns ErrAlreadyCheckedIn
	// and leaves an enclosing transaction usable.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// GetByEmployeeAndDate returns ErrAttendanceNotFound when the employee has no row on date.
	GetByEmployeeAndDate(ctx context.Context, companyID int64, employeeID string, date time.Time) (Attendance, error)

	SetDoorUnlock(ctx context.Context, id int64, unlockedAt time.Time, checkOutEnabledAt *time.Time) error

	// SetCheckOut marks the row checked out. reason is only stored for emergency checkouts.
	SetCheckOut(ctx context.Context, id int64, at time.Time, emergency bool, reason *string) error

	// MoveCheckOut sets only check_out_time and type; emergency fields are kept.
	MoveCheckOut(ctx context.Context, id int64, at time.Time) error

	SetLateReason(ctx context.Context, id int64, reason string) error

	// ListByEmployee returns rows dated on or after since, newest first.
	ListByEmployee(ctx context.Context, companyID int64, employeeID string, since *time.Time, limit int) ([]Attendance, error)

	// ListByCompany returns the newest rows of a tenant.
	ListByCompany(ctx context.Context, companyID int64, limit int) ([]Attendance, error)

	// CountForDate tallies the rows of one local date by status.
	CountForDate(ctx context.Context, companyID int64, date time.Time) (DailyCounts, error)
}

type ShortLeaveRepository interface {
	// Create returns ErrShortLeaveAlreadyOpen when an open leave exists for the employee and date.
	Create(ctx context.Context, leave ShortLeave) (ShortLeave, error)
	// GetOpen returns ErrNoOpenShortLeave when nothing is open.
	GetOpen(ctx context.Context, companyID int64, employeeID string, date time.Time) (ShortLeave, error)
	// Close sets return_time if still open and returns ErrNoOpenShortLeave otherwise.
	Close(ctx context.Context, id int64, returnTime time.Time) error
	ListByCompany(ctx context.Context, companyID int64, limit int) ([]ShortLeave, error)
	CountOpen(ctx context.Context, companyID int64, date time.Time) (int, error)
}
