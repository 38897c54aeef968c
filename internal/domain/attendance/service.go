package attendance

import (
	"context"
)

// AttendanceService is the per-employee daily state machine. Employee operations act on the
// caller identity; admin operations on the caller's company.
type AttendanceService interface {
	CheckIn(ctx context.Context, req CheckInRequest) (CheckInResponse, error)
	UnlockDoor(ctx context.Context) (AttendanceResponse, error)
	// CheckOut is rejected with *CheckoutTooEarlyError before the company work end time.
	CheckOut(ctx context.Context) (AttendanceResponse, error)
	// EmergencyCheckout is never gated by the schedule.
	EmergencyCheckout(ctx context.Context, req ReasonRequest) (AttendanceResponse, error)
	SubmitLateReason(ctx context.Context, req ReasonRequest) (AttendanceResponse, error)

	RequestShortLeave(ctx context.Context, req ReasonRequest) (ShortLeaveResponse, error)
	ReturnFromShortLeave(ctx context.Context) (ShortLeaveResponse, error)

	Today(ctx context.Context) (ProfileResponse, error)
	History(ctx context.Context) ([]AttendanceResponse, error)

	ManualAttendance(ctx context.Context, req ManualAttendanceRequest) (AttendanceResponse, error)
	AuditAttendance(ctx context.Context) ([]AttendanceResponse, error)
	AuditShortLeaves(ctx context.Context) ([]ShortLeaveResponse, error)
	EmployeeHistory(ctx context.Context, employeeID string) ([]AttendanceResponse, error)

	// ProcessHardwareScan applies a terminal scan and records the door event.
	ProcessHardwareScan(ctx context.Context, scan HardwareScan) (HardwareScanResult, error)
}
