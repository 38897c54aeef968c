package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/company"
	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/device"
	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/tracking"
	"github.com/cmlabs-hris/attendance-saas-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var tooEarly *attendance.CheckoutTooEarlyError
	if errors.As(err, &tooEarly) {
		BadRequest(w, tooEarly.Error(), map[string]string{"opens_at": tooEarly.OpensAt})
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid Credentials")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrUnauthenticated):
		Unauthorized(w, "Authentication required")
	case errors.Is(err, auth.ErrWrongPassword):
		Unauthorized(w, "Wrong Password")
	case errors.Is(err, auth.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, auth.ErrDeviceLocked):
		Forbidden(w, "Account locked to another device")
	case errors.Is(err, auth.ErrAccountInactive):
		Forbidden(w, "Account is not active")
	case errors.Is(err, auth.ErrCompanySuspended):
		Forbidden(w, "Company Suspended")
	case errors.Is(err, auth.ErrForbidden):
		Forbidden(w, "Not authorized")
	case errors.Is(err, auth.ErrAmbiguousLogin):
		BadRequest(w, "Employee ID exists in several companies", map[string]string{"company_id": "company_id is required"})

	// Company domain errors
	case errors.Is(err, company.ErrCompanyNotFound):
		NotFound(w, "Company not found")
	case errors.Is(err, company.ErrCompanyNameTaken):
		Conflict(w, "Company Name Taken")
	case errors.Is(err, company.ErrAdminUsernameTaken):
		Conflict(w, "Admin Username Taken")
	case errors.Is(err, company.ErrAdminNotFound):
		NotFound(w, "Company admin not found")
	case errors.Is(err, company.ErrCompanyDeleted):
		Conflict(w, "Company has been deleted")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeIDExists):
		Conflict(w, "Employee ID already exists")
	case errors.Is(err, employee.ErrEmployeeSoftDeleted):
		Conflict(w, "Employee ID belongs to a deleted employee, restore it instead")
	case errors.Is(err, employee.ErrEmployeeNotDeleted):
		Conflict(w, "Employee is not deleted")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "Already checked in today")
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, "Already checked out")
	case errors.Is(err, attendance.ErrShortLeaveAlreadyOpen):
		Conflict(w, "A short leave is already open")
	case errors.Is(err, attendance.ErrNotCheckedIn):
		NotFound(w, "Not checked in today")
	case errors.Is(err, attendance.ErrNoOpenShortLeave):
		NotFound(w, "No open short leave")
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrForeignEmployee):
		Forbidden(w, "Cannot mark attendance for another user")
	case errors.Is(err, attendance.ErrReplayRejected):
		ReplayRejected(w, "Invalid Timestamp (Replay Detected)")
	case errors.Is(err, attendance.ErrBadTimeFormat):
		BadRequest(w, "Bad Time Format", nil)
	case errors.Is(err, attendance.ErrInvalidManualType):
		BadRequest(w, "type must be check_in or check_out", nil)

	// Device domain errors
	case errors.Is(err, device.ErrDeviceUnauthorized):
		Unauthorized(w, "Unauthorized Device")
	case errors.Is(err, device.ErrDeviceNotFound):
		NotFound(w, "Device not found")
	case errors.Is(err, device.ErrDeviceUIDTaken):
		Conflict(w, "Device UID already registered")

	// Tracking domain errors
	case errors.Is(err, tracking.ErrSessionNotFound):
		NotFound(w, "Tracking session not found")
	case errors.Is(err, tracking.ErrNoActiveSession):
		NotFound(w, "No active tracking session")
	case errors.Is(err, tracking.ErrSessionClosed):
		Conflict(w, "Tracking session is closed")
	case errors.Is(err, tracking.ErrSessionNotOwned):
		Forbidden(w, "Tracking session belongs to another employee")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
