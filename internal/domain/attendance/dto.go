package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-saas-go/internal/pkg/validator"
)

// ========================================
// EMPLOYEE DTOs
// ========================================

type CheckInRequest struct {
	EmployeeID string   `json:"employee_id" validate:"required"`
	Location   string   `json:"location" validate:"max=255"`
	Latitude   *float64 `json:"lat,omitempty" validate:"omitempty,latitude"`
	Longitude  *float64 `json:"lng,omitempty" validate:"omitempty,longitude"`
}

func (r *CheckInRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}
	if (r.Latitude == nil) != (r.Longitude == nil) {
		return validator.ValidationErrors{{
			Field:   "lat",
			Message: "lat and lng must be sent together",
		}}
	}
	return nil
}

type CheckInResponse struct {
	Status        string   `json:"status"`
	Message       string   `json:"message"`
	CheckInTime   string   `json:"check_in_time"`
	DistanceMeter *float64 `json:"distance_m,omitempty"`
	InsideFence   *bool    `json:"inside_geofence,omitempty"`
}

type ReasonRequest struct {
	Reason string `json:"reason"`
}

func (r *ReasonRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}
	if len(r.Reason) > 1000 {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 1000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AttendanceResponse struct {
	ID                      int64   `json:"id"`
	EmployeeID              string  `json:"employee_id"`
	Date                    string  `json:"date"`
	Status                  string  `json:"status"`
	Type                    string  `json:"type"`
	CheckInTime             *string `json:"check_in_time"`
	CheckOutTime            *string `json:"check_out_time"`
	DoorUnlockTime          *string `json:"door_unlock_time,omitempty"`
	CheckOutEnabledTime     *string `json:"check_out_enabled_time,omitempty"`
	IsEmergencyCheckout     bool    `json:"is_emergency_checkout"`
	EmergencyCheckoutReason *string `json:"emergency_checkout_reason,omitempty"`
	LateReason              *string `json:"late_reason,omitempty"`
	Source                  string  `json:"source"`
	Method                  *string `json:"method,omitempty"`
	DeviceID                *string `json:"device_id,omitempty"`
	Location                *string `json:"location,omitempty"`
	Notes                   *string `json:"notes,omitempty"`
}

func formatTimePtr(t *time.Time, loc *time.Location) *string {
	if t == nil {
		return nil
	}
	v := t.In(loc).Format(time.RFC3339)
	return &v
}

// NewAttendanceResponse renders times in loc, the company timezone.
func NewAttendanceResponse(a Attendance, loc *time.Location) AttendanceResponse {
	return AttendanceResponse{
		ID:                      a.ID,
		EmployeeID:              a.EmployeeID,
		Date:                    a.DateOnly.Format("2006-01-02"),
		Status:                  string(a.Status),
		Type:                    string(a.Type),
		CheckInTime:             formatTimePtr(a.CheckInTime, loc),
		CheckOutTime:            formatTimePtr(a.CheckOutTime, loc),
		DoorUnlockTime:          formatTimePtr(a.DoorUnlockTime, loc),
		CheckOutEnabledTime:     formatTimePtr(a.CheckOutEnabledTime, loc),
		IsEmergencyCheckout:     a.IsEmergencyCheckout,
		EmergencyCheckoutReason: a.EmergencyCheckoutReason,
		LateReason:              a.LateReason,
		Source:                  string(a.Source),
		Method:                  a.Method,
		DeviceID:                a.DeviceID,
		Location:                a.Location,
		Notes:                   a.Notes,
	}
}

type ShortLeaveResponse struct {
	ID         int64   `json:"id"`
	EmployeeID string  `json:"employee_id"`
	Date       string  `json:"date"`
	Reason     string  `json:"reason"`
	ExitTime   string  `json:"exit_time"`
	ReturnTime *string `json:"return_time"`
}

func NewShortLeaveResponse(s ShortLeave, loc *time.Location) ShortLeaveResponse {
	return ShortLeaveResponse{
		ID:         s.ID,
		EmployeeID: s.EmployeeID,
		Date:       s.DateOnly.Format("2006-01-02"),
		Reason:     s.Reason,
		ExitTime:   s.ExitTime.In(loc).Format(time.RFC3339),
		ReturnTime: formatTimePtr(s.ReturnTime, loc),
	}
}

type TodaySummary struct {
	Status   string  `json:"status"`
	CheckIn  *string `json:"checkIn"`
	CheckOut *string `json:"checkOut"`
}

// ProfileResponse backs GET /me.
type ProfileResponse struct {
	EmployeeID string       `json:"id"`
	Name       string       `json:"name"`
	Role       string       `json:"role"`
	CompanyID  int64        `json:"company_id"`
	Today      TodaySummary `json:"today"`
}

// ========================================
// ADMIN DTOs
// ========================================

type ManualAttendanceRequest struct {
	EmployeeID string    `json:"employee_id" validate:"required"`
	Timestamp  time.Time `json:"timestamp" validate:"required"`
	Type       string    `json:"type" validate:"required,oneof=check_in check_out"`
	Notes      string    `json:"notes" validate:"max=1000"`
}

func (r *ManualAttendanceRequest) Validate() error {
	if r.Notes == "" {
		r.Notes = "Manual Entry"
	}
	return validator.Struct(r)
}

// ========================================
// HARDWARE DTOs
// ========================================

// HardwareScan is one authenticated door terminal event.
type HardwareScan struct {
	CompanyID      int64
	DeviceUID      string
	DeviceType     string
	DeviceLocation string
	EmployeeCode   string
	TimeISO        string

	// CloudSync scans were already accepted by the vendor cloud and skip the freshness window.
	CloudSync bool
}

type HardwareScanResult struct {
	Trigger       Trigger
	EmployeeRowID int64
	EmployeeName  string
	Attendance    Attendance
}
