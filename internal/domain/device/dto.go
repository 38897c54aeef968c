package device

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-saas-go/internal/pkg/validator"
)

type PushLogRequest struct {
	EmployeeCode string `json:"employee_code" validate:"required,max=64"`
	TimeISO      string `json:"time_iso" validate:"required"`
}

func (r *PushLogRequest) Validate() error {
	return validator.Struct(r)
}

// PushLogResponse is what the terminal acts on. OpenDoor is true only on success.
type PushLogResponse struct {
	Status     string `json:"status"`
	OpenDoor   bool   `json:"open_door"`
	DurationMS int    `json:"duration_ms,omitempty"`
	Message    string `json:"message"`
}

func Denied(message string) PushLogResponse {
	return PushLogResponse{Status: "error", OpenDoor: false, Message: message}
}

type UpdateHardwareRequest struct {
	ID         int64  `json:"-"`
	DeviceType string `json:"device_type" validate:"required"`
}

func (r *UpdateHardwareRequest) Validate() error {
	r.DeviceType = strings.ToUpper(strings.TrimSpace(r.DeviceType))
	if err := validator.Struct(r); err != nil {
		return err
	}
	if !IsSupportedType(r.DeviceType) {
		return validator.ValidationErrors{{
			Field:   "device_type",
			Message: "device_type must be one of: " + strings.Join(SupportedTypes, ", "),
		}}
	}
	return nil
}

type EmergencyOpenRequest struct {
	CompanyID int64  `json:"company_id,omitempty"`
	DeviceID  string `json:"device_id" validate:"required"`
	Reason    string `json:"reason" validate:"required,max=500"`
}

func (r *EmergencyOpenRequest) Validate() error {
	return validator.Struct(r)
}

type DeviceResponse struct {
	ID         int64  `json:"id"`
	CompanyID  int64  `json:"company_id"`
	DeviceUID  string `json:"device_uid"`
	DeviceType string `json:"device_type"`
	Location   string `json:"location"`
	Active     bool   `json:"active"`
	CreatedAt  string `json:"created_at"`
}

func NewDeviceResponse(d HardwareDevice) DeviceResponse {
	return DeviceResponse{
		ID:         d.ID,
		CompanyID:  d.CompanyID,
		DeviceUID:  d.DeviceUID,
		DeviceType: d.DeviceType,
		Location:   d.Location,
		Active:     d.Active,
		CreatedAt:  d.CreatedAt.Format(time.RFC3339),
	}
}

type DoorEventResponse struct {
	ID            int64  `json:"id"`
	EmployeeID    *int64 `json:"employee_id"`
	EventType     string `json:"event_type"`
	TriggerReason string `json:"trigger_reason"`
	DeviceID      string `json:"device_id"`
	CreatedAt     string `json:"created_at"`
}

func NewDoorEventResponse(e DoorEvent) DoorEventResponse {
	return DoorEventResponse{
		ID:            e.ID,
		EmployeeID:    e.EmployeeID,
		EventType:     e.EventType,
		TriggerReason: e.TriggerReason,
		DeviceID:      e.DeviceID,
		CreatedAt:     e.CreatedAt.Format(time.RFC3339),
	}
}

type SyncResult struct {
	Fetched   int    `json:"fetched"`
	Processed int    `json:"processed"`
	Skipped   int    `json:"skipped"`
	Message   string `json:"message"`
}
