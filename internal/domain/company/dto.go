package company

import (
	"time"

	"github.com/cmlabs-hris/attendance-saas-go/internal/pkg/validator"
)

// ========================================
// PROVISIONING DTOs
// ========================================

type ProvisionCompanyRequest struct {
	Name          string `json:"name" validate:"required,max=255"`
	AdminUsername string `json:"admin_username" validate:"required,min=3,max=50"`
	AdminPassword string `json:"admin_pass" validate:"required,min=6"`
	Plan          string `json:"plan"`
	HardwareType  string `json:"hardware_type" validate:"omitempty,oneof=RASPBERRY_PI ESP32 ZK_CONTROLLER"`
}

func (r *ProvisionCompanyRequest) Validate() error {
	if r.Plan == "" {
		r.Plan = "basic"
	}
	if r.HardwareType == "" {
		r.HardwareType = "ESP32"
	}
	return validator.Struct(r)
}

// ProvisionedDevice carries the seed device credentials. The secret is only ever returned here.
type ProvisionedDevice struct {
	DeviceUID  string `json:"device_uid"`
	SecretKey  string `json:"secret_key"`
	DeviceType string `json:"device_type"`
	Location   string `json:"location"`
}

type ProvisionCompanyResponse struct {
	CompanyID     int64             `json:"company_id"`
	Name          string            `json:"name"`
	AdminUsername string            `json:"admin_username"`
	ValidUntil    string            `json:"valid_until"`
	Device        ProvisionedDevice `json:"device"`
}

type UpdateCompanyRequest struct {
	ID     int64   `json:"-"`
	Name   *string `json:"name,omitempty"`
	Status *string `json:"status,omitempty"`
}

func (r *UpdateCompanyRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name cannot be empty",
		})
	}
	if r.Status != nil && !validator.IsInSlice(*r.Status, []string{string(StatusActive), string(StatusSuspended)}) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be active or suspended",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CompanyResponse struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Plan       string  `json:"plan"`
	Status     string  `json:"status"`
	ValidUntil *string `json:"valid_until"`
	CreatedAt  string  `json:"created_at"`
}

func NewCompanyResponse(c Company) CompanyResponse {
	resp := CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		Plan:      c.Plan,
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
	if c.ValidUntil != nil {
		v := c.ValidUntil.Format("2006-01-02")
		resp.ValidUntil = &v
	}
	return resp
}

// ========================================
// SETTINGS DTOs
// ========================================

type UpdateGeofenceRequest struct {
	Latitude  float64 `json:"lat" validate:"latitude"`
	Longitude float64 `json:"lng" validate:"longitude"`
	Radius    float64 `json:"radius" validate:"gt=0,lte=100000"`
}

func (r *UpdateGeofenceRequest) Validate() error {
	return validator.Struct(r)
}

type UpdateScheduleRequest struct {
	WorkStartTime             string  `json:"start_time" validate:"required,clock"`
	WorkEndTime               string  `json:"end_time" validate:"required,clock"`
	Timezone                  *string `json:"timezone,omitempty" validate:"omitempty,timezone_name"`
	SuperLateThresholdMinutes *int    `json:"super_late_threshold,omitempty" validate:"omitempty,gte=0,lte=720"`
}

func (r *UpdateScheduleRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}
	if r.WorkEndTime <= r.WorkStartTime {
		return validator.ValidationErrors{{
			Field:   "end_time",
			Message: "end_time must be after start_time",
		}}
	}
	return nil
}

type SettingsResponse struct {
	CompanyID                 int64   `json:"company_id"`
	Name                      string  `json:"name"`
	Latitude                  float64 `json:"lat"`
	Longitude                 float64 `json:"lng"`
	Radius                    float64 `json:"radius"`
	WorkStartTime             string  `json:"start_time"`
	WorkEndTime               string  `json:"end_time"`
	Timezone                  string  `json:"timezone"`
	SuperLateThresholdMinutes int     `json:"super_late_threshold"`
}

func NewSettingsResponse(c Company) SettingsResponse {
	return SettingsResponse{
		CompanyID:                 c.ID,
		Name:                      c.Name,
		Latitude:                  c.Geofence.Latitude,
		Longitude:                 c.Geofence.Longitude,
		Radius:                    c.Geofence.RadiusMeters,
		WorkStartTime:             c.Schedule.WorkStartTime,
		WorkEndTime:               c.Schedule.WorkEndTime,
		Timezone:                  c.Schedule.Timezone,
		SuperLateThresholdMinutes: c.Schedule.SuperLateThresholdMinutes,
	}
}
