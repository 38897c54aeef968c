package employee

import (
	"time"

	"github.com/cmlabs-hris/attendance-saas-go/internal/pkg/validator"
)

type CreateEmployeeRequest struct {
	EmployeeID string `json:"employee_id" validate:"required,max=64"`
	Name       string `json:"name" validate:"required,max=255"`
	Password   string `json:"password" validate:"required,min=4"`
	Role       string `json:"role" validate:"max=64"`
}

func (r *CreateEmployeeRequest) Validate() error {
	if r.Role == "" {
		r.Role = DefaultRole
	}
	return validator.Struct(r)
}

type UpdateEmployeeRequest struct {
	EmployeeID string  `json:"-"`
	Name       *string `json:"name,omitempty"`
	Role       *string `json:"role,omitempty"`
	Status     *string `json:"status,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name cannot be empty",
		})
	}
	if r.Role != nil && validator.IsEmpty(*r.Role) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role cannot be empty",
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

type EmployeeResponse struct {
	ID          int64   `json:"id"`
	EmployeeID  string  `json:"employee_id"`
	Name        string  `json:"name"`
	Role        string  `json:"role"`
	Status      string  `json:"status"`
	DeviceBound bool    `json:"device_bound"`
	DeviceID    *string `json:"device_id,omitempty"`
	LastLogin   *string `json:"last_login,omitempty"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:          e.ID,
		EmployeeID:  e.EmployeeID,
		Name:        e.Name,
		Role:        e.Role,
		Status:      string(e.Status),
		DeviceBound: e.DeviceID != nil,
		DeviceID:    e.DeviceID,
	}
	if e.LastLogin != nil {
		v := e.LastLogin.Format(time.RFC3339)
		resp.LastLogin = &v
	}
	return resp
}
