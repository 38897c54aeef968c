package auth

import "github.com/cmlabs-hris/attendance-saas-go/internal/pkg/validator"

// LoginRequest is the form login used by super admins and company admins.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Username) {
		errs = append(errs, validator.ValidationError{
			Field:   "username",
			Message: "username is required",
		})
	}
	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeLoginRequest struct {
	EmployeeID  string `json:"employee_id" validate:"required,max=64"`
	Password    string `json:"password" validate:"required"`
	DeviceID    string `json:"device_id" validate:"required,max=255"`
	DeviceModel string `json:"device_model,omitempty"`

	// CompanyID disambiguates an employee_id used by more than one tenant.
	CompanyID *int64 `json:"company_id,omitempty"`
}

func (r *EmployeeLoginRequest) Validate() error {
	return validator.Struct(r)
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   int64  `json:"expires_at"`
	Role        string `json:"role"`
	CompanyID   *int64 `json:"company_id,omitempty"`
	Name        string `json:"name,omitempty"`
}
