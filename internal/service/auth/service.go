package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/company"
	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-saas-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	auth.SuperAdminRepository
	company.CompanyRepository
	company.CompanyAdminRepository
	employee.EmployeeRepository
	jwt.Service
	now func() time.Time
}

func NewAuthService(
	superAdminRepository auth.SuperAdminRepository,
	companyRepository company.CompanyRepository,
	companyAdminRepository company.CompanyAdminRepository,
	employeeRepository employee.EmployeeRepository,
	jwtService jwt.Service,
	now func() time.Time,
) auth.AuthService {
	if now == nil {
		now = time.Now
	}
	return &AuthServiceImpl{
		SuperAdminRepository:   superAdminRepository,
		CompanyRepository:      companyRepository,
		CompanyAdminRepository: companyAdminRepository,
		EmployeeRepository:     employeeRepository,
		Service:                jwtService,
		now:                    now,
	}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (a *AuthServiceImpl) issue(subject, role string, companyID *int64, name string) (auth.TokenResponse, error) {
	token, expiresAt, err := a.Service.GenerateAccessToken(subject, role, companyID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	return auth.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
		Role:        role,
		CompanyID:   companyID,
		Name:        name,
	}, nil
}

// LoginSuperAdmin implements auth.AuthService.
func (a *AuthServiceImpl) LoginSuperAdmin(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	account, err := a.SuperAdminRepository.GetByUsername(ctx, req.Username)
	if err != nil {
		return auth.TokenResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	slog.Info("Super admin logged in", "username", account.Username)
	return a.issue(account.Username, auth.RoleSuperAdmin, nil, "")
}

// LoginCompanyAdmin implements auth.AuthService.
func (a *AuthServiceImpl) LoginCompanyAdmin(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	admin, err := a.CompanyAdminRepository.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, company.ErrAdminNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	tenant, err := a.CompanyRepository.GetByID(ctx, admin.CompanyID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to load company of admin %s: %w", admin.Username, err)
	}
	if !tenant.IsActive() {
		return auth.TokenResponse{}, auth.ErrCompanySuspended
	}

	companyID := tenant.ID
	return a.issue(admin.Username, auth.RoleCompanyAdmin, &companyID, tenant.Name)
}

// LoginEmployee implements auth.AuthService.
func (a *AuthServiceImpl) LoginEmployee(ctx context.Context, req auth.EmployeeLoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	candidates, err := a.EmployeeRepository.FindLoginCandidates(ctx, req.EmployeeID)
	if err != nil {
		return auth.TokenResponse{}, err
	}
	if req.CompanyID != nil {
		filtered := candidates[:0]
		for _, c := range candidates {
			if c.CompanyID == *req.CompanyID {
				filtered = append(filtered, c)
			}
		}
		candidates = filtered
	}
	switch {
	case len(candidates) == 0:
		return auth.TokenResponse{}, auth.ErrUserNotFound
	case len(candidates) > 1:
		return auth.TokenResponse{}, auth.ErrAmbiguousLogin
	}
	emp := candidates[0]

	if err := bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrWrongPassword
	}

	if !emp.IsActive() {
		return auth.TokenResponse{}, auth.ErrAccountInactive
	}

	tenant, err := a.CompanyRepository.GetByID(ctx, emp.CompanyID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to load company of employee %s: %w", emp.EmployeeID, err)
	}
	if !tenant.IsActive() {
		return auth.TokenResponse{}, auth.ErrCompanySuspended
	}

	if err := a.enforceDeviceBinding(ctx, emp, req.DeviceID); err != nil {
		return auth.TokenResponse{}, err
	}

	if err := a.EmployeeRepository.TouchLastLogin(ctx, emp.ID, a.now().UTC()); err != nil {
		slog.Warn("Failed to record last login", "employee_id", emp.EmployeeID, "error", err)
	}

	companyID := emp.CompanyID
	return a.issue(emp.EmployeeID, auth.RoleEmployee, &companyID, emp.Name)
}

// enforceDeviceBinding binds the first device and rejects any other one afterwards.
func (a *AuthServiceImpl) enforceDeviceBinding(ctx context.Context, emp employee.Employee, deviceID string) error {
	if emp.DeviceID != nil {
		if *emp.DeviceID != deviceID {
			slog.Warn("Login from foreign device rejected", "employee_id", emp.EmployeeID, "company_id", emp.CompanyID)
			return auth.ErrDeviceLocked
		}
		return nil
	}

	bound, err := a.EmployeeRepository.BindDevice(ctx, emp.ID, deviceID)
	if err != nil {
		return err
	}
	if bound {
		slog.Info("Device bound to employee", "employee_id", emp.EmployeeID, "company_id", emp.CompanyID)
		return nil
	}

	// Lost a race against a concurrent first login; compare with whatever won.
	current, err := a.EmployeeRepository.GetByEmployeeID(ctx, emp.CompanyID, emp.EmployeeID)
	if err != nil {
		return err
	}
	if current.DeviceID == nil || *current.DeviceID != deviceID {
		return auth.ErrDeviceLocked
	}
	return nil
}

// BootstrapSuperAdmin implements auth.AuthService.
func (a *AuthServiceImpl) BootstrapSuperAdmin(ctx context.Context, username, password string) error {
	n, err := a.SuperAdminRepository.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if username == "" || password == "" {
		slog.Warn("No super admin exists and SUPER_ADMIN_PASSWORD is not set; platform login is disabled")
		return nil
	}

	hash, err := hashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash super admin password: %w", err)
	}
	if _, err := a.SuperAdminRepository.Create(ctx, auth.SuperAdminAccount{Username: username, PasswordHash: hash}); err != nil {
		return err
	}
	slog.Info("Super admin account created", "username", username)
	return nil
}
