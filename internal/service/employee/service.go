package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/employee"
	"golang.org/x/crypto/bcrypt"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	now          func() time.Time
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository, now func() time.Time) employee.EmployeeService {
	if now == nil {
		now = time.Now
	}
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
		now:          now,
	}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// List implements employee.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context) ([]employee.EmployeeResponse, error) {
	admin, err := auth.CompanyAdminFromContext(ctx)
	if err != nil {
		return nil, err
	}

	employees, err := s.employeeRepo.List(ctx, admin.CompanyID)
	if err != nil {
		return nil, err
	}

	resp := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		resp = append(resp, employee.NewEmployeeResponse(e))
	}
	return resp, nil
}

// Get implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Get(ctx context.Context, employeeID string) (employee.EmployeeResponse, error) {
	admin, err := auth.CompanyAdminFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	e, err := s.employeeRepo.GetByEmployeeID(ctx, admin.CompanyID, employeeID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if e.IsDeleted() {
		return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
	}
	return employee.NewEmployeeResponse(e), nil
}

// Create implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	admin, err := auth.CompanyAdminFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	req.EmployeeID = strings.TrimSpace(req.EmployeeID)

	existing, err := s.employeeRepo.GetByEmployeeID(ctx, admin.CompanyID, req.EmployeeID)
	switch {
	case err == nil && existing.IsDeleted():
		return employee.EmployeeResponse{}, employee.ErrEmployeeSoftDeleted
	case err == nil:
		return employee.EmployeeResponse{}, employee.ErrEmployeeIDExists
	case !errors.Is(err, employee.ErrEmployeeNotFound):
		return employee.EmployeeResponse{}, err
	}

	passwordHash, err := hashPassword(req.Password)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	created, err := s.employeeRepo.Create(ctx, employee.Employee{
		CompanyID:    admin.CompanyID,
		EmployeeID:   req.EmployeeID,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: passwordHash,
		Role:         req.Role,
		Status:       employee.StatusActive,
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("Employee created", "company_id", admin.CompanyID, "employee_id", created.EmployeeID)
	return employee.NewEmployeeResponse(created), nil
}

// Restore implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Restore(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	admin, err := auth.CompanyAdminFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}
	req.EmployeeID = strings.TrimSpace(req.EmployeeID)

	passwordHash, err := hashPassword(req.Password)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	err = s.employeeRepo.Restore(ctx, employee.Employee{
		CompanyID:    admin.CompanyID,
		EmployeeID:   req.EmployeeID,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: passwordHash,
		Role:         req.Role,
	})
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotDeleted) {
			// Distinguish "never existed" from "exists and is live".
			if _, getErr := s.employeeRepo.GetByEmployeeID(ctx, admin.CompanyID, req.EmployeeID); errors.Is(getErr, employee.ErrEmployeeNotFound) {
				return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
			}
		}
		return employee.EmployeeResponse{}, err
	}

	restored, err := s.employeeRepo.GetByEmployeeID(ctx, admin.CompanyID, req.EmployeeID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("Employee restored", "company_id", admin.CompanyID, "employee_id", restored.EmployeeID)
	return employee.NewEmployeeResponse(restored), nil
}

// Update implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Update(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	admin, err := auth.CompanyAdminFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	e, err := s.employeeRepo.GetByEmployeeID(ctx, admin.CompanyID, req.EmployeeID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if e.IsDeleted() {
		return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
	}

	if req.Name != nil {
		e.Name = strings.TrimSpace(*req.Name)
	}
	if req.Role != nil {
		e.Role = strings.TrimSpace(*req.Role)
	}
	if req.Status != nil {
		e.Status = employee.Status(*req.Status)
	}

	if err := s.employeeRepo.Update(ctx, e); err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("Employee updated", "company_id", admin.CompanyID, "employee_id", e.EmployeeID, "status", e.Status)
	return employee.NewEmployeeResponse(e), nil
}

// Delete implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Delete(ctx context.Context, employeeID string) error {
	admin, err := auth.CompanyAdminFromContext(ctx)
	if err != nil {
		return err
	}

	if err := s.employeeRepo.SoftDelete(ctx, admin.CompanyID, employeeID, s.now().UTC()); err != nil {
		return err
	}

	slog.Info("Employee deleted", "company_id", admin.CompanyID, "employee_id", employeeID)
	return nil
}

// ResetDevice implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ResetDevice(ctx context.Context, employeeID string) error {
	admin, err := auth.CompanyAdminFromContext(ctx)
	if err != nil {
		return err
	}

	if err := s.employeeRepo.ClearDevice(ctx, admin.CompanyID, employeeID); err != nil {
		return err
	}

	slog.Info("Employee device binding reset", "company_id", admin.CompanyID, "employee_id", employeeID)
	return nil
}
