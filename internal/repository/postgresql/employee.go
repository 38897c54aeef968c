package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-saas-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `
	id, company_id, employee_id, name, password_hash, device_id, role, status,
	last_login, created_at, updated_at, deleted_at`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	var status string
	err := row.Scan(
		&e.ID, &e.CompanyID, &e.EmployeeID, &e.Name, &e.PasswordHash, &e.DeviceID, &e.Role, &status,
		&e.LastLogin, &e.CreatedAt, &e.UpdatedAt, &e.DeletedAt,
	)
	e.Status = employee.Status(status)
	return e, err
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employees (company_id, employee_id, name, password_hash, role, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + employeeColumns

	created, err := scanEmployee(q.QueryRow(ctx, query,
		newEmployee.CompanyID, newEmployee.EmployeeID, newEmployee.Name, newEmployee.PasswordHash,
		newEmployee.Role, string(newEmployee.Status),
	))
	if err != nil {
		if isUniqueViolation(err, "employees_company_employee_id_key") {
			return employee.Employee{}, employee.ErrEmployeeIDExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return created, nil
}

// GetByEmployeeID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByEmployeeID(ctx context.Context, companyID int64, employeeID string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE company_id = $1 AND employee_id = $2`

	found, err := scanEmployee(q.QueryRow(ctx, query, companyID, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee %s: %w", employeeID, err)
	}
	return found, nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context, companyID int64) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + `
		FROM employees
		WHERE company_id = $1 AND deleted_at IS NULL
		ORDER BY employee_id`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := make([]employee.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, updated employee.Employee) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET name = $1, role = $2, status = $3, updated_at = NOW()
		WHERE company_id = $4 AND employee_id = $5 AND deleted_at IS NULL
	`
	tag, err := q.Exec(ctx, query, updated.Name, updated.Role, string(updated.Status), updated.CompanyID, updated.EmployeeID)
	if err != nil {
		return fmt.Errorf("failed to update employee %s: %w", updated.EmployeeID, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// SoftDelete implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) SoftDelete(ctx context.Context, companyID int64, employeeID string, deletedAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET status = 'deleted', deleted_at = $1, updated_at = $1
		WHERE company_id = $2 AND employee_id = $3 AND deleted_at IS NULL
	`
	tag, err := q.Exec(ctx, query, deletedAt, companyID, employeeID)
	if err != nil {
		return fmt.Errorf("failed to delete employee %s: %w", employeeID, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// Restore implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Restore(ctx context.Context, restored employee.Employee) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET name = $1, password_hash = $2, role = $3, status = 'active',
		    deleted_at = NULL, device_id = NULL, updated_at = NOW()
		WHERE company_id = $4 AND employee_id = $5 AND deleted_at IS NOT NULL
	`
	tag, err := q.Exec(ctx, query, restored.Name, restored.PasswordHash, restored.Role, restored.CompanyID, restored.EmployeeID)
	if err != nil {
		return fmt.Errorf("failed to restore employee %s: %w", restored.EmployeeID, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotDeleted
	}
	return nil
}

// BindDevice implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) BindDevice(ctx context.Context, id int64, deviceID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE employees SET device_id = $1, updated_at = NOW() WHERE id = $2 AND device_id IS NULL`
	tag, err := q.Exec(ctx, query, deviceID, id)
	if err != nil {
		return false, fmt.Errorf("failed to bind device: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ClearDevice implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ClearDevice(ctx context.Context, companyID int64, employeeID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET device_id = NULL, updated_at = NOW()
		WHERE company_id = $1 AND employee_id = $2 AND deleted_at IS NULL
	`
	tag, err := q.Exec(ctx, query, companyID, employeeID)
	if err != nil {
		return fmt.Errorf("failed to reset device of employee %s: %w", employeeID, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// TouchLastLogin implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `UPDATE employees SET last_login = $1 WHERE id = $2`, at, id); err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// FindLoginCandidates implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) FindLoginCandidates(ctx context.Context, employeeID string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + `
		FROM employees
		WHERE employee_id = $1 AND deleted_at IS NULL
		ORDER BY company_id`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to find employee %s: %w", employeeID, err)
	}
	defer rows.Close()

	candidates := make([]employee.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		candidates = append(candidates, e)
	}
	return candidates, rows.Err()
}
