package memory

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/employee"
)

type employeeRepo struct{ s *Store }

// find returns the row id for the business key, soft-deleted rows included.
func (r employeeRepo) find(companyID int64, employeeID string) (int64, bool) {
	for id, e := range r.s.employees {
		if e.CompanyID == companyID && e.EmployeeID == employeeID {
			return id, true
		}
	}
	return 0, false
}

func (r employeeRepo) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.find(e.CompanyID, e.EmployeeID); ok {
		return employee.Employee{}, employee.ErrEmployeeIDExists
	}
	e.ID = r.s.nextID()
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	r.s.employees[e.ID] = e
	return e, nil
}

func (r employeeRepo) GetByEmployeeID(ctx context.Context, companyID int64, employeeID string) (employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	id, ok := r.find(companyID, employeeID)
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return r.s.employees[id], nil
}

func (r employeeRepo) FindLoginCandidates(ctx context.Context, employeeID string) ([]employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]employee.Employee, 0)
	for _, id := range sortedIDs(r.s.employees) {
		e := r.s.employees[id]
		if e.EmployeeID == employeeID && e.DeletedAt == nil {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r employeeRepo) List(ctx context.Context, companyID int64) ([]employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]employee.Employee, 0)
	for _, id := range sortedIDs(r.s.employees) {
		e := r.s.employees[id]
		if e.CompanyID == companyID && e.DeletedAt == nil {
			out = append(out, e)
		}
	}
	return out, nil
}

// live returns the non-deleted row for the business key.
func (r employeeRepo) live(companyID int64, employeeID string) (employee.Employee, bool) {
	id, ok := r.find(companyID, employeeID)
	if !ok {
		return employee.Employee{}, false
	}
	e := r.s.employees[id]
	return e, e.DeletedAt == nil
}

func (r employeeRepo) Update(ctx context.Context, updated employee.Employee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.live(updated.CompanyID, updated.EmployeeID)
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	e.Name = updated.Name
	e.Role = updated.Role
	e.Status = updated.Status
	e.UpdatedAt = time.Now()
	r.s.employees[e.ID] = e
	return nil
}

func (r employeeRepo) SoftDelete(ctx context.Context, companyID int64, employeeID string, deletedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.live(companyID, employeeID)
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	e.Status = employee.StatusDeleted
	e.DeletedAt = &deletedAt
	e.UpdatedAt = deletedAt
	r.s.employees[e.ID] = e
	return nil
}

func (r employeeRepo) Restore(ctx context.Context, restored employee.Employee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	id, ok := r.find(restored.CompanyID, restored.EmployeeID)
	if !ok || r.s.employees[id].DeletedAt == nil {
		return employee.ErrEmployeeNotDeleted
	}
	e := r.s.employees[id]
	e.Name = restored.Name
	e.PasswordHash = restored.PasswordHash
	e.Role = restored.Role
	e.Status = employee.StatusActive
	e.DeletedAt = nil
	e.DeviceID = nil
	e.UpdatedAt = time.Now()
	r.s.employees[id] = e
	return nil
}

func (r employeeRepo) BindDevice(ctx context.Context, id int64, deviceID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.employees[id]
	if !ok || e.DeviceID != nil {
		return false, nil
	}
	e.DeviceID = &deviceID
	r.s.employees[id] = e
	return true, nil
}

func (r employeeRepo) ClearDevice(ctx context.Context, companyID int64, employeeID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.live(companyID, employeeID)
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	e.DeviceID = nil
	r.s.employees[e.ID] = e
	return nil
}

func (r employeeRepo) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if e, ok := r.s.employees[id]; ok {
		e.LastLogin = &at
		r.s.employees[id] = e
	}
	return nil
}
