package employee

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-saas-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-saas-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	acmeID   int64 = 1
	globexID int64 = 2
)

func newTestEmployeeService() (employee.EmployeeService, *memory.Store) {
	store := memory.NewStore()
	now := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	return NewEmployeeService(store.Employees(), func() time.Time { return now }), store
}

func adminOf(companyID int64) context.Context {
	return auth.WithIdentity(context.Background(), auth.CompanyAdmin{Username: "admin", CompanyID: companyID})
}

func createEmployee(t *testing.T, svc employee.EmployeeService, companyID int64, employeeID string) employee.EmployeeResponse {
	t.Helper()
	resp, err := svc.Create(adminOf(companyID), employee.CreateEmployeeRequest{
		EmployeeID: employeeID,
		Name:       "Worker " + employeeID,
		Password:   "pass1234",
	})
	require.NoError(t, err)
	return resp
}

func TestCreate(t *testing.T) {
	svc, store := newTestEmployeeService()

	resp := createEmployee(t, svc, acmeID, "E1")
	assert.Equal(t, "E1", resp.EmployeeID)
	assert.Equal(t, employee.DefaultRole, resp.Role)
	assert.Equal(t, "active", resp.Status)
	assert.False(t, resp.DeviceBound)

	stored, err := store.Employees().GetByEmployeeID(context.Background(), acmeID, "E1")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pass1234")))

	_, err = svc.Create(adminOf(acmeID), employee.CreateEmployeeRequest{EmployeeID: "E1", Name: "Dup", Password: "pass1234"})
	assert.ErrorIs(t, err, employee.ErrEmployeeIDExists)

	// Keys are unique per company only.
	createEmployee(t, svc, globexID, "E1")
}

func TestCreate_Validation(t *testing.T) {
	svc, _ := newTestEmployeeService()

	_, err := svc.Create(adminOf(acmeID), employee.CreateEmployeeRequest{EmployeeID: "", Name: "", Password: "1"})
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	fields := verrs.ToMap()
	assert.Contains(t, fields, "employee_id")
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "password")
}

func TestCreate_RequiresCompanyAdmin(t *testing.T) {
	svc, _ := newTestEmployeeService()

	employeeCtx := auth.WithIdentity(context.Background(), auth.Employee{EmployeeID: "E1", CompanyID: acmeID})
	_, err := svc.Create(employeeCtx, employee.CreateEmployeeRequest{EmployeeID: "E2", Name: "x", Password: "pass1234"})
	assert.ErrorIs(t, err, auth.ErrForbidden)

	_, err = svc.List(context.Background())
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)
}

func TestDeleteAndRestore(t *testing.T) {
	svc, store := newTestEmployeeService()
	ctx := adminOf(acmeID)
	created := createEmployee(t, svc, acmeID, "E1")

	bound, err := store.Employees().BindDevice(context.Background(), created.ID, "phone-A")
	require.NoError(t, err)
	require.True(t, bound)

	require.NoError(t, svc.Delete(ctx, "E1"))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = svc.Get(ctx, "E1")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, "E1"), employee.ErrEmployeeNotFound)

	_, err = svc.Create(ctx, employee.CreateEmployeeRequest{EmployeeID: "E1", Name: "Back", Password: "newpass1"})
	assert.ErrorIs(t, err, employee.ErrEmployeeSoftDeleted)

	restored, err := svc.Restore(ctx, employee.CreateEmployeeRequest{EmployeeID: "E1", Name: "Back", Password: "newpass1", Role: "Marketing"})
	require.NoError(t, err)
	assert.Equal(t, "Back", restored.Name)
	assert.Equal(t, "Marketing", restored.Role)
	assert.Equal(t, "active", restored.Status)
	assert.False(t, restored.DeviceBound)

	stored, err := store.Employees().GetByEmployeeID(context.Background(), acmeID, "E1")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("newpass1")))
}

func TestRestore_Errors(t *testing.T) {
	svc, _ := newTestEmployeeService()
	ctx := adminOf(acmeID)

	_, err := svc.Restore(ctx, employee.CreateEmployeeRequest{EmployeeID: "E9", Name: "Nobody", Password: "pass1234"})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	createEmployee(t, svc, acmeID, "E1")
	_, err = svc.Restore(ctx, employee.CreateEmployeeRequest{EmployeeID: "E1", Name: "Live", Password: "pass1234"})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotDeleted)
}

func TestUpdate(t *testing.T) {
	svc, _ := newTestEmployeeService()
	ctx := adminOf(acmeID)
	createEmployee(t, svc, acmeID, "E1")

	name := "Renamed"
	status := "suspended"
	resp, err := svc.Update(ctx, employee.UpdateEmployeeRequest{EmployeeID: "E1", Name: &name, Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", resp.Name)
	assert.Equal(t, "suspended", resp.Status)

	bad := "deleted"
	_, err = svc.Update(ctx, employee.UpdateEmployeeRequest{EmployeeID: "E1", Status: &bad})
	var verrs validator.ValidationErrors
	assert.True(t, errors.As(err, &verrs))

	// Another tenant cannot see the row.
	_, err = svc.Update(adminOf(globexID), employee.UpdateEmployeeRequest{EmployeeID: "E1", Name: &name})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestResetDevice(t *testing.T) {
	svc, store := newTestEmployeeService()
	ctx := adminOf(acmeID)
	created := createEmployee(t, svc, acmeID, "E1")

	_, err := store.Employees().BindDevice(context.Background(), created.ID, "phone-A")
	require.NoError(t, err)

	got, err := svc.Get(ctx, "E1")
	require.NoError(t, err)
	assert.True(t, got.DeviceBound)

	require.NoError(t, svc.ResetDevice(ctx, "E1"))

	got, err = svc.Get(ctx, "E1")
	require.NoError(t, err)
	assert.False(t, got.DeviceBound)

	assert.ErrorIs(t, svc.ResetDevice(ctx, "E404"), employee.ErrEmployeeNotFound)
}
