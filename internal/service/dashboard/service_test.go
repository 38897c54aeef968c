package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/company"
	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/device"
	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-saas-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-saas-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 09:05 in Dhaka
var fixedNow = time.Date(2024, time.January, 15, 3, 5, 0, 0, time.UTC)

var today = time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

func seedCompany(t *testing.T, store *memory.Store, name string) company.Company {
	t.Helper()
	comp, err := store.Companies().Create(context.Background(), company.Company{
		Name:   name,
		Plan:   "basic",
		Status: company.StatusActive,
		Schedule: company.Schedule{
			WorkStartTime:             "09:00",
			WorkEndTime:               "17:00",
			Timezone:                  "Asia/Dhaka",
			SuperLateThresholdMinutes: 30,
		},
	})
	require.NoError(t, err)
	return comp
}

func seedEmployee(t *testing.T, store *memory.Store, companyID int64, employeeID string, status employee.Status) {
	t.Helper()
	_, err := store.Employees().Create(context.Background(), employee.Employee{
		CompanyID:    companyID,
		EmployeeID:   employeeID,
		Name:         employeeID,
		PasswordHash: "x",
		Role:         "Staff",
		Status:       status,
	})
	require.NoError(t, err)
}

func seedAttendance(t *testing.T, store *memory.Store, companyID int64, employeeID string, date time.Time, status attendance.Status, checkedOut bool) {
	t.Helper()
	at := date.Add(3 * time.Hour)
	row := attendance.Attendance{
		CompanyID:   companyID,
		EmployeeID:  employeeID,
		Timestamp:   at,
		DateOnly:    date,
		Status:      status,
		Type:        attendance.TypeCheckIn,
		CheckInTime: &at,
		Source:      attendance.SourceMobile,
	}
	if checkedOut {
		out := at.Add(8 * time.Hour)
		row.CheckOutTime = &out
		row.Type = attendance.TypeCheckOut
	}
	_, err := store.Attendance().Create(context.Background(), row)
	require.NoError(t, err)
}

func adminCtx(companyID int64) context.Context {
	return auth.WithIdentity(context.Background(), auth.CompanyAdmin{Username: "boss", CompanyID: companyID})
}

func newTestDashboardService(store *memory.Store) dashboard.DashboardService {
	return NewDashboardService(store.Companies(), store.Employees(), store.Attendance(), store.ShortLeaves(), store.Devices(),
		func() time.Time { return fixedNow })
}

func TestGetDaily(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	acme := seedCompany(t, store, "Acme")
	globex := seedCompany(t, store, "Globex")

	for _, id := range []string{"E1", "E2", "E3"} {
		seedEmployee(t, store, acme.ID, id, employee.StatusActive)
	}
	seedEmployee(t, store, acme.ID, "E4", employee.StatusSuspended)
	seedEmployee(t, store, globex.ID, "G1", employee.StatusActive)

	seedAttendance(t, store, acme.ID, "E1", today, attendance.StatusPresent, false)
	seedAttendance(t, store, acme.ID, "E2", today, attendance.StatusLate, true)
	seedAttendance(t, store, acme.ID, "E1", today.AddDate(0, 0, -1), attendance.StatusSuperLate, true)
	seedAttendance(t, store, globex.ID, "G1", today, attendance.StatusPresent, false)

	_, err := store.ShortLeaves().Create(ctx, attendance.ShortLeave{
		CompanyID:  acme.ID,
		EmployeeID: "E1",
		DateOnly:   today,
		Reason:     "bank",
		ExitTime:   fixedNow,
	})
	require.NoError(t, err)

	for i, active := range []bool{true, false} {
		_, err := store.Devices().Create(ctx, device.HardwareDevice{
			CompanyID:  acme.ID,
			DeviceUID:  []string{"ZK_00000001", "ZK_00000002"}[i],
			DeviceType: device.TypeESP32,
			Location:   device.DefaultLocation,
			SecretKey:  "k",
			Active:     active,
		})
		require.NoError(t, err)
	}

	svc := newTestDashboardService(store)

	t.Run("today in company timezone", func(t *testing.T) {
		got, err := svc.GetDaily(adminCtx(acme.ID), dashboard.DailyRequest{})
		require.NoError(t, err)
		assert.Equal(t, dashboard.DailyResponse{
			Date:           "2024-01-15",
			TotalEmployees: 3,
			Present:        1,
			Late:           1,
			SuperLate:      0,
			Absent:         1,
			CheckedOut:     1,
			OnShortLeave:   1,
			ActiveDevices:  1,
		}, got)
	})

	t.Run("explicit date", func(t *testing.T) {
		got, err := svc.GetDaily(adminCtx(acme.ID), dashboard.DailyRequest{Date: "2024-01-14"})
		require.NoError(t, err)
		assert.Equal(t, 1, got.SuperLate)
		assert.Equal(t, 2, got.Absent)
		assert.Zero(t, got.OnShortLeave)
	})

	t.Run("bad date", func(t *testing.T) {
		_, err := svc.GetDaily(adminCtx(acme.ID), dashboard.DailyRequest{Date: "15/01/2024"})
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Contains(t, verrs.ToMap(), "date")
	})

	t.Run("employee is forbidden", func(t *testing.T) {
		ctx := auth.WithIdentity(context.Background(), auth.Employee{EmployeeID: "E1", CompanyID: acme.ID})
		_, err := svc.GetDaily(ctx, dashboard.DailyRequest{})
		assert.ErrorIs(t, err, auth.ErrForbidden)
	})
}

func TestGetDaily_DeletedCompany(t *testing.T) {
	store := memory.NewStore()
	acme := seedCompany(t, store, "Acme")
	require.NoError(t, store.Companies().SoftDelete(context.Background(), acme.ID, fixedNow))

	_, err := newTestDashboardService(store).GetDaily(adminCtx(acme.ID), dashboard.DailyRequest{})
	assert.ErrorIs(t, err, company.ErrCompanyNotFound)
}
