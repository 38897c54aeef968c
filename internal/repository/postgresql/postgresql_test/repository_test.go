package postgresqltest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/company"
	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/device"
	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/tracking"
	"github.com/cmlabs-hris/attendance-saas-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createCompany(t *testing.T, setup *TestDatabaseSetup, name string) company.Company {
	t.Helper()
	created, err := postgresql.NewCompanyRepository(setup.DB).Create(context.Background(), company.Company{
		Name:   name,
		Plan:   "basic",
		Status: company.StatusActive,
		Geofence: company.Geofence{
			Latitude:     company.DefaultLatitude,
			Longitude:    company.DefaultLongitude,
			RadiusMeters: company.DefaultRadiusMeters,
		},
		Schedule: company.Schedule{
			WorkStartTime:             "09:00",
			WorkEndTime:               "17:00",
			Timezone:                  "Asia/Dhaka",
			SuperLateThresholdMinutes: 30,
		},
	})
	require.NoError(t, err)
	return created
}

func createEmployee(t *testing.T, setup *TestDatabaseSetup, companyID int64, employeeID, role string) employee.Employee {
	t.Helper()
	created, err := postgresql.NewEmployeeRepository(setup.DB).Create(context.Background(), employee.Employee{
		CompanyID:    companyID,
		EmployeeID:   employeeID,
		Name:         "Employee " + employeeID,
		PasswordHash: "hash",
		Role:         role,
		Status:       employee.StatusActive,
	})
	require.NoError(t, err)
	return created
}

func TestCompanyRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewCompanyRepository(setup.DB)

	acme := createCompany(t, setup, "Acme")
	assert.NotZero(t, acme.ID)
	assert.Equal(t, "Asia/Dhaka", acme.Schedule.Timezone)

	_, err := repo.Create(ctx, company.Company{Name: "Acme", Plan: "basic", Status: company.StatusActive})
	assert.ErrorIs(t, err, company.ErrCompanyNameTaken)

	require.NoError(t, repo.UpdateSchedule(ctx, acme.ID, company.Schedule{
		WorkStartTime:             "08:30",
		WorkEndTime:               "16:30",
		Timezone:                  "UTC",
		SuperLateThresholdMinutes: 15,
	}))
	got, err := repo.GetByID(ctx, acme.ID)
	require.NoError(t, err)
	assert.Equal(t, "08:30", got.Schedule.WorkStartTime)
	assert.Equal(t, 15, got.Schedule.SuperLateThresholdMinutes)

	_, err = repo.GetByID(ctx, acme.ID+1000)
	assert.ErrorIs(t, err, company.ErrCompanyNotFound)
}

func TestEmployeeRepository_SoftDeleteAndBinding(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewEmployeeRepository(setup.DB)

	acme := createCompany(t, setup, "Acme")
	globex := createCompany(t, setup, "Globex")
	e1 := createEmployee(t, setup, acme.ID, "E1", "Staff")
	createEmployee(t, setup, globex.ID, "E1", "Staff")

	_, err := repo.Create(ctx, employee.Employee{CompanyID: acme.ID, EmployeeID: "E1", Name: "Dup", PasswordHash: "x", Role: "Staff", Status: employee.StatusActive})
	assert.ErrorIs(t, err, employee.ErrEmployeeIDExists)

	candidates, err := repo.FindLoginCandidates(ctx, "E1")
	require.NoError(t, err)
	assert.Len(t, candidates, 2)

	bound, err := repo.BindDevice(ctx, e1.ID, "phone-A")
	require.NoError(t, err)
	assert.True(t, bound)
	bound, err = repo.BindDevice(ctx, e1.ID, "phone-B")
	require.NoError(t, err)
	assert.False(t, bound)

	require.NoError(t, repo.SoftDelete(ctx, acme.ID, "E1", time.Now()))
	assert.ErrorIs(t, repo.SoftDelete(ctx, acme.ID, "E1", time.Now()), employee.ErrEmployeeNotFound)

	require.NoError(t, repo.Restore(ctx, employee.Employee{CompanyID: acme.ID, EmployeeID: "E1", Name: "Back", PasswordHash: "y", Role: "Staff"}))
	restored, err := repo.GetByEmployeeID(ctx, acme.ID, "E1")
	require.NoError(t, err)
	assert.Equal(t, "Back", restored.Name)
	assert.Nil(t, restored.DeviceID)
	assert.Nil(t, restored.DeletedAt)
}

func TestAttendanceRepository_OneRowPerDay(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(setup.DB)

	acme := createCompany(t, setup, "Acme")
	createEmployee(t, setup, acme.ID, "E1", "Staff")

	now := time.Now().UTC().Truncate(time.Second)
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	row := attendance.Attendance{
		CompanyID:   acme.ID,
		EmployeeID:  "E1",
		Timestamp:   now,
		DateOnly:    day,
		Status:      attendance.StatusPresent,
		Type:        attendance.TypeCheckIn,
		CheckInTime: &now,
		Source:      attendance.SourceMobile,
	}

	created, err := repo.Create(ctx, row)
	require.NoError(t, err)

	_, err = repo.Create(ctx, row)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)

	got, err := repo.GetByEmployeeAndDate(ctx, acme.ID, "E1", day)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = repo.GetByEmployeeAndDate(ctx, acme.ID, "E1", day.AddDate(0, 0, 1))
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)

	require.NoError(t, repo.SetCheckOut(ctx, created.ID, now.Add(time.Hour), false, nil))
	counts, err := repo.CountForDate(ctx, acme.ID, day)
	require.NoError(t, err)
	assert.Equal(t, 1, counts.ByStatus[attendance.StatusPresent])
	assert.Equal(t, 1, counts.CheckedOut)
	assert.Equal(t, 1, counts.CheckedIn())
}

func firstScanRow(companyID int64, at time.Time) attendance.Attendance {
	day := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)
	return attendance.Attendance{
		CompanyID:   companyID,
		EmployeeID:  "E1",
		Timestamp:   at,
		DateOnly:    day,
		Status:      attendance.StatusPresent,
		Type:        attendance.TypeCheckIn,
		CheckInTime: &at,
		Source:      attendance.SourceHardware,
	}
}

func TestAttendanceRepository_DuplicateInsideTransaction(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	tx := postgresql.NewTransactor(setup.DB)
	repo := postgresql.NewAttendanceRepository(setup.DB)

	acme := createCompany(t, setup, "Acme")
	createEmployee(t, setup, acme.ID, "E1", "Staff")
	row := firstScanRow(acme.ID, time.Date(2024, time.January, 15, 3, 0, 0, 0, time.UTC))

	err := tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		created, err := repo.Create(txCtx, row)
		if err != nil {
			return err
		}
		if _, err := repo.Create(txCtx, row); !errors.Is(err, attendance.ErrAlreadyCheckedIn) {
			return err
		}
		// the transaction must still accept statements after the duplicate
		got, err := repo.GetByEmployeeAndDate(txCtx, acme.ID, "E1", row.DateOnly)
		if err != nil {
			return err
		}
		assert.Equal(t, created.ID, got.ID)
		return repo.MoveCheckOut(txCtx, got.ID, row.Timestamp.Add(time.Hour))
	})
	require.NoError(t, err)

	got, err := repo.GetByEmployeeAndDate(ctx, acme.ID, "E1", row.DateOnly)
	require.NoError(t, err)
	assert.Equal(t, attendance.TypeCheckOut, got.Type)
	require.NotNil(t, got.CheckOutTime)
}

func TestAttendanceRepository_ConcurrentFirstScan(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	tx := postgresql.NewTransactor(setup.DB)
	repo := postgresql.NewAttendanceRepository(setup.DB)

	acme := createCompany(t, setup, "Acme")
	createEmployee(t, setup, acme.ID, "E1", "Staff")
	row := firstScanRow(acme.ID, time.Date(2024, time.January, 15, 3, 0, 0, 0, time.UTC))

	const scanners = 4
	var wg sync.WaitGroup
	errs := make([]error, scanners)
	ids := make([]int64, scanners)
	for i := range scanners {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = tx.WithinTransaction(ctx, func(txCtx context.Context) error {
				created, err := repo.Create(txCtx, row)
				if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
					created, err = repo.GetByEmployeeAndDate(txCtx, acme.ID, "E1", row.DateOnly)
				}
				if err != nil {
					return err
				}
				ids[i] = created.ID
				return nil
			})
		}()
	}
	wg.Wait()

	for i := range scanners {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
	counts, err := repo.CountForDate(ctx, acme.ID, row.DateOnly)
	require.NoError(t, err)
	assert.Equal(t, 1, counts.CheckedIn())
}

func TestShortLeaveRepository_OneOpenLeave(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewShortLeaveRepository(setup.DB)

	acme := createCompany(t, setup, "Acme")
	createEmployee(t, setup, acme.ID, "E1", "Staff")

	day := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	leave := attendance.ShortLeave{CompanyID: acme.ID, EmployeeID: "E1", DateOnly: day, Reason: "bank", ExitTime: day.Add(12 * time.Hour)}

	open, err := repo.Create(ctx, leave)
	require.NoError(t, err)
	_, err = repo.Create(ctx, leave)
	assert.ErrorIs(t, err, attendance.ErrShortLeaveAlreadyOpen)

	n, err := repo.CountOpen(ctx, acme.ID, day)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, repo.Close(ctx, open.ID, day.Add(13*time.Hour)))
	_, err = repo.Create(ctx, leave)
	assert.NoError(t, err)
}

func TestTransactor_RollsBack(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	tx := postgresql.NewTransactor(setup.DB)
	companies := postgresql.NewCompanyRepository(setup.DB)
	devices := postgresql.NewDeviceRepository(setup.DB)

	boom := errors.New("boom")
	err := tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		c, err := companies.Create(txCtx, company.Company{Name: "Ghost", Plan: "basic", Status: company.StatusActive})
		if err != nil {
			return err
		}
		if _, err := devices.Create(txCtx, device.HardwareDevice{CompanyID: c.ID, DeviceUID: "ZK_GHOST000", DeviceType: device.TypeESP32, Location: device.DefaultLocation, SecretKey: "s", Active: true}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	list, err := companies.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	_, err = devices.GetByUID(ctx, "ZK_GHOST000")
	assert.ErrorIs(t, err, device.ErrDeviceNotFound)
}

func TestLocationRepository_LatestForCompany(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	sessions := postgresql.NewSessionRepository(setup.DB)
	locations := postgresql.NewLocationRepository(setup.DB)

	acme := createCompany(t, setup, "Acme")
	field := createEmployee(t, setup, acme.ID, "M1", "Marketing Executive")
	office := createEmployee(t, setup, acme.ID, "S1", "Staff")

	start := time.Now().UTC().Truncate(time.Second)
	for _, e := range []employee.Employee{field, office} {
		sess, err := sessions.Create(ctx, tracking.Session{EmployeeID: e.ID, CompanyID: acme.ID, Department: "Field", StartTime: start, Active: true})
		require.NoError(t, err)
		_, err = locations.Append(ctx, tracking.LocationLog{SessionID: sess.ID, Latitude: 1, Longitude: 1, RecordedAt: start})
		require.NoError(t, err)
		_, err = locations.Append(ctx, tracking.LocationLog{SessionID: sess.ID, Latitude: 2, Longitude: 2, RecordedAt: start.Add(time.Minute)})
		require.NoError(t, err)
	}

	live, err := locations.LatestForCompany(ctx, acme.ID, "marketing")
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, "M1", live[0].EmployeeID)
	assert.Equal(t, 2.0, live[0].Latitude)

	closed, err := sessions.CloseActive(ctx, field.ID, start.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), closed)

	live, err = locations.LatestForCompany(ctx, acme.ID, "marketing")
	require.NoError(t, err)
	assert.Empty(t, live)
}
