package device

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/company"
	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/device"
	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-saas-go/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-saas-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-saas-go/internal/pkg/zkteco"
	"github.com/cmlabs-hris/attendance-saas-go/internal/repository/memory"
	attendanceService "github.com/cmlabs-hris/attendance-saas-go/internal/service/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeZK struct {
	configured bool
	punches    []zkteco.Punch
	err        error
	since      []time.Time
}

func (f *fakeZK) Configured() bool { return f.configured }

func (f *fakeZK) FetchPunches(ctx context.Context, since time.Time) ([]zkteco.Punch, error) {
	f.since = append(f.since, since)
	return f.punches, f.err
}

type deviceFixture struct {
	store   *memory.Store
	svc     device.DeviceService
	zk      *fakeZK
	hub     *sse.Hub
	company company.Company
	device  device.HardwareDevice
	now     time.Time
}

func newDeviceFixture(t *testing.T) *deviceFixture {
	t.Helper()
	ctx := context.Background()
	f := &deviceFixture{
		store: memory.NewStore(),
		zk:    &fakeZK{},
		hub:   sse.NewHub(),
		now:   time.Date(2024, time.January, 15, 3, 5, 0, 0, time.UTC),
	}

	comp, err := f.store.Companies().Create(ctx, company.Company{
		Name:   "Acme",
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
	f.company = comp

	_, err = f.store.Employees().Create(ctx, employee.Employee{
		CompanyID:    comp.ID,
		EmployeeID:   "E1",
		Name:         "Rahim",
		PasswordHash: "x",
		Role:         "Staff",
		Status:       employee.StatusActive,
	})
	require.NoError(t, err)

	f.device, err = f.store.Devices().Create(ctx, device.HardwareDevice{
		CompanyID:  comp.ID,
		DeviceUID:  "ZK_0000ABCD",
		DeviceType: device.TypeESP32,
		Location:   device.DefaultLocation,
		SecretKey:  "door-secret",
		Active:     true,
	})
	require.NoError(t, err)

	clock := func() time.Time { return f.now }
	attendance := attendanceService.NewAttendanceService(
		f.store,
		f.store.Attendance(),
		f.store.ShortLeaves(),
		f.store.Employees(),
		f.store.Companies(),
		f.store.DoorEvents(),
		0,
		clock,
	)
	f.svc = NewDeviceService(f.store.Devices(), f.store.DoorEvents(), f.store.Companies(), attendance, f.zk, f.hub, 5000, clock)
	return f
}

func (f *deviceFixture) adminCtx(companyID int64) context.Context {
	return auth.WithIdentity(context.Background(), auth.CompanyAdmin{Username: "boss", CompanyID: companyID})
}

func ownerCtx() context.Context {
	return auth.WithIdentity(context.Background(), auth.SuperAdmin{Username: "owner"})
}

func TestAuthenticate(t *testing.T) {
	f := newDeviceFixture(t)
	ctx := context.Background()

	got, err := f.svc.Authenticate(ctx, "ZK_0000ABCD", "door-secret")
	require.NoError(t, err)
	assert.Equal(t, f.device.ID, got.ID)

	cases := []struct {
		name   string
		uid    string
		secret string
	}{
		{"missing headers", "", ""},
		{"unknown device", "ZK_FFFFFFFF", "door-secret"},
		{"wrong secret", "ZK_0000ABCD", "guess"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := f.svc.Authenticate(ctx, c.uid, c.secret)
			assert.ErrorIs(t, err, device.ErrDeviceUnauthorized)
		})
	}

	t.Run("inactive device", func(t *testing.T) {
		_, err := f.store.Devices().DeactivateByCompany(ctx, f.company.ID)
		require.NoError(t, err)
		_, err = f.svc.Authenticate(ctx, "ZK_0000ABCD", "door-secret")
		assert.ErrorIs(t, err, device.ErrDeviceUnauthorized)
	})
}

func TestPushLog(t *testing.T) {
	t.Run("first scan opens the door", func(t *testing.T) {
		f := newDeviceFixture(t)
		feed, cleanup := f.hub.Subscribe(f.company.ID)
		defer cleanup()

		resp := f.svc.PushLog(context.Background(), f.device, device.PushLogRequest{
			EmployeeCode: "E1",
			TimeISO:      f.now.Format(time.RFC3339),
		})
		assert.Equal(t, device.PushLogResponse{Status: "success", OpenDoor: true, DurationMS: 5000, Message: "Welcome Rahim"}, resp)
		assert.Equal(t, 1, f.store.AttendanceCount())
		assert.Equal(t, 1, f.store.DoorEventCount())

		require.Len(t, feed, 1)
		ev := <-feed
		assert.Equal(t, sse.EventDoor, ev.Event)
		assert.Equal(t, "Rahim", ev.Data.(DoorOpened).EmployeeName)
	})

	t.Run("unsupported hardware", func(t *testing.T) {
		f := newDeviceFixture(t)
		dev := f.device
		dev.DeviceType = "toaster"
		resp := f.svc.PushLog(context.Background(), dev, device.PushLogRequest{EmployeeCode: "E1", TimeISO: f.now.Format(time.RFC3339)})
		assert.Equal(t, device.Denied("Unsupported Hardware: TOASTER"), resp)
		assert.Equal(t, 0, f.store.AttendanceCount())
	})

	t.Run("denials", func(t *testing.T) {
		f := newDeviceFixture(t)
		fresh := f.now.Format(time.RFC3339)
		cases := []struct {
			name string
			req  device.PushLogRequest
			want string
		}{
			{"missing employee code", device.PushLogRequest{TimeISO: fresh}, "Access Denied"},
			{"unknown employee", device.PushLogRequest{EmployeeCode: "E404", TimeISO: fresh}, "Access Denied"},
			{"bad time", device.PushLogRequest{EmployeeCode: "E1", TimeISO: "yesterday"}, "Bad Time Format"},
			{"replay", device.PushLogRequest{EmployeeCode: "E1", TimeISO: f.now.Add(-10 * time.Minute).Format(time.RFC3339)}, "Invalid Timestamp (Replay Detected)"},
		}
		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				resp := f.svc.PushLog(context.Background(), f.device, c.req)
				assert.False(t, resp.OpenDoor)
				assert.Equal(t, "error", resp.Status)
				assert.Equal(t, c.want, resp.Message)
			})
		}
		assert.Equal(t, 0, f.store.AttendanceCount())
		assert.Equal(t, 0, f.store.DoorEventCount())
	})

	t.Run("suspended company", func(t *testing.T) {
		f := newDeviceFixture(t)
		comp := f.company
		comp.Status = company.StatusSuspended
		require.NoError(t, f.store.Companies().Update(context.Background(), comp))

		resp := f.svc.PushLog(context.Background(), f.device, device.PushLogRequest{EmployeeCode: "E1", TimeISO: f.now.Format(time.RFC3339)})
		assert.Equal(t, device.Denied("Company Suspended"), resp)
	})
}

func TestEmergencyOpen(t *testing.T) {
	t.Run("company admin", func(t *testing.T) {
		f := newDeviceFixture(t)
		event, err := f.svc.EmergencyOpen(f.adminCtx(f.company.ID), device.EmergencyOpenRequest{
			DeviceID: "ZK_0000ABCD",
			Reason:   " fire drill ",
		})
		require.NoError(t, err)
		assert.Equal(t, device.EventEmergencyOpen, event.EventType)
		assert.Equal(t, "EMERGENCY: fire drill", event.TriggerReason)
		assert.Nil(t, event.EmployeeID)

		events, err := f.svc.ListDoorEvents(f.adminCtx(f.company.ID))
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "ZK_0000ABCD", events[0].DeviceID)
	})

	t.Run("device of another company", func(t *testing.T) {
		f := newDeviceFixture(t)
		_, err := f.svc.EmergencyOpen(f.adminCtx(f.company.ID+100), device.EmergencyOpenRequest{DeviceID: "ZK_0000ABCD", Reason: "x"})
		assert.ErrorIs(t, err, company.ErrCompanyNotFound)

		other, err := f.store.Companies().Create(context.Background(), company.Company{Name: "Globex", Plan: "basic", Status: company.StatusActive})
		require.NoError(t, err)
		_, err = f.svc.EmergencyOpen(f.adminCtx(other.ID), device.EmergencyOpenRequest{DeviceID: "ZK_0000ABCD", Reason: "x"})
		assert.ErrorIs(t, err, device.ErrDeviceNotFound)
		assert.Equal(t, 0, f.store.DoorEventCount())
	})

	t.Run("owner must name the company", func(t *testing.T) {
		f := newDeviceFixture(t)
		_, err := f.svc.EmergencyOpen(ownerCtx(), device.EmergencyOpenRequest{DeviceID: "ZK_0000ABCD", Reason: "x"})
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Contains(t, verrs.ToMap(), "company_id")

		_, err = f.svc.EmergencyOpen(ownerCtx(), device.EmergencyOpenRequest{CompanyID: f.company.ID, DeviceID: "ZK_0000ABCD", Reason: "x"})
		require.NoError(t, err)
	})

	t.Run("employees are forbidden", func(t *testing.T) {
		f := newDeviceFixture(t)
		ctx := auth.WithIdentity(context.Background(), auth.Employee{EmployeeID: "E1", CompanyID: f.company.ID})
		_, err := f.svc.EmergencyOpen(ctx, device.EmergencyOpenRequest{DeviceID: "ZK_0000ABCD", Reason: "x"})
		assert.ErrorIs(t, err, auth.ErrForbidden)
	})
}

func TestHardwareAdministration(t *testing.T) {
	f := newDeviceFixture(t)

	_, err := f.svc.ListAllDevices(f.adminCtx(f.company.ID))
	assert.ErrorIs(t, err, auth.ErrForbidden)

	all, err := f.svc.ListAllDevices(ownerCtx())
	require.NoError(t, err)
	require.Len(t, all, 1)

	updated, err := f.svc.UpdateHardware(ownerCtx(), device.UpdateHardwareRequest{ID: f.device.ID, DeviceType: " raspberry_pi "})
	require.NoError(t, err)
	assert.Equal(t, device.TypeRaspberryPi, updated.DeviceType)

	_, err = f.svc.UpdateHardware(ownerCtx(), device.UpdateHardwareRequest{ID: f.device.ID, DeviceType: "ARDUINO"})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	own, err := f.svc.ListCompanyDevices(f.adminCtx(f.company.ID))
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, device.TypeRaspberryPi, own[0].DeviceType)
}

func TestSyncZKTeco(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		f := newDeviceFixture(t)
		result, err := f.svc.SyncZKTeco(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Sync feature requires ZK API Key", result.Message)
		assert.Empty(t, f.zk.since)
	})

	t.Run("imports punches and advances the cursor", func(t *testing.T) {
		f := newDeviceFixture(t)
		f.zk.configured = true
		f.zk.punches = []zkteco.Punch{
			{DeviceSN: "ZK_0000ABCD", EmployeeCode: "E1", PunchTime: f.now.Add(-3 * time.Hour)},
			{DeviceSN: "ZK_UNKNOWN", EmployeeCode: "E1", PunchTime: f.now},
			{DeviceSN: "ZK_0000ABCD", EmployeeCode: "E404", PunchTime: f.now},
		}

		result, err := f.svc.SyncZKTeco(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, result.Fetched)
		assert.Equal(t, 1, result.Processed)
		assert.Equal(t, 2, result.Skipped)
		assert.Equal(t, 1, f.store.AttendanceCount())

		events, err := f.svc.ListDoorEvents(f.adminCtx(f.company.ID))
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, device.EventCloudSync, events[0].EventType)

		f.zk.punches = nil
		f.now = f.now.Add(time.Hour)
		_, err = f.svc.SyncZKTeco(context.Background())
		require.NoError(t, err)

		require.Len(t, f.zk.since, 2)
		assert.Equal(t, f.now.Add(-time.Hour-24*time.Hour), f.zk.since[0])
		assert.Equal(t, f.now.Add(-time.Hour), f.zk.since[1])
	})

	t.Run("fetch failure keeps the cursor", func(t *testing.T) {
		f := newDeviceFixture(t)
		f.zk.configured = true
		f.zk.err = errors.New("gateway timeout")

		_, err := f.svc.SyncZKTeco(context.Background())
		require.Error(t, err)
		_, err = f.svc.SyncZKTeco(context.Background())
		require.Error(t, err)

		require.Len(t, f.zk.since, 2)
		assert.Equal(t, f.zk.since[0], f.zk.since[1])
	})
}
