package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-saas-go/internal/config"
	"github.com/cmlabs-hris/attendance-saas-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-saas-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-saas-go/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-saas-go/internal/pkg/zkteco"
	"github.com/cmlabs-hris/attendance-saas-go/internal/repository/memory"
	attendanceService "github.com/cmlabs-hris/attendance-saas-go/internal/service/attendance"
	authService "github.com/cmlabs-hris/attendance-saas-go/internal/service/auth"
	companyService "github.com/cmlabs-hris/attendance-saas-go/internal/service/company"
	dashboardService "github.com/cmlabs-hris/attendance-saas-go/internal/service/dashboard"
	deviceService "github.com/cmlabs-hris/attendance-saas-go/internal/service/device"
	employeeService "github.com/cmlabs-hris/attendance-saas-go/internal/service/employee"
	trackingService "github.com/cmlabs-hris/attendance-saas-go/internal/service/tracking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	routerTestSecret = "test-secret-key-for-jwt"
	ownerUsername    = "owner"
	ownerPassword    = "owner-pass"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

// newTestRouter wires every service on the in-memory store behind the production router.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	store := memory.NewStore()
	jwtSvc := jwt.NewJWTService(routerTestSecret, "1h")
	hub := sse.NewHub()

	authSvc := authService.NewAuthService(store.SuperAdmins(), store.Companies(), store.CompanyAdmins(), store.Employees(), jwtSvc, nil)
	require.NoError(t, authSvc.BootstrapSuperAdmin(context.Background(), ownerUsername, ownerPassword))

	attendanceSvc := attendanceService.NewAttendanceService(
		store, store.Attendance(), store.ShortLeaves(), store.Employees(), store.Companies(), store.DoorEvents(), time.Minute, nil,
	)
	companySvc := companyService.NewCompanyService(store, store.Companies(), store.CompanyAdmins(), store.Devices(), "Asia/Dhaka", nil)
	deviceSvc := deviceService.NewDeviceService(
		store.Devices(), store.DoorEvents(), store.Companies(), attendanceSvc, zkteco.NewClient("", "https://zk.invalid"), hub, 3000, nil,
	)
	employeeSvc := employeeService.NewEmployeeService(store.Employees(), nil)
	trackingSvc := trackingService.NewTrackingService(store, store.Sessions(), store.Locations(), store.Employees(), hub, nil)
	dashboardSvc := dashboardService.NewDashboardService(store.Companies(), store.Employees(), store.Attendance(), store.ShortLeaves(), store.Devices(), nil)

	return NewRouter(config.AppConfig{Env: "test", AllowedOrigins: []string{"*"}}, jwtSvc, deviceSvc, Handlers{
		Auth:       NewAuthHandler(authSvc),
		Attendance: NewAttendanceHandler(attendanceSvc),
		Company:    NewCompanyHandler(companySvc, deviceSvc),
		Dashboard:  NewDashboardHandler(dashboardSvc),
		Employee:   NewEmployeeHandler(employeeSvc),
		Hardware:   NewHardwareHandler(deviceSvc),
		Tracking:   NewTrackingHandler(trackingSvc),
		Saas:       NewSaasHandler(companySvc, deviceSvc),
	})
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env))
	return env
}

func formLoginToken(t *testing.T, h http.Handler, path, username, password string) string {
	t.Helper()
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var token struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &token))
	require.NotEmpty(t, token.AccessToken)
	return token.AccessToken
}

type provisioned struct {
	CompanyID int64 `json:"company_id"`
	Device    struct {
		DeviceUID string `json:"device_uid"`
		SecretKey string `json:"secret_key"`
	} `json:"device"`
}

// onboard provisions Acme, adds employee E1 and returns the tokens of each role.
func onboard(t *testing.T, h http.Handler) (owner, admin, emp string, tenant provisioned) {
	t.Helper()
	owner = formLoginToken(t, h, "/api/v1/auth/saas/login", ownerUsername, ownerPassword)

	w := doJSON(t, h, http.MethodPost, "/api/v1/saas/companies", owner, map[string]string{
		"name":           "Acme",
		"admin_username": "acme-admin",
		"admin_pass":     "admin-pass",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &tenant))

	admin = formLoginToken(t, h, "/api/v1/auth/company/login", "acme-admin", "admin-pass")

	w = doJSON(t, h, http.MethodPost, "/api/v1/company/employees", admin, map[string]string{
		"employee_id": "E1",
		"name":        "Rahim",
		"password":    "emp-pass",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, h, http.MethodPost, "/api/v1/auth/employee/login", "", map[string]string{
		"employee_id": "E1",
		"password":    "emp-pass",
		"device_id":   "phone-1",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var token struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &token))
	emp = token.AccessToken
	return owner, admin, emp, tenant
}

func TestRouter_Heartbeat(t *testing.T) {
	h := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_Authentication(t *testing.T) {
	h := newTestRouter(t)

	t.Run("missing token", func(t *testing.T) {
		w := doJSON(t, h, http.MethodGet, "/api/v1/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, decodeEnvelope(t, w).Success)
	})

	t.Run("garbage token", func(t *testing.T) {
		w := doJSON(t, h, http.MethodGet, "/api/v1/me", "not-a-jwt", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token signed with another key", func(t *testing.T) {
		other := jwt.NewJWTService("some-other-secret", "1h")
		token, _, err := other.GenerateAccessToken(ownerUsername, "super_admin", nil)
		require.NoError(t, err)
		w := doJSON(t, h, http.MethodGet, "/api/v1/saas/companies", token, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		form := url.Values{"username": {ownerUsername}, "password": {"nope"}}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/saas/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed employee login", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/employee/login", strings.NewReader("{"))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRouter_RoleSeparation(t *testing.T) {
	h := newTestRouter(t)
	owner, admin, emp, _ := onboard(t, h)

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"employee on company routes", http.MethodGet, "/api/v1/company/employees", emp, http.StatusForbidden},
		{"employee on saas routes", http.MethodGet, "/api/v1/saas/companies", emp, http.StatusForbidden},
		{"admin on saas routes", http.MethodGet, "/api/v1/saas/hardware", admin, http.StatusForbidden},
		{"admin on employee routes", http.MethodGet, "/api/v1/me", admin, http.StatusForbidden},
		{"owner on company routes", http.MethodGet, "/api/v1/company/settings", owner, http.StatusForbidden},
		{"admin lists employees", http.MethodGet, "/api/v1/company/employees", admin, http.StatusOK},
		{"owner lists companies", http.MethodGet, "/api/v1/saas/companies", owner, http.StatusOK},
		{"employee reads profile", http.MethodGet, "/api/v1/me", emp, http.StatusOK},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := doJSON(t, h, c.method, c.path, c.token, nil)
			assert.Equal(t, c.want, w.Code, w.Body.String())
		})
	}
}

func TestRouter_AttendanceFlow(t *testing.T) {
	h := newTestRouter(t)
	_, admin, emp, _ := onboard(t, h)

	w := doJSON(t, h, http.MethodPost, "/api/v1/attendance/check-in", emp, map[string]string{"employee_id": "E1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, h, http.MethodPost, "/api/v1/attendance/check-in", emp, map[string]string{"employee_id": "E1"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, h, http.MethodPost, "/api/v1/attendance/check-in", emp, map[string]string{"employee_id": "E2"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, h, http.MethodGet, "/api/v1/history", emp, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history []map[string]interface{}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &history))
	assert.Len(t, history, 1)

	w = doJSON(t, h, http.MethodGet, "/api/v1/company/audit/attendance", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var audit []map[string]interface{}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &audit))
	assert.Len(t, audit, 1)

	w = doJSON(t, h, http.MethodGet, "/api/v1/company/dashboard", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var daily struct {
		TotalEmployees int `json:"total_employees"`
		Present        int `json:"present"`
		Late           int `json:"late"`
		SuperLate      int `json:"super_late"`
		Absent         int `json:"absent"`
		ActiveDevices  int `json:"active_devices"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &daily))
	assert.Equal(t, 1, daily.TotalEmployees)
	assert.Equal(t, 1, daily.Present+daily.Late+daily.SuperLate)
	assert.Zero(t, daily.Absent)
	assert.Equal(t, 1, daily.ActiveDevices)

	w = doJSON(t, h, http.MethodGet, "/api/v1/company/dashboard?date=15-01-2024", admin, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestRouter_EmployeeValidation(t *testing.T) {
	h := newTestRouter(t)
	_, admin, _, _ := onboard(t, h)

	w := doJSON(t, h, http.MethodPost, "/api/v1/company/employees", admin, map[string]string{"employee_id": "E9"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Details, "name")
	assert.Contains(t, env.Error.Details, "password")

	w = doJSON(t, h, http.MethodPost, "/api/v1/company/employees", admin, map[string]string{
		"employee_id": "E1",
		"name":        "Duplicate",
		"password":    "pass",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func pushLog(t *testing.T, h http.Handler, uid, key string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/hardware/push-log", &buf)
	req.Header.Set(middleware.HeaderDeviceID, uid)
	req.Header.Set(middleware.HeaderDeviceKey, key)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRouter_HardwarePushLog(t *testing.T) {
	h := newTestRouter(t)
	_, _, _, tenant := onboard(t, h)
	scan := map[string]string{"employee_code": "E1", "time_iso": time.Now().UTC().Format(time.RFC3339)}

	t.Run("bad credentials", func(t *testing.T) {
		for _, creds := range [][2]string{{tenant.Device.DeviceUID, "wrong"}, {"", ""}} {
			w := pushLog(t, h, creds[0], creds[1], scan)
			assert.Equal(t, http.StatusUnauthorized, w.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, map[string]any{
				"status":    "error",
				"open_door": false,
				"message":   "Unauthorized Device",
			}, body)
		}
	})

	t.Run("accepted scan opens the door", func(t *testing.T) {
		w := pushLog(t, h, tenant.Device.DeviceUID, tenant.Device.SecretKey, scan)
		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]interface{}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "success", resp["status"])
		assert.Equal(t, true, resp["open_door"])
		assert.Equal(t, float64(3000), resp["duration_ms"])
		assert.Equal(t, "Welcome Rahim", resp["message"])
	})

	t.Run("denials are still 200", func(t *testing.T) {
		w := pushLog(t, h, tenant.Device.DeviceUID, tenant.Device.SecretKey, map[string]string{"employee_code": "NOPE", "time_iso": scan["time_iso"]})
		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]interface{}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "error", resp["status"])
		assert.Equal(t, false, resp["open_door"])
		assert.Equal(t, "Access Denied", resp["message"])
	})
}

func TestRouter_ZKSyncWithoutKey(t *testing.T) {
	h := newTestRouter(t)
	owner, _, _, _ := onboard(t, h)

	w := doJSON(t, h, http.MethodPost, "/api/v1/saas/sync/zkteco", owner, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Sync feature requires ZK API Key")
}
