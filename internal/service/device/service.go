package device

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/company"
	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/device"
	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-saas-go/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-saas-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-saas-go/internal/pkg/zkteco"
)

const (
	doorEventAuditLimit = 500
	initialSyncLookback = 24 * time.Hour
)

// DoorOpened is published on the live feed when a terminal scan opens a door.
type DoorOpened struct {
	DeviceID     string `json:"device_id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Trigger      string `json:"trigger"`
}

type DeviceServiceImpl struct {
	device.DeviceRepository
	device.DoorEventRepository
	companyRepo       company.CompanyRepository
	attendanceService attendance.AttendanceService
	zkClient          zkteco.Client
	hub               *sse.Hub
	doorOpenMillis    int
	now               func() time.Time

	syncMu   sync.Mutex
	lastSync time.Time
}

func NewDeviceService(
	deviceRepo device.DeviceRepository,
	doorEventRepo device.DoorEventRepository,
	companyRepo company.CompanyRepository,
	attendanceService attendance.AttendanceService,
	zkClient zkteco.Client,
	hub *sse.Hub,
	doorOpenMillis int,
	now func() time.Time,
) device.DeviceService {
	if now == nil {
		now = time.Now
	}
	return &DeviceServiceImpl{
		DeviceRepository:    deviceRepo,
		DoorEventRepository: doorEventRepo,
		companyRepo:         companyRepo,
		attendanceService:   attendanceService,
		zkClient:            zkClient,
		hub:                 hub,
		doorOpenMillis:      doorOpenMillis,
		now:                 now,
	}
}

// Authenticate implements device.DeviceService.
func (s *DeviceServiceImpl) Authenticate(ctx context.Context, deviceUID, secretKey string) (device.HardwareDevice, error) {
	if deviceUID == "" || secretKey == "" {
		return device.HardwareDevice{}, device.ErrDeviceUnauthorized
	}

	d, err := s.DeviceRepository.GetByUID(ctx, deviceUID)
	if err != nil {
		if errors.Is(err, device.ErrDeviceNotFound) {
			return device.HardwareDevice{}, device.ErrDeviceUnauthorized
		}
		return device.HardwareDevice{}, err
	}
	if !d.Active {
		return device.HardwareDevice{}, device.ErrDeviceUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(d.SecretKey), []byte(secretKey)) != 1 {
		return device.HardwareDevice{}, device.ErrDeviceUnauthorized
	}
	return d, nil
}

// PushLog implements device.DeviceService.
func (s *DeviceServiceImpl) PushLog(ctx context.Context, dev device.HardwareDevice, req device.PushLogRequest) device.PushLogResponse {
	deviceType := strings.ToUpper(strings.TrimSpace(dev.DeviceType))
	if !device.IsSupportedType(deviceType) {
		return device.Denied("Unsupported Hardware: " + deviceType)
	}
	if err := req.Validate(); err != nil {
		return device.Denied("Access Denied")
	}

	result, err := s.attendanceService.ProcessHardwareScan(ctx, attendance.HardwareScan{
		CompanyID:      dev.CompanyID,
		DeviceUID:      dev.DeviceUID,
		DeviceType:     deviceType,
		DeviceLocation: dev.Location,
		EmployeeCode:   req.EmployeeCode,
		TimeISO:        req.TimeISO,
	})
	if err != nil {
		return s.denyScan(dev, err)
	}

	s.hub.Publish(sse.Event{
		CompanyID: dev.CompanyID,
		Event:     sse.EventDoor,
		Data: DoorOpened{
			DeviceID:     dev.DeviceUID,
			EmployeeID:   req.EmployeeCode,
			EmployeeName: result.EmployeeName,
			Trigger:      string(result.Trigger),
		},
	})

	return device.PushLogResponse{
		Status:     "success",
		OpenDoor:   true,
		DurationMS: s.doorOpenMillis,
		Message:    "Welcome " + result.EmployeeName,
	}
}

// denyScan maps a scan failure to the terminal message. Unknown failures keep the door closed.
func (s *DeviceServiceImpl) denyScan(dev device.HardwareDevice, err error) device.PushLogResponse {
	switch {
	case errors.Is(err, employee.ErrEmployeeNotFound), errors.Is(err, attendance.ErrEmployeeInactive):
		return device.Denied("Access Denied")
	case errors.Is(err, auth.ErrCompanySuspended), errors.Is(err, company.ErrCompanyNotFound):
		return device.Denied("Company Suspended")
	case errors.Is(err, attendance.ErrBadTimeFormat):
		return device.Denied("Bad Time Format")
	case errors.Is(err, attendance.ErrReplayRejected):
		return device.Denied("Invalid Timestamp (Replay Detected)")
	default:
		slog.Error("Hardware scan failed", "device_uid", dev.DeviceUID, "company_id", dev.CompanyID, "error", err)
		return device.Denied("Internal Error")
	}
}

// EmergencyOpen implements device.DeviceService.
func (s *DeviceServiceImpl) EmergencyOpen(ctx context.Context, req device.EmergencyOpenRequest) (device.DoorEventResponse, error) {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return device.DoorEventResponse{}, auth.ErrUnauthenticated
	}

	var companyID int64
	switch id := identity.(type) {
	case auth.CompanyAdmin:
		companyID = id.CompanyID
	case auth.SuperAdmin:
		if req.CompanyID <= 0 {
			return device.DoorEventResponse{}, validator.ValidationErrors{{
				Field:   "company_id",
				Message: "company_id is required",
			}}
		}
		companyID = req.CompanyID
	default:
		return device.DoorEventResponse{}, auth.ErrForbidden
	}

	if err := req.Validate(); err != nil {
		return device.DoorEventResponse{}, err
	}

	if _, err := s.companyRepo.GetByID(ctx, companyID); err != nil {
		return device.DoorEventResponse{}, err
	}

	d, err := s.DeviceRepository.GetByUID(ctx, req.DeviceID)
	if err != nil {
		return device.DoorEventResponse{}, err
	}
	if d.CompanyID != companyID {
		return device.DoorEventResponse{}, device.ErrDeviceNotFound
	}

	reason := strings.TrimSpace(req.Reason)
	event, err := s.DoorEventRepository.Create(ctx, device.DoorEvent{
		CompanyID:     companyID,
		EventType:     device.EventEmergencyOpen,
		TriggerReason: "EMERGENCY: " + reason,
		DeviceID:      d.DeviceUID,
	})
	if err != nil {
		return device.DoorEventResponse{}, err
	}

	slog.Warn("Emergency door open", "company_id", companyID, "device_uid", d.DeviceUID, "by", identity.Subject(), "reason", reason)
	resp := device.NewDoorEventResponse(event)
	s.hub.Publish(sse.Event{CompanyID: companyID, Event: sse.EventDoor, Data: resp})
	return resp, nil
}

func renderDevices(devices []device.HardwareDevice) []device.DeviceResponse {
	resp := make([]device.DeviceResponse, 0, len(devices))
	for _, d := range devices {
		resp = append(resp, device.NewDeviceResponse(d))
	}
	return resp
}

// ListCompanyDevices implements device.DeviceService.
func (s *DeviceServiceImpl) ListCompanyDevices(ctx context.Context) ([]device.DeviceResponse, error) {
	admin, err := auth.CompanyAdminFromContext(ctx)
	if err != nil {
		return nil, err
	}

	devices, err := s.DeviceRepository.ListByCompany(ctx, admin.CompanyID)
	if err != nil {
		return nil, err
	}
	return renderDevices(devices), nil
}

// ListDoorEvents implements device.DeviceService.
func (s *DeviceServiceImpl) ListDoorEvents(ctx context.Context) ([]device.DoorEventResponse, error) {
	admin, err := auth.CompanyAdminFromContext(ctx)
	if err != nil {
		return nil, err
	}

	events, err := s.DoorEventRepository.ListByCompany(ctx, admin.CompanyID, doorEventAuditLimit)
	if err != nil {
		return nil, err
	}

	resp := make([]device.DoorEventResponse, 0, len(events))
	for _, e := range events {
		resp = append(resp, device.NewDoorEventResponse(e))
	}
	return resp, nil
}

// ListAllDevices implements device.DeviceService.
func (s *DeviceServiceImpl) ListAllDevices(ctx context.Context) ([]device.DeviceResponse, error) {
	if _, err := auth.SuperAdminFromContext(ctx); err != nil {
		return nil, err
	}

	devices, err := s.DeviceRepository.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return renderDevices(devices), nil
}

// UpdateHardware implements device.DeviceService.
func (s *DeviceServiceImpl) UpdateHardware(ctx context.Context, req device.UpdateHardwareRequest) (device.DeviceResponse, error) {
	if _, err := auth.SuperAdminFromContext(ctx); err != nil {
		return device.DeviceResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return device.DeviceResponse{}, err
	}

	updated, err := s.DeviceRepository.UpdateType(ctx, req.ID, req.DeviceType)
	if err != nil {
		return device.DeviceResponse{}, err
	}

	slog.Info("Hardware type updated", "device_id", updated.ID, "device_uid", updated.DeviceUID, "device_type", updated.DeviceType)
	return device.NewDeviceResponse(updated), nil
}

// SyncZKTeco implements device.DeviceService.
func (s *DeviceServiceImpl) SyncZKTeco(ctx context.Context) (device.SyncResult, error) {
	if s.zkClient == nil || !s.zkClient.Configured() {
		return device.SyncResult{Message: "Sync feature requires ZK API Key"}, nil
	}

	s.syncMu.Lock()
	defer s.syncMu.Unlock()

	startedAt := s.now().UTC()
	since := s.lastSync
	if since.IsZero() {
		since = startedAt.Add(-initialSyncLookback)
	}

	punches, err := s.zkClient.FetchPunches(ctx, since)
	if err != nil {
		return device.SyncResult{}, fmt.Errorf("failed to fetch ZKTeco punches: %w", err)
	}

	result := device.SyncResult{Fetched: len(punches)}
	devices := make(map[string]device.HardwareDevice)
	for _, p := range punches {
		d, ok := devices[p.DeviceSN]
		if !ok {
			d, err = s.DeviceRepository.GetByUID(ctx, p.DeviceSN)
			if err != nil {
				if !errors.Is(err, device.ErrDeviceNotFound) {
					return result, err
				}
				d = device.HardwareDevice{}
			}
			devices[p.DeviceSN] = d
		}
		if d.ID == 0 || !d.Active {
			slog.Warn("Skipping punch from unregistered device", "device_sn", p.DeviceSN, "employee_code", p.EmployeeCode)
			result.Skipped++
			continue
		}

		_, err := s.attendanceService.ProcessHardwareScan(ctx, attendance.HardwareScan{
			CompanyID:      d.CompanyID,
			DeviceUID:      d.DeviceUID,
			DeviceType:     strings.ToUpper(d.DeviceType),
			DeviceLocation: d.Location,
			EmployeeCode:   p.EmployeeCode,
			TimeISO:        p.PunchTime.Format(time.RFC3339Nano),
			CloudSync:      true,
		})
		if err != nil {
			slog.Warn("Skipping punch", "device_sn", p.DeviceSN, "employee_code", p.EmployeeCode, "error", err)
			result.Skipped++
			continue
		}
		result.Processed++
	}

	s.lastSync = startedAt
	result.Message = fmt.Sprintf("Synced %d of %d punches", result.Processed, result.Fetched)
	slog.Info("ZKTeco sync finished", "fetched", result.Fetched, "processed", result.Processed, "skipped", result.Skipped)
	return result, nil
}
