package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/company"
	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/device"
	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-saas-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-saas-go/internal/pkg/utils"
	"github.com/cmlabs-hris/attendance-saas-go/internal/pkg/validator"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	historyDays       = 60
	employeeHistoryN  = 50
	auditLimit        = 500
	DefaultFreshness  = 300 * time.Second
	manualEntryMethod = "MANUAL_ADMIN"
	gpsMethod         = "GPS"
)

var tracer = otel.Tracer("github.com/cmlabs-hris/attendance-saas-go/internal/service/attendance")

type AttendanceServiceImpl struct {
	tx database.Transactor
	attendance.AttendanceRepository
	attendance.ShortLeaveRepository
	employeeRepo  employee.EmployeeRepository
	companyRepo   company.CompanyRepository
	doorEventRepo device.DoorEventRepository
	freshness     time.Duration
	now           func() time.Time
}

// NewAttendanceService builds the engine. freshness bounds the accepted skew of hardware
// event times; zero means five minutes.
func NewAttendanceService(
	tx database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	shortLeaveRepo attendance.ShortLeaveRepository,
	employeeRepo employee.EmployeeRepository,
	companyRepo company.CompanyRepository,
	doorEventRepo device.DoorEventRepository,
	freshness time.Duration,
	now func() time.Time,
) attendance.AttendanceService {
	if freshness <= 0 {
		freshness = DefaultFreshness
	}
	if now == nil {
		now = time.Now
	}
	return &AttendanceServiceImpl{
		tx:                   tx,
		AttendanceRepository: attendanceRepo,
		ShortLeaveRepository: shortLeaveRepo,
		employeeRepo:         employeeRepo,
		companyRepo:          companyRepo,
		doorEventRepo:        doorEventRepo,
		freshness:            freshness,
		now:                  now,
	}
}

// employeeScope is the resolved caller of an employee operation.
type employeeScope struct {
	employee employee.Employee
	company  company.Company
	loc      *time.Location
}

func (a *AttendanceServiceImpl) resolveEmployee(ctx context.Context) (employeeScope, error) {
	identity, err := auth.EmployeeFromContext(ctx)
	if err != nil {
		return employeeScope{}, err
	}

	comp, err := a.companyRepo.GetByID(ctx, identity.CompanyID)
	if err != nil {
		if errors.Is(err, company.ErrCompanyNotFound) {
			return employeeScope{}, auth.ErrCompanySuspended
		}
		return employeeScope{}, err
	}
	if !comp.IsActive() {
		return employeeScope{}, auth.ErrCompanySuspended
	}

	emp, err := a.employeeRepo.GetByEmployeeID(ctx, identity.CompanyID, identity.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employeeScope{}, auth.ErrAccountInactive
		}
		return employeeScope{}, err
	}
	if !emp.IsActive() {
		return employeeScope{}, auth.ErrAccountInactive
	}

	return employeeScope{
		employee: emp,
		company:  comp,
		loc:      utils.LoadLocationOrUTC(comp.Schedule.Timezone),
	}, nil
}

func (a *AttendanceServiceImpl) resolveAdmin(ctx context.Context) (company.Company, *time.Location, error) {
	admin, err := auth.CompanyAdminFromContext(ctx)
	if err != nil {
		return company.Company{}, nil, err
	}

	comp, err := a.companyRepo.GetByID(ctx, admin.CompanyID)
	if err != nil {
		return company.Company{}, nil, err
	}
	if comp.Status == company.StatusDeleted {
		return company.Company{}, nil, company.ErrCompanyNotFound
	}
	return comp, utils.LoadLocationOrUTC(comp.Schedule.Timezone), nil
}

// todayRow loads the caller's row for the local calendar day of now.
func (a *AttendanceServiceImpl) todayRow(ctx context.Context, scope employeeScope, now time.Time) (attendance.Attendance, error) {
	row, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, scope.company.ID, scope.employee.EmployeeID, utils.DateOnly(now, scope.loc))
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.Attendance{}, attendance.ErrNotCheckedIn
		}
		return attendance.Attendance{}, err
	}
	return row, nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (resp attendance.CheckInResponse, err error) {
	ctx, span := tracer.Start(ctx, "attendance.CheckIn")
	defer func() { endSpan(span, err) }()

	scope, err := a.resolveEmployee(ctx)
	if err != nil {
		return attendance.CheckInResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.CheckInResponse{}, err
	}
	if strings.TrimSpace(req.EmployeeID) != scope.employee.EmployeeID {
		return attendance.CheckInResponse{}, attendance.ErrForeignEmployee
	}

	nowUTC := a.now().UTC()
	nowLocal := nowUTC.In(scope.loc)
	dateOnly := utils.DateOnly(nowUTC, scope.loc)

	_, err = a.AttendanceRepository.GetByEmployeeAndDate(ctx, scope.company.ID, scope.employee.EmployeeID, dateOnly)
	if err == nil {
		return attendance.CheckInResponse{}, attendance.ErrAlreadyCheckedIn
	}
	if !errors.Is(err, attendance.ErrAttendanceNotFound) {
		return attendance.CheckInResponse{}, err
	}

	status := attendance.DeriveStatus(nowLocal, scope.company.Schedule.WorkStartTime, scope.company.Schedule.SuperLateThresholdMinutes)

	record := attendance.Attendance{
		CompanyID:   scope.company.ID,
		EmployeeID:  scope.employee.EmployeeID,
		Timestamp:   nowUTC,
		DateOnly:    dateOnly,
		Status:      status,
		Type:        attendance.TypeCheckIn,
		CheckInTime: &nowUTC,
		Source:      attendance.SourceMobile,
	}
	if location := strings.TrimSpace(req.Location); location != "" {
		record.Location = &location
	}
	if req.Latitude != nil {
		method := gpsMethod
		record.Method = &method
	}

	created, err := a.AttendanceRepository.Create(ctx, record)
	if err != nil {
		return attendance.CheckInResponse{}, err
	}

	span.SetAttributes(
		attribute.Int64("company.id", created.CompanyID),
		attribute.String("attendance.status", string(created.Status)),
	)
	slog.Info("Employee checked in",
		"company_id", created.CompanyID, "employee_id", created.EmployeeID, "status", created.Status)

	resp = attendance.CheckInResponse{
		Status:      string(created.Status),
		Message:     "Checked In",
		CheckInTime: nowLocal.Format(time.RFC3339),
	}
	if req.Latitude != nil && req.Longitude != nil {
		fence := scope.company.Geofence
		distance := utils.CalculateHaversineDistance(*req.Latitude, *req.Longitude, fence.Latitude, fence.Longitude)
		distance = math.Round(distance*10) / 10
		inside := distance <= fence.RadiusMeters
		resp.DistanceMeter = &distance
		resp.InsideFence = &inside
	}
	return resp, nil
}

// UnlockDoor implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) UnlockDoor(ctx context.Context) (attendance.AttendanceResponse, error) {
	scope, err := a.resolveEmployee(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	nowUTC := a.now().UTC()
	row, err := a.todayRow(ctx, scope, nowUTC)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	var enabledAt *time.Time
	if opensAt, ok := attendance.CheckoutOpensAt(nowUTC.In(scope.loc), scope.company.Schedule.WorkEndTime); ok {
		v := opensAt.UTC()
		enabledAt = &v
	}

	if err := a.AttendanceRepository.SetDoorUnlock(ctx, row.ID, nowUTC, enabledAt); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	row.DoorUnlockTime = &nowUTC
	row.CheckOutEnabledTime = enabledAt

	slog.Info("Door unlocked", "company_id", row.CompanyID, "employee_id", row.EmployeeID)
	return attendance.NewAttendanceResponse(row, scope.loc), nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context) (resp attendance.AttendanceResponse, err error) {
	ctx, span := tracer.Start(ctx, "attendance.CheckOut")
	defer func() { endSpan(span, err) }()

	scope, err := a.resolveEmployee(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	nowUTC := a.now().UTC()
	row, err := a.todayRow(ctx, scope, nowUTC)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if row.IsCheckedOut() {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}

	if opensAt, ok := attendance.CheckoutOpensAt(nowUTC.In(scope.loc), scope.company.Schedule.WorkEndTime); ok && nowUTC.Before(opensAt) {
		return attendance.AttendanceResponse{}, &attendance.CheckoutTooEarlyError{OpensAt: opensAt.Format("15:04")}
	}

	if err := a.AttendanceRepository.SetCheckOut(ctx, row.ID, nowUTC, false, nil); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	row.CheckOutTime = &nowUTC
	row.Type = attendance.TypeCheckOut

	slog.Info("Employee checked out", "company_id", row.CompanyID, "employee_id", row.EmployeeID)
	return attendance.NewAttendanceResponse(row, scope.loc), nil
}

// EmergencyCheckout implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) EmergencyCheckout(ctx context.Context, req attendance.ReasonRequest) (resp attendance.AttendanceResponse, err error) {
	ctx, span := tracer.Start(ctx, "attendance.EmergencyCheckout")
	defer func() { endSpan(span, err) }()

	scope, err := a.resolveEmployee(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	nowUTC := a.now().UTC()
	row, err := a.todayRow(ctx, scope, nowUTC)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if row.IsCheckedOut() {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}

	reason := strings.TrimSpace(req.Reason)
	if err := a.AttendanceRepository.SetCheckOut(ctx, row.ID, nowUTC, true, &reason); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	row.CheckOutTime = &nowUTC
	row.Type = attendance.TypeCheckOut
	row.IsEmergencyCheckout = true
	row.EmergencyCheckoutReason = &reason

	slog.Warn("Emergency checkout", "company_id", row.CompanyID, "employee_id", row.EmployeeID, "reason", reason)
	return attendance.NewAttendanceResponse(row, scope.loc), nil
}

// SubmitLateReason implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) SubmitLateReason(ctx context.Context, req attendance.ReasonRequest) (attendance.AttendanceResponse, error) {
	scope, err := a.resolveEmployee(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	row, err := a.todayRow(ctx, scope, a.now().UTC())
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	reason := strings.TrimSpace(req.Reason)
	if err := a.AttendanceRepository.SetLateReason(ctx, row.ID, reason); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	row.LateReason = &reason

	return attendance.NewAttendanceResponse(row, scope.loc), nil
}

// RequestShortLeave implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) RequestShortLeave(ctx context.Context, req attendance.ReasonRequest) (attendance.ShortLeaveResponse, error) {
	scope, err := a.resolveEmployee(ctx)
	if err != nil {
		return attendance.ShortLeaveResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.ShortLeaveResponse{}, err
	}

	nowUTC := a.now().UTC()
	row, err := a.todayRow(ctx, scope, nowUTC)
	if err != nil {
		return attendance.ShortLeaveResponse{}, err
	}

	_, err = a.ShortLeaveRepository.GetOpen(ctx, row.CompanyID, row.EmployeeID, row.DateOnly)
	if err == nil {
		return attendance.ShortLeaveResponse{}, attendance.ErrShortLeaveAlreadyOpen
	}
	if !errors.Is(err, attendance.ErrNoOpenShortLeave) {
		return attendance.ShortLeaveResponse{}, err
	}

	leave, err := a.ShortLeaveRepository.Create(ctx, attendance.ShortLeave{
		CompanyID:  row.CompanyID,
		EmployeeID: row.EmployeeID,
		DateOnly:   row.DateOnly,
		Reason:     strings.TrimSpace(req.Reason),
		ExitTime:   nowUTC,
	})
	if err != nil {
		return attendance.ShortLeaveResponse{}, err
	}

	slog.Info("Short leave started", "company_id", leave.CompanyID, "employee_id", leave.EmployeeID)
	return attendance.NewShortLeaveResponse(leave, scope.loc), nil
}

// ReturnFromShortLeave implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ReturnFromShortLeave(ctx context.Context) (attendance.ShortLeaveResponse, error) {
	scope, err := a.resolveEmployee(ctx)
	if err != nil {
		return attendance.ShortLeaveResponse{}, err
	}

	nowUTC := a.now().UTC()
	leave, err := a.ShortLeaveRepository.GetOpen(ctx, scope.company.ID, scope.employee.EmployeeID, utils.DateOnly(nowUTC, scope.loc))
	if err != nil {
		return attendance.ShortLeaveResponse{}, err
	}

	if err := a.ShortLeaveRepository.Close(ctx, leave.ID, nowUTC); err != nil {
		return attendance.ShortLeaveResponse{}, err
	}
	leave.ReturnTime = &nowUTC

	slog.Info("Short leave ended", "company_id", leave.CompanyID, "employee_id", leave.EmployeeID)
	return attendance.NewShortLeaveResponse(leave, scope.loc), nil
}

// Today implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Today(ctx context.Context) (attendance.ProfileResponse, error) {
	scope, err := a.resolveEmployee(ctx)
	if err != nil {
		return attendance.ProfileResponse{}, err
	}

	resp := attendance.ProfileResponse{
		EmployeeID: scope.employee.EmployeeID,
		Name:       scope.employee.Name,
		Role:       scope.employee.Role,
		CompanyID:  scope.company.ID,
		Today:      attendance.TodaySummary{Status: string(attendance.StatusAbsent)},
	}

	row, err := a.todayRow(ctx, scope, a.now().UTC())
	if err != nil {
		if errors.Is(err, attendance.ErrNotCheckedIn) {
			return resp, nil
		}
		return attendance.ProfileResponse{}, err
	}

	rendered := attendance.NewAttendanceResponse(row, scope.loc)
	resp.Today = attendance.TodaySummary{
		Status:   rendered.Status,
		CheckIn:  rendered.CheckInTime,
		CheckOut: rendered.CheckOutTime,
	}
	return resp, nil
}

func render(rows []attendance.Attendance, loc *time.Location) []attendance.AttendanceResponse {
	resp := make([]attendance.AttendanceResponse, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, attendance.NewAttendanceResponse(row, loc))
	}
	return resp
}

// History implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) History(ctx context.Context) ([]attendance.AttendanceResponse, error) {
	scope, err := a.resolveEmployee(ctx)
	if err != nil {
		return nil, err
	}

	since := utils.DateOnly(a.now().UTC(), scope.loc).AddDate(0, 0, -historyDays)
	rows, err := a.AttendanceRepository.ListByEmployee(ctx, scope.company.ID, scope.employee.EmployeeID, &since, historyDays+1)
	if err != nil {
		return nil, err
	}
	return render(rows, scope.loc), nil
}

// ManualAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ManualAttendance(ctx context.Context, req attendance.ManualAttendanceRequest) (attendance.AttendanceResponse, error) {
	comp, loc, err := a.resolveAdmin(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	emp, err := a.employeeRepo.GetByEmployeeID(ctx, comp.ID, strings.TrimSpace(req.EmployeeID))
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if emp.IsDeleted() {
		return attendance.AttendanceResponse{}, employee.ErrEmployeeNotFound
	}

	at := req.Timestamp.UTC()
	dateOnly := utils.DateOnly(at, loc)

	existing, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, comp.ID, emp.EmployeeID, dateOnly)
	if err != nil && !errors.Is(err, attendance.ErrAttendanceNotFound) {
		return attendance.AttendanceResponse{}, err
	}
	found := err == nil

	switch attendance.Type(req.Type) {
	case attendance.TypeCheckIn:
		if found {
			return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
		}
		method := manualEntryMethod
		notes := req.Notes
		created, err := a.AttendanceRepository.Create(ctx, attendance.Attendance{
			CompanyID:   comp.ID,
			EmployeeID:  emp.EmployeeID,
			Timestamp:   at,
			DateOnly:    dateOnly,
			Status:      attendance.DeriveStatus(at.In(loc), comp.Schedule.WorkStartTime, comp.Schedule.SuperLateThresholdMinutes),
			Type:        attendance.TypeCheckIn,
			CheckInTime: &at,
			Source:      attendance.SourceManualAdmin,
			Method:      &method,
			Notes:       &notes,
		})
		if err != nil {
			return attendance.AttendanceResponse{}, err
		}
		slog.Info("Manual check-in recorded", "company_id", comp.ID, "employee_id", emp.EmployeeID, "status", created.Status)
		return attendance.NewAttendanceResponse(created, loc), nil

	case attendance.TypeCheckOut:
		if !found {
			return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
		}
		if existing.IsCheckedOut() {
			return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
		}
		if existing.CheckInTime != nil && !at.After(*existing.CheckInTime) {
			return attendance.AttendanceResponse{}, validator.ValidationErrors{{
				Field:   "timestamp",
				Message: "timestamp must be after the check-in time",
			}}
		}
		if err := a.AttendanceRepository.SetCheckOut(ctx, existing.ID, at, false, nil); err != nil {
			return attendance.AttendanceResponse{}, err
		}
		existing.CheckOutTime = &at
		existing.Type = attendance.TypeCheckOut
		slog.Info("Manual check-out recorded", "company_id", comp.ID, "employee_id", emp.EmployeeID)
		return attendance.NewAttendanceResponse(existing, loc), nil

	default:
		return attendance.AttendanceResponse{}, attendance.ErrInvalidManualType
	}
}

// AuditAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) AuditAttendance(ctx context.Context) ([]attendance.AttendanceResponse, error) {
	comp, loc, err := a.resolveAdmin(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := a.AttendanceRepository.ListByCompany(ctx, comp.ID, auditLimit)
	if err != nil {
		return nil, err
	}
	return render(rows, loc), nil
}

// AuditShortLeaves implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) AuditShortLeaves(ctx context.Context) ([]attendance.ShortLeaveResponse, error) {
	comp, loc, err := a.resolveAdmin(ctx)
	if err != nil {
		return nil, err
	}

	leaves, err := a.ShortLeaveRepository.ListByCompany(ctx, comp.ID, auditLimit)
	if err != nil {
		return nil, err
	}

	resp := make([]attendance.ShortLeaveResponse, 0, len(leaves))
	for _, leave := range leaves {
		resp = append(resp, attendance.NewShortLeaveResponse(leave, loc))
	}
	return resp, nil
}

// EmployeeHistory implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) EmployeeHistory(ctx context.Context, employeeID string) ([]attendance.AttendanceResponse, error) {
	comp, loc, err := a.resolveAdmin(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := a.employeeRepo.GetByEmployeeID(ctx, comp.ID, employeeID); err != nil {
		return nil, err
	}

	rows, err := a.AttendanceRepository.ListByEmployee(ctx, comp.ID, employeeID, nil, employeeHistoryN)
	if err != nil {
		return nil, err
	}
	return render(rows, loc), nil
}

// parseEventTime accepts RFC 3339 and the naive ISO forms terminals send. Naive values are
// read in the company location.
func parseEventTime(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	for _, layout := range []string{"2006-01-02T15:04:05.999999999", "2006-01-02 15:04:05.999999999"} {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", attendance.ErrBadTimeFormat, value)
}

// ProcessHardwareScan implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ProcessHardwareScan(ctx context.Context, scan attendance.HardwareScan) (result attendance.HardwareScanResult, err error) {
	ctx, span := tracer.Start(ctx, "attendance.ProcessHardwareScan", trace.WithAttributes(
		attribute.Int64("company.id", scan.CompanyID),
		attribute.String("device.uid", scan.DeviceUID),
		attribute.Bool("scan.cloud_sync", scan.CloudSync),
	))
	defer func() { endSpan(span, err) }()

	emp, err := a.employeeRepo.GetByEmployeeID(ctx, scan.CompanyID, strings.TrimSpace(scan.EmployeeCode))
	if err != nil {
		return attendance.HardwareScanResult{}, err
	}
	if emp.IsDeleted() {
		return attendance.HardwareScanResult{}, employee.ErrEmployeeNotFound
	}

	comp, err := a.companyRepo.GetByID(ctx, scan.CompanyID)
	if err != nil {
		return attendance.HardwareScanResult{}, err
	}
	if !comp.IsActive() {
		return attendance.HardwareScanResult{}, auth.ErrCompanySuspended
	}
	if !emp.IsActive() {
		return attendance.HardwareScanResult{}, attendance.ErrEmployeeInactive
	}

	loc := utils.LoadLocationOrUTC(comp.Schedule.Timezone)
	eventTime, err := parseEventTime(scan.TimeISO, loc)
	if err != nil {
		return attendance.HardwareScanResult{}, err
	}
	eventTime = eventTime.UTC()

	if !scan.CloudSync {
		skew := a.now().UTC().Sub(eventTime)
		if skew < 0 {
			skew = -skew
		}
		if skew > a.freshness {
			slog.Warn("Hardware event rejected as replay",
				"company_id", comp.ID, "device_uid", scan.DeviceUID, "employee_id", emp.EmployeeID, "skew", skew)
			return attendance.HardwareScanResult{}, attendance.ErrReplayRejected
		}
	}

	result = attendance.HardwareScanResult{
		EmployeeRowID: emp.ID,
		EmployeeName:  emp.Name,
	}

	err = a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		row, trigger, err := a.applyScan(txCtx, comp.ID, emp.EmployeeID, eventTime, loc, scan)
		if err != nil {
			return err
		}
		result.Trigger = trigger
		result.Attendance = row

		eventType := device.EventAutoOpen
		if scan.CloudSync {
			eventType = device.EventCloudSync
		}
		employeeRowID := emp.ID
		_, err = a.doorEventRepo.Create(txCtx, device.DoorEvent{
			CompanyID:     comp.ID,
			EmployeeID:    &employeeRowID,
			EventType:     eventType,
			TriggerReason: string(trigger),
			DeviceID:      scan.DeviceUID,
		})
		return err
	})
	if err != nil {
		return attendance.HardwareScanResult{}, err
	}

	span.SetAttributes(attribute.String("scan.trigger", string(result.Trigger)))
	slog.Info("Hardware scan processed",
		"company_id", comp.ID, "device_uid", scan.DeviceUID, "employee_id", emp.EmployeeID, "trigger", result.Trigger)
	return result, nil
}

// applyScan creates the day's row on the first scan and otherwise moves the checkout forward.
func (a *AttendanceServiceImpl) applyScan(
	ctx context.Context,
	companyID int64,
	employeeID string,
	eventTime time.Time,
	loc *time.Location,
	scan attendance.HardwareScan,
) (attendance.Attendance, attendance.Trigger, error) {
	dateOnly := utils.DateOnly(eventTime, loc)

	row, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, companyID, employeeID, dateOnly)
	if errors.Is(err, attendance.ErrAttendanceNotFound) {
		location := fmt.Sprintf("%s (%s)", scan.DeviceLocation, scan.DeviceType)
		deviceUID := scan.DeviceUID
		method := scan.DeviceType
		created, createErr := a.AttendanceRepository.Create(ctx, attendance.Attendance{
			CompanyID:   companyID,
			EmployeeID:  employeeID,
			Timestamp:   eventTime,
			DateOnly:    dateOnly,
			Status:      attendance.StatusPresent,
			Type:        attendance.TypeCheckIn,
			CheckInTime: &eventTime,
			Source:      attendance.SourceHardware,
			Method:      &method,
			DeviceID:    &deviceUID,
			Location:    &location,
		})
		if createErr == nil {
			return created, attendance.TriggerCheckIn, nil
		}
		if !errors.Is(createErr, attendance.ErrAlreadyCheckedIn) {
			return attendance.Attendance{}, "", createErr
		}
		// Lost a race with a concurrent scan for the same day.
		row, err = a.AttendanceRepository.GetByEmployeeAndDate(ctx, companyID, employeeID, dateOnly)
	}
	if err != nil {
		return attendance.Attendance{}, "", err
	}

	if row.CheckInTime == nil || !eventTime.After(*row.CheckInTime) {
		return row, attendance.TriggerIgnored, nil
	}
	if row.CheckOutTime != nil && !eventTime.After(*row.CheckOutTime) {
		return row, attendance.TriggerDuplicateScan, nil
	}

	if err := a.AttendanceRepository.MoveCheckOut(ctx, row.ID, eventTime); err != nil {
		return attendance.Attendance{}, "", err
	}
	row.CheckOutTime = &eventTime
	row.Type = attendance.TypeCheckOut
	return row, attendance.TriggerCheckOut, nil
}
