package dashboard

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/company"
	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/device"
	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-saas-go/internal/pkg/utils"
	"golang.org/x/sync/errgroup"
)

type DashboardServiceImpl struct {
	companyRepo    company.CompanyRepository
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	shortLeaveRepo attendance.ShortLeaveRepository
	deviceRepo     device.DeviceRepository
	now            func() time.Time
}

func NewDashboardService(
	companyRepo company.CompanyRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	shortLeaveRepo attendance.ShortLeaveRepository,
	deviceRepo device.DeviceRepository,
	now func() time.Time,
) dashboard.DashboardService {
	if now == nil {
		now = time.Now
	}
	return &DashboardServiceImpl{
		companyRepo:    companyRepo,
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		shortLeaveRepo: shortLeaveRepo,
		deviceRepo:     deviceRepo,
		now:            now,
	}
}

// GetDaily runs the four tallies in parallel, one query each.
func (s *DashboardServiceImpl) GetDaily(ctx context.Context, req dashboard.DailyRequest) (dashboard.DailyResponse, error) {
	admin, err := auth.CompanyAdminFromContext(ctx)
	if err != nil {
		return dashboard.DailyResponse{}, err
	}

	comp, err := s.companyRepo.GetByID(ctx, admin.CompanyID)
	if err != nil {
		return dashboard.DailyResponse{}, err
	}
	if comp.Status == company.StatusDeleted {
		return dashboard.DailyResponse{}, company.ErrCompanyNotFound
	}

	date, ok, err := req.ParseDate()
	if err != nil {
		return dashboard.DailyResponse{}, err
	}
	if !ok {
		date = utils.DateOnly(s.now(), utils.LoadLocationOrUTC(comp.Schedule.Timezone))
	}

	var (
		activeEmployees int
		counts          attendance.DailyCounts
		onShortLeave    int
		activeDevices   int
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		employees, err := s.employeeRepo.List(gCtx, comp.ID)
		if err != nil {
			return err
		}
		for _, e := range employees {
			if e.IsActive() {
				activeEmployees++
			}
		}
		return nil
	})

	g.Go(func() error {
		var err error
		counts, err = s.attendanceRepo.CountForDate(gCtx, comp.ID, date)
		return err
	})

	g.Go(func() error {
		var err error
		onShortLeave, err = s.shortLeaveRepo.CountOpen(gCtx, comp.ID, date)
		return err
	})

	g.Go(func() error {
		devices, err := s.deviceRepo.ListByCompany(gCtx, comp.ID)
		if err != nil {
			return err
		}
		for _, d := range devices {
			if d.Active {
				activeDevices++
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return dashboard.DailyResponse{}, err
	}

	absent := activeEmployees - counts.CheckedIn()
	if absent < 0 {
		absent = 0
	}

	return dashboard.DailyResponse{
		Date:           date.Format("2006-01-02"),
		TotalEmployees: activeEmployees,
		Present:        counts.ByStatus[attendance.StatusPresent],
		Late:           counts.ByStatus[attendance.StatusLate],
		SuperLate:      counts.ByStatus[attendance.StatusSuperLate],
		Absent:         absent,
		CheckedOut:     counts.CheckedOut,
		OnShortLeave:   onShortLeave,
		ActiveDevices:  activeDevices,
	}, nil
}
