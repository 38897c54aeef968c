package tracking

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/tracking"
	"github.com/cmlabs-hris/attendance-saas-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-saas-go/internal/pkg/sse"
)

// fieldRoleFilter selects the staff shown on the live map.
const fieldRoleFilter = "marketing"

type TrackingServiceImpl struct {
	tx database.Transactor
	tracking.SessionRepository
	tracking.LocationRepository
	employeeRepo employee.EmployeeRepository
	hub          *sse.Hub
	now          func() time.Time
}

func NewTrackingService(
	tx database.Transactor,
	sessionRepo tracking.SessionRepository,
	locationRepo tracking.LocationRepository,
	employeeRepo employee.EmployeeRepository,
	hub *sse.Hub,
	now func() time.Time,
) tracking.TrackingService {
	if now == nil {
		now = time.Now
	}
	if hub == nil {
		hub = sse.NewHub()
	}
	return &TrackingServiceImpl{
		tx:                 tx,
		SessionRepository:  sessionRepo,
		LocationRepository: locationRepo,
		employeeRepo:       employeeRepo,
		hub:                hub,
		now:                now,
	}
}

func (t *TrackingServiceImpl) currentEmployee(ctx context.Context) (employee.Employee, error) {
	identity, err := auth.EmployeeFromContext(ctx)
	if err != nil {
		return employee.Employee{}, err
	}

	emp, err := t.employeeRepo.GetByEmployeeID(ctx, identity.CompanyID, identity.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, auth.ErrAccountInactive
		}
		return employee.Employee{}, err
	}
	if !emp.IsActive() {
		return employee.Employee{}, auth.ErrAccountInactive
	}
	return emp, nil
}

// StartSession implements tracking.TrackingService.
func (t *TrackingServiceImpl) StartSession(ctx context.Context, req tracking.StartSessionRequest) (tracking.SessionResponse, error) {
	emp, err := t.currentEmployee(ctx)
	if err != nil {
		return tracking.SessionResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return tracking.SessionResponse{}, err
	}

	now := t.now().UTC()
	var session tracking.Session
	err = t.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		closed, err := t.SessionRepository.CloseActive(txCtx, emp.ID, now)
		if err != nil {
			return err
		}
		if closed > 0 {
			slog.Info("Closed previous tracking sessions", "employee_id", emp.EmployeeID, "count", closed)
		}

		session, err = t.SessionRepository.Create(txCtx, tracking.Session{
			EmployeeID: emp.ID,
			CompanyID:  emp.CompanyID,
			Department: strings.TrimSpace(req.Department),
			StartTime:  now,
			Active:     true,
		})
		return err
	})
	if err != nil {
		return tracking.SessionResponse{}, err
	}

	slog.Info("Tracking session started", "company_id", emp.CompanyID, "employee_id", emp.EmployeeID, "session_id", session.ID)
	return tracking.NewSessionResponse(session), nil
}

// StopSession implements tracking.TrackingService.
func (t *TrackingServiceImpl) StopSession(ctx context.Context) (int64, error) {
	emp, err := t.currentEmployee(ctx)
	if err != nil {
		return 0, err
	}

	closed, err := t.SessionRepository.CloseActive(ctx, emp.ID, t.now().UTC())
	if err != nil {
		return 0, err
	}
	if closed == 0 {
		return 0, tracking.ErrNoActiveSession
	}

	slog.Info("Tracking session stopped", "company_id", emp.CompanyID, "employee_id", emp.EmployeeID)
	return closed, nil
}

// RecordLocation implements tracking.TrackingService.
func (t *TrackingServiceImpl) RecordLocation(ctx context.Context, req tracking.LocationUpdateRequest) error {
	emp, err := t.currentEmployee(ctx)
	if err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	session, err := t.SessionRepository.GetByID(ctx, req.SessionID)
	if err != nil {
		return err
	}
	if session.EmployeeID != emp.ID {
		return tracking.ErrSessionNotOwned
	}
	if !session.Active {
		return tracking.ErrSessionClosed
	}

	logged, err := t.LocationRepository.Append(ctx, tracking.LocationLog{
		SessionID:  session.ID,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		Status:     strings.TrimSpace(req.Status),
		RecordedAt: t.now().UTC(),
	})
	if err != nil {
		return err
	}

	t.hub.Publish(sse.Event{
		CompanyID: emp.CompanyID,
		Event:     sse.EventLocation,
		Data: tracking.NewLivePositionResponse(tracking.LivePosition{
			EmployeeID: emp.EmployeeID,
			Name:       emp.Name,
			Role:       emp.Role,
			Department: session.Department,
			SessionID:  session.ID,
			Latitude:   logged.Latitude,
			Longitude:  logged.Longitude,
			Status:     logged.Status,
			RecordedAt: logged.RecordedAt,
		}),
	})
	return nil
}

// LiveLocations implements tracking.TrackingService.
func (t *TrackingServiceImpl) LiveLocations(ctx context.Context) ([]tracking.LivePositionResponse, error) {
	admin, err := auth.CompanyAdminFromContext(ctx)
	if err != nil {
		return nil, err
	}

	positions, err := t.LocationRepository.LatestForCompany(ctx, admin.CompanyID, fieldRoleFilter)
	if err != nil {
		return nil, err
	}

	resp := make([]tracking.LivePositionResponse, 0, len(positions))
	for _, p := range positions {
		resp = append(resp, tracking.NewLivePositionResponse(p))
	}
	return resp, nil
}

// Subscribe implements tracking.TrackingService.
func (t *TrackingServiceImpl) Subscribe(ctx context.Context) (<-chan tracking.LiveEvent, func(), error) {
	admin, err := auth.CompanyAdminFromContext(ctx)
	if err != nil {
		return nil, nil, err
	}

	ch, cleanup := t.hub.Subscribe(admin.CompanyID)
	out := make(chan tracking.LiveEvent, 16)

	go func() {
		defer close(out)
		for {
			select {
			case event, ok := <-ch:
				if !ok {
					return
				}
				select {
				case out <- tracking.LiveEvent{Event: event.Event, Data: event.Data}:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, cleanup, nil
}
