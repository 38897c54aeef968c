package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/tracking"
	"github.com/cmlabs-hris/attendance-saas-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type sessionRepositoryImpl struct {
	db *database.DB
}

func NewSessionRepository(db *database.DB) tracking.SessionRepository {
	return &sessionRepositoryImpl{db: db}
}

// CloseActive implements tracking.SessionRepository.
func (r *sessionRepositoryImpl) CloseActive(ctx context.Context, employeeRowID int64, at time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE department_mode_sessions
		SET active = FALSE, end_time = $1
		WHERE employee_id = $2 AND active = TRUE
	`
	tag, err := q.Exec(ctx, query, at, employeeRowID)
	if err != nil {
		return 0, fmt.Errorf("failed to close tracking sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Create implements tracking.SessionRepository.
func (r *sessionRepositoryImpl) Create(ctx context.Context, s tracking.Session) (tracking.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO department_mode_sessions (employee_id, company_id, department, start_time, active)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING id
	`
	if err := q.QueryRow(ctx, query, s.EmployeeID, s.CompanyID, s.Department, s.StartTime).Scan(&s.ID); err != nil {
		return tracking.Session{}, fmt.Errorf("failed to create tracking session: %w", err)
	}
	s.Active = true
	return s, nil
}

// GetByID implements tracking.SessionRepository.
func (r *sessionRepositoryImpl) GetByID(ctx context.Context, id int64) (tracking.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, company_id, department, start_time, end_time, active
		FROM department_mode_sessions
		WHERE id = $1
	`
	var s tracking.Session
	err := q.QueryRow(ctx, query, id).Scan(&s.ID, &s.EmployeeID, &s.CompanyID, &s.Department, &s.StartTime, &s.EndTime, &s.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tracking.Session{}, tracking.ErrSessionNotFound
		}
		return tracking.Session{}, fmt.Errorf("failed to get tracking session: %w", err)
	}
	return s, nil
}

type locationRepositoryImpl struct {
	db *database.DB
}

func NewLocationRepository(db *database.DB) tracking.LocationRepository {
	return &locationRepositoryImpl{db: db}
}

// Append implements tracking.LocationRepository.
func (r *locationRepositoryImpl) Append(ctx context.Context, l tracking.LocationLog) (tracking.LocationLog, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employee_location_logs (session_id, latitude, longitude, status, recorded_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	if err := q.QueryRow(ctx, query, l.SessionID, l.Latitude, l.Longitude, l.Status, l.RecordedAt).Scan(&l.ID); err != nil {
		return tracking.LocationLog{}, fmt.Errorf("failed to append location: %w", err)
	}
	return l, nil
}

// LatestForCompany implements tracking.LocationRepository.
func (r *locationRepositoryImpl) LatestForCompany(ctx context.Context, companyID int64, roleFilter string) ([]tracking.LivePosition, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT DISTINCT ON (e.id)
			e.employee_id, e.name, e.role, s.department, s.id,
			l.latitude, l.longitude, l.status, l.recorded_at
		FROM employees e
		JOIN department_mode_sessions s ON s.employee_id = e.id AND s.active = TRUE
		JOIN employee_location_logs l ON l.session_id = s.id
		WHERE e.company_id = $1
		  AND e.deleted_at IS NULL
		  AND e.role ILIKE '%' || $2 || '%'
		ORDER BY e.id, l.recorded_at DESC, l.id DESC
	`
	rows, err := q.Query(ctx, query, companyID, roleFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to load live locations: %w", err)
	}
	defer rows.Close()

	positions := make([]tracking.LivePosition, 0)
	for rows.Next() {
		var p tracking.LivePosition
		if err := rows.Scan(&p.EmployeeID, &p.Name, &p.Role, &p.Department, &p.SessionID,
			&p.Latitude, &p.Longitude, &p.Status, &p.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan live location: %w", err)
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}
