package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-saas-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

const attendanceColumns = `
	id, company_id, employee_id, "timestamp", date_only, status, type,
	check_in_time, check_out_time, door_unlock_time, check_out_enabled_time,
	is_emergency_checkout, emergency_checkout_reason, late_reason,
	source, method, device_id, location, notes`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var a attendance.Attendance
	var status, typ, source string
	err := row.Scan(
		&a.ID, &a.CompanyID, &a.EmployeeID, &a.Timestamp, &a.DateOnly, &status, &typ,
		&a.CheckInTime, &a.CheckOutTime, &a.DoorUnlockTime, &a.CheckOutEnabledTime,
		&a.IsEmergencyCheckout, &a.EmergencyCheckoutReason, &a.LateReason,
		&source, &a.Method, &a.DeviceID, &a.Location, &a.Notes,
	)
	a.Status = attendance.Status(status)
	a.Type = attendance.Type(typ)
	a.Source = attendance.Source(source)
	return a, err
}

func collectAttendance(rows pgx.Rows) ([]attendance.Attendance, error) {
	defer rows.Close()

	records := make([]attendance.Attendance, 0)
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance (
			company_id, employee_id, "timestamp", date_only, status, type,
			check_in_time, check_out_time, source, method, device_id, location, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT ON CONSTRAINT attendance_company_employee_date_key DO NOTHING
		RETURNING ` + attendanceColumns

	created, err := scanAttendance(q.QueryRow(ctx, query,
		a.CompanyID, a.EmployeeID, a.Timestamp, a.DateOnly, string(a.Status), string(a.Type),
		a.CheckInTime, a.CheckOutTime, string(a.Source), a.Method, a.DeviceID, a.Location, a.Notes,
	))
	if err != nil {
		// DO NOTHING returns no row, so a lost race never aborts the caller's transaction
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}
	return created, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, companyID int64, employeeID string, date time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendance
		WHERE company_id = $1 AND employee_id = $2 AND date_only = $3`

	a, err := scanAttendance(q.QueryRow(ctx, query, companyID, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return a, nil
}

// SetDoorUnlock implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) SetDoorUnlock(ctx context.Context, id int64, unlockedAt time.Time, checkOutEnabledAt *time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE attendance SET door_unlock_time = $1, check_out_enabled_time = $2 WHERE id = $3`
	return r.execOne(ctx, q, query, unlockedAt, checkOutEnabledAt, id)
}

// SetCheckOut implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) SetCheckOut(ctx context.Context, id int64, at time.Time, emergency bool, reason *string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance
		SET check_out_time = $1, type = 'check_out',
		    is_emergency_checkout = $2, emergency_checkout_reason = $3
		WHERE id = $4
	`
	return r.execOne(ctx, q, query, at, emergency, reason, id)
}

// MoveCheckOut implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) MoveCheckOut(ctx context.Context, id int64, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	return r.execOne(ctx, q, `UPDATE attendance SET check_out_time = $1, type = 'check_out' WHERE id = $2`, at, id)
}

// SetLateReason implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) SetLateReason(ctx context.Context, id int64, reason string) error {
	q := GetQuerier(ctx, r.db)

	return r.execOne(ctx, q, `UPDATE attendance SET late_reason = $1 WHERE id = $2`, reason, id)
}

func (r *attendanceRepositoryImpl) execOne(ctx context.Context, q database.Querier, query string, args ...interface{}) error {
	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// ListByEmployee implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByEmployee(ctx context.Context, companyID int64, employeeID string, since *time.Time, limit int) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendance
		WHERE company_id = $1 AND employee_id = $2 AND ($3::date IS NULL OR date_only >= $3::date)
		ORDER BY date_only DESC
		LIMIT $4`

	rows, err := q.Query(ctx, query, companyID, employeeID, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance of employee %s: %w", employeeID, err)
	}
	return collectAttendance(rows)
}

// ListByCompany implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByCompany(ctx context.Context, companyID int64, limit int) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendance
		WHERE company_id = $1
		ORDER BY "timestamp" DESC
		LIMIT $2`

	rows, err := q.Query(ctx, query, companyID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return collectAttendance(rows)
}

// CountForDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) CountForDate(ctx context.Context, companyID int64, date time.Time) (attendance.DailyCounts, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT status, COUNT(*), COUNT(check_out_time)
		FROM attendance
		WHERE company_id = $1 AND date_only = $2
		GROUP BY status`

	rows, err := q.Query(ctx, query, companyID, date)
	if err != nil {
		return attendance.DailyCounts{}, fmt.Errorf("failed to count attendance: %w", err)
	}
	defer rows.Close()

	counts := attendance.DailyCounts{ByStatus: make(map[attendance.Status]int)}
	for rows.Next() {
		var status string
		var total, checkedOut int
		if err := rows.Scan(&status, &total, &checkedOut); err != nil {
			return attendance.DailyCounts{}, fmt.Errorf("failed to scan attendance count: %w", err)
		}
		counts.ByStatus[attendance.Status(status)] = total
		counts.CheckedOut += checkedOut
	}
	return counts, rows.Err()
}

type shortLeaveRepositoryImpl struct {
	db *database.DB
}

func NewShortLeaveRepository(db *database.DB) attendance.ShortLeaveRepository {
	return &shortLeaveRepositoryImpl{db: db}
}

const shortLeaveColumns = `id, company_id, employee_id, date_only, reason, exit_time, return_time`

func scanShortLeave(row pgx.Row) (attendance.ShortLeave, error) {
	var s attendance.ShortLeave
	err := row.Scan(&s.ID, &s.CompanyID, &s.EmployeeID, &s.DateOnly, &s.Reason, &s.ExitTime, &s.ReturnTime)
	return s, err
}

// Create implements attendance.ShortLeaveRepository.
func (r *shortLeaveRepositoryImpl) Create(ctx context.Context, leave attendance.ShortLeave) (attendance.ShortLeave, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO short_leaves (company_id, employee_id, date_only, reason, exit_time)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + shortLeaveColumns

	created, err := scanShortLeave(q.QueryRow(ctx, query,
		leave.CompanyID, leave.EmployeeID, leave.DateOnly, leave.Reason, leave.ExitTime))
	if err != nil {
		if isUniqueViolation(err, "short_leaves_open_key") {
			return attendance.ShortLeave{}, attendance.ErrShortLeaveAlreadyOpen
		}
		return attendance.ShortLeave{}, fmt.Errorf("failed to create short leave: %w", err)
	}
	return created, nil
}

// GetOpen implements attendance.ShortLeaveRepository.
func (r *shortLeaveRepositoryImpl) GetOpen(ctx context.Context, companyID int64, employeeID string, date time.Time) (attendance.ShortLeave, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shortLeaveColumns + `
		FROM short_leaves
		WHERE company_id = $1 AND employee_id = $2 AND date_only = $3 AND return_time IS NULL`

	s, err := scanShortLeave(q.QueryRow(ctx, query, companyID, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.ShortLeave{}, attendance.ErrNoOpenShortLeave
		}
		return attendance.ShortLeave{}, fmt.Errorf("failed to get open short leave: %w", err)
	}
	return s, nil
}

// Close implements attendance.ShortLeaveRepository.
func (r *shortLeaveRepositoryImpl) Close(ctx context.Context, id int64, returnTime time.Time) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE short_leaves SET return_time = $1 WHERE id = $2 AND return_time IS NULL`, returnTime, id)
	if err != nil {
		return fmt.Errorf("failed to close short leave: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrNoOpenShortLeave
	}
	return nil
}

// ListByCompany implements attendance.ShortLeaveRepository.
func (r *shortLeaveRepositoryImpl) ListByCompany(ctx context.Context, companyID int64, limit int) ([]attendance.ShortLeave, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shortLeaveColumns + `
		FROM short_leaves
		WHERE company_id = $1
		ORDER BY exit_time DESC
		LIMIT $2`

	rows, err := q.Query(ctx, query, companyID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list short leaves: %w", err)
	}
	defer rows.Close()

	leaves := make([]attendance.ShortLeave, 0)
	for rows.Next() {
		s, err := scanShortLeave(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan short leave: %w", err)
		}
		leaves = append(leaves, s)
	}
	return leaves, rows.Err()
}

// CountOpen implements attendance.ShortLeaveRepository.
func (r *shortLeaveRepositoryImpl) CountOpen(ctx context.Context, companyID int64, date time.Time) (int, error) {
	q := GetQuerier(ctx, r.db)

	var n int
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM short_leaves WHERE company_id = $1 AND date_only = $2 AND return_time IS NULL`,
		companyID, date,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count open short leaves: %w", err)
	}
	return n, nil
}
