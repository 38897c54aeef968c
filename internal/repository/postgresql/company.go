package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/company"
	"github.com/cmlabs-hris/attendance-saas-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type companyRepositoryImpl struct {
	db *database.DB
}

func NewCompanyRepository(db *database.DB) company.CompanyRepository {
	return &companyRepositoryImpl{db: db}
}

const companyColumns = `
	id, name, plan, status, valid_until,
	office_lat, office_lng, office_radius,
	work_start_time, work_end_time, timezone, super_late_threshold_minutes,
	created_at, updated_at, deleted_at`

func scanCompany(row pgx.Row) (company.Company, error) {
	var c company.Company
	var status string
	err := row.Scan(
		&c.ID, &c.Name, &c.Plan, &status, &c.ValidUntil,
		&c.Geofence.Latitude, &c.Geofence.Longitude, &c.Geofence.RadiusMeters,
		&c.Schedule.WorkStartTime, &c.Schedule.WorkEndTime, &c.Schedule.Timezone, &c.Schedule.SuperLateThresholdMinutes,
		&c.CreatedAt, &c.UpdatedAt, &c.DeletedAt,
	)
	c.Status = company.Status(status)
	return c, err
}

// Create implements company.CompanyRepository.
func (c *companyRepositoryImpl) Create(ctx context.Context, newCompany company.Company) (company.Company, error) {
	q := GetQuerier(ctx, c.db)

	query := `
		INSERT INTO companies (
			name, plan, status, valid_until,
			office_lat, office_lng, office_radius,
			work_start_time, work_end_time, timezone, super_late_threshold_minutes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + companyColumns

	created, err := scanCompany(q.QueryRow(ctx, query,
		newCompany.Name, newCompany.Plan, string(newCompany.Status), newCompany.ValidUntil,
		newCompany.Geofence.Latitude, newCompany.Geofence.Longitude, newCompany.Geofence.RadiusMeters,
		newCompany.Schedule.WorkStartTime, newCompany.Schedule.WorkEndTime, newCompany.Schedule.Timezone,
		newCompany.Schedule.SuperLateThresholdMinutes,
	))
	if err != nil {
		if isUniqueViolation(err, "companies_name_key") {
			return company.Company{}, company.ErrCompanyNameTaken
		}
		return company.Company{}, fmt.Errorf("failed to create company: %w", err)
	}
	return created, nil
}

// GetByID implements company.CompanyRepository.
func (c *companyRepositoryImpl) GetByID(ctx context.Context, id int64) (company.Company, error) {
	q := GetQuerier(ctx, c.db)

	found, err := scanCompany(q.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return company.Company{}, company.ErrCompanyNotFound
		}
		return company.Company{}, fmt.Errorf("failed to get company %d: %w", id, err)
	}
	return found, nil
}

// List implements company.CompanyRepository.
func (c *companyRepositoryImpl) List(ctx context.Context) ([]company.Company, error) {
	q := GetQuerier(ctx, c.db)

	rows, err := q.Query(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	companies := make([]company.Company, 0)
	for rows.Next() {
		item, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, item)
	}
	return companies, rows.Err()
}

// Update implements company.CompanyRepository.
func (c *companyRepositoryImpl) Update(ctx context.Context, updated company.Company) error {
	q := GetQuerier(ctx, c.db)

	query := `
		UPDATE companies
		SET name = $1, status = $2, updated_at = NOW()
		WHERE id = $3 AND deleted_at IS NULL
	`
	tag, err := q.Exec(ctx, query, updated.Name, string(updated.Status), updated.ID)
	if err != nil {
		if isUniqueViolation(err, "companies_name_key") {
			return company.ErrCompanyNameTaken
		}
		return fmt.Errorf("failed to update company %d: %w", updated.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return company.ErrCompanyNotFound
	}
	return nil
}

// SoftDelete implements company.CompanyRepository.
func (c *companyRepositoryImpl) SoftDelete(ctx context.Context, id int64, deletedAt time.Time) error {
	q := GetQuerier(ctx, c.db)

	query := `
		UPDATE companies
		SET status = 'deleted', deleted_at = $1, updated_at = $1
		WHERE id = $2 AND deleted_at IS NULL
	`
	tag, err := q.Exec(ctx, query, deletedAt, id)
	if err != nil {
		return fmt.Errorf("failed to delete company %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return company.ErrCompanyNotFound
	}
	return nil
}

// UpdateGeofence implements company.CompanyRepository.
func (c *companyRepositoryImpl) UpdateGeofence(ctx context.Context, id int64, geofence company.Geofence) error {
	q := GetQuerier(ctx, c.db)

	query := `
		UPDATE companies
		SET office_lat = $1, office_lng = $2, office_radius = $3, updated_at = NOW()
		WHERE id = $4 AND deleted_at IS NULL
	`
	tag, err := q.Exec(ctx, query, geofence.Latitude, geofence.Longitude, geofence.RadiusMeters, id)
	if err != nil {
		return fmt.Errorf("failed to update geofence of company %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return company.ErrCompanyNotFound
	}
	return nil
}

// UpdateSchedule implements company.CompanyRepository.
func (c *companyRepositoryImpl) UpdateSchedule(ctx context.Context, id int64, schedule company.Schedule) error {
	q := GetQuerier(ctx, c.db)

	query := `
		UPDATE companies
		SET work_start_time = $1, work_end_time = $2, timezone = $3,
		    super_late_threshold_minutes = $4, updated_at = NOW()
		WHERE id = $5 AND deleted_at IS NULL
	`
	tag, err := q.Exec(ctx, query,
		schedule.WorkStartTime, schedule.WorkEndTime, schedule.Timezone, schedule.SuperLateThresholdMinutes, id)
	if err != nil {
		return fmt.Errorf("failed to update schedule of company %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return company.ErrCompanyNotFound
	}
	return nil
}

type companyAdminRepositoryImpl struct {
	db *database.DB
}

func NewCompanyAdminRepository(db *database.DB) company.CompanyAdminRepository {
	return &companyAdminRepositoryImpl{db: db}
}

// Create implements company.CompanyAdminRepository.
func (c *companyAdminRepositoryImpl) Create(ctx context.Context, admin company.CompanyAdmin) (company.CompanyAdmin, error) {
	q := GetQuerier(ctx, c.db)

	query := `
		INSERT INTO company_admins (company_id, username, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := q.QueryRow(ctx, query, admin.CompanyID, admin.Username, admin.PasswordHash).Scan(&admin.ID, &admin.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "company_admins_username_key") {
			return company.CompanyAdmin{}, company.ErrAdminUsernameTaken
		}
		return company.CompanyAdmin{}, fmt.Errorf("failed to create company admin: %w", err)
	}
	return admin, nil
}

// GetByUsername implements company.CompanyAdminRepository.
func (c *companyAdminRepositoryImpl) GetByUsername(ctx context.Context, username string) (company.CompanyAdmin, error) {
	q := GetQuerier(ctx, c.db)

	query := `SELECT id, company_id, username, password_hash, created_at FROM company_admins WHERE username = $1`

	var a company.CompanyAdmin
	err := q.QueryRow(ctx, query, username).Scan(&a.ID, &a.CompanyID, &a.Username, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return company.CompanyAdmin{}, company.ErrAdminNotFound
		}
		return company.CompanyAdmin{}, fmt.Errorf("failed to get company admin: %w", err)
	}
	return a, nil
}
