package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/device"
	"github.com/cmlabs-hris/attendance-saas-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type deviceRepositoryImpl struct {
	db *database.DB
}

func NewDeviceRepository(db *database.DB) device.DeviceRepository {
	return &deviceRepositoryImpl{db: db}
}

const deviceColumns = `id, company_id, device_uid, device_type, location, secret_key, active, created_at`

func scanDevice(row pgx.Row) (device.HardwareDevice, error) {
	var d device.HardwareDevice
	err := row.Scan(&d.ID, &d.CompanyID, &d.DeviceUID, &d.DeviceType, &d.Location, &d.SecretKey, &d.Active, &d.CreatedAt)
	return d, err
}

func collectDevices(rows pgx.Rows) ([]device.HardwareDevice, error) {
	defer rows.Close()

	devices := make([]device.HardwareDevice, 0)
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan device: %w", err)
		}
		devices = append(devices, d)
	}
	return devices, rows.Err()
}

// Create implements device.DeviceRepository.
func (r *deviceRepositoryImpl) Create(ctx context.Context, d device.HardwareDevice) (device.HardwareDevice, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO hardware_devices (company_id, device_uid, device_type, location, secret_key, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + deviceColumns

	created, err := scanDevice(q.QueryRow(ctx, query, d.CompanyID, d.DeviceUID, d.DeviceType, d.Location, d.SecretKey, d.Active))
	if err != nil {
		if isUniqueViolation(err, "hardware_devices_device_uid_key") {
			return device.HardwareDevice{}, device.ErrDeviceUIDTaken
		}
		return device.HardwareDevice{}, fmt.Errorf("failed to create device: %w", err)
	}
	return created, nil
}

// GetByUID implements device.DeviceRepository.
func (r *deviceRepositoryImpl) GetByUID(ctx context.Context, deviceUID string) (device.HardwareDevice, error) {
	q := GetQuerier(ctx, r.db)

	d, err := scanDevice(q.QueryRow(ctx, `SELECT `+deviceColumns+` FROM hardware_devices WHERE device_uid = $1`, deviceUID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return device.HardwareDevice{}, device.ErrDeviceNotFound
		}
		return device.HardwareDevice{}, fmt.Errorf("failed to get device: %w", err)
	}
	return d, nil
}

// ListByCompany implements device.DeviceRepository.
func (r *deviceRepositoryImpl) ListByCompany(ctx context.Context, companyID int64) ([]device.HardwareDevice, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+deviceColumns+` FROM hardware_devices WHERE company_id = $1 ORDER BY id`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	return collectDevices(rows)
}

// ListAll implements device.DeviceRepository.
func (r *deviceRepositoryImpl) ListAll(ctx context.Context) ([]device.HardwareDevice, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+deviceColumns+` FROM hardware_devices ORDER BY company_id, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	return collectDevices(rows)
}

// UpdateType implements device.DeviceRepository.
func (r *deviceRepositoryImpl) UpdateType(ctx context.Context, id int64, deviceType string) (device.HardwareDevice, error) {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE hardware_devices SET device_type = $1 WHERE id = $2 RETURNING ` + deviceColumns
	d, err := scanDevice(q.QueryRow(ctx, query, deviceType, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return device.HardwareDevice{}, device.ErrDeviceNotFound
		}
		return device.HardwareDevice{}, fmt.Errorf("failed to update device %d: %w", id, err)
	}
	return d, nil
}

// DeactivateByCompany implements device.DeviceRepository.
func (r *deviceRepositoryImpl) DeactivateByCompany(ctx context.Context, companyID int64) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE hardware_devices SET active = FALSE WHERE company_id = $1`, companyID)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate devices of company %d: %w", companyID, err)
	}
	return tag.RowsAffected(), nil
}

type doorEventRepositoryImpl struct {
	db *database.DB
}

func NewDoorEventRepository(db *database.DB) device.DoorEventRepository {
	return &doorEventRepositoryImpl{db: db}
}

// Create implements device.DoorEventRepository.
func (r *doorEventRepositoryImpl) Create(ctx context.Context, e device.DoorEvent) (device.DoorEvent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO door_events (company_id, employee_id, event_type, trigger_reason, device_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	if err := q.QueryRow(ctx, query, e.CompanyID, e.EmployeeID, e.EventType, e.TriggerReason, e.DeviceID, e.CreatedAt).Scan(&e.ID); err != nil {
		return device.DoorEvent{}, fmt.Errorf("failed to create door event: %w", err)
	}
	return e, nil
}

// ListByCompany implements device.DoorEventRepository.
func (r *doorEventRepositoryImpl) ListByCompany(ctx context.Context, companyID int64, limit int) ([]device.DoorEvent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, employee_id, event_type, trigger_reason, device_id, created_at
		FROM door_events
		WHERE company_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := q.Query(ctx, query, companyID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list door events: %w", err)
	}
	defer rows.Close()

	events := make([]device.DoorEvent, 0)
	for rows.Next() {
		var e device.DoorEvent
		if err := rows.Scan(&e.ID, &e.CompanyID, &e.EmployeeID, &e.EventType, &e.TriggerReason, &e.DeviceID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan door event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
