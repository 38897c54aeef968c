package company

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/company"
	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/device"
	"github.com/cmlabs-hris/attendance-saas-go/internal/pkg/database"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type CompanyServiceImpl struct {
	tx database.Transactor
	company.CompanyRepository
	adminRepo  company.CompanyAdminRepository
	deviceRepo device.DeviceRepository
	timezone   string
	now        func() time.Time
}

func NewCompanyService(
	tx database.Transactor,
	companyRepository company.CompanyRepository,
	adminRepository company.CompanyAdminRepository,
	deviceRepository device.DeviceRepository,
	defaultTimezone string,
	now func() time.Time,
) company.CompanyService {
	if now == nil {
		now = time.Now
	}
	if defaultTimezone == "" {
		defaultTimezone = company.DefaultTimezone
	}
	return &CompanyServiceImpl{
		tx:                tx,
		CompanyRepository: companyRepository,
		adminRepo:         adminRepository,
		deviceRepo:        deviceRepository,
		timezone:          defaultTimezone,
		now:               now,
	}
}

// newDeviceUID returns a terminal identifier such as ZK_1A2B3C4D.
func newDeviceUID() string {
	id := uuid.New()
	return "ZK_" + strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
}

// newDeviceSecret returns 20 random bytes, URL-safe base64 encoded.
func newDeviceSecret() (string, error) {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Provision implements company.CompanyService.
func (c *CompanyServiceImpl) Provision(ctx context.Context, req company.ProvisionCompanyRequest) (company.ProvisionCompanyResponse, error) {
	if _, err := auth.SuperAdminFromContext(ctx); err != nil {
		return company.ProvisionCompanyResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return company.ProvisionCompanyResponse{}, err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return company.ProvisionCompanyResponse{}, fmt.Errorf("failed to hash admin password: %w", err)
	}
	secret, err := newDeviceSecret()
	if err != nil {
		return company.ProvisionCompanyResponse{}, fmt.Errorf("failed to generate device secret: %w", err)
	}

	now := c.now().UTC()
	validUntil := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, company.TrialDays)

	var resp company.ProvisionCompanyResponse
	err = c.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		created, err := c.CompanyRepository.Create(txCtx, company.Company{
			Name:       strings.TrimSpace(req.Name),
			Plan:       req.Plan,
			Status:     company.StatusActive,
			ValidUntil: &validUntil,
			Geofence: company.Geofence{
				Latitude:     company.DefaultLatitude,
				Longitude:    company.DefaultLongitude,
				RadiusMeters: company.DefaultRadiusMeters,
			},
			Schedule: company.Schedule{
				WorkStartTime:             company.DefaultWorkStartTime,
				WorkEndTime:               company.DefaultWorkEndTime,
				Timezone:                  c.timezone,
				SuperLateThresholdMinutes: company.DefaultSuperLateThresholdMinutes,
			},
		})
		if err != nil {
			return err
		}

		admin, err := c.adminRepo.Create(txCtx, company.CompanyAdmin{
			CompanyID:    created.ID,
			Username:     req.AdminUsername,
			PasswordHash: string(passwordHash),
		})
		if err != nil {
			return err
		}

		seed, err := c.deviceRepo.Create(txCtx, device.HardwareDevice{
			CompanyID:  created.ID,
			DeviceUID:  newDeviceUID(),
			DeviceType: req.HardwareType,
			Location:   device.DefaultLocation,
			SecretKey:  secret,
			Active:     true,
		})
		if err != nil {
			return err
		}

		resp = company.ProvisionCompanyResponse{
			CompanyID:     created.ID,
			Name:          created.Name,
			AdminUsername: admin.Username,
			ValidUntil:    validUntil.Format("2006-01-02"),
			Device: company.ProvisionedDevice{
				DeviceUID:  seed.DeviceUID,
				SecretKey:  seed.SecretKey,
				DeviceType: seed.DeviceType,
				Location:   seed.Location,
			},
		}
		return nil
	})
	if err != nil {
		return company.ProvisionCompanyResponse{}, err
	}

	slog.Info("Company provisioned", "company_id", resp.CompanyID, "name", resp.Name, "device_uid", resp.Device.DeviceUID)
	return resp, nil
}

// List implements company.CompanyService.
func (c *CompanyServiceImpl) List(ctx context.Context) ([]company.CompanyResponse, error) {
	if _, err := auth.SuperAdminFromContext(ctx); err != nil {
		return nil, err
	}

	companies, err := c.CompanyRepository.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]company.CompanyResponse, 0, len(companies))
	for _, item := range companies {
		resp = append(resp, company.NewCompanyResponse(item))
	}
	return resp, nil
}

// Update implements company.CompanyService.
func (c *CompanyServiceImpl) Update(ctx context.Context, req company.UpdateCompanyRequest) (company.CompanyResponse, error) {
	if _, err := auth.SuperAdminFromContext(ctx); err != nil {
		return company.CompanyResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return company.CompanyResponse{}, err
	}

	existing, err := c.CompanyRepository.GetByID(ctx, req.ID)
	if err != nil {
		return company.CompanyResponse{}, err
	}
	if existing.Status == company.StatusDeleted {
		return company.CompanyResponse{}, company.ErrCompanyDeleted
	}

	if req.Name != nil {
		existing.Name = strings.TrimSpace(*req.Name)
	}
	if req.Status != nil {
		existing.Status = company.Status(*req.Status)
	}

	if err := c.CompanyRepository.Update(ctx, existing); err != nil {
		return company.CompanyResponse{}, err
	}

	slog.Info("Company updated", "company_id", existing.ID, "status", existing.Status)
	return company.NewCompanyResponse(existing), nil
}

// Delete implements company.CompanyService.
func (c *CompanyServiceImpl) Delete(ctx context.Context, id int64) error {
	if _, err := auth.SuperAdminFromContext(ctx); err != nil {
		return err
	}

	var deactivated int64
	err := c.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := c.CompanyRepository.SoftDelete(txCtx, id, c.now().UTC()); err != nil {
			return err
		}
		n, err := c.deviceRepo.DeactivateByCompany(txCtx, id)
		if err != nil {
			return err
		}
		deactivated = n
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("Company deleted", "company_id", id, "devices_deactivated", deactivated)
	return nil
}

func (c *CompanyServiceImpl) currentCompany(ctx context.Context) (company.Company, error) {
	admin, err := auth.CompanyAdminFromContext(ctx)
	if err != nil {
		return company.Company{}, err
	}
	found, err := c.CompanyRepository.GetByID(ctx, admin.CompanyID)
	if err != nil {
		return company.Company{}, err
	}
	if found.Status == company.StatusDeleted {
		return company.Company{}, company.ErrCompanyNotFound
	}
	return found, nil
}

// GetSettings implements company.CompanyService.
func (c *CompanyServiceImpl) GetSettings(ctx context.Context) (company.SettingsResponse, error) {
	found, err := c.currentCompany(ctx)
	if err != nil {
		return company.SettingsResponse{}, err
	}
	return company.NewSettingsResponse(found), nil
}

// UpdateGeofence implements company.CompanyService.
func (c *CompanyServiceImpl) UpdateGeofence(ctx context.Context, req company.UpdateGeofenceRequest) (company.SettingsResponse, error) {
	found, err := c.currentCompany(ctx)
	if err != nil {
		return company.SettingsResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return company.SettingsResponse{}, err
	}

	found.Geofence = company.Geofence{
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		RadiusMeters: req.Radius,
	}
	if err := c.CompanyRepository.UpdateGeofence(ctx, found.ID, found.Geofence); err != nil {
		return company.SettingsResponse{}, err
	}

	slog.Info("Geofence updated", "company_id", found.ID)
	return company.NewSettingsResponse(found), nil
}

// UpdateSchedule implements company.CompanyService.
func (c *CompanyServiceImpl) UpdateSchedule(ctx context.Context, req company.UpdateScheduleRequest) (company.SettingsResponse, error) {
	found, err := c.currentCompany(ctx)
	if err != nil {
		return company.SettingsResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return company.SettingsResponse{}, err
	}

	found.Schedule.WorkStartTime = req.WorkStartTime
	found.Schedule.WorkEndTime = req.WorkEndTime
	if req.Timezone != nil {
		found.Schedule.Timezone = *req.Timezone
	}
	if req.SuperLateThresholdMinutes != nil {
		found.Schedule.SuperLateThresholdMinutes = *req.SuperLateThresholdMinutes
	}

	if err := c.CompanyRepository.UpdateSchedule(ctx, found.ID, found.Schedule); err != nil {
		if errors.Is(err, company.ErrCompanyNotFound) {
			return company.SettingsResponse{}, err
		}
		return company.SettingsResponse{}, fmt.Errorf("failed to save schedule: %w", err)
	}

	slog.Info("Schedule updated", "company_id", found.ID,
		"start", found.Schedule.WorkStartTime, "end", found.Schedule.WorkEndTime, "timezone", found.Schedule.Timezone)
	return company.NewSettingsResponse(found), nil
}
