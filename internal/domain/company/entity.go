package company

import "time"

type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusDeleted   Status = "deleted"
)

// Defaults applied to newly provisioned companies.
const (
	DefaultLatitude                  = 23.8103
	DefaultLongitude                 = 90.4125
	DefaultRadiusMeters              = 50.0
	DefaultWorkStartTime             = "09:00"
	DefaultWorkEndTime               = "17:00"
	DefaultTimezone                  = "UTC"
	DefaultSuperLateThresholdMinutes = 30
	TrialDays                        = 30
)

type Geofence struct {
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
}

// Schedule is the tenant's working day in local wall-clock time.
type Schedule struct {
	WorkStartTime             string
	WorkEndTime               string
	Timezone                  string
	SuperLateThresholdMinutes int
}

type Company struct {
	ID         int64
	Name       string
	Plan       string
	Status     Status
	ValidUntil *time.Time
	Geofence   Geofence
	Schedule   Schedule
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  *time.Time
}

func (c Company) IsActive() bool {
	return c.Status == StatusActive
}

type CompanyAdmin struct {
	ID           int64
	CompanyID    int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
