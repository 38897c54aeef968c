package dashboard

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-saas-go/internal/pkg/validator"
)

// DailyRequest selects the local date of the summary. An empty Date means today in the company timezone.
type DailyRequest struct {
	Date string
}

// ParseDate returns the requested date at UTC midnight, or ok=false when none was given.
func (r DailyRequest) ParseDate() (date time.Time, ok bool, err error) {
	value := strings.TrimSpace(r.Date)
	if value == "" {
		return time.Time{}, false, nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, false, validator.ValidationErrors{{Field: "date", Message: "date must be in YYYY-MM-DD format"}}
	}
	return parsed, true, nil
}

type DailyResponse struct {
	Date           string `json:"date"`
	TotalEmployees int    `json:"total_employees"`
	Present        int    `json:"present"`
	Late           int    `json:"late"`
	SuperLate      int    `json:"super_late"`
	Absent         int    `json:"absent"`
	CheckedOut     int    `json:"checked_out"`
	OnShortLeave   int    `json:"on_short_leave"`
	ActiveDevices  int    `json:"active_devices"`
}
