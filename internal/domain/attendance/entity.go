package attendance

import "time"

type Status string

const (
	StatusPresent   Status = "Present"
	StatusLate      Status = "Late"
	StatusSuperLate Status = "Super Late"

	// StatusAbsent is reported when no row exists; it is never stored.
	StatusAbsent Status = "Absent"
)

type Type string

const (
	TypeCheckIn  Type = "check_in"
	TypeCheckOut Type = "check_out"
)

type Source string

const (
	SourceMobile      Source = "MOBILE"
	SourceHardware    Source = "HARDWARE"
	SourceManualAdmin Source = "MANUAL_ADMIN"
	SourceWebAdmin    Source = "WEB_ADMIN"
)

// Attendance is the single row an employee has per local calendar day.
// Status is fixed when the row is created.
type Attendance struct {
	ID                      int64
	CompanyID               int64
	EmployeeID              string
	Timestamp               time.Time
	DateOnly                time.Time
	Status                  Status
	Type                    Type
	CheckInTime             *time.Time
	CheckOutTime            *time.Time
	DoorUnlockTime          *time.Time
	CheckOutEnabledTime     *time.Time
	IsEmergencyCheckout     bool
	EmergencyCheckoutReason *string
	LateReason              *string
	Source                  Source
	Method                  *string
	DeviceID                *string
	Location                *string
	Notes                   *string
}

func (a Attendance) IsCheckedOut() bool {
	return a.CheckOutTime != nil
}

// DailyCounts summarises the attendance rows of one company and date.
type DailyCounts struct {
	ByStatus   map[Status]int
	CheckedOut int
}

// CheckedIn is the number of rows, whatever their status.
func (d DailyCounts) CheckedIn() int {
	total := 0
	for _, n := range d.ByStatus {
		total += n
	}
	return total
}

// ShortLeave is an exit during working hours. ReturnTime nil means the employee is still out.
type ShortLeave struct {
	ID         int64
	CompanyID  int64
	EmployeeID string
	DateOnly   time.Time
	Reason     string
	ExitTime   time.Time
	ReturnTime *time.Time
}

func (s ShortLeave) IsOpen() bool {
	return s.ReturnTime == nil
}

// Trigger is the door event reason resolved for a hardware scan.
type Trigger string

const (
	TriggerCheckIn       Trigger = "CHECK_IN"
	TriggerCheckOut      Trigger = "CHECK_OUT"
	TriggerDuplicateScan Trigger = "DUPLICATE_SCAN"
	TriggerIgnored       Trigger = "IGNORED"
)
