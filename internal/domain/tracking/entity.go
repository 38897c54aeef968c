package tracking

import "time"

// Session is a field-work GPS tracking session. At most one is active per employee.
type Session struct {
	ID         int64
	EmployeeID int64
	CompanyID  int64
	Department string
	StartTime  time.Time
	EndTime    *time.Time
	Active     bool
}

type LocationLog struct {
	ID         int64
	SessionID  int64
	Latitude   float64
	Longitude  float64
	Status     string
	RecordedAt time.Time
}

// LivePosition is the latest known point of an employee with an active session.
type LivePosition struct {
	EmployeeID string
	Name       string
	Role       string
	Department string
	SessionID  int64
	Latitude   float64
	Longitude  float64
	Status     string
	RecordedAt time.Time
}
