package tracking

import (
	"time"

	"github.com/cmlabs-hris/attendance-saas-go/internal/pkg/validator"
)

type StartSessionRequest struct {
	Department string `json:"department" validate:"required,max=100"`
}

func (r *StartSessionRequest) Validate() error {
	return validator.Struct(r)
}

type LocationUpdateRequest struct {
	SessionID int64   `json:"session_id" validate:"required,gt=0"`
	Latitude  float64 `json:"lat" validate:"latitude"`
	Longitude float64 `json:"lng" validate:"longitude"`
	Status    string  `json:"status" validate:"max=64"`
}

func (r *LocationUpdateRequest) Validate() error {
	return validator.Struct(r)
}

type SessionResponse struct {
	SessionID  int64   `json:"session_id"`
	Department string  `json:"department"`
	StartTime  string  `json:"start_time"`
	EndTime    *string `json:"end_time,omitempty"`
	Active     bool    `json:"active"`
}

func NewSessionResponse(s Session) SessionResponse {
	resp := SessionResponse{
		SessionID:  s.ID,
		Department: s.Department,
		StartTime:  s.StartTime.Format(time.RFC3339),
		Active:     s.Active,
	}
	if s.EndTime != nil {
		v := s.EndTime.Format(time.RFC3339)
		resp.EndTime = &v
	}
	return resp
}

type LivePositionResponse struct {
	EmployeeID string  `json:"employee_id"`
	Name       string  `json:"name"`
	Role       string  `json:"role"`
	Department string  `json:"department"`
	SessionID  int64   `json:"session_id"`
	Latitude   float64 `json:"lat"`
	Longitude  float64 `json:"lng"`
	Status     string  `json:"status"`
	RecordedAt string  `json:"recorded_at"`
}

func NewLivePositionResponse(p LivePosition) LivePositionResponse {
	return LivePositionResponse{
		EmployeeID: p.EmployeeID,
		Name:       p.Name,
		Role:       p.Role,
		Department: p.Department,
		SessionID:  p.SessionID,
		Latitude:   p.Latitude,
		Longitude:  p.Longitude,
		Status:     p.Status,
		RecordedAt: p.RecordedAt.Format(time.RFC3339),
	}
}

// LiveEvent is one message of the admin live feed.
type LiveEvent struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}
