package tracking

import (
	"context"
	"time"
)

type SessionRepository interface {
	// CloseActive ends every active session of the employee and returns how many were closed.
	CloseActive(ctx context.Context, employeeRowID int64, at time.Time) (int64, error)
	Create(ctx context.Context, session Session) (Session, error)
	GetByID(ctx context.Context, id int64) (Session, error)
}

// LocationRepository is append-only.
type LocationRepository interface {
	Append(ctx context.Context, log LocationLog) (LocationLog, error)
	// LatestForCompany returns the newest point per employee with an active session whose role
	// contains roleFilter, case-insensitively.
	LatestForCompany(ctx context.Context, companyID int64, roleFilter string) ([]LivePosition, error)
}
