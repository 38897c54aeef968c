package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/tracking"
)

type sessionRepo struct{ s *Store }

func (r sessionRepo) CloseActive(ctx context.Context, employeeRowID int64, at time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, sess := range r.s.sessions {
		if sess.EmployeeID == employeeRowID && sess.Active {
			sess.Active = false
			sess.EndTime = &at
			r.s.sessions[id] = sess
			n++
		}
	}
	return n, nil
}

func (r sessionRepo) Create(ctx context.Context, sess tracking.Session) (tracking.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sess.ID = r.s.nextID()
	r.s.sessions[sess.ID] = sess
	return sess, nil
}

func (r sessionRepo) GetByID(ctx context.Context, id int64) (tracking.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sess, ok := r.s.sessions[id]
	if !ok {
		return tracking.Session{}, tracking.ErrSessionNotFound
	}
	return sess, nil
}

type locationRepo struct{ s *Store }

func (r locationRepo) Append(ctx context.Context, l tracking.LocationLog) (tracking.LocationLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l.ID = r.s.nextID()
	r.s.locations[l.ID] = l
	return l, nil
}

func (r locationRepo) LatestForCompany(ctx context.Context, companyID int64, roleFilter string) ([]tracking.LivePosition, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	latest := make(map[int64]tracking.LocationLog)
	for _, id := range sortedIDs(r.s.locations) {
		l := r.s.locations[id]
		sess, ok := r.s.sessions[l.SessionID]
		if !ok || !sess.Active {
			continue
		}
		prev, seen := latest[sess.EmployeeID]
		if !seen || !l.RecordedAt.Before(prev.RecordedAt) {
			latest[sess.EmployeeID] = l
		}
	}

	out := make([]tracking.LivePosition, 0)
	for _, empRowID := range sortedIDs(latest) {
		e, ok := r.s.employees[empRowID]
		if !ok || e.CompanyID != companyID || e.DeletedAt != nil {
			continue
		}
		if !strings.Contains(strings.ToLower(e.Role), strings.ToLower(roleFilter)) {
			continue
		}
		l := latest[empRowID]
		sess := r.s.sessions[l.SessionID]
		out = append(out, tracking.LivePosition{
			EmployeeID: e.EmployeeID,
			Name:       e.Name,
			Role:       e.Role,
			Department: sess.Department,
			SessionID:  sess.ID,
			Latitude:   l.Latitude,
			Longitude:  l.Longitude,
			Status:     l.Status,
			RecordedAt: l.RecordedAt,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}
