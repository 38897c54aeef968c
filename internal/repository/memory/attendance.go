package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/attendance"
)

type attendanceRepo struct{ s *Store }

func (r attendanceRepo) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.attendance {
		if existing.CompanyID == a.CompanyID && existing.EmployeeID == a.EmployeeID && existing.DateOnly.Equal(a.DateOnly) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
	}
	a.ID = r.s.nextID()
	r.s.attendance[a.ID] = a
	return a, nil
}

func (r attendanceRepo) GetByEmployeeAndDate(ctx context.Context, companyID int64, employeeID string, date time.Time) (attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.attendance {
		if a.CompanyID == companyID && a.EmployeeID == employeeID && a.DateOnly.Equal(date) {
			return a, nil
		}
	}
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

func (r attendanceRepo) update(id int64, fn func(a *attendance.Attendance)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.attendance[id]
	if !ok {
		return attendance.ErrAttendanceNotFound
	}
	fn(&a)
	r.s.attendance[id] = a
	return nil
}

func (r attendanceRepo) SetDoorUnlock(ctx context.Context, id int64, unlockedAt time.Time, checkOutEnabledAt *time.Time) error {
	return r.update(id, func(a *attendance.Attendance) {
		a.DoorUnlockTime = &unlockedAt
		a.CheckOutEnabledTime = checkOutEnabledAt
	})
}

func (r attendanceRepo) SetCheckOut(ctx context.Context, id int64, at time.Time, emergency bool, reason *string) error {
	return r.update(id, func(a *attendance.Attendance) {
		a.CheckOutTime = &at
		a.Type = attendance.TypeCheckOut
		a.IsEmergencyCheckout = emergency
		a.EmergencyCheckoutReason = reason
	})
}

func (r attendanceRepo) MoveCheckOut(ctx context.Context, id int64, at time.Time) error {
	return r.update(id, func(a *attendance.Attendance) {
		a.CheckOutTime = &at
		a.Type = attendance.TypeCheckOut
	})
}

func (r attendanceRepo) SetLateReason(ctx context.Context, id int64, reason string) error {
	return r.update(id, func(a *attendance.Attendance) {
		a.LateReason = &reason
	})
}

func (r attendanceRepo) ListByEmployee(ctx context.Context, companyID int64, employeeID string, since *time.Time, limit int) ([]attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]attendance.Attendance, 0)
	for _, a := range r.s.attendance {
		if a.CompanyID != companyID || a.EmployeeID != employeeID {
			continue
		}
		if since != nil && a.DateOnly.Before(*since) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateOnly.After(out[j].DateOnly) })
	return limitSlice(out, limit), nil
}

func (r attendanceRepo) ListByCompany(ctx context.Context, companyID int64, limit int) ([]attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]attendance.Attendance, 0)
	for _, a := range r.s.attendance {
		if a.CompanyID == companyID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return limitSlice(out, limit), nil
}

func (r attendanceRepo) CountForDate(ctx context.Context, companyID int64, date time.Time) (attendance.DailyCounts, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := attendance.DailyCounts{ByStatus: make(map[attendance.Status]int)}
	for _, a := range r.s.attendance {
		if a.CompanyID != companyID || !a.DateOnly.Equal(date) {
			continue
		}
		counts.ByStatus[a.Status]++
		if a.IsCheckedOut() {
			counts.CheckedOut++
		}
	}
	return counts, nil
}

type shortLeaveRepo struct{ s *Store }

func (r shortLeaveRepo) Create(ctx context.Context, leave attendance.ShortLeave) (attendance.ShortLeave, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.shortLeaves {
		if l.CompanyID == leave.CompanyID && l.EmployeeID == leave.EmployeeID && l.DateOnly.Equal(leave.DateOnly) && l.IsOpen() {
			return attendance.ShortLeave{}, attendance.ErrShortLeaveAlreadyOpen
		}
	}
	leave.ID = r.s.nextID()
	r.s.shortLeaves[leave.ID] = leave
	return leave, nil
}

func (r shortLeaveRepo) GetOpen(ctx context.Context, companyID int64, employeeID string, date time.Time) (attendance.ShortLeave, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.shortLeaves {
		if l.CompanyID == companyID && l.EmployeeID == employeeID && l.DateOnly.Equal(date) && l.IsOpen() {
			return l, nil
		}
	}
	return attendance.ShortLeave{}, attendance.ErrNoOpenShortLeave
}

func (r shortLeaveRepo) Close(ctx context.Context, id int64, returnTime time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.shortLeaves[id]
	if !ok || !l.IsOpen() {
		return attendance.ErrNoOpenShortLeave
	}
	l.ReturnTime = &returnTime
	r.s.shortLeaves[id] = l
	return nil
}

func (r shortLeaveRepo) ListByCompany(ctx context.Context, companyID int64, limit int) ([]attendance.ShortLeave, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]attendance.ShortLeave, 0)
	for _, l := range r.s.shortLeaves {
		if l.CompanyID == companyID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExitTime.After(out[j].ExitTime) })
	return limitSlice(out, limit), nil
}

func (r shortLeaveRepo) CountOpen(ctx context.Context, companyID int64, date time.Time) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, l := range r.s.shortLeaves {
		if l.CompanyID == companyID && l.DateOnly.Equal(date) && l.IsOpen() {
			n++
		}
	}
	return n, nil
}
