// Package memory keeps every repository in process memory behind one mutex.
// It enforces the same unique keys as schema.sql and backs service and handler tests.
package memory

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/company"
	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/device"
	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/tracking"
)

type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex
	seq  int64

	superAdmins map[int64]auth.SuperAdminAccount
	companies   map[int64]company.Company
	admins      map[int64]company.CompanyAdmin
	employees   map[int64]employee.Employee
	attendance  map[int64]attendance.Attendance
	shortLeaves map[int64]attendance.ShortLeave
	devices     map[int64]device.HardwareDevice
	doorEvents  map[int64]device.DoorEvent
	sessions    map[int64]tracking.Session
	locations   map[int64]tracking.LocationLog
}

func NewStore() *Store {
	return &Store{
		superAdmins: make(map[int64]auth.SuperAdminAccount),
		companies:   make(map[int64]company.Company),
		admins:      make(map[int64]company.CompanyAdmin),
		employees:   make(map[int64]employee.Employee),
		attendance:  make(map[int64]attendance.Attendance),
		shortLeaves: make(map[int64]attendance.ShortLeave),
		devices:     make(map[int64]device.HardwareDevice),
		doorEvents:  make(map[int64]device.DoorEvent),
		sessions:    make(map[int64]tracking.Session),
		locations:   make(map[int64]tracking.LocationLog),
	}
}

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

type txKey struct{}

type snapshot struct {
	superAdmins map[int64]auth.SuperAdminAccount
	companies   map[int64]company.Company
	admins      map[int64]company.CompanyAdmin
	employees   map[int64]employee.Employee
	attendance  map[int64]attendance.Attendance
	shortLeaves map[int64]attendance.ShortLeave
	devices     map[int64]device.HardwareDevice
	doorEvents  map[int64]device.DoorEvent
	sessions    map[int64]tracking.Session
	locations   map[int64]tracking.LocationLog
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot{
		superAdmins: maps.Clone(s.superAdmins),
		companies:   maps.Clone(s.companies),
		admins:      maps.Clone(s.admins),
		employees:   maps.Clone(s.employees),
		attendance:  maps.Clone(s.attendance),
		shortLeaves: maps.Clone(s.shortLeaves),
		devices:     maps.Clone(s.devices),
		doorEvents:  maps.Clone(s.doorEvents),
		sessions:    maps.Clone(s.sessions),
		locations:   maps.Clone(s.locations),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.superAdmins = snap.superAdmins
	s.companies = snap.companies
	s.admins = snap.admins
	s.employees = snap.employees
	s.attendance = snap.attendance
	s.shortLeaves = snap.shortLeaves
	s.devices = snap.devices
	s.doorEvents = snap.doorEvents
	s.sessions = snap.sessions
	s.locations = snap.locations
}

// WithinTransaction implements database.Transactor. Transactions run one at a time and
// every map is restored when fn returns an error. IDs handed out inside a rolled back
// transaction are not reused. Nested calls join the outer transaction.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(bool); ok {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (s *Store) SuperAdmins() auth.SuperAdminRepository        { return superAdminRepo{s} }
func (s *Store) Companies() company.CompanyRepository          { return companyRepo{s} }
func (s *Store) CompanyAdmins() company.CompanyAdminRepository { return companyAdminRepo{s} }
func (s *Store) Employees() employee.EmployeeRepository        { return employeeRepo{s} }
func (s *Store) Attendance() attendance.AttendanceRepository   { return attendanceRepo{s} }
func (s *Store) ShortLeaves() attendance.ShortLeaveRepository  { return shortLeaveRepo{s} }
func (s *Store) Devices() device.DeviceRepository              { return deviceRepo{s} }
func (s *Store) DoorEvents() device.DoorEventRepository        { return doorEventRepo{s} }
func (s *Store) Sessions() tracking.SessionRepository          { return sessionRepo{s} }
func (s *Store) Locations() tracking.LocationRepository        { return locationRepo{s} }

// DoorEventCount returns the number of stored door events.
func (s *Store) DoorEventCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.doorEvents)
}

// AttendanceCount returns the number of stored attendance rows.
func (s *Store) AttendanceCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.attendance)
}

// sortedIDs returns the keys of m in insertion order.
func sortedIDs[T any](m map[int64]T) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func limitSlice[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

// superAdminRepo

type superAdminRepo struct{ s *Store }

func (r superAdminRepo) GetByUsername(ctx context.Context, username string) (auth.SuperAdminAccount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.superAdmins {
		if a.Username == username {
			return a, nil
		}
	}
	return auth.SuperAdminAccount{}, auth.ErrInvalidCredentials
}

func (r superAdminRepo) Create(ctx context.Context, account auth.SuperAdminAccount) (auth.SuperAdminAccount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.superAdmins {
		if a.Username == account.Username {
			return auth.SuperAdminAccount{}, fmt.Errorf("super admin %q already exists", account.Username)
		}
	}
	account.ID = r.s.nextID()
	account.CreatedAt = time.Now()
	r.s.superAdmins[account.ID] = account
	return account, nil
}

func (r superAdminRepo) Count(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.superAdmins)), nil
}
