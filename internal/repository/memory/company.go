package memory

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/company"
)

type companyRepo struct{ s *Store }

func (r companyRepo) Create(ctx context.Context, c company.Company) (company.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.companies {
		if existing.Name == c.Name {
			return company.Company{}, company.ErrCompanyNameTaken
		}
	}
	c.ID = r.s.nextID()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	r.s.companies[c.ID] = c
	return c, nil
}

func (r companyRepo) GetByID(ctx context.Context, id int64) (company.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.companies[id]
	if !ok {
		return company.Company{}, company.ErrCompanyNotFound
	}
	return c, nil
}

func (r companyRepo) List(ctx context.Context) ([]company.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]company.Company, 0, len(r.s.companies))
	for _, id := range sortedIDs(r.s.companies) {
		out = append(out, r.s.companies[id])
	}
	return out, nil
}

func (r companyRepo) Update(ctx context.Context, c company.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.companies[c.ID]
	if !ok {
		return company.ErrCompanyNotFound
	}
	for id, other := range r.s.companies {
		if id != c.ID && other.Name == c.Name {
			return company.ErrCompanyNameTaken
		}
	}
	existing.Name = c.Name
	existing.Status = c.Status
	existing.UpdatedAt = time.Now()
	r.s.companies[c.ID] = existing
	return nil
}

func (r companyRepo) SoftDelete(ctx context.Context, id int64, deletedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.companies[id]
	if !ok || c.DeletedAt != nil {
		return company.ErrCompanyNotFound
	}
	c.Status = company.StatusDeleted
	c.DeletedAt = &deletedAt
	c.UpdatedAt = deletedAt
	r.s.companies[id] = c
	return nil
}

func (r companyRepo) UpdateGeofence(ctx context.Context, id int64, geofence company.Geofence) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.companies[id]
	if !ok {
		return company.ErrCompanyNotFound
	}
	c.Geofence = geofence
	r.s.companies[id] = c
	return nil
}

func (r companyRepo) UpdateSchedule(ctx context.Context, id int64, schedule company.Schedule) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.companies[id]
	if !ok {
		return company.ErrCompanyNotFound
	}
	c.Schedule = schedule
	r.s.companies[id] = c
	return nil
}

type companyAdminRepo struct{ s *Store }

func (r companyAdminRepo) Create(ctx context.Context, a company.CompanyAdmin) (company.CompanyAdmin, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.admins {
		if existing.Username == a.Username {
			return company.CompanyAdmin{}, company.ErrAdminUsernameTaken
		}
	}
	a.ID = r.s.nextID()
	a.CreatedAt = time.Now()
	r.s.admins[a.ID] = a
	return a, nil
}

func (r companyAdminRepo) GetByUsername(ctx context.Context, username string) (company.CompanyAdmin, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.admins {
		if a.Username == username {
			return a, nil
		}
	}
	return company.CompanyAdmin{}, company.ErrAdminNotFound
}
