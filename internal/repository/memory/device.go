package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/device"
)

type deviceRepo struct{ s *Store }

func (r deviceRepo) Create(ctx context.Context, d device.HardwareDevice) (device.HardwareDevice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.devices {
		if existing.DeviceUID == d.DeviceUID {
			return device.HardwareDevice{}, device.ErrDeviceUIDTaken
		}
	}
	d.ID = r.s.nextID()
	d.CreatedAt = time.Now()
	r.s.devices[d.ID] = d
	return d, nil
}

func (r deviceRepo) GetByUID(ctx context.Context, deviceUID string) (device.HardwareDevice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, d := range r.s.devices {
		if d.DeviceUID == deviceUID {
			return d, nil
		}
	}
	return device.HardwareDevice{}, device.ErrDeviceNotFound
}

func (r deviceRepo) ListByCompany(ctx context.Context, companyID int64) ([]device.HardwareDevice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]device.HardwareDevice, 0)
	for _, id := range sortedIDs(r.s.devices) {
		if d := r.s.devices[id]; d.CompanyID == companyID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r deviceRepo) ListAll(ctx context.Context) ([]device.HardwareDevice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]device.HardwareDevice, 0, len(r.s.devices))
	for _, id := range sortedIDs(r.s.devices) {
		out = append(out, r.s.devices[id])
	}
	return out, nil
}

func (r deviceRepo) UpdateType(ctx context.Context, id int64, deviceType string) (device.HardwareDevice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.devices[id]
	if !ok {
		return device.HardwareDevice{}, device.ErrDeviceNotFound
	}
	d.DeviceType = deviceType
	r.s.devices[id] = d
	return d, nil
}

func (r deviceRepo) DeactivateByCompany(ctx context.Context, companyID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, d := range r.s.devices {
		if d.CompanyID == companyID {
			d.Active = false
			r.s.devices[id] = d
			n++
		}
	}
	return n, nil
}

type doorEventRepo struct{ s *Store }

func (r doorEventRepo) Create(ctx context.Context, e device.DoorEvent) (device.DoorEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e.ID = r.s.nextID()
	e.CreatedAt = time.Now()
	r.s.doorEvents[e.ID] = e
	return e, nil
}

func (r doorEventRepo) ListByCompany(ctx context.Context, companyID int64, limit int) ([]device.DoorEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]device.DoorEvent, 0)
	for _, id := range sortedIDs(r.s.doorEvents) {
		if e := r.s.doorEvents[id]; e.CompanyID == companyID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return limitSlice(out, limit), nil
}
