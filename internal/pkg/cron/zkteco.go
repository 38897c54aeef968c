package cron

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/device"
)

const ZKTecoSyncJob = "zkteco_punch_sync"

type DeviceJobs struct {
	deviceService device.DeviceService
	syncInterval  time.Duration
}

func NewDeviceJobs(deviceService device.DeviceService, syncInterval time.Duration) *DeviceJobs {
	return &DeviceJobs{
		deviceService: deviceService,
		syncInterval:  syncInterval,
	}
}

// RegisterJobs adds the cloud punch sync when an interval is configured.
func (j *DeviceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(ZKTecoSyncJob, j.syncInterval, j.SyncPunches)
}

func (j *DeviceJobs) SyncPunches(ctx context.Context) error {
	_, err := j.deviceService.SyncZKTeco(ctx)
	return err
}
