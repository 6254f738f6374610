package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/attendance"
)

const RetentionSweepJob = "attendance_retention_sweep"

// Purger deletes attendance entries that fell out of the retention window.
type Purger interface {
	PurgeExpiredEntries(ctx context.Context) (int64, error)
}

type AttendanceJobs struct {
	purger   Purger
	interval time.Duration
}

// NewAttendanceJobs wires the retention sweep. attendance.AttendanceService
// satisfies Purger.
func NewAttendanceJobs(purger Purger, interval time.Duration) *AttendanceJobs {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &AttendanceJobs{purger: purger, interval: interval}
}

var _ Purger = (attendance.AttendanceService)(nil)

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(Job{
		Name:     RetentionSweepJob,
		Interval: j.interval,
		Fn:       j.SweepExpiredEntries,
	})
}

// SweepExpiredEntries removes entries dated before the retention cutoff.
func (j *AttendanceJobs) SweepExpiredEntries(ctx context.Context) error {
	slog.Info("Cron: Starting attendance retention sweep")

	deleted, err := j.purger.PurgeExpiredEntries(ctx)
	if err != nil {
		return fmt.Errorf("failed to purge expired attendance entries: %w", err)
	}

	slog.Info("Cron: Attendance retention sweep finished", "deleted", deleted)
	return nil
}
