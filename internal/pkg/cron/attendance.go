package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hrm-suite/hrm-backend-go/internal/domain/attendance"
)

type AttendanceJobs struct {
	attendanceSvc attendance.AttendanceService
	policy        attendance.Policy
	now           func() time.Time

	mu     sync.Mutex
	marked time.Time
}

func NewAttendanceJobs(attendanceSvc attendance.AttendanceService, policy attendance.Policy, now func() time.Time) *AttendanceJobs {
	if now == nil {
		now = time.Now
	}
	return &AttendanceJobs{attendanceSvc: attendanceSvc, policy: policy, now: now}
}

// RegisterJobs adds the jobs to scheduler. A zero interval means hourly.
func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	scheduler.AddJob("mark_absent_employees", interval, j.MarkAbsentEmployees)
}

// MarkAbsentEmployees records an empty attendance row for every active employee without
// one today. It waits until an hour after the organisation work end so late check-outs
// are not raced, and runs once per day.
func (j *AttendanceJobs) MarkAbsentEmployees(ctx context.Context) error {
	now := j.now()
	if now.Before(j.policy.WorkEndOn(now).Add(time.Hour)) {
		return nil
	}

	day := j.policy.DateOf(now)

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.marked.Equal(day) {
		return nil
	}

	count, err := j.attendanceSvc.MarkAbsent(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to mark absent employees for %s: %w", day.Format("2006-01-02"), err)
	}
	j.marked = day

	if count > 0 {
		slog.Info("cron: employees marked absent", "date", day.Format("2006-01-02"), "count", count)
	}
	return nil
}
