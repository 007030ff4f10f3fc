package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hrm-suite/hrm-backend-go/internal/domain/attendance"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/payroll"
)

type PayrollJobs struct {
	payrollSvc payroll.PayrollService
	policy     attendance.Policy
	now        func() time.Time

	mu        sync.Mutex
	generated attendance.Period
}

func NewPayrollJobs(payrollSvc payroll.PayrollService, policy attendance.Policy, now func() time.Time) *PayrollJobs {
	if now == nil {
		now = time.Now
	}
	return &PayrollJobs{payrollSvc: payrollSvc, policy: policy, now: now}
}

// RegisterJobs adds the jobs to scheduler. A zero interval means hourly.
func (j *PayrollJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	scheduler.AddJob("generate_monthly_payroll", interval, j.GenerateMonthlyPayroll)
}

// GenerateMonthlyPayroll drafts payroll for the previous month. It acts only on the first
// day of a month in the policy location, and once per period per process.
func (j *PayrollJobs) GenerateMonthlyPayroll(ctx context.Context) error {
	today := j.now().In(j.policy.Loc())
	if today.Day() != 1 {
		return nil
	}

	period := attendance.PeriodOf(today).Previous()

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.generated == period {
		return nil
	}

	resp, err := j.payrollSvc.GeneratePayroll(ctx, payroll.GeneratePayrollRequest{
		PeriodMonth: period.Month,
		PeriodYear:  period.Year,
	})
	if err != nil {
		return fmt.Errorf("failed to generate payroll for %04d-%02d: %w", period.Year, period.Month, err)
	}
	j.generated = period

	slog.Info("cron: monthly payroll generated",
		"period", fmt.Sprintf("%04d-%02d", period.Year, period.Month),
		"created", resp.Created,
		"updated", resp.Updated,
		"skipped", len(resp.Skipped),
	)
	return nil
}
