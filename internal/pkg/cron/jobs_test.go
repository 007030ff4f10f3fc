package cron

import (
	"context"
	"testing"
	"time"

	"github.com/hrm-suite/hrm-backend-go/internal/domain/attendance"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/payroll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jakarta = time.FixedZone("WIB", 7*60*60)

func testPolicy() attendance.Policy {
	p := attendance.DefaultPolicy()
	p.Location = jakarta
	return p
}

type recordingPayrollService struct {
	payroll.PayrollService
	requests []payroll.GeneratePayrollRequest
}

func (s *recordingPayrollService) GeneratePayroll(ctx context.Context, req payroll.GeneratePayrollRequest) (payroll.GeneratePayrollResponse, error) {
	s.requests = append(s.requests, req)
	return payroll.GeneratePayrollResponse{PeriodMonth: req.PeriodMonth, PeriodYear: req.PeriodYear}, nil
}

type recordingAttendanceService struct {
	attendance.AttendanceService
	dates []time.Time
}

func (s *recordingAttendanceService) MarkAbsent(ctx context.Context, date time.Time) (int, error) {
	s.dates = append(s.dates, date)
	return 1, nil
}

func TestGenerateMonthlyPayroll(t *testing.T) {
	ctx := context.Background()
	svc := &recordingPayrollService{}
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, jakarta)
	jobs := NewPayrollJobs(svc, testPolicy(), func() time.Time { return now })

	require.NoError(t, jobs.GenerateMonthlyPayroll(ctx))
	assert.Empty(t, svc.requests, "only the first of the month generates")

	// 1 Jan 00:30 in Jakarta is still 31 Dec in UTC.
	now = time.Date(2024, 1, 1, 0, 30, 0, 0, jakarta)
	require.NoError(t, jobs.GenerateMonthlyPayroll(ctx))
	require.Len(t, svc.requests, 1)
	assert.Equal(t, 12, svc.requests[0].PeriodMonth)
	assert.Equal(t, 2023, svc.requests[0].PeriodYear)
	assert.Empty(t, svc.requests[0].EmployeeIDs)

	now = now.Add(time.Hour)
	require.NoError(t, jobs.GenerateMonthlyPayroll(ctx))
	assert.Len(t, svc.requests, 1, "one run per period")

	now = time.Date(2024, 2, 1, 9, 0, 0, 0, jakarta)
	require.NoError(t, jobs.GenerateMonthlyPayroll(ctx))
	require.Len(t, svc.requests, 2)
	assert.Equal(t, 1, svc.requests[1].PeriodMonth)
}

func TestMarkAbsentEmployees(t *testing.T) {
	ctx := context.Background()
	svc := &recordingAttendanceService{}
	now := time.Date(2024, 6, 3, 17, 30, 0, 0, jakarta)
	jobs := NewAttendanceJobs(svc, testPolicy(), func() time.Time { return now })

	require.NoError(t, jobs.MarkAbsentEmployees(ctx))
	assert.Empty(t, svc.dates, "waits an hour past work end")

	now = time.Date(2024, 6, 3, 18, 0, 0, 0, jakarta)
	require.NoError(t, jobs.MarkAbsentEmployees(ctx))
	require.Len(t, svc.dates, 1)

	now = time.Date(2024, 6, 3, 19, 0, 0, 0, jakarta)
	require.NoError(t, jobs.MarkAbsentEmployees(ctx))
	assert.Len(t, svc.dates, 1, "once per day")

	now = time.Date(2024, 6, 4, 18, 5, 0, 0, jakarta)
	require.NoError(t, jobs.MarkAbsentEmployees(ctx))
	assert.Len(t, svc.dates, 2)
}

func TestJobsRegister(t *testing.T) {
	s := NewScheduler(nil)
	NewPayrollJobs(&recordingPayrollService{}, testPolicy(), nil).RegisterJobs(s, 0)
	NewAttendanceJobs(&recordingAttendanceService{}, testPolicy(), nil).RegisterJobs(s, 0)

	jobs := s.Jobs()
	require.Len(t, jobs, 2)
	assert.Equal(t, "generate_monthly_payroll", jobs[0].Name)
	assert.Equal(t, "mark_absent_employees", jobs[1].Name)
	assert.Equal(t, time.Hour, jobs[0].Interval)
}
