package payroll

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/hrm-suite/hrm-backend-go/internal/domain/attendance"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/employee"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/payroll"
	"github.com/hrm-suite/hrm-backend-go/internal/pkg/validator"
	"github.com/hrm-suite/hrm-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jakarta = time.FixedZone("WIB", 7*60*60)

type fixture struct {
	svc         payroll.PayrollService
	payrolls    *memory.PayrollRepository
	attendances *memory.AttendanceRepository
}

func newFixture(t *testing.T, employees ...employee.Employee) fixture {
	t.Helper()
	policy := attendance.DefaultPolicy()
	policy.Location = jakarta
	policy.OvertimeRatePerHour = d("50000")

	f := fixture{
		payrolls:    memory.NewPayrollRepository(),
		attendances: memory.NewAttendanceRepository(),
	}
	f.svc = NewPayrollService(f.payrolls, memory.NewEmployeeRepository(employees...), f.attendances, policy)
	return f
}

func testEmployee(id string, salary string) employee.Employee {
	return employee.Employee{
		ID:           id,
		EmployeeCode: "EMP-" + id,
		FullName:     "Employee " + id,
		Email:        id + "@example.com",
		BaseSalary:   d(salary),
	}
}

func TestPayrollService_CreatePayroll(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, testEmployee("e1", "10000000"))

	base := d("10000000")
	overtime := d("50000")
	req := payroll.CreatePayrollRequest{
		EmployeeID:  "e1",
		PeriodMonth: 6,
		PeriodYear:  2024,
		PayrollFields: payroll.PayrollFields{
			BaseSalary:     &base,
			Allowances:     ptr(items("500000")),
			Bonuses:        ptr(items("200000")),
			Deductions:     ptr(items("100000")),
			OvertimeAmount: &overtime,
		},
	}

	created, err := f.svc.CreatePayroll(ctx, req)
	require.NoError(t, err)
	assert.True(t, d("10650000").Equal(created.TotalAmount), "got %s", created.TotalAmount)

	_, err = f.svc.CreatePayroll(ctx, req)
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordAlreadyExists)

	req.EmployeeID = "ghost"
	_, err = f.svc.CreatePayroll(ctx, req)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestPayrollService_CreatePayrollRequiresBaseSalary(t *testing.T) {
	f := newFixture(t, testEmployee("e1", "1"))

	_, err := f.svc.CreatePayroll(context.Background(), payroll.CreatePayrollRequest{EmployeeID: "e1", PeriodMonth: 6, PeriodYear: 2024})
	assert.Error(t, err)
}

func TestPayrollService_RejectsAmountsBeyondStoredPrecision(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, testEmployee("e1", "1"))

	base := d("1000.005")
	_, err := f.svc.CreatePayroll(ctx, payroll.CreatePayrollRequest{
		EmployeeID:    "e1",
		PeriodMonth:   6,
		PeriodYear:    2024,
		PayrollFields: payroll.PayrollFields{BaseSalary: &base, Allowances: ptr(items("0.125")), LeaveDays: ptr(2.25)},
	})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := verrs.ToMap()
	assert.Contains(t, fields, "base_salary")
	assert.Contains(t, fields, "allowances[0].amount")
	assert.Contains(t, fields, "leave_days")

	base = d("1000.50")
	created, err := f.svc.CreatePayroll(ctx, payroll.CreatePayrollRequest{
		EmployeeID:    "e1",
		PeriodMonth:   6,
		PeriodYear:    2024,
		PayrollFields: payroll.PayrollFields{BaseSalary: &base, Allowances: ptr(items("0.25")), LeaveDays: ptr(2.5)},
	})
	require.NoError(t, err)
	assert.True(t, d("1000.75").Equal(created.TotalAmount), "got %s", created.TotalAmount)
}

func TestPayrollService_UpsertRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, testEmployee("e1", "1"))

	base := d("9000000.10")
	first, err := f.svc.UpsertPayroll(ctx, payroll.UpsertPayrollRequest{
		EmployeeID:    "e1",
		PeriodMonth:   6,
		PeriodYear:    2024,
		PayrollFields: payroll.PayrollFields{BaseSalary: &base, Allowances: ptr(items("0.20"))},
	})
	require.NoError(t, err)
	assert.True(t, first.Created)

	second, err := f.svc.UpsertPayroll(ctx, payroll.UpsertPayrollRequest{
		EmployeeID:    "e1",
		PeriodMonth:   6,
		PeriodYear:    2024,
		PayrollFields: payroll.PayrollFields{Deductions: ptr(items("0.05"))},
	})
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.Record.ID, second.Record.ID)

	stored, err := f.payrolls.GetByEmployeePeriod(ctx, "e1", 6, 2024)
	require.NoError(t, err)
	want := ComputeTotal(stored.BaseSalary, stored.Allowances, stored.Bonuses, stored.Deductions, stored.OvertimeAmount)
	assert.True(t, want.Equal(stored.TotalAmount))
	assert.Equal(t, "9000000.25", stored.TotalAmount.StringFixed(2))
}

func TestPayrollService_ConcurrentUpsertCreatesOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, testEmployee("E", "1"))

	const callers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		ids     = make(map[string]bool)
	)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			base := d("5000000")
			resp, err := f.svc.UpsertPayroll(ctx, payroll.UpsertPayrollRequest{
				EmployeeID:    "E",
				PeriodMonth:   6,
				PeriodYear:    2024,
				PayrollFields: payroll.PayrollFields{BaseSalary: &base},
			})
			if !assert.NoError(t, err) {
				return
			}

			mu.Lock()
			defer mu.Unlock()
			if resp.Created {
				created++
			}
			ids[resp.Record.ID] = true
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Len(t, ids, 1)

	records, total, err := f.payrolls.List(ctx, payroll.PayrollFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, records, 1)
}

func TestPayrollService_UpdateAndDeletePaid(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, testEmployee("e1", "1"))

	base := d("100")
	created, err := f.svc.CreatePayroll(ctx, payroll.CreatePayrollRequest{
		EmployeeID: "e1", PeriodMonth: 6, PeriodYear: 2024,
		PayrollFields: payroll.PayrollFields{BaseSalary: &base},
	})
	require.NoError(t, err)

	paid := payroll.PayrollStatusPaid
	updated, err := f.svc.UpdatePayroll(ctx, payroll.UpdatePayrollRequest{
		ID:            created.ID,
		PayrollFields: payroll.PayrollFields{Status: &paid, Bonuses: ptr(items("20"))},
	})
	require.NoError(t, err)
	assert.Equal(t, "paid", updated.Status)
	assert.True(t, d("120").Equal(updated.TotalAmount))

	newBase := d("500")
	_, err = f.svc.UpdatePayroll(ctx, payroll.UpdatePayrollRequest{
		ID:            created.ID,
		PayrollFields: payroll.PayrollFields{BaseSalary: &newBase},
	})
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordAlreadyPaid)

	assert.ErrorIs(t, f.svc.DeletePayroll(ctx, created.ID), payroll.ErrCannotDeletePaidRecord)
	assert.ErrorIs(t, f.svc.DeletePayroll(ctx, "missing"), payroll.ErrPayrollRecordNotFound)
}

// interleavingRepo starts another write while UpdateByID holds the record.
type interleavingRepo struct {
	*memory.PayrollRepository
	during func()
}

func (r *interleavingRepo) UpdateByID(ctx context.Context, id string, merge payroll.MergeFunc) (payroll.PayrollRecord, error) {
	return r.PayrollRepository.UpdateByID(ctx, id, func(existing *payroll.PayrollRecord) (payroll.PayrollRecord, error) {
		r.during()
		return merge(existing)
	})
}

func TestPayrollService_UpdateDoesNotLoseConcurrentUpsert(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, testEmployee("e1", "1"))

	base := d("1000")
	created, err := f.svc.CreatePayroll(ctx, payroll.CreatePayrollRequest{
		EmployeeID: "e1", PeriodMonth: 6, PeriodYear: 2024,
		PayrollFields: payroll.PayrollFields{BaseSalary: &base},
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	repo := &interleavingRepo{PayrollRepository: f.payrolls}
	repo.during = func() {
		repo.during = func() {}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.UpsertPayroll(ctx, payroll.UpsertPayrollRequest{
				EmployeeID: "e1", PeriodMonth: 6, PeriodYear: 2024,
				PayrollFields: payroll.PayrollFields{Allowances: ptr(items("500"))},
			})
			assert.NoError(t, err)
		}()
		// Give the upsert a chance to reach the record before this merge returns.
		time.Sleep(20 * time.Millisecond)
	}

	policy := attendance.DefaultPolicy()
	svc := NewPayrollService(repo, memory.NewEmployeeRepository(testEmployee("e1", "1")), f.attendances, policy)
	_, err = svc.UpdatePayroll(ctx, payroll.UpdatePayrollRequest{
		ID:            created.ID,
		PayrollFields: payroll.PayrollFields{Bonuses: ptr(items("200"))},
	})
	require.NoError(t, err)
	wg.Wait()

	final, err := f.svc.GetPayroll(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, final.Allowances, 1)
	require.Len(t, final.Bonuses, 1)
	assert.True(t, d("1700").Equal(final.TotalAmount), final.TotalAmount.String())
}

func TestPayrollService_DeleteChecksLockedRecord(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, testEmployee("e1", "1"))

	base := d("100")
	created, err := f.svc.CreatePayroll(ctx, payroll.CreatePayrollRequest{
		EmployeeID: "e1", PeriodMonth: 7, PeriodYear: 2024,
		PayrollFields: payroll.PayrollFields{BaseSalary: &base},
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeletePayroll(ctx, created.ID))
	_, err = f.svc.GetPayroll(ctx, created.ID)
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordNotFound)
}

func TestPayrollService_ListByEmployeeAndLatest(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, testEmployee("e1", "1"), testEmployee("e2", "1"))

	base := d("100")
	periods := []struct {
		emp         string
		month, year int
	}{
		{"e1", 5, 2024}, {"e1", 6, 2024}, {"e1", 1, 2025}, {"e2", 6, 2024},
	}
	for _, p := range periods {
		_, err := f.svc.CreatePayroll(ctx, payroll.CreatePayrollRequest{
			EmployeeID: p.emp, PeriodMonth: p.month, PeriodYear: p.year,
			PayrollFields: payroll.PayrollFields{BaseSalary: &base},
		})
		require.NoError(t, err)
	}

	all, err := f.svc.ListByEmployee(ctx, "e1", nil, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 2025, all[0].PeriodYear)

	year := 2024
	only2024, err := f.svc.ListByEmployee(ctx, "e1", nil, &year)
	require.NoError(t, err)
	assert.Len(t, only2024, 2)

	latest, err := f.svc.GetLatestByEmployee(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, 1, latest.PeriodMonth)
	assert.Equal(t, 2025, latest.PeriodYear)

	list, err := f.svc.ListPayrolls(ctx, payroll.PayrollFilter{PeriodMonth: ptr(6)})
	require.NoError(t, err)
	assert.Equal(t, int64(2), list.TotalCount)
	assert.Equal(t, 20, list.Limit)
}

func TestPayrollService_GeneratePayroll(t *testing.T) {
	ctx := context.Background()
	withBank := testEmployee("e1", "10000000")
	withBank.BankName = ptr("BCA")
	withBank.BankAccountNumber = ptr("123456")
	f := newFixture(t, withBank, testEmployee("e2", "0"))

	day := func(d int, h, m int) *time.Time {
		ts := time.Date(2024, 6, d, h, m, 0, 0, jakarta)
		return &ts
	}
	date := func(d int) time.Time { return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC) }

	seed := []attendance.Attendance{
		{EmployeeID: "e1", Date: date(3), CheckIn: day(3, 8, 0), CheckOut: day(3, 18, 30), OvertimeHours: ptr(1.5)},
		{EmployeeID: "e1", Date: date(4), CheckIn: day(4, 8, 0), CheckOut: day(4, 17, 0), OvertimeHours: ptr(0.0)},
		{EmployeeID: "e1", Date: date(5), IsLeave: true, LeaveType: ptr("sick")},
	}
	for _, rec := range seed {
		_, err := f.attendances.Create(ctx, rec)
		require.NoError(t, err)
	}

	resp, err := f.svc.GeneratePayroll(ctx, payroll.GeneratePayrollRequest{PeriodMonth: 6, PeriodYear: 2024})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Created)
	assert.Zero(t, resp.Updated)
	require.Len(t, resp.Skipped, 1)
	assert.Equal(t, "e2", resp.Skipped[0].EmployeeID)

	require.Len(t, resp.Records, 1)
	rec := resp.Records[0]
	assert.Equal(t, 2, rec.WorkingDays)
	assert.Equal(t, 1.0, rec.LeaveDays)
	// June 2024 has 20 weekdays
	assert.Equal(t, 17, rec.AbsentDays)
	assert.Equal(t, 1.5, rec.OvertimeHours)
	assert.True(t, d("75000").Equal(rec.OvertimeAmount))
	assert.True(t, d("10075000").Equal(rec.TotalAmount), "got %s", rec.TotalAmount)
	require.NotNil(t, rec.BankInfo)
	assert.Equal(t, "BCA", rec.BankInfo.BankName)

	again, err := f.svc.GeneratePayroll(ctx, payroll.GeneratePayrollRequest{PeriodMonth: 6, PeriodYear: 2024, EmployeeIDs: []string{"e1", "ghost"}})
	require.NoError(t, err)
	assert.Zero(t, again.Created)
	assert.Equal(t, 1, again.Updated)
	require.Len(t, again.Skipped, 1)
	assert.Equal(t, "ghost", again.Skipped[0].EmployeeID)
}

func TestAbsentDays(t *testing.T) {
	assert.Equal(t, 17, AbsentDays(20, attendance.MonthlySummary{WorkDays: 2, LeaveDays: 1}))
	assert.Equal(t, 0, AbsentDays(20, attendance.MonthlySummary{WorkDays: 22}))
	assert.Equal(t, 1, AbsentDays(20, attendance.MonthlySummary{WorkDays: 18, LeaveDays: 0.5}))
}
