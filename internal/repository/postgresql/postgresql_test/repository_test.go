package postgresql_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hrm-suite/hrm-backend-go/internal/domain/activitylog"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/attendance"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/auth"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/department"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/employee"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/notification"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/payroll"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/user"
	"github.com/hrm-suite/hrm-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedEmployee(t *testing.T, setup *TestDatabaseSetup, code string) employee.Employee {
	t.Helper()
	ctx := context.Background()

	dept, err := postgresql.NewDepartmentRepository(setup.DB).Create(ctx, department.Department{Name: "Dept " + code})
	require.NoError(t, err)

	emp, err := postgresql.NewEmployeeRepository(setup.DB).Create(ctx, employee.Employee{
		DepartmentID: &dept.ID,
		EmployeeCode: code,
		FullName:     "Employee " + code,
		Email:        code + "@example.com",
		HireDate:     time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		BaseSalary:   decimal.RequireFromString("10000000.50"),
	})
	require.NoError(t, err)
	return emp
}

func TestEmployeeAndDepartmentRepositories(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()

	emp := seedEmployee(t, setup, "EMP240001")
	employees := postgresql.NewEmployeeRepository(setup.DB)

	got, err := employees.GetByID(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, "EMP240001", got.EmployeeCode)
	assert.True(t, decimal.RequireFromString("10000000.50").Equal(got.BaseSalary))
	require.NotNil(t, got.DepartmentName)

	_, err = employees.Create(ctx, employee.Employee{EmployeeCode: "EMP240001", FullName: "Dup", Email: "dup@example.com", HireDate: emp.HireDate})
	assert.ErrorIs(t, err, employee.ErrEmployeeCodeExists)

	n, err := employees.CountByCodePrefix(ctx, "EMP24")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	depts := postgresql.NewDepartmentRepository(setup.DB)
	list, err := depts.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(1), list[0].EmployeeCount)

	_, err = depts.Create(ctx, department.Department{Name: list[0].Name})
	assert.ErrorIs(t, err, department.ErrDepartmentNameExists)

	require.NoError(t, employees.Delete(ctx, emp.ID))
	_, err = employees.GetByID(ctx, emp.ID)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestAttendanceRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	emp := seedEmployee(t, setup, "EMP240002")
	repo := postgresql.NewAttendanceRepository(setup.DB)

	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	checkIn := time.Date(2024, 6, 3, 1, 5, 0, 0, time.UTC)
	late := true

	created, err := repo.Create(ctx, attendance.Attendance{
		EmployeeID: emp.ID,
		Date:       day,
		CheckIn:    &checkIn,
		Status:     attendance.StatusPending,
		IsLate:     &late,
	})
	require.NoError(t, err)

	_, err = repo.Create(ctx, attendance.Attendance{EmployeeID: emp.ID, Date: day, Status: attendance.StatusPending})
	assert.ErrorIs(t, err, attendance.ErrAttendanceAlreadyExists)

	found, err := repo.GetByEmployeeAndDate(ctx, emp.ID, day)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, emp.DepartmentID, found.DepartmentID)

	missing, err := repo.GetByEmployeeAndDate(ctx, emp.ID, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Nil(t, missing)

	ranged, err := repo.ListByRange(ctx, "", day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, ranged, 1)

	require.NoError(t, repo.Delete(ctx, created.ID))
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), attendance.ErrAttendanceNotFound)
}

func TestPayrollRepository_ConcurrentUpsert(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	emp := seedEmployee(t, setup, "EMP240003")
	repo := postgresql.NewPayrollRepository(setup.DB)

	key := payroll.PeriodKey{EmployeeID: emp.ID, Month: 6, Year: 2024}
	merge := func(existing *payroll.PayrollRecord) (payroll.PayrollRecord, error) {
		if existing == nil {
			return payroll.PayrollRecord{
				EmployeeID:    key.EmployeeID,
				PeriodMonth:   key.Month,
				PeriodYear:    key.Year,
				BaseSalary:    emp.BaseSalary,
				TotalAmount:   emp.BaseSalary,
				Status:        payroll.PayrollStatusPending,
				PaymentMethod: payroll.PaymentMethodBank,
			}, nil
		}
		rec := *existing
		rec.WorkingDays++
		return rec, nil
	}

	const writers = 6
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, isNew, err := repo.Upsert(ctx, key, merge)
			if !assert.NoError(t, err) {
				return
			}
			if isNew {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	rec, err := repo.GetByEmployeePeriod(ctx, emp.ID, 6, 2024)
	require.NoError(t, err)
	assert.Equal(t, writers-1, rec.WorkingDays)
	assert.Empty(t, rec.Allowances)
}

func TestPayrollRepository_UpdateByIDAndDeleteIf(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	emp := seedEmployee(t, setup, "EMP240004")
	repo := postgresql.NewPayrollRepository(setup.DB)

	rec, err := repo.Create(ctx, payroll.PayrollRecord{
		EmployeeID:    emp.ID,
		PeriodMonth:   6,
		PeriodYear:    2024,
		BaseSalary:    emp.BaseSalary,
		TotalAmount:   emp.BaseSalary,
		Status:        payroll.PayrollStatusPending,
		PaymentMethod: payroll.PaymentMethodBank,
	})
	require.NoError(t, err)

	const writers = 5
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.UpdateByID(ctx, rec.ID, func(existing *payroll.PayrollRecord) (payroll.PayrollRecord, error) {
				next := *existing
				next.WorkingDays++
				return next, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, writers, got.WorkingDays)

	refused := errors.New("refused")
	err = repo.DeleteIf(ctx, rec.ID, func(payroll.PayrollRecord) error { return refused })
	assert.ErrorIs(t, err, refused)
	_, err = repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)

	require.NoError(t, repo.DeleteIf(ctx, rec.ID, func(payroll.PayrollRecord) error { return nil }))
	_, err = repo.UpdateByID(ctx, rec.ID, func(existing *payroll.PayrollRecord) (payroll.PayrollRecord, error) {
		return *existing, nil
	})
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordNotFound)
}

func TestUserAndRefreshTokenRepositories(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()

	users := postgresql.NewUserRepository(setup.DB)
	hash := "hash"
	u, err := users.Create(ctx, user.User{Email: "admin@example.com", PasswordHash: &hash, Role: user.RoleAdmin})
	require.NoError(t, err)

	_, err = users.Create(ctx, user.User{Email: "admin@example.com", Role: user.RoleAdmin})
	assert.ErrorIs(t, err, user.ErrUserEmailExists)

	got, err := users.GetByEmail(ctx, "ADMIN@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	tokens := postgresql.NewRefreshTokenRepository(setup.DB)
	expires := time.Now().Add(time.Hour).Unix()
	require.NoError(t, tokens.CreateRefreshToken(ctx, u.ID, "refresh-token", expires, auth.SessionTrackingRequest{UserAgent: "test"}))

	userID, revoked, err := tokens.IsRefreshTokenRevoked(ctx, "refresh-token")
	require.NoError(t, err)
	assert.Equal(t, u.ID, userID)
	assert.False(t, revoked)

	require.NoError(t, tokens.RevokeRefreshToken(ctx, "refresh-token"))
	_, revoked, err = tokens.IsRefreshTokenRevoked(ctx, "refresh-token")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestUserRepository_AdminOperations(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()

	users := postgresql.NewUserRepository(setup.DB)
	admin, err := users.Create(ctx, user.User{Email: "admin@example.com", Role: user.RoleAdmin})
	require.NoError(t, err)
	staff, err := users.Create(ctx, user.User{Email: "staff@example.com", Role: user.RoleEmployee})
	require.NoError(t, err)

	role := user.RoleEmployee
	list, err := users.List(ctx, &role)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, staff.ID, list[0].ID)

	all, err := users.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	staff.Role = user.RoleAdmin
	staff.Email = "lead@example.com"
	updated, err := users.Update(ctx, staff)
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, updated.Role)

	staff.Email = admin.Email
	_, err = users.Update(ctx, staff)
	assert.ErrorIs(t, err, user.ErrUserEmailExists)

	tokens := postgresql.NewRefreshTokenRepository(setup.DB)
	require.NoError(t, tokens.CreateRefreshToken(ctx, staff.ID, "staff-token", time.Now().Add(time.Hour).Unix(), auth.SessionTrackingRequest{}))
	require.NoError(t, tokens.RevokeUserRefreshTokens(ctx, staff.ID))
	_, revoked, err := tokens.IsRefreshTokenRevoked(ctx, "staff-token")
	require.NoError(t, err)
	assert.True(t, revoked)

	require.NoError(t, users.Delete(ctx, staff.ID))
	assert.ErrorIs(t, users.Delete(ctx, staff.ID), user.ErrUserNotFound)
}

func TestNotificationRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()

	emp := seedEmployee(t, setup, "EMP240009")
	other := seedEmployee(t, setup, "EMP240010")
	repo := postgresql.NewNotificationRepository(setup.DB)

	broadcast, err := repo.Create(ctx, notification.Notification{Title: "All", Message: "m", Urgency: notification.UrgencyLow, Status: notification.StatusActive})
	require.NoError(t, err)
	assert.Empty(t, broadcast.RecipientIDs)

	direct, err := repo.Create(ctx, notification.Notification{Title: "Direct", Message: "m", RecipientIDs: []string{emp.ID}, Urgency: notification.UrgencyHigh, Status: notification.StatusActive})
	require.NoError(t, err)
	dept, err := repo.Create(ctx, notification.Notification{Title: "Dept", Message: "m", DepartmentID: other.DepartmentID, Urgency: notification.UrgencyMedium, Status: notification.StatusActive})
	require.NoError(t, err)
	_, err = repo.Create(ctx, notification.Notification{Title: "Old", Message: "m", Urgency: notification.UrgencyMedium, Status: notification.StatusArchived})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, direct.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{emp.ID}, got.RecipientIDs)

	feed, err := repo.ListForEmployee(ctx, emp.ID, emp.DepartmentID)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, direct.ID, feed[0].ID)
	assert.Equal(t, broadcast.ID, feed[1].ID)

	feed, err = repo.ListForEmployee(ctx, other.ID, other.DepartmentID)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, dept.ID, feed[0].ID)

	archived := "archived"
	list, total, err := repo.List(ctx, notification.NotificationFilter{Status: &archived, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, list, 1)

	direct.Status = notification.StatusArchived
	direct.RecipientIDs = nil
	updated, err := repo.Update(ctx, direct)
	require.NoError(t, err)
	assert.Empty(t, updated.RecipientIDs)

	require.NoError(t, repo.Delete(ctx, direct.ID))
	_, err = repo.GetByID(ctx, direct.ID)
	assert.ErrorIs(t, err, notification.ErrNotificationNotFound)
}

func TestActivityLogRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()

	users := postgresql.NewUserRepository(setup.DB)
	admin, err := users.Create(ctx, user.User{Email: "auditor@example.com", Role: user.RoleAdmin})
	require.NoError(t, err)
	staff, err := users.Create(ctx, user.User{Email: "clerk@example.com", Role: user.RoleEmployee})
	require.NoError(t, err)

	repo := postgresql.NewActivityLogRepository(setup.DB)
	first, err := repo.Create(ctx, activitylog.ActivityLog{UserID: admin.ID, Action: "created department"})
	require.NoError(t, err)
	assert.Equal(t, "auditor@example.com", first.UserEmail)
	_, err = repo.Create(ctx, activitylog.ActivityLog{UserID: staff.ID, Action: "checked in"})
	require.NoError(t, err)
	last, err := repo.Create(ctx, activitylog.ActivityLog{UserID: admin.ID, Action: "generated payroll"})
	require.NoError(t, err)

	all, total, err := repo.List(ctx, activitylog.ActivityLogFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, all, 3)
	assert.Equal(t, last.ID, all[0].ID)

	mine, total, err := repo.List(ctx, activitylog.ActivityLogFilter{UserID: &admin.ID, Page: 2, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, mine, 1)
	assert.Equal(t, first.ID, mine[0].ID)

	updated, err := repo.UpdateAction(ctx, first.ID, "renamed department")
	require.NoError(t, err)
	assert.Equal(t, "renamed department", updated.Action)
	assert.Equal(t, "auditor@example.com", updated.UserEmail)

	require.NoError(t, repo.Delete(ctx, first.ID))
	_, err = repo.GetByID(ctx, first.ID)
	assert.ErrorIs(t, err, activitylog.ErrActivityLogNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, first.ID), activitylog.ErrActivityLogNotFound)

	require.NoError(t, users.Delete(ctx, staff.ID))
	_, total, err = repo.List(ctx, activitylog.ActivityLogFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
