package employee

import (
	"context"
	"testing"
	"time"

	"github.com/hrm-suite/hrm-backend-go/internal/domain/department"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/employee"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/user"
	"github.com/hrm-suite/hrm-backend-go/internal/pkg/validator"
	"github.com/hrm-suite/hrm-backend-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	svc   *EmployeeServiceImpl
	users *memory.UserRepository
	depts *memory.DepartmentRepository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	depts := memory.NewDepartmentRepository(department.Department{ID: "d1", Name: "Engineering"})
	users := memory.NewUserRepository()
	svc := NewEmployeeService(memory.Transactor{}, memory.NewEmployeeRepository(), depts, users).(*EmployeeServiceImpl)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC) }
	return fixture{svc: svc, users: users, depts: depts}
}

func ptr[T any](v T) *T { return &v }

func createRequest(name, email string) employee.CreateEmployeeRequest {
	return employee.CreateEmployeeRequest{
		FullName:     name,
		Email:        email,
		DepartmentID: ptr("d1"),
		HireDate:     "2024-01-15",
		BaseSalary:   decimal.NewFromInt(8_000_000),
	}
}

func TestCreateEmployee_AssignsSequentialCodes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.svc.CreateEmployee(ctx, createRequest("Ayu", "ayu@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "EMP240001", first.EmployeeCode)
	assert.Equal(t, "2024-01-15", first.HireDate)
	assert.Equal(t, "active", first.EmploymentStatus)
	assert.Nil(t, first.UserID)

	second, err := f.svc.CreateEmployee(ctx, createRequest("Budi", "Budi@Example.com "))
	require.NoError(t, err)
	assert.Equal(t, "EMP240002", second.EmployeeCode)
	assert.Equal(t, "budi@example.com", second.Email)

	_, err = f.svc.CreateEmployee(ctx, createRequest("Ayu Again", "ayu@example.com"))
	assert.ErrorIs(t, err, employee.ErrEmailExists)
}

func TestCreateEmployee_WithPasswordCreatesAccount(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	req := createRequest("Citra", "citra@example.com")
	req.Password = ptr("s3cret-pass")

	resp, err := f.svc.CreateEmployee(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, resp.UserID)

	u, err := f.users.GetByEmail(ctx, "citra@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.RoleEmployee, u.Role)
	require.NotNil(t, u.EmployeeID)
	assert.Equal(t, resp.ID, *u.EmployeeID)
	require.NotNil(t, u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte("s3cret-pass")))
}

func TestCreateEmployee_Rejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	req := createRequest("", "not-an-email")
	_, err := f.svc.CreateEmployee(ctx, req)
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	req = createRequest("Dewi", "dewi@example.com")
	req.DepartmentID = ptr("missing")
	_, err = f.svc.CreateEmployee(ctx, req)
	assert.ErrorIs(t, err, department.ErrDepartmentNotFound)

	req = createRequest("Dewi", "dewi@example.com")
	req.WorkStart, req.WorkEnd = ptr("17:00"), ptr("09:00")
	_, err = f.svc.CreateEmployee(ctx, req)
	assert.ErrorIs(t, err, employee.ErrInvalidWorkHours)
}

func TestUpdateEmployee(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.svc.CreateEmployee(ctx, createRequest("Eka", "eka@example.com"))
	require.NoError(t, err)

	salary := decimal.NewFromInt(9_500_000)
	updated, err := f.svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{
		ID:               created.ID,
		BaseSalary:       &salary,
		EmploymentStatus: ptr("resigned"),
		DepartmentID:     ptr(""),
		WorkStart:        ptr("07:00"),
	})
	require.NoError(t, err)
	assert.True(t, salary.Equal(updated.BaseSalary))
	assert.Equal(t, "resigned", updated.EmploymentStatus)
	assert.Nil(t, updated.DepartmentID)
	assert.Equal(t, ptr("07:00"), updated.WorkStart)

	renamed, err := f.svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{ID: created.ID, Email: ptr("  Eka.P@Example.com")})
	require.NoError(t, err)
	assert.Equal(t, "eka.p@example.com", renamed.Email)

	fractional := decimal.RequireFromString("9500000.125")
	_, err = f.svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{ID: created.ID, BaseSalary: &fractional})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "base_salary", verrs[0].Field)

	_, err = f.svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{ID: created.ID, WorkEnd: ptr("06:00")})
	assert.ErrorIs(t, err, employee.ErrInvalidWorkHours)

	_, err = f.svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{ID: "nope"})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestDeleteEmployee_IsSoft(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.svc.CreateEmployee(ctx, createRequest("Fajar", "fajar@example.com"))
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteEmployee(ctx, created.ID))
	_, err = f.svc.GetEmployee(ctx, created.ID)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	assert.ErrorIs(t, f.svc.DeleteEmployee(ctx, created.ID), employee.ErrEmployeeNotFound)

	// The code stays reserved after deletion.
	next, err := f.svc.CreateEmployee(ctx, createRequest("Gita", "gita@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "EMP240002", next.EmployeeCode)
}

func TestListEmployees_Pagination(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, name := range []string{"Hana", "Indra", "Joko"} {
		_, err := f.svc.CreateEmployee(ctx, createRequest(name, name+"@example.com"))
		require.NoError(t, err)
	}

	page, err := f.svc.ListEmployees(ctx, employee.EmployeeFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalCount)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, "3-3 of 3", page.Showing)
	require.Len(t, page.Employees, 1)
	assert.Equal(t, "EMP240003", page.Employees[0].EmployeeCode)

	empty, err := f.svc.ListEmployees(ctx, employee.EmployeeFilter{Search: ptr("zzz")})
	require.NoError(t, err)
	assert.Equal(t, "0 of 0", empty.Showing)
	assert.Empty(t, empty.Employees)
}
