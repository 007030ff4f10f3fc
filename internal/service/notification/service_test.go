package notification

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/department"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/employee"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/notification"
	"github.com/hrm-suite/hrm-backend-go/internal/pkg/validator"
	"github.com/hrm-suite/hrm-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc         notification.NotificationService
	engineer    employee.Employee
	accountant  employee.Employee
	engineering string
	finance     string
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func ptr[T any](v T) *T { return &v }

func newFixture(t *testing.T) fixture {
	t.Helper()
	f := fixture{engineering: newID(), finance: newID()}
	f.engineer = employee.Employee{ID: newID(), FullName: "Ayu", Email: "ayu@example.com", DepartmentID: &f.engineering, HireDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	f.accountant = employee.Employee{ID: newID(), FullName: "Budi", Email: "budi@example.com", DepartmentID: &f.finance, HireDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}

	depts := memory.NewDepartmentRepository(
		department.Department{ID: f.engineering, Name: "Engineering"},
		department.Department{ID: f.finance, Name: "Finance"},
	)
	f.svc = NewNotificationService(memory.NewNotificationRepository(), memory.NewEmployeeRepository(f.engineer, f.accountant), depts)
	return f
}

func TestNotificationService_CreateDefaults(t *testing.T) {
	f := newFixture(t)

	created, err := f.svc.CreateNotification(context.Background(), "admin-1", notification.CreateNotificationRequest{
		Title:   "  Office closed  ",
		Message: "Public holiday on Friday.",
	})
	require.NoError(t, err)
	assert.Equal(t, "Office closed", created.Title)
	assert.Equal(t, "medium", created.Urgency)
	assert.Equal(t, "active", created.Status)
	assert.Equal(t, []string{}, created.RecipientIDs)
	assert.Equal(t, ptr("admin-1"), created.CreatedBy)
}

func TestNotificationService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.CreateNotification(ctx, "", notification.CreateNotificationRequest{
		Title:        " ",
		Message:      "x",
		Urgency:      ptr("critical"),
		RecipientIDs: []string{"not-an-id"},
	})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := verrs.ToMap()
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "urgency")
	assert.Contains(t, fields, "recipients[0]")

	_, err = f.svc.CreateNotification(ctx, "", notification.CreateNotificationRequest{
		Title:        "Hi",
		Message:      "x",
		RecipientIDs: []string{f.engineer.ID, f.engineer.ID},
	})
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "recipients[1]")

	_, err = f.svc.CreateNotification(ctx, "", notification.CreateNotificationRequest{Title: "Hi", Message: "x", RecipientIDs: []string{newID()}})
	assert.ErrorIs(t, err, notification.ErrUnknownRecipient)

	_, err = f.svc.CreateNotification(ctx, "", notification.CreateNotificationRequest{Title: "Hi", Message: "x", DepartmentID: ptr(newID())})
	assert.ErrorIs(t, err, department.ErrDepartmentNotFound)
}

func TestNotificationService_EmployeeFeed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	create := func(req notification.CreateNotificationRequest) notification.NotificationResponse {
		t.Helper()
		n, err := f.svc.CreateNotification(ctx, "", req)
		require.NoError(t, err)
		return n
	}

	everyone := create(notification.CreateNotificationRequest{Title: "Everyone", Message: "m"})
	engineering := create(notification.CreateNotificationRequest{Title: "Engineering", Message: "m", DepartmentID: &f.engineering})
	direct := create(notification.CreateNotificationRequest{Title: "Direct", Message: "m", RecipientIDs: []string{f.accountant.ID}, Urgency: ptr("high")})
	archived := create(notification.CreateNotificationRequest{Title: "Old", Message: "m", Status: ptr("archived")})

	feed, err := f.svc.ListForEmployee(ctx, f.engineer.ID)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, engineering.ID, feed[0].ID)
	assert.Equal(t, everyone.ID, feed[1].ID)

	feed, err = f.svc.ListForEmployee(ctx, f.accountant.ID)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, direct.ID, feed[0].ID)

	_, err = f.svc.GetForEmployee(ctx, direct.ID, f.engineer.ID)
	assert.ErrorIs(t, err, notification.ErrNotificationNotFound)
	_, err = f.svc.GetForEmployee(ctx, archived.ID, f.engineer.ID)
	assert.ErrorIs(t, err, notification.ErrNotificationNotFound)
	got, err := f.svc.GetForEmployee(ctx, direct.ID, f.accountant.ID)
	require.NoError(t, err)
	assert.Equal(t, "high", got.Urgency)

	_, err = f.svc.ListForEmployee(ctx, newID())
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestNotificationService_UpdateArchiveAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.svc.CreateNotification(ctx, "", notification.CreateNotificationRequest{Title: "Payday", Message: "m", DepartmentID: &f.finance})
	require.NoError(t, err)

	updated, err := f.svc.UpdateNotification(ctx, notification.UpdateNotificationRequest{
		ID:           created.ID,
		DepartmentID: ptr(""),
		RecipientIDs: &[]string{f.engineer.ID},
	})
	require.NoError(t, err)
	assert.Nil(t, updated.DepartmentID)
	assert.Equal(t, []string{f.engineer.ID}, updated.RecipientIDs)
	assert.Equal(t, "Payday", updated.Title)

	feed, err := f.svc.ListForEmployee(ctx, f.engineer.ID)
	require.NoError(t, err)
	assert.Len(t, feed, 1)

	_, err = f.svc.UpdateNotification(ctx, notification.UpdateNotificationRequest{ID: created.ID, Status: ptr("archived")})
	require.NoError(t, err)
	feed, err = f.svc.ListForEmployee(ctx, f.engineer.ID)
	require.NoError(t, err)
	assert.Empty(t, feed)

	list, err := f.svc.ListNotifications(ctx, notification.NotificationFilter{Status: ptr("archived")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.TotalCount)
	assert.Equal(t, 20, list.Limit)

	_, err = f.svc.UpdateNotification(ctx, notification.UpdateNotificationRequest{ID: created.ID, RecipientIDs: &[]string{newID()}})
	assert.ErrorIs(t, err, notification.ErrUnknownRecipient)

	_, err = f.svc.UpdateNotification(ctx, notification.UpdateNotificationRequest{ID: newID(), Title: ptr("x")})
	assert.ErrorIs(t, err, notification.ErrNotificationNotFound)

	require.NoError(t, f.svc.DeleteNotification(ctx, created.ID))
	assert.ErrorIs(t, f.svc.DeleteNotification(ctx, created.ID), notification.ErrNotificationNotFound)
}
