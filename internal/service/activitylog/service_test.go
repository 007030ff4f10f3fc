package activitylog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/activitylog"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/user"
	"github.com/hrm-suite/hrm-backend-go/internal/pkg/validator"
	"github.com/hrm-suite/hrm-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (activitylog.ActivityLogService, user.User, user.User) {
	t.Helper()
	admin := user.User{ID: uuid.Must(uuid.NewV7()).String(), Email: "admin@example.com", Role: user.RoleAdmin}
	staff := user.User{ID: uuid.Must(uuid.NewV7()).String(), Email: "staff@example.com", Role: user.RoleEmployee}
	svc := NewActivityLogService(memory.NewActivityLogRepository(), memory.NewUserRepository(admin, staff))
	return svc, admin, staff
}

func TestActivityLogService_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	svc, admin, _ := newService(t)

	created, err := svc.CreateActivityLog(ctx, admin.ID, activitylog.CreateActivityLogRequest{
		UserID: admin.ID,
		Action: "  approved March payroll  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "approved March payroll", created.Action)
	assert.Equal(t, "admin@example.com", created.UserEmail)

	got, err := svc.GetActivityLog(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = svc.GetActivityLog(ctx, uuid.Must(uuid.NewV7()).String())
	assert.ErrorIs(t, err, activitylog.ErrActivityLogNotFound)
}

func TestActivityLogService_CreateDefaultsToCaller(t *testing.T) {
	svc, _, staff := newService(t)

	created, err := svc.CreateActivityLog(context.Background(), staff.ID, activitylog.CreateActivityLogRequest{Action: "checked in"})
	require.NoError(t, err)
	assert.Equal(t, staff.ID, created.UserID)
	assert.Equal(t, "staff@example.com", created.UserEmail)
}

func TestActivityLogService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	svc, admin, _ := newService(t)

	_, err := svc.CreateActivityLog(ctx, admin.ID, activitylog.CreateActivityLogRequest{UserID: "nope", Action: " "})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := verrs.ToMap()
	assert.Contains(t, fields, "user_id")
	assert.Contains(t, fields, "action")

	_, err = svc.CreateActivityLog(ctx, admin.ID, activitylog.CreateActivityLogRequest{
		UserID: uuid.Must(uuid.NewV7()).String(),
		Action: "logged in",
	})
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestActivityLogService_ListNewestFirstAndByUser(t *testing.T) {
	ctx := context.Background()
	svc, admin, staff := newService(t)

	for _, entry := range []activitylog.CreateActivityLogRequest{
		{UserID: admin.ID, Action: "created department"},
		{UserID: staff.ID, Action: "checked in"},
		{UserID: admin.ID, Action: "generated payroll"},
	} {
		_, err := svc.CreateActivityLog(ctx, admin.ID, entry)
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
	}

	all, err := svc.ListActivityLogs(ctx, activitylog.ActivityLogFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.TotalCount)
	assert.Equal(t, 1, all.Page)
	assert.Equal(t, 20, all.Limit)
	require.Len(t, all.Data, 3)
	assert.Equal(t, "generated payroll", all.Data[0].Action)
	assert.Equal(t, "created department", all.Data[2].Action)

	mine, err := svc.ListActivityLogs(ctx, activitylog.ActivityLogFilter{UserID: &admin.ID, Limit: 1, Page: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(2), mine.TotalCount)
	require.Len(t, mine.Data, 1)
	assert.Equal(t, "created department", mine.Data[0].Action)

	_, err = svc.ListActivityLogs(ctx, activitylog.ActivityLogFilter{Limit: 500})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "limit")
}

func TestActivityLogService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	svc, admin, _ := newService(t)

	created, err := svc.CreateActivityLog(ctx, admin.ID, activitylog.CreateActivityLogRequest{UserID: admin.ID, Action: "exported report"})
	require.NoError(t, err)

	kept, err := svc.UpdateActivityLog(ctx, activitylog.UpdateActivityLogRequest{ID: created.ID, Action: "   "})
	require.NoError(t, err)
	assert.Equal(t, "exported report", kept.Action)

	updated, err := svc.UpdateActivityLog(ctx, activitylog.UpdateActivityLogRequest{ID: created.ID, Action: "exported department report"})
	require.NoError(t, err)
	assert.Equal(t, "exported department report", updated.Action)

	require.NoError(t, svc.DeleteActivityLog(ctx, created.ID))
	assert.ErrorIs(t, svc.DeleteActivityLog(ctx, created.ID), activitylog.ErrActivityLogNotFound)

	_, err = svc.UpdateActivityLog(ctx, activitylog.UpdateActivityLogRequest{ID: created.ID, Action: "x"})
	assert.ErrorIs(t, err, activitylog.ErrActivityLogNotFound)
}
