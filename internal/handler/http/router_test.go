package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hrm-suite/hrm-backend-go/internal/domain/attendance"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/employee"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/user"
	"github.com/hrm-suite/hrm-backend-go/internal/pkg/jwt"
	"github.com/hrm-suite/hrm-backend-go/internal/repository/memory"
	activityLogService "github.com/hrm-suite/hrm-backend-go/internal/service/activitylog"
	attendanceService "github.com/hrm-suite/hrm-backend-go/internal/service/attendance"
	authService "github.com/hrm-suite/hrm-backend-go/internal/service/auth"
	departmentService "github.com/hrm-suite/hrm-backend-go/internal/service/department"
	employeeService "github.com/hrm-suite/hrm-backend-go/internal/service/employee"
	notificationService "github.com/hrm-suite/hrm-backend-go/internal/service/notification"
	payrollService "github.com/hrm-suite/hrm-backend-go/internal/service/payroll"
	reportService "github.com/hrm-suite/hrm-backend-go/internal/service/report"
	userService "github.com/hrm-suite/hrm-backend-go/internal/service/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "password123"

type testApp struct {
	handler       http.Handler
	jwt           jwt.Service
	aliceID       string
	bobID         string
	adminToken    string
	employeeToken string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	hashStr := string(hash)

	employees := memory.NewEmployeeRepository(
		employee.Employee{ID: "emp-alice", EmployeeCode: "EMP240001", FullName: "Alice", Email: "alice@example.com", BaseSalary: decimal.NewFromInt(5000000)},
		employee.Employee{ID: "emp-bob", EmployeeCode: "EMP240002", FullName: "Bob", Email: "bob@example.com", BaseSalary: decimal.NewFromInt(4000000)},
	)
	aliceID := "emp-alice"
	users := memory.NewUserRepository(
		user.User{ID: "u-admin", Email: "admin@example.com", PasswordHash: &hashStr, Role: user.RoleAdmin},
		user.User{ID: "u-alice", Email: "alice@example.com", PasswordHash: &hashStr, Role: user.RoleEmployee, EmployeeID: &aliceID},
	)
	departments := memory.NewDepartmentRepository()
	attendances := memory.NewAttendanceRepository()
	payrolls := memory.NewPayrollRepository()
	refreshTokens := memory.NewRefreshTokenRepository()
	tx := memory.Transactor{}

	policy := attendance.DefaultPolicy()
	policy.Location = time.UTC
	clock := func() time.Time { return time.Date(2024, 6, 3, 8, 10, 0, 0, time.UTC) }

	jwtService := jwt.NewJWTService("handler-test-secret", "1h", "24h")

	handlers := Handlers{
		Auth:         NewAuthHandler(jwtService, authService.NewAuthService(tx, users, jwtService, refreshTokens)),
		Attendance:   NewAttendanceHandler(attendanceService.NewAttendanceService(attendances, employees, policy, clock)),
		Payroll:      NewPayrollHandler(payrollService.NewPayrollService(payrolls, employees, attendances, policy)),
		Department:   NewDepartmentHandler(departmentService.NewDepartmentService(departments, employees)),
		Employee:     NewEmployeeHandler(employeeService.NewEmployeeService(tx, employees, departments, users)),
		Report:       NewReportHandler(reportService.NewReportService(attendances, departments, policy)),
		Notification: NewNotificationHandler(notificationService.NewNotificationService(memory.NewNotificationRepository(), employees, departments)),
		User:         NewUserHandler(userService.NewUserService(tx, users, refreshTokens)),
		ActivityLog:  NewActivityLogHandler(activityLogService.NewActivityLogService(memory.NewActivityLogRepository(), users)),
	}

	adminToken, _, err := jwtService.GenerateAccessToken("u-admin", "admin@example.com", nil, user.RoleAdmin)
	require.NoError(t, err)
	employeeToken, _, err := jwtService.GenerateAccessToken("u-alice", "alice@example.com", &aliceID, user.RoleEmployee)
	require.NoError(t, err)

	return &testApp{
		handler:       NewRouter(jwtService, handlers, RouterOptions{}),
		jwt:           jwtService,
		aliceID:       aliceID,
		bobID:         "emp-bob",
		adminToken:    adminToken,
		employeeToken: employeeToken,
	}
}

func (a *testApp) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf).WithContext(context.Background())
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func TestAuthFlow(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "Alice@Example.com",
		"password": testPassword,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var tokens struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &tokens))
	assert.NotEmpty(t, tokens.AccessToken)

	var refreshCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "refresh_token" {
			refreshCookie = c
		}
	}
	require.NotNil(t, refreshCookie)
	assert.True(t, refreshCookie.HttpOnly)

	rec = app.do(t, http.MethodGet, "/api/v1/auth/me", tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = app.do(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{"refresh_token": tokens.RefreshToken})
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = app.do(t, http.MethodPost, "/api/v1/auth/logout", tokens.AccessToken, map[string]string{"refresh_token": tokens.RefreshToken})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = app.do(t, http.MethodGet, "/api/v1/auth/me", tokens.AccessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.do(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{"refresh_token": tokens.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_Rejections(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name string
		body interface{}
		want int
	}{
		{"wrong password", map[string]string{"email": "alice@example.com", "password": "wrong-password"}, http.StatusUnauthorized},
		{"unknown user", map[string]string{"email": "nobody@example.com", "password": testPassword}, http.StatusUnauthorized},
		{"invalid email", map[string]string{"email": "alice", "password": testPassword}, http.StatusUnprocessableEntity},
		{"malformed body", "not an object", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(t, http.MethodPost, "/api/v1/auth/login", "", tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestAuthRequired(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/api/v1/employees/"+app.aliceID, "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	refresh, _, err := app.jwt.GenerateRefreshToken("u-admin")
	require.NoError(t, err)
	rec = app.do(t, http.MethodGet, "/api/v1/employees/"+app.aliceID, refresh, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "refresh tokens are not access tokens")
}

func TestRoleGuards(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name  string
		path  string
		token string
		want  int
	}{
		{"employee cannot list employees", "/api/v1/employees", app.employeeToken, http.StatusForbidden},
		{"admin lists employees", "/api/v1/employees", app.adminToken, http.StatusOK},
		{"employee reads own profile", "/api/v1/employees/" + app.aliceID, app.employeeToken, http.StatusOK},
		{"employee cannot read a colleague", "/api/v1/employees/" + app.bobID, app.employeeToken, http.StatusForbidden},
		{"employee cannot read a colleague summary", "/api/v1/attendances/summary/" + app.bobID + "?month=6&year=2024", app.employeeToken, http.StatusForbidden},
		{"employee reads own summary", "/api/v1/attendances/summary/" + app.aliceID + "?month=6&year=2024", app.employeeToken, http.StatusOK},
		{"employee cannot read monthly", "/api/v1/attendances/monthly?month=6&year=2024", app.employeeToken, http.StatusForbidden},
		{"employee cannot read reports", "/api/v1/reports/departments?month=6&year=2024", app.employeeToken, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(t, http.MethodGet, tt.path, tt.token, nil)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestAttendance_CheckInOwnRecord(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/api/v1/attendances/check-in", app.employeeToken, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var att attendance.AttendanceResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &att))
	assert.Equal(t, app.aliceID, att.EmployeeID)
	assert.Equal(t, "2024-06-03", att.Date)

	rec = app.do(t, http.MethodPost, "/api/v1/attendances/check-in", app.employeeToken, nil)
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	rec = app.do(t, http.MethodGet, "/api/v1/attendances/"+att.ID, app.employeeToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	bobToken, _, err := app.jwt.GenerateAccessToken("u-bob", "bob@example.com", &app.bobID, user.RoleEmployee)
	require.NoError(t, err)
	rec = app.do(t, http.MethodGet, "/api/v1/attendances/"+att.ID, bobToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(t, http.MethodPost, "/api/v1/attendances/check-in", app.adminToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code, "admin account has no employee record")
}

func TestAttendance_ListQueryValidation(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/api/v1/attendances?page=abc", app.adminToken, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decodeEnvelope(t, rec).Error.Details, "page")

	rec = app.do(t, http.MethodGet, "/api/v1/attendances?is_leave=maybe", app.adminToken, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = app.do(t, http.MethodGet, "/api/v1/attendances?sort_order=desc", app.adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestPayroll_UpsertStatusCodes(t *testing.T) {
	app := newTestApp(t)

	body := map[string]interface{}{
		"employee_id":  app.aliceID,
		"period_month": 6,
		"period_year":  2024,
		"base_salary":  "5000000",
	}

	rec := app.do(t, http.MethodPut, "/api/v1/payrolls/upsert", app.adminToken, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body["note"] = "adjusted"
	rec = app.do(t, http.MethodPut, "/api/v1/payrolls/upsert", app.adminToken, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = app.do(t, http.MethodGet, "/api/v1/payrolls/employee/"+app.aliceID+"/latest", app.employeeToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = app.do(t, http.MethodPut, "/api/v1/payrolls/upsert", app.employeeToken, body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(t, http.MethodGet, "/api/v1/payrolls?month=6&year=2024", app.adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var list []json.RawMessage
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &list))
	assert.Len(t, list, 1)
}

func TestDepartment_CRUD(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/api/v1/departments", app.adminToken, map[string]string{"name": "Engineering"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var dept struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &dept))

	rec = app.do(t, http.MethodPost, "/api/v1/departments", app.adminToken, map[string]string{"name": "Engineering"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = app.do(t, http.MethodGet, "/api/v1/departments/"+dept.ID, app.employeeToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(t, http.MethodDelete, "/api/v1/departments/"+dept.ID, app.adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(t, http.MethodGet, "/api/v1/departments/"+dept.ID, app.adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReport_Export(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/api/v1/reports/departments/export?month=6&year=2024", app.adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "department-rollup-2024-06.xlsx")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")), "xlsx is a zip archive")

	rec = app.do(t, http.MethodGet, "/api/v1/reports/departments?month=13&year=2024", app.adminToken, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestNotification_AdminPublishesEmployeeReads(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/api/v1/notifications", app.employeeToken, map[string]string{"title": "Hi", "message": "m"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(t, http.MethodPost, "/api/v1/notifications", app.adminToken, map[string]string{
		"title":   "Office closed",
		"message": "Public holiday on Friday.",
		"urgency": "high",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID        string `json:"id"`
		CreatedBy string `json:"created_by"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &created))
	assert.Equal(t, "u-admin", created.CreatedBy)

	rec = app.do(t, http.MethodGet, "/api/v1/notifications/for-employee", app.employeeToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var feed []struct {
		ID      string `json:"id"`
		Urgency string `json:"urgency"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &feed))
	require.Len(t, feed, 1)
	assert.Equal(t, created.ID, feed[0].ID)

	rec = app.do(t, http.MethodGet, "/api/v1/notifications/"+created.ID, app.employeeToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(t, http.MethodGet, "/api/v1/notifications/for-employee", app.adminToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(t, http.MethodPut, "/api/v1/notifications/"+created.ID, app.adminToken, map[string]string{"status": "archived"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = app.do(t, http.MethodGet, "/api/v1/notifications/"+created.ID, app.employeeToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.do(t, http.MethodGet, "/api/v1/notifications?status=archived", app.adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = app.do(t, http.MethodDelete, "/api/v1/notifications/"+created.ID, app.adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUser_AdminManagement(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/api/v1/users", app.employeeToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(t, http.MethodGet, "/api/v1/users?role=employee", app.adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var users []struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &users))
	require.Len(t, users, 1)
	assert.Equal(t, "alice@example.com", users[0].Email)

	rec = app.do(t, http.MethodPut, "/api/v1/users/u-alice", app.adminToken, map[string]string{"email": "Alice.W@Example.com"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = app.do(t, http.MethodPut, "/api/v1/users/u-admin", app.adminToken, map[string]string{"role": "employee"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(t, http.MethodDelete, "/api/v1/users/u-admin", app.adminToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(t, http.MethodDelete, "/api/v1/users/u-alice", app.adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(t, http.MethodGet, "/api/v1/users/u-alice", app.adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestActivityLog_AdminOnly(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/api/v1/activity-logs", app.employeeToken, map[string]string{"action": "x"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(t, http.MethodPost, "/api/v1/activity-logs", app.adminToken, map[string]string{"action": "closed June payroll"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID        string `json:"id"`
		UserID    string `json:"user_id"`
		UserEmail string `json:"user_email"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &created))
	assert.Equal(t, "u-admin", created.UserID)
	assert.Equal(t, "admin@example.com", created.UserEmail)

	rec = app.do(t, http.MethodGet, "/api/v1/activity-logs", app.adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = app.do(t, http.MethodGet, "/api/v1/activity-logs/"+created.ID, app.employeeToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(t, http.MethodPut, "/api/v1/activity-logs/"+created.ID, app.adminToken, map[string]string{"action": "reopened June payroll"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = app.do(t, http.MethodDelete, "/api/v1/activity-logs/"+created.ID, app.adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(t, http.MethodGet, "/api/v1/activity-logs/"+created.ID, app.adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
