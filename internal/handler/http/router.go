package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/hrm-suite/hrm-backend-go/internal/domain/user"
	"github.com/hrm-suite/hrm-backend-go/internal/handler/http/middleware"
	"github.com/hrm-suite/hrm-backend-go/internal/pkg/jwt"
)

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Auth         AuthHandler
	Attendance   AttendanceHandler
	Payroll      PayrollHandler
	Department   DepartmentHandler
	Employee     EmployeeHandler
	Report       ReportHandler
	Notification NotificationHandler
	User         UserHandler
	ActivityLog  ActivityLogHandler
}

type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
}

func NewRouter(JWTService jwt.Service, h Handlers, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)

			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
				r.Use(middleware.AuthRequired(JWTService.IsTokenRevoked))
				r.Get("/me", h.Auth.Me)
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.IsTokenRevoked))

			r.Route("/attendances", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceCheckIn))
					r.Use(middleware.RequireEmployee)
					r.Post("/check-in", h.Attendance.CheckIn)
					r.Post("/check-out", h.Attendance.CheckOut)
				})

				r.With(middleware.SelfOrAdmin("employeeId")).Get("/summary/{employeeId}", h.Attendance.Summary)
				r.With(middleware.SelfOrAdmin("employeeId")).Get("/employee/{employeeId}", h.Attendance.ListByEmployee)
				r.Get("/{id}", h.Attendance.Get)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", h.Attendance.List)
					r.Get("/monthly", h.Attendance.Monthly)
					r.Post("/", h.Attendance.Create)
					r.Put("/{id}", h.Attendance.Update)
					r.Delete("/{id}", h.Attendance.Delete)
				})
			})

			r.Route("/payrolls", func(r chi.Router) {
				r.With(middleware.SelfOrAdmin("employeeId")).Get("/employee/{employeeId}", h.Payroll.ListByEmployee)
				r.With(middleware.SelfOrAdmin("employeeId")).Get("/employee/{employeeId}/latest", h.Payroll.Latest)
				r.Get("/{id}", h.Payroll.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayrollManage))
					r.Get("/", h.Payroll.List)
					r.Post("/", h.Payroll.Create)
					r.Put("/upsert", h.Payroll.Upsert)
					r.Put("/{id}", h.Payroll.Update)
					r.Delete("/{id}", h.Payroll.Delete)
				})
				r.With(middleware.RequirePermission(user.PermissionPayrollGenerate)).Post("/generate", h.Payroll.Generate)
			})

			r.Route("/departments", func(r chi.Router) {
				r.Get("/{id}", h.Department.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionDepartmentManage))
					r.Get("/", h.Department.List)
					r.Post("/", h.Department.Create)
					r.Put("/{id}", h.Department.Update)
					r.Delete("/{id}", h.Department.Delete)
				})
			})

			r.Route("/employees", func(r chi.Router) {
				r.Get("/{id}", h.Employee.GetEmployee)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionEmployeeManage))
					r.Get("/", h.Employee.ListEmployees)
					r.Post("/", h.Employee.CreateEmployee)
					r.Put("/{id}", h.Employee.UpdateEmployee)
					r.Delete("/{id}", h.Employee.DeleteEmployee)
				})
			})

			r.Route("/reports", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionReportsView))
				r.Get("/departments", h.Report.DepartmentRollup)
				r.Get("/departments/export", h.Report.ExportDepartmentRollup)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionNotificationViewOwn), middleware.RequireEmployee).
					Get("/for-employee", h.Notification.ForEmployee)
				r.Get("/{id}", h.Notification.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionNotificationManage))
					r.Get("/", h.Notification.List)
					r.Post("/", h.Notification.Create)
					r.Put("/{id}", h.Notification.Update)
					r.Delete("/{id}", h.Notification.Delete)
				})
			})

			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionUserManage))
				r.Get("/", h.User.List)
				r.Get("/{id}", h.User.Get)
				r.Put("/{id}", h.User.Update)
				r.Delete("/{id}", h.User.Delete)
			})

			r.Route("/activity-logs", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionActivityLogManage))
				r.Get("/", h.ActivityLog.List)
				r.Post("/", h.ActivityLog.Create)
				r.Get("/{id}", h.ActivityLog.Get)
				r.Put("/{id}", h.ActivityLog.Update)
				r.Delete("/{id}", h.ActivityLog.Delete)
			})
		})
	})
	return r
}
