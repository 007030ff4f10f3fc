package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog/v3"
	"github.com/hrm-suite/hrm-backend-go/internal/config"
	appHTTP "github.com/hrm-suite/hrm-backend-go/internal/handler/http"
	"github.com/hrm-suite/hrm-backend-go/internal/pkg/cron"
	"github.com/hrm-suite/hrm-backend-go/internal/pkg/database"
	"github.com/hrm-suite/hrm-backend-go/internal/pkg/jwt"
	"github.com/hrm-suite/hrm-backend-go/internal/repository/postgresql"
	activityLogService "github.com/hrm-suite/hrm-backend-go/internal/service/activitylog"
	attendanceService "github.com/hrm-suite/hrm-backend-go/internal/service/attendance"
	serviceAuth "github.com/hrm-suite/hrm-backend-go/internal/service/auth"
	departmentService "github.com/hrm-suite/hrm-backend-go/internal/service/department"
	employeeService "github.com/hrm-suite/hrm-backend-go/internal/service/employee"
	notificationService "github.com/hrm-suite/hrm-backend-go/internal/service/notification"
	payrollService "github.com/hrm-suite/hrm-backend-go/internal/service/payroll"
	reportService "github.com/hrm-suite/hrm-backend-go/internal/service/report"
	userService "github.com/hrm-suite/hrm-backend-go/internal/service/user"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.LogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hrm-backend"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	policy, err := cfg.AttendancePolicy()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	tx := postgresql.NewTransactor(db)
	userRepo := postgresql.NewUserRepository(db)
	refreshTokenRepo := postgresql.NewRefreshTokenRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	departmentRepo := postgresql.NewDepartmentRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	activityLogRepo := postgresql.NewActivityLogRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)

	authService := serviceAuth.NewAuthService(tx, userRepo, JWTService, refreshTokenRepo)
	employeeSvc := employeeService.NewEmployeeService(tx, employeeRepo, departmentRepo, userRepo)
	departmentSvc := departmentService.NewDepartmentService(departmentRepo, employeeRepo)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo, policy, nil)
	payrollSvc := payrollService.NewPayrollService(payrollRepo, employeeRepo, attendanceRepo, policy)
	reportSvc := reportService.NewReportService(attendanceRepo, departmentRepo, policy)
	notificationSvc := notificationService.NewNotificationService(notificationRepo, employeeRepo, departmentRepo)
	userSvc := userService.NewUserService(tx, userRepo, refreshTokenRepo)
	activityLogSvc := activityLogService.NewActivityLogService(activityLogRepo, userRepo)

	if err := authService.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	router := appHTTP.NewRouter(JWTService, appHTTP.Handlers{
		Auth:         appHTTP.NewAuthHandler(JWTService, authService),
		Attendance:   appHTTP.NewAttendanceHandler(attendanceSvc),
		Payroll:      appHTTP.NewPayrollHandler(payrollSvc),
		Department:   appHTTP.NewDepartmentHandler(departmentSvc),
		Employee:     appHTTP.NewEmployeeHandler(employeeSvc),
		Report:       appHTTP.NewReportHandler(reportSvc),
		Notification: appHTTP.NewNotificationHandler(notificationSvc),
		User:         appHTTP.NewUserHandler(userSvc),
		ActivityLog:  appHTTP.NewActivityLogHandler(activityLogSvc),
	}, appHTTP.RouterOptions{
		Logger:         logger,
		AllowedOrigins: cfg.App.CORSAllowedOrigins,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	scheduler := cron.NewScheduler(logger)
	if cfg.Cron.Enabled {
		cron.NewPayrollJobs(payrollSvc, policy, nil).RegisterJobs(scheduler, cfg.Cron.Interval)
		cron.NewAttendanceJobs(attendanceSvc, policy, nil).RegisterJobs(scheduler, cfg.Cron.Interval)
		scheduler.Start(ctx)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		scheduler.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
