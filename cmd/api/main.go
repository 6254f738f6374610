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

	"github.com/cmlabs-hris/hris-timeledger-go/internal/config"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/payroll"
	appHTTP "github.com/cmlabs-hris/hris-timeledger-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/pkg/broadcast"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/repository/memory"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hris-timeledger-go/internal/service/attendance"
	dashboardService "github.com/cmlabs-hris/hris-timeledger-go/internal/service/dashboard"
	holidayService "github.com/cmlabs-hris/hris-timeledger-go/internal/service/holiday"
	notificationService "github.com/cmlabs-hris/hris-timeledger-go/internal/service/notification"
	payrollService "github.com/cmlabs-hris/hris-timeledger-go/internal/service/payroll"
	reportService "github.com/cmlabs-hris/hris-timeledger-go/internal/service/report"
	scheduleService "github.com/cmlabs-hris/hris-timeledger-go/internal/service/schedule"
)

const (
	appName    = "hris-timeledger"
	appVersion = "v1.0.0"
)

type repositories struct {
	attendance attendance.AttendanceRepository
	employee   employee.EmployeeRepository
	holiday    holiday.HolidayRepository
	close      func()
}

func openRepositories(ctx context.Context, cfg *config.Config) (repositories, error) {
	if cfg.Database.Driver == "memory" {
		slog.Warn("Using in-memory storage, data is lost on restart")
		employees := memory.NewEmployeeRepository()
		return repositories{
			attendance: memory.NewAttendanceRepository(employees),
			employee:   employees,
			holiday:    memory.NewHolidayRepository(),
			close:      func() {},
		}, nil
	}

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return repositories{}, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := postgresql.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return repositories{}, err
	}

	return repositories{
		attendance: postgresql.NewAttendanceRepository(db),
		employee:   postgresql.NewEmployeeRepository(db),
		holiday:    postgresql.NewHolidayRepository(db),
		close:      db.Close,
	}, nil
}

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})).With(
		slog.String("app", appName),
		slog.String("env", cfg.App.Env),
	))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc := cfg.Location()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer repos.close()

	// Dashboard events: in-process hub, relayed through Redis when configured.
	var remote notification.Remote
	var relay *broadcast.Redis
	if cfg.Redis.Addr != "" {
		relay, err = broadcast.NewRedis(ctx, broadcast.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Channel:  cfg.Redis.DashboardChannel,
		})
		if err != nil {
			return err
		}
		defer relay.Close()
		remote = relay
	}

	notifSvc := notificationService.NewNotificationService(sse.NewHub(), remote, notificationService.Config{})
	defer notifSvc.Stop()

	if relay != nil {
		if err := relay.Relay(ctx, notifSvc.Deliver); err != nil {
			return err
		}
		slog.Info("Dashboard events relayed through redis", "channel", relay.Channel())
	}

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		return err
	}

	holidaySvc := holidayService.NewHolidayService(repos.holiday, loc)
	attendanceSvc := attendanceService.NewAttendanceService(
		repos.attendance,
		repos.employee,
		scheduleService.NewPolicyResolver(repos.employee),
		holidaySvc,
		notifSvc,
		attendanceService.Options{
			Location:      loc,
			RetentionDays: cfg.Attendance.RetentionDays,
		},
	)
	dashboardSvc := dashboardService.NewDashboardService(repos.attendance, repos.employee, loc)
	payrollSvc := payrollService.NewPayrollService(repos.attendance, repos.employee, payroll.Settings{
		OvertimeEnabled:        cfg.Payroll.OvertimePayPerMinute.IsPositive(),
		OvertimePayPerMinute:   cfg.Payroll.OvertimePayPerMinute,
		LateDeductionEnabled:   cfg.Payroll.LateDeductionPerMinute.IsPositive(),
		LateDeductionPerMinute: cfg.Payroll.LateDeductionPerMinute,
	}, loc)
	reportSvc := reportService.NewReportService(repos.attendance, repos.employee, loc)

	scheduler := cron.NewScheduler()
	cron.NewAttendanceJobs(attendanceSvc, cfg.Attendance.RetentionSweepInterval).RegisterJobs(scheduler)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	router := appHTTP.NewRouter(appHTTP.RouterOptions{
		AppName:        appName,
		Version:        appVersion,
		Env:            cfg.App.Env,
		LogLevel:       cfg.SlogLevel(),
		AllowedOrigins: cfg.App.CORSAllowedOrigins,
	}, JWTService, appHTTP.Handlers{
		Attendance:   appHTTP.NewAttendanceHandler(attendanceSvc),
		Dashboard:    appHTTP.NewDashboardHandler(dashboardSvc),
		Notification: appHTTP.NewNotificationHandler(notifSvc, JWTService),
		Payroll:      appHTTP.NewPayrollHandler(payrollSvc),
		Report:       appHTTP.NewReportHandler(reportSvc),
		Holiday:      appHTTP.NewHolidayHandler(holidaySvc),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "storage", cfg.Database.Driver, "timezone", loc.String())
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
