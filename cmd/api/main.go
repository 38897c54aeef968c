package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cmlabs-hris/attendance-saas-go/internal/config"
	appHTTP "github.com/cmlabs-hris/attendance-saas-go/internal/handler/http"
	"github.com/cmlabs-hris/attendance-saas-go/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-saas-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-saas-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-saas-go/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-saas-go/internal/pkg/telemetry"
	"github.com/cmlabs-hris/attendance-saas-go/internal/pkg/zkteco"
	"github.com/cmlabs-hris/attendance-saas-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/attendance-saas-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/attendance-saas-go/internal/service/auth"
	serviceCompany "github.com/cmlabs-hris/attendance-saas-go/internal/service/company"
	dashboardService "github.com/cmlabs-hris/attendance-saas-go/internal/service/dashboard"
	deviceService "github.com/cmlabs-hris/attendance-saas-go/internal/service/device"
	employeeService "github.com/cmlabs-hris/attendance-saas-go/internal/service/employee"
	trackingService "github.com/cmlabs-hris/attendance-saas-go/internal/service/tracking"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel(cfg.App.LogLevel)})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing := telemetry.Setup(ctx, telemetry.Config{
		ServiceName: cfg.Telemetry.ServiceName,
		Endpoint:    cfg.Telemetry.OTLPEndpoint,
		Insecure:    cfg.Telemetry.Insecure,
	})

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		fmt.Println("Error applying schema:", err)
		return
	}

	transactor := postgresql.NewTransactor(db)
	superAdminRepo := postgresql.NewSuperAdminRepository(db)
	companyRepo := postgresql.NewCompanyRepository(db)
	companyAdminRepo := postgresql.NewCompanyAdminRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	shortLeaveRepo := postgresql.NewShortLeaveRepository(db)
	deviceRepo := postgresql.NewDeviceRepository(db)
	doorEventRepo := postgresql.NewDoorEventRepository(db)
	sessionRepo := postgresql.NewSessionRepository(db)
	locationRepo := postgresql.NewLocationRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	zkClient := zkteco.NewClient(cfg.ZKTeco.APIKey, cfg.ZKTeco.APIURL)
	liveHub := sse.NewHub()

	authService := serviceAuth.NewAuthService(superAdminRepo, companyRepo, companyAdminRepo, employeeRepo, JWTService, nil)
	companyService := serviceCompany.NewCompanyService(transactor, companyRepo, companyAdminRepo, deviceRepo, cfg.App.DefaultTimezone, nil)
	employeeService := employeeService.NewEmployeeService(employeeRepo, nil)
	attendanceService := attendanceService.NewAttendanceService(
		transactor,
		attendanceRepo,
		shortLeaveRepo,
		employeeRepo,
		companyRepo,
		doorEventRepo,
		cfg.Hardware.ClockSkew,
		nil,
	)
	deviceService := deviceService.NewDeviceService(
		deviceRepo,
		doorEventRepo,
		companyRepo,
		attendanceService,
		zkClient,
		liveHub,
		cfg.Hardware.DoorOpenMillis,
		nil,
	)
	dashboardService := dashboardService.NewDashboardService(companyRepo, employeeRepo, attendanceRepo, shortLeaveRepo, deviceRepo, nil)
	trackingService := trackingService.NewTrackingService(transactor, sessionRepo, locationRepo, employeeRepo, liveHub, nil)

	if err := authService.BootstrapSuperAdmin(ctx, cfg.SuperAdmin.Username, cfg.SuperAdmin.Password); err != nil {
		fmt.Println("Error creating super admin:", err)
		return
	}

	scheduler := cron.NewScheduler()
	cron.NewDeviceJobs(deviceService, cfg.ZKTeco.SyncInterval).RegisterJobs(scheduler)
	scheduler.Start(ctx)

	router := appHTTP.NewRouter(cfg.App, JWTService, deviceService, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(authService),
		Attendance: appHTTP.NewAttendanceHandler(attendanceService),
		Company:    appHTTP.NewCompanyHandler(companyService, deviceService),
		Dashboard:  appHTTP.NewDashboardHandler(dashboardService),
		Employee:   appHTTP.NewEmployeeHandler(employeeService),
		Hardware:   appHTTP.NewHardwareHandler(deviceService),
		Tracking:   appHTTP.NewTrackingHandler(trackingService),
		Saas:       appHTTP.NewSaasHandler(companyService, deviceService),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           otelhttp.NewHandler(router, "attendance-saas"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}
	scheduler.Stop()
	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Warn("Tracer shutdown error", "error", err)
	}
}

func logLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
