package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/attendance-saas-go/internal/config"
	"github.com/cmlabs-hris/attendance-saas-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-saas-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type Handlers struct {
	Auth       AuthHandler
	Attendance AttendanceHandler
	Company    CompanyHandler
	Dashboard  DashboardHandler
	Employee   EmployeeHandler
	Hardware   HardwareHandler
	Tracking   TrackingHandler
	Saas       SaasHandler
}

func NewRouter(cfg config.AppConfig, JWTService jwt.Service, devices middleware.DeviceAuthenticator, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.Env != "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-saas"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.HeaderDeviceID, middleware.HeaderDeviceKey},
		ExposedHeaders:   []string{"Link"},
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
			r.Post("/saas/login", h.Auth.LoginSuperAdmin)
			r.Post("/company/login", h.Auth.LoginCompanyAdmin)
			r.Post("/employee/login", h.Auth.LoginEmployee)
		})

		// Door terminals authenticate with their own credentials
		r.Group(func(r chi.Router) {
			r.Use(middleware.DeviceAuth(devices))
			r.Post("/hardware/push-log", h.Hardware.PushLog)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireEmployee)
				r.Get("/me", h.Attendance.Me)
				r.Get("/history", h.Attendance.History)

				r.Route("/attendance", func(r chi.Router) {
					r.Post("/check-in", h.Attendance.CheckIn)
					r.Post("/door-unlock", h.Attendance.UnlockDoor)
					r.Post("/check-out", h.Attendance.CheckOut)
					r.Post("/emergency-checkout", h.Attendance.EmergencyCheckout)
					r.Post("/late-reason", h.Attendance.SubmitLateReason)
					r.Post("/short-leave/request", h.Attendance.RequestShortLeave)
					r.Post("/short-leave/return", h.Attendance.ReturnFromShortLeave)
				})

				r.Route("/tracking", func(r chi.Router) {
					r.Post("/start", h.Tracking.Start)
					r.Post("/stop", h.Tracking.Stop)
					r.Post("/update", h.Tracking.Update)
				})
			})

			r.Route("/company", func(r chi.Router) {
				r.Use(middleware.RequireCompanyAdmin)

				r.Get("/dashboard", h.Dashboard.GetDaily)

				r.Route("/employees", func(r chi.Router) {
					r.Get("/", h.Employee.List)
					r.Post("/", h.Employee.Create)
					r.Post("/restore", h.Employee.Restore)
					r.Route("/{employee_id}", func(r chi.Router) {
						r.Get("/", h.Employee.Get)
						r.Put("/", h.Employee.Update)
						r.Delete("/", h.Employee.Delete)
						r.Post("/reset-device", h.Employee.ResetDevice)
						r.Get("/attendance", h.Attendance.EmployeeHistory)
					})
				})

				r.Route("/settings", func(r chi.Router) {
					r.Get("/", h.Company.GetSettings)
					r.Put("/location", h.Company.UpdateGeofence)
					r.Put("/schedule", h.Company.UpdateSchedule)
				})

				r.Get("/devices", h.Company.ListDevices)
				r.Post("/devices/emergency-open", h.Company.EmergencyOpen)
				r.Post("/attendance/manual", h.Attendance.ManualAttendance)

				r.Route("/audit", func(r chi.Router) {
					r.Get("/attendance", h.Attendance.AuditAttendance)
					r.Get("/short_leaves", h.Attendance.AuditShortLeaves)
					r.Get("/door_events", h.Company.ListDoorEvents)
				})

				r.Get("/tracking/live", h.Tracking.Live)
				r.Get("/tracking/stream", h.Tracking.Stream)
			})

			r.Route("/saas", func(r chi.Router) {
				r.Use(middleware.RequireSuperAdmin)

				r.Route("/companies", func(r chi.Router) {
					r.Get("/", h.Saas.ListCompanies)
					r.Post("/", h.Saas.CreateCompany)
					r.Put("/{id}", h.Saas.UpdateCompany)
					r.Delete("/{id}", h.Saas.DeleteCompany)
				})

				r.Get("/hardware", h.Saas.ListHardware)
				r.Put("/hardware/{id}", h.Saas.UpdateHardware)
				r.Post("/sync/zkteco", h.Saas.SyncZKTeco)
				r.Post("/door/emergency-open", h.Company.EmergencyOpen)
			})
		})
	})

	return r
}
