package api

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/homestaff/staff-ledger/internal/api/handler"
	"github.com/homestaff/staff-ledger/internal/api/middleware"
	"github.com/homestaff/staff-ledger/internal/core/ports"
)

// Services are the use cases the HTTP layer exposes.
type Services struct {
	Auth        ports.AuthService
	Workers     ports.WorkerService
	Ledger      ports.LedgerService
	Assignments ports.AssignmentService
	Attendance  ports.AttendanceService
	Payments    ports.PaymentService
}

// Options carries the ambient dependencies of the router.
type Options struct {
	Log zerolog.Logger
	// Health lists the dependencies checked by the readiness endpoint.
	Health map[string]handler.Pinger
	// Registerer receives the HTTP metrics. Defaults to the global registry.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svc Services, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Log)

	// --- Global middleware ---
	e.Pre(echomiddleware.AddTrailingSlashWithConfig(echomiddleware.TrailingSlashConfig{
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, "/swagger")
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(opts.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "staff_ledger",
		Registerer: opts.Registerer,
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Path(), "/metrics") || strings.HasPrefix(c.Path(), "/health")
		},
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(svc.Auth)
	workerHandler := handler.NewWorkerHandler(svc.Workers, svc.Ledger)
	assignmentHandler := handler.NewAssignmentHandler(svc.Assignments)
	attendanceHandler := handler.NewAttendanceHandler(svc.Attendance)
	paymentHandler := handler.NewPaymentHandler(svc.Payments)
	healthHandler := handler.NewHealthHandler(opts.Health)

	authMW := middleware.Auth(svc.Auth)
	ledgerMW := []echo.MiddlewareFunc{authMW, middleware.RequireCompleteProfile()}

	// --- Health, metrics and docs (no auth required) ---
	e.GET("/health/", healthHandler.Liveness)
	e.GET("/health/ready/", healthHandler.Readiness)
	e.GET("/metrics/", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	e.POST("/request-otp/", authHandler.RequestOTP)
	e.POST("/verify-otp/", authHandler.VerifyOTP)
	e.POST("/complete-profile/", authHandler.CompleteProfile, authMW)
	e.GET("/profile/", authHandler.Profile, authMW)

	// --- Ledger routes (token and complete profile) ---
	workers := e.Group("/workers", ledgerMW...)
	workers.GET("/", workerHandler.List)
	workers.POST("/", workerHandler.Create)
	workers.GET("/:id/", workerHandler.Get)
	workers.PUT("/:id/", workerHandler.Replace)
	workers.PATCH("/:id/", workerHandler.Update)
	workers.DELETE("/:id/", workerHandler.Delete)
	workers.POST("/:id/add_loan/", workerHandler.AddLoan)
	workers.POST("/:id/deduct_loan/", workerHandler.DeductLoan)
	workers.GET("/:id/adjustments/", workerHandler.Adjustments)

	assignments := e.Group("/assignments", ledgerMW...)
	assignments.GET("/", assignmentHandler.List)
	assignments.POST("/", assignmentHandler.Create)
	assignments.GET("/:id/", assignmentHandler.Get)
	assignments.PATCH("/:id/", assignmentHandler.Update)
	assignments.DELETE("/:id/", assignmentHandler.Delete)

	attendance := e.Group("/attendance", ledgerMW...)
	attendance.GET("/", attendanceHandler.List)
	attendance.POST("/", attendanceHandler.Create)
	attendance.POST("/bulk_create/", attendanceHandler.BulkCreate)
	attendance.GET("/:id/", attendanceHandler.Get)
	attendance.PATCH("/:id/", attendanceHandler.Update)
	attendance.DELETE("/:id/", attendanceHandler.Delete)

	payments := e.Group("/payments", ledgerMW...)
	payments.GET("/", paymentHandler.List)
	payments.POST("/", paymentHandler.Create)
	payments.GET("/:id/", paymentHandler.Get)
	payments.PATCH("/:id/", paymentHandler.Update)

	return e
}
