package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/service-scheduler/internal/audit"
	"github.com/BruksfildServices01/service-scheduler/internal/config"
	"github.com/BruksfildServices01/service-scheduler/internal/handlers"
	infraRepo "github.com/BruksfildServices01/service-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/service-scheduler/internal/lock"
	"github.com/BruksfildServices01/service-scheduler/internal/middleware"
	"github.com/BruksfildServices01/service-scheduler/internal/payment"
	ucAppointment "github.com/BruksfildServices01/service-scheduler/internal/usecase/appointment"
	ucAvailability "github.com/BruksfildServices01/service-scheduler/internal/usecase/availability"
)

// Deps are the process-wide singletons built by main. Zero values fall
// back to in-process implementations.
type Deps struct {
	Locker   lock.Locker
	Verifier payment.Verifier
	Audit    *audit.Dispatcher
	Ready    []handlers.ReadyCheck
}

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, deps Deps) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	availabilityRepo := infraRepo.NewAvailabilityGormRepository(db)

	locker := deps.Locker
	if locker == nil {
		locker = lock.NewLocalLocker()
	}
	verifier := deps.Verifier
	if verifier == nil {
		verifier = payment.ManualVerifier{}
	}

	auditLogger := audit.New(db)
	checker := ucAvailability.NewChecker()

	// ======================================================
	// USE CASES: AVAILABILITY
	// ======================================================
	setAvailabilityUC := ucAvailability.NewSetWeeklyAvailability(availabilityRepo, deps.Audit)
	getAvailabilityUC := ucAvailability.NewGetWeeklyAvailability(availabilityRepo)
	checkAvailabilityUC := ucAvailability.NewCheckAvailability(availabilityRepo, checker)

	// ======================================================
	// USE CASES: APPOINTMENTS
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreateAppointment(appointmentRepo, locker, checker, deps.Audit)
	updateAppointmentUC := ucAppointment.NewUpdateAppointment(appointmentRepo, locker, checker, deps.Audit)
	cancelAppointmentUC := ucAppointment.NewCancelAppointment(appointmentRepo, deps.Audit)
	payAppointmentUC := ucAppointment.NewPayAppointment(appointmentRepo, verifier, deps.Audit)
	getAppointmentUC := ucAppointment.NewGetAppointment(appointmentRepo)
	listAppointmentsUC := ucAppointment.NewListAppointments(appointmentRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	healthHandler := handlers.NewHealthHandler(deps.Ready...)
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	serviceHandler := handlers.NewServiceHandler(db)
	staffHandler := handlers.NewStaffHandler(db)

	availabilityHandler := handlers.NewAvailabilityHandler(
		setAvailabilityUC,
		getAvailabilityUC,
		checkAvailabilityUC,
	)

	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		updateAppointmentUC,
		cancelAppointmentUC,
		payAppointmentUC,
		getAppointmentUC,
		listAppointmentsUC,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(auditLogger)

	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PRIVATE API
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			owner := middleware.RequireOwner()

			secured.GET("/me", meHandler.GetMe)
			secured.GET("/business", meHandler.GetBusiness)
			secured.PUT("/business", owner, meHandler.UpdateBusiness)

			secured.GET("/services", serviceHandler.List)
			secured.POST("/services", owner, serviceHandler.Create)
			secured.PATCH("/services/:id", owner, serviceHandler.Update)

			secured.GET("/staff", staffHandler.List)
			secured.POST("/staff", owner, staffHandler.Create)
			secured.DELETE("/staff/:id", owner, staffHandler.Deactivate)

			secured.GET("/staff-services", staffHandler.ListServices)
			secured.POST("/staff-services", owner, staffHandler.CreateService)
			secured.PATCH("/staff-services/:id", owner, staffHandler.UpdateService)

			// ------------------------------
			// AVAILABILITY
			// ------------------------------
			secured.GET("/staff/:id/availability", availabilityHandler.Get)
			secured.PUT("/staff/:id/availability", availabilityHandler.Replace)
			secured.GET("/staff/:id/availability/check", availabilityHandler.Check)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/appointments", appointmentHandler.Create)
			secured.GET("/appointments", appointmentHandler.List)
			secured.GET("/appointments/:id", appointmentHandler.Get)
			secured.PATCH("/appointments/:id", appointmentHandler.Update)
			secured.POST("/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.POST("/appointments/:id/pay", appointmentHandler.Pay)

			secured.GET("/audit-logs", owner, auditLogsHandler.List)
		}
	}
}
