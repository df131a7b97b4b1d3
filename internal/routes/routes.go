package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbersaas/internal/audit"
	"github.com/BruksfildServices01/barbersaas/internal/automation"
	"github.com/BruksfildServices01/barbersaas/internal/config"
	"github.com/BruksfildServices01/barbersaas/internal/handlers"
	infraRepo "github.com/BruksfildServices01/barbersaas/internal/infra/repository"
	"github.com/BruksfildServices01/barbersaas/internal/media"
	"github.com/BruksfildServices01/barbersaas/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/barbersaas/internal/usecase/appointment"
	ucBarber "github.com/BruksfildServices01/barbersaas/internal/usecase/barber"
)

// Dependencies são os singletons montados no main.
type Dependencies struct {
	Config    *config.Config
	Store     *infraRepo.SnapshotStore
	Scheduler *automation.Scheduler
	Outbox    ucAppointment.SyncQueue
	Audit     *audit.Dispatcher
	// nil quando DATABASE_URL não está definido
	AuditLogs *audit.Logger
	// nil quando o S3 não está configurado
	Objects  media.Store
	Location *time.Location
}

func RegisterRoutes(r *gin.Engine, deps Dependencies) {
	cfg := deps.Config
	store := deps.Store

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	// ======================================================
	// USE CASES: APPOINTMENTS
	// ======================================================
	createBookingUC := ucAppointment.NewCreateBooking(store, deps.Outbox, deps.Audit, deps.Location)
	availabilityUC := ucAppointment.NewGetAvailability(store, deps.Location)
	rateUC := ucAppointment.NewRateAppointment(store, deps.Audit)

	confirmUC := ucAppointment.NewConfirmAppointment(store, deps.Outbox, deps.Audit)
	refuseUC := ucAppointment.NewRefuseAppointment(store, deps.Outbox, deps.Audit)
	completeUC := ucAppointment.NewCompleteAppointment(store, deps.Outbox, deps.Audit)
	patchUC := ucAppointment.NewPatchAppointment(store, deps.Outbox, deps.Audit)

	listByDateUC := ucAppointment.NewListAppointmentsByDate(store)
	listByMonthUC := ucAppointment.NewListAppointmentsByMonth(store)

	// ======================================================
	// USE CASES: BARBERS
	// ======================================================
	authUC := ucBarber.NewAuthenticate(store)
	replaceBarbersUC := ucBarber.NewReplaceBarbers(store)
	toggleBlockUC := ucBarber.NewToggleBlock(store, deps.Audit)
	uploadPhotoUC := ucBarber.NewUploadPhoto(store, deps.Objects, deps.Audit)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(authUC, cfg)
	publicHandler := handlers.NewPublicHandler(store, createBookingUC, availabilityUC, rateUC)
	clientHandler := handlers.NewClientHandler(store)
	meHandler := handlers.NewMeHandler(store, toggleBlockUC, uploadPhotoUC)
	appointmentHandler := handlers.NewAppointmentHandler(
		confirmUC,
		refuseUC,
		completeUC,
		patchUC,
		listByDateUC,
		listByMonthUC,
	)
	barbershopHandler := handlers.NewBarbershopHandler(store, replaceBarbersUC, deps.Outbox, deps.Audit)
	automationHandler := handlers.NewAutomationHandler(store, deps.Scheduler)

	// ======================================================
	// HEALTH
	// ======================================================
	r.GET("/health", automationHandler.Health)

	// ======================================================
	// PAINEL ADMIN
	// ======================================================
	admin := r.Group("/")
	admin.Use(middleware.AdminMiddleware(cfg.AdminToken))
	{
		admin.GET("/bootstrap", barbershopHandler.Bootstrap)
		admin.POST("/sync/bulk", barbershopHandler.SyncBulk)

		admin.PATCH("/appointments/:id", appointmentHandler.Patch)
		admin.PATCH("/barbers/:id", barbershopHandler.PatchBarber)

		admin.PUT("/services", barbershopHandler.ReplaceServices)
		admin.PUT("/barbers", barbershopHandler.ReplaceBarbers)
		admin.PUT("/settings/monthly-goal", barbershopHandler.SetMonthlyGoal)
		admin.GET("/clients", clientHandler.List)

		admin.GET("/automation/status", automationHandler.Status)
		admin.GET("/automation/logs", automationHandler.Logs)
		admin.POST("/automation/run", automationHandler.Run)

		if deps.AuditLogs != nil {
			auditLogsHandler := handlers.NewAuditLogsHandler(deps.AuditLogs)
			admin.GET("/audit-logs", auditLogsHandler.List)
		}
	}

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// API PÚBLICA
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/services", publicHandler.ListServices)
			publicAPI.GET("/barbers", publicHandler.ListBarbers)
			publicAPI.GET("/availability", publicHandler.Availability)
			publicAPI.POST("/appointments", publicHandler.CreateAppointment)
			publicAPI.POST("/appointments/:id/rating", publicHandler.RateAppointment)
			publicAPI.POST("/clients/upsert", clientHandler.Upsert)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/barber", authHandler.BarberLogin)

		// ------------------------------
		// API DO BARBEIRO
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.PUT("/me/blocks", meHandler.ToggleBlock)
			secured.POST("/me/photo", meHandler.UploadPhoto)

			secured.GET("/me/appointments", appointmentHandler.ListByDate)
			secured.GET("/me/appointments/month", appointmentHandler.ListByMonth)
			secured.PATCH("/me/appointments/:id/confirm", appointmentHandler.Confirm)
			secured.PATCH("/me/appointments/:id/refuse", appointmentHandler.Refuse)
			secured.PATCH("/me/appointments/:id/complete", appointmentHandler.Complete)
		}
	}
}
