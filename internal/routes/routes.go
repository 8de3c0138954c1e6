package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/huseyingedek/geras-api/internal/cache"
	"github.com/huseyingedek/geras-api/internal/config"
	domain "github.com/huseyingedek/geras-api/internal/domain/appointment"
	"github.com/huseyingedek/geras-api/internal/handlers"
	"github.com/huseyingedek/geras-api/internal/middleware"
	ucAppointment "github.com/huseyingedek/geras-api/internal/usecase/appointment"
	"github.com/huseyingedek/geras-api/internal/usecase/workinghours"
)

// Dependencies are built once in main and shared by every handler.
type Dependencies struct {
	DB       *gorm.DB
	Repo     domain.Repository
	Audit    ucAppointment.AuditSink
	Notifier ucAppointment.Notifier
	Cache    cache.Availability
}

func RegisterRoutes(r *gin.Engine, deps Dependencies, cfg *config.Config) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog())
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// HANDLERS
	// ======================================================
	appointmentHandler := handlers.NewAppointmentHandler(ucAppointment.Deps{
		Repo:     deps.Repo,
		Audit:    deps.Audit,
		Notifier: deps.Notifier,
		Cache:    deps.Cache,
	})

	workingHoursHandler := handlers.NewWorkingHoursHandler(workinghours.Deps{
		Repo:  deps.Repo,
		Audit: deps.Audit,
		Cache: deps.Cache,
	})

	auditLogsHandler := handlers.NewAuditLogsHandler(deps.DB)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		can := middleware.RequirePermission

		// ------------------------------
		// APPOINTMENTS
		// ------------------------------
		ap := api.Group("/appointments")
		{
			ap.POST("/quick", can("appointments", "create"), appointmentHandler.CreateQuick)
			ap.POST("", can("appointments", "create"), appointmentHandler.Create)

			ap.GET("", can("appointments", "read"), appointmentHandler.List)
			ap.GET("/by-date", can("appointments", "read"), appointmentHandler.ListByDate)
			ap.GET("/today", can("appointments", "read"), appointmentHandler.ListToday)
			ap.GET("/weekly", can("appointments", "read"), appointmentHandler.ListWeekly)
			ap.GET("/staff-availability", can("appointments", "read"), appointmentHandler.StaffAvailability)
			ap.POST("/validate-time", can("appointments", "read"), appointmentHandler.ValidateTime)

			ap.GET("/:id", can("appointments", "read"), appointmentHandler.Get)
			ap.PUT("/:id", can("appointments", "update"), appointmentHandler.Update)
			ap.PATCH("/:id/complete", can("appointments", "update"), appointmentHandler.Complete)
			ap.DELETE("/:id", can("appointments", "delete"), appointmentHandler.Delete)
		}

		// ------------------------------
		// STAFF WORKING HOURS
		// ------------------------------
		api.GET("/staff/:staffId/working-hours", can("staff", "read"), workingHoursHandler.Get)
		api.PUT("/staff/:staffId/working-hours", can("staff", "update"), workingHoursHandler.Update)

		// ------------------------------
		// AUDIT
		// ------------------------------
		api.GET("/audit-logs", can("audit", "read"), auditLogsHandler.List)
	}
}
