package routes

import (
	"github.com/gin-gonic/gin"

	"smartmedical-server/internal/config"
	"smartmedical-server/internal/handlers"
	"smartmedical-server/internal/logger"
	"smartmedical-server/internal/middleware"
	"smartmedical-server/internal/monitoring"
	"smartmedical-server/internal/services"
)

// PatientRepository is what the routes need from patient storage: lookups
// for the core and CRUD for the patient endpoints.
type PatientRepository interface {
	services.PatientDirectory
	handlers.PatientStore
}

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, appointments services.AppointmentStore, patients PatientRepository, cfg *config.Config, log *logger.Logger) {
	router.Use(middleware.RequestID(), middleware.RequestLogger(log))
	if cfg.MetricsEnabled {
		router.Use(middleware.Metrics())
		router.GET("/metrics", gin.WrapH(monitoring.Handler()))
	}

	appointmentService := services.NewAppointmentService(appointments, patients,
		services.WithLogger(log),
		services.WithPageLimits(cfg.DefaultPageSize, cfg.MaxPageSize),
	)
	dashboardService := services.NewDashboardService(appointments, patients, services.SystemClock)

	// Initialize handlers
	appointmentHandler := handlers.NewAppointmentHandler(appointmentService)
	patientHandler := handlers.NewPatientHandler(patients)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	api := router.Group("/api")
	{
		appointmentRoutes := api.Group("/appointments")
		{
			appointmentRoutes.POST("", appointmentHandler.CreateAppointment)
			appointmentRoutes.GET("", appointmentHandler.GetAppointments)
			appointmentRoutes.GET("/upcoming", appointmentHandler.GetUpcomingAppointments)
			appointmentRoutes.GET("/patient/:patientId", appointmentHandler.GetAppointmentsForPatient)
			appointmentRoutes.GET("/range", appointmentHandler.GetAppointmentsInRange)
			appointmentRoutes.GET("/filter", appointmentHandler.FilterAppointments)
			appointmentRoutes.GET("/filterByStatusAndDate", appointmentHandler.FilterAppointmentsByStatusAndDate)
			appointmentRoutes.GET("/paged", appointmentHandler.GetPagedAppointments)

			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID)
			appointmentRoutes.PUT("/:id", appointmentHandler.UpdateAppointment)
			appointmentRoutes.DELETE("/:id", appointmentHandler.DeleteAppointment)
			appointmentRoutes.PUT("/:id/cancel", appointmentHandler.CancelAppointment)
		}

		patientRoutes := api.Group("/patients")
		{
			patientRoutes.POST("", patientHandler.CreatePatient)
			patientRoutes.GET("", patientHandler.GetPatients)
			patientRoutes.GET("/:id", patientHandler.GetPatientByID)
			patientRoutes.DELETE("/:id", patientHandler.DeletePatient)
		}

		api.GET("/dashboard", dashboardHandler.GetDashboard)
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
