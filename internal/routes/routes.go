package routes

import (
	"os"

	"github.com/gin-gonic/gin"

	"github.com/Blackfireoff/Incident-Factory/internal/controllers"
	"github.com/Blackfireoff/Incident-Factory/internal/middleware"
	"github.com/Blackfireoff/Incident-Factory/internal/services"
)

// SetupRoutes configures all application routes. It returns the feed
// registry so the caller can shut it down with the server.
func SetupRoutes(r *gin.Engine, source services.DataSource) *services.FeedRegistry {
	// Initialize services
	assistantService := services.NewAssistantService(os.Getenv("BACKEND_URL"))
	feeds := services.NewFeedRegistry(source)

	// Initialize controllers
	incidentController := controllers.NewIncidentController(source, feeds)
	dashboardController := controllers.NewDashboardController(source)
	assistantController := controllers.NewAssistantController(assistantService)

	// API routes
	api := r.Group("/api/v1")
	api.Use(middleware.SessionMiddleware())
	{
		// Incidents
		incidents := api.Group("/incidents")
		{
			incidents.GET("", incidentController.ListIncidents)
			incidents.GET("/filter-options", incidentController.GetFilterOptions)
			incidents.GET("/:id", incidentController.GetIncident)
		}

		// Dashboard
		dashboard := api.Group("/dashboard")
		{
			dashboard.GET("/summary", dashboardController.GetSummary)
		}

		// Assistant
		assistant := api.Group("/assistant")
		{
			assistant.POST("/query", assistantController.Query)
			assistant.POST("/chart", assistantController.Chart)
			assistant.POST("/report", assistantController.Report)
		}
	}

	return feeds
}
