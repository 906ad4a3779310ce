package routes

import (
	"mrp-service/internal/handlers"
	"mrp-service/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configura todas las rutas de la aplicación
func SetupRoutes(router *gin.Engine, planHandler *handlers.PlanHandler, monitoringHandler *handlers.MonitoringHandler, healthChecker *middleware.HealthChecker) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Plan de requerimientos
		mrp := v1.Group("/mrp")
		{
			mrp.POST("/plan", planHandler.RunPlan)

			// Histórico de corridas
			mrp.GET("/runs", planHandler.ListRuns)
			mrp.GET("/runs/:id", planHandler.GetRun)
			mrp.GET("/runs/:id/export", planHandler.ExportRun)
		}

		// Monitoring routes
		monitoring := v1.Group("/monitoring")
		{
			monitoring.GET("/metrics", monitoringHandler.GetMetrics)
			monitoring.GET("/ws", monitoringHandler.WebSocketMetrics)
		}
	}

	// Health check (mantener en raíz para compatibilidad)
	router.GET("/health", healthChecker.HealthCheck)
	router.GET("/health/monitoring", monitoringHandler.HealthCheck)

	// API info en raíz
	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "MRP Service API",
			"version": "1.0.0",
			"status":  "running",
			"endpoints": gin.H{
				"health": "/health",
				"api":    "/api/v1",
				"mrp": gin.H{
					"plan":       "POST /api/v1/mrp/plan",
					"runs":       "GET /api/v1/mrp/runs",
					"run":        "GET /api/v1/mrp/runs/:id",
					"run_export": "GET /api/v1/mrp/runs/:id/export",
				},
				"monitoring": gin.H{
					"metrics": "GET /api/v1/monitoring/metrics",
					"ws":      "GET /api/v1/monitoring/ws",
				},
			},
		})
	})
}
