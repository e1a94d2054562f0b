package routes

import (
	"app/handlers"
	"app/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes defines all the routes for the application.
func SetupRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// --- AI utility routes ---
	aiGroup := api.Group("/ai", middleware.JWTMiddleware)
	aiGroup.Post("/classify", handlers.HandleClassifyExpense)

	// --- Per-business analytics routes ---
	business := api.Group("/businesses/:businessId/ai", middleware.JWTMiddleware)
	business.Get("/dashboard", handlers.HandleGetDashboardStats)
	business.Get("/predict", handlers.HandlePredictProfit)
	business.Get("/reorders", handlers.HandleGetReorderRecommendations)
	business.Get("/items/:itemId/demand-forecast", handlers.HandleGetDemandForecast)
	business.Post("/csv-analysis", handlers.HandleCSVAnalysis)
	business.Get("/advanced-analytics", handlers.HandleGetAdvancedAnalytics)
	business.Get("/export-data", handlers.HandleExportData)
	business.Get("/forecast-narrative", handlers.HandleForecastNarrative)
}
