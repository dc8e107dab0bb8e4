package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"flota-backend/internal/api/handlers"
	"flota-backend/internal/api/middleware"
	"flota-backend/pkg/jwt"
	"flota-backend/pkg/ratelimit"
)

// Dependencies carries everything the router needs. Main wires services and
// cross-cutting concerns together and hands the result here.
type Dependencies struct {
	JWTUtil *jwt.JWTUtil
	Limiter ratelimit.Limiter

	Auth        *handlers.AuthHandler
	Users       *handlers.UserHandler
	Vehicles    *handlers.VehicleHandler
	Maintenance *handlers.MaintenanceHandler
	Alerts      *handlers.AlertHandler
	Reports     *handlers.ReportHandler
	Health      *handlers.HealthHandler
}

func SetupRoutes(router *gin.Engine, deps *Dependencies) {
	router.GET("/health", deps.Health.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")

	auth := api.Group("/auth")
	if deps.Limiter != nil {
		auth.Use(middleware.RateLimitMiddleware(deps.Limiter))
	}
	{
		auth.POST("/register", deps.Auth.Register)
		auth.POST("/login", deps.Auth.Login)
		auth.POST("/refresh", deps.Auth.Refresh)
	}

	// The limiter sits behind auth so authenticated traffic is keyed by
	// user ID rather than source address.
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(deps.JWTUtil))
	if deps.Limiter != nil {
		protected.Use(middleware.RateLimitMiddleware(deps.Limiter))
	}
	{
		protected.GET("/auth/profile", deps.Auth.Profile)

		vehicles := protected.Group("/vehicles")
		{
			vehicles.GET("", deps.Vehicles.GetVehicles)
			vehicles.POST("", deps.Vehicles.CreateVehicle)
			vehicles.GET("/:plate", deps.Vehicles.GetVehicle)
			vehicles.PATCH("/:plate", deps.Vehicles.UpdateVehicle)
			vehicles.DELETE("/:plate", deps.Vehicles.DeleteVehicle)
			vehicles.PATCH("/:plate/km", deps.Vehicles.UpdateKilometraje)
			vehicles.POST("/:plate/documents", deps.Vehicles.AddDocument)
			vehicles.DELETE("/:plate/documents/:documentId", deps.Vehicles.RemoveDocument)
			vehicles.GET("/:plate/vigencia", deps.Vehicles.GetVigencia)
		}

		maintenance := protected.Group("/maintenance")
		{
			maintenance.POST("", deps.Maintenance.CreateRecord)
			maintenance.GET("", deps.Maintenance.GetRecords)
			maintenance.GET("/vehicle/:plate", deps.Maintenance.GetRecordsByPlate)
			maintenance.GET("/:id", deps.Maintenance.GetRecord)
			maintenance.DELETE("/:id", deps.Maintenance.DeleteRecord)
		}

		alerts := protected.Group("/alerts")
		{
			alerts.GET("", deps.Alerts.GetAlerts)
			alerts.GET("/digests", deps.Alerts.GetDigests)
		}

		protected.GET("/reports/costs", deps.Reports.GetCostReport)

		// User administration requires the ADMIN role on top of a valid token.
		users := protected.Group("/users")
		users.Use(middleware.RequireAdmin())
		{
			users.GET("", deps.Users.GetUsers)
			users.POST("/:id/approve", deps.Users.ApproveUser)
			users.PATCH("/:id", deps.Users.UpdateUser)
			users.DELETE("/:id", deps.Users.DeleteUser)
		}
	}
}
