package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tradelink_backend/internal/handlers"
	"tradelink_backend/internal/middleware"
)

// SetupRoutes registers the HTTP surface. Admin checks for the analytics
// reports live in the service layer, so the routes only require a valid
// token where one is needed to identify the caller.
func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	analyticsHandler *handlers.AnalyticsHandler,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}

	analyticsGroup := api.Group("/analytics")
	analyticsGroup.Use(middleware.AuthMiddleware())
	{
		analyticsGroup.GET("/active-users", analyticsHandler.GetActiveUsers)
		analyticsGroup.GET("/funnel", analyticsHandler.GetConversionFunnel)
		analyticsGroup.GET("/subscriptions", analyticsHandler.GetSubscriptionMetrics)
		analyticsGroup.GET("/operational", analyticsHandler.GetOperationalLoad)
	}
}
