package api

import (
	"multizone/internal/metrics"
	"multizone/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(userHandler *UserHandler, flagHandler *FlagHandler, zoneHandler *ZoneHandler, rdb *redis.Client, requestsPerSecond int) *gin.Engine {
	r := gin.New()

	// Global Middleware
	r.Use(
		middleware.CorsMiddleware(),
		middleware.RequestID(),
		middleware.GinZapLogger(),
		middleware.GinZapRecovery(),
		middleware.HTTPMetrics(),
	)
	r.SetTrustedProxies(nil)

	r.GET("/health", zoneHandler.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Rate Limiter for Write Operations
	writeLimiter := middleware.RateLimitMiddleware(rdb, requestsPerSecond)

	api := r.Group("/api")
	{
		api.GET("/zones/status", zoneHandler.ZonesStatus)

		api.GET("/users", userHandler.ListUsers)
		api.POST("/users", writeLimiter, userHandler.CreateUser)
		api.GET("/users/:id", userHandler.GetUser)
		api.DELETE("/users/:id", writeLimiter, userHandler.DeleteUser)

		api.POST("/seed", writeLimiter, userHandler.SeedUsers)

		api.GET("/feature-flags", flagHandler.ListFlags)
		api.GET("/feature-flags/:key", flagHandler.GetFlag)
		api.POST("/feature-flags", writeLimiter, flagHandler.CreateFlag)
		api.PATCH("/feature-flags/:key", writeLimiter, flagHandler.UpdateFlag)
		api.DELETE("/feature-flags/:key", writeLimiter, flagHandler.DeleteFlag)
	}

	return r
}
