package router

import (
	"time"

	"github.com/cronpulse-dev/cronpulse/internal/handlers"
	"github.com/cronpulse-dev/cronpulse/internal/heartbeat"
	"github.com/cronpulse-dev/cronpulse/internal/middleware"
	"github.com/cronpulse-dev/cronpulse/internal/types"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(ingestor *heartbeat.Ingestor) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With", "X-Api-Key"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Public surfaces: heartbeats and status badges carry no credentials
	// beyond the slug itself.
	r.GET("/ping/:slug", handlers.ReceivePing(ingestor))
	r.POST("/ping/:slug", handlers.ReceivePing(ingestor))
	r.GET("/badge/:slug", handlers.Badge)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.CreateUser)
			auth.POST("/login", handlers.LoginUser)
			auth.POST("/logout", handlers.LogoutUser)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
		}

		monitors := api.Group("/monitors", middleware.AuthMiddleware())
		{
			monitors.POST("", handlers.CreateMonitor)
			monitors.GET("", handlers.ListMonitors)
			monitors.GET("/:monitor_id", handlers.GetMonitor)
			monitors.PUT("/:monitor_id", handlers.UpdateMonitor)
			monitors.DELETE("/:monitor_id", handlers.DeleteMonitor)
			monitors.POST("/:monitor_id/pause", handlers.PauseMonitor)
			monitors.POST("/:monitor_id/resume", handlers.ResumeMonitor)
		}

		settings := api.Group("/settings", middleware.AuthMiddleware())
		{
			settings.PUT("/alerts", handlers.UpdateAlertSettings)
			settings.PUT("/password", handlers.ChangePassword)
			settings.POST("/api-key", handlers.RegenerateAPIKey)
		}
	}

	return r
}
