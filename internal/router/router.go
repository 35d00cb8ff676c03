// Package router sets up all HTTP routes for the API.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/resume-review-api/internal/config"
	"github.com/Shimizu-Technology/resume-review-api/internal/handlers"
	"github.com/Shimizu-Technology/resume-review-api/internal/middleware"
)

// Setup creates and configures the Gin router with all routes.
// The rate limiter is owned by the caller so it can be stopped on shutdown.
func Setup(h *handlers.Handler, cfg *config.Config, rateLimiter *middleware.RateLimiter) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	api := r.Group("/api/v1")
	api.Use(rateLimiter.RateLimit())

	// --- Public Routes (no auth required) ---
	api.GET("/health", h.HealthCheck)
	api.POST("/access", h.RequestAccess)

	// --- Student routes (access token from /access) ---
	student := api.Group("")
	student.Use(middleware.AccessAuth(cfg.JWTSecret))
	{
		resume := student.Group("/resume")
		resume.POST("/extract", h.ExtractResume)
		resume.POST("/validate", h.ValidateResume)
		resume.POST("/upload", h.UploadResume)
		resume.GET("/history", h.ListHistory)

		// One AI review per cooldown window
		cooldown := middleware.ReviewCooldown(cfg.JWTSecret, cfg.ReviewCooldown, cfg.RateLimitEnabled, cfg.GinMode == "release")
		resume.POST("/review", cooldown, h.ReviewResume)

		resume.PUT("/score", h.UpdateScore)
		resume.PUT("/linkedin", h.UpdateLinkedIn)
		resume.PUT("/drive-link", h.UpdateResumeLink)

		student.POST("/notify", h.SendNotification)
	}

	// --- Admin routes (X-Admin-Key) ---
	admin := api.Group("/admin")
	admin.Use(middleware.AdminKeyAuth(cfg.AdminAPIKey))
	{
		admin.POST("/students", h.AddStudents)
		admin.GET("/roster.xlsx", h.ExportRoster)
	}

	return r
}
