// cors.go configures Cross-Origin Resource Sharing (CORS).
//
// The upload form is served from its own origin, so browsers need CORS
// headers before they'll send resumes here. Credentials are allowed because
// the review cooldown travels as a cookie.
package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS returns configured CORS middleware.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", AdminKeyHeader},
		ExposeHeaders:    []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour, // Cache preflight responses
	})
}
