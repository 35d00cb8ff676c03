// Package middleware provides HTTP middleware for the API.
//
// Go Pattern: Middleware in Go is a function that wraps an HTTP handler.
// In Gin, middleware is a gin.HandlerFunc that calls c.Next() to continue
// the chain, or c.Abort() to stop processing. This is similar to Express.js
// middleware, but with explicit control flow.
package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/resume-review-api/internal/models"
)

// contextKey is a custom type for context keys to avoid collisions.
// Go Pattern: Use unexported types for context keys so other packages
// can't accidentally overwrite your values.
type contextKey string

const (
	studentEmailKey contextKey = "student_email"
	cooldownKey     contextKey = "review_cooldown"
)

// AdminKeyHeader carries the admin API key.
const AdminKeyHeader = "X-Admin-Key"

// AdminKeyAuth returns middleware that guards roster management.
//
// How it works:
// 1. Read the X-Admin-Key header
// 2. Hash both sides and compare in constant time
// 3. If they match, continue; otherwise 401 Unauthorized
//
// With no admin key configured the admin routes are switched off entirely.
func AdminKeyAuth(adminKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if adminKey == "" {
			c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
				Error:   "admin_disabled",
				Message: "Admin routes are disabled; set ADMIN_API_KEY to enable them",
				Code:    http.StatusServiceUnavailable,
			})
			c.Abort()
			return
		}

		if !IsAdminRequest(c, adminKey) {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "unauthorized",
				Message: "Missing or invalid " + AdminKeyHeader + " header",
				Code:    http.StatusUnauthorized,
			})
			c.Abort() // Stop the middleware chain; the handler never runs
			return
		}

		c.Next()
	}
}

// HashAPIKey creates a SHA-256 hash of an API key.
// Comparing fixed-length hashes keeps the comparison time independent of
// how much of the key an attacker guessed.
func HashAPIKey(key string) string {
	hash := sha256.Sum256([]byte(key))
	return fmt.Sprintf("%x", hash)
}

// keysMatch compares two raw keys without leaking timing information.
func keysMatch(given, want string) bool {
	return subtle.ConstantTimeCompare([]byte(HashAPIKey(given)), []byte(HashAPIKey(want))) == 1
}
