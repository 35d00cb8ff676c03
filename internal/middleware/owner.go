package middleware

import "github.com/gin-gonic/gin"

// IsAdminRequest reports whether the request carries the configured admin
// key. Admin requests skip the per-client rate limit.
func IsAdminRequest(c *gin.Context, adminKey string) bool {
	if adminKey == "" {
		return false
	}
	given := c.GetHeader(AdminKeyHeader)
	if given == "" {
		return false
	}
	return keysMatch(given, adminKey)
}
