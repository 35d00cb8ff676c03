// access.go issues and checks the bearer tokens students use after their
// email has been found on the roster.
package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Shimizu-Technology/resume-review-api/internal/models"
)

// AccessTokenTTL is how long a student stays signed in.
const AccessTokenTTL = 72 * time.Hour

// AccessClaims extends standard JWT claims with the student's email.
type AccessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateAccessToken creates a signed token for a roster email.
func GenerateAccessToken(email, secret string, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(AccessTokenTTL)
	claims := AccessClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   email,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseAccessToken validates a token and returns its claims.
// Only HS256 is accepted so a token can't downgrade itself to "none".
func ParseAccessToken(tokenString, secret string) (*AccessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*AccessClaims); ok && token.Valid && claims.Email != "" {
		return claims, nil
	}
	return nil, jwt.ErrTokenInvalidClaims
}

// AccessAuth returns middleware that requires a valid Bearer token and
// stores the student's email in the context.
func AccessAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "unauthorized",
				Message: "Missing or invalid Authorization header. Use 'Bearer <token>' from POST /api/v1/access",
				Code:    http.StatusUnauthorized,
			})
			c.Abort()
			return
		}

		claims, err := ParseAccessToken(strings.TrimPrefix(authHeader, "Bearer "), secret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "unauthorized",
				Message: "Invalid or expired token",
				Code:    http.StatusUnauthorized,
			})
			c.Abort()
			return
		}

		// Go Pattern: Gin uses its own context (different from context.Context).
		// c.Set() stores values that handlers can retrieve with c.Get().
		c.Set(string(studentEmailKey), claims.Email)
		c.Next()
	}
}

// GetStudentEmail retrieves the authenticated email from the request context.
// Returns "" when AccessAuth didn't run.
func GetStudentEmail(c *gin.Context) string {
	// Go Pattern: c.GetString returns the zero value if the key is missing
	// or holds a different type, so no type assertion is needed.
	return c.GetString(string(studentEmailKey))
}
