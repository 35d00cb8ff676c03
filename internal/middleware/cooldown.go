// cooldown.go limits each browser to one AI review per window.
//
// The last review time lives in an httpOnly cookie. It is signed as a JWT so
// a student can't clear the limit by editing the cookie; deleting it is
// still possible, and the per-client RateLimiter backstops that.
package middleware

import (
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Shimizu-Technology/resume-review-api/internal/models"
)

// CooldownCookie is the cookie that remembers the last review.
const CooldownCookie = "lastResumeReviewTime"

// cooldown is stored in the gin context so the handler can start the
// window only once a review actually succeeded.
type cooldown struct {
	secret string
	window time.Duration
	secure bool
}

// ReviewCooldown returns middleware that rejects a review request when the
// previous one happened less than `window` ago. When disabled it lets every
// request through and StartCooldown becomes a no-op.
func ReviewCooldown(secret string, window time.Duration, enabled, secure bool) gin.HandlerFunc {
	cd := &cooldown{secret: secret, window: window, secure: secure}

	return func(c *gin.Context) {
		if !enabled {
			c.Next()
			return
		}

		if raw, err := c.Cookie(CooldownCookie); err == nil {
			if last, ok := cd.lastReview(raw); ok {
				if left := cd.window - time.Since(last); left > 0 {
					c.JSON(http.StatusTooManyRequests, models.ErrorResponse{
						Error:   "rate_limit_exceeded",
						Message: CooldownMessage(left),
						Code:    http.StatusTooManyRequests,
					})
					c.Abort()
					return
				}
			}
		}

		c.Set(string(cooldownKey), cd)
		c.Next()
	}
}

// CooldownMessage tells the student how many whole minutes remain,
// rounded up so "0 minutes" is never shown.
func CooldownMessage(left time.Duration) string {
	minutes := int(math.Ceil(left.Minutes()))
	return fmt.Sprintf("Rate limit exceeded. Please wait %d minutes before requesting another review.", minutes)
}

// StartCooldown sets the cooldown cookie. Handlers call it after a
// successful review and before writing the response body.
func StartCooldown(c *gin.Context) {
	val, ok := c.Get(string(cooldownKey))
	if !ok {
		return
	}
	cd, ok := val.(*cooldown)
	if !ok {
		return
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(cd.window)),
		Subject:   GetStudentEmail(c),
	})
	signed, err := token.SignedString([]byte(cd.secret))
	if err != nil {
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(CooldownCookie, signed, int(cd.window.Seconds()), "/", "", cd.secure, true)
}

// lastReview returns when the cookie was issued. A cookie that fails
// verification counts as "no previous review".
func (cd *cooldown) lastReview(raw string) (time.Time, bool) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(cd.secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid || claims.IssuedAt == nil {
		return time.Time{}, false
	}
	return claims.IssuedAt.Time, true
}
