// access.go lets roster students sign in with just their email.
//
// POST /api/v1/access   Exchange a roster email for a bearer token
package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/resume-review-api/internal/database"
	"github.com/Shimizu-Technology/resume-review-api/internal/middleware"
	"github.com/Shimizu-Technology/resume-review-api/internal/models"
	"github.com/Shimizu-Technology/resume-review-api/internal/services/notify"
)

// MsgNotAuthorized is shown to emails that aren't on the roster.
const MsgNotAuthorized = "Email not authorized. For now, this is only available to Uplift Code Camp students. Please contact us if you are a student and want to use this service."

// RequestAccess checks the roster and issues an access token.
// POST /api/v1/access
func (h *Handler) RequestAccess(c *gin.Context) {
	var req models.AccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", "A valid email is required")
		return
	}
	email := database.NormalizeEmail(req.Email)

	allowed, err := h.DB.IsAllowedEmail(c.Request.Context(), email)
	if err != nil {
		log.Printf("❌ Roster lookup failed for %s: %v", email, err)
		respondError(c, http.StatusInternalServerError, "database_error", "Internal server error")
		return
	}

	if !allowed {
		log.Printf("⚠️  Unauthorized access attempt from %s", email)
		h.Notifier.Notify(notify.EventUnauthorizedAccess, email)
		respondError(c, http.StatusForbidden, "forbidden", MsgNotAuthorized)
		return
	}

	token, expiresAt, err := middleware.GenerateAccessToken(email, h.JWTSecret, time.Now())
	if err != nil {
		log.Printf("❌ Failed to sign access token: %v", err)
		respondError(c, http.StatusInternalServerError, "token_error", "Failed to issue access token")
		return
	}

	c.JSON(http.StatusOK, models.AccessResponse{
		Token:     token,
		Email:     email,
		ExpiresAt: expiresAt,
	})
}
