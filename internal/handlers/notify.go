// notify.go lets the front end announce activity to staff.
//
// POST /api/v1/notify   Send one Discord notification now
package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/resume-review-api/internal/middleware"
	"github.com/Shimizu-Technology/resume-review-api/internal/models"
	"github.com/Shimizu-Technology/resume-review-api/internal/services/notify"
)

// SendNotification posts an event for the signed-in student.
// POST /api/v1/notify
func (h *Handler) SendNotification(c *gin.Context) {
	var req models.NotifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", "Missing required fields")
		return
	}
	ev, ok := notify.ParseEvent(req.Event)
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid_event", "Unknown event: "+req.Event)
		return
	}

	email := middleware.GetStudentEmail(c)
	err := h.Notifier.Send(c.Request.Context(), ev, email)
	if errors.Is(err, notify.ErrNotConfigured) {
		respondError(c, http.StatusServiceUnavailable, "notifications_disabled", "Discord webhook not configured")
		return
	}
	if err != nil {
		log.Printf("❌ Failed to send %s notification for %s: %v", ev, email, err)
		respondError(c, http.StatusBadGateway, "notification_failed", "Failed to send notification")
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Success: true})
}
