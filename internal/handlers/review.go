// review.go asks the AI reviewer for feedback.
//
// POST /api/v1/resume/review   Feedback on resume text (one per cooldown window)
package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/resume-review-api/internal/middleware"
	"github.com/Shimizu-Technology/resume-review-api/internal/models"
	"github.com/Shimizu-Technology/resume-review-api/internal/services/review"
	"github.com/Shimizu-Technology/resume-review-api/internal/services/worker"
)

// ReviewResume returns AI feedback for the submitted text.
// POST /api/v1/resume/review
func (h *Handler) ReviewResume(c *gin.Context) {
	var req models.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", "Request body must be JSON: {\"text\": \"...\"}")
		return
	}
	email := middleware.GetStudentEmail(c)

	fb, err := h.Reviewer.Review(c.Request.Context(), req.Text)
	switch {
	case errors.Is(err, review.ErrEmptyText):
		respondError(c, http.StatusBadRequest, "invalid_request", "No resume text provided")
		return
	case errors.Is(err, review.ErrNotConfigured):
		log.Printf("❌ Review requested but provider not configured: %v", err)
		respondError(c, http.StatusServiceUnavailable, "review_disabled", "AI review is not available right now")
		return
	case err != nil:
		log.Printf("❌ Review failed for %s: %v", email, err)
		respondError(c, http.StatusInternalServerError, "review_failed", "Failed to analyze resume")
		return
	}

	resp := models.ReviewResponse{Feedback: fb.Text, Model: fb.Model}
	if score, ok := review.ExtractScore(fb.Text); ok {
		resp.Score = &score
	}

	h.queue(worker.JobRecordReview, worker.ReviewPayload{
		Email: email,
		Model: fb.Model,
		Score: resp.Score,
	})

	// The cooldown only starts once the student actually got feedback.
	middleware.StartCooldown(c)
	c.JSON(http.StatusOK, resp)
}
