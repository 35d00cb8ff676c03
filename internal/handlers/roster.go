// roster.go lets signed-in students update their own roster row.
//
// PUT /api/v1/resume/score        Record a review score
// PUT /api/v1/resume/linkedin     Record the LinkedIn profile URL
// PUT /api/v1/resume/drive-link   Record where the resume is shared
// GET /api/v1/resume/history      Recent validations
package handlers

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/resume-review-api/internal/database"
	"github.com/Shimizu-Technology/resume-review-api/internal/middleware"
	"github.com/Shimizu-Technology/resume-review-api/internal/models"
)

// UpdateScore records a review score (0-100).
// PUT /api/v1/resume/score
func (h *Handler) UpdateScore(c *gin.Context) {
	var req models.ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", "Score is required")
		return
	}
	if *req.Score < 0 || *req.Score > 100 {
		respondError(c, http.StatusBadRequest, "invalid_request", "Score must be between 0 and 100")
		return
	}

	email := middleware.GetStudentEmail(c)
	h.rosterUpdate(c, "score", h.DB.UpdateReviewScore(c.Request.Context(), email, *req.Score))
}

// UpdateLinkedIn records the student's LinkedIn profile.
// PUT /api/v1/resume/linkedin
func (h *Handler) UpdateLinkedIn(c *gin.Context) {
	var req models.LinkedInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", "LinkedIn URL is required")
		return
	}
	link, ok := normalizeLink(req.LinkedInURL)
	if !ok || !strings.Contains(strings.ToLower(link), "linkedin.com") {
		respondError(c, http.StatusBadRequest, "invalid_request", "Please provide a valid LinkedIn profile URL")
		return
	}

	email := middleware.GetStudentEmail(c)
	h.rosterUpdate(c, "LinkedIn URL", h.DB.UpdateLinkedInURL(c.Request.Context(), email, link))
}

// UpdateResumeLink records where the student shares their resume.
// PUT /api/v1/resume/drive-link
func (h *Handler) UpdateResumeLink(c *gin.Context) {
	var req models.ResumeLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", "Resume link is required")
		return
	}
	link, ok := normalizeLink(req.ResumeLink)
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid_request", "Please provide a valid http(s) link")
		return
	}

	email := middleware.GetStudentEmail(c)
	h.rosterUpdate(c, "resume link", h.DB.UpdateResumeLink(c.Request.Context(), email, link))
}

// ListHistory returns the signed-in student's recent validations.
// GET /api/v1/resume/history?limit=20
func (h *Handler) ListHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	email := middleware.GetStudentEmail(c)
	runs, err := h.DB.ListValidationRuns(c.Request.Context(), email, limit)
	if err != nil {
		log.Printf("❌ Failed to list history for %s: %v", email, err)
		respondError(c, http.StatusInternalServerError, "database_error", "Failed to load history")
		return
	}

	// Return [] rather than null when there's no history yet
	if runs == nil {
		runs = []models.ValidationRun{}
	}
	c.JSON(http.StatusOK, runs)
}

// rosterUpdate turns the result of a roster write into a response.
func (h *Handler) rosterUpdate(c *gin.Context, what string, err error) {
	switch {
	case errors.Is(err, database.ErrStudentNotFound):
		respondError(c, http.StatusNotFound, "not_found", "Student not found in roster")
	case err != nil:
		log.Printf("❌ Failed to update %s for %s: %v", what, middleware.GetStudentEmail(c), err)
		respondError(c, http.StatusInternalServerError, "database_error", "Failed to update "+what)
	default:
		c.JSON(http.StatusOK, models.SuccessResponse{Success: true})
	}
}

// normalizeLink trims the input and accepts absolute http(s) URLs.
// A bare "linkedin.com/in/x" gets https:// prepended.
func normalizeLink(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", false
	}
	return u.String(), true
}
