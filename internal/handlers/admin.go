// admin.go manages the roster. Both routes require X-Admin-Key.
//
// POST /api/v1/admin/students     Add emails to the roster
// GET  /api/v1/admin/roster.xlsx   Download the roster as a spreadsheet
package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/resume-review-api/internal/models"
	"github.com/Shimizu-Technology/resume-review-api/internal/services/roster"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AddStudents puts emails on the roster. Emails already there are skipped.
// POST /api/v1/admin/students
func (h *Handler) AddStudents(c *gin.Context) {
	var req models.AddStudentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", "Provide 1-500 emails: {\"emails\": [...]}")
		return
	}

	added, err := h.DB.AddStudents(c.Request.Context(), req.Emails)
	if err != nil {
		log.Printf("❌ Failed to add students: %v", err)
		respondError(c, http.StatusInternalServerError, "database_error", "Failed to update roster")
		return
	}

	log.Printf("📋 Roster: %d of %d emails added", added, len(req.Emails))
	c.JSON(http.StatusOK, models.AddStudentsResponse{Added: added})
}

// ExportRoster downloads the roster as an .xlsx file.
// GET /api/v1/admin/roster.xlsx
func (h *Handler) ExportRoster(c *gin.Context) {
	students, err := h.DB.ListStudents(c.Request.Context())
	if err != nil {
		log.Printf("❌ Failed to list students: %v", err)
		respondError(c, http.StatusInternalServerError, "database_error", "Failed to load roster")
		return
	}

	buf, err := roster.ExportXLSX(students, h.location())
	if err != nil {
		log.Printf("❌ Failed to build roster spreadsheet: %v", err)
		respondError(c, http.StatusInternalServerError, "export_failed", "Failed to build spreadsheet")
		return
	}

	filename := fmt.Sprintf("roster-%s.xlsx", time.Now().In(h.location()).Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *Handler) location() *time.Location {
	if h.RosterLocation == nil {
		return time.UTC
	}
	return h.RosterLocation
}
