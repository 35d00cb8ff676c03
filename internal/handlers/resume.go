// resume.go handles the resume upload endpoints.
//
// POST /api/v1/resume/extract    Reconstructed text and page count
// POST /api/v1/resume/validate   Structural verdict for the upload
// POST /api/v1/resume/upload     Keep a copy of the resume in storage
package handlers

import (
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/Shimizu-Technology/resume-review-api/internal/middleware"
	"github.com/Shimizu-Technology/resume-review-api/internal/models"
	"github.com/Shimizu-Technology/resume-review-api/internal/services/events"
	"github.com/Shimizu-Technology/resume-review-api/internal/services/notify"
	pdfservice "github.com/Shimizu-Technology/resume-review-api/internal/services/pdf"
	"github.com/Shimizu-Technology/resume-review-api/internal/services/storage"
	"github.com/Shimizu-Technology/resume-review-api/internal/services/validation"
	"github.com/Shimizu-Technology/resume-review-api/internal/services/worker"
)

// maxRequestBytes bounds the whole multipart body. It's well above
// validation.MaxUploadSize so an oversized resume gets the friendly size
// message instead of a truncated-body error.
const maxRequestBytes = 8 << 20

// readPDF pulls the "file" part out of the form and checks it looks like
// a PDF. With strict set it also applies the upload rules (type, size,
// Name_Title_YYYY.pdf). On failure the response is already written.
func readPDF(c *gin.Context, strict bool) ([]byte, *multipart.FileHeader, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBytes)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request",
			"No file provided. Upload a PDF with the field name 'file'.")
		return nil, nil, false
	}
	defer file.Close()

	if strict {
		problems := validation.CheckUpload(header.Filename, header.Header.Get("Content-Type"), header.Size, time.Now())
		if len(problems) > 0 {
			fields := make([]models.UploadField, len(problems))
			for i, p := range problems {
				fields[i] = models.UploadField{Field: p.Field, Message: p.Message}
			}
			c.JSON(http.StatusBadRequest, models.UploadErrorResponse{
				Error:   "invalid_upload",
				Message: fields[0].Message,
				Code:    http.StatusBadRequest,
				Fields:  fields,
			})
			return nil, nil, false
		}
	}

	// Go Pattern: io.ReadAll reads the entire reader into a byte slice.
	// The PDF decoder needs random access, so the file has to be in memory.
	data, err := io.ReadAll(file)
	if err != nil {
		respondError(c, http.StatusBadRequest, "read_error", "Failed to read uploaded file")
		return nil, nil, false
	}

	if !pdfservice.ValidatePDF(data) {
		respondError(c, http.StatusBadRequest, "invalid_pdf", "The uploaded file does not appear to be a valid PDF")
		return nil, nil, false
	}

	return data, header, true
}

// ExtractResume returns the reconstructed text of an uploaded PDF.
// POST /api/v1/resume/extract
func (h *Handler) ExtractResume(c *gin.Context) {
	data, header, ok := readPDF(c, false)
	if !ok {
		return
	}

	doc, err := h.Extractor.Extract(data)
	if err != nil {
		log.Printf("❌ PDF parsing failed for %s: %v", header.Filename, err)
		respondError(c, http.StatusInternalServerError, "extraction_failed", "Failed to parse PDF")
		return
	}

	c.JSON(http.StatusOK, models.ExtractResponse{
		Text:     doc.Text,
		NumPages: doc.PageCount,
	})
}

// ValidateResume checks an uploaded resume against the structural rules.
// POST /api/v1/resume/validate
//
// Rules can be switched per request with form fields such as
// requireOnePage=false; anything not sent keeps its default.
// A PDF that can't be read still gets a 200 with a failed verdict.
func (h *Handler) ValidateResume(c *gin.Context) {
	data, header, ok := readPDF(c, true)
	if !ok {
		return
	}

	opts := validation.DefaultOptions()
	if err := c.ShouldBindWith(&opts, binding.FormMultipart); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_options", "Invalid rule options: "+err.Error())
		return
	}

	report := h.Checker.Check(data, opts)
	if report.Cause != nil {
		log.Printf("⚠️  Could not read %s: %v", header.Filename, report.Cause)
	}

	resp := models.ValidateResponse{
		IsValid:  report.Verdict.IsValid,
		Errors:   report.Verdict.Errors,
		Warnings: report.Verdict.Warnings,
	}
	if report.Document != nil {
		resp.Text = report.Document.Text
		resp.NumPages = report.Document.PageCount
		resp.WordCount = report.Document.WordCount
	}

	h.queue(worker.JobRecordValidation, worker.ValidationPayload{
		Email:     middleware.GetStudentEmail(c),
		Filename:  header.Filename,
		PageCount: resp.NumPages,
		WordCount: resp.WordCount,
		IsValid:   resp.IsValid,
		Errors:    resp.Errors,
		Warnings:  resp.Warnings,
	})

	c.JSON(http.StatusOK, resp)
}

// UploadResume stores the student's resume, replacing any earlier upload,
// and records the link in the roster.
// POST /api/v1/resume/upload
func (h *Handler) UploadResume(c *gin.Context) {
	data, _, ok := readPDF(c, true)
	if !ok {
		return
	}
	email := middleware.GetStudentEmail(c)
	ctx := c.Request.Context()

	obj, err := h.Storage.SaveResume(ctx, email, data)
	if errors.Is(err, storage.ErrNotConfigured) {
		respondError(c, http.StatusServiceUnavailable, "storage_disabled", "Resume storage is not configured")
		return
	}
	if err != nil {
		log.Printf("❌ Failed to store resume for %s: %v", email, err)
		respondError(c, http.StatusInternalServerError, "storage_error", "Failed to save resume")
		return
	}

	if err := h.DB.UpdateResumeLink(ctx, email, obj.URL); err != nil {
		// The file is safe in storage; the link can be set again later.
		log.Printf("⚠️  Failed to record resume link for %s: %v", email, err)
	}

	h.Notifier.Notify(notify.EventSubmitted, email)
	if err := h.Events.Publish(events.EventUploaded, email, obj); err != nil {
		log.Printf("⚠️  Failed to publish %s event: %v", events.EventUploaded, err)
	}

	c.JSON(http.StatusOK, models.UploadResponse{Key: obj.Key, URL: obj.URL})
}

// queue hands bookkeeping to the worker pool. A full queue loses the
// record, not the student's answer, so it only logs.
func (h *Handler) queue(t worker.JobType, payload interface{}) {
	job, err := worker.NewJob(t, payload)
	if err == nil {
		err = h.Worker.Submit(job)
	}
	if err != nil {
		log.Printf("⚠️  Failed to queue %s: %v", t, err)
	}
}
