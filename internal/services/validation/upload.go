package validation

import (
	"fmt"
	"regexp"
	"time"
)

// MaxUploadSize is the largest resume file we accept (1MB).
const MaxUploadSize = 1 << 20

// FieldError describes a problem with one field of an upload.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// CheckUpload applies the submission rules to an uploaded file before any
// parsing happens: PDF only, at most 1MB, and named Name_Title_<year>.pdf
// where <year> is the current year.
func CheckUpload(filename, contentType string, size int64, now time.Time) []FieldError {
	var errs []FieldError

	if contentType != "application/pdf" {
		errs = append(errs, FieldError{
			Field:   "file",
			Message: "Only PDF files are allowed",
		})
	}

	if size > MaxUploadSize {
		errs = append(errs, FieldError{
			Field:   "file",
			Message: "File size must be less than 1MB",
		})
	}

	year := now.Year()
	namePattern := regexp.MustCompile(fmt.Sprintf(`(?i)^[A-Za-z]+_[A-Za-z]+_%d\.pdf$`, year))
	if !namePattern.MatchString(filename) {
		errs = append(errs, FieldError{
			Field: "file",
			Message: fmt.Sprintf(
				"File name must be in the format: Name_Title_%d.pdf (e.g., AlexCruz_FullStackDeveloper_%d.pdf)",
				year, year),
		})
	}

	return errs
}
