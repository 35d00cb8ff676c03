// Package roster renders the student roster as a spreadsheet, in the same
// column layout staff used before the roster moved into Postgres.
package roster

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Shimizu-Technology/resume-review-api/internal/models"
)

// SheetName is the single sheet in the export.
const SheetName = "Roster"

// Header is the first row of the export.
var Header = []string{"Email", "Validation Status", "Score", "Last Activity", "LinkedIn", "Resume Link", "Submissions"}

// TimeLayout matches what a US-locale browser shows for a date and time.
const TimeLayout = "1/2/2006, 3:04:05 PM"

// ExportXLSX writes one row per student. Timestamps are shown in loc.
func ExportXLSX(students []models.Student, loc *time.Location) (*bytes.Buffer, error) {
	if loc == nil {
		loc = time.UTC
	}

	f := excelize.NewFile()
	defer f.Close()

	// NewFile starts with "Sheet1"; rename rather than add a second sheet.
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetRowStyle(SheetName, 1, 1, bold); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for i, s := range students {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := Row(s, loc)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row for %s: %w", s.Email, err)
		}
	}

	if err := f.SetColWidth(SheetName, "A", "A", 34); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(SheetName, "B", "D", 20); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(SheetName, "E", "F", 45); err != nil {
		return nil, err
	}

	return f.WriteToBuffer()
}

// Row flattens a student into spreadsheet cells. Unset values become
// empty strings so the cell is blank rather than "0".
func Row(s models.Student, loc *time.Location) []interface{} {
	var score interface{} = ""
	if s.Score != nil {
		score = *s.Score
	}
	lastActivity := ""
	if s.LastActivityAt != nil {
		lastActivity = s.LastActivityAt.In(loc).Format(TimeLayout)
	}

	return []interface{}{
		s.Email,
		string(s.ValidationState),
		score,
		lastActivity,
		s.LinkedInURL,
		s.ResumeLink,
		s.SubmissionCount,
	}
}
