package roster

import (
	"reflect"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Shimizu-Technology/resume-review-api/internal/models"
)

func TestRow(t *testing.T) {
	manila, err := time.LoadLocation("Asia/Manila")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	score := 10
	at := time.Date(2026, time.March, 1, 16, 5, 9, 0, time.UTC) // 00:05:09 next day in Manila

	got := Row(models.Student{
		Email:           "alex@example.com",
		ValidationState: models.StatusFirstScanOK,
		Score:           &score,
		LastActivityAt:  &at,
		LinkedInURL:     "https://linkedin.com/in/alex",
		SubmissionCount: 3,
	}, manila)

	want := []interface{}{
		"alex@example.com", "First scan ok", 10, "3/2/2026, 12:05:09 AM",
		"https://linkedin.com/in/alex", "", 3,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Row() = %#v, want %#v", got, want)
	}

	blank := Row(models.Student{Email: "new@example.com"}, manila)
	if blank[2] != "" || blank[3] != "" {
		t.Errorf("unset score/activity = %#v, %#v; want blanks", blank[2], blank[3])
	}
}

func TestExportXLSX(t *testing.T) {
	score := 72
	at := time.Date(2026, time.March, 1, 1, 0, 0, 0, time.UTC)
	students := []models.Student{
		{Email: "alex@example.com", ValidationState: models.StatusFixesRequired, Score: &score, LastActivityAt: &at, SubmissionCount: 2},
		{Email: "new@example.com"},
	}

	buf, err := ExportXLSX(students, time.UTC)
	if err != nil {
		t.Fatalf("ExportXLSX() error = %v", err)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	if sheets := f.GetSheetList(); !reflect.DeepEqual(sheets, []string{SheetName}) {
		t.Fatalf("sheets = %v, want [%s]", sheets, SheetName)
	}

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if !reflect.DeepEqual(rows[0], Header) {
		t.Errorf("header = %v", rows[0])
	}
	wantFirst := []string{"alex@example.com", "Fixes required", "72", "3/1/2026, 1:00:00 AM", "", "", "2"}
	if !reflect.DeepEqual(rows[1], wantFirst) {
		t.Errorf("row 2 = %q, want %q", rows[1], wantFirst)
	}
	// GetRows trims trailing empty cells.
	if rows[2][0] != "new@example.com" {
		t.Errorf("row 3 = %q", rows[2])
	}
}
