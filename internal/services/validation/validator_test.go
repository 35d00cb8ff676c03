// validator_test.go holds unit tests for the resume rule set.
package validation

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/Shimizu-Technology/resume-review-api/internal/services/pdf"
)

const completeResume = `Jane Cruz
jane.cruz@example.com | linkedin.com/in/janecruz | https://janecruz.dev
Summary
Full stack developer who loves building tools for teachers.
Skills
Go, TypeScript, PostgreSQL
Experience
Software Engineer, Acme Corp
Education
Uplift Code Camp, 2024`

func TestValidate(t *testing.T) {
	allRules := DefaultOptions()
	allRules.RequireAchievements = true

	tests := []struct {
		name      string
		text      string
		pageCount int
		opts      Options
		want      Verdict
	}{
		{
			name:      "complete resume without github",
			text:      completeResume,
			pageCount: 1,
			opts:      DefaultOptions(),
			want: Verdict{
				IsValid:  true,
				Errors:   []string{},
				Warnings: []string{MsgMissingGitHub},
			},
		},
		{
			name:      "complete resume with gitlab",
			text:      completeResume + "\ngitlab.com/janecruz",
			pageCount: 1,
			opts:      DefaultOptions(),
			want: Verdict{
				IsValid:  true,
				Errors:   []string{},
				Warnings: []string{},
			},
		},
		{
			name:      "two pages",
			text:      completeResume,
			pageCount: 2,
			opts:      DefaultOptions(),
			want: Verdict{
				IsValid:  false,
				Errors:   []string{MsgOnePage},
				Warnings: []string{MsgMissingGitHub},
			},
		},
		{
			name:      "two pages allowed when rule disabled",
			text:      completeResume,
			pageCount: 2,
			opts: Options{
				RequireSummary:    true,
				RequireHighlights: true,
				RequireExperience: true,
				RequireEducation:  true,
			},
			want: Verdict{
				IsValid:  true,
				Errors:   []string{},
				Warnings: []string{},
			},
		},
		{
			name:      "empty text with every rule",
			text:      "",
			pageCount: 1,
			opts:      allRules,
			want: Verdict{
				IsValid: false,
				Errors: []string{
					MsgMissingSummary,
					MsgMissingHighlights,
					MsgMissingExperience,
					MsgMissingEducation,
					MsgMissingEmail,
					MsgMissingLinkedIn,
					MsgMissingPortfolio,
				},
				Warnings: []string{MsgMissingAchieve, MsgMissingGitHub},
			},
		},
		{
			name:      "empty text on two pages lists page error first",
			text:      "",
			pageCount: 2,
			opts:      DefaultOptions(),
			want: Verdict{
				IsValid: false,
				Errors: []string{
					MsgOnePage,
					MsgMissingSummary,
					MsgMissingHighlights,
					MsgMissingExperience,
					MsgMissingEducation,
					MsgMissingEmail,
					MsgMissingLinkedIn,
					MsgMissingPortfolio,
				},
				Warnings: []string{MsgMissingGitHub},
			},
		},
		{
			name:      "headers matched case-insensitively and mid-line",
			text:      "MY PROFESSIONAL EXPERIENCE\nTechnical Skills and Awards\nAbout Me\nEDUCATION",
			pageCount: 1,
			opts:      allRules,
			want: Verdict{
				IsValid: false,
				Errors: []string{
					MsgMissingEmail,
					MsgMissingLinkedIn,
					MsgMissingPortfolio,
				},
				Warnings: []string{MsgMissingGitHub},
			},
		},
		{
			name:      "no rules enabled",
			text:      "",
			pageCount: 5,
			opts:      Options{},
			want: Verdict{
				IsValid:  true,
				Errors:   []string{},
				Warnings: []string{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(tt.text, tt.pageCount, tt.opts)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Validate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// TestValidate_LinkedInCountsAsPortfolio documents the coarse portfolio
// signal: any domain-looking string satisfies it.
func TestValidate_LinkedInCountsAsPortfolio(t *testing.T) {
	text := "summary\nskills\nexperience\neducation\nme@example.com\nlinkedin.com/in/me"
	got := Validate(text, 1, DefaultOptions())
	if !got.IsValid {
		t.Errorf("Validate() errors = %v, want none", got.Errors)
	}
}

func TestValidate_Idempotent(t *testing.T) {
	first := Validate(completeResume, 1, DefaultOptions())
	second := Validate(completeResume, 1, DefaultOptions())
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Validate() not idempotent: %+v vs %+v", first, second)
	}
}

// fakeExtractor lets tests control what the decoder returns.
type fakeExtractor struct {
	doc *pdf.Document
	err error
}

func (f fakeExtractor) Extract([]byte) (*pdf.Document, error) {
	return f.doc, f.err
}

func TestChecker_Check(t *testing.T) {
	t.Run("extraction failure becomes a failed verdict", func(t *testing.T) {
		cause := errors.New("xref table missing")
		report := NewChecker(fakeExtractor{err: cause}).Check([]byte("x"), DefaultOptions())

		if !reflect.DeepEqual(report.Verdict, FailedVerdict()) {
			t.Errorf("Verdict = %+v, want %+v", report.Verdict, FailedVerdict())
		}
		if !errors.Is(report.Cause, cause) {
			t.Errorf("Cause = %v, want %v", report.Cause, cause)
		}
		if report.Document != nil {
			t.Errorf("Document = %+v, want nil", report.Document)
		}
	})

	t.Run("extracted text is validated", func(t *testing.T) {
		doc := &pdf.Document{Text: completeResume, PageCount: 2}
		report := NewChecker(fakeExtractor{doc: doc}).Check([]byte("x"), DefaultOptions())

		if report.Cause != nil {
			t.Fatalf("Cause = %v, want nil", report.Cause)
		}
		want := []string{MsgOnePage}
		if !reflect.DeepEqual(report.Verdict.Errors, want) {
			t.Errorf("Errors = %v, want %v", report.Verdict.Errors, want)
		}
		if report.Document != doc {
			t.Error("Document not carried through")
		}
	})
}

func TestCheckUpload(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	badName := "File name must be in the format: Name_Title_2026.pdf (e.g., AlexCruz_FullStackDeveloper_2026.pdf)"

	tests := []struct {
		name        string
		filename    string
		contentType string
		size        int64
		want        []string
	}{
		{"valid upload", "AlexCruz_FullStackDeveloper_2026.pdf", "application/pdf", 200 << 10, nil},
		{"case-insensitive extension", "alexcruz_developer_2026.PDF", "application/pdf", 1 << 20, nil},
		{"wrong year", "AlexCruz_FullStackDeveloper_2025.pdf", "application/pdf", 1024, []string{badName}},
		{"too large", "AlexCruz_Dev_2026.pdf", "application/pdf", 1<<20 + 1, []string{"File size must be less than 1MB"}},
		{
			name:        "everything wrong",
			filename:    "resume.docx",
			contentType: "application/msword",
			size:        2 << 20,
			want:        []string{"Only PDF files are allowed", "File size must be less than 1MB", badName},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, fe := range CheckUpload(tt.filename, tt.contentType, tt.size, now) {
				if fe.Field != "file" {
					t.Errorf("Field = %q, want %q", fe.Field, "file")
				}
				got = append(got, fe.Message)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("CheckUpload() = %q, want %q", got, tt.want)
			}
		})
	}
}
