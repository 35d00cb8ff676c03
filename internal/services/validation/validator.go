// Package validation applies structural rules to extracted resume text.
//
// The rules are deliberately simple regular expressions. They're a
// best-effort classifier: a header phrase anywhere on a line counts as the
// section being present, and any URL-looking string counts as a portfolio
// link. Recall/precision tuning is out of scope; the rule set must stay
// deterministic and stable so students see the same result every time.
package validation

import (
	"regexp"
	"strings"

	"github.com/Shimizu-Technology/resume-review-api/internal/services/pdf"
)

// Options toggles individual rules.
// Go Pattern: A plain struct with named booleans instead of a map. The
// compiler catches typos, and the zero value is explicit.
type Options struct {
	RequireSummary      bool `json:"requireSummary" form:"requireSummary"`
	RequireHighlights   bool `json:"requireHighlights" form:"requireHighlights"`
	RequireExperience   bool `json:"requireExperience" form:"requireExperience"`
	RequireEducation    bool `json:"requireEducation" form:"requireEducation"`
	RequireContact      bool `json:"requireContact" form:"requireContact"`
	RequireAchievements bool `json:"requireAchievements" form:"requireAchievements"`
	RequireOnePage      bool `json:"requireOnePage" form:"requireOnePage"`
}

// DefaultOptions enables every rule except the achievements recommendation.
func DefaultOptions() Options {
	return Options{
		RequireSummary:      true,
		RequireHighlights:   true,
		RequireExperience:   true,
		RequireEducation:    true,
		RequireContact:      true,
		RequireAchievements: false,
		RequireOnePage:      true,
	}
}

// Verdict is the outcome of one validation.
type Verdict struct {
	IsValid  bool     `json:"isValid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// sectionKind names a resume section we look for.
type sectionKind string

const (
	sectionSummary      sectionKind = "summary"
	sectionHighlights   sectionKind = "highlights"
	sectionExperience   sectionKind = "experience"
	sectionEducation    sectionKind = "education"
	sectionAchievements sectionKind = "achievements"
	sectionContact      sectionKind = "contact"
)

// sectionPatterns are matched per line, unanchored and case-insensitive.
// A line may match several kinds ("professional experience summary").
var sectionPatterns = []struct {
	kind    sectionKind
	pattern *regexp.Regexp
}{
	{sectionSummary, regexp.MustCompile(`(?i)(summary|about me|about|profile|professional summary|career summary)`)},
	{sectionHighlights, regexp.MustCompile(`(?i)(highlights|key skills|core competencies|skills|technical skills|professional skills)`)},
	{sectionExperience, regexp.MustCompile(`(?i)(experience|work experience|professional experience|employment history|work history)`)},
	{sectionEducation, regexp.MustCompile(`(?i)(education|academic background|academic history|qualifications)`)},
	{sectionAchievements, regexp.MustCompile(`(?i)(achievements|accomplishments|awards|recognition|honors)`)},
	{sectionContact, regexp.MustCompile(`(?i)(contact|contact information|contact details|get in touch)`)},
}

// Contact patterns run over the whole document, not line by line.
// The portfolio pattern matches any domain-looking string, including the
// LinkedIn and GitHub URLs themselves, a known false-positive source.
var (
	emailPattern     = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	linkedInPattern  = regexp.MustCompile(`(?:linkedin\.com/in/|linkedin\.com/profile/)[a-zA-Z0-9-]+`)
	portfolioPattern = regexp.MustCompile(`(?:https?://)?(?:www\.)?[a-zA-Z0-9-]+\.[a-zA-Z]{2,}(?:/[a-zA-Z0-9-]+)*`)
	gitHubPattern    = regexp.MustCompile(`(?:github\.com/|gitlab\.com/)[a-zA-Z0-9-]+`)
)

// Messages reported to students.
const (
	MsgOnePage           = "Resume must be one page"
	MsgMissingSummary    = "Missing required section: Summary/About Me"
	MsgMissingHighlights = "Missing required section: Highlights/Skills"
	MsgMissingExperience = "Missing required section: Experience"
	MsgMissingEducation  = "Missing required section: Education"
	MsgMissingAchieve    = "Missing recommended section: Achievements"
	MsgMissingEmail      = "Missing required contact information: Email address"
	MsgMissingLinkedIn   = "Missing required contact information: LinkedIn profile"
	MsgMissingPortfolio  = "Missing required contact information: Portfolio link"
	MsgMissingGitHub     = "Missing recommended contact information: GitHub/GitLab profile"
	MsgExtractionFailed  = "Failed to validate resume. Please ensure the PDF is not corrupted and try again."
)

// Validate runs every enabled rule against the document text.
// Rule violations are data, not errors: Validate always returns a Verdict.
// Messages are appended in a fixed order: page count, sections, contact.
func Validate(text string, pageCount int, opts Options) Verdict {
	errs := []string{}
	warnings := []string{}

	if opts.RequireOnePage && pageCount > 1 {
		errs = append(errs, MsgOnePage)
	}

	lower := strings.ToLower(text)
	found := detectSections(lower)

	if opts.RequireSummary && !found[sectionSummary] {
		errs = append(errs, MsgMissingSummary)
	}
	if opts.RequireHighlights && !found[sectionHighlights] {
		errs = append(errs, MsgMissingHighlights)
	}
	if opts.RequireExperience && !found[sectionExperience] {
		errs = append(errs, MsgMissingExperience)
	}
	if opts.RequireEducation && !found[sectionEducation] {
		errs = append(errs, MsgMissingEducation)
	}
	if opts.RequireAchievements && !found[sectionAchievements] {
		warnings = append(warnings, MsgMissingAchieve)
	}

	if opts.RequireContact {
		if !emailPattern.MatchString(lower) {
			errs = append(errs, MsgMissingEmail)
		}
		if !linkedInPattern.MatchString(lower) {
			errs = append(errs, MsgMissingLinkedIn)
		}
		if !portfolioPattern.MatchString(lower) {
			errs = append(errs, MsgMissingPortfolio)
		}
		if !gitHubPattern.MatchString(lower) {
			warnings = append(warnings, MsgMissingGitHub)
		}
	}

	return Verdict{
		IsValid:  len(errs) == 0,
		Errors:   errs,
		Warnings: warnings,
	}
}

// detectSections returns the set of section kinds whose header pattern
// appears on at least one non-blank line.
func detectSections(lower string) map[sectionKind]bool {
	found := make(map[sectionKind]bool, len(sectionPatterns))
	for _, line := range strings.Split(lower, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, sp := range sectionPatterns {
			if sp.pattern.MatchString(line) {
				found[sp.kind] = true
			}
		}
	}
	return found
}

// FailedVerdict is returned when the resume couldn't be read at all.
func FailedVerdict() Verdict {
	return Verdict{
		IsValid:  false,
		Errors:   []string{MsgExtractionFailed},
		Warnings: []string{},
	}
}

// TextExtractor decodes a resume file into document text.
// *pdf.Extractor satisfies it; tests substitute fakes.
type TextExtractor interface {
	Extract(data []byte) (*pdf.Document, error)
}

// Report bundles a verdict with the document it was computed from.
type Report struct {
	Verdict  Verdict       `json:"verdict"`
	Document *pdf.Document `json:"document,omitempty"`

	// Cause is the extraction error, if any. It is for server logs only and
	// is never serialized to clients.
	Cause error `json:"-"`
}

// Checker combines extraction and validation.
type Checker struct {
	extractor TextExtractor
}

// NewChecker creates a checker backed by the given extractor.
func NewChecker(extractor TextExtractor) *Checker {
	return &Checker{extractor: extractor}
}

// Check extracts the text from a resume file and validates it.
// A decode failure never escapes as an error: the report carries a failed
// verdict and the cause for logging.
func (c *Checker) Check(data []byte, opts Options) *Report {
	doc, err := c.extractor.Extract(data)
	if err != nil {
		return &Report{Verdict: FailedVerdict(), Cause: err}
	}

	return &Report{
		Verdict:  Validate(doc.Text, doc.PageCount, opts),
		Document: doc,
	}
}
