// Package review generates AI feedback on resume text.
//
// Two providers sit behind the same Reviewer interface: Gemini through the
// official genai SDK, and any OpenRouter model through its OpenAI-style chat
// completions endpoint. Both send the same prompt.
package review

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// MaxResumeChars caps how much resume text goes into the prompt.
const MaxResumeChars = 15000

var (
	// ErrEmptyText is returned when there's nothing to review.
	ErrEmptyText = errors.New("no resume text provided")
	// ErrNotConfigured is returned when the provider has no API key.
	ErrNotConfigured = errors.New("review provider not configured")
)

// Reviewer produces feedback for a resume.
//
// Go Pattern: Small interfaces defined by the consumer. Handlers depend on
// Reviewer, not on a concrete provider, so tests can swap in a fake.
type Reviewer interface {
	Review(ctx context.Context, resumeText string) (*Feedback, error)
}

// Feedback is the model's answer.
type Feedback struct {
	Text  string `json:"feedback"`
	Model string `json:"model"`
}

const reviewPrompt = `Please review this resume and provide feedback based on the following criteria:

Summary (2-3 sentences):
- Evaluate if it effectively communicates passion
- Check if it clearly states desired work/role
- Assess if it highlights relevant strengths
- Look for unique personal touches reflecting career shift (if they are shifting) and passion

Highlights/Proficiencies:
- Evaluate relevance of skills to target role
- Check for transferable skills from non-tech experience
- Assess clarity and organization of skills presentation

Work Experience:
- Check if bullet points start with strong action verbs
- Evaluate quantification of achievements
- Assess impact demonstration
- Look for clarity and relevance of experience

Education:
- Verify highest education level is clearly stated
- Check for School/Course/Year format
- Evaluate if key learnings are effectively summarized

Please provide specific recommendations for improvement in each area.
And general recommendations for the resume.
Do not add any other text to the response.
Do not include recommendations for visual appeal.

Resume text to review:
`

// BuildPrompt prefixes the review criteria to the resume text.
// Long resumes are cut at MaxResumeChars runes so the prompt stays within
// token limits.
func BuildPrompt(resumeText string) (string, error) {
	text := strings.TrimSpace(resumeText)
	if text == "" {
		return "", ErrEmptyText
	}
	if utf8.RuneCountInString(text) > MaxResumeChars {
		text = string([]rune(text)[:MaxResumeChars]) + "\n\n[Resume truncated due to length...]"
	}
	return reviewPrompt + text, nil
}

// scorePattern finds the score line some models append to their feedback.
var scorePattern = regexp.MustCompile(`Resume Review score: (100|\d{1,2})\b`)

// ExtractScore pulls "Resume Review score: N" (0-100) out of the feedback.
func ExtractScore(feedback string) (int, bool) {
	m := scorePattern.FindStringSubmatch(feedback)
	if m == nil {
		return 0, false
	}
	score, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return score, true
}
