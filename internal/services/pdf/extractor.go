// Package pdf provides resume text extraction.
//
// We use the ledongthuc/pdf library to decode content streams.
// It's a pure Go implementation with no CGO or external dependencies required.
// Instead of its GetPlainText (which emits text in stream order), we read
// each page's positioned runs and rebuild lines ourselves (see layout.go).
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNotPDF is returned when the data doesn't start with the PDF magic bytes.
var ErrNotPDF = errors.New("data is not a PDF")

// Document holds the output of a resume text extraction.
type Document struct {
	Text      string `json:"text"`     // Linearized document text
	PageCount int    `json:"numPages"` // Number of pages reported by the decoder
	WordCount int    `json:"wordCount"`
}

// Extractor turns PDF bytes into document text using a LinePolicy.
type Extractor struct {
	policy LinePolicy
}

// NewExtractor creates an extractor with the given reconstruction policy.
func NewExtractor(policy LinePolicy) *Extractor {
	return &Extractor{policy: policy}
}

// Extract decodes a PDF held in memory and reconstructs its text.
//
// Go Pattern: We accept a byte slice because uploads arrive in memory.
// The pdf library wants an io.ReaderAt for random access; bytes.Reader
// gives us exactly that.
func (e *Extractor) Extract(data []byte) (doc *Document, err error) {
	if !ValidatePDF(data) {
		return nil, ErrNotPDF
	}

	// The decoder panics on some malformed streams. Turn that into an error
	// so the caller can report a failed validation instead of crashing.
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("failed to decode PDF: %v", r)
		}
	}()

	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	pageCount := pdfReader.NumPage()
	pages := make([]string, 0, pageCount)
	for i := 1; i <= pageCount; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pages = append(pages, RenderPage(pageRuns(page.Content().Text, e.policy), e.policy))
	}

	text := BuildDocumentText(pages, e.policy)
	return &Document{
		Text:      text,
		PageCount: pageCount,
		WordCount: len(strings.Fields(text)),
	}, nil
}

// glyphSlack is how far a glyph may start to the left of the previous
// glyph's end (kerning) and still belong to the same run.
const glyphSlack = 1.0

// pageRuns merges the decoder's per-glyph items into runs. The decoder
// reports every character separately, so "S K I L L S" arrives as eleven
// items; joining neighbours that share a baseline and font gives the
// layout code whole strings to work with.
//
// A glyph joins the current run when it sits on the same baseline, uses
// the same font and size, and starts between glyphSlack before and
// WordGapThreshold after the previous glyph's end. Larger gaps start a new
// run so word spacing can be synthesized later. Line-break items ("\n")
// emitted after TJ arrays only end the current run.
func pageRuns(items []pdf.Text, policy LinePolicy) []GlyphRun {
	var runs []GlyphRun
	var cur *GlyphRun
	var curFont string
	var curSize, curEnd float64

	flush := func() {
		if cur != nil {
			runs = append(runs, *cur)
			cur = nil
		}
	}

	for _, t := range items {
		if t.S == "" || t.S == "\n" {
			flush()
			continue
		}

		if cur != nil && t.Font == curFont && t.FontSize == curSize &&
			math.Abs(t.Y-cur.Y) < policy.LineThreshold {
			gap := t.X - curEnd
			if gap >= -glyphSlack && gap <= policy.WordGapThreshold {
				cur.Text += t.S
				if end := t.X + t.W; end > curEnd {
					curEnd = end
				}
				cur.Width = curEnd - cur.X
				continue
			}
		}

		flush()
		cur = &GlyphRun{Text: t.S, X: t.X, Y: t.Y, Width: t.W}
		curFont, curSize, curEnd = t.Font, t.FontSize, t.X+t.W
	}
	flush()
	return runs
}

// ValidatePDF checks if the data looks like a valid PDF by checking the magic bytes.
func ValidatePDF(data []byte) bool {
	// PDF files start with "%PDF-"
	return len(data) >= 5 && string(data[:5]) == "%PDF-"
}
