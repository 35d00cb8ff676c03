// layout.go rebuilds reading-order lines from positioned glyph runs.
//
// PDF content streams don't contain "lines". They contain text fragments
// painted at (x, y) coordinates, in whatever order the generator felt like.
// To get text a human (or a regex) can read, we bucket fragments by their
// baseline, sort each bucket left to right, and stack buckets top to bottom.
package pdf

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// GlyphRun is one positioned text fragment emitted by the PDF decoder.
// Y grows upward (PDF page space), so a larger Y is closer to the top.
type GlyphRun struct {
	Text  string
	X     float64
	Y     float64
	Width float64 // 0 when the decoder doesn't report an extent
}

// LinePolicy controls how runs are assembled into lines and pages.
type LinePolicy struct {
	// LineThreshold is the max baseline distance for two runs to share a line.
	// It's a fixed constant, not derived from font metrics.
	LineThreshold float64

	// WordGapThreshold is the horizontal gap that counts as a missing space.
	WordGapThreshold float64

	InsertWordSpaces      bool // Synthesize spaces across wide gaps
	CollapseLetterSpacing bool // "R E S U M E" -> "RESUME"
	KeepEmptyLines        bool // Strict mode: caller filters blank lines

	LineSeparator string // Joins lines within a page
	PageSeparator string // Joins rendered pages
}

// DefaultLinePolicy returns the canonical reconstruction settings.
func DefaultLinePolicy() LinePolicy {
	return LinePolicy{
		LineThreshold:         0.5,
		WordGapThreshold:      10,
		InsertWordSpaces:      true,
		CollapseLetterSpacing: true,
		KeepEmptyLines:        false,
		LineSeparator:         "\n",
		PageSeparator:         "\n",
	}
}

// lineBucket holds the runs that landed on one baseline.
type lineBucket struct {
	key  float64
	runs []GlyphRun
}

// letterSpacedPattern matches headings emitted one glyph at a time,
// e.g. "R E S U M E" or "S K I L L S".
var letterSpacedPattern = regexp.MustCompile(`^\s*[A-Z](?:\s+[A-Z])+\s*$`)

// CollapseLetterSpacedText removes the whitespace between single uppercase
// letters. Anything that isn't purely spaced capitals comes back unchanged.
func CollapseLetterSpacedText(s string) string {
	if !letterSpacedPattern.MatchString(s) {
		return s
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// GroupRunsIntoLines turns one page's runs into ordered lines of text.
//
// Bucket lookup walks the keys in insertion order and takes the FIRST key
// within LineThreshold, not the nearest one. When several keys sit within
// the threshold of a run it can land on a non-nearest line. That's a known
// limitation of the heuristic and is kept for compatibility.
func GroupRunsIntoLines(runs []GlyphRun, policy LinePolicy) []string {
	var buckets []*lineBucket

	for _, run := range runs {
		// A run without usable coordinates can't be placed; skip it rather
		// than losing the whole page.
		if !isFinite(run.X) || !isFinite(run.Y) {
			continue
		}

		run.Text = normalizeRunText(run.Text)
		if policy.CollapseLetterSpacing {
			run.Text = CollapseLetterSpacedText(run.Text)
		}

		var target *lineBucket
		for _, b := range buckets {
			if math.Abs(b.key-run.Y) < policy.LineThreshold {
				target = b
				break
			}
		}
		if target == nil {
			target = &lineBucket{key: run.Y}
			buckets = append(buckets, target)
		}
		target.runs = append(target.runs, run)
	}

	// Top of the page first. Keys are at least LineThreshold apart, so
	// stability only matters for pathological thresholds.
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].key > buckets[j].key
	})

	lines := make([]string, 0, len(buckets))
	for _, b := range buckets {
		line := assembleLine(b.runs, policy)
		if line == "" && !policy.KeepEmptyLines {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// assembleLine sorts a bucket left to right and concatenates it.
func assembleLine(runs []GlyphRun, policy LinePolicy) string {
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].X < runs[j].X
	})

	var sb strings.Builder
	for i, run := range runs {
		if i > 0 && policy.InsertWordSpaces && needsSpace(runs[i-1], run, policy.WordGapThreshold) {
			sb.WriteByte(' ')
		}
		sb.WriteString(run.Text)
	}
	line := strings.TrimSpace(sb.String())

	// Headings drawn one letter per text object only come together here.
	if policy.CollapseLetterSpacing {
		line = CollapseLetterSpacedText(line)
	}
	return line
}

// needsSpace reports whether the gap between prev and next is wide enough
// to be a lost word break. Fragments that already carry whitespace at the
// boundary don't get a second one.
func needsSpace(prev, next GlyphRun, threshold float64) bool {
	if endsWithSpace(prev.Text) || startsWithSpace(next.Text) {
		return false
	}
	width := prev.Width
	if !isFinite(width) || width < 0 {
		width = 0
	}
	return next.X-(prev.X+width) > threshold
}

// RenderPage produces one page's contribution to the document text.
func RenderPage(runs []GlyphRun, policy LinePolicy) string {
	return strings.Join(GroupRunsIntoLines(runs, policy), policy.LineSeparator)
}

// BuildDocumentText joins rendered pages in page order.
func BuildDocumentText(pages []string, policy LinePolicy) string {
	return strings.Join(pages, policy.PageSeparator)
}

// normalizeRunText composes decomposed characters (e + ◌́ -> é) and turns
// exotic whitespace such as NBSP into plain spaces so downstream patterns
// see ordinary text.
func normalizeRunText(s string) string {
	s = norm.NFC.String(s)
	return strings.Map(func(r rune) rune {
		if r != ' ' && r != '\n' && unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, s)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func endsWithSpace(s string) bool {
	return s != "" && unicode.IsSpace(rune(s[len(s)-1]))
}

func startsWithSpace(s string) bool {
	return s != "" && unicode.IsSpace(rune(s[0]))
}
