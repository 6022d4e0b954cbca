// Package model defines the text-layout data model the recognition pipeline
// operates on: positioned words grouped into lines grouped into pages.
//
// All structures in this package are built once, during wire decoding, and
// are read-only afterward. Downstream components (block clustering, the
// extractors) only create new aggregate structures on top of this model;
// they never mutate geometry.
package model

import (
	"strings"
	"unicode"
)

// Word is a single positioned word with its typographic attributes.
type Word struct {
	Rect

	// FontID identifies the font used to render the word. IDs are only
	// meaningful within a single document.
	FontID int

	// FontSize is the nominal font size in points.
	FontSize float64

	// Baseline is the Y coordinate of the text baseline.
	Baseline float64

	// Rotation is the word rotation quadrant (0-3).
	Rotation int

	// Color is the packed RGB fill color.
	Color int

	// Underlined, Bold and Italic are the style flags reported by the
	// extraction tool.
	Underlined bool
	Bold       bool
	Italic     bool

	// SpaceAfter indicates a word separator follows this word.
	SpaceAfter bool

	// Text is the word content with zero-width spaces stripped.
	Text string
}

// Line is an ordered sequence of words sharing a visual row.
type Line struct {
	Rect

	// Words are the line's words in reading order.
	Words []Word

	// Text is the joined word text, with a space wherever a word's
	// SpaceAfter flag is set.
	Text string
}

// Page is an ordered sequence of lines plus per-page aggregates collected
// during decoding.
type Page struct {
	Width  float64
	Height float64

	// Lines are the page's lines in reading order.
	Lines []Line

	// FontChars maps font id to the number of characters rendered in that
	// font on this page.
	FontChars map[int]int

	// SizeChars maps font size to the number of characters rendered at
	// that size on this page.
	SizeChars map[float64]int

	// ContentLeft and ContentRight are the leftmost and rightmost X
	// coordinates of any word on the page.
	ContentLeft  float64
	ContentRight float64

	// Text is the page's concatenated text, newline-separated per line.
	Text string
}

// Document is the decoded layout model of one input document.
type Document struct {
	// TotalPages is the page count reported by the producer. It may exceed
	// len(Pages) when the producer truncates page data.
	TotalPages int

	// Metadata holds embedded document metadata key/value pairs.
	Metadata map[string]string

	// Pages are the decoded pages in order.
	Pages []Page

	// Text is the whole-document concatenated text.
	Text string
}

// DominantFont returns the font id covering the most characters in the
// line, or -1 for an empty line. Ties go to the smaller font id.
func (l *Line) DominantFont() int {
	counts := map[int]int{}
	for _, w := range l.Words {
		counts[w.FontID] += len([]rune(w.Text))
	}
	best := -1
	bestCount := 0
	for id, n := range counts {
		if n > bestCount || (n == bestCount && n > 0 && id < best) {
			best = id
			bestCount = n
		}
	}
	return best
}

// MaxFontSize returns the largest font size used on the line.
func (l *Line) MaxFontSize() float64 {
	max := 0.0
	for _, w := range l.Words {
		if w.FontSize > max {
			max = w.FontSize
		}
	}
	return max
}

// IsUpper reports whether at least 90% of the line's characters are
// unchanged by upper-casing. Digits and punctuation count toward the
// uppercase share.
func (l *Line) IsUpper() bool {
	total := 0
	upper := 0
	for _, w := range l.Words {
		for _, r := range w.Text {
			total++
			if unicode.ToUpper(r) == r {
				upper++
			}
		}
	}
	if total == 0 {
		return false
	}
	return upper*100/total >= 90
}

// SingleFont returns the line's font id if every word uses the same font,
// and ok=false otherwise.
func (l *Line) SingleFont() (id int, ok bool) {
	if len(l.Words) == 0 {
		return 0, false
	}
	id = l.Words[0].FontID
	for _, w := range l.Words[1:] {
		if w.FontID != id {
			return 0, false
		}
	}
	return id, true
}

// WordCount returns the number of space-separated words in the line text.
func (l *Line) WordCount() int {
	return len(strings.Fields(l.Text))
}
