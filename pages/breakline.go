package pages

import (
	"strings"
	"unicode"

	"github.com/tsawler/bibrec/model"
	"github.com/tsawler/bibrec/textutil"
)

// BreakLine marks the position beyond which title, author, and DOI search
// must not proceed. Positions are compared in reading order: page index
// first, then vertical offset within the page.
type BreakLine struct {
	PageIndex int
	PageY     float64
}

// Before reports whether b precedes other in reading order.
func (b BreakLine) Before(other BreakLine) bool {
	if b.PageIndex != other.PageIndex {
		return b.PageIndex < other.PageIndex
	}
	return b.PageY < other.PageY
}

// Bounds reports whether a candidate position at (pageIndex, pageY) lies
// at or past the break line and must therefore be rejected.
func (b BreakLine) Bounds(pageIndex int, pageY float64) bool {
	if pageIndex != b.PageIndex {
		return pageIndex > b.PageIndex
	}
	return pageY >= b.PageY
}

// structuralHeadings end the front matter; nothing past them can be a
// title or byline.
var structuralHeadings = map[string]bool{
	"introduction": true,
	"contents":     true,
}

// TitleBreakLine scans the document in reading order for the earliest
// structural marker: a "By ..." byline, a keywords heading, or a section
// heading such as "Introduction". Returns ok=false when none is found.
func TitleBreakLine(doc *model.Document) (BreakLine, bool) {
	for pageIndex := range doc.Pages {
		page := &doc.Pages[pageIndex]
		for i := range page.Lines {
			line := &page.Lines[i]
			if isBreakMarker(line.Text) {
				return BreakLine{PageIndex: pageIndex, PageY: line.YMin}, true
			}
		}
	}
	return BreakLine{}, false
}

func isBreakMarker(text string) bool {
	if strings.HasPrefix(text, "By ") || strings.HasPrefix(text, "by ") {
		return true
	}
	if textutil.HasKeywordsHeading(text) {
		return true
	}

	var letters strings.Builder
	for _, r := range text {
		if unicode.IsLetter(r) {
			letters.WriteRune(r)
		}
	}
	word := letters.String()
	if word == "" {
		return false
	}
	first := []rune(word)[0]
	return structuralHeadings[strings.ToLower(word)] && unicode.IsUpper(first)
}
