package pages

import (
	"math"
	"strings"

	"github.com/tsawler/bibrec/model"
)

// edgeMargin is how close to the top or bottom page edge a line must lie
// to be considered running-header/footer territory.
const edgeMargin = 100.0

// bboxTolerance is the positional slack when matching a line against the
// same line on a following page.
const bboxTolerance = 10.0

// urlMarkers appear in download stamps injected per-page by aggregators;
// those vary per page and would poison the repeated-text comparison.
var urlMarkers = []string{"http://", "https://", "www.", "Downloaded"}

// HeaderFooterText collects text repeated across pages at nearly identical
// positions near the top or bottom edge. The result feeds the direct
// pattern extractors for journal name, volume, issue, and year.
func HeaderFooterText(doc *model.Document) string {
	var parts []string
	var blob strings.Builder

	for i := 0; i+1 < len(doc.Pages); i++ {
		page := &doc.Pages[i]
		for li := range page.Lines {
			line := &page.Lines[li]
			if !nearEdge(line, page) || hasURLMarker(line.Text) {
				continue
			}

			for j := i + 1; j < len(doc.Pages) && j <= i+2; j++ {
				if !repeatsOn(line, &doc.Pages[j]) {
					continue
				}
				if !contains(parts, line.Text) {
					parts = append(parts, line.Text)
					if blob.Len() > 0 {
						blob.WriteByte('\n')
					}
					blob.WriteString(line.Text)
				}
				break
			}
		}
	}
	return blob.String()
}

func nearEdge(line *model.Line, page *model.Page) bool {
	return line.YMax < edgeMargin || line.YMin > page.Height-edgeMargin
}

func hasURLMarker(text string) bool {
	for _, m := range urlMarkers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

// repeatsOn reports whether page carries a line with the same text at
// nearly the same bounding box.
func repeatsOn(line *model.Line, page *model.Page) bool {
	for i := range page.Lines {
		other := &page.Lines[i]
		if other.Text != line.Text {
			continue
		}
		if math.Abs(line.XMin-other.XMin) < bboxTolerance &&
			math.Abs(line.YMin-other.YMin) < bboxTolerance &&
			math.Abs(line.Width()-other.Width()) < bboxTolerance &&
			math.Abs(line.Height()-other.Height()) < bboxTolerance {
			return true
		}
	}
	return false
}

func contains(parts []string, text string) bool {
	for _, p := range parts {
		if p == text {
			return true
		}
	}
	return false
}
