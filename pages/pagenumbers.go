package pages

import (
	"strconv"
	"strings"

	"github.com/tsawler/bibrec/model"
)

// PrintedPageRange infers the printed pagination from standalone numbers
// set near the page edges. A candidate on the first page is accepted when
// every following page carries the next integer in sequence at the same
// edge; the range then covers the whole document.
func PrintedPageRange(doc *model.Document) (first, last int, ok bool) {
	if len(doc.Pages) == 0 {
		return 0, 0, false
	}

	numbers := make([]map[int]bool, len(doc.Pages))
	for i := range doc.Pages {
		numbers[i] = edgeNumbers(&doc.Pages[i])
	}

	for start := range numbers[0] {
		match := true
		for i := 1; i < len(numbers); i++ {
			if !numbers[i][start+i] {
				match = false
				break
			}
		}
		if match {
			return start, start + len(doc.Pages) - 1, true
		}
	}
	return 0, 0, false
}

// edgeNumbers collects the integers printed alone on lines near the top
// or bottom edge of a page.
func edgeNumbers(page *model.Page) map[int]bool {
	found := map[int]bool{}
	for li := range page.Lines {
		line := &page.Lines[li]
		if line.YMin > edgeMargin && line.YMax < page.Height-edgeMargin {
			continue
		}
		text := strings.TrimSpace(line.Text)
		if text == "" || len(text) > 5 {
			continue
		}
		n, err := strconv.Atoi(text)
		if err != nil || n <= 0 {
			continue
		}
		found[n] = true
	}
	return found
}
