// Package pages analyzes document-level page structure: publisher-injected
// front-matter pages, repeated header/footer text, the break line bounding
// title and author search, and the printed page label.
package pages

import "github.com/tsawler/bibrec/model"

// FirstContentPage returns the index of the first page belonging to the
// article itself, skipping injected cover or disclaimer pages. Width
// comparison is tried first, then font-set disappearance; 0 means no
// injected page was detected.
func FirstContentPage(doc *model.Document) int {
	if p := firstPageByWidth(doc); p > 0 {
		return p
	}
	return firstPageByFonts(doc)
}

// firstPageByWidth flags a page whose width differs from its neighbors
// while those neighbors match each other. Documents of three or more pages
// with all-distinct widths are inconclusive and yield 0.
func firstPageByWidth(doc *model.Document) int {
	pages := doc.Pages
	if len(pages) <= 1 {
		return 0
	}

	if len(pages) == 2 && pages[0].Width != pages[1].Width {
		return 1
	}

	if len(pages) == 3 && pages[0].Width != pages[1].Width &&
		pages[1].Width == pages[2].Width {
		return 1
	}

	if len(pages) >= 3 && pages[0].Width != pages[1].Width &&
		pages[1].Width != pages[2].Width {
		return 0
	}

	if len(pages) < 4 {
		return 0
	}

	first := 0
	for i := 0; i < len(pages)-3; i++ {
		if pages[i].Width != pages[i+1].Width &&
			pages[i+1].Width == pages[i+2].Width {
			first = i + 1
		}
	}
	return first
}

// firstPageByFonts flags a page whose entire font set disappears from all
// later pages. Publisher cover sheets are typeset in fonts the article
// never uses again.
func firstPageByFonts(doc *model.Document) int {
	if len(doc.Pages) < 3 {
		return 0
	}

	first := 0
	for i := 0; i+2 < len(doc.Pages); i++ {
		page := doc.Pages[i]
		missing := 0
		comparisons := 0

		for font := range page.FontChars {
			found := false
			for j := i + 1; j < len(doc.Pages) && !found; j++ {
				for font2 := range doc.Pages[j].FontChars {
					comparisons++
					if font == font2 {
						found = true
						break
					}
				}
			}
			if !found {
				missing++
			}
		}

		if missing == len(page.FontChars) && comparisons >= 2 {
			first = i + 1
		}
	}
	return first
}
