package extract

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/tsawler/bibrec/layout"
	"github.com/tsawler/bibrec/lookup"
	"github.com/tsawler/bibrec/model"
	"github.com/tsawler/bibrec/pages"
	"github.com/tsawler/bibrec/textutil"
)

const (
	titleMinChars      = 25
	titleMaxChars      = 400
	titleMinWords      = 2
	titleMinAlphabetic = 60.0

	upperTitleMinChars = 20

	// doiLookupBudget caps title-hash queries per document so that a page
	// of many short blocks cannot flood the store.
	doiLookupBudget = 100
)

// TitleExtractor finds the document title on a content page and the
// authors adjacent to it.
type TitleExtractor struct {
	store   lookup.Store
	authors *AuthorExtractor
}

// NewTitleExtractor creates a title extractor sharing the given store.
func NewTitleExtractor(store lookup.Store) *TitleExtractor {
	return &TitleExtractor{store: store, authors: NewAuthorExtractor(store)}
}

// TitleAndAuthors scans the page's blocks for a title candidate whose
// neighborhood yields an author byline. Candidates are the blocks set in
// the page's largest surplus font, tried largest first. When no candidate
// confirms, the blocks are retried in reading order for all-uppercase
// titles with a relaxed length floor; a fallback candidate must stand
// visually apart and still needs a byline.
//
// breakY, when >= 0, is a page-local cutoff: blocks at or below it belong
// to body matter and are never title candidates.
func (e *TitleExtractor) TitleAndAuthors(ctx context.Context, page *model.Page, blocks []layout.LineBlock, breakY float64) (string, []Author) {
	cursor := layout.NewCursor(blocks)
	threshold := fontThreshold(page)

	type candidate struct {
		index int
		text  string
		size  float64
	}
	var candidates []candidate
	for i := range blocks {
		lb := &blocks[i]
		if breakY >= 0 && lb.YMin >= breakY {
			continue
		}
		if lb.MaxFontSize < threshold {
			continue
		}
		text := lb.Text(0)
		if !plausibleTitle(text) {
			continue
		}
		candidates = append(candidates, candidate{index: i, text: text, size: lb.MaxFontSize})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].size > candidates[j].size
	})

	for _, c := range candidates {
		if authors := e.authors.ExtractNearTitle(ctx, cursor, c.index); len(authors) > 0 {
			return cleanTitle(c.text), authors
		}
	}

	for i := range blocks {
		lb := &blocks[i]
		if breakY >= 0 && lb.YMin >= breakY {
			continue
		}
		if !lb.Upper {
			continue
		}
		text := lb.Text(0)
		n := utf8.RuneCountInString(text)
		if n < upperTitleMinChars || n > titleMaxChars {
			continue
		}
		if len(strings.Fields(text)) < titleMinWords {
			continue
		}
		if textutil.AlphabeticPercent(text) < titleMinAlphabetic {
			continue
		}
		if quoteWrapped(text) {
			continue
		}
		if !visuallySeparated(lb, blocks) {
			continue
		}
		if authors := e.authors.ExtractNearTitle(ctx, cursor, i); len(authors) > 0 {
			return cleanTitle(text), authors
		}
	}

	return "", nil
}

// AuthorsNearExistingTitle locates a known title (obtained from embedded
// metadata or a store lookup) among the page's blocks and extracts the
// byline next to it.
func (e *TitleExtractor) AuthorsNearExistingTitle(ctx context.Context, blocks []layout.LineBlock, title string) []Author {
	normTitle := textutil.Normalize(title)
	if normTitle == "" {
		return nil
	}
	cursor := layout.NewCursor(blocks)
	for i := range blocks {
		if strings.Contains(textutil.Normalize(blocks[i].Text(0)), normTitle) {
			if authors := e.authors.ExtractNearTitle(ctx, cursor, i); len(authors) > 0 {
				return authors
			}
		}
	}
	return nil
}

// DOIByTitle hashes block texts from the first two content pages against
// the title-to-DOI store. Each block is tried as-is and with its first
// line dropped, and each pair of short adjacent blocks in the top third of
// a page is tried combined, to catch titles that the clusterer split. A
// single distinct hit is conclusive; two or more distinct hits mean the
// document quotes several known titles and the search reports nothing.
func (e *TitleExtractor) DOIByTitle(ctx context.Context, doc *model.Document, cluster func(*model.Page) []layout.LineBlock, breakLine *pages.BreakLine, maxPages int) (string, error) {
	normText := textutil.Normalize(doc.Text)
	lookups := 0
	found := map[string]bool{}

	try := func(title string) (bool, error) {
		norm := textutil.Normalize(title)
		n := utf8.RuneCountInString(norm)
		if n < 15 || n > 300 {
			return false, nil
		}
		if lookups >= doiLookupBudget {
			return true, nil
		}
		lookups++
		doi, match, err := e.store.DOIByTitle(ctx, norm, normText, false)
		if err != nil {
			return false, err
		}
		if match == lookup.MatchFound {
			found[doi] = true
		}
		return false, nil
	}

	for pi := 0; pi < len(doc.Pages) && pi < maxPages; pi++ {
		page := &doc.Pages[pi]
		blocks := cluster(page)
		for i := range blocks {
			lb := &blocks[i]
			if breakLine != nil && breakLine.Bounds(pi, lb.YMin) {
				break
			}
			for skip := 0; skip <= 1; skip++ {
				if len(lb.Lines)-skip > 7 || len(lb.Lines)-skip < 1 {
					continue
				}
				exhausted, err := try(lb.Text(skip))
				if err != nil {
					return "", err
				}
				if exhausted {
					break
				}
			}
			if i+1 < len(blocks) && lb.YMin <= page.Height/3 &&
				len(lb.Lines)+len(blocks[i+1].Lines) <= 6 {
				if _, err := try(lb.Text(0) + " " + blocks[i+1].Text(0)); err != nil {
					return "", err
				}
			}
		}
	}

	if len(found) == 1 {
		for doi := range found {
			return doi, nil
		}
	}
	return "", nil
}

// fontThreshold returns the size a block must exceed to count as a title:
// one point above the largest font size that sets more than 400 characters
// on the page. Pages with no such bulk size use their largest size.
func fontThreshold(page *model.Page) float64 {
	var bulk, max float64
	for size, chars := range page.SizeChars {
		if size > max {
			max = size
		}
		if chars > 400 && size > bulk {
			bulk = size
		}
	}
	if bulk > 0 {
		return bulk + 1
	}
	return max
}

func plausibleTitle(text string) bool {
	n := utf8.RuneCountInString(text)
	if n < titleMinChars || n > titleMaxChars {
		return false
	}
	if len(strings.Fields(text)) < titleMinWords {
		return false
	}
	if textutil.AlphabeticPercent(text) < titleMinAlphabetic {
		return false
	}
	if quoteWrapped(text) {
		return false
	}
	return true
}

// quoteWrapped reports whether the text opens and closes with quotation
// marks. Quoted blocks are epigraphs or cited titles, not the document's.
func quoteWrapped(s string) bool {
	r := []rune(s)
	if len(r) < 2 {
		return false
	}
	return isQuote(r[0]) && isQuote(r[len(r)-1])
}

func isQuote(r rune) bool {
	switch r {
	case '"', '\'', '‘', '’', '“', '”', '`', '´':
		return true
	}
	return false
}

// visuallySeparated reports whether the block has free space above or
// below it larger than its font size, relative to its block neighbors.
func visuallySeparated(lb *layout.LineBlock, blocks []layout.LineBlock) bool {
	gapAbove := lb.MaxFontSize + 1
	gapBelow := lb.MaxFontSize + 1
	for i := range blocks {
		other := &blocks[i]
		if other == lb {
			continue
		}
		if !overlapsHorizontally(lb, other) {
			continue
		}
		if other.YMax <= lb.YMin {
			if g := lb.YMin - other.YMax; g < gapAbove {
				gapAbove = g
			}
		}
		if other.YMin >= lb.YMax {
			if g := other.YMin - lb.YMax; g < gapBelow {
				gapBelow = g
			}
		}
	}
	return gapAbove > lb.MaxFontSize || gapBelow > lb.MaxFontSize
}

func overlapsHorizontally(a, b *layout.LineBlock) bool {
	return a.XMin < b.XMax && b.XMin < a.XMax
}

// cleanTitle removes a single trailing footnote mark from a title. Only
// one character comes off, so a title that genuinely ends in digits loses
// at most its last one.
func cleanTitle(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 0 && (s[len(s)-1] == '*' || s[len(s)-1] == '1') {
		s = strings.TrimSpace(s[:len(s)-1])
	}
	return s
}
