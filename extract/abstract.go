package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tsawler/bibrec/model"
	"github.com/tsawler/bibrec/textutil"
)

// Abstract is an extracted abstract with the position of its first line,
// which downstream search uses as a break boundary.
type Abstract struct {
	PageIndex int
	PageY     float64
	Text      string
}

// structuredHeaders is the closed vocabulary of structured-abstract
// section headings. Values group singular/plural variants.
var structuredHeaders = map[string]int{
	"background":   1,
	"methods":      2,
	"method":       2,
	"conclusions":  3,
	"conclusion":   3,
	"objectives":   4,
	"objective":    4,
	"results":      5,
	"result":       5,
	"purpose":      6,
	"measurements": 7,
}

const headerConclusion = 3

const (
	beforeKeywordsMinChars = 200
	beforeKeywordsMaxChars = 3000
)

// abstractStrategy tries to pull an abstract out of a single page.
type abstractStrategy func(pageIndex int, page *model.Page) (Abstract, bool)

// AbstractExtractor finds the abstract of a document.
type AbstractExtractor struct {
	strategies []abstractStrategy
}

// NewAbstractExtractor creates an extractor with the standard strategy
// order: structured sections, then a titled paragraph, then the paragraph
// preceding a keywords heading.
func NewAbstractExtractor() *AbstractExtractor {
	e := &AbstractExtractor{}
	e.strategies = []abstractStrategy{
		e.structured,
		e.titled,
		e.beforeKeywords,
	}
	return e
}

// Extract scans the document page by page, trying every strategy in order
// on each page. The first hit wins.
func (e *AbstractExtractor) Extract(doc *model.Document) (Abstract, bool) {
	for pi := range doc.Pages {
		for _, strategy := range e.strategies {
			if abs, ok := strategy(pi, &doc.Pages[pi]); ok {
				return abs, true
			}
		}
	}
	return Abstract{}, false
}

// structured recognizes abstracts pre-segmented into labeled sections.
// Every header must align with the first one on x-position and font size
// or the page is rejected outright, at least three distinct header kinds
// must appear, and the final header must be a conclusion. Anything else
// is a section listing, not an abstract.
func (e *AbstractExtractor) structured(pageIndex int, page *model.Page) (Abstract, bool) {
	type header struct {
		lineIndex int
		kind      int
	}
	var headers []header
	var first *model.Line

	for li := range page.Lines {
		line := &page.Lines[li]
		kind, ok := headerKind(line.Text)
		if !ok {
			continue
		}
		if first != nil {
			// A heading off the established x or size means the page
			// quotes section names in running text; the whole premise
			// of a labeled abstract fails.
			if abs(line.XMin-first.XMin) > 2.0 || abs(line.MaxFontSize()-first.MaxFontSize()) > 1.0 {
				return Abstract{}, false
			}
		} else {
			first = line
		}
		headers = append(headers, header{lineIndex: li, kind: kind})
	}

	if len(headers) == 0 {
		return Abstract{}, false
	}
	kinds := map[int]bool{}
	for _, h := range headers {
		kinds[h.kind] = true
	}
	if len(kinds) < 3 || headers[len(headers)-1].kind != headerConclusion {
		return Abstract{}, false
	}

	var sections []string
	for hi, h := range headers {
		end := len(page.Lines)
		if hi+1 < len(headers) {
			end = headers[hi+1].lineIndex
		}
		var lines []*model.Line
		for li := h.lineIndex; li < end; li++ {
			line := &page.Lines[li]
			if li > h.lineIndex {
				if textutil.HasKeywordsHeading(line.Text) {
					break
				}
				prev := page.Lines[li-1]
				if line.YMin-prev.YMax > prev.MaxFontSize() {
					break
				}
			}
			lines = append(lines, line)
		}
		sections = append(sections, joinLines(lines))
	}

	return Abstract{
		PageIndex: pageIndex,
		PageY:     page.Lines[headers[0].lineIndex].YMin,
		Text:      strings.Join(sections, "\n"),
	}, true
}

// titled recognizes a paragraph introduced by an "Abstract" or "Summary"
// heading and extends it until a keywords heading, a structural heading,
// a paragraph-final short line, or a spacing jump ends it.
func (e *AbstractExtractor) titled(pageIndex int, page *model.Page) (Abstract, bool) {
	for li := range page.Lines {
		line := &page.Lines[li]
		rest, ok := stripAbstractHeading(line.Text)
		if !ok {
			continue
		}

		var collected []*model.Line
		text := rest
		firstGap := -1.0
		alignXMax := line.XMax

		for ci := li + 1; ci < len(page.Lines); ci++ {
			cur := &page.Lines[ci]
			prev := page.Lines[ci-1]

			if textutil.HasKeywordsHeading(cur.Text) {
				break
			}
			if _, structural := headerKind(cur.Text); structural {
				break
			}
			if isStructuralHeading(cur.Text) {
				break
			}
			// A line that stops short of the established right margin and
			// ends with a period closes the paragraph.
			if len(collected) > 0 &&
				abs(alignXMax-prev.XMax) > 1.0 &&
				prev.XMax < alignXMax-2.0 &&
				strings.HasSuffix(strings.TrimSpace(prev.Text), ".") {
				break
			}
			gap := cur.YMin - prev.YMax
			if firstGap < 0 {
				firstGap = gap
			} else if gap > firstGap+1.0 {
				break
			}
			if abs(alignXMax-cur.XMax) <= 1.0 || cur.XMax > alignXMax {
				alignXMax = cur.XMax
			}
			collected = append(collected, cur)
		}

		if body := joinLinesText(text, collected); validAbstractBody(body) {
			return Abstract{PageIndex: pageIndex, PageY: line.YMin, Text: body}, true
		}
	}
	return Abstract{}, false
}

// beforeKeywords groups the page's lines into provisional paragraphs with
// a simplified font and spacing rule, then returns the paragraph directly
// above a keywords heading when it reads like an abstract.
func (e *AbstractExtractor) beforeKeywords(pageIndex int, page *model.Page) (Abstract, bool) {
	groups := provisionalGroups(page)
	for gi := 1; gi < len(groups); gi++ {
		if !textutil.HasKeywordsHeading(groups[gi][0].Text) {
			continue
		}
		prev := groups[gi-1]
		body := joinLines(prev)
		n := utf8.RuneCountInString(body)
		if n < beforeKeywordsMinChars || n > beforeKeywordsMaxChars {
			continue
		}
		if !validAbstractBody(body) {
			continue
		}
		return Abstract{PageIndex: pageIndex, PageY: prev[0].YMin, Text: body}, true
	}
	return Abstract{}, false
}

// provisionalGroups splits a page's lines into rough paragraphs: a new
// group starts when the dominant font changes or the vertical gap exceeds
// the previous line's font size. Cheaper than full block clustering and
// good enough for keyword and before-keywords paragraph detection.
func provisionalGroups(page *model.Page) [][]*model.Line {
	var groups [][]*model.Line
	for li := range page.Lines {
		line := &page.Lines[li]
		startNew := len(groups) == 0
		if !startNew {
			cur := groups[len(groups)-1]
			prev := cur[len(cur)-1]
			if line.DominantFont() != prev.DominantFont() ||
				line.YMin-prev.YMax > prev.MaxFontSize() {
				startNew = true
			}
		}
		if startNew {
			groups = append(groups, []*model.Line{line})
		} else {
			groups[len(groups)-1] = append(groups[len(groups)-1], line)
		}
	}
	return groups
}

// headerKind matches a structured-abstract heading: the line's leading
// letters, lowercased, must be in the vocabulary, and the line must start
// with a capital.
func headerKind(text string) (int, bool) {
	text = strings.TrimSpace(text)
	if !startsUpper(text) {
		return 0, false
	}
	var word []rune
	for _, r := range text {
		if !unicode.IsLetter(r) {
			break
		}
		word = append(word, unicode.ToLower(r))
	}
	kind, ok := structuredHeaders[string(word)]
	return kind, ok
}

var structuralHeadings = map[string]bool{"introduction": true, "contents": true}

func isStructuralHeading(text string) bool {
	text = strings.TrimSpace(text)
	if !startsUpper(text) {
		return false
	}
	var word []rune
	for _, r := range text {
		if !unicode.IsLetter(r) {
			break
		}
		word = append(word, unicode.ToLower(r))
	}
	return structuralHeadings[string(word)]
}

// stripAbstractHeading reports whether the line opens an abstract and
// returns the remainder after the heading word and its separator.
func stripAbstractHeading(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	fields := strings.Fields(trimmed)
	if len(fields) == 0 {
		return "", false
	}
	head := strings.TrimFunc(fields[0], func(r rune) bool { return !unicode.IsLetter(r) })
	switch strings.ToLower(head) {
	case "abstract", "summary":
	default:
		return "", false
	}
	rest := strings.TrimSpace(trimmed[strings.Index(trimmed, fields[0])+len(fields[0]):])
	rest = strings.TrimLeft(rest, ":.—–- ")
	return rest, true
}

// validAbstractBody requires a capitalized start and a period end.
func validAbstractBody(body string) bool {
	body = strings.TrimSpace(body)
	if body == "" {
		return false
	}
	return startsUpper(body) && strings.HasSuffix(body, ".")
}

// joinLines concatenates line texts, dropping a trailing hyphen where a
// word wraps and inserting a space otherwise.
func joinLines(lines []*model.Line) string {
	return joinLinesText("", lines)
}

func joinLinesText(seed string, lines []*model.Line) string {
	text := seed
	for _, line := range lines {
		part := strings.TrimSpace(line.Text)
		if part == "" {
			continue
		}
		switch {
		case text == "":
			text = part
		case strings.HasSuffix(text, "-") || strings.HasSuffix(text, "‐"):
			text = strings.TrimRight(text, "-‐") + part
		default:
			text += " " + part
		}
	}
	return text
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
