package extract

import (
	"regexp"
	"strings"

	"github.com/tsawler/bibrec/model"
)

// JSTOR holds the fields parsed from a JSTOR cover sheet. The cover sheet
// is machine-generated and line-structured, so parsing it beats running
// the layout heuristics on it.
type JSTOR struct {
	Type      string
	URL       string
	DOI       string
	Title     string
	Authors   []Author
	Container string
	Volume    string
	Issue     string
	Year      string
	Pages     string
}

var (
	jstorStableRe  = regexp.MustCompile(`^Stable URL: (https?://www\.jstor\.org/stable/(\S+))`)
	jstorNumericRe = regexp.MustCompile(`^\d+$`)

	jstorVolRe   = regexp.MustCompile(`, Vol\. (\w+)`)
	jstorNoRe    = regexp.MustCompile(`, No\. (\w+)`)
	jstorYearRe  = regexp.MustCompile(`\(([^)]*?)(\d{4})\)`)
	jstorPagesRe = regexp.MustCompile(`, pp?\. ([-\dxvilc]+)`)
)

// FromJSTOR recognizes a JSTOR cover sheet on the first page. A numeric
// stable-item id doubles as a 10.2307 DOI. A "Chapter Title:" line marks a
// book chapter, with the book title as container; otherwise the sheet
// describes a journal article with a Source line carrying container,
// volume, issue, year, and page range.
func FromJSTOR(doc *model.Document) (JSTOR, bool) {
	if len(doc.Pages) == 0 {
		return JSTOR{}, false
	}
	lines := pageTextLines(&doc.Pages[0])

	var j JSTOR
	for _, line := range lines {
		if m := jstorStableRe.FindStringSubmatch(line); m != nil {
			j.URL = m[1]
			if jstorNumericRe.MatchString(m[2]) {
				j.DOI = "10.2307/" + m[2]
			}
		}
	}
	if j.URL == "" {
		return JSTOR{}, false
	}

	j.Type = "journal-article"
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "Chapter Title: "):
			j.Type = "book-chapter"
			j.Title = strings.TrimSpace(strings.TrimPrefix(line, "Chapter Title: "))
		case strings.HasPrefix(line, "Book Title: "):
			j.Container = strings.TrimSpace(strings.TrimPrefix(line, "Book Title: "))
		case strings.HasPrefix(line, "Author(s): "):
			j.Authors = jstorAuthors(strings.TrimPrefix(line, "Author(s): "))
			if j.Title == "" && i > 0 {
				j.Title = strings.TrimSpace(lines[i-1])
			}
		case strings.HasPrefix(line, "Review by: "):
			j.Authors = jstorAuthors(strings.TrimPrefix(line, "Review by: "))
			if j.Title == "" && i > 0 {
				j.Title = strings.TrimSpace(lines[i-1])
			}
		case strings.HasPrefix(line, "Source: "):
			parseJSTORSource(&j, strings.TrimPrefix(line, "Source: "))
		}
	}
	return j, true
}

func parseJSTORSource(j *JSTOR, source string) {
	if m := jstorVolRe.FindStringSubmatch(source); m != nil {
		j.Volume = m[1]
	}
	if m := jstorNoRe.FindStringSubmatch(source); m != nil {
		j.Issue = m[1]
	}
	if m := jstorYearRe.FindStringSubmatch(source); m != nil {
		j.Year = m[2]
	}
	if m := jstorPagesRe.FindStringSubmatch(source); m != nil {
		j.Pages = m[1]
	}
	if j.Container == "" {
		name := source
		if i := strings.Index(name, ", Vol."); i >= 0 {
			name = name[:i]
		} else if i := strings.Index(name, ", No."); i >= 0 {
			name = name[:i]
		} else if i := strings.Index(name, " ("); i >= 0 {
			name = name[:i]
		}
		j.Container = strings.TrimSpace(name)
	}
}

// jstorAuthors splits the cover sheet's author list. The sheet does not
// separate given names from surnames, so each full name is carried as a
// surname.
func jstorAuthors(list string) []Author {
	var authors []Author
	for _, chunk := range strings.Split(list, ", ") {
		for _, name := range strings.Split(chunk, " and ") {
			name = strings.TrimSpace(name)
			if name != "" {
				authors = append(authors, Author{LastName: name})
			}
		}
	}
	return authors
}

func pageTextLines(page *model.Page) []string {
	var lines []string
	for i := range page.Lines {
		lines = append(lines, page.Lines[i].Text)
	}
	return lines
}
