package extract

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/tsawler/bibrec/lookup"
	"github.com/tsawler/bibrec/model"
	"github.com/tsawler/bibrec/textutil"
)

// Metadata holds fields recovered from the document's embedded metadata
// dictionary. Every field is validated against the rendered text or a
// lookup store before it is trusted; producers routinely leave stale
// values from template documents in these keys.
type Metadata struct {
	Title   string
	DOI     string
	ISBN    string
	Authors []Author
}

var metadataDOIRe = regexp.MustCompile(`^10\.\d{4,9}/\S*[^\s.,]$`)

// FromMetadata extracts and validates embedded metadata. A title is
// accepted only when its normalized form occurs in the document text, or
// when a strict title-to-DOI lookup confirms it (which also yields the
// DOI).
func FromMetadata(ctx context.Context, store lookup.Store, doc *model.Document) (Metadata, error) {
	var md Metadata
	normText := textutil.Normalize(doc.Text)

	// Keys in sorted order; map iteration would let the accepted value
	// flip between runs when producers duplicate a key in another case.
	keys := make([]string, 0, len(doc.Metadata))
	for key := range doc.Metadata {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		lower := strings.ToLower(key)
		value := strings.TrimSpace(doc.Metadata[key])
		if value == "" {
			continue
		}
		switch {
		case lower == "title":
			if md.Title != "" {
				continue
			}
			normTitle := textutil.Normalize(value)
			if utf8.RuneCountInString(normTitle) < 15 {
				continue
			}
			if strings.Contains(normText, normTitle) {
				md.Title = value
				continue
			}
			doi, match, err := store.DOIByTitle(ctx, normTitle, normText, true)
			if err != nil {
				return md, err
			}
			if match == lookup.MatchFound {
				md.Title = value
				if md.DOI == "" {
					md.DOI = doi
				}
			}
		case lower == "doi" || lower == "wps-articledoi":
			if md.DOI == "" && metadataDOIRe.MatchString(value) {
				md.DOI = strings.ToLower(value)
			}
		case strings.HasPrefix(lower, "author"):
			if len(md.Authors) == 0 {
				md.Authors = ParseAuthorList(value)
			}
		case lower == "isbn":
			if md.ISBN == "" {
				digits := keepISBNRunes(value)
				if len(digits) == 10 || len(digits) == 13 {
					md.ISBN = digits
				}
			}
		}
	}
	return md, nil
}

// ParseAuthorList parses an author string in either of the two common
// orders: "John P. Smith, Jane Doe and Bob Roe" or "Smith, John; Doe,
// Jane". All entries must parse or the whole string is rejected.
func ParseAuthorList(value string) []Author {
	if authors := parseNaturalOrder(value); len(authors) > 0 {
		return authors
	}
	return parseSurnameFirst(value)
}

func parseNaturalOrder(value string) []Author {
	parts := splitAuthorSeparators(value)
	var authors []Author
	for _, part := range parts {
		names := strings.Fields(strings.TrimSpace(part))
		if len(names) < 2 || len(names) > 4 {
			return nil
		}
		for _, n := range names {
			if !startsUpper(n) {
				return nil
			}
		}
		last := strings.TrimRight(names[len(names)-1], ".")
		if utf8.RuneCountInString(last) < 2 {
			return nil
		}
		authors = append(authors, Author{
			FirstName: strings.Join(names[:len(names)-1], " "),
			LastName:  last,
		})
	}
	return authors
}

func parseSurnameFirst(value string) []Author {
	var authors []Author
	for _, part := range strings.Split(value, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		last, first, ok := strings.Cut(part, ",")
		last, first = strings.TrimSpace(last), strings.TrimSpace(first)
		if !ok || last == "" || first == "" {
			return nil
		}
		if !startsUpper(last) || utf8.RuneCountInString(last) < 2 {
			return nil
		}
		authors = append(authors, Author{FirstName: first, LastName: last})
	}
	return authors
}

func splitAuthorSeparators(value string) []string {
	var parts []string
	for _, chunk := range strings.Split(value, ", ") {
		for _, part := range strings.Split(chunk, " and ") {
			if strings.TrimSpace(part) != "" {
				parts = append(parts, part)
			}
		}
	}
	return parts
}
