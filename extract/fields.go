package extract

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/tsawler/bibrec/lookup"
	"github.com/tsawler/bibrec/model"
	"github.com/tsawler/bibrec/textutil"
)

var (
	isbnRe    = regexp.MustCompile(`(?:SBN|sbn)[ \x{2014}\x{2013}\x{2012}-]?(?:10|13)?[: ]*([0-9X][0-9X \x{2014}\x{2013}\x{2012}-]+)`)
	arxivRe   = regexp.MustCompile(`arXiv:([a-zA-Z0-9./]+)`)
	issnRe    = regexp.MustCompile(`ISSN:? *(\d{4}-\d{3}[\dX])`)
	yearRe    = regexp.MustCompile(`(?:^|\(|\s|,)([0-9]{4})(?:\)|,|\s|$)`)
	volumeRe  = regexp.MustCompile(`(?i)\b(?:volume|vol|v)\.?[\s:-]\s*(\d+)`)
	issueRe   = regexp.MustCompile(`(?i)\b(?:issue|num|no|number|n)\.?[\s:-]\s*(\d+)`)
	doiRe     = regexp.MustCompile(`10\.\d{4,9}/[-._;()/:A-Za-z0-9\[\]+<>]+`)
	wordRunRe = regexp.MustCompile(`(?:[\p{L}'.]+ )*[\p{L}'.]+`)
)

// ISBN returns the first checksum-valid ISBN-10 or ISBN-13 in the text.
func ISBN(text string) string {
	for _, m := range isbnRe.FindAllStringSubmatch(text, -1) {
		digits := keepISBNRunes(m[1])
		if (len(digits) == 10 || len(digits) == 13) && textutil.IsValidISBN(digits) {
			return digits
		}
	}
	return ""
}

func keepISBNRunes(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == 'X' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ArXiv returns the first arXiv identifier in the text.
func ArXiv(text string) string {
	if m := arxivRe.FindStringSubmatch(text); m != nil {
		return strings.TrimRight(m[1], ".")
	}
	return ""
}

// ISSN returns the first ISSN in the text.
func ISSN(text string) string {
	if m := issnRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// Year returns the first standalone four-digit number when it falls
// between 1800 and 2030. Only the first match counts; a leading
// out-of-range number means the text is not a dateline.
func Year(text string) string {
	if m := yearRe.FindStringSubmatch(text); m != nil {
		y := m[1]
		if y >= "1800" && y <= "2030" {
			return y
		}
	}
	return ""
}

// Volume returns the first labeled volume number of at most four digits.
func Volume(text string) string {
	if m := volumeRe.FindStringSubmatch(text); m != nil && len(m[1]) <= 4 {
		return m[1]
	}
	return ""
}

// Issue returns the first labeled issue number of at most four digits.
func Issue(text string) string {
	if m := issueRe.FindStringSubmatch(text); m != nil && len(m[1]) <= 4 {
		return m[1]
	}
	return ""
}

// DOI returns the first DOI pattern in the text, lowercased, with
// unbalanced trailing brackets trimmed. When a store is given and the
// match is under 64 characters, progressively shorter prefixes (down to
// ten characters) are tested for existence and the longest known DOI
// wins; otherwise the full trimmed match is returned. Patterns captured
// from running text often drag page furniture along, which the existence
// check cuts off.
func DOI(ctx context.Context, store lookup.Store, text string) string {
	m := doiRe.FindString(text)
	if m == "" {
		return ""
	}
	doi := trimUnbalanced(strings.ToLower(m))

	if store != nil && len(doi) < 64 {
		for l := len(doi); l >= 10; l-- {
			ok, err := store.DOIExists(ctx, doi[:l])
			if err != nil {
				break
			}
			if ok {
				return doi[:l]
			}
		}
	}
	return doi
}

// trimUnbalanced cuts the string at the first closing bracket that has no
// matching opener, dropping punctuation that trailed into the match.
func trimUnbalanced(s string) string {
	round, square := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			round++
		case ')':
			round--
		case '[':
			square++
		case ']':
			square--
		}
		if round < 0 || square < 0 {
			return s[:i]
		}
	}
	return s
}

// Journal scans the text for the longest known journal name. Maximal runs
// of word characters are tried whole, then by shrinking windows of at
// least two words, against the journal-name store.
func Journal(ctx context.Context, store lookup.Store, text string) (string, error) {
	for _, run := range wordRunRe.FindAllString(text, -1) {
		words := strings.Fields(run)
		if len(words) < 2 {
			continue
		}
		for size := len(words); size >= 2; size-- {
			for start := 0; start+size <= len(words); start++ {
				candidate := strings.Join(words[start:start+size], " ")
				ok, err := store.JournalExists(ctx, textutil.Normalize(candidate))
				if err != nil {
					return "", err
				}
				if ok {
					return candidate, nil
				}
			}
		}
	}
	return "", nil
}

const (
	keywordMinChars = 3
	keywordMaxWords = 3
)

// Keywords finds a keywords block on the first two pages: a provisional
// paragraph whose text opens with a keywords heading. Terms are split on
// list punctuation; a single malformed term rejects the whole block, since
// the block was then probably body text that happened to start with the
// heading word.
func Keywords(doc *model.Document) []string {
	for pi := 0; pi < len(doc.Pages) && pi < 2; pi++ {
		for _, group := range provisionalGroups(&doc.Pages[pi]) {
			text := joinLines(group)
			if !textutil.HasKeywordsHeading(text) {
				continue
			}
			if terms := splitKeywords(text); len(terms) > 0 {
				return terms
			}
		}
	}
	return nil
}

func splitKeywords(text string) []string {
	if i := strings.IndexAny(text, ":—–-"); i >= 0 {
		_, w := utf8.DecodeRuneInString(text[i:])
		text = text[i+w:]
	} else if fields := strings.Fields(text); len(fields) > 1 {
		text = strings.Join(fields[1:], " ")
	} else {
		return nil
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), ".")

	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ';' || r == '•' || r == '·'
	})
	var terms []string
	for _, p := range parts {
		term := strings.TrimSpace(p)
		if term == "" {
			continue
		}
		if utf8.RuneCountInString(term) < keywordMinChars ||
			len(strings.Fields(term)) > keywordMaxWords {
			return nil
		}
		terms = append(terms, term)
	}
	return terms
}
