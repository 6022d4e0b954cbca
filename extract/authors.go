// Package extract contains the heuristic, confidence-scored extractors
// that turn line blocks and raw text into citation fields: title, authors,
// abstract, identifiers, journal, and keywords.
//
// Extractors fail closed: when evidence is weak they return nothing rather
// than a doubtful value. A lookup-store error counts as neutral evidence
// and never aborts extraction.
package extract

import (
	"context"
	"math"
	"strings"
	"unicode"

	"github.com/tsawler/bibrec/layout"
	"github.com/tsawler/bibrec/lookup"
	"github.com/tsawler/bibrec/model"
	"github.com/tsawler/bibrec/textutil"
)

// Author is one recognized author with the surname split off.
type Author struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Confidence grades the evidence behind a byline block.
//
// Derivation: a block is Strong when a reference-mark glyph (asterisk,
// dagger, superscript) marks a name, or when no name scores as a regular
// word; Weak when the block holds a single author with mixed evidence
// whose negative side is not overwhelming; None otherwise. Blocks with two
// or more word-like names, or nothing but word-like names, are discarded
// before grading.
type Confidence int

const (
	ConfidenceNone Confidence = iota
	ConfidenceWeak
	ConfidenceStrong
)

// conjunctions join names within one byline and are never part of a name.
var conjunctions = map[string]bool{"and": true, "und": true}

// skipWords are degree and title tokens stripped from bylines.
var skipWords = map[string]bool{
	"by": true, "prof": true, "bsc": true, "dsc": true, "phd": true,
	"md": true, "mph": true, "rd": true, "ld": true, "bch": true,
	"fccp": true, "bao": true, "pharmd": true, "frcp": true, "pa-c": true,
	"rac": true, "mba": true, "drph": true, "mbchb": true, "bm": true,
	"rgn": true, "ba": true, "ms": true, "msc": true,
}

// namePrefixes may start lowercase yet still belong to a surname.
var namePrefixes = map[string]bool{
	"van": true, "von": true, "de": true, "di": true, "da": true,
	"del": true, "della": true, "der": true, "den": true, "la": true,
	"le": true,
}

// strongNegative is the word-likelihood magnitude past which a single
// word-like name disqualifies a weak byline.
const strongNegative = 100.0

// AuthorExtractor finds author bylines near a title block and scores them
// against the word-statistics store.
type AuthorExtractor struct {
	store lookup.Store
}

// NewAuthorExtractor creates an extractor backed by the given store.
func NewAuthorExtractor(store lookup.Store) *AuthorExtractor {
	return &AuthorExtractor{store: store}
}

// nameRun is one candidate author: 1-4 name tokens plus a flag set when a
// reference-mark glyph or a font/baseline shift (superscript affiliation
// marker) terminated the run.
type nameRun struct {
	names []string
	ref   bool
}

// ExtractNearTitle searches the block neighborhood of the title at index
// titleIndex for an author byline: the block below, the block two below
// (when a short note sits between), and the block above. The position with
// the strictly highest confidence wins; the scan order makes "below" win
// ties over "above". A non-empty winner is expanded with same-row and
// same-font blocks.
func (e *AuthorExtractor) ExtractNearTitle(ctx context.Context, cursor *layout.Cursor, titleIndex int) []Author {
	tlb := cursor.At(titleIndex)
	if tlb == nil {
		return nil
	}

	var below, belowSkip, above scored

	if alb := cursor.Next(titleIndex); alb != nil {
		below = e.scoreBlock(ctx, alb)
	}

	if alb := cursor.At(titleIndex + 2); alb != nil {
		slb := cursor.At(titleIndex + 1)
		if slb.CharCount() < 300 &&
			slb.YMin-tlb.YMax < (alb.YMin-slb.YMax)*2 &&
			tlb.MaxFontSize >= slb.MaxFontSize &&
			tlb.MaxFontSize >= alb.MaxFontSize &&
			tlb.YMax < slb.YMin && slb.YMax < alb.YMin {
			belowSkip = e.scoreBlock(ctx, alb)
		}
	}

	if alb := cursor.Prev(titleIndex); alb != nil {
		if tlb.MaxFontSize >= alb.MaxFontSize && tlb.YMin > alb.YMax {
			above = e.scoreBlock(ctx, alb)
		}
	}

	var authors []Author
	winner := -1
	switch {
	case below.conf > ConfidenceNone && below.conf >= belowSkip.conf && below.conf >= above.conf:
		authors = below.authors
		winner = titleIndex + 1
	case belowSkip.conf > ConfidenceNone && belowSkip.conf >= below.conf && belowSkip.conf >= above.conf:
		authors = belowSkip.authors
		winner = titleIndex + 2
	case above.conf > ConfidenceNone && above.conf >= below.conf && above.conf >= belowSkip.conf:
		authors = above.authors
		winner = titleIndex - 1
	}

	if len(authors) == 0 {
		return nil
	}
	if more := e.extractAdditional(ctx, cursor, winner); len(more) > len(authors) {
		authors = more
	}
	return authors
}

type scored struct {
	authors []Author
	conf    Confidence
}

// extractAdditional widens a confirmed byline: blocks sharing the winner's
// row (within 3pt) or its exact leading font and size often hold the
// remaining authors of a multi-column byline. Whichever expansion finds
// more authors wins.
func (e *AuthorExtractor) extractAdditional(ctx context.Context, cursor *layout.Cursor, start int) []Author {
	first := cursor.At(start)
	if first == nil {
		return nil
	}

	var sameRow []Author
	for i := start; i < cursor.Len(); i++ {
		lb := cursor.At(i)
		if math.Abs(first.YMin-lb.YMin) >= 3.0 {
			continue
		}
		s := e.scoreBlock(ctx, lb)
		if len(s.authors) == 0 {
			break
		}
		sameRow = appendNewAuthors(sameRow, s.authors)
	}

	var sameFont []Author
	firstWord := leadingWord(first)
	for i := start; i < cursor.Len(); i++ {
		lb := cursor.At(i)
		w := leadingWord(lb)
		if w == nil || firstWord == nil ||
			w.FontID != firstWord.FontID || w.FontSize != firstWord.FontSize {
			continue
		}
		s := e.scoreBlock(ctx, lb)
		// Font match alone is weak evidence, so the expansion stops as
		// soon as a block fails to score Strong.
		if s.conf != ConfidenceStrong {
			break
		}
		sameFont = appendNewAuthors(sameFont, s.authors)
	}

	if len(sameRow) >= len(sameFont) {
		return sameRow
	}
	return sameFont
}

func leadingWord(lb *layout.LineBlock) *model.Word {
	if lb == nil || len(lb.Lines) == 0 || len(lb.Lines[0].Words) == 0 {
		return nil
	}
	return &lb.Lines[0].Words[0]
}

func appendNewAuthors(dst, src []Author) []Author {
	for _, a := range src {
		exists := false
		for _, b := range dst {
			if a == b {
				exists = true
				break
			}
		}
		if !exists {
			dst = append(dst, a)
		}
	}
	return dst
}

// scoreBlock tokenizes every line of the block into name runs and grades
// the block's overall confidence.
func (e *AuthorExtractor) scoreBlock(ctx context.Context, lb *layout.LineBlock) scored {
	var result scored
	for li := range lb.Lines {
		runs, ok := lineRuns(&lb.Lines[li])
		if !ok || len(runs) == 0 {
			return result
		}

		for _, run := range runs {
			negative := 0
			positive := 0
			overwhelming := false
			for _, name := range run.names {
				if len([]rune(name)) < 3 {
					continue
				}
				score := e.wordScore(ctx, name)
				if score < 0 {
					negative++
					if score <= -strongNegative {
						overwhelming = true
					}
				} else if score > 0 {
					positive++
				}
			}

			if negative >= 2 || negative == len(run.names) {
				break
			}

			c := ConfidenceNone
			if run.ref {
				c = ConfidenceStrong
			}
			if negative == 0 {
				c = ConfidenceStrong
			} else if len(runs) == 1 && negative > 0 && positive > 0 && !overwhelming {
				c = ConfidenceWeak
			}
			if c > result.conf {
				result.conf = c
			}

			last := run.names[len(run.names)-1]
			result.authors = append(result.authors, Author{
				FirstName: strings.Join(run.names[:len(run.names)-1], " "),
				LastName:  last,
			})
		}
	}
	return result
}

// wordScore returns the signed name-likelihood of a token: negative when
// the token is more common as a regular word, positive when more common as
// a first or last name, 0 when unknown or balanced. Store errors score 0.
func (e *AuthorExtractor) wordScore(ctx context.Context, name string) float64 {
	stats, ok, err := e.store.WordStats(ctx, textutil.Normalize(name))
	if err != nil || !ok {
		return 0
	}
	word := float64(stats.AsWord)
	names := float64(stats.AsFirstName + stats.AsLastName)

	switch {
	case names == 0:
		return -word
	case word == 0:
		return names
	case names > word:
		return names / word
	case names < word:
		return -word / names
	default:
		return 0
	}
}

// uchar is one rune of a line tagged with the word that rendered it.
type uchar struct {
	r rune
	w *model.Word
}

// lineRuns tokenizes one line into candidate author runs. ok is false when
// the line produced a malformed run (a surname under two characters),
// which disqualifies the whole line.
func lineRuns(line *model.Line) ([]nameRun, bool) {
	var stream []uchar
	for wi := range line.Words {
		w := &line.Words[wi]
		for _, r := range w.Text {
			stream = append(stream, uchar{r, w})
		}
		if w.SpaceAfter {
			stream = append(stream, uchar{' ', w})
		}
	}

	var runs []nameRun
	var names []string
	var name []rune
	ref := false

	var runFont *model.Word // style of the run's first name

	const (
		flushOK = iota
		flushStop
		flushAbort
	)

	flush := func() int {
		token := string(name)
		if conjunctions[strings.ToLower(token)] || skipWords[strings.ToLower(token)] {
			token = ""
		}
		if token != "" {
			names = append(names, token)
		}
		name = name[:0]

		if len(names) >= 2 && len(names) <= 4 {
			if len([]rune(names[len(names)-1])) < 2 {
				return flushAbort
			}
			runs = append(runs, nameRun{names: append([]string(nil), names...), ref: ref})
			ref = false
			names = names[:0]
			runFont = nil
			return flushOK
		}
		// A 1-name or 5+-name remainder ends tokenization for the line.
		if len(names) != 0 {
			return flushStop
		}
		return flushOK
	}

	styleShift := func(w *model.Word) bool {
		if runFont == nil {
			return false
		}
		if w.FontID != runFont.FontID {
			return true
		}
		return math.Abs(w.FontSize-runFont.FontSize) > 1.0 &&
			math.Abs(w.Baseline-runFont.Baseline) > 1.0
	}

	for i, uc := range stream {
		terminate := false

		switch {
		case uc.r == '~':
			// Decoration glyph, ignore.
		case len(name) == 0:
			switch {
			case uc.r == ' ' || uc.r == '.':
				// Separators before a name are skipped.
			case styleShift(uc.w):
				ref = true
				terminate = true
			case isNameStart(uc.r):
				name = append(name, uc.r)
				if len(names) == 0 {
					runFont = uc.w
				}
			default:
				terminate = true
			}
		default:
			switch {
			case styleShift(uc.w), isRefMark(uc.r):
				ref = true
				terminate = true
			case isNameRune(uc.r):
				name = append(name, uc.r)
			case uc.r == ' ' || uc.r == '.':
				token := string(name)
				lower := strings.ToLower(token)
				switch {
				case conjunctions[lower], skipWords[lower]:
					name = name[:0]
					terminate = true
				case !startsUpper(token) && !namePrefixes[lower]:
					name = name[:0]
					terminate = true
				default:
					names = append(names, token)
					name = name[:0]
					if len(names) >= 4 {
						terminate = true
					}
				}
			default:
				terminate = true
			}
		}

		if terminate || i == len(stream)-1 {
			switch flush() {
			case flushAbort:
				return nil, false
			case flushStop:
				return runs, true
			}
		}
	}
	return runs, true
}

func isNameStart(r rune) bool {
	return unicode.IsLetter(r) && r != 'Æ' && r != 'æ'
}

func isNameRune(r rune) bool {
	if r == 'Æ' || r == 'æ' {
		return false
	}
	return unicode.IsLetter(r) || r == '-' || r == '‐' || r == '`' || r == '\''
}

// isRefMark recognizes the glyphs used as affiliation reference marks.
func isRefMark(r rune) bool {
	switch r {
	case '*', '†', '‡', '§', '¶':
		return true
	}
	return false
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}
