// Package lang detects the document language from page text.
//
// Detection is per page first: a language wins a page only when it clearly
// dominates the detected-language mass and the page carries enough actual
// text to be meaningful. The document language is the plurality winner
// across pages, accepted only when it wins at least two pages (or the sole
// page of a one-page document).
package lang

import (
	"unicode"
	"unicode/utf8"

	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/language"
)

// Detection is the outcome of language detection over one text span.
type Detection struct {
	// Code is the ISO 639-1 language code, empty when undetermined.
	Code string

	// Percent is the share of the detected-language mass attributed to
	// Code, in [0,100].
	Percent float64

	// TextRatio is the share of the span's bytes that belong to letters,
	// digits, or spaces, in [0,100]. Low values indicate pages dominated
	// by tables, formulas, or rendering noise.
	TextRatio float64
}

// minPagePercent and minTextRatio gate whether a detection may represent
// its page.
const (
	minPagePercent = 50.0
	minTextRatio   = 30.0
)

// Detect runs language detection over a text span.
func Detect(text string) Detection {
	if text == "" {
		return Detection{}
	}
	info := whatlanggo.Detect(text)
	code := isoCode(whatlanggo.LangToString(info.Lang))
	if code == "" {
		return Detection{}
	}
	return Detection{
		Code:      code,
		Percent:   info.Confidence * 100,
		TextRatio: textRatio(text),
	}
}

// DocumentLanguage returns the plurality language across page texts, or ""
// when no language qualifies.
func DocumentLanguage(pageTexts []string) string {
	votes := map[string]int{}
	for _, text := range pageTexts {
		d := Detect(text)
		if d.Code == "" || d.Percent < minPagePercent || d.TextRatio < minTextRatio {
			continue
		}
		votes[d.Code]++
	}

	// Ties break toward the smaller code so the result does not depend
	// on map iteration order.
	best := ""
	bestVotes := 0
	for code, n := range votes {
		if n > bestVotes || (n == bestVotes && n > 0 && code < best) {
			best = code
			bestVotes = n
		}
	}

	if bestVotes >= 2 {
		return best
	}
	if bestVotes == 1 && len(pageTexts) == 1 {
		return best
	}
	return ""
}

// allowedCodes lists the languages the byline tokenizer can handle:
// Latin-script languages where author names are capitalized words.
var allowedCodes = map[string]bool{
	"af": true, "sq": true, "ay": true, "eu": true, "bs": true, "ca": true,
	"cs": true, "ch": true, "cy": true, "da": true, "de": true, "nl": true,
	"en": true, "et": true, "fo": true, "fj": true, "fi": true, "fr": true,
	"fy": true, "ga": true, "gl": true, "gv": true, "gn": true, "ht": true,
	"hr": true, "hu": true, "is": true, "id": true, "it": true, "kl": true,
	"rw": true, "lv": true, "ln": true, "lt": true, "lb": true, "mh": true,
	"ms": true, "mg": true, "mt": true, "na": true, "nr": true, "nd": true,
	"nn": true, "nb": true, "no": true, "ny": true, "om": true, "pl": true,
	"pt": true, "qu": true, "rm": true, "ro": true, "rn": true, "sg": true,
	"sk": true, "sl": true, "sm": true, "so": true, "st": true, "es": true,
	"ss": true, "sw": true, "sv": true, "tl": true, "to": true, "tn": true,
	"ts": true, "tr": true, "ve": true, "vi": true, "xh": true, "zu": true,
}

// IsAllowed reports whether title/author extraction supports the language.
func IsAllowed(code string) bool {
	return allowedCodes[code]
}

// isoCode maps an ISO 639-3 code to its 639-1 form, returning "" for codes
// with no two-letter equivalent.
func isoCode(code3 string) string {
	base, err := language.ParseBase(code3)
	if err != nil {
		return ""
	}
	code := base.String()
	if len(code) != 2 {
		return ""
	}
	return code
}

func textRatio(text string) float64 {
	total := len(text)
	if total == 0 {
		return 0
	}
	textBytes := 0
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			textBytes += utf8.RuneLen(r)
		}
	}
	return float64(textBytes) * 100 / float64(total)
}
