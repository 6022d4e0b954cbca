// Package textutil provides text normalization, hashing, and validation
// helpers shared by the recognition pipeline and the lookup stores.
package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/text/unicode/norm"
)

var keywordsHeading = regexp.MustCompile(`^(Keyword|KEYWORD|Key Word|Key word|Indexing Terms)`)

// HasKeywordsHeading reports whether a line of text begins with a keywords
// or indexing-terms heading. Several components treat such a line as a
// structural boundary: abstracts end there and title search never proceeds
// past it.
func HasKeywordsHeading(text string) bool {
	return keywordsHeading.MatchString(text)
}

// Normalize reduces text to a canonical lookup form: all non-letter runes
// are removed, the remainder is compatibility-decomposed (NFKD), stripped
// of non-letters again (dropping combining marks), and lowercased.
//
// Every key used against a lookup store must pass through Normalize first
// so that hashes computed here match hashes computed at store build time.
func Normalize(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range text {
		if unicode.IsLetter(r) {
			sb.WriteRune(r)
		}
	}
	decomposed := norm.NFKD.String(sb.String())
	sb.Reset()
	for _, r := range decomposed {
		if unicode.IsLetter(r) {
			sb.WriteRune(unicode.ToLower(r))
		}
	}
	return sb.String()
}

// Hash64 returns the 64-bit key for a normalized string. The lookup stores
// are keyed by this value.
func Hash64(s string) uint64 {
	return xxhash.Sum64String(s)
}

// AlphabeticPercent returns the percentage of runes in text that are
// letters. An empty string yields 0.
func AlphabeticPercent(text string) float64 {
	if text == "" {
		return 0
	}
	total := 0
	letters := 0
	for _, r := range text {
		total++
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return float64(letters) * 100 / float64(total)
}

// UppercasePercent returns the percentage of runes that are unchanged by
// unicode.ToUpper. Digits and punctuation count as uppercase, matching the
// behavior the block clusterer expects for "mostly uppercase" detection.
func UppercasePercent(text string) float64 {
	if text == "" {
		return 0
	}
	total := 0
	upper := 0
	for _, r := range text {
		total++
		if unicode.ToUpper(r) == r {
			upper++
		}
	}
	return float64(upper) * 100 / float64(total)
}

// IsValidISBN validates an ISBN-10 or ISBN-13 checksum. Non-digit,
// non-X characters are stripped before validation.
func IsValidISBN(s string) bool {
	var sb strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' || r == 'X' || r == 'x' {
			sb.WriteRune(unicode.ToUpper(r))
		}
	}
	str := sb.String()

	switch len(str) {
	case 13:
		sum := 0
		for i := 0; i < 12; i++ {
			digit := int(str[i] - '0')
			if str[i] < '0' || str[i] > '9' {
				return false
			}
			if i%2 == 1 {
				sum += 3 * digit
			} else {
				sum += digit
			}
		}
		check := (10 - sum%10) % 10
		return str[12] == byte('0'+check)
	case 10:
		sum := 0
		for i := 0; i < 9; i++ {
			if str[i] < '0' || str[i] > '9' {
				return false
			}
			sum += (10 - i) * int(str[i]-'0')
		}
		check := 11 - sum%11
		switch check {
		case 10:
			return str[9] == 'X'
		case 11:
			return str[9] == '0'
		default:
			return str[9] == byte('0'+check)
		}
	}
	return false
}
