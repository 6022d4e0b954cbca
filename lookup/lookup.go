// Package lookup defines the read-only reference stores the recognition
// pipeline consults: word statistics for name-likelihood scoring, known
// journal names, and a title-to-DOI index.
//
// Every key is the 64-bit hash of a normalized string (see
// textutil.Normalize). Stores are opened once and shared across requests;
// all methods are safe for concurrent use.
package lookup

import "context"

// WordStats describes how often a normalized word occurs in different
// roles across the reference corpus.
type WordStats struct {
	// AsWord counts occurrences as a regular title word.
	AsWord int64

	// AsFirstName and AsLastName count occurrences in author name fields.
	AsFirstName int64
	AsLastName  int64
}

// Match reports the outcome of a title-to-DOI lookup.
type Match int

const (
	// MatchNone means no index row matched the title.
	MatchNone Match = iota

	// MatchFound means exactly one row matched and passed validation.
	MatchFound

	// MatchAmbiguous means multiple distinct rows share the title hash, so
	// no DOI can be attributed reliably. Callers must treat this
	// differently from MatchNone: an ambiguous title must not fall through
	// to weaker candidates of the same block.
	MatchAmbiguous
)

// Store is the query contract the pipeline consumes. Implementations must
// not interpret arguments beyond hashing: normalization happens in the
// caller.
//
// A store error is never fatal to recognition; extractors treat it as
// "unknown", contributing neither positive nor negative evidence.
type Store interface {
	// WordStats returns corpus statistics for a normalized word. ok is
	// false when the word is unknown.
	WordStats(ctx context.Context, word string) (stats WordStats, ok bool, err error)

	// JournalExists reports whether a normalized name is a known journal.
	JournalExists(ctx context.Context, name string) (bool, error)

	// DOIByTitle resolves a normalized title to a DOI. The full normalized
	// document text is used to cross-validate the indexed author last
	// names. With strict set, author validation is required regardless of
	// title length.
	DOIByTitle(ctx context.Context, title, text string, strict bool) (doi string, match Match, err error)

	// DOIExists reports whether a DOI is present in the index.
	DOIExists(ctx context.Context, doi string) (bool, error)
}
