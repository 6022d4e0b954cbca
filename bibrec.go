// Package bibrec recognizes bibliographic metadata in the geometric text
// layout of academic PDF pages: positioned words are grouped into lines
// and line blocks, and a cascade of heuristic extractors pulls out the
// title, authors, abstract, identifiers, and journal information.
//
// Basic usage:
//
//	store, err := lookup.OpenSQLite(lookup.SQLiteConfig{
//	    WordPath:    "wordlist.sqlite",
//	    JournalPath: "journals.sqlite",
//	    DOIPath:     "dois.sqlite",
//	})
//	if err != nil {
//	    // handle error
//	}
//	defer store.Close()
//
//	cit, err := bibrec.Recognize(ctx, pageStream, store)
//	if err != nil {
//	    // handle error
//	}
//	fmt.Println(cit.Title)
//
// For more control over clustering and search bounds, construct a
// Recognizer with NewWithConfig.
package bibrec

import (
	"context"

	"github.com/tsawler/bibrec/lookup"
)

// Recognize decodes the wire-format page stream and runs the recognition
// pipeline with the default configuration.
func Recognize(ctx context.Context, data []byte, store lookup.Store) (*Citation, error) {
	return New(store).RecognizeData(ctx, data)
}
