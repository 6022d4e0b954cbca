package lookup

import (
	"context"

	"github.com/tsawler/bibrec/textutil"
)

// MemoryStore is an in-memory Store used in tests and small deployments.
// The zero value is empty and usable.
type MemoryStore struct {
	Words    map[string]WordStats
	Journals map[string]bool
	DOIs     map[string][]MemoryDOI
	Existing map[string]bool
}

// MemoryDOI is one in-memory title-to-DOI entry, keyed by normalized title.
type MemoryDOI struct {
	DOI         string
	Author1     string
	Author2     string
	author1Len  int
	author2Len  int
	author1Hash uint64
	author2Hash uint64
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		Words:    map[string]WordStats{},
		Journals: map[string]bool{},
		DOIs:     map[string][]MemoryDOI{},
		Existing: map[string]bool{},
	}
}

// WordStats implements Store.
func (m *MemoryStore) WordStats(_ context.Context, word string) (WordStats, bool, error) {
	stats, ok := m.Words[word]
	return stats, ok, nil
}

// JournalExists implements Store.
func (m *MemoryStore) JournalExists(_ context.Context, name string) (bool, error) {
	return m.Journals[name], nil
}

// DOIByTitle implements Store.
func (m *MemoryStore) DOIByTitle(_ context.Context, title, text string, strict bool) (string, Match, error) {
	entries := m.DOIs[title]
	switch len(entries) {
	case 0:
		return "", MatchNone, nil
	case 1:
		if entries[0].row().validate(title, text, strict) {
			return entries[0].DOI, MatchFound, nil
		}
		return "", MatchNone, nil
	default:
		return "", MatchAmbiguous, nil
	}
}

// DOIExists implements Store.
func (m *MemoryStore) DOIExists(_ context.Context, doi string) (bool, error) {
	return m.Existing[doi], nil
}

func (e MemoryDOI) row() doiRow {
	r := doiRow{doi: e.DOI}
	if e.Author1 != "" {
		r.author1Len = len(e.Author1)
		r.author1Hash = textutil.Hash64(e.Author1)
	}
	if e.Author2 != "" {
		r.author2Len = len(e.Author2)
		r.author2Hash = textutil.Hash64(e.Author2)
	}
	return r
}
