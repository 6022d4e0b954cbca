package lookup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/tsawler/bibrec/textutil"
)

// SQLiteConfig names the three database files backing a SQLiteStore.
type SQLiteConfig struct {
	// WordPath is the word-statistics database (table word: hash, a, b, c).
	WordPath string

	// JournalPath is the journal-name database (table journal: hash).
	JournalPath string

	// DOIPath is the title-to-DOI index (table doidata: title_hash, doi,
	// author1_hash, author1_len, author2_hash, author2_len).
	DOIPath string
}

// SQLiteStore is a Store backed by three read-only SQLite databases.
// Hashes are stored as signed 64-bit integers; keys are converted on query.
type SQLiteStore struct {
	word    *sql.DB
	journal *sql.DB
	doi     *sql.DB
}

// OpenSQLite opens the three lookup databases in read-only mode.
func OpenSQLite(cfg SQLiteConfig) (*SQLiteStore, error) {
	s := &SQLiteStore{}
	var err error
	if s.word, err = openRO(cfg.WordPath); err != nil {
		return nil, fmt.Errorf("lookup: word store: %w", err)
	}
	if s.journal, err = openRO(cfg.JournalPath); err != nil {
		s.Close()
		return nil, fmt.Errorf("lookup: journal store: %w", err)
	}
	if s.doi, err = openRO(cfg.DOIPath); err != nil {
		s.Close()
		return nil, fmt.Errorf("lookup: doi store: %w", err)
	}
	return s, nil
}

func openRO(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return nil, err
	}
	return db, nil
}

// Close releases the underlying databases.
func (s *SQLiteStore) Close() error {
	var first error
	for _, db := range []*sql.DB{s.word, s.journal, s.doi} {
		if db == nil {
			continue
		}
		if err := db.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// WordStats implements Store.
func (s *SQLiteStore) WordStats(ctx context.Context, word string) (WordStats, bool, error) {
	var stats WordStats
	row := s.word.QueryRowContext(ctx,
		`SELECT a, b, c FROM word WHERE hash = ? LIMIT 1`, key(word))
	err := row.Scan(&stats.AsWord, &stats.AsFirstName, &stats.AsLastName)
	if errors.Is(err, sql.ErrNoRows) {
		return WordStats{}, false, nil
	}
	if err != nil {
		return WordStats{}, false, err
	}
	return stats, true, nil
}

// JournalExists implements Store.
func (s *SQLiteStore) JournalExists(ctx context.Context, name string) (bool, error) {
	var one int
	row := s.journal.QueryRowContext(ctx,
		`SELECT 1 FROM journal WHERE hash = ? LIMIT 1`, key(name))
	err := row.Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// DOIByTitle implements Store. Two rows sharing the title hash yield
// MatchAmbiguous without attempting validation.
func (s *SQLiteStore) DOIByTitle(ctx context.Context, title, text string, strict bool) (string, Match, error) {
	rows, err := s.doi.QueryContext(ctx,
		`SELECT doi, author1_hash, author1_len, author2_hash, author2_len
		 FROM doidata WHERE title_hash = ? LIMIT 2`, key(title))
	if err != nil {
		return "", MatchNone, err
	}
	defer rows.Close()

	var found []doiRow
	for rows.Next() {
		var r doiRow
		var h1, h2 int64
		if err := rows.Scan(&r.doi, &h1, &r.author1Len, &h2, &r.author2Len); err != nil {
			return "", MatchNone, err
		}
		r.author1Hash = uint64(h1)
		r.author2Hash = uint64(h2)
		found = append(found, r)
	}
	if err := rows.Err(); err != nil {
		return "", MatchNone, err
	}

	switch len(found) {
	case 0:
		return "", MatchNone, nil
	case 1:
		if found[0].validate(title, text, strict) {
			return found[0].doi, MatchFound, nil
		}
		return "", MatchNone, nil
	default:
		return "", MatchAmbiguous, nil
	}
}

// DOIExists implements Store.
func (s *SQLiteStore) DOIExists(ctx context.Context, doi string) (bool, error) {
	var one int
	row := s.doi.QueryRowContext(ctx,
		`SELECT 1 FROM doidata WHERE doi = ? LIMIT 1`, doi)
	err := row.Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func key(s string) int64 {
	return int64(textutil.Hash64(s))
}
