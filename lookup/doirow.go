package lookup

import "github.com/cespare/xxhash/v2"

// doiRow is one title-to-DOI index entry. The index stores only the hash
// and byte length of up to two author last names, enough to confirm their
// presence in the document text without storing the names themselves.
type doiRow struct {
	doi         string
	author1Hash uint64
	author1Len  int
	author2Hash uint64
	author2Len  int
}

// validate cross-checks an index row against the normalized document text.
// Short titles must match every indexed author; long titles need one.
// Names under 4 bytes cause too many false positives and are skipped.
func (r doiRow) validate(title, text string, strict bool) bool {
	if !strict && len(title) >= 50 {
		return true
	}

	found1 := r.author1Len >= 4 && authorInText(text, r.author1Hash, r.author1Len)
	found2 := r.author2Len >= 4 && authorInText(text, r.author2Hash, r.author2Len)

	if len(title) < 30 {
		return found1 && (r.author2Len < 4 || found2)
	}
	return found1 || found2
}

// authorInText reports whether any substring of text of the given byte
// length hashes to authorHash.
func authorInText(text string, authorHash uint64, authorLen int) bool {
	if authorLen <= 0 || authorLen > len(text) {
		return false
	}
	data := []byte(text)
	for i := 0; i+authorLen <= len(data); i++ {
		if xxhash.Sum64(data[i:i+authorLen]) == authorHash {
			return true
		}
	}
	return false
}
