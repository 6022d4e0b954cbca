package bibrec

import "github.com/tsawler/bibrec/extract"

// Author is one recognized author.
type Author = extract.Author

// Citation is the recognition result. Every field is optional; an empty
// field is omitted from the JSON encoding. Missing fields are the normal
// outcome for most documents, not an error.
type Citation struct {
	Type      string   `json:"type,omitempty"`
	Title     string   `json:"title,omitempty"`
	Authors   []Author `json:"authors,omitempty"`
	Abstract  string   `json:"abstract,omitempty"`
	DOI       string   `json:"doi,omitempty"`
	ISBN      string   `json:"isbn,omitempty"`
	ISSN      string   `json:"issn,omitempty"`
	ArXiv     string   `json:"arxiv,omitempty"`
	Container string   `json:"container,omitempty"`
	Volume    string   `json:"volume,omitempty"`
	Issue     string   `json:"issue,omitempty"`
	Year      string   `json:"year,omitempty"`
	Pages     string   `json:"pages,omitempty"`
	Keywords  []string `json:"keywords,omitempty"`
	Language  string   `json:"language,omitempty"`

	// TimeMS is the wall-clock recognition time. The core pipeline leaves
	// it zero; the service shell fills it in.
	TimeMS int64 `json:"timeMs,omitempty"`
}
