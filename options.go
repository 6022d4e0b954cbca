package bibrec

import "github.com/tsawler/bibrec/layout"

// Config holds configuration for a Recognizer.
type Config struct {
	// Layout controls line-block clustering.
	Layout layout.Config

	// TitleSearchPages bounds how many leading pages the title-to-DOI
	// search may hash against the store.
	TitleSearchPages int
}

// DefaultConfig returns the configuration tuned for academic PDFs.
func DefaultConfig() Config {
	return Config{
		Layout:           layout.DefaultConfig(),
		TitleSearchPages: 2,
	}
}
