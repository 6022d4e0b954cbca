package bibrec

import (
	"context"
	"strings"

	"github.com/tsawler/bibrec/extract"
	"github.com/tsawler/bibrec/lang"
	"github.com/tsawler/bibrec/layout"
	"github.com/tsawler/bibrec/lookup"
	"github.com/tsawler/bibrec/model"
	"github.com/tsawler/bibrec/pages"
	"github.com/tsawler/bibrec/reader"
)

// Recognizer runs the full recognition pipeline over a decoded document.
// It is safe for concurrent use; all mutable state lives in the request.
type Recognizer struct {
	store     lookup.Store
	config    Config
	clusterer *layout.Clusterer
	titles    *extract.TitleExtractor
	abstracts *extract.AbstractExtractor
}

// New creates a Recognizer with the default configuration.
func New(store lookup.Store) *Recognizer {
	return NewWithConfig(store, DefaultConfig())
}

// NewWithConfig creates a Recognizer with a custom configuration.
func NewWithConfig(store lookup.Store, config Config) *Recognizer {
	return &Recognizer{
		store:     store,
		config:    config,
		clusterer: layout.NewClustererWithConfig(config.Layout),
		titles:    extract.NewTitleExtractor(store),
		abstracts: extract.NewAbstractExtractor(),
	}
}

// RecognizeData decodes the wire-format page stream and recognizes it.
// Decode failures are the only errors; a document that yields no fields
// still produces a citation.
func (r *Recognizer) RecognizeData(ctx context.Context, data []byte) (*Citation, error) {
	doc, err := reader.Decode(data)
	if err != nil {
		return nil, err
	}
	return r.Recognize(ctx, doc), nil
}

// Recognize extracts a citation from a decoded document. Each step only
// fills fields the earlier steps left empty, and a failed store lookup
// counts as a miss for that one field, so recognition itself cannot fail.
func (r *Recognizer) Recognize(ctx context.Context, doc *model.Document) *Citation {
	cit := &Citation{}

	pageTexts := make([]string, len(doc.Pages))
	for i := range doc.Pages {
		pageTexts[i] = doc.Pages[i].Text
	}
	cit.Language = lang.DocumentLanguage(pageTexts)

	if j, ok := extract.FromJSTOR(doc); ok {
		cit.Type = j.Type
		cit.Title = j.Title
		cit.Authors = j.Authors
		cit.DOI = j.DOI
		cit.Container = j.Container
		cit.Volume = j.Volume
		cit.Issue = j.Issue
		cit.Year = j.Year
		cit.Pages = j.Pages
		if abs, ok := r.abstracts.Extract(doc); ok {
			cit.Abstract = abs.Text
		}
		return cit
	}

	if md, err := extract.FromMetadata(ctx, r.store, doc); err == nil {
		cit.Title = md.Title
		cit.DOI = md.DOI
		cit.ISBN = md.ISBN
		cit.Authors = md.Authors
	}

	if cit.ISBN == "" {
		cit.ISBN = extract.ISBN(doc.Text)
	}
	cit.ArXiv = extract.ArXiv(doc.Text)
	cit.ISSN = extract.ISSN(doc.Text)

	if hf := pages.HeaderFooterText(doc); hf != "" {
		if name, err := extract.Journal(ctx, r.store, hf); err == nil && name != "" {
			cit.Container = name
		}
		cit.Volume = extract.Volume(hf)
		cit.Year = extract.Year(hf)
		cit.Issue = extract.Issue(hf)
	}

	cit.Keywords = extract.Keywords(doc)
	cit.Type = "journal-article"

	if first, last, ok := pages.PrintedPageRange(doc); ok {
		cit.Pages = pages.PageLabel(first, last)
	} else if doc.TotalPages > 0 {
		cit.Pages = pages.PageLabel(1, doc.TotalPages)
	}

	var breakLine *pages.BreakLine
	if abs, ok := r.abstracts.Extract(doc); ok {
		cit.Abstract = abs.Text
		breakLine = &pages.BreakLine{PageIndex: abs.PageIndex, PageY: abs.PageY}
	}
	if bl, ok := pages.TitleBreakLine(doc); ok {
		if breakLine == nil || bl.Before(*breakLine) {
			breakLine = &bl
		}
	}

	firstPage := pages.FirstContentPage(doc)

	switch {
	case cit.Title != "" && len(cit.Authors) == 0:
		// The known title can sit on any page, not just the first
		// content page.
		for pi := range doc.Pages {
			blocks := r.clusterer.Cluster(&doc.Pages[pi])
			if authors := r.titles.AuthorsNearExistingTitle(ctx, blocks, cit.Title); len(authors) > 0 {
				cit.Authors = authors
				break
			}
		}
	case cit.Title == "" && (cit.Language == "" || lang.IsAllowed(cit.Language)):
		title, authors := r.titleOnPage(ctx, doc, firstPage, breakLine)
		if title == "" && firstPage == 0 && len(doc.Pages) >= 2 {
			title, authors = r.titleOnPage(ctx, doc, 1, breakLine)
		}
		cit.Title = title
		if len(cit.Authors) == 0 {
			cit.Authors = authors
		}
	}

	if cit.DOI == "" {
		if doi, err := r.titles.DOIByTitle(ctx, doc, r.clusterer.Cluster, breakLine, r.config.TitleSearchPages); err == nil {
			cit.DOI = doi
		}
	}
	if cit.DOI == "" {
		cit.DOI = extract.DOI(ctx, r.store, r.leadingText(doc))
	}

	return cit
}

// titleOnPage runs title and byline extraction on one page. Pages past
// the break line hold body matter only.
func (r *Recognizer) titleOnPage(ctx context.Context, doc *model.Document, pageIndex int, breakLine *pages.BreakLine) (string, []Author) {
	if pageIndex >= len(doc.Pages) {
		return "", nil
	}
	if breakLine != nil && pageIndex > breakLine.PageIndex {
		return "", nil
	}
	breakY := -1.0
	if breakLine != nil && breakLine.PageIndex == pageIndex {
		breakY = breakLine.PageY
	}
	page := &doc.Pages[pageIndex]
	return r.titles.TitleAndAuthors(ctx, page, r.clusterer.Cluster(page), breakY)
}

// leadingText is the concatenation of the first pages' text, the search
// space for the fallback DOI pattern match.
func (r *Recognizer) leadingText(doc *model.Document) string {
	var b strings.Builder
	for i := 0; i < len(doc.Pages) && i < r.config.TitleSearchPages; i++ {
		b.WriteString(doc.Pages[i].Text)
	}
	return b.String()
}
