package extract

import (
	"context"
	"testing"

	"github.com/tsawler/bibrec/layout"
	"github.com/tsawler/bibrec/lookup"
	"github.com/tsawler/bibrec/model"
	"github.com/tsawler/bibrec/pages"
	"github.com/tsawler/bibrec/textutil"
)

// titlePage returns a page whose body bulk is set at 10pt, putting the
// title threshold at 11pt.
func titlePage() *model.Page {
	return &model.Page{
		Width:  612,
		Height: 792,
		SizeChars: map[float64]int{
			10: 500,
			18: 40,
		},
	}
}

func TestTitleAndAuthors_LargestCandidateWithByline(t *testing.T) {
	store := nameStore([]string{"maria", "kowalska"}, nil)
	e := NewTitleExtractor(store)

	byline := blockOf(lineOf(130,
		bylineWord("Maria", 80, 130, 11, 2, true),
		bylineWord("Kowalska", 120, 130, 11, 2, false),
		refMark(175, 130),
	))
	blocks := []layout.LineBlock{titleBlock(100), byline}

	title, authors := e.TitleAndAuthors(context.Background(), titlePage(), blocks, -1)
	if title != "Geometric Layout Recognition" {
		t.Errorf("Title = %q", title)
	}
	if len(authors) != 1 || authors[0].LastName != "Kowalska" {
		t.Errorf("Authors = %v", authors)
	}
}

func TestTitleAndAuthors_BelowThresholdRejected(t *testing.T) {
	store := nameStore([]string{"maria", "kowalska"}, nil)
	e := NewTitleExtractor(store)

	// 10pt is the body bulk size; a 10pt block can never be the title.
	smallTitle := blockOf(lineOf(100,
		bylineWord("a", 50, 100, 10, 1, false),
	))
	byline := blockOf(lineOf(130,
		bylineWord("Maria", 80, 130, 11, 2, true),
		bylineWord("Kowalska", 120, 130, 11, 2, false),
		refMark(175, 130),
	))
	blocks := []layout.LineBlock{smallTitle, byline}

	title, _ := e.TitleAndAuthors(context.Background(), titlePage(), blocks, -1)
	if title != "" {
		t.Errorf("Expected no title, got %q", title)
	}
}

func TestTitleAndAuthors_BreakCutoffRejectsCandidates(t *testing.T) {
	store := nameStore([]string{"maria", "kowalska"}, nil)
	e := NewTitleExtractor(store)

	byline := blockOf(lineOf(430,
		bylineWord("Maria", 80, 430, 11, 2, true),
		bylineWord("Kowalska", 120, 430, 11, 2, false),
		refMark(175, 430),
	))
	blocks := []layout.LineBlock{titleBlock(400), byline}

	title, _ := e.TitleAndAuthors(context.Background(), titlePage(), blocks, 300)
	if title != "" {
		t.Errorf("Expected candidates past the break rejected, got %q", title)
	}
}

func TestTitleAndAuthors_QuoteWrappedRejected(t *testing.T) {
	store := nameStore([]string{"maria", "kowalska"}, nil)
	e := NewTitleExtractor(store)

	quoted := blockOf(lineOf(100,
		bylineWord("“Geometric", 50, 100, 18, 1, true),
		bylineWord("Layout", 160, 100, 18, 1, true),
		bylineWord("Recognition”", 240, 100, 18, 1, false),
	))
	byline := blockOf(lineOf(130,
		bylineWord("Maria", 80, 130, 11, 2, true),
		bylineWord("Kowalska", 120, 130, 11, 2, false),
		refMark(175, 130),
	))
	blocks := []layout.LineBlock{quoted, byline}

	title, _ := e.TitleAndAuthors(context.Background(), titlePage(), blocks, -1)
	if title != "" {
		t.Errorf("Expected quoted candidate rejected, got %q", title)
	}
}

// The fallback page sets its body bulk at 10pt with a 12pt head, so the
// threshold lands at 11pt and the short uppercase head is rejected by the
// main candidate loop on length alone.
func fallbackPage() *model.Page {
	return &model.Page{
		Width:  612,
		Height: 792,
		SizeChars: map[float64]int{
			10: 500,
			12: 30,
		},
	}
}

func upperTitleBlock() layout.LineBlock {
	return blockOf(lineOf(100,
		bylineWord("RECOGNIZING", 50, 100, 12, 1, true),
		bylineWord("THE", 170, 100, 12, 1, true),
		bylineWord("LAYOUT", 220, 100, 12, 1, false),
	))
}

func TestTitleAndAuthors_UppercaseFallback(t *testing.T) {
	store := nameStore([]string{"maria", "kowalska"}, nil)
	e := NewTitleExtractor(store)

	byline := blockOf(lineOf(130,
		bylineWord("Maria", 80, 130, 11, 2, true),
		bylineWord("Kowalska", 120, 130, 11, 2, false),
		refMark(175, 130),
	))
	blocks := []layout.LineBlock{upperTitleBlock(), byline}

	title, authors := e.TitleAndAuthors(context.Background(), fallbackPage(), blocks, -1)
	if title != "RECOGNIZING THE LAYOUT" {
		t.Errorf("Title = %q", title)
	}
	if len(authors) != 1 || authors[0].LastName != "Kowalska" {
		t.Errorf("Authors = %v", authors)
	}
}

func TestTitleAndAuthors_UppercaseFallbackNeedsByline(t *testing.T) {
	e := NewTitleExtractor(lookup.NewMemoryStore())

	body := blockOf(lineOf(200,
		bylineWord("body", 50, 200, 10, 2, true),
		bylineWord("text", 85, 200, 10, 2, false),
	))
	blocks := []layout.LineBlock{upperTitleBlock(), body}

	title, authors := e.TitleAndAuthors(context.Background(), fallbackPage(), blocks, -1)
	if title != "" || len(authors) != 0 {
		t.Errorf("Expected nothing without a byline, got %q / %v", title, authors)
	}
}

func TestTitleAndAuthors_TrailingMarkStripped(t *testing.T) {
	store := nameStore([]string{"maria", "kowalska"}, nil)
	e := NewTitleExtractor(store)

	marked := blockOf(lineOf(100,
		bylineWord("Geometric", 50, 100, 18, 1, true),
		bylineWord("Layout", 160, 100, 18, 1, true),
		bylineWord("Recognition*", 240, 100, 18, 1, false),
	))
	byline := blockOf(lineOf(130,
		bylineWord("Maria", 80, 130, 11, 2, true),
		bylineWord("Kowalska", 120, 130, 11, 2, false),
		refMark(175, 130),
	))
	blocks := []layout.LineBlock{marked, byline}

	title, _ := e.TitleAndAuthors(context.Background(), titlePage(), blocks, -1)
	if title != "Geometric Layout Recognition" {
		t.Errorf("Title = %q", title)
	}
}

func TestCleanTitle_StripsOneMarkOnly(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Geometric Layout Recognition*", "Geometric Layout Recognition"},
		{"The Revolution of 1911", "The Revolution of 191"},
		{"Recognition of Page Layouts", "Recognition of Page Layouts"},
		{"Findings on Metadata†", "Findings on Metadata†"},
	}
	for _, tt := range tests {
		if got := cleanTitle(tt.in); got != tt.want {
			t.Errorf("cleanTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAuthorsNearExistingTitle(t *testing.T) {
	store := nameStore([]string{"maria", "kowalska"}, nil)
	e := NewTitleExtractor(store)

	byline := blockOf(lineOf(130,
		bylineWord("Maria", 80, 130, 11, 2, true),
		bylineWord("Kowalska", 120, 130, 11, 2, false),
		refMark(175, 130),
	))
	blocks := []layout.LineBlock{titleBlock(100), byline}

	authors := e.AuthorsNearExistingTitle(context.Background(), blocks, "Geometric layout recognition.")
	if len(authors) != 1 || authors[0].LastName != "Kowalska" {
		t.Errorf("Authors = %v", authors)
	}

	if got := e.AuthorsNearExistingTitle(context.Background(), blocks, "An Entirely Different Title"); got != nil {
		t.Errorf("Expected no authors for unknown title, got %v", got)
	}
}

func TestDOIByTitle_SingleHit(t *testing.T) {
	store := lookup.NewMemoryStore()
	e := NewTitleExtractor(store)

	title := "Recognition of Bibliographic Metadata in Geometric Page Layouts"
	norm := textutil.Normalize(title)
	store.DOIs[norm] = []lookup.MemoryDOI{{DOI: "10.1234/layout"}}

	block := blockOf(lineOf(100,
		bylineWord(title, 50, 100, 18, 1, false),
	))
	doc := &model.Document{
		TotalPages: 1,
		Pages:      []model.Page{{Width: 612, Height: 792}},
		Text:       "\n" + title,
	}
	cluster := func(*model.Page) []layout.LineBlock { return []layout.LineBlock{block} }

	doi, err := e.DOIByTitle(context.Background(), doc, cluster, nil, 2)
	if err != nil {
		t.Fatalf("DOIByTitle failed: %v", err)
	}
	if doi != "10.1234/layout" {
		t.Errorf("DOI = %q", doi)
	}
}

func TestDOIByTitle_TwoDistinctHitsInconclusive(t *testing.T) {
	store := lookup.NewMemoryStore()
	e := NewTitleExtractor(store)

	titleA := "Recognition of Bibliographic Metadata in Geometric Page Layouts"
	titleB := "A Completely Different Study of Citation Extraction Semantics"
	store.DOIs[textutil.Normalize(titleA)] = []lookup.MemoryDOI{{DOI: "10.1234/one"}}
	store.DOIs[textutil.Normalize(titleB)] = []lookup.MemoryDOI{{DOI: "10.1234/two"}}

	blocks := []layout.LineBlock{
		blockOf(lineOf(100, bylineWord(titleA, 50, 100, 18, 1, false))),
		blockOf(lineOf(400, bylineWord(titleB, 50, 400, 12, 1, false))),
	}
	doc := &model.Document{
		TotalPages: 1,
		Pages:      []model.Page{{Width: 612, Height: 792}},
	}
	cluster := func(*model.Page) []layout.LineBlock { return blocks }

	doi, err := e.DOIByTitle(context.Background(), doc, cluster, nil, 2)
	if err != nil {
		t.Fatalf("DOIByTitle failed: %v", err)
	}
	if doi != "" {
		t.Errorf("Expected inconclusive result, got %q", doi)
	}
}

func TestDOIByTitle_RespectsBreakLine(t *testing.T) {
	store := lookup.NewMemoryStore()
	e := NewTitleExtractor(store)

	title := "Recognition of Bibliographic Metadata in Geometric Page Layouts"
	store.DOIs[textutil.Normalize(title)] = []lookup.MemoryDOI{{DOI: "10.1234/blocked"}}

	block := blockOf(lineOf(500, bylineWord(title, 50, 500, 12, 1, false)))
	doc := &model.Document{
		TotalPages: 1,
		Pages:      []model.Page{{Width: 612, Height: 792}},
	}
	cluster := func(*model.Page) []layout.LineBlock { return []layout.LineBlock{block} }
	breakLine := &pages.BreakLine{PageIndex: 0, PageY: 300}

	doi, err := e.DOIByTitle(context.Background(), doc, cluster, breakLine, 2)
	if err != nil {
		t.Fatalf("DOIByTitle failed: %v", err)
	}
	if doi != "" {
		t.Errorf("Expected break line to stop the search, got %q", doi)
	}
}
