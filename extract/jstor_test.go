package extract

import (
	"reflect"
	"testing"

	"github.com/tsawler/bibrec/model"
)

func jstorDoc(lines ...string) *model.Document {
	page := model.Page{Width: 612, Height: 792}
	for i, text := range lines {
		y := 50 + float64(i)*15
		page.Lines = append(page.Lines, paraLine(text, 50, 400, y, 10, 1))
	}
	return &model.Document{TotalPages: 1, Pages: []model.Page{page}}
}

func TestFromJSTOR_JournalArticle(t *testing.T) {
	doc := jstorDoc(
		"The Economics of Page Layout",
		"Author(s): Maria Kowalska and Jan Nowak",
		"Source: The Economic Journal, Vol. 105, No. 428 (Jan., 1995), pp. 1-21",
		"Stable URL: https://www.jstor.org/stable/2235243",
	)

	j, ok := FromJSTOR(doc)
	if !ok {
		t.Fatal("Expected a cover sheet")
	}
	if j.Type != "journal-article" {
		t.Errorf("Type = %q", j.Type)
	}
	if j.Title != "The Economics of Page Layout" {
		t.Errorf("Title = %q", j.Title)
	}
	if j.DOI != "10.2307/2235243" {
		t.Errorf("DOI = %q", j.DOI)
	}
	if j.Container != "The Economic Journal" {
		t.Errorf("Container = %q", j.Container)
	}
	if j.Volume != "105" || j.Issue != "428" || j.Year != "1995" || j.Pages != "1-21" {
		t.Errorf("Source fields = %q/%q/%q/%q", j.Volume, j.Issue, j.Year, j.Pages)
	}
	wantAuthors := []Author{{LastName: "Maria Kowalska"}, {LastName: "Jan Nowak"}}
	if !reflect.DeepEqual(j.Authors, wantAuthors) {
		t.Errorf("Authors = %v", j.Authors)
	}
}

func TestFromJSTOR_BookChapter(t *testing.T) {
	doc := jstorDoc(
		"Chapter Title: Measuring Line Gaps",
		"Book Title: Document Geometry",
		"Author(s): Maria Kowalska",
		"Stable URL: https://www.jstor.org/stable/j.ctt1x07z.9",
	)

	j, ok := FromJSTOR(doc)
	if !ok {
		t.Fatal("Expected a cover sheet")
	}
	if j.Type != "book-chapter" {
		t.Errorf("Type = %q", j.Type)
	}
	if j.Title != "Measuring Line Gaps" {
		t.Errorf("Title = %q", j.Title)
	}
	if j.Container != "Document Geometry" {
		t.Errorf("Container = %q", j.Container)
	}
	// Non-numeric stable ids have no derivable DOI.
	if j.DOI != "" {
		t.Errorf("DOI = %q, want empty", j.DOI)
	}
	if j.URL != "https://www.jstor.org/stable/j.ctt1x07z.9" {
		t.Errorf("URL = %q", j.URL)
	}
}

func TestFromJSTOR_NoStableURL(t *testing.T) {
	doc := jstorDoc(
		"An ordinary first page",
		"Author(s): Maria Kowalska",
	)

	if _, ok := FromJSTOR(doc); ok {
		t.Error("Expected no cover sheet without a stable URL")
	}
}
