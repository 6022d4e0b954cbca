package reader

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// wireWord renders one word tuple in the wire format.
func wireWord(x, y, x2, y2, size float64, space int, font int, text string) string {
	return fmt.Sprintf(`[%v,%v,%v,%v,%v,%d,%v,0,0,0,0,0,%d,%q]`,
		x, y, x2, y2, size, space, y2, font, text)
}

func wireLine(words ...string) string {
	return "[[" + strings.Join(words, ",") + "]]"
}

// wireBlock wraps lines in the blocked shape with an explicit bbox.
func wireBlock(x, y, x2, y2 float64, lines ...string) string {
	return fmt.Sprintf("[%v,%v,%v,%v,[%s]]", x, y, x2, y2, strings.Join(lines, ","))
}

// wirePage renders a page with a single column holding the given blocks
// (or, in the flat variant, lines).
func wirePage(w, h float64, items ...string) string {
	return fmt.Sprintf("[%v,%v,[[[%s]]]]", w, h, strings.Join(items, ","))
}

func TestDecode_BlockedShape(t *testing.T) {
	line1 := wireLine(
		wireWord(50, 100, 90, 112, 12, 1, 1, "Hello"),
		wireWord(95, 100, 140, 112, 12, 0, 1, "world"),
	)
	line2 := wireLine(wireWord(50, 120, 120, 132, 12, 0, 2, "Second"))
	doc := `{"totalPages":1,"metadata":{"Title":"Test Doc"},"pages":[` +
		wirePage(612, 792, wireBlock(50, 100, 140, 132, line1, line2)) + `]}`

	d, err := Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if d.TotalPages != 1 {
		t.Errorf("Expected totalPages 1, got %d", d.TotalPages)
	}
	if d.Metadata["Title"] != "Test Doc" {
		t.Errorf("Metadata not carried: %v", d.Metadata)
	}
	if len(d.Pages) != 1 {
		t.Fatalf("Expected 1 page, got %d", len(d.Pages))
	}

	page := d.Pages[0]
	if page.Width != 612 || page.Height != 792 {
		t.Errorf("Page size = %vx%v", page.Width, page.Height)
	}
	if len(page.Lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(page.Lines))
	}
	if page.Lines[0].Text != "Hello world" {
		t.Errorf("Line text = %q", page.Lines[0].Text)
	}
	if page.Lines[0].XMin != 50 || page.Lines[0].XMax != 140 {
		t.Errorf("Line bbox = [%v,%v]", page.Lines[0].XMin, page.Lines[0].XMax)
	}
	if !strings.Contains(d.Text, "Hello world") || !strings.Contains(d.Text, "Second") {
		t.Errorf("Document text = %q", d.Text)
	}
}

func TestDecode_FlatShape(t *testing.T) {
	line := wireLine(wireWord(50, 100, 90, 112, 12, 0, 1, "Flat"))
	doc := `{"totalPages":1,"pages":[` + wirePage(612, 792, line) + `]}`

	d, err := Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(d.Pages[0].Lines) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(d.Pages[0].Lines))
	}
	if d.Pages[0].Lines[0].Text != "Flat" {
		t.Errorf("Line text = %q", d.Pages[0].Lines[0].Text)
	}
}

func TestDecode_MissingTotalPages(t *testing.T) {
	_, err := Decode([]byte(`{"pages":[[612,792,[]]]}`))
	if !errors.Is(err, ErrNoTotalPages) {
		t.Errorf("Expected ErrNoTotalPages, got %v", err)
	}
}

func TestDecode_MissingPages(t *testing.T) {
	_, err := Decode([]byte(`{"totalPages":3}`))
	if !errors.Is(err, ErrNoPages) {
		t.Errorf("Expected ErrNoPages, got %v", err)
	}
}

func TestDecode_InvalidJSON(t *testing.T) {
	if _, err := Decode([]byte(`{`)); err == nil {
		t.Error("Expected error for invalid JSON")
	}
}

func TestDecode_StripsZeroWidthSpaces(t *testing.T) {
	line := wireLine(wireWord(50, 100, 90, 112, 12, 0, 1, "Ti​tle"))
	doc := `{"totalPages":1,"pages":[` + wirePage(612, 792, line) + `]}`

	d, err := Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if d.Pages[0].Lines[0].Text != "Title" {
		t.Errorf("Expected zero-width space stripped, got %q", d.Pages[0].Lines[0].Text)
	}
}

func TestDecode_Histograms(t *testing.T) {
	line := wireLine(
		wireWord(50, 100, 90, 112, 12, 1, 1, "abcd"),
		wireWord(95, 100, 140, 112, 18, 0, 2, "efg"),
	)
	doc := `{"totalPages":1,"pages":[` + wirePage(612, 792, line) + `]}`

	d, err := Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	page := d.Pages[0]
	if page.FontChars[1] != 4 || page.FontChars[2] != 3 {
		t.Errorf("FontChars = %v", page.FontChars)
	}
	if page.SizeChars[12] != 4 || page.SizeChars[18] != 3 {
		t.Errorf("SizeChars = %v", page.SizeChars)
	}
	if page.ContentLeft != 50 || page.ContentRight != 140 {
		t.Errorf("Content bounds = [%v,%v]", page.ContentLeft, page.ContentRight)
	}
}

func TestDecode_EmptyLinesSkipped(t *testing.T) {
	doc := `{"totalPages":1,"pages":[` +
		wirePage(612, 792, "[[]]", wireLine(wireWord(50, 100, 90, 112, 12, 0, 1, "kept"))) + `]}`

	d, err := Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(d.Pages[0].Lines) != 1 {
		t.Errorf("Expected empty line skipped, got %d lines", len(d.Pages[0].Lines))
	}
}
