// Package reader decodes the array-encoded page stream produced by layout
// extraction tools into the model used by the recognition pipeline.
//
// The wire format keeps page content in positional arrays to reduce request
// size. Each page is [width, height, columns]; a column is [blocks]; a
// block is [xMin, yMin, xMax, yMax, lines]; a line is [words]; a word is a
// fixed 14-element tuple. Flatter producer variants omit the block level
// and list lines directly; both shapes are accepted.
//
// Decoding is a single forward pass that also accumulates the running
// document and page text, the per-page font and font-size character
// histograms, and the content bounds. The resulting model is never
// mutated afterward.
package reader

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tsawler/bibrec/model"
)

var (
	// ErrNoTotalPages indicates the input is missing a usable totalPages
	// field. This is a hard failure: no partial result is produced.
	ErrNoTotalPages = errors.New("reader: missing totalPages")

	// ErrNoPages indicates the input has no page array.
	ErrNoPages = errors.New("reader: missing pages")
)

type envelope struct {
	TotalPages int               `json:"totalPages"`
	Metadata   map[string]string `json:"metadata"`
	Pages      []json.RawMessage `json:"pages"`
}

// Decode parses wire-format JSON into a model.Document.
func Decode(data []byte) (*model.Document, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("reader: invalid input: %w", err)
	}
	if env.TotalPages == 0 {
		return nil, ErrNoTotalPages
	}
	if len(env.Pages) == 0 {
		return nil, ErrNoPages
	}

	doc := &model.Document{
		TotalPages: env.TotalPages,
		Metadata:   env.Metadata,
	}

	var docText strings.Builder
	for _, raw := range env.Pages {
		var node []any
		if err := json.Unmarshal(raw, &node); err != nil {
			return nil, fmt.Errorf("reader: invalid page: %w", err)
		}
		page, err := decodePage(node, &docText)
		if err != nil {
			return nil, err
		}
		doc.Pages = append(doc.Pages, page)
	}
	doc.Text = docText.String()

	return doc, nil
}

func decodePage(node []any, docText *strings.Builder) (model.Page, error) {
	page := model.Page{
		FontChars:   map[int]int{},
		SizeChars:   map[float64]int{},
		ContentLeft: 1e9,
	}
	if len(node) < 3 {
		return page, errors.New("reader: page tuple too short")
	}
	page.Width = asFloat(node[0])
	page.Height = asFloat(node[1])

	var pageText strings.Builder
	columns, ok := node[2].([]any)
	if !ok {
		return page, errors.New("reader: page columns are not an array")
	}
	for _, c := range columns {
		column, ok := c.([]any)
		if !ok || len(column) == 0 {
			continue
		}
		for _, lineNode := range columnLines(column) {
			line, empty := decodeLine(lineNode, &page, &pageText, docText)
			if !empty {
				page.Lines = append(page.Lines, line)
			}
		}
	}
	page.Text = pageText.String()
	if page.ContentLeft > page.ContentRight {
		page.ContentLeft = 0
	}
	return page, nil
}

// columnLines flattens one column into its line nodes, accepting both the
// blocked shape ([blocks] where a block is [x,y,x,y,lines]) and the flat
// shape (lines listed directly).
func columnLines(column []any) [][]any {
	var lines [][]any
	blocks, ok := column[0].([]any)
	if !ok {
		return nil
	}
	for _, b := range blocks {
		block, ok := b.([]any)
		if !ok {
			continue
		}
		if len(block) >= 5 {
			if blockLines, ok := block[4].([]any); ok {
				for _, l := range blockLines {
					if lineNode, ok := l.([]any); ok {
						lines = append(lines, lineNode)
					}
				}
				continue
			}
		}
		// Flat variant: the block node is itself a line.
		lines = append(lines, block)
	}
	return lines
}

func decodeLine(node []any, page *model.Page, pageText, docText *strings.Builder) (model.Line, bool) {
	var line model.Line
	if len(node) == 0 {
		return line, true
	}
	words, ok := node[0].([]any)
	if !ok {
		return line, true
	}

	var lineText strings.Builder
	first := true
	for _, w := range words {
		tuple, ok := w.([]any)
		if !ok || len(tuple) < 14 {
			continue
		}
		word := decodeWord(tuple)
		if first {
			line.Rect = word.Rect
			first = false
		} else {
			line.Rect = line.Rect.Union(word.Rect)
		}
		line.Words = append(line.Words, word)

		lineText.WriteString(word.Text)
		if word.SpaceAfter {
			lineText.WriteByte(' ')
		}

		if word.XMin < page.ContentLeft {
			page.ContentLeft = word.XMin
		}
		if word.XMax > page.ContentRight {
			page.ContentRight = word.XMax
		}
		chars := len([]rune(word.Text))
		page.FontChars[word.FontID] += chars
		page.SizeChars[word.FontSize] += chars
	}
	if len(line.Words) == 0 {
		return line, true
	}
	line.Text = lineText.String()

	pageText.WriteByte('\n')
	pageText.WriteString(line.Text)
	docText.WriteByte('\n')
	docText.WriteString(line.Text)

	return line, false
}

func decodeWord(tuple []any) model.Word {
	return model.Word{
		Rect: model.Rect{
			XMin: asFloat(tuple[0]),
			YMin: asFloat(tuple[1]),
			XMax: asFloat(tuple[2]),
			YMax: asFloat(tuple[3]),
		},
		FontSize:   asFloat(tuple[4]),
		SpaceAfter: asBool(tuple[5]),
		Baseline:   asFloat(tuple[6]),
		Rotation:   int(asFloat(tuple[7])),
		Underlined: asBool(tuple[8]),
		Bold:       asBool(tuple[9]),
		Italic:     asBool(tuple[10]),
		Color:      int(asFloat(tuple[11])),
		FontID:     int(asFloat(tuple[12])),
		Text:       clean(asString(tuple[13])),
	}
}

// clean strips zero-width space characters from word text.
func clean(s string) string {
	if !strings.ContainsRune(s, '​') {
		return s
	}
	return strings.ReplaceAll(s, "​", "")
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case bool:
		if n {
			return 1
		}
	}
	return 0
}

func asBool(v any) bool {
	switch n := v.(type) {
	case bool:
		return n
	case float64:
		return n != 0
	}
	return false
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}
