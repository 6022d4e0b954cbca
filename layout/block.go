// Package layout groups a page's lines into line blocks: clusters of
// consecutive lines judged to form one semantic unit such as a title, an
// author byline, or a paragraph.
//
// Clustering is a single left-to-right pass in reading order. Each line
// either extends the most recently opened block or starts a new one; a line
// is never compared against anything but the current last block, so the
// result is deterministic and O(lines) per page.
package layout

import (
	"math"
	"strings"

	"github.com/tsawler/bibrec/model"
)

// LineBlock is a cluster of consecutive lines with aggregate typographic
// attributes. Blocks never span pages and are read-only once clustering
// has finished.
type LineBlock struct {
	model.Rect

	// Lines are the member lines in top-to-bottom reading order.
	Lines []model.Line

	// MaxFontSize is the largest font size of any member line.
	MaxFontSize float64

	// DominantFont is the dominant font id of the first line.
	DominantFont int

	// Bold is the bold flag of the block's leading word.
	Bold bool

	// Upper reports whether the block's first line is uppercase-dominant.
	Upper bool
}

// Text joins the block's line texts with single spaces, starting at line
// index skip.
func (b *LineBlock) Text(skip int) string {
	var sb strings.Builder
	for i := skip; i < len(b.Lines); i++ {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(b.Lines[i].Text)
	}
	return sb.String()
}

// CharCount returns the total rune count of the block's line texts.
func (b *LineBlock) CharCount() int {
	n := 0
	for _, l := range b.Lines {
		n += len([]rune(l.Text))
	}
	return n
}

// Config holds the clustering tolerances.
type Config struct {
	// EdgeTolerance is the slack, in points, allowed when testing
	// horizontal containment or edge alignment between a line and a block.
	EdgeTolerance float64

	// SizeTolerance is the maximum font-size difference, in points, for
	// two lines to be considered the same size.
	SizeTolerance float64

	// SmallFontCeiling is the font size at or below which the strict
	// line-gap cap applies. Larger or uppercase text tolerates looser
	// leading.
	SmallFontCeiling float64

	// LooseGapScale multiplies the font size to form the line-gap cap for
	// large or uppercase text.
	LooseGapScale float64
}

// DefaultConfig returns the tolerances tuned against scholarly article
// front matter.
func DefaultConfig() Config {
	return Config{
		EdgeTolerance:    2.0,
		SizeTolerance:    1.0,
		SmallFontCeiling: 12.0,
		LooseGapScale:    2.5,
	}
}

// Clusterer partitions page lines into line blocks.
type Clusterer struct {
	config Config
}

// NewClusterer creates a clusterer with default tolerances.
func NewClusterer() *Clusterer {
	return &Clusterer{config: DefaultConfig()}
}

// NewClustererWithConfig creates a clusterer with custom tolerances.
func NewClustererWithConfig(config Config) *Clusterer {
	return &Clusterer{config: config}
}

// Cluster partitions the page's lines into line blocks. Every line belongs
// to exactly one block and block order preserves line order.
func (c *Clusterer) Cluster(page *model.Page) []LineBlock {
	var blocks []LineBlock
	for i := range page.Lines {
		line := &page.Lines[i]
		var next *model.Line
		if i+1 < len(page.Lines) {
			next = &page.Lines[i+1]
		}
		c.addLine(&blocks, line, next)
	}
	return blocks
}

// addLine extends the last open block with line when all merge predicates
// hold, and opens a new block otherwise.
func (c *Clusterer) addLine(blocks *[]LineBlock, line, next *model.Line) {
	if len(*blocks) > 0 {
		last := &(*blocks)[len(*blocks)-1]
		if c.extends(last, line, next) {
			last.Lines = append(last.Lines, *line)
			last.Rect = last.Rect.Union(line.Rect)
			return
		}
	}

	upper := line.IsUpper()
	bold := false
	if len(line.Words) > 0 {
		bold = line.Words[0].Bold
	}
	*blocks = append(*blocks, LineBlock{
		Rect:         line.Rect,
		Lines:        []model.Line{*line},
		MaxFontSize:  line.MaxFontSize(),
		DominantFont: line.DominantFont(),
		Bold:         bold,
		Upper:        upper,
	})
}

// extends evaluates the merge predicates between the open block and the
// candidate line. All must hold.
func (c *Clusterer) extends(tb *LineBlock, line, next *model.Line) bool {
	if len(line.Words) == 0 {
		return false
	}
	prev := &tb.Lines[len(tb.Lines)-1]
	gap := line.Rect.GapAbove(tb.Rect)
	lineSize := line.MaxFontSize()
	upper := line.IsUpper()

	// Line spacing must stay consistent: the gap to the block must be
	// comparable to the gap from this line to the next one. Superscripts
	// can distort spacing slightly, hence the font-size-scaled tolerance.
	if next != nil {
		nextGap := next.Rect.GapAbove(line.Rect)
		if math.Abs(gap-nextGap) > tb.MaxFontSize/3 {
			return false
		}
	}

	// Case consistency, unless a tight gap and an identically styled word
	// allow an uppercase/non-uppercase switch (embedded italic terms in an
	// uppercase title).
	if tb.Upper != upper {
		if !(gap < tb.MaxFontSize && sharesStyledWord(line, prev)) {
			return false
		}
	}

	// Font consistency: dominant fonts match, or the lines share a
	// multi-character word in the same font.
	if line.DominantFont() != tb.DominantFont && !sharesFontWord(line, prev) {
		return false
	}

	// Leading words must agree on boldness.
	if line.Words[0].Bold != tb.Bold {
		return false
	}

	// Font sizes must match within tolerance, or the lines share a
	// multi-character word at the same size.
	if math.Abs(tb.MaxFontSize-lineSize) > c.config.SizeTolerance && !sharesSizeWord(line, prev) {
		return false
	}

	maxGap := tb.MaxFontSize
	if tb.MaxFontSize > c.config.SmallFontCeiling || tb.Upper {
		maxGap = tb.MaxFontSize * c.config.LooseGapScale
	}
	if gap >= maxGap {
		return false
	}

	// One x-range must contain (or nearly align with) the other, in either
	// direction, so both centered and edge-aligned blocks merge.
	tol := c.config.EdgeTolerance
	if !tb.Rect.HorizontallyContains(line.Rect, tol) && !line.Rect.HorizontallyContains(tb.Rect, tol) {
		return false
	}

	return true
}

// sharesStyledWord reports whether the two lines contain a pair of words
// with identical font, size, and height.
func sharesStyledWord(a, b *model.Line) bool {
	for _, w1 := range a.Words {
		for _, w2 := range b.Words {
			if w1.FontID == w2.FontID && w1.FontSize == w2.FontSize &&
				w1.Rect.Height() == w2.Rect.Height() {
				return true
			}
		}
	}
	return false
}

// sharesFontWord reports whether the two lines share a multi-character word
// rendered in the same font.
func sharesFontWord(a, b *model.Line) bool {
	for _, w1 := range a.Words {
		if len([]rune(w1.Text)) < 2 {
			continue
		}
		for _, w2 := range b.Words {
			if len([]rune(w2.Text)) < 2 {
				continue
			}
			if w1.FontID == w2.FontID {
				return true
			}
		}
	}
	return false
}

// sharesSizeWord reports whether the two lines share a multi-character word
// at the same font size.
func sharesSizeWord(a, b *model.Line) bool {
	for _, w1 := range a.Words {
		if len([]rune(w1.Text)) < 2 {
			continue
		}
		for _, w2 := range b.Words {
			if len([]rune(w2.Text)) < 2 {
				continue
			}
			if w1.FontSize == w2.FontSize {
				return true
			}
		}
	}
	return false
}
