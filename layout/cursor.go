package layout

// Cursor is a bounds-checked view over an immutable line-block sequence.
// Extractors navigate block neighborhoods through it instead of doing raw
// index arithmetic.
type Cursor struct {
	blocks []LineBlock
}

// NewCursor wraps a block sequence. The sequence must not be modified while
// the cursor is in use.
func NewCursor(blocks []LineBlock) *Cursor {
	return &Cursor{blocks: blocks}
}

// Len returns the number of blocks.
func (c *Cursor) Len() int {
	return len(c.blocks)
}

// At returns the block at index i, or nil when i is out of range.
func (c *Cursor) At(i int) *LineBlock {
	if i < 0 || i >= len(c.blocks) {
		return nil
	}
	return &c.blocks[i]
}

// Next returns the block after index i, or nil at the end.
func (c *Cursor) Next(i int) *LineBlock {
	return c.At(i + 1)
}

// Prev returns the block before index i, or nil at the start.
func (c *Cursor) Prev(i int) *LineBlock {
	return c.At(i - 1)
}

// Blocks returns the underlying sequence.
func (c *Cursor) Blocks() []LineBlock {
	return c.blocks
}
