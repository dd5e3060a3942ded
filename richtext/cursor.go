package richtext

import (
	"golang.org/x/text/unicode/norm"
)

// Cursor is the single insertion point of a document. It points either
// at the top level of the document or into a table cell, always at the
// current (last inserted) block. All insertions happen at the cursor;
// it advances by inserting.
//
// A cursor is owned by exactly one builder at a time. Documents must not
// be mutated elsewhere while a cursor is live.
type Cursor struct {
	doc        *Document
	cell       *Cell  // nil = top level
	block      *Block // current block; nil for a fresh empty document
	charFormat CharFormat
}

// NewCursor creates a cursor positioned at the end of doc.
func NewCursor(doc *Document) *Cursor {
	c := &Cursor{doc: doc}
	if n := len(doc.children); n > 0 {
		c.block = doc.children[n-1]
	}
	return c
}

// Document returns the document the cursor operates on.
func (c *Cursor) Document() *Document {
	return c.doc
}

// Block returns the current block, or nil for an empty document.
func (c *Cursor) Block() *Block {
	return c.block
}

// BlockFormat returns the attributes of the current block.
func (c *Cursor) BlockFormat() BlockFormat {
	if c.block == nil {
		return BlockFormat{}
	}
	return c.block.format
}

// SetBlockFormat replaces the attributes of the current block.
func (c *Cursor) SetBlockFormat(f BlockFormat) {
	if c.block == nil {
		return
	}
	c.block.format = f
}

// CharFormat returns the character format applied to subsequent text
// insertions.
func (c *Cursor) CharFormat() CharFormat {
	return c.charFormat
}

// SetCharFormat sets the character format for subsequent text insertions.
func (c *Cursor) SetCharFormat(f CharFormat) {
	c.charFormat = f
}

// CurrentList returns the list the current block is a member of, or nil.
func (c *Cursor) CurrentList() *List {
	if c.block == nil {
		return nil
	}
	return c.block.list
}

// InsertBlock appends a new block at the cursor position and makes it
// the current block. The character format becomes the active format.
func (c *Cursor) InsertBlock(bf BlockFormat, cf CharFormat) *Block {
	b := &Block{format: bf}
	c.container().addBlock(b)
	c.block = b
	c.charFormat = cf
	return b
}

// InsertText appends text to the current block in the active character
// format, normalized to NFC. Adjacent runs with equal formats are
// coalesced. An empty document gets an initial plain block.
func (c *Cursor) InsertText(s string) {
	if s == "" {
		return
	}
	c.ensureBlock()
	c.insertRun(norm.NFC.String(s), c.charFormat)
}

// InsertImage appends an image placeholder run to the current block.
func (c *Cursor) InsertImage(img ImageFormat) {
	c.ensureBlock()
	c.block.runs = append(c.block.runs, Run{
		Text:   ObjectReplacementChar,
		Format: c.charFormat,
		Image:  &img,
	})
}

// InsertList appends a new block, makes it the first item of a newly
// created list, and returns the list.
func (c *Cursor) InsertList(f ListFormat) *List {
	b := c.InsertBlock(BlockFormat{}, CharFormat{})
	l := &List{format: f}
	l.Add(b)
	return l
}

// InsertTable appends a table anchor block holding a new rows × cols
// table and positions the cursor in the table's first cell.
func (c *Cursor) InsertTable(rows, cols int) *Table {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	t := newTable(rows, cols)
	anchor := c.InsertBlock(BlockFormat{}, CharFormat{})
	anchor.table = t
	t.block = anchor
	if cell, err := t.CellAt(0, 0); err == nil {
		c.MoveToCell(cell)
	}
	return t
}

// MoveToCell positions the cursor at the first block of a table cell.
// The active character format is reset.
func (c *Cursor) MoveToCell(cell *Cell) {
	if cell == nil {
		return
	}
	c.cell = cell
	c.block = cell.blocks[0]
	c.charFormat = CharFormat{}
}

// MoveToEnd positions the cursor at the end of the document's top
// level, leaving any cell-relative positioning.
func (c *Cursor) MoveToEnd() {
	c.cell = nil
	c.block = nil
	if n := len(c.doc.children); n > 0 {
		c.block = c.doc.children[n-1]
	}
}

// --- Internals -------------------------------------------------------------

type blockContainer interface {
	addBlock(*Block)
}

func (c *Cursor) container() blockContainer {
	if c.cell != nil {
		return c.cell
	}
	return c.doc
}

func (c *Cursor) ensureBlock() {
	if c.block == nil {
		c.InsertBlock(BlockFormat{}, c.charFormat)
	}
}

// insertRun appends text in the given format to the current block,
// coalescing with the last run if formats are equal.
func (c *Cursor) insertRun(s string, f CharFormat) {
	if s == "" {
		return
	}
	c.ensureBlock()
	runs := c.block.runs
	if n := len(runs); n > 0 && !runs[n-1].IsImage() && runs[n-1].Format.Equals(f) {
		runs[n-1].Text += s
		return
	}
	c.block.runs = append(c.block.runs, Run{Text: s, Format: f})
}
