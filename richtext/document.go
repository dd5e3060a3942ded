package richtext

import "strings"

// DefaultFontSize is the default font size of new documents, in points.
const DefaultFontSize = 12

// Document is an ordered sequence of blocks, the root of a rich-document
// tree. Tables and lists hang off their anchor and member blocks.
//
// A document is not safe for concurrent mutation; builders own it
// exclusively while a build is in progress.
type Document struct {
	children []*Block
	fontSize int // points
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{fontSize: DefaultFontSize}
}

// FontSize returns the document's default font size in points.
func (doc *Document) FontSize() int {
	return doc.fontSize
}

// SetFontSize sets the document's default font size in points.
// Sizes < 1 are ignored.
func (doc *Document) SetFontSize(pt int) {
	if pt >= 1 {
		doc.fontSize = pt
	}
}

// Clear removes all content from the document.
func (doc *Document) Clear() {
	doc.children = nil
}

// Blocks returns the top-level blocks of the document.
func (doc *Document) Blocks() []*Block {
	return doc.children
}

// EachBlock walks all blocks of the document in document order,
// descending into table cells. Covered (merged-away) cells are skipped.
// The walk stops at the first error returned by f.
func (doc *Document) EachBlock(f func(*Block) error) error {
	return eachBlock(doc.children, f)
}

func eachBlock(blocks []*Block, f func(*Block) error) error {
	for _, b := range blocks {
		if err := f(b); err != nil {
			return err
		}
		if t := b.Table(); t != nil {
			for row := 0; row < t.Rows(); row++ {
				for col := 0; col < t.Columns(); col++ {
					cell, err := t.CellAt(row, col)
					if err != nil {
						return err
					}
					if cell.Covered() {
						continue
					}
					if err := eachBlock(cell.Blocks(), f); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

func (doc *Document) addBlock(b *Block) {
	doc.children = append(doc.children, b)
}

// --- Blocks ----------------------------------------------------------------

// Block is a structural unit of a document: a paragraph, heading, list
// item, code block, or the anchor of a table. Leaf blocks carry runs of
// attributed text.
type Block struct {
	format BlockFormat
	runs   []Run
	list   *List  // list membership, or nil
	table  *Table // owned table for table anchor blocks, or nil
}

// Format returns the block's attributes.
func (b *Block) Format() BlockFormat {
	return b.format
}

// SetFormat replaces the block's attributes.
func (b *Block) SetFormat(f BlockFormat) {
	b.format = f
}

// Runs returns the inline runs of the block.
func (b *Block) Runs() []Run {
	return b.runs
}

// List returns the list this block is a member of, or nil.
func (b *Block) List() *List {
	return b.list
}

// Table returns the table anchored at this block, or nil.
func (b *Block) Table() *Table {
	return b.table
}

// Text returns the concatenated text of the block's runs.
func (b *Block) Text() string {
	var sb strings.Builder
	for _, r := range b.runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// --- Runs ------------------------------------------------------------------

// ObjectReplacementChar stands in for inline objects, e.g. images.
const ObjectReplacementChar = "￼"

// Run is a contiguous span of text with one set of character attributes.
// Image placeholder runs have a non-nil Image and carry the object
// replacement character as text.
type Run struct {
	Text   string
	Format CharFormat
	Image  *ImageFormat
}

// IsImage returns true for image placeholder runs.
func (r Run) IsImage() bool {
	return r.Image != nil
}
