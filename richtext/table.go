package richtext

import (
	"github.com/npillmayer/richmd/core"
)

// Table is a grid of cells, anchored at a block of the enclosing
// document. Each cell owns a sequence of blocks. Cells may span several
// columns after a merge; cells covered by a span stay in the grid but
// are flagged.
type Table struct {
	block *Block
	cells [][]*Cell
}

func newTable(rows, cols int) *Table {
	t := &Table{}
	t.AppendRows(rows)
	if c := cols - t.Columns(); c > 0 {
		t.AppendColumns(c)
	}
	return t
}

// Block returns the anchor block of the table.
func (t *Table) Block() *Block {
	return t.block
}

// Rows returns the current number of rows.
func (t *Table) Rows() int {
	return len(t.cells)
}

// Columns returns the current number of columns.
func (t *Table) Columns() int {
	if len(t.cells) == 0 {
		return 0
	}
	return len(t.cells[0])
}

// AppendRows grows the table by n rows.
func (t *Table) AppendRows(n int) {
	cols := t.Columns()
	if len(t.cells) == 0 && n > 0 {
		cols = 1 // tables never have zero columns
	}
	for i := 0; i < n; i++ {
		row := make([]*Cell, cols)
		for c := range row {
			row[c] = newCell(t, len(t.cells), c)
		}
		t.cells = append(t.cells, row)
	}
}

// AppendColumns grows the table by n columns.
func (t *Table) AppendColumns(n int) {
	for r := range t.cells {
		for i := 0; i < n; i++ {
			t.cells[r] = append(t.cells[r], newCell(t, r, len(t.cells[r])))
		}
	}
}

// CellAt returns the cell at (row, col). Out-of-range positions yield an
// EMISSING error.
func (t *Table) CellAt(row, col int) (*Cell, error) {
	if row < 0 || row >= t.Rows() || col < 0 || col >= t.Columns() {
		return nil, core.Error(core.EMISSING, "no table cell at (%d,%d)", row, col)
	}
	return t.cells[row][col], nil
}

// MergeCells merges the cell grid range starting at (row, col) and
// spanning rowSpan × colSpan cells into the cell at (row, col). The
// covered cells remain in the grid, flagged as covered; their content is
// not moved.
func (t *Table) MergeCells(row, col, rowSpan, colSpan int) error {
	if rowSpan < 1 || colSpan < 1 ||
		row < 0 || row+rowSpan > t.Rows() ||
		col < 0 || col+colSpan > t.Columns() {
		return core.Error(core.EINVALID, "cannot merge cells (%d,%d)+%dx%d in a %dx%d table",
			row, col, rowSpan, colSpan, t.Rows(), t.Columns())
	}
	tracer().Debugf("merging cells (%d,%d) through (%d,%d)", row, col, row+rowSpan-1, col+colSpan-1)
	anchor := t.cells[row][col]
	anchor.rowSpan = rowSpan
	anchor.colSpan = colSpan
	for r := row; r < row+rowSpan; r++ {
		for c := col; c < col+colSpan; c++ {
			if r == row && c == col {
				continue
			}
			t.cells[r][c].covered = true
		}
	}
	return nil
}

// --- Cells -----------------------------------------------------------------

// Cell is a single table cell. A fresh cell contains one empty block.
type Cell struct {
	table    *Table
	row, col int
	blocks   []*Block
	format   CharFormat
	rowSpan  int
	colSpan  int
	covered  bool
}

func newCell(t *Table, row, col int) *Cell {
	return &Cell{
		table:  t,
		row:    row,
		col:    col,
		blocks: []*Block{{}},
	}
}

// Position returns the cell's (row, col) grid position.
func (c *Cell) Position() (row, col int) {
	return c.row, c.col
}

// Blocks returns the blocks contained in the cell.
func (c *Cell) Blocks() []*Block {
	return c.blocks
}

// Format returns the cell's character format.
func (c *Cell) Format() CharFormat {
	return c.format
}

// SetFormat replaces the cell's character format.
func (c *Cell) SetFormat(f CharFormat) {
	c.format = f
}

// Span returns the row and column span of the cell; (1, 1) for unmerged
// cells.
func (c *Cell) Span() (rows, cols int) {
	rows, cols = c.rowSpan, c.colSpan
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	return rows, cols
}

// Covered returns true if the cell has been merged away into a spanning
// neighbour.
func (c *Cell) Covered() bool {
	return c.covered
}

// Text returns the concatenated text of the cell's blocks.
func (c *Cell) Text() string {
	s := ""
	for _, b := range c.blocks {
		s += b.Text()
	}
	return s
}

func (c *Cell) addBlock(b *Block) {
	c.blocks = append(c.blocks, b)
}
