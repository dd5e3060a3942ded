package markdown

import (
	"regexp"
	"strings"

	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/npillmayer/richmd/core"
	"github.com/npillmayer/richmd/core/dimen"
	"github.com/npillmayer/richmd/richtext"
)

// blockQuoteIndent is the left margin added per blockquote level.
const blockQuoteIndent = 40 * dimen.PX

// Importer converts a markdown token stream into a rich-document tree.
// It implements EventHandler; all state is scoped to a single call of
// Import and reset at its start. An importer must not be shared between
// concurrent imports.
type Importer struct {
	features Feature
	tokenize Tokenizer

	doc             *richtext.Document
	cursor          *richtext.Cursor
	paragraphMargin dimen.Dimen

	blockKind  BlockKind // kind of the innermost entered block
	quoteDepth int
	codeBlock  bool
	codeLang   string
	pending    *blockContext // non-nil while a block insertion is deferred

	listStack *arraystack.Stack // of *richtext.List
	spanStack *arraystack.Stack // of richtext.CharFormat

	listItem      bool
	emptyList     bool // no item materialized yet for the innermost list
	emptyListItem bool // current list item has no paragraph content yet
	imageSpan     bool

	table         *richtext.Table
	tableCol      int
	tableRows     int
	tableCols     int
	nonEmptyCells map[int]bool // columns with text in the current row

	htmlTagDepth int
	htmlAcc      strings.Builder
}

// blockContext is an immutable snapshot of the ambient nesting state,
// taken when a deferred block insertion is requested and consumed when
// content arrives.
type blockContext struct {
	quoteDepth int
	listDepth  int
	code       bool
	codeLang   string
}

// Option configures an Importer.
type Option func(*Importer)

// WithTokenizer replaces the default goldmark-backed tokenizer.
func WithTokenizer(t Tokenizer) Option {
	return func(imp *Importer) {
		if t != nil {
			imp.tokenize = t
		}
	}
}

// NewImporter creates an importer for the given dialect features.
func NewImporter(features Feature, opts ...Option) *Importer {
	imp := &Importer{
		features: features,
		tokenize: newGmTokenizer(features),
	}
	for _, opt := range opts {
		opt(imp)
	}
	return imp
}

// Import parses a UTF-8 markdown input and appends the resulting blocks
// to doc. On a malformed-structure error the token stream is aborted
// and the partially built tree remains in doc.
func Import(doc *richtext.Document, input []byte, features Feature) error {
	return NewImporter(features).Import(doc, input)
}

// Import runs one import. The importer owns doc's cursor for the
// duration of the call; imports must not overlap.
func (imp *Importer) Import(doc *richtext.Document, input []byte) error {
	imp.doc = doc
	imp.cursor = richtext.NewCursor(doc)
	imp.paragraphMargin = dimen.Dimen(doc.FontSize()) * dimen.PT * 2 / 3
	imp.reset()
	err := imp.tokenize.Tokenize(input, imp)
	imp.cursor = nil
	imp.doc = nil
	return err
}

func (imp *Importer) reset() {
	imp.blockKind = BlockDocument
	imp.quoteDepth = 0
	imp.codeBlock = false
	imp.codeLang = ""
	imp.pending = nil
	imp.listStack = arraystack.New()
	imp.spanStack = arraystack.New()
	imp.listItem = false
	imp.emptyList = false
	imp.emptyListItem = false
	imp.imageSpan = false
	imp.table = nil
	imp.tableCol = -1
	imp.tableRows = 0
	imp.tableCols = 0
	imp.nonEmptyCells = make(map[int]bool)
	imp.htmlTagDepth = 0
	imp.htmlAcc.Reset()
}

// --- Block events ----------------------------------------------------------

// EnterBlock is part of interface EventHandler.
func (imp *Importer) EnterBlock(kind BlockKind, detail BlockDetail) error {
	imp.blockKind = kind
	switch kind {
	case BlockParagraph:
		if imp.listStack.Empty() {
			tracer().Debugf("P")
			imp.deferBlock()
		} else if imp.emptyListItem {
			// The list item's own block serves as this paragraph.
			tracer().Debugf("LI text block at level %d", imp.listStack.Size())
			imp.emptyListItem = false
		} else {
			tracer().Debugf("P inside LI at level %d", imp.listStack.Size())
			imp.deferBlock()
		}
	case BlockQuote:
		imp.quoteDepth++
		tracer().Debugf("QUOTE level %d", imp.quoteDepth)
	case BlockCode:
		d, _ := detail.(CodeBlockDetail)
		imp.codeBlock = true
		imp.codeLang = d.Lang
		imp.deferBlock()
		tracer().Debugf("CODE lang '%s' info '%s' in QUOTE %d", d.Lang, d.Info, imp.quoteDepth)
	case BlockHeading:
		d, _ := detail.(HeadingDetail)
		blockFmt := richtext.BlockFormat{HeadingLevel: d.Level}
		charFmt := richtext.CharFormat{
			Bold:           true,
			SizeAdjustment: 4 - d.Level, // H1 to H6: +3 to -2
		}
		imp.pending = nil
		imp.cursor.InsertBlock(blockFmt, charFmt)
		tracer().Debugf("H%d", d.Level)
	case BlockListItem:
		imp.pending = nil
		d, _ := detail.(ListItemDetail)
		top, ok := imp.listStack.Peek()
		if !ok {
			tracer().Errorf("list item without enclosing list")
			return nil
		}
		list := top.(*richtext.List)
		bfmt := list.Item(list.Count() - 1).Format()
		bfmt.Marker = itemMarker(d)
		if !imp.emptyList {
			imp.cursor.InsertBlock(bfmt, richtext.CharFormat{})
			list.Add(imp.cursor.Block())
			tracer().Debugf("LI")
		} else {
			// insertList already created the first item's block
			tracer().Debugf("LI (first in list)")
		}
		imp.cursor.SetBlockFormat(bfmt)
		imp.emptyList = false
		imp.listItem = true
		imp.emptyListItem = true
	case BlockUList:
		d, _ := detail.(BulletListDetail)
		fmt := richtext.ListFormat{Indent: imp.listStack.Size() + 1}
		switch d.Mark {
		case '*':
			fmt.Style = richtext.ListCircle
		case '+':
			fmt.Style = richtext.ListSquare
		default: // including '-'
			fmt.Style = richtext.ListDisc
		}
		tracer().Debugf("UL %c level %d", d.Mark, imp.listStack.Size())
		imp.listStack.Push(imp.cursor.InsertList(fmt))
		imp.emptyList = true
	case BlockOList:
		d, _ := detail.(OrderedListDetail)
		fmt := richtext.ListFormat{
			Indent:       imp.listStack.Size() + 1,
			Style:        richtext.ListDecimal,
			NumberSuffix: rune(d.MarkDelimiter),
		}
		tracer().Debugf("OL %c level %d", d.MarkDelimiter, imp.listStack.Size())
		imp.listStack.Push(imp.cursor.InsertList(fmt))
		imp.emptyList = true
	case BlockTableDataCell:
		if imp.table == nil {
			return core.Error(core.EINVALID, "table cell outside of table")
		}
		d, _ := detail.(CellDetail)
		imp.tableCol++
		cell, err := imp.table.CellAt(imp.tableRows-1, imp.tableCol)
		if err != nil {
			tracer().Errorf("malformed table in Markdown input")
			return core.WrapError(err, core.EINVALID, "malformed table in Markdown input")
		}
		imp.cursor.MoveToCell(cell)
		blockFmt := imp.cursor.BlockFormat()
		blockFmt.Alignment = cellAlignment(d.Align)
		imp.cursor.SetBlockFormat(blockFmt)
		tracer().Debugf("TD col %d align %v", imp.tableCol, d.Align)
	case BlockTableHeaderCell:
		if imp.table == nil {
			return core.Error(core.EINVALID, "table cell outside of table")
		}
		imp.tableCols++
		imp.tableCol++
		if imp.table.Columns() < imp.tableCols {
			imp.table.AppendColumns(1)
		}
		cell, err := imp.table.CellAt(imp.tableRows-1, imp.tableCol)
		if err != nil {
			tracer().Errorf("malformed table in Markdown input")
			return core.WrapError(err, core.EINVALID, "malformed table in Markdown input")
		}
		fmt := cell.Format()
		fmt.Bold = true
		cell.SetFormat(fmt)
	case BlockTableRow:
		if imp.table == nil {
			return core.Error(core.EINVALID, "table row outside of table")
		}
		imp.tableRows++
		imp.nonEmptyCells = make(map[int]bool)
		if imp.table.Rows() < imp.tableRows {
			imp.table.AppendRows(1)
		}
		imp.tableCol = -1
		tracer().Debugf("TR %d", imp.table.Rows())
	case BlockTable:
		imp.tableCols = 0
		imp.tableRows = 0
		imp.table = imp.cursor.InsertTable(1, 1) // we don't know the dimensions yet
	case BlockRule:
		tracer().Debugf("HR")
		imp.cursor.InsertBlock(richtext.BlockFormat{TrailingRule: true}, richtext.CharFormat{})
	}
	return nil
}

// LeaveBlock is part of interface EventHandler.
func (imp *Importer) LeaveBlock(kind BlockKind) error {
	switch kind {
	case BlockUList, BlockOList:
		tracer().Debugf("list at level %d ended", imp.listStack.Size())
		if _, ok := imp.listStack.Pop(); !ok {
			tracer().Errorf("list leave without enclosing list")
		}
	case BlockTableRow:
		imp.mergeEmptyCells()
	case BlockQuote:
		tracer().Debugf("QUOTE level %d ended", imp.quoteDepth)
		imp.quoteDepth--
		imp.deferBlock()
	case BlockTable:
		if imp.table != nil {
			tracer().Debugf("table ended with %d cols and %d rows",
				imp.table.Columns(), imp.table.Rows())
		}
		imp.table = nil
		imp.cursor.MoveToEnd()
	case BlockListItem:
		tracer().Debugf("LI at level %d ended", imp.listStack.Size())
		imp.listItem = false
	case BlockCode:
		imp.codeBlock = false
		imp.codeLang = ""
		imp.deferBlock()
		tracer().Debugf("CODE ended in QUOTE %d", imp.quoteDepth)
	case BlockHeading:
		imp.cursor.SetCharFormat(richtext.CharFormat{})
	}
	return nil
}

// mergeEmptyCells infers merged (spanned) cells at the end of a table
// row. The tokenizer does not mark spans explicitly, so a run of two or
// more empty cells is merged into the non-empty cell immediately before
// the run. Genuinely empty adjacent cells are indistinguishable from
// spans and get merged as well; this ambiguity is inherent to the event
// contract.
func (imp *Importer) mergeEmptyCells() {
	if imp.table == nil {
		return
	}
	mergeEnd := -1
	mergeBegin := -1
	for col := imp.tableCol; col >= 0; col-- {
		if imp.nonEmptyCells[col] {
			if mergeEnd >= 0 && mergeBegin >= 0 {
				tracer().Debugf("merging cells %d to %d inclusive, on row %d",
					mergeBegin, mergeEnd, imp.table.Rows()-1)
				err := imp.table.MergeCells(imp.table.Rows()-1, mergeBegin-1, 1, mergeEnd-mergeBegin+2)
				if err != nil {
					tracer().Errorf(err.Error())
				}
			}
			mergeEnd = -1
			mergeBegin = -1
		} else if mergeEnd < 0 {
			mergeEnd = col
		} else {
			mergeBegin = col
		}
	}
}

// --- Span events -----------------------------------------------------------

// EnterSpan is part of interface EventHandler.
func (imp *Importer) EnterSpan(kind SpanKind, detail SpanDetail) error {
	var charFmt richtext.CharFormat
	switch kind {
	case SpanEmphasis:
		charFmt.Italic = true
	case SpanStrong:
		charFmt.Bold = true
	case SpanLink:
		d, _ := detail.(LinkDetail)
		charFmt.Href = d.Href
		charFmt.AnchorTitle = d.Title
		charFmt.Foreground = richtext.LinkColor
		tracer().Debugf("anchor %s '%s'", d.Href, d.Title)
	case SpanImage:
		imp.imageSpan = true
		d, _ := detail.(ImageDetail)
		if imp.pending != nil {
			imp.insertBlock()
		}
		tracer().Debugf("image %s title '%s'", d.Src, d.Title)
		imp.cursor.InsertImage(richtext.ImageFormat{Src: d.Src, Title: d.Title})
	case SpanCode:
		charFmt.Monospace = true
	case SpanStrikethrough:
		charFmt.Strikeout = true
	}
	imp.spanStack.Push(charFmt)
	imp.cursor.SetCharFormat(charFmt)
	return nil
}

// LeaveSpan is part of interface EventHandler.
func (imp *Importer) LeaveSpan(kind SpanKind) error {
	var charFmt richtext.CharFormat
	if _, ok := imp.spanStack.Pop(); !ok {
		tracer().Errorf("span leave without matching span enter")
	} else if top, ok := imp.spanStack.Peek(); ok {
		charFmt = top.(richtext.CharFormat)
	}
	imp.cursor.SetCharFormat(charFmt)
	if kind == SpanImage {
		imp.imageSpan = false
	}
	return nil
}

// --- Text events -----------------------------------------------------------

var openingTagPattern = regexp.MustCompile(`<[a-zA-Z]`)
var closingTagPattern = regexp.MustCompile(`/>|</`)

// Text is part of interface EventHandler.
func (imp *Importer) Text(kind TextKind, text []byte) error {
	if imp.imageSpan {
		return nil // it's the alt-text
	}
	if imp.pending != nil {
		imp.insertBlock()
	}
	s := string(text)

	switch kind {
	case TextNormal:
		if imp.htmlTagDepth > 0 {
			imp.htmlAcc.WriteString(s)
			s = ""
		}
	case TextNullChar:
		s = "\uFFFD" // CommonMark-required replacement for null
	case TextHardBreak:
		s = "\n"
	case TextSoftBreak:
		s = " "
	case TextCode:
		// The enclosing code span/block has set the char format already.
	case TextEntity:
		if err := imp.cursor.InsertHTML(s); err != nil {
			tracer().Errorf("cannot resolve entity '%s': %v", s, err)
		}
		s = ""
	case TextHTML:
		// count how many tags are opened and how many are closed
		imp.htmlTagDepth += len(openingTagPattern.FindAllStringIndex(s, -1))
		imp.htmlTagDepth -= len(closingTagPattern.FindAllStringIndex(s, -1))
		imp.htmlAcc.WriteString(s)
		s = ""
		if imp.htmlTagDepth == 0 { // all open tags are now closed
			markup := imp.htmlAcc.String()
			tracer().Debugf("HTML %s", markup)
			if err := imp.cursor.InsertHTML(markup); err != nil {
				tracer().Errorf("cannot insert rich content: %v", err)
			}
			if top, ok := imp.spanStack.Peek(); ok {
				imp.cursor.SetCharFormat(top.(richtext.CharFormat))
			} else {
				imp.cursor.SetCharFormat(richtext.CharFormat{})
			}
			imp.htmlAcc.Reset()
		}
	}

	if imp.blockKind == BlockTableDataCell {
		imp.nonEmptyCells[imp.tableCol] = true
	}

	if s != "" {
		imp.cursor.InsertText(s)
	}
	if imp.cursor.CurrentList() != nil {
		// The list itself indents its items' text, so the block needs
		// no indent of its own.
		blockFmt := imp.cursor.BlockFormat()
		blockFmt.Indent = 0
		imp.cursor.SetBlockFormat(blockFmt)
	}
	return nil
}

// --- Deferred block creation -----------------------------------------------

// deferBlock requests a block insertion which will be carried out when
// content arrives. Purely structural events thus never emit empty
// blocks. The ambient nesting state is snapshotted here, not re-derived
// at materialization time.
func (imp *Importer) deferBlock() {
	imp.pending = &blockContext{
		quoteDepth: imp.quoteDepth,
		listDepth:  imp.listStack.Size(),
		code:       imp.codeBlock,
		codeLang:   imp.codeLang,
	}
}

// insertBlock materializes a deferred block from its snapshot context.
func (imp *Importer) insertBlock() {
	ctx := imp.pending
	imp.pending = nil
	var charFmt richtext.CharFormat
	if top, ok := imp.spanStack.Peek(); ok {
		charFmt = top.(richtext.CharFormat)
	}
	var blockFmt richtext.BlockFormat
	if ctx.quoteDepth > 0 {
		blockFmt.QuoteLevel = ctx.quoteDepth
		blockFmt.LeftMargin = blockQuoteIndent * dimen.Dimen(ctx.quoteDepth)
		blockFmt.RightMargin = blockQuoteIndent
	}
	if ctx.listDepth > 0 {
		blockFmt.Indent = ctx.listDepth
	}
	if ctx.code {
		blockFmt.CodeLanguage = ctx.codeLang
		charFmt.Monospace = true
	} else {
		blockFmt.TopMargin = imp.paragraphMargin
		blockFmt.BottomMargin = imp.paragraphMargin
	}
	imp.cursor.InsertBlock(blockFmt, charFmt)
}

// --- Helpers ---------------------------------------------------------------

func itemMarker(d ListItemDetail) richtext.Marker {
	if !d.IsTask {
		return richtext.MarkerNone
	}
	if d.TaskMark == ' ' {
		return richtext.MarkerUnchecked
	}
	return richtext.MarkerChecked
}

// cellAlignment maps tokenizer cell alignment onto block alignment,
// defaulting to left + vertically centered.
func cellAlignment(a Align) richtext.Alignment {
	switch a {
	case AlignLeft:
		return richtext.AlignLeft | richtext.AlignVCenter
	case AlignCenter:
		return richtext.AlignHCenter | richtext.AlignVCenter
	case AlignRight:
		return richtext.AlignRight | richtext.AlignVCenter
	default: // including AlignDefault
		return richtext.AlignLeft | richtext.AlignVCenter
	}
}
