package markdown

import (
	"testing"

	"github.com/npillmayer/richmd/core"
	"github.com/npillmayer/richmd/core/dimen"
	"github.com/npillmayer/richmd/richtext"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

// eventScript replays a fixed sequence of events into a handler, which
// lets tests drive the importer without a parser.
type eventScript []func(h EventHandler) error

func (s eventScript) Tokenize(_ []byte, h EventHandler) error {
	for _, ev := range s {
		if err := ev(h); err != nil {
			return err
		}
	}
	return nil
}

func enter(kind BlockKind, detail BlockDetail) func(EventHandler) error {
	return func(h EventHandler) error { return h.EnterBlock(kind, detail) }
}

func leave(kind BlockKind) func(EventHandler) error {
	return func(h EventHandler) error { return h.LeaveBlock(kind) }
}

func enterSpan(kind SpanKind, detail SpanDetail) func(EventHandler) error {
	return func(h EventHandler) error { return h.EnterSpan(kind, detail) }
}

func leaveSpan(kind SpanKind) func(EventHandler) error {
	return func(h EventHandler) error { return h.LeaveSpan(kind) }
}

func text(kind TextKind, s string) func(EventHandler) error {
	return func(h EventHandler) error { return h.Text(kind, []byte(s)) }
}

func replay(t *testing.T, script eventScript) (*richtext.Document, error) {
	doc := richtext.NewDocument()
	imp := NewImporter(DialectCommonMark, WithTokenizer(script))
	err := imp.Import(doc, nil)
	return doc, err
}

func TestImportHeadingSizes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richmd.md")
	defer teardown()
	//
	script := eventScript{enter(BlockDocument, nil)}
	for level := 1; level <= 6; level++ {
		script = append(script,
			enter(BlockHeading, HeadingDetail{Level: level}),
			text(TextNormal, "title"),
			leave(BlockHeading),
		)
	}
	script = append(script, leave(BlockDocument))
	doc, err := replay(t, script)
	assert.NoError(t, err)
	blocks := doc.Blocks()
	assert.Equal(t, 6, len(blocks))
	for i, b := range blocks {
		level := i + 1
		assert.Equal(t, level, b.Format().HeadingLevel)
		assert.Equal(t, 1, len(b.Runs()))
		assert.True(t, b.Runs()[0].Format.Bold)
		assert.Equal(t, 4-level, b.Runs()[0].Format.SizeAdjustment)
	}
}

func TestImportEmphasisRuns(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richmd.md")
	defer teardown()
	//
	doc, err := replay(t, eventScript{
		enter(BlockDocument, nil),
		enter(BlockParagraph, nil),
		text(TextNormal, "Some "),
		enterSpan(SpanEmphasis, nil),
		text(TextNormal, "em"),
		leaveSpan(SpanEmphasis),
		text(TextNormal, " and "),
		enterSpan(SpanStrong, nil),
		text(TextNormal, "bold"),
		leaveSpan(SpanStrong),
		text(TextNormal, " text."),
		leave(BlockParagraph),
		leave(BlockDocument),
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, len(doc.Blocks()))
	runs := doc.Blocks()[0].Runs()
	assert.Equal(t, 5, len(runs))
	assert.Equal(t, "Some ", runs[0].Text)
	assert.True(t, runs[0].Format.IsPlain())
	assert.Equal(t, "em", runs[1].Text)
	assert.True(t, runs[1].Format.Italic)
	assert.Equal(t, " and ", runs[2].Text)
	assert.Equal(t, "bold", runs[3].Text)
	assert.True(t, runs[3].Format.Bold)
	assert.Equal(t, " text.", runs[4].Text)
}

func TestImportEmptyParagraph(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richmd.md")
	defer teardown()
	//
	doc, err := replay(t, eventScript{
		enter(BlockDocument, nil),
		enter(BlockParagraph, nil),
		leave(BlockParagraph),
		leave(BlockDocument),
	})
	assert.NoError(t, err)
	assert.Equal(t, 0, len(doc.Blocks()), "block creation is deferred until content arrives")
}

func TestImportParagraphMargins(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richmd.md")
	defer teardown()
	//
	doc, err := replay(t, eventScript{
		enter(BlockDocument, nil),
		enter(BlockParagraph, nil),
		text(TextNormal, "hello"),
		leave(BlockParagraph),
		leave(BlockDocument),
	})
	assert.NoError(t, err)
	margin := dimen.Dimen(richtext.DefaultFontSize) * dimen.PT * 2 / 3
	f := doc.Blocks()[0].Format()
	assert.Equal(t, margin, f.TopMargin)
	assert.Equal(t, margin, f.BottomMargin)
}

func TestImportBlockquoteMargins(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richmd.md")
	defer teardown()
	//
	doc, err := replay(t, eventScript{
		enter(BlockDocument, nil),
		enter(BlockQuote, nil),
		enter(BlockQuote, nil),
		enter(BlockParagraph, nil),
		text(TextNormal, "deep"),
		leave(BlockParagraph),
		leave(BlockQuote),
		leave(BlockQuote),
		leave(BlockDocument),
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, len(doc.Blocks()))
	f := doc.Blocks()[0].Format()
	assert.Equal(t, 2, f.QuoteLevel)
	assert.Equal(t, 80*dimen.PX, f.LeftMargin)
	assert.Equal(t, 40*dimen.PX, f.RightMargin)
}

func TestImportCodeBlock(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richmd.md")
	defer teardown()
	//
	doc, err := replay(t, eventScript{
		enter(BlockDocument, nil),
		enter(BlockCode, CodeBlockDetail{Lang: "go", Info: "go linenos"}),
		text(TextCode, "x := 1\n"),
		leave(BlockCode),
		leave(BlockDocument),
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, len(doc.Blocks()))
	b := doc.Blocks()[0]
	assert.Equal(t, "go", b.Format().CodeLanguage)
	assert.Equal(t, dimen.Zero, b.Format().TopMargin, "code blocks carry no paragraph margin")
	assert.Equal(t, 1, len(b.Runs()))
	assert.True(t, b.Runs()[0].Format.Monospace)
	assert.Equal(t, "x := 1\n", b.Runs()[0].Text)
}

func TestImportThematicBreak(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richmd.md")
	defer teardown()
	//
	doc, err := replay(t, eventScript{
		enter(BlockDocument, nil),
		enter(BlockRule, nil),
		leave(BlockRule),
		leave(BlockDocument),
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, len(doc.Blocks()))
	assert.True(t, doc.Blocks()[0].Format().TrailingRule)
}

func TestImportListMarkers(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richmd.md")
	defer teardown()
	//
	doc, err := replay(t, eventScript{
		enter(BlockDocument, nil),
		enter(BlockUList, BulletListDetail{Mark: '*', Tight: true}),
		enter(BlockListItem, ListItemDetail{IsTask: true, TaskMark: ' '}),
		text(TextNormal, "open"),
		leave(BlockListItem),
		enter(BlockListItem, ListItemDetail{IsTask: true, TaskMark: 'x'}),
		text(TextNormal, "done"),
		leave(BlockListItem),
		leave(BlockUList),
		leave(BlockDocument),
	})
	assert.NoError(t, err)
	blocks := doc.Blocks()
	assert.Equal(t, 2, len(blocks))
	list := blocks[0].List()
	assert.NotNil(t, list)
	assert.Equal(t, richtext.ListCircle, list.Format().Style)
	assert.Equal(t, 2, list.Count())
	assert.Equal(t, richtext.MarkerUnchecked, blocks[0].Format().Marker)
	assert.Equal(t, richtext.MarkerChecked, blocks[1].Format().Marker)
}

func TestImportOrderedList(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richmd.md")
	defer teardown()
	//
	doc, err := replay(t, eventScript{
		enter(BlockDocument, nil),
		enter(BlockOList, OrderedListDetail{Start: 3, MarkDelimiter: ')', Tight: true}),
		enter(BlockListItem, ListItemDetail{}),
		text(TextNormal, "three"),
		leave(BlockListItem),
		leave(BlockOList),
		leave(BlockDocument),
	})
	assert.NoError(t, err)
	list := doc.Blocks()[0].List()
	assert.NotNil(t, list)
	assert.Equal(t, richtext.ListDecimal, list.Format().Style)
	assert.Equal(t, ')', int32(list.Format().NumberSuffix))
}

func TestImportNestedListFirstItemReuse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richmd.md")
	defer teardown()
	//
	doc, err := replay(t, eventScript{
		enter(BlockDocument, nil),
		enter(BlockUList, BulletListDetail{Mark: '-', Tight: true}),
		enter(BlockListItem, ListItemDetail{}),
		text(TextNormal, "a"),
		enter(BlockUList, BulletListDetail{Mark: '-', Tight: true}),
		enter(BlockListItem, ListItemDetail{}),
		text(TextNormal, "b"),
		leave(BlockListItem),
		leave(BlockUList),
		leave(BlockListItem),
		leave(BlockUList),
		leave(BlockDocument),
	})
	assert.NoError(t, err)
	blocks := doc.Blocks()
	assert.Equal(t, 2, len(blocks), "first list items reuse the list's anchor block")
	assert.Equal(t, "a", blocks[0].Text())
	assert.Equal(t, "b", blocks[1].Text())
	assert.Equal(t, 1, blocks[0].List().Format().Indent)
	assert.Equal(t, 2, blocks[1].List().Format().Indent)
	assert.Equal(t, 0, blocks[0].Format().Indent, "the list indents its items, not the block")
}

func tableScript(rows ...[]string) eventScript {
	script := eventScript{enter(BlockDocument, nil), enter(BlockTable, nil)}
	for i, row := range rows {
		kind := BlockTableDataCell
		if i == 0 {
			kind = BlockTableHeaderCell
		}
		script = append(script, enter(BlockTableRow, nil))
		for _, cell := range row {
			script = append(script, enter(kind, CellDetail{}))
			if cell != "" {
				script = append(script, text(TextNormal, cell))
			}
			script = append(script, leave(kind))
		}
		script = append(script, leave(BlockTableRow))
	}
	return append(script, leave(BlockTable), leave(BlockDocument))
}

func TestImportTableMerge(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richmd.md")
	defer teardown()
	//
	doc, err := replay(t, tableScript(
		[]string{"a", "b", "c"},
		[]string{"x", "", ""},
	))
	assert.NoError(t, err)
	table := doc.Blocks()[0].Table()
	assert.NotNil(t, table)
	assert.Equal(t, 2, table.Rows())
	assert.Equal(t, 3, table.Columns())
	anchor, err := table.CellAt(1, 0)
	assert.NoError(t, err)
	rows, cols := anchor.Span()
	assert.Equal(t, 1, rows)
	assert.Equal(t, 3, cols, "a run of two trailing empty cells merges into the cell before it")
	for col := 1; col <= 2; col++ {
		cell, err := table.CellAt(1, col)
		assert.NoError(t, err)
		assert.True(t, cell.Covered())
	}
}

func TestImportTableSingleEmptyCellNoMerge(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richmd.md")
	defer teardown()
	//
	doc, err := replay(t, tableScript(
		[]string{"a", "b", "c"},
		[]string{"x", "", "y"},
	))
	assert.NoError(t, err)
	table := doc.Blocks()[0].Table()
	for col := 0; col < 3; col++ {
		cell, err := table.CellAt(1, col)
		assert.NoError(t, err)
		rows, cols := cell.Span()
		assert.Equal(t, 1, rows)
		assert.Equal(t, 1, cols, "a single empty cell never merges")
		assert.False(t, cell.Covered())
	}
}

func TestImportTableFullRowUnchanged(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richmd.md")
	defer teardown()
	//
	doc, err := replay(t, tableScript(
		[]string{"a", "b", "c"},
		[]string{"x", "y", "z"},
		[]string{"", "y", "z"},
	))
	assert.NoError(t, err)
	table := doc.Blocks()[0].Table()
	for row := 1; row <= 2; row++ {
		for col := 0; col < 3; col++ {
			cell, err := table.CellAt(row, col)
			assert.NoError(t, err)
			rows, cols := cell.Span()
			assert.Equal(t, 1, rows)
			assert.Equal(t, 1, cols)
			assert.False(t, cell.Covered(), "merge inference leaves rows without trailing empty runs unchanged")
		}
	}
}

func TestImportTableHeaderBoldsCells(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richmd.md")
	defer teardown()
	//
	doc, err := replay(t, tableScript(
		[]string{"a", "b"},
		[]string{"x", "y"},
	))
	assert.NoError(t, err)
	table := doc.Blocks()[0].Table()
	for col := 0; col < 2; col++ {
		cell, err := table.CellAt(0, col)
		assert.NoError(t, err)
		assert.True(t, cell.Format().Bold)
	}
	cell, err := table.CellAt(1, 0)
	assert.NoError(t, err)
	assert.False(t, cell.Format().Bold)
	assert.Equal(t, "x", cell.Text())
}

func TestImportTableCellOutsideTable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richmd.md")
	defer teardown()
	//
	_, err := replay(t, eventScript{
		enter(BlockDocument, nil),
		enter(BlockTableDataCell, CellDetail{}),
	})
	assert.Error(t, err)
	assert.Equal(t, core.EINVALID, core.Code(err))
}

func TestImportTextKinds(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richmd.md")
	defer teardown()
	//
	doc, err := replay(t, eventScript{
		enter(BlockDocument, nil),
		enter(BlockParagraph, nil),
		text(TextNormal, "a"),
		text(TextNullChar, ""),
		text(TextHardBreak, ""),
		text(TextNormal, "b"),
		text(TextSoftBreak, ""),
		text(TextNormal, "c"),
		leave(BlockParagraph),
		leave(BlockDocument),
	})
	assert.NoError(t, err)
	assert.Equal(t, "a�\nb c", doc.Blocks()[0].Text())
}

func TestImportHTMLBalancedFlush(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richmd.md")
	defer teardown()
	//
	doc, err := replay(t, eventScript{
		enter(BlockDocument, nil),
		enter(BlockParagraph, nil),
		text(TextNormal, "a "),
		text(TextHTML, "<b>"),
		text(TextNormal, "x"),
		text(TextHTML, "</b>"),
		text(TextNormal, " b"),
		leave(BlockParagraph),
		leave(BlockDocument),
	})
	assert.NoError(t, err)
	runs := doc.Blocks()[0].Runs()
	assert.Equal(t, 3, len(runs))
	assert.Equal(t, "x", runs[1].Text)
	assert.True(t, runs[1].Format.Bold)
	assert.Equal(t, " b", runs[2].Text)
	assert.True(t, runs[2].Format.IsPlain(), "format is restored after the markup flush")
}

func TestImportHTMLUnbalancedNeverFlushes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richmd.md")
	defer teardown()
	//
	doc, err := replay(t, eventScript{
		enter(BlockDocument, nil),
		enter(BlockParagraph, nil),
		text(TextHTML, "<div>"),
		text(TextNormal, "swallowed"),
		leave(BlockParagraph),
		leave(BlockDocument),
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, len(doc.Blocks()))
	assert.Equal(t, "", doc.Blocks()[0].Text(), "unclosed markup accumulates without flushing")
}

func TestImportImageAltTextDiscarded(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richmd.md")
	defer teardown()
	//
	doc, err := replay(t, eventScript{
		enter(BlockDocument, nil),
		enter(BlockParagraph, nil),
		enterSpan(SpanImage, ImageDetail{Src: "pic.png", Title: "a pic"}),
		text(TextNormal, "alt text"),
		leaveSpan(SpanImage),
		leave(BlockParagraph),
		leave(BlockDocument),
	})
	assert.NoError(t, err)
	runs := doc.Blocks()[0].Runs()
	assert.Equal(t, 1, len(runs))
	assert.True(t, runs[0].IsImage())
	assert.Equal(t, richtext.ObjectReplacementChar, runs[0].Text)
	assert.Equal(t, "pic.png", runs[0].Image.Src)
	assert.Equal(t, "a pic", runs[0].Image.Title)
}

func TestImportLinkSpan(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richmd.md")
	defer teardown()
	//
	doc, err := replay(t, eventScript{
		enter(BlockDocument, nil),
		enter(BlockParagraph, nil),
		enterSpan(SpanLink, LinkDetail{Href: "https://example.com", Title: "ex"}),
		text(TextNormal, "link"),
		leaveSpan(SpanLink),
		leave(BlockParagraph),
		leave(BlockDocument),
	})
	assert.NoError(t, err)
	runs := doc.Blocks()[0].Runs()
	assert.Equal(t, 1, len(runs))
	assert.Equal(t, "https://example.com", runs[0].Format.Href)
	assert.Equal(t, "ex", runs[0].Format.AnchorTitle)
	assert.Equal(t, richtext.LinkColor, runs[0].Format.Foreground)
}

func TestImportStackUnderflowIsHarmless(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "richmd.md")
	defer teardown()
	//
	doc, err := replay(t, eventScript{
		enter(BlockDocument, nil),
		leaveSpan(SpanEmphasis),
		leave(BlockUList),
		enter(BlockParagraph, nil),
		text(TextNormal, "still here"),
		leave(BlockParagraph),
		leave(BlockDocument),
	})
	assert.NoError(t, err)
	assert.Equal(t, "still here", doc.Blocks()[0].Text())
}
