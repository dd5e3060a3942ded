package markdown

import (
	"bytes"
	"regexp"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	gmtext "github.com/yuin/goldmark/text"
)

// gmTokenizer adapts a goldmark parser to the event contract of this
// package. It walks the parsed AST in document order and synthesizes
// the flat enter/leave/text stream the importer consumes. The walk
// stops at the first error returned by the handler.
type gmTokenizer struct {
	features Feature
	md       goldmark.Markdown
}

func newGmTokenizer(features Feature) *gmTokenizer {
	var exts []goldmark.Extender
	if features.Has(FeatureTables) {
		exts = append(exts, extension.Table)
	}
	if features.Has(FeatureStrikethrough) {
		exts = append(exts, extension.Strikethrough)
	}
	if features.Has(FeatureTaskLists) {
		exts = append(exts, extension.TaskList)
	}
	if features.Has(FeaturePermissiveAutoLinks) {
		exts = append(exts, extension.Linkify)
	}
	return &gmTokenizer{
		features: features,
		md:       goldmark.New(goldmark.WithExtensions(exts...)),
	}
}

var _ Tokenizer = &gmTokenizer{}

// Tokenize is part of interface Tokenizer.
func (tk *gmTokenizer) Tokenize(input []byte, h EventHandler) error {
	root := tk.md.Parser().Parse(gmtext.NewReader(input))
	return tk.walk(root, input, h)
}

func (tk *gmTokenizer) walk(n ast.Node, src []byte, h EventHandler) error {
	switch node := n.(type) {
	case *ast.Document:
		return tk.emitBlock(BlockDocument, nil, node, src, h)
	case *ast.Heading:
		return tk.emitBlock(BlockHeading, HeadingDetail{Level: node.Level}, node, src, h)
	case *ast.Paragraph:
		return tk.emitBlock(BlockParagraph, nil, node, src, h)
	case *ast.TextBlock:
		// tight list items carry their text without paragraph events
		return tk.walkChildren(node, src, h)
	case *ast.Blockquote:
		return tk.emitBlock(BlockQuote, nil, node, src, h)
	case *ast.ThematicBreak:
		if err := h.EnterBlock(BlockRule, nil); err != nil {
			return err
		}
		return h.LeaveBlock(BlockRule)
	case *ast.FencedCodeBlock:
		detail := CodeBlockDetail{}
		if lang := node.Language(src); lang != nil {
			detail.Lang = string(lang)
		}
		if node.Info != nil {
			detail.Info = string(node.Info.Segment.Value(src))
		}
		return tk.emitCodeBlock(detail, node, src, h)
	case *ast.CodeBlock:
		return tk.emitCodeBlock(CodeBlockDetail{}, node, src, h)
	case *ast.List:
		return tk.emitList(node, src, h)
	case *ast.ListItem:
		return tk.emitListItem(node, src, h)
	case *ast.HTMLBlock:
		return tk.emitHTMLBlock(node, src, h)
	case *east.Table:
		return tk.emitBlock(BlockTable, nil, node, src, h)
	case *east.TableHeader:
		return tk.emitTableRow(node, BlockTableHeaderCell, src, h)
	case *east.TableRow:
		return tk.emitTableRow(node, BlockTableDataCell, src, h)
	case *ast.Emphasis:
		kind := SpanEmphasis
		if node.Level >= 2 {
			kind = SpanStrong
		}
		return tk.emitSpan(kind, nil, node, src, h)
	case *east.Strikethrough:
		return tk.emitSpan(SpanStrikethrough, nil, node, src, h)
	case *ast.Link:
		detail := LinkDetail{Href: string(node.Destination), Title: string(node.Title)}
		return tk.emitSpan(SpanLink, detail, node, src, h)
	case *ast.AutoLink:
		return tk.emitAutoLink(node, src, h)
	case *ast.Image:
		detail := ImageDetail{Src: string(node.Destination), Title: string(node.Title)}
		return tk.emitSpan(SpanImage, detail, node, src, h)
	case *ast.CodeSpan:
		return tk.emitCodeSpan(node, src, h)
	case *ast.RawHTML:
		kind := TextHTML
		if tk.features.Has(FeatureNoHTML) {
			kind = TextNormal
		}
		for i := 0; i < node.Segments.Len(); i++ {
			seg := node.Segments.At(i)
			if err := h.Text(kind, seg.Value(src)); err != nil {
				return err
			}
		}
		return nil
	case *ast.Text:
		return tk.emitTextNode(node, src, h)
	case *ast.String:
		return emitText(h, node.Value)
	case *east.TaskCheckBox:
		// consumed by the enclosing list item's detail
		return nil
	default:
		return tk.walkChildren(n, src, h)
	}
}

func (tk *gmTokenizer) walkChildren(n ast.Node, src []byte, h EventHandler) error {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if err := tk.walk(child, src, h); err != nil {
			return err
		}
	}
	return nil
}

func (tk *gmTokenizer) emitBlock(kind BlockKind, detail BlockDetail, n ast.Node, src []byte, h EventHandler) error {
	if err := h.EnterBlock(kind, detail); err != nil {
		return err
	}
	if err := tk.walkChildren(n, src, h); err != nil {
		return err
	}
	return h.LeaveBlock(kind)
}

func (tk *gmTokenizer) emitSpan(kind SpanKind, detail SpanDetail, n ast.Node, src []byte, h EventHandler) error {
	if err := h.EnterSpan(kind, detail); err != nil {
		return err
	}
	if err := tk.walkChildren(n, src, h); err != nil {
		return err
	}
	return h.LeaveSpan(kind)
}

func (tk *gmTokenizer) emitCodeBlock(detail CodeBlockDetail, n ast.Node, src []byte, h EventHandler) error {
	if err := h.EnterBlock(BlockCode, detail); err != nil {
		return err
	}
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		if err := h.Text(TextCode, seg.Value(src)); err != nil {
			return err
		}
	}
	return h.LeaveBlock(BlockCode)
}

func (tk *gmTokenizer) emitList(node *ast.List, src []byte, h EventHandler) error {
	if node.IsOrdered() {
		detail := OrderedListDetail{
			Start:         node.Start,
			MarkDelimiter: node.Marker,
			Tight:         node.IsTight,
		}
		return tk.emitBlock(BlockOList, detail, node, src, h)
	}
	detail := BulletListDetail{Mark: node.Marker, Tight: node.IsTight}
	return tk.emitBlock(BlockUList, detail, node, src, h)
}

func (tk *gmTokenizer) emitListItem(node *ast.ListItem, src []byte, h EventHandler) error {
	detail := ListItemDetail{}
	if fc := node.FirstChild(); fc != nil {
		if box, ok := fc.FirstChild().(*east.TaskCheckBox); ok {
			detail.IsTask = true
			detail.TaskMark = ' '
			if box.IsChecked {
				detail.TaskMark = 'x'
			}
		}
	}
	return tk.emitBlock(BlockListItem, detail, node, src, h)
}

func (tk *gmTokenizer) emitHTMLBlock(node *ast.HTMLBlock, src []byte, h EventHandler) error {
	if tk.features.Has(FeatureNoHTML) {
		if err := h.EnterBlock(BlockParagraph, nil); err != nil {
			return err
		}
		if err := tk.emitHTMLBlockLines(node, src, h, TextNormal); err != nil {
			return err
		}
		return h.LeaveBlock(BlockParagraph)
	}
	if err := h.EnterBlock(BlockHTML, nil); err != nil {
		return err
	}
	if err := tk.emitHTMLBlockLines(node, src, h, TextHTML); err != nil {
		return err
	}
	return h.LeaveBlock(BlockHTML)
}

func (tk *gmTokenizer) emitHTMLBlockLines(node *ast.HTMLBlock, src []byte, h EventHandler, kind TextKind) error {
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		if err := h.Text(kind, seg.Value(src)); err != nil {
			return err
		}
	}
	if node.HasClosure() {
		if err := h.Text(kind, node.ClosureLine.Value(src)); err != nil {
			return err
		}
	}
	return nil
}

func (tk *gmTokenizer) emitTableRow(row ast.Node, cellKind BlockKind, src []byte, h EventHandler) error {
	if err := h.EnterBlock(BlockTableRow, nil); err != nil {
		return err
	}
	for child := row.FirstChild(); child != nil; child = child.NextSibling() {
		detail := CellDetail{}
		if cell, ok := child.(*east.TableCell); ok {
			detail.Align = cellAlign(cell.Alignment)
		}
		if err := h.EnterBlock(cellKind, detail); err != nil {
			return err
		}
		if err := tk.walkChildren(child, src, h); err != nil {
			return err
		}
		if err := h.LeaveBlock(cellKind); err != nil {
			return err
		}
	}
	return h.LeaveBlock(BlockTableRow)
}

func (tk *gmTokenizer) emitAutoLink(node *ast.AutoLink, src []byte, h EventHandler) error {
	url := node.URL(src)
	if node.AutoLinkType == ast.AutoLinkEmail && !bytes.HasPrefix(url, []byte("mailto:")) {
		url = append([]byte("mailto:"), url...)
	}
	if err := h.EnterSpan(SpanLink, LinkDetail{Href: string(url)}); err != nil {
		return err
	}
	if err := h.Text(TextNormal, node.Label(src)); err != nil {
		return err
	}
	return h.LeaveSpan(SpanLink)
}

func (tk *gmTokenizer) emitCodeSpan(node *ast.CodeSpan, src []byte, h EventHandler) error {
	if err := h.EnterSpan(SpanCode, nil); err != nil {
		return err
	}
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch c := child.(type) {
		case *ast.Text:
			if err := h.Text(TextCode, c.Segment.Value(src)); err != nil {
				return err
			}
		case *ast.String:
			if err := h.Text(TextCode, c.Value); err != nil {
				return err
			}
		}
	}
	return h.LeaveSpan(SpanCode)
}

func (tk *gmTokenizer) emitTextNode(node *ast.Text, src []byte, h EventHandler) error {
	if err := emitText(h, node.Segment.Value(src)); err != nil {
		return err
	}
	if node.HardLineBreak() {
		return h.Text(TextHardBreak, nil)
	}
	if node.SoftLineBreak() {
		kind := TextSoftBreak
		if tk.features.Has(FeatureHardBreaks) {
			kind = TextHardBreak
		}
		return h.Text(kind, nil)
	}
	return nil
}

// --- Text fragment scanning ------------------------------------------------

// entityPattern matches the CommonMark shape of named, decimal and hex
// character references.
var entityPattern = regexp.MustCompile(`&(?:#[0-9]{1,7}|#[xX][0-9a-fA-F]{1,6}|[a-zA-Z][a-zA-Z0-9]{1,31});`)

// emitText splits a raw text fragment into normal-text, entity and
// null-character events.
func emitText(h EventHandler, seg []byte) error {
	locs := entityPattern.FindAllIndex(seg, -1)
	pos := 0
	for _, loc := range locs {
		if err := emitPlainText(h, seg[pos:loc[0]]); err != nil {
			return err
		}
		if err := h.Text(TextEntity, seg[loc[0]:loc[1]]); err != nil {
			return err
		}
		pos = loc[1]
	}
	return emitPlainText(h, seg[pos:])
}

func emitPlainText(h EventHandler, seg []byte) error {
	for {
		i := bytes.IndexByte(seg, 0)
		if i < 0 {
			break
		}
		if i > 0 {
			if err := h.Text(TextNormal, seg[:i]); err != nil {
				return err
			}
		}
		if err := h.Text(TextNullChar, nil); err != nil {
			return err
		}
		seg = seg[i+1:]
	}
	if len(seg) == 0 {
		return nil
	}
	return h.Text(TextNormal, seg)
}

// cellAlign maps goldmark cell alignment onto the event contract.
func cellAlign(a east.Alignment) Align {
	switch a {
	case east.AlignLeft:
		return AlignLeft
	case east.AlignCenter:
		return AlignCenter
	case east.AlignRight:
		return AlignRight
	}
	return AlignDefault
}
