package markdown

// The event contract between a tokenizer and the importer. Events
// arrive in document order; block and span events are strictly nested
// and balanced for well-formed input. Every event kind carries its own
// typed detail payload; there is no untyped detail casting.

// BlockKind enumerates structural block events.
type BlockKind int8

// Block kinds.
const (
	BlockDocument BlockKind = iota
	BlockQuote
	BlockUList
	BlockOList
	BlockListItem
	BlockRule
	BlockHeading
	BlockCode
	BlockHTML
	BlockParagraph
	BlockTable
	BlockTableRow
	BlockTableHeaderCell
	BlockTableDataCell
)

func (k BlockKind) String() string {
	switch k {
	case BlockDocument:
		return "DOC"
	case BlockQuote:
		return "QUOTE"
	case BlockUList:
		return "UL"
	case BlockOList:
		return "OL"
	case BlockListItem:
		return "LI"
	case BlockRule:
		return "HR"
	case BlockHeading:
		return "H"
	case BlockCode:
		return "CODE"
	case BlockHTML:
		return "HTML"
	case BlockParagraph:
		return "P"
	case BlockTable:
		return "TABLE"
	case BlockTableRow:
		return "TR"
	case BlockTableHeaderCell:
		return "TH"
	case BlockTableDataCell:
		return "TD"
	}
	return "?"
}

// SpanKind enumerates inline formatting events.
type SpanKind int8

// Span kinds.
const (
	SpanEmphasis SpanKind = iota
	SpanStrong
	SpanLink
	SpanImage
	SpanCode
	SpanStrikethrough
)

func (k SpanKind) String() string {
	switch k {
	case SpanEmphasis:
		return "EM"
	case SpanStrong:
		return "STRONG"
	case SpanLink:
		return "A"
	case SpanImage:
		return "IMG"
	case SpanCode:
		return "CODE"
	case SpanStrikethrough:
		return "DEL"
	}
	return "?"
}

// TextKind enumerates kinds of text fragments.
type TextKind int8

// Text kinds.
const (
	TextNormal TextKind = iota
	TextNullChar
	TextHardBreak
	TextSoftBreak
	TextEntity
	TextCode
	TextHTML
)

func (k TextKind) String() string {
	switch k {
	case TextNormal:
		return "text"
	case TextNullChar:
		return "nullchar"
	case TextHardBreak:
		return "br"
	case TextSoftBreak:
		return "softbr"
	case TextEntity:
		return "entity"
	case TextCode:
		return "code"
	case TextHTML:
		return "html"
	}
	return "?"
}

// --- Typed event details ---------------------------------------------------

// BlockDetail is the closed set of per-block-kind payloads. Kinds
// without a payload pass nil.
type BlockDetail interface {
	blockDetail()
}

// HeadingDetail accompanies BlockHeading events.
type HeadingDetail struct {
	Level int // 1…6
}

// CodeBlockDetail accompanies BlockCode events.
type CodeBlockDetail struct {
	Lang string // language tag, first word of the info string
	Info string // full info string of fenced code blocks
}

// BulletListDetail accompanies BlockUList events.
type BulletListDetail struct {
	Mark  byte // list marker glyph: '-', '*' or '+'
	Tight bool
}

// OrderedListDetail accompanies BlockOList events.
type OrderedListDetail struct {
	Start         int
	MarkDelimiter byte // delimiter after the number: '.' or ')'
	Tight         bool
}

// ListItemDetail accompanies BlockListItem events.
type ListItemDetail struct {
	IsTask   bool
	TaskMark byte // ' ' for unchecked, 'x'/'X' for checked
}

// CellDetail accompanies table cell events.
type CellDetail struct {
	Align Align
}

func (HeadingDetail) blockDetail()     {}
func (CodeBlockDetail) blockDetail()   {}
func (BulletListDetail) blockDetail()  {}
func (OrderedListDetail) blockDetail() {}
func (ListItemDetail) blockDetail()    {}
func (CellDetail) blockDetail()        {}

// SpanDetail is the closed set of per-span-kind payloads.
type SpanDetail interface {
	spanDetail()
}

// LinkDetail accompanies SpanLink events.
type LinkDetail struct {
	Href  string
	Title string
}

// ImageDetail accompanies SpanImage events.
type ImageDetail struct {
	Src   string
	Title string
}

func (LinkDetail) spanDetail()  {}
func (ImageDetail) spanDetail() {}

// Align is the column alignment reported for table cells.
type Align int8

// Cell alignments.
const (
	AlignDefault Align = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// --- Contract --------------------------------------------------------------

// EventHandler receives the token stream. A non-nil error return aborts
// the remaining stream immediately; the tokenizer must not deliver
// further events after an error.
type EventHandler interface {
	EnterBlock(kind BlockKind, detail BlockDetail) error
	LeaveBlock(kind BlockKind) error
	EnterSpan(kind SpanKind, detail SpanDetail) error
	LeaveSpan(kind SpanKind) error
	Text(kind TextKind, text []byte) error
}

// Tokenizer produces the event stream for a markdown input. Calls are
// strictly synchronous and in document order.
type Tokenizer interface {
	Tokenize(input []byte, h EventHandler) error
}
