package richtext

import (
	"image/color"

	"github.com/npillmayer/richmd/core/dimen"
)

// Alignment is a bitmask of horizontal and vertical alignment flags for
// block content, e.g. table cells.
type Alignment uint8

// Alignment flags. Horizontal and vertical flags may be combined.
const (
	AlignLeft Alignment = 1 << iota
	AlignHCenter
	AlignRight
	AlignTop
	AlignVCenter
	AlignBottom
)

// Horizontal returns the horizontal part of an alignment.
func (a Alignment) Horizontal() Alignment {
	return a & (AlignLeft | AlignHCenter | AlignRight)
}

// Vertical returns the vertical part of an alignment.
func (a Alignment) Vertical() Alignment {
	return a & (AlignTop | AlignVCenter | AlignBottom)
}

// Marker is a per-block list item marker, used for task lists.
type Marker int8

// Task list markers.
const (
	MarkerNone Marker = iota
	MarkerUnchecked
	MarkerChecked
)

// LinkColor is the foreground color applied to anchor runs.
var LinkColor color.Color = color.RGBA{R: 0x00, G: 0x00, B: 0xee, A: 0xff}

// CharFormat is a set of character attributes for a run of text.
// The zero value denotes plain text.
type CharFormat struct {
	Bold           bool
	Italic         bool
	Monospace      bool
	Strikeout      bool
	SizeAdjustment int // relative to the document's default font size
	Href           string
	AnchorTitle    string
	Foreground     color.Color
}

// IsAnchor returns true if the format links to a target.
func (f CharFormat) IsAnchor() bool {
	return f.Href != ""
}

// IsPlain returns true for the zero format.
func (f CharFormat) IsPlain() bool {
	return f.Equals(CharFormat{})
}

// Equals compares two character formats attribute by attribute.
func (f CharFormat) Equals(other CharFormat) bool {
	return f.Bold == other.Bold &&
		f.Italic == other.Italic &&
		f.Monospace == other.Monospace &&
		f.Strikeout == other.Strikeout &&
		f.SizeAdjustment == other.SizeAdjustment &&
		f.Href == other.Href &&
		f.AnchorTitle == other.AnchorTitle &&
		f.Foreground == other.Foreground
}

// BlockFormat is the set of block-level attributes of a Block.
// The zero value denotes a standard paragraph without spacing.
type BlockFormat struct {
	Indent       int    // list nesting depth; 0 = not indented
	HeadingLevel int    // 1…6; 0 = not a heading
	QuoteLevel   int    // blockquote nesting depth; 0 = not quoted
	CodeLanguage string // info string language tag for code blocks
	LeftMargin   dimen.Dimen
	RightMargin  dimen.Dimen
	TopMargin    dimen.Dimen
	BottomMargin dimen.Dimen
	Alignment    Alignment
	Marker       Marker
	TrailingRule bool // block carries a trailing horizontal rule
}

// ImageFormat describes an image placeholder run.
type ImageFormat struct {
	Src   string
	Title string
}

// ListStyle selects the marker style of a list.
type ListStyle int8

// List marker styles.
const (
	ListDisc ListStyle = iota
	ListCircle
	ListSquare
	ListDecimal
)

// ListFormat is the set of attributes of a List.
type ListFormat struct {
	Indent       int       // nesting depth, 1-based
	Style        ListStyle //
	NumberSuffix rune      // delimiter after ordered item numbers, e.g. '.'
}
