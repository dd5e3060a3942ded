package richtext

import (
	"strings"

	"github.com/npillmayer/richmd/core"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// InsertHTML parses an HTML fragment and inserts its content at the
// cursor, mapping a bounded set of tags onto character and block
// attributes (b/strong, i/em, code/tt, s/del, a, img, br, headings,
// paragraph-level containers). Character entities are resolved by the
// parser. Unknown tags contribute their text content only.
//
// The active character format serves as the base format for the
// fragment; it is left untouched for block-level fragments except where
// InsertBlock advances it, so callers re-apply their format after
// inserting rich content.
func (c *Cursor) InsertHTML(src string) error {
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(src), ctx)
	if err != nil {
		return core.WrapError(err, core.EINVALID, "cannot parse rich content")
	}
	for _, n := range nodes {
		c.insertHTMLNode(n, c.charFormat)
	}
	return nil
}

func (c *Cursor) insertHTMLNode(n *html.Node, f CharFormat) {
	switch n.Type {
	case html.TextNode:
		c.insertRun(n.Data, f)
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Head, atom.Template:
			return
		case atom.B, atom.Strong:
			f.Bold = true
		case atom.I, atom.Em:
			f.Italic = true
		case atom.Code, atom.Tt, atom.Kbd, atom.Samp, atom.Pre:
			f.Monospace = true
		case atom.S, atom.Del, atom.Strike:
			f.Strikeout = true
		case atom.A:
			for _, a := range n.Attr {
				switch a.Key {
				case "href":
					f.Href = a.Val
				case "title":
					f.AnchorTitle = a.Val
				}
			}
			if f.IsAnchor() {
				f.Foreground = LinkColor
			}
		case atom.Img:
			img := ImageFormat{}
			for _, a := range n.Attr {
				switch a.Key {
				case "src":
					img.Src = a.Val
				case "title":
					img.Title = a.Val
				}
			}
			c.ensureBlock()
			c.block.runs = append(c.block.runs, Run{
				Text:   ObjectReplacementChar,
				Format: f,
				Image:  &img,
			})
			return
		case atom.Br:
			c.insertRun("\n", f)
			return
		case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
			level := int(n.Data[1] - '0')
			f.Bold = true
			f.SizeAdjustment = 4 - level
			c.InsertBlock(BlockFormat{HeadingLevel: level}, f)
		case atom.P, atom.Div, atom.Blockquote, atom.Li:
			if c.block == nil || len(c.block.runs) > 0 {
				c.InsertBlock(BlockFormat{}, f)
			}
		}
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.insertHTMLNode(child, f)
	}
}
