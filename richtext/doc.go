/*
Package richtext implements a hierarchical, attributed rich-document tree.

A Document is an ordered sequence of blocks (paragraphs, headings, list
items, table anchors, …). Leaf blocks carry runs of text with character
attributes. Structure beyond the flat block sequence is expressed through
block attributes, list membership and table cells, similar in spirit to
the text-document models of common GUI toolkits.

All mutation goes through a Cursor, which is the single insertion point
of a document. Clients building a document from a parse (see package
markdown) own the cursor exclusively for the duration of the build.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package richtext

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'richmd.doc'.
func tracer() tracing.Trace {
	return tracing.Select("richmd.doc")
}
