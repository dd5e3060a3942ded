/*
Package markdown imports CommonMark/GFM documents into rich-document
trees (see package richtext).

The hard part lives in the Importer: a stateful machine which receives a
flat, forward-only stream of structural parse events (block enter/leave,
span enter/leave, text fragments) and emits a correctly nested,
correctly attributed document tree. Tree shape which is not explicit in
the event stream (table cell spans, reuse of a list's first item block,
deferred paragraph creation) is inferred from event adjacency.

Tokenizing is delegated to a goldmark-backed adapter satisfying the
Tokenizer interface; any tokenizer producing the event contract of this
package may drive an import.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package markdown

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'richmd.md'.
func tracer() tracing.Trace {
	return tracing.Select("richmd.md")
}
