/*
Package dom defines the minimal tree access the CFI machinery needs from a
document.

Overview

Content documents of an EPUB are (X)HTML. Different clients hold them in
different tree representations: a parse tree of golang.org/x/net/html,
an XML tree of github.com/antchfx/xmlquery, or something application
specific. Addressing a location with a CFI needs very little from such a
tree: ordered children, the kind of a node (element or text), id and tag
name of elements, class membership (for ignore-filters) and the text
content. Interface Node captures exactly that; sub-packages htmldom,
xmldom and memdom provide concrete adapters.

Ranges

A Range is a pair of boundaries, each one a container node plus an offset.
For text containers the offset counts characters (Unicode code points);
for element containers it counts child nodes, as in the W3C DOM.

Node identity

Adapters must return comparable Node values with identity semantics: two
Node values are == if and only if they denote the same node of the
underlying tree.

Concurrency

Documents are treated as read-only. Clients must not modify a tree while
a CFI is derived from it or resolved against it.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package dom

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer will return a tracer. We are tracing to 'epubcfi.dom'
func tracer() tracing.Trace {
	return tracing.Select("epubcfi.dom")
}
