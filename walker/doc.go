/*
Package walker connects CFI paths with live document trees.

Resolving follows the steps of a path from the document element down to the
addressed node and maps the terminal offset into its text. Deriving is the
inverse: it climbs from a node to the document element and records a step
for every level.

Both directions compute the children of a node with the same function,
Slots. Slots interleaves text chunks (odd CFI integers) with child elements
(even CFI integers). Elements rejected by an ignore-filter take no slot of
their own: they are pruned together with their subtree, and their text is
joined to the surrounding text chunk. A character offset into a chunk
therefore counts the text of ignored wrappers as well, which keeps
addresses of text stable when highlights or similar wrappers are injected
into a document.

Documents are read-only inputs. Clients must not modify a tree during a
call to this package.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package walker

import (
	"errors"

	"github.com/npillmayer/epubcfi/address"
	"github.com/npillmayer/epubcfi/dom"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'epubcfi.walker'.
func tracer() tracing.Trace {
	return tracing.Select("epubcfi.walker")
}

// ErrNodeNotFound is returned if a path does not match the structure of a
// document, or if a node cannot be addressed.
var ErrNodeNotFound = errors.New("node not found")

// Options control resolving and deriving.
type Options struct {
	Filter dom.Filter   // elements to ignore; nil ignores nothing
	Root   dom.Node     // node addressing starts at; nil for the document element
	Base   address.Path // prepended to derived paths, followed by a redirection
}

// isRoot is true if n is the node addressing starts at.
func (opts Options) isRoot(n dom.Node) bool {
	if opts.Root != nil {
		return n == opts.Root
	}
	p := n.Parent()
	return p == nil || !dom.IsElement(p)
}
