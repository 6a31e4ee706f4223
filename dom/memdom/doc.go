/*
Package memdom is a small in-memory implementation of a document tree.

Overview

This is an implementation of interface dom.Node which does not depend on
any parser. Trees are assembled programmatically:

    doc := memdom.NewDocument(
        memdom.Element("html",
            memdom.Element("head"),
            memdom.Element("body",
                memdom.Element("p", memdom.Text("He"),
                    memdom.Element("b", memdom.Text("llo")),
                ).WithID("x"),
            ),
        ),
    )

Nodes are built on top of the general purpose tree type of package tree.
Clients mainly use memdom for testing, or for documents constructed
by other means than parsing markup.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package memdom

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'epubcfi.dom'.
func tracer() tracing.Trace {
	return tracing.Select("epubcfi.dom")
}
