/*
Package epubcfi implements EPUB Canonical Fragment Identifiers.

A CFI is a string like

    epubcfi(/6/4[chap01ref]!/4[body01]/10[para05]/3:10)

which addresses a location within an EPUB publication independently of
rendering: every step selects a child of the node reached so far, with even
integers for elements and odd integers for the text between them. The part
before "!" addresses a spine item of the package document, the part after
it a location within the content document. A range is written with a common
prefix and two suffixes:

    epubcfi(/6/4[chap01ref]!/4[body01]/10[para05],/2/1:1,/3:4)

Usage

CFI values are created by parsing a string, or by deriving them from a node
or range of a document:

    cfi, err := epubcfi.Parse("epubcfi(/6/4[chap01ref]!/4/2[x]/2/1:1)")
    …
    rng, err := cfi.ToRange(doc, epubcfi.IgnoreClass("highlight"))

    cfi, err = epubcfi.FromRange(rng, "/6/4[chap01ref]", epubcfi.IgnoreClass("highlight"))
    fmt.Println(cfi)

Documents are accessed through interface dom.Node. Package dom/htmldom adapts
parse trees of golang.org/x/net/html, package dom/xmldom adapts XML trees of
github.com/antchfx/xmlquery.

CFI values are immutable and may be shared between goroutines. Collapse
returns a new value.

Temporal and spatial offsets ("~", "@") as well as text location assertions
are recognized when parsing but not interpreted, and they are lost when a
parsed CFI is serialized again.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package epubcfi

import (
	"github.com/npillmayer/epubcfi/address"
	"github.com/npillmayer/epubcfi/parser"
	"github.com/npillmayer/epubcfi/walker"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'epubcfi'.
func tracer() tracing.Trace {
	return tracing.Select("epubcfi")
}

// Errors returned by this package, to be checked with errors.Is.
var (
	ErrMalformed    = parser.ErrMalformed     // string is not a CFI
	ErrNodeNotFound = walker.ErrNodeNotFound  // CFI does not match a document
	ErrInvalidRange = address.ErrInvalidRange // range halves cannot be combined with their prefix
)
