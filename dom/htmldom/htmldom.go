/*
Package htmldom adapts parse trees of golang.org/x/net/html to interface
dom.Node.

Node values are thin wrappers around *html.Node and compare equal if they
wrap the same HTML node. Ignore-filters may be given as CSS selectors, which
are compiled with github.com/andybalholm/cascadia.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package htmldom

import (
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/npillmayer/epubcfi/dom"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/net/html"
)

// tracer traces with key 'epubcfi.dom'.
func tracer() tracing.Trace {
	return tracing.Select("epubcfi.dom")
}

// Node wraps an HTML node.
type Node struct {
	h *html.Node
}

var _ dom.Node = Node{}

// NodeOf wraps an HTML node. For nil it returns nil.
func NodeOf(h *html.Node) dom.Node {
	if h == nil {
		return nil
	}
	return Node{h: h}
}

// HTMLNode returns the HTML node wrapped by n, if n is a node of this package.
func HTMLNode(n dom.Node) (*html.Node, bool) {
	hn, ok := n.(Node)
	if !ok {
		return nil, false
	}
	return hn.h, hn.h != nil
}

// Kind is part of interface dom.Node.
func (n Node) Kind() dom.Kind {
	switch n.h.Type {
	case html.ElementNode:
		return dom.ElementNode
	case html.TextNode:
		return dom.TextNode
	}
	return dom.OtherNode
}

// Parent is part of interface dom.Node.
func (n Node) Parent() dom.Node {
	return NodeOf(n.h.Parent)
}

// Children is part of interface dom.Node.
func (n Node) Children() []dom.Node {
	var children []dom.Node
	for c := n.h.FirstChild; c != nil; c = c.NextSibling {
		children = append(children, Node{h: c})
	}
	return children
}

// ID is part of interface dom.Node.
func (n Node) ID() string {
	return n.attr("id")
}

// TagName is part of interface dom.Node.
func (n Node) TagName() string {
	if n.h.Type != html.ElementNode {
		return ""
	}
	return n.h.Data
}

// HasClass is part of interface dom.Node.
func (n Node) HasClass(name string) bool {
	return dom.ClassListContains(n.attr("class"), name)
}

// Text is part of interface dom.Node.
func (n Node) Text() string {
	if n.h.Type == html.TextNode {
		return n.h.Data
	}
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(h *html.Node) {
		for c := h.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				sb.WriteString(c.Data)
			} else if c.Type == html.ElementNode {
				collect(c)
			}
		}
	}
	if n.h.Type == html.ElementNode {
		collect(n.h)
	}
	return sb.String()
}

func (n Node) attr(key string) string {
	if n.h.Type != html.ElementNode {
		return ""
	}
	for _, a := range n.h.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func (n Node) String() string {
	return dom.Describe(n)
}

// --- Document --------------------------------------------------------------

// Document is a parsed HTML document.
type Document struct {
	doc *html.Node // the document node
}

var _ dom.Document = (*Document)(nil)

// Parse reads an HTML document.
func Parse(r io.Reader) (*Document, error) {
	h, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("htmldom: %w", err)
	}
	return &Document{doc: h}, nil
}

// NewDocument wraps an already parsed HTML document node.
func NewDocument(h *html.Node) *Document {
	return &Document{doc: h}
}

// Root is part of interface dom.Document. It returns the document element,
// usually <html>.
func (doc *Document) Root() dom.Node {
	if doc.doc == nil {
		return nil
	}
	if doc.doc.Type == html.ElementNode {
		return Node{h: doc.doc}
	}
	for c := doc.doc.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return Node{h: c}
		}
	}
	return nil
}

// HTML returns the underlying document node.
func (doc *Document) HTML() *html.Node {
	return doc.doc
}

// --- Selectors -------------------------------------------------------------

// IgnoreSelector creates an ignore-filter from a CSS selector,
// e.g. "span.highlight, [data-pagebreak]".
func IgnoreSelector(selector string) (dom.Filter, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("htmldom: ignore selector: %w", err)
	}
	tracer().Debugf("compiled ignore selector %q", selector)
	return func(n dom.Node) bool {
		h, ok := HTMLNode(n)
		return ok && sel.Match(h)
	}, nil
}

// Query returns all elements of a document matching a CSS selector, in
// document order.
func Query(doc *Document, selector string) ([]dom.Node, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("htmldom: query: %w", err)
	}
	var nodes []dom.Node
	for _, h := range sel.MatchAll(doc.doc) {
		nodes = append(nodes, Node{h: h})
	}
	return nodes, nil
}
