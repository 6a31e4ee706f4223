/*
Package xmldom adapts XML trees of github.com/antchfx/xmlquery to interface
dom.Node. EPUB content documents are XHTML, and clients reading them with
an XML parser get addressing without converting trees.

CDATA sections count as text. Comments, processing instructions and
declarations are invisible to addressing. Whitespace between elements is
text, as it is for any other document tree.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package xmldom

import (
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"github.com/npillmayer/epubcfi/address"
	"github.com/npillmayer/epubcfi/dom"
)

// Node wraps an XML node.
type Node struct {
	x *xmlquery.Node
}

var _ dom.Node = Node{}

// NodeOf wraps an XML node. For nil it returns nil.
func NodeOf(x *xmlquery.Node) dom.Node {
	if x == nil {
		return nil
	}
	return Node{x: x}
}

// XMLNode returns the XML node wrapped by n, if n is a node of this package.
func XMLNode(n dom.Node) (*xmlquery.Node, bool) {
	xn, ok := n.(Node)
	if !ok {
		return nil, false
	}
	return xn.x, xn.x != nil
}

// Kind is part of interface dom.Node.
func (n Node) Kind() dom.Kind {
	switch n.x.Type {
	case xmlquery.ElementNode:
		return dom.ElementNode
	case xmlquery.TextNode, xmlquery.CharDataNode:
		return dom.TextNode
	}
	return dom.OtherNode
}

// Parent is part of interface dom.Node.
func (n Node) Parent() dom.Node {
	return NodeOf(n.x.Parent)
}

// Children is part of interface dom.Node.
func (n Node) Children() []dom.Node {
	var children []dom.Node
	for c := n.x.FirstChild; c != nil; c = c.NextSibling {
		children = append(children, Node{x: c})
	}
	return children
}

// ID is part of interface dom.Node.
func (n Node) ID() string {
	if n.x.Type != xmlquery.ElementNode {
		return ""
	}
	return n.x.SelectAttr("id")
}

// TagName is part of interface dom.Node. It returns the local name.
func (n Node) TagName() string {
	if n.x.Type != xmlquery.ElementNode {
		return ""
	}
	return n.x.Data
}

// HasClass is part of interface dom.Node.
func (n Node) HasClass(name string) bool {
	if n.x.Type != xmlquery.ElementNode {
		return false
	}
	return dom.ClassListContains(n.x.SelectAttr("class"), name)
}

// Text is part of interface dom.Node.
func (n Node) Text() string {
	switch n.Kind() {
	case dom.TextNode:
		return n.x.Data
	case dom.ElementNode:
		var sb strings.Builder
		collectText(n.x, &sb)
		return sb.String()
	}
	return ""
}

func collectText(x *xmlquery.Node, sb *strings.Builder) {
	for c := x.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case xmlquery.TextNode, xmlquery.CharDataNode:
			sb.WriteString(c.Data)
		case xmlquery.ElementNode:
			collectText(c, sb)
		}
	}
}

func (n Node) String() string {
	return dom.Describe(n)
}

// --- Document --------------------------------------------------------------

// Document is a parsed XML document.
type Document struct {
	doc *xmlquery.Node // the document node
}

var _ dom.Document = (*Document)(nil)

// Parse reads an XML document.
func Parse(r io.Reader) (*Document, error) {
	x, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("xmldom: %w", err)
	}
	return &Document{doc: x}, nil
}

// Root is part of interface dom.Document. It returns the document element.
func (doc *Document) Root() dom.Node {
	if doc.doc == nil {
		return nil
	}
	for c := doc.doc.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			return Node{x: c}
		}
	}
	return nil
}

// XML returns the underlying document node.
func (doc *Document) XML() *xmlquery.Node {
	return doc.doc
}

// --- XPath -----------------------------------------------------------------

// Select returns all nodes of a document matching an XPath expression.
func Select(doc *Document, expr string) ([]dom.Node, error) {
	e, err := xpath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("xmldom: invalid xpath: %w", err)
	}
	var nodes []dom.Node
	for _, x := range xmlquery.QuerySelectorAll(doc.doc, e) {
		nodes = append(nodes, Node{x: x})
	}
	return nodes, nil
}

// SelectPath finds the node a path addresses by evaluating its XPath
// rendering (see address.Path.XPath). Ignore-filters cannot be honoured
// this way; use package walker to resolve paths in documents with
// ignored elements.
func SelectPath(doc *Document, p address.Path) (dom.Node, error) {
	expr := p.XPath()
	e, err := xpath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("xmldom: invalid xpath %s: %w", expr, err)
	}
	x := xmlquery.QuerySelector(doc.doc, e)
	if x == nil {
		return nil, fmt.Errorf("xmldom: no node for %s", expr)
	}
	return Node{x: x}, nil
}
