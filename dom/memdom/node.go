package memdom

import (
	"strings"

	"github.com/npillmayer/epubcfi/dom"
	"github.com/npillmayer/epubcfi/tree"
)

// Node is a node of an in-memory document, the building block of the tree.
type Node struct {
	tree.Node[*Node] // we build on top of general purpose tree
	kind             dom.Kind
	tag              string
	id               string
	classes          []string
	text             string
}

func newNode(kind dom.Kind) *Node {
	n := &Node{kind: kind}
	n.Payload = n // Payload will always reference the node itself
	return n
}

// Element creates an element node with a tag name and children.
func Element(tag string, children ...*Node) *Node {
	n := newNode(dom.ElementNode)
	n.tag = tag
	return n.Append(children...)
}

// Text creates a text node.
func Text(s string) *Node {
	n := newNode(dom.TextNode)
	n.text = s
	return n
}

// Comment creates a comment node. Comments are invisible to addressing.
func Comment(s string) *Node {
	n := newNode(dom.OtherNode)
	n.text = s
	return n
}

// NodeOf gets the document node from a generic tree node.
func NodeOf(n *tree.Node[*Node]) *Node {
	if n == nil {
		return nil
	}
	return n.Payload
}

func (n *Node) String() string {
	return dom.Describe(n)
}

// WithID sets the id attribute of an element and returns the element.
func (n *Node) WithID(id string) *Node {
	n.id = id
	return n
}

// WithClass adds class names to an element and returns the element.
func (n *Node) WithClass(classes ...string) *Node {
	n.classes = append(n.classes, classes...)
	return n
}

// Append adds children to a node and returns the node.
func (n *Node) Append(children ...*Node) *Node {
	for _, ch := range children {
		if ch != nil {
			n.AddChild(&ch.Node)
		}
	}
	return n
}

// Wrap replaces n in its parent by wrapper and makes n the last child of
// wrapper. It returns wrapper. If n has no parent, wrapper just adopts n.
func Wrap(n *Node, wrapper *Node) *Node {
	if p := n.Node.Parent(); p != nil {
		i := p.IndexOfChild(&n.Node)
		p.InsertChildAt(i, &wrapper.Node)
	}
	wrapper.AddChild(&n.Node)
	tracer().Debugf("wrapped %s into %s", dom.Describe(n), dom.Describe(wrapper))
	return wrapper
}

// --- Interface dom.Node ----------------------------------------------------

var _ dom.Node = (*Node)(nil)

// Kind is part of interface dom.Node.
func (n *Node) Kind() dom.Kind {
	return n.kind
}

// Parent is part of interface dom.Node.
func (n *Node) Parent() dom.Node {
	p := NodeOf(n.Node.Parent())
	if p == nil {
		return nil
	}
	return p
}

// Children is part of interface dom.Node.
func (n *Node) Children() []dom.Node {
	children := make([]dom.Node, 0, n.ChildCount())
	for _, ch := range n.Node.Children() {
		children = append(children, NodeOf(ch))
	}
	return children
}

// ID is part of interface dom.Node.
func (n *Node) ID() string {
	return n.id
}

// TagName is part of interface dom.Node.
func (n *Node) TagName() string {
	return n.tag
}

// HasClass is part of interface dom.Node.
func (n *Node) HasClass(name string) bool {
	for _, c := range n.classes {
		if c == name {
			return true
		}
	}
	return false
}

// Text is part of interface dom.Node.
func (n *Node) Text() string {
	switch n.kind {
	case dom.TextNode:
		return n.text
	case dom.ElementNode:
		var sb strings.Builder
		n.Walk(func(x *tree.Node[*Node]) bool {
			if x.Payload.kind == dom.TextNode {
				sb.WriteString(x.Payload.text)
			}
			return true
		})
		return sb.String()
	}
	return ""
}

// --- Document --------------------------------------------------------------

// Document is an in-memory document.
type Document struct {
	root *Node
}

var _ dom.Document = (*Document)(nil)

// NewDocument creates a document for a root element.
func NewDocument(root *Node) *Document {
	return &Document{root: root}
}

// Root is part of interface dom.Document.
func (doc *Document) Root() dom.Node {
	if doc.root == nil {
		return nil
	}
	return doc.root
}
