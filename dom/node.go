package dom

import (
	"strings"
	"unicode/utf8"
)

// Kind is the type of a document node, as far as addressing is concerned.
type Kind uint8

// Node kinds. Every node which is neither an element nor text (comments,
// processing instructions, doctype, the document node itself) is of kind
// OtherNode and is invisible to addressing.
const (
	OtherNode Kind = iota
	ElementNode
	TextNode
)

func (k Kind) String() string {
	switch k {
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	}
	return "other"
}

// Node represents a node of a document tree.
type Node interface {
	Kind() Kind                // element, text or other
	Parent() Node              // parent node or nil
	Children() []Node          // all child nodes in document order
	ID() string                // value of the id attribute of an element, or ""
	TagName() string           // tag name of an element, or ""
	HasClass(name string) bool // is the element a member of class name?
	Text() string              // text of a text node, concatenated descendent text for elements
}

// Document is a document tree.
type Document interface {
	Root() Node // the document element (e.g., <html>)
}

// IsElement is a predicate for element nodes.
func IsElement(n Node) bool {
	return n != nil && n.Kind() == ElementNode
}

// IsText is a predicate for text nodes.
func IsText(n Node) bool {
	return n != nil && n.Kind() == TextNode
}

// TextLength returns the length of the text content of a node, counted
// in Unicode code points.
func TextLength(n Node) int {
	if n == nil {
		return 0
	}
	return utf8.RuneCountInString(n.Text())
}

// ClassListContains checks a whitespace separated class attribute value for
// a class name. Adapters use it to implement Node.HasClass.
func ClassListContains(classAttr, name string) bool {
	if name == "" {
		return false
	}
	for _, c := range strings.Fields(classAttr) {
		if c == name {
			return true
		}
	}
	return false
}

// --- Filters ---------------------------------------------------------------

// Filter reports whether an element has to be ignored for addressing.
// Ignored elements are typically wrappers injected into a document for
// presentational purposes (highlights, page markers).
//
// A nil Filter ignores nothing.
type Filter func(Node) bool

// Ignores reports whether filter f ignores node n. Only elements may be ignored.
func (f Filter) Ignores(n Node) bool {
	return f != nil && IsElement(n) && f(n)
}

// IgnoreClass returns a filter ignoring all elements carrying class name.
// For an empty class name, IgnoreClass returns nil.
func IgnoreClass(name string) Filter {
	if name == "" {
		return nil
	}
	return func(n Node) bool {
		return n.HasClass(name)
	}
}

// AnyOf combines filters: an element is ignored if any of the filters
// ignores it. Nil filters are skipped.
func AnyOf(filters ...Filter) Filter {
	var fs []Filter
	for _, f := range filters {
		if f != nil {
			fs = append(fs, f)
		}
	}
	switch len(fs) {
	case 0:
		return nil
	case 1:
		return fs[0]
	}
	return func(n Node) bool {
		for _, f := range fs {
			if f(n) {
				return true
			}
		}
		return false
	}
}
