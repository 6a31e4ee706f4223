package dom

import "fmt"

// Boundary is one end of a range: a container node and an offset into it.
type Boundary struct {
	Container Node
	Offset    int
}

func (b Boundary) String() string {
	if b.Container == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s:%d", Describe(b.Container), b.Offset)
}

// Range delimits a span within a document tree.
// See https://dom.spec.whatwg.org/#abstractrange.
type Range struct {
	Start Boundary
	End   Boundary
}

// NewRange creates a range from two container/offset pairs.
func NewRange(startContainer Node, startOffset int, endContainer Node, endOffset int) Range {
	return Range{
		Start: Boundary{Container: startContainer, Offset: startOffset},
		End:   Boundary{Container: endContainer, Offset: endOffset},
	}
}

// Caret creates a collapsed range at a container/offset position.
func Caret(container Node, offset int) Range {
	b := Boundary{Container: container, Offset: offset}
	return Range{Start: b, End: b}
}

// Collapsed is true if start and end of a range are identical.
func (r Range) Collapsed() bool {
	return r.Start == r.End
}

func (r Range) String() string {
	if r.Collapsed() {
		return "[" + r.Start.String() + "]"
	}
	return "[" + r.Start.String() + " … " + r.End.String() + "]"
}

// Describe returns a short human readable description of a node,
// e.g. `<p id="x">` or `#text "Hello"`.
func Describe(n Node) string {
	if n == nil {
		return "<nil>"
	}
	switch n.Kind() {
	case ElementNode:
		if id := n.ID(); id != "" {
			return fmt.Sprintf("<%s id=%q>", n.TagName(), id)
		}
		return "<" + n.TagName() + ">"
	case TextNode:
		s := []rune(n.Text())
		if len(s) > 16 {
			return fmt.Sprintf("#text %q…", string(s[:16]))
		}
		return fmt.Sprintf("#text %q", string(s))
	}
	return "#other"
}
