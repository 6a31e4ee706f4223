package dom

import "strings"

// Walk visits n and all of its descendents in document order. If f returns
// false for a node, its subtree is skipped.
func Walk(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, ch := range n.Children() {
		Walk(ch, f)
	}
}

// FindID returns the first element below (and including) n carrying an
// id attribute equal to id, or nil.
func FindID(n Node, id string) Node {
	var found Node
	Walk(n, func(x Node) bool {
		if found != nil {
			return false
		}
		if IsElement(x) && x.ID() == id {
			found = x
			return false
		}
		return true
	})
	return found
}

// FindText searches the text nodes below n for the first occurrence of s.
// It returns the text node and the character offset of the match within it.
// Matches spanning more than one text node are not found.
func FindText(n Node, s string) (Node, int) {
	var found Node
	var offset int
	Walk(n, func(x Node) bool {
		if found != nil {
			return false
		}
		if IsText(x) {
			if i := strings.Index(x.Text(), s); i >= 0 {
				found = x
				offset = len([]rune(x.Text()[:i]))
				tracer().Debugf("found %q in %s at offset %d", s, Describe(x), offset)
			}
		}
		return true
	})
	return found, offset
}
