package walker

import (
	"github.com/npillmayer/epubcfi/address"
	"github.com/npillmayer/epubcfi/dom"
)

// Slot is an addressable position among the children of a node: either a
// child element (even CFI integer) or a text chunk (odd CFI integer).
type Slot struct {
	Index int        // CFI integer of the slot
	Node  dom.Node   // the element of an element slot, nil for text chunks
	Chunk []dom.Node // text nodes and ignored elements of a text chunk
}

// IsText is true for text chunks.
func (s Slot) IsText() bool {
	return s.Index%2 == 1
}

// Texts returns the text nodes contributing to a text chunk, in document
// order. Text nodes below ignored elements are included.
func (s Slot) Texts() []dom.Node {
	var texts []dom.Node
	for _, n := range s.Chunk {
		texts = append(texts, textsBelow(n)...)
	}
	return texts
}

// Length returns the number of characters of a text chunk.
func (s Slot) Length() int {
	l := 0
	for _, t := range s.Texts() {
		l += dom.TextLength(t)
	}
	return l
}

// contains is true if n occupies slot s.
func (s Slot) contains(n dom.Node) bool {
	if s.Node != nil {
		return s.Node == n
	}
	for _, ch := range s.Chunk {
		if ch == n {
			return true
		}
	}
	return false
}

// Slots computes the addressable children of parent. Every element not
// ignored by filter occupies a slot with an even CFI integer. Text nodes and
// ignored elements are collected into text chunks with odd CFI integers,
// one chunk before, between and after child elements. Other nodes are
// skipped.
//
// The result always has an odd number of entries, and slots[i].Index == i+1.
// Chunks may be empty.
func Slots(parent dom.Node, filter dom.Filter) []Slot {
	slots := []Slot{{Index: address.TextIndex(0)}}
	if parent == nil {
		return slots
	}
	for _, ch := range parent.Children() {
		switch {
		case dom.IsText(ch) || filter.Ignores(ch):
			last := &slots[len(slots)-1]
			last.Chunk = append(last.Chunk, ch)
		case dom.IsElement(ch):
			k := len(slots) / 2 // number of elements so far
			slots = append(slots,
				Slot{Index: address.ElementIndex(k), Node: ch},
				Slot{Index: address.TextIndex(k + 1)},
			)
		}
	}
	return slots
}

// slotAt returns the slot for a CFI integer.
func slotAt(slots []Slot, index int) (Slot, bool) {
	if index < 1 || index > len(slots) {
		return Slot{}, false
	}
	return slots[index-1], true
}

// slotOf returns the slot child n occupies.
func slotOf(slots []Slot, n dom.Node) (Slot, bool) {
	for _, s := range slots {
		if s.contains(n) {
			return s, true
		}
	}
	return Slot{}, false
}

// textsBelow returns n itself if it is a text node, otherwise all text
// nodes in the subtree of n.
func textsBelow(n dom.Node) []dom.Node {
	var texts []dom.Node
	dom.Walk(n, func(x dom.Node) bool {
		if dom.IsText(x) {
			texts = append(texts, x)
		}
		return true
	})
	return texts
}

// locate maps a character offset into a sequence of adjacent text nodes.
// The first text node extending beyond offset wins. An offset at the very
// end of the text is located at the end of the last text node ending there.
func locate(texts []dom.Node, offset int) (dom.Boundary, bool) {
	var last dom.Boundary
	found := false
	start := 0
	for _, t := range texts {
		end := start + dom.TextLength(t)
		if offset < end {
			return dom.Boundary{Container: t, Offset: offset - start}, true
		}
		if offset == end {
			last, found = dom.Boundary{Container: t, Offset: offset - start}, true
		}
		start = end
	}
	return last, found
}

// textStart returns the number of characters preceding text node t in a
// sequence of adjacent text nodes, or -1 if t is not part of it.
func textStart(texts []dom.Node, t dom.Node) int {
	start := 0
	for _, x := range texts {
		if x == t {
			return start
		}
		start += dom.TextLength(x)
	}
	return -1
}
