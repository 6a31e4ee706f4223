package walker

import (
	"fmt"

	"github.com/npillmayer/epubcfi/address"
	"github.com/npillmayer/epubcfi/dom"
)

// Resolve finds the location a path addresses in a document and returns it
// as a range. Only the steps following the last redirection of p are
// applied; steps before it address the container document.
//
// An element addressed without character offset yields a range bounding the
// element's contents. A text chunk addressed without offset yields a caret
// at the start of its first text node. A character offset is mapped into
// the text of the addressed chunk (or element) and yields a caret. A chunk
// without text may only be addressed at offset 0; the caret then sits
// between the children of the chunk's parent.
//
// If p does not match the document, Resolve returns an error wrapping
// ErrNodeNotFound.
func Resolve(doc dom.Document, p address.Path, opts Options) (dom.Range, error) {
	n, chunk, err := walk(doc, p, opts)
	if err != nil {
		return dom.Range{}, err
	}
	if chunk != nil && !dom.IsText(n) {
		if p.Terminal != nil && p.Terminal.Offset != 0 {
			return dom.Range{}, fmt.Errorf("%w: offset %d exceeds empty text chunk in %s",
				ErrNodeNotFound, p.Terminal.Offset, p)
		}
		return dom.Caret(n, chunkPosition(n, *chunk, opts)), nil
	}
	if p.Terminal == nil {
		if chunk != nil {
			return dom.Caret(n, 0), nil
		}
		return dom.NewRange(n, 0, n, len(n.Children())), nil
	}
	var texts []dom.Node
	if chunk != nil {
		texts = chunk.Texts()
	} else {
		texts = textsBelow(n)
	}
	b, ok := locate(texts, p.Terminal.Offset)
	if !ok {
		return dom.Range{}, fmt.Errorf("%w: offset %d exceeds text of %s in %s",
			ErrNodeNotFound, p.Terminal.Offset, dom.Describe(n), p)
	}
	tracer().Debugf("resolved %s to %s", p, b)
	return dom.Caret(b.Container, b.Offset), nil
}

// ResolveRange resolves a range given as a common prefix and two suffixes.
// Start and end are resolved independently. A half addressing an element
// without character offset denotes the position before that element.
func ResolveRange(doc dom.Document, prefix, start, end address.Path, opts Options) (dom.Range, error) {
	rs, err := resolveBoundary(doc, prefix.Append(start), opts)
	if err != nil {
		return dom.Range{}, err
	}
	re, err := resolveBoundary(doc, prefix.Append(end), opts)
	if err != nil {
		return dom.Range{}, err
	}
	return dom.Range{Start: rs, End: re}, nil
}

func resolveBoundary(doc dom.Document, p address.Path, opts Options) (dom.Boundary, error) {
	if last, ok := p.Last(); ok && last.Kind == address.Element && p.Terminal == nil {
		n, _, err := walk(doc, p, opts)
		if err != nil {
			return dom.Boundary{}, err
		}
		parent := n.Parent()
		return dom.Boundary{Container: parent, Offset: childIndex(parent, n)}, nil
	}
	r, err := Resolve(doc, p, opts)
	if err != nil {
		return dom.Boundary{}, err
	}
	return r.Start, nil
}

// FindNode returns the node a path addresses, ignoring its terminal.
// A text step selects the first text node of its chunk.
func FindNode(doc dom.Document, p address.Path, opts Options) (dom.Node, error) {
	n, chunk, err := walk(doc, p, opts)
	if err != nil {
		return nil, err
	}
	if chunk != nil && !dom.IsText(n) {
		return nil, fmt.Errorf("%w: empty text chunk in %s", ErrNodeNotFound, p)
	}
	return n, nil
}

// walk follows the document steps of p. It returns the addressed node and,
// if the last step is a text step, the text chunk. For a chunk without
// text the node returned is the chunk's parent.
func walk(doc dom.Document, p address.Path, opts Options) (dom.Node, *Slot, error) {
	n := opts.Root
	if n == nil && doc != nil {
		n = doc.Root()
	}
	if n == nil {
		return nil, nil, fmt.Errorf("%w: document has no root element", ErrNodeNotFound)
	}
	var chunk *Slot
	for _, step := range p.Document().Steps {
		if chunk != nil {
			return nil, nil, fmt.Errorf("%w: step %s below text chunk in %s", ErrNodeNotFound, step, p)
		}
		slots := Slots(n, opts.Filter)
		if step.Kind == address.Element {
			next := matchElement(slots, step)
			if next == nil {
				return nil, nil, fmt.Errorf("%w: no element %s in %s (path %s)",
					ErrNodeNotFound, step, dom.Describe(n), p)
			}
			n = next
			continue
		}
		s, ok := slotAt(slots, step.Index)
		if !ok || !s.IsText() {
			return nil, nil, fmt.Errorf("%w: no text chunk %s in %s (path %s)",
				ErrNodeNotFound, step, dom.Describe(n), p)
		}
		chunk = &s
		if texts := s.Texts(); len(texts) > 0 {
			n = texts[0]
		}
	}
	return n, chunk, nil
}

// matchElement selects the child element for an element step. An element
// carrying the step's id wins over the element at the step's index.
func matchElement(slots []Slot, step address.Step) dom.Node {
	if step.ID != "" {
		for _, s := range slots {
			if s.Node != nil && s.Node.ID() == step.ID {
				if s.Index != step.Index {
					tracer().Debugf("id [%s] found at /%d instead of /%d", step.ID, s.Index, step.Index)
				}
				return s.Node
			}
		}
		tracer().Debugf("id [%s] not found, falling back to index /%d", step.ID, step.Index)
	}
	if s, ok := slotAt(slots, step.Index); ok {
		return s.Node // nil for text chunks
	}
	return nil
}

// chunkPosition returns the child offset within parent of the position
// right after the element preceding chunk s.
func chunkPosition(parent dom.Node, s Slot, opts Options) int {
	if s.Index == address.TextIndex(0) {
		return 0
	}
	prev, ok := slotAt(Slots(parent, opts.Filter), s.Index-1)
	if !ok || prev.Node == nil {
		return 0
	}
	return childIndex(parent, prev.Node) + 1
}

// childIndex returns the position of child n among the children of parent.
func childIndex(parent, n dom.Node) int {
	for i, ch := range parent.Children() {
		if ch == n {
			return i
		}
	}
	return -1
}
