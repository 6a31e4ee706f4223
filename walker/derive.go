package walker

import (
	"fmt"

	"github.com/npillmayer/epubcfi/address"
	"github.com/npillmayer/epubcfi/dom"
)

// Derive computes the path of a boundary.
//
// For a text container the path ends with a text step and a character
// offset, counted from the start of the text chunk. For an element
// container the offset counts the children preceding the boundary, as in
// DOM ranges. The boundary then is a position between two children: if the
// following child is an element, the path ends with that element's step;
// otherwise it ends with a text step and the character offset of the
// position within its text chunk.
//
// Boundaries within an ignored element are moved out to the nearest
// addressable node: they are addressed as character offsets into the text
// chunk of the outermost ignored ancestor.
//
// If opts.Base is not empty, it is prepended and the first derived step is
// marked as a redirection.
func Derive(b dom.Boundary, opts Options) (address.Path, error) {
	n := b.Container
	if n != nil && n.Kind() == dom.OtherNode {
		n = n.Parent()
	}
	if n == nil {
		return address.Path{}, fmt.Errorf("%w: boundary without container", ErrNodeNotFound)
	}
	var p address.Path
	var err error
	anchor := outermostIgnored(n, opts)
	switch {
	case dom.IsText(n):
		if anchor == nil {
			anchor = n
		}
		p, err = textPath(anchor, n, b.Offset, opts)
	case anchor != nil:
		tracer().Debugf("position in ignored %s", dom.Describe(anchor))
		p, err = ignoredPositionPath(anchor, n, b.Offset, opts)
	default:
		p, err = positionPath(n, b.Offset, opts)
	}
	if err != nil {
		return address.Path{}, err
	}
	return finish(p, n, opts)
}

// DeriveNode computes the path of a node. For an element the path ends
// with the element's step, for a text node with a text step and the
// character offset of the node's start within its chunk. An element within
// an ignored element is replaced by the nearest addressable ancestor.
func DeriveNode(n dom.Node, opts Options) (address.Path, error) {
	if n != nil && n.Kind() == dom.OtherNode {
		n = n.Parent()
	}
	if n == nil {
		return address.Path{}, fmt.Errorf("%w: no node", ErrNodeNotFound)
	}
	if dom.IsText(n) {
		return Derive(dom.Boundary{Container: n}, opts)
	}
	var p address.Path
	var err error
	if anchor := outermostIgnored(n, opts); anchor != nil {
		tracer().Debugf("climbing out of ignored %s", dom.Describe(anchor))
		p, err = elementPath(anchor.Parent(), opts)
	} else {
		p, err = elementPath(n, opts)
	}
	if err != nil {
		return address.Path{}, err
	}
	return finish(p, n, opts)
}

// finish rejects empty paths and prepends the base of opts.
func finish(p address.Path, n dom.Node, opts Options) (address.Path, error) {
	if p.Len() == 0 {
		return address.Path{}, fmt.Errorf("%w: %s is the root of addressing", ErrNodeNotFound, dom.Describe(n))
	}
	p = p.Redirected(opts.Base)
	tracer().Debugf("derived %s for %s", p, dom.Describe(n))
	return p, nil
}

// DeriveRange computes the paths of both boundaries of a range and factors
// out their common leading steps. If both boundaries have the same path,
// start and end are nil and prefix holds the path.
func DeriveRange(r dom.Range, opts Options) (prefix address.Path, start, end *address.Path, err error) {
	a, err := Derive(r.Start, opts)
	if err != nil {
		return
	}
	b, err := Derive(r.End, opts)
	if err != nil {
		return
	}
	prefix, sa, sb, equal := address.Factor(a, b)
	if equal {
		return prefix, nil, nil, nil
	}
	return prefix, &sa, &sb, nil
}

// outermostIgnored returns the ignored ancestor-or-self of n closest to the
// root of addressing, or nil.
func outermostIgnored(n dom.Node, opts Options) dom.Node {
	if opts.Filter == nil {
		return nil
	}
	var w dom.Node
	for x := n; x != nil && !opts.isRoot(x); x = x.Parent() {
		if opts.Filter.Ignores(x) {
			w = x
		}
	}
	return w
}

// textPath derives the path of a position in text node t. anchor is the
// child occupying a chunk slot of its parent: t itself, or an ignored
// element containing t.
func textPath(anchor, t dom.Node, offset int, opts Options) (address.Path, error) {
	parent := anchor.Parent()
	if parent == nil {
		return address.Path{}, fmt.Errorf("%w: detached %s", ErrNodeNotFound, dom.Describe(t))
	}
	p, err := elementPath(parent, opts)
	if err != nil {
		return address.Path{}, err
	}
	s, ok := slotOf(Slots(parent, opts.Filter), anchor)
	if !ok || !s.IsText() {
		return address.Path{}, fmt.Errorf("%w: %s not in a text chunk", ErrNodeNotFound, dom.Describe(t))
	}
	if offset < 0 || offset > dom.TextLength(t) {
		return address.Path{}, fmt.Errorf("%w: offset %d out of range for %s", ErrNodeNotFound, offset, dom.Describe(t))
	}
	chunkStart := textStart(s.Texts(), t)
	if chunkStart < 0 {
		return address.Path{}, fmt.Errorf("%w: %s not in a text chunk", ErrNodeNotFound, dom.Describe(t))
	}
	p.Steps = append(p.Steps, address.TextStep(s.Index))
	return p.WithTerminal(chunkStart + offset), nil
}

// elementPath derives the steps from the root of addressing down to
// element n, which must not be ignored.
func elementPath(n dom.Node, opts Options) (address.Path, error) {
	var steps []address.Step
	for x := n; !opts.isRoot(x); x = x.Parent() {
		parent := x.Parent()
		if parent == nil {
			return address.Path{}, fmt.Errorf("%w: %s is not below the root of addressing",
				ErrNodeNotFound, dom.Describe(n))
		}
		s, ok := slotOf(Slots(parent, opts.Filter), x)
		if !ok || s.IsText() {
			return address.Path{}, fmt.Errorf("%w: %s has no element slot", ErrNodeNotFound, dom.Describe(x))
		}
		steps = append(steps, elementStep(s, x))
	}
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}
	return address.NewPath(steps...), nil
}

// positionPath derives the path of the position before child k of element
// el, which must not be ignored. Other nodes do not take positions of their
// own; a position before one of them is the position before the next child.
func positionPath(el dom.Node, k int, opts Options) (address.Path, error) {
	children := el.Children()
	if k < 0 || k > len(children) {
		return address.Path{}, fmt.Errorf("%w: offset %d out of range for %s", ErrNodeNotFound, k, dom.Describe(el))
	}
	for k < len(children) && children[k].Kind() == dom.OtherNode {
		k++
	}
	p, err := elementPath(el, opts)
	if err != nil {
		return address.Path{}, err
	}
	slots := Slots(el, opts.Filter)
	if k == len(children) {
		last := slots[len(slots)-1]
		p.Steps = append(p.Steps, address.TextStep(last.Index))
		return p.WithTerminal(last.Length()), nil
	}
	c := children[k]
	s, ok := slotOf(slots, c)
	if !ok {
		return address.Path{}, fmt.Errorf("%w: %s has no slot", ErrNodeNotFound, dom.Describe(c))
	}
	if !s.IsText() {
		p.Steps = append(p.Steps, elementStep(s, c))
		return p, nil
	}
	chars := 0
	for _, x := range s.Chunk {
		if x == c {
			break
		}
		chars += lengthBelow(x)
	}
	p.Steps = append(p.Steps, address.TextStep(s.Index))
	return p.WithTerminal(chars), nil
}

// ignoredPositionPath derives the path of the position before child k of
// element el, which lies within the ignored element anchor. The position
// becomes a character offset into the text chunk anchor belongs to.
func ignoredPositionPath(anchor, el dom.Node, k int, opts Options) (address.Path, error) {
	if k < 0 || k > len(el.Children()) {
		return address.Path{}, fmt.Errorf("%w: offset %d out of range for %s", ErrNodeNotFound, k, dom.Describe(el))
	}
	parent := anchor.Parent()
	if parent == nil {
		return address.Path{}, fmt.Errorf("%w: detached %s", ErrNodeNotFound, dom.Describe(anchor))
	}
	p, err := elementPath(parent, opts)
	if err != nil {
		return address.Path{}, err
	}
	s, ok := slotOf(Slots(parent, opts.Filter), anchor)
	if !ok || !s.IsText() {
		return address.Path{}, fmt.Errorf("%w: %s not in a text chunk", ErrNodeNotFound, dom.Describe(anchor))
	}
	chars, found := charsBefore(s.Chunk, el, k)
	if !found {
		return address.Path{}, fmt.Errorf("%w: %s not in a text chunk", ErrNodeNotFound, dom.Describe(el))
	}
	p.Steps = append(p.Steps, address.TextStep(s.Index))
	return p.WithTerminal(chars), nil
}

// charsBefore counts the characters of text in nodes (and their subtrees)
// preceding the position before child k of el. found is false if el is not
// part of nodes.
func charsBefore(nodes []dom.Node, el dom.Node, k int) (chars int, found bool) {
	for _, x := range nodes {
		if x == el {
			for _, ch := range el.Children()[:k] {
				chars += lengthBelow(ch)
			}
			return chars, true
		}
		if dom.IsText(x) {
			chars += dom.TextLength(x)
			continue
		}
		c, ok := charsBefore(x.Children(), el, k)
		chars += c
		if ok {
			return chars, true
		}
	}
	return chars, false
}

// lengthBelow returns the number of characters of text in the subtree of n.
func lengthBelow(n dom.Node) int {
	l := 0
	for _, t := range textsBelow(n) {
		l += dom.TextLength(t)
	}
	return l
}

// elementStep creates the step for element x occupying slot s.
func elementStep(s Slot, x dom.Node) address.Step {
	return address.ElementStep(s.Index).WithID(x.ID()).WithTagName(x.TagName())
}
