package epubcfi

import (
	"fmt"
	"sort"

	"github.com/npillmayer/epubcfi/address"
	"github.com/npillmayer/epubcfi/dom"
	"github.com/npillmayer/epubcfi/parser"
	"github.com/npillmayer/epubcfi/walker"
)

// CFI is a canonical fragment identifier: a single path, or a range given
// as a common prefix path plus start and end suffixes.
type CFI struct {
	path  address.Path
	start *address.Path // nil for single paths
	end   *address.Path // nil for single paths
}

// Parse parses a CFI string. It returns an error wrapping ErrMalformed for
// strings which are not CFIs, and an error wrapping ErrInvalidRange for
// ranges with an empty half.
func Parse(s string) (*CFI, error) {
	r, err := parser.Parse(s)
	if err != nil {
		return nil, err
	}
	return &CFI{path: r.Path, start: r.Start, end: r.End}, nil
}

// MustParse is like Parse, but panics if s cannot be parsed.
func MustParse(s string) *CFI {
	cfi, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return cfi
}

// IsCfiString checks if s is wrapped in the "epubcfi(…)" envelope, without
// parsing it.
func IsCfiString(s string) bool {
	return parser.IsCfiString(s)
}

// NewPath creates a CFI for a single path.
func NewPath(p address.Path) *CFI {
	return &CFI{path: p.Clone()}
}

// NewRange creates a range CFI from a common prefix and two suffixes.
func NewRange(prefix, start, end address.Path) (*CFI, error) {
	if err := address.CheckRange(prefix, start, end); err != nil {
		return nil, err
	}
	s, e := start.Clone(), end.Clone()
	return &CFI{path: prefix.Clone(), start: &s, end: &e}, nil
}

// FromNode derives the CFI of a node. base is the path of the content
// document in the package document, e.g. "/6/4[chap01ref]", and may be
// empty. For a text node the CFI carries a character offset.
func FromNode(node dom.Node, base string, opts ...Option) (*CFI, error) {
	b, err := parser.ParseLocal(base)
	if err != nil {
		return nil, err
	}
	p, err := walker.DeriveNode(node, walkerOptions(b, opts))
	if err != nil {
		return nil, err
	}
	return &CFI{path: p}, nil
}

// FromRange derives the CFI of a range, see FromNode. A boundary in an
// element denotes the position before one of its children: the CFI then
// addresses that child, or the text position in front of it. A collapsed
// range yields a single path.
func FromRange(r dom.Range, base string, opts ...Option) (*CFI, error) {
	b, err := parser.ParseLocal(base)
	if err != nil {
		return nil, err
	}
	prefix, start, end, err := walker.DeriveRange(r, walkerOptions(b, opts))
	if err != nil {
		return nil, err
	}
	tracer().Debugf("derived CFI for range %s", r)
	return &CFI{path: prefix, start: start, end: end}, nil
}

// String renders the CFI, e.g. "epubcfi(/6/4[chap01ref]!/4/2/1:3)".
func (cfi *CFI) String() string {
	return address.Join(cfi.path, cfi.start, cfi.end)
}

// IsRange is true if cfi denotes a range.
func (cfi *CFI) IsRange() bool {
	return cfi.start != nil && cfi.end != nil
}

// Path returns the path of a single CFI, or the common prefix of a range.
func (cfi *CFI) Path() address.Path {
	return cfi.path.Clone()
}

// Start returns the start suffix of a range, or an empty path.
func (cfi *CFI) Start() address.Path {
	if !cfi.IsRange() {
		return address.Path{}
	}
	return cfi.start.Clone()
}

// End returns the end suffix of a range, or an empty path.
func (cfi *CFI) End() address.Path {
	if !cfi.IsRange() {
		return address.Path{}
	}
	return cfi.end.Clone()
}

// StartPath returns the complete path of the start of a range, or the path
// of a single CFI.
func (cfi *CFI) StartPath() address.Path {
	if !cfi.IsRange() {
		return cfi.path.Clone()
	}
	return cfi.path.Append(*cfi.start)
}

// EndPath returns the complete path of the end of a range, or the path of a
// single CFI.
func (cfi *CFI) EndPath() address.Path {
	if !cfi.IsRange() {
		return cfi.path.Clone()
	}
	return cfi.path.Append(*cfi.end)
}

// Collapse returns a single CFI for the start (toStart) or the end of a
// range. For a single CFI, Collapse returns cfi itself.
func (cfi *CFI) Collapse(toStart bool) *CFI {
	if !cfi.IsRange() {
		return cfi
	}
	if toStart {
		return &CFI{path: cfi.StartPath()}
	}
	return &CFI{path: cfi.EndPath()}
}

// SpinePosition returns the 0-based index of the spine item cfi refers to,
// or -1 if cfi has no package document part.
func (cfi *CFI) SpinePosition() int {
	return address.SpinePosition(cfi.path)
}

// ToRange resolves cfi in a content document. It returns an error wrapping
// ErrNodeNotFound if cfi does not match the document.
func (cfi *CFI) ToRange(doc dom.Document, opts ...Option) (dom.Range, error) {
	wopts := walkerOptions(address.Path{}, opts)
	if cfi.IsRange() {
		return walker.ResolveRange(doc, cfi.path, *cfi.start, *cfi.end, wopts)
	}
	return walker.Resolve(doc, cfi.path, wopts)
}

// --- Ordering --------------------------------------------------------------

// Compare returns the document order of two CFIs: -1 if a is earlier than b,
// 0 if both are equal, +1 if a is later than b. Ranges are ordered by their
// start, then by their end.
func Compare(a, b *CFI) int {
	if c := address.Compare(a.StartPath(), b.StartPath()); c != 0 {
		return c
	}
	return address.Compare(a.EndPath(), b.EndPath())
}

// CompareStrings parses and compares two CFI strings.
func CompareStrings(a, b string) (int, error) {
	ca, err := Parse(a)
	if err != nil {
		return 0, err
	}
	cb, err := Parse(b)
	if err != nil {
		return 0, err
	}
	return Compare(ca, cb), nil
}

// Sort sorts CFIs in document order. The sort is stable.
func Sort(cfis []*CFI) {
	sort.SliceStable(cfis, func(i, j int) bool {
		return Compare(cfis[i], cfis[j]) < 0
	})
}

// SortStrings sorts CFI strings in document order. It fails if one of the
// strings cannot be parsed, leaving the slice untouched.
func SortStrings(cfis []string) error {
	parsed := make([]*CFI, len(cfis))
	for i, s := range cfis {
		c, err := Parse(s)
		if err != nil {
			return fmt.Errorf("sorting CFIs: %w", err)
		}
		parsed[i] = c
	}
	idx := make([]int, len(cfis))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return Compare(parsed[idx[i]], parsed[idx[j]]) < 0
	})
	sorted := make([]string, len(cfis))
	for i, k := range idx {
		sorted[i] = cfis[k]
	}
	copy(cfis, sorted)
	return nil
}

// Equal is true if two CFIs are structurally equal.
func Equal(a, b *CFI) bool {
	if a.IsRange() != b.IsRange() || !a.path.Equal(b.path) {
		return false
	}
	return !a.IsRange() || (a.start.Equal(*b.start) && a.end.Equal(*b.end))
}
