package address

import (
	"strconv"
	"strings"
)

// Terminal is the tail of an address within the finally addressed node:
// a character offset and an optional assertion, which is parsed but never
// validated against document content.
type Terminal struct {
	Offset    int
	Assertion string
}

// Path is a sequence of steps, root to leaf, plus an optional terminal.
type Path struct {
	Steps    []Step
	Terminal *Terminal // nil if the path has no character offset
}

// NewPath creates a path from a sequence of steps.
func NewPath(steps ...Step) Path {
	return Path{Steps: steps}
}

// IsEmpty is true for a path without steps and without terminal.
func (p Path) IsEmpty() bool {
	return len(p.Steps) == 0 && p.Terminal == nil
}

// Len returns the number of steps of a path.
func (p Path) Len() int {
	return len(p.Steps)
}

// Last returns the final step of a path.
func (p Path) Last() (Step, bool) {
	if len(p.Steps) == 0 {
		return Step{}, false
	}
	return p.Steps[len(p.Steps)-1], true
}

// HasOffset is true if the path carries a character offset.
func (p Path) HasOffset() bool {
	return p.Terminal != nil
}

// Offset returns the character offset of a path, or -1.
func (p Path) Offset() int {
	if p.Terminal == nil {
		return -1
	}
	return p.Terminal.Offset
}

// Clone returns a deep copy of a path.
func (p Path) Clone() Path {
	c := Path{}
	if p.Steps != nil {
		c.Steps = make([]Step, len(p.Steps))
		copy(c.Steps, p.Steps)
	}
	if p.Terminal != nil {
		t := *p.Terminal
		c.Terminal = &t
	}
	return c
}

// WithTerminal returns a copy of p with a character offset.
func (p Path) WithTerminal(offset int) Path {
	assertThat(offset >= 0, "negative character offset %d", offset)
	c := p.Clone()
	c.Terminal = &Terminal{Offset: offset}
	return c
}

// WithoutTerminal returns a copy of p without a terminal.
func (p Path) WithoutTerminal() Path {
	c := p.Clone()
	c.Terminal = nil
	return c
}

// Append returns the concatenation of p and q. The terminal of the result is
// the terminal of q. Append expands the start or end suffix of a range onto
// its common prefix.
func (p Path) Append(q Path) Path {
	c := Path{Steps: make([]Step, 0, len(p.Steps)+len(q.Steps))}
	c.Steps = append(c.Steps, p.Steps...)
	c.Steps = append(c.Steps, q.Steps...)
	if q.Terminal != nil {
		t := *q.Terminal
		c.Terminal = &t
	}
	return c
}

// Redirected returns p appended to base, with the first step of p marked as
// crossing into another document. If base is empty, p is returned unchanged.
func (p Path) Redirected(base Path) Path {
	if len(base.Steps) == 0 || len(p.Steps) == 0 {
		return p.Clone()
	}
	q := p.Clone()
	q.Steps[0] = q.Steps[0].Redirected()
	return base.WithoutTerminal().Append(q)
}

// Document returns the part of a path which addresses nodes within a
// single document: the steps following the last redirection marker.
func (p Path) Document() Path {
	start := 0
	for i, s := range p.Steps {
		if s.Redirect {
			start = i
		}
	}
	c := p.Clone()
	c.Steps = c.Steps[start:]
	if len(c.Steps) > 0 {
		c.Steps[0].Redirect = false
	}
	return c
}

// Base returns the steps preceding the first redirection marker, i.e. the
// part of a path addressing a location in the package document. If p
// contains no redirection, Base returns an empty path.
func (p Path) Base() Path {
	for i, s := range p.Steps {
		if s.Redirect {
			return Path{Steps: append([]Step(nil), p.Steps[:i]...)}
		}
	}
	return Path{}
}

// Equal is true if two paths are structurally equal. Tag names are ignored,
// as they are informational only.
func (p Path) Equal(q Path) bool {
	if len(p.Steps) != len(q.Steps) {
		return false
	}
	for i := range p.Steps {
		a, b := p.Steps[i], q.Steps[i]
		if !EqualStep(a, b) || a.Assertion != b.Assertion || a.Redirect != b.Redirect {
			return false
		}
	}
	if (p.Terminal == nil) != (q.Terminal == nil) {
		return false
	}
	return p.Terminal == nil || *p.Terminal == *q.Terminal
}

// --- Serialization ---------------------------------------------------------

// Local renders a path in CFI syntax without the envelope,
// e.g. "/6/4[chap01ref]!/4/2/1:3".
func (p Path) Local() string {
	var sb strings.Builder
	for _, s := range p.Steps {
		s.write(&sb)
	}
	if p.Terminal != nil {
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(p.Terminal.Offset))
		if p.Terminal.Assertion != "" {
			sb.WriteByte('[')
			sb.WriteString(p.Terminal.Assertion)
			sb.WriteByte(']')
		}
	}
	return sb.String()
}

func (p Path) String() string {
	return p.Local()
}

// Envelope is the fixed wrapper of every CFI string.
const (
	EnvelopeStart = "epubcfi("
	EnvelopeEnd   = ")"
)

// Join renders a CFI string from a single path (start and end nil) or
// from a range, given as a common prefix and two suffixes.
func Join(prefix Path, start, end *Path) string {
	var sb strings.Builder
	sb.WriteString(EnvelopeStart)
	sb.WriteString(prefix.Local())
	if start != nil && end != nil {
		sb.WriteByte(',')
		sb.WriteString(start.Local())
		sb.WriteByte(',')
		sb.WriteString(end.Local())
	}
	sb.WriteString(EnvelopeEnd)
	return sb.String()
}

// --- Ranges ----------------------------------------------------------------

// Factor splits two paths into their common leading steps and the two
// diverging suffixes. The last step of each path always remains in its
// suffix, unless both paths are equal, in which case equal is true and the
// prefix holds the complete path.
func Factor(a, b Path) (prefix, sa, sb Path, equal bool) {
	n := len(a.Steps)
	if len(b.Steps) < n {
		n = len(b.Steps)
	}
	i := 0
	for i < n && EqualStep(a.Steps[i], b.Steps[i]) {
		i++
	}
	if i == len(a.Steps) && i == len(b.Steps) && sameTerminal(a.Terminal, b.Terminal) {
		return a.Clone(), Path{}, Path{}, true
	}
	if i == len(a.Steps) || i == len(b.Steps) {
		i-- // keep at least one step in each suffix
	}
	if i < 0 {
		i = 0
	}
	prefix = Path{Steps: append([]Step(nil), a.Steps[:i]...)}
	sa = Path{Steps: append([]Step(nil), a.Steps[i:]...), Terminal: cloneTerminal(a.Terminal)}
	sb = Path{Steps: append([]Step(nil), b.Steps[i:]...), Terminal: cloneTerminal(b.Terminal)}
	return prefix, sa, sb, false
}

func sameTerminal(a, b *Terminal) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Offset == b.Offset
}

func cloneTerminal(t *Terminal) *Terminal {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// --- Package document ------------------------------------------------------

// SectionBase returns the path of a spine item within the package document:
// the element at spineNodeIndex among the children of <package> (usually
// <spine>, the third child, index 2), then the itemref at itemIndex, with an
// optional id assertion. Both indexes are 0-based.
//
//     SectionBase(2, 1, "chap01ref")  =>  /6/4[chap01ref]
func SectionBase(spineNodeIndex, itemIndex int, id string) Path {
	return NewPath(
		ElementStep(ElementIndex(spineNodeIndex)),
		ElementStep(ElementIndex(itemIndex)).WithID(id),
	)
}

// SpinePosition returns the 0-based position of the spine item a path
// addresses, taken from the second step of its package document part.
// It returns -1 if p does not start with a package document part.
func SpinePosition(p Path) int {
	base := p.Base()
	if base.Len() < 2 {
		return -1
	}
	return base.Steps[1].Ordinal()
}

// --- XPath -----------------------------------------------------------------

// XPath returns an XPath expression selecting the node addressed by the
// document part of p, starting at the document element. Id assertions
// select by id, as id matches take priority over positions. Text steps
// select the first text node of the text chunk. Ignore-filters cannot be
// expressed and are not considered.
func (p Path) XPath() string {
	var sb strings.Builder
	sb.WriteString("/*")
	for _, s := range p.Document().Steps {
		sb.WriteByte('/')
		switch {
		case s.Kind == Element && s.ID != "":
			sb.WriteString("*[@id=")
			sb.WriteString(xpathLiteral(s.ID))
			sb.WriteString("]")
		case s.Kind == Element:
			sb.WriteString("*[")
			sb.WriteString(strconv.Itoa(s.Ordinal() + 1))
			sb.WriteByte(']')
		default:
			sb.WriteString("text()[count(preceding-sibling::*)=")
			sb.WriteString(strconv.Itoa(s.Ordinal()))
			sb.WriteString("][1]")
		}
	}
	return sb.String()
}

// xpathLiteral quotes s as an XPath string literal. XPath 1.0 has no escapes
// within literals, so a string containing both kinds of quotes is built
// with concat().
func xpathLiteral(s string) string {
	switch {
	case !strings.ContainsRune(s, '\''):
		return "'" + s + "'"
	case !strings.ContainsRune(s, '"'):
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	var sb strings.Builder
	sb.WriteString("concat(")
	for i, part := range parts {
		if i > 0 {
			sb.WriteString(`, "'", `)
		}
		sb.WriteString("'" + part + "'")
	}
	sb.WriteString(")")
	return sb.String()
}
