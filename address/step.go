package address

import (
	"strconv"
	"strings"
)

// Kind is the kind of node a step selects.
type Kind uint8

// Steps select either an element or a chunk of text.
const (
	Element Kind = iota
	Text
)

func (k Kind) String() string {
	if k == Text {
		return "text"
	}
	return "element"
}

// Step is one hop of a CFI address.
//
// Index is the CFI integer of the step: even for elements, odd for text.
// TagName is informational only; it is recorded when deriving a path from a
// document, but it is neither serialized nor compared.
type Step struct {
	Kind      Kind
	Index     int
	ID        string // id assertion of an element step
	TagName   string // tag name of the element, if known
	Assertion string // non-id bracket payload, kept verbatim
	Redirect  bool   // step is preceded by '!' (indirection into another document)
}

// ElementStep creates a step selecting an element. index has to be even.
func ElementStep(index int) Step {
	assertThat(index >= 0 && index%2 == 0, "element step needs even index, is %d", index)
	return Step{Kind: Element, Index: index}
}

// TextStep creates a step selecting a text chunk. index has to be odd.
func TextStep(index int) Step {
	assertThat(index > 0 && index%2 == 1, "text step needs odd index, is %d", index)
	return Step{Kind: Text, Index: index}
}

// StepFor creates a step from a CFI integer, deriving the kind from its
// parity. It is used by parsers, where a wrong kind cannot occur.
func StepFor(index int) Step {
	if index%2 == 1 {
		return Step{Kind: Text, Index: index}
	}
	return Step{Kind: Element, Index: index}
}

// ElementIndex returns the CFI integer of the k-th child element (0-based).
func ElementIndex(k int) int {
	return 2 * (k + 1)
}

// TextIndex returns the CFI integer of the text chunk following k child
// elements, i.e. the text chunk before the k-th child element (0-based).
func TextIndex(k int) int {
	return 2*k + 1
}

// Ordinal returns the 0-based position of a step: for an element step the
// number of elements preceding it, for a text step the number of elements
// preceding the text chunk.
func (s Step) Ordinal() int {
	if s.Kind == Text {
		return (s.Index - 1) / 2
	}
	return s.Index/2 - 1
}

// WithID returns a copy of an element step carrying an id assertion.
func (s Step) WithID(id string) Step {
	s.ID = id
	return s
}

// WithTagName returns a copy of a step carrying a tag name.
func (s Step) WithTagName(tag string) Step {
	s.TagName = tag
	return s
}

// Redirected returns a copy of a step marked as the first step in a
// referenced document.
func (s Step) Redirected() Step {
	s.Redirect = true
	return s
}

// String renders a step in CFI syntax, e.g. "/4[chap01]" or "!/4".
func (s Step) String() string {
	var sb strings.Builder
	s.write(&sb)
	return sb.String()
}

func (s Step) write(sb *strings.Builder) {
	if s.Redirect {
		sb.WriteByte('!')
	}
	sb.WriteByte('/')
	sb.WriteString(strconv.Itoa(s.Index))
	if s.ID != "" {
		sb.WriteByte('[')
		sb.WriteString(Escape(s.ID))
		sb.WriteByte(']')
	} else if s.Assertion != "" {
		sb.WriteByte('[')
		sb.WriteString(s.Assertion)
		sb.WriteByte(']')
	}
}

// EqualStep is true if two steps select the same child: same kind, same
// index and same id assertion.
func EqualStep(a, b Step) bool {
	return a.Kind == b.Kind && a.Index == b.Index && a.ID == b.ID
}

// IsIDShaped checks if an escaped bracket payload is an id assertion: it
// is non-empty and has no unescaped parameter separators (',', ';', '=').
// Other payloads are kept as uninterpreted assertions.
func IsIDShaped(payload string) bool {
	if payload == "" {
		return false
	}
	escaped := false
	for _, r := range payload {
		switch {
		case escaped:
			escaped = false
		case r == '^':
			escaped = true
		case strings.ContainsRune(",;=", r):
			return false
		}
	}
	return true
}

// specials are the characters which have to be escaped with a circumflex
// within brackets.
const specials = "^[](),;="

// Escape prefixes every special character of s with a circumflex, making it
// safe to be written within brackets.
func Escape(s string) string {
	if !strings.ContainsAny(s, specials) {
		return s
	}
	var sb strings.Builder
	for _, r := range s {
		if strings.ContainsRune(specials, r) {
			sb.WriteByte('^')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Unescape removes circumflex escapes from a bracket payload.
func Unescape(s string) string {
	if !strings.ContainsRune(s, '^') {
		return s
	}
	var sb strings.Builder
	escaped := false
	for _, r := range s {
		if r == '^' && !escaped {
			escaped = true
			continue
		}
		escaped = false
		sb.WriteRune(r)
	}
	return sb.String()
}
