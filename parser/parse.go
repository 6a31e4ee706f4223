package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/npillmayer/epubcfi/address"
)

// ErrMalformed is returned for strings which are not CFIs.
var ErrMalformed = errors.New("malformed CFI")

// SyntaxError describes why and where a CFI string failed to parse.
// It unwraps to ErrMalformed.
type SyntaxError struct {
	Input  string // the input string
	Offset int    // byte offset of the offending token
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s %q (offset %d): %s", ErrMalformed, e.Input, e.Offset, e.Msg)
}

// Unwrap makes errors.Is(err, ErrMalformed) work.
func (e *SyntaxError) Unwrap() error {
	return ErrMalformed
}

// Result is a parsed CFI: a single path, or a range given as a common
// prefix path plus start and end suffixes.
type Result struct {
	Path  address.Path
	Start *address.Path
	End   *address.Path
}

// IsRange is true if the result describes a range.
func (r Result) IsRange() bool {
	return r.Start != nil && r.End != nil
}

// IsCfiString checks if a string is wrapped in "epubcfi(…)". It does not
// parse the string.
func IsCfiString(s string) bool {
	return strings.HasPrefix(s, address.EnvelopeStart) && strings.HasSuffix(s, address.EnvelopeEnd)
}

// Parse parses a CFI string.
//
// Parse fails with an error wrapping ErrMalformed if the string is not a
// CFI in the supported subset of the grammar, and with an error wrapping
// address.ErrInvalidRange if one of the halves of a range is empty. The
// common prefix of a range may be empty, as for ranges whose ends diverge
// at the first step.
func Parse(s string) (Result, error) {
	g, err := cfiParser.ParseString("", s)
	if err != nil {
		return Result{}, syntaxError(s, err)
	}
	r := Result{}
	if r.Path, err = build(s, g.Path); err != nil {
		return Result{}, err
	}
	if g.Range == nil {
		if len(r.Path.Steps) == 0 {
			return Result{}, &SyntaxError{Input: s, Msg: "CFI has no steps"}
		}
	} else {
		start, err := build(s, g.Range.Start)
		if err != nil {
			return Result{}, err
		}
		end, err := build(s, g.Range.End)
		if err != nil {
			return Result{}, err
		}
		if err = address.CheckRange(r.Path, start, end); err != nil {
			return Result{}, fmt.Errorf("%q: %w", s, err)
		}
		r.Start, r.End = &start, &end
	}
	tracer().Debugf("parsed %q: path=%s range=%v", s, r.Path, r.IsRange())
	return r, nil
}

// ParseLocal parses a path without envelope, e.g. "/6/4[chap01ref]".
// Clients use it to read the base component of CFIs (the location of a
// spine item in the package document). For convenience, a path wrapped
// in an envelope is accepted as well. An empty string yields an empty path.
func ParseLocal(s string) (address.Path, error) {
	t := strings.TrimSpace(s)
	if IsCfiString(t) {
		t = t[len(address.EnvelopeStart) : len(t)-len(address.EnvelopeEnd)]
	}
	if strings.TrimSpace(t) == "" {
		return address.Path{}, nil
	}
	g, err := localParser.ParseString("", t)
	if err != nil {
		return address.Path{}, syntaxError(s, err)
	}
	return build(s, g)
}

// build converts a parsed local path to an address.Path.
func build(input string, g *localGrammar) (address.Path, error) {
	p := address.Path{}
	if g == nil {
		return p, nil
	}
	for _, st := range g.Steps {
		step := address.StepFor(st.Index)
		step.Redirect = st.Redirect
		if st.Bracket != nil {
			payload := unbracket(*st.Bracket)
			if step.Kind == address.Element && address.IsIDShaped(payload) {
				step.ID = address.Unescape(payload)
			} else {
				step.Assertion = payload
			}
		}
		p.Steps = append(p.Steps, step)
	}
	afterOffset := false
	for _, q := range g.Qualifiers {
		switch {
		case q.Offset != nil:
			if p.Terminal != nil {
				return address.Path{}, &SyntaxError{Input: input, Msg: "more than one character offset"}
			}
			p.Terminal = &address.Terminal{Offset: *q.Offset}
			afterOffset = true
			continue
		case q.Bracket != nil && afterOffset:
			p.Terminal.Assertion = unbracket(*q.Bracket)
		case q.Bracket != nil:
			tracer().Debugf("skipping assertion %s of unsupported offset", *q.Bracket)
		case q.Temporal != nil:
			tracer().Debugf("skipping temporal offset %s", *q.Temporal)
		case q.Spatial != nil:
			tracer().Debugf("skipping spatial offset %s", *q.Spatial)
		}
		afterOffset = false
	}
	return p, nil
}

// unbracket strips the brackets from a bracket token. The payload stays
// escaped: assertions are rendered verbatim, ids are unescaped by build.
func unbracket(tok string) string {
	return strings.TrimSuffix(strings.TrimPrefix(tok, "["), "]")
}

func syntaxError(input string, err error) error {
	serr := &SyntaxError{Input: input, Msg: err.Error()}
	var perr participle.Error
	if errors.As(err, &perr) {
		serr.Offset = perr.Position().Offset
		serr.Msg = perr.Message()
	}
	tracer().Debugf("cannot parse %q: %s", input, serr.Msg)
	return serr
}
