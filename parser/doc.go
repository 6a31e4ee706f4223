/*
Package parser reads EPUB canonical fragment identifiers.

Grammar

The subset of the CFI grammar accepted is

    cfi       ::= "epubcfi(" local ( "," local "," local )? ")"
    local     ::= ( "!"? step )* qualifier*
    step      ::= "/" integer ( "[" assertion "]" )?
    qualifier ::= ":" integer | "[" assertion "]" | "~" number | "@" number ":" number

The first local path has to contain at least one step, unless the CFI is a
range. A bracket following an even step is taken as an id assertion unless
it contains unescaped parameter separators (',', ';' or '='). Ids are
unescaped, so that "[fn^[1^]]" asserts the id "fn[1]". Any other bracket
is kept verbatim, with its escapes, as an assertion of the step. A
character offset (":" integer) becomes the terminal of the path, a bracket
directly following it the terminal's assertion.

Temporal ("~") and spatial ("@") offsets are recognized but skipped,
together with any assertion following them. Parsing then serializing a
CFI therefore drops these qualifiers.

Tokenizing is done in a single left-to-right scan by a lexer of
github.com/alecthomas/participle. Whitespace between tokens is
insignificant.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package parser

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'epubcfi.parser'.
func tracer() tracing.Trace {
	return tracing.Select("epubcfi.parser")
}
