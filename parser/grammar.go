package parser

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// cfiGrammar is the participle grammar for a complete CFI string,
// e.g. "epubcfi(/6/4[chap01ref]!/4[body01]/10[para05],/2/1:1,/3:4)".
// Every local path may be empty here; Parse decides which empty paths
// are acceptable.
//
//nolint:govet // participle grammar tags are not standard struct tags
type cfiGrammar struct {
	Path  *localGrammar `"epubcfi" "(" @@?`
	Range *rangeGrammar `@@? ")"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type rangeGrammar struct {
	Start *localGrammar `"," @@?`
	End   *localGrammar `"," @@?`
}

// localGrammar is a sequence of steps followed by qualifiers.
//
//nolint:govet // participle grammar tags are not standard struct tags
type localGrammar struct {
	Steps      []*stepGrammar      `@@*`
	Qualifiers []*qualifierGrammar `@@*`
}

//nolint:govet // participle grammar tags are not standard struct tags
type stepGrammar struct {
	Redirect bool    `@"!"?`
	Index    int     `"/" @Int`
	Bracket  *string `@Bracket?`
}

//nolint:govet // participle grammar tags are not standard struct tags
type qualifierGrammar struct {
	Offset   *int    `  ":" @Int`
	Bracket  *string `| @Bracket`
	Temporal *string `| @Temporal`
	Spatial  *string `| @Spatial`
}

// cfiLexer tokenizes CFI strings. Rules are tried in order; spatial and
// temporal offsets are single tokens so that their ':' does not start a
// character offset. Brackets may contain circumflex-escaped characters.
var cfiLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Spatial", Pattern: `@[0-9]+(\.[0-9]+)?:[0-9]+(\.[0-9]+)?`},
	{Name: "Temporal", Pattern: `~[0-9]+(\.[0-9]+)?`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `[A-Za-z]+`},
	{Name: "Bracket", Pattern: `\[(\^.|[^\]\^])*\]`},
	{Name: "Punct", Pattern: `[/:!,()]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var cfiParser = participle.MustBuild[cfiGrammar](
	participle.Lexer(cfiLexer),
	participle.Elide("Whitespace"),
)

var localParser = participle.MustBuild[localGrammar](
	participle.Lexer(cfiLexer),
	participle.Elide("Whitespace"),
)
