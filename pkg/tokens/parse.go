package tokens

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Triple is one token declaration recovered from a rendered sheet: the
// category is the name's first segment.
type Triple struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	Value    string `json:"value"`
}

// sheetLexer tokenizes the flat custom-property format. Chunk is any run
// free of structure characters, so hex colors, px values and shadow
// stacks survive untouched.
var sheetLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `/\*(?:[^*]|\*+[^*/])*\*+/`},
	{Name: "Prop", Pattern: `--[A-Za-z][A-Za-z0-9-]*`},
	{Name: "Punct", Pattern: `[:;{}]`},
	{Name: "Chunk", Pattern: `[^:;{}\s]+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

//nolint:govet // participle grammar tags are not standard struct tags
type tokenSheet struct {
	Blocks []*tokenBlock `@@*`
}

//nolint:govet // participle grammar tags are not standard struct tags
type tokenBlock struct {
	Selector []string     `( @Chunk | @":" )+`
	Decls    []*tokenDecl `"{" @@* "}"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type tokenDecl struct {
	Prop  string   `@Prop ":"`
	Value []string `( @Chunk | @":" )+ ";"`
}

var sheetParser = participle.MustBuild[tokenSheet](
	participle.Lexer(sheetLexer),
	participle.Elide("Whitespace", "Comment"),
)

// ParseCSS parses a rendered token sheet back into triples in document
// order. Mode-override blocks restate names already declared in :root,
// so the first declaration per name wins; the result of parsing a
// RenderCSS sheet therefore carries exactly the set's tokens with the
// rendered mode's values.
func ParseCSS(text string) ([]Triple, error) {
	parsed, err := sheetParser.ParseString("", text)
	if err != nil {
		return nil, fmt.Errorf("parse token sheet: %w", err)
	}
	var out []Triple
	seen := make(map[string]bool)
	for _, block := range parsed.Blocks {
		for _, d := range block.Decls {
			name := strings.TrimPrefix(d.Prop, "--")
			if seen[name] {
				continue
			}
			seen[name] = true
			category := name
			if i := strings.IndexByte(name, '-'); i > 0 {
				category = name[:i]
			}
			out = append(out, Triple{
				Category: category,
				Name:     name,
				Value:    strings.Join(d.Value, " "),
			})
		}
	}
	return out, nil
}
