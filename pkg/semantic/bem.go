package semantic

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/hellenic-development/figma-codegen/pkg/css"
	"github.com/hellenic-development/figma-codegen/pkg/extractor"
)

// classTable hands out document-unique class names.
type classTable struct {
	used map[string]bool
}

func newClassTable() *classTable {
	return &classTable{used: make(map[string]bool)}
}

// claim reserves name, numbering collisions: card, card-2, card-3.
func (t *classTable) claim(name string) string {
	if !t.used[name] {
		t.used[name] = true
		return name
	}
	for i := 2; ; i++ {
		c := name + "-" + strconv.Itoa(i)
		if !t.used[c] {
			t.used[c] = true
			return c
		}
	}
}

// genericName matches editor-default layer names like "Frame 427" that
// carry no design intent.
var genericName = regexp.MustCompile(`^(?i)(frame|group|rectangle|ellipse|vector|line|arrow|polygon|star|boolean|union|subtract|intersect|exclude|component|instance|text|slice|image)\s*\d*$`)

// startsBlock reports whether the node opens a new BEM block: tree
// roots, component instances, and component definitions all do. Named
// inner frames stay elements of the enclosing block so the class
// hierarchy never nests.
func startsBlock(n *extractor.Node, cur cursor) bool {
	if cur.block == "" {
		return true
	}
	if n.Kind == extractor.KindInstance {
		return true
	}
	switch n.SourceType {
	case "COMPONENT", "COMPONENT_SET":
		return true
	}
	return false
}

// baseName is the class fragment for a node: the kebab form of a
// designer-given name, or the node kind when the name is an editor
// default.
func baseName(n *extractor.Node) string {
	if !genericName.MatchString(strings.TrimSpace(n.Name)) {
		if k := css.Kebab(n.Name); k != "" {
			return k
		}
	}
	return n.Kind.String()
}

// wordTags maps name words onto tags. Scanned last word first so
// "Profile Card" reads as a card rather than a profile.
var wordTags = map[string]string{
	"button":     "button",
	"btn":        "button",
	"cta":        "button",
	"link":       "a",
	"nav":        "nav",
	"navbar":     "nav",
	"navigation": "nav",
	"menu":       "nav",
	"header":     "header",
	"topbar":     "header",
	"footer":     "footer",
	"sidebar":    "aside",
	"aside":      "aside",
	"main":       "main",
	"form":       "form",
	"input":      "input",
	"field":      "input",
	"search":     "input",
	"label":      "label",
	"hero":       "section",
	"card":       "section",
	"section":    "section",
	"article":    "article",
	"post":       "article",
	"list":       "ul",
}

// nameTag maps an explicitly named container onto its tag, or returns
// "" when no word in the name is recognized. Input is void markup, so a
// composite like "Search Field" keeps scanning and usually lands on its
// wrapper's role instead.
func nameTag(n *extractor.Node) string {
	words := splitWords(n.Name)
	for i := len(words) - 1; i >= 0; i-- {
		tag, ok := wordTags[words[i]]
		if !ok {
			continue
		}
		if tag == "input" && len(n.Children) > 0 {
			continue
		}
		return tag
	}
	return ""
}

// splitWords lowers a layer name into words, breaking on separators and
// camelCase boundaries: "navBar/Primary CTA" yields nav, bar, primary,
// cta.
func splitWords(name string) []string {
	var words []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			words = append(words, strings.ToLower(cur.String()))
			cur.Reset()
		}
	}
	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			cur.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			if i > 0 && isLowerDigit(runes[i-1]) {
				flush()
			}
			cur.WriteRune(r)
		default:
			flush()
		}
	}
	flush()
	return words
}

func isLowerDigit(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= '0' && r <= '9'
}
