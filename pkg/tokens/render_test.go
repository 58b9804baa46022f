package tokens

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/hellenic-development/figma-codegen/pkg/extractor"
	"github.com/hellenic-development/figma-codegen/pkg/figma"
	"github.com/hellenic-development/figma-codegen/pkg/layout"
	"github.com/hellenic-development/figma-codegen/pkg/visual"
)

// renderFixture builds a set with a two-mode variable token, a literal
// color, a spacing literal, and a breakpoint.
func renderFixture(t *testing.T) *Set {
	t.Helper()
	p := figma.Paint{
		Type:  "SOLID",
		Color: &figma.Color{R: 1, A: 1},
		BoundVariables: map[string]figma.VariableAlias{
			"color": {Type: "VARIABLE_ALIAS", ID: "v-brand"},
		},
	}
	bound := frame("a")
	bound.Visual.Fills = []figma.Paint{p}
	col := func(id string) *extractor.Node {
		n := frame(id, frame(id+"-x"))
		n.Layout = extractor.LayoutProps{Mode: "VERTICAL", Gap: 8}
		return n
	}
	ext := &extractor.Extraction{Roots: []*extractor.Node{
		frame("root", bound,
			fill(frame("b"), "#00FF00"), fill(frame("c"), "#00FF00"),
			col("d"), col("e"),
		),
	}}

	lay := layout.InterpretTree(ext, layout.Options{})
	lay.Families = []layout.Family{{
		Stem:      "Card",
		BaseID:    "root",
		Overrides: []layout.Override{{NodeID: "v", Label: "tablet", MinWidth: 768}},
	}}
	styles := visual.ResolveTree(ext, visual.Options{Variables: themeVars()})
	return Collect(ext, lay, styles, Options{Variables: themeVars()})
}

func TestRenderCSSDefaultMode(t *testing.T) {
	sheet := renderFixture(t).RenderCSS("")

	if !strings.HasPrefix(sheet, ":root {\n") {
		t.Fatalf("sheet does not open with :root:\n%s", sheet)
	}
	for _, want := range []string{
		"/* Colors */",
		"--color-brand-primary: #FF0000;",
		"--spacing-1: 8px;",
		"--breakpoint-tablet: 768px;",
	} {
		if !strings.Contains(sheet, want) {
			t.Errorf("sheet missing %q:\n%s", want, sheet)
		}
	}

	at := strings.Index(sheet, "[data-mode=\"dark\"]")
	if at < 0 {
		t.Fatalf("no dark override block:\n%s", sheet)
	}
	dark := sheet[at:]
	if !strings.Contains(dark, "--color-brand-primary: #0000FF;") {
		t.Errorf("dark override block missing the varying token:\n%s", dark)
	}
	if strings.Contains(dark, "--spacing-1") {
		t.Error("non-varying token restated in a mode block")
	}
}

func TestRenderCSSSelectedMode(t *testing.T) {
	sheet := renderFixture(t).RenderCSS("Dark")

	end := strings.Index(sheet, "}")
	if end < 0 {
		t.Fatalf("unterminated sheet:\n%s", sheet)
	}
	root := sheet[:end]
	if !strings.Contains(root, "--color-brand-primary: #0000FF;") {
		t.Errorf(":root does not carry the selected mode value:\n%s", root)
	}
	if !strings.Contains(sheet, "[data-mode=\"light\"]") {
		t.Error("light mode lost its override block")
	}
	if strings.Contains(sheet, "[data-mode=\"dark\"]") {
		t.Error("selected mode rendered as its own override block")
	}
}

func TestRenderCSSEmptySet(t *testing.T) {
	if got := (&Set{}).RenderCSS(""); got != "" {
		t.Errorf("empty set rendered %q", got)
	}
}

func TestRenderConfig(t *testing.T) {
	out, err := renderFixture(t).RenderConfig()
	if err != nil {
		t.Fatal(err)
	}
	var cfg struct {
		Theme map[string]map[string]string `json:"theme"`
	}
	if err := json.Unmarshal(out, &cfg); err != nil {
		t.Fatalf("config is not valid JSON: %v", err)
	}
	if got := cfg.Theme["colors"]["brand-primary"]; got != "#FF0000" {
		t.Errorf("colors.brand-primary = %q, want #FF0000", got)
	}
	if got := cfg.Theme["spacing"]["1"]; got != "8px" {
		t.Errorf("spacing.1 = %q, want 8px", got)
	}
	if got := cfg.Theme["screens"]["tablet"]; got != "768px" {
		t.Errorf("screens.tablet = %q, want 768px", got)
	}
}
