package formatter

import (
	"errors"
	"strings"
	"testing"

	"github.com/hellenic-development/figma-codegen/pkg/config"
	"github.com/hellenic-development/figma-codegen/pkg/extractor"
	"github.com/hellenic-development/figma-codegen/pkg/figma"
	"github.com/hellenic-development/figma-codegen/pkg/layout"
	"github.com/hellenic-development/figma-codegen/pkg/report"
	"github.com/hellenic-development/figma-codegen/pkg/semantic"
	"github.com/hellenic-development/figma-codegen/pkg/tokens"
	"github.com/hellenic-development/figma-codegen/pkg/visual"
)

func node(id, name string, kind extractor.Kind, children ...*extractor.Node) *extractor.Node {
	n := &extractor.Node{
		ID:       id,
		Name:     name,
		Kind:     kind,
		Visual:   extractor.VisualProps{Opacity: 1},
		Children: children,
	}
	switch kind {
	case extractor.KindText:
		n.SourceType = "TEXT"
	case extractor.KindVector:
		n.SourceType = "VECTOR"
	default:
		n.SourceType = "FRAME"
	}
	return n
}

func text(id, name, chars string, size float64) *extractor.Node {
	n := node(id, name, extractor.KindText)
	n.Text = &extractor.TextProps{
		Characters: chars,
		Style:      &figma.TypeStyle{FontFamily: "Inter", FontWeight: 400, FontSize: size},
	}
	n.Visual.Fills = []figma.Paint{{Type: "SOLID", Color: &figma.Color{A: 1}}}
	return n
}

func sized(n *extractor.Node, x, y, w, h float64) *extractor.Node {
	n.HasBounds = true
	n.Bounds = extractor.Rect{X: x, Y: y, Width: w, Height: h}
	return n
}

// runPipeline drives every stage ahead of emission, in pipeline order.
func runPipeline(t *testing.T, ext *extractor.Extraction, opts Options) (*Artifacts, *report.Report) {
	t.Helper()
	rep := report.New()
	lay := layout.InterpretTree(ext, layout.Options{Report: rep})
	styles := visual.ResolveTree(ext, visual.Options{Report: rep})
	set := tokens.Collect(ext, lay, styles, tokens.Options{Threshold: 3, Report: rep})
	visual.RebindAll(styles, set)
	els := semantic.Assign(ext, lay, styles, semantic.Options{Report: rep})
	opts.Report = rep
	art, err := Emit(els, lay, styles, set, ext, opts)
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	return art, rep
}

// pageFixture is a small landing page exercising every artifact: a
// vector icon, a heading with body copy, an image-filled photo shape, a
// frame with a decorative image fill, and three cards sharing one brand
// color that promotes to a token.
func pageFixture() *extractor.Extraction {
	icon := node("icon", "Search Icon", extractor.KindVector)
	icon.ContentHash = "c0ffee"

	photo := node("photo", "Team Photo", extractor.KindVector)
	photo.Visual.Fills = []figma.Paint{{Type: "IMAGE", ImageRef: "img-7", ScaleMode: "FILL"}}

	promo := sized(node("promo", "Promo", extractor.KindFrame), 0, 300, 600, 200)
	promo.Layout.Mode = "HORIZONTAL"
	promo.Layout.Gap = 8
	promo.Visual.Fills = []figma.Paint{{Type: "IMAGE", ImageRef: "img-9", ScaleMode: "FILL"}}

	brand := &figma.Color{R: 17.0 / 255, G: 34.0 / 255, B: 51.0 / 255, A: 1}
	cards := make([]*extractor.Node, 3)
	for i, suffix := range []string{"A", "B", "C"} {
		c := sized(node("stat-"+suffix, "Stat Card "+suffix, extractor.KindFrame), float64(i)*320, 550, 300, 180)
		c.Visual.Fills = []figma.Paint{{Type: "SOLID", Color: brand}}
		cards[i] = c
	}

	root := sized(node("root", "Landing", extractor.KindFrame,
		icon,
		text("title", "Title", "Welcome home", 32),
		text("copy-a", "Copy A", "All prices include delivery and setup.", 16),
		text("copy-b", "Copy B", "Cancel anytime from your account page.", 16),
		photo,
		promo,
		cards[0], cards[1], cards[2],
	), 0, 0, 1440, 1024)
	root.Layout.Mode = "VERTICAL"
	root.Layout.Gap = 24
	root.Layout.Padding = extractor.Edges{Top: 32, Right: 32, Bottom: 32, Left: 32}

	return &extractor.Extraction{FileName: "Landing Page Mock", Roots: []*extractor.Node{root}}
}

func TestEmitHTML(t *testing.T) {
	art, _ := runPipeline(t, pageFixture(), Options{})
	markup := string(art.Markup)

	wants := []string{
		"<!doctype html>",
		"<title>Landing Page Mock</title>",
		`<link rel="stylesheet" href="styles.css">`,
		`<div class="landing flex flex-col gap-24 p-32 w-1440 h-1024">`,
		`<img class="landing__search-icon" src="assets/search-icon.svg" alt="Search Icon">`,
		`<h1 class="landing__title">Welcome home</h1>`,
		`<p class="landing__copy-a">All prices include delivery and setup.</p>`,
		`<img class="landing__team-photo" src="assets/team-photo.png" alt="Team Photo">`,
		`<section class="landing__stat-card-a w-300 h-180"></section>`,
	}
	for _, want := range wants {
		if !strings.Contains(markup, want) {
			t.Errorf("markup missing %q\n%s", want, markup)
		}
	}
}

func TestEmitStylesheetLayers(t *testing.T) {
	art, _ := runPipeline(t, pageFixture(), Options{})
	sheet := string(art.Stylesheet)

	// Layer order: utilities, then token custom properties, then scoped
	// component rules.
	iu := strings.Index(sheet, "/* Utilities */")
	it := strings.Index(sheet, "/* Design Tokens */")
	ic := strings.Index(sheet, "/* Components */")
	if iu < 0 || it < 0 || ic < 0 || !(iu < it && it < ic) {
		t.Fatalf("layer markers out of order: utilities=%d tokens=%d components=%d", iu, it, ic)
	}

	wants := []string{
		".flex { display: flex; }",
		".flex-col { flex-direction: column; }",
		".p-32 { padding: 32px; }",
		"--color-primary: #112233;",
		"--color-neutral: #000000;",
		"background: var(--color-primary);",
		"color: var(--color-neutral);",
		"font-size: 32px;",
		`background: url("assets/promo.png");`,
		"background-size: cover;",
	}
	for _, want := range wants {
		if !strings.Contains(sheet, want) {
			t.Errorf("stylesheet missing %q", want)
		}
	}

	// A content image keeps only its sizing, translated to object-fit.
	photoRule := ".landing__team-photo {\n  object-fit: cover;\n}"
	if !strings.Contains(sheet, photoRule) {
		t.Errorf("photo rule missing or carries background declarations:\n%s", sheet)
	}

	if !strings.Contains(string(art.Tokens), "--color-primary: #112233;") {
		t.Errorf("token artifact missing promoted color:\n%s", art.Tokens)
	}
}

func TestEmitJSX(t *testing.T) {
	art, _ := runPipeline(t, pageFixture(), Options{Markup: config.MarkupJSX})
	markup := string(art.Markup)

	wants := []string{
		"export default function GeneratedPage() {",
		`<div className="landing flex flex-col gap-24 p-32 w-1440 h-1024">`,
		`<img className="landing__search-icon" src="assets/search-icon.svg" alt="Search Icon" />`,
		`<section className="landing__stat-card-a w-300 h-180" />`,
	}
	for _, want := range wants {
		if !strings.Contains(markup, want) {
			t.Errorf("jsx missing %q\n%s", want, markup)
		}
	}
	if strings.Contains(markup, "class=") {
		t.Error("jsx output contains a plain class attribute")
	}
}

func TestEmitSCSS(t *testing.T) {
	art, _ := runPipeline(t, pageFixture(), Options{Styles: config.StylesSCSS})
	sheet := string(art.Stylesheet)

	if !strings.HasPrefix(sheet, "$color-primary: #112233;\n") {
		t.Errorf("scss does not open with token variables:\n%.200s", sheet)
	}
	if !strings.Contains(sheet, "$color-neutral: #000000;") {
		t.Error("scss missing neutral variable")
	}
}

func TestTokenConfigArtifact(t *testing.T) {
	art, _ := runPipeline(t, pageFixture(), Options{TokenConfig: true})
	if art.TokenConfig == nil {
		t.Fatal("token config artifact not emitted")
	}
	if !strings.Contains(string(art.TokenConfig), `"colors"`) {
		t.Errorf("token config missing colors group:\n%s", art.TokenConfig)
	}
}

func TestManifestDedup(t *testing.T) {
	v1 := node("v1", "Icon", extractor.KindVector)
	v1.ContentHash = "hash-1"
	v2 := node("v2", "Icon", extractor.KindVector)
	v2.ContentHash = "hash-1"
	v3 := node("v3", "Icon", extractor.KindVector)
	v3.ContentHash = "hash-2"
	ext := &extractor.Extraction{
		FileName: "Icons",
		Roots:    []*extractor.Node{node("r", "Icon Sheet", extractor.KindFrame, v1, v2, v3)},
	}

	art, _ := runPipeline(t, ext, Options{})
	m := art.Manifest
	if len(m.Assets) != 2 {
		t.Fatalf("assets = %d, want 2 after dedup", len(m.Assets))
	}
	if got := len(m.Assets[0].Refs); got != 2 {
		t.Errorf("shared asset refs = %d, want 2", got)
	}
	if m.Assets[0].File != "icon.svg" || m.Assets[1].File != "icon-2.svg" {
		t.Errorf("files = %q, %q, want icon.svg and icon-2.svg", m.Assets[0].File, m.Assets[1].File)
	}

	// Both placements of the shared graphic point at the same file.
	if got := strings.Count(string(art.Markup), `src="assets/icon.svg"`); got != 2 {
		t.Errorf("shared src references = %d, want 2", got)
	}
}

func TestResponsiveOverrides(t *testing.T) {
	base := sized(node("b", "Card", extractor.KindFrame), 0, 0, 375, 600)
	base.Layout.Mode = "VERTICAL"
	base.Layout.Gap = 8
	wide := sized(node("w", "Card#Wide", extractor.KindFrame), 0, 0, 1200, 400)
	wide.Layout.Mode = "HORIZONTAL"
	wide.Layout.Gap = 8
	ext := &extractor.Extraction{FileName: "Cards", Roots: []*extractor.Node{base, wide}}

	art, _ := runPipeline(t, ext, Options{})
	sheet := string(art.Stylesheet)

	wants := []string{
		"@media (min-width: 1200px) {",
		"  .card {",
		"flex-direction: row;",
		"width: 1200px;",
	}
	for _, want := range wants {
		if !strings.Contains(sheet, want) {
			t.Errorf("stylesheet missing %q\n%s", want, sheet)
		}
	}

	// The variant root folds into the media block instead of emitting a
	// second markup tree.
	if got := strings.Count(string(art.Markup), `class="card `); got != 1 {
		t.Errorf("card trees in markup = %d, want 1", got)
	}
}

func TestEmitRecordsFidelityNotes(t *testing.T) {
	frame := sized(node("g", "Glow", extractor.KindFrame), 0, 0, 200, 200)
	frame.Visual.Fills = []figma.Paint{{
		Type: "GRADIENT_DIAMOND",
		GradientStops: []figma.ColorStop{
			{Position: 0, Color: figma.Color{R: 1, A: 1}},
			{Position: 1, Color: figma.Color{B: 1, A: 1}},
		},
	}}
	ext := &extractor.Extraction{FileName: "Gradients", Roots: []*extractor.Node{frame}}

	art, rep := runPipeline(t, ext, Options{})
	if !strings.Contains(string(art.Stylesheet), "radial-gradient(closest-side,") {
		t.Error("diamond gradient did not degrade to a radial approximation")
	}
	if got := rep.Count(report.KindEmissionFailure); got != 1 {
		t.Errorf("fidelity notes = %d, want 1", got)
	}
}

func TestEmitUnknownDialect(t *testing.T) {
	ext := &extractor.Extraction{
		FileName: "Empty",
		Roots:    []*extractor.Node{sized(node("r", "Page", extractor.KindFrame), 0, 0, 100, 100)},
	}
	rep := report.New()
	lay := layout.InterpretTree(ext, layout.Options{Report: rep})
	styles := visual.ResolveTree(ext, visual.Options{Report: rep})
	set := tokens.Collect(ext, lay, styles, tokens.Options{Report: rep})
	els := semantic.Assign(ext, lay, styles, semantic.Options{Report: rep})

	if _, err := Emit(els, lay, styles, set, ext, Options{Markup: "pug"}); !errors.Is(err, config.ErrUnknownDialect) {
		t.Errorf("markup err = %v, want ErrUnknownDialect", err)
	}
	if _, err := Emit(els, lay, styles, set, ext, Options{Styles: "less"}); !errors.Is(err, config.ErrUnknownDialect) {
		t.Errorf("styles err = %v, want ErrUnknownDialect", err)
	}
}
