package visual

import (
	"strings"
	"testing"

	"github.com/hellenic-development/figma-codegen/pkg/figma"
	"github.com/hellenic-development/figma-codegen/pkg/report"
)

func declMap(s *Style, rc RenderContext) map[string]string {
	out := make(map[string]string)
	for _, d := range s.Declarations(rc) {
		out[d.Property] = d.Value
	}
	return out
}

func TestRenderLayeredBackground(t *testing.T) {
	n := frameNode("n")
	n.Visual.Fills = []figma.Paint{
		solid(figma.Color{R: 1, A: 1}), // bottom
		gradientPaint("GRADIENT_LINEAR",
			figma.ColorStop{Position: 0, Color: figma.Color{A: 1}},
			figma.ColorStop{Position: 1, Color: figma.Color{A: 0}},
		), // top
	}

	ds := declMap(Resolve(n, Options{}), RenderContext{})
	want := "linear-gradient(90deg, #000000 0%, #00000000 100%), linear-gradient(#FF0000, #FF0000)"
	if ds["background"] != want {
		t.Errorf("background = %q, want %q", ds["background"], want)
	}
}

func TestRenderDiamondGradientDegrades(t *testing.T) {
	rep := report.New()
	n := frameNode("n")
	n.Visual.Fills = []figma.Paint{
		gradientPaint("GRADIENT_DIAMOND",
			figma.ColorStop{Position: 0, Color: figma.Color{R: 1, A: 1}},
			figma.ColorStop{Position: 1, Color: figma.Color{B: 1, A: 1}},
		),
		solid(figma.Color{A: 1}),
	}

	ds := declMap(Resolve(n, Options{Report: rep}), RenderContext{Report: rep})
	if !strings.Contains(ds["background"], "radial-gradient(closest-side, #FF0000 0%, #0000FF 100%)") {
		t.Errorf("background = %q, want radial approximation", ds["background"])
	}
	if rep.Count(report.KindEmissionFailure) != 1 {
		t.Errorf("emission-failure notes = %d, want 1", rep.Count(report.KindEmissionFailure))
	}
}

func TestRenderImageFill(t *testing.T) {
	n := frameNode("n")
	n.Visual.Fills = []figma.Paint{
		{Type: "IMAGE", ImageRef: "ref-1", ScaleMode: "FILL"},
	}

	rc := RenderContext{AssetURL: func(ref string) string { return "assets/" + ref + ".png" }}
	ds := declMap(Resolve(n, Options{}), rc)
	if ds["background"] != `url("assets/ref-1.png")` {
		t.Errorf("background = %q", ds["background"])
	}
	if ds["background-size"] != "cover" || ds["background-repeat"] != "no-repeat" {
		t.Errorf("sizing = %q / %q, want cover / no-repeat", ds["background-size"], ds["background-repeat"])
	}
}

func TestRenderImageScaleModes(t *testing.T) {
	tests := []struct {
		mode       string
		wantSize   string
		wantRepeat string
	}{
		{"FILL", "cover", "no-repeat"},
		{"FIT", "contain", "no-repeat"},
		{"TILE", "auto", "repeat"},
		{"STRETCH", "100% 100%", "no-repeat"},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			size, repeat := imageSizing(tt.mode)
			if size != tt.wantSize || repeat != tt.wantRepeat {
				t.Errorf("imageSizing(%s) = %q, %q, want %q, %q",
					tt.mode, size, repeat, tt.wantSize, tt.wantRepeat)
			}
		})
	}
}

func TestRenderOpacityBlendAndBlur(t *testing.T) {
	n := frameNode("n")
	n.Visual.Opacity = 0.5
	n.Visual.BlendMode = "MULTIPLY"
	n.Visual.Effects = []figma.Effect{
		{Type: "LAYER_BLUR", Radius: 4},
		{Type: "BACKGROUND_BLUR", Radius: 10},
	}

	ds := declMap(Resolve(n, Options{}), RenderContext{})
	if ds["opacity"] != "0.5" {
		t.Errorf("opacity = %q", ds["opacity"])
	}
	if ds["mix-blend-mode"] != "multiply" {
		t.Errorf("mix-blend-mode = %q", ds["mix-blend-mode"])
	}
	if ds["filter"] != "blur(4px)" {
		t.Errorf("filter = %q", ds["filter"])
	}
	if ds["backdrop-filter"] != "blur(10px)" {
		t.Errorf("backdrop-filter = %q", ds["backdrop-filter"])
	}
}

func TestRenderCenterStrokeBorder(t *testing.T) {
	n := frameNode("n")
	n.Visual.Strokes = []figma.Paint{solid(figma.Color{R: 0.2, G: 0.4, B: 0.8, A: 1})}
	n.Visual.StrokeWeight = 1.5
	n.Visual.StrokeAlign = "CENTER"

	ds := declMap(Resolve(n, Options{}), RenderContext{})
	if ds["border"] != "1.5px solid #3366CC" {
		t.Errorf("border = %q, want 1.5px solid #3366CC", ds["border"])
	}
}

func TestRenderEmptyStyle(t *testing.T) {
	s := Resolve(frameNode("n"), Options{})
	if ds := s.Declarations(RenderContext{}); len(ds) != 0 {
		t.Errorf("empty node produced declarations: %+v", ds)
	}
}
