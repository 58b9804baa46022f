package visual

import (
	"testing"

	"github.com/hellenic-development/figma-codegen/pkg/figma"
	"github.com/hellenic-development/figma-codegen/pkg/report"
)

// matrix builds a 2x3 gradient transform from its linear part.
func matrix(a, b, c, d float64) [][]float64 {
	return [][]float64{{a, c, 0}, {b, d, 0}}
}

func TestGradientAngle(t *testing.T) {
	tests := []struct {
		name string
		m    [][]float64
		want float64
	}{
		{"identity points right", matrix(1, 0, 0, 1), 90},
		{"axis up", matrix(0, -1, 1, 0), 0},
		{"axis down", matrix(0, 1, -1, 0), 180},
		{"axis left", matrix(-1, 0, 0, -1), 270},
		{"missing transform defaults to down", nil, 180},
		{"malformed transform defaults to down", [][]float64{{1}}, 180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &figma.Paint{Type: "GRADIENT_LINEAR", GradientTransform: tt.m}
			if got := gradientAngle(p); got != tt.want {
				t.Errorf("gradientAngle() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGradientAngleNormalized(t *testing.T) {
	// Whatever the transform, the angle lands in [0, 360).
	for _, m := range [][][]float64{
		matrix(1, 0, 0, 1),
		matrix(-1, 0, 0, -1),
		matrix(0.7071, 0.7071, -0.7071, 0.7071),
		matrix(-0.7071, -0.7071, 0.7071, -0.7071),
	} {
		p := &figma.Paint{Type: "GRADIENT_LINEAR", GradientTransform: m}
		got := gradientAngle(p)
		if got < 0 || got >= 360 {
			t.Errorf("gradientAngle(%v) = %v, out of [0, 360)", m, got)
		}
	}
}

func gradientPaint(typ string, stops ...figma.ColorStop) figma.Paint {
	return figma.Paint{Type: typ, GradientStops: stops, GradientTransform: matrix(1, 0, 0, 1)}
}

func TestGradientLayers(t *testing.T) {
	red := figma.ColorStop{Position: 0, Color: figma.Color{R: 1, A: 1}}
	blue := figma.ColorStop{Position: 1, Color: figma.Color{B: 1, A: 1}}

	tests := []struct {
		typ  string
		want PaintKind
	}{
		{"GRADIENT_LINEAR", PaintLinearGradient},
		{"GRADIENT_RADIAL", PaintRadialGradient},
		{"GRADIENT_ANGULAR", PaintAngularGradient},
		{"GRADIENT_DIAMOND", PaintDiamondGradient},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			n := frameNode("n")
			n.Visual.Fills = []figma.Paint{gradientPaint(tt.typ, red, blue)}

			s := Resolve(n, Options{})
			if len(s.Layers) != 1 {
				t.Fatalf("layers = %d, want 1", len(s.Layers))
			}
			l := s.Layers[0]
			if l.Kind != tt.want {
				t.Errorf("kind = %v, want %v", l.Kind, tt.want)
			}
			if len(l.Stops) != 2 {
				t.Fatalf("stops = %d, want 2", len(l.Stops))
			}
			if l.Stops[0].Color.Raw != "#FF0000" || l.Stops[1].Color.Raw != "#0000FF" {
				t.Errorf("stops = %+v", l.Stops)
			}
		})
	}
}

func TestGradientSingleStopDegrades(t *testing.T) {
	rep := report.New()
	n := frameNode("n")
	n.Visual.Fills = []figma.Paint{gradientPaint("GRADIENT_LINEAR",
		figma.ColorStop{Position: 0, Color: figma.Color{R: 1, A: 1}})}

	s := Resolve(n, Options{Report: rep})
	if len(s.Layers) != 1 || s.Layers[0].Kind != PaintSolid {
		t.Fatalf("layers = %+v, want one solid", s.Layers)
	}
	if s.Layers[0].Color.Raw != "#FF0000" {
		t.Errorf("color = %q, want the lone stop #FF0000", s.Layers[0].Color.Raw)
	}
	if rep.Count(report.KindMalformedInput) != 1 {
		t.Errorf("malformed-input diagnostics = %d, want 1", rep.Count(report.KindMalformedInput))
	}
}
