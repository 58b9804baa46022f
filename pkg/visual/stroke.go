package visual

import (
	"github.com/hellenic-development/figma-codegen/pkg/extractor"
	"github.com/hellenic-development/figma-codegen/pkg/figma"
)

// applyStrokes resolves the stroke stack through the alignment-specific
// strategy. Only center alignment becomes a border: inside and outside
// strokes must leave the border box untouched, so they render as an inset
// shadow and a zero-blur outer shadow respectively. Stroke shadows go in
// front of effect shadows so the edge always paints on top.
func (r *resolver) applyStrokes(n *extractor.Node, s *Style) {
	w := n.Visual.StrokeWeight
	if w <= 0 {
		return
	}
	var paint *figma.Paint
	for i := range n.Visual.Strokes {
		if p := &n.Visual.Strokes[i]; p.IsVisible() {
			paint = p
			break
		}
	}
	if paint == nil {
		return
	}
	color := r.paintColor(n, paint, "strokes")

	switch n.Visual.StrokeAlign {
	case "CENTER":
		s.Border = &Border{Width: w, Color: color}
	case "OUTSIDE":
		s.Shadows = append(s.Shadows, Shadow{Spread: w, Color: color})
	default: // INSIDE is the source tool's default alignment
		s.Shadows = append(s.Shadows, Shadow{Inset: true, Spread: w, Color: color})
	}
}
