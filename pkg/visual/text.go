package visual

import (
	"github.com/hellenic-development/figma-codegen/pkg/css"
	"github.com/hellenic-development/figma-codegen/pkg/extractor"
	"github.com/hellenic-development/figma-codegen/pkg/report"
)

// defaultFontSize fills in when a text node omits its size entirely.
const defaultFontSize = 16

// text resolves a text node's typography. The glyph color comes from the
// node's fill stack, so text nodes never produce background layers.
func (r *resolver) text(n *extractor.Node) *TextStyle {
	if n.Text == nil || n.Text.Style == nil {
		r.rep.Addf(report.KindMalformedInput, report.StageVisual, n.ID, n.Name,
			"text node missing type style")
		return nil
	}
	st := n.Text.Style
	ts := &TextStyle{
		Family: st.FontFamily,
		Italic: st.Italic,
	}

	if alias, ok := n.Visual.Bindings["fontSize"]; ok {
		if v, ok := r.variableNumber(alias, "text"); ok {
			ts.Size = v
		}
	}
	if ts.Size.Raw == "" {
		if st.FontSize > 0 {
			ts.Size = Value{Raw: css.Px(st.FontSize)}
		} else {
			r.rep.Addf(report.KindMalformedInput, report.StageVisual, n.ID, n.Name,
				"text node missing font size")
			ts.Size = Value{Raw: css.Px(defaultFontSize)}
		}
	}

	if st.FontWeight > 0 {
		ts.Weight = Value{Raw: css.Number(st.FontWeight)}
	}
	switch {
	case st.LineHeightPx > 0:
		ts.LineHeight = Value{Raw: css.Px(st.LineHeightPx)}
	case st.LineHeightPercent > 0:
		ts.LineHeight = Value{Raw: css.Number(st.LineHeightPercent / 100)}
	}
	if st.LetterSpacing != 0 {
		ts.LetterSpacing = Value{Raw: css.Px(st.LetterSpacing)}
	}

	switch st.TextAlignHorizontal {
	case "CENTER":
		ts.Align = "center"
	case "RIGHT":
		ts.Align = "right"
	case "JUSTIFIED":
		ts.Align = "justify"
	}
	switch st.TextCase {
	case "UPPER":
		ts.Transform = "uppercase"
	case "LOWER":
		ts.Transform = "lowercase"
	case "TITLE":
		ts.Transform = "capitalize"
	}
	switch st.TextDecoration {
	case "UNDERLINE":
		ts.Decoration = "underline"
	case "STRIKETHROUGH":
		ts.Decoration = "line-through"
	}

	for i := range n.Visual.Fills {
		if p := &n.Visual.Fills[i]; p.IsVisible() {
			ts.Color = r.paintColor(n, p, "fills")
			break
		}
	}
	return ts
}
