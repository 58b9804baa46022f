package visual

import (
	"strings"

	"github.com/hellenic-development/figma-codegen/pkg/css"
	"github.com/hellenic-development/figma-codegen/pkg/report"
)

// RenderContext carries emission-time dependencies into declaration
// rendering.
type RenderContext struct {
	// AssetURL maps a source image reference to the emitted asset path
	// used in url() values. Nil renders the bare reference.
	AssetURL func(ref string) string

	// Report receives fidelity notes for structures the dialect cannot
	// express exactly. Nil drops them.
	Report *report.Report
}

// Declarations renders the style as ordered declarations. Structures the
// stylesheet dialect cannot express degrade to the closest representable
// approximation and record a fidelity note.
func (s *Style) Declarations(rc RenderContext) []css.Declaration {
	var ds []css.Declaration

	s.backgroundDecls(&ds, rc)

	if s.Border != nil {
		ds = append(ds, css.Declaration{
			Property:   "border",
			Value:      css.Px(s.Border.Width) + " solid " + s.Border.Color.CSS(),
			Provenance: s.Border.Color.Provenance,
			TokenRef:   s.Border.Color.TokenRef,
		})
	}
	if d, ok := s.radiusDecl(); ok {
		ds = append(ds, d)
	}
	if len(s.Shadows) > 0 {
		ds = append(ds, s.shadowDecl())
	}
	if s.Opacity < 1 {
		ds = append(ds, css.Declaration{Property: "opacity", Value: css.Number(s.Opacity)})
	}
	if s.BlendMode != "" {
		ds = append(ds, css.Declaration{Property: "mix-blend-mode", Value: s.BlendMode})
	}
	if s.Blur > 0 {
		ds = append(ds, css.Declaration{Property: "filter", Value: "blur(" + css.Px(s.Blur) + ")"})
	}
	if s.BackdropBlur > 0 {
		ds = append(ds, css.Declaration{Property: "backdrop-filter", Value: "blur(" + css.Px(s.BackdropBlur) + ")"})
	}

	s.textDecls(&ds)
	return ds
}

func (s *Style) backgroundDecls(ds *[]css.Declaration, rc RenderContext) {
	if len(s.Layers) == 0 {
		return
	}
	if len(s.Layers) == 1 && s.Layers[0].Kind == PaintSolid {
		c := s.Layers[0].Color
		*ds = append(*ds, css.Declaration{
			Property:   "background",
			Value:      c.CSS(),
			Provenance: c.Provenance,
			TokenRef:   c.TokenRef,
		})
		return
	}

	// Stacked or non-solid fills: every layer renders as an image so
	// ordering and blending survive.
	parts := make([]string, 0, len(s.Layers))
	var size, repeat string
	for i := range s.Layers {
		l := &s.Layers[i]
		parts = append(parts, s.layerImage(l, rc))
		if l.Kind == PaintImage && size == "" {
			size, repeat = imageSizing(l.ScaleMode)
		}
	}
	*ds = append(*ds, css.Declaration{Property: "background", Value: strings.Join(parts, ", ")})
	if size != "" {
		*ds = append(*ds, css.Declaration{Property: "background-size", Value: size})
	}
	if repeat != "" {
		*ds = append(*ds, css.Declaration{Property: "background-repeat", Value: repeat})
	}
}

func (s *Style) layerImage(l *Layer, rc RenderContext) string {
	switch l.Kind {
	case PaintSolid:
		c := l.Color.CSS()
		return "linear-gradient(" + c + ", " + c + ")"
	case PaintLinearGradient:
		return "linear-gradient(" + css.Number(l.Angle) + "deg, " + stopList(l.Stops) + ")"
	case PaintRadialGradient:
		return "radial-gradient(" + stopList(l.Stops) + ")"
	case PaintAngularGradient:
		return "conic-gradient(" + stopList(l.Stops) + ")"
	case PaintDiamondGradient:
		s.note(rc, "diamond gradient approximated as radial")
		return "radial-gradient(closest-side, " + stopList(l.Stops) + ")"
	case PaintImage:
		ref := l.Ref
		if rc.AssetURL != nil {
			ref = rc.AssetURL(l.Ref)
		}
		return `url("` + ref + `")`
	default:
		return ""
	}
}

func stopList(stops []GradientStop) string {
	parts := make([]string, len(stops))
	for i, st := range stops {
		parts[i] = st.Color.CSS() + " " + css.Number(st.Position*100) + "%"
	}
	return strings.Join(parts, ", ")
}

func imageSizing(scaleMode string) (size, repeat string) {
	switch scaleMode {
	case "FIT":
		return "contain", "no-repeat"
	case "TILE":
		return "auto", "repeat"
	case "STRETCH":
		return "100% 100%", "no-repeat"
	default: // FILL
		return "cover", "no-repeat"
	}
}

func (s *Style) radiusDecl() (css.Declaration, bool) {
	switch len(s.Radius.Values) {
	case 1:
		v := s.Radius.Values[0]
		return css.Declaration{
			Property:   "border-radius",
			Value:      v.CSS(),
			Provenance: v.Provenance,
			TokenRef:   v.TokenRef,
		}, true
	case 4:
		parts := make([]string, 4)
		for i, v := range s.Radius.Values {
			parts[i] = v.CSS()
		}
		return css.Declaration{Property: "border-radius", Value: strings.Join(parts, " ")}, true
	}
	return css.Declaration{}, false
}

func (s *Style) shadowDecl() css.Declaration {
	if s.ShadowRef != "" {
		return css.Declaration{
			Property:   "box-shadow",
			Value:      css.Var(s.ShadowRef),
			Provenance: css.ProvToken,
			TokenRef:   s.ShadowRef,
		}
	}
	parts := make([]string, len(s.Shadows))
	d := css.Declaration{Property: "box-shadow"}
	for i, sh := range s.Shadows {
		parts[i] = sh.CSS()
		if d.TokenRef == "" && sh.Color.TokenRef != "" {
			d.Provenance = sh.Color.Provenance
			d.TokenRef = sh.Color.TokenRef
		}
	}
	d.Value = strings.Join(parts, ", ")
	return d
}

// CSS renders one shadow layer, token references included.
func (sh Shadow) CSS() string {
	return sh.text(false)
}

func (sh Shadow) text(rawColor bool) string {
	var b strings.Builder
	if sh.Inset {
		b.WriteString("inset ")
	}
	b.WriteString(css.Px(sh.X))
	b.WriteString(" ")
	b.WriteString(css.Px(sh.Y))
	b.WriteString(" ")
	b.WriteString(css.Px(sh.Blur))
	b.WriteString(" ")
	b.WriteString(css.Px(sh.Spread))
	b.WriteString(" ")
	if rawColor {
		b.WriteString(sh.Color.Raw)
	} else {
		b.WriteString(sh.Color.CSS())
	}
	return b.String()
}

// ShadowCSS returns the whole stack's canonical raw-literal box-shadow
// value, the identity used for shadow token promotion.
func (s *Style) ShadowCSS() string {
	parts := make([]string, len(s.Shadows))
	for i, sh := range s.Shadows {
		parts[i] = sh.text(true)
	}
	return strings.Join(parts, ", ")
}

func (s *Style) textDecls(ds *[]css.Declaration) {
	t := s.Text
	if t == nil {
		return
	}
	if t.Color.Raw != "" || t.Color.TokenRef != "" {
		*ds = append(*ds, css.Declaration{
			Property:   "color",
			Value:      t.Color.CSS(),
			Provenance: t.Color.Provenance,
			TokenRef:   t.Color.TokenRef,
		})
	}
	if t.Family != "" {
		*ds = append(*ds, css.Declaration{Property: "font-family", Value: `"` + t.Family + `"`})
	}
	if t.Size.Raw != "" || t.Size.TokenRef != "" {
		*ds = append(*ds, css.Declaration{
			Property:   "font-size",
			Value:      t.Size.CSS(),
			Provenance: t.Size.Provenance,
			TokenRef:   t.Size.TokenRef,
		})
	}
	if t.Weight.Raw != "" {
		*ds = append(*ds, css.Declaration{Property: "font-weight", Value: t.Weight.CSS()})
	}
	if t.Italic {
		*ds = append(*ds, css.Declaration{Property: "font-style", Value: "italic"})
	}
	if t.LineHeight.Raw != "" {
		*ds = append(*ds, css.Declaration{Property: "line-height", Value: t.LineHeight.CSS()})
	}
	if t.LetterSpacing.Raw != "" {
		*ds = append(*ds, css.Declaration{Property: "letter-spacing", Value: t.LetterSpacing.CSS()})
	}
	if t.Align != "" {
		*ds = append(*ds, css.Declaration{Property: "text-align", Value: t.Align})
	}
	if t.Transform != "" {
		*ds = append(*ds, css.Declaration{Property: "text-transform", Value: t.Transform})
	}
	if t.Decoration != "" {
		*ds = append(*ds, css.Declaration{Property: "text-decoration-line", Value: t.Decoration})
	}
}

func (s *Style) note(rc RenderContext, detail string) {
	if rc.Report == nil {
		return
	}
	rc.Report.Addf(report.KindEmissionFailure, report.StageEmit, s.NodeID, s.NodeName, "%s", detail)
}
