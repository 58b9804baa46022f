// Package visual resolves each extracted node's paint, stroke, effect, and
// typography configuration into concrete style values. Every color and
// dimension passes through a strict fallback chain: a binding on the
// specific paint entry, then a binding on the node-level property, then a
// previously promoted token with an exactly matching value, then the
// literal. The first two steps resolve here; the token step is applied
// after collection through Rebind.
package visual

import (
	"github.com/hellenic-development/figma-codegen/pkg/css"
	"github.com/hellenic-development/figma-codegen/pkg/extractor"
	"github.com/hellenic-development/figma-codegen/pkg/figma"
	"github.com/hellenic-development/figma-codegen/pkg/report"
)

// transparent is the neutral fallback when the resolution chain
// exhausts: invisible rather than guessed.
const transparent = "#00000000"

// Value is a resolved scalar: the canonical literal text plus where it
// came from. Raw always holds the literal even when a token reference is
// attached, so value identity survives renaming.
type Value struct {
	Raw        string
	Provenance css.Provenance
	TokenRef   string
}

// CSS renders the value for emission: the custom-property reference when
// one is attached, the literal otherwise.
func (v Value) CSS() string {
	if v.TokenRef != "" {
		return css.Var(v.TokenRef)
	}
	return v.Raw
}

// PaintKind classifies a background layer.
type PaintKind uint8

const (
	PaintSolid PaintKind = iota + 1
	PaintLinearGradient
	PaintRadialGradient
	PaintAngularGradient
	PaintDiamondGradient
	PaintImage
)

// Layer is one background layer in stylesheet order: the first layer
// renders on top. Source paint stacks are ordered bottom-to-top, so the
// resolver reverses them.
type Layer struct {
	Kind  PaintKind
	Color Value          // PaintSolid
	Angle float64        // PaintLinearGradient, stylesheet degrees
	Stops []GradientStop // gradient kinds

	// Image layers reference source-side image content; the emitter
	// resolves the reference to an exported asset.
	Ref       string
	ScaleMode string // FILL, FIT, TILE, STRETCH
}

// GradientStop is a resolved gradient color stop.
type GradientStop struct {
	Color    Value
	Position float64 // 0..1 along the gradient axis
}

// Border is a center-aligned stroke emitted as a conventional border.
type Border struct {
	Width float64
	Color Value
}

// Shadow is one box-shadow layer: either a shadow effect or a stroke
// emitted through the shadow strategy (inside and outside alignments must
// not alter the border box, so they cannot be borders).
type Shadow struct {
	Inset  bool
	X, Y   float64
	Blur   float64
	Spread float64
	Color  Value
}

// Radius holds corner rounding: one value when uniform, four clockwise
// from top-left when the corners differ, none when square.
type Radius struct {
	Values []Value
}

// Uniform returns the single radius value when all corners share it.
func (r Radius) Uniform() (Value, bool) {
	if len(r.Values) == 1 {
		return r.Values[0], true
	}
	return Value{}, false
}

// TextStyle is resolved typography for a text node. Zero-valued fields
// emit nothing and inherit from context.
type TextStyle struct {
	Family        string
	Italic        bool
	Weight        Value
	Size          Value
	LineHeight    Value
	LetterSpacing Value
	Align         string // text-align keyword, "" for default
	Transform     string // text-transform keyword
	Decoration    string // text-decoration-line keyword
	Color         Value
}

// Style is a node's fully resolved visual configuration. Later stages
// read the structure; only Rebind writes, upgrading raw literals to token
// references.
type Style struct {
	NodeID   string
	NodeName string

	Layers  []Layer
	Border  *Border
	Shadows []Shadow
	Radius  Radius
	Opacity float64 // 1 when fully opaque

	BlendMode    string // mix-blend-mode keyword, "" when normal
	Blur         float64
	BackdropBlur float64

	Text *TextStyle

	// ShadowRef names the promoted token covering the whole shadow
	// stack; set by Rebind when the stack's canonical value matched.
	ShadowRef string
}

// Options configures resolution.
type Options struct {
	// Variables backs binding resolution. Nil means every binding
	// falls through to the next chain step.
	Variables *figma.VariableTable

	// Mode selects the variable mode by name; empty uses each
	// collection's default mode.
	Mode string

	// Report receives diagnostics. A fresh report is allocated when nil.
	Report *report.Report
}

// ResolveTree resolves every node in the extraction.
func ResolveTree(ext *extractor.Extraction, opts Options) map[string]*Style {
	r := newResolver(opts)
	styles := make(map[string]*Style)
	ext.Walk(func(n *extractor.Node) bool {
		styles[n.ID] = r.resolve(n)
		return true
	})
	return styles
}

// Resolve resolves a single node outside a tree pass.
func Resolve(n *extractor.Node, opts Options) *Style {
	return newResolver(opts).resolve(n)
}

type resolver struct {
	vars *figma.VariableTable
	mode string
	rep  *report.Report
}

func newResolver(opts Options) *resolver {
	rep := opts.Report
	if rep == nil {
		rep = report.New()
	}
	return &resolver{vars: opts.Variables, mode: opts.Mode, rep: rep}
}

func (r *resolver) resolve(n *extractor.Node) *Style {
	s := &Style{
		NodeID:   n.ID,
		NodeName: n.Name,
		Opacity:  n.Visual.Opacity,
	}

	if n.Kind == extractor.KindText {
		s.Text = r.text(n)
	} else {
		s.Layers = r.layers(n)
	}

	r.applyStrokes(n, s)
	r.applyEffects(n, s)
	s.Radius = r.radius(n)
	s.BlendMode = blendKeyword(n.Visual.BlendMode)
	return s
}

// layers resolves the fill stack into background layers, reversing the
// source's bottom-to-top order into stylesheet top-to-bottom order. The
// legacy background color fills in when no paint stack exists.
func (r *resolver) layers(n *extractor.Node) []Layer {
	fills := n.Visual.Fills
	var out []Layer
	for i := len(fills) - 1; i >= 0; i-- {
		p := &fills[i]
		if !p.IsVisible() {
			continue
		}
		if l, ok := r.layer(n, p); ok {
			out = append(out, l)
		}
	}
	if len(out) == 0 && n.Visual.Background != nil {
		out = append(out, Layer{Kind: PaintSolid, Color: Value{Raw: css.Hex(*n.Visual.Background)}})
	}
	return out
}

func (r *resolver) layer(n *extractor.Node, p *figma.Paint) (Layer, bool) {
	switch p.Type {
	case "SOLID":
		return Layer{Kind: PaintSolid, Color: r.paintColor(n, p, "fills")}, true
	case "GRADIENT_LINEAR":
		stops, ok := r.stops(n, p)
		if !ok {
			return r.degenerateGradient(n, p)
		}
		return Layer{Kind: PaintLinearGradient, Angle: gradientAngle(p), Stops: stops}, true
	case "GRADIENT_RADIAL":
		stops, ok := r.stops(n, p)
		if !ok {
			return r.degenerateGradient(n, p)
		}
		return Layer{Kind: PaintRadialGradient, Stops: stops}, true
	case "GRADIENT_ANGULAR":
		stops, ok := r.stops(n, p)
		if !ok {
			return r.degenerateGradient(n, p)
		}
		return Layer{Kind: PaintAngularGradient, Stops: stops}, true
	case "GRADIENT_DIAMOND":
		stops, ok := r.stops(n, p)
		if !ok {
			return r.degenerateGradient(n, p)
		}
		return Layer{Kind: PaintDiamondGradient, Stops: stops}, true
	case "IMAGE":
		if p.ImageRef == "" {
			r.rep.Addf(report.KindMalformedInput, report.StageVisual, n.ID, n.Name,
				"image fill missing image reference")
			return Layer{}, false
		}
		return Layer{Kind: PaintImage, Ref: p.ImageRef, ScaleMode: p.ScaleMode}, true
	default:
		r.rep.Addf(report.KindMalformedInput, report.StageVisual, n.ID, n.Name,
			"unknown paint type %s", p.Type)
		return Layer{}, false
	}
}

// stops resolves a gradient's color stops in declared order. Gradients
// need at least two stops to have an axis; fewer is malformed.
func (r *resolver) stops(n *extractor.Node, p *figma.Paint) ([]GradientStop, bool) {
	if len(p.GradientStops) < 2 {
		return nil, false
	}
	opacity := p.OpacityValue()
	out := make([]GradientStop, 0, len(p.GradientStops))
	for _, st := range p.GradientStops {
		out = append(out, GradientStop{
			Color:    Value{Raw: css.HexOpacity(st.Color, opacity)},
			Position: st.Position,
		})
	}
	return out, true
}

// degenerateGradient recovers a malformed gradient: a single stop
// becomes that solid color, none becomes no layer.
func (r *resolver) degenerateGradient(n *extractor.Node, p *figma.Paint) (Layer, bool) {
	r.rep.Addf(report.KindMalformedInput, report.StageVisual, n.ID, n.Name,
		"%s with %d stops", p.Type, len(p.GradientStops))
	if len(p.GradientStops) == 1 {
		c := css.HexOpacity(p.GradientStops[0].Color, p.OpacityValue())
		return Layer{Kind: PaintSolid, Color: Value{Raw: c}}, true
	}
	return Layer{}, false
}

// paintColor resolves a paint's color through the fallback chain: the
// paint entry's own binding, the node-level property binding, then the
// literal. A gradient paint's literal is its first stop. Exhaustion
// falls back to transparent and is reported.
func (r *resolver) paintColor(n *extractor.Node, p *figma.Paint, prop string) Value {
	if alias, ok := p.BoundVariables["color"]; ok {
		if v, ok := r.variableColor(alias); ok {
			return v
		}
	}
	if alias, ok := n.Visual.Bindings[prop]; ok {
		if v, ok := r.variableColor(alias); ok {
			return v
		}
	}
	if p.Color != nil {
		return Value{Raw: css.HexOpacity(*p.Color, p.OpacityValue())}
	}
	if len(p.GradientStops) > 0 {
		return Value{Raw: css.HexOpacity(p.GradientStops[0].Color, p.OpacityValue())}
	}
	r.rep.Addf(report.KindResolutionExhausted, report.StageVisual, n.ID, n.Name,
		"%s: no binding resolved and no literal present", prop)
	return Value{Raw: transparent}
}

// variableColor resolves a color-typed design variable under the
// configured mode.
func (r *resolver) variableColor(alias figma.VariableAlias) (Value, bool) {
	if r.vars == nil {
		return Value{}, false
	}
	val, ok := r.vars.ValueFor(alias.ID, r.mode)
	if !ok || val.Kind != figma.ValueColor || val.Color == nil {
		return Value{}, false
	}
	return Value{
		Raw:        css.Hex(*val.Color),
		Provenance: css.ProvVariable,
		TokenRef:   css.TokenName("color", r.vars.NameOf(alias.ID)),
	}, true
}

// variableNumber resolves a number-typed design variable into a pixel
// value named under the given token category.
func (r *resolver) variableNumber(alias figma.VariableAlias, category string) (Value, bool) {
	if r.vars == nil {
		return Value{}, false
	}
	val, ok := r.vars.ValueFor(alias.ID, r.mode)
	if !ok || val.Kind != figma.ValueNumber {
		return Value{}, false
	}
	return Value{
		Raw:        css.Px(val.Num),
		Provenance: css.ProvVariable,
		TokenRef:   css.TokenName(category, r.vars.NameOf(alias.ID)),
	}, true
}

// applyEffects folds the effect stack into the style in declaration
// order: shadows append after any stroke-derived shadows, blurs set the
// filter radii.
func (r *resolver) applyEffects(n *extractor.Node, s *Style) {
	for i := range n.Visual.Effects {
		e := &n.Visual.Effects[i]
		if !e.IsVisible() {
			continue
		}
		switch e.Type {
		case "DROP_SHADOW", "INNER_SHADOW":
			var off figma.Vector
			if e.Offset != nil {
				off = *e.Offset
			}
			s.Shadows = append(s.Shadows, Shadow{
				Inset:  e.Type == "INNER_SHADOW",
				X:      off.X,
				Y:      off.Y,
				Blur:   e.Radius,
				Spread: e.Spread,
				Color:  r.effectColor(n, e),
			})
		case "LAYER_BLUR":
			s.Blur = e.Radius
		case "BACKGROUND_BLUR":
			s.BackdropBlur = e.Radius
		default:
			r.rep.Addf(report.KindMalformedInput, report.StageVisual, n.ID, n.Name,
				"unknown effect type %s", e.Type)
		}
	}
}

func (r *resolver) effectColor(n *extractor.Node, e *figma.Effect) Value {
	if alias, ok := n.Visual.Bindings["effects"]; ok {
		if v, ok := r.variableColor(alias); ok {
			return v
		}
	}
	if e.Color != nil {
		return Value{Raw: css.Hex(*e.Color)}
	}
	r.rep.Addf(report.KindMalformedInput, report.StageVisual, n.ID, n.Name,
		"%s missing color", e.Type)
	return Value{Raw: transparent}
}

// radius resolves corner rounding. Four per-corner values collapse to
// one only upstream, in extraction, when all corners agree; here a
// uniform radius additionally consults the node-level binding.
func (r *resolver) radius(n *extractor.Node) Radius {
	if len(n.Visual.CornerRadii) == 4 {
		vals := make([]Value, 4)
		for i, v := range n.Visual.CornerRadii {
			vals[i] = Value{Raw: css.Px(v)}
		}
		return Radius{Values: vals}
	}
	if n.Visual.CornerRadius <= 0 {
		return Radius{}
	}
	if alias, ok := n.Visual.Bindings["cornerRadius"]; ok {
		if v, ok := r.variableNumber(alias, "radius"); ok {
			return Radius{Values: []Value{v}}
		}
	}
	return Radius{Values: []Value{{Raw: css.Px(n.Visual.CornerRadius)}}}
}

// blendModes maps source blend enums to stylesheet keywords. Normal and
// pass-through render nothing.
var blendModes = map[string]string{
	"MULTIPLY":    "multiply",
	"SCREEN":      "screen",
	"OVERLAY":     "overlay",
	"DARKEN":      "darken",
	"LIGHTEN":     "lighten",
	"COLOR_DODGE": "color-dodge",
	"COLOR_BURN":  "color-burn",
	"HARD_LIGHT":  "hard-light",
	"SOFT_LIGHT":  "soft-light",
	"DIFFERENCE":  "difference",
	"EXCLUSION":   "exclusion",
	"HUE":         "hue",
	"SATURATION":  "saturation",
	"COLOR":       "color",
	"LUMINOSITY":  "luminosity",
}

func blendKeyword(mode string) string {
	return blendModes[mode]
}
