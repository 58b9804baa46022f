// Package layout interprets each extracted node's layout configuration as
// flex-based style rules. Sizing follows a per-axis decision table keyed on
// the axis role relative to the parent (primary vs counter) and the
// declared mode (Fixed, Hug, Fill); responsive frame families synthesize
// into a mobile-first base rule plus ascending min-width overrides.
package layout

import (
	"github.com/hellenic-development/figma-codegen/pkg/css"
	"github.com/hellenic-development/figma-codegen/pkg/extractor"
	"github.com/hellenic-development/figma-codegen/pkg/report"
)

// Mode is a per-axis sizing policy.
type Mode uint8

const (
	// ModeFixed carries an explicit dimension through unchanged.
	ModeFixed Mode = iota + 1

	// ModeHug sizes intrinsically; content determines the dimension.
	ModeHug

	// ModeFill grows along the parent's primary axis or stretches along
	// its counter axis. The two are distinct output mechanisms.
	ModeFill
)

// String returns the mode name in source-format casing.
func (m Mode) String() string {
	switch m {
	case ModeFixed:
		return "FIXED"
	case ModeHug:
		return "HUG"
	case ModeFill:
		return "FILL"
	default:
		return ""
	}
}

// Rule is one axis's resolved sizing: the mode plus the explicit dimension
// for fixed sizing.
type Rule struct {
	Mode  Mode
	Value float64 // pixels; meaningful only for ModeFixed
}

// Spec is a node's fully interpreted layout: its own container behavior
// and its item behavior inside the parent. One Spec exists per extracted
// node; later stages read, none write.
type Spec struct {
	NodeID string

	// Container fields, meaningful when IsContainer.
	IsContainer    bool
	Direction      string // "row" or "column"
	Wrap           bool
	Gap            float64
	CounterGap     *float64
	JustifyContent string
	AlignItems     string
	Padding        extractor.Edges

	// Item fields: sizing per natural axis, resolved against the
	// parent's direction.
	Horizontal Rule
	Vertical   Rule

	// In-flex-parent mechanics derived from the sizing table.
	Grow      bool // fill on the parent's primary axis
	Stretch   bool // fill on the parent's counter axis
	InFlexRow bool // parent direction, for axis bookkeeping
	HasParent bool // parent is a flex container

	MinWidth, MaxWidth   *float64
	MinHeight, MaxHeight *float64

	// Breakpoint tags specs that belong to a responsive family variant;
	// empty on the base and on non-family nodes.
	Breakpoint string
}

// Options configures interpretation.
type Options struct {
	// Matchers detect responsive frame families among top-level roots.
	// Nil installs the default name-suffix matcher.
	Matchers []Matcher

	// Breakpoints resolves explicit family labels to min-width
	// thresholds. Labels missing from the table fall back to the variant
	// frame's own width.
	Breakpoints map[string]float64

	// Report receives diagnostics. A fresh report is allocated when nil.
	Report *report.Report
}

// Result is the layout stage output: one spec per node plus the detected
// responsive families.
type Result struct {
	Specs    map[string]*Spec
	Families []Family
}

// Spec returns the spec of a node ID, or nil when unknown.
func (r *Result) Spec(id string) *Spec {
	return r.Specs[id]
}

// IsVariant reports whether a root node was folded into a responsive
// family as a non-base member. Variant roots emit as media-query
// overrides, not as standalone markup trees.
func (r *Result) IsVariant(id string) bool {
	for _, f := range r.Families {
		for _, o := range f.Overrides {
			if o.NodeID == id {
				return true
			}
		}
	}
	return false
}

// InterpretTree derives a Spec for every node in the extraction and
// synthesizes responsive families among the top-level roots.
func InterpretTree(ext *extractor.Extraction, opts Options) *Result {
	if opts.Report == nil {
		opts.Report = report.New()
	}
	res := &Result{Specs: make(map[string]*Spec)}
	for _, root := range ext.Roots {
		interpretSubtree(root, nil, res.Specs)
	}

	matchers := opts.Matchers
	if matchers == nil {
		matchers = []Matcher{SuffixMatcher{}}
	}
	res.Families = synthesizeFamilies(ext.Roots, res.Specs, matchers, opts.Breakpoints)
	return res
}

// Interpret derives the spec of a single node given its parent, outside a
// tree pass. The parent may be nil for roots.
func Interpret(n, parent *extractor.Node) *Spec {
	return interpretNode(n, parent)
}

func interpretSubtree(n, parent *extractor.Node, specs map[string]*Spec) {
	specs[n.ID] = interpretNode(n, parent)
	for _, child := range n.Children {
		interpretSubtree(child, n, specs)
	}
}

func interpretNode(n, parent *extractor.Node) *Spec {
	s := &Spec{NodeID: n.ID}

	if n.Layout.Mode != "" {
		s.IsContainer = true
		if n.Layout.Mode == "HORIZONTAL" {
			s.Direction = "row"
		} else {
			s.Direction = "column"
		}
		s.Wrap = n.Layout.Wrap
		s.Gap = n.Layout.Gap
		s.CounterGap = n.Layout.CounterGap
		s.JustifyContent = alignEnum(n.Layout.JustifyContent)
		s.AlignItems = alignEnum(n.Layout.AlignItems)
		s.Padding = n.Layout.Padding
	}

	parentDir := ""
	if parent != nil && parent.Layout.Mode != "" {
		s.HasParent = true
		if parent.Layout.Mode == "HORIZONTAL" {
			parentDir = "row"
			s.InFlexRow = true
		} else {
			parentDir = "column"
		}
	}

	s.Horizontal = axisRule(n, axisHorizontal, parentDir)
	s.Vertical = axisRule(n, axisVertical, parentDir)

	switch parentDir {
	case "row":
		s.Grow = s.Horizontal.Mode == ModeFill
		s.Stretch = s.Vertical.Mode == ModeFill
	case "column":
		s.Grow = s.Vertical.Mode == ModeFill
		s.Stretch = s.Horizontal.Mode == ModeFill
	}

	s.MinWidth = n.Layout.MinWidth
	s.MaxWidth = n.Layout.MaxWidth
	s.MinHeight = n.Layout.MinHeight
	s.MaxHeight = n.Layout.MaxHeight
	return s
}

type axis uint8

const (
	axisHorizontal axis = iota
	axisVertical
)

// axisRule resolves one axis's sizing mode. The current per-axis sizing
// fields win when present; otherwise the legacy grow/align/sizing-mode
// trio is reconciled so older exports interpret identically.
func axisRule(n *extractor.Node, ax axis, parentDir string) Rule {
	declared := n.Layout.SizingHorizontal
	dim := n.Bounds.Width
	if ax == axisVertical {
		declared = n.Layout.SizingVertical
		dim = n.Bounds.Height
	}

	switch declared {
	case "FIXED":
		return Rule{Mode: ModeFixed, Value: dim}
	case "HUG":
		return Rule{Mode: ModeHug}
	case "FILL":
		return Rule{Mode: ModeFill}
	}

	// Legacy encoding. Fill comes from the item's relationship to the
	// parent axis: layoutGrow on the primary, STRETCH alignment on the
	// counter. Hug comes from the node's own AUTO sizing mode on the
	// axis its layout direction assigns.
	onParentPrimary := (parentDir == "row" && ax == axisHorizontal) ||
		(parentDir == "column" && ax == axisVertical)
	onParentCounter := parentDir != "" && !onParentPrimary

	if onParentPrimary && n.Layout.Grow > 0 {
		return Rule{Mode: ModeFill}
	}
	if onParentCounter && n.Layout.Align == "STRETCH" {
		return Rule{Mode: ModeFill}
	}
	if ownAxisAuto(n, ax) {
		return Rule{Mode: ModeHug}
	}
	if !n.HasBounds {
		return Rule{Mode: ModeHug}
	}
	return Rule{Mode: ModeFixed, Value: dim}
}

// ownAxisAuto reports whether the node's own layout declares AUTO
// (hug-content) sizing for the given natural axis.
func ownAxisAuto(n *extractor.Node, ax axis) bool {
	switch n.Layout.Mode {
	case "HORIZONTAL":
		if ax == axisHorizontal {
			return n.Layout.PrimaryAxisSizing == "AUTO"
		}
		return n.Layout.CounterAxisSizing == "AUTO"
	case "VERTICAL":
		if ax == axisVertical {
			return n.Layout.PrimaryAxisSizing == "AUTO"
		}
		return n.Layout.CounterAxisSizing == "AUTO"
	}
	return false
}

// alignEnum maps source alignment enums to flex keywords. Absence
// defaults to start.
func alignEnum(v string) string {
	switch v {
	case "CENTER":
		return "center"
	case "MAX":
		return "flex-end"
	case "SPACE_BETWEEN":
		return "space-between"
	case "BASELINE":
		return "baseline"
	default:
		return "flex-start"
	}
}

// Declarations renders the spec as ordered style declarations: container
// rules first, then the item's sizing, then clamps.
//
// The sizing table's output commitments: Fixed emits the explicit
// dimension; Hug emits fit-content on flex containers and nothing on
// intrinsic leaves; Fill emits flex-grow:1 with an explicit zero basis on
// the primary axis (equal distribution regardless of content) and
// align-self:stretch on the counter axis. Fill without a flex parent
// degrades to a full-width/height percentage.
func (s *Spec) Declarations() []css.Declaration {
	var ds []css.Declaration
	add := func(prop, val string) {
		ds = append(ds, css.Declaration{Property: prop, Value: val})
	}

	if s.IsContainer {
		add("display", "flex")
		if s.Direction == "column" {
			add("flex-direction", "column")
		}
		if s.Wrap {
			add("flex-wrap", "wrap")
		}
		if s.JustifyContent != "flex-start" {
			add("justify-content", s.JustifyContent)
		}
		if s.AlignItems != "flex-start" {
			add("align-items", s.AlignItems)
		}
		if g := s.gapValue(); g != "" {
			add("gap", g)
		}
		if p := paddingValue(s.Padding); p != "" {
			add("padding", p)
		}
	}

	s.axisDeclarations(&ds, axisHorizontal)
	s.axisDeclarations(&ds, axisVertical)

	if s.Grow {
		add("flex-grow", "1")
		add("flex-basis", "0")
	}
	if s.Stretch {
		add("align-self", "stretch")
	}

	if s.MinWidth != nil {
		add("min-width", css.Px(*s.MinWidth))
	}
	if s.MaxWidth != nil {
		add("max-width", css.Px(*s.MaxWidth))
	}
	if s.MinHeight != nil {
		add("min-height", css.Px(*s.MinHeight))
	}
	if s.MaxHeight != nil {
		add("max-height", css.Px(*s.MaxHeight))
	}
	return ds
}

func (s *Spec) axisDeclarations(ds *[]css.Declaration, ax axis) {
	rule := s.Horizontal
	prop, pct := "width", "100%"
	if ax == axisVertical {
		rule = s.Vertical
		prop = "height"
	}

	fillIsGrow := (s.InFlexRow && ax == axisHorizontal) || (!s.InFlexRow && s.HasParent && ax == axisVertical)

	switch rule.Mode {
	case ModeFixed:
		*ds = append(*ds, css.Declaration{Property: prop, Value: css.Px(rule.Value)})
	case ModeHug:
		if s.IsContainer {
			*ds = append(*ds, css.Declaration{Property: prop, Value: "fit-content"})
		}
	case ModeFill:
		switch {
		case !s.HasParent:
			*ds = append(*ds, css.Declaration{Property: prop, Value: pct})
		case fillIsGrow:
			// Emitted as flex-grow/flex-basis by the caller; the
			// axis itself carries no dimension.
		default:
			// Counter-axis stretch; align-self emitted by caller.
		}
	}
}

// gapValue renders the gap shorthand: one value when spacing is uniform,
// row/column pair when the source declares distinct counter-axis spacing.
func (s *Spec) gapValue() string {
	if s.CounterGap != nil && *s.CounterGap != s.Gap {
		// CSS order is row-gap column-gap. In a row container the
		// primary spacing is the column gap; in a column container it
		// is the row gap.
		if s.Direction == "row" {
			return css.Px(*s.CounterGap) + " " + css.Px(s.Gap)
		}
		return css.Px(s.Gap) + " " + css.Px(*s.CounterGap)
	}
	if s.Gap == 0 {
		return ""
	}
	return css.Px(s.Gap)
}

func paddingValue(p extractor.Edges) string {
	if p.Zero() {
		return ""
	}
	if p.Uniform() {
		return css.Px(p.Top)
	}
	if p.Top == p.Bottom && p.Left == p.Right {
		return css.Px(p.Top) + " " + css.Px(p.Right)
	}
	return css.Px(p.Top) + " " + css.Px(p.Right) + " " + css.Px(p.Bottom) + " " + css.Px(p.Left)
}
