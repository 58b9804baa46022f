// Package tokens aggregates resolved values across the whole tree into
// named design tokens. Promotion happens two ways: values bound to design
// variables promote unconditionally under the variable's name, and
// repeated literals promote once they hit the usage-count threshold,
// named on category scales. This is the only whole-tree aggregation in
// the pipeline; collection is single-writer and later stages only read
// the resulting set.
package tokens

import (
	"sort"
	"strconv"
	"strings"

	"github.com/hellenic-development/figma-codegen/pkg/css"
	"github.com/hellenic-development/figma-codegen/pkg/extractor"
	"github.com/hellenic-development/figma-codegen/pkg/figma"
	"github.com/hellenic-development/figma-codegen/pkg/layout"
	"github.com/hellenic-development/figma-codegen/pkg/report"
	"github.com/hellenic-development/figma-codegen/pkg/visual"
)

// Token categories, used as name prefixes.
const (
	CategoryColor      = "color"
	CategorySpacing    = "spacing"
	CategoryText       = "text"
	CategoryRadius     = "radius"
	CategoryShadow     = "shadow"
	CategoryBreakpoint = "breakpoint"
)

// DefaultThreshold is the minimum occurrence count for literal promotion.
const DefaultThreshold = 2

// Ref is one site referencing a token.
type Ref struct {
	NodeID   string `json:"nodeId"`
	Property string `json:"property"`
}

// Binding is one named token: a canonical value per mode plus every site
// that references it. A literal-promoted binding has a single value under
// the empty mode key.
type Binding struct {
	Name     string            `json:"name"`
	Category string            `json:"category"`
	Values   map[string]string `json:"values"`
	Default  string            `json:"default,omitempty"` // mode key backing unqualified lookups
	Refs     []Ref             `json:"refs,omitempty"`
}

// Value returns the binding's value under a mode key, falling back to the
// default mode and then to the single-value entry.
func (b *Binding) Value(mode string) string {
	if mode != "" {
		if v, ok := b.Values[mode]; ok {
			return v
		}
	}
	if b.Default != "" {
		if v, ok := b.Values[b.Default]; ok {
			return v
		}
	}
	return b.Values[""]
}

// Varies reports whether the binding holds distinct values across modes.
func (b *Binding) Varies() bool {
	seen := ""
	first := true
	for _, v := range b.Values {
		if first {
			seen, first = v, false
			continue
		}
		if v != seen {
			return true
		}
	}
	return false
}

// Options configures collection.
type Options struct {
	// Threshold is the minimum occurrence count for literal promotion;
	// zero means DefaultThreshold. Variable-bound values ignore it.
	Threshold int

	// Variables backs unconditional promotion and per-mode values.
	Variables *figma.VariableTable

	// Report receives diagnostics. A fresh report is allocated when nil.
	Report *report.Report
}

// Set is the collected token set. It satisfies the resolver's token
// lookup so raw literals can be rebound to promoted names.
type Set struct {
	bindings []*Binding
	byKey    map[string]*Binding // category|default-value -> first binding
	byName   map[string]*Binding
	modes    []string
}

// Bindings returns the tokens in creation order: variable-bound first,
// then literal promotions in scale order, then breakpoints ascending.
func (s *Set) Bindings() []*Binding {
	out := make([]*Binding, len(s.bindings))
	copy(out, s.bindings)
	return out
}

// Len returns the number of tokens.
func (s *Set) Len() int { return len(s.bindings) }

// Modes returns the mode keys in render order, default mode first.
func (s *Set) Modes() []string {
	out := make([]string, len(s.modes))
	copy(out, s.modes)
	return out
}

// Lookup reports whether a canonical literal was promoted in a category,
// returning the token name. Matching is exact; no tolerance.
func (s *Set) Lookup(category, value string) (string, bool) {
	b, ok := s.byKey[category+"|"+value]
	if !ok {
		return "", false
	}
	return b.Name, true
}

// ByName returns a binding by its token name.
func (s *Set) ByName(name string) (*Binding, bool) {
	b, ok := s.byName[name]
	return b, ok
}

// Collect walks the extraction alongside its layout and visual results
// and builds the token set. Traversal order is the tree's, so the
// resulting set is deterministic for a given input.
func Collect(ext *extractor.Extraction, lay *layout.Result, styles map[string]*visual.Style, opts Options) *Set {
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultThreshold
	}
	if opts.Report == nil {
		opts.Report = report.New()
	}

	c := &collector{
		opts:    opts,
		set:     &Set{byKey: make(map[string]*Binding), byName: make(map[string]*Binding)},
		counts:  make(map[string]*occurrence),
		claimed: make(map[string]bool),
	}
	if opts.Variables != nil {
		c.set.modes = opts.Variables.ModeNames()
	}

	ext.Walk(func(n *extractor.Node) bool {
		c.gatherBindings(n)
		return true
	})
	ext.Walk(func(n *extractor.Node) bool {
		if lay != nil {
			c.gatherLayout(n, lay.Spec(n.ID))
		}
		if styles != nil {
			c.gatherStyle(n, styles[n.ID])
		}
		return true
	})

	c.promoteLiterals()
	if lay != nil {
		c.promoteBreakpoints(lay.Families)
	}
	return c.set
}

type occurrence struct {
	category string
	value    string
	sortKey  float64
	count    int
	order    int
	refs     []Ref
	refSeen  map[Ref]bool
}

type collector struct {
	opts    Options
	set     *Set
	counts  map[string]*occurrence
	order   int
	claimed map[string]bool // variable IDs already promoted
}

// gatherBindings promotes every design-variable binding reachable from
// the node: per-paint-entry bindings first, then node-level ones in
// sorted property order.
func (c *collector) gatherBindings(n *extractor.Node) {
	for i := range n.Visual.Fills {
		c.variable(n, "fills", n.Visual.Fills[i].BoundVariables)
	}
	for i := range n.Visual.Strokes {
		c.variable(n, "strokes", n.Visual.Strokes[i].BoundVariables)
	}
	props := make([]string, 0, len(n.Visual.Bindings))
	for prop := range n.Visual.Bindings {
		props = append(props, prop)
	}
	sort.Strings(props)
	for _, prop := range props {
		alias := n.Visual.Bindings[prop]
		c.promoteVariable(n, prop, alias.ID)
	}
}

func (c *collector) variable(n *extractor.Node, prop string, bound map[string]figma.VariableAlias) {
	if len(bound) == 0 {
		return
	}
	keys := make([]string, 0, len(bound))
	for k := range bound {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		c.promoteVariable(n, prop, bound[k].ID)
	}
}

// promoteVariable creates (or extends) the binding for a design
// variable. Promotion is unconditional; the threshold only governs
// literals.
func (c *collector) promoteVariable(n *extractor.Node, prop, varID string) {
	vars := c.opts.Variables
	if vars == nil || varID == "" {
		return
	}
	name := vars.NameOf(varID)
	if name == "" {
		c.opts.Report.Addf(report.KindResolutionExhausted, report.StageTokens, n.ID, n.Name,
			"binding %s references unknown variable %s", prop, varID)
		return
	}

	def, ok := vars.ValueFor(varID, "")
	if !ok {
		c.opts.Report.Addf(report.KindResolutionExhausted, report.StageTokens, n.ID, n.Name,
			"variable %s has no resolvable value", name)
		return
	}
	category := variableCategory(prop, def)
	if category == "" {
		return
	}

	if c.claimed[varID] {
		if b, ok := c.set.byName[css.TokenName(category, name)]; ok {
			b.addRef(Ref{NodeID: n.ID, Property: prop})
		}
		return
	}
	c.claimed[varID] = true

	b := &Binding{
		Name:     css.TokenName(category, name),
		Category: category,
		Values:   make(map[string]string),
	}
	for _, mode := range c.set.modes {
		if v, ok := vars.ValueFor(varID, mode); ok {
			if text := valueText(category, v); text != "" {
				b.Values[mode] = text
			}
		}
	}
	if len(b.Values) == 0 {
		b.Values[""] = valueText(category, def)
	} else {
		b.Default = defaultMode(c.set.modes, b.Values)
	}
	b.addRef(Ref{NodeID: n.ID, Property: prop})
	c.set.add(b, valueText(category, def))
}

// defaultMode picks the first mode in render order that carries a value.
func defaultMode(modes []string, values map[string]string) string {
	for _, m := range modes {
		if _, ok := values[m]; ok {
			return m
		}
	}
	return ""
}

func variableCategory(prop string, v figma.VariableValue) string {
	if v.Kind == figma.ValueColor {
		return CategoryColor
	}
	if v.Kind != figma.ValueNumber {
		return ""
	}
	switch prop {
	case "cornerRadius":
		return CategoryRadius
	case "fontSize":
		return CategoryText
	case "itemSpacing", "counterAxisSpacing", "gap",
		"paddingLeft", "paddingRight", "paddingTop", "paddingBottom":
		return CategorySpacing
	}
	return ""
}

func valueText(category string, v figma.VariableValue) string {
	switch v.Kind {
	case figma.ValueColor:
		if v.Color == nil {
			return ""
		}
		return css.Hex(*v.Color)
	case figma.ValueNumber:
		if category == CategoryText || category == CategoryRadius || category == CategorySpacing {
			return css.Px(v.Num)
		}
		return css.Number(v.Num)
	case figma.ValueString:
		return v.Str
	}
	return ""
}

// gatherLayout counts spacing literals: gaps and padding edges, each
// distinct value once per node so a uniform padding does not promote
// itself.
func (c *collector) gatherLayout(n *extractor.Node, sp *layout.Spec) {
	if sp == nil || !sp.IsContainer {
		return
	}
	seen := make(map[float64]bool)
	note := func(v float64, prop string) {
		if v <= 0 || seen[v] {
			return
		}
		seen[v] = true
		c.note(CategorySpacing, css.Px(v), v, n.ID, prop)
	}
	note(sp.Gap, "gap")
	if sp.CounterGap != nil {
		note(*sp.CounterGap, "gap")
	}
	note(sp.Padding.Top, "padding")
	note(sp.Padding.Right, "padding")
	note(sp.Padding.Bottom, "padding")
	note(sp.Padding.Left, "padding")
}

// gatherStyle counts the node's literal colors, radius, shadow stack,
// and font size. Variable-resolved values are already promoted and
// transparent fallbacks never promote.
func (c *collector) gatherStyle(n *extractor.Node, st *visual.Style) {
	if st == nil {
		return
	}
	for i := range st.Layers {
		c.color(n.ID, "background", st.Layers[i].Color)
		for j := range st.Layers[i].Stops {
			c.color(n.ID, "background", st.Layers[i].Stops[j].Color)
		}
	}
	if st.Border != nil {
		c.color(n.ID, "border", st.Border.Color)
	}
	for i := range st.Shadows {
		c.color(n.ID, "box-shadow", st.Shadows[i].Color)
	}
	if len(st.Shadows) > 0 {
		c.note(CategoryShadow, st.ShadowCSS(), shadowSortKey(st.Shadows), n.ID, "box-shadow")
	}
	if v, ok := st.Radius.Uniform(); ok && v.Provenance == css.ProvRaw && v.Raw != "0" {
		c.note(CategoryRadius, v.Raw, pxValue(v.Raw), n.ID, "border-radius")
	}
	if st.Text != nil {
		c.color(n.ID, "color", st.Text.Color)
		if sz := st.Text.Size; sz.Provenance == css.ProvRaw && sz.Raw != "" {
			c.note(CategoryText, sz.Raw, pxValue(sz.Raw), n.ID, "font-size")
		}
	}
}

func (c *collector) color(nodeID, prop string, v visual.Value) {
	if v.Provenance != css.ProvRaw || v.Raw == "" || v.Raw == "#00000000" {
		return
	}
	c.note(CategoryColor, v.Raw, 0, nodeID, prop)
}

func (c *collector) note(category, value string, sortKey float64, nodeID, prop string) {
	key := category + "|" + value
	occ, ok := c.counts[key]
	if !ok {
		occ = &occurrence{
			category: category,
			value:    value,
			sortKey:  sortKey,
			order:    c.order,
			refSeen:  make(map[Ref]bool),
		}
		c.order++
		c.counts[key] = occ
	}
	occ.count++
	ref := Ref{NodeID: nodeID, Property: prop}
	if !occ.refSeen[ref] {
		occ.refSeen[ref] = true
		occ.refs = append(occ.refs, ref)
	}
}

// promoteLiterals names and registers every literal at or above the
// threshold, category by category in scale order.
func (c *collector) promoteLiterals() {
	var eligible []*occurrence
	for _, occ := range c.counts {
		if occ.count < c.opts.Threshold {
			continue
		}
		if _, taken := c.set.byKey[occ.category+"|"+occ.value]; taken {
			// A variable already owns this exact value; the literal
			// sites resolve through it.
			continue
		}
		eligible = append(eligible, occ)
	}
	sort.Slice(eligible, func(i, j int) bool {
		if eligible[i].category != eligible[j].category {
			return categoryRank(eligible[i].category) < categoryRank(eligible[j].category)
		}
		if eligible[i].sortKey != eligible[j].sortKey {
			return eligible[i].sortKey < eligible[j].sortKey
		}
		return eligible[i].order < eligible[j].order
	})

	byCategory := make(map[string][]*occurrence)
	for _, occ := range eligible {
		byCategory[occ.category] = append(byCategory[occ.category], occ)
	}

	nameColors(c.set, byCategory[CategoryColor])
	nameScale(c.set, byCategory[CategorySpacing], CategorySpacing, spacingLadder)
	nameScale(c.set, byCategory[CategoryText], CategoryText, textLadder)
	nameScale(c.set, byCategory[CategoryRadius], CategoryRadius, radiusLadder)
	nameScale(c.set, byCategory[CategoryShadow], CategoryShadow, shadowLadder)
}

// promoteBreakpoints registers one token per responsive override
// threshold, ascending and mobile-first.
func (c *collector) promoteBreakpoints(families []layout.Family) {
	type bp struct {
		label string
		width float64
		node  string
	}
	var all []bp
	seen := make(map[string]bool)
	for _, f := range families {
		for _, o := range f.Overrides {
			if seen[o.Label] {
				continue
			}
			seen[o.Label] = true
			all = append(all, bp{label: o.Label, width: o.MinWidth, node: o.NodeID})
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].width < all[j].width })
	for _, b := range all {
		c.set.add(&Binding{
			Name:     css.TokenName(CategoryBreakpoint, b.label),
			Category: CategoryBreakpoint,
			Values:   map[string]string{"": css.Px(b.width)},
			Refs:     []Ref{{NodeID: b.node, Property: "min-width"}},
		}, css.Px(b.width))
	}
}

func (s *Set) add(b *Binding, defaultValue string) {
	b.Name = s.uniqueName(b.Name)
	s.bindings = append(s.bindings, b)
	s.byName[b.Name] = b
	key := b.Category + "|" + defaultValue
	if _, taken := s.byKey[key]; !taken && defaultValue != "" {
		s.byKey[key] = b
	}
}

// uniqueName suffixes a numeric counter when a token name is taken.
func (s *Set) uniqueName(name string) string {
	if _, taken := s.byName[name]; !taken {
		return name
	}
	for i := 2; ; i++ {
		candidate := name + "-" + strconv.Itoa(i)
		if _, taken := s.byName[candidate]; !taken {
			return candidate
		}
	}
}

func (b *Binding) addRef(r Ref) {
	for _, have := range b.Refs {
		if have == r {
			return
		}
	}
	b.Refs = append(b.Refs, r)
}

func categoryRank(category string) int {
	switch category {
	case CategoryColor:
		return 0
	case CategorySpacing:
		return 1
	case CategoryText:
		return 2
	case CategoryRadius:
		return 3
	case CategoryShadow:
		return 4
	default:
		return 5
	}
}

func pxValue(s string) float64 {
	s = strings.TrimSuffix(s, "px")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func shadowSortKey(shadows []visual.Shadow) float64 {
	var k float64
	for _, sh := range shadows {
		k += sh.Blur + sh.Spread
	}
	return k
}
