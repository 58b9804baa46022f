package layout

import (
	"sort"
	"strings"

	"github.com/hellenic-development/figma-codegen/pkg/css"
	"github.com/hellenic-development/figma-codegen/pkg/extractor"
)

// Family is a responsive frame family: sibling frames representing one
// component at different breakpoints, folded into a single mobile-first
// rule set. The smallest frame supplies the base rules; each larger frame
// becomes an ascending min-width override carrying only what differs.
type Family struct {
	Stem      string
	BaseID    string
	BaseWidth float64
	Overrides []Override
}

// Override is one breakpoint's delta against the family base.
type Override struct {
	NodeID       string
	Label        string
	MinWidth     float64
	Declarations []css.Declaration
}

// Matcher detects whether a top-level frame participates in a responsive
// family. Implementations are pluggable so stricter metadata-driven
// strategies can replace name conventions without touching the
// interpreter.
type Matcher interface {
	// Match reports the family stem the frame belongs to and the
	// breakpoint label when the frame carries an explicit marker. The
	// label is empty for bare base candidates. ok=false means the
	// matcher has no opinion and the next one is consulted.
	Match(n *extractor.Node) (stem, label string, ok bool)
}

// SuffixMatcher groups frames by a shared name stem plus a
// breakpoint-indicating suffix after a delimiter, e.g. "Card",
// "Card#tablet", "Card#desktop". Every frame matches: unsuffixed names
// are base candidates under their own stem.
type SuffixMatcher struct {
	// Delimiters tried in order; empty means "#", "@", "/".
	Delimiters []string
}

// Match implements Matcher.
func (m SuffixMatcher) Match(n *extractor.Node) (string, string, bool) {
	delims := m.Delimiters
	if len(delims) == 0 {
		delims = []string{"#", "@", "/"}
	}
	name := strings.TrimSpace(n.Name)
	for _, d := range delims {
		if i := strings.Index(name, d); i > 0 {
			stem := strings.TrimSpace(name[:i])
			label := strings.TrimSpace(name[i+len(d):])
			if label != "" {
				return stem, label, true
			}
		}
	}
	return name, "", true
}

// VariantMatcher groups component instances by a breakpoint-carrying
// variant property, e.g. Breakpoint=Desktop. Frames without the property
// fall through to the next matcher.
type VariantMatcher struct {
	// Property is the variant property name; empty means "Breakpoint".
	Property string
}

// Match implements Matcher.
func (m VariantMatcher) Match(n *extractor.Node) (string, string, bool) {
	prop := m.Property
	if prop == "" {
		prop = "Breakpoint"
	}
	label := ""
	for k, v := range n.VariantProperties {
		if strings.EqualFold(k, prop) {
			label = v
			break
		}
	}
	if label == "" {
		return "", "", false
	}
	stem := n.ComponentKey
	if stem == "" {
		stem = strings.TrimSpace(n.Name)
	}
	return stem, label, true
}

type familyMember struct {
	node  *extractor.Node
	label string
	order int
}

// synthesizeFamilies groups the top-level roots through the matcher chain
// and folds each qualifying group into a Family. A group qualifies when it
// has at least two members, all with bounds, and at least one explicit
// breakpoint marker. Same-named frames without any marker stay
// independent.
func synthesizeFamilies(roots []*extractor.Node, specs map[string]*Spec, matchers []Matcher, breakpoints map[string]float64) []Family {
	groups := make(map[string][]familyMember)
	var stems []string

	for i, root := range roots {
		stem, label, ok := "", "", false
		for _, m := range matchers {
			if stem, label, ok = m.Match(root); ok {
				break
			}
		}
		if !ok || stem == "" {
			continue
		}
		if _, seen := groups[stem]; !seen {
			stems = append(stems, stem)
		}
		groups[stem] = append(groups[stem], familyMember{node: root, label: label, order: i})
	}

	var families []Family
	for _, stem := range stems {
		members := groups[stem]
		if len(members) < 2 {
			continue
		}
		marked, bounded := false, true
		for _, m := range members {
			if m.label != "" {
				marked = true
			}
			if !m.node.HasBounds {
				bounded = false
			}
		}
		if !marked || !bounded {
			continue
		}

		sort.SliceStable(members, func(i, j int) bool {
			wi, wj := members[i].node.Bounds.Width, members[j].node.Bounds.Width
			if wi != wj {
				return wi < wj
			}
			return members[i].order < members[j].order
		})

		base := members[0]
		baseSpec := specs[base.node.ID]
		fam := Family{
			Stem:      stem,
			BaseID:    base.node.ID,
			BaseWidth: base.node.Bounds.Width,
		}
		for _, m := range members[1:] {
			spec := specs[m.node.ID]
			label := m.label
			if label == "" {
				label = css.Number(m.node.Bounds.Width)
			}
			spec.Breakpoint = label
			fam.Overrides = append(fam.Overrides, Override{
				NodeID:       m.node.ID,
				Label:        label,
				MinWidth:     thresholdFor(label, m.node.Bounds.Width, breakpoints),
				Declarations: overrideDeclarations(baseSpec, spec),
			})
		}
		sort.SliceStable(fam.Overrides, func(i, j int) bool {
			return fam.Overrides[i].MinWidth < fam.Overrides[j].MinWidth
		})
		families = append(families, fam)
	}
	return families
}

// thresholdFor resolves an explicit label through the breakpoint table,
// trying the exact label and its lowercase form. Unknown labels use the
// variant frame's own width as the threshold.
func thresholdFor(label string, width float64, table map[string]float64) float64 {
	if v, ok := table[label]; ok {
		return v
	}
	if v, ok := table[strings.ToLower(label)]; ok {
		return v
	}
	return width
}

// initialValues maps our emitted properties to the value that restores
// default behavior when a base declaration must be switched off inside an
// override.
var initialValues = map[string]string{
	"display":         "block",
	"flex-direction":  "row",
	"flex-wrap":       "nowrap",
	"justify-content": "flex-start",
	"align-items":     "flex-start",
	"gap":             "0",
	"padding":         "0",
	"width":           "auto",
	"height":          "auto",
	"flex-grow":       "0",
	"flex-shrink":     "1",
	"flex-basis":      "auto",
	"align-self":      "auto",
	"min-width":       "none",
	"max-width":       "none",
	"min-height":      "none",
	"max-height":      "none",
}

// resetProperties are re-emitted in full whenever the layout direction
// changes between breakpoints, so stale base values never leak through
// the cascade into the new arrangement.
var resetProperties = []string{"align-items", "flex-grow", "flex-shrink", "flex-basis"}

// overrideDeclarations computes the delta between the base spec and a
// breakpoint variant: changed and added properties in the variant's
// order, then base properties the variant dropped (restored to initial),
// then the direction-change reset list.
func overrideDeclarations(base, variant *Spec) []css.Declaration {
	baseDecls := base.Declarations()
	varDecls := variant.Declarations()

	baseByProp := make(map[string]string, len(baseDecls))
	for _, d := range baseDecls {
		baseByProp[d.Property] = d.Value
	}
	varByProp := make(map[string]string, len(varDecls))
	for _, d := range varDecls {
		varByProp[d.Property] = d.Value
	}

	var out []css.Declaration
	emitted := make(map[string]bool)
	add := func(prop, val string) {
		if emitted[prop] {
			return
		}
		emitted[prop] = true
		out = append(out, css.Declaration{Property: prop, Value: val})
	}

	for _, d := range varDecls {
		if baseVal, ok := baseByProp[d.Property]; !ok || baseVal != d.Value {
			add(d.Property, d.Value)
		}
	}
	for _, d := range baseDecls {
		if _, ok := varByProp[d.Property]; !ok {
			if init, known := initialValues[d.Property]; known {
				add(d.Property, init)
			}
		}
	}

	if base.Direction != variant.Direction || base.IsContainer != variant.IsContainer {
		for _, prop := range resetProperties {
			if val, ok := varByProp[prop]; ok {
				add(prop, val)
			} else {
				add(prop, initialValues[prop])
			}
		}
	}
	return out
}
