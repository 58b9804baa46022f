// Package semantic turns resolved nodes into generated elements: tag
// names chosen by a fixed decision tree, flat BEM class names, layout
// utilities, scoped declarations, and accessibility attributes. It
// consumes every upstream result read-only and is the last stage that
// makes decisions; the emitter only serializes.
package semantic

import (
	"github.com/hellenic-development/figma-codegen/pkg/css"
	"github.com/hellenic-development/figma-codegen/pkg/extractor"
	"github.com/hellenic-development/figma-codegen/pkg/layout"
	"github.com/hellenic-development/figma-codegen/pkg/report"
	"github.com/hellenic-development/figma-codegen/pkg/visual"
)

// Attr is one markup attribute. Order is emission order.
type Attr struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Utility is a layout-derived utility class together with its defining
// declaration. The class appears on the element; the definition is
// collected once into the utility layer.
type Utility struct {
	Class string          `json:"class"`
	Decl  css.Declaration `json:"decl"`
}

// Element is the generated form of one node: everything the emitter
// needs and nothing it has to decide.
type Element struct {
	NodeID string `json:"nodeId"`
	Name   string `json:"name"`
	Tag    string `json:"tag"`

	// Class is the element's BEM class: the block name on block roots,
	// block__element everywhere below.
	Class string `json:"class"`

	Attrs     []Attr    `json:"attrs,omitempty"`
	Utilities []Utility `json:"utilities,omitempty"`

	// Scoped holds the layout declarations that have no utility form;
	// they render under .Class in the component layer, ahead of the
	// node's visual declarations which the emitter renders itself so
	// asset references resolve against the final manifest.
	Scoped []css.Declaration `json:"scoped,omitempty"`

	// Text is the character content of text leaves.
	Text string `json:"text,omitempty"`

	Children []*Element `json:"children,omitempty"`
}

// Classes returns the full class list in emission order: the BEM class
// first, utilities after.
func (e *Element) Classes() []string {
	out := make([]string, 0, 1+len(e.Utilities))
	if e.Class != "" {
		out = append(out, e.Class)
	}
	for _, u := range e.Utilities {
		out = append(out, u.Class)
	}
	return out
}

// Walk visits the element and its descendants depth-first in child
// order. Returning false skips the subtree.
func (e *Element) Walk(fn func(*Element) bool) {
	if e == nil || !fn(e) {
		return
	}
	for _, c := range e.Children {
		c.Walk(fn)
	}
}

// setAttr sets an attribute, replacing an earlier value for the same key
// so checklist rules stay independent without duplicating keys.
func (e *Element) setAttr(key, value string) {
	for i := range e.Attrs {
		if e.Attrs[i].Key == key {
			e.Attrs[i].Value = value
			return
		}
	}
	e.Attrs = append(e.Attrs, Attr{Key: key, Value: value})
}

// Attr returns an attribute value by key.
func (e *Element) Attr(key string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// Options configures semantic assignment.
type Options struct {
	// Report receives diagnostics. A fresh report is allocated when nil.
	Report *report.Report
}

// Assign generates one element tree per non-variant root. Responsive
// variant roots were folded into their family's media overrides and emit
// no markup of their own. Styles should already be rebound so scoped
// values reference promoted tokens.
func Assign(ext *extractor.Extraction, lay *layout.Result, styles map[string]*visual.Style, opts Options) []*Element {
	if opts.Report == nil {
		opts.Report = report.New()
	}
	a := &assigner{
		lay:    lay,
		styles: styles,
		rep:    opts.Report,
		names:  newClassTable(),
	}
	a.body, a.rank = headingRanks(ext, styles)

	var out []*Element
	for _, root := range ext.Roots {
		if lay != nil && lay.IsVariant(root.ID) {
			continue
		}
		a.prev, a.h1Done = 0, false
		out = append(out, a.element(root, cursor{root: root, landmarks: &landmarkState{}}))
	}
	return out
}

type assigner struct {
	lay    *layout.Result
	styles map[string]*visual.Style
	rep    *report.Report
	names  *classTable

	body float64         // document body font size
	rank map[float64]int // font size -> nominal heading level

	prev   int // last assigned heading level within the current root
	h1Done bool
}

// cursor carries the ancestor context down the traversal.
type cursor struct {
	block     string          // claimed class of the nearest block ancestor
	root      *extractor.Node // root frame, for landmark geometry
	underRoot bool            // node is a direct child of the root
	floor     int             // minimum heading level imposed by ancestors
	inList    bool            // parent element is a ul
	landmarks *landmarkState
}

// landmarkState claims each page region at most once per root.
type landmarkState struct {
	header, footer, aside, main bool
}

func (a *assigner) element(n *extractor.Node, cur cursor) *Element {
	el := &Element{NodeID: n.ID, Name: n.Name}

	childBlock := cur.block
	if startsBlock(n, cur) {
		block := a.names.claim(baseName(n))
		el.Class = block
		childBlock = block
	} else {
		el.Class = a.names.claim(cur.block + "__" + baseName(n))
	}

	el.Tag = a.tag(n, cur)
	if n.Kind == extractor.KindText && n.Text != nil {
		el.Text = n.Text.Characters
	}
	if n.Kind == extractor.KindPlaceholder {
		el.setAttr("data-source-type", n.SourceType)
		el.setAttr("aria-hidden", "true")
	}
	if n.Truncated {
		el.setAttr("data-truncated", "true")
	}

	a.placeStyles(el, n)
	a.accessibility(el, n)

	if n.Kind == extractor.KindVector || n.Kind == extractor.KindVectorContainer {
		return el // collapsed graphic units never expand children
	}

	next := cursor{
		block:     childBlock,
		root:      cur.root,
		underRoot: n == cur.root,
		floor:     cur.floor,
		inList:    el.Tag == "ul",
		landmarks: cur.landmarks,
	}
	for _, child := range n.Children {
		ce := a.element(child, next)
		el.Children = append(el.Children, ce)
		// A direct heading child titles this container: everything after
		// it sits under that title and may not outrank it.
		if lvl := headingLevel(ce.Tag); lvl > next.floor {
			next.floor = lvl
		}
	}
	return el
}

// tag runs the decision tree: explicit name match, interactive
// affordance, landmark geometry, then the generic fallback. Text chooses
// among headings, p, span, and label instead.
func (a *assigner) tag(n *extractor.Node, cur cursor) string {
	switch n.Kind {
	case extractor.KindText:
		return a.textTag(n, cur.floor)
	case extractor.KindVector, extractor.KindVectorContainer:
		return "img"
	case extractor.KindPlaceholder:
		return "div"
	}

	if tag := nameTag(n); tag != "" {
		return tag
	}
	if n.Interactive || buttonLike(n, a.styles[n.ID]) {
		return "button"
	}
	if lm := landmarkTag(n, cur); lm != "" {
		return lm
	}
	if cur.inList {
		return "li"
	}
	return "div"
}

// buttonLike reports whether an unnamed container has click-target
// geometry: compact, painted, and carrying at most a label and an icon.
func buttonLike(n *extractor.Node, st *visual.Style) bool {
	if !n.HasBounds || len(n.Children) == 0 || len(n.Children) > 2 {
		return false
	}
	if n.Bounds.Height < 24 || n.Bounds.Height > 64 || n.Bounds.Width > 320 {
		return false
	}
	if st == nil || (len(st.Layers) == 0 && st.Border == nil) {
		return false
	}
	hasText := false
	for _, c := range n.Children {
		switch c.Kind {
		case extractor.KindText:
			hasText = true
		case extractor.KindVector, extractor.KindVectorContainer:
		default:
			return false
		}
	}
	return hasText
}

// landmarkTag maps page-region geometry onto landmarks, each claimed at
// most once per root: a full-width top strip is the header, a full-width
// bottom strip the footer, a tall edge column an aside, and a dominant
// central region the main content.
func landmarkTag(n *extractor.Node, cur cursor) string {
	if !cur.underRoot || !n.HasBounds || cur.root == nil || !cur.root.HasBounds || cur.landmarks == nil {
		return ""
	}
	rw, rh := cur.root.Bounds.Width, cur.root.Bounds.Height
	if rw <= 0 || rh <= 0 {
		return ""
	}
	b := n.Bounds
	fullWidth := b.Width >= 0.9*rw
	strip := b.Height <= 0.25*rh

	switch {
	case fullWidth && strip && b.Y <= 0.1*rh && !cur.landmarks.header:
		cur.landmarks.header = true
		return "header"
	case fullWidth && strip && b.Y+b.Height >= 0.9*rh && !cur.landmarks.footer:
		cur.landmarks.footer = true
		return "footer"
	case b.Height >= 0.7*rh && b.Width <= 0.3*rw &&
		(b.X <= 0.05*rw || b.X+b.Width >= 0.95*rw) && !cur.landmarks.aside:
		cur.landmarks.aside = true
		return "aside"
	case b.Width*b.Height >= 0.5*rw*rh && !cur.landmarks.main:
		cur.landmarks.main = true
		return "main"
	}
	return ""
}

// placeStyles routes the node's layout declarations: recognized ones
// become utility classes, the rest stay scoped to the element's class.
// Visual declarations are the emitter's to render, against the final
// asset manifest.
func (a *assigner) placeStyles(el *Element, n *extractor.Node) {
	if a.lay == nil {
		return
	}
	sp := a.lay.Spec(n.ID)
	if sp == nil {
		return
	}
	for _, d := range sp.Declarations() {
		if class := utilityClass(d); class != "" {
			el.Utilities = append(el.Utilities, Utility{Class: class, Decl: d})
		} else {
			el.Scoped = append(el.Scoped, d)
		}
	}
}
