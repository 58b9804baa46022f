package extractor

import (
	"github.com/hellenic-development/figma-codegen/pkg/figma"
)

// Kind is the closed set of node categories the pipeline understands.
// Classification happens once, during extraction; downstream stages switch
// on Kind instead of re-checking optional source fields.
type Kind uint8

const (
	// KindFrame is a layout-capable container: frames, components, and
	// component sets.
	KindFrame Kind = iota + 1

	// KindGroup is a non-layout grouping construct. Groups do not
	// establish a coordinate frame; their children's positions are
	// normalized against the nearest enclosing frame.
	KindGroup

	// KindText is a text leaf with content and type styling.
	KindText

	// KindVector is a drawable shape leaf: vectors, boolean operations,
	// stars, lines, ellipses, polygons, and rectangles. Vector children
	// are never expanded into markup.
	KindVector

	// KindInstance is a component instance. The component definition is
	// looked up through the extraction's component arena by key, never
	// held as a pointer, so the tree stays acyclic.
	KindInstance

	// KindVectorContainer is a container whose entire subtree is
	// vector-compatible, collapsed into a single exportable graphic
	// unit instead of a nested markup tree.
	KindVectorContainer

	// KindPlaceholder is an inert stand-in for an unsupported node
	// type. The original type is preserved in SourceType so the output
	// can be located and resolved by hand.
	KindPlaceholder
)

var kindNames = map[Kind]string{
	KindFrame:           "frame",
	KindGroup:           "group",
	KindText:            "text",
	KindVector:          "vector",
	KindInstance:        "instance",
	KindVectorContainer: "vector-container",
	KindPlaceholder:     "placeholder",
}

// String returns the kind's lowercase name.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Container reports whether nodes of this kind carry markup children.
func (k Kind) Container() bool {
	return k == KindFrame || k == KindGroup || k == KindInstance
}

// Rect is a bounding box. Node bounds are frame-relative after extraction:
// X and Y are offsets from the nearest enclosing frame, not canvas
// coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Edges holds per-side padding values in CSS order.
type Edges struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Uniform reports whether all four sides are equal.
func (e Edges) Uniform() bool {
	return e.Top == e.Right && e.Right == e.Bottom && e.Bottom == e.Left
}

// Zero reports whether no side has padding.
func (e Edges) Zero() bool {
	return e == Edges{}
}

// LayoutProps carries the source layout configuration of a node, copied
// verbatim so the layout stage never touches the raw tree. Both the
// per-axis sizing fields and the legacy grow/align encoding are kept;
// interpretation reconciles them.
type LayoutProps struct {
	Mode       string   `json:"mode,omitempty"` // "", HORIZONTAL, VERTICAL
	Wrap       bool     `json:"wrap,omitempty"`
	Gap        float64  `json:"gap,omitempty"`
	CounterGap *float64 `json:"counterGap,omitempty"` // nil follows Gap
	Padding    Edges    `json:"padding"`

	SizingHorizontal string `json:"sizingHorizontal,omitempty"` // FIXED, HUG, FILL
	SizingVertical   string `json:"sizingVertical,omitempty"`

	// Legacy sizing encoding from older exports.
	PrimaryAxisSizing string  `json:"primaryAxisSizing,omitempty"` // FIXED, AUTO
	CounterAxisSizing string  `json:"counterAxisSizing,omitempty"`
	Grow              float64 `json:"grow,omitempty"`
	Align             string  `json:"align,omitempty"` // INHERIT, STRETCH, MIN, CENTER, MAX

	JustifyContent string `json:"justifyContent,omitempty"` // MIN, CENTER, MAX, SPACE_BETWEEN
	AlignItems     string `json:"alignItems,omitempty"`     // MIN, CENTER, MAX, BASELINE

	MinWidth  *float64 `json:"minWidth,omitempty"`
	MaxWidth  *float64 `json:"maxWidth,omitempty"`
	MinHeight *float64 `json:"minHeight,omitempty"`
	MaxHeight *float64 `json:"maxHeight,omitempty"`
}

// VisualProps carries the paint, stroke, effect, and corner data of a node
// plus its variable bindings. Paint lists keep source order
// (bottom-to-top); the visual stage reverses for emission.
type VisualProps struct {
	Fills        []figma.Paint                  `json:"fills,omitempty"`
	Strokes      []figma.Paint                  `json:"strokes,omitempty"`
	StrokeWeight float64                        `json:"strokeWeight,omitempty"`
	StrokeAlign  string                         `json:"strokeAlign,omitempty"`
	CornerRadius float64                        `json:"cornerRadius,omitempty"`
	CornerRadii  []float64                      `json:"cornerRadii,omitempty"` // per-corner, clockwise from top-left
	Effects      []figma.Effect                 `json:"effects,omitempty"`
	Opacity      float64                        `json:"opacity"`
	BlendMode    string                         `json:"blendMode,omitempty"`
	Background   *figma.Color                   `json:"background,omitempty"`
	Bindings     map[string]figma.VariableAlias `json:"bindings,omitempty"`
}

// TextProps is the payload of text nodes.
type TextProps struct {
	Characters string           `json:"characters"`
	Style      *figma.TypeStyle `json:"style,omitempty"`
}

// Node is the pipeline's intermediate form of a design node: classified,
// coordinate-normalized, and stripped of source-format irregularities.
// Nodes are immutable once extraction returns; every later stage reads,
// none writes.
type Node struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Kind       Kind   `json:"kind"`
	SourceType string `json:"sourceType"`

	Bounds    Rect    `json:"bounds"`
	Absolute  Rect    `json:"absolute"`
	HasBounds bool    `json:"hasBounds"`
	Rotation  float64 `json:"rotation,omitempty"`

	Layout LayoutProps `json:"layout"`
	Visual VisualProps `json:"visual"`
	Text   *TextProps  `json:"text,omitempty"`

	// ComponentKey is set on instances and resolves through the
	// extraction's component arena.
	ComponentKey      string            `json:"componentKey,omitempty"`
	VariantProperties map[string]string `json:"variantProperties,omitempty"`

	// ContentHash fingerprints vector leaves and vector containers by
	// their drawn content, independent of canvas position, so identical
	// graphics deduplicate in the asset manifest.
	ContentHash string `json:"contentHash,omitempty"`

	// Interactive marks prototype click targets: nodes wired with a
	// transition destination.
	Interactive bool `json:"interactive,omitempty"`

	// Exportable marks nodes the designer flagged with export presets.
	Exportable    bool     `json:"exportable,omitempty"`
	ExportFormats []string `json:"exportFormats,omitempty"`

	// Truncated marks a node whose children were cut by the depth cap.
	Truncated bool `json:"truncated,omitempty"`

	Depth    int     `json:"depth"`
	Children []*Node `json:"children,omitempty"`
}

// Walk visits the node and its descendants depth-first in child order.
// Returning false from fn skips the node's subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// Component is one arena entry: a component definition referenced by
// instances through its key.
type Component struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	NodeID      string `json:"nodeId"`
}

// Stats summarizes an extraction for reporting.
type Stats struct {
	Nodes            int
	Placeholders     int
	VectorContainers int
	Truncated        int
	MaxDepth         int
}

// Extraction is the complete output of the extract stage: the normalized
// root nodes, the component arena, and the variable table carried through
// for later resolution stages.
type Extraction struct {
	FileName   string
	Roots      []*Node
	Components []Component
	Variables  *figma.VariableTable
	Stats      Stats

	byKey    map[string]int
	byNodeID map[string]int
}

// Component looks up an arena entry by component key.
func (e *Extraction) Component(key string) (Component, bool) {
	i, ok := e.byKey[key]
	if !ok {
		return Component{}, false
	}
	return e.Components[i], true
}

// Walk visits every extracted node depth-first across all roots.
// Returning false from fn skips that node's subtree.
func (e *Extraction) Walk(fn func(*Node) bool) {
	for _, root := range e.Roots {
		root.Walk(fn)
	}
}

// registerComponent adds a definition to the arena, indexed by key and by
// defining node ID. Re-registering a key updates nothing; first entry wins.
func (e *Extraction) registerComponent(c Component) {
	if c.Key == "" {
		c.Key = c.NodeID
	}
	if _, exists := e.byKey[c.Key]; exists {
		return
	}
	e.Components = append(e.Components, c)
	e.byKey[c.Key] = len(e.Components) - 1
	if c.NodeID != "" {
		e.byNodeID[c.NodeID] = len(e.Components) - 1
	}
}

// componentKeyFor maps a source component ID to an arena key, falling back
// to the raw ID for instances whose definition is not in the catalog.
func (e *Extraction) componentKeyFor(componentID string) string {
	if i, ok := e.byNodeID[componentID]; ok {
		return e.Components[i].Key
	}
	return componentID
}
