package figma

// Version is the current figma-codegen release version.
const Version = "0.1.0"

// File represents a complete design document as supplied by the design
// source: file metadata, the document root node, the component catalog, and
// an optional embedded variable table. The pipeline never fetches this
// itself; callers hand over an already-fetched tree.
type File struct {
	Name          string               `json:"name"`
	LastModified  string               `json:"lastModified,omitempty"`
	Version       string               `json:"version,omitempty"`
	Document      Node                 `json:"document"`
	Components    map[string]Component `json:"components,omitempty"`
	Variables     *VariableTable       `json:"variables,omitempty"`
	SchemaVersion int                  `json:"schemaVersion,omitempty"`
}

// Component represents a component definition with its metadata.
// Components are reusable design elements instantiated throughout the file;
// instances reference them by key.
type Component struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Node represents a single element in the design document tree.
// Nodes can be frames, groups, text, vector shapes, components, or
// instances, each with their own geometry, paint, effect, and layout
// properties. Optional fields follow the source format's omission rules:
// Visible and Opacity are omitted when they hold their defaults (true, 1),
// so both are pointers here.
type Node struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Visible  *bool  `json:"visible,omitempty"`
	Children []Node `json:"children,omitempty"`

	// Geometry
	AbsoluteBoundingBox *Rectangle `json:"absoluteBoundingBox,omitempty"`
	Rotation            float64    `json:"rotation,omitempty"` // degrees, clockwise

	// Paint
	BackgroundColor      *Color    `json:"backgroundColor,omitempty"`
	Fills                []Paint   `json:"fills,omitempty"`
	Strokes              []Paint   `json:"strokes,omitempty"`
	StrokeWeight         float64   `json:"strokeWeight,omitempty"`
	StrokeAlign          string    `json:"strokeAlign,omitempty"` // INSIDE, CENTER, OUTSIDE
	CornerRadius         float64   `json:"cornerRadius,omitempty"`
	RectangleCornerRadii []float64 `json:"rectangleCornerRadii,omitempty"` // top-left, top-right, bottom-right, bottom-left
	Effects              []Effect  `json:"effects,omitempty"`
	Opacity              *float64  `json:"opacity,omitempty"`
	BlendMode            string    `json:"blendMode,omitempty"`

	// Text
	Characters string     `json:"characters,omitempty"`
	Style      *TypeStyle `json:"style,omitempty"`

	// Auto layout
	LayoutMode         string   `json:"layoutMode,omitempty"` // NONE, HORIZONTAL, VERTICAL
	LayoutWrap         string   `json:"layoutWrap,omitempty"` // NO_WRAP, WRAP
	ItemSpacing        float64  `json:"itemSpacing,omitempty"`
	CounterAxisSpacing *float64 `json:"counterAxisSpacing,omitempty"`
	PaddingLeft        float64  `json:"paddingLeft,omitempty"`
	PaddingRight       float64  `json:"paddingRight,omitempty"`
	PaddingTop         float64  `json:"paddingTop,omitempty"`
	PaddingBottom      float64  `json:"paddingBottom,omitempty"`

	// Sizing. LayoutSizingHorizontal/Vertical are the current per-axis
	// modes (FIXED, HUG, FILL); the PrimaryAxisSizingMode/LayoutGrow/
	// LayoutAlign trio is the legacy encoding still produced by older
	// exports, kept so both generations of files extract identically.
	LayoutSizingHorizontal string  `json:"layoutSizingHorizontal,omitempty"`
	LayoutSizingVertical   string  `json:"layoutSizingVertical,omitempty"`
	PrimaryAxisSizingMode  string  `json:"primaryAxisSizingMode,omitempty"` // FIXED, AUTO
	CounterAxisSizingMode  string  `json:"counterAxisSizingMode,omitempty"`
	LayoutGrow             float64 `json:"layoutGrow,omitempty"`
	LayoutAlign            string  `json:"layoutAlign,omitempty"` // INHERIT, STRETCH, MIN, CENTER, MAX

	// Alignment
	PrimaryAxisAlignItems string `json:"primaryAxisAlignItems,omitempty"` // MIN, CENTER, MAX, SPACE_BETWEEN
	CounterAxisAlignItems string `json:"counterAxisAlignItems,omitempty"` // MIN, CENTER, MAX, BASELINE

	// Dimension clamps
	MinWidth  *float64 `json:"minWidth,omitempty"`
	MaxWidth  *float64 `json:"maxWidth,omitempty"`
	MinHeight *float64 `json:"minHeight,omitempty"`
	MaxHeight *float64 `json:"maxHeight,omitempty"`

	// Variable bindings: node-level property name -> variable alias.
	BoundVariables map[string]VariableAlias `json:"boundVariables,omitempty"`

	// Components and prototyping
	ComponentID       string            `json:"componentId,omitempty"`
	VariantProperties map[string]string `json:"variantProperties,omitempty"`
	TransitionNodeID  string            `json:"transitionNodeID,omitempty"`

	ExportSettings []ExportSetting   `json:"exportSettings,omitempty"`
	Constraints    *LayoutConstraint `json:"constraints,omitempty"`
}

// IsVisible reports whether the node is visible. Absent means visible.
func (n *Node) IsVisible() bool {
	return n.Visible == nil || *n.Visible
}

// OpacityValue returns the node opacity, defaulting to 1 when absent.
func (n *Node) OpacityValue() float64 {
	if n.Opacity == nil {
		return 1
	}
	return *n.Opacity
}

// Color represents an RGBA color with float channels ranging from 0 to 1.
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// Paint represents a fill or stroke applied to a node. Paint lists are
// ordered bottom-to-top: the first entry renders underneath all others.
type Paint struct {
	Type              string                   `json:"type"` // SOLID, GRADIENT_LINEAR, GRADIENT_RADIAL, GRADIENT_ANGULAR, GRADIENT_DIAMOND, IMAGE
	Visible           *bool                    `json:"visible,omitempty"`
	Opacity           *float64                 `json:"opacity,omitempty"`
	Color             *Color                   `json:"color,omitempty"`
	BlendMode         string                   `json:"blendMode,omitempty"`
	GradientStops     []ColorStop              `json:"gradientStops,omitempty"`
	GradientTransform [][]float64              `json:"gradientTransform,omitempty"` // 2x3 row-major affine matrix
	ImageRef          string                   `json:"imageRef,omitempty"`
	ScaleMode         string                   `json:"scaleMode,omitempty"`
	BoundVariables    map[string]VariableAlias `json:"boundVariables,omitempty"` // per-entry bindings, e.g. "color"
}

// IsVisible reports whether the paint renders. Absent means visible.
func (p *Paint) IsVisible() bool {
	return p.Visible == nil || *p.Visible
}

// OpacityValue returns the paint opacity, defaulting to 1 when absent.
func (p *Paint) OpacityValue() float64 {
	if p.Opacity == nil {
		return 1
	}
	return *p.Opacity
}

// GradientMatrix extracts the 2x2 linear part (a, b, c, d) of the paint's
// gradient transform. The row-major 2x3 source matrix is
//
//	[ a  c  tx ]
//	[ b  d  ty ]
//
// so a = m[0][0], b = m[1][0], c = m[0][1], d = m[1][1]. Returns ok=false
// when the transform is absent or malformed.
func (p *Paint) GradientMatrix() (a, b, c, d float64, ok bool) {
	m := p.GradientTransform
	if len(m) < 2 || len(m[0]) < 2 || len(m[1]) < 2 {
		return 0, 0, 0, 0, false
	}
	return m[0][0], m[1][0], m[0][1], m[1][1], true
}

// ColorStop represents a single stop in a gradient paint, positioned along
// the gradient axis in the 0-1 range.
type ColorStop struct {
	Position float64 `json:"position"`
	Color    Color   `json:"color"`
}

// Effect represents a visual effect applied to a node, such as drop
// shadows, inner shadows, or blurs. Effect lists are ordered; the order is
// preserved through to the emitted declarations.
type Effect struct {
	Type      string  `json:"type"` // DROP_SHADOW, INNER_SHADOW, LAYER_BLUR, BACKGROUND_BLUR
	Visible   *bool   `json:"visible,omitempty"`
	Radius    float64 `json:"radius,omitempty"`
	Color     *Color  `json:"color,omitempty"`
	Offset    *Vector `json:"offset,omitempty"`
	Spread    float64 `json:"spread,omitempty"`
	BlendMode string  `json:"blendMode,omitempty"`
}

// IsVisible reports whether the effect renders. Absent means visible.
func (e *Effect) IsVisible() bool {
	return e.Visible == nil || *e.Visible
}

// Vector represents a 2D coordinate or offset with X and Y values.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TypeStyle represents the text styling properties of a text node.
type TypeStyle struct {
	FontFamily          string  `json:"fontFamily"`
	FontPostScriptName  string  `json:"fontPostScriptName,omitempty"`
	FontWeight          float64 `json:"fontWeight"`
	FontSize            float64 `json:"fontSize"`
	Italic              bool    `json:"italic,omitempty"`
	LineHeightPx        float64 `json:"lineHeightPx,omitempty"`
	LineHeightPercent   float64 `json:"lineHeightPercent,omitempty"`
	LetterSpacing       float64 `json:"letterSpacing,omitempty"`
	TextAlignHorizontal string  `json:"textAlignHorizontal,omitempty"`
	TextAlignVertical   string  `json:"textAlignVertical,omitempty"`
	TextCase            string  `json:"textCase,omitempty"`       // UPPER, LOWER, TITLE
	TextDecoration      string  `json:"textDecoration,omitempty"` // UNDERLINE, STRIKETHROUGH
}

// Rectangle represents a bounding box with position (X, Y) and dimensions.
// Positions in the source document are absolute canvas coordinates; the
// extractor converts them to frame-relative coordinates.
type Rectangle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// LayoutConstraint defines how a node's position and size behave when its
// parent is resized. Only meaningful outside auto-layout containers.
type LayoutConstraint struct {
	Vertical   string `json:"vertical"`
	Horizontal string `json:"horizontal"`
}

// ExportSetting describes a designer-configured export preset on a node.
type ExportSetting struct {
	Format     string           `json:"format"` // PNG, SVG, JPG, PDF
	Suffix     string           `json:"suffix,omitempty"`
	Constraint ExportConstraint `json:"constraint,omitempty"`
}

// ExportConstraint describes the scaling rule of an export preset.
type ExportConstraint struct {
	Type  string  `json:"type"` // SCALE, WIDTH, HEIGHT
	Value float64 `json:"value"`
}

// VariableAlias is a reference from a node or paint property to a design
// variable, resolved through the companion variable table.
type VariableAlias struct {
	Type string `json:"type"` // always VARIABLE_ALIAS
	ID   string `json:"id"`
}
