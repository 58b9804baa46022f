// Package extractor normalizes a raw design document into the pipeline's
// intermediate node form: kinds classified, coordinates converted to
// frame-relative, vector subtrees collapsed into single exportable units,
// and defects recorded as diagnostics instead of errors.
package extractor

import (
	"context"
	"encoding/hex"
	"fmt"
	"sort"
	"sync"

	"github.com/zeebo/blake3"

	"github.com/hellenic-development/figma-codegen/pkg/figma"
	"github.com/hellenic-development/figma-codegen/pkg/report"
)

// DefaultMaxDepth caps tree traversal. Subtrees below the cap are
// truncated and flagged, never dropped silently.
const DefaultMaxDepth = 30

// maxParallelSubtrees bounds concurrent root-subtree extraction when the
// caller opts in to parallel mode.
const maxParallelSubtrees = 4

// Options configures an extraction pass.
type Options struct {
	// MaxDepth overrides the traversal cap. Zero means DefaultMaxDepth.
	MaxDepth int

	// Parallel extracts top-level sibling subtrees concurrently.
	// Output is identical either way; this is purely a speedup for
	// large documents.
	Parallel bool

	// Report receives diagnostics. A fresh report is allocated when nil.
	Report *report.Report
}

// Extract converts a parsed design file into the normalized intermediate
// tree. It never fails on per-node defects: malformed nodes get neutral
// defaults, unsupported types become inert placeholders, over-deep
// subtrees are truncated, and each case lands in the report. The only
// errors are a missing document root and context cancellation, which is
// checked between top-level sibling subtrees.
func Extract(ctx context.Context, file *figma.File, opts Options) (*Extraction, error) {
	if file == nil {
		return nil, figma.ErrNoRoot
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.Report == nil {
		opts.Report = report.New()
	}

	ext := &Extraction{
		FileName:  file.Name,
		Variables: file.Variables,
		byKey:     make(map[string]int),
		byNodeID:  make(map[string]int),
	}

	// Seed the component arena from the file catalog in sorted ID order
	// so arena indices are stable across runs.
	ids := make([]string, 0, len(file.Components))
	for id := range file.Components {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		c := file.Components[id]
		ext.registerComponent(Component{
			Key:         c.Key,
			Name:        c.Name,
			Description: c.Description,
			NodeID:      id,
		})
	}

	w := &walker{opts: opts, rep: opts.Report, ext: ext}

	roots := designRoots(&file.Document)
	if len(roots) == 0 {
		return nil, figma.ErrNoRoot
	}

	out := make([]*Node, len(roots))
	if opts.Parallel && len(roots) > 1 {
		var wg sync.WaitGroup
		sem := make(chan struct{}, maxParallelSubtrees)
		for i, src := range roots {
			if ctx.Err() != nil {
				break
			}
			wg.Add(1)
			go func(i int, src *figma.Node) {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()
				out[i] = w.node(src, 0, figma.Vector{}, true)
			}(i, src)
		}
		wg.Wait()
	} else {
		for i, src := range roots {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("extraction cancelled: %w", err)
			}
			out[i] = w.node(src, 0, figma.Vector{}, true)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("extraction cancelled: %w", err)
	}

	for _, n := range out {
		if n != nil {
			ext.Roots = append(ext.Roots, n)
		}
	}
	ext.Stats = computeStats(ext.Roots)
	return ext, nil
}

// designRoots descends through the structural document layers (document
// and canvas nodes carry no geometry of their own) and returns the
// top-level design frames. A file whose root is itself a concrete node is
// returned as a single root.
func designRoots(doc *figma.Node) []*figma.Node {
	if doc == nil || !doc.IsVisible() {
		return nil
	}
	switch doc.Type {
	case "DOCUMENT", "CANVAS", "":
		var roots []*figma.Node
		for i := range doc.Children {
			child := &doc.Children[i]
			if !child.IsVisible() {
				continue
			}
			roots = append(roots, designRoots(child)...)
		}
		return roots
	default:
		return []*figma.Node{doc}
	}
}

type walker struct {
	opts Options
	rep  *report.Report
	ext  *Extraction

	mu        sync.Mutex
	synthetic int
}

// node extracts a single source node at the given depth. origin is the
// absolute position of the nearest enclosing frame; group ancestors pass
// their own origin through unchanged. Returns nil for invisible nodes.
func (w *walker) node(src *figma.Node, depth int, origin figma.Vector, isRoot bool) *Node {
	if src == nil || !src.IsVisible() {
		return nil
	}

	id := src.ID
	if id == "" {
		id = w.nextSyntheticID()
		w.rep.Addf(report.KindMalformedInput, report.StageExtract, id, src.Name,
			"node has no id; assigned %s", id)
	}

	kind, supported := classify(src.Type)
	if !supported {
		w.rep.Addf(report.KindUnsupportedNode, report.StageExtract, id, src.Name,
			"unsupported node type %q emitted as placeholder", src.Type)
	}

	n := &Node{
		ID:          id,
		Name:        src.Name,
		Kind:        kind,
		SourceType:  src.Type,
		Rotation:    src.Rotation,
		Interactive: src.TransitionNodeID != "",
		Depth:       depth,
	}

	if box := src.AbsoluteBoundingBox; box != nil {
		n.Absolute = Rect{X: box.X, Y: box.Y, Width: box.Width, Height: box.Height}
		n.HasBounds = true
		if isRoot {
			n.Bounds = Rect{Width: box.Width, Height: box.Height}
		} else {
			n.Bounds = Rect{
				X:      box.X - origin.X,
				Y:      box.Y - origin.Y,
				Width:  box.Width,
				Height: box.Height,
			}
		}
	} else if kind != KindPlaceholder {
		w.rep.Addf(report.KindMalformedInput, report.StageExtract, id, src.Name,
			"missing bounding box; using zero bounds")
	}

	n.Layout = layoutProps(src)
	n.Visual = visualProps(src)

	switch kind {
	case KindText:
		n.Text = &TextProps{Characters: src.Characters, Style: src.Style}
	case KindInstance:
		n.ComponentKey = w.componentKey(src)
		if len(src.VariantProperties) > 0 {
			vp := make(map[string]string, len(src.VariantProperties))
			for k, v := range src.VariantProperties {
				vp[k] = v
			}
			n.VariantProperties = vp
		}
	case KindFrame:
		if src.Type == "COMPONENT" || src.Type == "COMPONENT_SET" {
			w.registerInTreeComponent(src, id)
		}
	}

	if len(src.ExportSettings) > 0 {
		n.Exportable = true
		n.ExportFormats = exportFormats(src.ExportSettings)
	}

	// A frame or group whose whole subtree draws vector content
	// collapses into one exportable graphic unit instead of a markup
	// tree. Vector leaves are fingerprinted the same way so repeated
	// icons share one manifest entry.
	if (kind == KindFrame || kind == KindGroup) && len(src.Children) > 0 && isVectorSubtree(src) {
		n.Kind = KindVectorContainer
		n.ContentHash = contentHash(src)
		return n
	}
	if kind == KindVector {
		n.ContentHash = contentHash(src)
		return n
	}

	if len(src.Children) > 0 && kind.Container() {
		if depth >= w.opts.MaxDepth {
			n.Truncated = true
			w.rep.Addf(report.KindDepthExceeded, report.StageExtract, id, src.Name,
				"subtree truncated at depth %d", w.opts.MaxDepth)
			return n
		}
		childOrigin := origin
		if kind != KindGroup && n.HasBounds {
			childOrigin = figma.Vector{X: n.Absolute.X, Y: n.Absolute.Y}
		}
		for i := range src.Children {
			if child := w.node(&src.Children[i], depth+1, childOrigin, false); child != nil {
				n.Children = append(n.Children, child)
			}
		}
	}
	return n
}

func (w *walker) nextSyntheticID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.synthetic++
	return fmt.Sprintf("synthetic:%d", w.synthetic)
}

func (w *walker) componentKey(src *figma.Node) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ext.componentKeyFor(src.ComponentID)
}

func (w *walker) registerInTreeComponent(src *figma.Node, id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	// Already present when the file catalog listed this definition.
	if _, ok := w.ext.byNodeID[id]; ok {
		return
	}
	w.ext.registerComponent(Component{Key: id, Name: src.Name, NodeID: id})
}

// classify maps a source type tag to a pipeline kind. The second return
// reports whether the type is in the supported set.
func classify(sourceType string) (Kind, bool) {
	switch sourceType {
	case "FRAME", "COMPONENT", "COMPONENT_SET":
		return KindFrame, true
	case "GROUP", "SECTION":
		return KindGroup, true
	case "TEXT":
		return KindText, true
	case "INSTANCE":
		return KindInstance, true
	case "VECTOR", "BOOLEAN_OPERATION", "STAR", "LINE", "ELLIPSE", "REGULAR_POLYGON", "RECTANGLE":
		return KindVector, true
	default:
		return KindPlaceholder, false
	}
}

// vectorCompatible is the closed set of types that may appear inside a
// vector container. Rectangles are excluded: they double as generic
// layout boxes, and treating them as vector content would swallow whole
// layouts into opaque graphics.
func vectorCompatible(sourceType string) bool {
	switch sourceType {
	case "VECTOR", "BOOLEAN_OPERATION", "STAR", "LINE", "ELLIPSE", "REGULAR_POLYGON":
		return true
	}
	return false
}

// isVectorSubtree reports whether every visible node under n draws vector
// content. Checked bottom-up with a short-circuit on the first
// incompatible descendant.
func isVectorSubtree(n *figma.Node) bool {
	if vectorCompatible(n.Type) {
		return true
	}
	switch n.Type {
	case "GROUP", "FRAME":
		if len(n.Children) == 0 {
			return false
		}
		for i := range n.Children {
			child := &n.Children[i]
			if !child.IsVisible() {
				continue
			}
			if !isVectorSubtree(child) {
				return false
			}
		}
		return true
	}
	return false
}

// contentHash fingerprints a node's drawn content: structure, geometry
// relative to the node's own origin, and paint data. Position on the
// canvas does not participate, so the same icon placed twice hashes
// identically.
func contentHash(root *figma.Node) string {
	h := blake3.New()
	var origin figma.Vector
	if b := root.AbsoluteBoundingBox; b != nil {
		origin = figma.Vector{X: b.X, Y: b.Y}
	}
	hashNode(h, root, origin)
	return hex.EncodeToString(h.Sum(nil))
}

func hashNode(h *blake3.Hasher, n *figma.Node, origin figma.Vector) {
	fmt.Fprintf(h, "%s|r%g", n.Type, n.Rotation)
	if b := n.AbsoluteBoundingBox; b != nil {
		fmt.Fprintf(h, "|%g,%g,%g,%g", b.X-origin.X, b.Y-origin.Y, b.Width, b.Height)
	}
	for i := range n.Fills {
		hashPaint(h, &n.Fills[i])
	}
	fmt.Fprintf(h, "/")
	for i := range n.Strokes {
		hashPaint(h, &n.Strokes[i])
	}
	fmt.Fprintf(h, "|w%g|%s\n", n.StrokeWeight, n.StrokeAlign)
	for i := range n.Children {
		if n.Children[i].IsVisible() {
			hashNode(h, &n.Children[i], origin)
		}
	}
}

func hashPaint(h *blake3.Hasher, p *figma.Paint) {
	if !p.IsVisible() {
		return
	}
	fmt.Fprintf(h, "|%s:o%g", p.Type, p.OpacityValue())
	if c := p.Color; c != nil {
		fmt.Fprintf(h, ":%g,%g,%g,%g", c.R, c.G, c.B, c.A)
	}
	for _, s := range p.GradientStops {
		fmt.Fprintf(h, ";%g:%g,%g,%g,%g", s.Position, s.Color.R, s.Color.G, s.Color.B, s.Color.A)
	}
	if p.ImageRef != "" {
		fmt.Fprintf(h, ";img:%s", p.ImageRef)
	}
}

// layoutProps copies the node's layout configuration into the
// intermediate form. "NONE" collapses to the empty string so consumers
// test one zero value.
func layoutProps(src *figma.Node) LayoutProps {
	mode := src.LayoutMode
	if mode == "NONE" {
		mode = ""
	}
	return LayoutProps{
		Mode:       mode,
		Wrap:       src.LayoutWrap == "WRAP",
		Gap:        src.ItemSpacing,
		CounterGap: src.CounterAxisSpacing,
		Padding: Edges{
			Top:    src.PaddingTop,
			Right:  src.PaddingRight,
			Bottom: src.PaddingBottom,
			Left:   src.PaddingLeft,
		},
		SizingHorizontal:  src.LayoutSizingHorizontal,
		SizingVertical:    src.LayoutSizingVertical,
		PrimaryAxisSizing: src.PrimaryAxisSizingMode,
		CounterAxisSizing: src.CounterAxisSizingMode,
		Grow:              src.LayoutGrow,
		Align:             src.LayoutAlign,
		JustifyContent:    src.PrimaryAxisAlignItems,
		AlignItems:        src.CounterAxisAlignItems,
		MinWidth:          src.MinWidth,
		MaxWidth:          src.MaxWidth,
		MinHeight:         src.MinHeight,
		MaxHeight:         src.MaxHeight,
	}
}

// visualProps copies paints, strokes, effects, corners, and bindings.
// Per-corner radii are kept only when they actually vary; a uniform set
// collapses to CornerRadius.
func visualProps(src *figma.Node) VisualProps {
	v := VisualProps{
		Fills:        src.Fills,
		Strokes:      src.Strokes,
		StrokeWeight: src.StrokeWeight,
		StrokeAlign:  src.StrokeAlign,
		CornerRadius: src.CornerRadius,
		Effects:      src.Effects,
		Opacity:      src.OpacityValue(),
		BlendMode:    src.BlendMode,
		Background:   src.BackgroundColor,
	}
	if radii := src.RectangleCornerRadii; len(radii) == 4 {
		if radii[0] == radii[1] && radii[1] == radii[2] && radii[2] == radii[3] {
			v.CornerRadius = radii[0]
		} else {
			v.CornerRadii = radii
		}
	}
	if len(src.BoundVariables) > 0 {
		b := make(map[string]figma.VariableAlias, len(src.BoundVariables))
		for k, alias := range src.BoundVariables {
			b[k] = alias
		}
		v.Bindings = b
	}
	return v
}

func exportFormats(settings []figma.ExportSetting) []string {
	seen := make(map[string]bool)
	var formats []string
	for _, s := range settings {
		f := s.Format
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		formats = append(formats, f)
	}
	return formats
}

func computeStats(roots []*Node) Stats {
	var s Stats
	for _, root := range roots {
		root.Walk(func(n *Node) bool {
			s.Nodes++
			switch n.Kind {
			case KindPlaceholder:
				s.Placeholders++
			case KindVectorContainer:
				s.VectorContainers++
			}
			if n.Truncated {
				s.Truncated++
			}
			if n.Depth > s.MaxDepth {
				s.MaxDepth = n.Depth
			}
			return true
		})
	}
	return s
}
