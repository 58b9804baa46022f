// Package formatter assembles the pipeline's final artifacts: markup,
// the layered stylesheet, the token declarations, and the asset
// manifest. Every decision was made upstream; emission only serializes,
// recording a fidelity note when a dialect cannot express a structure
// exactly.
package formatter

import (
	"fmt"

	"github.com/hellenic-development/figma-codegen/pkg/config"
	"github.com/hellenic-development/figma-codegen/pkg/extractor"
	"github.com/hellenic-development/figma-codegen/pkg/layout"
	"github.com/hellenic-development/figma-codegen/pkg/report"
	"github.com/hellenic-development/figma-codegen/pkg/semantic"
	"github.com/hellenic-development/figma-codegen/pkg/tokens"
	"github.com/hellenic-development/figma-codegen/pkg/visual"
)

// Options configures emission.
type Options struct {
	// Markup selects the markup dialect, config.MarkupHTML or
	// config.MarkupJSX. Empty means HTML.
	Markup string

	// Styles selects the stylesheet dialect, config.StylesCSS or
	// config.StylesSCSS. Empty means CSS.
	Styles string

	// Mode selects the variable mode whose values populate the :root
	// token block; empty uses each collection's default mode.
	Mode string

	// TokenConfig additionally emits the nested utility-framework
	// config object.
	TokenConfig bool

	// AssetFormat is the manifest export format for vector assets;
	// empty means svg.
	AssetFormat string

	// AssetDir prefixes the paths markup and styles use to reference
	// exported assets; empty means "assets".
	AssetDir string

	// Report receives fidelity notes. A fresh report is allocated when
	// nil.
	Report *report.Report
}

// Artifacts is the full emission output. Byte slices are ready to write
// to disk as-is.
type Artifacts struct {
	Markup      []byte
	Stylesheet  []byte
	Tokens      []byte
	TokenConfig []byte // nil unless requested
	Manifest    *Manifest
}

// Emit assembles all artifacts from the finished pipeline stages. The
// only failure modes are an unknown dialect and an unserializable token
// config; everything representational degrades to the closest
// approximation with an EmissionFailure note instead.
func Emit(els []*semantic.Element, lay *layout.Result, styles map[string]*visual.Style, set *tokens.Set, ext *extractor.Extraction, opts Options) (*Artifacts, error) {
	if opts.Markup == "" {
		opts.Markup = config.MarkupHTML
	}
	if opts.Styles == "" {
		opts.Styles = config.StylesCSS
	}
	if opts.AssetFormat == "" {
		opts.AssetFormat = "svg"
	}
	if opts.AssetDir == "" {
		opts.AssetDir = "assets"
	}
	if opts.Report == nil {
		opts.Report = report.New()
	}
	switch opts.Markup {
	case config.MarkupHTML, config.MarkupJSX:
	default:
		return nil, fmt.Errorf("markup dialect %q: %w", opts.Markup, config.ErrUnknownDialect)
	}
	switch opts.Styles {
	case config.StylesCSS, config.StylesSCSS:
	default:
		return nil, fmt.Errorf("stylesheet dialect %q: %w", opts.Styles, config.ErrUnknownDialect)
	}

	manifest, srcFor, urlFor := buildManifest(els, styles, ext, opts)

	rc := visual.RenderContext{
		AssetURL: func(ref string) string {
			if p, ok := urlFor[ref]; ok {
				return p
			}
			return ref
		},
		Report: opts.Report,
	}

	art := &Artifacts{
		Markup:     renderMarkup(els, ext.FileName, srcFor, opts),
		Stylesheet: renderStylesheet(els, lay, styles, set, rc, opts),
		Tokens:     []byte(set.RenderCSS(opts.Mode)),
		Manifest:   manifest,
	}
	if opts.TokenConfig {
		cfg, err := set.RenderConfig()
		if err != nil {
			return nil, fmt.Errorf("emit token config: %w", err)
		}
		art.TokenConfig = cfg
	}
	return art, nil
}
