package figmacodegen

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/hellenic-development/figma-codegen/pkg/config"
	"github.com/hellenic-development/figma-codegen/pkg/extractor"
	"github.com/hellenic-development/figma-codegen/pkg/figma"
	"github.com/hellenic-development/figma-codegen/pkg/formatter"
	"github.com/hellenic-development/figma-codegen/pkg/layout"
	"github.com/hellenic-development/figma-codegen/pkg/report"
	"github.com/hellenic-development/figma-codegen/pkg/semantic"
	"github.com/hellenic-development/figma-codegen/pkg/tokens"
	"github.com/hellenic-development/figma-codegen/pkg/visual"
)

// Options configures the generation.
type Options struct {
	File      *figma.File          // parsed design document
	Variables *figma.VariableTable // nil = table embedded in File, if any
	Config    *config.Config       // nil = config.Default()
	Logger    Logger               // nil = no logging
}

// Logger receives progress messages. A nil Logger means silent operation.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Result contains the generation output.
type Result struct {
	Artifacts *formatter.Artifacts // markup, stylesheet, tokens, manifest
	Elements  []*semantic.Element  // generated element trees, one per root frame
	Report    *report.Report       // degradations recorded across all stages
	Tokens    *tokens.Set          // promoted design tokens
	Stats     extractor.Stats      // tree extraction counters
	FileName  string               // design file name
}

func (o *Options) logInfo(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Infof(f, a...)
	}
}

func (o *Options) logWarn(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Warnf(f, a...)
	}
}

func (o *Options) logError(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Errorf(f, a...)
	}
}

// Run executes the code generation pipeline and returns the result.
//
// The stages always run in the same order: extraction, layout
// interpretation, visual resolution, token collection, token rebinding,
// semantic assignment, emission. Per-node defects degrade into the
// result's Report; only a missing document root fails the run.
func Run(ctx context.Context, opts Options) (*Result, error) {
	cfg := config.Default()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	rep := report.New()

	opts.logInfo("Extracting design tree...")
	ext, err := extractor.Extract(ctx, opts.File, extractor.Options{
		MaxDepth: cfg.MaxDepth,
		Parallel: cfg.Parallel,
		Report:   rep,
	})
	if err != nil {
		opts.logError("Extraction failed: %v", err)
		return nil, fmt.Errorf("extract design tree: %w", err)
	}
	opts.logInfo("File: %s", ext.FileName)
	opts.logInfo("Extracted %d node(s) across %d root frame(s)", ext.Stats.Nodes, len(ext.Roots))

	// An explicit variable table wins over the one embedded in the file.
	vars := ext.Variables
	if opts.Variables != nil {
		vars = opts.Variables
	}

	opts.logInfo("Interpreting layout...")
	lay := layout.InterpretTree(ext, layout.Options{
		Breakpoints: cfg.Breakpoints,
		Report:      rep,
	})
	opts.logInfo("Found %d responsive family(ies)", len(lay.Families))

	opts.logInfo("Resolving visual styles...")
	styles := visual.ResolveTree(ext, visual.Options{
		Variables: vars,
		Mode:      cfg.Mode,
		Report:    rep,
	})

	opts.logInfo("Collecting design tokens...")
	set := tokens.Collect(ext, lay, styles, tokens.Options{
		Threshold: cfg.TokenThreshold,
		Variables: vars,
		Report:    rep,
	})
	visual.RebindAll(styles, set)
	opts.logInfo("Promoted %d token(s)", set.Len())

	opts.logInfo("Assigning semantic elements...")
	els := semantic.Assign(ext, lay, styles, semantic.Options{Report: rep})

	opts.logInfo("Emitting %s/%s artifacts...", cfg.Markup, cfg.Styles)
	art, err := formatter.Emit(els, lay, styles, set, ext, formatter.Options{
		Markup:      cfg.Markup,
		Styles:      cfg.Styles,
		Mode:        cfg.Mode,
		TokenConfig: cfg.TokenConfig,
		AssetFormat: cfg.Assets.Format,
		AssetDir:    cfg.Assets.Dir,
		Report:      rep,
	})
	if err != nil {
		return nil, fmt.Errorf("emit artifacts: %w", err)
	}

	rep.Finish()
	if n := rep.Len(); n > 0 {
		opts.logWarn("%d degradation(s) recorded; see the report artifact", n)
	}

	return &Result{
		Artifacts: art,
		Elements:  els,
		Report:    rep,
		Tokens:    set,
		Stats:     ext.Stats,
		FileName:  ext.FileName,
	}, nil
}

// ParseScales parses a comma-separated string of scale factors into a float64 slice.
func ParseScales(scalesStr string) ([]float64, error) {
	parts := strings.Split(scalesStr, ",")
	scales := make([]float64, 0, len(parts))

	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}

		s, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid scale value %q: %w", trimmed, err)
		}
		if s <= 0 {
			return nil, fmt.Errorf("scale value must be positive, got %g", s)
		}

		scales = append(scales, s)
	}

	if len(scales) == 0 {
		return []float64{1}, nil
	}

	return scales, nil
}
