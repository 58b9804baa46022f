// Package config holds the generator settings: output dialects, token
// promotion, breakpoint labels, traversal limits, and asset export. The
// CLI loads a TOML file and layers flag overrides on top; the facade maps
// the result onto per-stage options.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/hellenic-development/figma-codegen/pkg/extractor"
	"github.com/hellenic-development/figma-codegen/pkg/tokens"
)

// Markup and stylesheet dialects.
const (
	MarkupHTML = "html"
	MarkupJSX  = "jsx"
	StylesCSS  = "css"
	StylesSCSS = "scss"
)

// ErrUnknownDialect marks a markup or stylesheet dialect outside the
// supported set.
var ErrUnknownDialect = errors.New("unknown dialect")

// Config is the complete generator configuration.
type Config struct {
	// Markup selects the markup dialect: html or jsx.
	Markup string `toml:"markup"`

	// Styles selects the stylesheet dialect: css or scss.
	Styles string `toml:"styles"`

	// TokenThreshold is the occurrence count at which repeated literal
	// values promote to named tokens.
	TokenThreshold int `toml:"token_threshold"`

	// Mode names the variable mode rendered as the default; empty uses
	// each collection's own default mode.
	Mode string `toml:"mode"`

	// MaxDepth caps tree extraction; deeper subtrees truncate.
	MaxDepth int `toml:"max_depth"`

	// Parallel extracts top-level sibling subtrees concurrently.
	Parallel bool `toml:"parallel"`

	// TokenConfig additionally emits the nested utility-framework
	// configuration artifact.
	TokenConfig bool `toml:"token_config"`

	// Breakpoints maps responsive suffix labels to min-width thresholds.
	Breakpoints map[string]float64 `toml:"breakpoints"`

	// Assets controls the optional asset export pass.
	Assets Assets `toml:"assets"`
}

// Assets is the exporter section of the configuration.
type Assets struct {
	// Format is the export format: svg, png, jpg, or pdf.
	Format string `toml:"format"`

	// Scales lists the raster scale factors to request, 1 meaning the
	// design size. Each scale past the first adds an @Nx filename suffix.
	Scales []float64 `toml:"scales"`

	// Dir is the output directory for downloaded assets, relative to the
	// artifact directory unless absolute.
	Dir string `toml:"dir"`
}

// Default returns the documented defaults.
func Default() Config {
	return Config{
		Markup:         MarkupHTML,
		Styles:         StylesCSS,
		TokenThreshold: tokens.DefaultThreshold,
		MaxDepth:       extractor.DefaultMaxDepth,
		Breakpoints: map[string]float64{
			"tablet":  768,
			"desktop": 1280,
			"wide":    1536,
		},
		Assets: Assets{
			Format: "svg",
			Scales: []float64{1},
			Dir:    "assets",
		},
	}
}

// Load reads a TOML file over the defaults, so absent keys keep their
// documented values. Validation is separate: the CLI layers flag
// overrides on top before calling Validate.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the pipeline cannot act
// on.
func (c Config) Validate() error {
	switch c.Markup {
	case MarkupHTML, MarkupJSX:
	default:
		return fmt.Errorf("markup %q: %w", c.Markup, ErrUnknownDialect)
	}
	switch c.Styles {
	case StylesCSS, StylesSCSS:
	default:
		return fmt.Errorf("styles %q: %w", c.Styles, ErrUnknownDialect)
	}
	if c.TokenThreshold < 1 {
		return fmt.Errorf("token threshold %d: must be at least 1", c.TokenThreshold)
	}
	if c.MaxDepth < 1 {
		return fmt.Errorf("max depth %d: must be at least 1", c.MaxDepth)
	}
	for label, width := range c.Breakpoints {
		if width <= 0 {
			return fmt.Errorf("breakpoint %q: non-positive width %v", label, width)
		}
	}
	switch c.Assets.Format {
	case "svg", "png", "jpg", "pdf":
	default:
		return fmt.Errorf("asset format %q: want svg, png, jpg, or pdf", c.Assets.Format)
	}
	for _, s := range c.Assets.Scales {
		if s < 0.01 || s > 4 {
			return fmt.Errorf("asset scale %v: must be within 0.01 and 4", s)
		}
	}
	return nil
}
