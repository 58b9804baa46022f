// Package figmacodegen converts exported Figma design documents into
// production artifacts: semantic markup, a layered stylesheet, named
// design tokens, and an asset manifest.
//
// The CLI lives in cmd/figma-codegen; this root package exposes the same
// pipeline as a Go API so that callers can embed generation in their own
// tools without shelling out.
//
// # Import
//
// The module path contains a hyphen but Go package names cannot, so the
// package is named figmacodegen:
//
//	import "github.com/hellenic-development/figma-codegen" // package figmacodegen
//
// # Quick start
//
//	file, err := figma.LoadFile("design.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := figmacodegen.Run(context.Background(), figmacodegen.Options{
//	    File: file,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("index.html", result.Artifacts.Markup, 0644)
//	os.WriteFile("styles.css", result.Artifacts.Stylesheet, 0644)
//
// # Pipeline order
//
// [Run] drives the stages in a fixed order: tree extraction, layout
// interpretation, visual resolution, token collection, semantic
// assignment, emission. Token collection always completes before
// semantic assignment, so every emitted declaration already knows
// whether its value has a token name. Per-node defects never abort a
// run; they degrade into [Result.Report]. Only a missing document root
// returns an error.
//
// # Logging
//
// Pass a [Logger] implementation in [Options.Logger] to receive progress
// messages. A nil Logger silences all output.
//
//	type myLogger struct{}
//	func (l *myLogger) Infof(f string, a ...any)  { log.Printf("[INFO]  "+f, a...) }
//	func (l *myLogger) Warnf(f string, a ...any)  { log.Printf("[WARN]  "+f, a...) }
//	func (l *myLogger) Errorf(f string, a ...any) { log.Printf("[ERROR] "+f, a...) }
//
// # Design variables
//
// When the document embeds a variable table, bound values resolve
// through it and keep their variable names as token names. A standalone
// table parsed with [figma.ParseVariables] can be supplied in
// [Options.Variables]; it takes precedence over the embedded one.
// Repeated literal values with no variable binding promote to inferred
// tokens once they reach the configured occurrence threshold.
//
// # Responsive variants
//
// Sibling frames named with breakpoint suffixes (Card, Card#Tablet,
// Card#Desktop) collapse into one element whose stylesheet carries
// min-width media overrides for the declarations that differ between
// variants. Breakpoint labels and widths come from the configuration.
//
// # Asset export
//
// Generation itself never touches the network: image fills, vector
// shapes, and export-flagged nodes are recorded in the manifest
// artifact, and the markup references their files by manifest name. The
// optional imager package downloads the listed assets through an
// imager.Source implementation.
package figmacodegen
