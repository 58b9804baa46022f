package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	figmacodegen "github.com/hellenic-development/figma-codegen"
	"github.com/hellenic-development/figma-codegen/pkg/config"
	"github.com/hellenic-development/figma-codegen/pkg/figma"
	"github.com/hellenic-development/figma-codegen/pkg/imager"
	"github.com/hellenic-development/figma-codegen/pkg/semantic"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/xlab/treeprint"
)

const version = figma.Version

var (
	inputFile      string
	variablesFile  string
	configFile     string
	outDir         string
	markupDialect  string
	stylesDialect  string
	modeName       string
	tokenConfig    bool
	tokenThreshold int
	maxDepth       int
	parallel       bool
	showTree       bool
	watchMode      bool
	exportAssets   bool
	assetURLMap    string
	assetFormat    string
	assetScales    string
	assetDir       string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "figma-codegen",
		Short: "Generate markup, styles, and design tokens from Figma exports",
		Long:  "A tool to convert exported Figma design documents into semantic markup, layered stylesheets, named design tokens, and an asset manifest",
		Run:   run,
	}

	defaults := config.Default()

	rootCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Design document JSON file (required)")
	rootCmd.Flags().StringVar(&variablesFile, "variables", "", "Standalone variable table JSON file")
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "TOML configuration file")
	rootCmd.Flags().StringVarP(&outDir, "out", "o", "dist", "Output directory for generated artifacts")
	rootCmd.Flags().StringVar(&markupDialect, "markup", defaults.Markup, "Markup dialect: html, jsx")
	rootCmd.Flags().StringVar(&stylesDialect, "styles", defaults.Styles, "Stylesheet dialect: css, scss")
	rootCmd.Flags().StringVar(&modeName, "mode", "", "Variable mode rendered as the default")
	rootCmd.Flags().BoolVar(&tokenConfig, "token-config", false, "Additionally emit the utility-framework token config")
	rootCmd.Flags().IntVar(&tokenThreshold, "token-threshold", defaults.TokenThreshold, "Occurrence count at which repeated literals promote to tokens")
	rootCmd.Flags().IntVar(&maxDepth, "max-depth", defaults.MaxDepth, "Tree extraction depth limit")
	rootCmd.Flags().BoolVar(&parallel, "parallel", false, "Extract top-level frames concurrently")
	rootCmd.Flags().BoolVar(&showTree, "tree", false, "Print the generated element hierarchy")
	rootCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "Regenerate whenever the input files change")
	rootCmd.Flags().BoolVar(&exportAssets, "export-assets", false, "Download the manifest's assets after generation")
	rootCmd.Flags().StringVar(&assetURLMap, "asset-url-map", "", "JSON file mapping asset IDs to download URLs")
	rootCmd.Flags().StringVar(&assetFormat, "asset-format", defaults.Assets.Format, "Asset export format: svg, png, jpg, pdf")
	rootCmd.Flags().StringVar(&assetScales, "asset-scales", "1", "Comma-separated raster scale factors (e.g. \"1,2\")")
	rootCmd.Flags().StringVar(&assetDir, "asset-dir", defaults.Assets.Dir, "Asset directory, relative to the output directory")

	rootCmd.MarkFlagRequired("input")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("figma-codegen version %s\n", version)
		},
	}

	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) {
	red := color.New(color.FgRed)
	cyan := color.New(color.FgCyan)

	cyan.Println("\n🎨 Figma Code Generator")
	cyan.Println("=======================")
	cyan.Println()

	if err := generate(cmd); err != nil {
		red.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if watchMode {
		if err := watchLoop(cmd); err != nil {
			red.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	}
}

// buildConfig layers the TOML file over the defaults and explicit flags
// over both. Only flags the user actually set override the file.
func buildConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if configFile != "" {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return cfg, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("markup") {
		cfg.Markup = markupDialect
	}
	if flags.Changed("styles") {
		cfg.Styles = stylesDialect
	}
	if flags.Changed("mode") {
		cfg.Mode = modeName
	}
	if flags.Changed("token-config") {
		cfg.TokenConfig = tokenConfig
	}
	if flags.Changed("token-threshold") {
		cfg.TokenThreshold = tokenThreshold
	}
	if flags.Changed("max-depth") {
		cfg.MaxDepth = maxDepth
	}
	if flags.Changed("parallel") {
		cfg.Parallel = parallel
	}
	if flags.Changed("asset-format") {
		cfg.Assets.Format = assetFormat
	}
	if flags.Changed("asset-dir") {
		cfg.Assets.Dir = assetDir
	}
	if flags.Changed("asset-scales") {
		scales, err := figmacodegen.ParseScales(assetScales)
		if err != nil {
			return cfg, err
		}
		cfg.Assets.Scales = scales
	}
	return cfg, nil
}

// generate runs the pipeline once: load, generate, print, write, export.
func generate(cmd *cobra.Command) error {
	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	file, err := figma.LoadFile(inputFile)
	if err != nil {
		return err
	}

	var vars *figma.VariableTable
	if variablesFile != "" {
		vars, err = figma.LoadVariables(variablesFile)
		if err != nil {
			return err
		}
	}

	result, err := figmacodegen.Run(context.Background(), figmacodegen.Options{
		File:      file,
		Variables: vars,
		Config:    &cfg,
		Logger:    &cliLogger{},
	})
	if err != nil {
		return err
	}

	if showTree {
		cyan.Println("\n🌳 Element Tree:")
		fmt.Print(renderTree(result.Elements))
	}

	summary(result)

	green.Printf("\n💾 Writing artifacts to %s... ", outDir)
	written, err := writeArtifacts(result, cfg)
	if err != nil {
		color.New(color.FgRed).Printf("✗\n")
		return err
	}
	green.Println("✓")
	for _, path := range written {
		fmt.Printf("  • %s\n", path)
	}

	if exportAssets {
		if err := downloadAssets(result, cfg); err != nil {
			return err
		}
	}

	green.Printf("\n✨ Successfully generated %d artifact(s) from %s\n\n", len(written), result.FileName)
	return nil
}

func summary(result *figmacodegen.Result) {
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	cyan.Println("\n📊 Generation Summary:")
	fmt.Printf("  • File: %s\n", result.FileName)
	fmt.Printf("  • Nodes: %d (max depth %d)\n", result.Stats.Nodes, result.Stats.MaxDepth)
	if result.Stats.Placeholders > 0 {
		fmt.Printf("  • Placeholders: %d\n", result.Stats.Placeholders)
	}
	if result.Stats.Truncated > 0 {
		fmt.Printf("  • Truncated Subtrees: %d\n", result.Stats.Truncated)
	}
	fmt.Printf("  • Design Tokens: %d\n", result.Tokens.Len())
	if modes := result.Tokens.Modes(); len(modes) > 0 {
		fmt.Printf("  • Variable Modes: %s\n", strings.Join(modes, ", "))
	}
	fmt.Printf("  • Manifest Assets: %d\n", len(result.Artifacts.Manifest.Assets))
	if n := result.Report.Len(); n > 0 {
		yellow.Printf("  ⚠ Degradations: %d (see report.json)\n", n)
	}
}

type artifactFile struct {
	name string
	data []byte
}

func writeArtifacts(result *figmacodegen.Result, cfg config.Config) ([]string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %q: %w", outDir, err)
	}

	markupName := "index.html"
	if cfg.Markup == config.MarkupJSX {
		markupName = "index.jsx"
	}
	stylesName := "styles.css"
	if cfg.Styles == config.StylesSCSS {
		stylesName = "styles.scss"
	}

	files := []artifactFile{
		{markupName, result.Artifacts.Markup},
		{stylesName, result.Artifacts.Stylesheet},
	}
	if len(result.Artifacts.Tokens) > 0 {
		files = append(files, artifactFile{"tokens.css", result.Artifacts.Tokens})
	}
	if result.Artifacts.TokenConfig != nil {
		files = append(files, artifactFile{"tokens.config.json", result.Artifacts.TokenConfig})
	}

	manifest, err := result.Artifacts.Manifest.Render()
	if err != nil {
		return nil, err
	}
	files = append(files, artifactFile{"manifest.json", manifest})

	var buf bytes.Buffer
	if err := result.Report.Render(&buf); err != nil {
		return nil, err
	}
	files = append(files, artifactFile{"report.json", buf.Bytes()})

	written := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(outDir, f.name)
		if err := os.WriteFile(path, f.data, 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

// downloadAssets fetches every manifest entry through the URL map source.
func downloadAssets(result *figmacodegen.Result, cfg config.Config) error {
	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	if assetURLMap == "" {
		return fmt.Errorf("--export-assets requires --asset-url-map")
	}
	data, err := os.ReadFile(assetURLMap)
	if err != nil {
		return fmt.Errorf("failed to read asset URL map: %w", err)
	}
	var urls imager.URLMap
	if err := json.Unmarshal(data, &urls); err != nil {
		return fmt.Errorf("failed to parse asset URL map %s: %w", assetURLMap, err)
	}

	entries := result.Artifacts.Manifest.Assets
	if len(entries) == 0 {
		cyan.Println("\n📦 No assets to export")
		return nil
	}

	cyan.Printf("\n📦 Exporting %d asset(s)...\n", len(entries))
	res, err := imager.Export(context.Background(), urls, entries, imager.Config{
		Scales:    cfg.Assets.Scales,
		OutputDir: filepath.Join(outDir, cfg.Assets.Dir),
	})
	if err != nil {
		return err
	}
	for _, e := range res.Errors {
		yellow.Printf("  ⚠ %v\n", e)
	}
	green.Printf("  ✓ Downloaded %d file(s)\n", len(res.Assets))
	return nil
}

// renderTree prints the element hierarchy, one treeprint root per frame.
func renderTree(els []*semantic.Element) string {
	tree := treeprint.New()
	for _, el := range els {
		addElement(tree, el)
	}
	return tree.String()
}

func addElement(t treeprint.Tree, el *semantic.Element) {
	label := el.Tag
	if el.Class != "" {
		label += "." + el.Class
	}
	if el.Text != "" {
		text := el.Text
		if len(text) > 32 {
			text = text[:29] + "..."
		}
		label = fmt.Sprintf("%s %q", label, text)
	}
	if len(el.Children) == 0 {
		t.AddNode(label)
		return
	}
	branch := t.AddBranch(label)
	for _, child := range el.Children {
		addElement(branch, child)
	}
}

const watchDebounce = 250 * time.Millisecond

// watchLoop regenerates on changes to the input, variables, or config
// file. Events are debounced so editors that write in bursts trigger a
// single run.
func watchLoop(cmd *cobra.Command) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]bool)
	for _, p := range []string{inputFile, variablesFile, configFile} {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		watched[abs] = true
		// Watch the directory rather than the file: editors replace
		// files on save, which silently drops a file-level watch.
		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("failed to watch %s: %w", p, err)
		}
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	color.New(color.FgCyan).Println("👀 Watching for changes (Ctrl-C to stop)...")

	timer := time.NewTimer(watchDebounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil || !watched[abs] {
				continue
			}
			timer.Reset(watchDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			color.New(color.FgYellow).Printf("⚠ watch error: %v\n", err)
		case <-timer.C:
			color.New(color.FgCyan).Println("\n🔄 Change detected, regenerating...")
			if err := generate(cmd); err != nil {
				color.New(color.FgRed).Printf("✗ %v\n", err)
			}
			color.New(color.FgCyan).Println("👀 Watching for changes (Ctrl-C to stop)...")
		case <-sig:
			fmt.Println()
			return nil
		}
	}
}

// cliLogger implements figmacodegen.Logger with colored terminal output.
type cliLogger struct{}

func (l *cliLogger) Infof(format string, args ...any) {
	color.New(color.FgYellow).Printf(format+"\n", args...)
}

func (l *cliLogger) Warnf(format string, args ...any) {
	color.New(color.FgYellow).Printf("⚠ "+format+"\n", args...)
}

func (l *cliLogger) Errorf(format string, args ...any) {
	color.New(color.FgRed).Printf("✗ "+format+"\n", args...)
}
