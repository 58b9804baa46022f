// Package imager downloads the files named by an asset manifest. It is
// the only stage that reaches outside the pipeline: a caller-supplied
// Source resolves asset IDs to download URLs, and the exporter fetches
// them into the output directory under the exact filenames the manifest
// promised to markup and styles.
package imager

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hellenic-development/figma-codegen/pkg/formatter"
)

// Source resolves a batch of asset IDs to download URLs. Implementations
// may call remote render services or read a prefetched table; IDs they
// cannot resolve are simply absent from the returned map.
type Source interface {
	URLs(ctx context.Context, ids []string, format string, scale float64) (map[string]string, error)
}

// URLMap is a static Source backed by an asset-ID-to-URL table, the
// shape of a prefetched url map file. The same URL serves every format
// and scale.
type URLMap map[string]string

// URLs returns the mapped URL for each requested ID that has one.
func (m URLMap) URLs(_ context.Context, ids []string, _ string, _ float64) (map[string]string, error) {
	out := make(map[string]string, len(ids))
	for _, id := range ids {
		if u, ok := m[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

// Config holds export configuration.
type Config struct {
	Scales    []float64 // raster scales, e.g. [1, 2]; svg and pdf always export at 1
	OutputDir string    // local directory, default "assets"
}

// Exported represents a single written asset file.
type Exported struct {
	AssetID  string
	Name     string
	FileName string
	Format   string
	Scale    float64
}

// Result holds the results of an export operation.
type Result struct {
	Assets []Exported
	Errors []error // non-fatal per-file download failures
}

const maxIDsPerRequest = 100
const maxParallelDownloads = 5

// Export downloads every manifest entry through src into cfg.OutputDir:
// entries group by format, each group resolves in batches of at most
// maxIDsPerRequest IDs, and downloads run concurrently behind a
// semaphore. Filenames come from the manifest, so markup references stay
// valid; scales above 1 insert an @2x-style suffix. Per-file failures
// collect in Result.Errors and never abort the run.
func Export(ctx context.Context, src Source, entries []formatter.Asset, cfg Config) (*Result, error) {
	if cfg.OutputDir == "" {
		cfg.OutputDir = "assets"
	}
	if len(cfg.Scales) == 0 {
		cfg.Scales = []float64{1}
	}
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %q: %w", cfg.OutputDir, err)
	}

	result := &Result{}

	// Group entries by format, keeping first-seen order.
	var formats []string
	byFormat := make(map[string][]formatter.Asset)
	for _, e := range entries {
		if _, ok := byFormat[e.Format]; !ok {
			formats = append(formats, e.Format)
		}
		byFormat[e.Format] = append(byFormat[e.Format], e)
	}

	for _, format := range formats {
		group := byFormat[format]
		scales := cfg.Scales
		if !rasterFormat(format) {
			scales = []float64{1}
		}

		for _, scale := range scales {
			for i := 0; i < len(group); i += maxIDsPerRequest {
				end := i + maxIDsPerRequest
				if end > len(group) {
					end = len(group)
				}
				batch := group[i:end]

				ids := make([]string, len(batch))
				for j, e := range batch {
					ids[j] = e.ID
				}
				urls, err := src.URLs(ctx, ids, format, scale)
				if err != nil {
					return nil, fmt.Errorf("failed to resolve asset URLs: %w", err)
				}

				// Download concurrently with a semaphore.
				var wg sync.WaitGroup
				sem := make(chan struct{}, maxParallelDownloads)
				var mu sync.Mutex

				for _, e := range batch {
					url := urls[e.ID]
					if url == "" {
						mu.Lock()
						result.Errors = append(result.Errors, fmt.Errorf("no download URL for asset %s (%s)", e.ID, e.Name))
						mu.Unlock()
						continue
					}

					wg.Add(1)
					go func(e formatter.Asset, url string) {
						defer wg.Done()
						sem <- struct{}{}
						defer func() { <-sem }()

						fileName := scaleFileName(e.File, scale)
						destPath := filepath.Join(cfg.OutputDir, fileName)
						if err := download(ctx, url, destPath); err != nil {
							mu.Lock()
							result.Errors = append(result.Errors, fmt.Errorf("failed to download %s: %w", e.Name, err))
							mu.Unlock()
							return
						}

						mu.Lock()
						result.Assets = append(result.Assets, Exported{
							AssetID:  e.ID,
							Name:     e.Name,
							FileName: fileName,
							Format:   format,
							Scale:    scale,
						})
						mu.Unlock()
					}(e, url)
				}

				wg.Wait()
			}
		}
	}

	return result, nil
}

// download performs an HTTP GET and saves the response body to destPath.
func download(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP GET failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d downloading asset", resp.StatusCode)
	}

	f, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create file %q: %w", destPath, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return fmt.Errorf("failed to write file %q: %w", destPath, err)
	}

	return nil
}

// scaleFileName inserts an @2x-style suffix before the extension for
// scales above 1: promo.png at scale 2 becomes promo@2x.png.
func scaleFileName(file string, scale float64) string {
	if scale <= 1 {
		return file
	}
	ext := filepath.Ext(file)
	return fmt.Sprintf("%s@%gx%s", strings.TrimSuffix(file, ext), scale, ext)
}

// rasterFormat reports whether a format has meaningful scale variants.
func rasterFormat(format string) bool {
	return format != "svg" && format != "pdf"
}
