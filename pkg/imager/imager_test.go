package imager

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/hellenic-development/figma-codegen/pkg/formatter"
)

func TestScaleFileName(t *testing.T) {
	tests := []struct {
		name  string
		file  string
		scale float64
		want  string
	}{
		{
			name:  "scale 1 keeps the manifest name",
			file:  "icon.svg",
			scale: 1,
			want:  "icon.svg",
		},
		{
			name:  "scale 2 raster",
			file:  "promo.png",
			scale: 2,
			want:  "promo@2x.png",
		},
		{
			name:  "fractional scale",
			file:  "photo.jpg",
			scale: 1.5,
			want:  "photo@1.5x.jpg",
		},
		{
			name:  "scale 3",
			file:  "card.png",
			scale: 3,
			want:  "card@3x.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scaleFileName(tt.file, tt.scale)
			if got != tt.want {
				t.Errorf("scaleFileName(%q, %g) = %q, want %q", tt.file, tt.scale, got, tt.want)
			}
		})
	}
}

// countingSource wraps a URLMap and records how it is called.
type countingSource struct {
	m        URLMap
	calls    int
	maxBatch int
}

func (c *countingSource) URLs(ctx context.Context, ids []string, format string, scale float64) (map[string]string, error) {
	c.calls++
	if len(ids) > c.maxBatch {
		c.maxBatch = len(ids)
	}
	return c.m.URLs(ctx, ids, format, scale)
}

func assetServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "payload")
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestExportWritesManifestFiles(t *testing.T) {
	srv := assetServer(t)
	entries := []formatter.Asset{
		{ID: "a1", Kind: "vector", Name: "Search Icon", File: "search-icon.svg", Format: "svg"},
		{ID: "a2", Kind: "image", Name: "Promo", File: "promo.png", Format: "png"},
	}
	src := URLMap{"a1": srv.URL + "/a1", "a2": srv.URL + "/a2"}
	dir := t.TempDir()

	res, err := Export(context.Background(), src, entries, Config{Scales: []float64{1, 2}, OutputDir: dir})
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	if len(res.Errors) != 0 {
		t.Fatalf("Export() errors: %v", res.Errors)
	}

	// The svg exports once, the png at both scales, all under the exact
	// names the manifest promised to markup.
	for _, f := range []string{"search-icon.svg", "promo.png", "promo@2x.png"} {
		if _, err := os.Stat(filepath.Join(dir, f)); err != nil {
			t.Errorf("expected exported file %s: %v", f, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "search-icon@2x.svg")); err == nil {
		t.Error("svg exported a scale variant")
	}
	if len(res.Assets) != 3 {
		t.Errorf("exported assets = %d, want 3", len(res.Assets))
	}
}

func TestExportBatching(t *testing.T) {
	srv := assetServer(t)
	entries := make([]formatter.Asset, 250)
	m := URLMap{}
	for i := range entries {
		id := fmt.Sprintf("id-%d", i)
		entries[i] = formatter.Asset{ID: id, Name: id, File: fmt.Sprintf("asset-%d.png", i), Format: "png"}
		m[id] = srv.URL + "/" + id
	}
	src := &countingSource{m: m}

	res, err := Export(context.Background(), src, entries, Config{OutputDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	if src.calls != 3 {
		t.Errorf("URL batches = %d, want 3 for 250 entries", src.calls)
	}
	if src.maxBatch > maxIDsPerRequest {
		t.Errorf("batch size = %d, want at most %d", src.maxBatch, maxIDsPerRequest)
	}
	if len(res.Assets) != 250 {
		t.Errorf("exported assets = %d, want 250", len(res.Assets))
	}
}

func TestExportMissingURL(t *testing.T) {
	srv := assetServer(t)
	entries := []formatter.Asset{
		{ID: "known", Name: "Logo", File: "logo.svg", Format: "svg"},
		{ID: "unknown", Name: "Ghost", File: "ghost.svg", Format: "svg"},
	}
	src := URLMap{"known": srv.URL + "/known"}
	dir := t.TempDir()

	res, err := Export(context.Background(), src, entries, Config{OutputDir: dir})
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}

	// The unresolved entry fails soft; the resolved one still lands.
	if len(res.Errors) != 1 {
		t.Fatalf("errors = %d, want 1", len(res.Errors))
	}
	if len(res.Assets) != 1 || res.Assets[0].FileName != "logo.svg" {
		t.Errorf("assets = %+v, want the single resolved logo", res.Assets)
	}
	if _, err := os.Stat(filepath.Join(dir, "ghost.svg")); err == nil {
		t.Error("unresolved asset produced a file")
	}
}
