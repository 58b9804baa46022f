package formatter

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/hellenic-development/figma-codegen/pkg/css"
	"github.com/hellenic-development/figma-codegen/pkg/extractor"
	"github.com/hellenic-development/figma-codegen/pkg/semantic"
	"github.com/hellenic-development/figma-codegen/pkg/visual"
)

// AssetRef records one placement of an asset in the emitted page.
type AssetRef struct {
	NodeID   string `json:"nodeId"`
	NodeName string `json:"nodeName"`
}

// Asset is one manifest entry. ID is the dedup identity: the content
// hash for vectors, the image ref for image fills, so the same graphic
// placed twice yields one entry with two refs.
type Asset struct {
	ID     string     `json:"id"`
	Kind   string     `json:"kind"` // vector, image or export
	Name   string     `json:"name"`
	File   string     `json:"file"`
	Format string     `json:"format"`
	Refs   []AssetRef `json:"refs"`
}

// Manifest lists every external asset the generated page depends on,
// in the order the page first references each one.
type Manifest struct {
	Dir    string  `json:"dir"`
	Assets []Asset `json:"assets"`
}

// Render serializes the manifest as indented JSON with a trailing
// newline.
func (m *Manifest) Render() ([]byte, error) {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render manifest: %w", err)
	}
	return append(b, '\n'), nil
}

type manifestBuilder struct {
	m      *Manifest
	byID   map[string]int  // asset identity -> index in m.Assets
	files  map[string]bool // claimed filenames
	srcFor map[string]string
	urlFor map[string]string
	dir    string
}

// buildManifest walks the element trees collecting every node that
// needs an external file: vector subtrees, image fills and explicit
// export marks. It returns the manifest plus two lookup tables, node ID
// to markup src path and image ref to stylesheet url path. Variant
// subtrees never appear in the element trees, so their assets are
// excluded without a special case.
func buildManifest(els []*semantic.Element, styles map[string]*visual.Style, ext *extractor.Extraction, opts Options) (*Manifest, map[string]string, map[string]string) {
	nodes := make(map[string]*extractor.Node)
	ext.Walk(func(n *extractor.Node) bool {
		nodes[n.ID] = n
		return true
	})

	b := &manifestBuilder{
		m:      &Manifest{Dir: opts.AssetDir, Assets: []Asset{}},
		byID:   make(map[string]int),
		files:  make(map[string]bool),
		srcFor: make(map[string]string),
		urlFor: make(map[string]string),
		dir:    opts.AssetDir,
	}
	for _, root := range els {
		root.Walk(func(el *semantic.Element) bool {
			n := nodes[el.NodeID]
			if n == nil {
				return true
			}
			hasImage := false
			if st := styles[el.NodeID]; st != nil {
				for _, l := range st.Layers {
					if l.Kind != visual.PaintImage || l.Ref == "" {
						continue
					}
					file := b.add("image", l.Ref, n.Name, "png", n)
					b.urlFor[l.Ref] = file
					if el.Tag == "img" && !hasImage {
						b.srcFor[n.ID] = file
					}
					hasImage = true
				}
			}
			switch {
			case hasImage:
				// The bitmap fill is the asset; an image-filled shape
				// needs no vector export of its own.
			case n.Kind == extractor.KindVector || n.Kind == extractor.KindVectorContainer:
				file := b.add("vector", identity(n), n.Name, opts.AssetFormat, n)
				b.srcFor[n.ID] = file
			case n.Exportable:
				file := b.add("export", identity(n), n.Name, exportFormat(n, opts.AssetFormat), n)
				b.srcFor[n.ID] = file
			}
			return true
		})
	}
	return b.m, b.srcFor, b.urlFor
}

// add registers a reference to the asset identified by id, creating the
// manifest entry on first sight, and returns the path markup and styles
// should use.
func (b *manifestBuilder) add(kind, id, name, format string, n *extractor.Node) string {
	if i, ok := b.byID[id]; ok {
		b.m.Assets[i].Refs = append(b.m.Assets[i].Refs, AssetRef{NodeID: n.ID, NodeName: n.Name})
		return path.Join(b.dir, b.m.Assets[i].File)
	}
	file := b.claimFile(css.Kebab(name), format)
	b.m.Assets = append(b.m.Assets, Asset{
		ID:     id,
		Kind:   kind,
		Name:   name,
		File:   file,
		Format: format,
		Refs:   []AssetRef{{NodeID: n.ID, NodeName: n.Name}},
	})
	b.byID[id] = len(b.m.Assets) - 1
	return path.Join(b.dir, file)
}

// claimFile reserves a unique filename, numbering collisions the way
// class names are numbered: icon.svg, icon-2.svg, icon-3.svg.
func (b *manifestBuilder) claimFile(base, format string) string {
	if base == "" {
		base = "asset"
	}
	file := base + "." + format
	for i := 2; b.files[file]; i++ {
		file = base + "-" + strconv.Itoa(i) + "." + format
	}
	b.files[file] = true
	return file
}

// identity gives a node's dedup key: the extractor's content hash when
// present, otherwise a structural digest so distinct unhashed nodes
// stay distinct.
func identity(n *extractor.Node) string {
	if n.ContentHash != "" {
		return n.ContentHash
	}
	h := blake3.New()
	fmt.Fprintf(h, "%s|%s|%g|%g", n.Kind, n.Name, n.Bounds.Width, n.Bounds.Height)
	return hex.EncodeToString(h.Sum(nil))
}

// exportFormat picks the export file format: the node's first declared
// format, else the configured default.
func exportFormat(n *extractor.Node, fallback string) string {
	if len(n.ExportFormats) > 0 {
		return strings.ToLower(n.ExportFormats[0])
	}
	return fallback
}
