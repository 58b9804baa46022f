package semantic

import (
	"strings"

	"github.com/hellenic-development/figma-codegen/pkg/extractor"
	"github.com/hellenic-development/figma-codegen/pkg/visual"
)

// accessibility applies the attribute checklist after the tag decision:
// graphics get names, native controls get their obligatory attributes,
// and interactive containers that could not become native controls get
// focus and a role.
func (a *assigner) accessibility(el *Element, n *extractor.Node) {
	if n.Kind == extractor.KindPlaceholder {
		return // already hidden from assistive tech
	}

	switch el.Tag {
	case "img":
		alt := ""
		if !genericName.MatchString(strings.TrimSpace(n.Name)) {
			alt = n.Name
		}
		el.setAttr("alt", alt) // empty alt marks the graphic decorative
	case "input":
		el.setAttr("type", "text")
		el.setAttr("aria-label", n.Name)
	case "button":
		el.setAttr("type", "button")
	case "a":
		el.setAttr("href", "#")
	}

	if el.Tag != "img" && n.Kind != extractor.KindText && hasImageFill(a.styles[n.ID]) {
		el.setAttr("role", "img")
		el.setAttr("aria-label", n.Name)
	}

	if n.Interactive {
		switch el.Tag {
		case "button", "a", "input":
		default:
			el.setAttr("role", "button")
			el.setAttr("tabindex", "0")
		}
	}
}

func hasImageFill(st *visual.Style) bool {
	if st == nil {
		return false
	}
	for _, l := range st.Layers {
		if l.Kind == visual.PaintImage {
			return true
		}
	}
	return false
}
