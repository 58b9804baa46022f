package semantic

import (
	"strings"

	"github.com/hellenic-development/figma-codegen/pkg/css"
)

// utilityClass names the utility for a layout declaration, or returns
// "" for declarations that stay scoped. The name is a pure function of
// the declaration, so identical declarations share one class and the
// utility layer deduplicates by construction.
func utilityClass(d css.Declaration) string {
	switch d.Property {
	case "display":
		return d.Value
	case "flex-direction":
		if d.Value == "column" {
			return "flex-col"
		}
		return "flex-row"
	case "flex-wrap":
		return "flex-wrap"
	case "justify-content":
		return "justify-" + alignSuffix(d.Value)
	case "align-items":
		return "items-" + alignSuffix(d.Value)
	case "align-self":
		return "self-" + alignSuffix(d.Value)
	case "gap":
		return "gap-" + numeric(d.Value)
	case "padding":
		return "p-" + numeric(d.Value)
	case "width":
		return "w-" + dimension(d.Value)
	case "height":
		return "h-" + dimension(d.Value)
	case "flex-grow":
		return "grow"
	case "flex-basis":
		return "basis-" + numeric(d.Value)
	case "min-width":
		return "min-w-" + numeric(d.Value)
	case "max-width":
		return "max-w-" + numeric(d.Value)
	case "min-height":
		return "min-h-" + numeric(d.Value)
	case "max-height":
		return "max-h-" + numeric(d.Value)
	}
	return ""
}

func alignSuffix(v string) string {
	switch v {
	case "flex-start":
		return "start"
	case "flex-end":
		return "end"
	case "space-between":
		return "between"
	}
	return v // center, baseline, stretch
}

// numeric flattens a px-valued declaration into a class suffix:
// "8px 16px" becomes 8-16, fractional values swap the dot for an
// underscore.
func numeric(v string) string {
	parts := strings.Fields(v)
	for i, p := range parts {
		p = strings.TrimSuffix(p, "px")
		parts[i] = strings.ReplaceAll(p, ".", "_")
	}
	return strings.Join(parts, "-")
}

func dimension(v string) string {
	switch v {
	case "fit-content":
		return "fit"
	case "100%":
		return "full"
	}
	return numeric(v)
}
