package tokens

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hellenic-development/figma-codegen/pkg/css"
)

// sectionTitles maps categories onto the comment headers of the rendered
// sheet.
var sectionTitles = map[string]string{
	CategoryColor:      "Colors",
	CategorySpacing:    "Spacing",
	CategoryText:       "Typography",
	CategoryRadius:     "Radii",
	CategoryShadow:     "Shadows",
	CategoryBreakpoint: "Breakpoints",
}

// configKeys maps categories onto conventional utility-framework theme
// keys.
var configKeys = map[string]string{
	CategoryColor:      "colors",
	CategorySpacing:    "spacing",
	CategoryText:       "fontSize",
	CategoryRadius:     "borderRadius",
	CategoryShadow:     "boxShadow",
	CategoryBreakpoint: "screens",
}

// RenderCSS renders the set as a flat custom-property sheet: a :root
// block carrying the selected mode's value for every token, then one
// attribute-scoped block per remaining mode restating only the tokens
// whose value differs there. An empty mode selects the default mode.
func (s *Set) RenderCSS(mode string) string {
	if s.Len() == 0 {
		return ""
	}
	base := mode
	if base == "" && len(s.modes) > 0 {
		base = s.modes[0]
	}

	var sb strings.Builder
	sb.WriteString(":root {\n")
	category := ""
	for _, b := range s.bindings {
		if b.Category != category {
			if category != "" {
				sb.WriteByte('\n')
			}
			category = b.Category
			fmt.Fprintf(&sb, "  /* %s */\n", sectionTitles[category])
		}
		fmt.Fprintf(&sb, "  --%s: %s;\n", b.Name, b.Value(base))
	}
	sb.WriteString("}\n")

	for _, m := range s.modes {
		if m == base {
			continue
		}
		var overrides []string
		for _, b := range s.bindings {
			v, ok := b.Values[m]
			if !ok || v == b.Value(base) {
				continue
			}
			overrides = append(overrides, fmt.Sprintf("  --%s: %s;\n", b.Name, v))
		}
		if len(overrides) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n[data-mode=%q] {\n", css.Kebab(m))
		for _, line := range overrides {
			sb.WriteString(line)
		}
		sb.WriteString("}\n")
	}
	return sb.String()
}

// RenderConfig renders the set as a nested theme object, grouped per
// category under the conventional framework keys. Values are the default
// mode's; mode variants live in the stylesheet, not the config.
func (s *Set) RenderConfig() ([]byte, error) {
	theme := make(map[string]map[string]string)
	for _, b := range s.bindings {
		key := configKeys[b.Category]
		if key == "" {
			continue
		}
		group, ok := theme[key]
		if !ok {
			group = make(map[string]string)
			theme[key] = group
		}
		group[strings.TrimPrefix(b.Name, b.Category+"-")] = b.Value("")
	}
	out, err := json.MarshalIndent(map[string]any{"theme": theme}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render token config: %w", err)
	}
	return append(out, '\n'), nil
}
