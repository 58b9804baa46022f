package formatter

import (
	"fmt"
	"strings"

	"github.com/hellenic-development/figma-codegen/pkg/config"
	"github.com/hellenic-development/figma-codegen/pkg/css"
	"github.com/hellenic-development/figma-codegen/pkg/layout"
	"github.com/hellenic-development/figma-codegen/pkg/semantic"
	"github.com/hellenic-development/figma-codegen/pkg/tokens"
	"github.com/hellenic-development/figma-codegen/pkg/visual"
)

// renderStylesheet assembles the layered sheet: utility classes, token
// custom properties, scoped component rules, then responsive media
// blocks. SCSS additionally surfaces each token as a $ variable above
// the layers.
func renderStylesheet(els []*semantic.Element, lay *layout.Result, styles map[string]*visual.Style, set *tokens.Set, rc visual.RenderContext, opts Options) []byte {
	var sb strings.Builder
	if opts.Styles == config.StylesSCSS && set.Len() > 0 {
		for _, b := range set.Bindings() {
			fmt.Fprintf(&sb, "$%s: %s;\n", b.Name, b.Value(opts.Mode))
		}
		sb.WriteByte('\n')
	}

	if utils := collectUtilities(els); len(utils) > 0 {
		sb.WriteString("/* Utilities */\n")
		for _, u := range utils {
			fmt.Fprintf(&sb, ".%s { %s: %s; }\n", u.Class, u.Decl.Property, u.Decl.Value)
		}
		sb.WriteByte('\n')
	}

	if block := set.RenderCSS(opts.Mode); block != "" {
		sb.WriteString("/* Design Tokens */\n")
		sb.WriteString(block)
		sb.WriteByte('\n')
	}

	sb.WriteString("/* Components */\n")
	for _, root := range els {
		root.Walk(func(el *semantic.Element) bool {
			writeComponentRule(&sb, el, styles, rc)
			return true
		})
	}

	writeMediaOverrides(&sb, els, lay)
	return []byte(sb.String())
}

// collectUtilities gathers each distinct utility class once, in
// first-use document order.
func collectUtilities(els []*semantic.Element) []semantic.Utility {
	seen := make(map[string]bool)
	var out []semantic.Utility
	for _, root := range els {
		root.Walk(func(el *semantic.Element) bool {
			for _, u := range el.Utilities {
				if !seen[u.Class] {
					seen[u.Class] = true
					out = append(out, u)
				}
			}
			return true
		})
	}
	return out
}

func writeComponentRule(sb *strings.Builder, el *semantic.Element, styles map[string]*visual.Style, rc visual.RenderContext) {
	if el.Class == "" {
		return
	}
	decls := append([]css.Declaration(nil), el.Scoped...)
	if st := styles[el.NodeID]; st != nil {
		vis := st.Declarations(rc)
		if el.Tag == "img" {
			vis = imageDecls(vis)
		}
		decls = append(decls, vis...)
	}
	if len(decls) == 0 {
		return
	}
	fmt.Fprintf(sb, ".%s {\n", el.Class)
	for _, d := range decls {
		fmt.Fprintf(sb, "  %s: %s;\n", d.Property, d.Value)
	}
	sb.WriteString("}\n")
}

// imageDecls adapts a background paint for a content image. The paint
// itself becomes the img src, so only its sizing survives, translated
// to object-fit.
func imageDecls(decls []css.Declaration) []css.Declaration {
	var out []css.Declaration
	for _, d := range decls {
		switch d.Property {
		case "background", "background-repeat":
			continue
		case "background-size":
			if d.Value == "cover" || d.Value == "contain" {
				out = append(out, css.Declaration{Property: "object-fit", Value: d.Value})
			}
			continue
		}
		out = append(out, d)
	}
	return out
}

// writeMediaOverrides emits one ascending min-width block per override,
// targeting the base member's component class.
func writeMediaOverrides(sb *strings.Builder, els []*semantic.Element, lay *layout.Result) {
	if lay == nil || len(lay.Families) == 0 {
		return
	}
	classFor := make(map[string]string)
	for _, root := range els {
		root.Walk(func(el *semantic.Element) bool {
			if el.Class != "" {
				classFor[el.NodeID] = el.Class
			}
			return true
		})
	}
	for _, fam := range lay.Families {
		class := classFor[fam.BaseID]
		if class == "" {
			continue
		}
		for _, o := range fam.Overrides {
			if len(o.Declarations) == 0 {
				continue
			}
			fmt.Fprintf(sb, "\n@media (min-width: %s) {\n", css.Px(o.MinWidth))
			fmt.Fprintf(sb, "  .%s {\n", class)
			for _, d := range o.Declarations {
				fmt.Fprintf(sb, "    %s: %s;\n", d.Property, d.Value)
			}
			sb.WriteString("  }\n")
			sb.WriteString("}\n")
		}
	}
}
