package formatter

import (
	"fmt"
	"html"
	"strings"

	"github.com/hellenic-development/figma-codegen/pkg/config"
	"github.com/hellenic-development/figma-codegen/pkg/semantic"
)

// voidTags never take a closing tag in HTML.
var voidTags = map[string]bool{
	"img":   true,
	"input": true,
	"br":    true,
	"hr":    true,
	"meta":  true,
	"link":  true,
}

// jsxAttrNames maps HTML attribute names to their JSX spellings.
var jsxAttrNames = map[string]string{
	"class":    "className",
	"for":      "htmlFor",
	"tabindex": "tabIndex",
}

func renderMarkup(els []*semantic.Element, title string, srcFor map[string]string, opts Options) []byte {
	if opts.Markup == config.MarkupJSX {
		return renderJSX(els, srcFor)
	}
	return renderHTML(els, title, srcFor)
}

// renderHTML emits a complete HTML5 document. The stylesheet link
// covers tokens too: the custom-property layer is embedded in
// styles.css.
func renderHTML(els []*semantic.Element, title string, srcFor map[string]string) []byte {
	var sb strings.Builder
	sb.WriteString("<!doctype html>\n")
	sb.WriteString("<html lang=\"en\">\n")
	sb.WriteString("<head>\n")
	sb.WriteString("  <meta charset=\"utf-8\">\n")
	sb.WriteString("  <meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	if title == "" {
		title = "Generated Page"
	}
	fmt.Fprintf(&sb, "  <title>%s</title>\n", html.EscapeString(title))
	sb.WriteString("  <link rel=\"stylesheet\" href=\"styles.css\">\n")
	sb.WriteString("</head>\n")
	sb.WriteString("<body>\n")
	for _, el := range els {
		writeHTMLElement(&sb, el, 1, srcFor)
	}
	sb.WriteString("</body>\n")
	sb.WriteString("</html>\n")
	return []byte(sb.String())
}

func writeHTMLElement(sb *strings.Builder, el *semantic.Element, depth int, srcFor map[string]string) {
	indent := strings.Repeat("  ", depth)
	sb.WriteString(indent)
	sb.WriteString("<" + el.Tag)
	writeAttrs(sb, el, srcFor, false)
	if voidTags[el.Tag] {
		sb.WriteString(">\n")
		return
	}
	if len(el.Children) == 0 {
		if el.Text == "" {
			sb.WriteString("></" + el.Tag + ">\n")
			return
		}
		sb.WriteString(">" + html.EscapeString(el.Text) + "</" + el.Tag + ">\n")
		return
	}
	sb.WriteString(">\n")
	if el.Text != "" {
		sb.WriteString(indent + "  " + html.EscapeString(el.Text) + "\n")
	}
	for _, c := range el.Children {
		writeHTMLElement(sb, c, depth+1, srcFor)
	}
	sb.WriteString(indent + "</" + el.Tag + ">\n")
}

// renderJSX emits a single exported function component. Multiple root
// frames wrap in a fragment so the return stays a single expression.
func renderJSX(els []*semantic.Element, srcFor map[string]string) []byte {
	var sb strings.Builder
	sb.WriteString("export default function GeneratedPage() {\n")
	sb.WriteString("  return (\n")
	if len(els) == 1 {
		writeJSXElement(&sb, els[0], 2, srcFor)
	} else {
		sb.WriteString("    <>\n")
		for _, el := range els {
			writeJSXElement(&sb, el, 3, srcFor)
		}
		sb.WriteString("    </>\n")
	}
	sb.WriteString("  );\n")
	sb.WriteString("}\n")
	return []byte(sb.String())
}

func writeJSXElement(sb *strings.Builder, el *semantic.Element, depth int, srcFor map[string]string) {
	indent := strings.Repeat("  ", depth)
	sb.WriteString(indent)
	sb.WriteString("<" + el.Tag)
	writeAttrs(sb, el, srcFor, true)
	if len(el.Children) == 0 && el.Text == "" {
		sb.WriteString(" />\n")
		return
	}
	if len(el.Children) == 0 {
		sb.WriteString(">" + jsxText(el.Text) + "</" + el.Tag + ">\n")
		return
	}
	sb.WriteString(">\n")
	if el.Text != "" {
		sb.WriteString(indent + "  " + jsxText(el.Text) + "\n")
	}
	for _, c := range el.Children {
		writeJSXElement(sb, c, depth+1, srcFor)
	}
	sb.WriteString(indent + "</" + el.Tag + ">\n")
}

// writeAttrs emits the class list first, then the image source, then
// the semantic attributes in assignment order.
func writeAttrs(sb *strings.Builder, el *semantic.Element, srcFor map[string]string, jsx bool) {
	classAttr := "class"
	if jsx {
		classAttr = "className"
	}
	if cs := el.Classes(); len(cs) > 0 {
		fmt.Fprintf(sb, ` %s="%s"`, classAttr, strings.Join(cs, " "))
	}
	if src, ok := srcFor[el.NodeID]; ok && el.Tag == "img" {
		fmt.Fprintf(sb, ` src="%s"`, src)
	}
	for _, a := range el.Attrs {
		name := a.Key
		if jsx {
			if mapped, ok := jsxAttrNames[name]; ok {
				name = mapped
			}
		}
		fmt.Fprintf(sb, ` %s="%s"`, name, html.EscapeString(a.Value))
	}
}

// jsxText escapes text content for a JSX child position, where braces
// open expressions.
func jsxText(s string) string {
	s = html.EscapeString(s)
	s = strings.ReplaceAll(s, "{", "&#123;")
	return strings.ReplaceAll(s, "}", "&#125;")
}
