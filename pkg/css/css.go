// Package css holds the declaration vocabulary shared by the layout,
// visual, semantic, and emission stages: property/value pairs with value
// provenance, grouped into selector rules, plus the canonical number and
// color formatting every stage uses so identical values always serialize
// identically.
package css

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/hellenic-development/figma-codegen/pkg/figma"
)

// Provenance records where a declaration's value came from. Token and
// variable provenance means the value is consumed through a custom
// property reference, and re-resolves if token names change.
type Provenance uint8

const (
	// ProvRaw is a literal value with no token reference.
	ProvRaw Provenance = iota

	// ProvToken is a value promoted to a named token; Value holds the
	// var() reference and TokenRef the token name.
	ProvToken

	// ProvVariable is a value bound to a design variable in the source;
	// rendered through the token layer like ProvToken.
	ProvVariable
)

// String returns the provenance name as used in reports.
func (p Provenance) String() string {
	switch p {
	case ProvToken:
		return "token"
	case ProvVariable:
		return "variable"
	default:
		return "raw"
	}
}

// Declaration is a single property/value pair.
type Declaration struct {
	Property   string
	Value      string
	Provenance Provenance

	// TokenRef is the token name backing a token- or variable-provenance
	// value, without the leading "--".
	TokenRef string
}

// Rule is an ordered declaration block under one selector.
type Rule struct {
	Selector     string
	Declarations []Declaration
}

// Lookup returns the value of a property in the rule, with ok reporting
// presence.
func (r *Rule) Lookup(property string) (string, bool) {
	for _, d := range r.Declarations {
		if d.Property == property {
			return d.Value, true
		}
	}
	return "", false
}

// Number formats a dimensionless value with trailing zeros trimmed, so
// 12.0 renders as "12" and 12.50 as "12.5".
func Number(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	s := strconv.FormatFloat(v, 'f', 4, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

// Px formats a pixel length. Zero renders unitless per stylesheet
// convention.
func Px(v float64) string {
	if v == 0 {
		return "0"
	}
	return Number(v) + "px"
}

// Hex renders a color in canonical hex form: #RRGGBB, with an alpha byte
// appended only when the color is not fully opaque. This exact form is the
// identity used for token promotion; any two stages formatting the same
// color must agree byte for byte.
func Hex(c figma.Color) string {
	r := int(math.Round(clamp01(c.R) * 255))
	g := int(math.Round(clamp01(c.G) * 255))
	b := int(math.Round(clamp01(c.B) * 255))
	a := int(math.Round(clamp01(c.A) * 255))
	if a == 255 {
		return fmt.Sprintf("#%02X%02X%02X", r, g, b)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", r, g, b, a)
}

// HexOpacity renders a color with an extra opacity factor multiplied into
// its alpha channel, as needed when a paint carries its own opacity.
func HexOpacity(c figma.Color, opacity float64) string {
	c.A = clamp01(c.A) * clamp01(opacity)
	return Hex(c)
}

// Var renders a custom-property reference for a token name.
func Var(token string) string {
	return "var(--" + token + ")"
}

// Kebab lowercases a design-source name into a hyphenated identifier.
// Spaces, underscores, and path separators become hyphens, other
// punctuation drops, and hyphen runs collapse so "Brand / Primary"
// yields "brand-primary".
func Kebab(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "_", "-")
	s = strings.ReplaceAll(s, "/", "-")

	var result strings.Builder
	hyphen := false
	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			result.WriteRune(r)
			hyphen = false
		case r == '-':
			if !hyphen && result.Len() > 0 {
				result.WriteRune(r)
			}
			hyphen = true
		}
	}
	return strings.TrimRight(result.String(), "-")
}

// TokenName builds a category-prefixed token identifier from a source
// name, so ("color", "Brand/Primary") yields "color-brand-primary". A
// name already carrying its category prefix is not doubled.
func TokenName(category, name string) string {
	k := Kebab(name)
	if k == "" {
		return category
	}
	if k == category || strings.HasPrefix(k, category+"-") {
		return k
	}
	return category + "-" + k
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
