package visual

import (
	"github.com/hellenic-development/figma-codegen/pkg/css"
)

// TokenLookup answers whether a canonical literal value was promoted to
// a named token in a category.
type TokenLookup interface {
	Lookup(category, value string) (name string, ok bool)
}

// Rebind applies the third step of the resolution chain after token
// collection: raw literals whose canonical form exactly matches a
// promoted token become token references. Values already bound to design
// variables keep their variable reference; near-miss values stay
// literal, there is no tolerance matching.
func Rebind(s *Style, lk TokenLookup) {
	for i := range s.Layers {
		rebindValue(&s.Layers[i].Color, "color", lk)
		for j := range s.Layers[i].Stops {
			rebindValue(&s.Layers[i].Stops[j].Color, "color", lk)
		}
	}
	if s.Border != nil {
		rebindValue(&s.Border.Color, "color", lk)
	}
	if len(s.Shadows) > 0 && s.ShadowRef == "" {
		if name, ok := lk.Lookup("shadow", s.ShadowCSS()); ok {
			s.ShadowRef = name
		}
	}
	for i := range s.Shadows {
		rebindValue(&s.Shadows[i].Color, "color", lk)
	}
	if len(s.Radius.Values) == 1 {
		rebindValue(&s.Radius.Values[0], "radius", lk)
	}
	if s.Text != nil {
		rebindValue(&s.Text.Color, "color", lk)
		rebindValue(&s.Text.Size, "text", lk)
	}
}

// RebindAll rebinds every style in a resolved tree.
func RebindAll(styles map[string]*Style, lk TokenLookup) {
	for _, s := range styles {
		Rebind(s, lk)
	}
}

func rebindValue(v *Value, category string, lk TokenLookup) {
	if v.Provenance != css.ProvRaw || v.Raw == "" {
		return
	}
	if name, ok := lk.Lookup(category, v.Raw); ok {
		v.Provenance = css.ProvToken
		v.TokenRef = name
	}
}
