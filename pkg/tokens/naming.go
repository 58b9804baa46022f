package tokens

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/hellenic-development/figma-codegen/pkg/css"
)

// nameScale promotes a category's occurrences onto a named ladder in
// ascending value order: the smallest promoted value takes the first
// ladder name, and values past the ladder fall back to a derived name.
func nameScale(set *Set, occs []*occurrence, category string, ladder func(i int, value string) string) {
	for i, occ := range occs {
		set.add(&Binding{
			Name:     css.TokenName(category, ladder(i, occ.value)),
			Category: category,
			Values:   map[string]string{"": occ.value},
			Refs:     occ.refs,
		}, occ.value)
	}
}

func spacingLadder(i int, value string) string {
	names := []string{"1", "2", "3", "4", "5", "6", "8", "10", "12", "16", "20", "24"}
	if i < len(names) {
		return names[i]
	}
	return css.Number(pxValue(value))
}

func textLadder(i int, _ string) string {
	names := []string{"xs", "sm", "base", "lg", "xl"}
	if i < len(names) {
		return names[i]
	}
	return fmt.Sprintf("%dxl", i-3)
}

func radiusLadder(i int, _ string) string {
	names := []string{"sm", "md", "lg", "xl"}
	if i < len(names) {
		return names[i]
	}
	return fmt.Sprintf("%dxl", i-2)
}

func shadowLadder(i int, _ string) string {
	names := []string{"sm", "md", "lg", "xl"}
	if i < len(names) {
		return names[i]
	}
	return fmt.Sprintf("%dxl", i-2)
}

// nameColors assigns semantic names by hue band: the most-used chromatic
// band becomes the primary family, the second secondary, every further
// band accent; desaturated and near-black/white values form the neutral
// family. A family with a single member takes the bare family name; a
// larger family takes 100/200/... scale steps, lightest first.
func nameColors(set *Set, occs []*occurrence) {
	type member struct {
		occ     *occurrence
		band    int
		light   float64
		neutral bool
	}

	members := make([]member, 0, len(occs))
	bandCount := make(map[int]int)
	for _, occ := range occs {
		r, g, b, ok := parseHex(occ.value)
		if !ok {
			continue
		}
		h, s, l := hsl(r, g, b)
		m := member{occ: occ, light: l}
		if s < 0.10 || l < 0.04 || l > 0.96 {
			m.neutral = true
		} else {
			m.band = int(h/30) % 12
			bandCount[m.band] += occ.count
		}
		members = append(members, m)
	}

	bands := make([]int, 0, len(bandCount))
	for band := range bandCount {
		bands = append(bands, band)
	}
	sort.Slice(bands, func(i, j int) bool {
		if bandCount[bands[i]] != bandCount[bands[j]] {
			return bandCount[bands[i]] > bandCount[bands[j]]
		}
		return bands[i] < bands[j]
	})
	family := make(map[int]string, len(bands))
	for rank, band := range bands {
		switch rank {
		case 0:
			family[band] = "primary"
		case 1:
			family[band] = "secondary"
		default:
			family[band] = "accent"
		}
	}

	grouped := make(map[string][]member)
	for _, m := range members {
		name := "neutral"
		if !m.neutral {
			name = family[m.band]
		}
		grouped[name] = append(grouped[name], m)
	}

	for _, name := range []string{"primary", "secondary", "accent", "neutral"} {
		group := grouped[name]
		sort.SliceStable(group, func(i, j int) bool {
			if group[i].light != group[j].light {
				return group[i].light > group[j].light
			}
			return group[i].occ.order < group[j].occ.order
		})
		for i, m := range group {
			step := name
			if len(group) > 1 {
				step = fmt.Sprintf("%s-%d", name, (i+1)*100)
			}
			set.add(&Binding{
				Name:     css.TokenName(CategoryColor, step),
				Category: CategoryColor,
				Values:   map[string]string{"": m.occ.value},
				Refs:     m.occ.refs,
			}, m.occ.value)
		}
	}
}

// parseHex reads the RGB channels of a canonical #RRGGBB or #RRGGBBAA
// value back into the unit range.
func parseHex(s string) (r, g, b float64, ok bool) {
	if len(s) != 7 && len(s) != 9 {
		return 0, 0, 0, false
	}
	if s[0] != '#' {
		return 0, 0, 0, false
	}
	channel := func(hex string) (float64, bool) {
		v, err := strconv.ParseUint(hex, 16, 8)
		if err != nil {
			return 0, false
		}
		return float64(v) / 255, true
	}
	var okR, okG, okB bool
	r, okR = channel(s[1:3])
	g, okG = channel(s[3:5])
	b, okB = channel(s[5:7])
	return r, g, b, okR && okG && okB
}

// hsl converts unit-range RGB to hue [0, 360), saturation, lightness.
func hsl(r, g, b float64) (h, s, l float64) {
	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	l = (max + min) / 2
	if max == min {
		return 0, 0, l
	}
	d := max - min
	s = d / (1 - math.Abs(2*l-1))
	switch max {
	case r:
		h = math.Mod((g-b)/d, 6)
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	h *= 60
	if h < 0 {
		h += 360
	}
	return h, s, l
}
