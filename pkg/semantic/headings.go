package semantic

import (
	"sort"
	"strconv"
	"strings"

	"github.com/hellenic-development/figma-codegen/pkg/extractor"
	"github.com/hellenic-development/figma-codegen/pkg/report"
	"github.com/hellenic-development/figma-codegen/pkg/visual"
)

const defaultBodySize = 16

// headingRanks surveys resolved font sizes across the document. The
// most frequent size is the body size; every distinct larger size gets
// a nominal heading level, largest first. Frequency ties go to the
// smaller size so decorated display text never claims the body role.
func headingRanks(ext *extractor.Extraction, styles map[string]*visual.Style) (float64, map[float64]int) {
	counts := make(map[float64]int)
	ext.Walk(func(n *extractor.Node) bool {
		if n.Kind == extractor.KindText {
			if sz, ok := textSize(styles[n.ID]); ok {
				counts[sz]++
			}
		}
		return true
	})
	if len(counts) == 0 {
		return defaultBodySize, nil
	}
	body, best := 0.0, -1
	for sz, c := range counts {
		if c > best || c == best && sz < body {
			body, best = sz, c
		}
	}
	var larger []float64
	for sz := range counts {
		if sz > body {
			larger = append(larger, sz)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(larger)))
	rank := make(map[float64]int, len(larger))
	for i, sz := range larger {
		rank[sz] = i + 1
	}
	return body, rank
}

func textSize(st *visual.Style) (float64, bool) {
	if st == nil || st.Text == nil || st.Text.Size.Raw == "" {
		return 0, false
	}
	sz, err := strconv.ParseFloat(strings.TrimSuffix(st.Text.Size.Raw, "px"), 64)
	if err != nil || sz <= 0 {
		return 0, false
	}
	return sz, true
}

// textTag classifies a text node. Explicit label and link names win;
// sizes above the body size become headings, kept sequential by the
// running level and floored by ancestor titles; everything else is a
// paragraph or an inline span by content shape.
func (a *assigner) textTag(n *extractor.Node, floor int) string {
	for _, w := range splitWords(n.Name) {
		switch w {
		case "label":
			return "label"
		case "link":
			return "a"
		}
	}

	if sz, ok := textSize(a.styles[n.ID]); ok {
		if nominal := a.rank[sz]; nominal > 0 {
			level := nominal
			if level > a.prev+1 {
				level = a.prev + 1 // headings never skip a level
			}
			if level < floor {
				level = floor
			}
			if level > 6 {
				a.rep.Addf(report.KindEmissionFailure, report.StageSemantic, n.ID, n.Name,
					"heading depth %d exceeds h6", level)
				level = 6
			}
			if level == 1 && a.h1Done {
				level = 2
			}
			if level == 1 {
				a.h1Done = true
			}
			a.prev = level
			return "h" + strconv.Itoa(level)
		}
	}

	if n.Text != nil && prose(n.Text.Characters) {
		return "p"
	}
	return "span"
}

// prose reports whether text reads as running copy rather than a short
// caption.
func prose(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) >= 25 || strings.Contains(s, ". ") {
		return true
	}
	return strings.HasSuffix(s, ".") || strings.HasSuffix(s, "!") || strings.HasSuffix(s, "?")
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}
