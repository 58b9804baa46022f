package visual

import (
	"math"

	"github.com/hellenic-development/figma-codegen/pkg/figma"
)

// gradientAngle converts a linear gradient's transform into the
// stylesheet angle convention. The linear part (a, b) of the transform
// gives the gradient axis direction as atan2(-b, a) in the source's
// y-down coordinate space; stylesheet angles measure clockwise from
// pointing up, so the conversion is 90 degrees minus that, normalized
// into [0, 360). A missing transform defaults to top-to-bottom.
func gradientAngle(p *figma.Paint) float64 {
	a, b, _, _, ok := p.GradientMatrix()
	if !ok {
		return 180
	}
	deg := 90 - math.Atan2(-b, a)*180/math.Pi
	for deg < 0 {
		deg += 360
	}
	for deg >= 360 {
		deg -= 360
	}
	return deg
}
