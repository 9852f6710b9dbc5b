package turbine

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/chazu/windloft/pkg/loft"
)

// refContourPoints is the shared point count of the reference sections.
const refContourPoints = 24

// refSection builds a closed symmetric section of the given relative
// thickness, chord running x in [0,1], starting at the trailing edge.
func refSection(thickness float64) []v2.Vec {
	pts := make([]v2.Vec, refContourPoints)
	for i := 0; i < refContourPoints; i++ {
		th := 2 * math.Pi * float64(i) / float64(refContourPoints)
		x := 0.5 + 0.5*math.Cos(th)
		// Thickness tapers toward the trailing edge.
		half := thickness * math.Sin(th) * math.Sqrt(math.Max(0, 1.1-x))
		pts[i] = v2.Vec{X: x, Y: half}
	}
	return pts
}

// ReferenceBlade is a generic blade template used when a turbine spec
// carries no measured geometry: a near-circular root blending into a thin
// outer airfoil, with typical chord and twist distributions over the span
// fraction. SpanLength is left zero; the assembler derives it from the
// rotor diameter.
func ReferenceBlade() loft.Config {
	return loft.Config{
		Chord: loft.Distribution{
			{Pos: 0, Val: 0.06}, {Pos: 0.2, Val: 0.09},
			{Pos: 0.5, Val: 0.07}, {Pos: 1, Val: 0.03},
		},
		Twist: loft.Distribution{
			{Pos: 0, Val: 14}, {Pos: 0.3, Val: 8},
			{Pos: 0.7, Val: 3}, {Pos: 1, Val: 0},
		},
		LEx: loft.Distribution{
			{Pos: 0, Val: -0.015}, {Pos: 0.5, Val: -0.02}, {Pos: 1, Val: -0.008},
		},
		LEz: loft.Distribution{
			{Pos: 0, Val: 0}, {Pos: 1, Val: 0},
		},
		Sections: loft.SectionTable{
			{Span: 0, Points: refSection(0.45)},
			{Span: 0.25, Points: refSection(0.25)},
			{Span: 1, Points: refSection(0.12)},
		},
	}
}
