// Package contour reparameterizes closed 2D contours. A closed contour
// (airfoil section, farm perimeter) is split into two x-monotonic chains,
// each chain is fit with arclength-parameterized splines, and the resulting
// curve functions are resampled uniformly or with piecewise point density.
package contour

import (
	"fmt"

	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/chazu/windloft/pkg/spline"
)

// Chain is an open ordered point sequence, single-valued in x.
type Chain []v2.Vec

// Split partitions a closed contour at its x extrema into a lower and an
// upper chain, both running from min-x to max-x. The contour is implicitly
// closed (last point connects to the first). Each resulting chain must be
// monotonic in x with interior points strictly increasing; a contour that
// folds back violates that and is rejected.
func Split(points []v2.Vec) (lower, upper Chain, err error) {
	n := len(points)
	if n < 3 {
		return nil, nil, fmt.Errorf("contour: %d points, need at least 3", n)
	}

	// Ties at the extrema happen on axis-aligned perimeters: splitting at
	// the last min and first max keeps any vertical end edge at a chain
	// boundary, where checkMonotonic tolerates a shared x.
	iMin, iMax := 0, 0
	for i, p := range points {
		if p.X <= points[iMin].X {
			iMin = i
		}
		if p.X > points[iMax].X {
			iMax = i
		}
	}
	if points[iMin].X == points[iMax].X {
		return nil, nil, fmt.Errorf("contour: degenerate, all points share x = %g", points[0].X)
	}

	a := walk(points, iMin, iMax) // forward from min-x to max-x
	b := walk(points, iMax, iMin) // the other side, then reversed below
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}

	if err := checkMonotonic(a); err != nil {
		return nil, nil, err
	}
	if err := checkMonotonic(b); err != nil {
		return nil, nil, err
	}

	if meanY(a) <= meanY(b) {
		return a, b, nil
	}
	return b, a, nil
}

// walk collects points from index i to index j inclusive, wrapping.
func walk(points []v2.Vec, i, j int) Chain {
	n := len(points)
	var c Chain
	for k := i; ; k = (k + 1) % n {
		c = append(c, points[k])
		if k == j {
			return c
		}
	}
}

// checkMonotonic rejects any x decrease, and an x tie on any edge except
// the chain's first and last. The end edges may be vertical: they carry
// the contour's extreme x on both vertices.
func checkMonotonic(c Chain) error {
	for i := 1; i < len(c); i++ {
		if c[i].X < c[i-1].X {
			return fmt.Errorf("contour: chain not x-monotonic at point %d (x %g after %g); contour is unsplittable",
				i, c[i].X, c[i-1].X)
		}
		if c[i].X == c[i-1].X && i != 1 && i != len(c)-1 {
			return fmt.Errorf("contour: chain folds back at point %d (x %g repeats); contour is unsplittable",
				i, c[i].X)
		}
	}
	return nil
}

func meanY(c Chain) float64 {
	sum := 0.0
	for _, p := range c {
		sum += p.Y
	}
	return sum / float64(len(c))
}

// Func is a parameterized planar curve.
type Func func(t float64) v2.Vec

// Param is an arclength-parameterized curve over a chain: two splines x(t)
// and y(t) sharing a normalized cumulative-arclength parameter t in [0,1].
type Param struct {
	x, y   *spline.Curve
	length float64
}

// Parameterize fits x(t) and y(t) cubic splines over normalized arclength.
func Parameterize(c Chain) (*Param, error) {
	if len(c) < 2 {
		return nil, fmt.Errorf("contour: chain has %d points, need at least 2", len(c))
	}

	// Cumulative arclength along the polyline, normalized to [0,1].
	arc := make([]float64, len(c))
	for i := 1; i < len(c); i++ {
		arc[i] = arc[i-1] + c[i].Sub(c[i-1]).Length()
	}
	total := arc[len(arc)-1]
	if total == 0 {
		return nil, fmt.Errorf("contour: chain has zero length")
	}

	xs := make([]spline.Point, len(c))
	ys := make([]spline.Point, len(c))
	for i, p := range c {
		t := arc[i] / total
		xs[i] = spline.Point{Pos: t, Val: p.X}
		ys[i] = spline.Point{Pos: t, Val: p.Y}
	}

	x, err := spline.Fit(xs, 3, 0, spline.Clamp)
	if err != nil {
		return nil, fmt.Errorf("contour: fitting x(t): %w", err)
	}
	y, err := spline.Fit(ys, 3, 0, spline.Clamp)
	if err != nil {
		return nil, fmt.Errorf("contour: fitting y(t): %w", err)
	}
	return &Param{x: x, y: y, length: total}, nil
}

// At evaluates the curve at parameter t.
func (p *Param) At(t float64) v2.Vec {
	return v2.Vec{X: p.x.At(t), Y: p.y.At(t)}
}

// Length reports the polyline arclength of the source chain.
func (p *Param) Length() float64 { return p.length }

// Func adapts the Param for Discretize.
func (p *Param) Func() Func {
	return p.At
}

// Discretize samples f over [t0, t1] at the parameter values described by
// res, producing PointCount(res) points.
func Discretize(f Func, t0, t1 float64, res Resolution) ([]v2.Vec, error) {
	ts, err := SampleParams(t0, t1, res)
	if err != nil {
		return nil, err
	}
	pts := make([]v2.Vec, len(ts))
	for i, t := range ts {
		pts[i] = f(t)
	}
	return pts, nil
}
