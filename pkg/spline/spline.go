// Package spline fits smooth 1D curves through scattered control points.
// Distribution tables (chord, twist, leading edge, tilt along span) are fit
// once and evaluated many times during lofting, so fitting solves a linear
// system up front and evaluation is a pure basis-function sum.
package spline

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Boundary controls curve behavior outside the fitted position range.
type Boundary int

const (
	// Clamp holds the end values constant outside the range.
	Clamp Boundary = iota
	// Extrapolate extends the curve linearly using the end slopes.
	Extrapolate
)

// Point is a single (position, value) control point.
type Point struct {
	Pos float64
	Val float64
}

// Curve is a fitted B-spline curve. It is immutable after Fit and safe for
// concurrent evaluation.
type Curve struct {
	degree   int
	knots    []float64
	coefs    []float64
	x0, x1   float64
	v0, v1   float64 // end values
	s0, s1   float64 // end slopes
	boundary Boundary
}

// Fit builds a B-spline through pts. Positions must be strictly increasing.
//
// The effective degree is min(degree, len(pts)-1); fewer control points than
// degree+1 silently lower the degree rather than failing. smoothing == 0
// yields an interpolating spline through every point; smoothing > 0 reduces
// the control-point count to roughly n/(1+smoothing) (never below degree+1)
// and fits in the least-squares sense.
func Fit(pts []Point, degree int, smoothing float64, boundary Boundary) (*Curve, error) {
	n := len(pts)
	if n == 0 {
		return nil, fmt.Errorf("spline: no control points")
	}
	if degree < 1 {
		return nil, fmt.Errorf("spline: degree %d, want >= 1", degree)
	}
	for i := 1; i < n; i++ {
		if pts[i].Pos <= pts[i-1].Pos {
			return nil, fmt.Errorf("spline: positions not strictly increasing at index %d (%g after %g)",
				i, pts[i].Pos, pts[i-1].Pos)
		}
	}

	if n == 1 {
		// Degenerate constant curve.
		p := pts[0]
		return &Curve{
			degree: 0, x0: p.Pos, x1: p.Pos,
			v0: p.Val, v1: p.Val, coefs: []float64{p.Val},
			knots: []float64{p.Pos, p.Pos}, boundary: boundary,
		}, nil
	}

	k := degree
	if k > n-1 {
		k = n - 1
	}

	m := n // control point count
	if smoothing > 0 {
		m = int(math.Round(float64(n) / (1 + smoothing)))
		if m < k+1 {
			m = k + 1
		}
	}

	knots := buildKnots(pts, k, m)

	// Collocation matrix: row i holds the m basis functions at pts[i].Pos.
	a := mat.NewDense(n, m, nil)
	b := mat.NewVecDense(n, nil)
	for i, p := range pts {
		span := findSpan(knots, k, m, p.Pos)
		basis := basisFuns(knots, k, span, p.Pos)
		for j := 0; j <= k; j++ {
			a.Set(i, span-k+j, basis[j])
		}
		b.SetVec(i, p.Val)
	}

	var qr mat.QR
	qr.Factorize(a)
	var c mat.VecDense
	if err := qr.SolveVecTo(&c, false, b); err != nil {
		return nil, fmt.Errorf("spline: solving fit system: %w", err)
	}

	coefs := make([]float64, m)
	for j := 0; j < m; j++ {
		coefs[j] = c.AtVec(j)
	}

	cv := &Curve{
		degree:   k,
		knots:    knots,
		coefs:    coefs,
		x0:       pts[0].Pos,
		x1:       pts[n-1].Pos,
		boundary: boundary,
	}
	cv.v0 = cv.eval(cv.x0)
	cv.v1 = cv.eval(cv.x1)
	cv.s0 = cv.derivAt(cv.x0)
	cv.s1 = cv.derivAt(cv.x1)
	return cv, nil
}

// MustFit is Fit for static tables known to be valid; it panics on error.
func MustFit(pts []Point, degree int, smoothing float64, boundary Boundary) *Curve {
	c, err := Fit(pts, degree, smoothing, boundary)
	if err != nil {
		panic(err)
	}
	return c
}

// At evaluates the curve at pos, applying the boundary policy outside the
// fitted range.
func (c *Curve) At(pos float64) float64 {
	switch {
	case pos < c.x0:
		if c.boundary == Extrapolate {
			return c.v0 + c.s0*(pos-c.x0)
		}
		return c.v0
	case pos > c.x1:
		if c.boundary == Extrapolate {
			return c.v1 + c.s1*(pos-c.x1)
		}
		return c.v1
	}
	return c.eval(pos)
}

// Degree reports the effective degree after any silent lowering.
func (c *Curve) Degree() int { return c.degree }

// Range reports the fitted position range.
func (c *Curve) Range() (lo, hi float64) { return c.x0, c.x1 }

func (c *Curve) eval(pos float64) float64 {
	if c.degree == 0 {
		return c.coefs[0]
	}
	m := len(c.coefs)
	span := findSpan(c.knots, c.degree, m, pos)
	basis := basisFuns(c.knots, c.degree, span, pos)
	v := 0.0
	for j := 0; j <= c.degree; j++ {
		v += basis[j] * c.coefs[span-c.degree+j]
	}
	return v
}

// derivAt evaluates the first derivative. The derivative of a degree-k
// B-spline is a degree-(k-1) B-spline over the interior knot vector with
// coefficients built from scaled differences of the original coefficients.
func (c *Curve) derivAt(pos float64) float64 {
	k := c.degree
	if k == 0 {
		return 0
	}
	m := len(c.coefs)
	dk := k - 1
	dknots := c.knots[1 : len(c.knots)-1]
	dcoefs := make([]float64, m-1)
	for j := 0; j < m-1; j++ {
		den := c.knots[j+k+1] - c.knots[j+1]
		if den > 0 {
			dcoefs[j] = float64(k) * (c.coefs[j+1] - c.coefs[j]) / den
		}
	}
	if dk == 0 {
		// Piecewise constant: pick the segment containing pos.
		for j := 0; j < len(dcoefs); j++ {
			if pos < dknots[j+1] || j == len(dcoefs)-1 {
				return dcoefs[j]
			}
		}
	}
	span := findSpan(dknots, dk, m-1, pos)
	basis := basisFuns(dknots, dk, span, pos)
	v := 0.0
	for j := 0; j <= dk; j++ {
		v += basis[j] * dcoefs[span-dk+j]
	}
	return v
}

// buildKnots returns a clamped knot vector of length m+k+1. For an
// interpolating fit (m == n) interior knots are knot averages of the data
// sites, which keeps the collocation system nonsingular. For a least-squares
// fit interior knots are spread uniformly.
func buildKnots(pts []Point, k, m int) []float64 {
	n := len(pts)
	x0, x1 := pts[0].Pos, pts[n-1].Pos
	knots := make([]float64, m+k+1)
	for i := 0; i <= k; i++ {
		knots[i] = x0
		knots[m+k-i] = x1
	}
	if m == n {
		for j := 1; j < m-k; j++ {
			sum := 0.0
			for i := j; i < j+k; i++ {
				sum += pts[i].Pos
			}
			knots[j+k] = sum / float64(k)
		}
	} else {
		for j := 1; j < m-k; j++ {
			knots[j+k] = x0 + (x1-x0)*float64(j)/float64(m-k)
		}
	}
	return knots
}

// findSpan locates the knot span containing pos (Piegl & Tiller A2.1).
// m is the control point count; valid spans are [k, m-1].
func findSpan(knots []float64, k, m int, pos float64) int {
	if pos >= knots[m] {
		return m - 1
	}
	if pos <= knots[k] {
		return k
	}
	lo, hi := k, m
	mid := (lo + hi) / 2
	for pos < knots[mid] || pos >= knots[mid+1] {
		if pos < knots[mid] {
			hi = mid
		} else {
			lo = mid
		}
		mid = (lo + hi) / 2
	}
	return mid
}

// basisFuns computes the k+1 nonvanishing basis functions at pos for the
// given span (Piegl & Tiller A2.2).
func basisFuns(knots []float64, k, span int, pos float64) []float64 {
	basis := make([]float64, k+1)
	left := make([]float64, k+1)
	right := make([]float64, k+1)
	basis[0] = 1
	for j := 1; j <= k; j++ {
		left[j] = pos - knots[span+1-j]
		right[j] = knots[span+j] - pos
		saved := 0.0
		for r := 0; r < j; r++ {
			tmp := basis[r] / (right[r+1] + left[j-r])
			basis[r] = saved + right[r+1]*tmp
			saved = left[j-r] * tmp
		}
		basis[j] = saved
	}
	return basis
}
