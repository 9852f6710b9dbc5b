// Package loft generates lofted surfaces: smooth interpolation between an
// ordered sequence of cross-sectional contours along a span, driven by
// fitted distribution curves for chord, twist, leading edge and tilt. The
// space transform maps (contour index, span) grid coordinates to physical
// 3D points.
package loft

import (
	"fmt"
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/windloft/pkg/contour"
	"github.com/chazu/windloft/pkg/grid"
	"github.com/chazu/windloft/pkg/mesh"
	"github.com/chazu/windloft/pkg/spline"
)

// Distribution is an ordered (position, value) table, fit once into a
// spline and immutable afterwards.
type Distribution []spline.Point

// Fit builds the spline for a distribution.
func (d Distribution) Fit(degree int, smoothing float64, boundary spline.Boundary) (*spline.Curve, error) {
	return spline.Fit(d, degree, smoothing, boundary)
}

// Section is one cross-sectional contour positioned along the span.
type Section struct {
	Span   float64
	Points []v2.Vec
}

// SectionTable is an ordered sequence of cross sections.
type SectionTable []Section

// Validate checks the table invariants: at least one section, strictly
// increasing span positions, and identical point counts across all
// contours. Violations are fatal: generators validate before any node is
// computed.
func (t SectionTable) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("loft: empty section table")
	}
	n := len(t[0].Points)
	if n < 3 {
		return fmt.Errorf("loft: section 0 has %d contour points, need at least 3", n)
	}
	for i, s := range t {
		if len(s.Points) != n {
			return fmt.Errorf("loft: section %d has %d contour points, section 0 has %d", i, len(s.Points), n)
		}
		if i > 0 && s.Span <= t[i-1].Span {
			return fmt.Errorf("loft: section spans not strictly increasing at index %d (%g after %g)",
				i, s.Span, t[i-1].Span)
		}
	}
	return nil
}

// Bracket finds the section pair bracketing |span| by linear scan (the
// table holds tens of sections) and the blend weight, clamped to [0,1].
// Queries outside the table collapse to the nearest end section.
func (t SectionTable) Bracket(span float64) (in, out int, weight float64) {
	s := math.Abs(span)
	if s <= t[0].Span || len(t) == 1 {
		return 0, 0, 0
	}
	for i := 0; i < len(t)-1; i++ {
		if s <= t[i+1].Span {
			w := (s - t[i].Span) / (t[i+1].Span - t[i].Span)
			if w < 0 {
				w = 0
			} else if w > 1 {
				w = 1
			}
			return i, i + 1, w
		}
	}
	last := len(t) - 1
	return last, last, 0
}

// Config holds the inputs for a blade or wing loft. Distribution positions
// and section spans are span fractions; SpanLength scales the finished
// geometry to physical size.
type Config struct {
	Chord      Distribution
	Twist      Distribution // degrees
	LEx        Distribution // leading edge x offset
	LEz        Distribution // leading edge z offset
	Tilt       Distribution // degrees, optional
	Sections   SectionTable
	SpanLength float64

	// Spline fitting knobs. Degree defaults to 3, smoothing to 0,
	// boundary to Clamp.
	Degree    int
	Smoothing float64
	Boundary  spline.Boundary
}

// Blade is a configured loft with all distribution curves fitted. The blade
// template spans +y: contour points live in the x-z plane, twist rotates
// about the span axis, tilt sweeps about x.
type Blade struct {
	chord, twist, lex, lez *spline.Curve
	tilt                   *spline.Curve // nil when no tilt distribution
	sections               SectionTable
	spanLength             float64
}

// New validates cfg and fits the distribution splines.
func New(cfg Config) (*Blade, error) {
	if err := cfg.Sections.Validate(); err != nil {
		return nil, err
	}
	if cfg.SpanLength <= 0 {
		return nil, fmt.Errorf("loft: span length %g, want > 0", cfg.SpanLength)
	}
	degree := cfg.Degree
	if degree == 0 {
		degree = 3
	}

	fit := func(name string, d Distribution) (*spline.Curve, error) {
		c, err := d.Fit(degree, cfg.Smoothing, cfg.Boundary)
		if err != nil {
			return nil, fmt.Errorf("loft: fitting %s distribution: %w", name, err)
		}
		return c, nil
	}

	b := &Blade{sections: cfg.Sections, spanLength: cfg.SpanLength}
	var err error
	if b.chord, err = fit("chord", cfg.Chord); err != nil {
		return nil, err
	}
	if b.twist, err = fit("twist", cfg.Twist); err != nil {
		return nil, err
	}
	if b.lex, err = fit("leading-edge x", cfg.LEx); err != nil {
		return nil, err
	}
	if b.lez, err = fit("leading-edge z", cfg.LEz); err != nil {
		return nil, err
	}
	if len(cfg.Tilt) > 0 {
		if b.tilt, err = fit("tilt", cfg.Tilt); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// PointCount reports the shared contour point count.
func (b *Blade) PointCount() int { return len(b.sections[0].Points) }

// SpanRange reports the section table's span extent.
func (b *Blade) SpanRange() (lo, hi float64) {
	return b.sections[0].Span, b.sections[len(b.sections)-1].Span
}

// At evaluates the loft at contour index i and span fraction span: blend
// the i-th contour point of the bracketing sections, scale by chord,
// rotate by the local twist and tilt, translate to the leading edge, and
// scale the result to physical size.
func (b *Blade) At(i int, span float64) (v3.Vec, error) {
	if i < 0 || i >= b.PointCount() {
		return v3.Vec{}, fmt.Errorf("loft: contour index %d out of range [0,%d)", i, b.PointCount())
	}
	s := math.Abs(span)
	chord := b.chord.At(s)
	twist := b.twist.At(s)
	lex := b.lex.At(s)
	lez := b.lez.At(s)
	tilt := 0.0
	if b.tilt != nil {
		tilt = b.tilt.At(s)
	}

	in, out, w := b.sections.Bracket(span)
	pIn := b.sections[in].Points[i]
	pOut := b.sections[out].Points[i]
	p := pOut.MulScalar(w).Add(pIn.MulScalar(1 - w))

	// Contour plane is x-z; chord scaling happens in-plane.
	q := v3.Vec{X: p.X * chord, Y: 0, Z: p.Y * chord}
	rot := mesh.Euler(-tilt, -twist, 0)
	q = rot.MulPosition(q)
	q = q.Add(v3.Vec{X: lex, Y: span, Z: lez})
	return q.MulScalar(b.spanLength), nil
}

// Mesh lofts the blade into a surface grid: index dimension 0 runs around
// the contour (periodic), dimension 1 along the span with the given
// resolution. The section-table invariant is re-checked before any node is
// computed.
func (b *Blade) Mesh(spanRes contour.Resolution) (*grid.Grid, error) {
	if err := b.sections.Validate(); err != nil {
		return nil, err
	}
	lo, hi := b.SpanRange()
	spans, err := contour.SampleParams(lo, hi, spanRes)
	if err != nil {
		return nil, fmt.Errorf("loft: span resolution: %w", err)
	}

	// The contour dimension carries n+1 nodes: the closing node repeats
	// contour point 0 so the triangulated surface seals at the seam, the
	// same way revolved surfaces close their angular dimension.
	n := b.PointCount()
	g, err := grid.New(
		[]float64{0, spans[0]},
		[]float64{float64(n), spans[len(spans)-1]},
		[]int{n, len(spans) - 1},
		grid.Loop(0),
	)
	if err != nil {
		return nil, err
	}

	err = g.Apply(func(c []float64, idx []int) ([]float64, error) {
		i := idx[0]
		if i == n {
			i = 0
		}
		p, err := b.At(i, spans[idx[1]])
		if err != nil {
			return nil, err
		}
		return []float64{p.X, p.Y, p.Z}, nil
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}
