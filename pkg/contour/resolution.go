package contour

import (
	"fmt"
	"math"
)

// Resolution describes point density along a discretized curve. Exactly
// three implementations exist: Uniform, Stretched, and Sections. Generators
// that accept a Resolution must handle all of them; any other implementation
// is a fatal validation error, surfaced before sampling begins.
type Resolution interface {
	resolution()
}

// Uniform places n+1 evenly spaced points.
type Uniform struct {
	N int
}

func (Uniform) resolution() {}

// Stretched places n+1 points with power-law density. Factor > 1 clusters
// points toward the start; Reverse mirrors the clustering toward the end.
// Factor <= 0 is treated as 1 (uniform).
type Stretched struct {
	N       int
	Factor  float64
	Reverse bool
}

func (Stretched) resolution() {}

// Section is one segment of a piecewise density descriptor.
type Section struct {
	Fraction float64 // fractional length of the parameter range covered
	Count    int     // points added by this section
	Stretch  float64 // power-law factor within the section
	Reverse  bool    // cluster toward the section end instead of the start
}

// Sections is an ordered piecewise density descriptor. Total point count is
// the sum of section counts plus one; section fractions are normalized to
// cover the full parameter range.
type Sections []Section

func (Sections) resolution() {}

// PointCount reports how many points sampling with res produces.
func PointCount(res Resolution) (int, error) {
	switch r := res.(type) {
	case Uniform:
		if r.N < 1 {
			return 0, fmt.Errorf("contour: uniform resolution needs N >= 1, got %d", r.N)
		}
		return r.N + 1, nil
	case Stretched:
		if r.N < 1 {
			return 0, fmt.Errorf("contour: stretched resolution needs N >= 1, got %d", r.N)
		}
		return r.N + 1, nil
	case Sections:
		if len(r) == 0 {
			return 0, fmt.Errorf("contour: empty section descriptor")
		}
		total := 0
		for i, s := range r {
			if s.Count < 1 {
				return 0, fmt.Errorf("contour: section %d has count %d, want >= 1", i, s.Count)
			}
			if s.Fraction <= 0 {
				return 0, fmt.Errorf("contour: section %d has fraction %g, want > 0", i, s.Fraction)
			}
			total += s.Count
		}
		return total + 1, nil
	case nil:
		return 0, fmt.Errorf("contour: nil resolution")
	}
	return 0, fmt.Errorf("contour: unsupported resolution type %T", res)
}

// SampleParams expands res into explicit parameter values over [t0, t1].
func SampleParams(t0, t1 float64, res Resolution) ([]float64, error) {
	if _, err := PointCount(res); err != nil {
		return nil, err
	}
	switch r := res.(type) {
	case Uniform:
		return stretchedParams(t0, t1, r.N, 1, false), nil
	case Stretched:
		return stretchedParams(t0, t1, r.N, r.Factor, r.Reverse), nil
	case Sections:
		frac := 0.0
		for _, s := range r {
			frac += s.Fraction
		}
		ts := []float64{t0}
		a := t0
		for _, s := range r {
			b := a + (t1-t0)*s.Fraction/frac
			seg := stretchedParams(a, b, s.Count, s.Stretch, s.Reverse)
			ts = append(ts, seg[1:]...)
			a = b
		}
		// Guard against accumulated rounding on the final point.
		ts[len(ts)-1] = t1
		return ts, nil
	}
	return nil, fmt.Errorf("contour: unsupported resolution type %T", res)
}

// stretchedParams returns n+1 values from a to b with power-law spacing.
func stretchedParams(a, b float64, n int, factor float64, reverse bool) []float64 {
	if factor <= 0 {
		factor = 1
	}
	ts := make([]float64, n+1)
	for j := 0; j <= n; j++ {
		u := float64(j) / float64(n)
		var s float64
		if reverse {
			s = 1 - math.Pow(1-u, factor)
		} else {
			s = math.Pow(u, factor)
		}
		ts[j] = a + (b-a)*s
	}
	return ts
}
