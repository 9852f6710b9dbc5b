// Package grid provides N-dimensional rectilinear parametric grids. A grid
// starts out holding parametric coordinates and is overwritten in place by a
// space transform to hold physical coordinates. One dimension may be marked
// periodic, which affects index topology only: transformed end coordinates
// are not forced to coincide.
package grid

import "fmt"

// Grid is a dense rectilinear node array, stored row-major (last index
// dimension fastest). The index dimensionality is fixed at construction;
// the coordinate dimensionality starts equal to it and may change when a
// transform maps parametric to physical coordinates (a 2D parametric
// surface produces 3D physical points).
type Grid struct {
	min, max []float64
	divs     []int
	loopDim  int   // -1 when no dimension is periodic
	counts   []int // nodes per index dimension: divs[d]+1
	coordDim int
	nodes    []float64 // len = product(counts) * coordDim
}

// Option configures grid construction.
type Option func(*Grid) error

// Loop marks index dimension d as logically periodic.
func Loop(d int) Option {
	return func(g *Grid) error {
		if d < 0 || d >= len(g.divs) {
			return fmt.Errorf("grid: loop dimension %d out of range [0,%d)", d, len(g.divs))
		}
		g.loopDim = d
		return nil
	}
}

// New constructs a grid spanning [min[d], max[d]] with divs[d] divisions
// (divs[d]+1 nodes) per dimension, filled with parametric coordinates.
func New(min, max []float64, divs []int, opts ...Option) (*Grid, error) {
	n := len(divs)
	if n == 0 {
		return nil, fmt.Errorf("grid: no dimensions")
	}
	if len(min) != n || len(max) != n {
		return nil, fmt.Errorf("grid: min/max/divs lengths %d/%d/%d differ", len(min), len(max), n)
	}
	total := 1
	counts := make([]int, n)
	for d, dv := range divs {
		if dv < 1 {
			return nil, fmt.Errorf("grid: dimension %d has %d divisions, want >= 1", d, dv)
		}
		counts[d] = dv + 1
		total *= counts[d]
	}

	g := &Grid{
		min:      append([]float64(nil), min...),
		max:      append([]float64(nil), max...),
		divs:     append([]int(nil), divs...),
		loopDim:  -1,
		counts:   counts,
		coordDim: n,
		nodes:    make([]float64, total*n),
	}
	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}

	idx := make([]int, n)
	for off := 0; off < total; off++ {
		for d := 0; d < n; d++ {
			g.nodes[off*n+d] = min[d] + (max[d]-min[d])*float64(idx[d])/float64(divs[d])
		}
		incr(idx, counts)
	}
	return g, nil
}

// incr advances a multi-index row-major (last dimension fastest).
func incr(idx, counts []int) {
	for d := len(idx) - 1; d >= 0; d-- {
		idx[d]++
		if idx[d] < counts[d] {
			return
		}
		idx[d] = 0
	}
}

// Dims reports the number of index dimensions.
func (g *Grid) Dims() int { return len(g.divs) }

// CoordDim reports the coordinate dimensionality of the stored nodes.
func (g *Grid) CoordDim() int { return g.coordDim }

// Divisions returns the per-dimension division counts.
func (g *Grid) Divisions() []int {
	return append([]int(nil), g.divs...)
}

// NodeCount reports the total number of nodes.
func (g *Grid) NodeCount() int { return len(g.nodes) / g.coordDim }

// LoopDim reports the periodic index dimension, or -1 when none is set.
func (g *Grid) LoopDim() int { return g.loopDim }

// Wrap normalizes index i in dimension d: wrapping modulo the division
// count when d is the periodic dimension, clamping otherwise.
func (g *Grid) Wrap(d, i int) int {
	if d == g.loopDim {
		i %= g.divs[d]
		if i < 0 {
			i += g.divs[d]
		}
		return i
	}
	if i < 0 {
		return 0
	}
	if i >= g.counts[d] {
		return g.counts[d] - 1
	}
	return i
}

// offset linearizes a multi-index.
func (g *Grid) offset(index []int) (int, error) {
	if len(index) != len(g.divs) {
		return 0, fmt.Errorf("grid: index has %d entries, grid has %d dimensions", len(index), len(g.divs))
	}
	off := 0
	for d, i := range index {
		if i < 0 || i >= g.counts[d] {
			return 0, fmt.Errorf("grid: index %d out of range [0,%d) in dimension %d", i, g.counts[d], d)
		}
		off = off*g.counts[d] + i
	}
	return off, nil
}

// Node returns a copy of the coordinates stored at index.
func (g *Grid) Node(index []int) ([]float64, error) {
	off, err := g.offset(index)
	if err != nil {
		return nil, err
	}
	out := make([]float64, g.coordDim)
	copy(out, g.nodes[off*g.coordDim:(off+1)*g.coordDim])
	return out, nil
}

// NodeAt returns the backing coordinate slice at linear offset off. The
// slice aliases grid storage; callers that mutate it mutate the grid.
func (g *Grid) NodeAt(off int) []float64 {
	return g.nodes[off*g.coordDim : (off+1)*g.coordDim]
}

// TransformFunc maps a node's current coordinates and multi-index to new
// coordinates. It must be pure: node evaluations have no cross-node
// dependencies and may be reordered.
type TransformFunc func(coords []float64, index []int) ([]float64, error)

// Apply overwrites every node with f(current coordinates, multi-index). The
// first returned point fixes the new coordinate dimensionality; a transform
// that returns inconsistent lengths fails. On error the grid is left
// untouched.
func (g *Grid) Apply(f TransformFunc) error {
	total := g.NodeCount()
	idx := make([]int, len(g.divs))
	scratch := make([]float64, g.coordDim)

	outDim := -1
	var out []float64
	for off := 0; off < total; off++ {
		copy(scratch, g.nodes[off*g.coordDim:(off+1)*g.coordDim])
		p, err := f(scratch, idx)
		if err != nil {
			return fmt.Errorf("grid: transform at %v: %w", idx, err)
		}
		if outDim == -1 {
			outDim = len(p)
			if outDim < 1 {
				return fmt.Errorf("grid: transform produced %d coordinates", outDim)
			}
			out = make([]float64, total*outDim)
		} else if len(p) != outDim {
			return fmt.Errorf("grid: transform produced %d coordinates at %v, %d elsewhere", len(p), idx, outDim)
		}
		copy(out[off*outDim:], p)
		incr(idx, g.counts)
	}

	g.nodes = out
	g.coordDim = outDim
	return nil
}

// Slice extracts the (N-1)-dimensional sub-grid at index i of dimension d.
// The slice keeps the coordinate dimensionality of the parent and shares no
// storage with it. Periodicity survives only if the periodic dimension is
// not the one sliced away.
func (g *Grid) Slice(d, i int) (*Grid, error) {
	if len(g.divs) < 2 {
		return nil, fmt.Errorf("grid: cannot slice a %d-dimensional grid", len(g.divs))
	}
	if d < 0 || d >= len(g.divs) {
		return nil, fmt.Errorf("grid: slice dimension %d out of range [0,%d)", d, len(g.divs))
	}
	if i < 0 || i >= g.counts[d] {
		return nil, fmt.Errorf("grid: slice index %d out of range [0,%d)", i, g.counts[d])
	}

	drop := func(xs []float64) []float64 {
		out := make([]float64, 0, len(xs)-1)
		out = append(out, xs[:d]...)
		return append(out, xs[d+1:]...)
	}
	dropInt := func(xs []int) []int {
		out := make([]int, 0, len(xs)-1)
		out = append(out, xs[:d]...)
		return append(out, xs[d+1:]...)
	}

	s := &Grid{
		min:      drop(g.min),
		max:      drop(g.max),
		divs:     dropInt(g.divs),
		loopDim:  -1,
		counts:   dropInt(g.counts),
		coordDim: g.coordDim,
	}
	if g.loopDim >= 0 && g.loopDim != d {
		s.loopDim = g.loopDim
		if g.loopDim > d {
			s.loopDim--
		}
	}

	total := 1
	for _, c := range s.counts {
		total *= c
	}
	s.nodes = make([]float64, total*s.coordDim)

	idx := make([]int, len(s.divs))
	full := make([]int, len(g.divs))
	for off := 0; off < total; off++ {
		copy(full[:d], idx[:d])
		full[d] = i
		copy(full[d+1:], idx[d:])
		srcOff, err := g.offset(full)
		if err != nil {
			return nil, err
		}
		copy(s.nodes[off*s.coordDim:], g.nodes[srcOff*g.coordDim:(srcOff+1)*g.coordDim])
		incr(idx, s.counts)
	}
	return s, nil
}

// Clone returns a deep copy sharing no node storage.
func (g *Grid) Clone() *Grid {
	c := *g
	c.min = append([]float64(nil), g.min...)
	c.max = append([]float64(nil), g.max...)
	c.divs = append([]int(nil), g.divs...)
	c.counts = append([]int(nil), g.counts...)
	c.nodes = append([]float64(nil), g.nodes...)
	return &c
}
