// Package mesh defines the mesh types shared by the generators and the
// rigid-body assembler: triangulated surfaces, transformed parametric grids,
// and named multi-part hierarchies. All node coordinates are physical 3D
// points; transforms are rigid (rotate then translate) and applied in place.
package mesh

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/windloft/pkg/grid"
)

// Part is a mesh that can be rigidly transformed and cloned. Template
// placement always clones first; node buffers are never shared between
// placed instances.
type Part interface {
	Transform(m sdf.M44) error
	Clone() Part
}

// Euler builds a rotation from Euler angles in degrees, applied as
// Rz * Ry * Rx, matching the convention used throughout the assemblers.
func Euler(xDeg, yDeg, zDeg float64) sdf.M44 {
	return sdf.RotateZ(sdf.DtoR(zDeg)).Mul(sdf.RotateY(sdf.DtoR(yDeg))).Mul(sdf.RotateX(sdf.DtoR(xDeg)))
}

// Rigid builds a rotate-then-translate transform.
func Rigid(rot sdf.M44, translate v3.Vec) sdf.M44 {
	return sdf.Translate3d(translate).Mul(rot)
}

// TriMesh is a triangulated surface.
type TriMesh struct {
	Triangles []*sdf.Triangle3
}

// Transform applies m to every vertex.
func (t *TriMesh) Transform(m sdf.M44) error {
	for _, tri := range t.Triangles {
		for k := 0; k < 3; k++ {
			tri[k] = m.MulPosition(tri[k])
		}
	}
	return nil
}

// Clone returns a deep copy.
func (t *TriMesh) Clone() Part {
	c := &TriMesh{Triangles: make([]*sdf.Triangle3, len(t.Triangles))}
	for i, tri := range t.Triangles {
		cp := *tri
		c.Triangles[i] = &cp
	}
	return c
}

// Area sums the triangle areas.
func (t *TriMesh) Area() float64 {
	sum := 0.0
	for _, tri := range t.Triangles {
		ab := tri[1].Sub(tri[0])
		ac := tri[2].Sub(tri[0])
		sum += ab.Cross(ac).Length() / 2
	}
	return sum
}

// GridMesh wraps a transformed parametric grid holding physical 3D
// coordinates, optionally carrying opaque per-node field data (a wake
// vector field, for example). Field values are attached, never interpreted.
type GridMesh struct {
	*grid.Grid
	Fields map[string][][]float64
}

// NewGridMesh wraps g, which must hold 3D coordinates.
func NewGridMesh(g *grid.Grid) (*GridMesh, error) {
	if g.CoordDim() != 3 {
		return nil, fmt.Errorf("mesh: grid holds %d-coordinate nodes, want 3", g.CoordDim())
	}
	return &GridMesh{Grid: g}, nil
}

// AttachField stores one opaque data row per grid node under name.
func (g *GridMesh) AttachField(name string, values [][]float64) error {
	if len(values) != g.NodeCount() {
		return fmt.Errorf("mesh: field %q has %d rows, grid has %d nodes", name, len(values), g.NodeCount())
	}
	if _, dup := g.Fields[name]; dup {
		return fmt.Errorf("mesh: field %q already attached", name)
	}
	if g.Fields == nil {
		g.Fields = make(map[string][][]float64)
	}
	g.Fields[name] = values
	return nil
}

// Transform applies m to every node in place. Attached fields are opaque
// data and are left untouched.
func (g *GridMesh) Transform(m sdf.M44) error {
	for off := 0; off < g.NodeCount(); off++ {
		n := g.NodeAt(off)
		p := m.MulPosition(v3.Vec{X: n[0], Y: n[1], Z: n[2]})
		n[0], n[1], n[2] = p.X, p.Y, p.Z
	}
	return nil
}

// Clone returns a deep copy, including attached fields.
func (g *GridMesh) Clone() Part {
	c := &GridMesh{Grid: g.Grid.Clone()}
	if g.Fields != nil {
		c.Fields = make(map[string][][]float64, len(g.Fields))
		for name, rows := range g.Fields {
			cp := make([][]float64, len(rows))
			for i, r := range rows {
				cp[i] = append([]float64(nil), r...)
			}
			c.Fields[name] = cp
		}
	}
	return c
}
