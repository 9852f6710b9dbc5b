package mesh

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/windloft/pkg/grid"
)

// Triangulate splits every quadrilateral cell of a transformed surface grid
// into two triangles. The grid must have two index dimensions and 3D node
// coordinates. splitDim selects the diagonal: 0 runs the diagonal from the
// low corner in dimension 0, 1 from the low corner in dimension 1. A grid
// with divisions (a, b) yields exactly 2*a*b triangles with consistent
// winding.
func Triangulate(g *grid.Grid, splitDim int) (*TriMesh, error) {
	if g.Dims() != 2 {
		return nil, fmt.Errorf("mesh: triangulating a %d-dimensional grid, want 2", g.Dims())
	}
	if g.CoordDim() != 3 {
		return nil, fmt.Errorf("mesh: triangulating %d-coordinate nodes, want 3", g.CoordDim())
	}
	if splitDim != 0 && splitDim != 1 {
		return nil, fmt.Errorf("mesh: split dimension %d, want 0 or 1", splitDim)
	}

	divs := g.Divisions()
	a, b := divs[0], divs[1]
	tris := make([]*sdf.Triangle3, 0, 2*a*b)

	at := func(i, j int) v3.Vec {
		n, _ := g.Node([]int{i, j})
		return v3.Vec{X: n[0], Y: n[1], Z: n[2]}
	}

	for i := 0; i < a; i++ {
		for j := 0; j < b; j++ {
			p00 := at(i, j)
			p10 := at(i+1, j)
			p01 := at(i, j+1)
			p11 := at(i+1, j+1)
			if splitDim == 0 {
				// Diagonal p00-p11.
				tris = append(tris,
					&sdf.Triangle3{p00, p10, p11},
					&sdf.Triangle3{p00, p11, p01})
			} else {
				// Diagonal p10-p01.
				tris = append(tris,
					&sdf.Triangle3{p00, p10, p01},
					&sdf.Triangle3{p10, p11, p01})
			}
		}
	}
	return &TriMesh{Triangles: tris}, nil
}
