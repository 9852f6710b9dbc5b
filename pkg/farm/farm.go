// Package farm assembles wind-farm meshes from per-turbine specifications
// and generates the fluid-domain grid over the farm perimeter.
package farm

import (
	"fmt"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/windloft/pkg/mesh"
	"github.com/chazu/windloft/pkg/turbine"
)

// TurbineSpec positions one turbine in the farm.
type TurbineSpec struct {
	Diameter float64
	Height   float64
	Blades   int
	Base     v3.Vec  // tower base position
	YawDeg   float64 // yaw about the vertical axis
}

// Layout is a complete farm description.
type Layout struct {
	Turbines  []TurbineSpec
	Perimeter []v2.Vec // closed farm boundary polygon, may be empty
}

// Validate checks the layout before any mesh is produced.
func (l Layout) Validate() error {
	if len(l.Turbines) == 0 {
		return fmt.Errorf("farm: no turbines in layout")
	}
	for i, t := range l.Turbines {
		if t.Diameter <= 0 {
			return fmt.Errorf("farm: turbine %d diameter %g, want > 0", i, t.Diameter)
		}
		if t.Height <= 0 {
			return fmt.Errorf("farm: turbine %d height %g, want > 0", i, t.Height)
		}
		if t.Blades < 1 {
			return fmt.Errorf("farm: turbine %d has %d blades, want >= 1", i, t.Blades)
		}
	}
	return nil
}

// MaxHeight returns the tallest tower in the layout.
func (l Layout) MaxHeight() float64 {
	m := 0.0
	for _, t := range l.Turbines {
		if t.Height > m {
			m = t.Height
		}
	}
	return m
}

// MaxDiameter returns the largest rotor diameter in the layout.
func (l Layout) MaxDiameter() float64 {
	m := 0.0
	for _, t := range l.Turbines {
		if t.Diameter > m {
			m = t.Diameter
		}
	}
	return m
}

// Build assembles the farm: each turbine is built from its own
// (diameter, height, blade count), rotated by its yaw about the vertical
// axis, translated to its base position, and inserted under an ordinal
// part name.
func Build(layout Layout) (*mesh.MultiPart, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	fm := mesh.NewMultiPart()
	for i, spec := range layout.Turbines {
		tb, err := turbine.Build(turbine.Config{
			Diameter: spec.Diameter,
			Height:   spec.Height,
			Blades:   spec.Blades,
		})
		if err != nil {
			return nil, fmt.Errorf("farm: turbine %d: %w", i, err)
		}
		m := mesh.Rigid(mesh.Euler(0, 0, spec.YawDeg), spec.Base)
		if err := tb.Transform(m); err != nil {
			return nil, fmt.Errorf("farm: placing turbine %d: %w", i, err)
		}
		if err := fm.AddPart(fmt.Sprintf("turbine%d", i), tb); err != nil {
			return nil, err
		}
	}
	return fm, nil
}

// AttachWake samples field at every node of the domain grid and attaches
// the result as opaque per-node vector data. The field is carried, never
// solved or interpreted.
func AttachWake(g *mesh.GridMesh, name string, field func(p v3.Vec) v3.Vec) error {
	rows := make([][]float64, g.NodeCount())
	for off := 0; off < g.NodeCount(); off++ {
		n := g.NodeAt(off)
		v := field(v3.Vec{X: n[0], Y: n[1], Z: n[2]})
		rows[off] = []float64{v.X, v.Y, v.Z}
	}
	return g.AttachField(name, rows)
}
