// Package turbine assembles wind-turbine meshes: a lofted blade template
// cloned around the rotor axis, a revolved hub nose, and a tapered tower,
// composed into a named multi-part hierarchy.
//
// Conventions: tower along +z, rotor axis along +x, blade template spans
// +y. Blade azimuth rotates about the rotor axis.
package turbine

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/windloft/pkg/contour"
	"github.com/chazu/windloft/pkg/grid"
	"github.com/chazu/windloft/pkg/loft"
	"github.com/chazu/windloft/pkg/mesh"
)

// Config describes one turbine. Zero-valued optional fields take documented
// defaults derived from Diameter and Height.
type Config struct {
	Diameter float64 // rotor diameter
	Height   float64 // tower height
	Blades   int

	// BladeLoft is the blade template; its SpanLength is overridden with
	// the blade span derived from Diameter and the hub radius. Leave the
	// zero value to use ReferenceBlade().
	BladeLoft loft.Config

	HubRadius   float64 // default Diameter/40
	HubLength   float64 // default 3*HubRadius
	TowerRadius float64 // default Height/40
	TowerTaper  float64 // top radius as a fraction of base, default 0.7

	SpanRes   contour.Resolution // blade spanwise resolution, default Uniform{12}
	ThetaDivs int                // hub/tower circumferential divisions, default 24
	AxialDivs int                // hub axial / tower vertical divisions, default 12
}

// withDefaults resolves the documented default-derivation formulas.
func (c Config) withDefaults() (Config, error) {
	if c.Diameter <= 0 {
		return c, fmt.Errorf("turbine: diameter %g, want > 0", c.Diameter)
	}
	if c.Height <= 0 {
		return c, fmt.Errorf("turbine: height %g, want > 0", c.Height)
	}
	if c.Blades < 1 {
		return c, fmt.Errorf("turbine: %d blades, want >= 1", c.Blades)
	}
	if c.HubRadius == 0 {
		c.HubRadius = c.Diameter / 40
	}
	if c.HubLength == 0 {
		c.HubLength = 3 * c.HubRadius
	}
	if c.TowerRadius == 0 {
		c.TowerRadius = c.Height / 40
	}
	if c.TowerTaper == 0 {
		c.TowerTaper = 0.7
	}
	if c.SpanRes == nil {
		c.SpanRes = contour.Uniform{N: 12}
	}
	if c.ThetaDivs == 0 {
		c.ThetaDivs = 24
	}
	if c.AxialDivs == 0 {
		c.AxialDivs = 12
	}
	if len(c.BladeLoft.Sections) == 0 {
		c.BladeLoft = ReferenceBlade()
	}
	c.BladeLoft.SpanLength = c.Diameter/2 - c.HubRadius
	return c, nil
}

// Build assembles the full turbine: tower at origin orientation, rotor
// (hub plus Blades blade clones) translated to the tower top.
func Build(cfg Config) (*mesh.MultiPart, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}

	rotor, err := buildRotor(cfg)
	if err != nil {
		return nil, err
	}
	// Hub center sits one hub radius above the tower top.
	hubHeight := cfg.Height + cfg.HubRadius
	if err := rotor.Transform(mesh.Rigid(mesh.Euler(0, 0, 0), v3.Vec{Z: hubHeight})); err != nil {
		return nil, err
	}

	tower, err := towerMesh(cfg)
	if err != nil {
		return nil, err
	}

	tb := mesh.NewMultiPart()
	if err := tb.AddPart("rotor", rotor); err != nil {
		return nil, err
	}
	if err := tb.AddPart("tower", tower); err != nil {
		return nil, err
	}
	return tb, nil
}

// buildRotor assembles the hub and the azimuthally placed blade clones at
// the rotor origin.
func buildRotor(cfg Config) (*mesh.MultiPart, error) {
	rotor := mesh.NewMultiPart()

	hub, err := hubMesh(cfg)
	if err != nil {
		return nil, err
	}
	if err := rotor.AddPart("hub", hub); err != nil {
		return nil, err
	}

	blade, err := bladeMesh(cfg)
	if err != nil {
		return nil, err
	}

	step := 360.0 / float64(cfg.Blades)
	for k := 0; k < cfg.Blades; k++ {
		// Clone the template, push the root out to the hub surface,
		// then rotate to this blade's azimuth about the rotor axis.
		inst := blade.Clone()
		azimuth := float64(k) * step
		m := mesh.Euler(azimuth, 0, 0).Mul(mesh.Rigid(mesh.Euler(0, 0, 0), v3.Vec{Y: cfg.HubRadius}))
		if err := inst.Transform(m); err != nil {
			return nil, err
		}
		if err := rotor.AddPart(fmt.Sprintf("blade%d", k+1), inst); err != nil {
			return nil, err
		}
	}
	return rotor, nil
}

// bladeMesh lofts and triangulates the blade template.
func bladeMesh(cfg Config) (*mesh.TriMesh, error) {
	b, err := loft.New(cfg.BladeLoft)
	if err != nil {
		return nil, err
	}
	g, err := b.Mesh(cfg.SpanRes)
	if err != nil {
		return nil, err
	}
	return mesh.Triangulate(g, 0)
}

// hubMesh revolves an ellipsoidal nose about the rotor axis.
func hubMesh(cfg Config) (*mesh.TriMesh, error) {
	g, err := revolve(cfg.ThetaDivs, cfg.AxialDivs, func(u float64) (axial, radius float64) {
		// Ellipsoid of revolution: u in [0,1] front to back.
		axial = cfg.HubLength * (u - 0.5)
		s := 2*u - 1
		radius = cfg.HubRadius * math.Sqrt(math.Max(0, 1-s*s))
		return axial, radius
	})
	if err != nil {
		return nil, err
	}
	// revolve builds about +z; the hub axis is the rotor axis +x.
	tm, err := mesh.Triangulate(g, 0)
	if err != nil {
		return nil, err
	}
	if err := tm.Transform(mesh.Euler(0, 90, 0)); err != nil {
		return nil, err
	}
	return tm, nil
}

// towerMesh builds the tapered tower about +z, base at the origin.
func towerMesh(cfg Config) (*mesh.TriMesh, error) {
	g, err := revolve(cfg.ThetaDivs, cfg.AxialDivs, func(u float64) (axial, radius float64) {
		axial = cfg.Height * u
		radius = cfg.TowerRadius * (1 + (cfg.TowerTaper-1)*u)
		return axial, radius
	})
	if err != nil {
		return nil, err
	}
	return mesh.Triangulate(g, 0)
}

// revolve builds a surface of revolution about +z from an axial profile:
// index dimension 0 is the periodic angle, dimension 1 the profile
// parameter u in [0,1].
func revolve(thetaDivs, axialDivs int, profile func(u float64) (axial, radius float64)) (*grid.Grid, error) {
	g, err := grid.New(
		[]float64{0, 0},
		[]float64{2 * math.Pi, 1},
		[]int{thetaDivs, axialDivs},
		grid.Loop(0),
	)
	if err != nil {
		return nil, err
	}
	err = g.Apply(func(c []float64, idx []int) ([]float64, error) {
		theta, u := c[0], c[1]
		z, r := profile(u)
		return []float64{r * math.Cos(theta), r * math.Sin(theta), z}, nil
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}
