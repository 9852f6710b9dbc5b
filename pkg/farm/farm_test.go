package farm

import (
	"math"
	"testing"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/windloft/pkg/contour"
	"github.com/chazu/windloft/pkg/mesh"
)

func twoTurbineLayout() Layout {
	return Layout{
		Turbines: []TurbineSpec{
			{Diameter: 100, Height: 80, Blades: 3},
			{Diameter: 100, Height: 80, Blades: 3, Base: v3.Vec{X: 100}, YawDeg: 45},
		},
	}
}

func TestBuildNamesAndIndependence(t *testing.T) {
	fm, err := Build(twoTurbineLayout())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	names := fm.Names()
	if len(names) != 2 || names[0] != "turbine0" || names[1] != "turbine1" {
		t.Fatalf("farm parts = %v, want [turbine0 turbine1]", names)
	}

	// Undoing turbine1's placement must reproduce turbine0's geometry
	// exactly: both were built from the same spec.
	t0 := fm.Part("turbine0").(*mesh.MultiPart)
	t1 := fm.Part("turbine1").(*mesh.MultiPart).Clone().(*mesh.MultiPart)
	inv := mesh.Euler(0, 0, -45)
	if err := t1.Transform(inv.Mul(mesh.Rigid(mesh.Euler(0, 0, 0), v3.Vec{X: -100}))); err != nil {
		t.Fatal(err)
	}

	a := collectTriangles(t0)
	b := collectTriangles(t1)
	if len(a) == 0 || len(a) != len(b) {
		t.Fatalf("triangle counts %d vs %d", len(a), len(b))
	}
	for i := range a {
		for k := 0; k < 3; k++ {
			if a[i][k].Sub(b[i][k]).Length() > 1e-9 {
				t.Fatalf("triangle %d vertex %d: %v vs %v", i, k, a[i][k], b[i][k])
			}
		}
	}
}

func collectTriangles(mp *mesh.MultiPart) [][3]v3.Vec {
	var out [][3]v3.Vec
	mp.Walk(func(path string, p mesh.Part) {
		if tm, ok := p.(*mesh.TriMesh); ok {
			for _, tri := range tm.Triangles {
				out = append(out, [3]v3.Vec{tri[0], tri[1], tri[2]})
			}
		}
	})
	return out
}

func TestBuildValidation(t *testing.T) {
	if _, err := Build(Layout{}); err == nil {
		t.Error("empty layout should fail")
	}
	bad := Layout{Turbines: []TurbineSpec{{Diameter: 0, Height: 80, Blades: 3}}}
	if _, err := Build(bad); err == nil {
		t.Error("zero diameter should fail")
	}
}

func hexPerimeter() []v2.Vec {
	return []v2.Vec{
		{X: 0, Y: 750}, {X: 400, Y: 0}, {X: 1600, Y: 0},
		{X: 2000, Y: 750}, {X: 1600, Y: 1500}, {X: 400, Y: 1500},
	}
}

func TestDomainGridFlat(t *testing.T) {
	layout := twoTurbineLayout()
	layout.Perimeter = hexPerimeter()
	gm, err := DomainGrid(layout, DomainConfig{ArcRes: contour.Uniform{N: 10}, WidthDivs: 4})
	if err != nil {
		t.Fatalf("DomainGrid: %v", err)
	}
	if gm.Dims() != 2 {
		t.Fatalf("flat domain dims = %d, want 2", gm.Dims())
	}
	divs := gm.Divisions()
	if divs[0] != 10 || divs[1] != 4 {
		t.Errorf("divisions = %v, want [10 4]", divs)
	}
	// All nodes at ZMin = 0.
	for off := 0; off < gm.NodeCount(); off++ {
		if z := gm.NodeAt(off)[2]; z != 0 {
			t.Fatalf("node %d z = %g, want 0", off, z)
		}
	}
}

func TestDomainGridRectanglePerimeter(t *testing.T) {
	// Rectangular perimeters are the common site-survey shape; their
	// vertical end edges must not defeat the contour split.
	layout := twoTurbineLayout()
	layout.Perimeter = []v2.Vec{
		{X: 0, Y: 0}, {X: 2000, Y: 0}, {X: 2000, Y: 1500}, {X: 0, Y: 1500},
	}
	gm, err := DomainGrid(layout, DomainConfig{ArcRes: contour.Uniform{N: 8}, WidthDivs: 4})
	if err != nil {
		t.Fatalf("DomainGrid: %v", err)
	}
	divs := gm.Divisions()
	if divs[0] != 8 || divs[1] != 4 {
		t.Errorf("divisions = %v, want [8 4]", divs)
	}
	// Both chains meet at the x extrema, so every width station collapses
	// to the same corner at the first and last arc stations.
	for j := 0; j <= divs[1]; j++ {
		first := gm.NodeAt(j)
		if math.Abs(first[0]) > 1e-6 {
			t.Errorf("arc start node at width %d has x = %g, want 0", j, first[0])
		}
		last := gm.NodeAt(divs[0]*(divs[1]+1) + j)
		if math.Abs(last[0]-2000) > 1e-6 {
			t.Errorf("arc end node at width %d has x = %g, want 2000", j, last[0])
		}
	}
}

func TestDomainGridLayered(t *testing.T) {
	layout := twoTurbineLayout()
	layout.Perimeter = hexPerimeter()
	gm, err := DomainGrid(layout, DomainConfig{
		ArcRes:    contour.Uniform{N: 8},
		WidthDivs: 3,
		Layers:    contour.Uniform{N: 5},
	})
	if err != nil {
		t.Fatalf("DomainGrid: %v", err)
	}
	if gm.Dims() != 3 {
		t.Fatalf("layered domain dims = %d, want 3", gm.Dims())
	}

	// Default z-range: max height + 1.25 * max diameter / 2.
	wantZMax := 80 + 1.25*100/2
	minZ, maxZ := math.Inf(1), math.Inf(-1)
	for off := 0; off < gm.NodeCount(); off++ {
		z := gm.NodeAt(off)[2]
		minZ = math.Min(minZ, z)
		maxZ = math.Max(maxZ, z)
	}
	if minZ != 0 {
		t.Errorf("min z = %g, want 0", minZ)
	}
	if math.Abs(maxZ-wantZMax) > 1e-9 {
		t.Errorf("max z = %g, want %g", maxZ, wantZMax)
	}
}

func TestDomainGridMultiSectionLayers(t *testing.T) {
	layout := twoTurbineLayout()
	layout.Perimeter = hexPerimeter()
	gm, err := DomainGrid(layout, DomainConfig{
		ArcRes:    contour.Sections{{Fraction: 0.5, Count: 6, Stretch: 2}, {Fraction: 0.5, Count: 6, Stretch: 2, Reverse: true}},
		WidthDivs: 2,
		Layers:    contour.Stretched{N: 4, Factor: 1.5},
	})
	if err != nil {
		t.Fatalf("DomainGrid: %v", err)
	}
	divs := gm.Divisions()
	if divs[0] != 12 || divs[2] != 4 {
		t.Errorf("divisions = %v, want arc 12 and layers 4", divs)
	}
}

func TestDomainGridBlending(t *testing.T) {
	layout := twoTurbineLayout()
	// A hexagon: lower chain along y=0, upper along y=10.
	layout.Perimeter = []v2.Vec{
		{X: 0, Y: 5}, {X: 2, Y: 0}, {X: 8, Y: 0},
		{X: 10, Y: 5}, {X: 8, Y: 10}, {X: 2, Y: 10},
	}
	gm, err := DomainGrid(layout, DomainConfig{ArcRes: contour.Uniform{N: 4}, WidthDivs: 2})
	if err != nil {
		t.Fatal(err)
	}
	// Midway in the blend dimension each node sits halfway between the
	// chains.
	for i := 0; i <= 4; i++ {
		lo, err := gm.Node([]int{i, 0})
		if err != nil {
			t.Fatal(err)
		}
		hi, _ := gm.Node([]int{i, 2})
		mid, _ := gm.Node([]int{i, 1})
		if math.Abs(mid[1]-(lo[1]+hi[1])/2) > 1e-9 {
			t.Errorf("arc %d: mid y = %g, want %g", i, mid[1], (lo[1]+hi[1])/2)
		}
	}
}

func TestDomainGridValidation(t *testing.T) {
	layout := twoTurbineLayout()
	if _, err := DomainGrid(layout, DomainConfig{}); err == nil {
		t.Error("missing perimeter should fail")
	}
	layout.Perimeter = []v2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}}
	if _, err := DomainGrid(layout, DomainConfig{}); err == nil {
		t.Error("two-point perimeter should fail")
	}
}

func TestAttachWake(t *testing.T) {
	layout := twoTurbineLayout()
	layout.Perimeter = hexPerimeter()
	gm, err := DomainGrid(layout, DomainConfig{ArcRes: contour.Uniform{N: 4}, WidthDivs: 2, Layers: contour.Uniform{N: 2}})
	if err != nil {
		t.Fatal(err)
	}
	err = AttachWake(gm, "wake", func(p v3.Vec) v3.Vec {
		return v3.Vec{X: 8, Y: 0, Z: -p.Z / 100}
	})
	if err != nil {
		t.Fatalf("AttachWake: %v", err)
	}
	rows := gm.Fields["wake"]
	if len(rows) != gm.NodeCount() {
		t.Fatalf("wake rows = %d, want %d", len(rows), gm.NodeCount())
	}
	if rows[0][0] != 8 {
		t.Errorf("wake row 0 = %v, want x component 8", rows[0])
	}
	if err := AttachWake(gm, "wake", func(p v3.Vec) v3.Vec { return v3.Vec{} }); err == nil {
		t.Error("duplicate wake field should fail")
	}
}
