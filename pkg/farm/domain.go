package farm

import (
	"fmt"

	"github.com/chazu/windloft/pkg/contour"
	"github.com/chazu/windloft/pkg/grid"
	"github.com/chazu/windloft/pkg/mesh"
)

// DomainConfig controls the fluid-domain grid over the farm perimeter.
// Zero-valued fields take the documented defaults.
type DomainConfig struct {
	// ArcRes is the arclength resolution along the perimeter chains,
	// shared by the lower and upper chain. Default Uniform{24}.
	ArcRes contour.Resolution
	// WidthDivs is the number of blend divisions between the chains.
	// Default 16.
	WidthDivs int
	// Layers is the vertical layering resolution. Nil produces a flat
	// single-layer grid at ZMin.
	Layers contour.Resolution
	// ZMin defaults to 0. ZMax defaults to
	// max(tower height) + 1.25 * max(diameter) / 2 over the layout.
	ZMin, ZMax float64
}

// DomainGrid builds the fluid-domain grid for a farm layout: the closed
// perimeter is split into two chains, both are arclength-parameterized and
// discretized with the shared arc resolution, and a grid is built whose
// first index runs along the arclength samples, second blends linearly from
// the lower to the upper chain, and third (when layered) maps to
// [ZMin, ZMax].
func DomainGrid(layout Layout, cfg DomainConfig) (*mesh.GridMesh, error) {
	if len(layout.Perimeter) < 3 {
		return nil, fmt.Errorf("farm: perimeter has %d points, need at least 3", len(layout.Perimeter))
	}
	if cfg.ArcRes == nil {
		cfg.ArcRes = contour.Uniform{N: 24}
	}
	if cfg.WidthDivs == 0 {
		cfg.WidthDivs = 16
	}
	if cfg.WidthDivs < 1 {
		return nil, fmt.Errorf("farm: width divisions %d, want >= 1", cfg.WidthDivs)
	}
	if cfg.ZMax == 0 {
		cfg.ZMax = layout.MaxHeight() + 1.25*layout.MaxDiameter()/2
	}

	lowerChain, upperChain, err := contour.Split(layout.Perimeter)
	if err != nil {
		return nil, err
	}
	lowerParam, err := contour.Parameterize(lowerChain)
	if err != nil {
		return nil, err
	}
	upperParam, err := contour.Parameterize(upperChain)
	if err != nil {
		return nil, err
	}
	lower, err := contour.Discretize(lowerParam.Func(), 0, 1, cfg.ArcRes)
	if err != nil {
		return nil, err
	}
	upper, err := contour.Discretize(upperParam.Func(), 0, 1, cfg.ArcRes)
	if err != nil {
		return nil, err
	}

	// Vertical stations. A nil layer resolution yields a flat grid.
	zs := []float64{cfg.ZMin}
	if cfg.Layers != nil {
		params, err := contour.SampleParams(0, 1, cfg.Layers)
		if err != nil {
			return nil, fmt.Errorf("farm: layer resolution: %w", err)
		}
		zs = make([]float64, len(params))
		for i, t := range params {
			zs[i] = cfg.ZMin + (cfg.ZMax-cfg.ZMin)*t
		}
	}

	arcDivs := len(lower) - 1
	var g *grid.Grid
	if len(zs) > 1 {
		g, err = grid.New(
			[]float64{0, 0, 0},
			[]float64{1, 1, 1},
			[]int{arcDivs, cfg.WidthDivs, len(zs) - 1},
		)
	} else {
		g, err = grid.New(
			[]float64{0, 0},
			[]float64{1, 1},
			[]int{arcDivs, cfg.WidthDivs},
		)
	}
	if err != nil {
		return nil, err
	}

	err = g.Apply(func(c []float64, idx []int) ([]float64, error) {
		lo, up := lower[idx[0]], upper[idx[0]]
		w := c[1]
		p := lo.MulScalar(1 - w).Add(up.MulScalar(w))
		z := zs[0]
		if len(idx) == 3 {
			z = zs[idx[2]]
		}
		return []float64{p.X, p.Y, z}, nil
	})
	if err != nil {
		return nil, err
	}
	return mesh.NewGridMesh(g)
}
