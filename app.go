package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/deadsy/sdfx/render"

	"github.com/chazu/windloft/pkg/contour"
	"github.com/chazu/windloft/pkg/engine"
	"github.com/chazu/windloft/pkg/farm"
	"github.com/chazu/windloft/pkg/mesh"
	"github.com/chazu/windloft/pkg/turbine"
)

// App orchestrates the full pipeline: farm script -> layout ->
// assembled meshes -> STL files on disk. The core packages hand over
// finished meshes; writing files is the app's job.
type App struct {
	engine *engine.Engine
}

// GenerateOptions controls a single generate run.
type GenerateOptions struct {
	ScriptPath string
	OutDir     string
	Domain     bool // also emit the fluid-domain grid as a surface mesh
	Layers     int  // vertical layers for the domain grid; 0 keeps it flat
}

// NewApp creates an App with a fresh evaluation engine.
func NewApp() *App {
	return &App{engine: engine.NewEngine()}
}

// Generate runs the script at opts.ScriptPath and writes one STL file per
// leaf part under opts.OutDir. Part paths like "turbine0/rotor/blade1"
// become file names "turbine0_rotor_blade1.stl".
func (a *App) Generate(opts GenerateOptions) error {
	source, err := os.ReadFile(opts.ScriptPath)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	layout, evalErrs, err := a.engine.Evaluate(string(source))
	if err != nil {
		return fmt.Errorf("evaluate %s: %w", opts.ScriptPath, err)
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			log.Printf("%s: %s", opts.ScriptPath, e.Error())
		}
		return fmt.Errorf("evaluate %s: %d error(s)", opts.ScriptPath, len(evalErrs))
	}

	parts, err := farm.Build(*layout)
	if err != nil {
		return fmt.Errorf("build farm: %w", err)
	}

	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	if err := writeParts(parts, opts.OutDir); err != nil {
		return err
	}

	if opts.Domain {
		if err := writeDomain(*layout, opts); err != nil {
			return err
		}
	}
	return nil
}

// GenerateBlade writes a single reference blade STL to path. The blade is
// lofted for a rotor of the given diameter.
func (a *App) GenerateBlade(path string, diameter float64) error {
	cfg := turbine.Config{Diameter: diameter, Height: diameter, Blades: 1}
	parts, err := turbine.Build(cfg)
	if err != nil {
		return fmt.Errorf("build blade: %w", err)
	}
	rotor, ok := parts.Part("rotor").(*mesh.MultiPart)
	if !ok {
		return fmt.Errorf("rotor part missing")
	}
	blade, ok := rotor.Part("blade1").(*mesh.TriMesh)
	if !ok {
		return fmt.Errorf("blade part missing")
	}
	if err := render.SaveSTL(path, blade.Triangles); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	log.Printf("wrote %s (%d triangles)", path, len(blade.Triangles))
	return nil
}

// writeParts saves every triangle-mesh leaf of the part tree as its own
// STL file, named after its slash-joined path.
func writeParts(parts *mesh.MultiPart, outDir string) error {
	var walkErr error
	parts.Walk(func(path string, p mesh.Part) {
		if walkErr != nil {
			return
		}
		tm, ok := p.(*mesh.TriMesh)
		if !ok {
			return
		}
		name := strings.ReplaceAll(path, "/", "_") + ".stl"
		file := filepath.Join(outDir, name)
		if err := render.SaveSTL(file, tm.Triangles); err != nil {
			walkErr = fmt.Errorf("write %s: %w", file, err)
			return
		}
		log.Printf("wrote %s (%d triangles)", file, len(tm.Triangles))
	})
	return walkErr
}

// writeDomain builds the fluid-domain grid and writes its ground-level
// slice as a triangulated surface for inspection.
func writeDomain(layout farm.Layout, opts GenerateOptions) error {
	cfg := farm.DomainConfig{}
	if opts.Layers > 0 {
		cfg.Layers = contour.Uniform{N: opts.Layers}
	}
	gm, err := farm.DomainGrid(layout, cfg)
	if err != nil {
		return fmt.Errorf("build domain grid: %w", err)
	}

	g := gm.Grid
	if g.Dims() == 3 {
		g, err = g.Slice(2, 0)
		if err != nil {
			return fmt.Errorf("slice domain grid: %w", err)
		}
	}
	tm, err := mesh.Triangulate(g, 0)
	if err != nil {
		return fmt.Errorf("triangulate domain: %w", err)
	}
	file := filepath.Join(opts.OutDir, "domain.stl")
	if err := render.SaveSTL(file, tm.Triangles); err != nil {
		return fmt.Errorf("write %s: %w", file, err)
	}
	log.Printf("wrote %s (%d triangles)", file, len(tm.Triangles))
	return nil
}
