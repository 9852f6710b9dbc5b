package main

import (
	"os"
	"path/filepath"
	"testing"
)

// writeScript drops source into a temp file and returns its path.
func writeScript(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "farm.windloft")
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// ---------------------------------------------------------------------------
// 1. Comments-only scripts define no farm and must fail cleanly.
// ---------------------------------------------------------------------------

func TestE2ECommentsOnly(t *testing.T) {
	app := NewApp()
	script := writeScript(t, "; a farm will go here\n;; someday\n")

	err := app.Generate(GenerateOptions{ScriptPath: script, OutDir: t.TempDir()})
	if err == nil {
		t.Fatal("expected error for script with no farm form")
	}
}

// ---------------------------------------------------------------------------
// 2. Geometry validation surfaces as a build error: a zero-diameter turbine
//    passes the DSL but must fail farm assembly.
// ---------------------------------------------------------------------------

func TestE2EZeroDiameterTurbine(t *testing.T) {
	app := NewApp()
	script := writeScript(t, `(farm (turbine :diameter 0 :height 90))`)

	err := app.Generate(GenerateOptions{ScriptPath: script, OutDir: t.TempDir()})
	if err == nil {
		t.Fatal("expected error for zero-diameter turbine")
	}
}

func TestE2ENegativeHeightTurbine(t *testing.T) {
	app := NewApp()
	script := writeScript(t, `(farm (turbine :diameter 126 :height -5))`)

	err := app.Generate(GenerateOptions{ScriptPath: script, OutDir: t.TempDir()})
	if err == nil {
		t.Fatal("expected error for negative tower height")
	}
}

// ---------------------------------------------------------------------------
// 3. Domain grid without a perimeter must fail when requested.
// ---------------------------------------------------------------------------

func TestE2EDomainWithoutPerimeter(t *testing.T) {
	app := NewApp()
	script := writeScript(t, `(farm (turbine :diameter 126 :height 90))`)

	err := app.Generate(GenerateOptions{
		ScriptPath: script,
		OutDir:     t.TempDir(),
		Domain:     true,
	})
	if err == nil {
		t.Fatal("expected error for domain grid without perimeter")
	}
}

// ---------------------------------------------------------------------------
// 4. Arithmetic in scripts flows through to geometry.
// ---------------------------------------------------------------------------

func TestE2EArithmeticDimensions(t *testing.T) {
	app := NewApp()
	outDir := t.TempDir()
	script := writeScript(t, `
		(def d (* 2 63))
		(farm (turbine :diameter d :height (- d 36) :blades (+ 1 1)))
	`)

	err := app.Generate(GenerateOptions{ScriptPath: script, OutDir: outDir})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	// Two blades requested, so blade3 must not exist.
	if _, err := os.Stat(filepath.Join(outDir, "turbine0_rotor_blade2.stl")); err != nil {
		t.Errorf("missing blade2: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "turbine0_rotor_blade3.stl")); err == nil {
		t.Error("blade3 should not exist for a two-bladed turbine")
	}
}

// ---------------------------------------------------------------------------
// 5. Repeated generation from one App must be stable.
// ---------------------------------------------------------------------------

func TestE2ERepeatedGeneration(t *testing.T) {
	app := NewApp()
	script := writeScript(t, `(farm (turbine :diameter 80 :height 60))`)

	var firstSize int64
	for i := 0; i < 3; i++ {
		outDir := t.TempDir()
		err := app.Generate(GenerateOptions{ScriptPath: script, OutDir: outDir})
		if err != nil {
			t.Fatalf("iteration %d: Generate failed: %v", i, err)
		}
		info, err := os.Stat(filepath.Join(outDir, "turbine0_tower.stl"))
		if err != nil {
			t.Fatalf("iteration %d: %v", i, err)
		}
		if i == 0 {
			firstSize = info.Size()
		} else if info.Size() != firstSize {
			t.Errorf("iteration %d: tower STL size %d, want %d", i, info.Size(), firstSize)
		}
	}
}

// ---------------------------------------------------------------------------
// 6. Large farms: every turbine gets its own part files.
// ---------------------------------------------------------------------------

func TestE2EManyTurbines(t *testing.T) {
	app := NewApp()
	outDir := t.TempDir()
	script := writeScript(t, `
		(farm
		  (turbine :diameter 126 :height 90 :at (vec3 0 0 0))
		  (turbine :diameter 126 :height 90 :at (vec3 500 0 0))
		  (turbine :diameter 126 :height 90 :at (vec3 1000 0 0))
		  (turbine :diameter 126 :height 90 :at (vec3 1500 0 0)))
	`)

	err := app.Generate(GenerateOptions{ScriptPath: script, OutDir: outDir})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	for i := 0; i < 4; i++ {
		name := filepath.Join(outDir, "turbine"+string(rune('0'+i))+"_tower.stl")
		if _, err := os.Stat(name); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}
