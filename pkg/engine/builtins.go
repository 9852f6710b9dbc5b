package engine

import (
	"fmt"
	"strings"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/windloft/pkg/farm"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms farm Lisp source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: blade-count -> blade_count
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec2 wraps a 2D point for perimeter polygons.
type sexpVec2 struct {
	vec v2.Vec
}

func (v *sexpVec2) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec2 %.1f %.1f)", v.vec.X, v.vec.Y)
}
func (v *sexpVec2) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a 3D position.
type sexpVec3 struct {
	vec v3.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %.1f %.1f %.1f)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpTurbine wraps a farm.TurbineSpec so it can be returned from `turbine`
// and consumed by `farm`.
type sexpTurbine struct {
	spec farm.TurbineSpec
}

func (t *sexpTurbine) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(turbine :diameter %.0f :height %.0f :blades %d)",
		t.spec.Diameter, t.spec.Height, t.spec.Blades)
}
func (t *sexpTurbine) Type() *zygo.RegisteredType { return nil }

// sexpPerimeter wraps a farm boundary polygon.
type sexpPerimeter struct {
	points []v2.Vec
}

func (p *sexpPerimeter) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(perimeter %d points)", len(p.points))
}
func (p *sexpPerimeter) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value — treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an int from a SexpInt.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a position from a sexpVec3.
func toVec3(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return v3.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// layoutBuilder accumulates the farm layout while builtins run.
type layoutBuilder struct {
	layout   farm.Layout
	farmSeen bool
}

// registerBuiltins installs the farm DSL builtins into a zygomys
// environment. The builtins populate the provided layoutBuilder during
// evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation
// so that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, b *layoutBuilder) {

	// -----------------------------------------------------------------------
	// (vec2 x y)
	// -----------------------------------------------------------------------
	env.AddFunction("vec2", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("vec2 requires 2 arguments, got %d", len(args))
		}
		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec2: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec2: y: %w", err)
		}
		return &sexpVec2{vec: v2.Vec{X: x, Y: y}}, nil
	})

	// -----------------------------------------------------------------------
	// (vec3 x y z)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires 3 arguments, got %d", len(args))
		}
		var c [3]float64
		for i := range c {
			f, err := toFloat64(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: component %d: %w", i, err)
			}
			c[i] = f
		}
		return &sexpVec3{vec: v3.Vec{X: c[0], Y: c[1], Z: c[2]}}, nil
	})

	// -----------------------------------------------------------------------
	// (turbine :diameter 126 :height 90 :blades 3 :at (vec3 0 0 0) :yaw 0)
	// -----------------------------------------------------------------------
	env.AddFunction("turbine", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		spec := farm.TurbineSpec{Blades: 3}

		v, ok := pa.kw["diameter"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("turbine: missing :diameter")
		}
		d, err := toFloat64(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("turbine: diameter: %w", err)
		}
		spec.Diameter = d

		v, ok = pa.kw["height"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("turbine: missing :height")
		}
		h, err := toFloat64(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("turbine: height: %w", err)
		}
		spec.Height = h

		if v, ok := pa.kw["blades"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("turbine: blades: %w", err)
			}
			spec.Blades = n
		}
		if v, ok := pa.kw["at"]; ok {
			p, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("turbine: at: %w", err)
			}
			spec.Base = p
		}
		if v, ok := pa.kw["yaw"]; ok {
			y, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("turbine: yaw: %w", err)
			}
			spec.YawDeg = y
		}

		return &sexpTurbine{spec: spec}, nil
	})

	// -----------------------------------------------------------------------
	// (perimeter (vec2 0 0) (vec2 2000 0) ...)
	// -----------------------------------------------------------------------
	env.AddFunction("perimeter", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 3 {
			return zygo.SexpNull, fmt.Errorf("perimeter requires at least 3 points, got %d", len(args))
		}
		pts := make([]v2.Vec, len(args))
		for i, a := range args {
			p, ok := a.(*sexpVec2)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("perimeter: point %d: expected vec2, got %T", i, a)
			}
			pts[i] = p.vec
		}
		return &sexpPerimeter{points: pts}, nil
	})

	// -----------------------------------------------------------------------
	// (farm :perimeter (perimeter ...) (turbine ...) (turbine ...))
	// -----------------------------------------------------------------------
	env.AddFunction("farm", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if b.farmSeen {
			return zygo.SexpNull, fmt.Errorf("farm: already defined; only one farm form is allowed")
		}
		pa := parseArgs(args)

		if v, ok := pa.kw["perimeter"]; ok {
			p, ok := v.(*sexpPerimeter)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("farm: perimeter: expected perimeter form, got %T", v)
			}
			b.layout.Perimeter = p.points
		}

		if len(pa.positional) == 0 {
			return zygo.SexpNull, fmt.Errorf("farm: no turbines")
		}
		for i, a := range pa.positional {
			t, ok := a.(*sexpTurbine)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("farm: argument %d: expected turbine form, got %T", i, a)
			}
			b.layout.Turbines = append(b.layout.Turbines, t.spec)
		}

		b.farmSeen = true
		return zygo.SexpNull, nil
	})
}
