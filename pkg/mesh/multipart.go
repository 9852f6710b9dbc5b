package mesh

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
)

// MultiPart is a compound mesh of independently named, independently
// transformable sub-parts. Names are unique; insertion order is preserved.
type MultiPart struct {
	names []string
	parts map[string]Part
}

// NewMultiPart returns an empty multi-part mesh.
func NewMultiPart() *MultiPart {
	return &MultiPart{parts: make(map[string]Part)}
}

// AddPart inserts p under a unique name. A duplicate name is an error,
// never a silent overwrite.
func (mp *MultiPart) AddPart(name string, p Part) error {
	if name == "" {
		return fmt.Errorf("mesh: empty part name")
	}
	if p == nil {
		return fmt.Errorf("mesh: nil part %q", name)
	}
	if _, dup := mp.parts[name]; dup {
		return fmt.Errorf("mesh: part name %q already present", name)
	}
	mp.names = append(mp.names, name)
	mp.parts[name] = p
	return nil
}

// Part returns the sub-part stored under name, or nil.
func (mp *MultiPart) Part(name string) Part {
	return mp.parts[name]
}

// Names returns the part names in insertion order.
func (mp *MultiPart) Names() []string {
	return append([]string(nil), mp.names...)
}

// Len reports the number of direct sub-parts.
func (mp *MultiPart) Len() int { return len(mp.names) }

// Transform applies m to every sub-part recursively.
func (mp *MultiPart) Transform(m sdf.M44) error {
	for _, name := range mp.names {
		if err := mp.parts[name].Transform(m); err != nil {
			return fmt.Errorf("mesh: transforming part %q: %w", name, err)
		}
	}
	return nil
}

// Clone returns a deep copy of the whole hierarchy.
func (mp *MultiPart) Clone() Part {
	c := NewMultiPart()
	for _, name := range mp.names {
		c.names = append(c.names, name)
		c.parts[name] = mp.parts[name].Clone()
	}
	return c
}

// Walk visits every leaf part depth-first with its slash-joined path.
func (mp *MultiPart) Walk(visit func(path string, p Part)) {
	mp.walk("", visit)
}

func (mp *MultiPart) walk(prefix string, visit func(path string, p Part)) {
	for _, name := range mp.names {
		path := name
		if prefix != "" {
			path = prefix + "/" + name
		}
		if sub, ok := mp.parts[name].(*MultiPart); ok {
			sub.walk(path, visit)
			continue
		}
		visit(path, mp.parts[name])
	}
}

// AllTriangles collects the triangles of every TriMesh leaf in the
// hierarchy, for handing the assembled surface to external writers.
func (mp *MultiPart) AllTriangles() []*sdf.Triangle3 {
	var tris []*sdf.Triangle3
	mp.Walk(func(path string, p Part) {
		if tm, ok := p.(*TriMesh); ok {
			tris = append(tris, tm.Triangles...)
		}
	})
	return tris
}
