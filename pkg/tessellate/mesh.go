package tessellate

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Mesh is the triangle soup marching cubes produced for one shape. Each
// triangle owns its three vertices, so Indices is simply 0..n-1; it is kept
// for consumers that expect indexed geometry. Vertices and Normals hold
// packed xyz triples, one normal per vertex copied from its face.
type Mesh struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Shape    string    `json:"shape"` // scene name, empty for a bare ToMesh
}

func (m *Mesh) VertexCount() int   { return len(m.Vertices) / 3 }
func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }

// IsEmpty is true for zero-volume shapes, which marching cubes cannot see.
func (m *Mesh) IsEmpty() bool { return len(m.Vertices) == 0 }

// Bounds returns the axis aligned box around every vertex. An empty mesh
// has zero bounds.
func (m *Mesh) Bounds() (lo, hi v3.Vec) {
	if m.IsEmpty() {
		return
	}
	lo = v3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	hi = v3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for i := 0; i+2 < len(m.Vertices); i += 3 {
		p := v3.Vec{X: float64(m.Vertices[i]), Y: float64(m.Vertices[i+1]), Z: float64(m.Vertices[i+2])}
		lo = v3.Vec{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y), Z: math.Min(lo.Z, p.Z)}
		hi = v3.Vec{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y), Z: math.Max(hi.Z, p.Z)}
	}
	return lo, hi
}
