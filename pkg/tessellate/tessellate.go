// Package tessellate turns convex trees into triangle meshes by way of
// sdfx signed distance functions and marching cubes. One mesh is produced
// per named scene shape.
package tessellate

import (
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"

	"github.com/chazu/hull/pkg/convex"
	"github.com/chazu/hull/pkg/scene"
)

// DefaultCells is the marching cubes resolution along the longest side of
// a shape's bounding box.
const DefaultCells = 64

// ToMesh renders c with the given resolution. A body without volume yields
// an empty mesh.
func ToMesh(c convex.Convex, cells int) (*Mesh, error) {
	if cells <= 0 {
		cells = DefaultCells
	}
	if err := convex.Validate(c); err != nil {
		return nil, fmt.Errorf("tessellate: %w", err)
	}
	s, solid, err := SDF(c)
	if err != nil {
		return nil, err
	}
	if !solid {
		return &Mesh{}, nil
	}
	return triangulate(s, cells), nil
}

func triangulate(s sdf.SDF3, cells int) *Mesh {
	triangles := render.ToTriangles(s, render.NewMarchingCubesUniform(cells))

	m := &Mesh{
		Vertices: make([]float32, 0, len(triangles)*9),
		Normals:  make([]float32, 0, len(triangles)*9),
		Indices:  make([]uint32, 0, len(triangles)*3),
	}
	for i, tri := range triangles {
		n := tri.Normal()
		for j := 0; j < 3; j++ {
			v := tri[j]
			m.Vertices = append(m.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
			m.Normals = append(m.Normals, float32(n.X), float32(n.Y), float32(n.Z))
			m.Indices = append(m.Indices, uint32(i*3+j))
		}
	}
	return m
}

// Tessellate meshes every shape of sc in definition order. The tessellator
// never modifies the scene.
func Tessellate(sc *scene.Scene, cells int) ([]*Mesh, error) {
	if sc == nil {
		return nil, nil
	}
	meshes := make([]*Mesh, 0, sc.Len())
	for _, name := range sc.Order {
		m, err := ToMesh(sc.Lookup(name), cells)
		if err != nil {
			return nil, fmt.Errorf("shape %q: %w", name, err)
		}
		m.Shape = name
		meshes = append(meshes, m)
	}
	return meshes, nil
}
