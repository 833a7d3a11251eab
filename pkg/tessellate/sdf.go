package tessellate

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/hull/pkg/convex"
)

// SDF converts a convex tree into a signed distance function. The second
// result is false for bodies without volume (points, segments, flat boxes),
// which marching cubes cannot render.
func SDF(c convex.Convex) (sdf.SDF3, bool, error) {
	if c == nil {
		return nil, false, fmt.Errorf("tessellate: %w: nil shape", convex.ErrInvalidGeometry)
	}
	v := &sdfVisitor{}
	c.Accept(v)
	if v.err != nil {
		return nil, false, fmt.Errorf("tessellate %s: %w", c.Kind(), v.err)
	}
	return v.out, v.solid, nil
}

// sdfVisitor builds the SDF of the shape it is accepted by.
type sdfVisitor struct {
	out   sdf.SDF3
	solid bool
	err   error
}

func (v *sdfVisitor) VisitConvex(c convex.Convex) {
	v.err = fmt.Errorf("no distance function for %s", c.Kind())
}

func (v *sdfVisitor) VisitPoint(*convex.Point) {
	v.out = segmentSDF{}
}

func (v *sdfVisitor) VisitLine(l *convex.Line) {
	v.out = segmentSDF{half: l.Length / 2}
}

func (v *sdfVisitor) VisitBox(b *convex.Box) {
	e := b.Extents
	if e.X == 0 || e.Y == 0 || e.Z == 0 {
		v.out = flatBoxSDF{extents: e}
		return
	}
	v.out, v.err = sdf.Box3D(e.MulScalar(2), 0)
	v.solid = v.err == nil
}

func (v *sdfVisitor) VisitCylinder(c *convex.Cylinder) {
	if c.Length == 0 || c.Radius == 0 {
		v.out = flatCylinderSDF{half: c.Length / 2, radius: c.Radius}
		return
	}
	v.out, v.err = sdf.Cylinder3D(c.Length, c.Radius, 0)
	v.solid = v.err == nil
}

func (v *sdfVisitor) VisitDilated(d *convex.Dilated) {
	inner, solid, err := SDF(d.Child)
	if err != nil {
		v.err = err
		return
	}
	v.out = dilatedSDF{child: inner, radius: d.Radius}
	v.solid = solid || d.Radius > 0
}

func (v *sdfVisitor) VisitTransformed(t *convex.Transformed) {
	inner, solid, err := SDF(t.Child)
	if err != nil {
		v.err = err
		return
	}
	v.out = sdf.Transform3D(inner, t.Xform.M44())
	v.solid = solid
}

// segmentSDF is the distance to the segment from (0,0,-half) to (0,0,half).
// A zero half length gives the distance to the origin.
type segmentSDF struct {
	half float64
}

func (s segmentSDF) Evaluate(p v3.Vec) float64 {
	z := math.Max(-s.half, math.Min(s.half, p.Z))
	return p.Sub(v3.Vec{Z: z}).Length()
}

func (s segmentSDF) BoundingBox() sdf.Box3 {
	return sdf.Box3{Min: v3.Vec{Z: -s.half}, Max: v3.Vec{Z: s.half}}
}

// flatBoxSDF is the exact distance to a box with at least one zero extent.
type flatBoxSDF struct {
	extents v3.Vec
}

func (s flatBoxSDF) Evaluate(p v3.Vec) float64 {
	q := p.Abs().Sub(s.extents)
	return v3.Vec{X: math.Max(q.X, 0), Y: math.Max(q.Y, 0), Z: math.Max(q.Z, 0)}.Length()
}

func (s flatBoxSDF) BoundingBox() sdf.Box3 {
	return sdf.Box3{Min: s.extents.Neg(), Max: s.extents}
}

// flatCylinderSDF covers a disc (zero length) or a segment (zero radius).
type flatCylinderSDF struct {
	half, radius float64
}

func (s flatCylinderSDF) Evaluate(p v3.Vec) float64 {
	dr := math.Max(math.Hypot(p.X, p.Y)-s.radius, 0)
	dz := math.Max(math.Abs(p.Z)-s.half, 0)
	return math.Hypot(dr, dz)
}

func (s flatCylinderSDF) BoundingBox() sdf.Box3 {
	e := v3.Vec{X: s.radius, Y: s.radius, Z: s.half}
	return sdf.Box3{Min: e.Neg(), Max: e}
}

// dilatedSDF offsets its child's distance by radius. The result is exact
// wherever the child's distance is exact outside the child.
type dilatedSDF struct {
	child  sdf.SDF3
	radius float64
}

func (s dilatedSDF) Evaluate(p v3.Vec) float64 {
	return s.child.Evaluate(p) - s.radius
}

func (s dilatedSDF) BoundingBox() sdf.Box3 {
	bb := s.child.BoundingBox()
	r := v3.Vec{X: s.radius, Y: s.radius, Z: s.radius}
	return sdf.Box3{Min: bb.Min.Sub(r), Max: bb.Max.Add(r)}
}
