package convex

import (
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/hull/pkg/geom"
)

// Must returns v, panicking if err is non-nil. It is meant for shape
// literals in tests and examples.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// Sphere returns a ball of radius r centred on the origin.
func Sphere(r float64) (*Dilated, error) {
	return NewDilated(NewPoint(), r)
}

// Capsule returns a capsule whose core segment has the given length and lies
// on the Z axis.
func Capsule(length, r float64) (*Dilated, error) {
	l, err := NewLine(length)
	if err != nil {
		return nil, err
	}
	return NewDilated(l, r)
}

// SegmentCapsule returns a capsule of radius r around the segment p0-p1.
func SegmentCapsule(p0, p1 v3.Vec, r float64) (*Transformed, error) {
	xf, length, err := segmentFrame(p0, p1)
	if err != nil {
		return nil, err
	}
	c, err := Capsule(length, r)
	if err != nil {
		return nil, err
	}
	return NewTransformed(c, xf)
}

// SegmentCylinder returns a cylinder of radius r whose axis runs from p0 to p1.
func SegmentCylinder(p0, p1 v3.Vec, r float64) (*Transformed, error) {
	xf, length, err := segmentFrame(p0, p1)
	if err != nil {
		return nil, err
	}
	c, err := NewCylinder(length, r)
	if err != nil {
		return nil, err
	}
	return NewTransformed(c, xf)
}

// segmentFrame returns the transform taking the local Z axis onto the
// segment p0-p1 with the origin at its midpoint, and the segment length.
func segmentFrame(p0, p1 v3.Vec) (geom.Transform, float64, error) {
	if !geom.IsFinite(p0) || !geom.IsFinite(p1) {
		return geom.Transform{}, 0, invalid("segment endpoints must be finite, got %s and %s", fmtVec(p0), fmtVec(p1))
	}
	axis := p1.Sub(p0)
	mid := p0.Add(p1).MulScalar(0.5)
	xf := geom.Translation(mid).Mul(geom.RotationBetween(v3.Vec{Z: 1}, axis))
	return xf, axis.Length(), nil
}

// Transform places c with xform. Wrapping a shape that is already
// transformed composes the two transforms instead of nesting.
func Transform(c Convex, xform geom.Transform) (*Transformed, error) {
	if t, ok := c.(*Transformed); ok && t != nil {
		return NewTransformed(t.Child, xform.Mul(t.Xform))
	}
	return NewTransformed(c, xform)
}

// Dilate grows c by r. Dilating a dilation adds the radii, and a dilation of
// a transformed shape is moved under the transform, so trees stay shallow.
func Dilate(c Convex, r float64) (Convex, error) {
	if err := checkSize("dilation radius", r); err != nil {
		return nil, err
	}
	switch s := c.(type) {
	case *Dilated:
		if s != nil {
			return NewDilated(s.Child, s.Radius+r)
		}
	case *Transformed:
		if s != nil && s.Child != nil {
			inner, err := Dilate(s.Child, r)
			if err != nil {
				return nil, err
			}
			return NewTransformed(inner, s.Xform)
		}
	}
	return NewDilated(c, r)
}
