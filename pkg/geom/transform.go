package geom

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// identityRot is the unit quaternion of the null rotation.
var identityRot = quat.Number{Real: 1}

// Transform is a rigid motion: rotate by Rot, then translate by Pos.
// Rot must be a unit quaternion. The zero value is the identity.
type Transform struct {
	Rot quat.Number
	Pos v3.Vec
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{Rot: identityRot}
}

// Translation returns a pure translation by v.
func Translation(v v3.Vec) Transform {
	return Transform{Rot: identityRot, Pos: v}
}

// Rotation returns a rotation of angle radians about axis (right hand rule).
// A zero axis or angle gives the identity.
func Rotation(axis v3.Vec, angle float64) Transform {
	if angle == 0 || axis.Length2() == 0 {
		return Identity()
	}
	return Transform{Rot: quat.Number(r3.NewRotation(angle, toR3(axis)))}
}

// RotationBetween returns the shortest-arc rotation taking direction from onto
// direction to. Zero inputs give the identity.
func RotationBetween(from, to v3.Vec) Transform {
	a, b := Unit(from), Unit(to)
	if a.Length2() == 0 || b.Length2() == 0 {
		return Identity()
	}
	c := a.Dot(b)
	switch {
	case c >= 1-1e-12:
		return Identity()
	case c <= -1+1e-12:
		return Rotation(Perpendicular(a), math.Pi)
	}
	return Rotation(a.Cross(b), math.Acos(c))
}

// rotation returns Rot, treating the zero quaternion as the identity.
func (t Transform) rotation() quat.Number {
	if t.Rot == (quat.Number{}) {
		return identityRot
	}
	return t.Rot
}

func rotate(q quat.Number, v v3.Vec) v3.Vec {
	if q == identityRot {
		return v
	}
	return fromR3(r3.Rotation(q).Rotate(toR3(v)))
}

// Rotate applies only the rotational part of t to v.
func (t Transform) Rotate(v v3.Vec) v3.Vec {
	return rotate(t.rotation(), v)
}

// InverseRotate applies the inverse of the rotational part of t to v.
func (t Transform) InverseRotate(v v3.Vec) v3.Vec {
	return rotate(quat.Conj(t.rotation()), v)
}

// Apply maps the point p by t.
func (t Transform) Apply(p v3.Vec) v3.Vec {
	return t.Rotate(p).Add(t.Pos)
}

// ApplyInverse maps the point p by the inverse of t.
func (t Transform) ApplyInverse(p v3.Vec) v3.Vec {
	return t.InverseRotate(p.Sub(t.Pos))
}

// Inverse returns the transform undoing t.
func (t Transform) Inverse() Transform {
	q := quat.Conj(t.rotation())
	return Transform{Rot: q, Pos: rotate(q, t.Pos).Neg()}
}

// Mul composes two transforms: t.Mul(u).Apply(p) == t.Apply(u.Apply(p)).
func (t Transform) Mul(u Transform) Transform {
	q := quat.Mul(t.rotation(), u.rotation())
	if n := quat.Abs(q); n != 0 {
		q = quat.Scale(1/n, q)
	}
	return Transform{Rot: q, Pos: t.Apply(u.Pos)}
}

// IsIdentity reports whether t leaves every point in place.
func (t Transform) IsIdentity() bool {
	return t.rotation() == identityRot && t.Pos == (v3.Vec{})
}

// Equals reports whether t and u move points identically within tol.
// q and -q describe the same rotation, so the comparison is made on the
// images of the basis vectors.
func (t Transform) Equals(u Transform, tol float64) bool {
	if t.Pos.Sub(u.Pos).Length() > tol {
		return false
	}
	for _, e := range []v3.Vec{{X: 1}, {Y: 1}, {Z: 1}} {
		if t.Rotate(e).Sub(u.Rotate(e)).Length() > tol {
			return false
		}
	}
	return true
}

// IsValid reports whether t is a finite rigid motion.
func (t Transform) IsValid() bool {
	q := t.rotation()
	if !IsFinite(t.Pos) || !isFinite(q.Real) || !IsFinite(v3.Vec{X: q.Imag, Y: q.Jmag, Z: q.Kmag}) {
		return false
	}
	return math.Abs(quat.Abs(q)-1) < 1e-6
}

// M44 returns t as an sdfx homogeneous matrix.
func (t Transform) M44() sdf.M44 {
	m := sdf.Translate3d(t.Pos)
	q := t.rotation()
	s := math.Sqrt(q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag)
	if s < 1e-12 {
		return m
	}
	axis := v3.Vec{X: q.Imag / s, Y: q.Jmag / s, Z: q.Kmag / s}
	return m.Mul(sdf.Rotate3d(axis, 2*math.Atan2(s, q.Real)))
}

func (t Transform) String() string {
	q := t.rotation()
	return fmt.Sprintf("Transform(pos=(%g, %g, %g), rot=(%g, %g, %g, %g))",
		t.Pos.X, t.Pos.Y, t.Pos.Z, q.Real, q.Imag, q.Jmag, q.Kmag)
}
