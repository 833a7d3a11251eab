package geom

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Sign returns -1, 0 or 1 according to the sign of x.
func Sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

// Unit returns v scaled to unit length, or the zero vector if v has no length.
func Unit(v v3.Vec) v3.Vec {
	l := v.Length()
	if l == 0 || math.IsNaN(l) {
		return v3.Vec{}
	}
	return v.MulScalar(1 / l)
}

// Perpendicular returns a unit vector orthogonal to v. v must be non-zero.
func Perpendicular(v v3.Vec) v3.Vec {
	a := v.Abs()
	// Cross with the axis least aligned with v.
	var axis v3.Vec
	switch {
	case a.X <= a.Y && a.X <= a.Z:
		axis = v3.Vec{X: 1}
	case a.Y <= a.Z:
		axis = v3.Vec{Y: 1}
	default:
		axis = v3.Vec{Z: 1}
	}
	return Unit(v.Cross(axis))
}

// IsFinite reports whether every component of v is a finite number.
func IsFinite(v v3.Vec) bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func toR3(v v3.Vec) r3.Vec {
	return r3.Vec{X: v.X, Y: v.Y, Z: v.Z}
}

func fromR3(v r3.Vec) v3.Vec {
	return v3.Vec{X: v.X, Y: v.Y, Z: v.Z}
}
