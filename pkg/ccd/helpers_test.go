package ccd_test

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/hull/pkg/ccd"
)

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

func sphere(c v3.Vec, r float64) ccd.Object {
	return ccd.Object{
		Support: func(d v3.Vec) v3.Vec {
			l := d.Length()
			if l == 0 {
				return c
			}
			return c.Add(d.MulScalar(r / l))
		},
		Center:  func() v3.Vec { return c },
		MaxDist: r,
	}
}

func box(c, half v3.Vec) ccd.Object {
	return ccd.Object{
		Support: func(d v3.Vec) v3.Vec {
			return c.Add(v3.Vec{X: sign(d.X) * half.X, Y: sign(d.Y) * half.Y, Z: sign(d.Z) * half.Z})
		},
		Center:  func() v3.Vec { return c },
		MaxDist: half.Length(),
	}
}

// cylinderZ is a cylinder on the Z axis through c.
func cylinderZ(c v3.Vec, length, r float64) ccd.Object {
	return ccd.Object{
		Support: func(d v3.Vec) v3.Vec {
			s := v3.Vec{Z: sign(d.Z) * length / 2}
			if l := math.Hypot(d.X, d.Y); l > 0 {
				s.X, s.Y = r*d.X/l, r*d.Y/l
			}
			return c.Add(s)
		},
		Center:  func() v3.Vec { return c },
		MaxDist: math.Hypot(length/2, r),
	}
}

var algorithms = []ccd.Algorithm{ccd.GJK, ccd.MPR}
