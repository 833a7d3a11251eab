package convex_test

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

const tol = 1e-9

// cubePoints returns an n*n*n lattice covering [-1,1]^3.
func cubePoints(n int) []v3.Vec {
	pts := make([]v3.Vec, 0, n*n*n)
	step := 2 / float64(n-1)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				pts = append(pts, v3.Vec{X: -1 + step*float64(i), Y: -1 + step*float64(j), Z: -1 + step*float64(k)})
			}
		}
	}
	return pts
}

// directions returns the non-zero lattice points of cubePoints, normalised,
// plus a few generic directions off the lattice.
func directions() []v3.Vec {
	var out []v3.Vec
	for _, p := range cubePoints(5) {
		if p.Length2() > 0 {
			out = append(out, p.Normalize())
		}
	}
	for _, p := range []v3.Vec{{X: 0.31, Y: -0.72, Z: 0.13}, {X: -0.9, Y: 0.05, Z: 0.4}, {X: 0.01, Y: 0.02, Z: -1}} {
		out = append(out, p.Normalize())
	}
	return out
}

func vecNear(a, b v3.Vec, eps float64) bool {
	return a.Sub(b).Length() <= eps
}

func floatNear(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}
