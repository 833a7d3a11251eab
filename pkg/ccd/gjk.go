package ccd

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// gjkResult is the terminal state of a GJK distance run.
type gjkResult struct {
	// hit is set when the distance is within tolerance of zero.
	hit bool
	// dist is the distance between the bodies when not hit.
	dist float64
	// pa and pb are the closest points on A and B.
	pa, pb     v3.Vec
	simplex    simplex
	iterations int
}

// gjk runs the GJK distance algorithm on m. With early set it stops as soon
// as the bodies are known to be farther apart than the touch tolerance,
// leaving dist as a lower bound.
func (s *Solver) gjk(m minkowski, scale float64, early bool) (gjkResult, error) {
	touch := s.cfg.DistanceTolerance * scale

	dir := m.a.center().Sub(m.b.center())
	if dir.Length2() == 0 {
		dir = v3.Vec{X: 1}
	}
	sx := single(m.support(dir.Neg()))
	v := sx.point()

	for i := 1; i <= s.cfg.MaxIterations; i++ {
		vv := v.Length2()
		if vv <= touch*touch {
			return gjkResult{hit: true, simplex: sx, iterations: i}, nil
		}

		w := m.support(v.Neg())
		vw := v.Dot(w.p)
		if early && vw > 0 && vw*vw > touch*touch*vv {
			// v.w/|v| is a lower bound on the distance.
			return gjkResult{dist: vw / math.Sqrt(vv), simplex: sx, iterations: i}, nil
		}
		if vv-vw <= s.cfg.RelativeTolerance*vv || sx.has(w.p) {
			return separation(sx, vv, i), nil
		}

		next := sx
		next.add(w)
		next = next.closest()
		if next.n == 4 {
			return gjkResult{hit: true, simplex: next, iterations: i}, nil
		}
		nv := next.point()
		if nv.Length2() >= vv {
			// No progress; the previous simplex is as close as we get.
			return separation(sx, vv, i), nil
		}
		sx, v = next, nv
	}
	return gjkResult{}, fmt.Errorf("gjk: %w after %d iterations", ErrNoConvergence, s.cfg.MaxIterations)
}

func separation(sx simplex, vv float64, iterations int) gjkResult {
	pa, pb := sx.witnesses()
	return gjkResult{
		dist:       math.Sqrt(vv),
		pa:         pa,
		pb:         pb,
		simplex:    sx,
		iterations: iterations,
	}
}
