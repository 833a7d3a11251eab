package ccd

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/hull/pkg/geom"
)

// portal is the MPR working set: v[0] is an interior point of the
// Minkowski difference and v[1..3] form the portal triangle.
type portal struct {
	v [4]vertex
	n int
}

// portal discovery outcomes
const (
	portalSeparated = -1
	portalFound     = 0
	portalTouch     = 1 // origin on v1
	portalSegment   = 2 // origin on the segment v0-v1
)

// dir returns the unit normal of the portal triangle, pointing away from v0.
func (p *portal) dir() v3.Vec {
	a, b, c := p.v[1].p, p.v[2].p, p.v[3].p
	return geom.Unit(b.Sub(a).Cross(c.Sub(a)))
}

func (p *portal) encloses(dir v3.Vec, eps float64) bool {
	return p.v[1].p.Dot(dir) >= -eps
}

// reached reports whether w fails to push the portal out by more than tol.
func (p *portal) reached(w vertex, dir v3.Vec, tol float64) bool {
	dw := w.p.Dot(dir)
	d := dw - p.v[1].p.Dot(dir)
	d = min(d, dw-p.v[2].p.Dot(dir))
	d = min(d, dw-p.v[3].p.Dot(dir))
	return d <= tol
}

// expand replaces one portal vertex with w so that the ray from v0
// through the origin still passes through the portal.
func (p *portal) expand(w vertex) {
	wv0 := w.p.Cross(p.v[0].p)
	if p.v[1].p.Dot(wv0) > 0 {
		if p.v[2].p.Dot(wv0) > 0 {
			p.v[1] = w
		} else {
			p.v[3] = w
		}
		return
	}
	if p.v[3].p.Dot(wv0) > 0 {
		p.v[2] = w
	} else {
		p.v[1] = w
	}
}

// discover finds a portal through which the ray from the interior point
// towards the origin leaves the Minkowski difference.
func (s *Solver) discover(m minkowski, eps float64) (portal, int, error) {
	var p portal
	ca, cb := m.a.center(), m.b.center()
	p.v[0] = vertex{p: ca.Sub(cb), a: ca, b: cb}
	if p.v[0].p.Length() <= eps {
		// The interior point sits on the origin; nudge it so the ray has a
		// direction.
		p.v[0].p = p.v[0].p.Add(v3.Vec{X: 10 * eps})
	}

	dir := geom.Unit(p.v[0].p.Neg())
	p.v[1] = m.support(dir)
	p.n = 2
	if p.v[1].p.Dot(dir) < -eps {
		return p, portalSeparated, nil
	}

	dir = p.v[0].p.Cross(p.v[1].p)
	if dir.Length() <= eps*eps {
		if p.v[1].p.Length() <= eps {
			return p, portalTouch, nil
		}
		return p, portalSegment, nil
	}

	dir = geom.Unit(dir)
	p.v[2] = m.support(dir)
	if p.v[2].p.Dot(dir) < -eps {
		return p, portalSeparated, nil
	}
	p.n = 3

	dir = geom.Unit(p.v[1].p.Sub(p.v[0].p).Cross(p.v[2].p.Sub(p.v[0].p)))
	if dir.Dot(p.v[0].p) > 0 {
		p.v[1], p.v[2] = p.v[2], p.v[1]
		dir = dir.Neg()
	}

	for i := 0; i < s.cfg.MaxIterations; i++ {
		p.v[3] = m.support(dir)
		if p.v[3].p.Dot(dir) < -eps {
			return p, portalSeparated, nil
		}

		switch {
		case p.v[1].p.Cross(p.v[3].p).Dot(p.v[0].p) < -eps:
			// Origin outside (v1, v0, v3).
			p.v[2] = p.v[3]
		case p.v[3].p.Cross(p.v[2].p).Dot(p.v[0].p) < -eps:
			// Origin outside (v3, v0, v2).
			p.v[1] = p.v[3]
		default:
			p.n = 4
			return p, portalFound, nil
		}
		dir = geom.Unit(p.v[1].p.Sub(p.v[0].p).Cross(p.v[2].p.Sub(p.v[0].p)))
	}
	return p, 0, fmt.Errorf("mpr: portal discovery: %w after %d iterations", ErrNoConvergence, s.cfg.MaxIterations)
}

// refine moves the portal towards the surface until it encloses the origin.
// It reports false when the origin is found to lie outside.
func (s *Solver) refine(m minkowski, p *portal, eps, tol float64) (bool, int, error) {
	for i := 1; i <= s.cfg.MaxIterations; i++ {
		dir := p.dir()
		if p.encloses(dir, eps) {
			return true, i, nil
		}
		w := m.support(dir)
		if w.p.Dot(dir) < -eps || p.reached(w, dir, tol) {
			return false, i, nil
		}
		p.expand(w)
	}
	return false, 0, fmt.Errorf("mpr: portal refinement: %w after %d iterations", ErrNoConvergence, s.cfg.MaxIterations)
}

// mprIntersect reports whether the bodies overlap, boundary included.
func (s *Solver) mprIntersect(m minkowski, scale float64) (bool, int, error) {
	eps := s.cfg.DistanceTolerance * scale
	p, res, err := s.discover(m, eps)
	if err != nil {
		return false, 0, err
	}
	switch res {
	case portalSeparated:
		return false, 1, nil
	case portalTouch, portalSegment:
		return true, 1, nil
	}
	return s.refine(m, &p, eps, s.cfg.MPRTolerance*scale)
}

// mprPenetration returns the penetration of the bodies, or false when they
// do not overlap.
func (s *Solver) mprPenetration(m minkowski, scale float64) (penetration, bool, error) {
	eps := s.cfg.DistanceTolerance * scale
	p, res, err := s.discover(m, eps)
	if err != nil {
		return penetration{}, false, err
	}
	switch res {
	case portalSeparated:
		return penetration{}, false, nil
	case portalTouch:
		pos := midpoint(p.v[1])
		return penetration{dir: geom.Unit(p.v[0].p.Neg()), pa: pos, pb: pos, iterations: 1}, true, nil
	case portalSegment:
		depth := p.v[1].p.Length()
		return withDepth(midpoint(p.v[1]), geom.Unit(p.v[1].p), depth, 1), true, nil
	}

	tol := s.cfg.MPRTolerance * scale
	hit, it, err := s.refine(m, &p, eps, tol)
	if err != nil || !hit {
		return penetration{}, false, err
	}

	for i := 1; i <= s.cfg.MaxIterations; i++ {
		dir := p.dir()
		w := m.support(dir)
		if p.reached(w, dir, tol) {
			near := closestTriangle(p.v[1], p.v[2], p.v[3])
			v := near.point()
			depth := v.Length()
			dir := geom.Unit(v)
			if depth <= eps {
				depth, dir = 0, geom.Unit(p.v[0].p.Neg())
			}
			return withDepth(p.position(), dir, depth, it+i), true, nil
		}
		p.expand(w)
	}
	return penetration{}, false, fmt.Errorf("mpr: penetration: %w after %d iterations", ErrNoConvergence, s.cfg.MaxIterations)
}

// position returns the contact point from the barycentric coordinates of
// the origin in the portal tetrahedron.
func (p *portal) position() v3.Vec {
	v := [4]v3.Vec{p.v[0].p, p.v[1].p, p.v[2].p, p.v[3].p}
	var b [4]float64
	b[0] = v[1].Cross(v[2]).Dot(v[3])
	b[1] = v[3].Cross(v[2]).Dot(v[0])
	b[2] = v[0].Cross(v[1]).Dot(v[3])
	b[3] = v[2].Cross(v[1]).Dot(v[0])
	sum := b[0] + b[1] + b[2] + b[3]

	if sum <= 0 {
		// The origin is on the portal; weight only the portal triangle.
		dir := p.dir()
		b[0] = 0
		b[1] = v[2].Cross(v[3]).Dot(dir)
		b[2] = v[3].Cross(v[1]).Dot(dir)
		b[3] = v[1].Cross(v[2]).Dot(dir)
		sum = b[1] + b[2] + b[3]
	}
	if sum == 0 {
		return midpoint(p.v[1])
	}

	var pa, pb v3.Vec
	for i := range b {
		pa = pa.Add(p.v[i].a.MulScalar(b[i]))
		pb = pb.Add(p.v[i].b.MulScalar(b[i]))
	}
	return pa.Add(pb).MulScalar(0.5 / sum)
}

func midpoint(v vertex) v3.Vec {
	return v.a.Add(v.b).MulScalar(0.5)
}

// withDepth splits a contact point into witnesses on each body.
func withDepth(pos, dir v3.Vec, depth float64, iterations int) penetration {
	half := dir.MulScalar(depth / 2)
	return penetration{
		depth:      depth,
		dir:        dir,
		pa:         pos.Add(half),
		pb:         pos.Sub(half),
		iterations: iterations,
	}
}
