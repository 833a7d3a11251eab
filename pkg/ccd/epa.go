package ccd

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/hull/pkg/geom"
)

// penetration is the outcome of EPA or MPR on overlapping bodies.
type penetration struct {
	depth      float64
	dir        v3.Vec
	pa, pb     v3.Vec
	iterations int
}

// face is a triangle of the polytope with its outward unit normal and its
// signed distance from the origin.
type face struct {
	i [3]int
	n v3.Vec
	d float64
}

// edge is an undirected polytope edge.
type edge [2]int

func (e edge) same(o edge) bool {
	return e == o || (e[0] == o[1] && e[1] == o[0])
}

// polytope is a convex polytope inside the Minkowski difference that
// contains the origin. inner stays strictly inside it while it grows.
type polytope struct {
	verts []vertex
	faces []face
	inner v3.Vec
	eps   float64
}

func (p *polytope) addFace(i, j, k int) {
	a, b, c := p.verts[i].p, p.verts[j].p, p.verts[k].p
	n := b.Sub(a).Cross(c.Sub(a))
	l := n.Length()
	if l <= p.eps*p.eps {
		return
	}
	n = n.MulScalar(1 / l)
	if n.Dot(a.Sub(p.inner)) < 0 {
		n = n.Neg()
		j, k = k, j
	}
	p.faces = append(p.faces, face{i: [3]int{i, j, k}, n: n, d: n.Dot(a)})
}

func (p *polytope) closestFace() int {
	best := 0
	for i := 1; i < len(p.faces); i++ {
		if p.faces[i].d < p.faces[best].d {
			best = i
		}
	}
	return best
}

// expand adds w to the polytope, replacing every face that can see it with
// a fan of faces joining the horizon to w. It reports false when no face
// can see w.
func (p *polytope) expand(w vertex) bool {
	var horizon []edge
	kept := p.faces[:0:0]
	seen := false
	for _, f := range p.faces {
		if f.n.Dot(w.p.Sub(p.verts[f.i[0]].p)) <= p.eps {
			kept = append(kept, f)
			continue
		}
		seen = true
		for k := 0; k < 3; k++ {
			e := edge{f.i[k], f.i[(k+1)%3]}
			found := -1
			for h, he := range horizon {
				if he.same(e) {
					found = h
					break
				}
			}
			if found >= 0 {
				horizon = append(horizon[:found], horizon[found+1:]...)
			} else {
				horizon = append(horizon, e)
			}
		}
	}
	if !seen {
		return false
	}
	p.verts = append(p.verts, w)
	n := len(p.verts) - 1
	p.faces = kept
	for _, e := range horizon {
		p.addFace(e[0], e[1], n)
	}
	return true
}

// epa computes the penetration of overlapping bodies starting from the
// terminal GJK simplex. fallback is the direction reported when the bodies
// only touch.
func (s *Solver) epa(m minkowski, sx simplex, scale float64, fallback v3.Vec) (penetration, error) {
	touch := s.cfg.DistanceTolerance * scale
	for i := 0; i < sx.n; i++ {
		if sx.v[i].p.Length() <= touch {
			return penetration{dir: fallback, pa: sx.v[i].a, pb: sx.v[i].b}, nil
		}
	}

	p, ok := buildPolytope(m, sx, touch)
	if !ok {
		// The Minkowski difference is flat, so the bodies only touch.
		pa, pb := sx.witnesses()
		return penetration{dir: fallback, pa: pa, pb: pb}, nil
	}

	tol := s.cfg.EPATolerance * scale
	for it := 1; it <= s.cfg.MaxIterations; it++ {
		if len(p.faces) == 0 {
			return penetration{}, fmt.Errorf("epa: %w: polytope collapsed", ErrNoConvergence)
		}
		f := p.faces[p.closestFace()]
		w := m.support(f.n)
		if w.p.Dot(f.n)-f.d <= tol || !p.expand(w) {
			return p.result(f, it), nil
		}
	}
	return penetration{}, fmt.Errorf("epa: %w after %d iterations", ErrNoConvergence, s.cfg.MaxIterations)
}

func (p *polytope) result(f face, iterations int) penetration {
	a, b, c := p.verts[f.i[0]], p.verts[f.i[1]], p.verts[f.i[2]]
	d := f.d
	if d < 0 {
		d = 0
	}
	u, v, w := barycentric(f.n.MulScalar(d), a.p, b.p, c.p)
	pa := a.a.MulScalar(u).Add(b.a.MulScalar(v)).Add(c.a.MulScalar(w))
	pb := a.b.MulScalar(u).Add(b.b.MulScalar(v)).Add(c.b.MulScalar(w))
	return penetration{depth: d, dir: f.n, pa: pa, pb: pb, iterations: iterations}
}

// barycentric returns the coordinates of p, projected onto the plane of
// the triangle abc, relative to its corners.
func barycentric(p, a, b, c v3.Vec) (u, v, w float64) {
	v0, v1, v2 := b.Sub(a), c.Sub(a), p.Sub(a)
	d00, d01, d11 := v0.Dot(v0), v0.Dot(v1), v1.Dot(v1)
	d20, d21 := v2.Dot(v0), v2.Dot(v1)
	den := d00*d11 - d01*d01
	if den == 0 {
		return 1, 0, 0
	}
	v = (d11*d20 - d01*d21) / den
	w = (d00*d21 - d01*d20) / den
	return 1 - v - w, v, w
}

var axes = [...]v3.Vec{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}, {Z: 1}, {Z: -1}}

// buildPolytope grows the GJK simplex into a polytope with volume. A
// simplex with fewer than four points is extended with support points in
// directions away from it. It reports false when the Minkowski difference
// has no volume around the simplex.
func buildPolytope(m minkowski, sx simplex, eps float64) (*polytope, bool) {
	verts := append([]vertex(nil), sx.v[:sx.n]...)

	if len(verts) == 1 {
		for _, d := range axes {
			if w := m.support(d); w.p.Sub(verts[0].p).Length() > eps {
				verts = append(verts, w)
				break
			}
		}
		if len(verts) == 1 {
			return nil, false
		}
	}

	if len(verts) == 2 {
		axis := geom.Unit(verts[1].p.Sub(verts[0].p))
		u := geom.Perpendicular(axis)
		u2 := axis.Cross(u)
		for _, d := range []v3.Vec{u, u2, u.Neg(), u2.Neg()} {
			w := m.support(d)
			off := w.p.Sub(verts[0].p)
			if off.Sub(axis.MulScalar(off.Dot(axis))).Length() > eps {
				verts = append(verts, w)
				break
			}
		}
		if len(verts) == 2 {
			return nil, false
		}
	}

	p := &polytope{eps: eps}
	switch len(verts) {
	case 3:
		a := verts[0].p
		n := geom.Unit(verts[1].p.Sub(a).Cross(verts[2].p.Sub(a)))
		up, down := m.support(n), m.support(n.Neg())
		hu, hd := n.Dot(up.p.Sub(a)), n.Dot(down.p.Sub(a))
		switch {
		case hu > eps && hd < -eps:
			p.verts = append(verts, up, down)
			p.inner = centroid(p.verts)
			for _, apex := range []int{3, 4} {
				p.addFace(0, 1, apex)
				p.addFace(1, 2, apex)
				p.addFace(2, 0, apex)
			}
			return p, len(p.faces) == 6
		case hu > eps:
			p.verts = append(verts, up)
		case hd < -eps:
			p.verts = append(verts, down)
		default:
			return nil, false
		}
	default:
		p.verts = verts
	}

	p.inner = centroid(p.verts)
	p.addFace(0, 1, 2)
	p.addFace(0, 1, 3)
	p.addFace(0, 2, 3)
	p.addFace(1, 2, 3)
	return p, len(p.faces) == 4
}

func centroid(vs []vertex) v3.Vec {
	var c v3.Vec
	for _, v := range vs {
		c = c.Add(v.p)
	}
	return c.MulScalar(1 / float64(len(vs)))
}
