package ccd

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// vertex is a point of the Minkowski difference with the support points of
// each body that produced it: p = a - b.
type vertex struct {
	p, a, b v3.Vec
}

// minkowski is a pair of objects seen as their Minkowski difference.
type minkowski struct {
	a, b Object
}

func (m minkowski) support(dir v3.Vec) vertex {
	a := m.a.Support(dir)
	b := m.b.Support(dir.Neg())
	return vertex{p: a.Sub(b), a: a, b: b}
}

// simplex holds up to four vertices with the barycentric weights of the
// point of the simplex closest to the origin.
type simplex struct {
	v [4]vertex
	w [4]float64
	n int
}

func (s *simplex) add(v vertex) {
	s.v[s.n] = v
	s.n++
}

func (s *simplex) has(p v3.Vec) bool {
	for i := 0; i < s.n; i++ {
		if s.v[i].p == p {
			return true
		}
	}
	return false
}

// point returns the weighted point of the simplex.
func (s *simplex) point() v3.Vec {
	var p v3.Vec
	for i := 0; i < s.n; i++ {
		p = p.Add(s.v[i].p.MulScalar(s.w[i]))
	}
	return p
}

// witnesses returns the points on A and B corresponding to point().
func (s *simplex) witnesses() (pa, pb v3.Vec) {
	for i := 0; i < s.n; i++ {
		pa = pa.Add(s.v[i].a.MulScalar(s.w[i]))
		pb = pb.Add(s.v[i].b.MulScalar(s.w[i]))
	}
	return pa, pb
}

func single(a vertex) simplex {
	return simplex{v: [4]vertex{a}, w: [4]float64{1}, n: 1}
}

func pair(a, b vertex, wa, wb float64) simplex {
	return simplex{v: [4]vertex{a, b}, w: [4]float64{wa, wb}, n: 2}
}

// closest reduces s to the smallest sub-simplex containing the point closest
// to the origin and sets the weights of that point. A tetrahedron is kept
// whole only when it contains the origin.
func (s simplex) closest() simplex {
	switch s.n {
	case 1:
		return single(s.v[0])
	case 2:
		return closestSegment(s.v[0], s.v[1])
	case 3:
		return closestTriangle(s.v[0], s.v[1], s.v[2])
	case 4:
		return closestTetrahedron(s.v[0], s.v[1], s.v[2], s.v[3])
	}
	return s
}

func closestSegment(a, b vertex) simplex {
	ab := b.p.Sub(a.p)
	den := ab.Length2()
	if den == 0 {
		return single(a)
	}
	t := -a.p.Dot(ab) / den
	switch {
	case t <= 0:
		return single(a)
	case t >= 1:
		return single(b)
	}
	return pair(a, b, 1-t, t)
}

// closestTriangle follows the Voronoi region tests of Ericson, Real-Time
// Collision Detection 5.1.5, with the query point at the origin.
func closestTriangle(a, b, c vertex) simplex {
	ab := b.p.Sub(a.p)
	ac := c.p.Sub(a.p)
	ap := a.p.Neg()
	d1, d2 := ab.Dot(ap), ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return single(a)
	}
	bp := b.p.Neg()
	d3, d4 := ab.Dot(bp), ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return single(b)
	}
	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		t := d1 / (d1 - d3)
		return pair(a, b, 1-t, t)
	}
	cp := c.p.Neg()
	d5, d6 := ab.Dot(cp), ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return single(c)
	}
	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		t := d2 / (d2 - d6)
		return pair(a, c, 1-t, t)
	}
	va := d3*d6 - d5*d4
	if va <= 0 && d4-d3 >= 0 && d5-d6 >= 0 {
		t := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return pair(b, c, 1-t, t)
	}
	sum := va + vb + vc
	if !(sum > 0) || math.IsInf(1/sum, 0) {
		// Collinear points: the answer lies on one of the edges.
		return nearest(closestSegment(a, b), closestSegment(b, c), closestSegment(a, c))
	}
	v, w := vb/sum, vc/sum
	return simplex{v: [4]vertex{a, b, c}, w: [4]float64{1 - v - w, v, w}, n: 3}
}

func closestTetrahedron(a, b, c, d vertex) simplex {
	faces := [4][4]vertex{
		{a, b, c, d},
		{a, c, d, b},
		{a, d, b, c},
		{b, d, c, a},
	}
	vol := b.p.Sub(a.p).Cross(c.p.Sub(a.p)).Dot(d.p.Sub(a.p))
	degenerate := math.Abs(vol) <= 1e-12*(1+a.p.Length2()+b.p.Length2()+c.p.Length2()+d.p.Length2())

	var cands []simplex
	for _, f := range faces {
		if degenerate || outside(f[0].p, f[1].p, f[2].p, f[3].p) {
			cands = append(cands, closestTriangle(f[0], f[1], f[2]))
		}
	}
	if len(cands) == 0 {
		return simplex{v: [4]vertex{a, b, c, d}, w: tetraWeights(a.p, b.p, c.p, d.p), n: 4}
	}
	return nearest(cands...)
}

// outside reports whether the origin and d lie strictly on opposite sides of
// the plane through a, b and c.
func outside(a, b, c, d v3.Vec) bool {
	n := b.Sub(a).Cross(c.Sub(a))
	so := -n.Dot(a)
	sd := n.Dot(d.Sub(a))
	return so*sd < 0
}

// tetraWeights returns the barycentric coordinates of the origin in the
// tetrahedron abcd.
func tetraWeights(a, b, c, d v3.Vec) [4]float64 {
	vol := b.Sub(a).Cross(c.Sub(a)).Dot(d.Sub(a))
	wb := a.Neg().Cross(c.Sub(a)).Dot(d.Sub(a)) / vol
	wc := b.Sub(a).Cross(a.Neg()).Dot(d.Sub(a)) / vol
	wd := b.Sub(a).Cross(c.Sub(a)).Dot(a.Neg()) / vol
	return [4]float64{1 - wb - wc - wd, wb, wc, wd}
}

// nearest returns the candidate whose point is closest to the origin. Ties
// keep the earlier candidate.
func nearest(cands ...simplex) simplex {
	best := cands[0]
	bd := best.point().Length2()
	for _, s := range cands[1:] {
		if d := s.point().Length2(); d < bd {
			best, bd = s, d
		}
	}
	return best
}
