package convex

import v3 "github.com/deadsy/sdfx/vec/v3"

// Point is the single point at the local origin.
type Point struct{}

// NewPoint returns a point at the origin.
func NewPoint() *Point { return &Point{} }

func (p *Point) Support(v3.Vec) v3.Vec { return v3.Vec{} }
func (p *Point) MaxDist() float64      { return 0 }
func (p *Point) Center() v3.Vec        { return v3.Vec{} }
func (p *Point) IsDilated() bool       { return false }
func (p *Point) Kind() Kind            { return KindPoint }
func (p *Point) String() string        { return "Point()" }

func (p *Point) Contains(q v3.Vec) (bool, v3.Vec) {
	return q == (v3.Vec{}), v3.Vec{}
}

func (p *Point) Accept(v Visitor) {
	if pv, ok := v.(PointVisitor); ok {
		pv.VisitPoint(p)
		return
	}
	v.VisitConvex(p)
}

func (p *Point) validate() error { return nil }
