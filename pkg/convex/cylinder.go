package convex

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/hull/pkg/geom"
)

// Cylinder is a solid circular cylinder centred on the origin with its axis
// along Z.
type Cylinder struct {
	Length float64
	Radius float64
}

// NewCylinder returns a cylinder with the given axial length and radius.
func NewCylinder(length, radius float64) (*Cylinder, error) {
	c := &Cylinder{Length: length, Radius: radius}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Cylinder) Support(dir v3.Vec) v3.Vec {
	s := v3.Vec{Z: geom.Sign(dir.Z) * c.Length / 2}
	if r := math.Hypot(dir.X, dir.Y); r > 0 {
		s.X = c.Radius * dir.X / r
		s.Y = c.Radius * dir.Y / r
	}
	return s
}

func (c *Cylinder) MaxDist() float64 {
	return math.Hypot(c.Length/2, c.Radius)
}

func (c *Cylinder) Center() v3.Vec  { return v3.Vec{} }
func (c *Cylinder) IsDilated() bool { return false }
func (c *Cylinder) Kind() Kind      { return KindCylinder }

func (c *Cylinder) Contains(p v3.Vec) (bool, v3.Vec) {
	h := c.Length / 2
	q := v3.Vec{X: p.X, Y: p.Y, Z: math.Max(-h, math.Min(h, p.Z))}
	if r := math.Hypot(p.X, p.Y); r > c.Radius {
		q.X = c.Radius * p.X / r
		q.Y = c.Radius * p.Y / r
	}
	return q == p, q
}

func (c *Cylinder) String() string {
	return fmt.Sprintf("Cylinder(length=%g, radius=%g)", c.Length, c.Radius)
}

func (c *Cylinder) Accept(v Visitor) {
	if cv, ok := v.(CylinderVisitor); ok {
		cv.VisitCylinder(c)
		return
	}
	v.VisitConvex(c)
}

func (c *Cylinder) validate() error {
	if err := checkSize("cylinder length", c.Length); err != nil {
		return err
	}
	return checkSize("cylinder radius", c.Radius)
}
