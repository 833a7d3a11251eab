package convex

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/hull/pkg/geom"
)

// Dilated is the Minkowski sum of Child and a ball of the given Radius.
// Child is shared, not copied.
type Dilated struct {
	Child  Convex
	Radius float64
}

// NewDilated wraps child in a dilation of radius r.
func NewDilated(child Convex, r float64) (*Dilated, error) {
	d := &Dilated{Child: child, Radius: r}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Dilated) Support(dir v3.Vec) v3.Vec {
	return d.Child.Support(dir).Add(geom.Unit(dir).MulScalar(d.Radius))
}

func (d *Dilated) MaxDist() float64 { return d.Child.MaxDist() + d.Radius }

// Center forwards to the child; the dilation does not move it.
func (d *Dilated) Center() v3.Vec { return d.Child.Center() }

func (d *Dilated) IsDilated() bool { return true }
func (d *Dilated) Kind() Kind      { return KindDilated }

func (d *Dilated) Contains(p v3.Vec) (bool, v3.Vec) {
	in, c := d.Child.Contains(p)
	if in {
		return true, p
	}
	off := p.Sub(c)
	if off.Length() <= d.Radius {
		return true, p
	}
	return false, c.Add(geom.Unit(off).MulScalar(d.Radius))
}

func (d *Dilated) String() string {
	return fmt.Sprintf("Dilated(radius=%g, %s)", d.Radius, Description(d.Child))
}

func (d *Dilated) Accept(v Visitor) {
	if dv, ok := v.(DilatedVisitor); ok {
		dv.VisitDilated(d)
		return
	}
	v.VisitConvex(d)
}

func (d *Dilated) validate() error {
	if d.Child == nil {
		return invalid("dilated shape has no child")
	}
	return checkSize("dilation radius", d.Radius)
}
