package convex

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/hull/pkg/geom"
)

// Box is an axis aligned box centred on the origin. Extents holds the half
// widths along each axis.
type Box struct {
	Extents v3.Vec
}

// NewBox returns a box with the given half widths.
func NewBox(extents v3.Vec) (*Box, error) {
	b := &Box{Extents: extents}
	if err := b.validate(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Box) Support(dir v3.Vec) v3.Vec {
	return v3.Vec{
		X: geom.Sign(dir.X) * b.Extents.X,
		Y: geom.Sign(dir.Y) * b.Extents.Y,
		Z: geom.Sign(dir.Z) * b.Extents.Z,
	}
}

func (b *Box) MaxDist() float64 { return b.Extents.Length() }
func (b *Box) Center() v3.Vec   { return v3.Vec{} }
func (b *Box) IsDilated() bool  { return false }
func (b *Box) Kind() Kind       { return KindBox }

func (b *Box) Contains(p v3.Vec) (bool, v3.Vec) {
	e := b.Extents
	c := v3.Vec{
		X: math.Max(-e.X, math.Min(e.X, p.X)),
		Y: math.Max(-e.Y, math.Min(e.Y, p.Y)),
		Z: math.Max(-e.Z, math.Min(e.Z, p.Z)),
	}
	return c == p, c
}

func (b *Box) String() string {
	return fmt.Sprintf("Box(extents=%s)", fmtVec(b.Extents))
}

func (b *Box) Accept(v Visitor) {
	if bv, ok := v.(BoxVisitor); ok {
		bv.VisitBox(b)
		return
	}
	v.VisitConvex(b)
}

func (b *Box) validate() error {
	for _, x := range []float64{b.Extents.X, b.Extents.Y, b.Extents.Z} {
		if err := checkSize("box extent", x); err != nil {
			return err
		}
	}
	return nil
}
