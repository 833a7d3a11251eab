package convex

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/hull/pkg/geom"
)

// Line is the segment from (0,0,-Length/2) to (0,0,Length/2).
type Line struct {
	Length float64
}

// NewLine returns a segment of the given length on the Z axis.
func NewLine(length float64) (*Line, error) {
	if err := checkSize("line length", length); err != nil {
		return nil, err
	}
	return &Line{Length: length}, nil
}

func (l *Line) Support(dir v3.Vec) v3.Vec {
	return v3.Vec{Z: geom.Sign(dir.Z) * l.Length / 2}
}

func (l *Line) MaxDist() float64 { return l.Length / 2 }
func (l *Line) Center() v3.Vec   { return v3.Vec{} }
func (l *Line) IsDilated() bool  { return false }
func (l *Line) Kind() Kind       { return KindLine }

func (l *Line) Contains(p v3.Vec) (bool, v3.Vec) {
	h := l.Length / 2
	c := v3.Vec{Z: math.Max(-h, math.Min(h, p.Z))}
	return c == p, c
}

func (l *Line) String() string {
	return fmt.Sprintf("Line(length=%g)", l.Length)
}

func (l *Line) Accept(v Visitor) {
	if lv, ok := v.(LineVisitor); ok {
		lv.VisitLine(l)
		return
	}
	v.VisitConvex(l)
}

func (l *Line) validate() error { return checkSize("line length", l.Length) }
