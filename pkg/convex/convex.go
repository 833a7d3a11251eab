package convex

import (
	"errors"
	"fmt"
	"math"
	"reflect"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrInvalidGeometry is returned when a shape is built from parameters that
// do not describe a convex body (negative sizes, NaN, a missing child).
var ErrInvalidGeometry = errors.New("invalid geometry")

// Convex is a read-only convex body defined by its support function.
type Convex interface {
	// Support returns the point of the body maximising dot(p, dir).
	// A zero dir returns some point of the body, never NaN.
	Support(dir v3.Vec) v3.Vec
	// MaxDist bounds |Support(d) - Center()| over unit d.
	MaxDist() float64
	// Center returns a point inside the body.
	Center() v3.Vec
	// IsDilated reports whether the body has a rounded (dilated) surface.
	IsDilated() bool
	// Contains reports whether p lies in the body, boundary included, and
	// returns the closest point of the body to p.
	Contains(p v3.Vec) (bool, v3.Vec)
	Kind() Kind
	String() string
	Accept(v Visitor)
}

// Kind tags the concrete variant of a Convex.
type Kind int

const (
	KindPoint Kind = iota
	KindLine
	KindBox
	KindCylinder
	KindDilated
	KindTransformed
)

var kindNames = [...]string{
	KindPoint:       "point",
	KindLine:        "line",
	KindBox:         "box",
	KindCylinder:    "cylinder",
	KindDilated:     "dilated",
	KindTransformed: "transformed",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Description returns the human readable description of c.
func Description(c Convex) string {
	if isNil(c) {
		return "<nil>"
	}
	return c.String()
}

// isNil reports whether c is nil or a nil pointer wrapped in the interface.
func isNil(c Convex) bool {
	if c == nil {
		return true
	}
	v := reflect.ValueOf(c)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidGeometry, fmt.Sprintf(format, args...))
}

// checkSize rejects negative and non-finite lengths.
func checkSize(name string, x float64) error {
	if math.IsNaN(x) || math.IsInf(x, 0) || x < 0 {
		return invalid("%s must be a finite non-negative number, got %g", name, x)
	}
	return nil
}

func fmtVec(v v3.Vec) string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}
