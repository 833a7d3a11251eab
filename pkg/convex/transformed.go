package convex

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/hull/pkg/geom"
)

// Transformed places Child in world space with the rigid transform Xform.
// Child is shared, not copied.
type Transformed struct {
	Child Convex
	Xform geom.Transform
}

// NewTransformed wraps child in the rigid transform xform.
func NewTransformed(child Convex, xform geom.Transform) (*Transformed, error) {
	t := &Transformed{Child: child, Xform: xform}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Transformed) Support(dir v3.Vec) v3.Vec {
	return t.Xform.Apply(t.Child.Support(t.Xform.InverseRotate(dir)))
}

func (t *Transformed) MaxDist() float64 { return t.Child.MaxDist() }
func (t *Transformed) Center() v3.Vec   { return t.Xform.Apply(t.Child.Center()) }
func (t *Transformed) IsDilated() bool  { return t.Child.IsDilated() }
func (t *Transformed) Kind() Kind       { return KindTransformed }

func (t *Transformed) Contains(p v3.Vec) (bool, v3.Vec) {
	in, c := t.Child.Contains(t.Xform.ApplyInverse(p))
	if in {
		return true, p
	}
	return false, t.Xform.Apply(c)
}

func (t *Transformed) String() string {
	return fmt.Sprintf("Transformed(%s, %s)", t.Xform, Description(t.Child))
}

func (t *Transformed) Accept(v Visitor) {
	if tv, ok := v.(TransformedVisitor); ok {
		tv.VisitTransformed(t)
		return
	}
	v.VisitConvex(t)
}

func (t *Transformed) validate() error {
	if t.Child == nil {
		return invalid("transformed shape has no child")
	}
	if !t.Xform.IsValid() {
		return invalid("transform is not rigid: %s", t.Xform)
	}
	return nil
}
