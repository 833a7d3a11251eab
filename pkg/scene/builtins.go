package scene

import (
	"fmt"
	"math"
	"slices"
	"strings"

	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/hull/pkg/checker"
	"github.com/chazu/hull/pkg/convex"
	"github.com/chazu/hull/pkg/geom"
)

// sexpShape carries a convex tree between builtins.
type sexpShape struct {
	shape convex.Convex
	name  string
}

func (s *sexpShape) SexpString(*zygo.PrintState) string {
	if s.name != "" {
		return fmt.Sprintf("(shape %q)", s.name)
	}
	return convex.Description(s.shape)
}
func (s *sexpShape) Type() *zygo.RegisteredType { return nil }

type sexpVec struct {
	v v3.Vec
}

func (v *sexpVec) SexpString(*zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.v.X, v.v.Y, v.v.Z)
}
func (v *sexpVec) Type() *zygo.RegisteredType { return nil }

type sexpQuery struct {
	q Query
}

func (q *sexpQuery) SexpString(*zygo.PrintState) string {
	return fmt.Sprintf("(query %q %q :type :%s :margin %g)", q.q.A, q.q.B, q.q.Type, q.q.Margin)
}
func (q *sexpQuery) Type() *zygo.RegisteredType { return nil }

// args is a builtin's argument list split into keywords and positionals.
type args struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

func parseArgs(list []zygo.Sexp) args {
	a := args{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(list); i++ {
		name, ok := keyword(list[i])
		if !ok {
			a.positional = append(a.positional, list[i])
			continue
		}
		if i+1 < len(list) {
			a.kw[name] = list[i+1]
			i++
		} else {
			a.kw[name] = zygo.SexpNull
		}
	}
	return a
}

func keyword(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

// only rejects keywords outside allowed and more than n positionals.
func (a args) only(n int, allowed ...string) error {
	var unknown []string
	for k := range a.kw {
		if !slices.Contains(allowed, k) {
			unknown = append(unknown, ":"+k)
		}
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		return fmt.Errorf("unknown keyword %s", strings.Join(unknown, ", "))
	}
	if len(a.positional) > n {
		return fmt.Errorf("expected at most %d positional arguments, got %d", n, len(a.positional))
	}
	return nil
}

func (a args) has(key string) bool {
	_, ok := a.kw[key]
	return ok
}

func (a args) float(key string) (float64, error) {
	v, ok := a.kw[key]
	if !ok {
		return 0, fmt.Errorf("missing :%s", key)
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf(":%s: %w", key, err)
	}
	return f, nil
}

func (a args) floatOr(key string, def float64) (float64, error) {
	if !a.has(key) {
		return def, nil
	}
	return a.float(key)
}

func (a args) vec(key string) (v3.Vec, error) {
	v, ok := a.kw[key]
	if !ok {
		return v3.Vec{}, fmt.Errorf("missing :%s", key)
	}
	p, err := toVec(v)
	if err != nil {
		return v3.Vec{}, fmt.Errorf(":%s: %w", key, err)
	}
	return p, nil
}

func (a args) shape(i int) (convex.Convex, error) {
	if i >= len(a.positional) {
		return nil, fmt.Errorf("missing shape argument")
	}
	return toShape(a.positional[i])
}

func (a args) str(i int, what string) (string, error) {
	if i >= len(a.positional) {
		return "", fmt.Errorf("missing %s", what)
	}
	s, err := toString(a.positional[i])
	if err != nil {
		return "", fmt.Errorf("%s: %w", what, err)
	}
	return s, nil
}

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %s", s.SexpString(nil))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return strings.TrimPrefix(str.S, kwPrefix), nil
	}
	return "", fmt.Errorf("expected string, got %s", s.SexpString(nil))
}

func toVec(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec); ok {
		return v.v, nil
	}
	return v3.Vec{}, fmt.Errorf("expected vec3, got %s", s.SexpString(nil))
}

func toShape(s zygo.Sexp) (convex.Convex, error) {
	if sh, ok := s.(*sexpShape); ok {
		return sh.shape, nil
	}
	return nil, fmt.Errorf("expected shape, got %s", s.SexpString(nil))
}

func shapeResult(c convex.Convex, err error) (zygo.Sexp, error) {
	if err != nil {
		return zygo.SexpNull, err
	}
	return &sexpShape{shape: c}, nil
}

// builtin is the body of a scene function. Errors are prefixed with the
// function name on the way out.
type builtin func(a args) (zygo.Sexp, error)

func register(env *zygo.Zlisp, name string, fn builtin) {
	env.AddFunction(name, func(_ *zygo.Zlisp, _ string, list []zygo.Sexp) (zygo.Sexp, error) {
		res, err := fn(parseArgs(list))
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
		}
		return res, nil
	})
}

// registerBuiltins installs the scene functions. Shapes named with
// defshape and queries are recorded in sc as evaluation proceeds.
//
// Lengths are in scene units and angles in degrees. Box extents are half
// widths.
func registerBuiltins(env *zygo.Zlisp, sc *Scene) {
	// (vec3 x y z)
	register(env, "vec3", func(a args) (zygo.Sexp, error) {
		if len(a.positional) != 3 || len(a.kw) != 0 {
			return zygo.SexpNull, fmt.Errorf("requires exactly 3 numbers")
		}
		var xyz [3]float64
		for i, s := range a.positional {
			f, err := toFloat64(s)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("component %d: %w", i, err)
			}
			xyz[i] = f
		}
		return &sexpVec{v: v3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}}, nil
	})

	// (point)
	register(env, "point", func(a args) (zygo.Sexp, error) {
		if err := a.only(0); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpShape{shape: convex.NewPoint()}, nil
	})

	// (line :length 2)
	register(env, "line", func(a args) (zygo.Sexp, error) {
		if err := a.only(0, "length"); err != nil {
			return zygo.SexpNull, err
		}
		l, err := a.float("length")
		if err != nil {
			return zygo.SexpNull, err
		}
		return shapeResult(convex.NewLine(l))
	})

	// (box :extents (vec3 1 2 3))
	register(env, "box", func(a args) (zygo.Sexp, error) {
		if err := a.only(0, "extents"); err != nil {
			return zygo.SexpNull, err
		}
		e, err := a.vec("extents")
		if err != nil {
			return zygo.SexpNull, err
		}
		return shapeResult(convex.NewBox(e))
	})

	// (cylinder :length 2 :radius 1) or (cylinder :from p :to q :radius 1)
	register(env, "cylinder", segmentBuiltin(convex.NewCylinder, convex.SegmentCylinder))

	// (capsule :length 2 :radius 1) or (capsule :from p :to q :radius 1)
	register(env, "capsule", segmentBuiltin(convex.Capsule, convex.SegmentCapsule))

	// (sphere :radius 1)
	register(env, "sphere", func(a args) (zygo.Sexp, error) {
		if err := a.only(0, "radius"); err != nil {
			return zygo.SexpNull, err
		}
		r, err := a.float("radius")
		if err != nil {
			return zygo.SexpNull, err
		}
		return shapeResult(convex.Sphere(r))
	})

	// (dilate s :radius 0.5)
	register(env, "dilate", func(a args) (zygo.Sexp, error) {
		if err := a.only(1, "radius"); err != nil {
			return zygo.SexpNull, err
		}
		c, err := a.shape(0)
		if err != nil {
			return zygo.SexpNull, err
		}
		r, err := a.float("radius")
		if err != nil {
			return zygo.SexpNull, err
		}
		return shapeResult(convex.Dilate(c, r))
	})

	// (transform s :at (vec3 1 0 0) :axis (vec3 0 0 1) :angle 90)
	// Rotation is applied first, then translation.
	register(env, "transform", func(a args) (zygo.Sexp, error) {
		if err := a.only(1, "at", "axis", "angle"); err != nil {
			return zygo.SexpNull, err
		}
		c, err := a.shape(0)
		if err != nil {
			return zygo.SexpNull, err
		}
		xf := geom.Identity()
		if a.has("angle") || a.has("axis") {
			axis, err := a.vec("axis")
			if err != nil {
				return zygo.SexpNull, err
			}
			deg, err := a.float("angle")
			if err != nil {
				return zygo.SexpNull, err
			}
			if axis.Length() == 0 {
				return zygo.SexpNull, fmt.Errorf(":axis must be non-zero")
			}
			xf = geom.Rotation(axis, deg*math.Pi/180)
		}
		if a.has("at") {
			at, err := a.vec("at")
			if err != nil {
				return zygo.SexpNull, err
			}
			xf = geom.Translation(at).Mul(xf)
		}
		return shapeResult(convex.Transform(c, xf))
	})

	// (defshape "name" s)
	register(env, "defshape", func(a args) (zygo.Sexp, error) {
		if err := a.only(2); err != nil {
			return zygo.SexpNull, err
		}
		name, err := a.str(0, "name")
		if err != nil {
			return zygo.SexpNull, err
		}
		c, err := a.shape(1)
		if err != nil {
			return zygo.SexpNull, err
		}
		if err := sc.Add(name, c); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpShape{shape: c, name: name}, nil
	})

	// (shape "name")
	register(env, "shape", func(a args) (zygo.Sexp, error) {
		if err := a.only(1); err != nil {
			return zygo.SexpNull, err
		}
		name, err := a.str(0, "name")
		if err != nil {
			return zygo.SexpNull, err
		}
		c := sc.Lookup(name)
		if c == nil {
			return zygo.SexpNull, fmt.Errorf("%w %q", ErrUnknownShape, name)
		}
		return &sexpShape{shape: c, name: name}, nil
	})

	// (query "a" "b" :type :separation :margin 0.1)
	register(env, "query", func(a args) (zygo.Sexp, error) {
		if err := a.only(2, "type", "margin"); err != nil {
			return zygo.SexpNull, err
		}
		var q Query
		var err error
		if q.A, err = queryOperand(a, 0); err != nil {
			return zygo.SexpNull, err
		}
		if q.B, err = queryOperand(a, 1); err != nil {
			return zygo.SexpNull, err
		}
		if v, ok := a.kw["type"]; ok {
			name, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf(":type: %w", err)
			}
			if q.Type, err = checker.ParseQueryType(name); err != nil {
				return zygo.SexpNull, fmt.Errorf(":type: %w", err)
			}
		}
		if q.Margin, err = a.floatOr("margin", 0); err != nil {
			return zygo.SexpNull, err
		}
		if err := sc.AddQuery(q); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpQuery{q: q}, nil
	})
}

// queryOperand accepts either a shape name or a named shape value.
func queryOperand(a args, i int) (string, error) {
	if i < len(a.positional) {
		if sh, ok := a.positional[i].(*sexpShape); ok {
			if sh.name == "" {
				return "", fmt.Errorf("operand %d: shape must be defined with defshape", i+1)
			}
			return sh.name, nil
		}
	}
	return a.str(i, fmt.Sprintf("operand %d", i+1))
}

// segmentBuiltin serves shapes that are either built on the Z axis from a
// length or stretched between two points.
func segmentBuiltin[T convex.Convex](
	local func(length, r float64) (T, error),
	between func(p0, p1 v3.Vec, r float64) (*convex.Transformed, error),
) builtin {
	return func(a args) (zygo.Sexp, error) {
		if err := a.only(0, "length", "radius", "from", "to"); err != nil {
			return zygo.SexpNull, err
		}
		r, err := a.float("radius")
		if err != nil {
			return zygo.SexpNull, err
		}
		if a.has("from") || a.has("to") {
			if a.has("length") {
				return zygo.SexpNull, fmt.Errorf(":length conflicts with :from/:to")
			}
			p0, err := a.vec("from")
			if err != nil {
				return zygo.SexpNull, err
			}
			p1, err := a.vec("to")
			if err != nil {
				return zygo.SexpNull, err
			}
			return shapeResult(between(p0, p1, r))
		}
		l, err := a.float("length")
		if err != nil {
			return zygo.SexpNull, err
		}
		return shapeResult(local(l, r))
	}
}
