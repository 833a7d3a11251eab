package ccd

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/hull/pkg/geom"
)

// Solver is the package's Engine. It holds only its configuration, so one
// Solver may serve any number of goroutines.
type Solver struct {
	cfg Config
}

var _ Engine = (*Solver)(nil)

// New returns a Solver using cfg. Zero fields take their defaults.
func New(cfg Config) (*Solver, error) {
	def := DefaultConfig()
	if cfg.MaxIterations == 0 {
		cfg.MaxIterations = def.MaxIterations
	}
	if cfg.DistanceTolerance == 0 {
		cfg.DistanceTolerance = def.DistanceTolerance
	}
	if cfg.RelativeTolerance == 0 {
		cfg.RelativeTolerance = def.RelativeTolerance
	}
	if cfg.EPATolerance == 0 {
		cfg.EPATolerance = def.EPATolerance
	}
	if cfg.MPRTolerance == 0 {
		cfg.MPRTolerance = def.MPRTolerance
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Solver{cfg: cfg}, nil
}

// Default returns a Solver with DefaultConfig.
func Default() *Solver {
	return &Solver{cfg: DefaultConfig()}
}

// Config returns the solver's configuration.
func (s *Solver) Config() Config { return s.cfg }

// Query answers q for the pair (a, b).
//
// Both bodies are inflated by margin/2 for the duration of the call, so a
// pair whose distance is at most margin counts as a hit. Reported
// distances and witness points refer to the bodies themselves.
func (s *Solver) Query(q Query, a, b Object, margin float64, alg Algorithm) (Result, error) {
	if a.Support == nil || b.Support == nil {
		return Result{}, fmt.Errorf("%w: object without a support function", ErrInvalidInput)
	}
	if math.IsNaN(margin) || math.IsInf(margin, 0) || margin < 0 {
		return Result{}, fmt.Errorf("%w: margin %g", ErrInvalidInput, margin)
	}
	if alg != GJK && alg != MPR {
		return Result{}, fmt.Errorf("%w: %s", ErrUnsupported, alg)
	}

	scale := math.Max(1, a.MaxDist+b.MaxDist)
	m := minkowski{a: inflate(a, margin/2), b: inflate(b, margin/2)}

	switch q {
	case QueryIntersect:
		if alg == MPR {
			hit, it, err := s.mprIntersect(m, scale)
			return Result{Hit: hit, Iterations: it}, err
		}
		g, err := s.gjk(m, scale, true)
		return Result{Hit: g.hit, Iterations: g.iterations}, err

	case QuerySeparate:
		if alg == MPR {
			return Result{}, fmt.Errorf("%w: %s cannot compute separation", ErrUnsupported, alg)
		}
		g, err := s.gjk(m, scale, false)
		if err != nil || g.hit {
			return Result{Hit: g.hit, Iterations: g.iterations}, err
		}
		return separationResult(g, margin), nil

	case QueryPenetrate:
		if alg == MPR {
			pen, hit, err := s.mprPenetration(m, scale)
			if err != nil || !hit {
				return Result{Iterations: pen.iterations}, err
			}
			return penetrationResult(pen, margin), nil
		}
		g, err := s.gjk(m, scale, false)
		if err != nil {
			return Result{}, err
		}
		if !g.hit {
			return separationResult(g, margin), nil
		}
		pen, err := s.epa(m, g.simplex, scale, fallbackDir(a, b))
		if err != nil {
			return Result{}, err
		}
		pen.iterations += g.iterations
		return penetrationResult(pen, margin), nil
	}
	return Result{}, fmt.Errorf("%w: %s", ErrUnsupported, q)
}

// inflate grows o by r in every direction.
func inflate(o Object, r float64) Object {
	if r == 0 {
		return o
	}
	support := o.Support
	o.Support = func(dir v3.Vec) v3.Vec {
		return support(dir).Add(geom.Unit(dir).MulScalar(r))
	}
	o.MaxDist += r
	return o
}

// fallbackDir is the direction from A's center to B's, used when the bodies
// touch and the geometry gives no preferred normal.
func fallbackDir(a, b Object) v3.Vec {
	if d := geom.Unit(b.center().Sub(a.center())); d != (v3.Vec{}) {
		return d
	}
	return v3.Vec{X: 1}
}

// separationResult removes the margin from the closest points of the
// inflated bodies.
func separationResult(g gjkResult, margin float64) Result {
	dir := geom.Unit(g.pb.Sub(g.pa))
	half := dir.MulScalar(margin / 2)
	return Result{
		Distance:   g.dist + margin,
		Direction:  dir,
		Pos1:       g.pa.Sub(half),
		Pos2:       g.pb.Add(half),
		Witnesses:  true,
		Iterations: g.iterations,
	}
}

func penetrationResult(p penetration, margin float64) Result {
	half := p.dir.MulScalar(margin / 2)
	return Result{
		Hit:        true,
		Distance:   margin - p.depth,
		Direction:  p.dir,
		Pos1:       p.pa.Sub(half),
		Pos2:       p.pb.Add(half),
		Witnesses:  true,
		Iterations: p.iterations,
	}
}
