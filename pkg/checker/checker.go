// Package checker runs collision queries between convex shapes and
// normalises the engine's answers into Reports.
package checker

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/chazu/hull/pkg/ccd"
	"github.com/chazu/hull/pkg/convex"
	"github.com/chazu/hull/pkg/logging"
)

// Checker dispatches queries to a collision engine. It keeps no state
// between calls and may be shared between goroutines.
type Checker struct {
	engine    ccd.Engine
	algorithm ccd.Algorithm
	logger    *log.Logger
}

// Option configures a Checker.
type Option func(*Checker)

// WithAlgorithm selects the algorithm for intersection and penetration
// queries. Separation always uses GJK.
func WithAlgorithm(a ccd.Algorithm) Option {
	return func(c *Checker) { c.algorithm = a }
}

// WithEngine replaces the default solver.
func WithEngine(e ccd.Engine) Option {
	return func(c *Checker) { c.engine = e }
}

// WithLogger sets the logger used for query failures and tracing.
func WithLogger(l *log.Logger) Option {
	return func(c *Checker) { c.logger = l }
}

// New returns a Checker using GJK and the default solver unless told
// otherwise.
func New(opts ...Option) *Checker {
	c := &Checker{algorithm: ccd.GJK}
	for _, opt := range opts {
		opt(c)
	}
	if c.engine == nil {
		c.engine = ccd.Default()
	}
	if c.logger == nil {
		c.logger = logging.Default()
	}
	return c
}

// Algorithm returns the configured algorithm.
func (c *Checker) Algorithm() ccd.Algorithm { return c.algorithm }

// Intersect reports whether c1 and c2 are within dmin of each other.
func (c *Checker) Intersect(c1, c2 convex.Convex, dmin float64) bool {
	return c.Query(QueryIntersect, nil, c1, c2, dmin)
}

// Separate computes the distance between c1 and c2. It returns false when
// the bodies intersect, in which case only FlagIntersect is set in r.
func (c *Checker) Separate(r *Report, c1, c2 convex.Convex, dmin float64) bool {
	return c.Query(QuerySeparation, r, c1, c2, dmin)
}

// Penetration computes how deeply c1 and c2 overlap. It returns false,
// with no flags set, when they do not intersect.
func (c *Checker) Penetration(r *Report, c1, c2 convex.Convex, dmin float64) bool {
	return c.Query(QueryPenetration, r, c1, c2, dmin)
}

// Query runs q on the pair and fills r, which may be nil. r is reset to
// NewReport(c1, c2) before anything else happens. Invalid bodies, including
// nil ones and trees mutated into bad values, and engine failures are
// logged and reported as false with an empty report.
func (c *Checker) Query(q QueryType, r *Report, c1, c2 convex.Convex, dmin float64) bool {
	if r == nil {
		r = &Report{}
	}
	r.reset(c1, c2)

	for _, s := range []convex.Convex{c1, c2} {
		if err := convex.Validate(s); err != nil {
			c.fail(q, r, c1, c2, err)
			return false
		}
	}

	eq, alg, err := c.plan(q, c1, c2)
	if err != nil {
		c.fail(q, r, c1, c2, err)
		return false
	}

	c.logger.Debug("collision query", "query", q, "algorithm", alg, "dmin", dmin)
	res, err := c.engine.Query(eq, Object(c1), Object(c2), dmin, alg)
	if err != nil {
		c.fail(q, r, c1, c2, err)
		return false
	}
	r.Algorithm = alg

	switch q {
	case QueryIntersect:
		if res.Hit {
			r.Flags = FlagIntersect
		}
		return res.Hit

	case QuerySeparation:
		if res.Hit {
			r.Flags = FlagIntersect
			return false
		}
		r.fill(res)
		r.Flags = FlagHaveSeparation
		if res.Witnesses {
			r.Flags |= FlagHavePosition
		}
		return true

	default:
		if !res.Hit {
			return false
		}
		r.fill(res)
		r.Flags = FlagIntersect | FlagHaveSeparation | FlagHavePosition
		return true
	}
}

// plan picks the engine query and algorithm for q. Separation is GJK only.
// Penetration involving a rounded body goes through MPR, which handles
// offset surfaces better than EPA.
func (c *Checker) plan(q QueryType, c1, c2 convex.Convex) (ccd.Query, ccd.Algorithm, error) {
	switch q {
	case QueryIntersect:
		return ccd.QueryIntersect, c.algorithm, nil
	case QuerySeparation:
		return ccd.QuerySeparate, ccd.GJK, nil
	case QueryPenetration:
		if c.algorithm == ccd.MPR || rounded(c1) || rounded(c2) {
			return ccd.QueryPenetrate, ccd.MPR, nil
		}
		return ccd.QueryPenetrate, ccd.GJK, nil
	}
	return 0, 0, fmt.Errorf("%w: %s", ccd.ErrUnsupported, q)
}

// rounded reports whether c has a curved offset surface, i.e. it is
// dilated and some dilation in its tree has a positive radius.
func rounded(c convex.Convex) bool {
	if !c.IsDilated() {
		return false
	}
	found, positive := false, false
	convex.Walk(c, func(n convex.Convex, _ int) bool {
		if d, ok := n.(*convex.Dilated); ok {
			found = true
			positive = positive || d.Radius > 0
		}
		return true
	})
	// Foreign Convex implementations have no visible radius.
	return !found || positive
}

func (r *Report) fill(res ccd.Result) {
	r.Distance = res.Distance
	r.Direction = res.Direction
	r.Pos1 = res.Pos1
	r.Pos2 = res.Pos2
}

func (c *Checker) fail(q QueryType, r *Report, c1, c2 convex.Convex, err error) {
	r.reset(c1, c2)
	c.logger.Warn("collision query failed",
		"query", q,
		"c1", convex.Description(c1),
		"c2", convex.Description(c2),
		"err", err)
}
