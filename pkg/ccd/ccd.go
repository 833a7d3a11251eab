package ccd

import (
	"errors"
	"fmt"
	"strings"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

var (
	// ErrNoConvergence is returned when an algorithm runs out of iterations.
	ErrNoConvergence = errors.New("collision query did not converge")
	// ErrUnsupported is returned for a query the chosen algorithm cannot answer.
	ErrUnsupported = errors.New("unsupported query")
	// ErrInvalidInput is returned for objects without a support function and
	// for negative or non-finite margins.
	ErrInvalidInput = errors.New("invalid query input")
)

// Object is the engine's view of a convex body.
type Object struct {
	// Support returns the point of the body farthest along dir.
	Support func(dir v3.Vec) v3.Vec
	// Center returns a point inside the body. A nil Center means the origin.
	Center func() v3.Vec
	// MaxDist bounds the distance from the center to the surface. It only
	// scales tolerances, so a rough value is fine.
	MaxDist float64
}

func (o Object) center() v3.Vec {
	if o.Center == nil {
		return v3.Vec{}
	}
	return o.Center()
}

// Algorithm selects the narrow phase algorithm.
type Algorithm int

const (
	// GJK uses GJK for distances and GJK+EPA for penetration.
	GJK Algorithm = iota
	// MPR uses Minkowski Portal Refinement.
	MPR
)

func (a Algorithm) String() string {
	switch a {
	case GJK:
		return "gjk"
	case MPR:
		return "mpr"
	}
	return fmt.Sprintf("algorithm(%d)", int(a))
}

// ParseAlgorithm parses "gjk" or "mpr", ignoring case.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gjk", "":
		return GJK, nil
	case "mpr":
		return MPR, nil
	}
	return GJK, fmt.Errorf("unknown algorithm %q", s)
}

// Query is the kind of answer requested from the engine.
type Query int

const (
	QueryIntersect Query = iota
	QuerySeparate
	QueryPenetrate
)

func (q Query) String() string {
	switch q {
	case QueryIntersect:
		return "intersect"
	case QuerySeparate:
		return "separate"
	case QueryPenetrate:
		return "penetrate"
	}
	return fmt.Sprintf("query(%d)", int(q))
}

// Result is the outcome of a query.
//
// Distance is the signed distance between the bodies themselves: positive
// when separated, negative when penetrating. Direction points from A towards
// B; for a penetration it is the direction B must move by -Distance to reach
// contact. Pos1 and Pos2 lie on A and B. The geometric fields are only
// meaningful when Witnesses is set.
type Result struct {
	Hit        bool
	Distance   float64
	Direction  v3.Vec
	Pos1, Pos2 v3.Vec
	Witnesses  bool
	Iterations int
}

// Engine answers collision queries. The margin counts bodies closer than it
// as intersecting.
type Engine interface {
	Query(q Query, a, b Object, margin float64, alg Algorithm) (Result, error)
}
