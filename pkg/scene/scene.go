// Package scene evaluates a small Lisp dialect that builds named convex
// shapes and the collision queries to run between them.
//
// Each evaluation runs in a fresh zygomys sandbox, so the same source always
// yields the same Scene.
package scene

import (
	"errors"
	"fmt"

	"github.com/chazu/hull/pkg/checker"
	"github.com/chazu/hull/pkg/convex"
)

// ErrUnknownShape is returned when a name does not refer to a defined shape.
var ErrUnknownShape = errors.New("unknown shape")

// Query is a collision query between two named shapes.
type Query struct {
	A, B   string
	Type   checker.QueryType
	Margin float64
}

func (q Query) String() string {
	return fmt.Sprintf("%s(%s, %s, margin=%g)", q.Type, q.A, q.B, q.Margin)
}

// Scene is the product of evaluating scene source. Shapes are kept in
// definition order.
type Scene struct {
	Shapes  map[string]convex.Convex
	Order   []string
	Queries []Query
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{Shapes: make(map[string]convex.Convex)}
}

// Add defines a shape. Names may not be reused.
func (s *Scene) Add(name string, c convex.Convex) error {
	if name == "" {
		return fmt.Errorf("shape name must not be empty")
	}
	if c == nil {
		return fmt.Errorf("shape %q: %w: nil shape", name, convex.ErrInvalidGeometry)
	}
	if _, ok := s.Shapes[name]; ok {
		return fmt.Errorf("shape %q already defined", name)
	}
	s.Shapes[name] = c
	s.Order = append(s.Order, name)
	return nil
}

// AddQuery appends q. Both shapes must already be defined.
func (s *Scene) AddQuery(q Query) error {
	for _, name := range []string{q.A, q.B} {
		if _, ok := s.Shapes[name]; !ok {
			return fmt.Errorf("query %s: %w %q", q, ErrUnknownShape, name)
		}
	}
	if q.Margin < 0 {
		return fmt.Errorf("query %s: margin must be non-negative", q)
	}
	s.Queries = append(s.Queries, q)
	return nil
}

// Lookup returns the shape with the given name, or nil.
func (s *Scene) Lookup(name string) convex.Convex {
	return s.Shapes[name]
}

// MustLookup returns the shape with the given name, or panics.
func (s *Scene) MustLookup(name string) convex.Convex {
	c := s.Lookup(name)
	if c == nil {
		panic(fmt.Sprintf("scene: no shape named %q", name))
	}
	return c
}

// Len returns the number of defined shapes.
func (s *Scene) Len() int { return len(s.Order) }

// Validate checks every shape tree and every query. All problems are
// reported, joined into one error.
func (s *Scene) Validate() error {
	var errs []error
	if len(s.Order) != len(s.Shapes) {
		errs = append(errs, fmt.Errorf("order lists %d shapes but %d are defined", len(s.Order), len(s.Shapes)))
	}
	for _, name := range s.Order {
		c, ok := s.Shapes[name]
		if !ok {
			errs = append(errs, fmt.Errorf("%w %q in order", ErrUnknownShape, name))
			continue
		}
		if err := convex.Validate(c); err != nil {
			errs = append(errs, fmt.Errorf("shape %q: %w", name, err))
		}
	}
	for _, q := range s.Queries {
		for _, name := range []string{q.A, q.B} {
			if _, ok := s.Shapes[name]; !ok {
				errs = append(errs, fmt.Errorf("query %s: %w %q", q, ErrUnknownShape, name))
			}
		}
		if q.Margin < 0 {
			errs = append(errs, fmt.Errorf("query %s: margin must be non-negative", q))
		}
	}
	return errors.Join(errs...)
}

// PlannedQueries returns the declared queries, or an intersect query for
// every unordered pair of shapes when none were declared.
func (s *Scene) PlannedQueries(margin float64) []Query {
	if len(s.Queries) > 0 {
		return s.Queries
	}
	var qs []Query
	for i, a := range s.Order {
		for _, b := range s.Order[i+1:] {
			qs = append(qs, Query{A: a, B: b, Type: checker.QueryIntersect, Margin: margin})
		}
	}
	return qs
}
