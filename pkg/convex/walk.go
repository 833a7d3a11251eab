package convex

import "fmt"

// Children returns the direct children of c. Primitives have none.
func Children(c Convex) []Convex {
	if isNil(c) {
		return nil
	}
	switch s := c.(type) {
	case *Dilated:
		return []Convex{s.Child}
	case *Transformed:
		return []Convex{s.Child}
	}
	return nil
}

// Walk calls fn for every node of the tree rooted at c, parents before
// children, with the depth of the node. Returning false from fn skips the
// node's children. Nil nodes, typed or not, are passed to fn and not
// descended into.
func Walk(c Convex, fn func(c Convex, depth int) bool) {
	walk(c, 0, fn)
}

func walk(c Convex, depth int, fn func(Convex, int) bool) {
	if !fn(c, depth) || isNil(c) {
		return
	}
	for _, child := range Children(c) {
		walk(child, depth+1, fn)
	}
}

type validator interface {
	validate() error
}

// Validate checks every node of the tree rooted at c. Fields are exported
// and may be changed after construction, so a tree that was valid when built
// can later fail here.
func Validate(c Convex) error {
	var err error
	Walk(c, func(n Convex, depth int) bool {
		if err != nil {
			return false
		}
		if isNil(n) {
			err = invalid("nil shape at depth %d", depth)
			return false
		}
		if v, ok := n.(validator); ok {
			if verr := v.validate(); verr != nil {
				err = fmt.Errorf("%s at depth %d: %w", n.Kind(), depth, verr)
				return false
			}
		}
		return true
	})
	return err
}
