package checker

import (
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/hull/pkg/ccd"
	"github.com/chazu/hull/pkg/convex"
)

// Support returns the support point of c in direction dir.
func Support(c convex.Convex, dir v3.Vec) v3.Vec {
	return c.Support(dir)
}

// Center returns the interior reference point of c.
func Center(c convex.Convex) v3.Vec {
	return c.Center()
}

// Object binds c to the engine's callback form.
func Object(c convex.Convex) ccd.Object {
	return ccd.Object{
		Support: func(dir v3.Vec) v3.Vec { return Support(c, dir) },
		Center:  func() v3.Vec { return Center(c) },
		MaxDist: c.MaxDist(),
	}
}
