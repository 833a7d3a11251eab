// Package convex defines support-mapped convex bodies.
//
// A body is described entirely by its support function: for a direction d it
// returns the point of the body that lies farthest along d. Collision
// algorithms such as GJK and MPR need nothing else, so the package stays
// independent of any particular engine.
//
// Four primitives live in their own local frame (Point, Line, Box, Cylinder,
// with lines and cylinders on the Z axis). Two combinators build on them:
// Dilated adds a spherical radius, Transformed places a child with a rigid
// transform. Spheres and capsules are dilated points and lines.
package convex
