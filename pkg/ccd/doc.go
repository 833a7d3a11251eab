// Package ccd answers proximity queries between two convex bodies given only
// their support functions.
//
// Three algorithms are provided:
//
//   - GJK computes the distance between separated bodies and the closest
//     points on each.
//   - EPA expands the final GJK simplex to find the penetration depth and
//     direction of overlapping bodies.
//   - MPR (Minkowski Portal Refinement) decides intersection and estimates
//     penetration without going through GJK.
//
// All algorithms work on the Minkowski difference A - B, whose support in
// direction d is A.Support(d) - B.Support(-d). The package has no knowledge
// of concrete shape types.
package ccd
