// Package geom holds the small amount of vector and rigid-transform math the
// shape hierarchy needs on top of sdfx vectors. Rotations are unit
// quaternions evaluated through gonum's r3.Rotation.
package geom
