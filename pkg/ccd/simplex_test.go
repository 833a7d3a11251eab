package ccd

import (
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

func vtx(x, y, z float64) vertex {
	p := v3.Vec{X: x, Y: y, Z: z}
	return vertex{p: p, a: p}
}

func TestClosestSegment(t *testing.T) {
	tests := []struct {
		name string
		a, b vertex
		n    int
		want v3.Vec
	}{
		{"interior", vtx(-1, 1, 0), vtx(1, 1, 0), 2, v3.Vec{Y: 1}},
		{"past a", vtx(1, 1, 0), vtx(3, 1, 0), 1, v3.Vec{X: 1, Y: 1}},
		{"past b", vtx(-3, 1, 0), vtx(-1, 2, 0), 1, v3.Vec{X: -1, Y: 2}},
		{"degenerate", vtx(2, 0, 0), vtx(2, 0, 0), 1, v3.Vec{X: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := closestSegment(tt.a, tt.b)
			if s.n != tt.n {
				t.Errorf("kept %d vertices, want %d", s.n, tt.n)
			}
			if got := s.point(); got.Sub(tt.want).Length() > 1e-12 {
				t.Errorf("closest point: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClosestTriangle(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c vertex
		n       int
		want    v3.Vec
	}{
		{"face", vtx(-1, -1, 2), vtx(3, -1, 2), vtx(-1, 3, 2), 3, v3.Vec{Z: 2}},
		{"vertex a", vtx(1, 1, 0), vtx(3, 1, 0), vtx(1, 3, 0), 1, v3.Vec{X: 1, Y: 1}},
		{"edge bc", vtx(3, 3, 0), vtx(-1, 1, 0), vtx(1, -1, 0), 2, v3.Vec{}},
		{"collinear", vtx(1, 1, 0), vtx(2, 2, 0), vtx(3, 3, 0), 1, v3.Vec{X: 1, Y: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := closestTriangle(tt.a, tt.b, tt.c)
			if s.n != tt.n {
				t.Errorf("kept %d vertices, want %d", s.n, tt.n)
			}
			if got := s.point(); got.Sub(tt.want).Length() > 1e-12 {
				t.Errorf("closest point: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClosestTetrahedron(t *testing.T) {
	inside := closestTetrahedron(vtx(1, 0, -1), vtx(-1, 1, -1), vtx(-1, -1, -1), vtx(0, 0, 2))
	if inside.n != 4 {
		t.Fatalf("origin inside: kept %d vertices, want 4", inside.n)
	}
	if got := inside.point(); got.Length() > 1e-12 {
		t.Errorf("origin inside: weighted point %v, want origin", got)
	}
	var sum float64
	for _, w := range inside.w {
		if w < 0 {
			t.Errorf("negative weight %v", w)
		}
		sum += w
	}
	if math.Abs(sum-1) > 1e-12 {
		t.Errorf("weights sum to %v", sum)
	}

	above := closestTetrahedron(vtx(1, 0, 1), vtx(-1, 1, 1), vtx(-1, -1, 1), vtx(0, 0, 4))
	if above.n != 3 {
		t.Errorf("origin below base: kept %d vertices, want 3", above.n)
	}
	if got := above.point(); got.Sub(v3.Vec{Z: 1}).Length() > 1e-12 {
		t.Errorf("origin below base: got %v, want (0, 0, 1)", got)
	}
}

func TestWitnessesFollowWeights(t *testing.T) {
	a := vertex{p: v3.Vec{X: -1}, a: v3.Vec{X: 1}, b: v3.Vec{X: 2}}
	b := vertex{p: v3.Vec{X: 1}, a: v3.Vec{X: 3}, b: v3.Vec{X: 2}}
	s := closestSegment(a, b)
	pa, pb := s.witnesses()
	if pa.X != 2 || pb.X != 2 {
		t.Errorf("witnesses: got %v and %v, want both at x=2", pa, pb)
	}
}
