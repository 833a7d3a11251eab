package checker_test

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/hull/pkg/ccd"
	"github.com/chazu/hull/pkg/checker"
	"github.com/chazu/hull/pkg/convex"
	"github.com/chazu/hull/pkg/geom"
	"github.com/chazu/hull/pkg/logging"
)

func quiet() checker.Option {
	return checker.WithLogger(logging.New(io.Discard, "test"))
}

func at(c convex.Convex, x, y, z float64) convex.Convex {
	return convex.Must(convex.Transform(c, geom.Translation(v3.Vec{X: x, Y: y, Z: z})))
}

func sphereAt(r, x, y, z float64) convex.Convex {
	return at(convex.Must(convex.Sphere(r)), x, y, z)
}

func boxAt(half, x, y, z float64) convex.Convex {
	return at(convex.Must(convex.NewBox(v3.Vec{X: half, Y: half, Z: half})), x, y, z)
}

var algorithms = []ccd.Algorithm{ccd.GJK, ccd.MPR}

func TestTouchingSpheres(t *testing.T) {
	const eps = 1e-4
	for _, alg := range algorithms {
		t.Run(alg.String(), func(t *testing.T) {
			c := checker.New(checker.WithAlgorithm(alg), quiet())
			a := sphereAt(1, 0, 0, 0)
			assert.True(t, c.Intersect(a, sphereAt(1, 2, 0, 0), 0), "spheres 2r apart touch")
			assert.False(t, c.Intersect(a, sphereAt(1, 2+eps, 0, 0), 0), "spheres 2r+eps apart do not")

			r := checker.NewReport(nil, nil)
			require.True(t, c.Separate(r, a, sphereAt(1, 2+eps, 0, 0), 0))
			assert.InDelta(t, eps, r.Distance, 1e-7)
			assert.True(t, r.Flags.Has(checker.FlagHaveSeparation|checker.FlagHavePosition))
			assert.False(t, r.Flags.Has(checker.FlagIntersect))
			assert.Equal(t, ccd.GJK, r.Algorithm, "separation always runs GJK")
		})
	}
}

func TestMarginBoundaryIsInclusive(t *testing.T) {
	for _, alg := range algorithms {
		t.Run(alg.String(), func(t *testing.T) {
			c := checker.New(checker.WithAlgorithm(alg), quiet())
			a, b := sphereAt(1, 0, 0, 0), sphereAt(1, 2.5, 0, 0)
			assert.True(t, c.Intersect(a, b, 0.5))
			assert.False(t, c.Intersect(a, b, 0.49))
			assert.False(t, c.Intersect(a, b, 0))
		})
	}
}

func TestNestedBoxes(t *testing.T) {
	outer, inner := boxAt(2, 0, 0, 0), boxAt(0.5, 0.3, 0, 0)
	for _, alg := range algorithms {
		t.Run(alg.String(), func(t *testing.T) {
			c := checker.New(checker.WithAlgorithm(alg), quiet())

			r := checker.NewReport(outer, inner)
			require.True(t, c.Penetration(r, outer, inner, 0))
			assert.Equal(t, checker.FlagIntersect|checker.FlagHaveSeparation|checker.FlagHavePosition, r.Flags)
			assert.InDelta(t, -2.2, r.Distance, 1e-6)
			assert.InDelta(t, 1, r.Direction.X, 1e-6)
			assert.Equal(t, alg, r.Algorithm)

			assert.False(t, c.Separate(r, outer, inner, 0), "separation is undefined for nested boxes")
			assert.Equal(t, checker.FlagIntersect, r.Flags)
		})
	}
}

func TestCrossingBareSegments(t *testing.T) {
	c := checker.New(quiet())
	a := convex.Must(convex.SegmentCapsule(v3.Vec{X: -1}, v3.Vec{X: 1}, 0))
	b := convex.Must(convex.SegmentCapsule(v3.Vec{Y: -1}, v3.Vec{Y: 1}, 0))
	require.True(t, a.IsDilated())

	r := checker.NewReport(nil, nil)
	require.True(t, c.Penetration(r, a, b, 0))
	assert.Equal(t, ccd.GJK, r.Algorithm)
	assert.InDelta(t, 0, r.Distance, 1e-6, "crossing segments touch without depth")
}

func TestPenetrationOfSeparatedPair(t *testing.T) {
	c := checker.New(quiet())
	r := checker.NewReport(nil, nil)
	assert.False(t, c.Penetration(r, boxAt(1, 0, 0, 0), boxAt(1, 3, 0, 0), 0))
	assert.Equal(t, checker.Flags(0), r.Flags)
}

func TestDilatedSphereMatchesLargerSphere(t *testing.T) {
	c := checker.New(quiet())
	grown := convex.Must(convex.Dilate(convex.Must(convex.Sphere(1)), 0.5))
	direct := convex.Must(convex.Sphere(1.5))
	others := []convex.Convex{
		boxAt(1, 2, 0.3, 0),
		boxAt(1, 3, 0, 0),
		sphereAt(0.5, 0, 1.8, 0.2),
		at(convex.Must(convex.NewCylinder(2, 0.5)), 0, 0, 5),
	}
	for _, q := range []checker.QueryType{checker.QueryIntersect, checker.QuerySeparation, checker.QueryPenetration} {
		for i, p := range others {
			r1, r2 := checker.NewReport(nil, nil), checker.NewReport(nil, nil)
			ok1 := c.Query(q, r1, at(grown, 0.1, 0, 0), p, 0)
			ok2 := c.Query(q, r2, at(direct, 0.1, 0, 0), p, 0)
			assert.Equal(t, ok1, ok2, "%s other %d", q, i)
			assert.Equal(t, r1.Flags, r2.Flags, "%s other %d", q, i)
			assert.InDelta(t, r1.Distance, r2.Distance, 1e-9, "%s other %d", q, i)
			assert.InDelta(t, 0, r1.Direction.Sub(r2.Direction).Length(), 1e-9, "%s other %d", q, i)
		}
	}
}

// recorder is an engine that remembers what it was asked.
type recorder struct {
	mu    sync.Mutex
	calls []call
	res   ccd.Result
	err   error
}

type call struct {
	q   ccd.Query
	alg ccd.Algorithm
}

func (e *recorder) Query(q ccd.Query, _, _ ccd.Object, _ float64, alg ccd.Algorithm) (ccd.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, call{q, alg})
	return e.res, e.err
}

func TestAlgorithmSelection(t *testing.T) {
	box, ball := boxAt(1, 0, 0, 0), sphereAt(1, 1, 0, 0)
	bare := convex.Must(convex.SegmentCapsule(v3.Vec{X: -1}, v3.Vec{X: 1}, 0))
	tests := []struct {
		name   string
		alg    ccd.Algorithm
		q      checker.QueryType
		a, b   convex.Convex
		wantQ  ccd.Query
		wantAl ccd.Algorithm
	}{
		{"intersect gjk", ccd.GJK, checker.QueryIntersect, box, box, ccd.QueryIntersect, ccd.GJK},
		{"intersect mpr", ccd.MPR, checker.QueryIntersect, box, box, ccd.QueryIntersect, ccd.MPR},
		{"separation under mpr", ccd.MPR, checker.QuerySeparation, box, ball, ccd.QuerySeparate, ccd.GJK},
		{"penetration polytopes", ccd.GJK, checker.QueryPenetration, box, box, ccd.QueryPenetrate, ccd.GJK},
		{"penetration dilated first", ccd.GJK, checker.QueryPenetration, ball, box, ccd.QueryPenetrate, ccd.MPR},
		{"penetration dilated second", ccd.GJK, checker.QueryPenetration, box, ball, ccd.QueryPenetrate, ccd.MPR},
		{"penetration configured mpr", ccd.MPR, checker.QueryPenetration, box, box, ccd.QueryPenetrate, ccd.MPR},
		{"penetration zero radius", ccd.GJK, checker.QueryPenetration, bare, box, ccd.QueryPenetrate, ccd.GJK},
		{"penetration zero radius mpr", ccd.MPR, checker.QueryPenetration, bare, box, ccd.QueryPenetrate, ccd.MPR},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &recorder{res: ccd.Result{Hit: true, Witnesses: true}}
			c := checker.New(checker.WithEngine(e), checker.WithAlgorithm(tt.alg), quiet())
			r := checker.NewReport(nil, nil)
			c.Query(tt.q, r, tt.a, tt.b, 0)
			require.Len(t, e.calls, 1)
			assert.Equal(t, call{tt.wantQ, tt.wantAl}, e.calls[0])
			assert.Equal(t, tt.wantAl, r.Algorithm)
		})
	}
}

func TestEngineFailureResetsReport(t *testing.T) {
	var buf bytes.Buffer
	e := &recorder{err: ccd.ErrNoConvergence}
	c := checker.New(checker.WithEngine(e), checker.WithLogger(logging.New(&buf, "test")))
	a, b := boxAt(1, 0, 0, 0), boxAt(1, 1, 0, 0)

	r := &checker.Report{Flags: checker.FlagIntersect, Distance: 42, Algorithm: ccd.MPR}
	assert.False(t, c.Penetration(r, a, b, 0))
	assert.Equal(t, checker.NewReport(a, b), r)
	assert.Len(t, e.calls, 1, "failures are not retried")
	assert.Contains(t, buf.String(), "collision query failed")
	assert.Equal(t, 1, strings.Count(buf.String(), "collision query failed"))
}

func TestInvalidQueries(t *testing.T) {
	e := &recorder{res: ccd.Result{Hit: true}}
	c := checker.New(checker.WithEngine(e), quiet())
	a := boxAt(1, 0, 0, 0)

	r := checker.NewReport(nil, nil)
	assert.False(t, c.Separate(r, a, nil, 0))
	assert.Equal(t, checker.NewReport(a, nil), r)
	assert.False(t, c.Query(checker.QueryType(9), r, a, a, 0))
	assert.Empty(t, e.calls)

	// Negative margins are rejected by the solver.
	assert.False(t, checker.New(quiet()).Intersect(a, a, -1))
}

func TestBrokenShapesFailCleanly(t *testing.T) {
	var buf bytes.Buffer
	e := &recorder{res: ccd.Result{Hit: true}}
	c := checker.New(checker.WithEngine(e), checker.WithLogger(logging.New(&buf, "test")))
	b := boxAt(1, 1, 0, 0)

	var typedNil *convex.Dilated
	orphan := convex.Must(convex.NewDilated(convex.Must(convex.NewBox(v3.Vec{X: 1, Y: 1, Z: 1})), 1))
	orphan.Child = nil
	tree := at(convex.Must(convex.Sphere(1)), 0, 0, 0)
	tree.(*convex.Transformed).Child.(*convex.Dilated).Radius = -1

	for name, broken := range map[string]convex.Convex{
		"typed nil":     typedNil,
		"child cleared": orphan,
		"mutated tree":  tree,
	} {
		t.Run(name, func(t *testing.T) {
			buf.Reset()
			for _, q := range []checker.QueryType{checker.QueryIntersect, checker.QuerySeparation, checker.QueryPenetration} {
				r := &checker.Report{Flags: checker.FlagIntersect, Distance: 42}
				assert.NotPanics(t, func() {
					assert.False(t, c.Query(q, r, broken, b, 0))
					assert.False(t, c.Query(q, nil, b, broken, 0))
				})
				assert.Equal(t, checker.NewReport(broken, b), r)
			}
			assert.Equal(t, 6, strings.Count(buf.String(), "collision query failed"))
		})
	}
	assert.Empty(t, e.calls)
}

func TestQueryIsIdempotent(t *testing.T) {
	c := checker.New(quiet())
	a := at(convex.Must(convex.NewCylinder(2, 1)), 0, 0, 0)
	b := convex.Must(convex.SegmentCapsule(v3.Vec{X: 0.5, Y: 2}, v3.Vec{X: 1.5, Y: -1, Z: 0.5}, 0.3))
	for _, q := range []checker.QueryType{checker.QueryIntersect, checker.QuerySeparation, checker.QueryPenetration} {
		first := checker.NewReport(nil, nil)
		ok := c.Query(q, first, a, b, 0)
		for i := 0; i < 3; i++ {
			again := checker.NewReport(nil, nil)
			assert.Equal(t, ok, c.Query(q, again, a, b, 0))
			assert.Equal(t, first, again, "%s report changed on call %d", q, i)
		}
	}
}

func TestQueryWithoutReport(t *testing.T) {
	c := checker.New(quiet())
	assert.True(t, c.Query(checker.QueryPenetration, nil, boxAt(1, 0, 0, 0), boxAt(1, 1, 0, 0), 0))
}

func TestSharedChecker(t *testing.T) {
	c := checker.New(quiet())
	a, b := sphereAt(1, 0, 0, 0), boxAt(1, 1.5, 0.5, 0)
	want := checker.NewReport(nil, nil)
	c.Penetration(want, a, b, 0)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := checker.NewReport(nil, nil)
			c.Penetration(r, a, b, 0)
			assert.Equal(t, want, r)
		}()
	}
	wg.Wait()
}

func TestFlagsString(t *testing.T) {
	assert.Equal(t, "0", checker.Flags(0).String())
	assert.Equal(t, "INTERSECT", checker.FlagIntersect.String())
	assert.Equal(t, "INTERSECT|HAVE_SEPARATION|HAVE_POSITION", (checker.FlagIntersect | checker.FlagHaveSeparation | checker.FlagHavePosition).String())
	assert.Equal(t, "HAVE_SEPARATION|0x10", (checker.FlagHaveSeparation | 0x10).String())
}

func TestParseQueryType(t *testing.T) {
	for in, want := range map[string]checker.QueryType{
		"intersect":   checker.QueryIntersect,
		"separation":  checker.QuerySeparation,
		"Penetrate":   checker.QueryPenetration,
		" separate  ": checker.QuerySeparation,
	} {
		got, err := checker.ParseQueryType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := checker.ParseQueryType("overlap")
	assert.Error(t, err)
}

func TestReportString(t *testing.T) {
	c := checker.New(quiet())
	a, b := sphereAt(1, 0, 0, 0), sphereAt(1, 3, 0, 0)
	r := checker.NewReport(a, b)
	require.True(t, c.Separate(r, a, b, 0))
	s := r.String()
	for _, want := range []string{"Dilated", "HAVE_SEPARATION", "distance=", "algorithm=gjk"} {
		assert.Contains(t, s, want)
	}
}
