package checker_test

import (
	"errors"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/hull/pkg/checker"
	"github.com/chazu/hull/pkg/convex"
)

func TestAdapters(t *testing.T) {
	c := boxAt(1, 2, 0, 0)
	o := checker.Object(c)
	for _, d := range []v3.Vec{{X: 1}, {X: -1, Y: 1}, {Z: -1}} {
		assert.Equal(t, c.Support(d), o.Support(d))
		assert.Equal(t, c.Support(d), checker.Support(c, d))
	}
	assert.Equal(t, v3.Vec{X: 2}, o.Center())
	assert.Equal(t, v3.Vec{X: 2}, checker.Center(c))
	assert.Equal(t, c.MaxDist(), o.MaxDist)
}

func TestRegistry(t *testing.T) {
	reg := checker.NewRegistry()
	a, b := sphereAt(1, 0, 0, 0), sphereAt(1, 1.5, 0, 0)

	ha, err := reg.Register(a)
	require.NoError(t, err)
	hb, err := reg.Register(b)
	require.NoError(t, err)
	assert.NotEqual(t, ha, hb)
	assert.NotZero(t, ha)
	assert.Equal(t, 2, reg.Len())

	got, err := reg.Lookup(ha)
	require.NoError(t, err)
	assert.Same(t, a, got)

	s, err := reg.Support(hb, v3.Vec{X: -1})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, s.X, 1e-12)
	ctr, err := reg.Center(hb)
	require.NoError(t, err)
	assert.Equal(t, v3.Vec{X: 1.5}, ctr)
	o, err := reg.Object(ha)
	require.NoError(t, err)
	assert.Equal(t, a.MaxDist(), o.MaxDist)

	c := checker.New(quiet())
	r := checker.NewReport(nil, nil)
	ok, err := c.QueryHandles(reg, checker.QueryPenetration, r, ha, hb, 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.InDelta(t, -0.5, r.Distance, 1e-6)

	require.NoError(t, reg.Release(ha))
	assert.Equal(t, 1, reg.Len())
	_, err = reg.Lookup(ha)
	assert.True(t, errors.Is(err, checker.ErrUnknownHandle))
	assert.True(t, errors.Is(reg.Release(ha), checker.ErrUnknownHandle))
	_, err = c.QueryHandles(reg, checker.QueryIntersect, nil, ha, hb, 0)
	assert.True(t, errors.Is(err, checker.ErrUnknownHandle))
	_, err = reg.Support(ha, v3.Vec{X: 1})
	assert.True(t, errors.Is(err, checker.ErrUnknownHandle))

	_, err = reg.Register(nil)
	assert.True(t, errors.Is(err, convex.ErrInvalidGeometry))
	_, err = reg.Register((*convex.Box)(nil))
	assert.True(t, errors.Is(err, convex.ErrInvalidGeometry))
}
