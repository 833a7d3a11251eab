package ccd

import "fmt"

// Config holds the iteration cap and tolerances of a Solver. Tolerances are
// relative to the size of the bodies involved, max(1, a.MaxDist+b.MaxDist).
type Config struct {
	MaxIterations int
	// DistanceTolerance is the distance at or below which GJK treats the
	// bodies as touching.
	DistanceTolerance float64
	// RelativeTolerance ends GJK when |v|^2 - v.w falls below it times |v|^2.
	RelativeTolerance float64
	// EPATolerance ends EPA when a new support point improves the closest
	// face by less than it.
	EPATolerance float64
	// MPRTolerance ends portal refinement when the portal moves less than it.
	MPRTolerance float64
}

// DefaultConfig returns the tolerances used when none are configured.
func DefaultConfig() Config {
	return Config{
		MaxIterations:     200,
		DistanceTolerance: 1e-6,
		RelativeTolerance: 1e-10,
		EPATolerance:      1e-6,
		MPRTolerance:      1e-6,
	}
}

// Validate reports the first unusable setting.
func (c Config) Validate() error {
	if c.MaxIterations <= 0 {
		return fmt.Errorf("%w: max iterations must be positive, got %d", ErrInvalidInput, c.MaxIterations)
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"distance tolerance", c.DistanceTolerance},
		{"relative tolerance", c.RelativeTolerance},
		{"epa tolerance", c.EPATolerance},
		{"mpr tolerance", c.MPRTolerance},
	} {
		if !(f.v > 0) {
			return fmt.Errorf("%w: %s must be positive, got %g", ErrInvalidInput, f.name, f.v)
		}
	}
	return nil
}
