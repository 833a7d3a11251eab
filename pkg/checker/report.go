package checker

import (
	"fmt"
	"strings"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/hull/pkg/ccd"
	"github.com/chazu/hull/pkg/convex"
)

// QueryType selects what a query computes.
type QueryType int

const (
	QueryIntersect QueryType = iota
	QuerySeparation
	QueryPenetration
)

var queryNames = [...]string{
	QueryIntersect:   "intersect",
	QuerySeparation:  "separation",
	QueryPenetration: "penetration",
}

func (q QueryType) String() string {
	if q < 0 || int(q) >= len(queryNames) {
		return fmt.Sprintf("query(%d)", int(q))
	}
	return queryNames[q]
}

// ParseQueryType accepts the names printed by String plus the short forms
// "separate" and "penetrate".
func ParseQueryType(s string) (QueryType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "intersect", "intersection":
		return QueryIntersect, nil
	case "separation", "separate":
		return QuerySeparation, nil
	case "penetration", "penetrate":
		return QueryPenetration, nil
	}
	return QueryIntersect, fmt.Errorf("unknown query type %q", s)
}

// Flags records which fields of a Report hold results.
type Flags int

const (
	// FlagIntersect is set when the bodies intersect.
	FlagIntersect Flags = 0x01
	// FlagHaveSeparation is set when Distance and Direction are valid.
	FlagHaveSeparation Flags = 0x02
	// FlagHavePosition is set when Pos1 and Pos2 are valid.
	FlagHavePosition Flags = 0x04
)

// Has reports whether every bit of g is set in f.
func (f Flags) Has(g Flags) bool { return f&g == g }

func (f Flags) String() string {
	if f == 0 {
		return "0"
	}
	var parts []string
	for _, n := range []struct {
		flag Flags
		name string
	}{
		{FlagIntersect, "INTERSECT"},
		{FlagHaveSeparation, "HAVE_SEPARATION"},
		{FlagHavePosition, "HAVE_POSITION"},
	} {
		if f.Has(n.flag) {
			parts = append(parts, n.name)
		}
	}
	if rest := f &^ (FlagIntersect | FlagHaveSeparation | FlagHavePosition); rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%02x", int(rest)))
	}
	return strings.Join(parts, "|")
}

// Report is the result of one query between C1 and C2.
//
// Distance is signed: negative when the bodies penetrate, positive when
// they are apart. Direction is the unit normal pointing from C1 towards C2.
// Fields are only meaningful when the matching flag is set.
type Report struct {
	C1, C2    convex.Convex
	Flags     Flags
	Distance  float64
	Direction v3.Vec
	Pos1      v3.Vec
	Pos2      v3.Vec
	Algorithm ccd.Algorithm
}

// NewReport returns an empty report for the pair.
func NewReport(c1, c2 convex.Convex) *Report {
	return &Report{C1: c1, C2: c2}
}

func (r *Report) reset(c1, c2 convex.Convex) {
	*r = Report{C1: c1, C2: c2}
}

func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Report(%s, %s, flags=%s, algorithm=%s", convex.Description(r.C1), convex.Description(r.C2), r.Flags, r.Algorithm)
	if r.Flags.Has(FlagHaveSeparation) {
		fmt.Fprintf(&b, ", distance=%g, direction=(%g, %g, %g)", r.Distance, r.Direction.X, r.Direction.Y, r.Direction.Z)
	}
	if r.Flags.Has(FlagHavePosition) {
		fmt.Fprintf(&b, ", pos1=(%g, %g, %g), pos2=(%g, %g, %g)", r.Pos1.X, r.Pos1.Y, r.Pos1.Z, r.Pos2.X, r.Pos2.Y, r.Pos2.Z)
	}
	b.WriteString(")")
	return b.String()
}
