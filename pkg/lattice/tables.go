// Package lattice provides the static per-family direction tables and the
// direction classifier for the three high-symmetry crystallographic families
// (100), (110) and (111). The tables are immutable configuration data built
// once and passed by reference into every segment-build call.
package lattice

import "math"

// Family identifies one of the three high-symmetry direction families.
type Family int

const (
	// Family100 covers axis-aligned directions such as (100) and (010)
	Family100 Family = iota

	// Family110 covers face-diagonal directions such as (110) and (011)
	Family110

	// Family111 covers body-diagonal directions such as (111) and (1-11)
	Family111
)

// String returns the conventional (hkl) name of the family.
func (f Family) String() string {
	switch f {
	case Family100:
		return "100"
	case Family110:
		return "110"
	case Family111:
		return "111"
	}
	return "unknown"
}

// Table holds the fixed per-family constants used to build path segments and
// to enumerate lattice-image bundles. A Table is never mutated after Tables
// constructs it.
type Table struct {
	// Scale is the inter-plane spacing factor for the family: the distance
	// between consecutive lattice planes along the direction, in units of
	// the reciprocal lattice constant.
	Scale float64

	// PositiveDirections lists the unit vectors that define the positive
	// sign convention for the family. A segment whose direction is
	// (anti)collinear with one of these gets that vector's sign.
	PositiveDirections [][3]float64

	// BundleOrigins lists the lattice-image origin offsets contributing to
	// folding: the zero offset and the body-centered offset.
	BundleOrigins [][3]float64
}

// BundleCount returns the number of bundles enumerated for the family.
func (t *Table) BundleCount() int {
	return len(t.BundleOrigins)
}

// Tables builds the direction tables for the three families. The scale for
// (110) is 1/sqrt(2) and for (111) is 1/sqrt(3), reflecting the shorter
// inter-plane spacing along the diagonals.
func Tables() [3]Table {
	l110 := 1.0 / math.Sqrt(2)
	l111 := 1.0 / math.Sqrt(3)

	origins := [][3]float64{
		{0, 0, 0},
		{0.5, 0.5, 0.5},
	}

	return [3]Table{
		{
			Scale: 1,
			PositiveDirections: [][3]float64{
				{1, 0, 0},
				{0, 1, 0},
				{0, 0, 1},
			},
			BundleOrigins: origins,
		},
		{
			Scale: l110,
			PositiveDirections: [][3]float64{
				{l110, l110, 0},
				{l110, -l110, 0},
				{0, l110, l110},
				{0, l110, -l110},
				{l110, 0, l110},
				{-l110, 0, l110},
			},
			BundleOrigins: origins,
		},
		{
			Scale: l111,
			PositiveDirections: [][3]float64{
				{l111, l111, l111},
				{l111, l111, -l111},
				{l111, -l111, l111},
				{l111, -l111, -l111},
			},
			BundleOrigins: origins,
		},
	}
}
