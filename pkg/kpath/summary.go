package kpath

import (
	"math"

	"blochfold/pkg/lattice"
)

// Summary classifies the segments of a path by direction family and carries
// the Nyquist cutoff bounding the lattice-image enumeration. It must be
// recomputed whenever the grid spacing changes, i.e. once per input field.
type Summary struct {
	// CountByFamily is the number of segments of each family
	CountByFamily [3]int

	// IndexByFamily lists, per family, the path positions of its segments in
	// path order
	IndexByFamily [3][]int

	// NyquistLimit bounds how many lattice-image shells are enumerated
	// before aliasing beyond the field's Nyquist frequency makes further
	// images physically meaningless
	NyquistLimit int
}

// Summarize groups the segments of a path by family and computes the Nyquist
// cutoff from ratio = latticeParam/gridSpacing. The cutoff grows with finer
// real-space sampling relative to the lattice constant.
func Summarize(segments []*Segment, ratio float64) *Summary {
	s := &Summary{
		NyquistLimit: int(math.Floor(0.5 * (ratio/math.Sqrt(3) - 2))),
	}
	for pos, seg := range segments {
		f := seg.Family
		s.IndexByFamily[f] = append(s.IndexByFamily[f], pos)
		s.CountByFamily[f]++
	}
	return s
}

// SegmentsOf returns the path positions of the segments of one family.
func (s *Summary) SegmentsOf(f lattice.Family) []int {
	return s.IndexByFamily[f]
}
