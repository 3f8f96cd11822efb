package unfold

import (
	"blochfold/pkg/kpath"
)

// combinations111 enumerates the lattice translations of one
// (bundle, width, layer) triple for a (111) segment: the unique permutations
// of (w, l, 0), with sign flips on two components determined by the signed
// index vector. The flips cover the four (111)-type sub-cases of the
// direction table.
func combinations111(w, l, b int, seg *kpath.Segment) [][3]float64 {
	sign := seg.ParallelSign
	index := [3]float64{
		sign * seg.Index[0],
		sign * seg.Index[1],
		sign * seg.Index[2],
	}
	indexSum := index[0] + index[1] + index[2]

	cells := uniquePermutations(float64(w), float64(l), 0)

	if indexSum < 1.00001 {
		switch {
		case index[0] > 0.99999 && index[1] > 0.99999:
			for i := range cells {
				cells[i][2] = -cells[i][2]
			}
		case index[0] > 0.99999 && index[2] > 0.99999:
			for i := range cells {
				cells[i][1] = -cells[i][1]
			}
		case indexSum < -0.99999:
			for i := range cells {
				cells[i][1] = -cells[i][1]
				cells[i][2] = -cells[i][2]
			}
		}
	}

	origin := seg.BundleOrigins[b]
	for i := range cells {
		for d := 0; d < 3; d++ {
			cells[i][d] += origin[d]
		}
	}
	return cells
}

// uniquePermutations returns the distinct permutations of (a, b, c) in a
// deterministic order.
func uniquePermutations(a, b, c float64) [][3]float64 {
	perms := [][3]float64{
		{a, b, c}, {a, c, b},
		{b, a, c}, {b, c, a},
		{c, a, b}, {c, b, a},
	}
	out := make([][3]float64, 0, 6)
	for _, p := range perms {
		seen := false
		for _, q := range out {
			if p == q {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, p)
		}
	}
	return out
}

// newBundle111 projects the enumerated translations of one
// (bundle, width, layer) triple into the segment's perpendicular plane and
// builds the parallel wavenumber zones. The zone step is 3, reflecting the
// larger translational period along a (111) axis, scaled by the family's
// spacing factor.
func newBundle111(cells [][3]float64, w, l, b int, seg *kpath.Segment, nyq int) *Bundle {
	ePar := seg.BasisRow(0)
	ePerp0 := seg.BasisRow(1)
	ePerp1 := seg.BasisRow(2)

	foot0 := dot3(ePerp0, seg.LinePosition)
	foot1 := dot3(ePerp1, seg.LinePosition)

	perp0 := make([]float64, len(cells))
	perp1 := make([]float64, len(cells))
	for m, cell := range cells {
		perp0[m] = dot3(cell, ePerp0) + foot0
		perp1[m] = dot3(cell, ePerp1) + foot1
	}

	nMin := w + l - 3*nyq
	nMax := 3*(nyq-b) + l - 2*w
	zones := (nMax-nMin)/3 + 1
	kappa0 := dot3(ePar, seg.BundleOrigins[b])

	return &Bundle{
		Perp0: perp0,
		Perp1: perp1,
		Kappa: kappaGrid(seg.ParallelSamples, zones, func(z int) float64 {
			return kappa0 + float64(nMin+3*z)*seg.Scale
		}),
	}
}
