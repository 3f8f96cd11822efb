package unfold

import (
	"math"

	"blochfold/pkg/kpath"
)

// combinations110 enumerates the lattice translations of layer l in bundle b
// for a (110) segment. The layer's 2D cells ((l,0) and (0,l), or just the
// origin for l = 0) are expanded along the free axis by an integer window of
// width 2*nyq+1-b; the free-axis position and the signed component follow
// from which index component vanishes.
func combinations110(seg *kpath.Segment, l, b, nyq int) [][3]float64 {
	sign := seg.ParallelSign
	index := [3]float64{
		sign * seg.Index[0],
		sign * seg.Index[1],
		sign * seg.Index[2],
	}

	free := make([]float64, 2*nyq+1-b)
	for i := range free {
		free[i] = float64(i - nyq)
	}

	var cells [][2]float64
	if l == 0 {
		cells = [][2]float64{{0, 0}}
	} else {
		cells = [][2]float64{{float64(l), 0}, {0, float64(l)}}
	}

	posY, posZ := 1, 2
	if math.Abs(index[1]) < 1e-6 {
		posY, posZ = 2, 1
	} else if math.Abs(index[0]) < 1e-6 {
		posY, posZ = 2, 0
	}

	origin := seg.BundleOrigins[b]
	out := make([][3]float64, 0, len(cells)*len(free))
	for _, cell := range cells {
		for _, n2 := range free {
			// Insert the free coordinate at position posZ, keeping the cell
			// coordinates in order around it.
			var row [3]float64
			c := 0
			for d := 0; d < 3; d++ {
				if d == posZ {
					row[d] = n2
				} else {
					row[d] = cell[c]
					c++
				}
			}
			row[posY] *= index[posY]
			for d := 0; d < 3; d++ {
				row[d] += origin[d]
			}
			out = append(out, row)
		}
	}
	return out
}

// newBundle110 projects the enumerated lattice translations of one
// (bundle, layer) pair into the segment's perpendicular plane and builds the
// parallel wavenumber zones. The zone window [n_min, n_max] depends on the
// layer and bundle; its half-integer steps are rescaled by the family's
// inter-plane spacing factor.
func newBundle110(cells [][3]float64, l, b int, seg *kpath.Segment, nyq int) *Bundle {
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

	nMin := l - 2*nyq
	nMax := 2*(nyq-b) - l
	zones := (nMax-nMin)/2 + 1
	kappa0 := dot3(ePar, seg.BundleOrigins[b])

	return &Bundle{
		Perp0: perp0,
		Perp1: perp1,
		Kappa: kappaGrid(seg.ParallelSamples, zones, func(z int) float64 {
			zone := float64(nMin)/2 + float64(z)
			return kappa0 + zone/seg.Scale
		}),
	}
}
