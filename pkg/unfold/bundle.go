// Package unfold implements the folding/projection engine: per-family
// enumeration of the reciprocal-lattice images ("bundles") that fold onto a
// path segment, and the chunked, parallel-reduced phase-factor contraction
// that accumulates folded spectral weight per path sample.
package unfold

import "gonum.org/v1/gonum/floats"

// Bundle holds the reciprocal-space geometry of one lattice-image sub-family
// for one segment. Bundles are ephemeral: produced and consumed within one
// projection step, never persisted.
//
// For the (110) and (111) families Perp0 and Perp1 list the two in-plane
// wavevector components per lattice image. For the (100) family they are
// independent grid axes and the images are their Cartesian product.
type Bundle struct {
	// Perp0, Perp1 are the in-plane (perpendicular) wavevector coordinates
	Perp0, Perp1 []float64

	// Kappa is the sampled parallel wavenumber grid, indexed
	// [sample][zone]: the segment's kappa range shifted by each enumerated
	// zone index
	Kappa [][]float64
}

// kappaGrid builds the [sample][zone] parallel wavenumber grid: column z is
// the segment's sampled kappa range shifted by base(z).
func kappaGrid(samples []float64, zones int, base func(z int) float64) [][]float64 {
	grid := make([][]float64, len(samples))
	for s, kappa := range samples {
		row := make([]float64, zones)
		for z := 0; z < zones; z++ {
			row[z] = kappa + base(z)
		}
		grid[s] = row
	}
	return grid
}

// dot3 is the dot product of two 3-vectors.
func dot3(a, b [3]float64) float64 {
	return floats.Dot(a[:], b[:])
}
