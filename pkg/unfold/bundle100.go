package unfold

import (
	"math"

	"blochfold/pkg/kpath"
)

// perpMasks100 returns the two axis-selection masks converting a vector's
// coordinates into the in-plane coordinates of a (100) segment. Axes are
// swapped rather than rotated: the masks pick the two components orthogonal
// to the crystallographic index.
func perpMasks100(index [3]float64) (m0, m1 [3]float64) {
	m0 = [3]float64{0, 1, 0}
	m1 = [3]float64{0, 0, 1}
	if math.Abs(index[1]) > 0.5 {
		m0 = [3]float64{1, 0, 0}
		m1 = [3]float64{0, 0, 1}
	} else if math.Abs(index[2]) > 0.5 {
		m0 = [3]float64{0, 1, 0}
		m1 = [3]float64{1, 0, 0}
	}
	return m0, m1
}

// newBundle100 enumerates the lattice images of one (100) bundle. Bundle 0
// holds integer in-plane coordinates of half-width nyq; bundle 1 holds the
// body-centered images, half-integer shifted and therefore one point fewer
// per axis. The parallel zones follow the same offsets along the direction.
func newBundle100(b int, seg *kpath.Segment, nyq int) *Bundle {
	m0, m1 := perpMasks100(seg.Index)

	n := 2*nyq + 1
	zoneShift := 0.0
	if b > 0 {
		n = 2 * nyq
		zoneShift = 0.5
	}

	origin := seg.BundleOrigins[b]
	off0 := dot3(m0, origin) + dot3(m0, seg.LinePosition)
	off1 := dot3(m1, origin) + dot3(m1, seg.LinePosition)

	perp0 := make([]float64, n)
	perp1 := make([]float64, n)
	for i := 0; i < n; i++ {
		perp0[i] = float64(i-nyq) + off0
		perp1[i] = float64(i-nyq) + off1
	}

	return &Bundle{
		Perp0: perp0,
		Perp1: perp1,
		Kappa: kappaGrid(seg.ParallelSamples, n, func(z int) float64 {
			return float64(z-nyq) + zoneShift
		}),
	}
}
