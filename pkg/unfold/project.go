package unfold

import (
	"math"

	"blochfold/pkg/orient"
)

// phaseFactors fills dst with exp(-i * scale * coord * r) for each r in ramp.
func phaseFactors(dst []complex128, scale, coord float64, ramp []float64) {
	for i, r := range ramp {
		x := scale * coord * r
		dst[i] = complex(math.Cos(x), -math.Sin(x))
	}
}

// projectList accumulates into out the folded-weight contribution of one
// bundle whose lattice images are listed per image ((110) and (111)
// families). The perpendicular phase factor is separable, so the field is
// contracted one perpendicular axis at a time before the parallel
// contraction; the result equals forming the full perpendicular factor at
// once.
func projectList(bun *Bundle, o *orient.Oriented, phase float64, out []float64) {
	nImg := len(bun.Perp0)
	nPar := len(o.RPar)
	n0 := len(o.RPerp0)
	n1 := len(o.RPerp1)

	factor0 := make([]complex128, n0)
	factor1 := make([]complex128, n1)
	partial := make([]complex128, n0*nPar)
	proj := make([]complex128, nImg*nPar)

	var idx [3]int
	for m := 0; m < nImg; m++ {
		phaseFactors(factor0, phase, bun.Perp0[m], o.RPerp0)
		phaseFactors(factor1, phase, bun.Perp1[m], o.RPerp1)

		for i := range partial {
			partial[i] = 0
		}

		// Contract the second perpendicular axis
		for p := 0; p < n0; p++ {
			idx[o.Axis[1]] = p
			row := partial[p*nPar : (p+1)*nPar]
			for q := 0; q < n1; q++ {
				idx[o.Axis[2]] = q
				f := factor1[q]
				for t := 0; t < nPar; t++ {
					idx[o.Axis[0]] = t
					row[t] += f * complex(o.Psi.At(idx[0], idx[1], idx[2]), 0)
				}
			}
		}

		// Contract the first perpendicular axis
		for t := 0; t < nPar; t++ {
			var c complex128
			for p := 0; p < n0; p++ {
				c += factor0[p] * partial[p*nPar+t]
			}
			proj[m*nPar+t] = c
		}
	}

	accumulateParallel(bun, o, phase, proj, nImg, out)
}

// projectGrid accumulates into out the folded-weight contribution of one
// (100) bundle, whose lattice images are the Cartesian product of the two
// in-plane coordinate axes.
func projectGrid(bun *Bundle, o *orient.Oriented, phase float64, out []float64) {
	nA := len(bun.Perp0)
	nB := len(bun.Perp1)
	nPar := len(o.RPar)
	n0 := len(o.RPerp0)
	n1 := len(o.RPerp1)

	factor0 := make([]complex128, n0)
	factor1 := make([]complex128, n1)
	partial := make([]complex128, n0*nPar)
	proj := make([]complex128, nA*nB*nPar)

	var idx [3]int
	for bi := 0; bi < nB; bi++ {
		phaseFactors(factor1, phase, bun.Perp1[bi], o.RPerp1)

		for i := range partial {
			partial[i] = 0
		}
		for p := 0; p < n0; p++ {
			idx[o.Axis[1]] = p
			row := partial[p*nPar : (p+1)*nPar]
			for q := 0; q < n1; q++ {
				idx[o.Axis[2]] = q
				f := factor1[q]
				for t := 0; t < nPar; t++ {
					idx[o.Axis[0]] = t
					row[t] += f * complex(o.Psi.At(idx[0], idx[1], idx[2]), 0)
				}
			}
		}

		for ai := 0; ai < nA; ai++ {
			phaseFactors(factor0, phase, bun.Perp0[ai], o.RPerp0)
			dst := proj[(ai*nB+bi)*nPar : (ai*nB+bi+1)*nPar]
			for t := 0; t < nPar; t++ {
				var c complex128
				for p := 0; p < n0; p++ {
					c += factor0[p] * partial[p*nPar+t]
				}
				dst[t] = c
			}
		}
	}

	accumulateParallel(bun, o, phase, proj, nA*nB, out)
}

// accumulateParallel contracts the parallel phase factor against the
// perpendicular projections and accumulates the squared modulus, summed over
// zones and images, into the per-sample weight.
func accumulateParallel(bun *Bundle, o *orient.Oriented, phase float64, proj []complex128, nImg int, out []float64) {
	nPar := len(o.RPar)
	factorPar := make([]complex128, nPar)

	for s := range out {
		for _, kappa := range bun.Kappa[s] {
			phaseFactors(factorPar, phase, kappa, o.RPar)
			for m := 0; m < nImg; m++ {
				row := proj[m*nPar : (m+1)*nPar]
				var c complex128
				for t := 0; t < nPar; t++ {
					c += factorPar[t] * row[t]
				}
				out[s] += real(c)*real(c) + imag(c)*imag(c)
			}
		}
	}
}
