package unfold

import (
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"

	"blochfold/internal/models"
)

// EstimateBandLimit estimates the highest significant spatial frequency of a
// field, in cycles per grid length along axis 0. Every grid line along axis 0
// is transformed and the power spectra are accumulated; the estimate is the
// highest frequency bin whose accumulated power exceeds threshold times the
// strongest non-constant bin. A field sampled much finer than its content
// therefore reports a small limit, which can be used to cap the lattice-image
// enumeration.
func EstimateBandLimit(f *models.Field, threshold float64) int {
	n0 := f.Dim(0)
	n1 := f.Dim(1)
	n2 := f.Dim(2)

	fft := fourier.NewFFT(n0)
	line := make([]float64, n0)
	coeffs := make([]complex128, n0/2+1)
	power := make([]float64, n0/2+1)

	for j := 0; j < n1; j++ {
		for k := 0; k < n2; k++ {
			for i := 0; i < n0; i++ {
				line[i] = f.At(i, j, k)
			}
			coeffs = fft.Coefficients(coeffs, line)
			for b, c := range coeffs {
				power[b] += real(c)*real(c) + imag(c)*imag(c)
			}
		}
	}

	if len(power) < 2 {
		return 0
	}
	cut := threshold * floats.Max(power[1:])
	limit := 0
	for b := 1; b < len(power); b++ {
		if power[b] > cut {
			limit = b
		}
	}
	return limit
}
