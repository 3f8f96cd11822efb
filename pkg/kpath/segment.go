// Package kpath builds and assembles paths through reciprocal space. A path
// is an ordered list of straight segments between high-symmetry points; each
// segment carries the geometry the projection engine needs (direction family,
// sign convention, parallel sampling grid, rotation basis) plus the folded
// spectral weight accumulator filled in per input field.
package kpath

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"blochfold/pkg/lattice"
)

// collinearTol is the dot-product tolerance used when matching a segment
// direction against the positive-direction convention of its family.
const collinearTol = 0.99999

// ErrInvalidSpacing is returned when the target sample spacing is not positive.
var ErrInvalidSpacing = errors.New("kpath: target sample spacing must be positive")

// Segment represents one straight leg of a k-path. All geometric fields are
// fixed at construction; only FoldedWeight is mutated, once per input field,
// by the projection engine.
type Segment struct {
	// Family is the direction family of the segment
	Family lattice.Family

	// Scale is the family's inter-plane spacing factor, copied from the table
	Scale float64

	// Direction is the unit vector from the start point to the end point
	Direction [3]float64

	// Index is the integer-scaled crystallographic index of Direction
	Index [3]float64

	// ParallelSign is +1 or -1 depending on whether Direction matches a
	// positive-direction vector of the family or its opposite
	ParallelSign float64

	// LinePosition is the perpendicular foot point of the segment's line,
	// i.e. the component of the start point orthogonal to Direction
	LinePosition [3]float64

	// ParallelRange holds the projections of the two endpoints onto Direction
	ParallelRange [2]float64

	// SampleSpacing is the actual spacing after rounding the sample count
	SampleSpacing float64

	// SampleCount is the number of samples along the segment
	SampleCount int

	// ParallelSamples are the sampled parallel coordinates. The interval is
	// half-open: the end point is excluded so adjoining segments do not
	// duplicate the shared point.
	ParallelSamples []float64

	// RotationAngles are the two reorientation angles, zero for (100)
	RotationAngles [2]float64

	// PerpendicularBasis is the orthonormal 3x3 basis with row 0 the parallel
	// direction in the rotated frame and rows 1-2 the perpendicular plane
	PerpendicularBasis *mat.Dense

	// BundleCount and BundleOrigins are copied from the family table
	BundleCount   int
	BundleOrigins [][3]float64

	// FoldedWeight accumulates the folded spectral weight per sample. It is
	// zeroed before each field is processed and written only by the
	// projection engine's coordinating goroutine.
	FoldedWeight []float64
}

// NewSegment builds the k-path segment from k1 to k2 sampled at approximately
// dkSet. The direction is classified against the given tables; a zero or
// non-high-symmetry direction fails with lattice.ErrDegenerateDirection.
func NewSegment(k1, k2 [3]float64, tables *[3]lattice.Table, dkSet float64) (*Segment, error) {
	if dkSet <= 0 {
		return nil, ErrInvalidSpacing
	}

	var direction [3]float64
	for d := 0; d < 3; d++ {
		direction[d] = k2[d] - k1[d]
	}
	norm := math.Sqrt(floats.Dot(direction[:], direction[:]))
	if norm == 0 {
		return nil, fmt.Errorf("kpath: coincident endpoints %v: %w", k1, lattice.ErrDegenerateDirection)
	}
	for d := 0; d < 3; d++ {
		direction[d] /= norm
	}

	index, family, err := lattice.Classify(direction)
	if err != nil {
		return nil, fmt.Errorf("kpath: segment %v -> %v: %w", k1, k2, err)
	}
	table := &tables[family]

	// Match against the family's positive-direction convention. The (100)
	// family always matches one of the three axes; for the diagonal families
	// an anti-collinear match flips the sign.
	sign := 1.0
	for _, v := range table.PositiveDirections {
		dot := floats.Dot(direction[:], v[:])
		if math.Abs(dot) > collinearTol {
			sign = math.Round(dot)
		}
	}

	kappa1 := floats.Dot(k1[:], direction[:])
	kappa2 := floats.Dot(k2[:], direction[:])

	var linePos [3]float64
	for d := 0; d < 3; d++ {
		linePos[d] = k1[d] - kappa1*direction[d]
	}

	sampleCount := int(math.Round((kappa2 - kappa1) / dkSet))
	if sampleCount < 1 {
		sampleCount = 1
	}
	spacing := (kappa2 - kappa1) / float64(sampleCount)

	samples := make([]float64, sampleCount)
	for i := range samples {
		samples[i] = kappa1 + float64(i)*spacing
	}

	var angles [2]float64
	if family != lattice.Family100 {
		angles[0] = -math.Asin(sign * direction[1] / math.Hypot(direction[0], direction[1]))
		angles[1] = -math.Asin(sign * direction[2])
	}

	return &Segment{
		Family:             family,
		Scale:              table.Scale,
		Direction:          direction,
		Index:              index,
		ParallelSign:       sign,
		LinePosition:       linePos,
		ParallelRange:      [2]float64{kappa1, kappa2},
		SampleSpacing:      spacing,
		SampleCount:        sampleCount,
		ParallelSamples:    samples,
		RotationAngles:     angles,
		PerpendicularBasis: perpendicularBasis(family, angles),
		BundleCount:        table.BundleCount(),
		BundleOrigins:      table.BundleOrigins,
		FoldedWeight:       make([]float64, sampleCount),
	}, nil
}

// perpendicularBasis builds the rotation basis for the segment. For (100) no
// rotation is needed and the basis is the identity; otherwise the basis is
// the fixed closed-form rotation built from the two reorientation angles.
func perpendicularBasis(family lattice.Family, angles [2]float64) *mat.Dense {
	if family == lattice.Family100 {
		return mat.NewDense(3, 3, []float64{
			1, 0, 0,
			0, 1, 0,
			0, 0, 1,
		})
	}

	c0, s0 := math.Cos(angles[0]), math.Sin(angles[0])
	c1, s1 := math.Cos(angles[1]), math.Sin(angles[1])

	return mat.NewDense(3, 3, []float64{
		c1 * c0, -c1 * s0, -s1,
		s0, c0, 0,
		s1 * c0, -s1 * s0, c1,
	})
}

// BasisRow returns one row of the perpendicular basis as a plain vector.
func (s *Segment) BasisRow(i int) [3]float64 {
	var row [3]float64
	mat.Row(row[:], i, s.PerpendicularBasis)
	return row
}

// ResetWeight zeroes the folded-weight accumulator before a field is
// processed.
func (s *Segment) ResetWeight() {
	for i := range s.FoldedWeight {
		s.FoldedWeight[i] = 0
	}
}
