// Package orient reorients a real-space field so one grid axis is aligned
// with a path segment's parallel direction. Axis-aligned (100) segments are
// handled by axis permutation without resampling; (110) and (111) segments
// use one or two in-plane rotations with output-shape growth.
package orient

import (
	"errors"
	"fmt"
	"math"

	"blochfold/internal/models"
	"blochfold/pkg/kpath"
	"blochfold/pkg/lattice"
)

// axisTol is the tolerance for deciding that a direction component vanishes.
const axisTol = 1e-6

// ErrUnhandledOrientation is returned when a (110) direction aligns with none
// of the three axis-zero conditions. A true (110) direction always has
// exactly one vanishing component, so this means the direction is numerically
// malformed; returning the field unrotated would be silently wrong.
var ErrUnhandledOrientation = errors.New("orient: direction matches no (110) rotation branch")

// Oriented is a field reoriented for one segment, together with the
// coordinate ramps of the (possibly larger) reoriented grid. Axis maps
// coordinate roles to grid axes: Axis[0] is the parallel axis, Axis[1] and
// Axis[2] the two perpendicular axes.
type Oriented struct {
	Psi    *models.Field
	RPar   []float64
	RPerp0 []float64
	RPerp1 []float64
	Axis   [3]int
}

// Reorient aligns the field with the segment's parallel direction and fills
// in the parallel and perpendicular coordinate ramps. The parallel ramp is
// multiplied by the segment's sign so positive wavenumber always corresponds
// to the canonical positive direction of the family.
func Reorient(psi *models.Field, seg *kpath.Segment) (*Oriented, error) {
	axis := [3]int{0, 1, 2}
	rotated := psi

	switch seg.Family {
	case lattice.Family100:
		// No resampling: re-assign axes so axis 0 is the parallel axis.
		if math.Abs(seg.Direction[1]) > 0.999999 {
			axis = [3]int{1, 0, 2}
		} else if math.Abs(seg.Direction[2]) > 0.999999 {
			axis = [3]int{2, 1, 0}
		}

	case lattice.Family110:
		switch {
		case math.Abs(seg.Direction[2]) < axisTol:
			rotated = rotateVolume(psi, seg.RotationAngles[0], 0, 1)
		case math.Abs(seg.Direction[1]) < axisTol:
			rotated = rotateVolume(psi, seg.RotationAngles[1], 0, 2)
		case math.Abs(seg.Direction[0]) < axisTol:
			rotated = rotateVolume(psi, seg.RotationAngles[0], 0, 1)
			rotated = rotateVolume(rotated, seg.RotationAngles[1], 0, 2)
		default:
			return nil, fmt.Errorf("%w: direction %v", ErrUnhandledOrientation, seg.Direction)
		}

	case lattice.Family111:
		// Always two rotations, each scaled by the direction sign.
		rotated = rotateVolume(psi, seg.ParallelSign*seg.RotationAngles[0], 0, 1)
		rotated = rotateVolume(rotated, seg.ParallelSign*seg.RotationAngles[1], 0, 2)

	default:
		return nil, fmt.Errorf("orient: unknown family %v", seg.Family)
	}

	o := &Oriented{
		Psi:    rotated,
		RPar:   ramp(rotated.Dim(axis[0]), seg.ParallelSign),
		RPerp0: ramp(rotated.Dim(axis[1]), 1),
		RPerp1: ramp(rotated.Dim(axis[2]), 1),
		Axis:   axis,
	}
	return o, nil
}

// ramp builds the signed integer coordinate ramp 0, sign, 2*sign, ... of the
// given length.
func ramp(n int, sign float64) []float64 {
	r := make([]float64, n)
	for i := range r {
		r[i] = sign * float64(i)
	}
	return r
}
