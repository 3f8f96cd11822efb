package lattice

import (
	"errors"
	"fmt"
	"math"
)

// ErrDegenerateDirection is returned when a direction vector is zero or does
// not reduce to one of the three high-symmetry families.
var ErrDegenerateDirection = errors.New("lattice: degenerate direction vector")

// Classify determines the crystallographic family of a direction vector.
//
// The vector is divided elementwise by the minimum of its non-zero absolute
// components, producing an integer-valued (up to floating tolerance) index
// vector. The family follows from the number of non-zero components:
// round(sum(|index|)) - 1 yields 0 for (100)-type, 1 for (110)-type and
// 2 for (111)-type directions.
func Classify(e [3]float64) (index [3]float64, family Family, err error) {
	minNonZero := math.Inf(1)
	for _, v := range e {
		if a := math.Abs(v); a != 0 && a < minNonZero {
			minNonZero = a
		}
	}
	if math.IsInf(minNonZero, 1) {
		return index, 0, ErrDegenerateDirection
	}

	sum := 0.0
	for d := 0; d < 3; d++ {
		index[d] = e[d] / minNonZero
		sum += math.Abs(index[d])
	}

	label := int(math.Round(sum)) - 1
	if label < 0 || label > 2 {
		return index, 0, fmt.Errorf("%w: index sum %v outside the 100/110/111 families", ErrDegenerateDirection, sum)
	}

	return index, Family(label), nil
}
