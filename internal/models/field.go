package models

import (
	"fmt"
	"math"
)

// Field represents a real-space scalar field (e.g. a wavefunction amplitude)
// sampled on a regular 3D grid. The data is stored as a 1D array in row-major
// order with axis 0 outermost, matching the layout of cube-format files.
type Field struct {
	// Data is the grid data as a 1D array: Data[(i*N1+j)*N2+k]
	Data []float64

	// N0, N1, N2 are the grid dimensions along the three axes in samples
	N0, N1, N2 int

	// Spacing is the physical grid spacing along one axis in the same units
	// as atomic positions. The grid is assumed isotropic.
	Spacing float64
}

// Atom holds one atomic record from an electronic-structure input file.
type Atom struct {
	// Z is the atomic number
	Z int

	// Charge is the nuclear charge field of the record
	Charge float64

	// Position is the physical position of the atom
	Position [3]float64
}

// NewField allocates a zeroed field with the given dimensions and spacing.
func NewField(n0, n1, n2 int, spacing float64) *Field {
	return &Field{
		Data:    make([]float64, n0*n1*n2),
		N0:      n0,
		N1:      n1,
		N2:      n2,
		Spacing: spacing,
	}
}

// At returns the sample at grid index (i, j, k).
func (f *Field) At(i, j, k int) float64 {
	return f.Data[(i*f.N1+j)*f.N2+k]
}

// Set assigns the sample at grid index (i, j, k).
func (f *Field) Set(i, j, k int, v float64) {
	f.Data[(i*f.N1+j)*f.N2+k] = v
}

// Dim returns the grid dimension along the given axis (0, 1 or 2).
func (f *Field) Dim(axis int) int {
	switch axis {
	case 0:
		return f.N0
	case 1:
		return f.N1
	case 2:
		return f.N2
	}
	panic(fmt.Sprintf("models: invalid axis %d", axis))
}

// Clip crops the field to the bounding box of the given atoms, padded by
// frame (in physical units) on every side. Index bounds are computed by
// flooring/ceiling the physical distances and clamped to the grid, so a frame
// larger than the vacuum region degenerates to the full field.
func (f *Field) Clip(atoms []Atom, frame float64) *Field {
	if len(atoms) == 0 {
		return f
	}

	minPos := atoms[0].Position
	maxPos := atoms[0].Position
	for _, a := range atoms[1:] {
		for d := 0; d < 3; d++ {
			if a.Position[d] < minPos[d] {
				minPos[d] = a.Position[d]
			}
			if a.Position[d] > maxPos[d] {
				maxPos[d] = a.Position[d]
			}
		}
	}

	var lo, hi [3]int
	for d := 0; d < 3; d++ {
		lo[d] = int(math.Floor(minPos[d]/f.Spacing - frame/f.Spacing))
		hi[d] = int(math.Ceil(maxPos[d]/f.Spacing + frame/f.Spacing))
		if lo[d] < 0 {
			lo[d] = 0
		}
		if hi[d] > f.Dim(d) {
			hi[d] = f.Dim(d)
		}
		// Atoms entirely off the grid leave an empty region on that axis.
		if hi[d] < lo[d] {
			hi[d] = lo[d]
		}
	}

	clipped := NewField(hi[0]-lo[0], hi[1]-lo[1], hi[2]-lo[2], f.Spacing)
	for i := 0; i < clipped.N0; i++ {
		for j := 0; j < clipped.N1; j++ {
			for k := 0; k < clipped.N2; k++ {
				clipped.Set(i, j, k, f.At(lo[0]+i, lo[1]+j, lo[2]+k))
			}
		}
	}

	return clipped
}
