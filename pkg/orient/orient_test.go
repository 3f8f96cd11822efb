package orient

import (
	"errors"
	"math"
	"testing"

	"blochfold/internal/models"
	"blochfold/pkg/kpath"
	"blochfold/pkg/lattice"
)

func buildSegment(t *testing.T, k1, k2 [3]float64) *kpath.Segment {
	t.Helper()
	tables := lattice.Tables()
	seg, err := kpath.NewSegment(k1, k2, &tables, 0.1)
	if err != nil {
		t.Fatalf("failed to build segment %v -> %v: %v", k1, k2, err)
	}
	return seg
}

// TestRotateVolume90 checks the rotation convention on a quarter turn: the
// plane dimensions swap and a marked sample moves to the rotated position.
func TestRotateVolume90(t *testing.T) {
	f := models.NewField(3, 3, 1, 1.0)
	f.Set(0, 1, 0, 1.0)

	out := rotateVolume(f, math.Pi/2, 0, 1)

	if out.N0 != 3 || out.N1 != 3 || out.N2 != 1 {
		t.Fatalf("expected 3x3x1 output, got %dx%dx%d", out.N0, out.N1, out.N2)
	}

	// The marked sample sits at (-1, 0) relative to center; a quarter turn
	// moves it to (0, -1), i.e. grid index (1, 0).
	if math.Abs(out.At(1, 0, 0)-1.0) > 1e-9 {
		t.Errorf("expected rotated sample at (1,0), got %v", out.At(1, 0, 0))
	}

	total := 0.0
	for _, v := range out.Data {
		total += v
	}
	if math.Abs(total-1.0) > 1e-9 {
		t.Errorf("expected rotation to preserve the sample mass, got %v", total)
	}
}

// TestRotateVolumeGrowth verifies output-shape growth for a diagonal angle.
func TestRotateVolumeGrowth(t *testing.T) {
	f := models.NewField(4, 4, 2, 1.0)
	out := rotateVolume(f, math.Pi/4, 0, 1)

	// 4*cos45 + 4*sin45 = 5.66, rounded to 6
	if out.N0 != 6 || out.N1 != 6 {
		t.Errorf("expected 6x6 rotated plane, got %dx%d", out.N0, out.N1)
	}
	if out.N2 != 2 {
		t.Errorf("expected untouched third axis of length 2, got %d", out.N2)
	}
}

// TestReorient100Permutation checks the axis re-assignment for axis-aligned
// segments: no resampling, axis 0 becomes the parallel axis.
func TestReorient100Permutation(t *testing.T) {
	f := models.NewField(4, 6, 8, 1.0)

	cases := []struct {
		k2   [3]float64
		axis [3]int
	}{
		{[3]float64{1, 0, 0}, [3]int{0, 1, 2}},
		{[3]float64{0, 1, 0}, [3]int{1, 0, 2}},
		{[3]float64{0, 0, 1}, [3]int{2, 1, 0}},
	}

	for _, tc := range cases {
		seg := buildSegment(t, [3]float64{0, 0, 0}, tc.k2)
		o, err := Reorient(f, seg)
		if err != nil {
			t.Fatalf("direction %v: %v", tc.k2, err)
		}
		if o.Axis != tc.axis {
			t.Errorf("direction %v: expected axis assignment %v, got %v", tc.k2, tc.axis, o.Axis)
		}
		if o.Psi != f {
			t.Errorf("direction %v: (100) reorientation must not resample the field", tc.k2)
		}
		if len(o.RPar) != f.Dim(tc.axis[0]) {
			t.Errorf("direction %v: parallel ramp length %d does not match axis length %d",
				tc.k2, len(o.RPar), f.Dim(tc.axis[0]))
		}
		if len(o.RPerp0) != f.Dim(tc.axis[1]) || len(o.RPerp1) != f.Dim(tc.axis[2]) {
			t.Errorf("direction %v: perpendicular ramp lengths %d/%d do not match axes",
				tc.k2, len(o.RPerp0), len(o.RPerp1))
		}
	}
}

// TestReorientNegativeSign checks that the parallel ramp carries the
// direction sign.
func TestReorientNegativeSign(t *testing.T) {
	f := models.NewField(4, 4, 4, 1.0)
	seg := buildSegment(t, [3]float64{1, 0, 0}, [3]float64{0, 0, 0})

	o, err := Reorient(f, seg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, v := range o.RPar {
		if v != -float64(i) {
			t.Fatalf("expected negated ramp at %d, got %v", i, v)
		}
	}
}

// TestReorient110Growth verifies the single-rotation branch for an in-plane
// diagonal: the rotated grid grows and the ramps follow the new shape.
func TestReorient110Growth(t *testing.T) {
	f := models.NewField(8, 8, 8, 1.0)
	seg := buildSegment(t, [3]float64{0, 0, 0}, [3]float64{0.5, 0.5, 0})

	o, err := Reorient(f, seg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Axis != [3]int{0, 1, 2} {
		t.Errorf("expected identity axis assignment, got %v", o.Axis)
	}
	// 8*cos45 + 8*sin45 = 11.3, rounded to 11
	if o.Psi.N0 != 11 || o.Psi.N1 != 11 || o.Psi.N2 != 8 {
		t.Errorf("expected 11x11x8 rotated grid, got %dx%dx%d", o.Psi.N0, o.Psi.N1, o.Psi.N2)
	}
	if len(o.RPar) != 11 || len(o.RPerp0) != 11 || len(o.RPerp1) != 8 {
		t.Errorf("ramps %d/%d/%d do not match the rotated shape",
			len(o.RPar), len(o.RPerp0), len(o.RPerp1))
	}
}

// TestReorient110AlignsDiagonal checks that a ridge along the (110) diagonal
// ends up concentrated along axis 0 after reorientation.
func TestReorient110AlignsDiagonal(t *testing.T) {
	n := 16
	f := models.NewField(n, n, 1, 1.0)
	for i := 0; i < n; i++ {
		f.Set(i, i, 0, 1.0)
	}

	seg := buildSegment(t, [3]float64{0, 0, 0}, [3]float64{0.5, 0.5, 0})
	o, err := Reorient(f, seg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Sum the rotated field along axis 0 per axis-1 index: the diagonal mass
	// should pile up around the central column.
	mid := o.Psi.N1 / 2
	var central, offCenter float64
	for j := 0; j < o.Psi.N1; j++ {
		col := 0.0
		for i := 0; i < o.Psi.N0; i++ {
			col += o.Psi.At(i, j, 0)
		}
		if j >= mid-1 && j <= mid+1 {
			central += col
		} else {
			offCenter += col
		}
	}
	if central < 10*offCenter {
		t.Errorf("expected the diagonal ridge concentrated near column %d: central %v, off-center %v",
			mid, central, offCenter)
	}
}

// TestReorient110Unhandled verifies that a malformed (110) direction is
// rejected instead of silently returning the unrotated field.
func TestReorient110Unhandled(t *testing.T) {
	f := models.NewField(4, 4, 4, 1.0)
	seg := &kpath.Segment{
		Family:       lattice.Family110,
		Direction:    [3]float64{0.6, 0.64, 0.48},
		ParallelSign: 1,
	}

	_, err := Reorient(f, seg)
	if !errors.Is(err, ErrUnhandledOrientation) {
		t.Errorf("expected ErrUnhandledOrientation, got %v", err)
	}
}

// TestReorient111Shape checks the double rotation for a body diagonal.
func TestReorient111Shape(t *testing.T) {
	f := models.NewField(8, 8, 8, 1.0)
	seg := buildSegment(t, [3]float64{0, 0, 0}, [3]float64{0.5, 0.5, 0.5})

	o, err := Reorient(f, seg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// First rotation (45 degrees in the 0-1 plane) grows both plane axes to
	// 11; the second (35.26 degrees in the 0-2 plane) grows axis 0 further.
	if o.Psi.N1 != 11 || o.Psi.N2 <= 8 || o.Psi.N0 <= 11 {
		t.Errorf("unexpected rotated shape %dx%dx%d", o.Psi.N0, o.Psi.N1, o.Psi.N2)
	}
	if len(o.RPar) != o.Psi.N0 || len(o.RPerp0) != o.Psi.N1 || len(o.RPerp1) != o.Psi.N2 {
		t.Errorf("ramps do not match the rotated shape")
	}
}
