package kpath

import (
	"math"
	"testing"

	"blochfold/pkg/lattice"
)

// squarePath is a closed loop visiting segments of all three families:
// Gamma -> M (110), M -> R (100), R -> Gamma (111).
func squarePath(t *testing.T) *Path {
	t.Helper()
	tables := lattice.Tables()
	points := [][3]float64{
		{0, 0, 0},
		{0.5, 0.5, 0},
		{0.5, 0.5, 0.5},
		{0, 0, 0},
	}
	p, err := NewPath(points, &tables, 0.1)
	if err != nil {
		t.Fatalf("failed to build path: %v", err)
	}
	return p
}

// TestSummarize checks the family grouping and the Nyquist cutoff formula.
func TestSummarize(t *testing.T) {
	p := squarePath(t)
	sum := Summarize(p.Segments, 16)

	if sum.CountByFamily != [3]int{1, 1, 1} {
		t.Errorf("expected one segment per family, got %v", sum.CountByFamily)
	}
	if got := sum.SegmentsOf(lattice.Family110); len(got) != 1 || got[0] != 0 {
		t.Errorf("expected (110) segment at position 0, got %v", got)
	}
	if got := sum.SegmentsOf(lattice.Family100); len(got) != 1 || got[0] != 1 {
		t.Errorf("expected (100) segment at position 1, got %v", got)
	}
	if got := sum.SegmentsOf(lattice.Family111); len(got) != 1 || got[0] != 2 {
		t.Errorf("expected (111) segment at position 2, got %v", got)
	}

	// floor(0.5*(16/sqrt(3) - 2)) = 3
	if sum.NyquistLimit != 3 {
		t.Errorf("expected Nyquist limit 3, got %d", sum.NyquistLimit)
	}

	// A coarse grid must give a smaller cutoff.
	if got := Summarize(p.Segments, 8).NyquistLimit; got != 1 {
		t.Errorf("expected Nyquist limit 1 for ratio 8, got %d", got)
	}
}

// TestAssembleCoords verifies assembly continuity: the concatenated kappa
// sequence is strictly increasing across segment boundaries and the ticks
// mark the segment joins.
func TestAssembleCoords(t *testing.T) {
	p := squarePath(t)
	kappa, ticks := p.AssembleCoords()

	if len(kappa) != p.SampleCount() {
		t.Fatalf("expected %d assembled samples, got %d", p.SampleCount(), len(kappa))
	}
	if kappa[0] != 0 {
		t.Errorf("expected assembled path to start at 0, got %v", kappa[0])
	}
	for i := 1; i < len(kappa); i++ {
		if kappa[i] <= kappa[i-1] {
			t.Fatalf("kappa not strictly increasing at %d: %v -> %v", i, kappa[i-1], kappa[i])
		}
	}

	if len(ticks) != len(p.Segments)+1 {
		t.Fatalf("expected %d ticks, got %d", len(p.Segments)+1, len(ticks))
	}
	if ticks[0] != 0 {
		t.Errorf("expected first tick at 0, got %v", ticks[0])
	}
	if math.Abs(ticks[len(ticks)-1]-kappa[len(kappa)-1]) > 1e-12 {
		t.Errorf("closing tick %v does not match final kappa %v",
			ticks[len(ticks)-1], kappa[len(kappa)-1])
	}

	// Each tick is the length of the path up to that join.
	length := 0.0
	for s, seg := range p.Segments {
		length += seg.ParallelRange[1] - seg.ParallelRange[0]
		if math.Abs(ticks[s+1]-length) > 1e-9 {
			t.Errorf("tick %d: expected %v, got %v", s+1, length, ticks[s+1])
		}
	}
}

// TestAssembleWeights verifies the concatenation and closing point of the
// folded weights.
func TestAssembleWeights(t *testing.T) {
	p := squarePath(t)
	v := 1.0
	for _, seg := range p.Segments {
		for i := range seg.FoldedWeight {
			seg.FoldedWeight[i] = v
			v++
		}
	}

	weights := p.AssembleWeights()
	if len(weights) != p.SampleCount() {
		t.Fatalf("expected %d assembled weights, got %d", p.SampleCount(), len(weights))
	}
	if weights[0] != 1 {
		t.Errorf("expected first weight 1, got %v", weights[0])
	}
	if weights[len(weights)-1] != weights[0] {
		t.Errorf("expected closing weight to repeat the first, got %v", weights[len(weights)-1])
	}

	i := 0
	for _, seg := range p.Segments {
		for _, w := range seg.FoldedWeight {
			if weights[i] != w {
				t.Fatalf("weight %d: expected %v, got %v", i, w, weights[i])
			}
			i++
		}
	}
}
