package kpath

import (
	"fmt"

	"blochfold/pkg/lattice"
)

// Path is an ordered list of segments built from consecutive pairs of
// high-symmetry points. The segments are built once per path definition and
// reused across every input field.
type Path struct {
	Segments []*Segment
}

// NewPath builds the path through the given reciprocal-space points. Any
// degenerate leg fails the whole path before a field is processed.
func NewPath(points [][3]float64, tables *[3]lattice.Table, dkSet float64) (*Path, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("kpath: a path needs at least 2 points, got %d", len(points))
	}

	segments := make([]*Segment, 0, len(points)-1)
	for i := 0; i < len(points)-1; i++ {
		seg, err := NewSegment(points[i], points[i+1], tables, dkSet)
		if err != nil {
			return nil, fmt.Errorf("kpath: leg %d: %w", i, err)
		}
		segments = append(segments, seg)
	}

	return &Path{Segments: segments}, nil
}

// SampleCount returns the length of the assembled output sequences: the sum
// of the per-segment sample counts plus the closing point.
func (p *Path) SampleCount() int {
	n := 1
	for _, seg := range p.Segments {
		n += seg.SampleCount
	}
	return n
}

// AssembleCoords concatenates the per-segment parallel coordinates into one
// continuous, strictly increasing sequence. Each segment is shifted so its
// first sample lands where the previous segment ended; the tick positions
// mark the high-symmetry points, including the closing tick of the path.
func (p *Path) AssembleCoords() (kappa, ticks []float64) {
	kappa = make([]float64, 0, p.SampleCount())
	ticks = make([]float64, len(p.Segments)+1)

	end := 0.0
	for s, seg := range p.Segments {
		shift := seg.ParallelSamples[0] - end
		for _, v := range seg.ParallelSamples {
			kappa = append(kappa, v-shift)
		}
		end = kappa[len(kappa)-1] + seg.SampleSpacing
		ticks[s+1] = end
	}

	// Closing point of the path
	kappa = append(kappa, end)
	return kappa, ticks
}

// AssembleWeights concatenates the folded weights of all segments and closes
// the loop by repeating the very first value, so a periodic path (ending back
// at its start) plots seamlessly.
func (p *Path) AssembleWeights() []float64 {
	weights := make([]float64, 0, p.SampleCount())
	for _, seg := range p.Segments {
		weights = append(weights, seg.FoldedWeight...)
	}
	weights = append(weights, weights[0])
	return weights
}
