package unfold

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"blochfold/internal/models"
	"blochfold/pkg/kpath"
	"blochfold/pkg/lattice"
	"blochfold/pkg/orient"
)

// ErrGridTooCoarse is returned when the real-space grid resolves too few
// points per lattice constant to enumerate any lattice-image shell. The
// cutoff formula goes negative below a ratio of about 2*sqrt(3), which would
// otherwise surface as negative image-window lengths deep inside a worker.
var ErrGridTooCoarse = errors.New("unfold: real-space grid too coarse to enumerate lattice images")

// Engine projects a real-space field onto the Bloch plane waves of a k-path
// and folds the resulting weights over the reciprocal-lattice images of each
// segment's bundles.
type Engine struct {
	kUnit float64
	cores int
	log   *zap.SugaredLogger
}

// NewEngine creates an engine. kUnit converts path coordinates to wavenumber
// in units of the grid spacing. cores limits the worker count; zero or
// negative selects the available core count.
func NewEngine(kUnit float64, cores int, log *zap.SugaredLogger) *Engine {
	if cores <= 0 {
		cores = availableCores()
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Engine{kUnit: kUnit, cores: cores, log: log}
}

// availableCores honors the scheduler's CPU allocation when running under
// SLURM, falling back to the machine's core count.
func availableCores() int {
	if s := os.Getenv("SLURM_CPUS_PER_TASK"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return runtime.NumCPU()
}

// workItem identifies one bundle of one segment: the bundle origin index b
// and, for the (110) and (111) families, the in-plane cell indices.
type workItem struct {
	b, w, l int
}

// workItems enumerates the bundles of a segment within the Nyquist limit.
func workItems(seg *kpath.Segment, nyq int) []workItem {
	var items []workItem
	switch seg.Family {
	case lattice.Family100:
		for b := 0; b < seg.BundleCount; b++ {
			items = append(items, workItem{b: b})
		}
	case lattice.Family110:
		for b := 0; b < seg.BundleCount; b++ {
			for l := 0; l <= 2*nyq-b; l++ {
				items = append(items, workItem{b: b, l: l})
			}
		}
	case lattice.Family111:
		for b := 0; b < seg.BundleCount; b++ {
			for w := 0; w <= 2*nyq-b; w++ {
				for l := 0; l <= w; l++ {
					items = append(items, workItem{b: b, w: w, l: l})
				}
			}
		}
	}
	return items
}

// Unfold computes the folded spectral weight of the field along every
// segment of the path, grouping segments by family so all axis-aligned
// segments run before any resampling is needed. Each segment's weights are
// accumulated into its FoldedWeight slice.
func (e *Engine) Unfold(field *models.Field, path *kpath.Path, sum *kpath.Summary) error {
	nyq := sum.NyquistLimit
	if nyq < 1 {
		return fmt.Errorf("%w: nyquist limit %d", ErrGridTooCoarse, nyq)
	}

	phase := e.kUnit * field.Spacing
	for _, fam := range []lattice.Family{lattice.Family100, lattice.Family110, lattice.Family111} {
		for _, pos := range sum.SegmentsOf(fam) {
			seg := path.Segments[pos]
			seg.ResetWeight()
			o, err := orient.Reorient(field, seg)
			if err != nil {
				return err
			}
			e.processSegment(seg, o, phase, nyq)
		}
	}
	return nil
}

// processSegment folds one segment's bundles across a pool of workers. Each
// worker accumulates into its own partial weight slice; the partials are
// summed here, never in the workers, so no accumulator is shared.
func (e *Engine) processSegment(seg *kpath.Segment, o *orient.Oriented, phase float64, nyq int) {
	items := workItems(seg, nyq)
	start := time.Now()

	if len(items) == 1 {
		e.runChunk(items, seg, o, phase, nyq, seg.FoldedWeight)
		e.log.Infow("segment folded",
			"family", seg.Family.String(),
			"bundles", len(items),
			"workers", 1,
			"elapsed", time.Since(start))
		return
	}

	workers := e.cores
	if workers > len(items) {
		workers = len(items)
	}
	chunkSize := len(items) / workers
	if chunkSize < 1 {
		chunkSize = 1
	}

	results := make(chan []float64, workers)
	launched := 0
	for lo := 0; lo < len(items); lo += chunkSize {
		hi := lo + chunkSize
		if launched == workers-1 || hi > len(items) {
			hi = len(items)
		}
		launched++
		go func(chunk []workItem) {
			partial := make([]float64, seg.SampleCount)
			e.runChunk(chunk, seg, o, phase, nyq, partial)
			results <- partial
		}(items[lo:hi])
		if hi == len(items) {
			break
		}
	}

	for i := 0; i < launched; i++ {
		floats.Add(seg.FoldedWeight, <-results)
	}

	e.log.Infow("segment folded",
		"family", seg.Family.String(),
		"bundles", len(items),
		"workers", launched,
		"elapsed", time.Since(start))
}

// runChunk folds a contiguous run of bundles into out.
func (e *Engine) runChunk(chunk []workItem, seg *kpath.Segment, o *orient.Oriented, phase float64, nyq int, out []float64) {
	for _, it := range chunk {
		switch seg.Family {
		case lattice.Family100:
			bun := newBundle100(it.b, seg, nyq)
			projectGrid(bun, o, phase, out)
		case lattice.Family110:
			cells := combinations110(seg, it.l, it.b, nyq)
			bun := newBundle110(cells, it.l, it.b, seg, nyq)
			projectList(bun, o, phase, out)
		case lattice.Family111:
			cells := combinations111(it.w, it.l, it.b, seg)
			bun := newBundle111(cells, it.w, it.l, it.b, seg, nyq)
			projectList(bun, o, phase, out)
		}
	}
}
