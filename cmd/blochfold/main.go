package main

import (
	"errors"
	"flag"
	"io/fs"
	"log"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"blochfold/pkg/config"
	"blochfold/pkg/cubeio"
	"blochfold/pkg/kpath"
	"blochfold/pkg/lattice"
	"blochfold/pkg/unfold"
)

func main() {
	configPath := flag.String("config", "blochfold.yaml", "Path to the YAML configuration file")
	writeConfig := flag.Bool("write-config", false, "Write the default configuration to the config path and exit")
	cores := flag.Int("cores", 0, "Number of CPU cores to use (0: scheduler allocation or all available)")
	flag.Parse()

	if *writeConfig {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			log.Fatalf("Failed to write default config: %v", err)
		}
		log.Printf("Default configuration written to %s", *configPath)
		return
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	if *cores > 0 {
		cfg.Processing.NumCores = *cores
	}

	logger := newLogger(cfg.Output.Verbose)
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatalw("analysis failed", "error", err)
	}
}

func newLogger(verbose bool) *zap.SugaredLogger {
	var l *zap.Logger
	var err error
	if verbose {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	return l.Sugar()
}

func run(cfg *config.Config, logger *zap.SugaredLogger) error {
	start := time.Now()

	tables := lattice.Tables()
	points := make([][3]float64, len(cfg.Path))
	names := make([]string, len(cfg.Path))
	for i, p := range cfg.Path {
		points[i] = p.K
		names[i] = p.Name
	}

	path, err := kpath.NewPath(points, &tables, cfg.Crystal.DkSet)
	if err != nil {
		return err
	}
	kappa, ticks := path.AssembleCoords()
	logger.Infow("k-path built",
		"segments", len(path.Segments),
		"samples", path.SampleCount(),
		"points", names)

	if err := cubeio.WritePath(cfg.Output.PathFile, names, ticks, kappa); err != nil {
		return err
	}
	logger.Infow("k-path written", "file", cfg.Output.PathFile)

	engine := unfold.NewEngine(cfg.Crystal.KUnit, cfg.Processing.NumCores, logger)

	var states []int
	var folded [][]float64
	for i := 0; i < cfg.Input.StateCount; i++ {
		state := cfg.Input.FirstState + i
		file := cfg.StateFile(state)
		logger.Infow("state started", "state", state, "file", file)

		field, atoms, err := cubeio.ReadCube(file)
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warnw("state skipped, file missing", "state", state, "file", file)
			continue
		}
		if err != nil {
			return err
		}

		if cfg.Input.Clip {
			field = field.Clip(atoms, cfg.Input.Frame)
			logger.Infow("field clipped",
				"state", state,
				"shape", []int{field.N0, field.N1, field.N2},
				"frame", cfg.Input.Frame)
		}

		// The cutoff depends on the grid spacing, so it is recomputed for
		// every state.
		summary := kpath.Summarize(path.Segments, cfg.Crystal.LatticeParam/field.Spacing)
		bandLimit := unfold.EstimateBandLimit(field, 0.01)
		logger.Infow("state spectrum",
			"state", state,
			"nyquistLimit", summary.NyquistLimit,
			"bandLimit", bandLimit)
		if bandLimit > summary.NyquistLimit {
			logger.Warnw("image cutoff below the field band limit, folded weights will miss content",
				"state", state,
				"nyquistLimit", summary.NyquistLimit,
				"bandLimit", bandLimit)
		}

		if err := engine.Unfold(field, path, summary); err != nil {
			return err
		}

		weights := path.AssembleWeights()
		logger.Infow("state analyzed",
			"state", state,
			"meanWeight", stat.Mean(weights, nil),
			"stdWeight", stat.StdDev(weights, nil))

		states = append(states, state)
		folded = append(folded, weights)
	}

	if len(states) == 0 {
		return errors.New("no states processed")
	}

	if err := cubeio.WriteFoldedStates(cfg.Output.FoldedFile, kappa, states, folded); err != nil {
		return err
	}
	logger.Infow("folded states written",
		"file", cfg.Output.FoldedFile,
		"states", len(states),
		"elapsed", time.Since(start))
	return nil
}
