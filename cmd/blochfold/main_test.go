package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"blochfold/pkg/config"
)

// writeCubeState writes a cube file whose data varies along axis 0 as a
// single harmonic of the given frequency (cycles per grid length).
func writeCubeState(t *testing.T, path string, n0 int, spacing float64, freq int) {
	t.Helper()
	var b strings.Builder
	fmt.Fprintf(&b, "synthetic state\nharmonic %d\n", freq)
	fmt.Fprintf(&b, "1 0.0 0.0 0.0\n")
	fmt.Fprintf(&b, "%d %f 0.0 0.0\n", n0, spacing)
	fmt.Fprintf(&b, "2 0.0 %f 0.0\n", spacing)
	fmt.Fprintf(&b, "2 0.0 0.0 %f\n", spacing)
	fmt.Fprintf(&b, "14 4.0 1.0 0.5 0.5\n")
	for i := 0; i < n0; i++ {
		v := math.Cos(2 * math.Pi * float64(freq) * float64(i) / float64(n0))
		for s := 0; s < 4; s++ {
			fmt.Fprintf(&b, "%e\n", v)
		}
	}
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		t.Fatalf("writing cube fixture: %v", err)
	}
}

func runConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Crystal.LatticeParam = 4.0
	cfg.Crystal.DkSet = 0.5
	cfg.Input.Project = filepath.Join(dir, "t")
	cfg.Input.StateTag = "s"
	cfg.Input.WFNTag = ""
	cfg.Input.Addition = ""
	cfg.Input.Extension = "cube"
	cfg.Input.FirstState = 1
	cfg.Input.StateCount = 1
	cfg.Processing.NumCores = 1
	cfg.Output.PathFile = filepath.Join(dir, "kpath.yaml")
	cfg.Output.FoldedFile = filepath.Join(dir, "folded.dat")
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config: %v", err)
	}
	return cfg
}

// TestRunWarnsUnderResolved processes a state whose spectral content exceeds
// the image cutoff the grid supports; the run must finish but warn.
func TestRunWarnsUnderResolved(t *testing.T) {
	cfg := runConfig(t)
	// Spacing a/8 gives cutoff 1; the harmonic sits at bin 5.
	writeCubeState(t, cfg.StateFile(1), 16, cfg.Crystal.LatticeParam/8, 5)

	core, logs := observer.New(zapcore.InfoLevel)
	if err := run(cfg, zap.New(core).Sugar()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if logs.FilterMessage("image cutoff below the field band limit, folded weights will miss content").Len() != 1 {
		t.Errorf("expected one band-limit warning, got entries: %v", logs.All())
	}

	raw, err := os.ReadFile(cfg.Output.FoldedFile)
	if err != nil {
		t.Fatalf("reading folded output: %v", err)
	}
	if !strings.Contains(string(raw), "state_1") {
		t.Errorf("folded output missing the state column:\n%s", raw)
	}
	if _, err := os.Stat(cfg.Output.PathFile); err != nil {
		t.Errorf("expected the k-path file to be written: %v", err)
	}
}

// TestRunSkipsMissingState verifies the partial-failure semantics: a missing
// state file is skipped, and a run with no surviving state is an error.
func TestRunSkipsMissingState(t *testing.T) {
	cfg := runConfig(t)
	cfg.Input.StateCount = 2
	writeCubeState(t, cfg.StateFile(2), 16, cfg.Crystal.LatticeParam/16, 1)

	core, logs := observer.New(zapcore.InfoLevel)
	if err := run(cfg, zap.New(core).Sugar()); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if logs.FilterMessage("state skipped, file missing").Len() != 1 {
		t.Errorf("expected one skip entry, got: %v", logs.All())
	}

	raw, err := os.ReadFile(cfg.Output.FoldedFile)
	if err != nil {
		t.Fatalf("reading folded output: %v", err)
	}
	if !strings.Contains(string(raw), "state_2") || strings.Contains(string(raw), "state_1") {
		t.Errorf("expected only state 2 in the output:\n%s", raw)
	}

	empty := runConfig(t)
	if err := run(empty, zap.NewNop().Sugar()); err == nil {
		t.Error("expected an error when no state file exists")
	}
}
