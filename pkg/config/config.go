// Package config provides configuration loading and management for blochfold.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// PathPoint is one named high-symmetry point of the k-path.
type PathPoint struct {
	// Name is the conventional label of the point (G, X, L, ...)
	Name string `yaml:"name"`

	// K is the reciprocal-space coordinate in units of 2*pi/a
	K [3]float64 `yaml:"k"`
}

// Config represents the application configuration loaded from YAML
type Config struct {
	// Crystal parameters
	Crystal struct {
		// LatticeParam is the cubic lattice constant in the same length unit
		// as the input grids
		LatticeParam float64 `yaml:"latticeParam"`

		// KUnit converts path coordinates to physical wavenumber. Zero
		// derives 2*pi/latticeParam.
		KUnit float64 `yaml:"kUnit"`

		// DkSet is the target wavenumber sampling step along the path
		DkSet float64 `yaml:"dkSet"`
	} `yaml:"crystal"`

	// Path is the ordered list of high-symmetry points to walk
	Path []PathPoint `yaml:"path"`

	// Input parameters naming the wavefunction state files
	Input struct {
		// Project is the base name shared by all files of a calculation
		Project string `yaml:"project"`

		// StateTag and WFNTag are the fixed name parts before the state number
		StateTag string `yaml:"stateTag"`
		WFNTag   string `yaml:"wfnTag"`

		// Addition is an optional name part after the state number
		Addition string `yaml:"addition"`

		// Extension is the input file extension
		Extension string `yaml:"extension"`

		// FirstState and StateCount select the range of states to process
		FirstState int `yaml:"firstState"`
		StateCount int `yaml:"stateCount"`

		// Clip crops each field to the atom bounding box plus Frame
		Clip bool `yaml:"clip"`

		// Frame is the border width around the atoms, in physical units
		Frame float64 `yaml:"frame"`
	} `yaml:"input"`

	// Processing parameters
	Processing struct {
		// NumCores specifies how many CPU cores to use for parallel
		// processing. Zero selects the scheduler allocation or the machine
		// core count.
		NumCores int `yaml:"numCores"`
	} `yaml:"processing"`

	// Output parameters
	Output struct {
		// PathFile is where the assembled k-path is written
		PathFile string `yaml:"pathFile"`

		// FoldedFile is where the folded weights are written
		FoldedFile string `yaml:"foldedFile"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// StateFile builds the input file name of one state following the
// calculation's naming convention.
func (c *Config) StateFile(state int) string {
	return fmt.Sprintf("%s_%s%s%d%s.%s",
		c.Input.Project, c.Input.StateTag, c.Input.WFNTag, state, c.Input.Addition, c.Input.Extension)
}

// DefaultConfig returns a configuration with default values: a silicon-like
// lattice and the Gamma-X leg of the conventional path.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Crystal.LatticeParam = 10.2631
	cfg.Crystal.KUnit = 0
	cfg.Crystal.DkSet = 0.02

	cfg.Path = []PathPoint{
		{Name: "G", K: [3]float64{0, 0, 0}},
		{Name: "X", K: [3]float64{1, 0, 0}},
	}

	cfg.Input.Project = "project"
	cfg.Input.StateTag = "derived"
	cfg.Input.WFNTag = "-WFN_"
	cfg.Input.Addition = "_1"
	cfg.Input.Extension = "cube"
	cfg.Input.FirstState = 1
	cfg.Input.StateCount = 1
	cfg.Input.Clip = false
	cfg.Input.Frame = 0

	cfg.Processing.NumCores = 0

	cfg.Output.PathFile = "bse_k_path.yaml"
	cfg.Output.FoldedFile = "bse_folded_states.dat"
	cfg.Output.Verbose = true

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded values and derives KUnit when it is left zero.
func (c *Config) Validate() error {
	if c.Crystal.LatticeParam <= 0 {
		return fmt.Errorf("config: lattice parameter must be positive, got %v", c.Crystal.LatticeParam)
	}
	if c.Crystal.DkSet <= 0 {
		return fmt.Errorf("config: dkSet must be positive, got %v", c.Crystal.DkSet)
	}
	if len(c.Path) < 2 {
		return fmt.Errorf("config: path needs at least 2 points, got %d", len(c.Path))
	}
	if c.Input.StateCount < 1 {
		return fmt.Errorf("config: stateCount must be at least 1, got %d", c.Input.StateCount)
	}
	if c.Crystal.KUnit == 0 {
		c.Crystal.KUnit = 2 * math.Pi / c.Crystal.LatticeParam
	}
	return nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
