// Package cubeio reads Gaussian cube files and writes the analysis outputs:
// the assembled k-path as YAML and the folded spectral weights as columnar
// text.
package cubeio

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"blochfold/internal/models"
)

// ReadCube parses a cube file: two comment lines, the atom count and grid
// origin, three axis lines (sample count plus step vector), the atom records
// and the volumetric data in axis-0-outer, axis-2-inner order. The grid
// spacing is taken from the first component of the first axis vector.
//
// A missing file surfaces as an error wrapping fs.ErrNotExist so callers can
// skip the state and continue; anything malformed beyond that is a hard
// error.
func ReadCube(path string) (*models.Field, []models.Atom, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("cubeio: open %s: %w", path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	for i := 0; i < 2; i++ {
		if _, err := r.ReadString('\n'); err != nil {
			return nil, nil, fmt.Errorf("cubeio: %s: reading comment lines: %w", path, err)
		}
	}

	nAtoms, _, err := headerLine(r)
	if err != nil {
		return nil, nil, fmt.Errorf("cubeio: %s: origin line: %w", path, err)
	}
	if nAtoms < 0 {
		return nil, nil, fmt.Errorf("cubeio: %s: negative atom count %d not supported", path, nAtoms)
	}

	var dims [3]int
	var spacing float64
	for d := 0; d < 3; d++ {
		n, vec, err := headerLine(r)
		if err != nil {
			return nil, nil, fmt.Errorf("cubeio: %s: axis line %d: %w", path, d, err)
		}
		if n <= 0 {
			return nil, nil, fmt.Errorf("cubeio: %s: axis %d has %d samples", path, d, n)
		}
		dims[d] = n
		if d == 0 {
			spacing = vec[0]
		}
	}

	atoms := make([]models.Atom, nAtoms)
	for i := range atoms {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, nil, fmt.Errorf("cubeio: %s: atom record %d: %w", path, i, err)
		}
		fields := strings.Fields(line)
		if len(fields) < 5 {
			return nil, nil, fmt.Errorf("cubeio: %s: atom record %d has %d fields", path, i, len(fields))
		}
		z, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, nil, fmt.Errorf("cubeio: %s: atom record %d: %w", path, i, err)
		}
		atoms[i].Z = z
		if atoms[i].Charge, err = strconv.ParseFloat(fields[1], 64); err != nil {
			return nil, nil, fmt.Errorf("cubeio: %s: atom record %d: %w", path, i, err)
		}
		for d := 0; d < 3; d++ {
			if atoms[i].Position[d], err = strconv.ParseFloat(fields[2+d], 64); err != nil {
				return nil, nil, fmt.Errorf("cubeio: %s: atom record %d: %w", path, i, err)
			}
		}
	}

	field := models.NewField(dims[0], dims[1], dims[2], spacing)
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	for i := range field.Data {
		if !sc.Scan() {
			return nil, nil, fmt.Errorf("cubeio: %s: truncated data: got %d of %d values", path, i, len(field.Data))
		}
		v, err := strconv.ParseFloat(sc.Text(), 64)
		if err != nil {
			return nil, nil, fmt.Errorf("cubeio: %s: data value %d: %w", path, i, err)
		}
		field.Data[i] = v
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("cubeio: %s: reading data: %w", path, err)
	}

	return field, atoms, nil
}

// headerLine reads a cube header line: one integer followed by three floats.
func headerLine(r *bufio.Reader) (int, [3]float64, error) {
	var vec [3]float64
	line, err := r.ReadString('\n')
	if err != nil {
		return 0, vec, err
	}
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return 0, vec, fmt.Errorf("expected 4 fields, got %d", len(fields))
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, vec, err
	}
	for d := 0; d < 3; d++ {
		if vec[d], err = strconv.ParseFloat(fields[1+d], 64); err != nil {
			return 0, vec, err
		}
	}
	return n, vec, nil
}

// pathFile is the YAML layout of the persisted k-path.
type pathFile struct {
	// Names are the high-symmetry point labels, one per tick
	Names []string `yaml:"names"`

	// Ticks are the cumulative parallel coordinates of the high-symmetry
	// points
	Ticks []float64 `yaml:"ticks"`

	// Kappa is the full assembled parallel coordinate sequence
	Kappa []float64 `yaml:"kappa"`
}

// WritePath persists the assembled k-path so plots can be produced without
// re-running the analysis.
func WritePath(path string, names []string, ticks, kappa []float64) error {
	data, err := yaml.Marshal(&pathFile{Names: names, Ticks: ticks, Kappa: kappa})
	if err != nil {
		return fmt.Errorf("cubeio: marshaling k-path: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("cubeio: writing k-path: %w", err)
	}
	return nil
}

// WriteFoldedStates writes the folded weights of the processed states as
// columnar text: the parallel coordinate followed by one column per state.
// The states slice labels the columns.
func WriteFoldedStates(path string, kappa []float64, states []int, weights [][]float64) error {
	if len(states) != len(weights) {
		return fmt.Errorf("cubeio: %d state labels for %d weight columns", len(states), len(weights))
	}
	for s, w := range weights {
		if len(w) != len(kappa) {
			return fmt.Errorf("cubeio: state %d has %d weights for %d samples", states[s], len(w), len(kappa))
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cubeio: creating %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "# kappa")
	for _, s := range states {
		fmt.Fprintf(w, " state_%d", s)
	}
	fmt.Fprintln(w)

	for i, k := range kappa {
		fmt.Fprintf(w, "%.8e", k)
		for _, col := range weights {
			fmt.Fprintf(w, " %.8e", col[i])
		}
		fmt.Fprintln(w)
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("cubeio: writing %s: %w", path, err)
	}
	return nil
}
