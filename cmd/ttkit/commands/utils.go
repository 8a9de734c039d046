package commands

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ttkit-ml/ttkit/tensor"
)

// loadCSVMatrix reads a dense matrix from a CSV file. Every row must have
// the same number of fields and every field must parse as a float.
func loadCSVMatrix(path string) (*tensor.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: empty matrix", path)
	}

	rows := len(records)
	cols := len(records[0])
	data := make([]float64, 0, rows*cols)
	for i, record := range records {
		if len(record) != cols {
			return nil, fmt.Errorf("%s: row %d has %d fields, expected %d", path, i, len(record), cols)
		}
		for j, field := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("%s: row %d col %d: %w", path, i, j, err)
			}
			data = append(data, v)
		}
	}
	return tensor.FromSlice(data, tensor.Shape{rows, cols})
}

// parseFactors parses a comma-separated list of positive integers,
// e.g. "4,7,4,7".
func parseFactors(s string) ([]int, error) {
	if s == "" {
		return nil, fmt.Errorf("empty factor list")
	}
	parts := strings.Split(s, ",")
	factors := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid factor %q: %w", p, err)
		}
		if v < 1 {
			return nil, fmt.Errorf("invalid factor %d: must be positive", v)
		}
		factors = append(factors, v)
	}
	return factors, nil
}

func formatRanks(ranks []int) string {
	parts := make([]string, len(ranks))
	for i, r := range ranks {
		parts[i] = strconv.Itoa(r)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
