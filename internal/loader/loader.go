package loader

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/inflamstack/inflamstack/pkg/stats"
)

// Load reads the CSV file at path into a table. Every cell must be numeric
// and every row must have the same number of days; ragged or non-numeric
// input is an error, as is an empty file.
func Load(path string) (stats.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loader: open %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	// FieldsPerRecord defaults to the width of the first row, so the csv
	// reader itself rejects ragged input.
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("loader: parse %q: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("loader: %q contains no data", path)
	}

	table := make(stats.Table, len(records))
	for i, record := range records {
		row := make([]float64, len(record))
		for j, cell := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, fmt.Errorf("loader: %q row %d column %d: %w", path, i+1, j+1, err)
			}
			row[j] = v
		}
		table[i] = row
	}
	return table, nil
}

// Names reads a patient-name sidecar file: one display name per line, in
// row order, blank lines ignored. Whether the name count matches the table
// is for stats.AttachNames to decide.
func Names(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loader: open %q: %w", path, err)
	}
	defer f.Close()

	var names []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		name := strings.TrimSpace(sc.Text())
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("loader: read %q: %w", path, err)
	}
	return names, nil
}
