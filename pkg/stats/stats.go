package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Table is a patients×days matrix of inflammation measurements.
// Rows are patients, columns are days. Tables are rectangular.
type Table [][]float64

// Sentinel errors returned by the functions below. Callers should test with
// errors.Is — the returned errors carry positional context around these.
var (
	// ErrNegativeValue is returned by PatientNormalise when any input
	// entry is negative.
	ErrNegativeValue = errors.New("inflammation values must not be negative")

	// ErrLengthMismatch is returned by AttachNames when the name list and
	// the table disagree on patient count.
	ErrLengthMismatch = errors.New("name count does not match patient count")

	// ErrRowOutOfRange is returned by DailyAboveThreshold for a patient
	// index outside the table.
	ErrRowOutOfRange = errors.New("patient row index out of range")
)

// PatientRecord pairs a patient's display name with their row of the table.
// Data is shared with the source table, not copied.
type PatientRecord struct {
	Name string
	Data []float64
}

// DailyMean returns the arithmetic mean of each day's column across all
// patients. An empty table yields an empty result.
func DailyMean(t Table) []float64 {
	return perDay(t, func(col []float64) float64 {
		return stat.Mean(col, nil)
	})
}

// DailyMax returns the element-wise maximum of each day's column.
func DailyMax(t Table) []float64 {
	return perDay(t, floats.Max)
}

// DailyMin returns the element-wise minimum of each day's column.
func DailyMin(t Table) []float64 {
	return perDay(t, floats.Min)
}

// DailyStd returns the population standard deviation of each day's column.
// The divisor is N, not N−1: a single-patient table has zero deviation.
func DailyStd(t Table) []float64 {
	return perDay(t, func(col []float64) float64 {
		return stat.PopStdDev(col, nil)
	})
}

// PatientNormalise scales each patient's row by that row's own maximum,
// ignoring NaN entries when finding the maximum.
//
// The whole table is checked for negative entries before any computation;
// a negative entry fails with ErrNegativeValue and no partial result.
// Result entries that come out NaN (zero or NaN row maximum, NaN input) are
// replaced with 0, and any negative result is clamped to 0 — a value
// replacement policy, not error suppression.
//
// The returned table is freshly allocated; the input is never mutated.
func PatientNormalise(t Table) (Table, error) {
	for i, row := range t {
		for j, v := range row {
			if v < 0 {
				return nil, fmt.Errorf("patient %d day %d: value %g: %w", i, j, v, ErrNegativeValue)
			}
		}
	}

	out := make(Table, len(t))
	for i, row := range t {
		rowMax := nanMax(row)
		norm := make([]float64, len(row))
		for j, v := range row {
			n := v / rowMax
			if math.IsNaN(n) || n < 0 {
				n = 0
			}
			norm[j] = n
		}
		out[i] = norm
	}
	return out, nil
}

// DailyAboveThreshold counts how many of patient row's daily values strictly
// exceed threshold. The row index must be a valid row of t.
func DailyAboveThreshold(row int, t Table, threshold float64) (int, error) {
	if row < 0 || row >= len(t) {
		return 0, fmt.Errorf("patient row %d of %d: %w", row, len(t), ErrRowOutOfRange)
	}

	count := 0
	for _, v := range t[row] {
		if v > threshold {
			count++
		}
	}
	return count, nil
}

// AttachNames zips each row of t with the corresponding display name,
// preserving row order. The name list must have exactly one entry per
// patient row; a mismatch fails with ErrLengthMismatch and no partial
// result.
func AttachNames(t Table, names []string) ([]PatientRecord, error) {
	if len(names) != len(t) {
		return nil, fmt.Errorf("%d names for %d patients: %w", len(names), len(t), ErrLengthMismatch)
	}

	records := make([]PatientRecord, len(t))
	for i, row := range t {
		records[i] = PatientRecord{Name: names[i], Data: row}
	}
	return records, nil
}

// perDay applies agg to each column of t.
func perDay(t Table, agg func([]float64) float64) []float64 {
	if len(t) == 0 || len(t[0]) == 0 {
		return []float64{}
	}

	days := len(t[0])
	out := make([]float64, days)
	col := make([]float64, len(t))
	for d := 0; d < days; d++ {
		for p, row := range t {
			col[p] = row[d]
		}
		out[d] = agg(col)
	}
	return out
}

// nanMax returns the largest non-NaN entry of row, or NaN when the row is
// empty or all-NaN.
func nanMax(row []float64) float64 {
	max := math.NaN()
	for _, v := range row {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(max) || v > max {
			max = v
		}
	}
	return max
}
