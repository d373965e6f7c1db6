package report

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/inflamstack/inflamstack/pkg/stats"
)

// DayStat is the aggregate view of one study day across all patients.
type DayStat struct {
	Day  int
	Mean float64
	Max  float64
	Min  float64
	Std  float64
}

// PatientSummary is the rolled-up view of one patient's row.
type PatientSummary struct {
	Name string

	// Peak is the patient's highest recorded value; PeakDay is the first
	// day it occurred.
	Peak    float64
	PeakDay int

	// DaysAbove counts the days this patient's value strictly exceeded
	// the study threshold.
	DaysAbove int

	// Normalised is the patient's curve scaled to their own peak, with
	// the NaN→0 and negative→0 replacement policy applied.
	Normalised []float64
}

// StudyReport is the full derived snapshot for one dataset.
type StudyReport struct {
	Dataset   string
	Patients  int
	Days      int
	Threshold float64

	DayStats []DayStat
	Summary  []PatientSummary

	// MaxValue is the highest value anywhere in the table; MeanPeak is
	// the highest daily mean. PatientsAbove counts patients with at
	// least one day above the threshold.
	MaxValue      float64
	MeanPeak      float64
	PatientsAbove int

	GeneratedAt time.Time
}

// Build derives a StudyReport from table.
//
// names must have one entry per patient row; a negative entry anywhere in
// the table rejects the whole dataset. In both cases the pkg/stats sentinel
// errors propagate unwrapped so callers can classify them with errors.Is.
func Build(dataset string, table stats.Table, names []string, threshold float64, now time.Time) (*StudyReport, error) {
	records, err := stats.AttachNames(table, names)
	if err != nil {
		return nil, fmt.Errorf("report: %q: %w", dataset, err)
	}

	normalised, err := stats.PatientNormalise(table)
	if err != nil {
		return nil, fmt.Errorf("report: %q: %w", dataset, err)
	}

	rep := &StudyReport{
		Dataset:     dataset,
		Patients:    len(table),
		Threshold:   threshold,
		GeneratedAt: now,
	}
	if len(table) > 0 {
		rep.Days = len(table[0])
	}

	means := stats.DailyMean(table)
	maxs := stats.DailyMax(table)
	mins := stats.DailyMin(table)
	stds := stats.DailyStd(table)

	rep.DayStats = make([]DayStat, len(means))
	for d := range means {
		rep.DayStats[d] = DayStat{
			Day:  d,
			Mean: means[d],
			Max:  maxs[d],
			Min:  mins[d],
			Std:  stds[d],
		}
	}
	if len(means) > 0 {
		rep.MeanPeak = floats.Max(means)
		rep.MaxValue = floats.Max(maxs)
	}

	rep.Summary = make([]PatientSummary, len(records))
	for i, rec := range records {
		above, err := stats.DailyAboveThreshold(i, table, threshold)
		if err != nil {
			return nil, fmt.Errorf("report: %q: %w", dataset, err)
		}

		sum := PatientSummary{
			Name:       rec.Name,
			DaysAbove:  above,
			Normalised: normalised[i],
		}
		if len(rec.Data) > 0 {
			sum.PeakDay = floats.MaxIdx(rec.Data)
			sum.Peak = rec.Data[sum.PeakDay]
		}
		if above > 0 {
			rep.PatientsAbove++
		}
		rep.Summary[i] = sum
	}

	return rep, nil
}
