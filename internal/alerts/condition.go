package alerts

import (
	"strconv"
	"strings"

	"github.com/inflamstack/inflamstack/internal/report"
)

// evalCondition evaluates a rule condition string against a StudyReport.
//
// Supported expressions (field operator value):
//
//	max > 20
//	mean_peak > 12
//	patients_above >= 3
//	patients < 60
//	days == 40
//
// Returns (fires bool, triggering value float64).
// Returns (false, 0) if the expression cannot be parsed or the field is
// unknown.
func evalCondition(cond string, rep *report.StudyReport) (bool, float64) {
	parts := strings.Fields(cond)
	if len(parts) != 3 {
		return false, 0
	}
	field, op, rhs := parts[0], parts[1], parts[2]

	v, ok := numericField(field, rep)
	if !ok {
		return false, 0
	}
	threshold, err := strconv.ParseFloat(rhs, 64)
	if err != nil {
		return false, 0
	}
	return compareFloat(v, op, threshold), v
}

// numericField maps a field name to its value in the report.
func numericField(field string, rep *report.StudyReport) (float64, bool) {
	switch field {
	case "max":
		return rep.MaxValue, true
	case "mean_peak":
		return rep.MeanPeak, true
	case "patients_above":
		return float64(rep.PatientsAbove), true
	case "patients":
		return float64(rep.Patients), true
	case "days":
		return float64(rep.Days), true
	default:
		return 0, false
	}
}

// compareFloat applies a comparison operator to two float64 values.
func compareFloat(v float64, op string, threshold float64) bool {
	switch op {
	case ">":
		return v > threshold
	case ">=":
		return v >= threshold
	case "<":
		return v < threshold
	case "<=":
		return v <= threshold
	case "==":
		return v == threshold
	default:
		return false
	}
}
