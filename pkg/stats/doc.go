// Package stats computes descriptive statistics over an inflammation table.
//
// A Table is a 2D slice of measurements where each row holds one patient's
// values over a number of days and each column is a single day across all
// patients. Tables are rectangular; row and column order is caller-defined
// and preserved by every function here.
//
// All functions are pure: none mutates its input and none holds state.
// Daily aggregates (DailyMean, DailyMax, DailyMin, DailyStd) apply no
// special handling to NaN or negative entries — callers feeding garbage get
// garbage back. PatientNormalise is the exception: it rejects negative
// input up front and applies a documented NaN→0 / negative→0 replacement
// policy to its output.
package stats
