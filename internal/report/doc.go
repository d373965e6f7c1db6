// Package report derives a study-wide summary from one loaded inflammation
// table. Build is the service-side consumer of pkg/stats: it validates the
// dataset through normalisation, computes the per-day aggregates, and rolls
// up per-patient figures ready for the registry and the alert engine.
package report
