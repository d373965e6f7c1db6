// Package loader reads comma-delimited inflammation datasets from disk into
// the in-memory table consumed by pkg/stats. The analysis layer never
// touches files directly: parse and I/O failures are wrapped here and
// propagated to the caller, never retried.
package loader
