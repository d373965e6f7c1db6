// Package registry holds the latest study report per dataset in memory.
// It provides a thread-safe store with TTL eviction: a dataset whose report
// is not refreshed within the TTL (for example because its file was
// deleted between rescans) drops out of the live view.
package registry
