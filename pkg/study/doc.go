// Package study models the people in an inflammation study: patients with
// their day-ordered observation history, and the doctors who follow them.
// It is independent of the bulk table representation in pkg/stats — the
// types here attach identity (names, day sequencing) to individual values.
package study
