// Package diag defines the diagnostic model shared by every analysis pass.
//
// Diagnostic is the central record: severity, a stable numeric Code, the
// primary span, optional secondary spans, notes and structured suggestions
// (each with a confidence and an optional replacement text). The package is
// deliberately data-only — rendering lives in internal/diagfmt, orchestration
// in internal/driver.
//
// Producers emit through a Reporter so storage stays pluggable. BagReporter
// aggregates into a Bag, which supports sorting, deduplication and a deep
// Clone used to hand diagnostics to callers after the analysis session is
// discarded.
package diag
