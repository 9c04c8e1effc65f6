// Package feature implements the rainfall feature-engineering pipeline:
// per-PCODE rolling anomaly statistics, trailing rainfall sums, and the
// rule-based risk classification.
//
// The core entry point is [Build], a pure function from a slice of
// observations to a slice of feature rows. [Pipeline] wraps it with logging
// and metrics for the service, and [Store] holds the latest built set for
// the HTTP layer. Rolling computations use explicit sliding-window
// accumulators (O(1) amortized per row) rather than recomputing each window
// from scratch; see rolling.go.
//
// Every rolling statistic is computed strictly within one PCODE's
// date-ordered sequence. Observations from other PCODEs never contribute,
// which also means the per-key work is independent and could be partitioned
// by PCODE without changing any output.
package feature
