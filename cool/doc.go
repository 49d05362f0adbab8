// Package cool ranks vessels by hypergeometric over- or under-representation
// and keeps the rankings cached until the data they were computed from changes.
//
// A "cool" vessel is one whose item count is surprising under random
// sampling. Every vessel is scored against a reference pairing chosen by the
// Method:
//
//	ReferenceSelection   N = |active|      K = |selected|  n = vessel active   k = vessel selected
//	ReferenceExperiment  N = |experiment|  K = |active|    n = vessel in exp.  k = vessel active
//
// The p-value is P(X ≥ k) for DirectionOver and P(X ≤ k) for DirectionUnder,
// with X ~ Hypergeometric(N, K, n). Score is −log10(p); vessels below
// Method.MinSize (active count) or Method.MinScore are dropped.
//
// Ordering is total and deterministic:
//  1. ascending p-value (most surprising first);
//  2. descending vessel size;
//  3. anchor subset, compared case-insensitively over the sorted anchor names
//     (a proper prefix sorts first);
//  4. vessel index.
//
// RankVessels is pure. Scorer adds a cache keyed by (scope, Method.Key,
// revision). The scope names the caller's inputs, so several callers can share
// one Scorer; the caller supplies a revision that changes whenever the inputs
// change and calls Invalidate when the partition itself is rebuilt.
//
// Presets:
//
//	selected  Selection  · Over  · MinSize 3 · MinScore 10
//	narrowed  Experiment · Over  · MinSize 3 · MinScore 5
//	all       Experiment · Over  · MinSize 3 · MinScore −Inf
//	depleted  Selection  · Under · MinSize 3 · MinScore 5
//
// Errors (sentinel):
//   - ErrUnknownMethod  – PresetByName with an unregistered name.
//   - ErrInvalidMethod  – unknown reference/direction, negative MinSize, NaN MinScore.
//   - ErrInvalidInput   – tallies or totals violating Selected ≤ Active ≤ Experiment.
package cool
