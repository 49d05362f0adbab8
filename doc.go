// Package sungear explores how a population of labeled items (genes, for
// instance) distributes across every combination of membership in a set of
// named binary conditions, and points out the combinations that are
// statistically surprising.
//
// 🚀 What is sungear?
//
//	An in-memory analysis core, with no rendering and no I/O, that brings together:
//		• Signature partitioning: items → disjoint vessels by pass/fail pattern
//		• Hypergeometric scoring: exact tails in log space, large N friendly
//		• Cool-vessel ranking: presets, deterministic order, revision-keyed cache
//		• Selection engine: active/selected sets, undo/redo, union/intersect
//		• Synchronous typed events for a rendering collaborator
//
// Packages, in dependency order:
//
//	model/       Anchor, Item, ItemSet and the validated ingestion Snapshot
//	vessel/      Signature and Partition (arena of vessels indexed by anchor)
//	hypergeo/    Hypergeometric distribution: pmf, cdf tails, moments
//	cool/        Methods, presets, RankVessels and the caching Scorer
//	selection/   the Engine state machine and its events
//	explorer/    ties an Engine to partition + ranking for a renderer
//	cmd/sungear  CLI: explore, hypergeo, rank, presets, version
//
// Quick ASCII example (two anchors, threshold 1):
//
//	         heat   cold
//	  atA     3      0      → vessel 10 [heat]
//	  atB     3      3      → vessel 11 [heat cold]
//	  atC     0      3      → vessel 01 [cold]
//
// Selecting vessel 10 and asking for the "selected" preset scores every
// vessel by P(X ≥ k) under Hypergeometric(|active|, |selected|, |vessel|).
//
//	go get github.com/katalvlaran/sungear
package sungear
