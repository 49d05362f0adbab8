// Package vessel groups items into disjoint "vessels" by the pass/fail
// pattern (Signature) of their expression values across an AnchorSet.
//
// What is a vessel?
//
//	For a threshold t, an item's Signature has bit i set iff
//	expression[i] >= t. Items sharing a Signature form one Vessel, tagged by
//	the subset of anchors whose bit is set. The all-zero and all-one
//	signatures are ordinary vessels.
//
// Determinism:
//
//	Partition sorts its input into canonical item order (case-insensitive
//	name) before scanning, and vessels are emitted in first-occurrence order
//	of their signature. Two runs over the same item set and threshold yield
//	identical vessel order and membership regardless of the caller's order.
//
// Layout:
//
//	A Set is an arena: vessels and anchors live in flat indexed collections and
//	refer to each other by index (Vessel.Anchors, Set.AnchorVessels), never by
//	mutual pointers. Every Partition call creates fresh vessels; sets from
//	different runs share nothing.
//
// Complexity:
//
//	Time O(|items|·|anchors| + |items|·log|items|), Space O(|items| + |vessels|).
//
// Errors (sentinel):
//
//	ErrInvalidInput      - an expression length differs from the anchor count.
//	ErrInvalidThreshold  - the threshold is NaN.
//
// Example:
//
//	set, err := vessel.Partition(items, anchors, 1.5)
//	for _, v := range set.Vessels() {
//	    fmt.Println(v.Signature(), set.AnchorNames(v), v.Len())
//	}
package vessel
