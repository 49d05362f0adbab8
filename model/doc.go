// Package model defines the immutable value types explored by sungear:
// Anchors (named binary conditions), Items (labeled members carrying one
// expression value per anchor), ItemSet (a sorted immutable set of items) and
// Snapshot, the validated hand-off from an ingestion collaborator.
//
// Ordering:
//
//	Anchors and Items are ordered case-insensitively by name; the raw name
//	breaks ties so the order is total and reproducible.
//
// Ownership:
//
//	Nothing in this package is mutated after construction. NewItem copies the
//	expression vector; ItemSet operations always return a new set.
//
// Errors (sentinel):
//
//	ErrInvalidInput  - empty/duplicate names or expression/anchor length mismatch.
//	ErrUnknownItem   - an experiment item is missing from the master table.
package model
