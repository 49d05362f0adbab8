// Package selection implements the interactive selection state machine: the
// active and selected item sets, undo/redo history and multi-participant
// union/intersect, with synchronous typed events.
//
// States:
//
//	Uninitialized ──Load──▶ Idle ──StartMultiSelect──▶ MultiSelecting
//	                         ▲                              │
//	                         └──────FinishMultiSelect───────┘
//	Narrow and Restart return to Idle from either live state.
//
// Sets:
//   - experiment: the snapshot's experiment subset, fixed per load;
//   - active:     the selectable universe (experiment, or narrowed);
//   - selected:   always a subset of active;
//   - history:    selections recorded by SetSelection, with a cursor
//     for Back/Forward. Narrow and Restart reset it to one entry.
//
// Events:
//
//	Every transition emits exactly one primary event to listeners, in
//	registration order, after the state is fully updated and before the call
//	returns. FinishMultiSelect is the exception by construction: it emits
//	MULTI_FINISH and then delegates to SetSelection, which emits SELECT.
//	Boundary no-ops (Back at the first entry, StartMultiSelect while already
//	multi-selecting) emit nothing.
//
// Concurrency:
//
//	An Engine is not safe for concurrent use; callers serialize access.
//	Listeners run on the caller's goroutine and may call back into the
//	engine.
//
// Errors (sentinel):
//   - ErrNotInitialized    – any operation except Load before Load.
//   - ErrEmptySet          – Load/Reload with no experiment items.
//   - ErrAlreadyLoaded     – Load on a live engine (use Reload).
//   - ErrNotMultiSelecting – FinishMultiSelect outside MultiSelecting.
//   - ErrUnknownOperation  – FinishMultiSelect with an undefined Operation.
package selection
