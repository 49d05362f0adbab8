// Package explorer ties a selection.Engine to the vessel partition and the
// cool-vessel rankings computed from it, and exposes everything a renderer
// needs as plain values.
//
// The Explorer subscribes to its engine. Whenever the active set changes
// (NEW_SOURCE, NEW_LIST, NARROW, RESTART) or SetThreshold is called, the
// partition is dropped and the ranking cache is invalidated; both are rebuilt
// lazily on the next query. Selection changes keep the partition and re-key
// selection-referenced rankings by engine revision.
//
// Like the engine, an Explorer is not safe for concurrent use.
//
//	x, _ := explorer.New(engine, explorer.WithThreshold(1))
//	views, _ := x.Vessels()
//	hot, _ := x.CoolPreset(cool.PresetSelected)
//	_ = x.SelectVessels(hot[0].Vessel)
package explorer
