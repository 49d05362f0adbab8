package vessel

import (
	"errors"
	"slices"

	"github.com/katalvlaran/sungear/internal/metrics"
	"github.com/katalvlaran/sungear/model"
	sgerr "github.com/katalvlaran/sungear/pkg/errors"
	"github.com/rs/zerolog"
)

// Sentinel errors returned by Partition and Census.
var (
	// ErrInvalidInput indicates an item whose expression length differs from
	// the number of anchors, or a nil anchor set.
	ErrInvalidInput = errors.New("vessel: invalid input")

	// ErrInvalidThreshold indicates a NaN threshold.
	ErrInvalidThreshold = errors.New("vessel: threshold must not be NaN")
)

// Options configures a Partition run.
//
//	Logger  – receives one debug line per run (default: disabled).
//	Metrics – records run/vessel counts (default: nil, no-op).
//	NoMemo  – disables the previous-signature shortcut; output is identical.
type Options struct {
	Logger  zerolog.Logger
	Metrics *metrics.Collector
	NoMemo  bool
}

// Option is a functional option for Partition and Census.
type Option func(*Options)

// WithLogger routes debug output to l.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithMetrics records partition runs on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(o *Options) { o.Metrics = c }
}

// WithoutMemo disables the consecutive-signature shortcut.
func WithoutMemo() Option {
	return func(o *Options) { o.NoMemo = true }
}

// DefaultOptions returns the zero-cost defaults: silent logger, no metrics, memo on.
func DefaultOptions() Options {
	return Options{Logger: zerolog.Nop()}
}

// Vessel is one partition cell: the items sharing a Signature.
// Vessels are immutable once Partition returns.
type Vessel struct {
	index   int
	sig     Signature
	anchors []int
	members *model.ItemSet
	pending []*model.Item
}

// Index is the vessel's position in its Set (first-occurrence order).
func (v *Vessel) Index() int { return v.index }

// Signature returns the vessel's bit pattern.
func (v *Vessel) Signature() Signature { return v.sig }

// Anchors returns the indices (into the Set's AnchorSet) of anchors whose bit
// is set, in anchor order.
func (v *Vessel) Anchors() []int { return slices.Clone(v.anchors) }

// Items returns the members in canonical order.
func (v *Vessel) Items() *model.ItemSet { return v.members }

// Len returns the number of members.
func (v *Vessel) Len() int { return v.members.Len() }

// Contains reports whether it belongs to this vessel.
func (v *Vessel) Contains(it *model.Item) bool { return v.members.Contains(it) }

// Set is the ordered result of one Partition run.
type Set struct {
	threshold float64
	anchors   *model.AnchorSet
	vessels   []*Vessel
	bySig     map[string]int // Signature.Key() → vessel index
	byAnchor  [][]int        // anchor index → vessel indices, ascending
	size      int
}

// Threshold returns the threshold this set was built with.
func (s *Set) Threshold() float64 { return s.threshold }

// AnchorSet returns the anchors the signatures are aligned to.
func (s *Set) AnchorSet() *model.AnchorSet { return s.anchors }

// Len returns the number of vessels.
func (s *Set) Len() int { return len(s.vessels) }

// Size returns the number of items across all vessels.
func (s *Set) Size() int { return s.size }

// At returns vessel i. It panics when i is out of range.
func (s *Set) At(i int) *Vessel { return s.vessels[i] }

// Vessels returns the vessels in first-occurrence order.
func (s *Set) Vessels() []*Vessel { return slices.Clone(s.vessels) }

// Lookup returns the vessel holding sig, if populated.
func (s *Set) Lookup(sig Signature) (*Vessel, bool) {
	i, ok := s.bySig[sig.Key()]
	if !ok {
		return nil, false
	}
	return s.vessels[i], true
}

// AnchorVessels returns the indices of vessels whose signature includes anchor a.
func (s *Set) AnchorVessels(a int) []int {
	if a < 0 || a >= len(s.byAnchor) {
		return nil
	}
	return slices.Clone(s.byAnchor[a])
}

// AnchorNames resolves v's anchor indices to names, in anchor order.
func (s *Set) AnchorNames(v *Vessel) []string {
	out := make([]string, len(v.anchors))
	for i, a := range v.anchors {
		out[i] = s.anchors.At(a).Name
	}
	return out
}

// Partition groups items into vessels by their signature at threshold.
//
// Steps:
//  1. Validate threshold (ErrInvalidThreshold) and anchors (ErrInvalidInput).
//  2. Copy and sort items into canonical order; validate expression lengths.
//  3. Scan: compute each item's signature; reuse the previous item's vessel when
//     the signature repeats (memo), otherwise resolve through the per-run map,
//     creating and appending a vessel on first occurrence.
//  4. Freeze member sets and the anchor → vessel index.
//
// The input slice is not modified. Nil items are skipped and items repeating
// an earlier key (case-insensitive name) are treated as the same member.
func Partition(items []*model.Item, anchors *model.AnchorSet, threshold float64, opts ...Option) (*Set, error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	ordered, err := canonical(items, anchors, threshold)
	if err != nil {
		return nil, err
	}

	set := &Set{
		threshold: threshold,
		anchors:   anchors,
		bySig:     make(map[string]int),
		byAnchor:  make([][]int, anchors.Len()),
	}

	var (
		lastSig Signature
		curr    *Vessel
	)
	for _, it := range ordered {
		sig := Compute(it.Expression, threshold)
		if curr == nil || cfg.NoMemo || !sig.Equal(lastSig) {
			curr = set.resolve(sig)
			lastSig = sig
		}
		curr.pending = append(curr.pending, it)
	}

	for _, v := range set.vessels {
		v.members = model.NewItemSet(v.pending...)
		v.pending = nil
		set.size += v.members.Len()
	}

	cfg.Metrics.ObservePartition(len(ordered), len(set.vessels))
	cfg.Logger.Debug().
		Int("items", len(ordered)).
		Int("anchors", anchors.Len()).
		Int("vessels", len(set.vessels)).
		Float64("threshold", threshold).
		Msg("partitioned items into vessels")

	return set, nil
}

// resolve returns the vessel for sig, creating it on first occurrence.
func (s *Set) resolve(sig Signature) *Vessel {
	key := sig.Key()
	if i, ok := s.bySig[key]; ok {
		return s.vessels[i]
	}

	v := &Vessel{index: len(s.vessels), sig: sig, anchors: sig.Ones()}
	s.bySig[key] = v.index
	s.vessels = append(s.vessels, v)
	for _, a := range v.anchors {
		s.byAnchor[a] = append(s.byAnchor[a], v.index)
	}
	return v
}

// Census counts items per signature key at threshold without building vessels.
// Keys are Signature.Key() values, so a Set's vessel can be matched with
// counts[v.Signature().Key()].
func Census(items []*model.Item, anchors *model.AnchorSet, threshold float64) (map[string]int, error) {
	ordered, err := canonical(items, anchors, threshold)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, it := range ordered {
		counts[Compute(it.Expression, threshold).Key()]++
	}
	return counts, nil
}

// CheckThreshold returns ErrInvalidThreshold for a NaN threshold.
func CheckThreshold(t float64) error {
	if !validThreshold(t) {
		return sgerr.Mark(ErrInvalidThreshold, sgerr.CodeVesselThreshold, sgerr.Field("threshold", t))
	}
	return nil
}

// canonical validates inputs and returns a sorted copy of the non-nil items.
// Of items sharing a key, the first in sorted order is kept.
func canonical(items []*model.Item, anchors *model.AnchorSet, threshold float64) ([]*model.Item, error) {
	if err := CheckThreshold(threshold); err != nil {
		return nil, err
	}
	if anchors == nil {
		return nil, sgerr.Wrap(ErrInvalidInput, sgerr.CodeVesselInvalidInput, "nil anchor set")
	}

	sorted := make([]*model.Item, 0, len(items))
	for _, it := range items {
		if it != nil {
			sorted = append(sorted, it)
		}
	}
	slices.SortStableFunc(sorted, func(a, b *model.Item) int {
		if c := model.CompareItems(a, b); c != 0 {
			return c
		}
		return slices.Compare(a.Expression, b.Expression)
	})

	n := anchors.Len()
	ordered := make([]*model.Item, 0, len(sorted))
	for i, it := range sorted {
		if i > 0 && sorted[i-1].Key() == it.Key() {
			continue
		}
		if len(it.Expression) != n {
			return nil, sgerr.Wrap(ErrInvalidInput, sgerr.CodeVesselInvalidInput,
				"expression length mismatch",
				sgerr.FieldItem(it.Name),
				sgerr.Field("want", n),
				sgerr.Field("got", len(it.Expression)),
			)
		}
		ordered = append(ordered, it)
	}

	return ordered, nil
}
