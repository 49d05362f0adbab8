package explorer

import (
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/katalvlaran/sungear/cool"
	"github.com/katalvlaran/sungear/internal/metrics"
	"github.com/katalvlaran/sungear/model"
	sgerr "github.com/katalvlaran/sungear/pkg/errors"
	"github.com/katalvlaran/sungear/selection"
	"github.com/katalvlaran/sungear/vessel"
)

// DefaultThreshold is used when WithThreshold is not given.
const DefaultThreshold = 0.5

// Sentinel errors.
var (
	ErrUnknownVessel = errors.New("explorer: unknown vessel")
	ErrUnknownAnchor = errors.New("explorer: unknown anchor")
)

// Options configures an Explorer.
type Options struct {
	Threshold float64
	Logger    zerolog.Logger
	Metrics   *metrics.Collector
	Scorer    *cool.Scorer
}

// Option is a functional option for New.
type Option func(*Options)

// WithThreshold sets the initial partition threshold.
func WithThreshold(t float64) Option {
	return func(o *Options) { o.Threshold = t }
}

// WithLogger routes debug output to l.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithMetrics records partition runs on c. When no scorer is supplied the
// default scorer records its cache activity on c as well.
func WithMetrics(c *metrics.Collector) Option {
	return func(o *Options) { o.Metrics = c }
}

// WithScorer shares an existing ranking cache. Each Explorer keeps its own
// entries in it, keyed by explorer and threshold.
func WithScorer(s *cool.Scorer) Option {
	return func(o *Options) { o.Scorer = s }
}

// DefaultOptions returns the defaults used by New.
func DefaultOptions() Options {
	return Options{Threshold: DefaultThreshold, Logger: zerolog.Nop()}
}

// VesselView is the render-ready description of one vessel.
type VesselView struct {
	Index      int      `yaml:"index"`
	Anchors    []string `yaml:"anchors"`
	Signature  string   `yaml:"signature"`
	Experiment int      `yaml:"experiment"`
	Active     int      `yaml:"active"`
	Selected   int      `yaml:"selected"`
}

// Explorer combines an engine, a threshold, the partition of the active set
// and a ranking cache.
type Explorer struct {
	id        uuid.UUID
	engine    *selection.Engine
	opts      Options
	threshold float64
	scorer    *cool.Scorer
	listener  selection.ListenerID

	set    *vessel.Set    // partition of the active set; nil when stale
	census map[string]int // experiment counts per signature key; nil when stale
}

// New attaches an Explorer to engine. The engine may be loaded later.
func New(engine *selection.Engine, opts ...Option) (*Explorer, error) {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if err := vessel.CheckThreshold(o.Threshold); err != nil {
		return nil, err
	}
	if o.Scorer == nil {
		o.Scorer = cool.NewScorer(cool.WithLogger(o.Logger), cool.WithMetrics(o.Metrics))
	}

	x := &Explorer{
		id:        uuid.New(),
		engine:    engine,
		opts:      o,
		threshold: o.Threshold,
		scorer:    o.Scorer,
	}
	x.listener = engine.AddListener(selection.ListenerFunc(x.onEvent))

	return x, nil
}

// Close detaches the Explorer from its engine.
func (x *Explorer) Close() {
	x.engine.RemoveListener(x.listener)
}

func (x *Explorer) onEvent(ev selection.Event) {
	switch ev.Type {
	case selection.EventNewSource, selection.EventNewList, selection.EventNarrow, selection.EventRestart:
		x.invalidate(ev.Type.String())
	}
}

func (x *Explorer) invalidate(reason string) {
	x.set = nil
	x.census = nil
	x.scorer.Invalidate()
	x.opts.Logger.Debug().Str("reason", reason).Msg("explorer partition dropped")
}

// ID identifies this Explorer. Selections it makes carry ID().String() as
// their event source.
func (x *Explorer) ID() uuid.UUID { return x.id }

// Engine returns the underlying engine.
func (x *Explorer) Engine() *selection.Engine { return x.engine }

// Threshold returns the current threshold.
func (x *Explorer) Threshold() float64 { return x.threshold }

// SetThreshold changes the threshold and drops the partition and rankings.
// A NaN threshold is rejected and leaves the state unchanged.
func (x *Explorer) SetThreshold(t float64) error {
	if err := vessel.CheckThreshold(t); err != nil {
		return err
	}
	x.threshold = t
	x.invalidate("threshold")
	return nil
}

// Partition returns the partition of the active set at the current threshold,
// building it on first use.
func (x *Explorer) Partition() (*vessel.Set, error) {
	if x.set != nil {
		return x.set, nil
	}
	snap := x.engine.Snapshot()
	if snap == nil {
		return nil, sgerr.Wrap(selection.ErrNotInitialized, sgerr.CodeSelectionNotInitialized, "partition")
	}

	set, err := vessel.Partition(x.engine.Active().Items(), snap.Anchors(), x.threshold,
		vessel.WithLogger(x.opts.Logger), vessel.WithMetrics(x.opts.Metrics))
	if err != nil {
		return nil, err
	}
	x.set = set
	return set, nil
}

func (x *Explorer) experimentCensus() (map[string]int, error) {
	if x.census != nil {
		return x.census, nil
	}
	snap := x.engine.Snapshot()
	census, err := vessel.Census(snap.Experiment().Items(), snap.Anchors(), x.threshold)
	if err != nil {
		return nil, err
	}
	x.census = census
	return census, nil
}

// Vessels describes every vessel of the current partition in vessel order.
func (x *Explorer) Vessels() ([]VesselView, error) {
	set, err := x.Partition()
	if err != nil {
		return nil, err
	}
	census, err := x.experimentCensus()
	if err != nil {
		return nil, err
	}

	selected := x.engine.Selected()
	views := make([]VesselView, set.Len())
	for i := range views {
		v := set.At(i)
		views[i] = VesselView{
			Index:      v.Index(),
			Anchors:    set.AnchorNames(v),
			Signature:  v.Signature().String(),
			Experiment: census[v.Signature().Key()],
			Active:     v.Len(),
			Selected:   v.Items().Intersect(selected).Len(),
		}
	}
	return views, nil
}

// tallies is the cool.Source for the current state.
func (x *Explorer) tallies() ([]cool.Tally, cool.Totals, error) {
	views, err := x.Vessels()
	if err != nil {
		return nil, cool.Totals{}, err
	}
	out := make([]cool.Tally, len(views))
	for i, v := range views {
		out[i] = cool.Tally{
			Vessel:     v.Index,
			Anchors:    v.Anchors,
			Experiment: v.Experiment,
			Active:     v.Active,
			Selected:   v.Selected,
		}
	}
	totals := cool.Totals{
		Experiment: x.engine.Experiment().Len(),
		Active:     x.engine.Active().Len(),
		Selected:   x.engine.Selected().Len(),
	}
	return out, totals, nil
}

// Cool ranks the current vessels under m. Selection-referenced rankings are
// cached per engine revision; experiment-referenced ones until the next
// invalidation.
func (x *Explorer) Cool(m cool.Method) ([]cool.Ranked, error) {
	if x.engine.State() == selection.StateUninitialized {
		return nil, sgerr.Wrap(selection.ErrNotInitialized, sgerr.CodeSelectionNotInitialized, "cool")
	}
	var rev uint64
	if m.Reference == cool.ReferenceSelection {
		rev = x.engine.Revision()
	}
	return x.scorer.Rank(x.scope(), m, rev, x.tallies)
}

// scope identifies this explorer's inputs in a possibly shared Scorer.
func (x *Explorer) scope() string {
	return x.id.String() + "@" + strconv.FormatFloat(x.threshold, 'g', -1, 64)
}

// CoolPreset ranks with the named preset.
func (x *Explorer) CoolPreset(name string) ([]cool.Ranked, error) {
	m, err := cool.PresetByName(name)
	if err != nil {
		return nil, err
	}
	return x.Cool(m)
}

// Narrow delegates to the engine.
func (x *Explorer) Narrow() error { return x.engine.Narrow() }

// Restart delegates to the engine.
func (x *Explorer) Restart() error { return x.engine.Restart() }

// SelectVessels selects the union of the given vessels' items, recording
// history.
func (x *Explorer) SelectVessels(indices ...int) error {
	set, err := x.Partition()
	if err != nil {
		return err
	}
	picked := model.NewItemSet()
	for _, i := range indices {
		if i < 0 || i >= set.Len() {
			return sgerr.Wrap(ErrUnknownVessel, sgerr.CodeExplorerUnknownVessel, "select vessels",
				sgerr.Field("vessel", i), sgerr.Field("vessels", set.Len()))
		}
		picked = picked.Union(set.At(i).Items())
	}
	return x.engine.SetSelectionFrom(x.id.String(), picked, true)
}

// SelectAnchors selects items by anchor membership, recording history.
// With OpUnion an item qualifies when its vessel includes any of the named
// anchors; with OpIntersect it must include all of them.
func (x *Explorer) SelectAnchors(names []string, op selection.Operation) error {
	set, err := x.Partition()
	if err != nil {
		return err
	}
	if op != selection.OpUnion && op != selection.OpIntersect {
		return sgerr.Wrap(selection.ErrUnknownOperation, sgerr.CodeSelectionOperation, "select anchors",
			sgerr.Field("operation", int(op)))
	}

	anchors := set.AnchorSet()
	wanted := make(map[int]struct{}, len(names))
	for _, name := range names {
		a, ok := anchors.Index(name)
		if !ok {
			return sgerr.Wrap(ErrUnknownAnchor, sgerr.CodeExplorerUnknownAnchor, "select anchors",
				sgerr.Field("anchor", name))
		}
		wanted[a] = struct{}{}
	}

	hits := make([]int, set.Len())
	for a := range wanted {
		for _, v := range set.AnchorVessels(a) {
			hits[v]++
		}
	}

	picked := model.NewItemSet()
	for i, n := range hits {
		if n == 0 || (op == selection.OpIntersect && n < len(wanted)) {
			continue
		}
		picked = picked.Union(set.At(i).Items())
	}
	return x.engine.SetSelectionFrom(x.id.String(), picked, true)
}
