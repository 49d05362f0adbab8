package selection

import (
	"errors"
	"slices"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/katalvlaran/sungear/internal/metrics"
	"github.com/katalvlaran/sungear/model"
	sgerr "github.com/katalvlaran/sungear/pkg/errors"
)

// Sentinel errors.
var (
	ErrNotInitialized    = errors.New("selection: engine not initialized")
	ErrEmptySet          = errors.New("selection: experiment set is empty")
	ErrAlreadyLoaded     = errors.New("selection: engine already loaded")
	ErrNotMultiSelecting = errors.New("selection: not multi-selecting")
	ErrUnknownOperation  = errors.New("selection: unknown operation")
)

// Options configures an Engine.
type Options struct {
	Logger  zerolog.Logger
	Metrics *metrics.Collector
}

// Option is a functional option for New.
type Option func(*Options)

// WithLogger routes transition debug output to l.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithMetrics counts emitted events on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(o *Options) { o.Metrics = c }
}

// DefaultOptions returns a silent, unmetered configuration.
func DefaultOptions() Options {
	return Options{Logger: zerolog.Nop()}
}

type registration struct {
	id ListenerID
	l  Listener
}

// Engine owns the selection state of one interactive session.
type Engine struct {
	opts Options

	state       State
	snap        *model.Snapshot
	active      *model.ItemSet
	selected    *model.ItemSet
	highlighted *model.ItemSet
	history     []*model.ItemSet
	cursor      int

	revision uint64
	session  uuid.UUID

	listeners    []registration
	participants []Participant
}

// New returns an Uninitialized engine.
func New(opts ...Option) *Engine {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return &Engine{opts: o}
}

// Load installs snap and moves to Idle with active = selected = experiment.
// Emits EventNewList.
func (e *Engine) Load(snap *model.Snapshot) error {
	if e.state != StateUninitialized {
		return sgerr.Wrap(ErrAlreadyLoaded, sgerr.CodeSelectionAlreadyLoaded, "load",
			sgerr.Field("session", e.session.String()))
	}
	if err := e.install(snap, "load"); err != nil {
		return err
	}
	e.emit(Event{Type: EventNewList})
	return nil
}

// Reload replaces the snapshot of a live session and resets every set and
// the history. Emits EventNewSource.
func (e *Engine) Reload(snap *model.Snapshot) error {
	if err := e.requireLoaded("reload"); err != nil {
		return err
	}
	if err := e.install(snap, "reload"); err != nil {
		return err
	}
	e.emit(Event{Type: EventNewSource})
	return nil
}

func (e *Engine) install(snap *model.Snapshot, op string) error {
	if snap == nil || snap.Experiment().Empty() {
		return sgerr.Wrap(ErrEmptySet, sgerr.CodeSelectionEmptySet, op)
	}
	e.snap = snap
	e.session = uuid.New()
	e.reset(snap.Experiment())
	return nil
}

// reset makes active the new universe with everything selected.
func (e *Engine) reset(active *model.ItemSet) {
	e.active = active
	e.selected = active
	e.highlighted = nil
	e.history = []*model.ItemSet{active}
	e.cursor = 0
	e.state = StateIdle
	e.revision++
}

// SetSelection sets selected = candidate ∩ active. With recordHistory the
// entries after the cursor are discarded and the new selection appended.
// Emits EventSelect.
func (e *Engine) SetSelection(candidate *model.ItemSet, recordHistory bool) error {
	return e.SetSelectionFrom("", candidate, recordHistory)
}

// SetSelectionFrom is SetSelection with source copied into the emitted
// event, so a listener can skip selections it made itself.
func (e *Engine) SetSelectionFrom(source string, candidate *model.ItemSet, recordHistory bool) error {
	if err := e.requireLoaded("set selection"); err != nil {
		return err
	}
	e.selected = e.active.Intersect(candidate)
	if recordHistory {
		e.history = append(e.history[:e.cursor+1], e.selected)
		e.cursor = len(e.history) - 1
	}
	e.revision++
	e.emit(Event{Type: EventSelect, Source: source})
	return nil
}

// SelectAll selects the whole active set, recording history.
func (e *Engine) SelectAll() error {
	if err := e.requireLoaded("select all"); err != nil {
		return err
	}
	return e.SetSelection(e.active, true)
}

// SelectNone clears the selection, recording history.
func (e *Engine) SelectNone() error {
	return e.SetSelection(nil, true)
}

// Narrow makes the current selection the new active set. Leaves
// MultiSelecting without a MULTI_FINISH. Emits EventNarrow.
func (e *Engine) Narrow() error {
	if err := e.requireLoaded("narrow"); err != nil {
		return err
	}
	e.reset(e.selected)
	e.emit(Event{Type: EventNarrow})
	return nil
}

// Restart returns active and selected to the experiment set. Leaves
// MultiSelecting without a MULTI_FINISH. Emits EventRestart.
func (e *Engine) Restart() error {
	if err := e.requireLoaded("restart"); err != nil {
		return err
	}
	e.reset(e.snap.Experiment())
	e.emit(Event{Type: EventRestart})
	return nil
}

// Back moves the history cursor one step back and restores that selection,
// clipped to the current active set. No-op at the first entry.
func (e *Engine) Back() error {
	if err := e.requireLoaded("back"); err != nil {
		return err
	}
	if !e.HasPrevious() {
		return nil
	}
	e.cursor--
	e.restore()
	return nil
}

// Forward is the inverse of Back. No-op at the last entry.
func (e *Engine) Forward() error {
	if err := e.requireLoaded("forward"); err != nil {
		return err
	}
	if !e.HasNext() {
		return nil
	}
	e.cursor++
	e.restore()
	return nil
}

func (e *Engine) restore() {
	e.selected = e.active.Intersect(e.history[e.cursor])
	e.revision++
	e.emit(Event{Type: EventSelect})
}

// HasPrevious reports whether Back would move.
func (e *Engine) HasPrevious() bool { return e.cursor > 0 }

// HasNext reports whether Forward would move.
func (e *Engine) HasNext() bool { return e.cursor < len(e.history)-1 }

// StartMultiSelect enters MultiSelecting and emits EventMultiStart.
// Calling it while already multi-selecting does nothing.
func (e *Engine) StartMultiSelect() error {
	if err := e.requireLoaded("start multi-select"); err != nil {
		return err
	}
	if e.state == StateMultiSelecting {
		return nil
	}
	e.state = StateMultiSelecting
	e.emit(Event{Type: EventMultiStart})
	return nil
}

// FinishMultiSelect combines contributions and selects the result.
//
// OpUnion selects the union of all non-nil contributions (empty when there
// are none). OpIntersect starts from the current selection and intersects it
// with each non-nil contribution in order.
//
// Emits EventMultiFinish, returns to Idle, then calls
// SetSelection(combined, true), which emits EventSelect.
func (e *Engine) FinishMultiSelect(op Operation, contributions ...*model.ItemSet) error {
	if err := e.requireLoaded("finish multi-select"); err != nil {
		return err
	}
	if e.state != StateMultiSelecting {
		return sgerr.Wrap(ErrNotMultiSelecting, sgerr.CodeSelectionTransition, "finish multi-select",
			sgerr.Field("state", e.state.String()))
	}

	var combined *model.ItemSet
	switch op {
	case OpUnion:
		combined = model.NewItemSet()
		for _, c := range contributions {
			if c != nil {
				combined = combined.Union(c)
			}
		}
	case OpIntersect:
		combined = e.selected
		for _, c := range contributions {
			if c != nil {
				combined = combined.Intersect(c)
			}
		}
	default:
		return sgerr.Wrap(ErrUnknownOperation, sgerr.CodeSelectionOperation, "finish multi-select",
			sgerr.Field("operation", int(op)))
	}

	e.state = StateIdle
	e.emit(Event{Type: EventMultiFinish, Operation: op})
	return e.SetSelection(combined, true)
}

// AddParticipant registers p for Contributions.
func (e *Engine) AddParticipant(p Participant) {
	if p != nil {
		e.participants = append(e.participants, p)
	}
}

// Contributions asks every participant, in registration order, for its
// contribution to op. Abstentions are returned as nil entries.
func (e *Engine) Contributions(op Operation) []*model.ItemSet {
	out := make([]*model.ItemSet, len(e.participants))
	for i, p := range e.participants {
		out[i] = p.Contribution(op)
	}
	return out
}

// SetHighlight stores an ephemeral highlight clipped to the active set.
// It records no history and emits nothing.
func (e *Engine) SetHighlight(set *model.ItemSet) error {
	if err := e.requireLoaded("highlight"); err != nil {
		return err
	}
	e.highlighted = e.active.Intersect(set)
	return nil
}

// AddListener registers l; events reach listeners in registration order.
func (e *Engine) AddListener(l Listener) ListenerID {
	id := ListenerID(uuid.New())
	e.listeners = append(e.listeners, registration{id: id, l: l})
	return id
}

// RemoveListener unregisters id and reports whether it was registered.
func (e *Engine) RemoveListener(id ListenerID) bool {
	i := slices.IndexFunc(e.listeners, func(r registration) bool { return r.id == id })
	if i < 0 {
		return false
	}
	e.listeners = slices.Delete(slices.Clone(e.listeners), i, i+1)
	return true
}

// emit fans ev out to the listeners registered when it was raised.
func (e *Engine) emit(ev Event) {
	ev.Session = e.session
	ev.Revision = e.revision

	e.opts.Metrics.SelectionEvent(ev.Type.String())
	e.opts.Logger.Debug().
		Str("event", ev.Type.String()).
		Uint64("revision", ev.Revision).
		Int("active", e.active.Len()).
		Int("selected", e.selected.Len()).
		Int("history", len(e.history)).
		Int("cursor", e.cursor).
		Msg("selection event")

	for _, r := range e.listeners {
		r.l.HandleEvent(ev)
	}
}

func (e *Engine) requireLoaded(op string) error {
	if e.state == StateUninitialized {
		return sgerr.Wrap(ErrNotInitialized, sgerr.CodeSelectionNotInitialized, op)
	}
	return nil
}

// State returns the current state.
func (e *Engine) State() State { return e.state }

// Snapshot returns the loaded snapshot, or nil.
func (e *Engine) Snapshot() *model.Snapshot { return e.snap }

// Experiment returns the experiment set of the loaded snapshot.
func (e *Engine) Experiment() *model.ItemSet {
	if e.snap == nil {
		return nil
	}
	return e.snap.Experiment()
}

// Active returns the active set.
func (e *Engine) Active() *model.ItemSet { return e.active }

// Selected returns the selected set.
func (e *Engine) Selected() *model.ItemSet { return e.selected }

// Highlighted returns the highlight set (nil when none).
func (e *Engine) Highlighted() *model.ItemSet { return e.highlighted }

// Find looks an item up in the master table by name.
func (e *Engine) Find(name string) (*model.Item, bool) {
	if e.snap == nil {
		return nil, false
	}
	return e.snap.Find(name)
}

// IsSelected reports whether it is selected.
func (e *Engine) IsSelected(it *model.Item) bool { return e.selected.Contains(it) }

// HistoryLen returns the number of history entries (0 before Load).
func (e *Engine) HistoryLen() int { return len(e.history) }

// Cursor returns the index of the current history entry.
func (e *Engine) Cursor() int { return e.cursor }

// Revision increases on every change to the active or selected set.
func (e *Engine) Revision() uint64 { return e.revision }

// Session identifies the current load; Reload starts a new session.
func (e *Engine) Session() uuid.UUID { return e.session }
