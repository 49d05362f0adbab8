package selection_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/sungear/model"
	sgerr "github.com/katalvlaran/sungear/pkg/errors"
	"github.com/katalvlaran/sungear/selection"
)

// snapshotOf builds a one-anchor snapshot whose experiment set is names and
// whose master table additionally holds "outsider".
func snapshotOf(t *testing.T, names ...string) *model.Snapshot {
	t.Helper()
	anchors, err := model.NewAnchorSet("s1")
	require.NoError(t, err)

	master := []*model.Item{model.NewItem("outsider", 0)}
	experiment := make([]*model.Item, 0, len(names))
	for _, n := range names {
		it := model.NewItem(n, 1)
		master = append(master, it)
		experiment = append(experiment, it)
	}
	snap, err := model.NewSnapshot(anchors, master, experiment)
	require.NoError(t, err)
	return snap
}

// pick resolves names against the snapshot's master table.
func pick(t *testing.T, snap *model.Snapshot, names ...string) *model.ItemSet {
	t.Helper()
	items := make([]*model.Item, 0, len(names))
	for _, n := range names {
		it, ok := snap.Find(n)
		require.True(t, ok, n)
		items = append(items, it)
	}
	return model.NewItemSet(items...)
}

type recorder struct{ events []selection.Event }

func (r *recorder) HandleEvent(e selection.Event) { r.events = append(r.events, e) }

func (r *recorder) types() []selection.EventType {
	out := make([]selection.EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

func loaded(t *testing.T, names ...string) (*selection.Engine, *model.Snapshot, *recorder) {
	t.Helper()
	e := selection.New()
	rec := &recorder{}
	e.AddListener(rec)
	snap := snapshotOf(t, names...)
	require.NoError(t, e.Load(snap))
	return e, snap, rec
}

func TestEngine_NotInitialized(t *testing.T) {
	e := selection.New()
	assert.Equal(t, selection.StateUninitialized, e.State())
	assert.False(t, e.HasPrevious())
	assert.False(t, e.HasNext())
	assert.Zero(t, e.HistoryLen())
	assert.Nil(t, e.Experiment())

	ops := map[string]func() error{
		"SetSelection":      func() error { return e.SetSelection(nil, true) },
		"SelectAll":         e.SelectAll,
		"SelectNone":        e.SelectNone,
		"Narrow":            e.Narrow,
		"Restart":           e.Restart,
		"Back":              e.Back,
		"Forward":           e.Forward,
		"StartMultiSelect":  e.StartMultiSelect,
		"FinishMultiSelect": func() error { return e.FinishMultiSelect(selection.OpUnion) },
		"SetHighlight":      func() error { return e.SetHighlight(nil) },
		"Reload":            func() error { return e.Reload(snapshotOf(t, "a")) },
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			err := op()
			require.Error(t, err)
			assert.True(t, errors.Is(err, selection.ErrNotInitialized))
			assert.True(t, sgerr.IsNotInitialized(err))
		})
	}
}

func TestEngine_Load(t *testing.T) {
	e, snap, rec := loaded(t, "a", "b", "c")

	assert.Equal(t, selection.StateIdle, e.State())
	assert.True(t, e.Active().Equal(snap.Experiment()))
	assert.True(t, e.Selected().Equal(snap.Experiment()))
	assert.Equal(t, 1, e.HistoryLen())
	assert.Equal(t, 0, e.Cursor())
	assert.NotEqual(t, uuid.Nil, e.Session())
	assert.Same(t, snap, e.Snapshot())
	assert.Equal(t, []selection.EventType{selection.EventNewList}, rec.types())

	err := e.Load(snap)
	assert.True(t, errors.Is(err, selection.ErrAlreadyLoaded))
	assert.Len(t, rec.events, 1)
}

func TestEngine_LoadEmpty(t *testing.T) {
	e := selection.New()
	err := e.Load(snapshotOf(t))
	require.Error(t, err)
	assert.True(t, errors.Is(err, selection.ErrEmptySet))
	assert.Equal(t, sgerr.CodeSelectionEmptySet, sgerr.CodeOf(err))
	assert.Equal(t, selection.StateUninitialized, e.State())

	assert.True(t, errors.Is(e.Load(nil), selection.ErrEmptySet))
}

func TestEngine_HistoryNavigation(t *testing.T) {
	e, snap, _ := loaded(t, "a", "b", "c")

	require.NoError(t, e.SetSelection(pick(t, snap, "a"), true))
	require.NoError(t, e.SetSelection(pick(t, snap, "b"), true))
	require.NoError(t, e.Back())
	assert.Equal(t, []string{"a"}, e.Selected().Names())
	assert.True(t, e.HasNext())

	require.NoError(t, e.Forward())
	assert.Equal(t, []string{"b"}, e.Selected().Names())
	assert.False(t, e.HasNext())
	assert.True(t, e.HasPrevious())
}

func TestEngine_BoundariesAreNoops(t *testing.T) {
	e, _, rec := loaded(t, "a", "b")
	rev := e.Revision()

	require.NoError(t, e.Back())
	require.NoError(t, e.Forward())
	assert.Equal(t, rev, e.Revision())
	assert.Len(t, rec.events, 1, "no event at a history boundary")
}

func TestEngine_RecordTruncatesForwardHistory(t *testing.T) {
	e, snap, _ := loaded(t, "a", "b", "c")

	require.NoError(t, e.SetSelection(pick(t, snap, "a"), true))
	require.NoError(t, e.SetSelection(pick(t, snap, "b"), true))
	require.NoError(t, e.Back())
	require.NoError(t, e.Back())
	require.Equal(t, 0, e.Cursor())

	require.NoError(t, e.SetSelection(pick(t, snap, "c"), true))
	assert.Equal(t, 2, e.HistoryLen())
	assert.Equal(t, 1, e.Cursor())
	assert.False(t, e.HasNext())

	require.NoError(t, e.Back())
	assert.Equal(t, []string{"a", "b", "c"}, e.Selected().Names())
}

func TestEngine_SetSelectionWithoutHistory(t *testing.T) {
	e, snap, rec := loaded(t, "a", "b", "c")

	require.NoError(t, e.SetSelection(pick(t, snap, "a", "outsider"), false))
	assert.Equal(t, []string{"a"}, e.Selected().Names(), "clipped to active")
	assert.Equal(t, 1, e.HistoryLen())
	assert.Equal(t, []selection.EventType{selection.EventNewList, selection.EventSelect}, rec.types())
}

func TestEngine_SelectAllNone(t *testing.T) {
	e, snap, _ := loaded(t, "a", "b")

	require.NoError(t, e.SelectNone())
	assert.True(t, e.Selected().Empty())
	require.NoError(t, e.SelectAll())
	assert.True(t, e.Selected().Equal(snap.Experiment()))
	assert.Equal(t, 3, e.HistoryLen())

	a, _ := e.Find("A")
	assert.True(t, e.IsSelected(a))
}

func TestEngine_NarrowRestartRoundTrip(t *testing.T) {
	e, snap, rec := loaded(t, "a", "b", "c", "d")
	original := e.Active()

	require.NoError(t, e.SetSelection(pick(t, snap, "b", "c"), true))
	require.NoError(t, e.Narrow())
	assert.Equal(t, []string{"b", "c"}, e.Active().Names())
	assert.True(t, e.Selected().Equal(e.Active()))
	assert.Equal(t, 1, e.HistoryLen())
	assert.False(t, e.HasPrevious())

	// selections are now clipped to the narrowed universe
	require.NoError(t, e.SetSelection(pick(t, snap, "a", "b"), true))
	assert.Equal(t, []string{"b"}, e.Selected().Names())

	require.NoError(t, e.Restart())
	assert.True(t, e.Active().Equal(original))
	assert.True(t, e.Active().Equal(snap.Experiment()))
	assert.True(t, e.Selected().Equal(original))
	assert.Equal(t, 1, e.HistoryLen())

	assert.Equal(t, []selection.EventType{
		selection.EventNewList,
		selection.EventSelect,
		selection.EventNarrow,
		selection.EventSelect,
		selection.EventRestart,
	}, rec.types())
}

func TestEngine_Reload(t *testing.T) {
	e, snap, rec := loaded(t, "a", "b")
	session := e.Session()
	require.NoError(t, e.SetSelection(pick(t, snap, "a"), true))

	next := snapshotOf(t, "x", "y", "z")
	require.NoError(t, e.Reload(next))
	assert.NotEqual(t, session, e.Session())
	assert.Same(t, next, e.Snapshot())
	assert.Equal(t, []string{"x", "y", "z"}, e.Selected().Names())
	assert.Equal(t, 1, e.HistoryLen())
	assert.Equal(t, selection.EventNewSource, rec.events[len(rec.events)-1].Type)

	err := e.Reload(snapshotOf(t))
	assert.True(t, errors.Is(err, selection.ErrEmptySet))
	assert.Same(t, next, e.Snapshot(), "failed reload keeps the session")
}

func TestEngine_Highlight(t *testing.T) {
	e, snap, rec := loaded(t, "a", "b")
	rev := e.Revision()

	require.NoError(t, e.SetHighlight(pick(t, snap, "b", "outsider")))
	assert.Equal(t, []string{"b"}, e.Highlighted().Names())
	assert.Equal(t, rev, e.Revision())
	assert.Len(t, rec.events, 1)

	require.NoError(t, e.Restart())
	assert.Nil(t, e.Highlighted())
}

func TestEngine_RevisionTracksChanges(t *testing.T) {
	e, snap, _ := loaded(t, "a", "b")
	r0 := e.Revision()

	require.NoError(t, e.SetSelection(pick(t, snap, "a"), true))
	r1 := e.Revision()
	require.NoError(t, e.Back())
	r2 := e.Revision()
	require.NoError(t, e.Narrow())
	r3 := e.Revision()

	assert.Less(t, r0, r1)
	assert.Less(t, r1, r2)
	assert.Less(t, r2, r3)
}
