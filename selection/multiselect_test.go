package selection_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/sungear/model"
	sgerr "github.com/katalvlaran/sungear/pkg/errors"
	"github.com/katalvlaran/sungear/selection"
)

func TestMultiSelect_Union(t *testing.T) {
	e, snap, rec := loaded(t, "g1", "g2", "g3", "g4")

	require.NoError(t, e.StartMultiSelect())
	assert.Equal(t, selection.StateMultiSelecting, e.State())
	require.NoError(t, e.FinishMultiSelect(selection.OpUnion,
		pick(t, snap, "g1", "g2"), nil, pick(t, snap, "g2", "g3")))

	assert.Equal(t, []string{"g1", "g2", "g3"}, e.Selected().Names())
	assert.Equal(t, selection.StateIdle, e.State())
	assert.Equal(t, 2, e.HistoryLen())
	assert.Equal(t, []selection.EventType{
		selection.EventNewList,
		selection.EventMultiStart,
		selection.EventMultiFinish,
		selection.EventSelect,
	}, rec.types())
	assert.Equal(t, selection.OpUnion, rec.events[2].Operation)
}

func TestMultiSelect_Intersect(t *testing.T) {
	e, snap, _ := loaded(t, "g1", "g2", "g3", "g4")
	require.NoError(t, e.SetSelection(pick(t, snap, "g1", "g2", "g3"), true))

	require.NoError(t, e.StartMultiSelect())
	require.NoError(t, e.FinishMultiSelect(selection.OpIntersect,
		pick(t, snap, "g1", "g2"), pick(t, snap, "g2", "g3")))

	assert.Equal(t, []string{"g2"}, e.Selected().Names())
}

func TestMultiSelect_IntersectAllAbstain(t *testing.T) {
	e, snap, _ := loaded(t, "g1", "g2", "g3")
	require.NoError(t, e.SetSelection(pick(t, snap, "g1", "g3"), true))

	require.NoError(t, e.StartMultiSelect())
	require.NoError(t, e.FinishMultiSelect(selection.OpIntersect, nil, nil))
	assert.Equal(t, []string{"g1", "g3"}, e.Selected().Names())
}

func TestMultiSelect_UnionNothing(t *testing.T) {
	e, _, _ := loaded(t, "g1", "g2")

	require.NoError(t, e.StartMultiSelect())
	require.NoError(t, e.FinishMultiSelect(selection.OpUnion))
	assert.True(t, e.Selected().Empty())
}

func TestMultiSelect_Participants(t *testing.T) {
	e, snap, _ := loaded(t, "g1", "g2", "g3")

	var order []string
	e.AddParticipant(selection.ParticipantFunc(func(op selection.Operation) *model.ItemSet {
		order = append(order, "first")
		return pick(t, snap, "g1", "g2")
	}))
	e.AddParticipant(nil)
	e.AddParticipant(selection.ParticipantFunc(func(op selection.Operation) *model.ItemSet {
		order = append(order, "abstains")
		return nil
	}))
	e.AddParticipant(selection.ParticipantFunc(func(op selection.Operation) *model.ItemSet {
		order = append(order, "last")
		return pick(t, snap, "g2", "g3")
	}))

	require.NoError(t, e.StartMultiSelect())
	contribs := e.Contributions(selection.OpUnion)
	require.Len(t, contribs, 3)
	assert.Nil(t, contribs[1])
	assert.Equal(t, []string{"first", "abstains", "last"}, order)

	require.NoError(t, e.FinishMultiSelect(selection.OpUnion, contribs...))
	assert.Equal(t, []string{"g1", "g2", "g3"}, e.Selected().Names())
}

func TestMultiSelect_Transitions(t *testing.T) {
	e, _, rec := loaded(t, "g1", "g2")

	err := e.FinishMultiSelect(selection.OpUnion)
	require.Error(t, err)
	assert.True(t, errors.Is(err, selection.ErrNotMultiSelecting))
	assert.Equal(t, sgerr.CodeSelectionTransition, sgerr.CodeOf(err))

	require.NoError(t, e.StartMultiSelect())
	require.NoError(t, e.StartMultiSelect())
	assert.Equal(t, []selection.EventType{selection.EventNewList, selection.EventMultiStart}, rec.types())

	err = e.FinishMultiSelect(selection.Operation(42))
	assert.True(t, errors.Is(err, selection.ErrUnknownOperation))
	assert.Equal(t, selection.StateMultiSelecting, e.State(), "a rejected finish keeps the mode")
}

func TestMultiSelect_NarrowExits(t *testing.T) {
	for name, op := range map[string]func(*selection.Engine) error{
		"narrow":  (*selection.Engine).Narrow,
		"restart": (*selection.Engine).Restart,
	} {
		t.Run(name, func(t *testing.T) {
			e, _, rec := loaded(t, "g1", "g2")
			require.NoError(t, e.StartMultiSelect())
			require.NoError(t, op(e))

			assert.Equal(t, selection.StateIdle, e.State())
			assert.Len(t, rec.events, 3)
			assert.NotContains(t, rec.types(), selection.EventMultiFinish)
		})
	}
}
