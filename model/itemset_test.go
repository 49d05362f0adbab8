package model_test

import (
	"testing"

	"github.com/katalvlaran/sungear/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func items(names ...string) []*model.Item {
	out := make([]*model.Item, len(names))
	for i, n := range names {
		out[i] = model.NewItem(n)
	}
	return out
}

func TestNewItemSet_SortsAndDeduplicates(t *testing.T) {
	s := model.NewItemSet(append(items("g3", "G1", "g2"), model.NewItem("g1"), nil)...)

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []string{"G1", "g2", "g3"}, s.Names())
	assert.True(t, s.ContainsName("g1"))
	assert.True(t, s.Contains(model.NewItem("G2")))
	assert.False(t, s.ContainsName("g4"))
}

func TestItemSet_Algebra(t *testing.T) {
	all := items("a", "b", "c", "d")
	left := model.NewItemSet(all[0], all[1], all[2])
	right := model.NewItemSet(all[1], all[2], all[3])

	assert.Equal(t, []string{"a", "b", "c", "d"}, left.Union(right).Names())
	assert.Equal(t, []string{"b", "c"}, left.Intersect(right).Names())
	assert.Equal(t, []string{"a"}, left.Difference(right).Names())

	assert.True(t, left.Intersect(right).SubsetOf(left))
	assert.False(t, left.SubsetOf(right))
	assert.True(t, left.Equal(model.NewItemSet(all[2], all[1], all[0])))
	assert.False(t, left.Equal(right))
}

func TestItemSet_UnionKeepsLeftMember(t *testing.T) {
	first := model.NewItem("gene")
	second := model.NewItem("GENE")

	u := model.NewItemSet(first).Union(model.NewItemSet(second))
	require.Equal(t, 1, u.Len())
	got, ok := u.Get("Gene")
	require.True(t, ok)
	assert.Same(t, first, got)
}

func TestItemSet_NilIsEmpty(t *testing.T) {
	var s *model.ItemSet
	other := model.NewItemSet(items("x")...)

	assert.True(t, s.Empty())
	assert.False(t, s.Contains(other.Items()[0]))
	assert.Nil(t, s.Items())
	assert.Equal(t, []string{"x"}, s.Union(other).Names())
	assert.True(t, s.Intersect(other).Empty())
	assert.True(t, s.SubsetOf(other))
	assert.True(t, s.Equal(model.NewItemSet()))
}

func TestItemSet_ItemsIsACopy(t *testing.T) {
	s := model.NewItemSet(items("a", "b")...)
	got := s.Items()
	got[0] = nil

	assert.Equal(t, []string{"a", "b"}, s.Names())
}
