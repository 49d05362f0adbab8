package cool_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/sungear/cool"
)

func preset(t *testing.T, name string) cool.Method {
	t.Helper()
	m, err := cool.PresetByName(name)
	require.NoError(t, err)
	return m
}

// overSelection ranks every vessel of size ≥ 3 against the selection.
var overSelection = cool.Method{
	Name:      "over-selection",
	Reference: cool.ReferenceSelection,
	Direction: cool.DirectionOver,
	MinSize:   3,
	MinScore:  math.Inf(-1),
}

func vessels(out []cool.Ranked) []int {
	ids := make([]int, len(out))
	for i, r := range out {
		ids[i] = r.Vessel
	}
	return ids
}

func TestRankVessels_ExactScore(t *testing.T) {
	m := overSelection
	m.MinSize = 0

	// N=10, K=3, n=5, k=2: P(X ≥ 2) = 126/252.
	out, err := cool.RankVessels(
		[]cool.Tally{{Vessel: 0, Experiment: 5, Active: 5, Selected: 2}},
		cool.Totals{Experiment: 10, Active: 10, Selected: 3},
		m,
	)
	require.NoError(t, err)
	require.Len(t, out, 1)

	r := out[0]
	assert.InDelta(t, 0.5, r.PValue, 1e-12)
	assert.InDelta(t, math.Log10(2), r.Score, 1e-12)
	assert.InDelta(t, 1.5, r.Expected, 1e-12)
	assert.Equal(t, 2, r.Observed)
	assert.Equal(t, 5, r.Size)
}

func TestRankVessels_SelectedFilters(t *testing.T) {
	totals := cool.Totals{Experiment: 200, Active: 200, Selected: 20}
	tallies := []cool.Tally{
		{Vessel: 0, Anchors: []string{"b", "a"}, Experiment: 16, Active: 16, Selected: 16}, // p ≈ 3e-20
		{Vessel: 1, Anchors: []string{"a"}, Experiment: 16, Active: 16, Selected: 1},       // unsurprising
		{Vessel: 2, Anchors: []string{"c"}, Experiment: 2, Active: 2, Selected: 2},         // below MinSize
	}

	out, err := cool.RankVessels(tallies, totals, preset(t, cool.PresetSelected))
	require.NoError(t, err)
	require.Equal(t, []int{0}, vessels(out))
	assert.Equal(t, []string{"a", "b"}, out[0].Anchors)
	assert.Greater(t, out[0].Score, 15.0)
	assert.Equal(t, []string{"b", "a"}, tallies[0].Anchors, "input must not be reordered")

	all, err := cool.RankVessels(tallies, totals, overSelection)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, vessels(all))

	// k=10 of 16 is surprising (p ≈ 5e-8) but short of the preset's score
	tallies[0].Selected = 10
	out, err = cool.RankVessels(tallies, totals, preset(t, cool.PresetSelected))
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRankVessels_TieBreaks(t *testing.T) {
	// Nothing is selected, so every p-value is exactly 1.
	totals := cool.Totals{Experiment: 100, Active: 100, Selected: 0}
	tallies := []cool.Tally{
		{Vessel: 0, Anchors: []string{"B"}, Experiment: 4, Active: 4},
		{Vessel: 1, Anchors: []string{"a", "c"}, Experiment: 4, Active: 4},
		{Vessel: 2, Anchors: []string{"x"}, Experiment: 3, Active: 3},
		{Vessel: 3, Anchors: []string{"a"}, Experiment: 4, Active: 4},
		{Vessel: 4, Anchors: []string{"z"}, Experiment: 9, Active: 9},
		{Vessel: 5, Anchors: nil, Experiment: 4, Active: 4},
	}

	out, err := cool.RankVessels(tallies, totals, overSelection)
	require.NoError(t, err)
	// size 9, then size 4 by anchors ([] < [a] < [a c] < [B]), then size 3
	assert.Equal(t, []int{4, 5, 3, 1, 0, 2}, vessels(out))
	for _, r := range out {
		assert.Equal(t, 1.0, r.PValue)
	}
}

func TestRankVessels_Experiment(t *testing.T) {
	totals := cool.Totals{Experiment: 100, Active: 10, Selected: 0}
	tallies := []cool.Tally{
		{Vessel: 0, Experiment: 10, Active: 10},
		{Vessel: 1, Experiment: 40, Active: 0},
	}

	out, err := cool.RankVessels(tallies, totals, preset(t, cool.PresetNarrowed))
	require.NoError(t, err)
	require.Equal(t, []int{0}, vessels(out))
	assert.Equal(t, 10, out[0].Observed)
	assert.InDelta(t, 1.0, out[0].Expected, 1e-12)
	assert.Greater(t, out[0].Score, 12.0)
}

func TestRankVessels_Depleted(t *testing.T) {
	totals := cool.Totals{Experiment: 100, Active: 100, Selected: 50}
	tallies := []cool.Tally{
		{Vessel: 0, Experiment: 20, Active: 20, Selected: 0},
		{Vessel: 1, Experiment: 20, Active: 20, Selected: 10},
	}

	out, err := cool.RankVessels(tallies, totals, preset(t, cool.PresetDepleted))
	require.NoError(t, err)
	assert.Equal(t, []int{0}, vessels(out))
}

func TestRankVessels_Limit(t *testing.T) {
	totals := cool.Totals{Experiment: 50, Active: 50, Selected: 0}
	var tallies []cool.Tally
	for i := range 5 {
		tallies = append(tallies, cool.Tally{Vessel: i, Experiment: 10, Active: 10})
	}

	m := overSelection
	m.Limit = 2
	out, err := cool.RankVessels(tallies, totals, m)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, vessels(out))
}

func TestRankVessels_Empty(t *testing.T) {
	out, err := cool.RankVessels(nil, cool.Totals{}, preset(t, cool.PresetSelected))
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRankVessels_InvalidInput(t *testing.T) {
	m := preset(t, cool.PresetSelected)
	cases := []struct {
		name    string
		tallies []cool.Tally
		totals  cool.Totals
	}{
		{"selected exceeds active totals", nil, cool.Totals{Experiment: 5, Active: 3, Selected: 4}},
		{"active exceeds experiment totals", nil, cool.Totals{Experiment: 2, Active: 3}},
		{"negative totals", nil, cool.Totals{Experiment: 2, Active: 1, Selected: -1}},
		{"tally selected exceeds active", []cool.Tally{{Experiment: 5, Active: 3, Selected: 4}}, cool.Totals{Experiment: 10, Active: 10, Selected: 5}},
		{"tally larger than totals", []cool.Tally{{Experiment: 8, Active: 8}}, cool.Totals{Experiment: 10, Active: 5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := cool.RankVessels(tc.tallies, tc.totals, m)
			require.Error(t, err)
			assert.True(t, errors.Is(err, cool.ErrInvalidInput))
		})
	}

	bad := m
	bad.MinSize = -3
	_, err := cool.RankVessels(nil, cool.Totals{}, bad)
	assert.True(t, errors.Is(err, cool.ErrInvalidMethod))
}

func TestCompareAnchorSubsets(t *testing.T) {
	assert.Equal(t, 0, cool.CompareAnchorSubsets([]string{"A"}, []string{"a"}))
	assert.Negative(t, cool.CompareAnchorSubsets(nil, []string{"a"}))
	assert.Negative(t, cool.CompareAnchorSubsets([]string{"a"}, []string{"a", "b"}))
	assert.Positive(t, cool.CompareAnchorSubsets([]string{"b"}, []string{"a", "z"}))
}
