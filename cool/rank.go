package cool

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/katalvlaran/sungear/hypergeo"
	sgerr "github.com/katalvlaran/sungear/pkg/errors"
)

// Tally holds one vessel's counts.
//
//	Experiment – experiment items carrying the vessel's signature
//	Active     – vessel members (the partition runs over the active set)
//	Selected   – vessel members that are selected
type Tally struct {
	Vessel     int
	Anchors    []string
	Experiment int
	Active     int
	Selected   int
}

// Totals are the set sizes the vessels are drawn from.
type Totals struct {
	Experiment int
	Active     int
	Selected   int
}

// Ranked is a scored vessel.
type Ranked struct {
	Vessel   int      `yaml:"vessel"`
	Anchors  []string `yaml:"anchors"`
	Size     int      `yaml:"size"`
	Observed int      `yaml:"observed"` // k
	Expected float64  `yaml:"expected"` // E[X] under the reference pairing
	PValue   float64  `yaml:"p_value"`
	Score    float64  `yaml:"score"` // −log10(PValue)
}

// RankVessels scores every tally under m and returns the survivors in
// ranking order (see package doc).
//
// Implementation:
//   - Stage 1: validate m, totals and each tally (Selected ≤ Active ≤ Experiment).
//   - Stage 2: drop tallies with Active < m.MinSize.
//   - Stage 3: build (or reuse) Hypergeometric(N, K, n) and take the
//     requested tail at k.
//   - Stage 4: drop scores below m.MinScore, sort, apply m.Limit.
//
// Distributions are shared between vessels with equal n.
//
// Complexity: Time O(V·(N + n) + V·log V), Space O(V + N·distinct(n)).
func RankVessels(tallies []Tally, totals Totals, m Method) ([]Ranked, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if !ordered(totals.Selected, totals.Active, totals.Experiment) {
		return nil, sgerr.Wrap(ErrInvalidInput, sgerr.CodeCoolInvalidTally, "totals",
			sgerr.Field("experiment", totals.Experiment),
			sgerr.Field("active", totals.Active),
			sgerr.Field("selected", totals.Selected),
		)
	}

	N, K := totals.Active, totals.Selected
	if m.Reference == ReferenceExperiment {
		N, K = totals.Experiment, totals.Active
	}

	dists := make(map[int]*hypergeo.Distribution)
	out := make([]Ranked, 0, len(tallies))
	for _, t := range tallies {
		if !ordered(t.Selected, t.Active, t.Experiment) ||
			t.Active > totals.Active || t.Selected > totals.Selected || t.Experiment > totals.Experiment {
			return nil, sgerr.Wrap(ErrInvalidInput, sgerr.CodeCoolInvalidTally, "vessel tally",
				sgerr.Field("vessel", t.Vessel),
				sgerr.Field("experiment", t.Experiment),
				sgerr.Field("active", t.Active),
				sgerr.Field("selected", t.Selected),
			)
		}
		if t.Active < m.MinSize {
			continue
		}

		n, k := t.Active, t.Selected
		if m.Reference == ReferenceExperiment {
			n, k = t.Experiment, t.Active
		}

		d, ok := dists[n]
		if !ok {
			var err error
			if d, err = hypergeo.New(N, K, n); err != nil {
				return nil, err
			}
			dists[n] = d
		}

		p := d.CDFGE(k)
		if m.Direction == DirectionUnder {
			p = d.CDFLE(k)
		}
		score := -math.Log10(p)
		if score < m.MinScore {
			continue
		}

		out = append(out, Ranked{
			Vessel:   t.Vessel,
			Anchors:  sortedAnchors(t.Anchors),
			Size:     t.Active,
			Observed: k,
			Expected: d.Mean(),
			PValue:   p,
			Score:    score,
		})
	}

	slices.SortFunc(out, compareRanked)
	if m.Limit > 0 && len(out) > m.Limit {
		out = out[:m.Limit]
	}

	return out, nil
}

func ordered(selected, active, experiment int) bool {
	return 0 <= selected && selected <= active && active <= experiment
}

func compareRanked(a, b Ranked) int {
	if c := cmp.Compare(a.PValue, b.PValue); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Size, a.Size); c != 0 {
		return c
	}
	if c := CompareAnchorSubsets(a.Anchors, b.Anchors); c != 0 {
		return c
	}
	return cmp.Compare(a.Vessel, b.Vessel)
}

// CompareAnchorSubsets orders two sorted anchor name lists element-wise,
// case-insensitively; a proper prefix sorts first.
func CompareAnchorSubsets(a, b []string) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := strings.Compare(strings.ToLower(a[i]), strings.ToLower(b[i])); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a), len(b))
}

func sortedAnchors(names []string) []string {
	out := slices.Clone(names)
	slices.SortFunc(out, func(x, y string) int {
		return strings.Compare(strings.ToLower(x), strings.ToLower(y))
	})
	return out
}
