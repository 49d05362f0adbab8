package model

import (
	"errors"
	"strings"

	sgerr "github.com/katalvlaran/sungear/pkg/errors"
)

// Sentinel errors for model construction.
var (
	// ErrInvalidInput indicates malformed ingestion data: an empty or duplicate
	// name, or an expression vector whose length differs from the AnchorSet.
	ErrInvalidInput = errors.New("model: invalid input")

	// ErrUnknownItem indicates an experiment item absent from the master table.
	ErrUnknownItem = errors.New("model: unknown item")
)

// Anchor is a named binary condition (for example an experimental sample).
type Anchor struct {
	// Name identifies the anchor; comparisons ignore case.
	Name string
}

// Key returns the case-folded identity of the anchor.
func (a Anchor) Key() string { return strings.ToLower(a.Name) }

// String implements fmt.Stringer.
func (a Anchor) String() string { return a.Name }

// CompareAnchors orders anchors case-insensitively by name.
func CompareAnchors(a, b Anchor) int {
	return compareNames(a.Name, b.Name)
}

// AnchorSet is the ordered, immutable list of anchors of one experiment.
// Expression vectors are aligned to this order position by position.
type AnchorSet struct {
	anchors []Anchor
	index   map[string]int // Key() → position
}

// NewAnchorSet builds an AnchorSet in the given order.
// Empty names and case-insensitive duplicates fail with ErrInvalidInput.
func NewAnchorSet(names ...string) (*AnchorSet, error) {
	s := &AnchorSet{
		anchors: make([]Anchor, 0, len(names)),
		index:   make(map[string]int, len(names)),
	}
	for i, name := range names {
		if strings.TrimSpace(name) == "" {
			return nil, sgerr.Wrap(ErrInvalidInput, sgerr.CodeModelInvalidInput, "unnamed anchor",
				sgerr.Field("position", i))
		}
		a := Anchor{Name: name}
		if _, dup := s.index[a.Key()]; dup {
			return nil, sgerr.Wrap(ErrInvalidInput, sgerr.CodeModelInvalidInput, "duplicate anchor",
				sgerr.Field("anchor", name))
		}
		s.index[a.Key()] = i
		s.anchors = append(s.anchors, a)
	}

	return s, nil
}

// Len returns the number of anchors. A nil set has length 0.
func (s *AnchorSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.anchors)
}

// At returns the anchor at position i. It panics when i is out of range.
func (s *AnchorSet) At(i int) Anchor { return s.anchors[i] }

// Index resolves an anchor position by name (case-insensitive).
func (s *AnchorSet) Index(name string) (int, bool) {
	if s == nil {
		return -1, false
	}
	i, ok := s.index[strings.ToLower(name)]
	if !ok {
		return -1, false
	}
	return i, true
}

// Anchors returns a copy of the anchors in set order.
func (s *AnchorSet) Anchors() []Anchor {
	if s == nil {
		return nil
	}
	out := make([]Anchor, len(s.anchors))
	copy(out, s.anchors)
	return out
}

// Names returns the anchor names in set order.
func (s *AnchorSet) Names() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.anchors))
	for i, a := range s.anchors {
		out[i] = a.Name
	}
	return out
}

// Item is a member of the explored universe (for example a gene).
type Item struct {
	// Name is unique within a master table, compared case-insensitively.
	Name string

	// Expression holds one value per anchor, aligned to the AnchorSet order.
	Expression []float64
}

// NewItem builds an Item owning a private copy of expression.
func NewItem(name string, expression ...float64) *Item {
	exp := make([]float64, len(expression))
	copy(exp, expression)
	return &Item{Name: name, Expression: exp}
}

// Key returns the case-folded identity of the item.
func (it *Item) Key() string { return strings.ToLower(it.Name) }

// String implements fmt.Stringer.
func (it *Item) String() string { return it.Name }

// CompareItems is the canonical item order used by every deterministic pass.
func CompareItems(a, b *Item) int {
	return compareNames(a.Name, b.Name)
}

// compareNames compares case-insensitively and breaks ties on the raw bytes.
func compareNames(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}
