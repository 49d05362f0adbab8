package model

import (
	"slices"
	"strings"
)

// ItemSet is an immutable set of items kept in canonical order.
//
// Membership is decided by Item.Key(), so two pointers to items with the same
// case-folded name are the same member; the first one seen is retained.
// A nil *ItemSet is a valid empty set for every read method.
type ItemSet struct {
	items []*Item          // canonical order, unique keys
	index map[string]*Item // Key() → member
}

// NewItemSet builds a set from items in any order. Nil entries are skipped.
//
// Complexity: O(n log n) time, O(n) space.
func NewItemSet(items ...*Item) *ItemSet {
	s := &ItemSet{
		items: make([]*Item, 0, len(items)),
		index: make(map[string]*Item, len(items)),
	}
	for _, it := range items {
		if it == nil {
			continue
		}
		k := it.Key()
		if _, dup := s.index[k]; dup {
			continue
		}
		s.index[k] = it
		s.items = append(s.items, it)
	}
	slices.SortFunc(s.items, CompareItems)

	return s
}

// fromSorted wraps an already canonical, de-duplicated slice.
func fromSorted(items []*Item) *ItemSet {
	s := &ItemSet{items: items, index: make(map[string]*Item, len(items))}
	for _, it := range items {
		s.index[it.Key()] = it
	}
	return s
}

// Len returns the number of members.
func (s *ItemSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Empty reports whether the set has no members.
func (s *ItemSet) Empty() bool { return s.Len() == 0 }

// Contains reports membership of it (by key).
func (s *ItemSet) Contains(it *Item) bool {
	if s == nil || it == nil {
		return false
	}
	_, ok := s.index[it.Key()]
	return ok
}

// ContainsName reports membership by name, ignoring case.
func (s *ItemSet) ContainsName(name string) bool {
	_, ok := s.Get(name)
	return ok
}

// Get returns the member with the given name, ignoring case.
func (s *ItemSet) Get(name string) (*Item, bool) {
	if s == nil {
		return nil, false
	}
	it, ok := s.index[strings.ToLower(name)]
	return it, ok
}

// Items returns the members in canonical order. The slice is a copy.
func (s *ItemSet) Items() []*Item {
	if s == nil {
		return nil
	}
	return slices.Clone(s.items)
}

// Names returns member names in canonical order.
func (s *ItemSet) Names() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.items))
	for i, it := range s.items {
		out[i] = it.Name
	}
	return out
}

// Union returns s ∪ o. Members of s win on key collisions.
//
// Complexity: O(|s|+|o|) by merging the two canonical slices.
func (s *ItemSet) Union(o *ItemSet) *ItemSet {
	a, b := s.slice(), o.slice()
	out := make([]*Item, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch c := strings.Compare(a[i].Key(), b[j].Key()); {
		case c < 0:
			out = append(out, a[i])
			i++
		case c > 0:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)

	return fromSorted(out)
}

// Intersect returns s ∩ o, keeping the members of s.
func (s *ItemSet) Intersect(o *ItemSet) *ItemSet {
	a := s.slice()
	out := make([]*Item, 0, min(len(a), o.Len()))
	for _, it := range a {
		if o.Contains(it) {
			out = append(out, it)
		}
	}
	return fromSorted(out)
}

// Difference returns s \ o.
func (s *ItemSet) Difference(o *ItemSet) *ItemSet {
	a := s.slice()
	out := make([]*Item, 0, len(a))
	for _, it := range a {
		if !o.Contains(it) {
			out = append(out, it)
		}
	}
	return fromSorted(out)
}

// SubsetOf reports whether every member of s is in o.
func (s *ItemSet) SubsetOf(o *ItemSet) bool {
	if s.Len() > o.Len() {
		return false
	}
	for _, it := range s.slice() {
		if !o.Contains(it) {
			return false
		}
	}
	return true
}

// Equal reports whether s and o have the same members.
func (s *ItemSet) Equal(o *ItemSet) bool {
	return s.Len() == o.Len() && s.SubsetOf(o)
}

func (s *ItemSet) slice() []*Item {
	if s == nil {
		return nil
	}
	return s.items
}
