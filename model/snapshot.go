package model

import (
	"strings"

	sgerr "github.com/katalvlaran/sungear/pkg/errors"
)

// Snapshot is the immutable ingestion hand-off consumed by a selection session:
// the anchor order, the master item table (the whole species universe) and the
// experiment subset. Every item's expression vector is aligned to Anchors.
type Snapshot struct {
	anchors    *AnchorSet
	master     *ItemSet
	experiment *ItemSet
}

// NewSnapshot validates and freezes an ingestion result.
//
// Validation order:
//  1. anchors must be non-nil (ErrInvalidInput).
//  2. master names must be unique case-insensitively (ErrInvalidInput).
//  3. every master item must carry exactly anchors.Len() values (ErrInvalidInput).
//  4. every experiment item must resolve in master (ErrUnknownItem).
//
// Experiment entries are resolved against master by name, so the snapshot
// always shares item pointers with its master table.
func NewSnapshot(anchors *AnchorSet, master []*Item, experiment []*Item) (*Snapshot, error) {
	if anchors == nil {
		return nil, sgerr.Wrap(ErrInvalidInput, sgerr.CodeModelInvalidInput, "nil anchor set")
	}

	seen := make(map[string]struct{}, len(master))
	for _, it := range master {
		if it == nil || strings.TrimSpace(it.Name) == "" {
			return nil, sgerr.Wrap(ErrInvalidInput, sgerr.CodeModelInvalidInput, "unnamed item")
		}
		if _, dup := seen[it.Key()]; dup {
			return nil, sgerr.Wrap(ErrInvalidInput, sgerr.CodeModelInvalidInput, "duplicate item",
				sgerr.FieldItem(it.Name))
		}
		seen[it.Key()] = struct{}{}
		if len(it.Expression) != anchors.Len() {
			return nil, sgerr.Wrap(ErrInvalidInput, sgerr.CodeModelInvalidInput, "expression length mismatch",
				sgerr.FieldItem(it.Name),
				sgerr.Field("want", anchors.Len()),
				sgerr.Field("got", len(it.Expression)),
			)
		}
	}
	m := NewItemSet(master...)

	exp := make([]*Item, 0, len(experiment))
	for _, it := range experiment {
		if it == nil {
			continue
		}
		resolved, ok := m.Get(it.Name)
		if !ok {
			return nil, sgerr.Wrap(ErrUnknownItem, sgerr.CodeModelUnknownItem, "resolve experiment item",
				sgerr.FieldItem(it.Name))
		}
		exp = append(exp, resolved)
	}

	return &Snapshot{anchors: anchors, master: m, experiment: NewItemSet(exp...)}, nil
}

// Anchors returns the experiment's anchor order.
func (s *Snapshot) Anchors() *AnchorSet { return s.anchors }

// Master returns the full item table.
func (s *Snapshot) Master() *ItemSet { return s.master }

// Experiment returns the experiment subset of Master.
func (s *Snapshot) Experiment() *ItemSet { return s.experiment }

// Find looks an item up in the master table, ignoring case.
func (s *Snapshot) Find(name string) (*Item, bool) { return s.master.Get(name) }
