// Package graph discovers and lays out the relation neighborhood of a
// focus schedule. Everything here is a pure function of a schedule
// snapshot; callers decide when to rebuild.
package graph

import (
	"context"

	"github.com/cstcaptive/cstlendar/internal/domain"
)

// Source provides the ordered schedule collection a graph is built from.
type Source interface {
	AllSchedules(ctx context.Context) ([]domain.Schedule, error)
}

// Index answers relation lookups over one immutable snapshot.
type Index struct {
	order       []string
	byID        map[string]*domain.Schedule
	descendants map[string][]string
}

// NewIndex copies the snapshot and precomputes the descendant adjacency.
// Later mutation of the caller's slice does not affect the index.
func NewIndex(snapshot []domain.Schedule) *Index {
	idx := &Index{
		order:       make([]string, 0, len(snapshot)),
		byID:        make(map[string]*domain.Schedule, len(snapshot)),
		descendants: make(map[string][]string),
	}
	for i := range snapshot {
		s := snapshot[i]
		s.Relations = append([]domain.Relation(nil), s.Relations...)
		if _, dup := idx.byID[s.ID]; dup {
			continue
		}
		idx.order = append(idx.order, s.ID)
		idx.byID[s.ID] = &s
	}
	for _, id := range idx.order {
		seen := make(map[string]bool)
		for _, target := range idx.byID[id].Predecessors() {
			if seen[target] {
				continue
			}
			seen[target] = true
			idx.descendants[target] = append(idx.descendants[target], id)
		}
	}
	return idx
}

// Lookup returns the schedule with id, if it exists in the snapshot.
func (idx *Index) Lookup(id string) (domain.Schedule, bool) {
	s, ok := idx.byID[id]
	if !ok {
		return domain.Schedule{}, false
	}
	return *s, true
}

// Len returns the number of schedules in the snapshot.
func (idx *Index) Len() int { return len(idx.order) }

// All returns the snapshot in store order.
func (idx *Index) All() []domain.Schedule {
	out := make([]domain.Schedule, 0, len(idx.order))
	for _, id := range idx.order {
		out = append(out, *idx.byID[id])
	}
	return out
}

// Predecessors returns the existing schedules that id names as PARENT,
// in declaration order. Dangling targets are omitted.
func (idx *Index) Predecessors(id string) []domain.Schedule {
	s, ok := idx.byID[id]
	if !ok {
		return nil
	}
	return idx.resolve(s.Predecessors())
}

// Descendants returns the schedules that name id as PARENT, in store order.
func (idx *Index) Descendants(id string) []domain.Schedule {
	return idx.resolve(idx.descendants[id])
}

// Parallels returns the existing schedules that id names as PARALLEL.
func (idx *Index) Parallels(id string) []domain.Schedule {
	s, ok := idx.byID[id]
	if !ok {
		return nil
	}
	return idx.resolve(s.ParallelIDs())
}

func (idx *Index) resolve(ids []string) []domain.Schedule {
	var out []domain.Schedule
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if s, ok := idx.byID[id]; ok {
			out = append(out, *s)
		}
	}
	return out
}
