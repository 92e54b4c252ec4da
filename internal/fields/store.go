// Package fields holds the field-tree configuration engine: the flat record
// store, the tree builder, selection cascades, expansion state and search.
package fields

import (
	"errors"
	"fmt"

	"xroadfields/internal/model"
)

var (
	// ErrUnknownField is returned when a path is not present in the store.
	ErrUnknownField = errors.New("unknown field")
	// ErrStructuralField is returned for leaf-only operations on a container.
	ErrStructuralField = errors.New("structural field")
)

// Store is the flat, path-indexed collection of field records of one service.
// Insertion order is preserved and drives sibling order in the tree.
type Store struct {
	order    []string
	records  map[string]*model.FieldRecord
	children map[string][]string
	roots    []string
}

// NewStore creates a store populated with records.
func NewStore(records []model.FieldRecord) *Store {
	s := &Store{}
	s.ReplaceAll(records)
	return s
}

// ReplaceAll discards the current contents and loads records.
// A repeated path keeps the position of its first occurrence and the values
// of its last one. HasChildren is recomputed; the incoming flag is ignored.
func (s *Store) ReplaceAll(records []model.FieldRecord) {
	s.order = make([]string, 0, len(records))
	s.records = make(map[string]*model.FieldRecord, len(records))

	for _, r := range records {
		if r.Path == "" {
			continue
		}
		if existing, ok := s.records[r.Path]; ok {
			*existing = r
			continue
		}
		rec := r
		s.records[r.Path] = &rec
		s.order = append(s.order, r.Path)
	}

	s.reindex()
}

// reindex rebuilds the parent -> children index, the derived HasChildren
// flags and the root list.
func (s *Store) reindex() {
	s.children = make(map[string][]string, len(s.order))
	for _, p := range s.order {
		s.records[p].HasChildren = false
	}
	for _, p := range s.order {
		rec := s.records[p]
		if rec.IsRoot() {
			continue
		}
		s.children[rec.Parent] = append(s.children[rec.Parent], p)
		if parent, ok := s.records[rec.Parent]; ok {
			parent.HasChildren = true
		}
	}

	reached := make(map[string]bool, len(s.order))
	mark := func(root string) {
		stack := []string{root}
		for len(stack) > 0 {
			p := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if reached[p] {
				continue
			}
			reached[p] = true
			stack = append(stack, s.children[p]...)
		}
	}

	top := make(map[string]bool)
	for _, p := range s.order {
		if s.isTopLevel(p) {
			top[p] = true
			mark(p)
		}
	}

	// Whatever is still unreached hangs off a parent cycle. Promote the node
	// where the cycle closes so the whole branch stays visible.
	for _, p := range s.order {
		if reached[p] {
			continue
		}
		entry := s.cycleEntry(p)
		top[entry] = true
		mark(entry)
	}

	// Promoted roots keep their load position among the others.
	s.roots = nil
	for _, p := range s.order {
		if top[p] {
			s.roots = append(s.roots, p)
		}
	}
}

// isTopLevel reports whether p has no parent or names a parent that is not
// in the store. Orphans are shown as roots so no field disappears.
func (s *Store) isTopLevel(p string) bool {
	rec := s.records[p]
	if rec.IsRoot() {
		return true
	}
	_, ok := s.records[rec.Parent]
	return !ok
}

func (s *Store) cycleEntry(p string) string {
	seen := make(map[string]bool)
	for !seen[p] {
		seen[p] = true
		p = s.records[p].Parent
	}
	return p
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.order)
}

// Get returns a copy of the record at path.
func (s *Store) Get(path string) (model.FieldRecord, bool) {
	rec, ok := s.records[path]
	if !ok {
		return model.FieldRecord{}, false
	}
	return *rec, true
}

// Records returns copies of all records in load order.
func (s *Store) Records() []model.FieldRecord {
	out := make([]model.FieldRecord, 0, len(s.order))
	for _, p := range s.order {
		out = append(out, *s.records[p])
	}
	return out
}

// Roots returns the paths the tree walk starts from, in load order.
func (s *Store) Roots() []string {
	return append([]string(nil), s.roots...)
}

// Children returns the direct children of path in load order.
func (s *Store) Children(path string) []string {
	return append([]string(nil), s.children[path]...)
}

// Descendants returns every transitive child of path, excluding path itself.
// The walk uses an explicit worklist and never visits a path twice, so
// malformed parent links cannot make it loop.
func (s *Store) Descendants(path string) []string {
	var out []string
	visited := map[string]bool{path: true}
	pending := append([]string(nil), s.children[path]...)

	for len(pending) > 0 {
		p := pending[0]
		pending = pending[1:]
		if visited[p] {
			continue
		}
		visited[p] = true
		out = append(out, p)
		pending = append(pending, s.children[p]...)
	}
	return out
}

// SetSelected sets the selected flag of a single record.
func (s *Store) SetSelected(path string, selected bool) error {
	rec, err := s.lookup(path)
	if err != nil {
		return err
	}
	rec.Selected = selected
	return nil
}

// SetSensitive sets the sensitive flag of a single record.
func (s *Store) SetSensitive(path string, sensitive bool) error {
	rec, err := s.lookup(path)
	if err != nil {
		return err
	}
	rec.Sensitive = sensitive
	return nil
}

// LeafRecords returns the non-structural records in load order. This is
// the set handed to the configuration sink on save.
func (s *Store) LeafRecords() []model.FieldRecord {
	var out []model.FieldRecord
	for _, p := range s.order {
		if rec := s.records[p]; !rec.IsStructural {
			out = append(out, *rec)
		}
	}
	return out
}

func (s *Store) lookup(path string) (*model.FieldRecord, error) {
	rec, ok := s.records[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, path)
	}
	return rec, nil
}

func (s *Store) setAll(selected bool) {
	for _, p := range s.order {
		s.records[p].Selected = selected
	}
}
