package fields

import (
	"slices"

	"xroadfields/internal/model"
)

// Expansion tracks which structural nodes are open. It survives selection and
// sensitivity edits and resets only when the set of field paths changes.
type Expansion struct {
	open     map[string]struct{}
	baseline []string
}

// NewExpansion returns an empty expansion set with no baseline.
func NewExpansion() *Expansion {
	return &Expansion{open: make(map[string]struct{})}
}

// IsExpanded reports whether path is open.
func (e *Expansion) IsExpanded(path string) bool {
	_, ok := e.open[path]
	return ok
}

// Toggle flips path and returns its new state.
func (e *Expansion) Toggle(path string) bool {
	if e.IsExpanded(path) {
		delete(e.open, path)
		return false
	}
	e.open[path] = struct{}{}
	return true
}

// Set opens or closes path.
func (e *Expansion) Set(path string, open bool) {
	if open {
		e.open[path] = struct{}{}
		return
	}
	delete(e.open, path)
}

// ExpandAll opens every node that has children.
func (e *Expansion) ExpandAll(store *Store) {
	e.open = make(map[string]struct{})
	for _, rec := range store.Records() {
		if rec.HasChildren {
			e.open[rec.Path] = struct{}{}
		}
	}
}

// CollapseAll closes every node.
func (e *Expansion) CollapseAll() {
	e.open = make(map[string]struct{})
}

// OnStructureChange compares the sorted path set of records with the last
// seen one. When they differ, the expansion set is reset to the root paths
// and the new set becomes the baseline. It reports whether a reset happened.
func (e *Expansion) OnStructureChange(records []model.FieldRecord) bool {
	paths := make([]string, 0, len(records))
	for _, r := range records {
		paths = append(paths, r.Path)
	}
	slices.Sort(paths)
	paths = slices.Compact(paths)

	if slices.Equal(paths, e.baseline) {
		return false
	}

	e.open = make(map[string]struct{})
	for _, r := range records {
		if r.IsRoot() {
			e.open[r.Path] = struct{}{}
		}
	}
	e.baseline = paths
	return true
}

// Paths returns the open paths in sorted order.
func (e *Expansion) Paths() []string {
	out := make([]string, 0, len(e.open))
	for p := range e.open {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// Len returns the number of open paths.
func (e *Expansion) Len() int {
	return len(e.open)
}
