package fields

import "xroadfields/internal/model"

// Build walks the store depth-first from its roots and returns the visible
// traversal. Children of a node are emitted only while the node is expanded.
// A path is emitted at most once per walk.
func Build(store *Store, expansion *Expansion) []model.TraversalEntry {
	type frame struct {
		path  string
		depth int
	}

	roots := store.Roots()
	stack := make([]frame, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{path: roots[i]})
	}

	entries := make([]model.TraversalEntry, 0, store.Len())
	visited := make(map[string]bool, store.Len())

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[f.path] {
			continue
		}
		visited[f.path] = true

		rec, _ := store.Get(f.path)
		children := store.Children(f.path)
		expanded := expansion.IsExpanded(f.path)

		entries = append(entries, model.TraversalEntry{
			Record:             rec,
			Depth:              f.depth,
			IsExpanded:         expanded,
			HasVisibleChildren: len(children) > 0,
		})

		if !expanded {
			continue
		}
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{path: children[i], depth: f.depth + 1})
		}
	}

	return entries
}
