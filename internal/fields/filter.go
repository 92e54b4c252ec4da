package fields

import (
	"strings"

	"golang.org/x/text/cases"

	"xroadfields/internal/model"
)

// Filter returns the entries whose name or path contains query, ignoring case.
// It works on the already built traversal: ancestors of a match are not
// added back and matches inside collapsed branches are not surfaced.
func Filter(entries []model.TraversalEntry, query string) []model.TraversalEntry {
	if query == "" {
		return entries
	}

	fold := cases.Fold()
	q := fold.String(query)

	out := make([]model.TraversalEntry, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(fold.String(e.Record.Name), q) || strings.Contains(fold.String(e.Record.Path), q) {
			out = append(out, e)
		}
	}
	return out
}
