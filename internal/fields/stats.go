package fields

import "xroadfields/internal/model"

// Stats summarises the store for the status line.
type Stats struct {
	Visible   int // Entries currently shown
	Total     int // Records in the store
	Selected  int // Selected leaf fields
	Sensitive int // Leaf fields flagged sensitive
}

// Summarize counts store and visible entries. Structural records are never
// counted as selected or sensitive.
func Summarize(store *Store, visible []model.TraversalEntry) Stats {
	st := Stats{Visible: len(visible), Total: store.Len()}
	for _, rec := range store.Records() {
		if rec.IsStructural {
			continue
		}
		if rec.Selected {
			st.Selected++
		}
		if rec.Sensitive {
			st.Sensitive++
		}
	}
	return st
}
