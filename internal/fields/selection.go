package fields

import "fmt"

// ToggleSelected sets the selected flag of path. Deselecting a node that has
// children also deselects every descendant. Selecting never cascades, in
// either direction.
func ToggleSelected(store *Store, path string, selected bool) error {
	if err := store.SetSelected(path, selected); err != nil {
		return err
	}
	if selected {
		return nil
	}

	rec, _ := store.Get(path)
	if !rec.HasChildren {
		return nil
	}
	for _, p := range store.Descendants(path) {
		store.records[p].Selected = false
	}
	return nil
}

// ToggleSensitive flips the sensitive flag of a single leaf field. It does not
// require the field to be selected and does not select it.
func ToggleSensitive(store *Store, path string) error {
	rec, err := store.lookup(path)
	if err != nil {
		return err
	}
	if rec.IsStructural {
		return fmt.Errorf("%w: %s", ErrStructuralField, path)
	}
	rec.Sensitive = !rec.Sensitive
	return nil
}

// SelectAll marks every record, structural ones included, as selected.
func SelectAll(store *Store) {
	store.setAll(true)
}

// DeselectAll clears the selected flag on every record.
func DeselectAll(store *Store) {
	store.setAll(false)
}
