package model

// FieldRecord represents a single response field of a service.
type FieldRecord struct {
	Name         string `json:"name"`                  // Leaf segment shown to the user
	Path         string `json:"path"`                  // Dot-delimited unique identifier (e.g. keha.ettevotjad.nimi)
	Type         string `json:"type"`                  // Declared type label ("string", "object", "array", ...)
	Description  string `json:"description,omitempty"` // Documentation from the schema, if any
	Parent       string `json:"parent,omitempty"`      // Path of the immediate ancestor; empty for roots
	HasChildren  bool   `json:"has_children"`          // Derived: some record names this one as parent
	IsStructural bool   `json:"is_structural"`         // Container/grouping node, never persisted
	Selected     bool   `json:"selected"`              // Included in output
	Sensitive    bool   `json:"sensitive"`             // Masked on output (only meaningful when Selected)
	Configured   bool   `json:"configured,omitempty"`  // A saved configuration exists for this field
}

// IsRoot reports whether the record declares no parent.
func (f FieldRecord) IsRoot() bool {
	return f.Parent == "" || f.Parent == f.Path
}

// TraversalEntry is a render-time view of a FieldRecord inside the built tree.
// Entries are rebuilt on every render and never persisted.
type TraversalEntry struct {
	Record             FieldRecord
	Depth              int  // Number of ancestors above this entry in the walk
	IsExpanded         bool // Path is in the expansion set
	HasVisibleChildren bool // At least one record names this path as parent
}
