package model

// Centralized icons for the UI components
// Using simple single-width characters for consistent terminal rendering
const (
	IconExpanded   = "▼" // Open structural node
	IconCollapsed  = "▶" // Closed structural node
	IconLeaf       = " " // Leaf field (no icon to reduce noise)
	IconStructural = "□" // Container/grouping node
	IconChecked    = "✓"
	IconUnchecked  = " "
	IconSensitive  = "●" // Value masked on output
	IconMasked     = "■" // Masked response value
	IconDisabled   = "·" // Control not available for this row
)
