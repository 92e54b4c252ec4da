// Package report renders the field configuration of a service as plain text.
package report

import (
	"fmt"
	"strings"

	"xroadfields/internal/fields"
	"xroadfields/internal/model"
)

const rule = "================================================================================"

// Generate returns a text report of the fully expanded field tree of
// service. Verbose adds paths, types and descriptions.
func Generate(service string, store *fields.Store, endpoint string, verbose bool) string {
	var sb strings.Builder

	exp := fields.NewExpansion()
	exp.ExpandAll(store)
	entries := fields.Build(store, exp)
	stats := fields.Summarize(store, entries)

	sb.WriteString(rule + "\n")
	fmt.Fprintf(&sb, "FIELD CONFIGURATION: %s\n", service)
	sb.WriteString(rule + "\n")
	if endpoint != "" {
		fmt.Fprintf(&sb, "Endpoint:  %s\n", endpoint)
	}
	fmt.Fprintf(&sb, "Fields:    %d (%d leaf)\n", stats.Total, len(store.LeafRecords()))
	fmt.Fprintf(&sb, "Selected:  %d\n", stats.Selected)
	fmt.Fprintf(&sb, "Sensitive: %d\n", stats.Sensitive)
	sb.WriteString("\n")

	if len(entries) == 0 {
		sb.WriteString("(no fields)\n")
		return sb.String()
	}

	for _, e := range entries {
		writeEntry(&sb, e, verbose)
	}

	sb.WriteString("\nLegend: " + model.IconChecked + " selected  " +
		model.IconSensitive + " sensitive  " + model.IconStructural + " structural\n")
	return sb.String()
}

func writeEntry(sb *strings.Builder, e model.TraversalEntry, verbose bool) {
	rec := e.Record
	indent := strings.Repeat("  ", e.Depth)

	mark := "[" + model.IconUnchecked + "]"
	if rec.Selected {
		mark = "[" + model.IconChecked + "]"
	}
	if rec.IsStructural {
		mark = " " + model.IconStructural + " "
	}

	sens := " "
	if rec.Sensitive && !rec.IsStructural {
		sens = model.IconSensitive
	}

	fmt.Fprintf(sb, "%s %s %s%s", mark, sens, indent, rec.Name)
	if verbose {
		fmt.Fprintf(sb, "  (%s", rec.Path)
		if rec.Type != "" {
			fmt.Fprintf(sb, ", %s", rec.Type)
		}
		sb.WriteString(")")
		if rec.Description != "" {
			fmt.Fprintf(sb, "  %s", rec.Description)
		}
	}
	sb.WriteString("\n")
}
