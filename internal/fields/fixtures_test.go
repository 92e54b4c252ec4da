package fields

import "xroadfields/internal/model"

// sampleRecords mirrors a small business-register response:
//
//	keha
//	  ettevotjad
//	    nimi
//	    registrikood
//	  staatus
//	paring
//	  kood
func sampleRecords() []model.FieldRecord {
	return []model.FieldRecord{
		{Name: "keha", Path: "keha", Type: "object", IsStructural: true, Selected: true},
		{Name: "ettevotjad", Path: "keha.ettevotjad", Type: "array", Parent: "keha", IsStructural: true, Selected: true},
		{Name: "nimi", Path: "keha.ettevotjad.nimi", Type: "string", Parent: "keha.ettevotjad", Selected: true},
		{Name: "registrikood", Path: "keha.ettevotjad.registrikood", Type: "number", Parent: "keha.ettevotjad", Selected: true, Sensitive: true},
		{Name: "staatus", Path: "keha.staatus", Type: "string", Parent: "keha", Selected: true},
		{Name: "paring", Path: "paring", Type: "object", IsStructural: true, Selected: true},
		{Name: "kood", Path: "paring.kood", Type: "string", Parent: "paring", Selected: true},
	}
}

func pathsOf(entries []model.TraversalEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Record.Path)
	}
	return out
}

func selectedPaths(store *Store) map[string]bool {
	out := make(map[string]bool)
	for _, rec := range store.Records() {
		out[rec.Path] = rec.Selected
	}
	return out
}
