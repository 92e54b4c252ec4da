package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"xroadfields/internal/fields"
	"xroadfields/internal/model"
)

func sampleStore() *fields.Store {
	return fields.NewStore([]model.FieldRecord{
		{Name: "keha", Path: "keha", Type: "complex", IsStructural: true, Selected: true},
		{Name: "nimi", Path: "keha.nimi", Parent: "keha", Type: "string", Selected: true, Description: "Ärinimi"},
		{Name: "kood", Path: "keha.kood", Parent: "keha", Type: "string", Selected: true, Sensitive: true},
		{Name: "staatus", Path: "keha.staatus", Parent: "keha", Type: "string"},
	})
}

func TestGenerate(t *testing.T) {
	out := Generate("detailandmed_v2", sampleStore(), "/detailandmed_v2", false)

	assert.Contains(t, out, "FIELD CONFIGURATION: detailandmed_v2")
	assert.Contains(t, out, "Endpoint:  /detailandmed_v2")
	assert.Contains(t, out, "Fields:    4 (3 leaf)")
	assert.Contains(t, out, "Selected:  2")
	assert.Contains(t, out, "Sensitive: 1")
	assert.Contains(t, out, "["+model.IconChecked+"] "+model.IconSensitive+"   kood\n")
	assert.Contains(t, out, "["+model.IconUnchecked+"]     staatus\n")
	assert.NotContains(t, out, "Ärinimi")

	keha := strings.Index(out, " keha\n")
	nimi := strings.Index(out, "nimi\n")
	assert.True(t, keha >= 0 && keha < nimi, "parent precedes children")
}

func TestGenerate_Verbose(t *testing.T) {
	out := Generate("svc", sampleStore(), "", true)

	assert.NotContains(t, out, "Endpoint:")
	assert.Contains(t, out, "nimi  (keha.nimi, string)  Ärinimi")
}

func TestGenerate_Empty(t *testing.T) {
	out := Generate("svc", fields.NewStore(nil), "", false)
	assert.Contains(t, out, "(no fields)")
}
