package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xroadfields/internal/model"
)

func TestToggleSelected_CascadesToAllDescendants(t *testing.T) {
	s := NewStore(sampleRecords())

	require.NoError(t, ToggleSelected(s, "keha", false))

	got := selectedPaths(s)
	assert.False(t, got["keha"])
	assert.False(t, got["keha.ettevotjad"])
	assert.False(t, got["keha.ettevotjad.nimi"])
	assert.False(t, got["keha.ettevotjad.registrikood"])
	assert.False(t, got["keha.staatus"])
	// Non-descendants untouched.
	assert.True(t, got["paring"])
	assert.True(t, got["paring.kood"])
}

func TestToggleSelected_SelectDoesNotCascade(t *testing.T) {
	s := NewStore(sampleRecords())
	DeselectAll(s)
	before := selectedPaths(s)

	require.NoError(t, ToggleSelected(s, "keha.ettevotjad.nimi", true))

	after := selectedPaths(s)
	for p, v := range before {
		if p == "keha.ettevotjad.nimi" {
			assert.True(t, after[p])
			continue
		}
		assert.Equal(t, v, after[p], p)
	}
}

func TestToggleSelected_ReselectingParentLeavesChildrenOff(t *testing.T) {
	s := NewStore(sampleRecords())
	require.NoError(t, ToggleSelected(s, "keha.ettevotjad", false))
	require.NoError(t, ToggleSelected(s, "keha.ettevotjad", true))

	got := selectedPaths(s)
	assert.True(t, got["keha.ettevotjad"])
	assert.False(t, got["keha.ettevotjad.nimi"])
	assert.False(t, got["keha.ettevotjad.registrikood"])
}

func TestToggleSelected_StructuralScenario(t *testing.T) {
	s := NewStore([]model.FieldRecord{
		{Path: "a", HasChildren: true, IsStructural: true},
		{Path: "a.b", Parent: "a", Selected: true},
		{Path: "a.c", Parent: "a", Selected: true},
	})

	require.NoError(t, ToggleSelected(s, "a", false))

	b, _ := s.Get("a.b")
	c, _ := s.Get("a.c")
	assert.False(t, b.Selected)
	assert.False(t, c.Selected)
}

func TestToggleSelected_KeepsSensitiveFlag(t *testing.T) {
	s := NewStore(sampleRecords())

	require.NoError(t, ToggleSelected(s, "keha", false))

	rec, _ := s.Get("keha.ettevotjad.registrikood")
	assert.False(t, rec.Selected)
	assert.True(t, rec.Sensitive)
}

func TestToggleSelected_CycleTerminates(t *testing.T) {
	s := NewStore([]model.FieldRecord{
		{Path: "a", Parent: "b", Selected: true},
		{Path: "b", Parent: "a", Selected: true},
	})

	require.NoError(t, ToggleSelected(s, "a", false))

	got := selectedPaths(s)
	assert.False(t, got["a"])
	assert.False(t, got["b"])
}

func TestToggleSelected_UnknownPath(t *testing.T) {
	s := NewStore(sampleRecords())
	assert.ErrorIs(t, ToggleSelected(s, "missing", false), ErrUnknownField)
}

func TestToggleSensitive(t *testing.T) {
	s := NewStore([]model.FieldRecord{
		{Path: "group", IsStructural: true},
		{Path: "group.id", Parent: "group", Selected: false, Sensitive: true},
	})

	rec, _ := s.Get("group.id")
	assert.False(t, rec.Selected)
	assert.True(t, rec.Sensitive)

	require.NoError(t, ToggleSensitive(s, "group.id"))
	rec, _ = s.Get("group.id")
	assert.False(t, rec.Sensitive)
	assert.False(t, rec.Selected, "toggling sensitivity must not select the field")

	require.NoError(t, ToggleSensitive(s, "group.id"))
	rec, _ = s.Get("group.id")
	assert.True(t, rec.Sensitive)

	assert.ErrorIs(t, ToggleSensitive(s, "group"), ErrStructuralField)
	assert.ErrorIs(t, ToggleSensitive(s, "nope"), ErrUnknownField)
}

func TestSelectAllAndDeselectAll(t *testing.T) {
	s := NewStore(sampleRecords())

	DeselectAll(s)
	for p, v := range selectedPaths(s) {
		assert.False(t, v, p)
	}

	SelectAll(s)
	for p, v := range selectedPaths(s) {
		assert.True(t, v, p)
	}
	paring, _ := s.Get("paring")
	assert.True(t, paring.Selected, "structural records are included")
}
