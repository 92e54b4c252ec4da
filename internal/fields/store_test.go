package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xroadfields/internal/model"
)

func TestStore_PathsAreUnique(t *testing.T) {
	records := append(sampleRecords(), model.FieldRecord{
		Name: "staatus", Path: "keha.staatus", Type: "string", Parent: "keha", Selected: false, Sensitive: true,
	})
	s := NewStore(records)

	assert.Equal(t, len(sampleRecords()), s.Len())
	seen := make(map[string]bool)
	for _, rec := range s.Records() {
		assert.False(t, seen[rec.Path], "duplicate path %s", rec.Path)
		seen[rec.Path] = true
	}

	// First occurrence keeps its position, last occurrence wins on values.
	assert.Equal(t, "keha.staatus", s.Records()[4].Path)
	rec, ok := s.Get("keha.staatus")
	require.True(t, ok)
	assert.False(t, rec.Selected)
	assert.True(t, rec.Sensitive)
}

func TestStore_HasChildrenIsDerived(t *testing.T) {
	records := sampleRecords()
	records[4].HasChildren = true  // stale flag on a leaf
	records[0].HasChildren = false // missing flag on a container
	s := NewStore(records)

	for _, rec := range s.Records() {
		assert.Equal(t, len(s.Children(rec.Path)) > 0, rec.HasChildren, rec.Path)
	}
	keha, _ := s.Get("keha")
	assert.True(t, keha.HasChildren)
	staatus, _ := s.Get("keha.staatus")
	assert.False(t, staatus.HasChildren)
}

func TestStore_ChildrenKeepLoadOrder(t *testing.T) {
	s := NewStore(sampleRecords())

	assert.Equal(t, []string{"keha", "paring"}, s.Roots())
	assert.Equal(t, []string{"keha.ettevotjad", "keha.staatus"}, s.Children("keha"))
	assert.Equal(t, []string{"keha.ettevotjad.nimi", "keha.ettevotjad.registrikood"}, s.Children("keha.ettevotjad"))
	assert.Empty(t, s.Children("paring.kood"))
}

func TestStore_Descendants(t *testing.T) {
	s := NewStore(sampleRecords())

	assert.ElementsMatch(t, []string{
		"keha.ettevotjad", "keha.ettevotjad.nimi", "keha.ettevotjad.registrikood", "keha.staatus",
	}, s.Descendants("keha"))
	assert.Empty(t, s.Descendants("keha.staatus"))
	assert.Empty(t, s.Descendants("missing"))
}

func TestStore_OrphanBecomesRoot(t *testing.T) {
	s := NewStore([]model.FieldRecord{
		{Name: "a", Path: "a"},
		{Name: "c", Path: "x.c", Parent: "x"},
	})

	assert.Equal(t, []string{"a", "x.c"}, s.Roots())
}

func TestStore_ParentCycleIsPromoted(t *testing.T) {
	s := NewStore([]model.FieldRecord{
		{Name: "c", Path: "c", Parent: "a"},
		{Name: "a", Path: "a", Parent: "b"},
		{Name: "b", Path: "b", Parent: "a"},
		{Name: "self", Path: "self", Parent: "self"},
	})

	assert.Equal(t, []string{"a", "self"}, s.Roots())
	assert.ElementsMatch(t, []string{"b", "c"}, s.Descendants("a"))
}

func TestStore_PromotedRootKeepsLoadPosition(t *testing.T) {
	s := NewStore([]model.FieldRecord{
		{Name: "x", Path: "x", Parent: "y"},
		{Name: "y", Path: "y", Parent: "x"},
		{Name: "o", Path: "o"},
	})

	assert.Equal(t, []string{"x", "o"}, s.Roots())

	exp := NewExpansion()
	exp.ExpandAll(s)
	var order []string
	for _, e := range Build(s, exp) {
		order = append(order, e.Record.Path)
	}
	assert.Equal(t, []string{"x", "y", "o"}, order)
}

func TestStore_LeafRecordsExcludeStructural(t *testing.T) {
	s := NewStore(sampleRecords())

	leaves := s.LeafRecords()
	require.Len(t, leaves, 4)
	for _, rec := range leaves {
		assert.False(t, rec.IsStructural, rec.Path)
	}
	assert.Equal(t, "keha.ettevotjad.nimi", leaves[0].Path)
	assert.Equal(t, "paring.kood", leaves[3].Path)
}

func TestStore_SetFlags(t *testing.T) {
	s := NewStore(sampleRecords())

	require.NoError(t, s.SetSelected("keha.staatus", false))
	require.NoError(t, s.SetSensitive("keha.staatus", true))
	rec, _ := s.Get("keha.staatus")
	assert.False(t, rec.Selected)
	assert.True(t, rec.Sensitive)

	assert.ErrorIs(t, s.SetSelected("nope", true), ErrUnknownField)
	assert.ErrorIs(t, s.SetSensitive("nope", true), ErrUnknownField)
}

func TestStore_GetReturnsCopy(t *testing.T) {
	s := NewStore(sampleRecords())

	rec, _ := s.Get("paring.kood")
	rec.Selected = false
	again, _ := s.Get("paring.kood")
	assert.True(t, again.Selected)
}

func TestStore_ReplaceAllDropsPreviousState(t *testing.T) {
	s := NewStore(sampleRecords())
	require.NoError(t, s.SetSelected("paring.kood", false))

	s.ReplaceAll([]model.FieldRecord{{Name: "x", Path: "x", Selected: true}})

	assert.Equal(t, 1, s.Len())
	_, ok := s.Get("paring.kood")
	assert.False(t, ok)
	assert.Equal(t, []string{"x"}, s.Roots())
}
