package response

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xroadfields/internal/model"
)

func samplePayload() map[string]any {
	return map[string]any{
		"keha": map[string]any{
			"ettevotjad": []any{
				map[string]any{"nimi": "Näide OÜ", "registrikood": "12345678", "staatus": "R"},
				map[string]any{"nimi": "Teine AS", "registrikood": "87654321", "staatus": "L"},
			},
			"leitud": float64(2),
			"sildid": []any{"a", "b"},
		},
		"paring": map[string]any{"kood": "12345678"},
	}
}

func TestRender(t *testing.T) {
	lines := Render(map[string]any{
		"b": []any{true, nil},
		"a": map[string]any{"x": float64(1.5), "secret": model.MaskToken},
	})

	want := []Line{
		{Depth: 0, Key: "a", Value: "{2}", Kind: KindObject},
		{Depth: 1, Key: "secret", Value: model.IconMasked + " masked", Kind: KindMasked},
		{Depth: 1, Key: "x", Value: "1.5", Kind: KindNumber},
		{Depth: 0, Key: "b", Value: "[2]", Kind: KindArray},
		{Depth: 1, Key: "[0]", Value: "true", Kind: KindBool},
		{Depth: 1, Key: "[1]", Value: "null", Kind: KindNull},
	}
	assert.Equal(t, want, lines)
}

func TestMaskedMarkerIsSingleCell(t *testing.T) {
	lines := Render(map[string]any{"isikukood": model.MaskToken})
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lipgloss.Width(model.IconMasked))
	assert.Equal(t, len([]rune(lines[0].Value)), lipgloss.Width(lines[0].Value))
}

func TestRender_Scalar(t *testing.T) {
	assert.Equal(t, []Line{{Value: "plain", Kind: KindString}}, Render("plain"))
	assert.Equal(t, []Line{{Value: "42", Kind: KindNumber}}, Render(int64(42)))
}

func TestCountMasked(t *testing.T) {
	data := map[string]any{
		"a": model.MaskToken,
		"b": []any{model.MaskToken, "x", map[string]any{"c": model.MaskToken}},
	}
	assert.Equal(t, 3, CountMasked(data))
	assert.Zero(t, CountMasked(samplePayload()))
}

func TestApply_NothingSelectedReturnsData(t *testing.T) {
	data := samplePayload()
	assert.Equal(t, data, Apply(data, model.FilterConfig{}))
}

func TestApply_SelectsAndMasks(t *testing.T) {
	got := Apply(samplePayload(), model.FilterConfig{
		SelectedFields:  []string{"keha.ettevotjad.nimi", "keha.ettevotjad.registrikood", "keha.sildid"},
		SensitiveFields: []string{"keha.ettevotjad.registrikood"},
	})

	want := map[string]any{
		"keha": map[string]any{
			"ettevotjad": []any{
				map[string]any{"nimi": "Näide OÜ", "registrikood": model.MaskToken},
				map[string]any{"nimi": "Teine AS", "registrikood": model.MaskToken},
			},
			"sildid": []any{"a", "b"},
		},
	}
	assert.Equal(t, want, got)
}

func TestApply_DropsEmptyListItems(t *testing.T) {
	data := map[string]any{
		"rows": []any{
			map[string]any{"x": "1"},
			map[string]any{"y": "2"},
		},
	}
	got := Apply(data, model.FilterConfig{SelectedFields: []string{"rows.x"}})
	assert.Equal(t, map[string]any{"rows": []any{map[string]any{"x": "1"}}}, got)
}

func TestApply_KeepsEmptyStructures(t *testing.T) {
	data := map[string]any{
		"list":  []any{},
		"inner": map[string]any{"other": "v"},
	}
	got := Apply(data, model.FilterConfig{SelectedFields: []string{"list", "inner.missing"}})
	assert.Equal(t, map[string]any{"list": []any{}, "inner": map[string]any{}}, got)
}

func TestApply_DescendsIntoResponseWrapper(t *testing.T) {
	data := map[string]any{
		"detailandmedResponse": map[string]any{
			"nimi": "Näide OÜ",
			"kood": "12345678",
		},
	}

	got := Apply(data, model.FilterConfig{
		SelectedFields:  []string{"kood"},
		SensitiveFields: []string{"kood"},
	})
	assert.Equal(t, map[string]any{
		"detailandmedResponse": map[string]any{"kood": model.MaskToken},
	}, got)

	empty := Apply(data, model.FilterConfig{SelectedFields: []string{"absent"}})
	assert.Equal(t, map[string]any{}, empty)
}

func TestApply_Idempotent(t *testing.T) {
	cfg := model.FilterConfig{
		SelectedFields:  []string{"keha.ettevotjad.nimi", "paring.kood"},
		SensitiveFields: []string{"paring.kood"},
	}
	once := Apply(samplePayload(), cfg)
	assert.Equal(t, once, Apply(once, cfg))
}

func TestUnwrap(t *testing.T) {
	payload := map[string]any{"keha": "x"}

	withData := map[string]any{
		"response": map[string]any{
			"response": map[string]any{
				"body": map[string]any{"success": true, "data": payload},
			},
		},
	}
	assert.Equal(t, payload, Unwrap(withData))

	bodyOnly := map[string]any{
		"response": map[string]any{
			"response": map[string]any{"body": payload},
		},
	}
	assert.Equal(t, payload, Unwrap(bodyOnly))

	assert.Equal(t, payload, Unwrap(payload))
	assert.Equal(t, "text", Unwrap("text"))
}

func TestRawJSONAndParse(t *testing.T) {
	raw := RawJSON(map[string]any{"b": int64(1), "a": "x"})
	assert.Contains(t, raw, "\n  \"a\"")
	assert.Less(t, strings.Index(raw, "\"a\""), strings.Index(raw, "\"b\""))

	parsed, err := Parse([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": "x", "b": int64(1)}, parsed)

	_, err = Parse([]byte("{broken"))
	assert.ErrorContains(t, err, "parse response")
}

func TestSize(t *testing.T) {
	assert.Equal(t, "7 B", Size(map[string]any{"a": int64(1)}))
}

func TestExtractFields(t *testing.T) {
	records := ExtractFields(samplePayload())

	var paths []string
	for _, r := range records {
		paths = append(paths, r.Path)
	}
	assert.Equal(t, []string{
		"keha",
		"keha.ettevotjad",
		"keha.ettevotjad.nimi",
		"keha.ettevotjad.registrikood",
		"keha.ettevotjad.staatus",
		"keha.leitud",
		"keha.sildid",
		"paring",
		"paring.kood",
	}, paths)

	byPath := make(map[string]model.FieldRecord, len(records))
	for _, r := range records {
		byPath[r.Path] = r
	}
	assert.True(t, byPath["keha.ettevotjad"].IsStructural)
	assert.Equal(t, "keha.ettevotjad", byPath["keha.ettevotjad.nimi"].Parent)
	assert.Equal(t, "", byPath["keha"].Parent)
	assert.Equal(t, "number", byPath["keha.leitud"].Type)
	assert.True(t, byPath["keha.sildid"].IsStructural)
	assert.False(t, byPath["paring.kood"].IsStructural)

	assert.Nil(t, ExtractFields([]any{1}))
}
