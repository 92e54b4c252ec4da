// Package response turns gateway response payloads into displayable lines
// and applies saved field configurations to them.
package response

import (
	"fmt"
	"sort"
	"strconv"

	"xroadfields/internal/model"
)

// Kind classifies a rendered value for styling.
type Kind int

const (
	KindObject Kind = iota
	KindArray
	KindString
	KindNumber
	KindBool
	KindNull
	KindMasked
)

// Line is one row of a rendered response.
type Line struct {
	Depth int
	Key   string
	Value string
	Kind  Kind
}

// Render flattens data into indented lines. Object keys are sorted, array
// elements are labelled by index and MaskToken values become KindMasked.
func Render(data any) []Line {
	var lines []Line
	switch v := data.(type) {
	case map[string]any:
		lines = renderObject(lines, v, 0)
	case []any:
		lines = renderArray(lines, v, 0)
	default:
		lines = append(lines, scalarLine(0, "", v))
	}
	return lines
}

func renderObject(lines []Line, obj map[string]any, depth int) []Line {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		lines = renderValue(lines, k, obj[k], depth)
	}
	return lines
}

func renderArray(lines []Line, arr []any, depth int) []Line {
	for i, item := range arr {
		lines = renderValue(lines, "["+strconv.Itoa(i)+"]", item, depth)
	}
	return lines
}

func renderValue(lines []Line, key string, v any, depth int) []Line {
	switch v := v.(type) {
	case map[string]any:
		lines = append(lines, Line{Depth: depth, Key: key, Value: fmt.Sprintf("{%d}", len(v)), Kind: KindObject})
		return renderObject(lines, v, depth+1)
	case []any:
		lines = append(lines, Line{Depth: depth, Key: key, Value: fmt.Sprintf("[%d]", len(v)), Kind: KindArray})
		return renderArray(lines, v, depth+1)
	default:
		return append(lines, scalarLine(depth, key, v))
	}
}

func scalarLine(depth int, key string, v any) Line {
	line := Line{Depth: depth, Key: key}
	switch v := v.(type) {
	case nil:
		line.Kind, line.Value = KindNull, "null"
	case string:
		if IsMasked(v) {
			line.Kind, line.Value = KindMasked, model.IconMasked+" masked"
		} else {
			line.Kind, line.Value = KindString, v
		}
	case bool:
		line.Kind, line.Value = KindBool, strconv.FormatBool(v)
	case float64:
		line.Kind, line.Value = KindNumber, strconv.FormatFloat(v, 'f', -1, 64)
	case int64:
		line.Kind, line.Value = KindNumber, strconv.FormatInt(v, 10)
	case int:
		line.Kind, line.Value = KindNumber, strconv.Itoa(v)
	default:
		line.Kind, line.Value = KindString, fmt.Sprint(v)
	}
	return line
}

// IsMasked reports whether s is the reserved mask token.
func IsMasked(s string) bool {
	return s == model.MaskToken
}

// CountMasked returns the number of masked values in data.
func CountMasked(data any) int {
	switch v := data.(type) {
	case string:
		if IsMasked(v) {
			return 1
		}
	case map[string]any:
		n := 0
		for _, item := range v {
			n += CountMasked(item)
		}
		return n
	case []any:
		n := 0
		for _, item := range v {
			n += CountMasked(item)
		}
		return n
	}
	return 0
}
