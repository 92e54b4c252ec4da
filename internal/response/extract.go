package response

import (
	"sort"

	"xroadfields/internal/model"
)

// ExtractFields derives field descriptors from a sample payload. Objects and
// arrays become structural records; arrays are described by their first
// element. Keys are visited in sorted order.
func ExtractFields(data any) []model.FieldRecord {
	obj, ok := data.(map[string]any)
	if !ok {
		return nil
	}
	return extractObject(nil, obj, "")
}

func extractObject(out []model.FieldRecord, obj map[string]any, parent string) []model.FieldRecord {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := obj[key]
		path := key
		if parent != "" {
			path = parent + "." + key
		}

		rec := model.FieldRecord{
			Name:     key,
			Path:     path,
			Type:     typeName(value),
			Parent:   parent,
			Selected: true,
		}
		switch v := value.(type) {
		case map[string]any:
			rec.IsStructural, rec.HasChildren = true, true
			out = append(out, rec)
			out = extractObject(out, v, path)
		case []any:
			rec.IsStructural, rec.HasChildren = true, true
			out = append(out, rec)
			if len(v) > 0 {
				if first, ok := v[0].(map[string]any); ok {
					out = extractObject(out, first, path)
				}
			}
		default:
			out = append(out, rec)
		}
	}
	return out
}

func typeName(v any) string {
	switch v.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case int64, int:
		return "integer"
	case nil:
		return "null"
	default:
		return "unknown"
	}
}
