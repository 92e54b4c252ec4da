package response

import (
	"strings"

	"xroadfields/internal/model"
)

// Apply reduces data to the selected paths of cfg and masks the sensitive
// ones. With nothing selected data is returned as is. A top-level object
// with a single "*Response" or "*_response" key is treated as a wrapper
// and filtered from inside.
func Apply(data any, cfg model.FilterConfig) any {
	if len(cfg.SelectedFields) == 0 {
		return data
	}
	f := newPathFilter(cfg)

	obj, ok := data.(map[string]any)
	if !ok {
		return data
	}
	if len(obj) == 1 {
		for key, inner := range obj {
			if IsWrapperKey(key) {
				filtered := f.apply(inner, "")
				if m, ok := filtered.(map[string]any); ok && len(m) == 0 {
					return map[string]any{}
				}
				return map[string]any{key: filtered}
			}
		}
	}
	return f.apply(obj, "")
}

// IsWrapperKey reports whether key names a service response wrapper element.
func IsWrapperKey(key string) bool {
	return strings.Contains(key, "Response") || strings.HasSuffix(key, "_response")
}

type pathFilter struct {
	selected  map[string]bool
	sensitive map[string]bool
}

func newPathFilter(cfg model.FilterConfig) *pathFilter {
	f := &pathFilter{
		selected:  make(map[string]bool, len(cfg.SelectedFields)),
		sensitive: make(map[string]bool, len(cfg.SensitiveFields)),
	}
	for _, p := range cfg.SelectedFields {
		f.selected[p] = true
	}
	for _, p := range cfg.SensitiveFields {
		f.sensitive[p] = true
	}
	return f
}

// leadsToSelected reports whether path is selected or an ancestor of a
// selected path.
func (f *pathFilter) leadsToSelected(path string) bool {
	if f.selected[path] {
		return true
	}
	prefix := path + "."
	for p := range f.selected {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

func (f *pathFilter) apply(data any, base string) any {
	obj, ok := data.(map[string]any)
	if !ok {
		return data
	}

	out := make(map[string]any, len(obj))
	for key, value := range obj {
		path := key
		if base != "" {
			path = base + "." + key
		}
		if !f.leadsToSelected(path) {
			continue
		}

		switch v := value.(type) {
		case map[string]any:
			out[key] = f.apply(v, path)
		case []any:
			items := make([]any, 0, len(v))
			for _, item := range v {
				if m, ok := item.(map[string]any); ok {
					if filtered := f.apply(m, path).(map[string]any); len(filtered) > 0 {
						items = append(items, filtered)
					}
					continue
				}
				items = append(items, item)
			}
			if len(items) > 0 || len(v) == 0 {
				out[key] = items
			}
		default:
			if !f.selected[path] {
				continue
			}
			if f.sensitive[path] {
				out[key] = model.MaskToken
			} else {
				out[key] = value
			}
		}
	}
	return out
}
