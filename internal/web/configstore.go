package web

import (
	"sync"

	"xroadfields/internal/model"
)

// ConfigStore keeps saved field configurations in memory, keyed by service.
type ConfigStore struct {
	mu       sync.RWMutex
	services map[string][]model.FieldRecord
}

// NewConfigStore creates an empty store.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{services: make(map[string][]model.FieldRecord)}
}

// Save replaces the configuration of service. Records without a path are
// ignored; duplicate paths keep the first position and the last values.
func (c *ConfigStore) Save(service string, fields []model.FieldRecord) int {
	index := make(map[string]int, len(fields))
	saved := make([]model.FieldRecord, 0, len(fields))
	for _, f := range fields {
		if f.Path == "" {
			continue
		}
		f.Configured = true
		if i, ok := index[f.Path]; ok {
			saved[i] = f
			continue
		}
		index[f.Path] = len(saved)
		saved = append(saved, f)
	}

	c.mu.Lock()
	c.services[service] = saved
	c.mu.Unlock()
	return len(saved)
}

// Fields returns a copy of the saved configuration of service.
func (c *ConfigStore) Fields(service string) []model.FieldRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]model.FieldRecord(nil), c.services[service]...)
}

// Merge overlays the saved configuration of service onto records. Unsaved
// records come back selected and not sensitive.
func (c *ConfigStore) Merge(service string, records []model.FieldRecord) []model.FieldRecord {
	saved := make(map[string]model.FieldRecord)
	for _, f := range c.Fields(service) {
		saved[f.Path] = f
	}

	out := make([]model.FieldRecord, len(records))
	for i, r := range records {
		if s, ok := saved[r.Path]; ok {
			r.Selected, r.Sensitive, r.Configured = s.Selected, s.Sensitive, true
		} else {
			r.Selected, r.Sensitive, r.Configured = true, false, false
		}
		out[i] = r
	}
	return out
}

// Filter returns the selected and sensitive paths saved for service.
func (c *ConfigStore) Filter(service string) model.FilterConfig {
	cfg := model.FilterConfig{
		Service:         service,
		SelectedFields:  []string{},
		SensitiveFields: []string{},
	}
	for _, f := range c.Fields(service) {
		if f.Selected {
			cfg.SelectedFields = append(cfg.SelectedFields, f.Path)
		}
		if f.Sensitive {
			cfg.SensitiveFields = append(cfg.SensitiveFields, f.Path)
		}
	}
	return cfg
}
