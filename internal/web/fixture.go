package web

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"xroadfields/internal/model"
	"xroadfields/internal/response"
)

//go:embed fixtures/default.yaml
var defaultFixture []byte

// Fixture is the data the stand-in backend serves.
type Fixture struct {
	Services []FixtureService `json:"services"`
}

// FixtureService describes one service: its field descriptors, endpoint,
// input parameters and a sample gateway response.
type FixtureService struct {
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	Endpoint    model.Endpoint      `json:"endpoint"`
	InputParams []model.InputParam  `json:"input_params,omitempty"`
	Fields      []model.FieldRecord `json:"fields,omitempty"`
	Response    any                 `json:"response,omitempty"`
}

// Lookup returns the service called name.
func (f *Fixture) Lookup(name string) (*FixtureService, bool) {
	for i := range f.Services {
		if f.Services[i].Name == name {
			return &f.Services[i], true
		}
	}
	return nil, false
}

// DefaultFixture returns the built-in fixture.
func DefaultFixture() (*Fixture, error) {
	return ParseFixture(defaultFixture, ".yaml")
}

// LoadFixture reads a YAML or JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	fx, err := ParseFixture(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return fx, nil
}

// ParseFixture decodes fixture data; ext selects YAML (".yaml", ".yml")
// or JSON. YAML is normalised through JSON so both formats share the
// json tags of the model types.
func ParseFixture(data []byte, ext string) (*Fixture, error) {
	if ext == ".yaml" || ext == ".yml" {
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode YAML fixture: %w", err)
		}
		converted, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("convert YAML fixture: %w", err)
		}
		data = converted
	}

	var fx Fixture
	if err := json.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	if err := fx.normalize(); err != nil {
		return nil, err
	}
	return &fx, nil
}

// normalize checks service names and derives missing field lists from the
// sample response.
func (f *Fixture) normalize() error {
	seen := make(map[string]bool, len(f.Services))
	for i := range f.Services {
		svc := &f.Services[i]
		if svc.Name == "" {
			return fmt.Errorf("fixture service #%d has no name", i+1)
		}
		if seen[svc.Name] {
			return fmt.Errorf("fixture service %q is defined twice", svc.Name)
		}
		seen[svc.Name] = true

		if svc.Endpoint.Endpoint == "" {
			svc.Endpoint.Endpoint = "/" + svc.Name
		}
		if len(svc.Fields) == 0 && svc.Response != nil {
			svc.Fields = response.ExtractFields(payloadRoot(svc.Response))
		}
	}
	return nil
}

// payloadRoot strips the envelope and a single "*Response" wrapper so
// extracted paths match the ones the filter sees.
func payloadRoot(sample any) any {
	data := response.Unwrap(sample)
	if obj, ok := data.(map[string]any); ok && len(obj) == 1 {
		for key, inner := range obj {
			if response.IsWrapperKey(key) {
				return inner
			}
		}
	}
	return data
}
