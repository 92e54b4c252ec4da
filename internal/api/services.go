package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"xroadfields/internal/model"
)

// ListServices returns the operations advertised by the WSDL at wsdlURL.
func (c *Client) ListServices(ctx context.Context, wsdlURL string) ([]model.Service, error) {
	path := "/api/services/list"
	if wsdlURL != "" {
		path += "?" + url.Values{"wsdl_url": {wsdlURL}}.Encode()
	}

	var resp struct {
		Services []model.Service `json:"services"`
	}
	if err := c.DoJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return resp.Services, nil
}

// ServiceFields returns the field descriptors, endpoint and input
// parameters of a service.
func (c *Client) ServiceFields(ctx context.Context, service string) (model.ServiceFields, error) {
	var resp model.ServiceFields
	path := "/api/services/fields/" + url.PathEscape(service)
	if err := c.DoJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return model.ServiceFields{}, fmt.Errorf("load fields of %s: %w", service, err)
	}
	if resp.Service == "" {
		resp.Service = service
	}
	return resp, nil
}

// SaveFields submits the leaf-field configuration of a service.
func (c *Client) SaveFields(ctx context.Context, service string, fields []model.FieldRecord) error {
	req := struct {
		Service string              `json:"service"`
		Fields  []model.FieldRecord `json:"fields"`
	}{service, fields}
	if req.Fields == nil {
		req.Fields = []model.FieldRecord{}
	}
	return c.DoJSON(ctx, http.MethodPost, "/api/config/fields", req, nil)
}

// SendRequest sends a test request through the gateway. Error replies that
// carry a status field are returned as a result rather than an error.
func (c *Client) SendRequest(ctx context.Context, service, endpoint string, params map[string]string) (model.RequestResult, error) {
	req := struct {
		Service  string            `json:"service"`
		Endpoint string            `json:"endpoint"`
		Params   map[string]string `json:"params"`
	}{service, endpoint, params}
	if req.Params == nil {
		req.Params = map[string]string{}
	}

	const path = "/api/request/send"
	body, code, err := c.do(ctx, http.MethodPost, path, req)
	if err != nil {
		return model.RequestResult{}, fmt.Errorf("send request: %w", err)
	}

	var result model.RequestResult
	if jsonErr := json.Unmarshal(body, &result); jsonErr == nil && result.Status != "" {
		if result.StatusCode == 0 && result.Failed() {
			result.StatusCode = code
		}
		return result, nil
	}
	if code < 200 || code > 299 {
		return model.RequestResult{}, fmt.Errorf("send request: %w", newStatusError(http.MethodPost, path, code, body))
	}
	return model.RequestResult{}, fmt.Errorf("send request: reply has no status")
}

// FilterConfig returns the saved selected and sensitive paths of a service.
func (c *Client) FilterConfig(ctx context.Context, service string) (model.FilterConfig, error) {
	var resp model.FilterConfig
	path := "/api/config/service/" + url.PathEscape(service) + "/filter"
	if err := c.DoJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return model.FilterConfig{}, fmt.Errorf("load filter config of %s: %w", service, err)
	}
	if resp.Service == "" {
		resp.Service = service
	}
	return resp, nil
}

// Health checks that the backend is reachable.
func (c *Client) Health(ctx context.Context) error {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.DoJSON(ctx, http.MethodGet, "/api/health", nil, &resp); err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	if resp.Status != "" && resp.Status != "healthy" && resp.Status != "ok" {
		return fmt.Errorf("health check: backend reports %q", resp.Status)
	}
	return nil
}
