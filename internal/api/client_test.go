package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xroadfields/internal/model"
	"xroadfields/internal/session"
)

var _ session.Sink = (*Client)(nil)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", 5*time.Second)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestListServices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/services/list", r.URL.Path)
		assert.Equal(t, "https://ariregxmlv6.rik.ee/?wsdl", r.URL.Query().Get("wsdl_url"))
		writeJSON(w, http.StatusOK, map[string]any{
			"services": []map[string]string{
				{"name": "detailandmed_v2", "description": "Company details"},
				{"name": "lihtandmed_v2"},
			},
		})
	})

	services, err := client.ListServices(context.Background(), "https://ariregxmlv6.rik.ee/?wsdl")
	require.NoError(t, err)
	require.Len(t, services, 2)
	assert.Equal(t, "detailandmed_v2", services[0].Name)
	assert.Equal(t, "Company details", services[0].Description)
}

func TestServiceFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/services/fields/detailandmed v2", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"fields": [
				{"name": "keha", "path": "keha", "type": "complex", "parent": null, "has_children": true, "is_structural": true, "selected": true, "sensitive": false},
				{"name": "nimi", "path": "keha.nimi", "type": "string", "parent": "keha", "has_children": false, "is_structural": false, "selected": true, "sensitive": true}
			],
			"endpoint": {"endpoint": "/detailandmed_v2", "method": "POST"},
			"input_params": [{"name": "ariregistri_kood", "required": true, "example": "12345678"}]
		}`))
	})

	sf, err := client.ServiceFields(context.Background(), "detailandmed v2")
	require.NoError(t, err)

	assert.Equal(t, "detailandmed v2", sf.Service)
	require.Len(t, sf.Fields, 2)
	assert.Empty(t, sf.Fields[0].Parent)
	assert.True(t, sf.Fields[0].IsRoot())
	assert.Equal(t, "keha", sf.Fields[1].Parent)
	assert.True(t, sf.Fields[1].Sensitive)
	require.NotNil(t, sf.Endpoint)
	assert.Equal(t, "/detailandmed_v2", sf.Endpoint.Endpoint)
	require.Len(t, sf.InputParams, 1)
	assert.True(t, sf.InputParams[0].Required)
}

func TestSaveFields(t *testing.T) {
	var got struct {
		Service string              `json:"service"`
		Fields  []model.FieldRecord `json:"fields"`
	}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/config/fields", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	})

	err := client.SaveFields(context.Background(), "svc", []model.FieldRecord{
		{Name: "nimi", Path: "keha.nimi", Parent: "keha", Selected: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "svc", got.Service)
	require.Len(t, got.Fields, 1)
	assert.Equal(t, "keha.nimi", got.Fields[0].Path)
}

func TestDoJSON_StatusErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		target error
		text   string
	}{
		{"not found", http.StatusNotFound, `{"error": "Service not found"}`, ErrNotFound, "Service not found"},
		{"unauthorized", http.StatusUnauthorized, "denied", ErrUnauthorized, "denied"},
		{"forbidden", http.StatusForbidden, "", ErrUnauthorized, "status 403"},
		{"server error", http.StatusInternalServerError, `{"error": "boom"}`, nil, "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.ServiceFields(context.Background(), "svc")
			require.Error(t, err)

			var se *StatusError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.status, se.Code)
			assert.Contains(t, err.Error(), tt.text)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			} else {
				assert.NotErrorIs(t, err, ErrNotFound)
				assert.NotErrorIs(t, err, ErrUnauthorized)
			}
		})
	}
}

func TestDoJSON_DecodesCompressedReplies(t *testing.T) {
	payload := []byte(`{"status": "healthy"}`)

	t.Run("zstd", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Contains(t, r.Header.Get("Accept-Encoding"), "zstd")
			enc, err := zstd.NewWriter(nil)
			require.NoError(t, err)
			w.Header().Set("Content-Encoding", "zstd")
			_, _ = w.Write(enc.EncodeAll(payload, nil))
		})
		assert.NoError(t, client.Health(context.Background()))
	})

	t.Run("gzip", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			var buf bytes.Buffer
			gz := gzip.NewWriter(&buf)
			_, _ = gz.Write(payload)
			require.NoError(t, gz.Close())
			w.Header().Set("Content-Encoding", "gzip")
			_, _ = w.Write(buf.Bytes())
		})
		assert.NoError(t, client.Health(context.Background()))
	})
}

func TestHealth_Unhealthy(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "degraded"})
	})
	assert.ErrorContains(t, client.Health(context.Background()), "degraded")
}

func TestSendRequest(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			var req map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "svc", req["service"])
			assert.Equal(t, "/svc", req["endpoint"])
			assert.Equal(t, map[string]any{"kood": "123"}, req["params"])
			writeJSON(w, http.StatusOK, map[string]any{
				"status":      "success",
				"status_code": 200,
				"data":        map[string]any{"nimi": model.MaskToken},
			})
		})

		result, err := client.SendRequest(context.Background(), "svc", "/svc", map[string]string{"kood": "123"})
		require.NoError(t, err)
		assert.False(t, result.Failed())
		assert.Equal(t, map[string]any{"nimi": model.MaskToken}, result.Data)
	})

	t.Run("gateway error carried in body", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"status": "error",
				"error":  "Could not connect to Ruuter",
			})
		})

		result, err := client.SendRequest(context.Background(), "svc", "/svc", nil)
		require.NoError(t, err)
		assert.True(t, result.Failed())
		assert.Equal(t, http.StatusServiceUnavailable, result.StatusCode)
		assert.Equal(t, "Could not connect to Ruuter", result.Error)
	})

	t.Run("plain failure", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad gateway", http.StatusBadGateway)
		})

		_, err := client.SendRequest(context.Background(), "svc", "/svc", nil)
		var se *StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, http.StatusBadGateway, se.Code)
	})
}

func TestFilterConfig(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/config/service/svc/filter", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{
			"selected_fields":  []string{"keha.nimi", "keha.kood"},
			"sensitive_fields": []string{"keha.kood"},
		})
	})

	fc, err := client.FilterConfig(context.Background(), "svc")
	require.NoError(t, err)
	assert.Equal(t, "svc", fc.Service)
	assert.Equal(t, []string{"keha.nimi", "keha.kood"}, fc.SelectedFields)
	assert.Equal(t, []string{"keha.kood"}, fc.SensitiveFields)
}

func TestContextCancellation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.ListServices(ctx, "")
	assert.ErrorIs(t, err, context.Canceled)
}
