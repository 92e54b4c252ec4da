// Package web is a stand-in for the X-Road admin backend. It serves the
// admin API from a fixture file so the console can be run and tested
// without a gateway.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"xroadfields/internal/logger"
	"xroadfields/internal/model"
	"xroadfields/internal/response"
)

// Server holds the fixture and saved configurations.
type Server struct {
	mu      sync.RWMutex
	fixture *Fixture
	configs *ConfigStore
}

// NewServer creates a server for fx.
func NewServer(fx *Fixture) *Server {
	return &Server{fixture: fx, configs: NewConfigStore()}
}

// Fixture returns the fixture currently served.
func (s *Server) Fixture() *Fixture {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fixture
}

// SetFixture swaps the served fixture. Saved configurations are kept.
func (s *Server) SetFixture(fx *Fixture) {
	s.mu.Lock()
	s.fixture = fx
	s.mu.Unlock()
}

// Configs returns the saved configuration store.
func (s *Server) Configs() *ConfigStore {
	return s.configs
}

// SetupRoutes configures HTTP routes.
func (s *Server) SetupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.Middleware)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)
	r.Use(decompressMiddleware)
	r.Use(compressMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Get("/services/list", s.handleListServices)
		r.Get("/services/fields/{service}", s.handleServiceFields)

		r.Post("/config/fields", s.handleSaveConfig)
		r.Get("/config/fields/{service}", s.handleGetConfig)
		r.Get("/config/service/{service}/filter", s.handleFilterConfig)

		r.Post("/request/send", s.handleSendRequest)
	})

	return r
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.SetupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("fixture backend listening", "addr", addr, "services", len(s.Fixture().Services))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "xroadfields-fixtures",
	})
}

func (s *Server) handleListServices(w http.ResponseWriter, r *http.Request) {
	fx := s.Fixture()
	services := make([]model.Service, 0, len(fx.Services))
	for _, svc := range fx.Services {
		services = append(services, model.Service{Name: svc.Name, Description: svc.Description})
	}

	logger.Ctx(r.Context()).Debug("listing services", "wsdl_url", r.URL.Query().Get("wsdl_url"), "count", len(services))
	respondJSON(w, http.StatusOK, map[string]any{
		"services": services,
		"total":    len(services),
	})
}

func (s *Server) handleServiceFields(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "service")
	svc, ok := s.Fixture().Lookup(name)
	if !ok {
		respondError(w, http.StatusNotFound, fmt.Sprintf("Service not found: %s", name))
		return
	}

	fields := s.configs.Merge(name, svc.Fields)
	endpoint := svc.Endpoint
	params := svc.InputParams
	if params == nil {
		params = []model.InputParam{}
	}
	respondJSON(w, http.StatusOK, model.ServiceFields{
		Service:     name,
		Fields:      fields,
		Endpoint:    &endpoint,
		InputParams: params,
		TotalFields: len(fields),
	})
}

func (s *Server) handleSaveConfig(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Service string              `json:"service"`
		Fields  []model.FieldRecord `json:"fields"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Service == "" {
		respondError(w, http.StatusBadRequest, "Service is required")
		return
	}

	n := s.configs.Save(req.Service, req.Fields)
	logger.Ctx(r.Context()).Info("configuration saved", "service", req.Service, "fields", n)
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Configuration saved successfully",
		"fields":  n,
	})
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "service")
	respondJSON(w, http.StatusOK, map[string]any{
		"service": name,
		"fields":  s.configs.Fields(name),
	})
}

func (s *Server) handleFilterConfig(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.configs.Filter(chi.URLParam(r, "service")))
}

func (s *Server) handleSendRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Service  string            `json:"service"`
		Endpoint string            `json:"endpoint"`
		Params   map[string]string `json:"params"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Endpoint == "" {
		respondError(w, http.StatusBadRequest, "Endpoint is required")
		return
	}

	log := logger.Ctx(r.Context()).With("service", req.Service, "endpoint", req.Endpoint)

	svc, ok := s.Fixture().Lookup(req.Service)
	if !ok || svc.Response == nil {
		log.Warn("no sample response")
		respondJSON(w, http.StatusServiceUnavailable, model.RequestResult{
			Status:  model.StatusError,
			Error:   fmt.Sprintf("Connection error - could not reach %s", req.Endpoint),
			Service: req.Service,
		})
		return
	}

	data := response.Apply(response.Unwrap(svc.Response), s.configs.Filter(req.Service))
	log.Info("request served", "params", len(req.Params), "masked", response.CountMasked(data))
	respondJSON(w, http.StatusOK, model.RequestResult{
		Status:     model.StatusSuccess,
		StatusCode: http.StatusOK,
		Data:       data,
		Service:    req.Service,
	})
}

// accessLog logs one line per request through the request-scoped logger.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logger.Ctx(r.Context()).Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// respondError writes an error JSON response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
