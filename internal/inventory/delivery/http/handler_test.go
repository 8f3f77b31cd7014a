package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
)

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

func newRouter(db Pinger, reg *prometheus.Registry) (*mux.Router, *OpsHandler) {
	h := NewOpsHandler(db, reg)
	router := mux.NewRouter()
	RegisterMiddlewares(router, DefaultMiddlewareConfig())
	h.RegisterRoutes(router)
	return router, h
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		db         error
		cache      error
		wantStatus int
		wantCache  string
	}{
		{"healthy", nil, nil, http.StatusOK, "ok"},
		{"cache degraded", nil, errors.New("connection refused"), http.StatusOK, "degraded: connection refused"},
		{"database down", errors.New("timeout"), nil, http.StatusServiceUnavailable, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, h := newRouter(fakePinger{err: tt.db}, prometheus.NewRegistry())
			cacheErr := tt.cache
			h.AddCheck("redis", func(context.Context) error { return cacheErr })

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if rec.Header().Get("X-Request-ID") == "" {
				t.Error("missing X-Request-ID header")
			}
			if tt.wantCache == "" {
				return
			}

			var body struct {
				Success bool              `json:"success"`
				Data    map[string]string `json:"data"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !body.Success || body.Data["redis"] != tt.wantCache {
				t.Errorf("body = %+v, want redis %q", body, tt.wantCache)
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "inventory_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	router, _ := newRouter(fakePinger{}, reg)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "inventory_test_total 1") {
		t.Errorf("metrics body missing counter:\n%s", rec.Body.String())
	}
}
