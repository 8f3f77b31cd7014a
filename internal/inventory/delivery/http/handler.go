package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tair/material-ledger/pkg/logger"
)

// Pinger is implemented by *sql.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

// OpsHandler serves the operational endpoints of the ledger service
type OpsHandler struct {
	db       Pinger
	checks   map[string]func(ctx context.Context) error
	gatherer prometheus.Gatherer
}

// NewOpsHandler creates a new ops handler
func NewOpsHandler(db Pinger, gatherer prometheus.Gatherer) *OpsHandler {
	return &OpsHandler{
		db:       db,
		checks:   make(map[string]func(ctx context.Context) error),
		gatherer: gatherer,
	}
}

// AddCheck registers an optional dependency that is reported but does not fail readiness
func (h *OpsHandler) AddCheck(name string, check func(ctx context.Context) error) {
	h.checks[name] = check
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// RegisterRoutes registers health and metrics endpoints
func (h *OpsHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.Health).Methods("GET")
	router.Handle("/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})).Methods("GET")
}

// Health handles GET /health
func (h *OpsHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		logger.Error(ctx).Err(err).Msg("Health check failed")
		respondJSON(w, http.StatusServiceUnavailable, Response{
			Success: false,
			Error:   "Database unavailable",
		})
		return
	}

	deps := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			deps[name] = "degraded: " + err.Error()
			continue
		}
		deps[name] = "ok"
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Inventory ledger is healthy",
		Data:    deps,
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
