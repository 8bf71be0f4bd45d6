package http

import (
	"context"
	"net/http"
	"time"

	"github.com/Notifuse/emailbuilder/pkg/logger"
)

// Pinger reports whether a dependency is reachable
type Pinger interface {
	PingContext(ctx context.Context) error
}

type RootHandler struct {
	logger      logger.Logger
	apiEndpoint string
	version     string
	db          Pinger
}

func NewRootHandler(logger logger.Logger, apiEndpoint, version string, db Pinger) *RootHandler {
	return &RootHandler{
		logger:      logger,
		apiEndpoint: apiEndpoint,
		version:     version,
		db:          db,
	}
}

func (h *RootHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/health", h.handleHealth)
	// catch all route
	mux.HandleFunc("/", h.Handle)
}

// Handle answers the API root and 404s everything else
func (h *RootHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/api" {
		WriteJSONError(w, "Not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"name":         "emailbuilder",
		"version":      h.version,
		"api_endpoint": h.apiEndpoint,
	})
}

func (h *RootHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			h.logger.WithField("error", err.Error()).Error("Health check failed")
			writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status":   "unavailable",
				"database": "unreachable",
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": h.version,
	})
}
