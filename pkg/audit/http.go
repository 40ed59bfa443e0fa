package audit

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/duit-aim/vcz-estimator/pkg/common/logger"
	"github.com/gorilla/mux"
)

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// Register mounts the audit API on a router, typically a /api/v1 subrouter.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/audit/events", h.handleListEvents).Methods(http.MethodGet)
}

func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	eventType := r.URL.Query().Get("type")
	if eventType == "" {
		http.Error(w, "type is required", http.StatusBadRequest)
		return
	}

	limit := parseLimit(r, 50)
	records, err := h.repo.ListByType(r.Context(), eventType, limit)
	if err != nil {
		logger.Log.WithError(err).Error("failed to list audit events")
		http.Error(w, "failed to list audit events", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": records})
}

func parseLimit(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	if v, err := strconv.Atoi(raw); err == nil && v > 0 {
		return v
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
