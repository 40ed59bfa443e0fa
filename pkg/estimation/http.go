package estimation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/duit-aim/vcz-estimator/pkg/common/logger"
	"github.com/duit-aim/vcz-estimator/pkg/common/models"
	"github.com/duit-aim/vcz-estimator/pkg/estimation/bounds"
	"github.com/duit-aim/vcz-estimator/pkg/estimation/features"
	"github.com/duit-aim/vcz-estimator/pkg/estimation/model"
	"github.com/duit-aim/vcz-estimator/pkg/observability/metrics"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// EventPublisher is the audit-event sink. Nil-able for deployments without
// Kafka.
type EventPublisher interface {
	PublishEvent(ctx context.Context, eventType string, source string, data map[string]interface{}) error
}

const eventSource = "estimator-service"

const defaultMaxRequestBody = 1 << 20

type Handler struct {
	service      *Service
	validator    *bounds.Validator
	descriptors  []models.ModelDescriptor
	modelVersion string
	repo         *Repository
	cache        *ResultCache
	producer     EventPublisher
	maxBody      int64
}

func NewHandler(service *Service, validator *bounds.Validator, registry *model.Registry) *Handler {
	return &Handler{
		service:      service,
		validator:    validator,
		descriptors:  registry.Descriptors(),
		modelVersion: registry.Version(),
		maxBody:      defaultMaxRequestBody,
	}
}

// WithRepository enables best-effort persistence of completed estimations.
func (h *Handler) WithRepository(repo *Repository) *Handler {
	h.repo = repo
	return h
}

// WithCache enables the Redis result cache.
func (h *Handler) WithCache(cache *ResultCache) *Handler {
	h.cache = cache
	return h
}

// WithMaxRequestBody caps the accepted request body size in bytes.
func (h *Handler) WithMaxRequestBody(limit int64) *Handler {
	if limit > 0 {
		h.maxBody = limit
	}
	return h
}

// WithProducer enables audit event publication.
func (h *Handler) WithProducer(producer EventPublisher) *Handler {
	h.producer = producer
	return h
}

// Register mounts the API on a router, typically a /api/v1 subrouter.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/estimations", h.handleEstimate).Methods(http.MethodPost)
	r.HandleFunc("/estimations", h.handleListRecent).Methods(http.MethodGet)
	r.HandleFunc("/models", h.handleListModels).Methods(http.MethodGet)
}

func (h *Handler) handleEstimate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)

	var req models.EstimationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	cov, err := h.validator.Validate(req)
	if err != nil {
		metrics.IncEstimationRejected()
		h.publish(r.Context(), models.EventEstimationRejected, map[string]interface{}{
			"reason": err.Error(),
		})
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	requestID := uuid.New()
	ctx := r.Context()

	var cacheKey string
	if h.cache != nil {
		cacheKey = h.cache.Key(cov, h.modelVersion)
		if result, ok := h.cache.Get(ctx, cacheKey); ok {
			metrics.IncCacheHit()
			h.writeResult(w, requestID, result, time.Since(start), true)
			return
		}
	}

	result, err := h.service.Estimate(ctx, cov)
	if err != nil {
		metrics.IncEstimationFailed()
		logger.Log.WithError(err).WithField("request_id", requestID.String()).Error("estimation failed")
		http.Error(w, estimateFailureMessage(err), estimateFailureStatus(err))
		return
	}

	latency := time.Since(start)

	if h.cache != nil {
		h.cache.Set(ctx, cacheKey, result)
	}
	if h.repo != nil {
		if err := h.repo.RecordEstimation(ctx, requestID, cov, result, h.modelVersion, latency); err != nil {
			logger.Log.WithError(err).Warn("failed to record estimation")
		}
	}
	h.publish(ctx, models.EventEstimationCompleted, map[string]interface{}{
		"request_id":                requestID.String(),
		"predicted_clearance":       result.PredictedClearance,
		"calibrated_concentration":  result.CalibratedConcentration,
		"theoretical_concentration": result.TheoreticalConcentration,
		"steady_state_advisory":     string(result.SteadyStateAdvisory),
		"model_version":             h.modelVersion,
	})
	metrics.IncEstimationCompleted(result.SteadyStateAdvisory == models.BeforeSteadyState)

	logger.Log.WithFields(map[string]interface{}{
		"request_id": requestID.String(),
		"advisory":   string(result.SteadyStateAdvisory),
		"latency_ms": latency.Milliseconds(),
	}).Info("Estimation completed")

	h.writeResult(w, requestID, result, latency, false)
}

func (h *Handler) handleListRecent(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		http.Error(w, "estimation log not enabled", http.StatusNotFound)
		return
	}
	limit := parseLimit(r, 50)
	logs, err := h.repo.Recent(r.Context(), limit)
	if err != nil {
		logger.Log.WithError(err).Error("failed to list estimations")
		http.Error(w, "failed to list estimations", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": logs})
}

func (h *Handler) handleListModels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"models": h.descriptors})
}

func (h *Handler) writeResult(w http.ResponseWriter, requestID uuid.UUID, result models.EstimationResult, latency time.Duration, cached bool) {
	writeJSON(w, http.StatusOK, models.EstimationResponse{
		RequestID:                requestID.String(),
		PredictedClearance:       result.PredictedClearance,
		TheoreticalConcentration: result.TheoreticalConcentration,
		CalibratedConcentration:  result.CalibratedConcentration,
		SteadyStateAdvisory:      result.SteadyStateAdvisory,
		ModelVersion:             h.modelVersion,
		LatencyMs:                float64(latency.Microseconds()) / 1000.0,
		Cached:                   cached,
	})
}

func (h *Handler) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if h.producer == nil {
		return
	}
	if err := h.producer.PublishEvent(ctx, eventType, eventSource, data); err != nil {
		logger.Log.WithError(err).Warn("failed to publish audit event")
	}
}

func estimateFailureStatus(err error) int {
	if errors.Is(err, features.ErrMissingFeature) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func estimateFailureMessage(err error) string {
	switch {
	case errors.Is(err, features.ErrMissingFeature):
		return err.Error()
	case errors.Is(err, model.ErrInference):
		return "model inference failed"
	default:
		return "estimation failed"
	}
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
