package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/righthome/righthome/internal/application"
	"github.com/righthome/righthome/internal/charts"
	"github.com/righthome/righthome/internal/domain"
	"github.com/righthome/righthome/internal/persistence"
)

const maxRequestBody = 4 << 20 // 4 MB

// Handlers implements the API endpoints.
type Handlers struct {
	recommender *application.Recommender
	repo        persistence.PropertiesRepo
	validate    *validator.Validate
	startTime   time.Time
}

// NewHandlers creates the endpoint handlers. Repo may be nil when
// persistence is disabled.
func NewHandlers(recommender *application.Recommender, repo persistence.PropertiesRepo) *Handlers {
	return &Handlers{
		recommender: recommender,
		repo:        repo,
		validate:    validator.New(),
		startTime:   time.Now(),
	}
}

type scoreRequest struct {
	Property map[string]any `json:"property" validate:"required"`
}

type compareRequest struct {
	Properties  []map[string]any `json:"properties" validate:"required"`
	Preferences string           `json:"preferences"`
}

type recommendationRequest struct {
	Property    map[string]any `json:"property" validate:"required"`
	Preferences string         `json:"preferences"`
}

type radarChartRequest struct {
	Properties []map[string]any `json:"properties" validate:"required"`
	Metrics    []string         `json:"metrics" validate:"required,min=1,dive,required"`
}

type heatmapChartRequest struct {
	Property map[string]any `json:"property" validate:"required"`
}

type timelineChartRequest struct {
	Property map[string]any `json:"property" validate:"required"`
}

type barChartRequest struct {
	Properties []map[string]any `json:"properties" validate:"required"`
	Metric     string           `json:"metric" validate:"required"`
	Title      string           `json:"title"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// Health reports service liveness.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	weights := h.recommender.Calculator().Weights()
	h.writeJSON(w, http.StatusOK, map[string]any{
		"status":             "healthy",
		"timestamp":          time.Now().UTC().Format(time.RFC3339),
		"uptime_seconds":     int(time.Since(h.startTime).Seconds()),
		"weight_fingerprint": h.recommender.Calculator().Fingerprint(),
		"weights_sum":        weights.Sum(),
	})
}

// Score computes the weighted score for a single property payload.
func (h *Handlers) Score(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if !h.decode(w, r, &req) {
		return
	}

	record := domain.RecordFromMap(req.Property)
	h.writeJSON(w, http.StatusOK, h.recommender.Score(r.Context(), record))
}

// Compare scores a batch and returns the ranked comparison.
func (h *Handlers) Compare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if !h.decode(w, r, &req) {
		return
	}

	records := make([]domain.PropertyRecord, len(req.Properties))
	for i, p := range req.Properties {
		records[i] = domain.RecordFromMap(p)
	}

	report := h.recommender.CompareWithAnalysis(r.Context(), records, req.Preferences)
	h.writeJSON(w, http.StatusOK, report)
}

// Recommendation scores a property and attaches a narrative analysis.
func (h *Handlers) Recommendation(w http.ResponseWriter, r *http.Request) {
	var req recommendationRequest
	if !h.decode(w, r, &req) {
		return
	}

	record := domain.RecordFromMap(req.Property)
	rec := h.recommender.GetRecommendation(r.Context(), record, req.Preferences)
	h.writeJSON(w, http.StatusOK, rec)
}

// ChartRadar builds a radar chart payload over the requested metrics.
func (h *Handlers) ChartRadar(w http.ResponseWriter, r *http.Request) {
	var req radarChartRequest
	if !h.decode(w, r, &req) {
		return
	}

	records := make([]domain.PropertyRecord, len(req.Properties))
	for i, p := range req.Properties {
		records[i] = domain.RecordFromMap(p)
	}

	h.writeJSON(w, http.StatusOK, charts.Radar(records, req.Metrics))
}

// ChartHeatmap builds the category score heatmap for one property.
func (h *Handlers) ChartHeatmap(w http.ResponseWriter, r *http.Request) {
	var req heatmapChartRequest
	if !h.decode(w, r, &req) {
		return
	}

	record := domain.RecordFromMap(req.Property)
	result := h.recommender.Score(r.Context(), record)
	h.writeJSON(w, http.StatusOK, charts.CategoryHeatmap(result))
}

// ChartBar builds a single metric bar chart across properties.
func (h *Handlers) ChartBar(w http.ResponseWriter, r *http.Request) {
	var req barChartRequest
	if !h.decode(w, r, &req) {
		return
	}

	records := make([]domain.PropertyRecord, len(req.Properties))
	for i, p := range req.Properties {
		records[i] = domain.RecordFromMap(p)
	}

	h.writeJSON(w, http.StatusOK, charts.MetricBar(records, req.Metric, req.Title))
}

// ChartTimeline builds the listing timeline for one property.
func (h *Handlers) ChartTimeline(w http.ResponseWriter, r *http.Request) {
	var req timelineChartRequest
	if !h.decode(w, r, &req) {
		return
	}

	record := domain.RecordFromMap(req.Property)
	h.writeJSON(w, http.StatusOK, charts.PropertyTimeline(record))
}

// CreateProperty stores a new property record.
func (h *Handlers) CreateProperty(w http.ResponseWriter, r *http.Request) {
	if !h.requireRepo(w) {
		return
	}

	var payload map[string]any
	if !h.decodeMap(w, r, &payload) {
		return
	}

	record := domain.RecordFromMap(payload)
	if record.ID == "" {
		h.writeError(w, http.StatusBadRequest, "property id is required")
		return
	}

	stored, err := h.repo.Insert(r.Context(), record)
	if err != nil {
		if errors.Is(err, persistence.ErrDuplicate) {
			h.writeError(w, http.StatusConflict, err.Error())
			return
		}
		h.internalError(w, "create property", err)
		return
	}

	h.writeJSON(w, http.StatusCreated, stored)
}

// ListProperties returns stored properties, optionally filtered by
// city and neighborhood query parameters.
func (h *Handlers) ListProperties(w http.ResponseWriter, r *http.Request) {
	if !h.requireRepo(w) {
		return
	}

	filter := persistence.ListFilter{
		City:         r.URL.Query().Get("city"),
		Neighborhood: r.URL.Query().Get("neighborhood"),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			h.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		filter.Limit = limit
	}

	stored, err := h.repo.List(r.Context(), filter)
	if err != nil {
		h.internalError(w, "list properties", err)
		return
	}
	if stored == nil {
		stored = []persistence.StoredProperty{}
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"properties": stored,
		"count":      len(stored),
	})
}

// GetProperty returns one stored property.
func (h *Handlers) GetProperty(w http.ResponseWriter, r *http.Request) {
	if !h.requireRepo(w) {
		return
	}

	id := mux.Vars(r)["id"]
	stored, err := h.repo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.internalError(w, "get property", err)
		return
	}

	h.writeJSON(w, http.StatusOK, stored)
}

// UpsertProperty creates or replaces a stored property. The path ID
// wins over any ID in the payload.
func (h *Handlers) UpsertProperty(w http.ResponseWriter, r *http.Request) {
	if !h.requireRepo(w) {
		return
	}

	var payload map[string]any
	if !h.decodeMap(w, r, &payload) {
		return
	}

	record := domain.RecordFromMap(payload)
	record.ID = mux.Vars(r)["id"]

	stored, err := h.repo.Upsert(r.Context(), record)
	if err != nil {
		h.internalError(w, "upsert property", err)
		return
	}

	h.recommender.InvalidateScores(r.Context(), record.ID)
	h.writeJSON(w, http.StatusOK, stored)
}

// DeleteProperty removes a stored property.
func (h *Handlers) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	if !h.requireRepo(w) {
		return
	}

	id := mux.Vars(r)["id"]
	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.internalError(w, "delete property", err)
		return
	}

	h.recommender.InvalidateScores(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

// ScoreStored scores a property fetched from storage.
func (h *Handlers) ScoreStored(w http.ResponseWriter, r *http.Request) {
	if !h.requireRepo(w) {
		return
	}

	id := mux.Vars(r)["id"]
	stored, err := h.repo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.internalError(w, "get property", err)
		return
	}

	h.writeJSON(w, http.StatusOK, h.recommender.Score(r.Context(), stored.Record))
}

// NotFound is the fallback for unknown routes.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.writeError(w, http.StatusNotFound, "endpoint not found")
}

func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, req any) bool {
	body := http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(body).Decode(req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return false
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return false
	}
	return true
}

func (h *Handlers) decodeMap(w http.ResponseWriter, r *http.Request, payload *map[string]any) bool {
	body := http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(body).Decode(payload); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return false
	}
	return true
}

func (h *Handlers) requireRepo(w http.ResponseWriter) bool {
	if h.repo == nil {
		h.writeError(w, http.StatusServiceUnavailable, "property storage not enabled")
		return false
	}
	return true
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, errorResponse{Error: message})
}

func (h *Handlers) internalError(w http.ResponseWriter, op string, err error) {
	log.Error().Err(err).Str("op", op).Msg("request failed")
	h.writeError(w, http.StatusInternalServerError, "internal error")
}
