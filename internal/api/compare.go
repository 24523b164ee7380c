package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Adityaaz10/decision-intelligence-platform/internal/engine"
	"github.com/Adityaaz10/decision-intelligence-platform/internal/events"
	"github.com/Adityaaz10/decision-intelligence-platform/internal/insight"
	"github.com/Adityaaz10/decision-intelligence-platform/internal/metrics"
	"github.com/Adityaaz10/decision-intelligence-platform/internal/store"
)

var validate = validator.New()

type ComparisonsHandler struct {
	store   store.Store
	events  events.Client
	engine  *engine.Engine
	metrics *metrics.Metrics
}

func NewComparisonsHandler(s store.Store, ec events.Client, eng *engine.Engine, m *metrics.Metrics) *ComparisonsHandler {
	return &ComparisonsHandler{store: s, events: ec, engine: eng, metrics: m}
}

// OptionPayload is the wire form of one candidate. Structural checks live
// in the validate tags; cross-field rules stay in the engine.
type OptionPayload struct {
	Name              string   `json:"name" validate:"required"`
	Description       string   `json:"description,omitempty"`
	Cost              float64  `json:"cost" validate:"required,gte=1,lte=10"`
	Latency           float64  `json:"latency" validate:"required,gte=1,lte=10"`
	Scalability       float64  `json:"scalability" validate:"required,gte=1,lte=10"`
	Compliance        string   `json:"compliance" validate:"required,oneof=none basic soc2 gdpr pci hipaa"`
	Cloud             string   `json:"cloud,omitempty" validate:"omitempty,oneof=aws azure gcp multi"`
	TeamSkillRequired string   `json:"team_skill_required" validate:"required,oneof=beginner intermediate advanced expert"`
	Pros              []string `json:"pros,omitempty"`
	Cons              []string `json:"cons,omitempty"`
}

type ConstraintsPayload struct {
	Budget         float64 `json:"budget" validate:"required,gte=1,lte=10"`
	MaxLatency     float64 `json:"max_latency" validate:"required,gte=1,lte=10"`
	RequiredScale  float64 `json:"required_scale" validate:"required,gte=1,lte=10"`
	Compliance     string  `json:"compliance" validate:"required,oneof=none basic soc2 gdpr pci hipaa"`
	PreferredCloud string  `json:"preferred_cloud,omitempty" validate:"omitempty,oneof=aws azure gcp multi"`
	TeamSkill      string  `json:"team_skill" validate:"required,oneof=beginner intermediate advanced expert"`
}

type CompareRequest struct {
	Options     []OptionPayload    `json:"options" validate:"required,min=2,dive"`
	Constraints ConstraintsPayload `json:"constraints"`
	UseCase     string             `json:"use_case"`
	Description string             `json:"description,omitempty"`
}

func (req CompareRequest) toEngine() engine.ComparisonRequest {
	options := make([]engine.TechOption, len(req.Options))
	for i, o := range req.Options {
		options[i] = engine.TechOption{
			Name:              o.Name,
			Description:       o.Description,
			Cost:              o.Cost,
			Latency:           o.Latency,
			Scalability:       o.Scalability,
			Compliance:        o.Compliance,
			Cloud:             o.Cloud,
			TeamSkillRequired: o.TeamSkillRequired,
			Pros:              o.Pros,
			Cons:              o.Cons,
		}
	}
	return engine.ComparisonRequest{
		Options: options,
		Constraints: engine.Constraints{
			Budget:         req.Constraints.Budget,
			MaxLatency:     req.Constraints.MaxLatency,
			RequiredScale:  req.Constraints.RequiredScale,
			Compliance:     req.Constraints.Compliance,
			PreferredCloud: req.Constraints.PreferredCloud,
			TeamSkill:      req.Constraints.TeamSkill,
		},
		UseCase:     req.UseCase,
		Description: req.Description,
	}
}

func (h *ComparisonsHandler) Compare(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.metrics.RecordComparison("http", "invalid", 0, 0)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		h.metrics.RecordComparison("http", "invalid", 0, 0)
		writeError(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	engReq := req.toEngine()
	result, err := h.engine.Compare(engReq)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	if result.TradeOffs == nil {
		result.TradeOffs = []engine.TradeOff{}
	}

	doc := &store.ComparisonDocument{
		ComparisonID: uuid.New().String(),
		Scores:       result.Scores,
		TradeOffs:    result.TradeOffs,
		Scenarios:    result.Scenarios,
		Weights:      h.engine.Weights(),
		Analysis:     insight.Analyze(engReq, result),
		Timestamp:    time.Now().UTC(),
	}

	rec := store.NewComparisonRecord(doc.ComparisonID, engReq, doc)
	if err := h.store.SaveComparison(r.Context(), rec); err != nil {
		h.metrics.RecordStoreError("save")
		h.metrics.RecordComparison("http", "error", 0, 0)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if h.events != nil {
		publishErr := h.events.PublishComparisonCompleted(events.ComparisonCompletedEvent{
			ComparisonID: doc.ComparisonID,
			UseCase:      engReq.UseCase,
			Winner:       doc.Scores[0].OptionName,
			WinnerScore:  doc.Scores[0].WeightedScore,
			OptionCount:  len(doc.Scores),
			Timestamp:    doc.Timestamp,
		})
		h.metrics.RecordEventPublish("comparison_completed", publishErr)
	}

	h.metrics.RecordComparison("http", "success", time.Since(start), len(engReq.Options))
	writeJSON(w, http.StatusOK, doc)
}

func (h *ComparisonsHandler) writeEngineError(w http.ResponseWriter, err error) {
	var verr *engine.ValidationError
	if errors.As(err, &verr) {
		h.metrics.RecordComparison("http", "invalid", 0, 0)
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid comparison request",
			"details": verr.Errors,
		})
		return
	}
	var cerr *engine.ConfigurationError
	if errors.As(err, &cerr) {
		h.metrics.RecordComparison("http", "error", 0, 0)
		writeError(w, http.StatusUnprocessableEntity, cerr.Error())
		return
	}
	h.metrics.RecordComparison("http", "error", 0, 0)
	writeError(w, http.StatusInternalServerError, err.Error())
}

func (h *ComparisonsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, "invalid comparison id")
		return
	}

	rec, err := h.store.GetComparison(r.Context(), id)
	if err != nil {
		h.metrics.RecordStoreError("get")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "comparison not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *ComparisonsHandler) List(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.store.ListComparisons(r.Context(), parseLimit(r))
	if err != nil {
		h.metrics.RecordStoreError("list")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if summaries == nil {
		summaries = []*store.ComparisonSummary{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"comparisons": summaries})
}

func (h *ComparisonsHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "query parameter q required")
		return
	}

	summaries, err := h.store.SearchComparisons(r.Context(), q, parseLimit(r))
	if err != nil {
		h.metrics.RecordStoreError("search")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if summaries == nil {
		summaries = []*store.ComparisonSummary{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"comparisons": summaries})
}

func (h *ComparisonsHandler) PopularOptions(w http.ResponseWriter, r *http.Request) {
	options, err := h.store.PopularOptions(r.Context(), parseLimit(r))
	if err != nil {
		h.metrics.RecordStoreError("popular")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if options == nil {
		options = []*store.OptionUsage{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"options": options})
}

// parseLimit reads ?limit=, falling back to the store default on absent
// or unparsable values. Bounds are clamped by the store.
func parseLimit(r *http.Request) int {
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return 0
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
