package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Adityaaz10/decision-intelligence-platform/internal/engine"
	"github.com/Adityaaz10/decision-intelligence-platform/internal/store"
)

type ExplainHandler struct {
	store store.Store
}

func NewExplainHandler(s store.Store) *ExplainHandler {
	return &ExplainHandler{store: s}
}

// ExplainedOption is one option's scoring breakdown: the weighted total
// and how each dimension contributed to it.
type ExplainedOption struct {
	OptionName    string                      `json:"option_name"`
	WeightedScore float64                     `json:"weighted_score"`
	TotalScore    float64                     `json:"total_score"`
	Factors       []engine.FactorContribution `json:"factors"`
}

// Explain reconstructs the scoring breakdown for a stored comparison
// from the weight vector persisted with it, so explanations stay correct
// even after the configured weights change.
// GET /api/v1/comparisons/{id}/explain
func (h *ExplainHandler) Explain(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, "invalid comparison id")
		return
	}

	rec, err := h.store.GetComparison(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "comparison not found")
		return
	}

	var doc store.ComparisonDocument
	if err := json.Unmarshal(rec.Result, &doc); err != nil {
		writeError(w, http.StatusInternalServerError, "stored result is unreadable")
		return
	}

	explained := make([]ExplainedOption, len(doc.Scores))
	for i, s := range doc.Scores {
		explained[i] = ExplainedOption{
			OptionName:    s.OptionName,
			WeightedScore: s.WeightedScore,
			TotalScore:    s.TotalScore,
			Factors:       doc.Weights.Breakdown(s),
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"comparison_id":   rec.ID,
		"weights":         doc.Weights,
		"options":         explained,
		"pareto_frontier": engine.ParetoFrontier(doc.Scores),
	})
}
