package engine

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
)

// Engine runs the full comparison pipeline: request validation,
// normalization, weighting, trade-off analysis and scenario mapping.
// It holds no mutable state, so one Engine may serve concurrent
// comparisons; every invocation is independently reproducible.
type Engine struct {
	weights   WeightSet
	tunables  Tunables
	precision int
	logger    *slog.Logger
}

// New creates an Engine after validating the weight vector and tunables.
// Precision is the number of decimals scores are rounded to.
func New(weights WeightSet, tunables Tunables, precision int, logger *slog.Logger) (*Engine, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if err := tunables.Validate(); err != nil {
		return nil, err
	}
	if precision < 0 || precision > 10 {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("score precision must be in [0,10], got %d", precision)}
	}
	return &Engine{
		weights:   weights,
		tunables:  tunables,
		precision: precision,
		logger:    logger,
	}, nil
}

// Weights returns the weight vector the engine was built with.
func (e *Engine) Weights() WeightSet {
	return e.weights
}

// Compare validates the request, scores every option, and derives
// trade-offs and the scenario map from the same normalized scores.
// Scores in the result are sorted by weighted score descending;
// trade-off and scenario computation always use input order.
func (e *Engine) Compare(req ComparisonRequest) (*ComparisonResult, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}

	scores := make([]OptionScore, len(req.Options))
	for i, opt := range req.Options {
		s := Normalize(opt, req.Constraints, e.tunables)
		s.WeightedScore = e.weights.Apply(s)
		s.TotalScore = (s.CostScore + s.LatencyScore + s.ScalabilityScore +
			s.ComplianceScore + s.CloudScore + s.SkillScore) / 6
		scores[i] = e.round(s)
	}

	tradeoffs := AnalyzeTradeOffs(scores, e.tunables)
	scenarios := MapScenarios(scores)

	ranked := make([]OptionScore, len(scores))
	copy(ranked, scores)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].WeightedScore > ranked[j].WeightedScore
	})

	e.logger.Debug("comparison scored",
		"options", len(scores),
		"tradeoffs", len(tradeoffs),
		"leader", ranked[0].OptionName)

	return &ComparisonResult{
		Scores:    ranked,
		TradeOffs: tradeoffs,
		Scenarios: scenarios,
	}, nil
}

func (e *Engine) round(s OptionScore) OptionScore {
	s.CostScore = roundTo(s.CostScore, e.precision)
	s.LatencyScore = roundTo(s.LatencyScore, e.precision)
	s.ScalabilityScore = roundTo(s.ScalabilityScore, e.precision)
	s.ComplianceScore = roundTo(s.ComplianceScore, e.precision)
	s.CloudScore = roundTo(s.CloudScore, e.precision)
	s.SkillScore = roundTo(s.SkillScore, e.precision)
	s.TotalScore = roundTo(s.TotalScore, e.precision)
	s.WeightedScore = roundTo(s.WeightedScore, e.precision)
	return s
}

func roundTo(v float64, precision int) float64 {
	factor := math.Pow(10, float64(precision))
	return math.Round(v*factor) / factor
}

// ValidateRequest checks the whole request up front and reports every
// problem at once. It never allows a partially scorable request through:
// any failure here means no computation happened.
func ValidateRequest(req ComparisonRequest) error {
	verr := NewValidationError("comparison request")

	if len(req.Options) < 2 {
		verr.AddError(fmt.Sprintf("at least 2 options required, got %d", len(req.Options)))
	}

	seen := make(map[string]bool, len(req.Options))
	for i, opt := range req.Options {
		label := opt.Name
		if label == "" {
			label = fmt.Sprintf("option %d", i+1)
			verr.AddError(fmt.Sprintf("%s: name is required", label))
		} else if seen[opt.Name] {
			verr.AddError("duplicate option name: " + opt.Name)
		}
		seen[opt.Name] = true

		checkRange(verr, label+" cost", opt.Cost)
		checkRange(verr, label+" latency", opt.Latency)
		checkRange(verr, label+" scalability", opt.Scalability)
		if _, ok := complianceRank(opt.Compliance); !ok {
			verr.AddError(fmt.Sprintf("%s: unknown compliance level %q", label, opt.Compliance))
		}
		if _, ok := skillRank(opt.TeamSkillRequired); !ok {
			verr.AddError(fmt.Sprintf("%s: unknown skill level %q", label, opt.TeamSkillRequired))
		}
	}

	checkRange(verr, "constraints budget", req.Constraints.Budget)
	checkRange(verr, "constraints max_latency", req.Constraints.MaxLatency)
	checkRange(verr, "constraints required_scale", req.Constraints.RequiredScale)
	if _, ok := complianceRank(req.Constraints.Compliance); !ok {
		verr.AddError(fmt.Sprintf("constraints: unknown compliance level %q", req.Constraints.Compliance))
	}
	if _, ok := skillRank(req.Constraints.TeamSkill); !ok {
		verr.AddError(fmt.Sprintf("constraints: unknown skill level %q", req.Constraints.TeamSkill))
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

func checkRange(verr *ValidationError, field string, v float64) {
	if v < 1 || v > 10 {
		verr.AddError(fmt.Sprintf("%s must be in [1,10], got %g", field, v))
	}
}
