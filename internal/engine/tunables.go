package engine

import "fmt"

// Tunables are the product-tuned scoring constants: penalty slopes for
// constraint violations, the cloud mismatch score, the trade-off
// significance threshold and the impact classification cut-offs. The
// defaults are the documented policy; deployments may adjust them, but
// the monotonicity and range invariants of the engine hold for any
// Tunables that pass Validate.
type Tunables struct {
	// Penalty per unit of raw-attribute overage against the constraint.
	OverBudgetPenalty  float64 `json:"over_budget_penalty"`
	OverLatencyPenalty float64 `json:"over_latency_penalty"`
	UnderScalePenalty  float64 `json:"under_scale_penalty"`

	// Penalty per rank of categorical gap.
	ComplianceGapPenalty float64 `json:"compliance_gap_penalty"`
	SkillGapPenalty      float64 `json:"skill_gap_penalty"`

	// Score assigned when the option's cloud conflicts with the preference.
	CloudMismatchScore float64 `json:"cloud_mismatch_score"`

	// Minimum dimension-score gap for a TradeOff to be emitted at all.
	TradeoffThreshold float64 `json:"tradeoff_threshold"`

	// Gap cut-offs for impact classification. HighImpactGap must not be
	// below MediumImpactGap.
	HighImpactGap   float64 `json:"high_impact_gap"`
	MediumImpactGap float64 `json:"medium_impact_gap"`
}

// DefaultTunables returns the documented default policy.
func DefaultTunables() Tunables {
	return Tunables{
		OverBudgetPenalty:    1.5,
		OverLatencyPenalty:   1.5,
		UnderScalePenalty:    1.5,
		ComplianceGapPenalty: 3.0,
		SkillGapPenalty:      3.0,
		CloudMismatchScore:   4.0,
		TradeoffThreshold:    1.0,
		HighImpactGap:        4.0,
		MediumImpactGap:      2.0,
	}
}

// Validate rejects tunables that would break score ranges or the impact
// ordering.
func (t Tunables) Validate() error {
	for name, v := range map[string]float64{
		"over_budget_penalty":    t.OverBudgetPenalty,
		"over_latency_penalty":   t.OverLatencyPenalty,
		"under_scale_penalty":    t.UnderScalePenalty,
		"compliance_gap_penalty": t.ComplianceGapPenalty,
		"skill_gap_penalty":      t.SkillGapPenalty,
		"tradeoff_threshold":     t.TradeoffThreshold,
	} {
		if v < 0 {
			return &ConfigurationError{Reason: fmt.Sprintf("%s must not be negative, got %f", name, v)}
		}
	}
	if t.CloudMismatchScore < 0 || t.CloudMismatchScore > 10 {
		return &ConfigurationError{Reason: fmt.Sprintf("cloud_mismatch_score must be in [0,10], got %f", t.CloudMismatchScore)}
	}
	if t.MediumImpactGap <= 0 || t.HighImpactGap < t.MediumImpactGap {
		return &ConfigurationError{Reason: fmt.Sprintf("impact gaps must satisfy 0 < medium (%f) <= high (%f)", t.MediumImpactGap, t.HighImpactGap)}
	}
	return nil
}
