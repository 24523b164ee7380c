package engine

import (
	"fmt"
	"math"
)

// WeightSet defines the relative importance of each scored dimension.
// All weights must sum to 1.0 (±0.001 tolerance). The weighted score is a
// plain linear combination; there is no re-normalization after weighting.
type WeightSet struct {
	Cost        float64 `json:"cost"`
	Latency     float64 `json:"latency"`
	Scalability float64 `json:"scalability"`
	Compliance  float64 `json:"compliance"`
	Cloud       float64 `json:"cloud"`
	Skill       float64 `json:"skill"`
}

// DefaultWeights returns the documented default distribution.
func DefaultWeights() WeightSet {
	return WeightSet{
		Cost:        0.25,
		Latency:     0.20,
		Scalability: 0.20,
		Compliance:  0.15,
		Cloud:       0.10,
		Skill:       0.10,
	}
}

// Sum returns the total of all weights.
func (w WeightSet) Sum() float64 {
	return w.Cost + w.Latency + w.Scalability + w.Compliance + w.Cloud + w.Skill
}

// Validate checks that weights sum to 1.0 and none are negative.
func (w WeightSet) Validate() error {
	if math.Abs(w.Sum()-1.0) > 0.001 {
		return &ConfigurationError{Reason: fmt.Sprintf("weights sum to %.4f, must sum to 1.0", w.Sum())}
	}
	for _, v := range w.asList() {
		if v < 0 {
			return &ConfigurationError{Reason: fmt.Sprintf("negative weight: %f", v)}
		}
	}
	return nil
}

func (w WeightSet) asList() []float64 {
	return []float64{w.Cost, w.Latency, w.Scalability, w.Compliance, w.Cloud, w.Skill}
}

// Apply computes the weighted score for one option. Dimension scores are
// applied in the fixed dimension order; the result is not rounded here.
func (w WeightSet) Apply(s OptionScore) float64 {
	return s.CostScore*w.Cost +
		s.LatencyScore*w.Latency +
		s.ScalabilityScore*w.Scalability +
		s.ComplianceScore*w.Compliance +
		s.CloudScore*w.Cloud +
		s.SkillScore*w.Skill
}

// FactorContribution is one dimension's share of a weighted score.
type FactorContribution struct {
	Dimension string  `json:"dimension"`
	Score     float64 `json:"score"`
	Weight    float64 `json:"weight"`
	Weighted  float64 `json:"weighted"`
}

// Breakdown decomposes a weighted score into per-dimension contributions,
// in the fixed dimension order. The sum of the Weighted fields equals
// Apply(s) before rounding.
func (w WeightSet) Breakdown(s OptionScore) []FactorContribution {
	weightFor := map[string]float64{
		DimensionCost:        w.Cost,
		DimensionLatency:     w.Latency,
		DimensionScalability: w.Scalability,
		DimensionCompliance:  w.Compliance,
		DimensionCloud:       w.Cloud,
		DimensionSkill:       w.Skill,
	}
	factors := make([]FactorContribution, 0, len(dimensionOrder))
	for _, dim := range dimensionOrder {
		score := dimensionScore(s, dim)
		factors = append(factors, FactorContribution{
			Dimension: dim,
			Score:     score,
			Weight:    weightFor[dim],
			Weighted:  score * weightFor[dim],
		})
	}
	return factors
}
