package engine

import "fmt"

// Dimension names in their fixed emission order. Trade-off generation
// iterates option pairs in input order and dimensions in this order, so
// output is deterministic for identical input.
const (
	DimensionCost        = "cost"
	DimensionLatency     = "latency"
	DimensionScalability = "scalability"
	DimensionCompliance  = "compliance"
	DimensionCloud       = "cloud"
	DimensionSkill       = "skill"
)

var dimensionOrder = []string{
	DimensionCost,
	DimensionLatency,
	DimensionScalability,
	DimensionCompliance,
	DimensionCloud,
	DimensionSkill,
}

// AnalyzeTradeOffs compares every unordered pair of options across every
// dimension and emits a TradeOff wherever the score gap exceeds the
// significance threshold. Ties and near-ties produce nothing. Swapping
// two options in the input changes emission order only, never winner or
// impact.
func AnalyzeTradeOffs(scores []OptionScore, t Tunables) []TradeOff {
	var tradeoffs []TradeOff
	for i := 0; i < len(scores); i++ {
		for j := i + 1; j < len(scores); j++ {
			a, b := scores[i], scores[j]
			for _, dim := range dimensionOrder {
				diff := dimensionScore(a, dim) - dimensionScore(b, dim)
				gap := diff
				if gap < 0 {
					gap = -gap
				}
				if gap <= t.TradeoffThreshold {
					continue
				}
				winner, loser := a.OptionName, b.OptionName
				if diff < 0 {
					winner, loser = b.OptionName, a.OptionName
				}
				tradeoffs = append(tradeoffs, TradeOff{
					OptionA:     a.OptionName,
					OptionB:     b.OptionName,
					Dimension:   dim,
					Winner:      winner,
					Explanation: explainTradeOff(dim, winner, loser),
					Impact:      classifyImpact(gap, t),
				})
			}
		}
	}
	return tradeoffs
}

// dimensionScore selects one named dimension score from an OptionScore.
func dimensionScore(s OptionScore, dim string) float64 {
	switch dim {
	case DimensionCost:
		return s.CostScore
	case DimensionLatency:
		return s.LatencyScore
	case DimensionScalability:
		return s.ScalabilityScore
	case DimensionCompliance:
		return s.ComplianceScore
	case DimensionCloud:
		return s.CloudScore
	case DimensionSkill:
		return s.SkillScore
	default:
		return 0
	}
}

func classifyImpact(gap float64, t Tunables) string {
	switch {
	case gap >= t.HighImpactGap:
		return ImpactHigh
	case gap >= t.MediumImpactGap:
		return ImpactMedium
	default:
		return ImpactLow
	}
}

func explainTradeOff(dim, winner, loser string) string {
	switch dim {
	case DimensionCost:
		return fmt.Sprintf("%s is more cost-effective than %s", winner, loser)
	case DimensionLatency:
		return fmt.Sprintf("%s offers better latency performance than %s", winner, loser)
	case DimensionScalability:
		return fmt.Sprintf("%s scales better than %s", winner, loser)
	case DimensionCompliance:
		return fmt.Sprintf("%s better meets compliance requirements than %s", winner, loser)
	case DimensionCloud:
		return fmt.Sprintf("%s better aligns with cloud preferences than %s", winner, loser)
	case DimensionSkill:
		return fmt.Sprintf("%s better matches team skill level than %s", winner, loser)
	default:
		return fmt.Sprintf("%s outperforms %s on %s", winner, loser, dim)
	}
}
