package engine

// Scenario keys, fixed by the dimension set.
const (
	ScenarioLowestCost     = "lowest_cost"
	ScenarioFastest        = "fastest"
	ScenarioMostScalable   = "most_scalable"
	ScenarioBestCompliance = "best_compliance"
)

var scenarioDimensions = []struct {
	key string
	dim string
}{
	{ScenarioLowestCost, DimensionCost},
	{ScenarioFastest, DimensionLatency},
	{ScenarioMostScalable, DimensionScalability},
	{ScenarioBestCompliance, DimensionCompliance},
}

// MapScenarios picks, per scenario key, the option with the highest score
// on the corresponding dimension. Ties break on total score, then on
// input order (first listed wins), so the result is fully determined.
func MapScenarios(scores []OptionScore) ScenarioMap {
	if len(scores) == 0 {
		return ScenarioMap{}
	}
	scenarios := make(ScenarioMap, len(scenarioDimensions))
	for _, sc := range scenarioDimensions {
		best := scores[0]
		for _, s := range scores[1:] {
			sv, bv := dimensionScore(s, sc.dim), dimensionScore(best, sc.dim)
			if sv > bv || (sv == bv && s.TotalScore > best.TotalScore) {
				best = s
			}
		}
		scenarios[sc.key] = best.OptionName
	}
	return scenarios
}
