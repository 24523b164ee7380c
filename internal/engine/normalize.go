package engine

// Normalize converts one option's raw attributes into six fit scores on
// the 0–10 scale, judged against the caller's constraints. It assumes the
// option and constraints already passed request validation; TotalScore
// and WeightedScore are left zero for the weighting stage.
func Normalize(opt TechOption, c Constraints, t Tunables) OptionScore {
	return OptionScore{
		OptionName:       opt.Name,
		CostScore:        costScore(opt.Cost, c.Budget, t),
		LatencyScore:     latencyScore(opt.Latency, c.MaxLatency, t),
		ScalabilityScore: scalabilityScore(opt.Scalability, c.RequiredScale, t),
		ComplianceScore:  complianceScore(opt.Compliance, c.Compliance, t),
		CloudScore:       cloudScore(opt.Cloud, c.PreferredCloud, t),
		SkillScore:       skillScore(opt.TeamSkillRequired, c.TeamSkill, t),
	}
}

// costScore inverts raw cost (lower is better) and penalizes options that
// exceed the budget tolerance in proportion to the overage. A cheap
// option that still blows the stated budget must not score as if it fit.
func costScore(cost, budget float64, t Tunables) float64 {
	score := clamp(11-cost, 0, 10)
	if cost > budget {
		score -= t.OverBudgetPenalty * (cost - budget)
	}
	return clamp(score, 0, 10)
}

// latencyScore inverts raw latency like cost and penalizes overage
// against the max-latency tolerance.
func latencyScore(latency, maxLatency float64, t Tunables) float64 {
	score := clamp(11-latency, 0, 10)
	if latency > maxLatency {
		score -= t.OverLatencyPenalty * (latency - maxLatency)
	}
	return clamp(score, 0, 10)
}

// scalabilityScore is direct (higher raw scalability is better) with a
// penalty for falling short of the required scale.
func scalabilityScore(scalability, requiredScale float64, t Tunables) float64 {
	score := clamp(scalability, 0, 10)
	if scalability < requiredScale {
		score -= t.UnderScalePenalty * (requiredScale - scalability)
	}
	return clamp(score, 0, 10)
}

// complianceScore is 10 when the option meets or exceeds the required
// level, otherwise decays with the rank gap on the ordered scale.
func complianceScore(level, required string, t Tunables) float64 {
	optRank, _ := complianceRank(level)
	reqRank, _ := complianceRank(required)
	if optRank >= reqRank {
		return 10
	}
	return clamp(10-t.ComplianceGapPenalty*float64(reqRank-optRank), 0, 10)
}

// cloudScore is 10 on a match or when either side opts out (unset or
// "multi" never conflicts); any other pairing gets the fixed mismatch
// score.
func cloudScore(cloud, preferred string, t Tunables) float64 {
	if cloudNeutral(cloud) || cloudNeutral(preferred) {
		return 10
	}
	if normalizeLevel(cloud) == normalizeLevel(preferred) {
		return 10
	}
	return clamp(t.CloudMismatchScore, 0, 10)
}

// skillScore is 10 when the team's skill covers the option's requirement,
// otherwise decays with the rank gap: a team short on skill is an
// operational risk.
func skillScore(required, available string, t Tunables) float64 {
	reqRank, _ := skillRank(required)
	availRank, _ := skillRank(available)
	if reqRank <= availRank {
		return 10
	}
	return clamp(10-t.SkillGapPenalty*float64(reqRank-availRank), 0, 10)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
