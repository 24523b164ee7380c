// Package insight derives the template-based narrative layer for a
// comparison: summary, key insights, recommendations and risk factors.
// Everything here is deterministic string assembly over the engine's
// output; the engine itself never depends on this package.
package insight

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Adityaaz10/decision-intelligence-platform/internal/engine"
)

// Analysis is the narrative companion to a ComparisonResult.
type Analysis struct {
	Summary          string            `json:"summary"`
	KeyInsights      []string          `json:"key_insights"`
	Recommendations  []string          `json:"recommendations"`
	RiskFactors      []string          `json:"risk_factors"`
	BestForScenarios map[string]string `json:"best_for_scenarios"`
}

// decisionContext captures what the constraints and use case say about
// the caller's priorities.
type decisionContext struct {
	primaryConcern string // cost, performance, compliance, team_capability, balanced
	riskTolerance  string // low, medium, high
}

// Analyze builds the full narrative for a comparison. Scores in the
// result must already be ranked by weighted score descending, which is
// how the engine returns them.
func Analyze(req engine.ComparisonRequest, result *engine.ComparisonResult) Analysis {
	ctx := analyzeContext(req.Constraints, req.UseCase)
	return Analysis{
		Summary:          summarize(len(req.Options), result.Scores, ctx),
		KeyInsights:      keyInsights(result.Scores, result.TradeOffs),
		Recommendations:  recommendations(req.Options, result.Scores, ctx),
		RiskFactors:      riskFactors(result.Scores, result.TradeOffs),
		BestForScenarios: bestForScenarios(result.Scores),
	}
}

func analyzeContext(c engine.Constraints, useCase string) decisionContext {
	ctx := decisionContext{primaryConcern: "balanced", riskTolerance: "medium"}

	switch {
	case c.Budget <= 3:
		ctx.primaryConcern = "cost"
	case c.MaxLatency <= 3:
		ctx.primaryConcern = "performance"
	case c.Compliance == engine.ComplianceHIPAA || c.Compliance == engine.CompliancePCI || c.Compliance == engine.ComplianceGDPR:
		ctx.primaryConcern = "compliance"
	case c.TeamSkill == engine.SkillBeginner || c.TeamSkill == engine.SkillIntermediate:
		ctx.primaryConcern = "team_capability"
	}

	lower := strings.ToLower(useCase)
	if containsAny(lower, "startup", "mvp", "prototype") {
		ctx.riskTolerance = "high"
	} else if containsAny(lower, "enterprise", "production", "critical") {
		ctx.riskTolerance = "low"
	}
	return ctx
}

func keyInsights(scores []engine.OptionScore, tradeoffs []engine.TradeOff) []string {
	var insights []string

	gap := scores[0].WeightedScore - scores[len(scores)-1].WeightedScore
	if gap < 1.0 {
		insights = append(insights, "All options are very close in overall scoring - decision factors beyond metrics may be important")
	} else if gap > 4.0 {
		insights = append(insights, fmt.Sprintf("Clear winner: %s significantly outperforms other options", scores[0].OptionName))
	}

	if dims := highImpactDimensions(tradeoffs); len(dims) > 0 {
		insights = append(insights, "Critical trade-offs exist in: "+strings.Join(dims, ", "))
	}

	costLeaders := topTwoNames(scores, func(s engine.OptionScore) float64 { return s.CostScore })
	perfLeaders := topTwoNames(scores, func(s engine.OptionScore) float64 {
		return (s.LatencyScore + s.ScalabilityScore) / 2
	})
	if !sameNameSet(costLeaders, perfLeaders) {
		insights = append(insights, "Classic cost vs performance trade-off - no option excels at both")
	}

	minCompliance, maxCompliance := scores[0].ComplianceScore, scores[0].ComplianceScore
	for _, s := range scores[1:] {
		if s.ComplianceScore < minCompliance {
			minCompliance = s.ComplianceScore
		}
		if s.ComplianceScore > maxCompliance {
			maxCompliance = s.ComplianceScore
		}
	}
	if maxCompliance-minCompliance > 3 {
		insights = append(insights, "Significant compliance differences between options - regulatory requirements are decisive")
	}

	if dominated := dominatedNames(scores); len(dominated) > 0 {
		insights = append(insights, fmt.Sprintf("Dominated options: %s - another option matches or beats them on every dimension", strings.Join(dominated, ", ")))
	}

	return insights
}

func recommendations(options []engine.TechOption, scores []engine.OptionScore, ctx decisionContext) []string {
	var recs []string

	switch ctx.primaryConcern {
	case "cost":
		costLeader := maxBy(scores, func(s engine.OptionScore) float64 { return s.CostScore })
		recs = append(recs, fmt.Sprintf("For cost optimization: Choose %s - best cost efficiency", costLeader.OptionName))
		if len(scores) > 1 {
			balanced := scores[0]
			if balanced.OptionName == costLeader.OptionName {
				balanced = scores[1]
			}
			recs = append(recs, fmt.Sprintf("For balanced approach: Consider %s - good cost with better features", balanced.OptionName))
		}
	case "performance":
		perfLeader := maxBy(scores, func(s engine.OptionScore) float64 {
			return (s.LatencyScore + s.ScalabilityScore) / 2
		})
		recs = append(recs, fmt.Sprintf("For maximum performance: Choose %s - superior speed and scale", perfLeader.OptionName))
		if len(scores) > 1 {
			costConscious := maxBy(scores, func(s engine.OptionScore) float64 { return s.CostScore })
			if costConscious.OptionName != perfLeader.OptionName {
				recs = append(recs, fmt.Sprintf("For performance on budget: Consider %s - acceptable performance, lower cost", costConscious.OptionName))
			}
		}
	case "compliance":
		complianceLeader := maxBy(scores, func(s engine.OptionScore) float64 { return s.ComplianceScore })
		recs = append(recs, fmt.Sprintf("For regulatory compliance: Choose %s - meets all requirements", complianceLeader.OptionName))
	}

	if ctx.riskTolerance == "low" {
		if name, ok := firstEnterpriseOption(options, scores); ok {
			recs = append(recs, fmt.Sprintf("For low-risk deployment: %s - proven enterprise solution", name))
		}
	}

	costLeader := maxBy(scores, func(s engine.OptionScore) float64 { return s.CostScore })
	latencyLeader := maxBy(scores, func(s engine.OptionScore) float64 { return s.LatencyScore })
	recs = append(recs, fmt.Sprintf("Choice depends on priorities: %s for overall balance, %s for cost, %s for performance",
		scores[0].OptionName, costLeader.OptionName, latencyLeader.OptionName))

	return recs
}

func riskFactors(scores []engine.OptionScore, tradeoffs []engine.TradeOff) []string {
	var risks []string

	for _, s := range scores {
		if s.CostScore < 4 {
			risks = append(risks, s.OptionName+": High cost risk - may exceed budget")
		}
		if s.LatencyScore < 4 {
			risks = append(risks, s.OptionName+": Performance risk - may not meet latency requirements")
		}
		if s.ScalabilityScore < 4 {
			risks = append(risks, s.OptionName+": Scalability risk - may not handle growth")
		}
		if s.ComplianceScore < 6 {
			risks = append(risks, s.OptionName+": Compliance risk - may not meet regulatory requirements")
		}
		if s.SkillScore < 5 {
			risks = append(risks, s.OptionName+": Team capability risk - may require additional training")
		}
	}

	for _, to := range tradeoffs {
		if to.Impact != engine.ImpactHigh {
			continue
		}
		loser := to.OptionA
		if to.Winner == to.OptionA {
			loser = to.OptionB
		}
		risks = append(risks, fmt.Sprintf("Choosing %s over %s sacrifices %s performance", loser, to.Winner, to.Dimension))
	}

	return risks
}

func bestForScenarios(scores []engine.OptionScore) map[string]string {
	costLeader := maxBy(scores, func(s engine.OptionScore) float64 { return s.CostScore })
	perfLeader := maxBy(scores, func(s engine.OptionScore) float64 {
		return (s.LatencyScore + s.ScalabilityScore) / 2
	})
	skillLeader := maxBy(scores, func(s engine.OptionScore) float64 { return s.SkillScore })
	complianceLeader := maxBy(scores, func(s engine.OptionScore) float64 { return s.ComplianceScore })
	balancedLeader := maxBy(scores, func(s engine.OptionScore) float64 { return s.WeightedScore })

	return map[string]string{
		"tight_budget":          costLeader.OptionName + " - most cost-effective option",
		"high_performance":      perfLeader.OptionName + " - best performance characteristics",
		"quick_deployment":      skillLeader.OptionName + " - matches current team skills",
		"enterprise_deployment": complianceLeader.OptionName + " - strongest compliance and governance",
		"startup_mvp":           balancedLeader.OptionName + " - best overall balance for rapid iteration",
	}
}

func summarize(optionCount int, scores []engine.OptionScore, ctx decisionContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyzed %d technical options for your use case. ", optionCount)

	switch ctx.primaryConcern {
	case "cost":
		b.WriteString("With cost as the primary concern, the analysis reveals significant trade-offs between price and capabilities. ")
	case "performance":
		b.WriteString("Performance requirements drive this decision, with clear winners in latency and scalability. ")
	case "compliance":
		b.WriteString("Regulatory compliance is the decisive factor, limiting viable options. ")
	}

	top := scores[0]
	fmt.Fprintf(&b, "%s leads in overall scoring (weighted score: %g), ", top.OptionName, top.WeightedScore)
	b.WriteString("but each option has distinct advantages depending on your specific priorities and constraints. ")
	b.WriteString("The decision should align with your risk tolerance and long-term technical strategy.")
	return b.String()
}

// --- helpers ---

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// highImpactDimensions returns the dimensions with high-impact trade-offs
// in first-seen order, deduplicated.
func highImpactDimensions(tradeoffs []engine.TradeOff) []string {
	var dims []string
	seen := make(map[string]bool)
	for _, to := range tradeoffs {
		if to.Impact == engine.ImpactHigh && !seen[to.Dimension] {
			seen[to.Dimension] = true
			dims = append(dims, to.Dimension)
		}
	}
	return dims
}

func maxBy(scores []engine.OptionScore, key func(engine.OptionScore) float64) engine.OptionScore {
	best := scores[0]
	for _, s := range scores[1:] {
		if key(s) > key(best) {
			best = s
		}
	}
	return best
}

func topTwoNames(scores []engine.OptionScore, key func(engine.OptionScore) float64) []string {
	ranked := make([]engine.OptionScore, len(scores))
	copy(ranked, scores)
	sort.SliceStable(ranked, func(i, j int) bool { return key(ranked[i]) > key(ranked[j]) })
	if len(ranked) > 2 {
		ranked = ranked[:2]
	}
	names := make([]string, len(ranked))
	for i, s := range ranked {
		names[i] = s.OptionName
	}
	return names
}

func sameNameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, n := range a {
		set[n] = true
	}
	for _, n := range b {
		if !set[n] {
			return false
		}
	}
	return true
}

// dominatedNames lists options missing from the Pareto frontier.
func dominatedNames(scores []engine.OptionScore) []string {
	frontier := engine.ParetoFrontier(scores)
	onFrontier := make(map[string]bool, len(frontier))
	for _, name := range frontier {
		onFrontier[name] = true
	}
	var dominated []string
	for _, s := range scores {
		if !onFrontier[s.OptionName] {
			dominated = append(dominated, s.OptionName)
		}
	}
	return dominated
}

// firstEnterpriseOption finds the highest-ranked option whose description
// mentions enterprise.
func firstEnterpriseOption(options []engine.TechOption, scores []engine.OptionScore) (string, bool) {
	byName := make(map[string]engine.TechOption, len(options))
	for _, opt := range options {
		byName[opt.Name] = opt
	}
	for _, s := range scores {
		if opt, ok := byName[s.OptionName]; ok && strings.Contains(strings.ToLower(opt.Description), "enterprise") {
			return s.OptionName, true
		}
	}
	return "", false
}
