package engine

// TechOption is one candidate under comparison. Numeric attributes are
// 1–10 by caller convention: cost and latency are "higher = more/worse",
// scalability is "higher = better".
type TechOption struct {
	Name              string   `json:"name"`
	Description       string   `json:"description,omitempty"`
	Cost              float64  `json:"cost"`
	Latency           float64  `json:"latency"`
	Scalability       float64  `json:"scalability"`
	Compliance        string   `json:"compliance"`
	Cloud             string   `json:"cloud,omitempty"`
	TeamSkillRequired string   `json:"team_skill_required"`
	Pros              []string `json:"pros,omitempty"`
	Cons              []string `json:"cons,omitempty"`
}

// Constraints express the user's tolerances, not absolute values.
// Budget, MaxLatency and RequiredScale are 1–10 sliders.
type Constraints struct {
	Budget         float64 `json:"budget"`
	MaxLatency     float64 `json:"max_latency"`
	RequiredScale  float64 `json:"required_scale"`
	Compliance     string  `json:"compliance"`
	PreferredCloud string  `json:"preferred_cloud,omitempty"`
	TeamSkill      string  `json:"team_skill"`
}

// ComparisonRequest is the validated input to a comparison run:
// an ordered sequence of at least two options plus one set of constraints.
type ComparisonRequest struct {
	Options     []TechOption `json:"options"`
	Constraints Constraints  `json:"constraints"`
	UseCase     string       `json:"use_case"`
	Description string       `json:"description,omitempty"`
}

// OptionScore holds the six normalized fit scores for one option, the
// unweighted mean and the weighted total. Every score is in [0, 10].
type OptionScore struct {
	OptionName       string  `json:"option_name"`
	TotalScore       float64 `json:"total_score"`
	CostScore        float64 `json:"cost_score"`
	LatencyScore     float64 `json:"latency_score"`
	ScalabilityScore float64 `json:"scalability_score"`
	ComplianceScore  float64 `json:"compliance_score"`
	CloudScore       float64 `json:"cloud_score"`
	SkillScore       float64 `json:"skill_score"`
	WeightedScore    float64 `json:"weighted_score"`
}

// Impact levels for a pairwise score gap.
const (
	ImpactLow    = "low"
	ImpactMedium = "medium"
	ImpactHigh   = "high"
)

// TradeOff records one significant pairwise difference. Winner is always
// one of OptionA/OptionB; pairs with a gap at or below the significance
// threshold produce no TradeOff at all.
type TradeOff struct {
	OptionA     string `json:"option_a"`
	OptionB     string `json:"option_b"`
	Dimension   string `json:"dimension"`
	Winner      string `json:"winner"`
	Explanation string `json:"explanation"`
	Impact      string `json:"impact"`
}

// ScenarioMap assigns each fixed scenario key to the name of the option
// that best satisfies that extreme.
type ScenarioMap map[string]string

// ComparisonResult is the full engine output. Scores are sorted by
// weighted score descending; TradeOffs follow input pair order with a
// fixed inner dimension order, so identical input yields identical output.
type ComparisonResult struct {
	Scores    []OptionScore `json:"scores"`
	TradeOffs []TradeOff    `json:"tradeoffs"`
	Scenarios ScenarioMap   `json:"scenarios"`
}
