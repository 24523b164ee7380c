package engine

import (
	"math"
	"testing"
)

func TestCostScore(t *testing.T) {
	tun := DefaultTunables()
	tests := []struct {
		name   string
		cost   float64
		budget float64
		want   float64
	}{
		{"cheap within budget", 1, 5, 10},
		{"mid within budget", 2, 5, 9},
		{"at budget", 5, 5, 6},
		{"one over budget", 6, 5, 3.5},
		{"far over budget", 8, 5, 0},
		{"max cost min budget", 10, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := costScore(tt.cost, tt.budget, tun)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("costScore(%g, %g) = %g, want %g", tt.cost, tt.budget, got, tt.want)
			}
		})
	}
}

func TestCostScoreMonotonic(t *testing.T) {
	tun := DefaultTunables()
	for budget := 1.0; budget <= 10; budget++ {
		prev := math.Inf(1)
		for cost := 1.0; cost <= 10; cost += 0.5 {
			got := costScore(cost, budget, tun)
			if got > prev {
				t.Fatalf("cost_score increased from %g to %g when cost rose to %g (budget %g)", prev, got, cost, budget)
			}
			prev = got
		}
	}
}

func TestLatencyScore(t *testing.T) {
	tun := DefaultTunables()
	if got := latencyScore(2, 5, tun); got != 9 {
		t.Errorf("latency 2 under tolerance 5: got %g, want 9", got)
	}
	if got := latencyScore(8, 5, tun); got != 0 {
		t.Errorf("latency 8 over tolerance 5: got %g, want 0", got)
	}
	if over, under := latencyScore(6, 5, tun), latencyScore(5, 5, tun); over >= under {
		t.Errorf("exceeding the tolerance must cost score: over=%g under=%g", over, under)
	}
}

func TestScalabilityScore(t *testing.T) {
	tun := DefaultTunables()
	tests := []struct {
		name        string
		scalability float64
		required    float64
		want        float64
	}{
		{"exceeds requirement", 9, 5, 9},
		{"meets requirement", 5, 5, 5},
		{"below requirement", 3, 5, 0},
		{"slightly below", 4.5, 5, 3.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scalabilityScore(tt.scalability, tt.required, tun)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("scalabilityScore(%g, %g) = %g, want %g", tt.scalability, tt.required, got, tt.want)
			}
		})
	}
}

func TestComplianceScore(t *testing.T) {
	tun := DefaultTunables()
	tests := []struct {
		name     string
		level    string
		required string
		want     float64
	}{
		{"meets exactly", "basic", "basic", 10},
		{"exceeds", "soc2", "basic", 10},
		{"hipaa covers everything", "hipaa", "pci", 10},
		{"one level short", "soc2", "gdpr", 7},
		{"two levels short", "soc2", "pci", 4},
		{"none vs hipaa floors at zero", "none", "hipaa", 0},
		{"case insensitive", "SOC2", "basic", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := complianceScore(tt.level, tt.required, tun)
			if got != tt.want {
				t.Errorf("complianceScore(%q, %q) = %g, want %g", tt.level, tt.required, got, tt.want)
			}
		})
	}
}

func TestCloudScore(t *testing.T) {
	tun := DefaultTunables()
	tests := []struct {
		name      string
		cloud     string
		preferred string
		want      float64
	}{
		{"exact match", "aws", "aws", 10},
		{"mismatch", "azure", "aws", 4},
		{"no preference", "azure", "", 10},
		{"option unset", "", "aws", 10},
		{"multi option never conflicts", "multi", "aws", 10},
		{"multi preference never conflicts", "gcp", "multi", 10},
		{"case insensitive match", "AWS", "aws", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cloudScore(tt.cloud, tt.preferred, tun)
			if got != tt.want {
				t.Errorf("cloudScore(%q, %q) = %g, want %g", tt.cloud, tt.preferred, got, tt.want)
			}
		})
	}
}

func TestSkillScore(t *testing.T) {
	tun := DefaultTunables()
	tests := []struct {
		name      string
		required  string
		available string
		want      float64
	}{
		{"team covers requirement", "beginner", "expert", 10},
		{"exact match", "intermediate", "intermediate", 10},
		{"one level gap", "advanced", "intermediate", 7},
		{"two level gap", "expert", "intermediate", 4},
		{"maximum gap", "expert", "beginner", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := skillScore(tt.required, tt.available, tun)
			if got != tt.want {
				t.Errorf("skillScore(%q, %q) = %g, want %g", tt.required, tt.available, got, tt.want)
			}
		})
	}
}

func TestNormalizeScoresStayInRange(t *testing.T) {
	tun := DefaultTunables()
	constraints := Constraints{
		Budget:         1,
		MaxLatency:     1,
		RequiredScale:  10,
		Compliance:     "hipaa",
		PreferredCloud: "aws",
		TeamSkill:      "beginner",
	}

	// Worst case against the harshest constraints.
	for cost := 1.0; cost <= 10; cost++ {
		for latency := 1.0; latency <= 10; latency += 3 {
			opt := TechOption{
				Name:              "probe",
				Cost:              cost,
				Latency:           latency,
				Scalability:       1,
				Compliance:        "none",
				Cloud:             "gcp",
				TeamSkillRequired: "expert",
			}
			s := Normalize(opt, constraints, tun)
			for dim, v := range map[string]float64{
				"cost":        s.CostScore,
				"latency":     s.LatencyScore,
				"scalability": s.ScalabilityScore,
				"compliance":  s.ComplianceScore,
				"cloud":       s.CloudScore,
				"skill":       s.SkillScore,
			} {
				if v < 0 || v > 10 {
					t.Fatalf("%s score %g out of [0,10] for cost=%g latency=%g", dim, v, cost, latency)
				}
			}
		}
	}
}

func TestTunablesValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Tunables)
		wantErr bool
	}{
		{"defaults", func(*Tunables) {}, false},
		{"negative penalty", func(tn *Tunables) { tn.OverBudgetPenalty = -1 }, true},
		{"mismatch score above scale", func(tn *Tunables) { tn.CloudMismatchScore = 11 }, true},
		{"high below medium", func(tn *Tunables) { tn.HighImpactGap = 1; tn.MediumImpactGap = 2 }, true},
		{"zero medium gap", func(tn *Tunables) { tn.MediumImpactGap = 0 }, true},
		{"custom sane", func(tn *Tunables) { tn.TradeoffThreshold = 0.5; tn.HighImpactGap = 5 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tun := DefaultTunables()
			tt.mutate(&tun)
			err := tun.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
