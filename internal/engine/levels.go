package engine

import "strings"

// Compliance levels, ordered by increasing strictness. Gap arithmetic in
// the normalizer works on integer ranks, never on string comparison.
const (
	ComplianceNone  = "none"
	ComplianceBasic = "basic"
	ComplianceSOC2  = "soc2"
	ComplianceGDPR  = "gdpr"
	CompliancePCI   = "pci"
	ComplianceHIPAA = "hipaa"
)

var complianceRanks = map[string]int{
	ComplianceNone:  0,
	ComplianceBasic: 1,
	ComplianceSOC2:  2,
	ComplianceGDPR:  3,
	CompliancePCI:   4,
	ComplianceHIPAA: 5,
}

// Team skill levels, ordered by increasing capability.
const (
	SkillBeginner     = "beginner"
	SkillIntermediate = "intermediate"
	SkillAdvanced     = "advanced"
	SkillExpert       = "expert"
)

var skillRanks = map[string]int{
	SkillBeginner:     1,
	SkillIntermediate: 2,
	SkillAdvanced:     3,
	SkillExpert:       4,
}

// CloudMulti never conflicts with any preferred cloud.
const CloudMulti = "multi"

func complianceRank(level string) (int, bool) {
	rank, ok := complianceRanks[normalizeLevel(level)]
	return rank, ok
}

func skillRank(level string) (int, bool) {
	rank, ok := skillRanks[normalizeLevel(level)]
	return rank, ok
}

func normalizeLevel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// cloudNeutral reports whether a cloud value opts out of matching:
// unset means "no preference", multi runs anywhere.
func cloudNeutral(cloud string) bool {
	c := normalizeLevel(cloud)
	return c == "" || c == CloudMulti
}
