package events

const (
	SubjectComparisonRequested = "decisions.comparison.requested"
	SubjectStats               = "decisions.stats"

	StreamName   = "DECISION_EVENTS"
	StreamMaxAge = "720h" // 30 days
)

func SubjectComparisonCompleted(comparisonID string) string {
	return "decisions.comparison." + comparisonID + ".completed"
}

func SubjectComparisonFailed(comparisonID string) string {
	return "decisions.comparison." + comparisonID + ".failed"
}
