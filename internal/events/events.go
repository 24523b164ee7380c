package events

import (
	"time"

	"github.com/Adityaaz10/decision-intelligence-platform/internal/engine"
)

// ComparisonRequestedEvent asks the service to run a comparison off the
// HTTP path. RequestID is caller-chosen and echoed back on completion.
type ComparisonRequestedEvent struct {
	RequestID string                   `json:"request_id,omitempty"`
	Request   engine.ComparisonRequest `json:"request"`
}

type ComparisonCompletedEvent struct {
	ComparisonID string    `json:"comparison_id"`
	RequestID    string    `json:"request_id,omitempty"`
	UseCase      string    `json:"use_case,omitempty"`
	Winner       string    `json:"winner"`
	WinnerScore  float64   `json:"winner_score"`
	OptionCount  int       `json:"option_count"`
	Timestamp    time.Time `json:"timestamp"`
}

type ComparisonFailedEvent struct {
	RequestID string    `json:"request_id,omitempty"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

type StatsEvent struct {
	TotalComparisons int       `json:"total_comparisons"`
	TotalOptions     int       `json:"total_options"`
	UniqueOptions    int       `json:"unique_options"`
	AvgWeightedScore float64   `json:"avg_weighted_score"`
	Timestamp        time.Time `json:"timestamp"`
}
