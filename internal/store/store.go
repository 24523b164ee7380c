package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Adityaaz10/decision-intelligence-platform/internal/engine"
	"github.com/Adityaaz10/decision-intelligence-platform/internal/insight"
)

// ComparisonDocument is the canonical JSON form of a finished comparison:
// what POST /compare returns and what gets persisted as result data.
type ComparisonDocument struct {
	ComparisonID string               `json:"comparison_id"`
	Scores       []engine.OptionScore `json:"scores"`
	TradeOffs    []engine.TradeOff    `json:"tradeoffs"`
	Scenarios    engine.ScenarioMap   `json:"scenarios"`
	Weights      engine.WeightSet     `json:"weights"`
	Analysis     insight.Analysis     `json:"kiro_analysis"`
	Timestamp    time.Time            `json:"timestamp"`
}

// ComparisonRecord is one persisted comparison. Request and Result hold
// the request and document JSON verbatim. Options carries the
// denormalized per-option rows on the write path; reads leave it nil and
// serve option-level queries through SearchComparisons/PopularOptions.
type ComparisonRecord struct {
	ID        string          `json:"id"`
	UseCase   string          `json:"use_case"`
	Request   json.RawMessage `json:"request"`
	Result    json.RawMessage `json:"result"`
	Timestamp time.Time       `json:"timestamp"`
	CreatedAt time.Time       `json:"created_at"`

	Options []OptionRecord `json:"-"`
}

// OptionRecord is the queryable row kept per compared option.
type OptionRecord struct {
	Name          string
	Data          json.RawMessage
	WeightedScore float64
}

// ComparisonSummary is the listing shape for recent and searched
// comparisons.
type ComparisonSummary struct {
	ID          string    `json:"id"`
	UseCase     string    `json:"use_case"`
	Timestamp   time.Time `json:"timestamp"`
	CreatedAt   time.Time `json:"created_at"`
	OptionCount int       `json:"option_count"`
}

// OptionUsage aggregates how often an option shows up across stored
// comparisons and how it scores on average.
type OptionUsage struct {
	Name         string  `json:"name"`
	UsageCount   int     `json:"usage_count"`
	AverageScore float64 `json:"average_score"`
}

type StoreStats struct {
	TotalComparisons int     `json:"total_comparisons"`
	TotalOptions     int     `json:"total_options"`
	UniqueOptions    int     `json:"unique_options"`
	AvgWeightedScore float64 `json:"avg_weighted_score"`
}

// NewComparisonRecord assembles the persisted record for one comparison.
// Option rows get the weighted score from the document, or 0 when an
// option somehow has no score entry.
func NewComparisonRecord(id string, req engine.ComparisonRequest, doc *ComparisonDocument) *ComparisonRecord {
	reqJSON, _ := json.Marshal(req)
	docJSON, _ := json.Marshal(doc)

	scoreByName := make(map[string]float64, len(doc.Scores))
	for _, s := range doc.Scores {
		scoreByName[s.OptionName] = s.WeightedScore
	}

	options := make([]OptionRecord, len(req.Options))
	for i, opt := range req.Options {
		optJSON, _ := json.Marshal(opt)
		options[i] = OptionRecord{
			Name:          opt.Name,
			Data:          optJSON,
			WeightedScore: scoreByName[opt.Name],
		}
	}

	return &ComparisonRecord{
		ID:        id,
		UseCase:   req.UseCase,
		Request:   reqJSON,
		Result:    docJSON,
		Timestamp: doc.Timestamp,
		Options:   options,
	}
}

// Store persists comparison runs. GetComparison returns (nil, nil) when
// the id is unknown.
type Store interface {
	SaveComparison(ctx context.Context, rec *ComparisonRecord) error
	GetComparison(ctx context.Context, id string) (*ComparisonRecord, error)
	ListComparisons(ctx context.Context, limit int) ([]*ComparisonSummary, error)
	SearchComparisons(ctx context.Context, query string, limit int) ([]*ComparisonSummary, error)
	PopularOptions(ctx context.Context, limit int) ([]*OptionUsage, error)
	DeleteComparison(ctx context.Context, id string) (bool, error)
	Stats(ctx context.Context) (*StoreStats, error)
	Close() error
}
