package store

import (
	"context"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func saveSample(t *testing.T, s *SQLiteStore, id string) *ComparisonRecord {
	t.Helper()
	rec := NewComparisonRecord(id, sampleRequest(), sampleDocument(id))
	if err := s.SaveComparison(context.Background(), rec); err != nil {
		t.Fatalf("save %s: %v", id, err)
	}
	return rec
}

func TestSQLiteSaveAndGet(t *testing.T) {
	s := newTestStore(t)
	saved := saveSample(t, s, "cmp-get")

	got, err := s.GetComparison(context.Background(), "cmp-get")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected record, got nil")
	}
	if got.ID != "cmp-get" || got.UseCase != "transactional workload" {
		t.Errorf("unexpected record %+v", got)
	}
	if string(got.Request) != string(saved.Request) {
		t.Error("request payload changed in round trip")
	}
	if string(got.Result) != string(saved.Result) {
		t.Error("result payload changed in round trip")
	}
	if !got.Timestamp.Equal(saved.Timestamp) {
		t.Errorf("timestamp changed: saved %v, got %v", saved.Timestamp, got.Timestamp)
	}
	if got.CreatedAt.IsZero() {
		t.Error("expected created_at to be set on save")
	}
}

func TestSQLiteGetMissing(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetComparison(context.Background(), "nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for unknown id, got %+v", got)
	}
}

func TestSQLiteListComparisons(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := NewComparisonRecord("cmp-old", sampleRequest(), sampleDocument("cmp-old"))
	first.CreatedAt = time.Now().UTC().Add(-time.Hour)
	if err := s.SaveComparison(ctx, first); err != nil {
		t.Fatalf("save old: %v", err)
	}
	saveSample(t, s, "cmp-new")

	list, err := s.ListComparisons(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(list))
	}
	if list[0].ID != "cmp-new" || list[1].ID != "cmp-old" {
		t.Errorf("expected newest first, got %s then %s", list[0].ID, list[1].ID)
	}
	if list[0].OptionCount != 2 {
		t.Errorf("expected 2 options, got %d", list[0].OptionCount)
	}

	limited, err := s.ListComparisons(ctx, 1)
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("expected limit to apply, got %d rows", len(limited))
	}
}

func TestSQLiteSearchComparisons(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	saveSample(t, s, "cmp-search")

	byUseCase, err := s.SearchComparisons(ctx, "transactional", 10)
	if err != nil {
		t.Fatalf("search by use case: %v", err)
	}
	if len(byUseCase) != 1 || byUseCase[0].ID != "cmp-search" {
		t.Errorf("expected hit by use case, got %+v", byUseCase)
	}
	if byUseCase[0].OptionCount != 2 {
		t.Errorf("expected option count 2 on search hit, got %d", byUseCase[0].OptionCount)
	}

	byOption, err := s.SearchComparisons(ctx, "dynamo", 10)
	if err != nil {
		t.Fatalf("search by option: %v", err)
	}
	if len(byOption) != 1 {
		t.Errorf("expected hit by option name, got %d rows", len(byOption))
	}

	none, err := s.SearchComparisons(ctx, "kafka", 10)
	if err != nil {
		t.Fatalf("search miss: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no hits, got %d", len(none))
	}
}

func TestSQLitePopularOptions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	saveSample(t, s, "cmp-a")
	saveSample(t, s, "cmp-b")

	popular, err := s.PopularOptions(ctx, 10)
	if err != nil {
		t.Fatalf("popular: %v", err)
	}
	if len(popular) != 2 {
		t.Fatalf("expected 2 distinct options, got %d", len(popular))
	}
	for _, u := range popular {
		if u.UsageCount != 2 {
			t.Errorf("option %s: expected usage 2, got %d", u.Name, u.UsageCount)
		}
	}
	// Same usage counts, so the higher average score leads.
	if popular[0].Name != "PostgreSQL" {
		t.Errorf("expected PostgreSQL to lead on average score, got %s", popular[0].Name)
	}
	if popular[0].AverageScore != 8.55 {
		t.Errorf("expected average 8.55, got %f", popular[0].AverageScore)
	}
}

func TestSQLiteDeleteComparison(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	saveSample(t, s, "cmp-del")

	deleted, err := s.DeleteComparison(ctx, "cmp-del")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !deleted {
		t.Error("expected delete to report true")
	}

	got, err := s.GetComparison(ctx, "cmp-del")
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got != nil {
		t.Error("expected record gone after delete")
	}

	// Option rows cascade with the comparison.
	popular, err := s.PopularOptions(ctx, 10)
	if err != nil {
		t.Fatalf("popular after delete: %v", err)
	}
	if len(popular) != 0 {
		t.Errorf("expected no option rows after cascade, got %d", len(popular))
	}

	again, err := s.DeleteComparison(ctx, "cmp-del")
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if again {
		t.Error("expected second delete to report false")
	}
}

func TestSQLiteStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	empty, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("stats empty: %v", err)
	}
	if empty.TotalComparisons != 0 || empty.AvgWeightedScore != 0 {
		t.Errorf("expected zero stats, got %+v", empty)
	}

	saveSample(t, s, "cmp-stats")

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalComparisons != 1 {
		t.Errorf("expected 1 comparison, got %d", stats.TotalComparisons)
	}
	if stats.TotalOptions != 2 {
		t.Errorf("expected 2 option rows, got %d", stats.TotalOptions)
	}
	if stats.UniqueOptions != 2 {
		t.Errorf("expected 2 unique options, got %d", stats.UniqueOptions)
	}
	// (8.55 + 7.78) / 2 rounded to 2dp.
	if stats.AvgWeightedScore != 8.17 {
		t.Errorf("expected avg 8.17, got %f", stats.AvgWeightedScore)
	}
}
