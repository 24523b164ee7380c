package worker

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Adityaaz10/decision-intelligence-platform/internal/engine"
	"github.com/Adityaaz10/decision-intelligence-platform/internal/events"
	"github.com/Adityaaz10/decision-intelligence-platform/internal/metrics"
	"github.com/Adityaaz10/decision-intelligence-platform/internal/store"
)

// Mock implementations

type mockStore struct {
	mu      sync.Mutex
	recs    map[string]*store.ComparisonRecord
	saved   chan string
	saveErr error
}

func newMockStore() *mockStore {
	return &mockStore{
		recs:  make(map[string]*store.ComparisonRecord),
		saved: make(chan string, 8),
	}
}

func (m *mockStore) SaveComparison(_ context.Context, rec *store.ComparisonRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.recs[rec.ID] = rec
	m.saved <- rec.ID
	return nil
}

func (m *mockStore) GetComparison(_ context.Context, id string) (*store.ComparisonRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recs[id], nil
}

func (m *mockStore) ListComparisons(_ context.Context, _ int) ([]*store.ComparisonSummary, error) {
	return nil, nil
}

func (m *mockStore) SearchComparisons(_ context.Context, _ string, _ int) ([]*store.ComparisonSummary, error) {
	return nil, nil
}

func (m *mockStore) PopularOptions(_ context.Context, _ int) ([]*store.OptionUsage, error) {
	return nil, nil
}

func (m *mockStore) DeleteComparison(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.recs[id]; !ok {
		return false, nil
	}
	delete(m.recs, id)
	return true, nil
}

func (m *mockStore) Stats(_ context.Context) (*store.StoreStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &store.StoreStats{
		TotalComparisons: len(m.recs),
		TotalOptions:     3 * len(m.recs),
		UniqueOptions:    2,
		AvgWeightedScore: 6.5,
	}, nil
}

func (m *mockStore) Close() error { return nil }

func (m *mockStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.recs)
}

type mockEvents struct {
	mu        sync.Mutex
	completed []events.ComparisonCompletedEvent
	failed    []events.ComparisonFailedEvent
	stats     []events.StatsEvent
	handler   func(events.ComparisonRequestedEvent)
}

func (m *mockEvents) PublishComparisonCompleted(ev events.ComparisonCompletedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completed = append(m.completed, ev)
	return nil
}

func (m *mockEvents) PublishComparisonFailed(ev events.ComparisonFailedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failed = append(m.failed, ev)
	return nil
}

func (m *mockEvents) PublishStats(ev events.StatsEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats = append(m.stats, ev)
	return nil
}

func (m *mockEvents) SubscribeComparisonRequests(handler func(events.ComparisonRequestedEvent)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handler = handler
	return nil
}

func (m *mockEvents) Close() {}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testWorker(t *testing.T) (*Worker, *mockStore, *mockEvents) {
	t.Helper()
	eng, err := engine.New(engine.DefaultWeights(), engine.DefaultTunables(), 2, discardLogger())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	ms := newMockStore()
	me := &mockEvents{}
	m := metrics.New(prometheus.NewRegistry())
	return New(ms, me, eng, m, discardLogger()), ms, me
}

func testRequest() engine.ComparisonRequest {
	return engine.ComparisonRequest{
		UseCase: "event driven comparison",
		Options: []engine.TechOption{
			{Name: "managed", Cost: 6, Latency: 3, Scalability: 8, Compliance: "soc2", Cloud: "aws", TeamSkillRequired: "beginner"},
			{Name: "selfhosted", Cost: 2, Latency: 5, Scalability: 5, Compliance: "basic", Cloud: "multi", TeamSkillRequired: "advanced"},
		},
		Constraints: engine.Constraints{
			Budget: 5, MaxLatency: 5, RequiredScale: 5,
			Compliance: "basic", PreferredCloud: "aws", TeamSkill: "intermediate",
		},
	}
}

func TestProcessPersistsAndPublishes(t *testing.T) {
	w, ms, me := testWorker(t)

	w.process(context.Background(), events.ComparisonRequestedEvent{
		RequestID: "req-1",
		Request:   testRequest(),
	})

	if ms.count() != 1 {
		t.Fatalf("expected 1 persisted comparison, got %d", ms.count())
	}
	if len(me.completed) != 1 {
		t.Fatalf("expected 1 completed event, got %d", len(me.completed))
	}
	ev := me.completed[0]
	if ev.RequestID != "req-1" {
		t.Errorf("completed event should echo the request id, got %q", ev.RequestID)
	}
	if ev.OptionCount != 2 {
		t.Errorf("expected option count 2, got %d", ev.OptionCount)
	}
	if ev.Winner == "" || ev.WinnerScore <= 0 {
		t.Errorf("completed event missing winner data: %+v", ev)
	}
	if ev.ComparisonID == "" {
		t.Error("completed event missing comparison id")
	}
	if len(me.failed) != 0 {
		t.Errorf("expected no failed events, got %d", len(me.failed))
	}
}

func TestProcessAssignsRequestID(t *testing.T) {
	w, _, me := testWorker(t)

	w.process(context.Background(), events.ComparisonRequestedEvent{Request: testRequest()})

	if len(me.completed) != 1 {
		t.Fatalf("expected 1 completed event, got %d", len(me.completed))
	}
	if me.completed[0].RequestID == "" {
		t.Error("worker should assign a request id when the caller omits one")
	}
}

func TestProcessInvalidRequest(t *testing.T) {
	w, ms, me := testWorker(t)

	req := testRequest()
	req.Options[0].Cost = 15

	w.process(context.Background(), events.ComparisonRequestedEvent{
		RequestID: "req-bad",
		Request:   req,
	})

	if ms.count() != 0 {
		t.Errorf("invalid request must not be persisted, got %d records", ms.count())
	}
	if len(me.completed) != 0 {
		t.Errorf("invalid request must not complete, got %d events", len(me.completed))
	}
	if len(me.failed) != 1 {
		t.Fatalf("expected 1 failed event, got %d", len(me.failed))
	}
	if me.failed[0].RequestID != "req-bad" {
		t.Errorf("failed event should echo the request id, got %q", me.failed[0].RequestID)
	}
	if !strings.Contains(me.failed[0].Error, "cost") {
		t.Errorf("failed event should name the problem, got %q", me.failed[0].Error)
	}
}

func TestProcessStoreFailure(t *testing.T) {
	w, ms, me := testWorker(t)
	ms.saveErr = context.DeadlineExceeded

	w.process(context.Background(), events.ComparisonRequestedEvent{
		RequestID: "req-2",
		Request:   testRequest(),
	})

	if len(me.completed) != 0 {
		t.Errorf("persist failure must not publish completed, got %d events", len(me.completed))
	}
	if len(me.failed) != 1 {
		t.Fatalf("expected 1 failed event, got %d", len(me.failed))
	}
}

func TestPublishStats(t *testing.T) {
	w, _, me := testWorker(t)

	w.process(context.Background(), events.ComparisonRequestedEvent{
		RequestID: "req-3",
		Request:   testRequest(),
	})
	w.publishStats(context.Background())

	if len(me.stats) != 1 {
		t.Fatalf("expected 1 stats event, got %d", len(me.stats))
	}
	if me.stats[0].TotalComparisons != 1 {
		t.Errorf("expected 1 total comparison in stats, got %d", me.stats[0].TotalComparisons)
	}
	if me.stats[0].Timestamp.IsZero() {
		t.Error("stats event missing timestamp")
	}
}

func TestStartProcessesSubscribedEvents(t *testing.T) {
	w, ms, me := testWorker(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := w.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer w.Stop()

	if me.handler == nil {
		t.Fatal("Start must subscribe to comparison requests")
	}

	me.handler(events.ComparisonRequestedEvent{RequestID: "req-async", Request: testRequest()})

	select {
	case <-ms.saved:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the worker to persist the comparison")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	w, _, _ := testWorker(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := w.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	w.Stop()
	w.Stop()
}
