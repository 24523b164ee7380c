// Package worker runs comparisons submitted over NATS instead of HTTP.
// It subscribes to comparison.requested events, runs the same engine and
// insight pipeline as the API, persists the result and publishes a
// completed (or failed) event. The worker only starts when NATS is
// configured.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Adityaaz10/decision-intelligence-platform/internal/engine"
	"github.com/Adityaaz10/decision-intelligence-platform/internal/events"
	"github.com/Adityaaz10/decision-intelligence-platform/internal/insight"
	"github.com/Adityaaz10/decision-intelligence-platform/internal/metrics"
	"github.com/Adityaaz10/decision-intelligence-platform/internal/store"
)

const (
	// requestQueueSize bounds the backlog of subscribed events; requests
	// beyond it are dropped with a warning rather than growing unbounded.
	requestQueueSize = 128

	statsInterval = time.Minute
)

type Worker struct {
	store   store.Store
	events  events.Client
	engine  *engine.Engine
	metrics *metrics.Metrics
	logger  *slog.Logger

	queue chan events.ComparisonRequestedEvent

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func New(s store.Store, ec events.Client, eng *engine.Engine, m *metrics.Metrics, logger *slog.Logger) *Worker {
	return &Worker{
		store:   s,
		events:  ec,
		engine:  eng,
		metrics: m,
		logger:  logger,
		queue:   make(chan events.ComparisonRequestedEvent, requestQueueSize),
		stopCh:  make(chan struct{}),
	}
}

// Start subscribes to comparison requests and launches the processing
// and stats loops. It returns the subscription error, if any; the loops
// stop on Stop or when ctx is done.
func (w *Worker) Start(ctx context.Context) error {
	if err := w.events.SubscribeComparisonRequests(w.enqueue); err != nil {
		return err
	}
	w.wg.Add(2)
	go w.runLoop(ctx)
	go w.statsLoop(ctx)
	return nil
}

func (w *Worker) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	w.wg.Wait()
}

func (w *Worker) enqueue(ev events.ComparisonRequestedEvent) {
	select {
	case w.queue <- ev:
	default:
		w.logger.Warn("comparison request queue full, dropping event", "request_id", ev.RequestID)
		w.metrics.RecordComparison("event", "dropped", 0, 0)
	}
}

func (w *Worker) runLoop(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-w.stopCh:
			return
		case <-ctx.Done():
			return
		case ev := <-w.queue:
			w.process(ctx, ev)
		}
	}
}

func (w *Worker) statsLoop(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.publishStats(ctx)
		}
	}
}

// process runs one requested comparison end to end. Requests that fail
// engine validation are answered with a failed event and dropped; there
// is nothing to retry until the caller fixes the request.
func (w *Worker) process(ctx context.Context, ev events.ComparisonRequestedEvent) {
	start := time.Now()
	if ev.RequestID == "" {
		ev.RequestID = uuid.New().String()
	}

	result, err := w.engine.Compare(ev.Request)
	if err != nil {
		w.logger.Warn("dropping invalid comparison request",
			"request_id", ev.RequestID, "error", err)
		w.metrics.RecordComparison("event", "invalid", 0, 0)
		publishErr := w.events.PublishComparisonFailed(events.ComparisonFailedEvent{
			RequestID: ev.RequestID,
			Error:     err.Error(),
			Timestamp: time.Now().UTC(),
		})
		w.metrics.RecordEventPublish("comparison_failed", publishErr)
		return
	}
	if result.TradeOffs == nil {
		result.TradeOffs = []engine.TradeOff{}
	}

	doc := &store.ComparisonDocument{
		ComparisonID: uuid.New().String(),
		Scores:       result.Scores,
		TradeOffs:    result.TradeOffs,
		Scenarios:    result.Scenarios,
		Weights:      w.engine.Weights(),
		Analysis:     insight.Analyze(ev.Request, result),
		Timestamp:    time.Now().UTC(),
	}

	rec := store.NewComparisonRecord(doc.ComparisonID, ev.Request, doc)
	if err := w.store.SaveComparison(ctx, rec); err != nil {
		w.logger.Error("failed to persist comparison",
			"request_id", ev.RequestID, "comparison_id", doc.ComparisonID, "error", err)
		w.metrics.RecordStoreError("save")
		w.metrics.RecordComparison("event", "error", 0, 0)
		publishErr := w.events.PublishComparisonFailed(events.ComparisonFailedEvent{
			RequestID: ev.RequestID,
			Error:     "failed to persist comparison",
			Timestamp: time.Now().UTC(),
		})
		w.metrics.RecordEventPublish("comparison_failed", publishErr)
		return
	}

	publishErr := w.events.PublishComparisonCompleted(events.ComparisonCompletedEvent{
		ComparisonID: doc.ComparisonID,
		RequestID:    ev.RequestID,
		UseCase:      ev.Request.UseCase,
		Winner:       doc.Scores[0].OptionName,
		WinnerScore:  doc.Scores[0].WeightedScore,
		OptionCount:  len(doc.Scores),
		Timestamp:    doc.Timestamp,
	})
	w.metrics.RecordEventPublish("comparison_completed", publishErr)
	w.metrics.RecordComparison("event", "success", time.Since(start), len(ev.Request.Options))

	w.logger.Info("comparison processed",
		"request_id", ev.RequestID,
		"comparison_id", doc.ComparisonID,
		"winner", doc.Scores[0].OptionName,
		"options", len(doc.Scores))
}

func (w *Worker) publishStats(ctx context.Context) {
	stats, err := w.store.Stats(ctx)
	if err != nil {
		w.logger.Error("failed to read store stats", "error", err)
		w.metrics.RecordStoreError("stats")
		return
	}
	publishErr := w.events.PublishStats(events.StatsEvent{
		TotalComparisons: stats.TotalComparisons,
		TotalOptions:     stats.TotalOptions,
		UniqueOptions:    stats.UniqueOptions,
		AvgWeightedScore: stats.AvgWeightedScore,
		Timestamp:        time.Now().UTC(),
	})
	w.metrics.RecordEventPublish("stats", publishErr)
}
