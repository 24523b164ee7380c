package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Adityaaz10/decision-intelligence-platform/internal/events"
	"github.com/Adityaaz10/decision-intelligence-platform/internal/metrics"
)

// MockEvents implements events.Client for verifying publish behavior
type MockEvents struct {
	mock.Mock
}

func (m *MockEvents) PublishComparisonCompleted(ev events.ComparisonCompletedEvent) error {
	args := m.Called(ev)
	return args.Error(0)
}

func (m *MockEvents) PublishComparisonFailed(ev events.ComparisonFailedEvent) error {
	args := m.Called(ev)
	return args.Error(0)
}

func (m *MockEvents) PublishStats(ev events.StatsEvent) error {
	args := m.Called(ev)
	return args.Error(0)
}

func (m *MockEvents) SubscribeComparisonRequests(handler func(events.ComparisonRequestedEvent)) error {
	args := m.Called(handler)
	return args.Error(0)
}

func (m *MockEvents) Close() {
	// No-op for mock
}

func newEventsTestRouter(t *testing.T, me *MockEvents) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.New(prometheus.NewRegistry())
	return NewRouter(newMockStore(), me, testEngine(t), m, "", 120, logger)
}

func TestCompletedEventCarriesWinner(t *testing.T) {
	mockEvents := &MockEvents{}

	var published events.ComparisonCompletedEvent
	mockEvents.On("PublishComparisonCompleted", mock.AnythingOfType("events.ComparisonCompletedEvent")).
		Run(func(args mock.Arguments) {
			published = args.Get(0).(events.ComparisonCompletedEvent)
		}).
		Return(nil)

	router := newEventsTestRouter(t, mockEvents)
	doc := postComparison(t, router, validCompareBody())

	mockEvents.AssertExpectations(t)
	assert.Equal(t, doc.ComparisonID, published.ComparisonID)
	assert.Equal(t, "startup api backend", published.UseCase)
	assert.Equal(t, doc.Scores[0].OptionName, published.Winner)
	assert.Equal(t, doc.Scores[0].WeightedScore, published.WinnerScore)
	assert.Equal(t, 2, published.OptionCount)
	assert.False(t, published.Timestamp.IsZero())
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	mockEvents := &MockEvents{}
	mockEvents.On("PublishComparisonCompleted", mock.Anything).Return(errors.New("nats: connection closed"))

	router := newEventsTestRouter(t, mockEvents)

	req := httptest.NewRequest("POST", "/api/v1/compare", strings.NewReader(validCompareBody()))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockEvents.AssertExpectations(t)
}

func TestRejectedRequestPublishesNothing(t *testing.T) {
	mockEvents := &MockEvents{}
	router := newEventsTestRouter(t, mockEvents)

	req := httptest.NewRequest("POST", "/api/v1/compare", strings.NewReader(`{"options": []}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockEvents.AssertNotCalled(t, "PublishComparisonCompleted", mock.Anything)
	mockEvents.AssertNotCalled(t, "PublishComparisonFailed", mock.Anything)
}
