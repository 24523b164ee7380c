package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Client publishes comparison lifecycle events and feeds request events
// to a handler. Implementations must tolerate a nil-safe Close.
type Client interface {
	PublishComparisonCompleted(ev ComparisonCompletedEvent) error
	PublishComparisonFailed(ev ComparisonFailedEvent) error
	PublishStats(ev StatsEvent) error
	SubscribeComparisonRequests(handler func(ev ComparisonRequestedEvent)) error
	Close()
}

type NATSClient struct {
	conn   *nats.Conn
	js     jetstream.JetStream
	subs   []*nats.Subscription
	logger *slog.Logger
}

func NewNATSClient(ctx context.Context, url string, logger *slog.Logger) (*NATSClient, error) {
	nc, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	c := &NATSClient{conn: nc, js: js, logger: logger}
	if err := c.ensureStream(ctx); err != nil {
		logger.Warn("failed to ensure stream", "error", err)
	}
	return c, nil
}

func (c *NATSClient) ensureStream(ctx context.Context) error {
	maxAge, _ := time.ParseDuration(StreamMaxAge)
	_, err := c.js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     StreamName,
		Subjects: []string{"decisions.>"},
		MaxAge:   maxAge,
	})
	return err
}

func (c *NATSClient) PublishComparisonCompleted(ev ComparisonCompletedEvent) error {
	return c.publish(SubjectComparisonCompleted(ev.ComparisonID), ev)
}

func (c *NATSClient) PublishComparisonFailed(ev ComparisonFailedEvent) error {
	return c.publish(SubjectComparisonFailed(ev.RequestID), ev)
}

func (c *NATSClient) PublishStats(ev StatsEvent) error {
	return c.publish(SubjectStats, ev)
}

func (c *NATSClient) publish(subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.conn.Publish(subject, payload)
}

// SubscribeComparisonRequests decodes request events before handing them
// to the handler. Payloads that fail to decode are logged and dropped.
func (c *NATSClient) SubscribeComparisonRequests(handler func(ev ComparisonRequestedEvent)) error {
	sub, err := c.conn.Subscribe(SubjectComparisonRequested, func(msg *nats.Msg) {
		var ev ComparisonRequestedEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			c.logger.Warn("dropping malformed comparison request event", "error", err)
			return
		}
		handler(ev)
	})
	if err != nil {
		return err
	}
	c.subs = append(c.subs, sub)
	return nil
}

func (c *NATSClient) Close() {
	for _, sub := range c.subs {
		_ = sub.Unsubscribe()
	}
	c.conn.Close()
}
