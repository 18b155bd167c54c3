package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
)

const defaultPublishTimeout = 10 * time.Second

// EventPickupRequested is emitted after a pickup request commits.
const EventPickupRequested = "pickup.requested"

// Envelope wraps every event payload published by the API.
type Envelope struct {
	EventID    string          `json:"event_id"`
	EventType  string          `json:"event_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

// EventPublisher sends domain events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, eventType, key string, payload any) error
}

type publisher interface {
	Publish(context.Context, *pubsub.Message) publishResult
}

type publishResult interface {
	Get(context.Context) (string, error)
}

type gcpPublisher struct {
	inner *pubsub.Publisher
}

func (g gcpPublisher) Publish(ctx context.Context, msg *pubsub.Message) publishResult {
	return g.inner.Publish(ctx, msg)
}

// TopicPublisher publishes enveloped JSON events to one topic.
type TopicPublisher struct {
	pub     publisher
	now     func() time.Time
	timeout time.Duration
}

// NewTopicPublisher wraps a Pub/Sub publisher handle.
func NewTopicPublisher(pub *pubsub.Publisher) (*TopicPublisher, error) {
	if pub == nil {
		return nil, errors.New("pubsub publisher is required")
	}
	return &TopicPublisher{pub: gcpPublisher{inner: pub}, now: time.Now, timeout: defaultPublishTimeout}, nil
}

// Publish encodes payload inside an Envelope and waits for the server ack.
func (p *TopicPublisher) Publish(ctx context.Context, eventType, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	envelope := Envelope{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		OccurredAt: p.now().UTC(),
		Data:       data,
	}
	body, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("encode %s envelope: %w", eventType, err)
	}

	msg := &pubsub.Message{
		Data: body,
		Attributes: map[string]string{
			"event_id":    envelope.EventID,
			"event_type":  eventType,
			"occurred_at": envelope.OccurredAt.Format(time.RFC3339Nano),
		},
	}
	if key != "" {
		msg.Attributes["aggregate_id"] = key
	}

	publishCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	result := p.pub.Publish(publishCtx, msg)
	if result == nil {
		return fmt.Errorf("publisher returned nil for %s", eventType)
	}
	if _, err := result.Get(publishCtx); err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}
	return nil
}

// Noop drops events when no topic is configured.
type Noop struct{}

// Publish implements EventPublisher.
func (Noop) Publish(context.Context, string, string, any) error { return nil }
