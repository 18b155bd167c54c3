package pubsub

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pubsub "cloud.google.com/go/pubsub/v2"
	"cloud.google.com/go/pubsub/v2/apiv1/pubsubpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/angelmondragon/scrappickup-backend/pkg/config"
	"github.com/angelmondragon/scrappickup-backend/pkg/logger"
)

// Client owns the Pub/Sub connection and the pickups topic publisher.
type Client struct {
	client *pubsub.Client
	topic  string
	pickup *pubsub.Publisher
}

// NewClient connects to Pub/Sub and fails when the pickups topic is missing.
func NewClient(ctx context.Context, gcp config.GCPConfig, cfg config.PubSubConfig, logg *logger.Logger) (*Client, error) {
	topic := topicResourceName(gcp.ProjectID, cfg.PickupsTopic)
	if topic == "" {
		return nil, errors.New("pubsub requires a gcp project id and pickups topic")
	}

	psClient, err := pubsub.NewClient(ctx, strings.TrimSpace(gcp.ProjectID))
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}
	c := &Client{client: psClient, topic: topic}
	if err := c.Ping(ctx); err != nil {
		_ = psClient.Close()
		return nil, err
	}
	c.pickup = psClient.Publisher(topic)

	if logg != nil {
		logg.Info(logg.WithField(ctx, "topic", topic), "pubsub client initialized")
	}
	return c, nil
}

// Events returns the enveloping publisher for pickup lifecycle events.
func (c *Client) Events() (*TopicPublisher, error) {
	if c == nil {
		return nil, errors.New("pubsub client not initialized")
	}
	return NewTopicPublisher(c.pickup)
}

// Ping checks that the pickups topic is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.client == nil {
		return errors.New("pubsub client not initialized")
	}
	_, err := c.client.TopicAdminClient.GetTopic(ctx, &pubsubpb.GetTopicRequest{Topic: c.topic})
	switch {
	case err == nil:
		return nil
	case status.Code(err) == codes.NotFound:
		return fmt.Errorf("topic %q does not exist", c.topic)
	default:
		return fmt.Errorf("checking topic %q: %w", c.topic, err)
	}
}

// Close flushes pending publishes and releases the connection.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	if c.pickup != nil {
		c.pickup.Stop()
	}
	return c.client.Close()
}

// topicResourceName accepts a bare topic ID or a full resource name.
func topicResourceName(projectID, name string) string {
	name = strings.TrimSpace(name)
	if strings.HasPrefix(name, "projects/") && strings.Contains(name, "/topics/") {
		return name
	}
	projectID = strings.TrimSpace(projectID)
	if name == "" || projectID == "" {
		return ""
	}
	return "projects/" + projectID + "/topics/" + name
}
