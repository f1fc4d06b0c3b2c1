package usage

import (
	"context"
	"fmt"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	pkgpubsub "github.com/angelmondragon/bitefinderz-backend/pkg/pubsub"
)

// TopicPublisher adapts the shared Pub/Sub client to the Publisher interface.
type TopicPublisher struct {
	publisher *gcppubsub.Publisher
}

// NewTopicPublisher binds to the configured usage topic.
func NewTopicPublisher(client *pkgpubsub.Client) (*TopicPublisher, error) {
	publisher := client.UsagePublisher()
	if publisher == nil {
		return nil, fmt.Errorf("usage topic not configured")
	}
	return &TopicPublisher{publisher: publisher}, nil
}

// PublishUsage publishes one encoded envelope and waits for server ack.
func (p *TopicPublisher) PublishUsage(ctx context.Context, data []byte) error {
	result := p.publisher.Publish(ctx, &gcppubsub.Message{Data: data})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("publishing to usage topic: %w", err)
	}
	return nil
}

// Stop flushes pending publishes. Call during shutdown.
func (p *TopicPublisher) Stop() {
	p.publisher.Stop()
}
