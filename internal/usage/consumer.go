package usage

import (
	"context"
	"errors"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/angelmondragon/bitefinderz-backend/pkg/logger"
)

// RowSink receives flattened usage rows, typically the BigQuery Writer.
type RowSink interface {
	Insert(ctx context.Context, row UsageRow) error
}

// Consumer drains the usage subscription into a row sink.
//
// Malformed messages are acked: a payload that failed to decode once will
// fail forever, and redelivering it only clogs the subscription. Sink
// failures are nacked so Pub/Sub redelivers.
type Consumer struct {
	subscription *gcppubsub.Subscriber
	sink         RowSink
	logg         *logger.Logger
	now          func() time.Time
}

// NewConsumer creates a usage consumer.
func NewConsumer(subscription *gcppubsub.Subscriber, sink RowSink, logg *logger.Logger) (*Consumer, error) {
	if subscription == nil {
		return nil, errors.New("usage subscription is required")
	}
	if sink == nil {
		return nil, errors.New("row sink is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &Consumer{
		subscription: subscription,
		sink:         sink,
		logg:         logg,
		now:          time.Now,
	}, nil
}

// Run consumes usage messages until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(innerCtx context.Context, msg *gcppubsub.Message) {
		if c.process(innerCtx, msg.ID, msg.Data).nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	nack bool
}

func (c *Consumer) process(ctx context.Context, messageID string, data []byte) processResult {
	logCtx := c.logg.WithField(ctx, "message_id", messageID)

	envelope, err := DecodeEnvelope(data)
	if err != nil {
		c.logg.Warn(logCtx, "dropping malformed usage message: "+err.Error())
		return processResult{}
	}
	logCtx = c.logg.WithField(logCtx, "event_id", envelope.EventID.String())

	row, err := RowFromEnvelope(envelope, c.now())
	if err != nil {
		c.logg.Warn(logCtx, "dropping unusable usage event: "+err.Error())
		return processResult{}
	}

	if err := c.sink.Insert(logCtx, row); err != nil {
		c.logg.Error(logCtx, "writing usage row failed", err)
		return processResult{nack: true}
	}

	c.logg.Info(logCtx, "usage event recorded")
	return processResult{}
}
