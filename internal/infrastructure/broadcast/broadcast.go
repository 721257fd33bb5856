// Package broadcast delivers "sale completed" events to a shop's live listeners.
package broadcast

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sangkips/duka-pos/internal/domain/entity"
	"github.com/sangkips/duka-pos/internal/logger"
)

// EventSaleCompleted is the event name carried in every envelope
const EventSaleCompleted = "sale_completed"

// Envelope is the wire format published on a shop channel
type Envelope struct {
	Event string                    `json:"event"`
	Data  entity.SaleCompletedEvent `json:"data"`
}

// ShopChannel is the pub/sub channel of one shop
func ShopChannel(shopID uuid.UUID) string {
	return "pos:" + shopID.String()
}

// RedisPublisher publishes events over Redis Pub/Sub
type RedisPublisher struct {
	rdb *redis.Client
}

// NewRedisPublisher creates a publisher on top of a go-redis client
func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

// PublishSaleCompleted sends the event to the shop channel
func (p *RedisPublisher) PublishSaleCompleted(ctx context.Context, event entity.SaleCompletedEvent) error {
	payload, err := json.Marshal(Envelope{Event: EventSaleCompleted, Data: event})
	if err != nil {
		return fmt.Errorf("encode sale event: %w", err)
	}
	if err := p.rdb.Publish(ctx, ShopChannel(event.ShopID), payload).Err(); err != nil {
		return fmt.Errorf("publish sale event: %w", err)
	}
	return nil
}

// LogPublisher only logs events. It is used when Redis is disabled.
type LogPublisher struct {
	log zerolog.Logger
}

// NewLogPublisher creates a publisher that writes events to the log
func NewLogPublisher() *LogPublisher {
	return &LogPublisher{log: logger.WithComponent("broadcast")}
}

func (p *LogPublisher) PublishSaleCompleted(_ context.Context, event entity.SaleCompletedEvent) error {
	p.log.Info().
		Str("event", EventSaleCompleted).
		Str("sale_id", event.SaleID.String()).
		Str("shop_id", event.ShopID.String()).
		Str("total", event.Total.StringFixed(2)).
		Int("item_count", event.ItemCount).
		Msg("sale completed")
	return nil
}

// Subscribe delivers decoded envelopes for a shop to handle until ctx is cancelled.
// Malformed messages are logged and skipped.
func Subscribe(ctx context.Context, rdb *redis.Client, shopID uuid.UUID, handle func(Envelope)) error {
	log := logger.WithComponent("broadcast")

	sub := rdb.Subscribe(ctx, ShopChannel(shopID))
	defer sub.Close()

	// Wait for the subscription to be confirmed before reading
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", ShopChannel(shopID), err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var env Envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				log.Warn().Err(err).Str("channel", msg.Channel).Msg("dropping malformed event")
				continue
			}
			handle(env)
		}
	}
}
