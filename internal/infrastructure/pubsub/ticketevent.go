package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/nrjbutsecond/tessera/internal/domain/ticketing"
)

// TicketChangeChannel carries one JSON message per lifecycle transition.
const TicketChangeChannel = "tessera:ticket:change"

// RedisPublisher fans ticket lifecycle changes out over redis pub/sub.
// Delivery is best-effort; consumers needing durability read the tickets
// table.
type RedisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

func (p *RedisPublisher) PublishTicketChange(ctx context.Context, event ticketing.TicketEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal ticket event: %w", err)
	}

	if err := p.client.Publish(ctx, TicketChangeChannel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish ticket event: %w", err)
	}
	return nil
}
