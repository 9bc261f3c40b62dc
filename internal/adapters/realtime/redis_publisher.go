package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"github.com/campus-hub/scolarite/student-docs-service/internal/config"
	"github.com/campus-hub/scolarite/student-docs-service/internal/core/ports"
)

// RedisPublisher implements ports.ChannelPublisher over Redis pub/sub,
// one Redis channel per logical channel. Other instances (and the
// websocket edge) subscribe to the same channels.
type RedisPublisher struct {
	client *redis.Client
	cb     *gobreaker.CircuitBreaker
}

var _ ports.ChannelPublisher = (*RedisPublisher)(nil)

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{
		client: client,
		cb:     config.NewCircuitBreaker("Redis-Channels"),
	}
}

// envelope frames a published payload with its event name so
// subscribers can route without inspecting the payload.
type envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

func (p *RedisPublisher) Publish(ctx context.Context, channel, event string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	body, err := json.Marshal(envelope{Event: event, Payload: raw})
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	// Circuit breaker keeps a down Redis from stalling every dispatch
	_, err = p.cb.Execute(func() (interface{}, error) {
		return nil, p.client.Publish(ctx, channel, body).Err()
	})
	if err != nil {
		return fmt.Errorf("redis publish %s: %w", channel, err)
	}
	return nil
}
