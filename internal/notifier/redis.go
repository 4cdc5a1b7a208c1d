// Package notifier pushes live-game notifications to viewers over Redis
// pub/sub. Delivery is fire and forget: a dropped message costs a viewer
// one refresh, never a recorded event.
package notifier

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const publishTimeout = 2 * time.Second

// RedisPublisher satisfies service.Publisher on top of a go-redis client.
type RedisPublisher struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewRedisPublisher(client *redis.Client, logger zerolog.Logger) *RedisPublisher {
	l := logger.With().Str("module", "notifier").Str("component", "redis").Logger()
	return &RedisPublisher{client: client, log: l}
}

// Publish marshals the payload and publishes it on the topic channel.
// Failures are logged and swallowed; correctness never depends on a viewer
// hearing about an event.
func (p *RedisPublisher) Publish(ctx context.Context, topic string, payload any) {
	b, err := json.Marshal(payload)
	if err != nil {
		p.log.Warn().Err(err).Str("topic", topic).Msg("notification payload not serializable")
		return
	}

	// Detach from the request deadline but keep a cap so a dead broker
	// can't pile up goroutines.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := p.client.Publish(pubCtx, topic, b).Err(); err != nil {
		p.log.Warn().Err(err).Str("topic", topic).Msg("notification publish failed")
	}
}
