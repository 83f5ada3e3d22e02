package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/contact-backend/internal/config"
)

// RedisBroker publishes events over Redis Pub/Sub so every server instance
// sees every triage change.
type RedisBroker struct {
	rdb     *redis.Client
	channel string
	log     zerolog.Logger
}

// NewRedisBroker creates a RedisBroker on the message feed channel.
func NewRedisBroker(rdb *redis.Client, log zerolog.Logger) *RedisBroker {
	return &RedisBroker{
		rdb:     rdb,
		channel: config.CacheKey.MessageFeedChannel(),
		log:     log.With().Str("component", "event_broker").Logger(),
	}
}

// Publish encodes e as JSON and publishes it on the feed channel.
func (b *RedisBroker) Publish(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := b.rdb.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// Subscribe opens a Pub/Sub subscription and decodes incoming payloads.
// Malformed payloads are logged and skipped.
func (b *RedisBroker) Subscribe(ctx context.Context) (<-chan Event, func(), error) {
	pubsub := b.rdb.Subscribe(ctx, b.channel)

	// Wait for the subscription confirmation so no event published after
	// Subscribe returns is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, nil, fmt.Errorf("subscribe %s: %w", b.channel, err)
	}

	out := make(chan Event, subscriberBuffer)
	done := make(chan struct{})
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			pubsub.Close()
		})
	}

	go func() {
		defer close(out)
		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				cancel()
				return
			case <-done:
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var e Event
				if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
					b.log.Warn().Err(err).Msg("Dropping malformed feed payload")
					continue
				}
				select {
				case out <- e:
				default:
				}
			}
		}
	}()

	return out, cancel, nil
}
