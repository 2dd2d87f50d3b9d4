// Package redis carries serialized tenant events over Redis pub/sub.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// publishTimeout bounds a single PUBLISH.
const publishTimeout = 2 * time.Second

// subscriberBuffer is the number of payloads held for a slow reader before
// delivery blocks.
const subscriberBuffer = 64

type PubSub struct {
	client *redis.Client
	addr   string
}

// New connects to Redis and verifies the connection with PING.
func New(ctx context.Context, addr, password string, db int) (*PubSub, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis.New: ping: %w", err)
	}

	return &PubSub{client: client, addr: addr}, nil
}

func (ps *PubSub) Close() error {
	if err := ps.client.Close(); err != nil {
		return fmt.Errorf("redis.PubSub.Close: %w", err)
	}
	return nil
}

// Publish sends payload to channel. Having no subscribers is not an error.
func (ps *PubSub) Publish(ctx context.Context, channel string, payload []byte) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	receivers, err := ps.client.Publish(ctx, channel, payload).Result()
	if err != nil {
		return fmt.Errorf("redis.PubSub.Publish: %w", err)
	}

	log.Debug().
		Str("channel", channel).
		Int64("receivers", receivers).
		Msg("redis: event published")
	return nil
}

// Subscribe streams payloads from channel until ctx is done or the cleanup
// func is called. The returned channel is closed when delivery stops.
func (ps *PubSub) Subscribe(ctx context.Context, channel string) (<-chan []byte, func(), error) {
	sub := ps.client.Subscribe(ctx, channel)

	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("redis.PubSub.Subscribe: receive confirmation: %w", err)
	}
	log.Info().Str("addr", ps.addr).Str("channel", channel).Msg("redis: subscribed")

	out := make(chan []byte, subscriberBuffer)
	go forward(ctx, sub.Channel(), out, channel)

	cleanup := func() {
		_ = sub.Close()
	}
	return out, cleanup, nil
}

func forward(ctx context.Context, in <-chan *redis.Message, out chan<- []byte, channel string) {
	defer close(out)
	defer func() {
		log.Debug().Str("channel", channel).Msg("redis: subscription ended")
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-in:
			if !ok {
				return
			}
			select {
			case out <- []byte(msg.Payload):
			case <-ctx.Done():
				return
			}
		}
	}
}
