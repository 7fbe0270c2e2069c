package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis pub/sub carries packs between the quiz engine and the websocket
// proxy. A single broker covers a single-region deployment; ordering is
// per-publisher, which is enough because every room has exactly one engine.

type redisPublisher struct {
	redisClient *redis.Client
}

func NewPublisher(redisClient *redis.Client) Publisher {
	return &redisPublisher{redisClient: redisClient}
}

func (p *redisPublisher) Publish(ctx context.Context, topic string, pack *Pack) error {
	b, err := json.Marshal(pack)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	if err := p.redisClient.Publish(ctx, topic, b).Err(); err != nil {
		return fmt.Errorf("redisClient.Publish: %w", err)
	}

	return nil
}

type redisSubscriber struct {
	redisClient *redis.Client
	handler     SubscribeHandler
	topics      []string

	sub *redis.PubSub
}

func NewSubscriber(
	redisClient *redis.Client,
	handler SubscribeHandler,
	topics ...string,
) Subscriber {
	return &redisSubscriber{
		redisClient: redisClient,
		handler:     handler,
		topics:      topics,
	}
}

func (s *redisSubscriber) Subscribe(ctx context.Context) {
	s.sub = s.redisClient.Subscribe(ctx, s.topics...)
	for msg := range s.sub.Channel() {
		var pack Pack
		if err := json.Unmarshal([]byte(msg.Payload), &pack); err != nil {
			continue
		}

		s.handler(ctx, msg.Channel, &pack, time.Now())
	}
}

func (s *redisSubscriber) Stop(ctx context.Context) error {
	if s.sub == nil {
		return nil
	}

	return s.sub.Close()
}
