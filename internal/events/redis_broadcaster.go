package events

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/redis/go-redis/v9"
)

const topicPrefix = "helpdesk:topic:"

// RedisBroadcaster publishes topic frames over Redis pub/sub so listeners
// connected to any node receive them. Frames come back to each node via
// Listen, which feeds the local hub; Publish itself never touches the hub,
// so local subscribers see every frame exactly once.
type RedisBroadcaster struct {
	client *redis.Client
	local  *Hub
}

// NewRedisBroadcaster wraps a redis client. local receives frames forwarded
// by Listen.
func NewRedisBroadcaster(client *redis.Client, local *Hub) *RedisBroadcaster {
	return &RedisBroadcaster{client: client, local: local}
}

// Publish sends payload to the topic channel.
func (b *RedisBroadcaster) Publish(ctx context.Context, topic string, payload any) error {
	frame, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, topicPrefix+topic, frame).Err()
}

// Listen pattern-subscribes to every topic channel and forwards frames into
// the local hub until ctx is cancelled.
func (b *RedisBroadcaster) Listen(ctx context.Context) error {
	if b.local == nil {
		return nil
	}
	sub := b.client.PSubscribe(ctx, topicPrefix+"*")
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			topic := strings.TrimPrefix(msg.Channel, topicPrefix)
			_ = b.local.Publish(ctx, topic, json.RawMessage(msg.Payload))
		}
	}
}
