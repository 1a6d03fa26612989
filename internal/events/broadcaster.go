package events

import (
	"context"
	"encoding/json"
	"sync"
)

// Broadcaster pushes live updates to listeners subscribed to a topic.
// Publishing to a topic with no listeners is not an error.
type Broadcaster interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// Hub is an in-process Broadcaster. Subscribers receive raw JSON frames on
// a buffered channel; a subscriber that falls behind drops frames rather
// than blocking the publisher.
type Hub struct {
	mu     sync.RWMutex
	topics map[string]map[chan []byte]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{topics: make(map[string]map[chan []byte]struct{})}
}

// Subscribe registers a listener on topic and returns its frame channel.
func (h *Hub) Subscribe(topic string) chan []byte {
	ch := make(chan []byte, 16)
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.topics[topic]
	if !ok {
		subs = make(map[chan []byte]struct{})
		h.topics[topic] = subs
	}
	subs[ch] = struct{}{}
	return ch
}

// Unsubscribe removes a listener and closes its channel.
func (h *Hub) Unsubscribe(topic string, ch chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.topics[topic]
	if !ok {
		return
	}
	if _, present := subs[ch]; !present {
		return
	}
	delete(subs, ch)
	close(ch)
	if len(subs) == 0 {
		delete(h.topics, topic)
	}
}

// Publish delivers payload to every current subscriber of topic.
func (h *Hub) Publish(ctx context.Context, topic string, payload any) error {
	frame, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.topics[topic] {
		select {
		case ch <- frame:
		default:
		}
	}
	return nil
}
