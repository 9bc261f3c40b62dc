package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/campus-hub/scolarite/student-docs-service/internal/core/ports"
)

const subscriberBuffer = 16

// Hub is the in-process channel registry backing the SSE endpoint.
// Subscribers attach to a named channel and receive every message
// published on it until they detach. A slow subscriber never blocks a
// publish; messages it cannot buffer are dropped.
type Hub struct {
	mu       sync.RWMutex
	channels map[string]map[chan []byte]struct{}
}

var _ ports.ChannelPublisher = (*Hub)(nil)

func NewHub() *Hub {
	return &Hub{channels: make(map[string]map[chan []byte]struct{})}
}

// Subscribe attaches to a channel. The returned cancel func detaches
// and closes the message stream; it is safe to call more than once.
func (h *Hub) Subscribe(channel string) (<-chan []byte, func()) {
	ch := make(chan []byte, subscriberBuffer)

	h.mu.Lock()
	subs, ok := h.channels[channel]
	if !ok {
		subs = make(map[chan []byte]struct{})
		h.channels[channel] = subs
	}
	subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			if subs, ok := h.channels[channel]; ok {
				delete(subs, ch)
				if len(subs) == 0 {
					delete(h.channels, channel)
				}
			}
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (h *Hub) Publish(_ context.Context, channel, event string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	body, err := json.Marshal(envelope{Event: event, Payload: raw})
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.channels[channel] {
		select {
		case ch <- body:
		default:
			// subscriber buffer full, drop rather than block the publish
		}
	}
	return nil
}

// SubscriberCount reports how many clients are attached to a channel.
func (h *Hub) SubscriberCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels[channel])
}
