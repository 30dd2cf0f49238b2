package api

import (
	"sync"
	"time"
)

// PipelineEvent is the wire form of a capture-lifecycle notification pushed
// to websocket subscribers.
type PipelineEvent struct {
	Kind      string    `json:"kind"`
	Mode      string    `json:"mode,omitempty"`
	Path      string    `json:"path,omitempty"`
	URL       string    `json:"url,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// EventHub fans pipeline events out to websocket subscribers. Slow
// subscribers are skipped rather than blocking the capture pipeline.
type EventHub struct {
	mu   sync.Mutex
	subs map[chan PipelineEvent]struct{}
}

// NewEventHub creates an empty hub.
func NewEventHub() *EventHub {
	return &EventHub{subs: make(map[chan PipelineEvent]struct{})}
}

// Subscribe returns a channel of future events.
func (h *EventHub) Subscribe() chan PipelineEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch := make(chan PipelineEvent, 16)
	h.subs[ch] = struct{}{}
	return ch
}

// Unsubscribe removes and closes a subscriber channel.
func (h *EventHub) Unsubscribe(ch chan PipelineEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
}

// Publish delivers an event to every subscriber that has buffer room.
func (h *EventHub) Publish(ev PipelineEvent) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Close drops every subscriber.
func (h *EventHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		delete(h.subs, ch)
		close(ch)
	}
}
